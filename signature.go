package mws

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// Signature parameters
const (
	SignatureMethod  = "HmacSHA256"
	SignatureVersion = "2"
)

// escape applies RFC 3986 percent-encoding: unreserved characters stay,
// spaces become %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// CanonicalQuery joins p as key=value pairs sorted by key byte order.
func CanonicalQuery(p Params) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(k))
		b.WriteByte('=')
		b.WriteString(escape(p[k]))
	}
	return b.String()
}

// StringToSign builds the signature version 2 payload.
func StringToSign(method, host, path string, p Params) string {
	if path == "" {
		path = "/"
	}
	return strings.Join([]string{
		strings.ToUpper(method),
		strings.ToLower(host),
		path,
		CanonicalQuery(p),
	}, "\n")
}

// Sign computes the base64 HMAC-SHA256 signature of the request.
// p must not contain a Signature entry.
func Sign(secret, method, host, path string, p Params) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(StringToSign(method, host, path, p)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
