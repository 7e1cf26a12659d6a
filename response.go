package mws

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes with special handling
const (
	ErrCodeThrottled        = "RequestThrottled"
	ErrCodeQuotaExceeded    = "QuotaExceeded"
	ErrCodeInvalidParameter = "InvalidParameterValue"
	ErrCodeAccessDenied     = "AccessDenied"
	ErrCodeSignature        = "SignatureDoesNotMatch"
)

// ErrThrottled matches API errors that ask the caller to slow down.
var ErrThrottled = errors.New("mws: request throttled")

// ErrContentMD5Mismatch is returned when a downloaded document does not match
// the digest the server announced for it.
var ErrContentMD5Mismatch = errors.New("mws: content MD5 mismatch")

// Error represents an MWS ErrorResponse.
type Error struct {
	StatusCode int    `xml:"-"`
	Type       string `xml:"Error>Type"`
	Code       string `xml:"Error>Code"`
	Message    string `xml:"Error>Message"`
	RequestID  string `xml:"RequestID"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("MWS API Error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("MWS API Error (%d): %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is reports whether target is ErrThrottled and the error is a throttling
// response.
func (e *Error) Is(target error) bool {
	return target == ErrThrottled && e.throttled()
}

func (e *Error) throttled() bool {
	return e.StatusCode == http.StatusServiceUnavailable ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.Code == ErrCodeThrottled ||
		e.Code == ErrCodeQuotaExceeded
}

// retryable covers throttling and server-side failures.
func (e *Error) retryable() bool {
	return e.throttled() || e.StatusCode >= 500
}

func parseError(resp *http.Response, body []byte) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	if err := xml.Unmarshal(body, apiErr); err != nil || (apiErr.Code == "" && apiErr.Message == "") {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.RequestID == "" {
		apiErr.RequestID = requestIDFromHeader(resp.Header)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// Response is a successful raw API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// Decode unmarshals the XML body into v.
func (r *Response) Decode(v any) error {
	if err := xml.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// VerifyContentMD5 compares the body with the Content-MD5 header. Responses
// without the header pass.
func (r *Response) VerifyContentMD5() error {
	want := r.Header.Get("Content-MD5")
	if want == "" {
		return nil
	}
	if got := ContentMD5(r.Body); got != want {
		return fmt.Errorf("%w: header %s, body %s", ErrContentMD5Mismatch, want, got)
	}
	return nil
}

func newResponse(resp *http.Response, body []byte) *Response {
	r := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		RequestID:  requestIDFromHeader(resp.Header),
	}
	if r.RequestID == "" && isXML(resp.Header) {
		var meta struct {
			RequestID string `xml:"ResponseMetadata>RequestId"`
		}
		if xml.Unmarshal(body, &meta) == nil {
			r.RequestID = meta.RequestID
		}
	}
	return r
}

func requestIDFromHeader(h http.Header) string {
	if id := h.Get("x-mws-request-id"); id != "" {
		return id
	}
	return h.Get("x-amzn-RequestId")
}

func isXML(h http.Header) bool {
	ct := h.Get("Content-Type")
	return ct == "" || strings.Contains(ct, "xml")
}

// ServiceStatus is the result of a GetServiceStatus call.
type ServiceStatus struct {
	Status    string `xml:"GetServiceStatusResult>Status"`
	Timestamp string `xml:"GetServiceStatusResult>Timestamp"`
	MessageID string `xml:"GetServiceStatusResult>MessageId"`
}

// NextTokenOf extracts the pagination token of a list response, or "" when
// the last page was reached.
func NextTokenOf(r *Response) string {
	d := xml.NewDecoder(bytes.NewReader(r.Body))
	for {
		tok, err := d.Token()
		if err != nil {
			return ""
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "NextToken" {
			continue
		}
		var token string
		if err := d.DecodeElement(&token, &start); err != nil {
			return ""
		}
		return strings.TrimSpace(token)
	}
}
