package mws

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSellerID  = "A1SELLER"
	testAccessKey = "AKIDEXAMPLE"
	testSecretKey = "secret"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// recorder captures the parameters of every request the test server sees.
type recorder struct {
	calls  atomic.Int32
	params chan url.Values
}

func (r *recorder) last(t *testing.T) url.Values {
	t.Helper()
	select {
	case v := <-r.params:
		return v
	default:
		t.Fatal("no request recorded")
		return nil
	}
}

// newTestClient starts a server that verifies the request signature, records
// the parameters and answers with respond.
func newTestClient(t *testing.T, respond http.HandlerFunc, opts ...ClientOption) (*Client, *recorder) {
	t.Helper()

	rec := &recorder{params: make(chan url.Values, 16)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.calls.Add(1)

		params := r.URL.Query()
		if r.URL.RawQuery == "" {
			if !assert.NoError(t, r.ParseForm()) {
				return
			}
			params = r.PostForm
		}
		assertSigned(t, r, params)
		rec.params <- params

		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	base := []ClientOption{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRetryConfig(2, time.Millisecond),
		WithRateLimit(0),
		WithClock(func() time.Time { return testNow }),
		WithLogger(zerolog.Nop()),
	}
	c, err := NewClient(testSellerID, testAccessKey, testSecretKey, "US", append(base, opts...)...)
	require.NoError(t, err)
	return c, rec
}

func assertSigned(t *testing.T, r *http.Request, params url.Values) {
	t.Helper()
	p := Params{}
	for k := range params {
		p[k] = params.Get(k)
	}
	sig := p[ParamSignature]
	delete(p, ParamSignature)
	assert.Equal(t, Sign(testSecretKey, r.Method, r.Host, r.URL.EscapedPath(), p), sig, "signature")
}

// xmlResponse answers every request with body.
func xmlResponse(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, body)
	}
}

func errorResponse(status int, code, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<ErrorResponse><Error><Type>Sender</Type><Code>%s</Code><Message>%s</Message></Error><RequestID>err-req</RequestID></ErrorResponse>`, code, message)
	}
}

// withoutEnvelope strips the common parameters so tests can compare only
// what an operation contributes.
func withoutEnvelope(p Params) Params {
	out := Params{}
	for k, v := range p {
		switch k {
		case ParamAccessKeyID, ParamAction, ParamAuthToken, ParamSignature, ParamSignatureMethod,
			ParamSignatureVersion, ParamTimestamp, ParamVersion, AccountSellerID, AccountMerchant:
			continue
		}
		out[k] = v
	}
	return out
}

func valuesToParams(v url.Values) Params {
	p := Params{}
	for k := range v {
		p[k] = v.Get(k)
	}
	return p
}

func boolPtr(b bool) *bool { return &b }
