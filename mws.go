// Package mws provides a Go client library for the Amazon Marketplace Web
// Service (MWS) API.
//
// The client supports the main MWS sections:
//   - Merchant fulfillment (shipping services and labels)
//   - Orders and order items
//   - Fulfillment inventory supply
//   - Sellers, products and pricing lookups
//   - Feeds and reports
//
// Call arguments are typed request structs. They are flattened into the
// dotted parameter keys MWS expects (ShipFromAddress.City,
// ItemList.Item.1.OrderItemId), merged with the signed envelope and posted.
//
// Example usage:
//
//	client, err := mws.NewClient("A1SELLER", "access-key", "secret-key", "US")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.MerchantFulfillment.GetShipment(ctx, "UCXN7ZubAj")
//	if err != nil {
//	    log.Fatal("GetShipment failed:", err)
//	}
//	fmt.Println(string(resp.Body))
package mws

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	mwslog "github.com/vahaponur/mws-go/internal/log"
)

const tracerName = "github.com/vahaponur/mws-go"

// Envelope parameter names
const (
	ParamAccessKeyID      = "AWSAccessKeyId"
	ParamAction           = "Action"
	ParamAuthToken        = "MWSAuthToken"
	ParamSignature        = "Signature"
	ParamSignatureMethod  = "SignatureMethod"
	ParamSignatureVersion = "SignatureVersion"
	ParamTimestamp        = "Timestamp"
	ParamVersion          = "Version"
)

// TimestampFormat is the envelope timestamp layout (UTC, second precision).
const TimestampFormat = "2006-01-02T15:04:05Z"

const formContentType = "application/x-www-form-urlencoded; charset=utf-8"

// ClientOption is a functional option for configuring the client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetryConfig sets retry configuration
func WithRetryConfig(maxRetries int, retryDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryDelay = retryDelay
	}
}

// WithRateLimit sets rate limiting configuration. Zero or less disables it.
func WithRateLimit(requestsPerMinute int) ClientOption {
	return func(c *Client) {
		c.limiter = newLimiter(requestsPerMinute)
	}
}

// WithUserAgent sets a custom user agent
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAuthToken sets the MWSAuthToken sent when acting for another seller.
func WithAuthToken(token string) ClientOption {
	return func(c *Client) {
		c.authToken = token
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the zerolog logger used for request logging.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithClock replaces the time source used for envelope timestamps.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// WithTracerProvider sets the provider spans are recorded with. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// WithOperations adds or replaces catalog entries.
func WithOperations(ops ...Operation) ClientOption {
	return func(c *Client) {
		for _, op := range ops {
			c.operations[op.Action] = op
		}
	}
}

// Client represents the MWS API client
type Client struct {
	baseURL       string
	marketplaceID string
	sellerID      string
	accessKey     string
	secretKey     string
	authToken     string
	userAgent     string
	httpClient    *http.Client
	maxRetries    int
	retryDelay    time.Duration
	limiter       *rate.Limiter
	logger        zerolog.Logger
	metrics       *clientMetrics
	tracer        trace.Tracer
	now           func() time.Time

	endpoints  map[string]string // section path overrides
	operations Operations

	// Service interfaces
	MerchantFulfillment MerchantFulfillmentService
	Orders              OrderService
	Inventory           InventoryService
	Sellers             SellerService
	Products            ProductService
	Feeds               FeedService
	Reports             ReportService
}

// NewClient creates a client for the marketplace with the given two-letter
// country code.
func NewClient(sellerID, accessKey, secretKey, marketplace string, opts ...ClientOption) (*Client, error) {
	m, ok := LookupMarketplace(marketplace)
	if !ok {
		return nil, fmt.Errorf("unknown marketplace %q", marketplace)
	}
	if sellerID == "" || accessKey == "" || secretKey == "" {
		return nil, errors.New("seller ID, access key and secret key are required")
	}

	c := &Client{
		baseURL:       m.BaseURL,
		marketplaceID: m.ID,
		sellerID:      sellerID,
		accessKey:     accessKey,
		secretKey:     secretKey,
		userAgent:     "mws-go/1.0 (Language=Go)",
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxRetries: 3,
		retryDelay: time.Second,
		limiter:    newLimiter(60), // Default 60 requests per minute
		logger:     mwslog.WithComponent("mws"),
		metrics:    newClientMetrics(nil),
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
		operations: DefaultOperations(),
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	// Initialize services
	c.MerchantFulfillment = &merchantFulfillmentService{client: c}
	c.Orders = &orderService{client: c}
	c.Inventory = &inventoryService{client: c}
	c.Sellers = &sellerService{client: c}
	c.Products = &productService{client: c}
	c.Feeds = &feedService{client: c}
	c.Reports = &reportService{client: c}

	return c, nil
}

func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
}

// Request represents one API call before the envelope is attached.
type Request struct {
	Section     string
	Action      string
	Params      Params
	Body        []byte
	ContentType string
}

// Envelope returns the common parameters for action in section.
func (c *Client) Envelope(section Section, action string) Params {
	p := Params{
		ParamAccessKeyID:      c.accessKey,
		ParamAction:           action,
		section.AccountKey:    c.sellerID,
		ParamSignatureMethod:  SignatureMethod,
		ParamSignatureVersion: SignatureVersion,
		ParamTimestamp:        c.now().UTC().Format(TimestampFormat),
		ParamVersion:          section.Version,
	}
	if c.authToken != "" {
		p[ParamAuthToken] = c.authToken
	}
	return p
}

func mergeEnvelope(env, args Params) (Params, error) {
	out := make(Params, len(env)+len(args))
	for k, v := range env {
		out[k] = v
	}
	for k, v := range args {
		if _, clash := env[k]; clash || k == ParamSignature {
			return nil, fmt.Errorf("%w: %s collides with an envelope parameter", ErrDuplicateParam, k)
		}
		out[k] = v
	}
	return out, nil
}

// prepare validates args against the catalog entry of action and flattens
// them. section overrides the catalog section when the operation has none.
func (c *Client) prepare(section, action string, args Args) (*Request, error) {
	op, err := c.operations.Lookup(action)
	if err != nil {
		return nil, err
	}
	if op.Section != "" {
		if section != "" && section != op.Section {
			return nil, fmt.Errorf("%s belongs to section %s, not %s", action, op.Section, section)
		}
		section = op.Section
	}
	if section == "" {
		return nil, fmt.Errorf("%s: section is required", action)
	}

	normalized, err := op.Normalize(args)
	if err != nil {
		return nil, err
	}
	params, err := normalized.Flatten()
	if err != nil {
		return nil, err
	}
	return &Request{Section: section, Action: action, Params: params}, nil
}

// BuildParams returns the full parameter set for action, envelope included,
// without signing or sending it.
func (c *Client) BuildParams(section, action string, args Args) (Params, error) {
	req, err := c.prepare(section, action, args)
	if err != nil {
		return nil, err
	}
	s, ok := c.section(req.Section)
	if !ok {
		return nil, fmt.Errorf("unknown section %q", req.Section)
	}
	return mergeEnvelope(c.Envelope(s, action), req.Params)
}

// Call invokes action with loosely typed arguments. Nested maps become
// structs, slices become lists; the catalog decides list labels and checks
// every shape before anything is sent.
func (c *Client) Call(ctx context.Context, section, action string, args map[string]any) (*Response, error) {
	typed, err := ArgsOf(args)
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, section, action, typed)
}

func (c *Client) invoke(ctx context.Context, section, action string, args Args) (*Response, error) {
	req, err := c.prepare(section, action, args)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// ContextWithCorrelationID returns a context whose calls log id as
// correlation_id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return mwslog.ContextWithCorrelationID(ctx, id)
}

// Do executes an API request with automatic retry and rate limiting
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "mws."+req.Action, trace.WithAttributes(
		attribute.String("mws.section", req.Section),
		attribute.String("mws.action", req.Action),
	))
	defer span.End()
	if cid := mwslog.CorrelationIDFromContext(ctx); cid != "" {
		span.SetAttributes(attribute.String("mws.correlation_id", cid))
	}

	l := mwslog.WithContext(ctx, c.logger).With().
		Str(mwslog.FieldHost, c.baseURL).
		Str(mwslog.FieldSection, req.Section).
		Str(mwslog.FieldAction, req.Action).
		Logger()
	start := time.Now()

	resp, err := c.retry(ctx, req, l)

	c.metrics.duration.WithLabelValues(req.Section, req.Action).Observe(time.Since(start).Seconds())
	c.metrics.requests.WithLabelValues(req.Section, req.Action, outcomeCode(resp, err)).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ev := l.Error().Err(err).Dur(mwslog.FieldDuration, time.Since(start))
		var apiErr *Error
		if errors.As(err, &apiErr) {
			ev = ev.Str(mwslog.FieldErrorCode, apiErr.Code).Str(mwslog.FieldRequestID, apiErr.RequestID)
		}
		ev.Msg("mws request failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("mws.request_id", resp.RequestID))
	return resp, nil
}

func (c *Client) retry(ctx context.Context, req *Request, l zerolog.Logger) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			c.metrics.retries.WithLabelValues(req.Section, req.Action).Inc()
			l.Warn().Err(lastErr).Int(mwslog.FieldAttempt, attempt).Dur("delay", delay).Msg("retrying mws request")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		// Every attempt, retries included, counts against the rate limit
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}

		l.Debug().Int(mwslog.FieldAttempt, attempt).Msg("sending mws request")
		resp, err := c.doRequest(ctx, req)
		if err == nil {
			l.Debug().
				Int(mwslog.FieldStatusCode, resp.StatusCode).
				Str(mwslog.FieldRequestID, resp.RequestID).
				Msg("mws request succeeded")
			return resp, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, err
		}

		// Client errors are final, except throttling
		var apiErr *Error
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return nil, err
		}
		var permanent *permanentError
		if errors.As(err, &permanent) {
			return nil, permanent.err
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// permanentError marks failures that a retry cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func (c *Client) doRequest(ctx context.Context, req *Request) (*Response, error) {
	section, ok := c.section(req.Section)
	if !ok {
		return nil, &permanentError{fmt.Errorf("unknown section %q", req.Section)}
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("invalid base URL: %w", err)}
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + section.Path

	params, err := mergeEnvelope(c.Envelope(section, req.Action), req.Params)
	if err != nil {
		return nil, &permanentError{err}
	}
	params[ParamSignature] = Sign(c.secretKey, http.MethodPost, u.Host, u.EscapedPath(), params)

	var body io.Reader
	contentType := formContentType
	if req.Body != nil {
		u.RawQuery = CanonicalQuery(params)
		body = bytes.NewReader(req.Body)
		contentType = req.ContentType
		if contentType == "" {
			contentType = "text/xml"
		}
	} else {
		body = strings.NewReader(CanonicalQuery(params))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Content-Type", contentType)
	if req.Body != nil {
		httpReq.Header.Set("Content-MD5", ContentMD5(req.Body))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(resp, raw)
	}
	return newResponse(resp, raw), nil
}

// ContentMD5 returns the base64 MD5 digest MWS expects for request bodies.
func ContentMD5(body []byte) string {
	sum := md5.Sum(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func outcomeCode(resp *Response, err error) string {
	if err == nil {
		return fmt.Sprint(resp.StatusCode)
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return fmt.Sprint(apiErr.StatusCode)
	}
	return "error"
}

// GetSellerID returns the configured seller ID
func (c *Client) GetSellerID() string {
	return c.sellerID
}

// MarketplaceID returns the marketplace ID of the configured region.
func (c *Client) MarketplaceID() string {
	return c.marketplaceID
}

// GetBaseURL returns the current API base URL
func (c *Client) GetBaseURL() string {
	return c.baseURL
}

// Operations returns a copy of the client's operation catalog.
func (c *Client) Operations() Operations {
	return c.operations.Clone()
}

// Close releases idle HTTP connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// serviceStatus is shared by every section's GetServiceStatus.
func (c *Client) serviceStatus(ctx context.Context, section string) (*ServiceStatus, error) {
	resp, err := c.invoke(ctx, section, ActionGetServiceStatus, nil)
	if err != nil {
		return nil, err
	}
	var status ServiceStatus
	if err := resp.Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
