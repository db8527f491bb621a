// Package gateway issues calls to the hiring-assistant service and normalizes
// every outcome into a tagged Result.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/staffpilot/internal/gateway/throttle"
	"github.com/jonathan/staffpilot/internal/schemas"
	"go.uber.org/zap"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultBaseURL is the service root used when none is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "StaffPilotConsole/1.0"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 16 << 20

// Options configures the client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	HTTPClient *http.Client      // Optional; overrides Timeout
	Limiter    *throttle.Limiter // Optional outbound pacing
	Logger     *zap.Logger
}

// DefaultOptions returns sensible defaults for the client.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client issues service calls. It holds no domain state and is safe for
// concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	headers   map[string]string
	limiter   *throttle.Limiter
	log       *zap.Logger
}

// New creates a client from opts. A nil opts uses DefaultOptions.
func New(opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", base)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   parsed,
		http:      httpClient,
		userAgent: userAgent,
		headers:   opts.Headers,
		limiter:   opts.Limiter,
		log:       logger,
	}, nil
}

// BaseURL returns the service root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Upload is a file sent as multipart form data.
type Upload struct {
	FieldName   string // Defaults to "file"
	FileName    string
	ContentType string
	Data        []byte
}

// Request carries the optional parts of a call.
type Request struct {
	Query   url.Values
	Body    any // JSON-encoded when non-nil
	Upload  *Upload
	Headers map[string]string
}

// Result is the outcome of one call: either Value or Err is meaningful.
type Result[T any] struct {
	Value T
	Err   *Error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Do performs op against ep and decodes a 2xx body into T. It never panics
// and never returns an unclassified error.
func Do[T any](ctx context.Context, c *Client, op string, ep Endpoint, req Request) Result[T] {
	body, err := c.call(ctx, op, ep, req)
	if err != nil {
		return Result[T]{Err: err}
	}

	if ep.Schema != "" {
		if verr := schemas.ValidateResponse(ep.Schema, body); verr != nil {
			c.log.Warn("service response failed schema validation",
				zap.String("op", op),
				zap.String("schema", ep.Schema),
				zap.Error(verr))
			return Result[T]{Err: &Error{Op: op, Kind: DecodeFailure, Cause: verr}}
		}
	}

	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		c.log.Warn("service response could not be decoded", zap.String("op", op), zap.Error(err))
		return Result[T]{Err: &Error{Op: op, Kind: DecodeFailure, Cause: err}}
	}
	return Result[T]{Value: value}
}

// call performs the HTTP exchange and returns the raw 2xx body.
func (c *Client) call(ctx context.Context, op string, ep Endpoint, req Request) ([]byte, *Error) {
	start := time.Now()

	if c.limiter != nil {
		waited, err := c.limiter.Wait(ctx, ep.Method, ep.Path)
		if err != nil {
			return nil, &Error{Op: op, Kind: NetworkUnreachable, Cause: fmt.Errorf("waiting for send slot: %w", err)}
		}
		if waited > 0 {
			c.log.Debug("outbound call paced", zap.String("op", op), zap.Duration("waited", waited))
		}
	}

	httpReq, err := c.newRequest(ctx, ep, req)
	if err != nil {
		// Request construction only fails on unencodable input; nothing was sent.
		return nil, &Error{Op: op, Kind: NetworkUnreachable, Cause: err}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn("service unreachable", zap.String("op", op), zap.Error(err))
		return nil, &Error{Op: op, Kind: NetworkUnreachable, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.log.Warn("service response interrupted", zap.String("op", op), zap.Error(err))
		return nil, &Error{Op: op, Kind: NetworkUnreachable, Cause: err}
	}

	c.log.Debug("service call",
		zap.String("op", op),
		zap.String("method", ep.Method),
		zap.String("path", ep.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := extractDetail(body)
		c.log.Warn("service rejected request",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return nil, &Error{Op: op, Kind: ServerRejected, Status: resp.StatusCode, Detail: detail}
	}

	return body, nil
}

func (c *Client) newRequest(ctx context.Context, ep Endpoint, req Request) (*http.Request, error) {
	target := *c.baseURL
	target.Path = c.baseURL.Path + ep.Path
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Upload != nil:
		buf, ct, err := encodeMultipart(req.Upload)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, ep.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	return httpReq, nil
}

func encodeMultipart(upload *Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fieldName := upload.FieldName
	if fieldName == "" {
		fieldName = "file"
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, upload.FileName))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write multipart part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// extractDetail pulls the "detail" field out of an error body. Non-string
// details (e.g. validation error lists) are returned as compact JSON.
func extractDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		return strings.TrimSpace(detail)
	}
	if bytes.Equal(bytes.TrimSpace(envelope.Detail), []byte("null")) {
		return ""
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, envelope.Detail); err != nil {
		return ""
	}
	return compact.String()
}

// IsKind reports whether err is a gateway *Error of kind k.
func IsKind(err error, k Kind) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == k
}
