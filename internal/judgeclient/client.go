// Package judgeclient talks to the remote judge: debug runs, submissions and
// the read endpoints the terminal views use.
package judgeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ojspace/pkg/errors"
	"ojspace/pkg/utils/contextkey"
	"ojspace/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader   = "X-Request-Id"
	idempotencyHeader = "Idempotency-Key"

	defaultTimeout = 30 * time.Second
)

// ResponseInfo carries response details.
type ResponseInfo struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Client calls the judge API. It holds no per-workspace state.
type Client struct {
	baseURL       string
	timeout       time.Duration
	tokenProvider func() string
	httpClient    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every call. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTokenProvider attaches a bearer token to every request when it returns one.
func WithTokenProvider(fn func() string) Option {
	return func(c *Client) { c.tokenProvider = fn }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request and returns the raw response.
func (c *Client) Do(ctx context.Context, method, path string, headers map[string]string, body []byte) (ResponseInfo, error) {
	var info ResponseInfo

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return info, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	if c.tokenProvider != nil {
		if token := c.tokenProvider(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	info.Duration = time.Since(start)
	if err != nil {
		return info, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	info.StatusCode = resp.StatusCode
	info.Headers = resp.Header
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return info, fmt.Errorf("read response body failed: %w", err)
	}
	info.Body = bodyBytes
	return info, nil
}

// envelope is the judge's response wrapper.
type envelope struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	TraceID string           `json:"trace_id"`
}

type call struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
}

// doRequest performs a call and decodes the envelope's data into T.
func doRequest[T any](ctx context.Context, c *Client, in call) (*T, error) {
	var payload []byte
	if in.body != nil {
		b, err := json.Marshal(in.body)
		if err != nil {
			return nil, errors.Wrapf(err, errors.InvalidParams, "%s: marshal request", in.op)
		}
		payload = b
	}

	requestID := requestIDFrom(ctx)
	ctx = context.WithValue(ctx, contextkey.RequestID, requestID)
	headers := map[string]string{requestIDHeader: requestID}
	for k, v := range in.headers {
		headers[k] = v
	}

	path := in.path
	if len(in.query) > 0 {
		path += "?" + in.query.Encode()
	}

	info, err := c.Do(ctx, in.method, path, headers, payload)
	if err != nil {
		logger.Warn(ctx, "judge call failed", zap.String("op", in.op), zap.Error(err))
		return nil, errors.RemoteError(err, in.op)
	}
	logger.Debug(ctx, "judge call finished",
		zap.String("op", in.op),
		zap.Int("status", info.StatusCode),
		zap.Duration("duration", info.Duration),
	)

	var env envelope
	decodeErr := json.Unmarshal(info.Body, &env)
	if info.StatusCode < 200 || info.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: info.StatusCode, Code: env.Code, Message: env.Message, TraceID: env.TraceID}
		if decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(info.StatusCode)
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, errors.Wrapf(decodeErr, errors.MalformedResponse, "%s: decode response", in.op)
	}
	if env.Code != errors.Success {
		return nil, &APIError{StatusCode: info.StatusCode, Code: env.Code, Message: env.Message, TraceID: env.TraceID}
	}

	var out T
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return nil, errors.Wrapf(err, errors.MalformedResponse, "%s: decode data", in.op)
		}
	}
	return &out, nil
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(contextkey.RequestID).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
