// Package transport sends requests to the booking REST API with a deadline
// per call and classifies failures into the apperrors taxonomy.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"homecare_client/internal/apperrors"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultProbeTimeout = 5 * time.Second

	ContentTypeJSON      = "application/json"
	ContentTypeJSONPatch = "application/json-patch+json"
)

// Sender is satisfied by *Transport; repositories depend on it.
type Sender interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// Request describes one call. Path is relative to the base URL.
type Request struct {
	Method      string
	Path        string
	Body        any
	ContentType string
	Query       map[string]string
	// Timeout overrides the transport default when positive.
	Timeout time.Duration
}

// Response is any HTTP response, successful or not.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err maps a non-2xx response to the error taxonomy; nil when OK.
func (r *Response) Err(resource, id string) error {
	if r.OK() {
		return nil
	}
	return apperrors.FromStatus(r.StatusCode, resource, id, ServerMessage(r.Body))
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", r.Method, r.URL, err)
	}
	return nil
}

// ServerMessage extracts a human readable message from an error body.
func ServerMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	if !gjson.Valid(trimmed) {
		if len(trimmed) > 200 {
			trimmed = trimmed[:200]
		}
		return trimmed
	}
	res := gjson.Parse(trimmed)
	if res.Type == gjson.String {
		return res.String()
	}
	for _, key := range []string{"message", "title", "error", "errors"} {
		if v := res.Get(key); v.Exists() {
			if v.IsObject() || v.IsArray() {
				return v.Raw
			}
			return v.String()
		}
	}
	return ""
}

// Options configures a Transport.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	ProbeTimeout time.Duration
	ProbePath    string
}

// Transport is the only component that talks to the network.
type Transport struct {
	client       *resty.Client
	baseURL      string
	timeout      time.Duration
	probeTimeout time.Duration
	probePath    string
}

// New builds a Transport. Retries are not configured on the resty client;
// callers opt in with a RetryPolicy for reads only.
func New(opts Options) *Transport {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.ProbePath == "" {
		opts.ProbePath = "/api/servicetypes/GetAll"
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", ContentTypeJSON).
		SetLogger(restyLogger{})

	return &Transport{
		client:       client,
		baseURL:      baseURL,
		timeout:      opts.Timeout,
		probeTimeout: opts.ProbeTimeout,
		probePath:    opts.ProbePath,
	}
}

// Send performs req. A response is returned for every status code; the error
// is non-nil only when no response arrived (*apperrors.TimeoutError or
// *apperrors.NetworkError).
func (t *Transport) Send(ctx context.Context, req Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = t.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := strings.ToUpper(req.Method)
	url := t.baseURL + req.Path
	requestID := uuid.NewString()

	r := t.client.R().
		SetContext(callCtx).
		SetHeader("X-Request-ID", requestID)
	if token := TokenFrom(ctx); token != "" {
		r.SetAuthToken(token)
	}
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, url, err)
		}
		contentType := req.ContentType
		if contentType == "" {
			contentType = ContentTypeJSON
		}
		r.SetHeader("Content-Type", contentType).SetBody(payload)
	}

	start := time.Now()
	resp, err := r.Execute(method, req.Path)
	latency := time.Since(start)

	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			log.Warn().Str("method", method).Str("url", url).Str("request_id", requestID).
				Dur("timeout", timeout).Msg("Upstream request timed out")
			return nil, &apperrors.TimeoutError{Method: method, URL: url, Timeout: timeout}
		}
		log.Warn().Err(err).Str("method", method).Str("url", url).Str("request_id", requestID).
			Msg("Upstream request failed")
		return nil, &apperrors.NetworkError{Method: method, URL: url, Err: err}
	}

	log.Debug().Str("method", method).Str("url", url).Str("request_id", requestID).
		Int("status_code", resp.StatusCode()).Str("latency", latency.String()).Msg("Upstream request")

	return &Response{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// Ping is the lightweight connectivity probe.
func (t *Transport) Ping(ctx context.Context) error {
	resp, err := t.Send(ctx, Request{Method: http.MethodGet, Path: t.probePath, Timeout: t.probeTimeout})
	if err != nil {
		return err
	}
	return resp.Err("probe", "")
}

type tokenKey struct{}

// WithToken attaches the upstream bearer token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token attached by WithToken.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	log.Error().Msgf("resty: "+format, v...)
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	log.Warn().Msgf("resty: "+format, v...)
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	log.Debug().Msgf("resty: "+format, v...)
}
