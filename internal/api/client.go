// Package api is the HypeBid HTTP gateway. Every call attaches the session
// bearer token from the context and unwraps the {message, data} envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/hypebid-bot/internal/config"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

const instrumentationName = "github.com/jensholdgaard/hypebid-bot/internal/api"

// RequestIDHeader carries a per-call id for server-side correlation.
const RequestIDHeader = "X-Request-ID"

type tokenKey struct{}

// WithToken returns a context whose API calls authenticate as token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token stored in ctx, if any.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// Client talks to the HypeBid API.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	tracer   trace.Tracer
	requests metric.Int64Counter
}

// New creates a Client for cfg. The transport is instrumented with otelhttp.
func New(cfg config.APIConfig, logger *slog.Logger, tp trace.TracerProvider) (*Client, error) {
	requests, err := otel.Meter(instrumentationName).Int64Counter("hypebid.api.requests",
		metric.WithDescription("HypeBid API calls by method and status code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(tp)),
		},
		logger:   logger,
		tracer:   tp.Tracer(instrumentationName),
		requests: requests,
	}, nil
}

// part is one file of a multipart request.
type part struct {
	field  string
	upload domain.Upload
}

type request struct {
	method string
	path   string
	// json is encoded as the request body when non-nil.
	json any
	// fields and files make a multipart body when either is set.
	fields map[string]string
	files  []part
	// resource names the entity for NotFoundError.
	resource string
	id       string
}

func (r request) multipart() bool { return len(r.fields) > 0 || len(r.files) > 0 }

func (r request) body() (io.Reader, string, error) {
	switch {
	case r.multipart():
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, v := range r.fields {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", fmt.Errorf("writing field %s: %w", k, err)
			}
		}
		for _, f := range r.files {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.upload.Filename))
			ct := f.upload.ContentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			h.Set("Content-Type", ct)
			pw, err := w.CreatePart(h)
			if err != nil {
				return nil, "", fmt.Errorf("creating part %s: %w", f.field, err)
			}
			if _, err := io.Copy(pw, f.upload.Body); err != nil {
				return nil, "", fmt.Errorf("copying %s: %w", f.upload.Filename, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("closing multipart body: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	case r.json != nil:
		b, err := json.Marshal(r.json)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	default:
		return nil, "", nil
	}
}

// call performs r and decodes the envelope into T.
func call[T any](ctx context.Context, c *Client, r request) (domain.Envelope[T], error) {
	var env domain.Envelope[T]

	ctx, span := c.tracer.Start(ctx, "api "+r.method+" "+r.path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", r.method),
			attribute.String("hypebid.path", r.path),
		),
	)
	defer span.End()

	raw, status, err := c.roundTrip(ctx, r)
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", r.method),
		attribute.Int("status", status),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return env, err
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			err = &domain.RemoteError{StatusCode: status, Err: fmt.Errorf("decoding %s %s response: %w", r.method, r.path, err)}
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode failed")
			return env, err
		}
	}
	return env, nil
}

func (c *Client) roundTrip(ctx context.Context, r request) ([]byte, int, error) {
	body, contentType, err := r.body()
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("building %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := TokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, 0, err
		}
		return nil, 0, &domain.RemoteError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &domain.RemoteError{StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, resp.StatusCode, nil
	}

	msg := errorMessage(raw)
	c.logger.WarnContext(ctx, "api call failed",
		slog.String("method", r.method),
		slog.String("path", r.path),
		slog.Int("status", resp.StatusCode),
		slog.String("message", msg),
		slog.String("request_id", req.Header.Get(RequestIDHeader)),
	)
	if resp.StatusCode == http.StatusNotFound && r.resource != "" {
		return nil, resp.StatusCode, &domain.NotFoundError{Resource: r.resource, ID: r.id, Message: msg}
	}
	return nil, resp.StatusCode, &domain.RemoteError{StatusCode: resp.StatusCode, Message: msg}
}

// errorMessage pulls the envelope message out of an error body.
func errorMessage(raw []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return env.Message
}

// Ping reports whether the API answers at all. Any HTTP response below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auctions", nil)
	if err != nil {
		return fmt.Errorf("building ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 500 {
		return fmt.Errorf("api unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
