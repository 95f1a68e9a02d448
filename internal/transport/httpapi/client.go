// Package httpapi sends Data API command envelopes over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kailas-cloud/dataapi/internal/domain"
	"github.com/kailas-cloud/dataapi/internal/domain/command"
)

// DefaultAPIPath is the JSON API prefix under the database endpoint.
const DefaultAPIPath = "api/json/v1"

const (
	headerToken     = "Token"
	maxErrorBodyLen = 512
	tracerName      = "github.com/kailas-cloud/dataapi/internal/transport/httpapi"
)

// Config holds transport settings.
type Config struct {
	Endpoint       string
	Token          string
	APIPath        string
	UserAgent      string
	HTTPClient     *http.Client
	TracerProvider trace.TracerProvider
}

// Client posts envelopes to {endpoint}/{apiPath}/{namespace}[/{collection}].
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	tracer    trace.Tracer
}

// Response is a decoded Data API reply.
type Response struct {
	Status map[string]any
	Data   map[string]any
	Errors []domain.ErrorDescriptor
	Raw    map[string]any
}

// New validates the config and creates a transport client.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("endpoint %q must start with http:// or https://", cfg.Endpoint)
	}

	apiPath := strings.Trim(cfg.APIPath, "/")
	if apiPath == "" {
		apiPath = DefaultAPIPath
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Client{
		baseURL:   endpoint + "/" + apiPath,
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
		http:      hc,
		tracer:    tp.Tracer(tracerName),
	}, nil
}

// Do sends one envelope. A reply carrying "errors" yields the decoded Response
// together with an *domain.APIError so callers can still read status.
func (c *Client) Do(ctx context.Context, env command.Envelope) (_ Response, err error) {
	target := env.Target()
	ctx, span := c.tracer.Start(ctx, "dataapi."+env.Op(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("dataapi.operation", env.Op()),
			attribute.String("dataapi.namespace", target.Namespace),
			attribute.String("dataapi.collection", target.Collection),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	payload, err := json.Marshal(env)
	if err != nil {
		return Response{}, fmt.Errorf("marshal %s: %w", env.Op(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+env.Path(), bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(headerToken, c.token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w: %w", env.Op(), domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%s: read body: %w: %w", env.Op(), domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, &domain.HTTPError{StatusCode: resp.StatusCode, Body: excerpt(body)}
	}

	out, err := decode(body)
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w: %w", env.Op(), domain.ErrTransport, err)
	}
	if len(out.Errors) > 0 {
		return out, &domain.APIError{Operation: env.Op(), Errors: out.Errors, Raw: out.Raw}
	}
	return out, nil
}

func decode(body []byte) (Response, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}

	out := Response{Raw: raw}
	out.Status, _ = raw["status"].(map[string]any)
	out.Data, _ = raw["data"].(map[string]any)

	if rawErrs, ok := raw["errors"].([]any); ok {
		for _, item := range rawErrs {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			d := domain.ErrorDescriptor{}
			d.Message, _ = m["message"].(string)
			d.ErrorCode, _ = m["errorCode"].(string)
			out.Errors = append(out.Errors, d)
		}
	}
	return out, nil
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyLen {
		return s[:maxErrorBodyLen] + "..."
	}
	return s
}
