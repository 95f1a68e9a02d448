package dataapi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/dataapi/internal/domain/command"
	"github.com/kailas-cloud/dataapi/internal/transport/httpapi"
	"github.com/kailas-cloud/dataapi/internal/version"
)

// commander is the transport seam; tests substitute it.
type commander interface {
	Do(ctx context.Context, env command.Envelope) (httpapi.Response, error)
}

// Client is the SDK entry point. It is safe for concurrent use.
type Client struct {
	endpoint  string
	namespace string
	transport commander
	obs       *observer
}

// New creates a Client for a database endpoint such as
// https://<db-id>-<region>.apps.astra.datastax.com or http://localhost:8181.
func New(endpoint, token string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if token == "" {
		return nil, errors.New("dataapi: token is required")
	}

	tr, err := httpapi.New(httpapi.Config{
		Endpoint:       endpoint,
		Token:          token,
		APIPath:        cfg.apiPath,
		UserAgent:      userAgent(cfg.callerName, cfg.callerVersion),
		HTTPClient:     cfg.httpClient,
		TracerProvider: cfg.tracerProvider,
	})
	if err != nil {
		return nil, fmt.Errorf("dataapi: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		endpoint:  strings.TrimRight(endpoint, "/"),
		namespace: cfg.namespace,
		transport: tr,
		obs:       obs,
	}, nil
}

// Database returns a handle bound to the client's namespace, or to the
// namespace given with InNamespace.
func (c *Client) Database(opts ...CallOption) *Database {
	ns := c.namespace
	if cfg := newCallConfig(opts); cfg.namespace != "" {
		ns = cfg.namespace
	}
	return &Database{client: c, namespace: ns}
}

// Endpoint returns the normalized endpoint.
func (c *Client) Endpoint() string { return c.endpoint }

func userAgent(callerName, callerVersion string) string {
	ua := "dataapi-go/" + version.Version
	if callerName == "" {
		return ua
	}
	caller := callerName
	if callerVersion != "" {
		caller += "/" + callerVersion
	}
	return caller + " " + ua
}

// hostedEndpoint matches https://<uuid>-<region>.apps.astra[-dev|-test].datastax.com.
var hostedEndpoint = regexp.MustCompile(
	`^https://([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})-([a-z0-9-]+)\.apps\.astra(-dev|-test)?\.datastax\.com$`,
)

// parseEndpoint extracts the database id, region and environment from a hosted endpoint.
// Other endpoints yield only Endpoint.
func parseEndpoint(endpoint string) DatabaseInfo {
	info := DatabaseInfo{Endpoint: endpoint}
	m := hostedEndpoint.FindStringSubmatch(endpoint)
	if m == nil {
		return info
	}
	id, err := uuid.Parse(m[1])
	if err != nil {
		return info
	}
	info.ID = id.String()
	info.Region = m[2]
	switch m[3] {
	case "-dev":
		info.Environment = "dev"
	case "-test":
		info.Environment = "test"
	default:
		info.Environment = "prod"
	}
	return info
}
