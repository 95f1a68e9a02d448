package dataapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/dataapi/internal/domain"
	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/indexing"
	"github.com/kailas-cloud/dataapi/internal/domain/collection/vector"
	"github.com/kailas-cloud/dataapi/internal/domain/command"
	"github.com/kailas-cloud/dataapi/internal/transport/httpapi"
)

// Database is a handle bound to one namespace. It is immutable; WithNamespace returns a copy.
type Database struct {
	client    *Client
	namespace string
}

// Namespace returns the bound namespace ("" if none).
func (d *Database) Namespace() string { return d.namespace }

// WithNamespace returns a handle bound to ns. The receiver is unchanged.
func (d *Database) WithNamespace(ns string) *Database {
	return &Database{client: d.client, namespace: ns}
}

// Info describes the database behind the client endpoint.
func (d *Database) Info() DatabaseInfo {
	info := parseEndpoint(d.client.endpoint)
	info.Namespace = d.namespace
	return info
}

// GetCollection returns a handle without contacting the server.
func (d *Database) GetCollection(name string, opts ...CallOption) *Collection {
	cfg := newCallConfig(opts)
	ns := d.namespace
	if cfg.namespace != "" {
		ns = cfg.namespace
	}
	return &Collection{db: d.WithNamespace(ns), name: name}
}

// CreateCollection creates a collection and returns its handle.
// Options are validated locally before any request is sent.
func (d *Database) CreateCollection(
	ctx context.Context, name string, opts ...CollectionOption,
) (_ *Collection, err error) {
	start := time.Now()
	var ns string
	defer func() { d.client.obs.observe("create_collection", ns, start, err) }()

	cfg := &collectionConfig{}
	for _, o := range opts {
		o.applyCollection(cfg)
	}

	if ns, err = command.ResolveNamespace(cfg.namespace, d.namespace); err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	if name == "" {
		return nil, fmt.Errorf("create collection: %w: name is required", domain.ErrInvalidOptions)
	}
	options, err := buildOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w: %w", name, domain.ErrInvalidOptions, err)
	}

	body := map[string]any{"name": name}
	if wire := options.ToMap(); len(wire) > 0 {
		body["options"] = wire
	}
	env := command.Build(command.OpCreateCollection, command.Target{Namespace: ns}, body)
	if _, err = d.client.transport.Do(ctx, env); err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return &Collection{db: d.WithNamespace(ns), name: name}, nil
}

// ListCollections returns every collection with its options.
// Order carries no meaning; use ContainsDescriptor for membership.
func (d *Database) ListCollections(
	ctx context.Context, opts ...CallOption,
) (_ []CollectionDescriptor, err error) {
	start := time.Now()
	var ns string
	defer func() { d.client.obs.observe("list_collections", ns, start, err) }()

	if ns, err = d.resolve(opts); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	env := command.Build(command.OpFindCollections, command.Target{Namespace: ns},
		map[string]any{"options": map[string]any{"explain": true}})
	resp, err := d.client.transport.Do(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	raw, _ := resp.Status["collections"].([]any)
	out := make([]CollectionDescriptor, 0, len(raw))
	for _, item := range raw {
		desc, err := domcol.DescriptorFromMap(item)
		if err != nil {
			return nil, fmt.Errorf("list collections: %w: %w", domain.ErrTransport, err)
		}
		out = append(out, desc)
	}
	return out, nil
}

// ListCollectionNames returns the names of all collections in the namespace.
func (d *Database) ListCollectionNames(
	ctx context.Context, opts ...CallOption,
) (_ []string, err error) {
	start := time.Now()
	var ns string
	defer func() { d.client.obs.observe("list_collection_names", ns, start, err) }()

	if ns, err = d.resolve(opts); err != nil {
		return nil, fmt.Errorf("list collection names: %w", err)
	}
	env := command.Build(command.OpFindCollections, command.Target{Namespace: ns})
	resp, err := d.client.transport.Do(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("list collection names: %w", err)
	}

	raw, _ := resp.Status["collections"].([]any)
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		desc, err := domcol.DescriptorFromMap(item)
		if err != nil {
			return nil, fmt.Errorf("list collection names: %w: %w", domain.ErrTransport, err)
		}
		names = append(names, desc.Name)
	}
	return names, nil
}

// DropCollection deletes a collection. Dropping a missing collection also reports OK.
func (d *Database) DropCollection(
	ctx context.Context, name string, opts ...CallOption,
) (_ DropResult, err error) {
	start := time.Now()
	var ns string
	defer func() { d.client.obs.observe("drop_collection", ns, start, err) }()

	if ns, err = d.resolve(opts); err != nil {
		return DropResult{}, fmt.Errorf("drop collection %s: %w", name, err)
	}
	return d.drop(ctx, ns, name)
}

func (d *Database) drop(ctx context.Context, ns, name string) (DropResult, error) {
	env := command.Build(command.OpDeleteCollection, command.Target{Namespace: ns},
		map[string]any{"name": name})
	resp, err := d.client.transport.Do(ctx, env)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.HasCode(domain.CodeCollectionNotExist) {
			return DropResult{OK: 1}, nil
		}
		return DropResult{}, fmt.Errorf("drop collection %s: %w", name, err)
	}
	ok, found := domain.AsInt(resp.Status["ok"])
	if !found {
		ok = 1
	}
	return DropResult{OK: ok}, nil
}

// Command sends a raw single-key command document and returns the decoded reply.
// On a reply carrying errors both the reply and an *APIError are returned.
func (d *Database) Command(
	ctx context.Context, cmd map[string]any, opts ...CallOption,
) (_ map[string]any, err error) {
	start := time.Now()
	var ns string
	defer func() { d.client.obs.observe("command", ns, start, err) }()

	cfg := newCallConfig(opts)
	if ns, err = command.ResolveNamespace(cfg.namespace, d.namespace); err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}
	env, err := command.Parse(cmd, command.Target{Namespace: ns, Collection: cfg.collection})
	if err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}
	resp, err := d.client.transport.Do(ctx, env)
	if err != nil {
		return resp.Raw, fmt.Errorf("command %s: %w", env.Op(), err)
	}
	return resp.Raw, nil
}

func (d *Database) resolve(opts []CallOption) (string, error) {
	return command.ResolveNamespace(newCallConfig(opts).namespace, d.namespace)
}

// do sends an envelope addressed to a collection in ns.
func (d *Database) do(ctx context.Context, ns, coll, op string, body map[string]any) (httpapi.Response, error) {
	env := command.Build(op, command.Target{Namespace: ns, Collection: coll}, body)
	return d.client.transport.Do(ctx, env)
}

var reservedOptionKeys = map[string]bool{"vector": true, "indexing": true, "defaultId": true}

func buildOptions(cfg *collectionConfig) (domcol.Options, error) {
	var metric vector.Metric
	if cfg.metric != "" {
		m, err := vector.ParseMetric(cfg.metric)
		if err != nil {
			return domcol.Options{}, err
		}
		metric = m
	}
	if cfg.dimensionSet && cfg.dimension <= 0 {
		return domcol.Options{}, fmt.Errorf("vector dimension must be positive, got %d", cfg.dimension)
	}

	var v vector.Vector
	if cfg.dimensionSet || metric != "" || cfg.service != nil {
		var err error
		if v, err = vector.New(cfg.dimension, metric, cfg.service); err != nil {
			return domcol.Options{}, err
		}
	}

	idx, err := indexing.New(cfg.allow, cfg.deny)
	if err != nil {
		return domcol.Options{}, err
	}
	idType, err := domcol.ParseIDType(cfg.defaultID)
	if err != nil {
		return domcol.Options{}, err
	}
	opts, err := domcol.New(v, idx, idType)
	if err != nil {
		return domcol.Options{}, err
	}

	for k := range cfg.extra {
		if reservedOptionKeys[k] {
			return domcol.Options{}, fmt.Errorf("extra option %q collides with a modeled option", k)
		}
	}
	if len(cfg.extra) > 0 {
		opts = domcol.Reconstruct(opts.Vector(), opts.Indexing(), opts.DefaultIDType(), cfg.extra)
	}
	return opts, nil
}
