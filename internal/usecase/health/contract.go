package health

import "context"

// DBPinger checks storage availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks one embedding provider.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
