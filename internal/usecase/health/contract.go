package health

import "context"

// DBPinger checks primary database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks cache/queue store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
