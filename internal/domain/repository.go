package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository loads the supplier price lists.
// Implementations: CSV files, PostgreSQL, the HTTP supplier feed.
type CatalogRepository interface {
	LoadPackaged(ctx context.Context) ([]CatalogEntry, error)
	LoadFresh(ctx context.Context) ([]FreshProduceEntry, error)
}

// CatalogProvider hands out the current catalog snapshot for one computation pass
type CatalogProvider interface {
	Snapshot(ctx context.Context) (*CatalogSnapshot, error)
}
