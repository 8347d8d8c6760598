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

// CandidateSource defines the interface for fetching candidate products for
// a search query from one site. Implemented by the scraping-feed client;
// the matching engine never fetches data itself.
type CandidateSource interface {
	FetchCandidates(ctx context.Context, site, query string) ([]Product, error)
}
