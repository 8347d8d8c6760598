package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// ComparisonService answers "where else is this product sold" queries:
// it pulls candidate listings per site from the feed collaborator (through
// a TTL cache) and hands them to the match orchestrator.
type ComparisonService struct {
	cache              domain.CacheRepository
	feed               domain.CandidateSource
	orchestrator       *MatchOrchestrator
	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewComparisonService creates a comparison service with dependencies.
func NewComparisonService(
	cache domain.CacheRepository,
	feed domain.CandidateSource,
	orchestrator *MatchOrchestrator,
	config ComparisonServiceConfig,
) *ComparisonService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 6 * time.Hour
	}

	return &ComparisonService{
		cache:              cache,
		feed:               feed,
		orchestrator:       orchestrator,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MatchCandidates ranks an explicit candidate list against the source.
// Zero results is a normal outcome, not an error.
func (s *ComparisonService) MatchCandidates(source domain.Product, candidates []domain.Product) []domain.MatchResult {
	return s.orchestrator.Match(source, candidates)
}

// Compare fetches candidates for the query from every requested site and
// returns the ranked matches. Per-site feed failures are logged and
// skipped; the comparison only fails when no site produced candidates and
// at least one fetch errored.
func (s *ComparisonService) Compare(ctx context.Context, request *domain.CompareRequest) ([]domain.MatchResult, error) {
	if request == nil || request.Source.Title == "" || request.Query == "" || len(request.Sites) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	var candidates []domain.Product
	var lastErr error

	for _, site := range request.Sites {
		siteCandidates, err := s.candidatesForSite(ctx, site, request.Query)
		if err != nil {
			if errors.Is(err, domain.ErrNoCandidates) {
				continue
			}
			log.Printf("[COMPARE] Feed fetch failed for site %q: %v", site, err)
			lastErr = err
			continue
		}
		candidates = append(candidates, siteCandidates...)
	}

	if len(candidates) == 0 && lastErr != nil {
		return nil, lastErr
	}

	if s.enableDebugLogging {
		log.Printf("[COMPARE] Matching %q against %d candidates from %d sites",
			request.Source.Title, len(candidates), len(request.Sites))
	}

	return s.orchestrator.Match(request.Source, candidates), nil
}

// candidatesForSite resolves one site's candidate list, cache first.
func (s *ComparisonService) candidatesForSite(ctx context.Context, site, query string) ([]domain.Product, error) {
	cacheKey := s.generateCacheKey(site, query)

	if cached, err := s.getCachedProducts(ctx, cacheKey); err == nil {
		if s.enableDebugLogging {
			log.Printf("[COMPARE] Cache hit for %s", cacheKey)
		}
		return cached, nil
	}

	products, err := s.feed.FetchCandidates(ctx, site, query)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, products, s.cacheTTL); err != nil {
		// A failed cache write only costs the next request a fetch.
		log.Printf("[COMPARE] Cache write failed for %s: %v", cacheKey, err)
	}

	return products, nil
}

// generateCacheKey creates a normalized cache key for a site+query pair.
// Format: "feed:{site}:{normalized query}"
func (s *ComparisonService) generateCacheKey(site, query string) string {
	normalized := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(query), "")
	normalized = spaceRegex.ReplaceAllString(normalized, " ")
	return fmt.Sprintf("feed:%s:%s", strings.ToLower(site), strings.TrimSpace(normalized))
}

// getCachedProducts reads a product list back out of the cache. The cache
// JSON round-trips values on Set, so the stored shape is generic; a
// re-marshal recovers the typed slice.
func (s *ComparisonService) getCachedProducts(ctx context.Context, key string) ([]domain.Product, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if products, ok := value.([]domain.Product); ok {
		return products, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, domain.ErrCacheMiss
	}
	if len(products) == 0 {
		return nil, domain.ErrCacheMiss
	}
	return products, nil
}
