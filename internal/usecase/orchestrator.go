package usecase

import (
	"log"
	"sort"

	"github.com/pricelens/backend/internal/domain"
)

// matchStrategy is one stage of the primary → fallback → similar chain:
// a pure function from (source, candidates) to ranked results.
type matchStrategy struct {
	name string
	run  func(source domain.Product, candidates []domain.Product) []domain.MatchResult
}

// MatchOrchestrator sequences the matching strategies and deduplicates the
// winning stage's output. It holds no per-call state and is safe to use
// concurrently for independent source products.
type MatchOrchestrator struct {
	strategies []matchStrategy
	dedup      *Deduplicator
}

// NewMatchOrchestrator wires the three matching stages in order. The
// fallback stages only run when every stage before them returned nothing.
func NewMatchOrchestrator(canon *BrandCanonicalizer, classifier *CategoryClassifier, enableDebugLogging bool) *MatchOrchestrator {
	scorer := NewMultiFactorScorer(canon, classifier, enableDebugLogging)
	levels := NewLevelMatcher(canon, enableDebugLogging)
	similar := NewSimilarProductFinder(canon, enableDebugLogging)

	return &MatchOrchestrator{
		strategies: []matchStrategy{
			{name: "multi-factor", run: scorer.Match},
			{name: "level", run: levels.Match},
			{name: "similar", run: similar.Find},
		},
		dedup: NewDeduplicator(canon),
	}
}

// Match tries each strategy in order until one yields results, then
// collapses near-duplicate variants. An empty return means no stage found
// anything; that is a normal terminal outcome, not an error.
func (o *MatchOrchestrator) Match(source domain.Product, candidates []domain.Product) []domain.MatchResult {
	if len(candidates) == 0 {
		return nil
	}

	for _, strategy := range o.strategies {
		results := runStrategy(strategy, source, candidates)
		if len(results) > 0 {
			// Dedup keeps the cheapest member of a group in the group's
			// first-seen slot, which can rank a lower-confidence result
			// above its neighbors; restore the confidence order.
			deduped := o.dedup.Dedup(results)
			sort.SliceStable(deduped, func(i, j int) bool {
				return deduped[i].Confidence > deduped[j].Confidence
			})
			return deduped
		}
	}

	return nil
}

// runStrategy isolates one stage behind a recover so that an unexpected
// panic in a matcher counts as zero results and the chain moves on,
// instead of aborting the whole comparison.
func runStrategy(strategy matchStrategy, source domain.Product, candidates []domain.Product) (results []domain.MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ORCHESTRATOR] %s matcher panicked, treating as zero results: %v", strategy.name, r)
			results = nil
		}
	}()

	return strategy.run(source, candidates)
}
