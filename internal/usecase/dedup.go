package usecase

import (
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// variantStripWords are size/connectivity words that differ between
// variants of the same product and so must not split dedup groups.
var variantStripWords = map[string]bool{
	"5g": true, "4g": true, "lte": true, "wifi": true,
	"small": true, "medium": true, "large": true,
	"xs": true, "xl": true, "xxl": true,
}

var colorStripWords = func() map[string]bool {
	set := make(map[string]bool, len(colorVocabulary))
	for _, c := range colorVocabulary {
		set[c] = true
	}
	return set
}()

// Deduplicator collapses near-duplicate results — the same product from
// one site in several colors or sizes — keeping only the cheapest member
// of each group. Stateless and idempotent.
type Deduplicator struct {
	canon *BrandCanonicalizer
}

// NewDeduplicator creates a deduplicator.
func NewDeduplicator(canon *BrandCanonicalizer) *Deduplicator {
	return &Deduplicator{canon: canon}
}

// Dedup groups results by (site, canonical brand, variant-stripped title)
// and keeps the lowest-priced member of each group. First-seen group order
// is preserved, so the pass is stable and running it twice is a no-op.
func (d *Deduplicator) Dedup(results []domain.MatchResult) []domain.MatchResult {
	if len(results) <= 1 {
		return results
	}

	type groupKey struct {
		site  string
		brand string
		title string
	}

	kept := make([]domain.MatchResult, 0, len(results))
	index := make(map[groupKey]int, len(results))

	for _, r := range results {
		key := groupKey{
			site:  r.Site,
			brand: strings.ToLower(d.canon.NormalizeBrand(r.Brand)),
			title: variantStrippedTitle(r.Title),
		}

		if at, seen := index[key]; seen {
			if r.NumericPrice < kept[at].NumericPrice {
				kept[at] = r
			}
			continue
		}

		index[key] = len(kept)
		kept = append(kept, r)
	}

	return kept
}

// variantStrippedTitle normalizes a title down to its variant-independent
// tokens: lowercased, punctuation removed, colors and size/connectivity
// words dropped.
func variantStrippedTitle(title string) string {
	var core []string
	for _, tok := range tokenize(title) {
		if colorStripWords[tok] || variantStripWords[tok] {
			continue
		}
		core = append(core, tok)
	}
	return strings.Join(core, " ")
}
