package usecase

import (
	"testing"

	"github.com/pricelens/backend/internal/domain"
)

func newTestScorer() *MultiFactorScorer {
	return NewMultiFactorScorer(NewBrandCanonicalizer(nil), NewCategoryClassifier(), false)
}

var scorerSource = domain.Product{
	Site:         "amazon",
	Title:        "Apple iPhone 15 Pro Max 256GB Blue Titanium",
	Brand:        "Apple",
	NumericPrice: 139900,
	Category:     "electronics-phone",
}

func TestMatchExactVariant(t *testing.T) {
	scorer := newTestScorer()

	candidate := domain.Product{
		Site:         "flipkart",
		Title:        "Apple iPhone 15 Pro Max (256 GB) - Blue Titanium",
		Brand:        "Apple",
		NumericPrice: 138999,
		Category:     "electronics-phone",
	}

	results := scorer.Match(scorerSource, []domain.Product{candidate})
	if len(results) != 1 {
		t.Fatalf("Match() returned %d results, want 1", len(results))
	}

	r := results[0]
	if r.MatchLevel != domain.MatchLevelExact {
		t.Errorf("MatchLevel = %v, want EXACT", r.MatchLevel)
	}
	if r.Confidence < 90 {
		t.Errorf("Confidence = %d, want >= 90", r.Confidence)
	}
	if r.Breakdown == nil {
		t.Fatal("Breakdown = nil, want populated")
	}
	if r.Breakdown.Brand != brandExactScore {
		t.Errorf("Breakdown.Brand = %v, want %v", r.Breakdown.Brand, brandExactScore)
	}
	if r.Breakdown.Model != modelExactScore {
		t.Errorf("Breakdown.Model = %v, want %v", r.Breakdown.Model, modelExactScore)
	}
	if r.MatchReason == "" || r.MatchReason == "Matched" {
		t.Errorf("MatchReason = %q, want a synthesized explanation", r.MatchReason)
	}
}

func TestMatchNearVariantStorageBoundary(t *testing.T) {
	scorer := newTestScorer()

	// 256 vs 128 differs by exactly 128 units: the storage closeness
	// threshold is inclusive, so this earns the partial credit.
	candidate := domain.Product{
		Site:         "flipkart",
		Title:        "Apple iPhone 15 Pro 128GB - Blue",
		Brand:        "Apple",
		NumericPrice: 119900,
		Category:     "electronics-phone",
	}

	results := scorer.Match(scorerSource, []domain.Product{candidate})
	if len(results) != 1 {
		t.Fatalf("Match() returned %d results, want 1", len(results))
	}

	r := results[0]
	if r.MatchLevel != domain.MatchLevelMedium {
		t.Errorf("MatchLevel = %v, want MEDIUM", r.MatchLevel)
	}
	if r.Confidence < 70 || r.Confidence > 84 {
		t.Errorf("Confidence = %d, want in [70, 84]", r.Confidence)
	}
	// storage partial credit + exact color
	wantSpecs := storageCloseBonus + colorMatchBonus
	if r.Breakdown.Specs != wantSpecs {
		t.Errorf("Breakdown.Specs = %v, want %v", r.Breakdown.Specs, wantSpecs)
	}
}

func TestStorageBoundaryIsInclusive(t *testing.T) {
	scorer := newTestScorer()
	extractor := NewFeatureExtractor(NewBrandCanonicalizer(nil))

	score := func(a, b domain.Product) domain.ScoringBreakdown {
		return scorer.Score(a, extractor.Extract(a), b, extractor.Extract(b))
	}

	src := domain.Product{Title: "Phone X 256GB", NumericPrice: 1000}
	near := domain.Product{Title: "Phone X 128GB", NumericPrice: 1000}
	far := domain.Product{Title: "Phone X 512GB", NumericPrice: 1000}

	if got := score(src, near).Specs; got != storageCloseBonus {
		t.Errorf("|256-128| = 128 should earn partial credit, Specs = %v, want %v", got, storageCloseBonus)
	}
	if got := score(src, far).Specs; got != 0.0 {
		t.Errorf("|256-512| = 256 should earn nothing, Specs = %v, want 0", got)
	}
}

func TestMatchRejectsDifferentBrand(t *testing.T) {
	scorer := newTestScorer()

	candidate := domain.Product{
		Site:         "flipkart",
		Title:        "Samsung Galaxy S23 Ultra 256GB Blue",
		Brand:        "Samsung",
		NumericPrice: 139000,
		Category:     "electronics-phone",
	}

	results := scorer.Match(scorerSource, []domain.Product{candidate})
	if len(results) != 0 {
		t.Fatalf("Match() returned %d results, want 0 (different brand must fall below the floor)", len(results))
	}

	// The brand sub-score itself must be zero.
	extractor := NewFeatureExtractor(NewBrandCanonicalizer(nil))
	b := scorer.Score(scorerSource, extractor.Extract(scorerSource), candidate, extractor.Extract(candidate))
	if b.Brand != 0 {
		t.Errorf("Breakdown.Brand = %v, want 0", b.Brand)
	}
	if b.Total >= primaryMinConfidence {
		t.Errorf("Total = %v, want below %v", b.Total, primaryMinConfidence)
	}
}

func TestCategoryFilterPrecedesScoring(t *testing.T) {
	scorer := newTestScorer()

	source := domain.Product{
		Title:        "Dell Inspiron 3520 15.6 inch",
		Brand:        "Dell",
		NumericPrice: 45990,
		Category:     "laptop",
	}
	// Textually identical title, tagged as a phone: the filter must drop
	// it before any scoring happens.
	candidate := domain.Product{
		Title:        "Dell Inspiron 3520 15.6 inch",
		Brand:        "Dell",
		NumericPrice: 45990,
		Category:     "phone",
	}

	results := scorer.Match(source, []domain.Product{candidate})
	if len(results) != 0 {
		t.Fatalf("Match() returned %d results, want 0 (cross-category candidate must be filtered)", len(results))
	}
}

func TestMatchDropsInvalidCandidates(t *testing.T) {
	scorer := newTestScorer()

	junk := []domain.Product{
		{Title: "Apple iPhone 15 Pro Max 256GB Blue Titanium", NumericPrice: 5, Brand: "Apple"},
		{Title: "ipho", NumericPrice: 139900, Brand: "Apple"},
	}

	if results := scorer.Match(scorerSource, junk); len(results) != 0 {
		t.Errorf("Match() returned %d results for invalid candidates, want 0", len(results))
	}
}

func TestScoreTotalStaysInBounds(t *testing.T) {
	scorer := newTestScorer()
	extractor := NewFeatureExtractor(NewBrandCanonicalizer(nil))

	// A maximally mismatched pair, including the price penalty, must not
	// expose a negative total.
	src := domain.Product{Title: "Apple iPhone 15 Pro Max 256GB", Brand: "Apple", NumericPrice: 139900, Category: "phone"}
	worst := domain.Product{Title: "Wooden dining chair", Brand: "Woodsy", NumericPrice: 500, Category: "furniture"}
	b := scorer.Score(src, extractor.Extract(src), worst, extractor.Extract(worst))
	if b.Total < 0 || b.Total > 100 {
		t.Errorf("Total = %v, want in [0, 100]", b.Total)
	}
	if b.Price != priceFarPenalty {
		t.Errorf("Price = %v, want %v (ratio > 2 penalty)", b.Price, priceFarPenalty)
	}

	// A perfect pair must clamp at 100.
	b = scorer.Score(src, extractor.Extract(src), src, extractor.Extract(src))
	if b.Total > 100 {
		t.Errorf("Total = %v, want clamped to 100", b.Total)
	}
}

func TestMatchRankingAndTruncation(t *testing.T) {
	scorer := newTestScorer()

	// Ten valid near-duplicates; output must be capped at eight and sorted
	// by descending total.
	var candidates []domain.Product
	for i := 0; i < 10; i++ {
		candidates = append(candidates, domain.Product{
			Site:         "flipkart",
			Title:        "Apple iPhone 15 Pro Max 256GB Blue Titanium",
			Brand:        "Apple",
			NumericPrice: 138000 + float64(i*500),
			Category:     "electronics-phone",
		})
	}

	results := scorer.Match(scorerSource, candidates)
	if len(results) != maxPrimaryResults {
		t.Fatalf("Match() returned %d results, want %d", len(results), maxPrimaryResults)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Confidence > results[i-1].Confidence {
			t.Errorf("results not sorted: %d before %d", results[i-1].Confidence, results[i].Confidence)
		}
	}
}

func TestPriceScore(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 float64
		want   float64
	}{
		{"within 20 percent", 100, 110, priceTightBonus},
		{"within 50 percent", 100, 140, priceNearBonus},
		{"between 1.5x and 2x", 100, 180, 0},
		{"beyond 2x", 100, 250, priceFarPenalty},
		{"unknown price", 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := priceScore(tt.p1, tt.p2); got != tt.want {
				t.Errorf("priceScore(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
			// Order of arguments must not matter.
			if got := priceScore(tt.p2, tt.p1); got != tt.want {
				t.Errorf("priceScore(%v, %v) = %v, want %v", tt.p2, tt.p1, got, tt.want)
			}
		})
	}
}

func TestCategoryScore(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"phone", "phone", categoryExactScore},
		{"electronics-phone", "phone", categoryContainsScore},
		{"phone", "laptop", 0},
		{"", "phone", categoryNeutralScore},
		{"phone", "", categoryNeutralScore},
	}

	for _, tt := range tests {
		if got := categoryScore(tt.a, tt.b); got != tt.want {
			t.Errorf("categoryScore(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
