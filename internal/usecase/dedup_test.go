package usecase

import (
	"testing"

	"github.com/pricelens/backend/internal/domain"
)

func dedupResult(site, title string, price float64) domain.MatchResult {
	return domain.MatchResult{
		Product: domain.Product{
			Site:         site,
			Title:        title,
			Brand:        "Apple",
			NumericPrice: price,
		},
		Confidence: 90,
		MatchLevel: domain.MatchLevelExact,
	}
}

func TestDedupKeepsCheapestVariant(t *testing.T) {
	dedup := NewDeduplicator(NewBrandCanonicalizer(nil))

	results := []domain.MatchResult{
		dedupResult("amazon", "Apple iPhone 15 Pro 256GB Blue", 139900),
		dedupResult("amazon", "Apple iPhone 15 Pro 256GB Black", 138500),
		dedupResult("amazon", "Apple iPhone 15 Pro 256GB White", 140100),
	}

	deduped := dedup.Dedup(results)
	if len(deduped) != 1 {
		t.Fatalf("Dedup() returned %d results, want 1", len(deduped))
	}
	if deduped[0].NumericPrice != 138500 {
		t.Errorf("kept price = %v, want 138500 (cheapest variant)", deduped[0].NumericPrice)
	}
}

func TestDedupSitesStaySeparate(t *testing.T) {
	dedup := NewDeduplicator(NewBrandCanonicalizer(nil))

	results := []domain.MatchResult{
		dedupResult("amazon", "Apple iPhone 15 Pro 256GB Blue", 139900),
		dedupResult("flipkart", "Apple iPhone 15 Pro 256GB Blue", 138000),
	}

	deduped := dedup.Dedup(results)
	if len(deduped) != 2 {
		t.Fatalf("Dedup() returned %d results, want 2 (one per site)", len(deduped))
	}
}

func TestDedupStripsConnectivityVariants(t *testing.T) {
	dedup := NewDeduplicator(NewBrandCanonicalizer(nil))

	results := []domain.MatchResult{
		dedupResult("amazon", "Samsung Galaxy Tab S9 5G", 74999),
		dedupResult("amazon", "Samsung Galaxy Tab S9 WiFi", 62999),
	}

	deduped := dedup.Dedup(results)
	if len(deduped) != 1 {
		t.Fatalf("Dedup() returned %d results, want 1 (connectivity is a variant)", len(deduped))
	}
	if deduped[0].NumericPrice != 62999 {
		t.Errorf("kept price = %v, want 62999", deduped[0].NumericPrice)
	}
}

func TestDedupPreservesFirstSeenOrder(t *testing.T) {
	dedup := NewDeduplicator(NewBrandCanonicalizer(nil))

	results := []domain.MatchResult{
		dedupResult("amazon", "Apple iPhone 15 Pro 256GB", 139900),
		dedupResult("amazon", "Apple iPhone 14 128GB", 69900),
		dedupResult("amazon", "Apple iPhone 15 Pro 256GB Black", 138500),
	}

	deduped := dedup.Dedup(results)
	if len(deduped) != 2 {
		t.Fatalf("Dedup() returned %d results, want 2", len(deduped))
	}
	// Group keeps its first-seen slot even though the cheaper member came later.
	if deduped[0].NumericPrice != 138500 {
		t.Errorf("first result price = %v, want 138500 in the original slot", deduped[0].NumericPrice)
	}
	if deduped[1].Title != "Apple iPhone 14 128GB" {
		t.Errorf("second result = %q, want the iPhone 14 listing", deduped[1].Title)
	}
}

func TestDedupIsIdempotent(t *testing.T) {
	dedup := NewDeduplicator(NewBrandCanonicalizer(nil))

	results := []domain.MatchResult{
		dedupResult("amazon", "Apple iPhone 15 Pro 256GB Blue", 139900),
		dedupResult("amazon", "Apple iPhone 15 Pro 256GB Black", 138500),
		dedupResult("flipkart", "Apple iPhone 15 Pro 256GB Blue", 138000),
	}

	once := dedup.Dedup(results)
	twice := dedup.Dedup(once)
	if len(once) != len(twice) {
		t.Fatalf("second pass changed result count: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Title != twice[i].Title {
			t.Errorf("result %d changed between passes: %q vs %q", i, once[i].Title, twice[i].Title)
		}
	}
}

func TestVariantStrippedTitle(t *testing.T) {
	tests := []struct {
		title, want string
	}{
		{"Apple iPhone 15 Pro 256GB Blue", "apple iphone 15 pro 256gb"},
		{"Samsung Galaxy Tab S9 5G", "samsung galaxy tab s9"},
		{"Plain Cotton Shirt XL", "plain cotton shirt"},
	}
	for _, tt := range tests {
		if got := variantStrippedTitle(tt.title); got != tt.want {
			t.Errorf("variantStrippedTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
