package domain

// Product represents one listing scraped from one e-commerce site.
// Instances are immutable once handed to the matching engine; the engine
// only ever copies them into MatchResults.
type Product struct {
	Site         string             `json:"site"`
	Title        string             `json:"title"`
	Price        string             `json:"price,omitempty"` // display string, e.g. "₹1,39,900"
	NumericPrice float64            `json:"numericPrice"`
	URL          string             `json:"url,omitempty"`
	Image        string             `json:"image,omitempty"`
	ProductID    string             `json:"productId,omitempty"`
	Brand        string             `json:"brand,omitempty"`
	Category     string             `json:"category,omitempty"`
	Attributes   *ProductAttributes `json:"attributes,omitempty"`
	Availability string             `json:"availability,omitempty"`
}

// ProductAttributes carries structured attributes when the scraper managed
// to extract them; the engine re-extracts from the title regardless.
type ProductAttributes struct {
	Model   string `json:"model,omitempty"`
	Storage string `json:"storage,omitempty"`
	RAM     string `json:"ram,omitempty"`
	Color   string `json:"color,omitempty"`
	Variant string `json:"variant,omitempty"`
}

// Records below these floors are scraping junk (placeholder prices,
// truncated titles) and are silently dropped before matching.
const (
	minValidPrice    = 10
	minValidTitleLen = 5
)

// Valid reports whether the product is usable for matching.
func (p Product) Valid() bool {
	return p.NumericPrice >= minValidPrice && len(p.Title) >= minValidTitleLen
}

// ProductFeatures is the per-product feature vector derived from the title
// and brand fields. It is a pure function of those fields: the same input
// always produces identical features.
type ProductFeatures struct {
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Storage     string   `json:"storage"`
	RAM         string   `json:"ram"`
	Color       string   `json:"color"`
	TitleTokens []string `json:"titleTokens"`
	Bigrams     []string `json:"bigrams"`
	Trigrams    []string `json:"trigrams"`
	Keywords    []string `json:"keywords"`
	Numbers     []string `json:"numbers"`
}

// ScoringBreakdown holds the six sub-scores the multi-factor scorer computes
// for a (source, candidate) pair. Total is clamped to [0, 100].
type ScoringBreakdown struct {
	Brand    float64 `json:"brand"`    // 0-25
	Model    float64 `json:"model"`    // 0-30
	Specs    float64 `json:"specs"`    // 0-20
	Title    float64 `json:"title"`    // 0-15
	Category float64 `json:"category"` // 0-10
	Price    float64 `json:"price"`    // -2 to +5
	Total    float64 `json:"total"`
}

// MatchLevel classifies how a candidate was matched.
type MatchLevel string

const (
	MatchLevelExactID MatchLevel = "EXACT_ID"
	MatchLevelExact   MatchLevel = "EXACT"
	MatchLevelHigh    MatchLevel = "HIGH"
	MatchLevelMedium  MatchLevel = "MEDIUM"
	MatchLevelLow     MatchLevel = "LOW"
	MatchLevelSimilar MatchLevel = "SIMILAR"
)

// MatchResult is a candidate product annotated with match confidence and a
// human-readable justification. Immutable after creation.
type MatchResult struct {
	Product
	Confidence  int               `json:"confidence"` // 0-100
	MatchLevel  MatchLevel        `json:"matchLevel"`
	MatchBadge  string            `json:"matchBadge"`
	MatchReason string            `json:"matchReason"`
	Similarity  float64           `json:"similarity,omitempty"` // 0-1, fallback matcher only
	Breakdown   *ScoringBreakdown `json:"breakdown,omitempty"`
}

// MatchRequest asks the engine to rank explicit candidates against a source.
type MatchRequest struct {
	Source     Product   `json:"source" binding:"required"`
	Candidates []Product `json:"candidates" binding:"required"`
}

// CompareRequest asks the comparison service to fetch candidates for a query
// from the given sites (via the feed collaborator) and rank them.
type CompareRequest struct {
	Source Product  `json:"source" binding:"required"`
	Query  string   `json:"query" binding:"required"`
	Sites  []string `json:"sites" binding:"required"`
}

// MatchResponse is the ranked result list returned to the UI collaborator.
type MatchResponse struct {
	Results []MatchResult `json:"results"`
	Count   int           `json:"count"`
}
