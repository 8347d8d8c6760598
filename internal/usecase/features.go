package usecase

import (
	"github.com/pricelens/backend/internal/domain"
)

// FeatureExtractor derives a ProductFeatures vector from a product's title
// and brand fields. Extraction is total: fields that cannot be determined
// come back as empty strings, never as errors.
type FeatureExtractor struct {
	canon *BrandCanonicalizer
}

// NewFeatureExtractor creates a feature extractor backed by the given
// brand canonicalizer.
func NewFeatureExtractor(canon *BrandCanonicalizer) *FeatureExtractor {
	return &FeatureExtractor{canon: canon}
}

// Extract computes the feature vector for one product. Pure and
// deterministic: identical title+brand input yields identical features.
func (e *FeatureExtractor) Extract(p domain.Product) domain.ProductFeatures {
	tokens := tokenize(p.Title)

	brand := p.Brand
	if brand == "" {
		brand = e.detectBrandFromTokens(tokens)
	}
	if brand != "" {
		brand = e.canon.NormalizeBrand(brand)
	}

	return domain.ProductFeatures{
		Brand:       brand,
		Model:       extractModel(p.Title),
		Storage:     extractStorage(p.Title),
		RAM:         extractRAM(p.Title),
		Color:       extractColor(p.Title),
		TitleTokens: tokens,
		Bigrams:     generateNGrams(tokens, 2),
		Trigrams:    generateNGrams(tokens, 3),
		Keywords:    extractKeywords(tokens, e.canon),
		Numbers:     extractNumbers(p.Title),
	}
}

// detectBrandFromTokens returns the first title token that is a known
// brand alias, or "".
func (e *FeatureExtractor) detectBrandFromTokens(tokens []string) string {
	for _, tok := range tokens {
		if e.canon.Known(tok) {
			return tok
		}
	}
	return ""
}
