package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Brand sub-score tiers (0-25)
const (
	brandExactScore      = 25.0 // canonical brands equal
	brandContainsScore   = 17.5 // one brand contains the other
	brandSharedWordScore = 12.5 // brands share a word longer than 2 chars
)

// Model sub-score tiers (0-30)
const (
	modelExactScore     = 30.0
	modelContainsScore  = 24.0
	modelWeight         = 30.0 // multiplier for similarity / token-overlap fallback
	modelSimilarityGate = 0.6  // similarity below this earns nothing
)

// Specs sub-score components (0-20, additive)
const (
	storageExactBonus = 8.0
	storageCloseBonus = 4.0
	storageCloseDelta = 128 // numeric units, unit-blind (see capacityNumber)
	ramExactBonus     = 8.0
	ramCloseBonus     = 4.0
	ramCloseDelta     = 4
	colorMatchBonus   = 4.0
)

// Title sub-score (0-15): token overlap and bigram overlap blended
const (
	titleWeight      = 15.0
	titleTokenShare  = 0.4
	titleBigramShare = 0.6
)

// Category sub-score (0-10)
const (
	categoryExactScore    = 10.0
	categoryContainsScore = 7.0
	categoryNeutralScore  = 5.0 // either side missing a category tag
)

// Price proximity adjustment (-2 to +5), on max/min price ratio
const (
	priceTightRatio = 1.2
	priceTightBonus = 5.0
	priceNearRatio  = 1.5
	priceNearBonus  = 3.0
	priceFarRatio   = 2.0
	priceFarPenalty = -2.0
)

// Result shaping
const (
	primaryMinConfidence = 70.0
	maxPrimaryResults    = 8
	exactLevelFloor      = 90.0
	highLevelFloor       = 80.0
)

// Reason-synthesis thresholds: a sub-score below its threshold is not
// informative enough to mention.
const (
	reasonBrandThreshold = 20.0
	reasonModelThreshold = 20.0
	reasonSpecsThreshold = 10.0
	reasonTitleThreshold = 10.0
)

var modelSpecialCharsRegex = regexp.MustCompile(`[^a-z0-9]`)

// MultiFactorScorer is the primary matcher: it ranks candidates against a
// source product with a six-factor weighted score. Stateless and pure per
// candidate; safe to call concurrently for independent sources.
type MultiFactorScorer struct {
	canon              *BrandCanonicalizer
	classifier         *CategoryClassifier
	extractor          *FeatureExtractor
	enableDebugLogging bool
}

// NewMultiFactorScorer creates the primary matcher.
func NewMultiFactorScorer(canon *BrandCanonicalizer, classifier *CategoryClassifier, enableDebugLogging bool) *MultiFactorScorer {
	return &MultiFactorScorer{
		canon:              canon,
		classifier:         classifier,
		extractor:          NewFeatureExtractor(canon),
		enableDebugLogging: enableDebugLogging,
	}
}

// Match scores every candidate against the source and returns the ranked
// list of those clearing the confidence floor, at most maxPrimaryResults.
// An empty return means the caller should fall back to the legacy matcher.
func (s *MultiFactorScorer) Match(source domain.Product, candidates []domain.Product) []domain.MatchResult {
	valid := make([]domain.Product, 0, len(candidates))
	for _, c := range candidates {
		if c.Valid() {
			valid = append(valid, c)
		}
	}

	sourceCategory := s.classifier.DetectCategory(source)
	valid = s.classifier.FilterByCategory(sourceCategory, valid)
	if len(valid) == 0 {
		return nil
	}

	sourceFeatures := s.extractor.Extract(source)

	results := make([]domain.MatchResult, 0, len(valid))
	for _, cand := range valid {
		candFeatures := s.extractor.Extract(cand)
		breakdown := s.Score(source, sourceFeatures, cand, candFeatures)

		if s.enableDebugLogging {
			log.Printf("[SCORER] %q vs %q: brand=%.1f model=%.1f specs=%.1f title=%.1f category=%.1f price=%.1f total=%.1f",
				source.Title, cand.Title, breakdown.Brand, breakdown.Model, breakdown.Specs,
				breakdown.Title, breakdown.Category, breakdown.Price, breakdown.Total)
		}

		if breakdown.Total < primaryMinConfidence {
			continue
		}

		b := breakdown
		level, badge := levelForScore(breakdown.Total)
		results = append(results, domain.MatchResult{
			Product:     cand,
			Confidence:  int(breakdown.Total),
			MatchLevel:  level,
			MatchBadge:  badge,
			MatchReason: s.synthesizeReason(breakdown, sourceFeatures, candFeatures),
			Breakdown:   &b,
		})
	}

	// Stable sort keeps input order on ties, so output is reproducible.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Breakdown.Total > results[j].Breakdown.Total
	})

	if len(results) > maxPrimaryResults {
		results = results[:maxPrimaryResults]
	}

	return results
}

// Score computes the full six-factor breakdown for one candidate.
func (s *MultiFactorScorer) Score(source domain.Product, sf domain.ProductFeatures, cand domain.Product, cf domain.ProductFeatures) domain.ScoringBreakdown {
	breakdown := domain.ScoringBreakdown{
		Brand:    s.brandScore(sf.Brand, cf.Brand),
		Model:    s.modelScore(sf, cf),
		Specs:    s.specsScore(sf, cf),
		Title:    titleScore(sf, cf),
		Category: categoryScore(source.Category, cand.Category),
		Price:    priceScore(source.NumericPrice, cand.NumericPrice),
	}

	total := breakdown.Brand + breakdown.Model + breakdown.Specs +
		breakdown.Title + breakdown.Category + breakdown.Price
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	breakdown.Total = total

	return breakdown
}

func (s *MultiFactorScorer) brandScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == lb {
		return brandExactScore
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return brandContainsScore
	}
	if sharesLongWord(la, lb) {
		return brandSharedWordScore
	}
	return 0
}

// sharesLongWord reports whether two strings have a common word longer
// than 2 characters.
func sharesLongWord(a, b string) bool {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	for _, wa := range wordsA {
		if len(wa) <= 2 {
			continue
		}
		for _, wb := range wordsB {
			if wa == wb {
				return true
			}
		}
	}
	return false
}

// modelScore compares extracted model strings when both sides have one,
// falling back to title-token overlap otherwise.
func (s *MultiFactorScorer) modelScore(sf, cf domain.ProductFeatures) float64 {
	if sf.Model == "" || cf.Model == "" {
		return tokenOverlap(sf.TitleTokens, cf.TitleTokens) * modelWeight
	}

	ma := normalizeModel(sf.Model)
	mb := normalizeModel(cf.Model)
	if ma == mb {
		return modelExactScore
	}
	if strings.Contains(ma, mb) || strings.Contains(mb, ma) {
		return modelContainsScore
	}
	if sim := stringSimilarity(ma, mb); sim > modelSimilarityGate {
		return sim * modelWeight
	}
	return 0
}

// normalizeModel strips special characters and case-folds a model string
// so "iPhone 15 Pro" and "iphone15pro" compare equal.
func normalizeModel(model string) string {
	return modelSpecialCharsRegex.ReplaceAllString(strings.ToLower(model), "")
}

// specsScore adds independent storage, RAM and color bonuses. Capacity
// closeness is unit-blind: the extractor keeps only the leading number, so
// a 1TB/256GB gap counts as |1-256| units.
func (s *MultiFactorScorer) specsScore(sf, cf domain.ProductFeatures) float64 {
	score := 0.0

	if sf.Storage != "" && cf.Storage != "" {
		if strings.EqualFold(sf.Storage, cf.Storage) {
			score += storageExactBonus
		} else if na, ok1 := capacityNumber(sf.Storage); ok1 {
			if nb, ok2 := capacityNumber(cf.Storage); ok2 && absInt(na-nb) <= storageCloseDelta {
				score += storageCloseBonus
			}
		}
	}

	if sf.RAM != "" && cf.RAM != "" {
		if strings.EqualFold(sf.RAM, cf.RAM) {
			score += ramExactBonus
		} else if na, ok1 := capacityNumber(sf.RAM); ok1 {
			if nb, ok2 := capacityNumber(cf.RAM); ok2 && absInt(na-nb) <= ramCloseDelta {
				score += ramCloseBonus
			}
		}
	}

	if sf.Color != "" && cf.Color != "" && strings.EqualFold(sf.Color, cf.Color) {
		score += colorMatchBonus
	}

	return score
}

func titleScore(sf, cf domain.ProductFeatures) float64 {
	tokens := tokenOverlap(sf.TitleTokens, cf.TitleTokens)
	bigrams := tokenOverlap(sf.Bigrams, cf.Bigrams)
	return (tokens*titleTokenShare + bigrams*titleBigramShare) * titleWeight
}

// categoryScore compares the raw category tags the scraper supplied.
// A missing tag on either side is neutral, not a mismatch.
func categoryScore(a, b string) float64 {
	if a == "" || b == "" {
		return categoryNeutralScore
	}

	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == lb {
		return categoryExactScore
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return categoryContainsScore
	}
	return 0
}

// priceScore rewards price proximity and penalizes a >2x gap. A zero price
// on either side is unknown: no bonus, no penalty.
func priceScore(p1, p2 float64) float64 {
	if p1 <= 0 || p2 <= 0 {
		return 0
	}

	ratio := p1 / p2
	if ratio < 1 {
		ratio = p2 / p1
	}

	switch {
	case ratio <= priceTightRatio:
		return priceTightBonus
	case ratio <= priceNearRatio:
		return priceNearBonus
	case ratio > priceFarRatio:
		return priceFarPenalty
	default:
		return 0
	}
}

// levelForScore maps a total score to the match level and badge shown on
// the comparison card. The scorer's floor is 70, so MEDIUM is the lowest
// level reachable here.
func levelForScore(total float64) (domain.MatchLevel, string) {
	switch {
	case total >= exactLevelFloor:
		return domain.MatchLevelExact, "🎯"
	case total >= highLevelFloor:
		return domain.MatchLevelHigh, "⭐"
	default:
		return domain.MatchLevelMedium, "✓"
	}
}

// synthesizeReason builds the human-readable justification from the
// sub-scores that cleared their informative thresholds.
func (s *MultiFactorScorer) synthesizeReason(b domain.ScoringBreakdown, sf, cf domain.ProductFeatures) string {
	var parts []string

	if b.Brand >= reasonBrandThreshold && cf.Brand != "" {
		parts = append(parts, "Same brand: "+cf.Brand)
	}
	if b.Model >= reasonModelThreshold {
		model := cf.Model
		if model == "" {
			model = sf.Model
		}
		if model != "" {
			parts = append(parts, "Model: "+model)
		}
	}
	if b.Specs >= reasonSpecsThreshold {
		var specs []string
		if cf.Storage != "" {
			specs = append(specs, cf.Storage)
		}
		if cf.RAM != "" {
			specs = append(specs, cf.RAM+" RAM")
		}
		if len(specs) > 0 {
			parts = append(parts, "Specs: "+strings.Join(specs, "/"))
		}
	}
	if b.Title >= reasonTitleThreshold {
		parts = append(parts, "Similar title")
	}

	if len(parts) == 0 {
		return "Matched"
	}
	return strings.Join(parts, " • ")
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
