package usecase

import (
	"log"
	"sort"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Level matcher confidences and caps. The four levels run in order and the
// pipeline exits early once enough strong matches have accumulated.
const (
	exactIDConfidence = 100

	level2StorageEqual   = 95
	level2StorageDiffers = 80
	level2StorageUnknown = 85
	level2EarlyExitCount = 5

	level3BaseConfidence = 70
	level3SimWeight      = 14
	level3Cap            = 84
	level3PriceBoost     = 10
	level3PriceCap       = 95

	level4MaxExisting   = 3 // level 4 only runs when fewer matches so far
	level4BaseConf      = 5
	level4SimWeight     = 64
	level4Cap           = 69
	level4PriceBoost    = 15
	level4PriceCap      = 80
	level4MinSim        = 0.15
	level4MinKeywords   = 2
	globalMinConfidence = 25

	priceBoostRatioLow  = 0.7
	priceBoostRatioHigh = 1.3

	maxFallbackResults = 20
)

// LevelMatcher is the fallback matcher: a cheaper, rule-ordered pipeline of
// four confidence levels used when the multi-factor scorer finds nothing.
type LevelMatcher struct {
	canon              *BrandCanonicalizer
	extractor          *FeatureExtractor
	enableDebugLogging bool
}

// NewLevelMatcher creates the fallback matcher.
func NewLevelMatcher(canon *BrandCanonicalizer, enableDebugLogging bool) *LevelMatcher {
	return &LevelMatcher{
		canon:              canon,
		extractor:          NewFeatureExtractor(canon),
		enableDebugLogging: enableDebugLogging,
	}
}

// Match runs the four-level pipeline against the candidates.
func (m *LevelMatcher) Match(source domain.Product, candidates []domain.Product) []domain.MatchResult {
	sourceIsAccessory := isLikelyAccessory(source.Title)

	pool := make([]domain.Product, 0, len(candidates))
	for _, c := range candidates {
		if !c.Valid() {
			continue
		}
		if !sourceIsAccessory && isLikelyAccessory(c.Title) {
			continue
		}
		pool = append(pool, c)
	}
	if len(pool) == 0 {
		return nil
	}

	sf := m.extractor.Extract(source)
	matched := make(map[int]bool, len(pool))
	var results []domain.MatchResult

	// Level 1: exact product ID. Any hit ends the pipeline immediately.
	if source.ProductID != "" {
		for i, cand := range pool {
			if cand.ProductID == source.ProductID {
				matched[i] = true
				results = append(results, domain.MatchResult{
					Product:     cand,
					Confidence:  exactIDConfidence,
					MatchLevel:  domain.MatchLevelExactID,
					MatchBadge:  levelBadge(domain.MatchLevelExactID),
					MatchReason: "Exact product ID match",
					Similarity:  1,
				})
			}
		}
		if len(results) > 0 {
			if m.enableDebugLogging {
				log.Printf("[LEVELS] Level 1 matched %d candidates by product ID", len(results))
			}
			return finishFallback(results)
		}
	}

	// Level 2: lenient model match, confidence keyed on storage agreement.
	for i, cand := range pool {
		if matched[i] {
			continue
		}
		cf := m.extractor.Extract(cand)
		if !m.lenientModelMatch(sf, cf) {
			continue
		}

		confidence := level2StorageUnknown
		reason := "Model match"
		switch {
		case sf.Storage != "" && cf.Storage != "":
			if strings.EqualFold(sf.Storage, cf.Storage) {
				confidence = level2StorageEqual
				reason = "Model and storage match"
			} else {
				confidence = level2StorageDiffers
				reason = "Model match, different storage"
			}
		}

		level := domain.MatchLevelHigh
		if confidence >= exactLevelFloor {
			level = domain.MatchLevelExact
		}

		matched[i] = true
		results = append(results, domain.MatchResult{
			Product:     cand,
			Confidence:  confidence,
			MatchLevel:  level,
			MatchBadge:  levelBadge(level),
			MatchReason: reason,
			Similarity:  tokenOverlap(sf.TitleTokens, cf.TitleTokens),
		})
	}

	if len(results) >= level2EarlyExitCount {
		if m.enableDebugLogging {
			log.Printf("[LEVELS] Early exit after level 2 with %d matches", len(results))
		}
		return finishFallback(results)
	}

	// Level 3: brand or model match, confidence scaled by title similarity.
	for i, cand := range pool {
		if matched[i] {
			continue
		}
		cf := m.extractor.Extract(cand)
		if !m.lenientBrandMatch(sf, cf) && !m.lenientModelMatch(sf, cf) {
			continue
		}

		sim := tokenOverlap(sf.TitleTokens, cf.TitleTokens)
		confidence := level3BaseConfidence + int(sim*level3SimWeight)
		if confidence > level3Cap {
			confidence = level3Cap
		}
		if priceWithinBoostBand(source.NumericPrice, cand.NumericPrice) {
			confidence += level3PriceBoost
			if confidence > level3PriceCap {
				confidence = level3PriceCap
			}
		}

		matched[i] = true
		results = append(results, domain.MatchResult{
			Product:     cand,
			Confidence:  confidence,
			MatchLevel:  domain.MatchLevelMedium,
			MatchBadge:  levelBadge(domain.MatchLevelMedium),
			MatchReason: "Brand and title similarity",
			Similarity:  sim,
		})
	}

	// Level 4: ultra-lenient, only when the net so far is nearly empty.
	if len(results) < level4MaxExisting {
		for i, cand := range pool {
			if matched[i] {
				continue
			}
			cf := m.extractor.Extract(cand)
			sim := tokenOverlap(sf.TitleTokens, cf.TitleTokens)

			if sim < level4MinSim && !m.lenientBrandMatch(sf, cf) && sharedKeywordCount(sf.Keywords, cf.Keywords) < level4MinKeywords {
				continue
			}

			confidence := level4BaseConf + int(sim*level4SimWeight)
			if confidence > level4Cap {
				confidence = level4Cap
			}
			if priceWithinBoostBand(source.NumericPrice, cand.NumericPrice) {
				confidence += level4PriceBoost
				if confidence > level4PriceCap {
					confidence = level4PriceCap
				}
			}
			if confidence < globalMinConfidence {
				continue
			}

			matched[i] = true
			results = append(results, domain.MatchResult{
				Product:     cand,
				Confidence:  confidence,
				MatchLevel:  domain.MatchLevelLow,
				MatchBadge:  levelBadge(domain.MatchLevelLow),
				MatchReason: "Loose title similarity",
				Similarity:  sim,
			})
		}
	}

	if m.enableDebugLogging {
		log.Printf("[LEVELS] Fallback matcher produced %d results", len(results))
	}

	return finishFallback(results)
}

// lenientModelMatch accepts case/punctuation-insensitive model equality or
// containment, or a shared significant digit run between the titles.
func (m *LevelMatcher) lenientModelMatch(sf, cf domain.ProductFeatures) bool {
	if sf.Model != "" && cf.Model != "" {
		ma := normalizeModel(sf.Model)
		mb := normalizeModel(cf.Model)
		if ma == mb || strings.Contains(ma, mb) || strings.Contains(mb, ma) {
			return true
		}
	}
	return sharesSignificantNumber(sf.Numbers, cf.Numbers)
}

// lenientBrandMatch accepts normalized brand equality, a shared known brand
// token inside the extracted models, or a shared significant digit token.
func (m *LevelMatcher) lenientBrandMatch(sf, cf domain.ProductFeatures) bool {
	if sf.Brand != "" && cf.Brand != "" && m.canon.BrandsMatch(sf.Brand, cf.Brand) {
		return true
	}
	if m.sharedBrandTokenInModels(sf.Model, cf.Model) {
		return true
	}
	return sharesSignificantNumber(sf.Numbers, cf.Numbers)
}

// sharedBrandTokenInModels reports whether both model strings carry the
// same known brand alias token (e.g. "galaxy" in both).
func (m *LevelMatcher) sharedBrandTokenInModels(modelA, modelB string) bool {
	if modelA == "" || modelB == "" {
		return false
	}
	for _, tok := range strings.Fields(strings.ToLower(modelA)) {
		if !m.canon.Known(tok) {
			continue
		}
		if strings.Contains(strings.ToLower(modelB), tok) {
			return true
		}
	}
	return false
}

// sharesSignificantNumber reports whether the two digit-run lists share a
// run of 3+ digits.
func sharesSignificantNumber(numbersA, numbersB []string) bool {
	sigB := significantNumbers(numbersB)
	if len(sigB) == 0 {
		return false
	}
	setB := make(map[string]bool, len(sigB))
	for _, n := range sigB {
		setB[n] = true
	}
	for _, n := range significantNumbers(numbersA) {
		if setB[n] {
			return true
		}
	}
	return false
}

func sharedKeywordCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, k := range a {
		set[k] = true
	}
	count := 0
	seen := make(map[string]bool, len(b))
	for _, k := range b {
		if set[k] && !seen[k] {
			count++
			seen[k] = true
		}
	}
	return count
}

// priceWithinBoostBand reports whether candidate/source price ratio sits in
// [0.7, 1.3]; unknown prices never qualify.
func priceWithinBoostBand(sourcePrice, candPrice float64) bool {
	if sourcePrice <= 0 || candPrice <= 0 {
		return false
	}
	ratio := candPrice / sourcePrice
	return ratio >= priceBoostRatioLow && ratio <= priceBoostRatioHigh
}

// finishFallback sorts by descending confidence (stable, so input order
// breaks ties) and truncates to the fallback cap.
func finishFallback(results []domain.MatchResult) []domain.MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	if len(results) > maxFallbackResults {
		results = results[:maxFallbackResults]
	}
	return results
}

// levelBadge maps a match level to the short label the UI renders.
func levelBadge(level domain.MatchLevel) string {
	switch level {
	case domain.MatchLevelExactID, domain.MatchLevelExact:
		return "🎯"
	case domain.MatchLevelHigh:
		return "⭐"
	case domain.MatchLevelMedium:
		return "✓"
	case domain.MatchLevelLow:
		return "~"
	case domain.MatchLevelSimilar:
		return "≈"
	default:
		return ""
	}
}
