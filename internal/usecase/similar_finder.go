package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Similar-product confidence model: brand-only base plus category and
// domain-specific bonuses, floor at 30.
const (
	similarBrandBase     = 20
	similarCategoryBonus = 15
	similarColorBonus    = 20 // fashion: exact color
	similarShadeBonus    = 25 // beauty: exact shade
	similarTypeBonus     = 10 // electronics: shared type keyword
	similarMinConfidence = 30
	maxSimilarResults    = 15
)

// Product domains the finder applies different bonuses to, derived from the
// raw category tag. Anything not fashion or beauty is treated as
// electronics.
const (
	domainFashion     = "fashion"
	domainBeauty      = "beauty"
	domainElectronics = "electronics"
)

var fashionFragments = []string{"fashion", "cloth", "apparel", "footwear", "shoe"}
var beautyFragments = []string{"beauty", "cosmetic", "makeup", "skincare", "lipstick", "foundation"}

var shadeCodeRegex = regexp.MustCompile(`^\d{2,3}$`)

// shadeQualifierWords precede numbers that are ratings or quantities, not
// shade codes: "SPF 30" and "pack of 2" name no shade.
var shadeQualifierWords = map[string]bool{
	"spf": true, "upf": true, "pack": true, "set": true, "vol": true,
}

// shadeDescriptors is the fixed vocabulary of beauty shade names matched
// when a title has no numeric shade code.
var shadeDescriptors = []string{
	"nude", "rose", "coral", "berry", "mauve", "caramel",
	"ivory", "honey", "sand", "almond", "cocoa", "beige",
}

// SimilarProductFinder is the last-resort strategy: when both matchers come
// up empty it produces loosely related candidates from the same brand.
type SimilarProductFinder struct {
	canon              *BrandCanonicalizer
	extractor          *FeatureExtractor
	enableDebugLogging bool
}

// NewSimilarProductFinder creates the last-resort finder.
func NewSimilarProductFinder(canon *BrandCanonicalizer, enableDebugLogging bool) *SimilarProductFinder {
	return &SimilarProductFinder{
		canon:              canon,
		extractor:          NewFeatureExtractor(canon),
		enableDebugLogging: enableDebugLogging,
	}
}

// Find returns same-brand candidates scored by how much else they share
// with the source: category, and within a matching category color, shade
// or type keyword depending on the product domain.
func (f *SimilarProductFinder) Find(source domain.Product, candidates []domain.Product) []domain.MatchResult {
	sf := f.extractor.Extract(source)
	brandWord := firstBrandWord(sf.Brand)
	if brandWord == "" {
		return nil
	}

	sourceDomain := productDomain(source.Category)
	sourceShade := extractShade(source.Title)

	var results []domain.MatchResult
	for _, cand := range candidates {
		if !cand.Valid() {
			continue
		}
		cf := f.extractor.Extract(cand)
		if !strings.EqualFold(firstBrandWord(cf.Brand), brandWord) {
			continue
		}

		confidence := similarBrandBase
		reason := "Same brand: " + sf.Brand

		if categoriesRelate(source.Category, cand.Category) {
			confidence += similarCategoryBonus
			reason += " • Same category"

			switch sourceDomain {
			case domainFashion:
				if sf.Color != "" && strings.EqualFold(sf.Color, cf.Color) {
					confidence += similarColorBonus
					reason += " • Same color: " + sf.Color
				}
			case domainBeauty:
				if sourceShade != "" && strings.EqualFold(sourceShade, extractShade(cand.Title)) {
					confidence += similarShadeBonus
					reason += " • Same shade: " + sourceShade
				}
			default:
				if kw := sharedTypeKeyword(sf.Keywords, cf.Keywords); kw != "" {
					confidence += similarTypeBonus
					reason += " • Same type: " + kw
				}
			}
		}

		if confidence < similarMinConfidence {
			continue
		}

		results = append(results, domain.MatchResult{
			Product:     cand,
			Confidence:  confidence,
			MatchLevel:  domain.MatchLevelSimilar,
			MatchBadge:  levelBadge(domain.MatchLevelSimilar),
			MatchReason: reason,
			Similarity:  tokenOverlap(sf.TitleTokens, cf.TitleTokens),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	if len(results) > maxSimilarResults {
		results = results[:maxSimilarResults]
	}

	if f.enableDebugLogging {
		log.Printf("[SIMILAR] Found %d loosely related products for brand %q", len(results), sf.Brand)
	}

	return results
}

// firstBrandWord returns the first word of a brand name, lowercased.
func firstBrandWord(brand string) string {
	fields := strings.Fields(strings.ToLower(brand))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// productDomain buckets a raw category tag into fashion, beauty or
// electronics for bonus selection.
func productDomain(category string) string {
	lowered := strings.ToLower(category)
	for _, f := range fashionFragments {
		if strings.Contains(lowered, f) {
			return domainFashion
		}
	}
	for _, f := range beautyFragments {
		if strings.Contains(lowered, f) {
			return domainBeauty
		}
	}
	return domainElectronics
}

// categoriesRelate reports whether two raw category tags refer to the same
// category (equal or one containing the other). Empty tags never relate.
func categoriesRelate(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	return la == lb || strings.Contains(la, lb) || strings.Contains(lb, la)
}

// extractShade returns a beauty shade: the leading 2-3 digit shade code if
// the title has one, else the first shade descriptor found, else "".
// A number directly after a qualifier word is not a shade code.
func extractShade(title string) string {
	words := strings.Fields(nonAlphanumericRegex.ReplaceAllString(strings.ToLower(title), " "))
	for i, w := range words {
		if !shadeCodeRegex.MatchString(w) {
			continue
		}
		if i > 0 && shadeQualifierWords[words[i-1]] {
			continue
		}
		return w
	}
	for _, w := range words {
		for _, descriptor := range shadeDescriptors {
			if w == descriptor {
				return descriptor
			}
		}
	}
	return ""
}

// sharedTypeKeyword returns the first type keyword (pro/max/plus/…) present
// on both sides, or "".
func sharedTypeKeyword(keywordsA, keywordsB []string) string {
	setB := make(map[string]bool, len(keywordsB))
	for _, k := range keywordsB {
		if variantKeywords[k] {
			setB[k] = true
		}
	}
	for _, k := range keywordsA {
		if variantKeywords[k] && setB[k] {
			return k
		}
	}
	return ""
}
