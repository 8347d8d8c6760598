package usecase

import (
	"regexp"
	"strings"
)

// modelPattern pairs a compiled pattern with the product family it targets.
// Patterns are evaluated top to bottom and the first match wins, so the
// table must stay ordered most-specific-first: the generic alphanumeric
// code pattern at the bottom would otherwise shadow the branded ones.
type modelPattern struct {
	re   *regexp.Regexp
	hint string
}

var modelPatterns = []modelPattern{
	// Phone families
	{regexp.MustCompile(`\b(iphone\s*\d{1,2}(?:\s*(?:pro\s*max|pro|plus|mini))?)`), "phone"},
	{regexp.MustCompile(`\b(galaxy\s*(?:s|a|m|z|note|tab)\s*\d{1,3}(?:\s*(?:ultra|plus|fe|flip|fold))?)`), "phone"},
	{regexp.MustCompile(`\b(pixel\s*\d{1,2}(?:\s*(?:pro\s*xl|pro|xl|a))?)`), "phone"},
	{regexp.MustCompile(`\b(oneplus\s*(?:nord\s*)?(?:ce\s*)?\d{1,2}[rt]?(?:\s*pro)?)`), "phone"},
	{regexp.MustCompile(`\b((?:redmi|poco)\s*(?:note\s*)?\d{1,2}[a-z]?(?:\s*(?:pro\s*max|pro|plus))?)`), "phone"},
	// Laptop families
	{regexp.MustCompile(`\b(macbook\s*(?:air|pro)(?:\s*m\d)?)`), "laptop"},
	{regexp.MustCompile(`\b(thinkpad\s*[a-z]\d{1,2}[a-z]?)`), "laptop"},
	{regexp.MustCompile(`\b(ideapad\s*(?:slim\s*)?[a-z0-9]+)`), "laptop"},
	{regexp.MustCompile(`\b(pavilion\s*(?:x360\s*)?[a-z0-9]+)`), "laptop"},
	{regexp.MustCompile(`\b(inspiron\s*\d{4})`), "laptop"},
	{regexp.MustCompile(`\b(vivobook\s*[a-z0-9]+)`), "laptop"},
	// GPU codes
	{regexp.MustCompile(`\b((?:rtx|gtx)\s*\d{3,4}(?:\s*(?:ti\s*super|ti|super))?)`), "gpu"},
	// Generic alphanumeric code, last so it never shadows the above
	{regexp.MustCompile(`\b([a-z]{1,4}-?\d{2,5}[a-z0-9]*)\b`), ""},
}

var (
	ramRegex     = regexp.MustCompile(`(\d+)\s*gb\s*ram\b`)
	storageRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(gb|tb)\b`)
	spaceRegex   = regexp.MustCompile(`\s+`)
)

// colorVocabulary is scanned in order; the first color found as a substring
// of the title wins.
// Basic colors come before finish names so "Blue Titanium" and "Blue"
// variants of the same product extract the same color.
var colorVocabulary = []string{
	"black", "white", "blue", "red", "green", "yellow", "purple",
	"pink", "gold", "silver", "grey", "gray", "orange", "brown",
	"navy", "maroon", "coral", "mint", "cream", "beige", "bronze",
	"graphite", "titanium", "midnight", "starlight", "lavender",
}

// variantKeywords are model-type suffixes shared across electronics lines.
var variantKeywords = map[string]bool{
	"pro": true, "max": true, "plus": true, "lite": true, "mini": true,
	"ultra": true, "air": true, "5g": true, "4g": true,
}

// extractModel returns the model identifier found in the title, or "" when
// no pattern matches. All extraction helpers here are total: they never
// fail, they just return the empty string.
func extractModel(title string) string {
	lowered := strings.ToLower(title)
	for _, p := range modelPatterns {
		if m := p.re.FindStringSubmatch(lowered); m != nil {
			return strings.TrimSpace(spaceRegex.ReplaceAllString(m[1], " "))
		}
	}
	return ""
}

// extractRAM returns the RAM capacity ("8GB") or "".
func extractRAM(title string) string {
	m := ramRegex.FindStringSubmatch(strings.ToLower(title))
	if m == nil {
		return ""
	}
	return m[1] + "GB"
}

// extractStorage returns the storage capacity ("256GB", "1TB") or "".
// A capacity immediately followed by "ram" belongs to the RAM spec, not
// storage, so it is skipped ("8GB RAM 128GB" -> "128GB").
func extractStorage(title string) string {
	lowered := strings.ToLower(title)
	for _, idx := range storageRegex.FindAllStringSubmatchIndex(lowered, -1) {
		rest := strings.TrimSpace(lowered[idx[1]:])
		if strings.HasPrefix(rest, "ram") {
			continue
		}
		number := lowered[idx[2]:idx[3]]
		unit := strings.ToUpper(lowered[idx[4]:idx[5]])
		return number + unit
	}
	return ""
}

// extractColor scans the color vocabulary and returns the first color that
// appears in the title, capitalized, or "".
func extractColor(title string) string {
	lowered := strings.ToLower(title)
	for _, color := range colorVocabulary {
		if strings.Contains(lowered, color) {
			return capitalize(color)
		}
	}
	return ""
}

// extractKeywords picks out the discriminating tokens of a title: brand
// names, variant suffixes, and alphanumeric spec/model codes.
func extractKeywords(tokens []string, canon *BrandCanonicalizer) []string {
	var keywords []string
	for _, tok := range tokens {
		switch {
		case canon != nil && canon.Known(tok):
			keywords = append(keywords, tok)
		case variantKeywords[tok]:
			keywords = append(keywords, tok)
		case hasDigit(tok):
			keywords = append(keywords, tok)
		}
	}
	return keywords
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// capitalize uppercases the first letter and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// capacityNumber parses the leading digits out of a normalized capacity
// string like "256GB". The unit is deliberately dropped: closeness checks
// downstream compare raw numbers only, matching the scraper's historical
// behavior even though it treats a 1TB/256GB gap as 255 units.
func capacityNumber(capacity string) (int, bool) {
	m := digitRunRegex.FindString(capacity)
	if m == "" {
		return 0, false
	}
	n := 0
	for _, r := range m {
		n = n*10 + int(r-'0')
	}
	return n, true
}
