package usecase

import "strings"

// defaultBrandAliases maps a canonical brand name to the lowercase aliases
// that appear across sites. Keys double as their own alias.
var defaultBrandAliases = map[string][]string{
	"Apple":    {"apple", "apple inc"},
	"Samsung":  {"samsung", "samsung electronics"},
	"Xiaomi":   {"xiaomi", "mi", "redmi", "poco"},
	"OnePlus":  {"oneplus", "one plus"},
	"Google":   {"google", "google pixel"},
	"HP":       {"hp", "hewlett packard", "hewlett-packard"},
	"Lenovo":   {"lenovo", "thinkpad", "ideapad"},
	"Dell":     {"dell", "dell technologies"},
	"Asus":     {"asus", "asustek"},
	"Acer":     {"acer"},
	"Sony":     {"sony", "sony corporation"},
	"LG":       {"lg", "lg electronics"},
	"Nvidia":   {"nvidia", "geforce"},
	"AMD":      {"amd", "radeon"},
	"Motorola": {"motorola", "moto"},
	"Realme":   {"realme"},
	"Vivo":     {"vivo"},
	"Oppo":     {"oppo"},
	"Nothing":  {"nothing", "nothing phone"},
	"Boat":     {"boat", "boat lifestyle"},
	"JBL":      {"jbl"},
}

// BrandCanonicalizer maps raw brand strings to canonical brand names via an
// immutable alias table fixed at construction. It holds no other state and
// is safe for concurrent use.
type BrandCanonicalizer struct {
	aliasToCanonical map[string]string
}

// NewBrandCanonicalizer builds a canonicalizer from the default alias table
// merged with any extra aliases (canonical name -> lowercase aliases),
// typically supplied from configuration at process start.
func NewBrandCanonicalizer(extra map[string][]string) *BrandCanonicalizer {
	lookup := make(map[string]string)
	add := func(canonical string, aliases []string) {
		lookup[strings.ToLower(canonical)] = canonical
		for _, alias := range aliases {
			lookup[strings.ToLower(alias)] = canonical
		}
	}

	for canonical, aliases := range defaultBrandAliases {
		add(canonical, aliases)
	}
	for canonical, aliases := range extra {
		add(canonical, aliases)
	}

	return &BrandCanonicalizer{aliasToCanonical: lookup}
}

// NormalizeBrand maps any known alias (case-insensitive) to its canonical
// brand name. Unknown brands are not rejected: they come back with only
// their first letter capitalized. Idempotent:
// NormalizeBrand(NormalizeBrand(x)) == NormalizeBrand(x).
func (b *BrandCanonicalizer) NormalizeBrand(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := b.aliasToCanonical[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return capitalize(trimmed)
}

// BrandsMatch reports whether two raw brand strings normalize to the same
// canonical brand.
func (b *BrandCanonicalizer) BrandsMatch(x, y string) bool {
	nx := b.NormalizeBrand(x)
	ny := b.NormalizeBrand(y)
	if nx == "" || ny == "" {
		return false
	}
	return strings.EqualFold(nx, ny)
}

// Known reports whether the token is a recognized brand alias.
func (b *BrandCanonicalizer) Known(token string) bool {
	_, ok := b.aliasToCanonical[strings.ToLower(token)]
	return ok
}
