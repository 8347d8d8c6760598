package usecase

import (
	"log"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Coarse product categories the classifier can assign.
const (
	categoryLaptop    = "laptop"
	categoryPhone     = "phone"
	categoryTablet    = "tablet"
	categoryGPU       = "gpu"
	categoryAccessory = "accessory"
	categoryUnknown   = "unknown"
)

// categoryFieldFragments maps fragments of an explicit category field to a
// coarse category. Checked before any title scanning: the scraper's own
// category tag is more reliable than keyword guessing.
var categoryFieldFragments = []struct {
	fragment string
	category string
}{
	{"laptop", categoryLaptop},
	{"notebook", categoryLaptop},
	{"phone", categoryPhone},
	{"mobile", categoryPhone},
	{"tablet", categoryTablet},
	{"gpu", categoryGPU},
	{"graphics", categoryGPU},
	{"accessor", categoryAccessory},
	{"case", categoryAccessory},
	{"charger", categoryAccessory},
	{"cover", categoryAccessory},
}

// categoryTitleKeywords is scanned when the explicit field is absent or
// unrecognized. Accessory keywords are checked first so that "laptop
// sleeve" classifies as accessory, not laptop.
var categoryTitleKeywords = []struct {
	category string
	keywords []string
}{
	{categoryAccessory, []string{"case", "cover", "charger", "cable", "adapter", "protector", "screen guard", "tempered glass", "skin", "sleeve", "stand", "holder", "mount", "strap", "earbuds", "earphone", "headphone", "power bank", "powerbank"}},
	{categoryLaptop, []string{"laptop", "notebook", "macbook", "chromebook", "thinkpad", "ideapad", "vivobook", "pavilion", "inspiron", "ultrabook"}},
	{categoryTablet, []string{"tablet", "ipad", "galaxy tab"}},
	{categoryGPU, []string{"graphics card", "gpu", "rtx", "gtx", "radeon rx", "video card"}},
	{categoryPhone, []string{"phone", "smartphone", "iphone", "galaxy", "pixel", "oneplus", "redmi", "5g mobile"}},
}

// accessoryKeywords is the vocabulary the fallback matcher uses to weed out
// accessory listings that slip into device searches.
var accessoryKeywords = []string{
	"case", "cover", "charger", "cable", "adapter", "protector",
	"tempered glass", "screen guard", "skin", "sleeve", "stand",
	"holder", "mount", "strap", "pouch",
}

// deviceKeywords exempt a title from accessory filtering: "phone case for
// phone" is ambiguous, but a title naming a device class is most likely
// the device itself.
var deviceKeywords = []string{"phone", "laptop", "tablet", "watch", "speaker"}

// CategoryClassifier assigns coarse categories and enforces the
// no-cross-category rule ahead of scoring. Stateless.
type CategoryClassifier struct{}

// NewCategoryClassifier creates a new category classifier
func NewCategoryClassifier() *CategoryClassifier {
	return &CategoryClassifier{}
}

// DetectCategory classifies a product. The explicit category field wins
// when it contains a recognized fragment; otherwise the title is scanned
// against per-category keyword lists; otherwise "unknown".
func (c *CategoryClassifier) DetectCategory(p domain.Product) string {
	if p.Category != "" {
		field := strings.ToLower(p.Category)
		for _, f := range categoryFieldFragments {
			if strings.Contains(field, f.fragment) {
				return f.category
			}
		}
	}

	title := paddedTitleWords(p.Title)
	for _, group := range categoryTitleKeywords {
		for _, kw := range group.keywords {
			if titleHasKeyword(title, kw) {
				return group.category
			}
		}
	}

	return categoryUnknown
}

// FilterByCategory drops candidates that would be cross-category false
// positives. Non-accessory sources never see accessory candidates, and a
// candidate whose category differs from the source's is dropped unless
// either side is unknown (fail open on ambiguity). Accessory sources keep
// only accessory candidates.
func (c *CategoryClassifier) FilterByCategory(sourceCategory string, candidates []domain.Product) []domain.Product {
	filtered := make([]domain.Product, 0, len(candidates))
	for _, cand := range candidates {
		candCategory := c.DetectCategory(cand)

		if sourceCategory == categoryAccessory {
			if candCategory == categoryAccessory {
				filtered = append(filtered, cand)
			}
			continue
		}

		if candCategory == categoryAccessory {
			continue
		}
		if sourceCategory == categoryUnknown || candCategory == categoryUnknown {
			filtered = append(filtered, cand)
			continue
		}
		if candCategory == sourceCategory {
			filtered = append(filtered, cand)
		}
	}

	if len(filtered) < len(candidates) {
		log.Printf("[CATEGORY] Filtered %d/%d candidates (source category: %s)",
			len(candidates)-len(filtered), len(candidates), sourceCategory)
	}

	return filtered
}

// isLikelyAccessory mirrors the fallback matcher's cheaper accessory check:
// keyword match against the accessory vocabulary, with device-class titles
// exempted.
func isLikelyAccessory(title string) bool {
	padded := paddedTitleWords(title)
	for _, device := range deviceKeywords {
		if titleHasKeyword(padded, device) {
			return false
		}
	}
	for _, kw := range accessoryKeywords {
		if titleHasKeyword(padded, kw) {
			return true
		}
	}
	return false
}

// paddedTitleWords lowercases a title, replaces punctuation with spaces and
// pads the result so keyword checks always see word boundaries.
func paddedTitleWords(title string) string {
	cleaned := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(title), " ")
	return " " + strings.Join(strings.Fields(cleaned), " ") + " "
}

// titleHasKeyword matches a keyword (or phrase) against whole words only:
// "Standard" must not match "stand", "Showcase" must not match "case".
// A trailing plural is accepted so "headphones" still matches "headphone".
func titleHasKeyword(paddedTitle, keyword string) bool {
	return strings.Contains(paddedTitle, " "+keyword+" ") ||
		strings.Contains(paddedTitle, " "+keyword+"s ")
}
