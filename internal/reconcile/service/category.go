package service

import "strings"

// Canonical production categories. Free-form category strings from either
// side are folded onto these before any comparison.
const (
	CategoryShatter     = "Shatter"
	CategoryBadder      = "Badder"
	CategorySugar       = "Sugar"
	CategoryLiveResin   = "Live Resin"
	CategoryRosin       = "Rosin"
	CategoryDiamonds    = "Diamonds"
	CategoryFullSpecOil = "Full Spec Oil"
	CategoryPrerolls    = "Prerolls"
	CategoryFlower      = "Flower"
	CategoryEdible      = "Edible"
)

// posTypeMap folds the POS "product type" vocabulary onto production
// categories. POS exports are messy; this list mirrors the variants that
// actually showed up in them.
var posTypeMap = map[string]string{
	"badder house":          CategoryBadder,
	"badder house (baller)": CategoryBadder,
	"badder (baller)":       CategoryBadder,
	"badder":                CategoryBadder,
	"baller jar":            CategoryBadder,
	"shatter":               CategoryShatter,
	"sugar":                 CategorySugar,
	"live resin":            CategoryLiveResin,
	"resin":                 CategoryLiveResin,
	"rosin":                 CategoryRosin,
	"hash rosin":            CategoryRosin,
	"diamonds":              CategoryDiamonds,
	"cart":                  CategoryFullSpecOil,
	"full spec oil":         CategoryFullSpecOil,
	"full spec":             CategoryFullSpecOil,
	"pre roll":              CategoryPrerolls,
	"pre roll 2":            CategoryPrerolls,
	"pre roll pack":         CategoryPrerolls,
	"pre roll infused":      CategoryPrerolls,
	"prerolls":              CategoryPrerolls,
	"preroll":               CategoryPrerolls,
	"flower":                CategoryFlower,
	"edible":                CategoryEdible,
	"edibles":               CategoryEdible,
}

// categoryFamily groups categories that plausibly describe the same product
// under different labels. Categories from different families are treated as
// incompatible by the scorer (Flower vs Edible), categories within one
// family merely as non-matching (Shatter vs Sugar).
var categoryFamily = map[string]string{
	CategoryShatter:     "concentrate",
	CategoryBadder:      "concentrate",
	CategorySugar:       "concentrate",
	CategoryLiveResin:   "concentrate",
	CategoryRosin:       "concentrate",
	CategoryDiamonds:    "concentrate",
	CategoryFullSpecOil: "vape",
	CategoryPrerolls:    "preroll",
	CategoryFlower:      "flower",
	CategoryEdible:      "edible",
}

// CanonicalCategory maps a free-form category or POS type string onto one of
// the canonical categories. Unrecognized input returns "" (unknown), never
// an error. Unknown categories simply contribute no boost or penalty.
func CanonicalCategory(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}
	if c, ok := posTypeMap[key]; ok {
		return c
	}
	// Keyword fallback for composite labels ("Lewiston Flower", "BT Shatter").
	switch {
	case strings.Contains(key, "badder") || strings.Contains(key, "baller"):
		return CategoryBadder
	case strings.Contains(key, "shatter"):
		return CategoryShatter
	case strings.Contains(key, "sugar"):
		return CategorySugar
	case strings.Contains(key, "live resin"):
		return CategoryLiveResin
	case strings.Contains(key, "rosin"):
		return CategoryRosin
	case strings.Contains(key, "diamond"):
		return CategoryDiamonds
	case strings.Contains(key, "preroll") || strings.Contains(key, "pre roll") || strings.Contains(key, "pre-roll"):
		return CategoryPrerolls
	case strings.Contains(key, "cart") || strings.Contains(key, "full spec"):
		return CategoryFullSpecOil
	case strings.Contains(key, "edible"):
		return CategoryEdible
	case strings.Contains(key, "flower"):
		return CategoryFlower
	}
	return ""
}

// CategoryForProduct resolves the production category of a POS record.
// Name keywords win over the type column; POS types lag behind renames.
func CategoryForProduct(name, posType string) string {
	if c := CanonicalCategory(name); c != "" {
		return c
	}
	if c := CanonicalCategory(posType); c != "" {
		return c
	}
	return CategoryFlower
}

func compatibleCategories(a, b string) bool {
	fa, oka := categoryFamily[a]
	fb, okb := categoryFamily[b]
	if !oka || !okb {
		return true // unknown: give the benefit of the doubt
	}
	return fa == fb
}
