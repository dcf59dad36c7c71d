package service

import (
	"regexp"
	"sort"
	"strings"
)

// Size/unit words that show up as suffixes on POS product names
// ("Blue Dream - 1g", "OG Kush (3.5g)", "Gelato 2 pack").
const unitWord = `g|mg|kg|oz|ml|l|gram|grams|pk|pack|packs|ct|cart|carts|unit|units`

// Parenthetical chunks carry pack sizes and house notes, never identity.
var reParen = regexp.MustCompile(`\([^)]*\)`)

// Everything that is not a letter, digit or space becomes a space.
// Dashes go here too, so "Blue Dream - 1g" ends up as "blue dream 1g"
// before the size token is cut.
var rePunct = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// "1g", "3 5g" (decimal point already stripped), "2 pack", "50 units".
var reSizeToken = regexp.MustCompile(`\b\d+(?:\s+\d+)?\s*(?:` + unitWord + `)\b`)

// Normalize canonicalizes a raw product name into its comparable form:
// lower-cased, parentheticals dropped, punctuation stripped, size suffixes
// removed, spaces collapsed. Pure and idempotent: reapplying to its own
// output is a no-op, which is what the exact-match shortcut relies on.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	out := strings.ToLower(strings.TrimSpace(name))

	out = reParen.ReplaceAllString(out, " ")
	out = strings.ReplaceAll(out, "&", " and ")
	out = rePunct.ReplaceAllString(out, " ")
	out = reSizeToken.ReplaceAllString(out, " ")

	return collapseSpaces(out)
}

// collapseSpaces squeezes runs of whitespace into single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tokenSort orders tokens lexicographically, so word order stops mattering
// ("kush og" == "og kush").
func tokenSort(s string) string {
	f := strings.Fields(s)
	sort.Strings(f)
	return strings.Join(f, " ")
}
