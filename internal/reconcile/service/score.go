package service

import (
	"math"
	"strings"

	"restock-service/internal/reconcile/model"
)

// Score rates how likely two already-normalized names refer to the same
// product, on a 0..100 scale. Exact equality short-circuits to 100. Below
// that, the base blends sequence similarity (Damerau-Levenshtein, best of
// raw and token-sorted order) with token-overlap ratio, so a one-letter typo
// in a word costs more than reshuffled word order; the blend keeps computed
// scores out of the auto band unless the names are near-identical, which is
// what the review threshold is for. Category agreement nudges the result.
// Symmetric: swapping the two sides never changes the score.
func Score(aNorm, bNorm, aCategory, bCategory string, opt model.Options) int {
	if aNorm == "" || bNorm == "" {
		return 0
	}
	if aNorm == bNorm {
		return 100
	}

	seq := editSimilarity(aNorm, bNorm)
	if s := editSimilarity(tokenSort(aNorm), tokenSort(bNorm)); s > seq {
		seq = s
	}
	base := (seq + tokenOverlap(aNorm, bNorm)) / 2

	score := int(math.Round(base * 100))

	ca := CanonicalCategory(aCategory)
	cb := CanonicalCategory(bCategory)
	switch {
	case ca != "" && ca == cb:
		score += opt.CategoryBoost
	case ca != "" && cb != "" && !compatibleCategories(ca, cb):
		score -= opt.CategoryPenalty
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// tokenOverlap is the Jaccard ratio of the two token sets.
func tokenOverlap(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		m[t] = struct{}{}
	}
	return m
}
