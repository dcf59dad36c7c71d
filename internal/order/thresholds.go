package order

import (
	"fmt"
	"strings"
)

// Threshold holds the restock rule for one category. Ordering is in fixed
// restock-pack units: OrderQuantity is requested as-is, never a gap fill.
type Threshold struct {
	ReorderBelow  float64 `json:"reorderBelow"`
	OrderQuantity float64 `json:"orderQuantity"`
	Unit          string  `json:"unit"`
}

// Table maps categories to thresholds. Lookups are case-insensitive and
// fall back to the default threshold for unrecognized categories.
type Table struct {
	byCategory map[string]Threshold
	def        *Threshold
}

// NewTable builds a threshold table. def may be nil, in which case lookups
// of unknown categories fail (a configuration error surfaced by Lookup).
func NewTable(thresholds map[string]Threshold, def *Threshold) *Table {
	byCat := make(map[string]Threshold, len(thresholds))
	for c, t := range thresholds {
		byCat[strings.ToLower(strings.TrimSpace(c))] = t
	}
	return &Table{byCategory: byCat, def: def}
}

// DefaultTable is the production restock policy: concentrates reorder below
// 10g in 28g packs, carts below 20 in packs of 50, prerolls below 50 in
// packs of 100, flower below 100g in 448g (1 lb) packs. Anything
// unrecognized falls back to the concentrate rule.
func DefaultTable() *Table {
	gram28 := Threshold{ReorderBelow: 10, OrderQuantity: 28, Unit: "grams"}
	return NewTable(map[string]Threshold{
		"Shatter":       gram28,
		"Badder":        gram28,
		"Sugar":         gram28,
		"Live Resin":    gram28,
		"Rosin":         gram28,
		"Diamonds":      gram28,
		"Full Spec Oil": {ReorderBelow: 20, OrderQuantity: 50, Unit: "carts"},
		"Prerolls":      {ReorderBelow: 50, OrderQuantity: 100, Unit: "units"},
		"Flower":        {ReorderBelow: 100, OrderQuantity: 448, Unit: "grams"},
	}, &gram28)
}

// Lookup resolves the threshold for a category. Unknown categories use the
// default; a missing default is a configuration error.
func (t *Table) Lookup(category string) (Threshold, error) {
	if th, ok := t.byCategory[strings.ToLower(strings.TrimSpace(category))]; ok {
		return th, nil
	}
	if t.def != nil {
		return *t.def, nil
	}
	return Threshold{}, fmt.Errorf("no threshold for category %q and no default configured", category)
}
