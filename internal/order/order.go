// Package order turns reconciliation output into a prioritized restock
// order. It is a filter, not a pass-through: matched products with enough
// POS stock produce no line item at all.
package order

import (
	"restock-service/internal/reconcile/model"
	"restock-service/internal/reconcile/service"
)

// Priority of a line item. Critical items are out of stock, high items are
// below their reorder threshold, normal items are production-only products
// the location does not carry yet.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
)

// Reason explains why an item made it into the order.
type Reason string

const (
	ReasonOutOfStock Reason = "out_of_stock"
	ReasonLowStock   Reason = "low_stock"
	ReasonNewProduct Reason = "new_product"
)

// LineItem is one row of the restock order. Recomputed every run, never
// persisted.
type LineItem struct {
	ProductName         string   `json:"productName"`
	Category            string   `json:"category"`
	PosQuantity         float64  `json:"posQuantity"`
	ProductionAvailable float64  `json:"productionAvailable"`
	RequestedQuantity   float64  `json:"requestedQuantity"`
	Unit                string   `json:"unit"`
	Priority            Priority `json:"priority"`
	Reason              Reason   `json:"reason"`
}

// Summary tallies the order by priority tier.
type Summary struct {
	Critical    int `json:"critical"`
	High        int `json:"high"`
	NewProducts int `json:"newProducts"`
	Total       int `json:"total"`
}

// Result is the built order: critical items first, then high, then normal,
// each tier preserving the order matches were produced in.
type Result struct {
	OrderItems []LineItem `json:"orderItems"`
	Summary    Summary    `json:"summary"`
}

// Build derives the restock order from matched pairs (auto-matched plus
// human-confirmed review pairs, in the order the engine produced them) and
// production-only records. The only error is a threshold configuration
// hole; it never reflects input data.
func Build(matches []model.MatchCandidate, productionOnly []model.ProductionOnlyRecord, table *Table) (Result, error) {
	var critical, high, normal []LineItem

	for _, m := range matches {
		category := displayCategory(m.Production.Category, m.Pos.Category)
		th, err := table.Lookup(category)
		if err != nil {
			return Result{}, err
		}

		item := LineItem{
			ProductName:         m.Pos.Name,
			Category:            category,
			PosQuantity:         m.Pos.Quantity,
			ProductionAvailable: m.Production.Quantity,
			RequestedQuantity:   th.OrderQuantity,
			Unit:                th.Unit,
		}
		switch {
		case m.Pos.Quantity == 0:
			item.Priority = PriorityCritical
			item.Reason = ReasonOutOfStock
			critical = append(critical, item)
		case m.Pos.Quantity < th.ReorderBelow:
			item.Priority = PriorityHigh
			item.Reason = ReasonLowStock
			high = append(high, item)
		}
		// Sufficient stock: no line item.
	}

	for _, p := range productionOnly {
		category := displayCategory(p.Production.Category, "")
		th, err := table.Lookup(category)
		if err != nil {
			return Result{}, err
		}
		normal = append(normal, LineItem{
			ProductName:         p.Production.Name,
			Category:            category,
			PosQuantity:         0,
			ProductionAvailable: p.Production.Quantity,
			RequestedQuantity:   th.OrderQuantity,
			Unit:                th.Unit,
			Priority:            PriorityNormal,
			Reason:              ReasonNewProduct,
		})
	}

	items := make([]LineItem, 0, len(critical)+len(high)+len(normal))
	items = append(items, critical...)
	items = append(items, high...)
	items = append(items, normal...)

	return Result{
		OrderItems: items,
		Summary: Summary{
			Critical:    len(critical),
			High:        len(high),
			NewProducts: len(normal),
			Total:       len(items),
		},
	}, nil
}

// displayCategory prefers the production side's category, canonicalized
// when recognized, and falls back to the POS side.
func displayCategory(production, pos string) string {
	if c := service.CanonicalCategory(production); c != "" {
		return c
	}
	if production != "" {
		return production
	}
	if c := service.CanonicalCategory(pos); c != "" {
		return c
	}
	return pos
}
