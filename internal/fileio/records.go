package fileio

import (
	"regexp"
	"sort"
	"strings"

	"restock-service/internal/reconcile/model"
	"restock-service/internal/reconcile/service"
	"restock-service/internal/utils"
)

// Column aliases seen across POS exports and production spreadsheets.
// First exact match wins, then substring match.
var (
	nameColumns = []string{"product name", "name", "product", "strain"}
	typeColumns = []string{"category", "product type", "type"}
	qtyColumns  = []string{"quantity", "qty", "quantity on hand", "amount available", "total remaining", "count"}
	unitColumns = []string{"unit of measure", "unit", "uom"}
	skuColumns  = []string{"sku", "item number", "item id"}
)

var rxHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// PosProducts maps POS export rows to product records. The POS category is
// derived the way the matcher expects it: name keywords first, then the
// type column, defaulting to Flower. Totals rows are dropped.
func PosProducts(rows []map[string]string) []model.ProductRecord {
	out := make([]model.ProductRecord, 0, len(rows))
	for _, rec := range rows {
		name := strings.TrimSpace(lookupColumn(rec, nameColumns))
		if name == "" || strings.EqualFold(name, "---totals---") {
			continue
		}
		posType := strings.TrimSpace(lookupColumn(rec, typeColumns))
		qty, _ := utils.ParseQuantity(lookupColumn(rec, qtyColumns))

		out = append(out, model.ProductRecord{
			Name:          name,
			Category:      service.CategoryForProduct(name, posType),
			Quantity:      qty,
			UnitOfMeasure: strings.TrimSpace(lookupColumn(rec, unitColumns)),
			Sku:           strings.TrimSpace(lookupColumn(rec, skuColumns)),
		})
	}
	return out
}

// ProductionProducts maps production spreadsheet rows to product records.
// The category column is kept as written (the threshold table is
// case-insensitive and canonicalization happens at scoring time).
func ProductionProducts(rows []map[string]string) []model.ProductRecord {
	out := make([]model.ProductRecord, 0, len(rows))
	for _, rec := range rows {
		name := strings.TrimSpace(lookupColumn(rec, nameColumns))
		if name == "" {
			continue
		}
		qty, _ := utils.ParseQuantity(lookupColumn(rec, qtyColumns))

		out = append(out, model.ProductRecord{
			Name:          name,
			Category:      strings.TrimSpace(lookupColumn(rec, typeColumns)),
			Quantity:      qty,
			UnitOfMeasure: strings.TrimSpace(lookupColumn(rec, unitColumns)),
			Sku:           strings.TrimSpace(lookupColumn(rec, skuColumns)),
		})
	}
	return out
}

// lookupColumn resolves a record value by trying each alias exactly, then
// by substring on normalized header keys ("Quantity On Hand (grams)" still
// answers for "quantity on hand").
func lookupColumn(rec map[string]string, aliases []string) string {
	norm := make(map[string]string, len(rec))
	for k, v := range rec {
		norm[normHeaderKey(k)] = v
	}
	for _, a := range aliases {
		if v, ok := norm[a]; ok {
			return v
		}
	}
	// Deterministic substring pass: map order must not pick winners.
	keys := make([]string, 0, len(norm))
	for k := range norm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, a := range aliases {
		for _, k := range keys {
			if strings.Contains(k, a) {
				return norm[k]
			}
		}
	}
	return ""
}

func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = rxHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
