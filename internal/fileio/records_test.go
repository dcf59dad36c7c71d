package fileio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAnyMapsCSV(t *testing.T) {
	csv := "Product Name,Product Type,Quantity\n" +
		"Blue Dream - 1g,Flower,12\n" +
		"OG Kush Preroll,Pre Roll,40\n" +
		"---TOTALS---,,52\n"

	rows, err := ReadAnyMaps(strings.NewReader(csv), "pos.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Blue Dream - 1g", rows[0]["Product Name"])
	assert.Equal(t, "40", rows[1]["Quantity"])
}

func TestReadAnyMapsUnsupported(t *testing.T) {
	_, err := ReadAnyMaps(strings.NewReader("x"), "inventory.pdf", 1)
	require.Error(t, err)
}

func TestPosProducts(t *testing.T) {
	rows := []map[string]string{
		{"Product Name": "Blue Dream - 1g", "Product Type": "Flower", "Quantity": "12"},
		{"Product Name": "OG Kush Preroll", "Product Type": "Pre Roll", "Quantity": "40"},
		{"Product Name": "Gelato", "Product Type": "Badder House", "Quantity": "1,250"},
		{"Product Name": "---TOTALS---", "Product Type": "", "Quantity": "1302"},
		{"Product Name": "", "Product Type": "Flower", "Quantity": "5"},
	}

	got := PosProducts(rows)
	require.Len(t, got, 3)

	assert.Equal(t, "Blue Dream - 1g", got[0].Name)
	assert.Equal(t, "Flower", got[0].Category)
	assert.Equal(t, 12.0, got[0].Quantity)

	// Name keywords beat the type column.
	assert.Equal(t, "Prerolls", got[1].Category)

	// Type mapping and thousands separators.
	assert.Equal(t, "Badder", got[2].Category)
	assert.Equal(t, 1250.0, got[2].Quantity)
}

func TestProductionProducts(t *testing.T) {
	rows := []map[string]string{
		{"Strain": "Papaya Punch", "Category": "Sugar", "Quantity On Hand (grams)": "30.5", "SKU": "PP-01"},
		{"Strain": "", "Category": "Sugar", "Quantity On Hand (grams)": "10"},
	}

	got := ProductionProducts(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Papaya Punch", got[0].Name)
	assert.Equal(t, "Sugar", got[0].Category)
	assert.Equal(t, 30.5, got[0].Quantity)
	assert.Equal(t, "PP-01", got[0].Sku)
}

func TestLookupColumnFuzzyHeaders(t *testing.T) {
	rec := map[string]string{
		"  Product   Name ": "Blue Dream",
		"Total Remaining":   "44",
	}
	assert.Equal(t, "Blue Dream", lookupColumn(rec, nameColumns))
	assert.Equal(t, "44", lookupColumn(rec, qtyColumns))
}
