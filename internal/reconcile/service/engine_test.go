package service

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock-service/internal/reconcile/model"
)

// fakeMemory is an in-memory MatchMemory with injectable failures.
type fakeMemory struct {
	entries    map[string]string
	lookupErr  error
	confirmErr error
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{entries: map[string]string{}}
}

func (m *fakeMemory) Lookup(posNorm string) (string, bool, error) {
	if m.lookupErr != nil {
		return "", false, m.lookupErr
	}
	v, ok := m.entries[posNorm]
	return v, ok, nil
}

func (m *fakeMemory) Confirm(posNorm, prodNorm string) error {
	if m.confirmErr != nil {
		return m.confirmErr
	}
	m.entries[posNorm] = prodNorm
	return nil
}

func newTestEngine(mem MatchMemory) *Engine {
	return NewEngine(mem, model.DefaultOptions(), zerolog.Nop())
}

func pr(name, category string, qty float64) model.ProductRecord {
	return model.ProductRecord{Name: name, Category: category, Quantity: qty}
}

func TestReconcileExactMatch(t *testing.T) {
	eng := newTestEngine(newFakeMemory())

	res, err := eng.Reconcile(
		[]model.ProductRecord{pr("Blue Dream - 1g", "Flower", 0)},
		[]model.ProductRecord{pr("Blue Dream", "Flower", 500)},
		nil,
	)
	require.NoError(t, err)

	require.Len(t, res.AutoMatched, 1)
	m := res.AutoMatched[0]
	assert.Equal(t, 100, m.Score)
	assert.Equal(t, model.SourceComputed, m.Source)
	assert.Equal(t, 0, m.PosIndex)
	assert.Equal(t, 0, m.ProductionIndex)
	assert.Empty(t, res.NeedsReview)
	assert.Empty(t, res.Unmatched)
	assert.Empty(t, res.ProductionOnly)
}

func TestReconcileBucketsArePartition(t *testing.T) {
	eng := newTestEngine(newFakeMemory())

	pos := []model.ProductRecord{
		pr("Blue Dream - 1g", "Flower", 0),       // exact after normalization
		pr("OG Kush Prerol", "Prerolls", 40),     // typo: review band
		pr("Completely Unrelated", "Flower", 10), // nothing close
	}
	production := []model.ProductRecord{
		pr("Blue Dream", "Flower", 500),
		pr("OG Kush Preroll", "Prerolls", 200),
		pr("Papaya Punch Sugar", "Sugar", 30),
	}

	res, err := eng.Reconcile(pos, production, nil)
	require.NoError(t, err)

	// Every POS record lands in exactly one bucket.
	total := len(res.AutoMatched) + len(res.NeedsReview) + len(res.Unmatched)
	assert.Equal(t, len(pos), total)

	require.Len(t, res.AutoMatched, 1)
	require.Len(t, res.NeedsReview, 1)
	require.Len(t, res.Unmatched, 1)

	review := res.NeedsReview[0]
	assert.Equal(t, 1, review.PosIndex)
	assert.Equal(t, 1, review.ProductionIndex)
	assert.GreaterOrEqual(t, review.Score, 70)
	assert.Less(t, review.Score, 90)

	// Review candidates do not consume: their production record is still a
	// leftover, along with the never-proposed one.
	assert.Len(t, res.ProductionOnly, 2)
	assert.Equal(t, 1, res.ProductionOnly[0].ProductionIndex)
	assert.Equal(t, 2, res.ProductionOnly[1].ProductionIndex)

	assert.Equal(t, res.Summary.AutoMatched, len(res.AutoMatched))
	assert.Equal(t, res.Summary.ProductionOnly, len(res.ProductionOnly))
}

func TestReconcileOneToOneConsumption(t *testing.T) {
	eng := newTestEngine(newFakeMemory())

	// Both POS records normalize to "blue dream"; only one production
	// record exists. The first (in input order) consumes it.
	res, err := eng.Reconcile(
		[]model.ProductRecord{
			pr("Blue Dream - 1g", "Flower", 3),
			pr("Blue Dream (1g)", "Flower", 7),
		},
		[]model.ProductRecord{pr("Blue Dream", "Flower", 500)},
		nil,
	)
	require.NoError(t, err)

	require.Len(t, res.AutoMatched, 1)
	assert.Equal(t, 0, res.AutoMatched[0].PosIndex)
	require.Len(t, res.Unmatched, 1)
	assert.Equal(t, 1, res.Unmatched[0].PosIndex)
	assert.Empty(t, res.ProductionOnly)
}

func TestReconcileTieBreakIsFirstProduction(t *testing.T) {
	eng := newTestEngine(newFakeMemory())

	// Two identical production names: the earlier one wins the tie.
	res, err := eng.Reconcile(
		[]model.ProductRecord{pr("Blue Dream", "Flower", 3)},
		[]model.ProductRecord{
			pr("Blue Dream", "Flower", 100),
			pr("Blue Dream", "Flower", 200),
		},
		nil,
	)
	require.NoError(t, err)

	require.Len(t, res.AutoMatched, 1)
	assert.Equal(t, 0, res.AutoMatched[0].ProductionIndex)
	require.Len(t, res.ProductionOnly, 1)
	assert.Equal(t, 1, res.ProductionOnly[0].ProductionIndex)
}

func TestReconcileMemoryHit(t *testing.T) {
	mem := newFakeMemory()
	mem.entries["og kush prerol"] = "og kush preroll"
	eng := newTestEngine(mem)

	res, err := eng.Reconcile(
		[]model.ProductRecord{pr("OG Kush Prerol", "Prerolls", 40)},
		[]model.ProductRecord{pr("OG Kush Preroll", "Prerolls", 200)},
		nil,
	)
	require.NoError(t, err)

	require.Len(t, res.AutoMatched, 1)
	m := res.AutoMatched[0]
	assert.Equal(t, 100, m.Score)
	assert.Equal(t, model.SourceMemory, m.Source)
	assert.Empty(t, res.NeedsReview)
}

func TestReconcileMemoryUnavailableDegrades(t *testing.T) {
	mem := newFakeMemory()
	mem.lookupErr = errors.New("store offline")
	eng := newTestEngine(mem)

	res, err := eng.Reconcile(
		[]model.ProductRecord{pr("Blue Dream", "Flower", 3)},
		[]model.ProductRecord{pr("Blue Dream", "Flower", 500)},
		nil,
	)
	require.NoError(t, err)

	// Falls through to computed scoring.
	require.Len(t, res.AutoMatched, 1)
	assert.Equal(t, model.SourceComputed, res.AutoMatched[0].Source)
}

func TestReconcileConfirmOverride(t *testing.T) {
	mem := newFakeMemory()
	eng := newTestEngine(mem)

	res, err := eng.Reconcile(
		[]model.ProductRecord{pr("OG Kush Prerol", "Prerolls", 40)},
		[]model.ProductRecord{pr("OG Kush Preroll", "Prerolls", 200)},
		map[int]model.Override{0: {Action: model.OverrideConfirm, ProductionIndex: 0}},
	)
	require.NoError(t, err)

	require.Len(t, res.AutoMatched, 1)
	assert.Equal(t, 100, res.AutoMatched[0].Score)

	// Confirmation wrote through to memory.
	remembered, ok, _ := mem.Lookup("og kush prerol")
	require.True(t, ok)
	assert.Equal(t, "og kush preroll", remembered)
}

func TestReconcileConfirmOverrideWriteFailureSurfaces(t *testing.T) {
	mem := newFakeMemory()
	mem.confirmErr = errors.New("store offline")
	eng := newTestEngine(mem)

	res, err := eng.Reconcile(
		[]model.ProductRecord{pr("OG Kush Prerol", "Prerolls", 40)},
		[]model.ProductRecord{pr("OG Kush Preroll", "Prerolls", 200)},
		map[int]model.Override{0: {Action: model.OverrideConfirm, ProductionIndex: 0}},
	)

	// Loud failure, but the run result is still usable.
	require.Error(t, err)
	assert.Len(t, res.AutoMatched, 1)
}

func TestReconcileRejectOverride(t *testing.T) {
	// Memory remembers the pairing, but the human just rejected it: the
	// rejected candidate must not resurface in this run, via memory or
	// scoring.
	mem := newFakeMemory()
	mem.entries["og kush prerol"] = "og kush preroll"
	eng := newTestEngine(mem)

	res, err := eng.Reconcile(
		[]model.ProductRecord{pr("OG Kush Prerol", "Prerolls", 40)},
		[]model.ProductRecord{pr("OG Kush Preroll", "Prerolls", 200)},
		map[int]model.Override{0: {Action: model.OverrideReject, ProductionIndex: 0}},
	)
	require.NoError(t, err)

	assert.Empty(t, res.AutoMatched)
	assert.Empty(t, res.NeedsReview)
	require.Len(t, res.Unmatched, 1)
	require.Len(t, res.ProductionOnly, 1)

	// Rejection is run-scoped: memory still holds the confirmation, so an
	// independent later run auto-matches again.
	res2, err := eng.Reconcile(
		[]model.ProductRecord{pr("OG Kush Prerol", "Prerolls", 40)},
		[]model.ProductRecord{pr("OG Kush Preroll", "Prerolls", 200)},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, res2.AutoMatched, 1)
	assert.Equal(t, model.SourceMemory, res2.AutoMatched[0].Source)
}

func TestReconcileRejectFallsBackToNextBest(t *testing.T) {
	eng := newTestEngine(newFakeMemory())

	res, err := eng.Reconcile(
		[]model.ProductRecord{pr("Blue Dream", "Flower", 3)},
		[]model.ProductRecord{
			pr("Blue Dream", "Flower", 100),
			pr("Dream Blue", "Flower", 50), // token-sorted twin
		},
		map[int]model.Override{0: {Action: model.OverrideReject, ProductionIndex: 0}},
	)
	require.NoError(t, err)

	require.Len(t, res.AutoMatched, 1)
	assert.Equal(t, 1, res.AutoMatched[0].ProductionIndex)
}

func TestReconcileSkipsMalformedRecords(t *testing.T) {
	eng := newTestEngine(newFakeMemory())

	res, err := eng.Reconcile(
		[]model.ProductRecord{
			pr("", "Flower", 10),          // missing name
			pr("Blue Dream", "Flower", -1), // negative quantity
			pr("Blue Dream", "Flower", 3),
		},
		[]model.ProductRecord{
			pr("Blue Dream", "Flower", 500),
			pr("", "Sugar", 10),
		},
		nil,
	)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 3)
	require.Len(t, res.AutoMatched, 1)
	assert.Equal(t, 2, res.AutoMatched[0].PosIndex)
	assert.Empty(t, res.Unmatched)
	assert.Empty(t, res.ProductionOnly)
}

func TestReconcileProductionOnly(t *testing.T) {
	eng := newTestEngine(newFakeMemory())

	res, err := eng.Reconcile(
		[]model.ProductRecord{},
		[]model.ProductRecord{
			pr("Papaya Punch Sugar", "Sugar", 30),
			pr("Gelato Shatter", "Shatter", 12),
		},
		nil,
	)
	require.NoError(t, err)

	require.Len(t, res.ProductionOnly, 2)
	assert.Equal(t, 0, res.ProductionOnly[0].ProductionIndex)
	assert.Equal(t, 1, res.ProductionOnly[1].ProductionIndex)
}

func TestReconcileWithoutMemory(t *testing.T) {
	eng := newTestEngine(nil)

	res, err := eng.Reconcile(
		[]model.ProductRecord{pr("Blue Dream", "Flower", 3)},
		[]model.ProductRecord{pr("Blue Dream", "Flower", 500)},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, res.AutoMatched, 1)
}
