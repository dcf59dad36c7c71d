package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"restock-service/internal/reconcile/model"
)

// MatchMemory is the engine's view of the confirmed-match store. Lookup
// misses and lookup failures both degrade to computed scoring; Confirm
// failures are surfaced, never swallowed.
type MatchMemory interface {
	Lookup(posNameNormalized string) (productionNameNormalized string, ok bool, err error)
	Confirm(posNameNormalized, productionNameNormalized string) error
}

// Engine performs one-to-one matching of a POS inventory against a
// production inventory. One Engine is safe to reuse across runs; each run
// is synchronous and touches no shared state besides the match memory.
type Engine struct {
	mem MatchMemory // nil disables the memory shortcut
	opt model.Options
	log zerolog.Logger
}

func NewEngine(mem MatchMemory, opt model.Options, logger zerolog.Logger) *Engine {
	return &Engine{mem: mem, opt: opt, log: logger}
}

// Reconcile classifies every POS record into exactly one of auto-matched,
// needs-review or unmatched, and every leftover production record into
// production-only. Overrides are human decisions from a prior review pass,
// keyed by POS record index; a confirm wins outright and is written through
// to the match memory, a reject only excludes that one pairing for this run.
//
// Malformed records are skipped and reported as warnings rather than
// aborting the run. The returned error is non-nil only when a confirmed
// override could not be persisted; the result is still fully populated.
func (e *Engine) Reconcile(pos, production []model.ProductRecord, overrides map[int]model.Override) (model.Result, error) {
	res := model.Result{
		AutoMatched:    []model.MatchCandidate{},
		NeedsReview:    []model.MatchCandidate{},
		Unmatched:      []model.UnmatchedRecord{},
		ProductionOnly: []model.ProductionOnlyRecord{},
	}
	var confirmErrs []error

	// Validate and normalize the production side once. Invalid rows leave
	// the candidate pool entirely (and the production-only bucket).
	prodNorm := make([]string, len(production))
	prodValid := make([]bool, len(production))
	for j, pr := range production {
		if reason := validateRecord(pr); reason != "" {
			res.Warnings = append(res.Warnings, model.Warning{
				Side: "production", Index: j, Name: pr.Name, Reason: reason,
			})
			continue
		}
		prodValid[j] = true
		prodNorm[j] = Normalize(pr.Name)
	}

	// consumed tracks one-to-one matching: a production record feeds at
	// most one POS record, first come first served in POS input order.
	consumed := make([]bool, len(production))

	for i, p := range pos {
		if reason := validateRecord(p); reason != "" {
			res.Warnings = append(res.Warnings, model.Warning{
				Side: "pos", Index: i, Name: p.Name, Reason: reason,
			})
			continue
		}
		posNorm := Normalize(p.Name)

		rejected := -1
		if ov, ok := overrides[i]; ok {
			switch ov.Action {
			case model.OverrideConfirm:
				j := ov.ProductionIndex
				if j < 0 || j >= len(production) || !prodValid[j] || consumed[j] {
					res.Warnings = append(res.Warnings, model.Warning{
						Side: "pos", Index: i, Name: p.Name,
						Reason: fmt.Sprintf("confirmed production record %d unavailable", j),
					})
					break
				}
				if e.mem != nil {
					if err := e.mem.Confirm(posNorm, prodNorm[j]); err != nil {
						confirmErrs = append(confirmErrs, fmt.Errorf("confirm %q -> %q: %w", posNorm, prodNorm[j], err))
					}
				}
				consumed[j] = true
				res.AutoMatched = append(res.AutoMatched, model.MatchCandidate{
					PosIndex: i, ProductionIndex: j,
					Pos: p, Production: production[j],
					Score: 100, Source: model.SourceMemory,
				})
				continue
			case model.OverrideReject:
				// Run-scoped only: the rejected pairing is excluded from
				// scoring below but is never persisted anywhere.
				rejected = ov.ProductionIndex
			}
		}

		// Memory shortcut. A failing store degrades to computed scoring.
		if rejected == -1 && e.mem != nil && posNorm != "" {
			remembered, ok, err := e.mem.Lookup(posNorm)
			if err != nil {
				e.log.Warn().Err(err).Str("pos_name", p.Name).Msg("match memory lookup failed, falling back to scoring")
			} else if ok {
				if j := firstAvailableByNorm(prodNorm, prodValid, consumed, remembered); j >= 0 {
					consumed[j] = true
					res.AutoMatched = append(res.AutoMatched, model.MatchCandidate{
						PosIndex: i, ProductionIndex: j,
						Pos: p, Production: production[j],
						Score: 100, Source: model.SourceMemory,
					})
					continue
				}
			}
		}

		// Score against every remaining candidate; ties keep the first
		// production occurrence so runs stay deterministic.
		best, bestJ := -1, -1
		for j := range production {
			if !prodValid[j] || consumed[j] || j == rejected {
				continue
			}
			s := Score(posNorm, prodNorm[j], p.Category, production[j].Category, e.opt)
			if s > best {
				best, bestJ = s, j
			}
		}

		switch {
		case bestJ >= 0 && best >= e.opt.AutoThreshold:
			consumed[bestJ] = true
			res.AutoMatched = append(res.AutoMatched, model.MatchCandidate{
				PosIndex: i, ProductionIndex: bestJ,
				Pos: p, Production: production[bestJ],
				Score: best, Source: model.SourceComputed,
			})
		case bestJ >= 0 && best >= e.opt.ReviewThreshold:
			// Review candidates do not consume: two POS records may
			// propose the same production record, the human decides.
			res.NeedsReview = append(res.NeedsReview, model.MatchCandidate{
				PosIndex: i, ProductionIndex: bestJ,
				Pos: p, Production: production[bestJ],
				Score: best, Source: model.SourceComputed,
			})
		default:
			// Below confidence: report no candidate at all rather than a
			// bad suggestion.
			res.Unmatched = append(res.Unmatched, model.UnmatchedRecord{PosIndex: i, Pos: p})
		}
	}

	for j, pr := range production {
		if prodValid[j] && !consumed[j] {
			res.ProductionOnly = append(res.ProductionOnly, model.ProductionOnlyRecord{
				ProductionIndex: j, Production: pr,
			})
		}
	}

	res.Summary = model.Summary{
		PosCount:        len(pos),
		ProductionCount: len(production),
		AutoMatched:     len(res.AutoMatched),
		NeedsReview:     len(res.NeedsReview),
		Unmatched:       len(res.Unmatched),
		ProductionOnly:  len(res.ProductionOnly),
	}
	return res, errors.Join(confirmErrs...)
}

// validateRecord returns a human-readable reason when a record cannot take
// part in a run, or "" when it is fine.
func validateRecord(r model.ProductRecord) string {
	if r.Name == "" {
		return "missing product name"
	}
	if r.Quantity < 0 {
		return "negative quantity"
	}
	return ""
}

// firstAvailableByNorm finds the first unconsumed valid production record
// whose normalized name equals norm, or -1.
func firstAvailableByNorm(prodNorm []string, valid, consumed []bool, norm string) int {
	for j := range prodNorm {
		if valid[j] && !consumed[j] && prodNorm[j] == norm {
			return j
		}
	}
	return -1
}
