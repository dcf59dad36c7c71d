package model

import "time"

// ProductRecord is one row of either inventory. Inputs are never mutated by
// the engine; everything downstream is derived.
type ProductRecord struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Quantity      float64 `json:"quantity"`
	UnitOfMeasure string  `json:"unitOfMeasure,omitempty"`
	Sku           string  `json:"sku,omitempty"`
}

// CandidateSource tags where a match came from.
type CandidateSource string

const (
	SourceMemory   CandidateSource = "memory"
	SourceComputed CandidateSource = "computed"
)

// MatchCandidate pairs one POS record with one production record.
// Transient, produced per reconciliation run.
type MatchCandidate struct {
	PosIndex        int             `json:"posIndex"`
	ProductionIndex int             `json:"productionIndex"`
	Pos             ProductRecord   `json:"pos"`
	Production      ProductRecord   `json:"production"`
	Score           int             `json:"score"` // 0..100
	Source          CandidateSource `json:"source"`
}

// UnmatchedRecord is a POS record with no candidate above the review
// threshold. No candidate is reported even if one exists.
type UnmatchedRecord struct {
	PosIndex int           `json:"posIndex"`
	Pos      ProductRecord `json:"pos"`
}

// ProductionOnlyRecord is a production record no POS record consumed.
type ProductionOnlyRecord struct {
	ProductionIndex int           `json:"productionIndex"`
	Production      ProductRecord `json:"production"`
}

// OverrideAction is a human decision from a prior review step.
type OverrideAction string

const (
	OverrideConfirm OverrideAction = "confirm"
	OverrideReject  OverrideAction = "reject"
)

// Override is one reviewed decision keyed by POS record index.
// Confirm pins the named production record; reject excludes it as a
// candidate for this POS record within the current run only.
type Override struct {
	Action          OverrideAction `json:"action"`
	ProductionIndex int            `json:"productionIndex"`
}

// Options tunes the matching engine. Zero value is not usable; callers
// start from DefaultOptions.
type Options struct {
	AutoThreshold   int `json:"autoThreshold"`   // score >= this: auto-matched
	ReviewThreshold int `json:"reviewThreshold"` // score >= this: needs review
	CategoryBoost   int `json:"categoryBoost"`   // added when categories agree
	CategoryPenalty int `json:"categoryPenalty"` // subtracted when categories conflict
}

// DefaultOptions mirrors the thresholds the review flow was built around.
func DefaultOptions() Options {
	return Options{
		AutoThreshold:   90,
		ReviewThreshold: 70,
		CategoryBoost:   10,
		CategoryPenalty: 15,
	}
}

// Warning reports a record skipped during a run (bad input, not an error).
type Warning struct {
	Side   string `json:"side"` // "pos" | "production"
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// Summary carries the bucket sizes of one run.
type Summary struct {
	PosCount        int `json:"posCount"`
	ProductionCount int `json:"productionCount"`
	AutoMatched     int `json:"autoMatched"`
	NeedsReview     int `json:"needsReview"`
	Unmatched       int `json:"unmatched"`
	ProductionOnly  int `json:"productionOnly"`
}

// Result is the outcome of one reconciliation run. Buckets preserve input
// order; every valid POS record lands in exactly one of the first three.
type Result struct {
	AutoMatched    []MatchCandidate       `json:"autoMatched"`
	NeedsReview    []MatchCandidate       `json:"needsReview"`
	Unmatched      []UnmatchedRecord      `json:"unmatched"`
	ProductionOnly []ProductionOnlyRecord `json:"productionOnly"`
	Summary        Summary                `json:"summary"`
	Warnings       []Warning              `json:"warnings,omitempty"`
}

// MemoryEntry is one persisted confirmation. At most one entry exists per
// normalized POS name; the latest confirmation wins.
type MemoryEntry struct {
	PosNameNormalized        string    `json:"posNameNormalized"`
	ProductionNameNormalized string    `json:"productionNameNormalized"`
	ConfirmedAt              time.Time `json:"confirmedAt"`
}
