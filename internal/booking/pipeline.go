package booking

import (
	"errors"
	"time"
)

// ErrNoRawData signals a reprocess request with no stored raw rows to work
// from. The HTTP layer maps it to a "no data; please upload" response.
var ErrNoRawData = errors.New("no raw booking data available")

// Pipeline runs the full transformation: normalize, exclude, classify,
// derive financials, aggregate. It is a pure function of its input and
// configuration: running it twice over the same records yields identical
// aggregates. It performs no I/O and offers no write serialization; callers
// sharing a snapshot destination must serialize writes themselves.
type Pipeline struct {
	rules Rules
	now   func() time.Time
}

// NewPipeline builds a pipeline with the given business rules.
func NewPipeline(rules Rules) *Pipeline {
	return &Pipeline{rules: rules, now: time.Now}
}

// WithClock fixes the snapshot timestamps, for deterministic output.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Process normalizes, filters, classifies, and derives financials, in that
// order, returning the surviving rows with their derived fields attached.
func (p *Pipeline) Process(records []RawRecord) []Row {
	rows := Filter(NormalizeAll(records), p.rules)
	for i := range rows {
		rows[i].Class = Classify(rows[i], p.rules)
		rows[i].Income, rows[i].Disbursements = DeriveFinancials(rows[i], p.rules.IncomeColumns)
	}
	return rows
}

// Run executes the whole pipeline. Empty input is not an error: it yields a
// well-formed all-zero snapshot.
func (p *Pipeline) Run(records []RawRecord) *Snapshot {
	return Aggregate(p.Process(records), p.now())
}
