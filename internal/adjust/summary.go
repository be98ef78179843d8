package adjust

import (
	"time"

	"github.com/rickgao/market-pricer/internal/model"
	"github.com/rickgao/market-pricer/internal/pricing"
)

// Mode selects whether a run mutates listings.
type Mode string

const (
	ModeDryRun Mode = "dry-run"
	ModeApply  Mode = "apply"
)

// Skip reasons.
const (
	SkipNonMaxRank       = "non-max-rank item excluded"
	SkipNoComparable     = "no comparable orders"
	SkipAlreadyOptimal   = "already optimal"
	SkipNonPositivePrice = "non-positive recommendation"
)

// Outcome is what happened to one listing.
type Outcome string

const (
	OutcomeSkipped     Outcome = "skipped"
	OutcomeRecommended Outcome = "recommended"
	OutcomeApplied     Outcome = "applied"
	OutcomeFailed      Outcome = "failed"
)

// ListingResult is the per-listing detail of a run.
type ListingResult struct {
	Order          model.MarketOrder
	Outcome        Outcome
	SkipReason     string
	Recommendation *pricing.Recommendation
	Adjustment     *model.AdjustmentResult
	Err            error
}

// Summary aggregates a run.
type Summary struct {
	RunID      string
	Mode       Mode
	Side       model.OrderType
	Strategy   string
	StartedAt  time.Time
	FinishedAt time.Time

	Processed   int
	Skipped     map[string]int // by reason
	Recommended int            // listings with a price change to make
	Applied     int
	Failed      int

	Results   []ListingResult
	Cancelled bool // stopped between listings before the end
}

func newSummary(runID string, mode Mode, side model.OrderType, strategy string) *Summary {
	return &Summary{
		RunID:     runID,
		Mode:      mode,
		Side:      side,
		Strategy:  strategy,
		StartedAt: time.Now(),
		Skipped:   make(map[string]int),
	}
}

// record adds a listing result to the totals.
func (s *Summary) record(r ListingResult) {
	s.Processed++
	switch r.Outcome {
	case OutcomeSkipped:
		s.Skipped[r.SkipReason]++
	case OutcomeRecommended:
		s.Recommended++
	case OutcomeApplied:
		s.Recommended++
		s.Applied++
	case OutcomeFailed:
		s.Failed++
		if r.Adjustment != nil {
			s.Recommended++
		}
	}
	s.Results = append(s.Results, r)
}

// SkippedTotal returns the number of skipped listings across all reasons.
func (s *Summary) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// Adjustments returns the price changes of the run, applied or not.
func (s *Summary) Adjustments() []model.AdjustmentResult {
	var out []model.AdjustmentResult
	for _, r := range s.Results {
		if r.Adjustment != nil {
			out = append(out, *r.Adjustment)
		}
	}
	return out
}

// Pending returns the recommended changes not yet applied.
func (s *Summary) Pending() []ListingResult {
	var out []ListingResult
	for _, r := range s.Results {
		if r.Outcome == OutcomeRecommended {
			out = append(out, r)
		}
	}
	return out
}
