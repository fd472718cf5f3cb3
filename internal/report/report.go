// Package report assembles the run/QC report and hands the final table to
// its sinks (workbook export, warehouse persistence).
package report

import (
	"time"

	"github.com/google/uuid"

	"FreightRecon/internal/match"
	"FreightRecon/internal/vendor"
)

// ReviewSampleLimit caps how many unmatched/ambiguous shipments the QC
// report carries for manual review.
const ReviewSampleLimit = 50

// FileFailure records one skipped or failed invoice file with its reason.
type FileFailure struct {
	File   string
	Reason string
}

// ReviewItem is one shipment surfaced for manual review.
type ReviewItem struct {
	TrackingNumber string
	Vendor         vendor.Vendor
	RecipientName  string
	Tier           match.Tier
	Score          float64
	Detail         string
}

// RunReport is the QC summary produced by every run, including runs that
// failed after extraction. It is the audit trail: nothing is dropped from
// the pipeline without showing up here.
type RunReport struct {
	RunID      uuid.UUID
	Period     string
	StartedAt  time.Time
	FinishedAt time.Time

	FilesRead    int
	FilesSkipped int
	FilesFailed  int
	FileFailures []FileFailure

	RowsExtracted  int
	RowsRejected   int
	RejectsByField map[string]int

	DuplicatesRemoved map[vendor.Vendor]int

	OrdersLoaded int
	// TierCounts[vendor][tier] is the match distribution per carrier.
	TierCounts map[vendor.Vendor]map[match.Tier]int

	ReviewSample []ReviewItem

	// ShareCheckErrors lists category-share invariant violations; empty on
	// a healthy run.
	ShareCheckErrors []string

	// OrderFeedError is set when the warehouse feed failed; the run then
	// carries no aggregate table and this field distinguishes that from
	// data-quality fallout.
	OrderFeedError string
}

// NewRunReport starts a report for one analysis period.
func NewRunReport(period string) *RunReport {
	return &RunReport{
		RunID:             uuid.New(),
		Period:            period,
		StartedAt:         time.Now(),
		RejectsByField:    make(map[string]int),
		DuplicatesRemoved: make(map[vendor.Vendor]int),
		TierCounts:        make(map[vendor.Vendor]map[match.Tier]int),
	}
}

// CountTier tallies one match outcome for a carrier.
func (r *RunReport) CountTier(v vendor.Vendor, tier match.Tier) {
	m, ok := r.TierCounts[v]
	if !ok {
		m = make(map[match.Tier]int)
		r.TierCounts[v] = m
	}
	m[tier]++
}

// AddReview appends to the manual-review sample, respecting the cap.
func (r *RunReport) AddReview(item ReviewItem) {
	if len(r.ReviewSample) >= ReviewSampleLimit {
		return
	}
	r.ReviewSample = append(r.ReviewSample, item)
}

// MatchRate reports the fraction of a carrier's shipments matched at the
// given tiers. Zero shipments yields zero.
func (r *RunReport) MatchRate(v vendor.Vendor, tiers ...match.Tier) float64 {
	counts := r.TierCounts[v]
	total, hit := 0, 0
	for _, n := range counts {
		total += n
	}
	for _, t := range tiers {
		hit += counts[t]
	}
	if total == 0 {
		return 0
	}
	return float64(hit) / float64(total)
}
