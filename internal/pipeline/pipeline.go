// Package pipeline orchestrates a full monthly freight-cost run: parallel
// per-file extraction, a hard barrier, then deduplication, reconciliation
// and cost aggregation over the complete consolidated set.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"FreightRecon/internal/aggregate"
	"FreightRecon/internal/extract"
	"FreightRecon/internal/match"
	"FreightRecon/internal/orders"
	"FreightRecon/internal/report"
	"FreightRecon/internal/schema"
	"FreightRecon/internal/sheet"
	"FreightRecon/internal/vendor"
)

var (
	// ErrOrderFeed wraps a warehouse feed failure. Fatal to the run: a
	// partial join would corrupt the match-rate QC, so nothing downstream
	// of the barrier executes.
	ErrOrderFeed = errors.New("order feed unavailable")
	// ErrCancelled marks a run abandoned on context cancellation. No
	// partial aggregate is ever emitted.
	ErrCancelled = errors.New("run cancelled")
)

// Config is the full, immutable run configuration. Shared read-only across
// extraction workers; nothing here is mutated after the run starts.
type Config struct {
	Period    string
	DataDir   string
	Workers   int
	Locator   sheet.LocatorConfig
	Match     match.Config
	Aggregate aggregate.Config
	FieldMaps schema.FieldMaps
}

// OrderSource supplies the complete external order set for a date range.
type OrderSource func(ctx context.Context, start, end time.Time) ([]orders.Order, error)

// Outcome bundles what a run produced. Report is always present, even for
// failed runs; Table is nil unless the run completed.
type Outcome struct {
	Report  *report.RunReport
	Table   *aggregate.Table
	Records []extract.Record
	Results []match.Result
}

type fileResult struct {
	file string
	res  extract.Result
	err  error
}

// Run executes the pipeline for one analysis period.
func Run(ctx context.Context, cfg Config, fetchOrders OrderSource) (*Outcome, error) {
	rep := report.NewRunReport(cfg.Period)
	out := &Outcome{Report: rep}
	defer func() { rep.FinishedAt = time.Now() }()

	files, err := extract.DiscoverFiles(cfg.DataDir)
	if err != nil {
		return out, err
	}
	log.Printf("[pipeline] period %s: %d candidate files", cfg.Period, len(files))

	var accepted []string
	for _, f := range files {
		if v := vendor.Detect(f); v == vendor.Unknown {
			rep.FilesSkipped++
			rep.FileFailures = append(rep.FileFailures, report.FileFailure{File: f, Reason: "unknown vendor"})
			log.Printf("[pipeline] skipping %s: unknown vendor", f)
			continue
		}
		accepted = append(accepted, f)
	}

	records, rejects := extractAll(ctx, cfg, accepted, rep)

	// Barrier: everything after this point requires the complete
	// consolidated set. A cancellation seen here discards the run.
	if ctx.Err() != nil {
		return out, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	}

	rep.RowsExtracted = len(records)
	rep.RowsRejected = len(rejects)
	for _, rj := range rejects {
		rep.RejectsByField[rj.MissingField]++
	}

	records, removed := extract.Deduplicate(records)
	for v, n := range removed {
		rep.DuplicatesRemoved[v] = n
	}
	out.Records = records

	if len(records) == 0 {
		log.Printf("[pipeline] period %s: no shipment records extracted", cfg.Period)
		out.Table = &aggregate.Table{}
		return out, nil
	}

	start, end := shipDateRange(records)
	orderSet, err := fetchOrders(ctx, start, end)
	if err != nil {
		rep.OrderFeedError = err.Error()
		return out, fmt.Errorf("%w: %v", ErrOrderFeed, err)
	}
	rep.OrdersLoaded = len(orderSet)
	idx := orders.BuildIndex(orderSet)

	results := match.ReconcileAll(records, idx, cfg.Match)
	out.Results = results

	var pairs []aggregate.Pair
	for i, res := range results {
		rec := records[i]
		rep.CountTier(rec.Vendor, res.Tier)
		switch res.Tier {
		case match.TierUnmatched, match.TierAmbiguous:
			rep.AddReview(report.ReviewItem{
				TrackingNumber: rec.TrackingNumber,
				Vendor:         rec.Vendor,
				RecipientName:  rec.RecipientName,
				Tier:           res.Tier,
				Score:          res.Score,
				Detail:         res.MatchedOn,
			})
			continue
		}
		o, ok := idx.Get(res.OrderID)
		if !ok {
			continue
		}
		pairs = append(pairs, aggregate.Pair{Shipment: rec, Order: *o, Tier: res.Tier})
	}

	if ctx.Err() != nil {
		return out, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	}

	table := aggregate.Build(pairs, cfg.Aggregate)
	for _, e := range table.ShareCheck(1e-6) {
		rep.ShareCheckErrors = append(rep.ShareCheckErrors, e.Error())
	}
	out.Table = &table

	log.Printf("[pipeline] period %s: %d records, %d orders, %d basket groups",
		cfg.Period, len(records), len(orderSet), len(table.Rows))
	return out, nil
}

// extractAll fans per-file extraction out over a bounded worker pool.
// Files share only read-only configuration; the collector is the single
// point of synchronization.
func extractAll(ctx context.Context, cfg Config, files []string, rep *report.RunReport) ([]extract.Record, []extract.Reject) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	jobs := make(chan string)
	resultsCh := make(chan fileResult)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				if ctx.Err() != nil {
					resultsCh <- fileResult{file: file, err: ctx.Err()}
					continue
				}
				resultsCh <- extractFile(file, cfg)
			}
		}()
	}
	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(resultsCh)
	}()

	var (
		records []extract.Record
		rejects []extract.Reject
	)
	for fr := range resultsCh {
		if fr.err != nil {
			rep.FilesFailed++
			rep.FileFailures = append(rep.FileFailures, report.FileFailure{File: fr.file, Reason: fr.err.Error()})
			log.Printf("[pipeline] file %s failed: %v", fr.file, fr.err)
			continue
		}
		rep.FilesRead++
		records = append(records, fr.res.Records...)
		rejects = append(rejects, fr.res.Rejects...)
	}
	return records, rejects
}

func extractFile(path string, cfg Config) fileResult {
	s, err := extract.ReadFile(path)
	if err != nil {
		return fileResult{file: path, err: err}
	}
	res, err := extract.Sheet(s, cfg.FieldMaps, cfg.Locator)
	if err != nil {
		return fileResult{file: path, err: err}
	}
	return fileResult{file: path, res: res}
}

func shipDateRange(records []extract.Record) (time.Time, time.Time) {
	start, end := records[0].ShipDate, records[0].ShipDate
	for _, r := range records[1:] {
		if r.ShipDate.Before(start) {
			start = r.ShipDate
		}
		if r.ShipDate.After(end) {
			end = r.ShipDate
		}
	}
	return start, end
}
