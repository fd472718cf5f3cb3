// Package freight owns run execution: one entry point used by both the
// monthly cron trigger and the HTTP API, serialized so concurrent triggers
// cannot interleave.
package freight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"FreightRecon/internal/aggregate"
	"FreightRecon/internal/logger"
	"FreightRecon/internal/match"
	"FreightRecon/internal/orders"
	"FreightRecon/internal/pipeline"
	"FreightRecon/internal/report"
	"FreightRecon/internal/schema"
	"FreightRecon/internal/sheet"
	"FreightRecon/internal/storage"
)

// ErrRunInProgress is returned when a trigger arrives while a run is
// already executing.
var ErrRunInProgress = errors.New("a run is already in progress")

// Runner executes freight-cost runs and remembers the latest outcome for
// the API.
type Runner struct {
	pool   *pgxpool.Pool
	bucket *storage.Bucket

	DataDir      string
	ExportDir    string
	FieldMapPath string
	Workers      int

	runMu sync.Mutex

	mu     sync.RWMutex
	latest *pipeline.Outcome
}

// NewRunner wires a runner against the warehouse pool and an optional
// invoice drop bucket (nil means local files only).
func NewRunner(pool *pgxpool.Pool, bucket *storage.Bucket, dataDir, exportDir, fieldMapPath string) *Runner {
	return &Runner{
		pool:         pool,
		bucket:       bucket,
		DataDir:      dataDir,
		ExportDir:    exportDir,
		FieldMapPath: fieldMapPath,
	}
}

// PreviousPeriod formats the month before now as YYYY-MM, the period a
// scheduled run covers.
func PreviousPeriod(now time.Time) string {
	return now.AddDate(0, -1, 0).Format("2006-01")
}

// RunPeriod executes one full run for the period (YYYY-MM). Only one run
// executes at a time; a concurrent trigger gets ErrRunInProgress.
func (r *Runner) RunPeriod(ctx context.Context, period string) (*pipeline.Outcome, error) {
	if !r.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.runMu.Unlock()

	logger.Audit(fmt.Sprintf("freight run starting for period %s", period))

	dir := filepath.Join(r.DataDir, period)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create invoice dir %s: %w", dir, err)
	}
	if r.bucket != nil {
		n, err := r.bucket.SyncInvoices(ctx, period, dir)
		if err != nil {
			return nil, fmt.Errorf("sync invoices for %s: %w", period, err)
		}
		logger.Audit(fmt.Sprintf("freight run %s: fetched %d invoice files from s3", period, n))
	}

	maps, err := schema.Load(r.FieldMapPath)
	if err != nil {
		return nil, err
	}

	cfg := pipeline.Config{
		Period:    period,
		DataDir:   dir,
		Workers:   r.Workers,
		Locator:   sheet.DefaultLocatorConfig(),
		Match:     match.DefaultConfig(),
		Aggregate: aggregate.DefaultConfig(),
		FieldMaps: maps,
	}

	out, runErr := pipeline.Run(ctx, cfg, r.orderSource())
	r.mu.Lock()
	r.latest = out
	r.mu.Unlock()

	if runErr != nil {
		logger.Audit(fmt.Sprintf("freight run %s failed: %v", period, runErr))
		return out, runErr
	}

	if r.ExportDir != "" {
		if err := os.MkdirAll(r.ExportDir, 0755); err != nil {
			return out, fmt.Errorf("create export dir %s: %w", r.ExportDir, err)
		}
		name := fmt.Sprintf("freight_costs_%s_%s.xlsx", period, out.Report.RunID)
		path := filepath.Join(r.ExportDir, name)
		if err := report.ExportWorkbook(path, out.Table, out.Report); err != nil {
			return out, err
		}
		logger.Audit(fmt.Sprintf("freight run %s: workbook written to %s", period, path))
	}
	if r.pool != nil {
		if err := report.PersistRun(ctx, r.pool, out.Report, out.Table); err != nil {
			return out, err
		}
	}

	logger.Audit(fmt.Sprintf("freight run %s complete: %d rows, %d basket groups",
		period, out.Report.RowsExtracted, len(out.Table.Rows)))
	return out, nil
}

func (r *Runner) orderSource() pipeline.OrderSource {
	return func(ctx context.Context, start, end time.Time) ([]orders.Order, error) {
		return orders.Fetch(ctx, r.pool, start, end)
	}
}

// Latest returns the most recent run outcome, or nil before the first run.
func (r *Runner) Latest() *pipeline.Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}
