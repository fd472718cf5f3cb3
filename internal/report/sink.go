package report

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"FreightRecon/internal/aggregate"
	"FreightRecon/internal/orders"
)

// PersistRun writes the run summary and the full aggregate table to the
// warehouse in one transaction. A rerun for the same period replaces the
// previous rows, keeping the table a pure function of its inputs.
func PersistRun(ctx context.Context, pool *pgxpool.Pool, rep *RunReport, table *aggregate.Table) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("sink begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM analytics.shipping_cost_aggregates WHERE period = $1`, rep.Period); err != nil {
		return fmt.Errorf("sink clear period %s: %w", rep.Period, err)
	}

	cols := []string{
		"run_id", "period", "basket_key", "count_of_orders", "order_share",
		"avg_order_shipping_cost", "total_items_for_weighting", "cost_per_product",
	}
	rows := make([][]interface{}, 0, len(table.Rows))
	for _, row := range table.Rows {
		var cpp interface{}
		if row.CostPerProduct != nil {
			cpp = row.CostPerProduct.StringFixed(4)
		}
		rows = append(rows, []interface{}{
			rep.RunID, rep.Period, row.Vector.Key(), row.CountOfOrders, row.OrderShare,
			row.AvgOrderShippingCost.StringFixed(4), row.TotalItemsForWeighting, cpp,
		})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"analytics", "shipping_cost_aggregates"}, cols,
		pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("sink copy aggregates: %w", err)
	}

	for p := 0; p < orders.NumCategories; p++ {
		w := table.WeightedCostPerCategory[p]
		if w == nil {
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO analytics.shipping_cost_weighted (run_id, period, category, weighted_cost)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (period, category) DO UPDATE
			SET run_id = EXCLUDED.run_id, weighted_cost = EXCLUDED.weighted_cost`,
			rep.RunID, rep.Period, orders.CategoryNames[p], w.StringFixed(4)); err != nil {
			return fmt.Errorf("sink weighted %s: %w", orders.CategoryNames[p], err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO analytics.freight_runs
			(run_id, period, started_at, finished_at, files_read, files_skipped,
			 files_failed, rows_extracted, rows_rejected, orders_loaded)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rep.RunID, rep.Period, rep.StartedAt, rep.FinishedAt, rep.FilesRead,
		rep.FilesSkipped, rep.FilesFailed, rep.RowsExtracted, rep.RowsRejected,
		rep.OrdersLoaded); err != nil {
		return fmt.Errorf("sink run summary: %w", err)
	}

	return tx.Commit(ctx)
}
