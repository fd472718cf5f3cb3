package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DateBufferDays widens the warehouse query window on both sides of the
// invoice date range. Orders ship days after they are placed and carriers
// bill weeks later, so the feed must cover more calendar than the invoices.
const DateBufferDays = 60

const orderQuery = `
	SELECT order_id,
	       order_date,
	       customer_name,
	       qty_large, qty_medium, qty_baby, qty_xl_or_wtd, qty_lg_pet_bed,
	       qty_pillow_square, qty_pillow_lumbar, qty_gift_bag, qty_other,
	       alt_codes,
	       total_line_value
	FROM analytics.shop_orders
	WHERE order_date BETWEEN $1 AND $2
	ORDER BY order_id`

// Fetch pulls the complete order set covering [start, end] plus the buffer.
// A failure here is fatal to the run: reconciling against a partial order
// set would make unmatched indistinguishable from not-yet-loaded and
// corrupt the match-rate QC.
func Fetch(ctx context.Context, pool *pgxpool.Pool, start, end time.Time) ([]Order, error) {
	lo := start.AddDate(0, 0, -DateBufferDays)
	hi := end.AddDate(0, 0, DateBufferDays)

	rows, err := pool.Query(ctx, orderQuery, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("order feed query [%s..%s]: %w",
			lo.Format("2006-01-02"), hi.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var (
			o        Order
			q        [NumCategories]int
			altCodes []string
			total    decimal.Decimal
		)
		if err := rows.Scan(
			&o.OrderID, &o.OrderDate, &o.CustomerName,
			&q[CatLarge], &q[CatMedium], &q[CatBaby], &q[CatXLOrWtd], &q[CatLgPetBed],
			&q[CatPillowSquare], &q[CatPillowLumbar], &q[CatGiftBag], &q[CatOther],
			&altCodes, &total,
		); err != nil {
			return nil, fmt.Errorf("order feed scan: %w", err)
		}
		o.Quantities = q
		o.AltCodes = altCodes
		o.TotalLineValue = total
		o.OrderDate = time.Date(o.OrderDate.Year(), o.OrderDate.Month(), o.OrderDate.Day(), 0, 0, 0, 0, time.UTC)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order feed rows: %w", err)
	}
	return out, nil
}
