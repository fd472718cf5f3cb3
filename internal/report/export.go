package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"FreightRecon/internal/aggregate"
	"FreightRecon/internal/match"
	"FreightRecon/internal/orders"
	"FreightRecon/internal/vendor"
)

const (
	costSheet = "Weighted Costs"
	qcSheet   = "QC Summary"
)

// ExportWorkbook writes the aggregate table and QC summary to an xlsx
// workbook. The writer is format-plumbing only; every number it writes was
// computed upstream.
func ExportWorkbook(path string, table *aggregate.Table, rep *RunReport) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", costSheet)
	if _, err := f.NewSheet(qcSheet); err != nil {
		return fmt.Errorf("create qc sheet: %w", err)
	}

	if err := writeCostSheet(f, table); err != nil {
		return err
	}
	if err := writeQCSheet(f, rep); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeCostSheet(f *excelize.File, table *aggregate.Table) error {
	header := []interface{}{}
	for _, name := range orders.CategoryNames {
		header = append(header, name)
	}
	header = append(header,
		"count_of_orders", "order_share", "avg_order_shipping_cost",
		"total_items_for_weighting", "cost_per_product")
	for _, name := range orders.CategoryNames {
		header = append(header, name+"_units", name+"_share")
	}
	if err := f.SetSheetRow(costSheet, "A1", &header); err != nil {
		return fmt.Errorf("write cost header: %w", err)
	}

	rowNum := 2
	for _, row := range table.Rows {
		cells := []interface{}{}
		for _, n := range row.Vector {
			cells = append(cells, n)
		}
		cpp := ""
		if row.CostPerProduct != nil {
			cpp = row.CostPerProduct.StringFixed(2)
		}
		cells = append(cells,
			row.CountOfOrders, row.OrderShare,
			row.AvgOrderShippingCost.StringFixed(2),
			row.TotalItemsForWeighting, cpp)
		for p := 0; p < orders.NumCategories; p++ {
			cells = append(cells, row.CategoryUnits[p], row.CategoryShare[p])
		}
		addr, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(costSheet, addr, &cells); err != nil {
			return fmt.Errorf("write cost row %d: %w", rowNum, err)
		}
		rowNum++
	}

	// weighted summary block below the table
	rowNum++
	for p := 0; p < orders.NumCategories; p++ {
		w := table.WeightedCostPerCategory[p]
		val := ""
		if w != nil {
			val = w.StringFixed(2)
		}
		line := []interface{}{"weighted_cost_" + orders.CategoryNames[p], val}
		addr, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(costSheet, addr, &line); err != nil {
			return fmt.Errorf("write weighted row: %w", err)
		}
		rowNum++
	}
	if table.WeightedCostPerOrder != nil {
		line := []interface{}{"weighted_cost_per_order", table.WeightedCostPerOrder.StringFixed(2)}
		addr, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(costSheet, addr, &line); err != nil {
			return err
		}
		rowNum++
	}
	if table.WeightedCostPerBlanket != nil {
		line := []interface{}{"weighted_cost_per_blanket", table.WeightedCostPerBlanket.StringFixed(2)}
		addr, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(costSheet, addr, &line); err != nil {
			return err
		}
	}
	return nil
}

func writeQCSheet(f *excelize.File, rep *RunReport) error {
	rowNum := 1
	write := func(cells ...interface{}) error {
		addr, _ := excelize.CoordinatesToCellName(1, rowNum)
		rowNum++
		return f.SetSheetRow(qcSheet, addr, &cells)
	}

	lines := [][]interface{}{
		{"run_id", rep.RunID.String()},
		{"period", rep.Period},
		{"files_read", rep.FilesRead},
		{"files_skipped", rep.FilesSkipped},
		{"files_failed", rep.FilesFailed},
		{"rows_extracted", rep.RowsExtracted},
		{"rows_rejected", rep.RowsRejected},
		{"orders_loaded", rep.OrdersLoaded},
	}
	for _, l := range lines {
		if err := write(l...); err != nil {
			return err
		}
	}
	tierOrder := []match.Tier{
		match.TierExact, match.TierFuzzyHigh, match.TierFuzzyLow,
		match.TierUnmatched, match.TierAmbiguous,
	}
	for _, v := range vendor.All() {
		if n, ok := rep.DuplicatesRemoved[v]; ok {
			if err := write("duplicates_removed_"+v.String(), n); err != nil {
				return err
			}
		}
		for _, tier := range tierOrder {
			if n := rep.TierCounts[v][tier]; n > 0 {
				if err := write(fmt.Sprintf("matches_%s_%s", v, tier), n); err != nil {
					return err
				}
			}
		}
	}
	for _, ff := range rep.FileFailures {
		if err := write("file_failure", ff.File, ff.Reason); err != nil {
			return err
		}
	}
	for _, item := range rep.ReviewSample {
		if err := write("review", string(item.Tier), item.TrackingNumber,
			item.RecipientName, item.Score, item.Detail); err != nil {
			return err
		}
	}
	for _, msg := range rep.ShareCheckErrors {
		if err := write("share_check_violation", msg); err != nil {
			return err
		}
	}
	if rep.OrderFeedError != "" {
		if err := write("order_feed_error", rep.OrderFeedError); err != nil {
			return err
		}
	}
	return nil
}
