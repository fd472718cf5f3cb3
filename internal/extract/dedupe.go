package extract

import (
	"fmt"

	"FreightRecon/internal/vendor"
)

// Deduplicate collapses exact duplicate shipments across the consolidated
// set. Identity is (vendor, tracking_number, invoice_date): the same
// shipment re-billed across overlapping invoice files. The first record
// seen for a key is kept untouched; later ones are dropped and counted per
// vendor so the QC summary can show the removals.
func Deduplicate(records []Record) ([]Record, map[vendor.Vendor]int) {
	seen := make(map[string]bool, len(records))
	removed := make(map[vendor.Vendor]int)
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		key := fmt.Sprintf("%s|%s|%s", r.Vendor, r.TrackingNumber, dateKey(r.InvoiceDate))
		if seen[key] {
			removed[r.Vendor]++
			continue
		}
		seen[key] = true
		kept = append(kept, r)
	}
	return kept, removed
}
