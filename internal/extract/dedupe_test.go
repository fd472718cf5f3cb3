package extract

import (
	"testing"
	"time"

	"FreightRecon/internal/vendor"
)

func rec(v vendor.Vendor, tracking string, invoice time.Time) Record {
	return Record{Vendor: v, TrackingNumber: tracking, InvoiceDate: invoice}
}

func TestDeduplicate(t *testing.T) {
	day := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)
	in := []Record{
		rec(vendor.FedEx, "770123", day),
		rec(vendor.FedEx, "770123", day), // exact dup, dropped
		rec(vendor.FedEx, "770124", day), // different tracking, kept
		rec(vendor.UPS, "770123", day),   // same tracking, other vendor, kept
		rec(vendor.FedEx, "770123", day.AddDate(0, 1, 0)), // next invoice cycle, kept
	}
	kept, removed := Deduplicate(in)
	if len(kept) != 4 {
		t.Fatalf("kept %d records, want 4", len(kept))
	}
	if removed[vendor.FedEx] != 1 {
		t.Errorf("fedex removals = %d, want 1", removed[vendor.FedEx])
	}
	if removed[vendor.UPS] != 0 {
		t.Errorf("ups removals = %d, want 0", removed[vendor.UPS])
	}
	// first occurrence kept in order
	if kept[0].TrackingNumber != "770123" || kept[1].TrackingNumber != "770124" {
		t.Errorf("unexpected keep order: %v", kept)
	}
}
