package sheet

import (
	"errors"
	"testing"

	"FreightRecon/internal/schema"
	"FreightRecon/internal/vendor"
)

func testSheet(rows [][]string) *RawSheet {
	return &RawSheet{SourceFile: "FDX_test.xlsx", Vendor: vendor.FedEx, Rows: rows}
}

func TestLocateHeaderBelowMetadata(t *testing.T) {
	s := testSheet([][]string{
		{"FedEx Billing Detail Report"},
		{"Account: LOL509", "Period: 2025/08"},
		{"Tracking Number", "Invoice Date", "Ship Date", "Service Type", "Net Charge", "Recipient State"},
		{"770123456789", "8/2/2025", "7/31/2025", "Ground", "$12.85", "GA"},
		{"770123456790", "8/2/2025", "7/31/2025", "Ground", "$9.10", "TX"},
	})
	aliases := schema.Defaults().AliasSet()

	for _, scanRows := range []int{3, 10, 15} {
		got, err := LocateHeader(s, aliases, LocatorConfig{ScanRows: scanRows, MinAliasHits: 2})
		if err != nil {
			t.Fatalf("ScanRows=%d: %v", scanRows, err)
		}
		if got != 2 {
			t.Errorf("ScanRows=%d: header row = %d, want 2", scanRows, got)
		}
	}
}

func TestLocateHeaderFirstRow(t *testing.T) {
	s := testSheet([][]string{
		{"Tracking Number", "Pickup Date", "Service", "Shipping Cost", "Recipient Name"},
		{"1Z999AA10123456784", "8/1/2025", "Ground", "$7.45", "JANE DOE"},
	})
	got, err := LocateHeader(s, schema.Defaults().AliasSet(), DefaultLocatorConfig())
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("header row = %d, want 0", got)
	}
}

func TestLocateHeaderNotFound(t *testing.T) {
	s := testSheet([][]string{
		{"quarterly summary"},
		{"totals", "123", "456"},
		{"789", "1011", "1213"},
	})
	_, err := LocateHeader(s, schema.Defaults().AliasSet(), DefaultLocatorConfig())
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Fatalf("expected ErrHeaderNotFound, got %v", err)
	}
}

func TestLocateHeaderTieBreaksEarliest(t *testing.T) {
	// Two rows with identical alias hits: earliest must win.
	s := testSheet([][]string{
		{"Tracking Number", "Invoice Date"},
		{"Tracking Number", "Invoice Date"},
		{"770", "8/2/2025"},
	})
	got, err := LocateHeader(s, schema.Defaults().AliasSet(), LocatorConfig{ScanRows: 15, MinAliasHits: 2})
	if err != nil {
		t.Fatal(err)
	}
	// Row 1 earns the data-row bonus (row 2 is numeric), row 0 does not,
	// so row 1 wins on score rather than tie-break.
	if got != 1 {
		t.Errorf("header row = %d, want 1", got)
	}
}
