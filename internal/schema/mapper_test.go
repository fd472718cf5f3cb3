package schema

import (
	"errors"
	"testing"

	"FreightRecon/internal/vendor"
)

var fedexHeader = []string{
	"Tracking Number", "Invoice Date", "Ship Date", "Service Type",
	"Net Charge", "Actual Weight", "Billed Weight", "Recipient Company",
	"Recipient State", "Recipient Zipcode", "Recipient Country",
	"Reference 1", "Reference 2", "Reference 4", "Zone",
}

func TestResolveFedEx(t *testing.T) {
	maps := Defaults()
	res, err := Resolve(fedexHeader, maps[vendor.FedEx])
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := res.Columns[FieldShippingCost]; got != 4 {
		t.Errorf("shipping_cost column = %d, want 4", got)
	}
	if got := res.Columns[FieldTrackingNumber]; got != 0 {
		t.Errorf("tracking_number column = %d, want 0", got)
	}
	if len(res.Passthrough) != 0 {
		t.Errorf("unexpected passthrough columns: %v", res.Passthrough)
	}
}

func TestResolveKeepsUnknownHeaders(t *testing.T) {
	maps := Defaults()
	header := append(append([]string{}, fedexHeader...), "Fuel Surcharge")
	res, err := Resolve(header, maps[vendor.FedEx])
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if col, ok := res.Passthrough["fuel_surcharge"]; !ok || col != len(header)-1 {
		t.Errorf("fuel_surcharge passthrough = %d,%v", col, ok)
	}
}

func TestResolveMissingRequired(t *testing.T) {
	maps := Defaults()
	header := []string{"Tracking Number", "Ship Date", "Service Type"}
	_, err := Resolve(header, maps[vendor.UPS])
	if !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
}

func TestResolveFirstAliasWins(t *testing.T) {
	// A header that could belong to two fields resolves to the field
	// declared first, deterministically.
	fm := newVendorFieldMap(vendor.UPS, []FieldAliases{
		{FieldReference1, []string{"Reference"}},
		{FieldReference2, []string{"Reference"}},
	})
	f, ok := fm.Lookup("reference")
	if !ok || f != FieldReference1 {
		t.Errorf("Lookup(reference) = %q,%v want reference_1", f, ok)
	}
}

func TestAliasSetUnion(t *testing.T) {
	set := Defaults().AliasSet()
	for _, alias := range []string{"net_charge", "pickup_date", "mail_class"} {
		if !set[alias] {
			t.Errorf("alias set missing %q", alias)
		}
	}
}
