package clean

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"$1,234.56", "1234.56", true},
		{"($38.33)", "-38.33", true},
		{"38.33", "38.33", true},
		{"-12.50", "-12.5", true},
		{"$0.00", "0", true},
		{"", "", false},
		{"N/A", "", false},
		{"nan", "", false},
		{"total charges", "", false},
	}
	for _, c := range cases {
		got, ok := Currency(c.raw)
		if ok != c.ok {
			t.Errorf("Currency(%q) ok = %v, want %v", c.raw, ok, c.ok)
			continue
		}
		if ok && !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("Currency(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestDate(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"7/31/2025 12:00:00 AM", time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), true},
		{"8/2/2025", time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), true},
		{"2025-08-02", time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), true},
		{"2025-08-02 13:45:00", time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, c := range cases {
		got, ok := Date(c.raw)
		if ok != c.ok {
			t.Errorf("Date(%q) ok = %v, want %v", c.raw, ok, c.ok)
			continue
		}
		if ok && !got.Equal(c.want) {
			t.Errorf("Date(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestDateExcelSerial(t *testing.T) {
	// serial 45870 = 2025-08-01
	got, ok := Date("45870")
	if !ok {
		t.Fatal("expected serial date to parse")
	}
	want := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Date(45870) = %s, want %s", got, want)
	}
}

func TestKey(t *testing.T) {
	cases := []struct{ raw, want string }{
		{"Tracking Number", "tracking_number"},
		{"  Net   Charge ", "net_charge"},
		{"Recipient Zip/Postal", "recipient_zip_postal"},
		{"JOHN  O'BRIEN", "john_o_brien"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Key(c.raw); got != c.want {
			t.Errorf("Key(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestZip(t *testing.T) {
	cases := []struct {
		raw, want string
		ok        bool
	}{
		{"30303", "30303", true},
		{"30303-1234", "30303-1234", true},
		{"303031234", "30303-1234", true},
		{"303", "", false},
	}
	for _, c := range cases {
		got, ok := Zip(c.raw)
		if ok != c.ok || got != c.want {
			t.Errorf("Zip(%q) = %q,%v want %q,%v", c.raw, got, ok, c.want, c.ok)
		}
	}
}

func TestState(t *testing.T) {
	if s, ok := State(" ga "); !ok || s != "GA" {
		t.Errorf("State(ga) = %q,%v", s, ok)
	}
	if _, ok := State("ZZ"); ok {
		t.Error("State(ZZ) should not validate")
	}
}

func TestTrackingAndZone(t *testing.T) {
	if s, ok := Tracking(" 1Z99AA-1012345 "); !ok || s != "1Z99AA1012345" {
		t.Errorf("Tracking = %q,%v", s, ok)
	}
	if _, ok := Tracking("  "); ok {
		t.Error("blank tracking should not validate")
	}
	if z := Zone("02"); z != "2" {
		t.Errorf("Zone(02) = %q", z)
	}
}
