package orders

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC)
}

func testOrders() []Order {
	return []Order{
		{OrderID: "1234", OrderDate: day(1), CustomerName: "Jane Doe", AltCodes: []string{"#1234", "M55501"}},
		{OrderID: "1235", OrderDate: day(2), CustomerName: "John Smith", AltCodes: []string{"#1235"}},
		{OrderID: "1236", OrderDate: day(8), CustomerName: "Acme Warehouse", AltCodes: nil},
	}
}

func TestNormalizeRef(t *testing.T) {
	cases := []struct{ raw, want string }{
		{"#1234", "1234"},
		{" m55501 ", "M55501"},
		{"Order #1234", "ORDER1234"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeRef(c.raw); got != c.want {
			t.Errorf("NormalizeRef(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestLookupRef(t *testing.T) {
	idx := BuildIndex(testOrders())
	if ids := idx.LookupRef("#1234"); len(ids) != 1 || ids[0] != "1234" {
		t.Errorf("LookupRef(#1234) = %v", ids)
	}
	if ids := idx.LookupRef("M55501"); len(ids) != 1 || ids[0] != "1234" {
		t.Errorf("LookupRef(M55501) = %v", ids)
	}
	if ids := idx.LookupRef("no-such"); ids != nil {
		t.Errorf("LookupRef(no-such) = %v, want nil", ids)
	}
}

func TestLookupRefCollision(t *testing.T) {
	all := testOrders()
	// second order also known under the first order's alt code
	all[1].AltCodes = append(all[1].AltCodes, "#1234")
	idx := BuildIndex(all)
	ids := idx.LookupRef("#1234")
	if len(ids) != 2 {
		t.Fatalf("LookupRef collision = %v, want two distinct ids", ids)
	}
}

func TestCandidatesInWindow(t *testing.T) {
	idx := BuildIndex(testOrders())
	got := idx.CandidatesInWindow(day(2), 2)
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}
	if got[0].NameKey != "jane_doe" || got[1].NameKey != "john_smith" {
		t.Errorf("candidate order wrong: %+v", got)
	}
	if got := idx.CandidatesInWindow(day(20), 2); len(got) != 0 {
		t.Errorf("expected no candidates far outside window, got %v", got)
	}
}

func TestQuantityVectorKeyStable(t *testing.T) {
	var q QuantityVector
	q[CatLarge] = 1
	q[CatOther] = 3
	want := "large=1,medium=0,baby=0,xl_or_wtd=0,lg_pet_bed=0,pillow_square=0,pillow_lumbar=0,gift_bag=0,other=3"
	if got := q.Key(); got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if q.Total() != 4 {
		t.Errorf("Total() = %d, want 4", q.Total())
	}
}
