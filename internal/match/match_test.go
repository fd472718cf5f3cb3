package match

import (
	"testing"
	"time"

	"FreightRecon/internal/extract"
	"FreightRecon/internal/orders"
	"FreightRecon/internal/vendor"
)

func day(d int) time.Time {
	return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC)
}

func shipment(tracking, ref1, ref2, name string, ship time.Time) extract.Record {
	return extract.Record{
		Vendor:         vendor.FedEx,
		TrackingNumber: tracking,
		Reference1:     ref1,
		Reference2:     ref2,
		RecipientName:  name,
		ShipDate:       ship,
	}
}

func testIndex() *orders.Index {
	return orders.BuildIndex([]orders.Order{
		{OrderID: "1234", OrderDate: day(1), CustomerName: "Jane Doe", AltCodes: []string{"#1234"}},
		{OrderID: "1235", OrderDate: day(2), CustomerName: "Jonathan Smithers", AltCodes: []string{"#1235"}},
		{OrderID: "1236", OrderDate: day(2), CustomerName: "Riverbend Supply Co", AltCodes: []string{"#1236"}},
	})
}

func TestReconcileExactOnReference(t *testing.T) {
	rec := shipment("770111", "", "#1234", "JANE DOE", day(2))
	res := Reconcile(&rec, testIndex(), DefaultConfig())
	if res.Tier != TierExact {
		t.Fatalf("tier = %s, want EXACT", res.Tier)
	}
	if res.OrderID != "1234" || res.MatchedOn != "reference_2" {
		t.Errorf("order=%q matched_on=%q", res.OrderID, res.MatchedOn)
	}
}

func TestReconcileAmbiguousReferences(t *testing.T) {
	idx := orders.BuildIndex([]orders.Order{
		{OrderID: "1234", OrderDate: day(1), CustomerName: "A", AltCodes: []string{"#9"}},
		{OrderID: "1235", OrderDate: day(1), CustomerName: "B", AltCodes: []string{"M9"}},
	})
	// reference_1 hits one order, reference_2 a different one
	rec := shipment("770111", "#9", "M9", "SOMEONE", day(1))
	res := Reconcile(&rec, idx, DefaultConfig())
	if res.Tier != TierAmbiguous {
		t.Fatalf("tier = %s, want AMBIGUOUS", res.Tier)
	}
	if res.OrderID != "" {
		t.Errorf("ambiguous result must not carry an order id, got %q", res.OrderID)
	}
}

func TestReconcileFuzzyHigh(t *testing.T) {
	// No reference overlap; near-identical name one day off.
	rec := shipment("770111", "", "", "Jane  Doe.", day(2))
	res := Reconcile(&rec, testIndex(), DefaultConfig())
	if res.Tier != TierFuzzyHigh {
		t.Fatalf("tier = %s (score %.2f), want FUZZY_HIGH", res.Tier, res.Score)
	}
	if res.OrderID != "1234" || res.MatchedOn != "name+date" {
		t.Errorf("order=%q matched_on=%q", res.OrderID, res.MatchedOn)
	}
	if res.Score < 0.85 {
		t.Errorf("score = %.2f, want >= 0.85", res.Score)
	}
}

func TestReconcileUnmatchedLowSimilarity(t *testing.T) {
	rec := shipment("770111", "", "", "Completely Different Person", day(2))
	res := Reconcile(&rec, testIndex(), DefaultConfig())
	if res.Tier != TierUnmatched {
		t.Fatalf("tier = %s (score %.2f), want UNMATCHED", res.Tier, res.Score)
	}
}

func TestReconcileOutsideDateWindow(t *testing.T) {
	// Perfect name, but the order is five days away from the ship date.
	rec := shipment("770111", "", "", "Jane Doe", day(6))
	res := Reconcile(&rec, testIndex(), DefaultConfig())
	if res.Tier != TierUnmatched {
		t.Fatalf("tier = %s, want UNMATCHED outside window", res.Tier)
	}
}

func TestReconcileAmbiguousFuzzyTie(t *testing.T) {
	idx := orders.BuildIndex([]orders.Order{
		{OrderID: "2001", OrderDate: day(2), CustomerName: "Jane Doe"},
		{OrderID: "2002", OrderDate: day(2), CustomerName: "Jane Doe"},
	})
	rec := shipment("770111", "", "", "Jane Doe", day(2))
	res := Reconcile(&rec, idx, DefaultConfig())
	if res.Tier != TierAmbiguous {
		t.Fatalf("tier = %s, want AMBIGUOUS on inseparable candidates", res.Tier)
	}
}

func TestSimilarityBounds(t *testing.T) {
	if s := Similarity("jane_doe", "jane_doe"); s != 1 {
		t.Errorf("identical keys score %.2f, want 1", s)
	}
	if s := Similarity("", "jane_doe"); s != 0 {
		t.Errorf("empty key score %.2f, want 0", s)
	}
}
