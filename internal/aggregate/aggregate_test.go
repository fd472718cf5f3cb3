package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"FreightRecon/internal/extract"
	"FreightRecon/internal/match"
	"FreightRecon/internal/orders"
)

func pair(tier match.Tier, cost string, vec orders.QuantityVector) Pair {
	return Pair{
		Shipment: extract.Record{ShippingCost: decimal.RequireFromString(cost)},
		Order:    orders.Order{Quantities: vec},
		Tier:     tier,
	}
}

func vec(set map[int]int) orders.QuantityVector {
	var q orders.QuantityVector
	for i, n := range set {
		q[i] = n
	}
	return q
}

func TestBuildWeightedAverageScenario(t *testing.T) {
	// Group A: {large:1} x2 orders at $22 avg; Group B: {large:2} x1 at $30.
	// Weighted large cost = (1*2*22 + 2*1*15) / (1*2 + 2*1) = 18.5.
	pairs := []Pair{
		pair(match.TierExact, "22", vec(map[int]int{orders.CatLarge: 1})),
		pair(match.TierExact, "22", vec(map[int]int{orders.CatLarge: 1})),
		pair(match.TierFuzzyHigh, "30", vec(map[int]int{orders.CatLarge: 2})),
	}
	table := Build(pairs, DefaultConfig())

	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	var a, b *Row
	for i := range table.Rows {
		switch table.Rows[i].Vector[orders.CatLarge] {
		case 1:
			a = &table.Rows[i]
		case 2:
			b = &table.Rows[i]
		}
	}
	if a == nil || b == nil {
		t.Fatal("expected both groups present")
	}
	if a.CountOfOrders != 2 || b.CountOfOrders != 1 {
		t.Errorf("counts = %d,%d want 2,1", a.CountOfOrders, b.CountOfOrders)
	}
	if !a.CostPerProduct.Equal(decimal.RequireFromString("22")) {
		t.Errorf("group A cost_per_product = %s, want 22", a.CostPerProduct)
	}
	if !b.CostPerProduct.Equal(decimal.RequireFromString("15")) {
		t.Errorf("group B cost_per_product = %s, want 15", b.CostPerProduct)
	}
	w := table.WeightedCostPerCategory[orders.CatLarge]
	if w == nil || !w.Equal(decimal.RequireFromString("18.5")) {
		t.Errorf("weighted large cost = %v, want 18.5", w)
	}
}

func TestBuildExcludesLowConfidenceTiers(t *testing.T) {
	pairs := []Pair{
		pair(match.TierExact, "10", vec(map[int]int{orders.CatMedium: 1})),
		pair(match.TierFuzzyLow, "99", vec(map[int]int{orders.CatMedium: 1})),
		pair(match.TierAmbiguous, "99", vec(map[int]int{orders.CatMedium: 1})),
	}
	table := Build(pairs, DefaultConfig())
	if table.TotalOrders != 1 {
		t.Fatalf("total orders = %d, want 1 (low tiers excluded)", table.TotalOrders)
	}
	if !table.Rows[0].AvgOrderShippingCost.Equal(decimal.RequireFromString("10")) {
		t.Errorf("avg cost = %s, want 10", table.Rows[0].AvgOrderShippingCost)
	}
}

func TestBuildOtherOnlyOrderHasNilCostPerProduct(t *testing.T) {
	pairs := []Pair{
		pair(match.TierExact, "12", vec(map[int]int{orders.CatOther: 3})),
	}
	table := Build(pairs, DefaultConfig())
	if table.Rows[0].CostPerProduct != nil {
		t.Errorf("other-only group cost_per_product = %s, want nil", table.Rows[0].CostPerProduct)
	}
	if table.WeightedCostPerCategory[orders.CatOther] != nil {
		t.Error("other category must have no weighted cost")
	}
}

func TestBuildGiftBagDenominatorSwitch(t *testing.T) {
	pairs := []Pair{
		pair(match.TierExact, "20", vec(map[int]int{orders.CatLarge: 1, orders.CatGiftBag: 1})),
	}
	counted := Build(pairs, DefaultConfig())
	if got := counted.Rows[0].TotalItemsForWeighting; got != 2 {
		t.Errorf("gift bags counted: denominator = %d, want 2", got)
	}

	cfg := DefaultConfig()
	cfg.CountGiftBags = false
	excluded := Build(pairs, cfg)
	if got := excluded.Rows[0].TotalItemsForWeighting; got != 1 {
		t.Errorf("gift bags excluded: denominator = %d, want 1", got)
	}
}

func TestSharesSumToOne(t *testing.T) {
	pairs := []Pair{
		pair(match.TierExact, "22", vec(map[int]int{orders.CatLarge: 1})),
		pair(match.TierExact, "18", vec(map[int]int{orders.CatLarge: 1, orders.CatBaby: 2})),
		pair(match.TierExact, "30", vec(map[int]int{orders.CatLarge: 2})),
	}
	table := Build(pairs, DefaultConfig())
	if errs := table.ShareCheck(1e-6); len(errs) != 0 {
		t.Fatalf("share check failed: %v", errs)
	}
	orderShare := 0.0
	for _, row := range table.Rows {
		orderShare += row.OrderShare
	}
	if diff := orderShare - 1; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("order shares sum to %.9f", orderShare)
	}
}

func TestBuildDeterministicRowOrder(t *testing.T) {
	pairs := []Pair{
		pair(match.TierExact, "30", vec(map[int]int{orders.CatLarge: 2})),
		pair(match.TierExact, "22", vec(map[int]int{orders.CatLarge: 1})),
	}
	first := Build(pairs, DefaultConfig())
	second := Build(pairs, DefaultConfig())
	for i := range first.Rows {
		if first.Rows[i].Vector != second.Rows[i].Vector {
			t.Fatal("row order differs between identical runs")
		}
	}
}
