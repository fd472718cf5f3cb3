// Package aggregate turns matched (shipment, order) pairs into the
// weighted-average shipping cost table, grouped by product-quantity
// combination.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"FreightRecon/internal/extract"
	"FreightRecon/internal/match"
	"FreightRecon/internal/orders"
)

// Pair is one shipment joined to its order at an accepted confidence tier.
type Pair struct {
	Shipment extract.Record
	Order    orders.Order
	Tier     match.Tier
}

// Config controls which pairs enter cost attribution and how the unit-cost
// denominator is built.
type Config struct {
	// IncludedTiers gates cost attribution. FUZZY_LOW, UNMATCHED and
	// AMBIGUOUS stay out unless explicitly opted in.
	IncludedTiers map[match.Tier]bool
	// CountGiftBags keeps gift_bag units in the unit-cost denominator.
	// The "other" category is always excluded from the denominator.
	CountGiftBags bool
}

// DefaultConfig attributes cost to EXACT and FUZZY_HIGH pairs and counts
// gift bags as full units.
func DefaultConfig() Config {
	return Config{
		IncludedTiers: map[match.Tier]bool{
			match.TierExact:     true,
			match.TierFuzzyHigh: true,
		},
		CountGiftBags: true,
	}
}

// Row is the aggregate for one product-quantity combination.
type Row struct {
	Vector        orders.QuantityVector
	CountOfOrders int

	AvgOrderShippingCost decimal.Decimal
	// TotalItemsForWeighting is the per-order unit count that divides the
	// order cost. Nil CostPerProduct means the denominator was zero
	// (an order composed solely of "other" units).
	TotalItemsForWeighting int
	CostPerProduct         *decimal.Decimal

	OrderShare float64
	// CategoryUnits[p] is this group's total units of category p
	// (vector[p] x count_of_orders); CategoryShare[p] is its fraction of
	// the grand total for p across all groups.
	CategoryUnits [orders.NumCategories]int
	CategoryShare [orders.NumCategories]float64
}

// Table is a full, deterministic aggregation result. Rebuilt whole on each
// run; rerunning on identical input yields identical values.
type Table struct {
	Rows        []Row
	TotalOrders int

	// WeightedCostPerCategory[p] is nil when no group contributes
	// priced units of p.
	WeightedCostPerCategory [orders.NumCategories]*decimal.Decimal
	WeightedCostPerOrder    *decimal.Decimal
	// WeightedCostPerBlanket averages over the blanket categories only.
	WeightedCostPerBlanket *decimal.Decimal
}

// Build groups the accepted pairs by exact quantity vector and computes the
// per-group and cross-group weighted figures.
func Build(pairs []Pair, cfg Config) Table {
	groups := make(map[string]*groupAccum)
	for _, p := range pairs {
		if !cfg.IncludedTiers[p.Tier] {
			continue
		}
		key := p.Order.Quantities.Key()
		g, ok := groups[key]
		if !ok {
			g = &groupAccum{vector: p.Order.Quantities}
			groups[key] = g
		}
		g.count++
		g.costSum = g.costSum.Add(p.Shipment.ShippingCost)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := Table{}
	var catTotals [orders.NumCategories]int
	for _, k := range keys {
		g := groups[k]
		row := Row{
			Vector:        g.vector,
			CountOfOrders: g.count,
		}
		row.AvgOrderShippingCost = g.costSum.Div(decimal.NewFromInt(int64(g.count)))
		row.TotalItemsForWeighting = weightingUnits(g.vector, cfg)
		if row.TotalItemsForWeighting > 0 {
			cpp := row.AvgOrderShippingCost.Div(decimal.NewFromInt(int64(row.TotalItemsForWeighting)))
			row.CostPerProduct = &cpp
		}
		for p := 0; p < orders.NumCategories; p++ {
			row.CategoryUnits[p] = g.vector[p] * g.count
			catTotals[p] += row.CategoryUnits[p]
		}
		t.TotalOrders += g.count
		t.Rows = append(t.Rows, row)
	}

	for i := range t.Rows {
		row := &t.Rows[i]
		if t.TotalOrders > 0 {
			row.OrderShare = float64(row.CountOfOrders) / float64(t.TotalOrders)
		}
		for p := 0; p < orders.NumCategories; p++ {
			if catTotals[p] > 0 {
				row.CategoryShare[p] = float64(row.CategoryUnits[p]) / float64(catTotals[p])
			}
		}
	}

	t.computeWeighted()
	return t
}

type groupAccum struct {
	vector  orders.QuantityVector
	count   int
	costSum decimal.Decimal
}

// weightingUnits is the unit-cost denominator for one order of this
// combination. "other" never counts; gift_bag counts only when configured.
func weightingUnits(v orders.QuantityVector, cfg Config) int {
	total := 0
	for p := 0; p < orders.NumCategories; p++ {
		switch p {
		case orders.CatOther:
			continue
		case orders.CatGiftBag:
			if !cfg.CountGiftBags {
				continue
			}
		}
		total += v[p]
	}
	return total
}

// computeWeighted derives the cross-group weighted averages. For category
// p: sum(vector[p] x count x cost_per_product) / sum(vector[p] x count),
// restricted to groups with a non-null cost_per_product.
func (t *Table) computeWeighted() {
	for p := 0; p < orders.NumCategories; p++ {
		num := decimal.Zero
		den := 0
		for _, row := range t.Rows {
			if row.CostPerProduct == nil || row.Vector[p] == 0 {
				continue
			}
			units := row.Vector[p] * row.CountOfOrders
			num = num.Add(row.CostPerProduct.Mul(decimal.NewFromInt(int64(units))))
			den += units
		}
		if den > 0 {
			w := num.Div(decimal.NewFromInt(int64(den)))
			t.WeightedCostPerCategory[p] = &w
		}
	}

	if t.TotalOrders > 0 {
		sum := decimal.Zero
		for _, row := range t.Rows {
			sum = sum.Add(row.AvgOrderShippingCost.Mul(decimal.NewFromInt(int64(row.CountOfOrders))))
		}
		w := sum.Div(decimal.NewFromInt(int64(t.TotalOrders)))
		t.WeightedCostPerOrder = &w
	}

	num := decimal.Zero
	den := 0
	for _, row := range t.Rows {
		if row.CostPerProduct == nil {
			continue
		}
		units := 0
		for _, p := range orders.BlanketCategories {
			units += row.Vector[p] * row.CountOfOrders
		}
		if units == 0 {
			continue
		}
		num = num.Add(row.CostPerProduct.Mul(decimal.NewFromInt(int64(units))))
		den += units
	}
	if den > 0 {
		w := num.Div(decimal.NewFromInt(int64(den)))
		t.WeightedCostPerBlanket = &w
	}
}

// ShareCheck verifies that every category's shares sum to 1 within tol,
// for categories with any units. Returns a describing error per violation.
func (t *Table) ShareCheck(tol float64) []error {
	var errs []error
	for p := 0; p < orders.NumCategories; p++ {
		sum := 0.0
		units := 0
		for _, row := range t.Rows {
			sum += row.CategoryShare[p]
			units += row.CategoryUnits[p]
		}
		if units == 0 {
			continue
		}
		if diff := sum - 1; diff > tol || diff < -tol {
			errs = append(errs, fmt.Errorf("category %s shares sum to %.9f", orders.CategoryNames[p], sum))
		}
	}
	return errs
}
