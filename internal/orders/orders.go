// Package orders models the external order feed and the lookup indexes the
// reconciliation engine probes. Order data arrives whole for a timeframe,
// already clean, and is never mutated here.
package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product categories tracked per order, in canonical vector order. The
// vector is the grouping identity for cost aggregation, so the order of
// this list is load-bearing and must not change between runs.
const (
	CatLarge = iota
	CatMedium
	CatBaby
	CatXLOrWtd
	CatLgPetBed
	CatPillowSquare
	CatPillowLumbar
	CatGiftBag
	CatOther
	NumCategories
)

// CategoryNames in vector order.
var CategoryNames = [NumCategories]string{
	"large", "medium", "baby", "xl_or_wtd", "lg_pet_bed",
	"pillow_square", "pillow_lumbar", "gift_bag", "other",
}

// BlanketCategories are the categories counted as blankets for the
// per-all-blankets weighted cost.
var BlanketCategories = []int{CatLarge, CatMedium, CatBaby, CatXLOrWtd}

// QuantityVector is the per-order count of each product category.
type QuantityVector [NumCategories]int

// Key renders the vector as a stable grouping key like
// "large=1,medium=0,...". Used for map grouping and report identity.
func (q QuantityVector) Key() string {
	parts := make([]string, NumCategories)
	for i, n := range q {
		parts[i] = fmt.Sprintf("%s=%d", CategoryNames[i], n)
	}
	return strings.Join(parts, ",")
}

// Total sums every component.
func (q QuantityVector) Total() int {
	t := 0
	for _, n := range q {
		t += n
	}
	return t
}

// Order is one external order row. Read-only to the pipeline.
type Order struct {
	OrderID      string
	OrderDate    time.Time
	CustomerName string
	Quantities   QuantityVector
	// AltCodes are additional reference shapes the order is known under
	// in carrier files (M-numbers, LOLAID codes). Supplied by the feed.
	AltCodes       []string
	TotalLineValue decimal.Decimal
}
