package orders

import (
	"sort"
	"strings"
	"time"

	"FreightRecon/internal/clean"
)

// NormalizeRef reduces a reference-like string to its comparable core:
// uppercase alphanumerics only, so "#1234", "1234 " and "Order #1234"
// prefixes in carrier reference columns can meet the order feed halfway.
func NormalizeRef(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type nameEntry struct {
	NameKey   string
	OrderDate time.Time
	OrderID   string
}

// Index is the read-only lookup structure built once per run over the full
// order set. Two views: exact reference codes, and customer-name keys
// ordered by order date for windowed fuzzy lookup.
type Index struct {
	orders map[string]*Order
	byRef  map[string]map[string]bool
	byDate []nameEntry
}

// BuildIndex constructs both indexes from the full order set for the run's
// timeframe. Every normalized reference shape an order is known under maps
// to its order id; collisions across orders are preserved, the engine
// decides what an ambiguous probe means.
func BuildIndex(all []Order) *Index {
	idx := &Index{
		orders: make(map[string]*Order, len(all)),
		byRef:  make(map[string]map[string]bool),
	}
	for i := range all {
		o := &all[i]
		idx.orders[o.OrderID] = o
		idx.addRef(o.OrderID, o.OrderID)
		for _, code := range o.AltCodes {
			idx.addRef(code, o.OrderID)
		}
		idx.byDate = append(idx.byDate, nameEntry{
			NameKey:   clean.Key(o.CustomerName),
			OrderDate: o.OrderDate,
			OrderID:   o.OrderID,
		})
	}
	sort.Slice(idx.byDate, func(i, j int) bool {
		a, b := idx.byDate[i], idx.byDate[j]
		if !a.OrderDate.Equal(b.OrderDate) {
			return a.OrderDate.Before(b.OrderDate)
		}
		return a.OrderID < b.OrderID
	})
	return idx
}

func (idx *Index) addRef(raw, orderID string) {
	key := NormalizeRef(raw)
	if key == "" {
		return
	}
	set, ok := idx.byRef[key]
	if !ok {
		set = make(map[string]bool)
		idx.byRef[key] = set
	}
	set[orderID] = true
}

// Get returns the order by id.
func (idx *Index) Get(orderID string) (*Order, bool) {
	o, ok := idx.orders[orderID]
	return o, ok
}

// LookupRef returns the distinct order ids known under a reference string.
func (idx *Index) LookupRef(raw string) []string {
	set, ok := idx.byRef[NormalizeRef(raw)]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Candidate is one fuzzy-match candidate from the date-windowed view.
type Candidate struct {
	OrderID   string
	NameKey   string
	OrderDate time.Time
}

// CandidatesInWindow returns orders dated within ±windowDays of the ship
// date, in date order.
func (idx *Index) CandidatesInWindow(shipDate time.Time, windowDays int) []Candidate {
	lo := shipDate.AddDate(0, 0, -windowDays)
	hi := shipDate.AddDate(0, 0, windowDays)
	start := sort.Search(len(idx.byDate), func(i int) bool {
		return !idx.byDate[i].OrderDate.Before(lo)
	})
	var out []Candidate
	for i := start; i < len(idx.byDate) && !idx.byDate[i].OrderDate.After(hi); i++ {
		e := idx.byDate[i]
		out = append(out, Candidate{OrderID: e.OrderID, NameKey: e.NameKey, OrderDate: e.OrderDate})
	}
	return out
}

// Size reports how many orders the index covers.
func (idx *Index) Size() int {
	return len(idx.orders)
}
