// Package match reconciles canonical shipments against the order index.
// The engine is a pure function over (shipment, index, config); it never
// invents a match it cannot justify, and everything it cannot justify it
// surfaces for manual review instead of guessing.
package match

import (
	"fmt"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"FreightRecon/internal/clean"
	"FreightRecon/internal/extract"
	"FreightRecon/internal/orders"
)

// Tier classifies how a shipment-to-order match was established.
type Tier string

const (
	TierExact     Tier = "EXACT"
	TierFuzzyHigh Tier = "FUZZY_HIGH"
	TierFuzzyLow  Tier = "FUZZY_LOW"
	TierUnmatched Tier = "UNMATCHED"
	TierAmbiguous Tier = "AMBIGUOUS"
)

// Result is the immutable outcome of reconciling one shipment.
type Result struct {
	TrackingNumber string
	OrderID        string // empty for UNMATCHED / AMBIGUOUS
	Tier           Tier
	// MatchedOn names the signal that produced the match, for audit:
	// "reference_2", "tracking_number", "name+date", ...
	MatchedOn string
	// Score is the name-similarity ratio for fuzzy tiers, 0..1.
	Score float64
}

// Config carries the staged-matching knobs. The fuzzy thresholds are
// tuning targets, not fixed requirements; they live in run config so match
// rates can be calibrated against real months without a rebuild.
type Config struct {
	WindowDays    int
	HighThreshold float64
	LowThreshold  float64
	// AmbiguityEpsilon: when the top two fuzzy candidates score within
	// this margin the engine refuses to pick between them.
	AmbiguityEpsilon float64
}

// DefaultConfig returns the placeholder thresholds in use today.
func DefaultConfig() Config {
	return Config{
		WindowDays:       2,
		HighThreshold:    0.85,
		LowThreshold:     0.65,
		AmbiguityEpsilon: 0.02,
	}
}

// Similarity is the levenshtein ratio between two normalized name keys.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}

// Reconcile runs the two-stage state machine for one shipment.
//
// Stage 1 probes the exact-reference index with reference_1, reference_2
// and the tracking number. Exactly one distinct order across all probes is
// an EXACT match; two or more distinct orders is AMBIGUOUS (surfaced, never
// guessed); none falls through to stage 2.
//
// Stage 2 scores recipient-name similarity against orders dated within the
// configured window of the ship date. The best candidate lands in
// FUZZY_HIGH or FUZZY_LOW by threshold, unless the runner-up is within the
// ambiguity epsilon, which is AMBIGUOUS. Nothing above the low threshold is
// UNMATCHED.
func Reconcile(rec *extract.Record, idx *orders.Index, cfg Config) Result {
	res := Result{TrackingNumber: rec.TrackingNumber}

	// Stage 1: exact reference probes.
	probes := []struct{ signal, value string }{
		{"reference_1", rec.Reference1},
		{"reference_2", rec.Reference2},
		{"tracking_number", rec.TrackingNumber},
	}
	found := make(map[string]string) // order id -> signal that found it
	for _, p := range probes {
		if p.value == "" {
			continue
		}
		for _, id := range idx.LookupRef(p.value) {
			if _, ok := found[id]; !ok {
				found[id] = p.signal
			}
		}
	}
	switch len(found) {
	case 0:
		// fall through to stage 2
	case 1:
		for id, signal := range found {
			res.OrderID = id
			res.MatchedOn = signal
		}
		res.Tier = TierExact
		res.Score = 1
		return res
	default:
		res.Tier = TierAmbiguous
		res.MatchedOn = fmt.Sprintf("references resolve to %d orders", len(found))
		return res
	}

	// Stage 2: fuzzy name+date fallback.
	nameKey := clean.Key(rec.RecipientName)
	var (
		best        orders.Candidate
		bestScore   float64
		secondScore float64
	)
	for _, cand := range idx.CandidatesInWindow(rec.ShipDate, cfg.WindowDays) {
		score := Similarity(nameKey, cand.NameKey)
		if score > bestScore {
			secondScore = bestScore
			best, bestScore = cand, score
		} else if score > secondScore {
			secondScore = score
		}
	}

	if bestScore < cfg.LowThreshold {
		res.Tier = TierUnmatched
		res.Score = bestScore
		return res
	}
	if secondScore >= cfg.LowThreshold && bestScore-secondScore < cfg.AmbiguityEpsilon {
		res.Tier = TierAmbiguous
		res.Score = bestScore
		res.MatchedOn = "name+date: top candidates inseparable"
		return res
	}

	res.OrderID = best.OrderID
	res.Score = bestScore
	res.MatchedOn = "name+date"
	if bestScore >= cfg.HighThreshold {
		res.Tier = TierFuzzyHigh
	} else {
		res.Tier = TierFuzzyLow
	}
	return res
}

// ReconcileAll matches every shipment and returns results in input order.
func ReconcileAll(recs []extract.Record, idx *orders.Index, cfg Config) []Result {
	out := make([]Result, len(recs))
	for i := range recs {
		out[i] = Reconcile(&recs[i], idx, cfg)
	}
	return out
}
