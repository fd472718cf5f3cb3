package sheet

import (
	"errors"
	"fmt"

	"FreightRecon/internal/clean"
)

// ErrHeaderNotFound marks a sheet in which no candidate row scored enough
// alias hits. File-level: the file is skipped and the run continues.
var ErrHeaderNotFound = errors.New("no header row detected")

// LocatorConfig tunes header detection.
type LocatorConfig struct {
	// ScanRows is how many leading rows are considered (default 15).
	ScanRows int
	// MinAliasHits is the lowest winning score accepted as a header row.
	MinAliasHits int
}

// DefaultLocatorConfig matches the deepest header offset seen in practice
// (FedEx buries headers under three banner rows) with room to spare.
func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{ScanRows: 15, MinAliasHits: 2}
}

// LocateHeader finds the header row index within the first ScanRows rows.
//
// Each candidate row scores one point per cell whose normalized text is a
// known alias in any vendor's table, plus a bonus point when the row below
// it is more numeric/date-like than the candidate itself: header rows are
// text heavy and sit directly above data. Highest score wins, ties go to
// the earliest row. A winning score below MinAliasHits means the sheet has
// no recognizable header and the file fails with ErrHeaderNotFound.
func LocateHeader(s *RawSheet, aliases map[string]bool, cfg LocatorConfig) (int, error) {
	if cfg.ScanRows <= 0 {
		cfg.ScanRows = 15
	}
	if cfg.MinAliasHits <= 0 {
		cfg.MinAliasHits = 2
	}
	limit := cfg.ScanRows
	if limit > len(s.Rows) {
		limit = len(s.Rows)
	}

	bestRow, bestScore := -1, -1
	for i := 0; i < limit; i++ {
		score := aliasHits(s.Rows[i], aliases)
		if score > 0 && i+1 < len(s.Rows) {
			if valueRatio(s.Rows[i+1]) > valueRatio(s.Rows[i]) {
				score++
			}
		}
		if score > bestScore {
			bestRow, bestScore = i, score
		}
	}
	if bestScore < cfg.MinAliasHits {
		return -1, fmt.Errorf("%w: best score %d in first %d rows of %s",
			ErrHeaderNotFound, bestScore, limit, s.SourceFile)
	}
	return bestRow, nil
}

func aliasHits(row []string, aliases map[string]bool) int {
	hits := 0
	for _, cell := range row {
		if key := clean.Key(cell); key != "" && aliases[key] {
			hits++
		}
	}
	return hits
}

// valueRatio is the fraction of non-empty cells that parse as a number or
// a date. Data rows score high, banner and header rows score low.
func valueRatio(row []string) float64 {
	nonEmpty, valueLike := 0, 0
	for _, cell := range row {
		if clean.Text(cell) == "" {
			continue
		}
		nonEmpty++
		if _, ok := clean.Decimal(cell); ok {
			valueLike++
			continue
		}
		if _, ok := clean.Date(cell); ok {
			valueLike++
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	return float64(valueLike) / float64(nonEmpty)
}
