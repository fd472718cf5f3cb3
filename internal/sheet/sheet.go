// Package sheet models a raw spreadsheet grid and locates the header row
// inside it. Carrier exports bury headers under metadata banners at vendor-
// and month-dependent offsets, so detection is content driven rather than
// positional.
package sheet

import (
	"FreightRecon/internal/vendor"
)

// RawSheet is one parsed invoice sheet: an ordered grid of untyped cell
// values plus its lineage.
type RawSheet struct {
	SourceFile string
	Vendor     vendor.Vendor
	Rows       [][]string
}

// Cell returns the cell at (row, col), tolerating ragged rows.
func (s *RawSheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
