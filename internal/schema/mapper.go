package schema

import (
	"errors"
	"fmt"

	"FreightRecon/internal/clean"
)

// ErrMissingRequiredField marks a sheet whose header row resolved, but left
// a required canonical field without a source column. File-level: the file
// is skipped, the run continues.
var ErrMissingRequiredField = errors.New("required canonical field has no source column")

// Resolution maps a located header row onto the canonical schema.
type Resolution struct {
	// Columns holds the source column index per resolved canonical field.
	Columns map[string]int
	// Passthrough keeps headers no alias claimed, by normalized name.
	// They are retained for schema-drift auditing, never dropped silently.
	Passthrough map[string]int
}

// Resolve walks the header cells in column order and assigns each to the
// first canonical field whose alias list contains it. A header resolves to
// at most one field, and the first column wins when a vendor repeats a
// header. Returns ErrMissingRequiredField (wrapped with the field names)
// when any required field ends up without a column.
func Resolve(headerCells []string, fieldMap VendorFieldMap) (Resolution, error) {
	res := Resolution{
		Columns:     make(map[string]int),
		Passthrough: make(map[string]int),
	}
	for col, cell := range headerCells {
		key := clean.Key(cell)
		if key == "" {
			continue
		}
		field, ok := fieldMap.Lookup(key)
		if !ok {
			if _, seen := res.Passthrough[key]; !seen {
				res.Passthrough[key] = col
			}
			continue
		}
		if _, taken := res.Columns[field]; !taken {
			res.Columns[field] = col
		}
	}

	var missing []string
	for _, f := range RequiredFields {
		if _, ok := res.Columns[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return res, fmt.Errorf("%w: vendor %s missing %v", ErrMissingRequiredField, fieldMap.Vendor, missing)
	}
	return res, nil
}
