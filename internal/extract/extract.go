// Package extract turns raw invoice sheets into canonical shipment
// records: header location, schema resolution, per-cell cleaning, row
// rejection and cross-file deduplication.
package extract

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"FreightRecon/internal/clean"
	"FreightRecon/internal/schema"
	"FreightRecon/internal/sheet"
)

// Result is everything extraction produced from one sheet.
type Result struct {
	Records []Record
	Rejects []Reject
	// PassthroughHeaders are the unresolved headers kept for drift audits.
	PassthroughHeaders []string
	HeaderRow          int
}

// Sheet extracts one raw sheet against the vendor's alias table. Sheet-level
// failures (no header, missing required column) return an error the caller
// treats as file-level and non-fatal to the run. Row-level problems land in
// Result.Rejects and never abort the sheet.
func Sheet(s *sheet.RawSheet, maps schema.FieldMaps, loc sheet.LocatorConfig) (Result, error) {
	fieldMap, ok := maps[s.Vendor]
	if !ok {
		return Result{}, fmt.Errorf("no field map for vendor %s (%s)", s.Vendor, s.SourceFile)
	}

	headerRow, err := sheet.LocateHeader(s, maps.AliasSet(), loc)
	if err != nil {
		return Result{}, err
	}

	res, err := schema.Resolve(s.Rows[headerRow], fieldMap)
	if err != nil {
		return Result{}, err
	}

	out := Result{HeaderRow: headerRow}
	for h := range res.Passthrough {
		out.PassthroughHeaders = append(out.PassthroughHeaders, h)
	}

	for i := headerRow + 1; i < len(s.Rows); i++ {
		if rowEmpty(s.Rows[i]) {
			continue
		}
		rec, rej := buildRecord(s, i, res.Columns)
		if rej != nil {
			out.Rejects = append(out.Rejects, *rej)
			continue
		}
		out.Records = append(out.Records, *rec)
	}
	return out, nil
}

func buildRecord(s *sheet.RawSheet, row int, cols map[string]int) (*Record, *Reject) {
	rec := &Record{
		Vendor:     s.Vendor,
		SourceFile: s.SourceFile,
		SourceRow:  row,
	}
	cell := func(field string) (string, bool) {
		col, ok := cols[field]
		if !ok {
			return "", false
		}
		return s.Cell(row, col), true
	}
	reject := func(field string) *Reject {
		return &Reject{
			SourceFile:   s.SourceFile,
			SourceRow:    row,
			Vendor:       s.Vendor,
			MissingField: field,
			Flags:        rec.QualityFlags,
		}
	}

	// Required fields first; any missing value rejects the row.
	if raw, _ := cell(schema.FieldTrackingNumber); true {
		tn, ok := clean.Tracking(raw)
		if !ok {
			return nil, reject(schema.FieldTrackingNumber)
		}
		rec.TrackingNumber = tn
	}
	if raw, _ := cell(schema.FieldInvoiceDate); true {
		d, ok := clean.Date(raw)
		if !ok {
			rec.Flag(FlagDateUnparsable)
			return nil, reject(schema.FieldInvoiceDate)
		}
		rec.InvoiceDate = d
	}
	if raw, _ := cell(schema.FieldShipDate); true {
		d, ok := clean.Date(raw)
		if !ok {
			rec.Flag(FlagDateUnparsable)
			return nil, reject(schema.FieldShipDate)
		}
		rec.ShipDate = d
	}
	if raw, _ := cell(schema.FieldServiceType); true {
		svc := clean.Text(raw)
		if svc == "" {
			return nil, reject(schema.FieldServiceType)
		}
		rec.ServiceType = svc
	}
	if raw, _ := cell(schema.FieldShippingCost); true {
		cost, ok := clean.Currency(raw)
		if !ok {
			rec.Flag(FlagCurrencyUnparsable)
			return nil, reject(schema.FieldShippingCost)
		}
		rec.ShippingCost = cost
	}
	if raw, _ := cell(schema.FieldBilledWeight); true {
		w, ok := clean.Decimal(raw)
		if !ok {
			return nil, reject(schema.FieldBilledWeight)
		}
		rec.BilledWeight = w
	}
	if raw, _ := cell(schema.FieldRecipientName); true {
		name := clean.Text(raw)
		if name == "" {
			return nil, reject(schema.FieldRecipientName)
		}
		rec.RecipientName = name
	}
	if raw, _ := cell(schema.FieldRecipientState); true {
		st, ok := clean.State(raw)
		if !ok {
			rec.Flag(FlagStateInvalid)
			return nil, reject(schema.FieldRecipientState)
		}
		rec.RecipientState = st
	}
	if raw, _ := cell(schema.FieldRecipientZip); true {
		zip, ok := clean.Zip(raw)
		if !ok {
			rec.Flag(FlagZipInvalid)
			return nil, reject(schema.FieldRecipientZip)
		}
		rec.RecipientZip = zip
	}
	if raw, _ := cell(schema.FieldRecipientCountry); true {
		country := clean.Text(raw)
		if country == "" {
			return nil, reject(schema.FieldRecipientCountry)
		}
		rec.RecipientCountry = country
	}

	// Optional fields: absence is fine, garbage flags but keeps the row.
	if raw, ok := cell(schema.FieldActualWeight); ok {
		if w, ok := clean.Decimal(raw); ok {
			rec.ActualWeight = &w
		}
	}
	if raw, ok := cell(schema.FieldOriginState); ok {
		if st, ok := clean.State(raw); ok {
			rec.OriginState = st
		}
	}
	if raw, ok := cell(schema.FieldReference1); ok {
		rec.Reference1 = clean.Text(raw)
	}
	if raw, ok := cell(schema.FieldReference2); ok {
		rec.Reference2 = clean.Text(raw)
	}
	if raw, ok := cell(schema.FieldReference4); ok {
		rec.Reference4 = clean.Text(raw)
	}
	if raw, ok := cell(schema.FieldZone); ok {
		rec.Zone = clean.Zone(raw)
	}
	rec.PackageLength = optionalDecimal(cell, schema.FieldPackageLength)
	rec.PackageWidth = optionalDecimal(cell, schema.FieldPackageWidth)
	rec.PackageHeight = optionalDecimal(cell, schema.FieldPackageHeight)

	return rec, nil
}

func optionalDecimal(cell func(string) (string, bool), field string) *decimal.Decimal {
	raw, ok := cell(field)
	if !ok {
		return nil
	}
	d, ok := clean.Decimal(raw)
	if !ok {
		return nil
	}
	return &d
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if clean.Text(c) != "" {
			return false
		}
	}
	return true
}

// dateKey is the calendar-day key used for dedup identity.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
