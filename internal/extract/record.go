package extract

import (
	"time"

	"github.com/shopspring/decimal"

	"FreightRecon/internal/vendor"
)

// Quality flag tags appended to records and rejects. A flagged record is
// still usable unless a required field is the one affected.
const (
	FlagCurrencyUnparsable = "currency_unparsable"
	FlagDateUnparsable     = "date_unparsable"
	FlagZipInvalid         = "zip_invalid"
	FlagStateInvalid       = "state_invalid"
)

// Record is one canonical shipment. Created once per extracted row; the
// only mutation ever applied afterwards is appending quality flags.
type Record struct {
	Vendor         vendor.Vendor
	TrackingNumber string
	InvoiceDate    time.Time
	ShipDate       time.Time
	ServiceType    string

	ShippingCost decimal.Decimal
	ActualWeight *decimal.Decimal
	BilledWeight decimal.Decimal

	RecipientName    string
	RecipientState   string
	RecipientZip     string
	RecipientCountry string
	OriginState      string

	Reference1 string
	Reference2 string
	Reference4 string
	Zone       string

	PackageLength *decimal.Decimal
	PackageWidth  *decimal.Decimal
	PackageHeight *decimal.Decimal

	SourceFile string
	SourceRow  int

	QualityFlags []string
}

// Flag appends a quality tag once.
func (r *Record) Flag(tag string) {
	for _, f := range r.QualityFlags {
		if f == tag {
			return
		}
	}
	r.QualityFlags = append(r.QualityFlags, tag)
}

// Reject is a row excluded from the consolidated set, kept for the QC
// report with the field that sank it.
type Reject struct {
	SourceFile   string
	SourceRow    int
	Vendor       vendor.Vendor
	MissingField string
	Flags        []string
}
