// Package schema defines the canonical shipment schema and the per-vendor
// alias tables that resolve raw spreadsheet headers onto it.
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"FreightRecon/internal/clean"
	"FreightRecon/internal/vendor"
)

// Canonical field names. These are the only column identities the rest of
// the pipeline knows about; vendor header drift is absorbed by the alias
// tables below.
const (
	FieldTrackingNumber   = "tracking_number"
	FieldInvoiceDate      = "invoice_date"
	FieldShipDate         = "ship_date"
	FieldServiceType      = "service_type"
	FieldShippingCost     = "shipping_cost"
	FieldActualWeight     = "actual_weight"
	FieldBilledWeight     = "billed_weight"
	FieldRecipientName    = "recipient_name"
	FieldRecipientState   = "recipient_state"
	FieldRecipientZip     = "recipient_zip"
	FieldRecipientCountry = "recipient_country"
	FieldOriginState      = "origin_state"
	FieldReference1       = "reference_1"
	FieldReference2       = "reference_2"
	FieldReference4       = "reference_4"
	FieldZone             = "zone"
	FieldPackageLength    = "package_length"
	FieldPackageWidth     = "package_width"
	FieldPackageHeight    = "package_height"
)

// RequiredFields must resolve to a source column for every vendor, and must
// carry a value on every row that enters the consolidated set.
var RequiredFields = []string{
	FieldTrackingNumber,
	FieldInvoiceDate,
	FieldShipDate,
	FieldServiceType,
	FieldShippingCost,
	FieldBilledWeight,
	FieldRecipientName,
	FieldRecipientState,
	FieldRecipientZip,
	FieldRecipientCountry,
}

// FieldAliases is one canonical field with its accepted raw headers in
// declaration order. Order matters: the first canonical field whose alias
// list contains a header claims it.
type FieldAliases struct {
	Field   string   `yaml:"field"`
	Aliases []string `yaml:"aliases"`
}

// VendorFieldMap is the immutable alias table for one vendor. It is built
// once at load time and shared read-only across extraction workers.
type VendorFieldMap struct {
	Vendor vendor.Vendor
	Fields []FieldAliases

	// normalized alias -> canonical field, respecting declaration order
	byAlias map[string]string
}

func newVendorFieldMap(v vendor.Vendor, fields []FieldAliases) VendorFieldMap {
	m := VendorFieldMap{Vendor: v, Fields: fields, byAlias: make(map[string]string)}
	for _, fa := range fields {
		for _, alias := range fa.Aliases {
			key := clean.Key(alias)
			if _, taken := m.byAlias[key]; !taken {
				m.byAlias[key] = fa.Field
			}
		}
	}
	return m
}

// Lookup resolves a normalized header to its canonical field.
func (m VendorFieldMap) Lookup(normalizedHeader string) (string, bool) {
	f, ok := m.byAlias[normalizedHeader]
	return f, ok
}

// FieldMaps holds every vendor's alias table for a run.
type FieldMaps map[vendor.Vendor]VendorFieldMap

// AliasSet returns the union of normalized aliases across all vendors.
// The header locator scores candidate rows against this set, since the
// vendor of a sheet is known but drifted files sometimes carry headers
// from a sibling export template.
func (fm FieldMaps) AliasSet() map[string]bool {
	set := make(map[string]bool)
	for _, m := range fm {
		for alias := range m.byAlias {
			set[alias] = true
		}
	}
	return set
}

// Defaults returns the compiled-in alias tables for the carriers we bill
// against today. FedEx invoices the charge as "Net Charge" and ships on
// "Ship Date"; UPS calls the same columns "Shipping Cost" and "Pickup
// Date". Aliases accumulate as vendors rename columns between months;
// never remove one that a past file used.
func Defaults() FieldMaps {
	fedex := []FieldAliases{
		{FieldTrackingNumber, []string{"Tracking Number", "Express or Ground Tracking ID"}},
		{FieldInvoiceDate, []string{"Invoice Date"}},
		{FieldShipDate, []string{"Ship Date", "Shipment Date"}},
		{FieldServiceType, []string{"Service Type", "Service"}},
		{FieldShippingCost, []string{"Net Charge", "Net Charge Amount"}},
		{FieldActualWeight, []string{"Actual Weight", "Actual Weight Amount"}},
		{FieldBilledWeight, []string{"Billed Weight", "Rated Weight Amount"}},
		{FieldRecipientName, []string{"Recipient Company", "Recipient Name"}},
		{FieldRecipientState, []string{"Recipient State", "Recipient State/Province"}},
		{FieldRecipientZip, []string{"Recipient Zipcode", "Recipient Zip Code", "Recipient Postal Code"}},
		{FieldRecipientCountry, []string{"Recipient Country", "Recipient Country/Territory"}},
		{FieldReference1, []string{"Reference 1", "Original Customer Reference"}},
		{FieldReference2, []string{"Reference 2", "Original Ref#2"}},
		{FieldReference4, []string{"Reference 4"}},
		{FieldZone, []string{"Zone", "Zone Code"}},
		{FieldPackageLength, []string{"Dim Length", "Dim Length (in)"}},
		{FieldPackageWidth, []string{"Dim Width", "Dim Width (in)"}},
		{FieldPackageHeight, []string{"Dim Height", "Dim Height (in)"}},
	}
	ups := []FieldAliases{
		{FieldTrackingNumber, []string{"Tracking Number", "Shipment Tracking Number"}},
		{FieldInvoiceDate, []string{"Carrier Invoice Date", "Invoice Date"}},
		{FieldShipDate, []string{"Pickup Date", "Ship Date"}},
		{FieldServiceType, []string{"Service", "Service Level", "Charge Description"}},
		{FieldShippingCost, []string{"Shipping Cost", "Net Amount", "Billed Charge"}},
		{FieldBilledWeight, []string{"Billed Weight", "Entered Weight"}},
		{FieldRecipientName, []string{"Recipient Name", "Receiver Name", "Consignee Name"}},
		{FieldRecipientState, []string{"Recipient State", "Receiver State"}},
		{FieldRecipientZip, []string{"Recipient Postal Code", "Receiver Postal Code", "Recipient Zip"}},
		{FieldRecipientCountry, []string{"Recipient Country", "Receiver Country"}},
		{FieldOriginState, []string{"Origin State", "Sender State"}},
		{FieldReference1, []string{"Reference 1", "Reference Number 1"}},
		{FieldReference2, []string{"Reference 2", "Reference Number 2"}},
		{FieldZone, []string{"Zone"}},
	}
	usps := []FieldAliases{
		{FieldTrackingNumber, []string{"Tracking Number", "Tracking #"}},
		{FieldInvoiceDate, []string{"Invoice Date", "Print Date"}},
		{FieldShipDate, []string{"Ship Date", "Mail Date"}},
		{FieldServiceType, []string{"Service", "Mail Class"}},
		{FieldShippingCost, []string{"Cost", "Postage", "Amount"}},
		{FieldBilledWeight, []string{"Weight", "Billed Weight"}},
		{FieldRecipientName, []string{"Recipient Name", "Recipient"}},
		{FieldRecipientState, []string{"Recipient State", "State"}},
		{FieldRecipientZip, []string{"Recipient Zip", "Zip Code", "Postal Code"}},
		{FieldRecipientCountry, []string{"Recipient Country", "Country"}},
		{FieldReference1, []string{"Reference 1", "Order Number"}},
		{FieldZone, []string{"Zone"}},
	}
	return FieldMaps{
		vendor.FedEx: newVendorFieldMap(vendor.FedEx, fedex),
		vendor.UPS:   newVendorFieldMap(vendor.UPS, ups),
		vendor.USPS:  newVendorFieldMap(vendor.USPS, usps),
	}
}

type fieldMapFile struct {
	Vendors []struct {
		Vendor string         `yaml:"vendor"`
		Fields []FieldAliases `yaml:"fields"`
	} `yaml:"vendors"`
}

// Load reads alias tables from a YAML file, replacing the compiled-in table
// for every vendor the file mentions. Vendors absent from the file keep
// their defaults, so an ops-side tweak to one carrier never risks the rest.
func Load(path string) (FieldMaps, error) {
	maps := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return maps, nil
		}
		return nil, fmt.Errorf("read field maps %s: %w", path, err)
	}
	var file fieldMapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse field maps %s: %w", path, err)
	}
	for _, vf := range file.Vendors {
		v := vendor.Vendor(vf.Vendor)
		if v != vendor.FedEx && v != vendor.UPS && v != vendor.USPS {
			return nil, fmt.Errorf("field maps %s: unknown vendor %q", path, vf.Vendor)
		}
		if len(vf.Fields) == 0 {
			return nil, fmt.Errorf("field maps %s: vendor %q has no fields", path, vf.Vendor)
		}
		maps[v] = newVendorFieldMap(v, vf.Fields)
	}
	return maps, nil
}
