// Package model defines the records flowing through the order audit pipeline.
package model

// SourceType labels where a combined row's quantities came from.
type SourceType string

const (
	SourceTypePacked  SourceType = "PACKED"
	SourceTypeShipped SourceType = "SHIPPED"
	SourceTypeBoth    SourceType = "BOTH"
)

// Record is a packed or shipped line produced by upstream extraction.
type Record struct {
	CanonicalCustomer string  `json:"canonical_customer" csv:"Canonical_Customer"`
	Customer          string  `json:"customer" csv:"Customer"`
	CustomerPO        string  `json:"customer_po" csv:"Customer_PO"`
	CustomerAltPO     string  `json:"customer_alt_po" csv:"Customer_Alt_PO"`
	Style             string  `json:"style" csv:"Style"`
	PatternID         string  `json:"pattern_id" csv:"Pattern_ID"`
	Color             string  `json:"color" csv:"Color"`
	Size              string  `json:"size" csv:"Size"`
	Qty               float64 `json:"qty" csv:"Qty"`
}

// CustomerKey returns the customer used for grouping: the canonical
// customer when present, otherwise the raw customer name.
func (r Record) CustomerKey() string {
	if r.CanonicalCustomer != "" {
		return r.CanonicalCustomer
	}
	return r.Customer
}

// OrderRecord is an ordered line that packed and shipped records reconcile against.
type OrderRecord struct {
	CanonicalCustomer string  `json:"canonical_customer" csv:"Canonical_Customer"`
	Customer          string  `json:"customer" csv:"Customer"`
	CustomerPO        string  `json:"customer_po" csv:"Customer_PO"`
	CustomerAltPO     string  `json:"customer_alt_po" csv:"Customer_Alt_PO"`
	Style             string  `json:"style" csv:"Style"`
	PatternID         string  `json:"pattern_id" csv:"Pattern_ID"`
	Color             string  `json:"color" csv:"Color"`
	Size              string  `json:"size" csv:"Size"`
	OrderedQty        float64 `json:"ordered_qty" csv:"Ordered_Qty"`
}

// CustomerKey mirrors Record.CustomerKey.
func (o OrderRecord) CustomerKey() string {
	if o.CanonicalCustomer != "" {
		return o.CanonicalCustomer
	}
	return o.Customer
}

// CombinedRecord is one aggregated row after packed and shipped
// quantities have been summed and outer-joined.
type CombinedRecord struct {
	CanonicalCustomer string     `json:"canonical_customer"`
	Customer          string     `json:"customer"`
	CustomerPO        string     `json:"customer_po"`
	CustomerAltPO     string     `json:"customer_alt_po"`
	Style             string     `json:"style"`
	PatternID         string     `json:"pattern_id"`
	Color             string     `json:"color"`
	Size              string     `json:"size"`
	PackedQty         float64    `json:"packed_qty"`
	ShippedQty        float64    `json:"shipped_qty"`
	SourceType        SourceType `json:"source_type"`
}

// CustomerKey mirrors Record.CustomerKey.
func (c CombinedRecord) CustomerKey() string {
	if c.CanonicalCustomer != "" {
		return c.CanonicalCustomer
	}
	return c.Customer
}

// DeliveredQty is packed plus shipped quantity.
func (c CombinedRecord) DeliveredQty() float64 {
	return c.PackedQty + c.ShippedQty
}
