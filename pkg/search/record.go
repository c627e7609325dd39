package search

import "encoding/json"

// Availability is the tri-state stock status of a product. Vendors report
// stock as a string enum, a boolean or a numeric count; all of them collapse
// into this type during normalization.
type Availability string

const (
	InStock      Availability = "yes"
	OutOfStock   Availability = "no"
	StockUnknown Availability = "unknown"
)

// ProductRecord is the canonical, vendor-independent product shape. Optional
// fields are pointers or empty strings; a field the vendor did not report is
// never an error. URL and ImageURL are always absolute.
type ProductRecord struct {
	Name          string       `json:"name"`
	Price         *float64     `json:"price"`
	PreviousPrice *float64     `json:"previous_price,omitempty"`
	Currency      string       `json:"currency"`
	Brand         string       `json:"brand,omitempty"`
	Category      string       `json:"category,omitempty"`
	SKU           string       `json:"sku_or_id,omitempty"`
	InStock       Availability `json:"in_stock"`
	URL           string       `json:"url,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	Rating        *float64     `json:"rating,omitempty"`
	ReviewCount   *int         `json:"review_count,omitempty"`
}

// Result is the outcome of one search. TotalFound is the vendor-reported
// total where available, which may exceed len(Records). Raw holds the
// untouched vendor payload for passthrough output.
type Result struct {
	TotalFound  int             `json:"total_found"`
	Records     []ProductRecord `json:"records"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Raw         json.RawMessage `json:"-"`
}
