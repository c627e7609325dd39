package search

// Field identifies a canonical ProductRecord field inside a vendor's
// declarative field-mapping table.
type Field int

const (
	FieldName Field = iota
	FieldPrice
	FieldPreviousPrice
	FieldBrand
	FieldCategory
	FieldSKU
	FieldInStock
	FieldURL
	FieldImageURL
	FieldRating
	FieldReviewCount
)

// Convert selects how a raw vendor value becomes a canonical field value.
type Convert int

const (
	// AsString keeps the value as text.
	AsString Convert = iota
	// AsPrice parses a decimal price out of a JSON number or a string such
	// as "11,95 €".
	AsPrice
	// AsStock maps string enums ("yes"/"no"), booleans and numeric counts
	// or availability codes into the tri-state Availability. Numbers map
	// zero to OutOfStock and anything positive to InStock.
	AsStock
	// AsURL keeps the value as text and, when it is a relative path,
	// prepends the field mapping's Prefix.
	AsURL
	// AsFloat parses a JSON number into a float pointer.
	AsFloat
	// AsInt parses a JSON number into an int pointer.
	AsInt
)

// FieldMap binds one canonical field to the vendor keys that may carry it.
// Paths are gjson paths into a single results entry, tried in order; the
// first one that exists wins. Single-element arrays are unwrapped before
// conversion, a Voyado convention where every attribute value is a list.
type FieldMap struct {
	Field      Field
	Paths      []string
	Convert    Convert
	Prefix     string // base URL for relative AsURL values
	TrimSuffix string // suffix stripped from AsString values, e.g. "_FI"
}

// VendorConfig is the static description of one vendor's search API: how to
// build the query URL and how to locate and map its results. Instances are
// immutable; one Client serves one vendor.
type VendorConfig struct {
	Name        string // subcommand / registry name
	DisplayName string
	BaseURL     string
	Currency    string

	// Query construction.
	TermParams    []string          // every listed parameter receives the term
	LimitParam    string            // plain page-size parameter, empty when Window is set
	OffsetParam   string            // plain offset parameter, empty when Window is set
	OffsetBase    int               // 0 or 1; added to the caller's 0-based offset
	Window        bool              // window_first/window_last style pagination
	WindowFirst   string            // window start parameter name
	WindowLast    string            // window end parameter name (inclusive)
	SortParam     string            // sort parameter name, empty when the vendor has none
	SortCodes     map[Sort]string   // canonical sort -> vendor code; nil means relevance only
	FixedParams   map[string]string // boilerplate parameters sent on every request
	SessionParams []string          // parameters receiving a fresh random UUID per call
	RawQuery      string            // literal, pre-encoded query tail (kept verbatim)

	// Normalization.
	ResultsPath      string // gjson path of the results array, when it is a plain array
	Panel            string // sub-panel name when results live inside panel sections
	SuggestionsPanel string // sub-panel carrying autocomplete completions, optional
	TotalPath        string // gjson path of the vendor-reported total, optional
	Fields           []FieldMap
}
