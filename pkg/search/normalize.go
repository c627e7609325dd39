package search

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Normalize maps a raw vendor payload into a canonical Result using the
// vendor's declarative field table. It is a pure transformation: a missing
// optional field yields a zero value, never an error. A missing results
// shape yields a SchemaError so that "response shape changed" stays
// distinguishable from "zero matches".
func (cfg *VendorConfig) Normalize(raw []byte) (*Result, error) {
	if !gjson.ValidBytes(raw) {
		var probe any
		err := json.Unmarshal(raw, &probe)
		if err == nil {
			err = errors.New("malformed JSON")
		}
		return nil, &ParseError{Err: err}
	}
	root := gjson.ParseBytes(raw)

	entries, err := cfg.locateEntries(root)
	if err != nil {
		return nil, err
	}

	records := make([]ProductRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, cfg.mapRecord(entry))
	}

	result := &Result{
		TotalFound: len(records),
		Records:    records,
		Raw:        json.RawMessage(raw),
	}
	if cfg.TotalPath != "" {
		if total := root.Get(cfg.TotalPath); total.Exists() {
			result.TotalFound = int(total.Int())
		}
	}
	if cfg.SuggestionsPanel != "" {
		if panel, ok := findPanel(root, cfg.SuggestionsPanel); ok {
			for _, completion := range panel.Get("completions").Array() {
				if q := completion.Get("query").String(); q != "" {
					result.Suggestions = append(result.Suggestions, q)
				}
			}
		}
	}
	return result, nil
}

// locateEntries finds the results array. Vendors either expose a plain
// array at ResultsPath or bury product variants inside one named sub-panel
// among several sections; sibling panels such as "top-sellers" carry
// generic, non-query-specific data and are ignored.
func (cfg *VendorConfig) locateEntries(root gjson.Result) ([]gjson.Result, error) {
	if cfg.Panel != "" {
		panel, ok := findPanel(root, cfg.Panel)
		if !ok {
			return nil, &SchemaError{Missing: "panel " + strconv.Quote(cfg.Panel)}
		}
		var entries []gjson.Result
		for _, product := range panel.Get("products").Array() {
			for _, variant := range product.Get("variants").Array() {
				entries = append(entries, variant)
			}
		}
		return entries, nil
	}

	arr := root.Get(cfg.ResultsPath)
	if !arr.Exists() {
		return nil, &SchemaError{Missing: "results array at " + strconv.Quote(cfg.ResultsPath)}
	}
	if !arr.IsArray() {
		return nil, &SchemaError{Missing: strconv.Quote(cfg.ResultsPath) + " is not an array"}
	}
	return arr.Array(), nil
}

// findPanel scans every top-level section array for a panel with the given
// name.
func findPanel(root gjson.Result, name string) (gjson.Result, bool) {
	var found gjson.Result
	var ok bool
	root.ForEach(func(_, section gjson.Result) bool {
		if !section.IsArray() {
			return true
		}
		for _, panel := range section.Array() {
			if panel.Get("name").String() == name {
				found, ok = panel, true
				return false
			}
		}
		return true
	})
	return found, ok
}

func (cfg *VendorConfig) mapRecord(entry gjson.Result) ProductRecord {
	rec := ProductRecord{
		Currency: cfg.Currency,
		InStock:  StockUnknown,
	}
	for _, fm := range cfg.Fields {
		value, ok := lookup(entry, fm.Paths)
		if !ok {
			continue
		}
		apply(&rec, fm, value)
	}
	return rec
}

// lookup resolves the first existing, non-null path and unwraps
// single-element arrays (Voyado wraps every attribute value in a list).
func lookup(entry gjson.Result, paths []string) (gjson.Result, bool) {
	for _, path := range paths {
		value := entry.Get(path)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}
		if value.IsArray() {
			elems := value.Array()
			if len(elems) == 0 {
				continue
			}
			value = elems[0]
		}
		return value, true
	}
	return gjson.Result{}, false
}

func apply(rec *ProductRecord, fm FieldMap, value gjson.Result) {
	switch fm.Convert {
	case AsPrice:
		price := parsePrice(value)
		if price == nil {
			return
		}
		switch fm.Field {
		case FieldPrice:
			rec.Price = price
		case FieldPreviousPrice:
			rec.PreviousPrice = price
		}
	case AsStock:
		rec.InStock = parseStock(value)
	case AsURL:
		resolved := absolutize(strings.TrimSpace(value.String()), fm.Prefix)
		if resolved == "" {
			return
		}
		switch fm.Field {
		case FieldURL:
			rec.URL = resolved
		case FieldImageURL:
			rec.ImageURL = resolved
		}
	case AsFloat:
		if value.Type != gjson.Number {
			return
		}
		f := value.Float()
		if fm.Field == FieldRating {
			rec.Rating = &f
		}
	case AsInt:
		if value.Type != gjson.Number {
			return
		}
		n := int(value.Int())
		if fm.Field == FieldReviewCount {
			rec.ReviewCount = &n
		}
	default: // AsString
		s := strings.TrimSpace(value.String())
		if fm.TrimSuffix != "" {
			s = strings.TrimSuffix(s, fm.TrimSuffix)
		}
		if s == "" {
			return
		}
		switch fm.Field {
		case FieldName:
			rec.Name = s
		case FieldBrand:
			rec.Brand = s
		case FieldCategory:
			rec.Category = s
		case FieldSKU:
			rec.SKU = s
		}
	}
}

// parsePrice accepts JSON numbers and price strings such as "11.95",
// "11,95" or "11,95 €".
func parsePrice(value gjson.Result) *float64 {
	if value.Type == gjson.Number {
		f := value.Float()
		return &f
	}
	s := strings.TrimSpace(value.String())
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimSuffix(s, "EUR")
	s = strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseStock collapses the vendor representations of stock status: string
// enums ("yes"/"no"), booleans, and numeric counts or availability codes
// where zero means out of stock and any positive value means in stock.
func parseStock(value gjson.Result) Availability {
	switch value.Type {
	case gjson.True:
		return InStock
	case gjson.False:
		return OutOfStock
	case gjson.Number:
		if value.Float() > 0 {
			return InStock
		}
		return OutOfStock
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(value.String())) {
		case "yes", "true", "instock", "in stock":
			return InStock
		case "no", "false", "outofstock", "out of stock":
			return OutOfStock
		}
		if n, err := strconv.ParseFloat(strings.TrimSpace(value.String()), 64); err == nil {
			if n > 0 {
				return InStock
			}
			return OutOfStock
		}
	}
	return StockUnknown
}

// absolutize prepends the vendor base URL to relative paths. Already
// absolute URLs pass through untouched.
func absolutize(s, prefix string) string {
	if s == "" || prefix == "" {
		return s
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return strings.TrimSuffix(prefix, "/") + s
}
