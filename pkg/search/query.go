// Package search implements the shared product search pattern behind the
// storesearch CLI: building a vendor query URL, fetching the response over
// HTTP and normalizing the vendor's idiosyncratic JSON into one canonical
// record shape. Vendor specifics live in static VendorConfig values (see
// pkg/vendor); this package contains no per-vendor branching.
package search

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Sort is a vendor-independent sort order. Each vendor maps the values it
// supports to its own parameter encoding; unsupported values are rejected
// at URL-building time.
type Sort string

const (
	SortRelevance Sort = "rel"
	SortPriceAsc  Sort = "lth"
	SortPriceDesc Sort = "htl"
	SortNameAsc   Sort = "az"
	SortNameDesc  Sort = "za"
)

// ParseSort converts a CLI sort flag value into a Sort.
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return Sort(s), nil
	}
	return "", errors.Errorf("unknown sort %q (expected rel, lth, htl, az or za)", s)
}

// Query carries one search invocation's parameters. Limit and Offset are
// vendor-agnostic; offset is always 0-based here and converted to the
// vendor's windowing convention by the URL builder.
type Query struct {
	Term   string
	Limit  int
	Offset int
	Sort   Sort
}

// NewQuery returns a Query for term with the default limit, offset and sort.
func NewQuery(term string) Query {
	return Query{
		Term:  term,
		Limit: 10,
		Sort:  SortRelevance,
	}
}

// Validate checks the query and reports every problem found, wrapped in a
// single ValidationError.
func (q Query) Validate() error {
	var result *multierror.Error
	if strings.TrimSpace(q.Term) == "" {
		result = multierror.Append(result, errors.New("term must not be empty"))
	}
	if q.Limit < 0 {
		result = multierror.Append(result, errors.Errorf("limit must not be negative, got %d", q.Limit))
	}
	if q.Offset < 0 {
		result = multierror.Append(result, errors.Errorf("offset must not be negative, got %d", q.Offset))
	}
	if _, err := ParseSort(string(q.Sort)); err != nil {
		result = multierror.Append(result, err)
	}
	if result != nil {
		return &ValidationError{Err: result.ErrorOrNil()}
	}
	return nil
}
