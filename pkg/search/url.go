package search

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BuildURL turns a validated query into the vendor's request URL. It is pure
// over its inputs except for SessionParams, which receive a fresh UUID per
// call. Unsupported sort orders fail with a ValidationError so the mistake
// surfaces before any network traffic.
func (cfg *VendorConfig) BuildURL(q Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	params := url.Values{}
	for k, v := range cfg.FixedParams {
		params.Set(k, v)
	}
	for _, name := range cfg.TermParams {
		params.Set(name, q.Term)
	}
	for _, name := range cfg.SessionParams {
		params.Set(name, uuid.NewString())
	}

	if cfg.Window {
		first := q.Offset + cfg.OffsetBase
		params.Set(cfg.WindowFirst, strconv.Itoa(first))
		params.Set(cfg.WindowLast, strconv.Itoa(first+q.Limit-1))
	} else {
		params.Set(cfg.LimitParam, strconv.Itoa(q.Limit))
		params.Set(cfg.OffsetParam, strconv.Itoa(q.Offset+cfg.OffsetBase))
	}

	if cfg.SortParam != "" {
		code, ok := cfg.SortCodes[q.Sort]
		if !ok {
			return "", &ValidationError{
				Err: errors.Errorf("sort %q is not supported by %s", q.Sort, cfg.DisplayName),
			}
		}
		params.Set(cfg.SortParam, code)
	} else if q.Sort != SortRelevance {
		return "", &ValidationError{
			Err: errors.Errorf("%s only supports relevance ordering", cfg.DisplayName),
		}
	}

	query := params.Encode()
	if cfg.RawQuery != "" {
		// Kept un-encoded: Voyado requires literal commas in its
		// attribute list.
		query += "&" + cfg.RawQuery
	}
	return cfg.BaseURL + "?" + query, nil
}
