package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecordCountMatchesFixture(t *testing.T) {
	cfg := testConfig()
	raw := []byte(`{
		"total": 123,
		"products": [
			{"title": "Lamppu A", "price": 9.99, "stock": 3, "url": "/p/1"},
			{"title": "Lamppu B", "price": "19,95", "stock": 0, "url": "https://other.test/p/2"},
			{"title": "Lamppu C"}
		]
	}`)

	result, err := cfg.Normalize(raw)
	require.NoError(t, err)

	assert.Len(t, result.Records, 3)
	assert.Equal(t, 123, result.TotalFound)
	assert.Equal(t, json.RawMessage(raw), result.Raw)
}

func TestNormalizeFieldConversions(t *testing.T) {
	cfg := testConfig()
	raw := []byte(`{
		"total": 2,
		"products": [
			{"title": "Lamppu A", "price": 9.99, "stock": 3, "url": "/p/1"},
			{"title": "Lamppu B", "price": "19,95", "stock": 0, "url": "https://other.test/p/2"}
		]
	}`)

	result, err := cfg.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	require.NotNil(t, first.Price)
	assert.Equal(t, 9.99, *first.Price)
	assert.Equal(t, InStock, first.InStock)
	assert.Equal(t, "https://www.acme.test/p/1", first.URL)
	assert.Equal(t, "EUR", first.Currency)

	second := result.Records[1]
	require.NotNil(t, second.Price)
	assert.Equal(t, 19.95, *second.Price)
	assert.Equal(t, OutOfStock, second.InStock)
	// Already-absolute URLs pass through untouched.
	assert.Equal(t, "https://other.test/p/2", second.URL)
}

func TestNormalizeMissingOptionalFields(t *testing.T) {
	cfg := testConfig()
	raw := []byte(`{"total": 1, "products": [{"title": "Lamppu"}]}`)

	result, err := cfg.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	record := result.Records[0]
	assert.Equal(t, "Lamppu", record.Name)
	assert.Nil(t, record.Price)
	assert.Nil(t, record.PreviousPrice)
	assert.Equal(t, StockUnknown, record.InStock)
	assert.Empty(t, record.URL)
	assert.Empty(t, record.Brand)
}

func TestNormalizeEmptyResultsIsSuccess(t *testing.T) {
	cfg := testConfig()

	result, err := cfg.Normalize([]byte(`{"total": 0, "products": []}`))
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.TotalFound)
}

func TestNormalizeMissingResultsShape(t *testing.T) {
	cfg := testConfig()

	_, err := cfg.Normalize([]byte(`{"total": 0, "unexpected": true}`))
	require.Error(t, err)
	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)

	_, err = cfg.Normalize([]byte(`{"products": "not-an-array"}`))
	assert.ErrorAs(t, err, &schemaErr)
}

func TestNormalizeInvalidJSON(t *testing.T) {
	cfg := testConfig()

	_, err := cfg.Normalize([]byte(`{"products": [`))
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestNormalizeUnwrapsSingleElementArrays(t *testing.T) {
	cfg := testConfig()
	raw := []byte(`{
		"total": 1,
		"products": [{"title": ["Lamppu"], "price": ["12.50"], "stock": [true]}]
	}`)

	result, err := cfg.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	record := result.Records[0]
	assert.Equal(t, "Lamppu", record.Name)
	require.NotNil(t, record.Price)
	assert.Equal(t, 12.5, *record.Price)
	assert.Equal(t, InStock, record.InStock)
}

func TestNormalizeNearDuplicatePriceKeys(t *testing.T) {
	cfg := testConfig()
	cfg.Fields = []FieldMap{
		{Field: FieldName, Paths: []string{"title"}},
		// First existing path wins; the tax-free duplicate is redundant.
		{Field: FieldPrice, Paths: []string{"salePrice", "price"}, Convert: AsPrice},
		{Field: FieldPreviousPrice, Paths: []string{"oldPrice"}, Convert: AsPrice},
	}
	raw := []byte(`{
		"total": 1,
		"products": [{"title": "Lamppu", "salePrice": "8.99", "price": "10.99", "oldPrice": "10.99"}]
	}`)

	result, err := cfg.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	record := result.Records[0]
	require.NotNil(t, record.Price)
	assert.Equal(t, 8.99, *record.Price)
	require.NotNil(t, record.PreviousPrice)
	assert.Equal(t, 10.99, *record.PreviousPrice)
}

func TestNormalizeTotalFallsBackToRecordCount(t *testing.T) {
	cfg := testConfig()
	cfg.TotalPath = ""

	result, err := cfg.Normalize([]byte(`{"products": [{"title": "A"}, {"title": "B"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalFound)
}

func TestParseStock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Availability
	}{
		{name: "string yes", input: `"yes"`, want: InStock},
		{name: "string no", input: `"no"`, want: OutOfStock},
		{name: "string out of stock", input: `"out of stock"`, want: OutOfStock},
		{name: "bool true", input: `true`, want: InStock},
		{name: "bool false", input: `false`, want: OutOfStock},
		{name: "positive count", input: `7`, want: InStock},
		{name: "zero count", input: `0`, want: OutOfStock},
		{name: "availability code two", input: `2`, want: InStock},
		{name: "numeric string", input: `"3"`, want: InStock},
		{name: "garbage", input: `"maybe"`, want: StockUnknown},
	}

	cfg := testConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte(`{"products": [{"title": "x", "stock": ` + tt.input + `}]}`)
			result, err := cfg.Normalize(raw)
			require.NoError(t, err)
			require.Len(t, result.Records, 1)
			assert.Equal(t, tt.want, result.Records[0].InStock)
		})
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	cfg := testConfig()
	raw := []byte(`{
		"total": 42,
		"products": [
			{"title": "Lamppu A", "price": 9.99, "stock": 3, "url": "/p/1"},
			{"title": "Lamppu B"}
		]
	}`)

	result, err := cfg.Normalize(raw)
	require.NoError(t, err)

	encoded, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, result.TotalFound, decoded.TotalFound)
	assert.Equal(t, result.Records, decoded.Records)
	assert.Equal(t, result.Suggestions, decoded.Suggestions)
}
