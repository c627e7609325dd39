package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/akaihola/storesearch/pkg/search"
	"github.com/akaihola/storesearch/pkg/vendor"
)

type SearchConfig struct {
	Limit  int
	Offset int
	Sort   string
	JSON   bool
	Raw    bool
}

func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		Limit:  10,
		Offset: 0,
		Sort:   "rel",
	}
}

func init() {
	for _, cfg := range vendor.All() {
		rootCmd.AddCommand(newSearchCmd(cfg))
	}
}

// newSearchCmd builds the search subcommand for one vendor. All vendors
// share flags and behavior; only the configuration differs.
func newSearchCmd(cfg *search.VendorConfig) *cobra.Command {
	defaults := NewSearchConfig()
	cmd := &cobra.Command{
		Use:   cfg.Name + " <term>",
		Short: "Search products on " + cfg.DisplayName,
		Long: fmt.Sprintf(`Search products on %s and print them in the normalized record shape.

Examples:
  storesearch %[2]s "taskulamppu"
  storesearch %[2]s "taskulamppu" --limit 20 --sort lth
  storesearch %[2]s "taskulamppu" --json`, cfg.DisplayName, cfg.Name),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := getSearchConfigFromFlags(cmd)
			return runSearch(cmd.Context(), cfg, strings.Join(args, " "), config)
		},
	}

	cmd.Flags().IntP("limit", "l", defaults.Limit, "Number of results")
	cmd.Flags().Int("offset", defaults.Offset, "Pagination offset, 0-based")
	cmd.Flags().String("sort", defaults.Sort, "Sort: rel=relevance, lth=price low-to-high, htl=price high-to-low, az=name A-Z, za=name Z-A")
	cmd.Flags().Bool("json", false, "Output the normalized result as JSON")
	cmd.Flags().Bool("raw", false, "Output the untouched vendor payload")
	return cmd
}

func getSearchConfigFromFlags(cmd *cobra.Command) *SearchConfig {
	config := NewSearchConfig()
	if limit, err := cmd.Flags().GetInt("limit"); err == nil {
		config.Limit = limit
	}
	if offset, err := cmd.Flags().GetInt("offset"); err == nil {
		config.Offset = offset
	}
	if sort, err := cmd.Flags().GetString("sort"); err == nil {
		config.Sort = sort
	}
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}
	if raw, err := cmd.Flags().GetBool("raw"); err == nil {
		config.Raw = raw
	}
	return config
}

func runSearch(ctx context.Context, cfg *search.VendorConfig, term string, config *SearchConfig) error {
	sort, err := search.ParseSort(config.Sort)
	if err != nil {
		return &search.ValidationError{Err: err}
	}
	query := search.Query{
		Term:   term,
		Limit:  config.Limit,
		Offset: config.Offset,
		Sort:   sort,
	}

	client := search.NewClient(cfg,
		search.WithHTTPClient(httpClient()),
		search.WithRetries(viper.GetInt("retry_attempts")),
	)
	result, err := client.Search(ctx, query)
	if err != nil {
		return err
	}

	switch {
	case config.Raw:
		os.Stdout.Write(result.Raw)
		fmt.Println()
	case config.JSON:
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding result")
		}
		fmt.Println(string(out))
	default:
		renderResult(os.Stdout, term, result)
	}
	return nil
}

func renderResult(w io.Writer, term string, result *search.Result) {
	if len(result.Suggestions) > 0 {
		fmt.Fprintf(w, "Autocomplete: %s\n\n", strings.Join(result.Suggestions, ", "))
	}
	if len(result.Records) == 0 {
		fmt.Fprintf(w, "No results for %q.\n", term)
		return
	}
	fmt.Fprintf(w, "Results for %q (%d shown, %d total):\n\n", term, len(result.Records), result.TotalFound)
	for i, record := range result.Records {
		fmt.Fprint(w, formatRecord(record, i+1))
		fmt.Fprintln(w)
	}
}

// formatRecord renders one record as an indented block, skipping fields the
// vendor did not report.
func formatRecord(record search.ProductRecord, idx int) string {
	name := record.Name
	if name == "" {
		name = "?"
	}
	lines := []string{fmt.Sprintf("  %d. %s", idx, name)}
	if record.Brand != "" {
		lines = append(lines, "     Brand: "+record.Brand)
	}
	if record.Price != nil {
		price := formatPrice(*record.Price, record.Currency)
		if record.PreviousPrice != nil && *record.PreviousPrice != *record.Price {
			price += " (was " + formatPrice(*record.PreviousPrice, record.Currency) + ")"
		}
		lines = append(lines, "     Price: "+price)
	}
	if record.InStock != search.StockUnknown {
		lines = append(lines, "     In stock: "+string(record.InStock))
	}
	if record.Rating != nil && record.ReviewCount != nil {
		lines = append(lines, fmt.Sprintf("     Rating: %s/5 (%d reviews)",
			strconv.FormatFloat(*record.Rating, 'f', -1, 64), *record.ReviewCount))
	}
	if record.Category != "" {
		lines = append(lines, "     Category: "+record.Category)
	}
	if record.SKU != "" {
		lines = append(lines, "     SKU: "+record.SKU)
	}
	if record.URL != "" {
		lines = append(lines, "     URL: "+record.URL)
	}
	return strings.Join(lines, "\n") + "\n"
}

func formatPrice(price float64, currency string) string {
	return fmt.Sprintf("%.2f %s", price, currency)
}
