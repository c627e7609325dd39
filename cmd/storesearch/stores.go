package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/akaihola/storesearch/pkg/vendor"
)

type StoresConfig struct {
	PostalCode string
	JSON       bool
	Raw        bool
}

func NewStoresConfig() *StoresConfig {
	return &StoresConfig{}
}

var storesCmd = &cobra.Command{
	Use:   "stores <product-id>",
	Short: "Look up per-store stock for a Power.fi product",
	Long: `Look up per-store stock for a Power.fi product by its numeric product ID.
With a postal code, stores are sorted by distance.

Examples:
  storesearch stores 3060434
  storesearch stores 3060434 --postal-code 00100
  storesearch stores 3060434 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := getStoresConfigFromFlags(cmd)
		return runStores(cmd, args[0], config)
	},
}

func init() {
	defaults := NewStoresConfig()
	storesCmd.Flags().String("postal-code", defaults.PostalCode, "Sort stores by distance from this postal code")
	storesCmd.Flags().Bool("json", false, "Output parsed store entries as JSON")
	storesCmd.Flags().Bool("raw", false, "Output the untouched vendor payload")
	rootCmd.AddCommand(storesCmd)
}

func getStoresConfigFromFlags(cmd *cobra.Command) *StoresConfig {
	config := NewStoresConfig()
	if postal, err := cmd.Flags().GetString("postal-code"); err == nil {
		config.PostalCode = postal
	}
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}
	if raw, err := cmd.Flags().GetBool("raw"); err == nil {
		config.Raw = raw
	}
	return config
}

func runStores(cmd *cobra.Command, productID string, config *StoresConfig) error {
	stores, raw, err := vendor.StoreStock(cmd.Context(), httpClient(), productID, config.PostalCode)
	if err != nil {
		return err
	}

	switch {
	case config.Raw:
		os.Stdout.Write(raw)
		fmt.Println()
	case config.JSON:
		out, err := json.MarshalIndent(stores, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding stores")
		}
		fmt.Println(string(out))
	default:
		renderStores(os.Stdout, productID, stores)
	}
	return nil
}

func renderStores(w io.Writer, productID string, stores []vendor.Store) {
	if len(stores) == 0 {
		fmt.Fprintf(w, "No store stock information for product %s.\n", productID)
		return
	}
	fmt.Fprintf(w, "Store stock for product %s (%d stores):\n\n", productID, len(stores))
	for i, store := range stores {
		fmt.Fprint(w, formatStore(store, i+1))
		fmt.Fprintln(w)
	}
}

func formatStore(store vendor.Store, idx int) string {
	name := store.Name
	if name == "" {
		name = "?"
	}
	lines := []string{fmt.Sprintf("  %d. %s", idx, name)}
	if store.Address != "" || store.City != "" {
		lines = append(lines, fmt.Sprintf("     Address: %s, %s", store.Address, store.City))
	}
	lines = append(lines, fmt.Sprintf("     Stock: %d pcs (%s)", store.StockCount, store.Availability))
	if store.ClickAndCollect {
		lines = append(lines, "     Click & Collect: Yes")
	}
	if store.Distance != nil {
		lines = append(lines, "     Distance: "+strconv.FormatFloat(*store.Distance, 'f', -1, 64)+" km")
	}
	if store.OpenToday != "" {
		lines = append(lines, "     Today: "+store.OpenToday)
	}
	return strings.Join(lines, "\n") + "\n"
}
