package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/akaihola/storesearch/pkg/vendor"
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List the configured store backends",
	Run: func(_ *cobra.Command, _ []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTORE\tENDPOINT")
		for _, cfg := range vendor.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", cfg.Name, cfg.DisplayName, cfg.BaseURL)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(vendorsCmd)
}
