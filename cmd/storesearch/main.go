package main

import (
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/akaihola/storesearch/pkg/logger"
	"github.com/akaihola/storesearch/pkg/presenter"
	"github.com/akaihola/storesearch/pkg/search"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("STORESEARCH")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.storesearch")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	viper.SetDefault("http_timeout", search.DefaultTimeout)
	viper.SetDefault("http_proxy", "")
	viper.SetDefault("retry_attempts", 0)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "text")
}

var rootCmd = &cobra.Command{
	Use:   "storesearch",
	Short: "Search Finnish retail store catalogs from the command line",
	Long: `Storesearch queries the public search APIs of Tokmanni, Clas Ohlson and
Power.fi and prints the results in one uniform shape, regardless of which
backend produced them.

Each store is a subcommand:

  storesearch tokmanni "taskulamppu" --limit 5
  storesearch clasohlson "ruuvimeisseli" --json
  storesearch power "kahvinkeitin" --sort lth
  storesearch stores 3060434 --postal-code 00100`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().Duration("timeout", search.DefaultTimeout, "HTTP request timeout")
	rootCmd.PersistentFlags().Int("retries", 0, "Additional attempts on transport failures")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("http_timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("retry_attempts", rootCmd.PersistentFlags().Lookup("retries"))

	if err := rootCmd.Execute(); err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}

// httpClient builds the request client from configuration: bounded timeout
// plus an optional proxy override (STORESEARCH_HTTP_PROXY).
func httpClient() *http.Client {
	timeout := viper.GetDuration("http_timeout")
	if timeout <= 0 {
		timeout = search.DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	if proxy := viper.GetString("http_proxy"); proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			presenter.Warning("ignoring unparseable http_proxy: " + proxy)
		} else {
			client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}
	return client
}
