package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	adminURL    string
	contextName string
	jsonOutput  bool
	verbose     bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "caddyadm",
	Short: "caddyadm drives a running Caddy server through its admin API",
	Long: `caddyadm manages a running Caddy server over its admin API: load and adapt
configuration, read and write individual config paths, inspect the managed
PKI and reverse proxy upstreams, and stop the server.

The admin endpoint is resolved from the --admin-url flag, the
CADDYADM_ADMIN_URL environment variable, the active context, or a
configuration file. By default caddyadm talks to http://localhost:2019.`,
	// No Run function here means 'caddyadm' with no args will print help text by default.
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Define persistent flags that apply globally to all caddyadm commands
	rootCmd.PersistentFlags().StringVar(&adminURL, "admin-url", "", "Admin API base URL (default: http://localhost:2019)")
	rootCmd.PersistentFlags().StringVar(&contextName, "context", "", "Named context to use for this invocation")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
}
