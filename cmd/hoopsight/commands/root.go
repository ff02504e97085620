package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hoopsight",
	Short: "Hoopsight - basketball feature specification toolkit",
	Long: `Hoopsight Unified CLI

Feature specification language tooling for basketball game prediction:
validate feature names, enumerate the feature universe, inspect the
stat catalog, and run the API server.

Usage:
  go run ./cmd/hoopsight [command]

Examples:
  go run ./cmd/hoopsight api
  go run ./cmd/hoopsight features validate "points|season|avg|diff"
  go run ./cmd/hoopsight features enumerate scoring
  go run ./cmd/hoopsight catalog list`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
