package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fridgechef",
	Short: "FridgeChef is a terminal recipe browser with read-aloud instructions",
	Long: `FridgeChef searches recipes by name, shows ingredients and instructions,
and can read the instructions aloud. Set SPOONACULAR_API_KEY to search the
Spoonacular catalog; without a key the built-in offline catalog is used.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	f := rootCmd.PersistentFlags()
	f.String("config", "", "YAML config file (default: ./fridgechef.yaml when present)")
	f.Bool("verbose", false, "enable verbose/debug logging")
	f.Bool("quiet", false, "disable all logging")
	f.String("log-file", "", `file to write logs to (use "stderr" to log to console)`)
	f.Bool("offline", false, "use the built-in recipe catalog instead of the web API")
	f.String("catalog", "", "YAML file with extra recipes for the offline catalog")
	f.Bool("no-speech", false, "disable text-to-speech even if Azure keys are set")
	f.Int("limit", 0, "number of search results to request (1-10)")
}
