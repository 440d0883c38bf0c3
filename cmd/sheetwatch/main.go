// Package main provides the CLI entry point for sheetwatch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/output"
)

var (
	configPath string
	outputPath string
	pretty     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetwatch",
		Short: "Mirror campaign spreadsheet tabs and locate product blocks",
		Long: `sheetwatch polls the tabs of a shared Google spreadsheet, caches them
and finds the product blocks of the knowledge tab.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: config.toml next to the binary)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(
		newServeCmd(),
		newScanCmd(),
		newFetchCmd(),
		newSetURLCmd(),
		newTabsCmd(),
	)
	return rootCmd
}

// writeJSON writes v to the output file, or to stdout when none is set.
func writeJSON(cmd *cobra.Command, v interface{}) error {
	jsonData, err := output.ToJSON(v, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(cmd, jsonData)
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
