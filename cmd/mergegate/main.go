package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mergegate/mergegate/internal/version"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mergegate",
		Short: "mergegate - pre-merge quality gate for Python changesets",
		Long: `mergegate evaluates a proposed changeset against security, architecture,
performance, breaking-change, and test-coverage rules and produces an
aggregated pass/fail verdict with a detailed report.`,
		Version: Version,
	}

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(gateCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*GateExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			// Output was already printed; exit with the gate code
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("mergegate version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
