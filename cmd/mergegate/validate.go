package main

import (
	"github.com/spf13/cobra"

	"github.com/mergegate/mergegate/domain"
)

var (
	validateFormat      string
	validateConfigPath  string
	validateTitle       string
	validateDescription string
	validateSequential  bool
	validateNoProgress  bool
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <changeset>",
		Short: "Run quality checks and report findings",
		Long: `Run all quality checks on a changeset and print the findings without
gating. The command exits 0 regardless of findings; use 'gate' to block
merges in CI.

Examples:
  # Human-readable summary
  mergegate validate changeset.json

  # Full markdown report
  mergegate validate --format markdown changeset.json

  # Validate a source tree directly
  mergegate validate src/`,
		Args:          cobra.ExactArgs(1),
		RunE:          runValidate,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&validateFormat, "format", "f", string(domain.OutputFormatText),
		"Output format: text, markdown, json, yaml")
	cmd.Flags().StringVarP(&validateConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&validateTitle, "title", "",
		"Change title (overrides the changeset file)")
	cmd.Flags().StringVar(&validateDescription, "description", "",
		"Change description (overrides the changeset file)")
	cmd.Flags().BoolVar(&validateSequential, "sequential", false,
		"Run validators sequentially instead of in parallel")
	cmd.Flags().BoolVar(&validateNoProgress, "no-progress", false,
		"Disable the progress bar")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, err := runChecks(cmd.Context(), args[0], string(domain.ModeWarning), validateFormat,
		validateConfigPath, validateTitle, validateDescription,
		validateSequential, validateNoProgress, nil)
	return err
}
