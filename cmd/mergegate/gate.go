package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mergegate/mergegate/app"
	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/config"
	"github.com/mergegate/mergegate/internal/constants"
)

// GateExitError carries a process exit code out of a command
type GateExitError struct {
	Code    int
	Message string
}

func (e *GateExitError) Error() string {
	return e.Message
}

var (
	gateMode        string
	gateFormat      string
	gateConfigPath  string
	gateTitle       string
	gateDescription string
	gateSequential  bool
	gateNoProgress  bool
	gateOverrideBy  string
	gateOverrideWhy string
)

func gateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate <changeset>",
		Short: "Run quality checks and gate the merge",
		Long: `Run all quality checks on a changeset and translate the verdict into a
process exit code for CI/CD integration.

The changeset argument is either a JSON description file (title,
description, files, old_files) or a directory of Python sources.

Exit codes:
  0 - Gate passed
  1 - Blocking findings (error mode) or failed gate
  2 - Usage or input error

Examples:
  # Block on critical/high findings
  mergegate gate changeset.json

  # Report-only mode
  mergegate gate --mode warning changeset.json

  # Machine-readable verdict
  mergegate gate --format json changeset.json

  # Human bypass with an audit trail
  mergegate gate --override-by alice --override-reason "Credential match is a documented staging fixture, rotated weekly" changeset.json`,
		Args:          cobra.ExactArgs(1),
		RunE:          runGate,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&gateMode, "mode", "m", string(domain.ModeError),
		"Gate mode: warning or error")
	cmd.Flags().StringVarP(&gateFormat, "format", "f", string(domain.OutputFormatText),
		"Output format: text, markdown, json, yaml")
	cmd.Flags().StringVarP(&gateConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&gateTitle, "title", "",
		"Change title (overrides the changeset file)")
	cmd.Flags().StringVar(&gateDescription, "description", "",
		"Change description (overrides the changeset file)")
	cmd.Flags().BoolVar(&gateSequential, "sequential", false,
		"Run validators sequentially instead of in parallel")
	cmd.Flags().BoolVar(&gateNoProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().StringVar(&gateOverrideBy, "override-by", "",
		"Approver name for a human gate override")
	cmd.Flags().StringVar(&gateOverrideWhy, "override-reason", "",
		fmt.Sprintf("Override justification (min %d characters)", domain.MinOverrideJustificationLen))

	return cmd
}

func runGate(cmd *cobra.Command, args []string) error {
	var override *domain.OverrideDecision
	if gateOverrideBy != "" || gateOverrideWhy != "" {
		override = &domain.OverrideDecision{
			ApprovedBy:    gateOverrideBy,
			Justification: gateOverrideWhy,
		}
	}

	result, err := runChecks(cmd.Context(), args[0], gateMode, gateFormat, gateConfigPath,
		gateTitle, gateDescription, gateSequential, gateNoProgress, override)
	if err != nil {
		return err
	}

	if !result.Passed {
		return &GateExitError{Code: constants.ExitViolations}
	}
	return nil
}

// runChecks is the shared pipeline of the gate and validate commands:
// load config, load the changeset, run the validators, apply any
// override, render the result
func runChecks(ctx context.Context, changesetPath, mode, format, configPath,
	title, description string, sequential, noProgress bool,
	override *domain.OverrideDecision) (*domain.QualityCheckResult, error) {

	gateMode, err := domain.ParseGateMode(mode)
	if err != nil {
		return nil, &GateExitError{Code: constants.ExitError, Message: err.Error()}
	}
	outputFormat, err := domain.ParseOutputFormat(format)
	if err != nil {
		return nil, &GateExitError{Code: constants.ExitError, Message: err.Error()}
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, &GateExitError{Code: constants.ExitError, Message: fmt.Sprintf("failed to load configuration: %v", err)}
		}
	} else {
		cfg, err = config.LoadConfig("")
		if err != nil {
			cfg = config.DefaultConfig()
		}
	}

	cs, err := app.LoadChangeset(changesetPath)
	if err != nil {
		return nil, &GateExitError{Code: constants.ExitError, Message: err.Error()}
	}
	if title != "" {
		cs.Title = title
	}
	if description != "" {
		cs.Description = description
	}

	uc := app.NewValidateUseCase(cfg)
	defer uc.Close()

	vcfg := app.ValidateConfig{
		Mode:         gateMode,
		OutputFormat: outputFormat,
		OutputWriter: os.Stdout,
		Parallel:     !sequential,
		ShowProgress: !noProgress,
	}

	result, err := uc.Execute(ctx, cs, vcfg)
	if err != nil {
		return nil, &GateExitError{Code: constants.ExitError, Message: err.Error()}
	}
	if override != nil {
		if err := override.Apply(result); err != nil {
			return nil, &GateExitError{Code: constants.ExitError, Message: err.Error()}
		}
	}
	if err := uc.Render(result, vcfg); err != nil {
		return nil, &GateExitError{Code: constants.ExitError, Message: err.Error()}
	}
	return result, nil
}
