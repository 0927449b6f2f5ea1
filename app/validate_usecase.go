// Package app wires the validators into use cases invoked by the CLI.
package app

import (
	"context"
	"io"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/checks"
	"github.com/mergegate/mergegate/internal/config"
	"github.com/mergegate/mergegate/internal/extractor"
	"github.com/mergegate/mergegate/service"
)

// ValidateConfig holds the per-run options of the validate use case
type ValidateConfig struct {
	Mode         domain.GateMode
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer

	// Parallel runs the five validators concurrently
	Parallel bool

	// ShowProgress enables the progress bar on interactive terminals
	ShowProgress bool
}

// DefaultValidateConfig returns default run options
func DefaultValidateConfig() ValidateConfig {
	return ValidateConfig{
		Mode:         domain.ModeWarning,
		OutputFormat: domain.OutputFormatText,
		Parallel:     true,
	}
}

// ValidateUseCase runs the five validators over a changeset and
// aggregates their findings into one gate decision
type ValidateUseCase struct {
	cfg       *config.Config
	extractor *extractor.Extractor

	security     *checks.SecurityValidator
	architecture *checks.ArchitectureValidator
	coverage     *checks.TestCoverageValidator
	performance  *checks.PerformanceValidator
	breaking     *checks.BreakingChangeValidator

	formatter *service.OutputFormatterImpl
}

// NewValidateUseCase creates a use case bound to gate configuration
func NewValidateUseCase(cfg *config.Config) *ValidateUseCase {
	ext := extractor.NewExtractor()
	return &ValidateUseCase{
		cfg:          cfg,
		extractor:    ext,
		security:     checks.NewSecurityValidator(),
		architecture: checks.NewArchitectureValidator(cfg.Architecture, ext),
		coverage:     checks.NewTestCoverageValidator(cfg.Coverage, ext),
		performance:  checks.NewPerformanceValidator(),
		breaking:     checks.NewBreakingChangeValidator(ext),
		formatter:    service.NewOutputFormatter(),
	}
}

// Close releases the parser resources
func (uc *ValidateUseCase) Close() {
	uc.extractor.Close()
}

// validatorTask adapts one validator run to the executor contract
type validatorTask struct {
	name string
	run  func(ctx context.Context) error
}

func (t *validatorTask) Name() string                      { return t.name }
func (t *validatorTask) IsEnabled() bool                   { return true }
func (t *validatorTask) Execute(ctx context.Context) error { t.run(ctx); return nil }

// Execute runs all validators and aggregates the result. A fault inside
// one validator never aborts the others; the surviving findings still
// produce a gate decision.
func (uc *ValidateUseCase) Execute(ctx context.Context, cs *domain.Changeset, vcfg ValidateConfig) (*domain.QualityCheckResult, error) {
	result := &domain.QualityCheckResult{Mode: vcfg.Mode}

	tasks := []domain.ExecutableTask{
		&validatorTask{name: "security", run: func(context.Context) error {
			result.Security = uc.security.ValidateChangeset(cs)
			return nil
		}},
		&validatorTask{name: "architecture", run: func(context.Context) error {
			result.Architecture = uc.architecture.ValidateChangeset(cs)
			return nil
		}},
		&validatorTask{name: "test-coverage", run: func(context.Context) error {
			result.TestCoverage = uc.coverage.ValidateChangeset(cs)
			return nil
		}},
		&validatorTask{name: "performance", run: func(context.Context) error {
			result.Performance = uc.performance.ValidateChangeset(cs)
			return nil
		}},
		&validatorTask{name: "breaking-changes", run: func(context.Context) error {
			result.BreakingChanges = uc.breaking.ValidateChangeset(cs)
			return nil
		}},
	}

	if vcfg.Parallel && uc.cfg.Parallel {
		pm := service.NewProgressManager(vcfg.ShowProgress)
		defer pm.Close()
		executor := service.NewParallelExecutorWithProgress(uc.cfg, pm)
		if err := executor.Execute(ctx, tasks); err != nil {
			return nil, err
		}
	} else {
		for _, task := range tasks {
			if err := task.Execute(ctx); err != nil {
				return nil, err
			}
		}
	}

	uc.aggregate(result)
	return result, nil
}

// aggregate fills the histogram and gate decision from the finding lists
func (uc *ValidateUseCase) aggregate(result *domain.QualityCheckResult) {
	var counts domain.SeverityCounts
	for _, f := range result.Security {
		counts.Add(f.Severity)
	}
	for _, f := range result.Architecture {
		counts.Add(f.Severity)
	}
	for _, f := range result.TestCoverage {
		counts.Add(f.Severity)
	}
	for _, f := range result.Performance {
		counts.Add(f.Severity)
	}
	for _, f := range result.BreakingChanges {
		counts.Add(f.Severity)
	}

	result.SeverityCounts = counts
	result.TotalIssues = result.FindingCount()
	result.Passed = result.Mode != domain.ModeError || !result.Blocking()
}

// Render writes the result in the configured output format
func (uc *ValidateUseCase) Render(result *domain.QualityCheckResult, vcfg ValidateConfig) error {
	return uc.formatter.Write(result, vcfg.OutputFormat, vcfg.OutputWriter)
}
