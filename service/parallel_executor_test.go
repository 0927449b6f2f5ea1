package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/config"
)

type stubTask struct {
	name    string
	enabled bool
	err     error
	runs    *atomic.Int32
}

func (t stubTask) Name() string { return t.name }

func (t stubTask) IsEnabled() bool { return t.enabled }

func (t stubTask) Execute(ctx context.Context) error {
	if t.runs != nil {
		t.runs.Add(1)
	}
	return t.err
}

func TestExecuteRunsAllEnabledTasks(t *testing.T) {
	executor := NewParallelExecutor()
	var runs atomic.Int32

	tasks := []domain.ExecutableTask{
		stubTask{name: "a", enabled: true, runs: &runs},
		stubTask{name: "b", enabled: true, runs: &runs},
		stubTask{name: "c", enabled: false, runs: &runs},
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := runs.Load(); got != 2 {
		t.Errorf("expected 2 task runs, got %d", got)
	}
}

func TestExecuteCollectsAllFailures(t *testing.T) {
	executor := NewParallelExecutor()
	var runs atomic.Int32

	failA := errors.New("boom a")
	failB := errors.New("boom b")
	tasks := []domain.ExecutableTask{
		stubTask{name: "a", enabled: true, err: failA, runs: &runs},
		stubTask{name: "b", enabled: true, err: failB, runs: &runs},
		stubTask{name: "c", enabled: true, runs: &runs},
	}

	err := executor.Execute(context.Background(), tasks)
	if err == nil {
		t.Fatal("expected an aggregated error")
	}

	var agg *AggregatedError
	if !errors.As(err, &agg) {
		t.Fatalf("expected *AggregatedError, got %T", err)
	}
	if len(agg.Errors) != 2 {
		t.Errorf("expected 2 task errors, got %d: %v", len(agg.Errors), agg)
	}
	// one failing validator must not stop the others
	if got := runs.Load(); got != 3 {
		t.Errorf("expected all 3 tasks to run, got %d", got)
	}
}

func TestExecuteNoTasks(t *testing.T) {
	executor := NewParallelExecutor()
	if err := executor.Execute(context.Background(), nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAggregatedErrorFormat(t *testing.T) {
	single := &AggregatedError{Errors: []TaskError{
		{TaskName: "security", Err: errors.New("parse failed")},
	}}
	if got := single.Error(); got != "[security] parse failed" {
		t.Errorf("unexpected single-error format %q", got)
	}

	multi := &AggregatedError{Errors: []TaskError{
		{TaskName: "security", Err: errors.New("parse failed")},
		{TaskName: "performance", Err: errors.New("timeout")},
	}}
	msg := multi.Error()
	if !strings.HasPrefix(msg, "2 validators failed:") {
		t.Errorf("unexpected prefix in %q", msg)
	}
	if !strings.Contains(msg, "[performance] timeout") {
		t.Errorf("missing task error in %q", msg)
	}
}

func TestAggregatedErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	agg := &AggregatedError{Errors: []TaskError{{TaskName: "a", Err: cause}}}
	if !errors.Is(agg, cause) {
		t.Error("expected errors.Is to reach the underlying error")
	}
}

func TestNewParallelExecutorFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxGoroutines = 0
	executor := NewParallelExecutorFromConfig(cfg)
	if executor.maxConcurrency != DefaultMaxConcurrency {
		t.Errorf("expected fallback concurrency %d, got %d", DefaultMaxConcurrency, executor.maxConcurrency)
	}

	cfg.MaxGoroutines = 8
	executor = NewParallelExecutorFromConfig(cfg)
	if executor.maxConcurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", executor.maxConcurrency)
	}
}

func TestSetMaxConcurrencyIgnoresInvalid(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(2)
	executor.SetMaxConcurrency(0)
	if executor.maxConcurrency != 2 {
		t.Errorf("invalid value should be ignored, got %d", executor.maxConcurrency)
	}
}
