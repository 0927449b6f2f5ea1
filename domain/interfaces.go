package domain

import "context"

// ExecutableTask represents a unit of validation work that can run
// concurrently with other tasks
type ExecutableTask interface {
	// Name returns the task name for error reporting
	Name() string

	// IsEnabled reports whether the task should run
	IsEnabled() bool

	// Execute runs the task
	Execute(ctx context.Context) error
}

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	// StartTask creates a new progress task with a description and total count
	StartTask(description string, total int) TaskProgress

	// IsInteractive reports whether progress output is visible
	IsInteractive() bool

	// Close cleans up all tasks
	Close()
}

// TaskProgress tracks completion of a single task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}
