// Package testutil provides helper functions for testing mergegate components
package testutil

import (
	"testing"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/extractor"
)

// NewExtractor creates a code fact extractor that is closed when the test ends
func NewExtractor(t *testing.T) *extractor.Extractor {
	t.Helper()
	ext := extractor.NewExtractor()
	t.Cleanup(ext.Close)
	return ext
}

// ExtractFacts parses source and fails the test if no facts come back
func ExtractFacts(t *testing.T, ext *extractor.Extractor, path, source string) *extractor.FileFacts {
	t.Helper()
	facts := ext.Extract(path, []byte(source))
	if facts == nil {
		t.Fatalf("no facts extracted for %s", path)
	}
	return facts
}

// Changeset builds a changeset from a file map
func Changeset(title string, files map[string]string) *domain.Changeset {
	return &domain.Changeset{Title: title, Files: files}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}
