package checks

import (
	"strings"
	"testing"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/constants"
	"github.com/mergegate/mergegate/internal/extractor"
)

func TestAPISignatureChangeCheck(t *testing.T) {
	ext := extractor.NewExtractor()
	defer ext.Close()
	check := APISignatureChangeCheck{extractor: ext}

	t.Run("required parameter added", func(t *testing.T) {
		oldContent := "def get_user(user_id):\n    pass\n"
		newContent := "def get_user(user_id, tenant):\n    pass\n"

		findings := check.Check("api/users.py", oldContent, newContent)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
		}
		f := findings[0]
		if f.Severity != domain.SeverityHigh {
			t.Errorf("expected high severity, got %s", f.Severity)
		}
		if f.ChangeType != "signature_changed" {
			t.Errorf("expected signature_changed, got %s", f.ChangeType)
		}
		if f.LineNumber != 1 {
			t.Errorf("expected line 1, got %d", f.LineNumber)
		}
		if !f.RequiresChangelog {
			t.Error("signature change should require a changelog")
		}
	})

	t.Run("optional parameter added is not breaking", func(t *testing.T) {
		oldContent := "def get_user(user_id):\n    pass\n"
		newContent := "def get_user(user_id, verbose=False):\n    pass\n"

		if findings := check.Check("api/users.py", oldContent, newContent); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})

	t.Run("endpoint removed", func(t *testing.T) {
		oldContent := "def get_user(user_id):\n    pass\n\ndef delete_user(user_id):\n    pass\n"
		newContent := "def get_user(user_id):\n    pass\n"

		findings := check.Check("api/users.py", oldContent, newContent)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		if findings[0].Severity != domain.SeverityCritical {
			t.Errorf("expected critical severity, got %s", findings[0].Severity)
		}
		if findings[0].ElementName != "delete_user" {
			t.Errorf("expected delete_user, got %s", findings[0].ElementName)
		}
	})

	t.Run("private function ignored", func(t *testing.T) {
		oldContent := "def _helper(a, b):\n    pass\n"
		newContent := "def _helper(a):\n    pass\n"

		if findings := check.Check("api/users.py", oldContent, newContent); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})

	t.Run("non-api file ignored", func(t *testing.T) {
		oldContent := "def get_user(user_id):\n    pass\n"
		newContent := "def get_user(user_id, tenant):\n    pass\n"

		if findings := check.Check("services/users.py", oldContent, newContent); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})
}

func TestRemovedPublicMethodsCheck(t *testing.T) {
	ext := extractor.NewExtractor()
	defer ext.Close()
	check := RemovedPublicMethodsCheck{extractor: ext}

	t.Run("removed function and class", func(t *testing.T) {
		oldContent := strings.Join([]string{
			`class Userstore:`,
			`    pass`,
			``,
			`def load_user(user_id):`,
			`    pass`,
			``,
			`def _internal():`,
			`    pass`,
		}, "\n")
		newContent := "def unrelated():\n    pass\n"

		findings := check.Check("services/store.py", oldContent, newContent)
		if len(findings) != 2 {
			t.Fatalf("expected 2 findings, got %d: %+v", len(findings), findings)
		}
		for _, f := range findings {
			if f.Severity != domain.SeverityCritical {
				t.Errorf("expected critical severity, got %s", f.Severity)
			}
			if f.CheckName != constants.CheckRemovedPublicAPI {
				t.Errorf("unexpected check name %s", f.CheckName)
			}
		}
	})

	t.Run("deleted file reports one file-level finding", func(t *testing.T) {
		oldContent := strings.Join([]string{
			`class CacheStore:`,
			`    pass`,
			``,
			`def save(x):`,
			`    pass`,
			``,
			`def load(x):`,
			`    pass`,
		}, "\n")

		findings := check.CheckDeleted("services/cache.py", oldContent)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
		}
		f := findings[0]
		if f.ChangeType != "deleted_file" {
			t.Errorf("expected deleted_file, got %s", f.ChangeType)
		}
		if f.Severity != domain.SeverityCritical {
			t.Errorf("expected critical severity, got %s", f.Severity)
		}
		if !strings.Contains(f.Message, "1 public classes") || !strings.Contains(f.Message, "2 public functions") {
			t.Errorf("message should summarize the public surface: %q", f.Message)
		}
	})

	t.Run("deleted file without public surface is silent", func(t *testing.T) {
		oldContent := "def _cleanup():\n    pass\n"

		if findings := check.CheckDeleted("services/cache.py", oldContent); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})
}

func TestDatabaseSchemaChangeCheck(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		expected   int
		severity   domain.Severity
		changeType string
	}{
		{
			name:       "drop table",
			content:    `    op.drop_table("legacy_sessions")`,
			expected:   1,
			severity:   domain.SeverityCritical,
			changeType: "drop_table",
		},
		{
			name:       "drop column",
			content:    `    op.drop_column("users", "age")`,
			expected:   1,
			severity:   domain.SeverityCritical,
			changeType: "drop_column",
		},
		{
			name:       "type change",
			content:    `    op.alter_column("users", "id", type_=sa.BigInteger())`,
			expected:   1,
			severity:   domain.SeverityHigh,
			changeType: "type_change",
		},
		{
			name:       "non-nullable without default",
			content:    `    op.add_column("users", sa.Column("tenant_id", sa.Integer(), nullable=False))`,
			expected:   1,
			severity:   domain.SeverityHigh,
			changeType: "add_non_nullable",
		},
		{
			name:     "non-nullable with server default is fine",
			content:  `    op.add_column("users", sa.Column("tenant_id", sa.Integer(), nullable=False, server_default="0"))`,
			expected: 0,
		},
		{
			name:     "nullable column is fine",
			content:  `    op.add_column("users", sa.Column("nickname", sa.String(), nullable=True))`,
			expected: 0,
		},
	}

	check := DatabaseSchemaChangeCheck{}

	t.Run("non-schema path ignored", func(t *testing.T) {
		if findings := check.Check("services/cleanup.py", `op.drop_table("sessions")`); len(findings) != 0 {
			t.Errorf("expected no findings outside migrations/models, got %+v", findings)
		}
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := check.Check("migrations/0042_cleanup.py", tt.content)
			if len(findings) != tt.expected {
				t.Fatalf("expected %d findings, got %d: %+v", tt.expected, len(findings), findings)
			}
			if tt.expected == 0 {
				return
			}
			if findings[0].Severity != tt.severity {
				t.Errorf("expected %s severity, got %s", tt.severity, findings[0].Severity)
			}
			if findings[0].ChangeType != tt.changeType {
				t.Errorf("expected change type %s, got %s", tt.changeType, findings[0].ChangeType)
			}
		})
	}
}

func TestChangelogRequirementCheck(t *testing.T) {
	breaking := []domain.BreakingChangeFinding{{
		CheckName:               constants.CheckRemovedPublicAPI,
		Severity:                domain.SeverityCritical,
		RequiresChangelog:       true,
		SuggestedChangelogEntry: "### Removed\n- `load_user`",
	}}

	t.Run("missing changelog", func(t *testing.T) {
		cs := &domain.Changeset{Files: map[string]string{"services/store.py": ""}}

		findings := ChangelogRequirementCheck{}.Check(cs, breaking)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		if findings[0].CheckName != constants.CheckChangelogRequired {
			t.Errorf("unexpected check name %s", findings[0].CheckName)
		}
		if findings[0].Severity != domain.SeverityCritical {
			t.Errorf("expected critical severity, got %s", findings[0].Severity)
		}
		if !strings.Contains(findings[0].SuggestedChangelogEntry, "## [Unreleased]") {
			t.Errorf("template missing heading: %q", findings[0].SuggestedChangelogEntry)
		}
	})

	t.Run("well formed changelog satisfies", func(t *testing.T) {
		cs := &domain.Changeset{Files: map[string]string{
			"CHANGELOG.md": "## [Unreleased]\n\n### Removed\n- `load_user`\n",
		}}

		if findings := (ChangelogRequirementCheck{}).Check(cs, breaking); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})

	t.Run("changelog without version heading", func(t *testing.T) {
		cs := &domain.Changeset{Files: map[string]string{
			"CHANGELOG.md": "fixed some stuff\n",
		}}

		findings := ChangelogRequirementCheck{}.Check(cs, breaking)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		if findings[0].CheckName != constants.CheckChangelogFormat {
			t.Errorf("unexpected check name %s", findings[0].CheckName)
		}
	})

	t.Run("no breaking changes needs no changelog", func(t *testing.T) {
		cs := &domain.Changeset{Files: map[string]string{"services/store.py": ""}}

		if findings := (ChangelogRequirementCheck{}).Check(cs, nil); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})
}

func TestGenerateChangelogTemplate(t *testing.T) {
	findings := []domain.BreakingChangeFinding{
		{SuggestedChangelogEntry: "### Removed\n- `a`"},
		{SuggestedChangelogEntry: "### Removed\n- `a`"},
		{SuggestedChangelogEntry: "### Changed\n- `b` signature changed"},
	}

	got := GenerateChangelogTemplate(findings)
	if !strings.HasPrefix(got, "## [Unreleased]\n") {
		t.Errorf("template should start with the Unreleased heading: %q", got)
	}
	if strings.Count(got, "### Removed") != 1 {
		t.Errorf("duplicate entries should collapse: %q", got)
	}
	if !strings.Contains(got, "### Changed") {
		t.Errorf("template missing changed section: %q", got)
	}
}

func TestBreakingChangeValidatorChangeset(t *testing.T) {
	ext := extractor.NewExtractor()
	defer ext.Close()
	validator := NewBreakingChangeValidator(ext)

	cs := &domain.Changeset{
		Files: map[string]string{
			"api/users.py": "def get_user(user_id, tenant):\n    pass\n",
		},
		OldFiles: map[string]string{
			"api/users.py":      "def get_user(user_id):\n    pass\n",
			"services/cache.py": "def evict(key):\n    pass\n",
		},
	}

	findings := validator.ValidateChangeset(cs)

	var sigChanges, removals, changelog int
	for _, f := range findings {
		switch f.CheckName {
		case constants.CheckAPISignatureChanges:
			sigChanges++
		case constants.CheckRemovedPublicAPI:
			removals++
		case constants.CheckChangelogRequired:
			changelog++
		}
	}
	if sigChanges != 1 {
		t.Errorf("expected 1 signature change, got %d", sigChanges)
	}
	if removals != 1 {
		t.Errorf("expected 1 removal from the deleted file, got %d", removals)
	}
	if changelog != 1 {
		t.Errorf("expected a changelog-required finding, got %d", changelog)
	}
}

func TestBreakingChangeValidatorRemovedClassInAPIFile(t *testing.T) {
	ext := extractor.NewExtractor()
	defer ext.Close()
	validator := NewBreakingChangeValidator(ext)

	cs := &domain.Changeset{
		Files: map[string]string{
			"api/handlers.py": "def ping():\n    pass\n",
		},
		OldFiles: map[string]string{
			"api/handlers.py": "class UserHandler:\n    pass\n\ndef ping():\n    pass\n",
		},
	}

	removals := 0
	for _, f := range validator.ValidateChangeset(cs) {
		if f.CheckName == constants.CheckRemovedPublicAPI && f.ElementName == "UserHandler" {
			removals++
		}
	}
	if removals != 1 {
		t.Errorf("expected the removed class to be reported, got %d findings", removals)
	}
}
