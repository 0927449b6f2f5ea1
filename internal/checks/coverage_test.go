package checks

import (
	"strings"
	"testing"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/config"
	"github.com/mergegate/mergegate/internal/constants"
	"github.com/mergegate/mergegate/internal/extractor"
	"github.com/mergegate/mergegate/internal/testutil"
)

func newCoverageValidator(t *testing.T) (*TestCoverageValidator, *extractor.Extractor) {
	t.Helper()
	ext := testutil.NewExtractor(t)
	return NewTestCoverageValidator(config.DefaultConfig().Coverage, ext), ext
}

func TestNewFunctionsHaveTests(t *testing.T) {
	t.Run("covered function passes", func(t *testing.T) {
		v, _ := newCoverageValidator(t)
		cs := &domain.Changeset{
			Files: map[string]string{
				"services/user.py":   "def create_user(name):\n    pass\n",
				"tests/test_user.py": "def test_create_user():\n    assert create_user('a')\n",
			},
		}

		if findings := v.ValidateChangeset(cs); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})

	t.Run("missing test file yields one file-level finding", func(t *testing.T) {
		v, _ := newCoverageValidator(t)
		cs := &domain.Changeset{
			Files: map[string]string{
				"services/user.py": "def create_user(name):\n    pass\n\ndef delete_user(name):\n    pass\n",
			},
		}

		findings := v.ValidateChangeset(cs)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
		}
		f := findings[0]
		if f.CheckName != constants.CheckNewFunctionsHaveTests {
			t.Errorf("unexpected check name %s", f.CheckName)
		}
		if f.FunctionName != "(all functions)" {
			t.Errorf("expected file-level finding, got %q", f.FunctionName)
		}
		if !strings.Contains(f.SuggestedFix, "tests/services/test_user.py") {
			t.Errorf("fix should suggest a test path: %q", f.SuggestedFix)
		}
	})

	t.Run("uncovered function yields per-function finding", func(t *testing.T) {
		v, _ := newCoverageValidator(t)
		cs := &domain.Changeset{
			Files: map[string]string{
				"services/user.py":   "def create_user(name):\n    pass\n\ndef delete_user(name):\n    pass\n",
				"tests/test_user.py": "def test_create_user():\n    assert True\n",
			},
		}

		findings := v.ValidateChangeset(cs)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
		}
		if findings[0].FunctionName != "delete_user" {
			t.Errorf("expected delete_user, got %s", findings[0].FunctionName)
		}
		if findings[0].Severity != domain.SeverityMedium {
			t.Errorf("expected medium severity, got %s", findings[0].Severity)
		}
	})

	t.Run("skip patterns exclude bootstrap and migrations", func(t *testing.T) {
		v, _ := newCoverageValidator(t)
		cs := &domain.Changeset{
			Files: map[string]string{
				"services/__init__.py":       "def setup(app):\n    pass\n",
				"migrations/0001_initial.py": "def upgrade():\n    pass\n",
				"config/settings.py":         "def load():\n    pass\n",
			},
		}

		if findings := v.ValidateChangeset(cs); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})

	t.Run("private functions need no tests", func(t *testing.T) {
		v, _ := newCoverageValidator(t)
		cs := &domain.Changeset{
			Files: map[string]string{
				"services/user.py": "def _normalize(name):\n    pass\n",
			},
		}

		if findings := v.ValidateChangeset(cs); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})
}

func TestBugFixRegressionTestCheck(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		desc     string
		files    map[string]string
		expected int
	}{
		{
			name:     "bug fix without tests",
			title:    "Fix crash on empty login",
			files:    map[string]string{"services/auth.py": ""},
			expected: 1,
		},
		{
			name:     "bug fix with tests",
			title:    "Fix crash on empty login",
			files:    map[string]string{"services/auth.py": "", "tests/test_auth.py": "def test_empty_login():\n    assert True\n"},
			expected: 0,
		},
		{
			name:     "regression keyword in description",
			desc:     "addresses a regression from v2.1",
			files:    map[string]string{"services/auth.py": ""},
			expected: 1,
		},
		{
			name:     "feature changeset ignored",
			title:    "Add profile export",
			files:    map[string]string{"services/profile.py": ""},
			expected: 0,
		},
	}

	check := BugFixRegressionTestCheck{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := &domain.Changeset{Title: tt.title, Description: tt.desc, Files: tt.files}
			findings := check.Check(cs)
			if len(findings) != tt.expected {
				t.Fatalf("expected %d findings, got %d: %+v", tt.expected, len(findings), findings)
			}
			if tt.expected > 0 && findings[0].Severity != domain.SeverityHigh {
				t.Errorf("expected high severity, got %s", findings[0].Severity)
			}
		})
	}
}

func TestTestQualityCheck(t *testing.T) {
	t.Run("no assertions", func(t *testing.T) {
		testFiles := map[string]string{
			"tests/test_user.py": "def test_create_user():\n    create_user('a')\n",
		}

		findings := TestQualityCheck{}.Check(testFiles)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		if findings[0].Severity != domain.SeverityHigh {
			t.Errorf("expected high severity, got %s", findings[0].Severity)
		}
	})

	t.Run("unittest assertions count", func(t *testing.T) {
		testFiles := map[string]string{
			"tests/test_user.py": "def test_create_user(self):\n    self.assertEqual(1, 1)\n",
		}

		if findings := (TestQualityCheck{}).Check(testFiles); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})

	t.Run("many tests without fixtures", func(t *testing.T) {
		var b strings.Builder
		for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
			b.WriteString("def test_" + name + "():\n    assert True\n\n")
		}

		findings := TestQualityCheck{}.Check(map[string]string{"tests/test_many.py": b.String()})
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
		}
		if findings[0].Severity != domain.SeverityLow {
			t.Errorf("expected low severity, got %s", findings[0].Severity)
		}
		if !strings.Contains(findings[0].Message, "6 tests") {
			t.Errorf("message should count the tests: %q", findings[0].Message)
		}
	})

	t.Run("fixtures suppress the advisory", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("@pytest.fixture\ndef client():\n    return make_client()\n\n")
		for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
			b.WriteString("def test_" + name + "():\n    assert True\n\n")
		}

		if findings := (TestQualityCheck{}).Check(map[string]string{"tests/test_many.py": b.String()}); len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})
}
