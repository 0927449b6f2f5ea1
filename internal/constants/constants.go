package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "mergegate"

	// ConfigFileName is the default config file name
	ConfigFileName = "mergegate.config.json"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "MERGEGATE"
)

// Check category constants
const (
	CategorySecurity        = "security"
	CategoryArchitecture    = "architecture"
	CategoryTestCoverage    = "test_coverage"
	CategoryPerformance     = "performance"
	CategoryBreakingChanges = "breaking_changes"
)

// Security check identifiers
const (
	CheckHardcodedCredentials  = "hardcoded_credentials"
	CheckSQLInjection          = "sql_injection"
	CheckSensitiveDataLogging  = "sensitive_data_logging"
	CheckUnsafeDeserialization = "unsafe_deserialization"
)

// Architecture check identifiers
const (
	CheckLayerSeparation     = "layer_separation"
	CheckDependencyInjection = "dependency_injection"
	CheckAsyncPatterns       = "async_patterns"
	CheckCircularDependency  = "circular_dependency"
)

// Performance check identifiers
const (
	CheckNPlusOneQueries = "n_plus_one_queries"
	CheckMissingIndexes  = "missing_database_indexes"
	CheckComplexity      = "algorithm_complexity"
	CheckMemoryLeak      = "memory_leak"
)

// Breaking change check identifiers
const (
	CheckAPISignatureChanges = "api_signature_changes"
	CheckRemovedPublicAPI    = "removed_public_methods"
	CheckSchemaChanges       = "database_schema_changes"
	CheckChangelogRequired   = "changelog_required"
	CheckChangelogFormat     = "changelog_format"
)

// Test coverage check identifiers
const (
	CheckNewFunctionsHaveTests = "new_functions_have_tests"
	CheckBugFixRegressionTests = "bug_fix_regression_tests"
	CheckTestQuality           = "test_quality"
)

// Exit codes for the gate command
const (
	ExitOK         = 0
	ExitViolations = 1
	ExitError      = 2
)

// Heuristic window sizes shared by several checks
const (
	// QueryLookAheadLines is how far past a loop header the N+1 query
	// check scans for query calls.
	QueryLookAheadLines = 20

	// FallbackFunctionSpan is the estimated function length when the
	// structural parse failed and only the def line is known.
	FallbackFunctionSpan = 20

	// IndexContextLines is the window around a foreign key declaration
	// inspected for an index flag.
	IndexContextLines = 2

	// FixtureRecommendationThreshold is the test count above which a test
	// file without shared setup gets an advisory finding.
	FixtureRecommendationThreshold = 5
)
