package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultSuitePath is the package holding the UI suite
	DefaultSuitePath = "e2e"
	// DefaultReportsDir is where logs, screenshots and reports are written
	DefaultReportsDir = "test_reports"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultReportFile is the combined HTML report file name
	DefaultReportFile = "report.html"
	// DefaultProcessors is the default number of parallel browser workers
	DefaultProcessors = 2
	// DefaultBaseURL is the shop under test
	DefaultBaseURL = "https://www.saucedemo.com"
	// DefaultRemoteURL is the playwright server used with --docker
	DefaultRemoteURL = "ws://localhost:3000/"
	// DefaultGoBinary runs the suite
	DefaultGoBinary = "go"
	// SuiteBuildTag guards the suite files from plain go test ./...
	SuiteBuildTag = "e2e"
	// DefaultRunLogLevel is the lowest record level written to run logs
	DefaultRunLogLevel = "INFO"
	// DefaultLogLevel is the level of diagnostic output
	DefaultLogLevel = "info"
	// DefaultLogFormat is the format of diagnostic output
	DefaultLogFormat = "console"
	// ConfigFileName is the optional config file looked up in the project path
	ConfigFileName = "shoptest"
	// EnvPrefix prefixes environment overrides, e.g. SHOPTEST_BASE_URL
	EnvPrefix = "SHOPTEST"
)

// DefaultBrowsers are the browsers a run drives when none are given
var DefaultBrowsers = []string{"chrome"}

// DefaultIgnorePatterns are suite test files left out of discovery, by base
// name glob
var DefaultIgnorePatterns = []string{
	"*_wip_test.go",
}
