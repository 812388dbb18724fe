package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"shoptest/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `mapstructure:"project_path"`
	SuitePath   string `mapstructure:"suite_path"`

	// Output settings
	ReportsDir     string `mapstructure:"reports_dir"`
	OutputJSONFile string `mapstructure:"output_json_file"`
	ReportFile     string `mapstructure:"report_file"`

	// Execution settings
	Browsers   []string `mapstructure:"browsers"`
	Processors int      `mapstructure:"processors"`
	BaseURL    string   `mapstructure:"base_url"`
	RemoteURL  string   `mapstructure:"remote_url"`
	GoBinary   string   `mapstructure:"go_binary"`

	// Logging
	RunLogLevel string `mapstructure:"run_log_level"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`

	// Suite files left out of discovery
	IgnorePatterns []string `mapstructure:"ignore_patterns"`

	// Command flags
	Flags Flags `mapstructure:"-"`
}

// Flags holds command-line flags
type Flags struct {
	Processors        int
	Browsers          []string
	Docker            bool
	IntentionallyFail bool
	Headed            bool
	TestPath          string
	NameFilter        string
	TestCases         bool
	ShowPlan          bool
	FailFast          bool
	OpenFaills        bool
	Output            string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		SuitePath:      DefaultSuitePath,
		ReportsDir:     DefaultReportsDir,
		OutputJSONFile: DefaultOutputJSONFile,
		ReportFile:     DefaultReportFile,
		Processors:     DefaultProcessors,
		BaseURL:        DefaultBaseURL,
		RemoteURL:      DefaultRemoteURL,
		GoBinary:       DefaultGoBinary,
		RunLogLevel:    DefaultRunLogLevel,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		Flags:          Flags{Processors: DefaultProcessors},
	}
	cfg.Browsers = append([]string(nil), DefaultBrowsers...)
	cfg.IgnorePatterns = append([]string(nil), DefaultIgnorePatterns...)
	return cfg
}

// Load reads <projectPath>/.env into the environment, then layers the
// optional shoptest.yaml and SHOPTEST_* variables over the defaults.
func Load(projectPath string) (*Config, error) {
	if projectPath == "" {
		projectPath = DefaultProjectPath
	}
	// .env is optional
	_ = godotenv.Load(filepath.Join(projectPath, ".env"))

	defaults := New()
	v := viper.New()
	v.SetDefault("project_path", projectPath)
	v.SetDefault("suite_path", defaults.SuitePath)
	v.SetDefault("reports_dir", defaults.ReportsDir)
	v.SetDefault("output_json_file", defaults.OutputJSONFile)
	v.SetDefault("report_file", defaults.ReportFile)
	v.SetDefault("browsers", defaults.Browsers)
	v.SetDefault("processors", defaults.Processors)
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("remote_url", defaults.RemoteURL)
	v.SetDefault("go_binary", defaults.GoBinary)
	v.SetDefault("run_log_level", defaults.RunLogLevel)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("ignore_patterns", defaults.IgnorePatterns)

	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(projectPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Flags = Flags{Processors: cfg.Processors}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late, mid-run.
func (c *Config) Validate() error {
	if c.Processors < 1 {
		return fmt.Errorf("processors must be at least 1, got %d", c.Processors)
	}
	if _, err := c.MinRunLogLevel(); err != nil {
		return err
	}
	if len(c.GetBrowsers()) == 0 {
		return errors.New("no browsers configured")
	}
	return c.validateReportsPath()
}

// validateReportsPath rejects a reports directory that run would wipe
// together with sources: the project itself, one of its parents, or a
// directory holding the suite.
func (c *Config) validateReportsPath() error {
	if strings.TrimSpace(c.ReportsDir) == "" {
		return errors.New("reports_dir must not be empty")
	}
	reports := c.GetReportsPath()
	if isWithin(reports, absPath(c.ProjectPath)) {
		return fmt.Errorf("reports_dir %q must be a subdirectory of the project, not %s", c.ReportsDir, reports)
	}
	if isWithin(reports, absPath(c.GetTestPath())) {
		return fmt.Errorf("reports_dir %q contains the suite at %s", c.ReportsDir, c.GetTestPath())
	}
	return nil
}

// isWithin reports whether path equals dir or lies below it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ApplyFlags copies parsed command flags over the loaded values.
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if len(flags.Browsers) > 0 {
		c.Browsers = flags.Browsers
	}
}

// GetBrowsers returns the configured browsers, trimmed and deduplicated.
func (c *Config) GetBrowsers() []string {
	seen := make(map[string]bool)
	var browsers []string
	for _, b := range c.Browsers {
		for _, name := range strings.Split(b, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			browsers = append(browsers, name)
		}
	}
	return browsers
}

// GetTestPath returns the suite path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to the project path if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}
	return filepath.Join(c.ProjectPath, c.SuitePath)
}

// GetReportsPath returns the absolute reports directory.
func (c *Config) GetReportsPath() string {
	return absPath(filepath.Join(c.ProjectPath, c.ReportsDir))
}

// GetWorkerReportsPath returns the reports directory owned by a job.
func (c *Config) GetWorkerReportsPath(jobID string) string {
	return filepath.Join(c.GetReportsPath(), jobID)
}

// SuitePackage returns the suite as a go test package pattern relative to
// the project, e.g. "./e2e".
func (c *Config) SuitePackage() string {
	path := c.GetTestPath()
	if rel, err := filepath.Rel(c.ProjectPath, path); err == nil && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	if filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	return "./" + filepath.ToSlash(path)
}

// GetOutputPath returns the full path to the output JSON file. Resolves to an
// absolute path so run and faills always read/write the same file
// regardless of cwd.
func (c *Config) GetOutputPath() string {
	return filepath.Join(c.GetReportsPath(), c.OutputJSONFile)
}

// GetReportPath returns the combined HTML report path, or the --output
// override.
func (c *Config) GetReportPath() string {
	if c.Flags.Output != "" {
		return absPath(c.Flags.Output)
	}
	return filepath.Join(c.GetReportsPath(), c.ReportFile)
}

// MinRunLogLevel parses RunLogLevel.
func (c *Config) MinRunLogLevel() (domain.LogLevel, error) {
	level, err := domain.ParseLogLevel(c.RunLogLevel)
	if err != nil {
		return level, fmt.Errorf("run_log_level: %w", err)
	}
	return level, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
