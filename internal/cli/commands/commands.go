package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shoptest/internal/cli"
	"shoptest/internal/config"
	"shoptest/internal/discovery"
	"shoptest/internal/execution"
	"shoptest/internal/logging"
	"shoptest/internal/parser"
	"shoptest/internal/storage"
	"shoptest/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Report  *ReportCommand
	Summary *SummaryCommand
	Faills  *FaillsCommand
	Publish *PublishCommand

	log *zap.Logger
}

// NewCommands creates all commands with dependencies. cfg is read when a
// command executes, after flags and the config file have been applied.
func NewCommands(cfg *config.Config, log *zap.Logger) *Commands {
	scanner := discovery.NewScanner(cfg.IgnorePatterns)
	filter := discovery.NewFilter()
	suiteParser := discovery.NewParser()
	runner := execution.NewRunner(cfg, log)
	scheduler := execution.NewRoundRobinScheduler()
	goTestParser := parser.NewGoTestParser()
	executor := execution.NewWorkerPool(cfg, runner, goTestParser, log)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg, suiteParser)
	errorViewer := ui.NewErrorViewer(jsonStorage)
	report := NewReportCommand(cfg, log)

	return &Commands{
		Run:     NewRunCommand(cfg, scanner, filter, suiteParser, scheduler, executor, goTestParser, jsonStorage, formatter, report, errorViewer, log),
		List:    NewListCommand(cfg, scanner, filter, suiteParser, scheduler, formatter),
		Report:  report,
		Summary: NewSummaryCommand(jsonStorage, formatter),
		Faills:  NewFaillsCommand(jsonStorage, errorViewer),
		Publish: NewPublishCommand(jsonStorage, log),
		log:     log,
	}
}

// Build loads the configuration, creates the logger and wires every command.
// It runs before any command executes.
func Build(flags *cli.Flags) (*Commands, *config.Config, error) {
	cfg, err := config.Load(flags.ProjectPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.LogFormat = flags.LogFormat
	}
	cfg.ApplyFlags(flags.ToConfigFlags())
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return NewCommands(cfg, log), cfg, nil
}

// Register registers all commands with cobra. The commands are built in
// the root's PersistentPreRunE, so every RunE looks them up late.
func Register(rootCmd *cobra.Command, flags *cli.Flags) {
	var cmds *Commands

	rootCmd.PersistentFlags().StringVar(&flags.ProjectPath, "project", config.DefaultProjectPath, "Project directory holding the suite, .env and shoptest.yaml")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "Diagnostic log format (console, json)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		built, _, err := Build(flags)
		if err != nil {
			return err
		}
		cmds = built
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if cmds != nil {
			_ = cmds.log.Sync()
		}
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the UI suite against one or more browsers",
		Long:  "Discover the suite's tests and run them with go test, one job per browser shard, then write the results file and HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.Run.Execute(cmd, args)
		},
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of go test processes to run at once")
	runCmd.Flags().StringSliceVarP(&flags.Browsers, "browser", "b", nil, "Browsers to run (chrome, firefox); repeat or comma-separate")
	runCmd.Flags().BoolVar(&flags.Docker, "docker", false, "Connect to the playwright server instead of launching browsers locally")
	runCmd.Flags().BoolVar(&flags.IntentionallyFail, "intentionally-fail", false, "Also run the deliberately failing test")
	runCmd.Flags().BoolVar(&flags.Headed, "headed", false, "Show the browser window")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the suite package")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'TestLogin' or '*Click*')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop after the first failed job")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Scan and list the suite's test files without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.List.Execute(cmd, args)
		},
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'TestLogin' or '*Click*')")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the suite package")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test functions instead of test files")
	listCmd.Flags().BoolVar(&flags.ShowPlan, "plan", false, "Show the jobs a run would start")
	listCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of go test processes to plan for")
	listCmd.Flags().StringSliceVarP(&flags.Browsers, "browser", "b", nil, "Browsers to plan for (chrome, firefox)")
	rootCmd.AddCommand(listCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render the run logs as an HTML report",
		Long:  "Read every run log under the reports directory and write one self-contained HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.Report.Execute(cmd, args)
		},
	}
	reportCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Report file (default <reports dir>/report.html)")
	rootCmd.AddCommand(reportCmd)

	// Summary command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Print the statistics of the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.Summary.Execute(cmd, args)
		},
	})

	// Faills command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display failed test cases from the last run in an interactive viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.Faills.Execute(cmd, args)
		},
	})

	// Publish command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "publish",
		Short: "Store the last run's results in MySQL",
		Long:  "Write the results file to the database configured by DB_HOST, DB_PORT, DB_USERNAME, DB_PASSWORD and DB_DATABASE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.Publish.Execute(cmd, args)
		},
	})
}
