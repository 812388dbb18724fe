package execution

import (
	"context"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"shoptest/internal/config"
	"shoptest/internal/discovery"
	"shoptest/internal/domain"
)

// Runner runs one job as a go test subprocess
type Runner struct {
	config *config.Config
	log    *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, log *zap.Logger) *Runner {
	return &Runner{config: cfg, log: log}
}

// Args builds the go test command line for job. Everything after -args is
// read by the suite's own flags.
func (r *Runner) Args(job domain.Job) []string {
	args := []string{"test", "-tags", config.SuiteBuildTag, "-count=1", "-v", r.config.SuitePackage()}
	if pattern := discovery.RunPattern(job.Tests); pattern != "" {
		args = append(args, "-run", pattern)
	}

	args = append(args, "-args",
		"-browser", job.Browser,
		"-reports-dir", job.ReportsDir,
		"-base-url", r.config.BaseURL,
		"-run-log-level", r.config.RunLogLevel,
	)
	if r.config.Flags.Docker {
		args = append(args, "-docker", "-remote-url", r.config.RemoteURL)
	}
	if r.config.Flags.Headed {
		args = append(args, "-headed")
	}
	if r.config.Flags.IntentionallyFail {
		args = append(args, "-intentionally-fail")
	}
	return args
}

// Run executes go test for job. A non-zero exit is reported through the
// result, never as a panic or a returned error.
func (r *Runner) Run(ctx context.Context, job domain.Job) domain.WorkerResult {
	start := time.Now()
	cmd := exec.CommandContext(ctx, r.config.GoBinary, r.Args(job)...)
	cmd.Env = os.Environ()
	cmd.Dir = r.config.ProjectPath

	r.log.Debug("starting job",
		zap.String("job", job.ID),
		zap.Strings("args", cmd.Args),
	)
	output, err := cmd.CombinedOutput()

	return domain.WorkerResult{
		Job:        job.ID,
		Browser:    job.Browser,
		ReportsDir: job.ReportsDir,
		Success:    err == nil,
		Output:     string(output),
		Error:      err,
		Duration:   time.Since(start),
	}
}
