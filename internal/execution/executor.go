package execution

import (
	"context"
	"time"

	"shoptest/internal/domain"
)

// Executor executes jobs and returns their results
type Executor interface {
	Execute(ctx context.Context, jobs []domain.Job) ([]domain.WorkerResult, time.Duration, error)
}
