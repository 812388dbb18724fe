package execution

import (
	"fmt"

	"shoptest/internal/config"
	"shoptest/internal/domain"
)

// Scheduler distributes suite tests across shards
type Scheduler interface {
	Schedule(tests []domain.SuiteTest, shards int) [][]domain.SuiteTest
}

// RoundRobinScheduler distributes tests evenly across shards
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes tests evenly across shards using round-robin
func (s *RoundRobinScheduler) Schedule(tests []domain.SuiteTest, shards int) [][]domain.SuiteTest {
	if shards <= 0 {
		shards = 1
	}

	distribution := make([][]domain.SuiteTest, shards)
	for i := range distribution {
		distribution[i] = make([]domain.SuiteTest, 0)
	}

	for i, test := range tests {
		distribution[i%shards] = append(distribution[i%shards], test)
	}

	return distribution
}

// PlanJobs splits the suite into jobs: every browser runs every test, and
// the processors left over once each browser has one are spent sharding.
func PlanJobs(cfg *config.Config, tests []domain.SuiteTest, scheduler Scheduler) []domain.Job {
	browsers := cfg.GetBrowsers()
	if len(browsers) == 0 {
		return nil
	}

	shards := cfg.Processors / len(browsers)
	if shards < 1 {
		shards = 1
	}
	if len(tests) > 0 && shards > len(tests) {
		shards = len(tests)
	}

	var jobs []domain.Job
	for _, browser := range browsers {
		for i, shard := range scheduler.Schedule(tests, shards) {
			if len(shard) == 0 && len(tests) > 0 {
				continue
			}
			id := fmt.Sprintf("%s-%d", browser, i+1)
			jobs = append(jobs, domain.Job{
				ID:         id,
				Browser:    browser,
				Tests:      shard,
				ReportsDir: cfg.GetWorkerReportsPath(id),
			})
		}
	}
	return jobs
}
