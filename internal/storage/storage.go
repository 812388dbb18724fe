package storage

import (
	"time"

	"shoptest/internal/config"
	"shoptest/internal/domain"
)

// Storage persists and loads run results (e.g. for the faills viewer).
type Storage interface {
	// Save collects the records the workers logged and writes the results file.
	Save(results []domain.WorkerResult, duration time.Duration, workers int) (*domain.TestResultsOutput, error)
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after marking failures resolved).
	SaveOutput(output *domain.TestResultsOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
