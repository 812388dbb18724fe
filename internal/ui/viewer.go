package ui

import "shoptest/internal/domain"

// Viewer displays run results in an interactive TUI
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}
