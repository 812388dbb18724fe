// Package report renders run log records as a self-contained HTML document.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"shoptest/internal/domain"
)

// DefaultTitle is the document title used by Render.
const DefaultTitle = "Test Report"

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

type reportData struct {
	Title string
	Cases []caseData
}

type caseData struct {
	TestID      string
	Description string
	Status      domain.TestState
	Passed      bool
	Failed      bool
	RunID       string
	Severity    string
	Owner       string
	Env         []string
	Steps       []stepData
	Error       *errorData
}

type stepData struct {
	Number      int
	Description string
	State       domain.StepState
	Finished    bool
}

type errorData struct {
	Message    string
	Stacktrace string
}

// Render converts serialized records, one JSON document per entry, into an
// HTML report. Records are rendered in input order.
func Render(entries []string) (string, error) {
	var buf bytes.Buffer
	if err := RenderTitled(&buf, DefaultTitle, entries); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderFile writes the report for entries to w.
func RenderFile(w io.Writer, entries []string) error {
	return RenderTitled(w, DefaultTitle, entries)
}

// RenderTitled writes the report for entries to w under the given title.
func RenderTitled(w io.Writer, title string, entries []string) error {
	data := reportData{Title: title, Cases: make([]caseData, 0, len(entries))}
	for i, entry := range entries {
		rec, err := domain.ParseRecord(entry)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		data.Cases = append(data.Cases, newCaseData(rec))
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func newCaseData(rec *domain.Record) caseData {
	status := rec.Status
	if status == "" {
		status = domain.StateUndefined
	}
	c := caseData{
		TestID:      rec.TestID,
		Description: rec.Description,
		Status:      status,
		Passed:      status.IsPass(),
		Failed:      status.IsFail(),
		RunID:       rec.Metadata.RunID,
		Severity:    rec.Metadata.Severity,
		Owner:       rec.Metadata.Owner,
		Env:         rec.Metadata.Env,
	}
	for _, n := range rec.StepNumbers() {
		step := rec.Steps[n]
		c.Steps = append(c.Steps, stepData{
			Number:      n,
			Description: step.Description,
			State:       step.State,
			Finished:    strings.EqualFold(string(step.State), string(domain.StepFinished)),
		})
	}
	if rec.Failed() {
		c.Error = &errorData{
			Message:    rec.Error.Message,
			Stacktrace: strings.Join(rec.Error.Stacktrace, "\n"),
		}
	}
	return c
}
