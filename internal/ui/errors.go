package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"shoptest/internal/domain"
	"shoptest/internal/storage"
)

// maxStackLines is how much of a stack trace the details pane shows
const maxStackLines = 15

// ErrorViewer displays failed test cases in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// View displays the failed test cases of results. Toggling a case resolved
// writes the results file back.
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	failed := results.Failures()
	if len(failed) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	updateListItem := func(pos int) {
		list.SetItemText(pos, listItemText(results.Details[failed[pos]], pos), "")
	}

	for pos, idx := range failed {
		list.AddItem(listItemText(results.Details[idx], pos), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		unresolved := 0
		for _, idx := range failed {
			if !results.Details[idx].Resolved {
				unresolved++
			}
		}
		headerView.SetText(fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ", len(failed), unresolved))
	}
	updateHeader()

	updateDetails := func() {
		pos := list.GetCurrentItem()
		if pos >= 0 && pos < len(failed) {
			rec := results.Details[failed[pos]]
			statsView.SetText(formatFailureStats(rec))
			detailsView.SetText(formatFailureDetails(rec))
			detailsView.ScrollToBeginning()
		}
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				pos := list.GetCurrentItem()
				if pos >= 0 && pos < len(failed) {
					rec := &results.Details[failed[pos]]
					rec.Resolved = !rec.Resolved
					updateListItem(pos)
					updateHeader()
					updateDetails()
					if err := ev.storage.SaveOutput(results); err != nil {
						saveErr = err
						app.Stop()
					}
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("save resolved status: %w", saveErr)
	}
	return nil
}

func listItemText(rec domain.StoredRecord, pos int) string {
	name := rec.TestID
	if name == "" {
		name = fmt.Sprintf("Test %d", pos+1)
	}
	label := fmt.Sprintf("%s [gray](%s)", tview.Escape(name), rec.Browser)
	if rec.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", pos+1, label)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s[white]", pos+1, label)
}

// formatFailureStats formats the header line of a failed record
func formatFailureStats(rec domain.StoredRecord) string {
	return fmt.Sprintf("[cyan]run:[white] [yellow]%s[white]  [cyan]env:[white] [yellow]%s[white]  [cyan]severity:[white] %s  [cyan]owner:[white] %s\n",
		rec.Metadata.RunID, strings.Join(rec.Metadata.Env, "/"), rec.Metadata.Severity, rec.Metadata.Owner)
}

// formatFailureDetails formats a failed record using tview color tags
func formatFailureDetails(rec domain.StoredRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ Test: %s[white]\n", tview.Escape(rec.TestID))
	fmt.Fprintf(&b, "[cyan]%s[white]\n\n", tview.Escape(rec.Description))

	if numbers := rec.StepNumbers(); len(numbers) > 0 {
		fmt.Fprintf(&b, "[yellow]Steps:[white]\n")
		for _, n := range numbers {
			step := rec.Steps[n]
			mark := "[green]✓[white]"
			if step.State != domain.StepFinished {
				mark = "[red]✗[white]"
			}
			fmt.Fprintf(&b, "  %s %d. %s\n", mark, n, tview.Escape(step.Description))
		}
		b.WriteString("\n")
	}

	if rec.Error == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n\n", tview.Escape(rec.Error.Message))
	if len(rec.Error.Stacktrace) > 0 {
		fmt.Fprintf(&b, "[yellow]Stack Trace:[white]\n")
		for i, line := range rec.Error.Stacktrace {
			if i == maxStackLines {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(rec.Error.Stacktrace)-maxStackLines)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
		}
	}
	return b.String()
}
