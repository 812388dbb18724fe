//go:build e2e

package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shoptest/internal/browser"
	"shoptest/internal/domain"
	"shoptest/internal/harness"
	"shoptest/internal/pages"
	"shoptest/internal/report"
	"shoptest/internal/runlog"
	"shoptest/internal/testdata"
)

const (
	standardUser     = "standard_user"
	standardPassword = "secret_sauce"
)

// setupBrowser starts a browser session that is closed when t ends.
func setupBrowser(t *testing.T) *browser.Session {
	t.Helper()
	s, err := browser.Start(browser.Options{
		Browser:   *browserName,
		Remote:    *docker,
		RemoteURL: *remoteURL,
		Headed:    *headed,
		Timeout:   pages.DefaultTimeout,
	})
	require.NoError(t, err, "start %s", *browserName)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("close browser: %v", err)
		}
	})
	return s
}

// standardLogin opens the shop on s and logs in as the standard user.
func standardLogin(tb testing.TB, s *browser.Session) *pages.InventoryPage {
	tb.Helper()
	login, err := pages.OpenLoginPage(s.Page, *baseURL)
	require.NoError(tb, err)
	inventory, err := login.LoginExpectSuccess(standardUser, standardPassword)
	require.NoError(tb, err, "login as %s", standardUser)
	return inventory
}

// testCaseLog opens the run log record of t and returns it with the recorder
// tests must report failures through. Call it after setupBrowser so the
// screenshot is taken before the browser closes, and defer rec.Recover() so
// a panic is logged with its value.
//
// When t ends the record is finalized: a failure is attached and the page
// captured, a skip marks it UNTESTED, anything else PASSED. The record is then
// rendered to <reports>/html, written to the run log and removed.
func testCaseLog(t *testing.T, s *browser.Session) (*runlog.TestCase, *harness.Recorder) {
	t.Helper()
	tc, err := runLog.CreateTestCase(t.Name())
	require.NoError(t, err)
	rec := harness.NewRecorder(t)
	start := time.Now()

	t.Cleanup(func() {
		switch {
		case rec.Failed():
			failure := rec.Failure()
			if failure == nil {
				failure = &domain.TestError{Message: "test failed", Stacktrace: []string{}}
			}
			tc.AddError(failure)
			if s != nil {
				path, err := s.Screenshot(screenshotsDir(), t.Name())
				if err != nil {
					t.Logf("screenshot: %v", err)
				} else {
					t.Logf("screenshot saved to %s", path)
				}
			}
		case t.Skipped():
			tc.SetStatus(domain.StateUntested)
		default:
			tc.SetStatus(domain.StatePassed)
		}

		if err := writeAttachment(tc); err != nil {
			t.Logf("html attachment: %v", err)
		}
		observe(tc, time.Since(start))
		if err := runLog.Finish(tc); err != nil {
			t.Errorf("log test case %s: %v", tc.TestID(), err)
		}
	})
	return tc, rec
}

// finishStep marks step n of tc finished.
func finishStep(tb testing.TB, tc *runlog.TestCase, n int) {
	tb.Helper()
	require.NoError(tb, tc.MarkStepFinished(n))
}

func writeAttachment(tc *runlog.TestCase) error {
	data, err := tc.JSON(0, false)
	if err != nil {
		return err
	}
	html, err := report.Render([]string{data})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(attachmentsDir(), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(attachmentsDir(), attachmentName(tc.TestID())), []byte(html), 0644)
}

func attachmentName(testID string) string {
	return strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(testID) + ".html"
}

func observe(tc *runlog.TestCase, elapsed time.Duration) {
	env := tc.Env()
	collector.ObserveTest(tc.TestID(), env.Browser, string(tc.Status()), elapsed)

	states := make(map[string]int)
	for _, step := range tc.Record().Steps {
		states[string(step.State)]++
	}
	collector.ObserveSteps(env.Browser, states)
}

// loadRows reads a CSV file from testdata.
func loadRows(t *testing.T, name string) []testdata.Row {
	t.Helper()
	rows, err := testdata.LoadCSV(filepath.Join("testdata", name))
	require.NoError(t, err)
	require.NotEmpty(t, rows, "no rows in %s", name)
	return rows
}
