//go:build e2e

package e2e

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoptest/internal/pages"
)

func TestLogin(t *testing.T) {
	for _, user := range loadRows(t, "users.csv") {
		t.Run(user.ID(), func(t *testing.T) {
			s := setupBrowser(t)
			tc, rec := testCaseLog(t, s)
			defer rec.Recover()

			username := user.Get("username")
			password := user.Get("password")
			expected := user.Get("expected")

			tc.SetDescription(fmt.Sprintf("Testing login as '%s'. Expecting %s.", username, expected))
			tc.SetSeverity("High")
			tc.SetOwner("QA")
			tc.SetGroup("Login")

			tc.StartStep(1, "Open login page")
			login, err := pages.OpenLoginPage(s.Page, *baseURL)
			require.NoError(rec, err)
			finishStep(rec, tc, 1)

			tc.StartStep(2, "Submit credentials")
			switch expected {
			case "inventory_page":
				inventory, err := login.LoginExpectSuccess(username, password)
				require.NoError(rec, err, "Login failed or did not redirect to inventory page")
				assert.True(rec, inventory.URLContains("inventory.html"), "Login failed or did not redirect to inventory page")
			case "empty_fields_error", "missing_username_error":
				require.NoError(rec, login.LoginExpectMissingUsername(username, password), "Missing username error not displayed")
				assertAlert(rec, login, pages.AlertMissingUsername)
			case "missing_password_error":
				require.NoError(rec, login.LoginExpectMissingPassword(username, password), "Missing password error not displayed")
				assertAlert(rec, login, pages.AlertMissingPassword)
			case "locked_out_error":
				require.NoError(rec, login.LoginExpectLockedUser(username, password), "Locked out user error not displayed")
				assertAlert(rec, login, pages.AlertLockedUser)
			case "invalid_creds_error":
				require.NoError(rec, login.LoginExpectInvalidCredentials(username, password), "Invalid credentials error not displayed")
				assertAlert(rec, login, pages.AlertInvalidCredentials)
			default:
				rec.Fatalf("Unexpected expected value: %s", expected)
			}
			finishStep(rec, tc, 2)
		})
	}
}

func assertAlert(tb testing.TB, login *pages.LoginPage, alert pages.Alert) {
	tb.Helper()
	shown, err := login.AlertShown(alert)
	require.NoError(tb, err)
	assert.True(tb, shown, "alert %s not shown", alert)
}
