package pages

import (
	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

const (
	usernameInput = "input[data-test='username']"
	passwordInput = "input[data-test='password']"
	loginButton   = "input[data-test='login-button']"
)

// Alert is the error banner shown by a rejected login.
type Alert string

const (
	AlertMissingUsername    Alert = "xpath=//h3[contains(@data-test, 'error') and contains(., 'Username is required')]"
	AlertMissingPassword    Alert = "xpath=//h3[contains(@data-test, 'error') and contains(., 'Password is required')]"
	AlertInvalidCredentials Alert = "xpath=//h3[contains(@data-test, 'error') and contains(., 'not match')]"
	AlertLockedUser         Alert = "xpath=//h3[contains(@data-test, 'error') and contains(., 'locked out')]"
)

// LoginPage is the shop's landing page.
type LoginPage struct {
	BasePage
}

// NewLoginPage waits for the login form to be ready on page.
func NewLoginPage(page playwright.Page) (*LoginPage, error) {
	p := &LoginPage{BasePage: newBasePage(page)}
	if err := p.WaitForPageReady(); err != nil {
		return nil, err
	}
	if _, err := p.WaitForVisible(usernameInput); err != nil {
		return nil, err
	}
	return p, nil
}

// OpenLoginPage navigates to baseURL and returns its login page.
func OpenLoginPage(page playwright.Page, baseURL string) (*LoginPage, error) {
	if _, err := page.Goto(baseURL); err != nil {
		return nil, errors.Wrapf(err, "open %s", baseURL)
	}
	return NewLoginPage(page)
}

func (p *LoginPage) login(username, password string) error {
	if err := p.InputText(usernameInput, username); err != nil {
		return err
	}
	if err := p.InputText(passwordInput, password); err != nil {
		return err
	}
	return p.Click(loginButton)
}

// LoginExpectSuccess logs in and waits for the inventory page.
func (p *LoginPage) LoginExpectSuccess(username, password string) (*InventoryPage, error) {
	if err := p.login(username, password); err != nil {
		return nil, err
	}
	if err := p.WaitForURLContains("inventory.html"); err != nil {
		return nil, err
	}
	return NewInventoryPage(p.page)
}

// LoginExpectAlert logs in and waits for alert to be shown.
func (p *LoginPage) LoginExpectAlert(username, password string, alert Alert) error {
	if err := p.login(username, password); err != nil {
		return err
	}
	if _, err := p.WaitForVisible(string(alert)); err != nil {
		return errors.Wrapf(err, "error message not found within %s", p.Timeout)
	}
	return nil
}

func (p *LoginPage) LoginExpectInvalidCredentials(username, password string) error {
	return p.LoginExpectAlert(username, password, AlertInvalidCredentials)
}

func (p *LoginPage) LoginExpectMissingUsername(username, password string) error {
	return p.LoginExpectAlert(username, password, AlertMissingUsername)
}

func (p *LoginPage) LoginExpectMissingPassword(username, password string) error {
	return p.LoginExpectAlert(username, password, AlertMissingPassword)
}

func (p *LoginPage) LoginExpectLockedUser(username, password string) error {
	return p.LoginExpectAlert(username, password, AlertLockedUser)
}

// AlertShown reports whether alert is present on the page.
func (p *LoginPage) AlertShown(alert Alert) (bool, error) {
	n, err := p.page.Locator(string(alert)).Count()
	if err != nil {
		return false, errors.Wrap(err, "count alerts")
	}
	return n > 0, nil
}
