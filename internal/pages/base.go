// Package pages holds the page objects of the Sauce Demo shop.
package pages

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

// DefaultTimeout bounds every wait of a page object.
const DefaultTimeout = 10 * time.Second

// BasePage provides the waits and interactions shared by all pages.
type BasePage struct {
	page    playwright.Page
	Timeout time.Duration
}

func newBasePage(page playwright.Page) BasePage {
	return BasePage{page: page, Timeout: DefaultTimeout}
}

// Page returns the underlying playwright page.
func (p *BasePage) Page() playwright.Page { return p.page }

func (p *BasePage) timeoutMS() *float64 {
	return playwright.Float(float64(p.Timeout.Milliseconds()))
}

// Title returns the document title.
func (p *BasePage) Title() (string, error) {
	title, err := p.page.Title()
	return title, errors.Wrap(err, "read page title")
}

// URL returns the current page URL.
func (p *BasePage) URL() string { return p.page.URL() }

// URLContains reports whether the current URL contains substr.
func (p *BasePage) URLContains(substr string) bool {
	return strings.Contains(p.page.URL(), substr)
}

// WaitForURLContains waits until the URL contains substr.
func (p *BasePage) WaitForURLContains(substr string) error {
	err := p.page.WaitForURL(regexp.MustCompile(regexp.QuoteMeta(substr)), playwright.PageWaitForURLOptions{
		Timeout: p.timeoutMS(),
	})
	return errors.Wrapf(err, "url %q does not contain %q within %s", p.page.URL(), substr, p.Timeout)
}

// WaitForPageReady waits for the load event of the current document.
func (p *BasePage) WaitForPageReady() error {
	err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: p.timeoutMS(),
	})
	return errors.Wrap(err, "page did not finish loading")
}

func (p *BasePage) waitFor(loc playwright.Locator, selector string, state *playwright.WaitForSelectorState) error {
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: p.timeoutMS(),
	})
	return errors.Wrapf(err, "element %s not %s within %s", selector, *state, p.Timeout)
}

// WaitForElement waits for the first element matching selector to be
// attached to the DOM.
func (p *BasePage) WaitForElement(selector string) (playwright.Locator, error) {
	loc := p.page.Locator(selector).First()
	return loc, p.waitFor(loc, selector, playwright.WaitForSelectorStateAttached)
}

// WaitForVisible waits for the first element matching selector to be visible.
func (p *BasePage) WaitForVisible(selector string) (playwright.Locator, error) {
	loc := p.page.Locator(selector).First()
	return loc, p.waitFor(loc, selector, playwright.WaitForSelectorStateVisible)
}

// WaitForHidden waits until no element matching selector is visible.
func (p *BasePage) WaitForHidden(selector string) error {
	return p.waitFor(p.page.Locator(selector).First(), selector, playwright.WaitForSelectorStateHidden)
}

// WaitForClickable waits for the element to be visible and enabled.
func (p *BasePage) WaitForClickable(selector string) (playwright.Locator, error) {
	loc, err := p.WaitForVisible(selector)
	if err != nil {
		return nil, err
	}
	enabled, err := loc.IsEnabled()
	if err != nil {
		return nil, errors.Wrapf(err, "check %s enabled", selector)
	}
	if !enabled {
		return nil, errors.Errorf("element %s is disabled", selector)
	}
	return loc, nil
}

// Click clicks the element once it is clickable.
func (p *BasePage) Click(selector string) error {
	loc, err := p.WaitForClickable(selector)
	if err != nil {
		return err
	}
	return errors.Wrapf(loc.Click(playwright.LocatorClickOptions{Timeout: p.timeoutMS()}), "click %s", selector)
}

// InputText types text into the element once it is visible.
func (p *BasePage) InputText(selector, text string) error {
	loc, err := p.WaitForVisible(selector)
	if err != nil {
		return err
	}
	return errors.Wrapf(loc.Fill(text, playwright.LocatorFillOptions{Timeout: p.timeoutMS()}), "fill %s", selector)
}

// clickChild clicks the child of parent matching selector.
func (p *BasePage) clickChild(parent playwright.Locator, selector string) error {
	child := parent.Locator(selector).First()
	if err := p.waitFor(child, selector, playwright.WaitForSelectorStateVisible); err != nil {
		return err
	}
	return errors.Wrapf(child.Click(playwright.LocatorClickOptions{Timeout: p.timeoutMS()}), "click %s", selector)
}
