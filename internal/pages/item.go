package pages

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

const itemDetailsName = "div[data-test='inventory-item-name']"

// ItemPage shows the details of one product.
type ItemPage struct {
	BasePage
}

// NewItemPage waits for the item details URL on page.
func NewItemPage(page playwright.Page) (*ItemPage, error) {
	p := &ItemPage{BasePage: newBasePage(page)}
	if err := p.WaitForURLContains("inventory-item.html"); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductName returns the name of the displayed product.
func (p *ItemPage) ProductName() (string, error) {
	loc, err := p.WaitForVisible(itemDetailsName)
	if err != nil {
		return "", err
	}
	text, err := loc.TextContent()
	return strings.TrimSpace(text), errors.Wrap(err, "read product name")
}
