package pages

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

const (
	inventoryItem     = "div[data-test='inventory-item']"
	itemName          = "div[data-test='inventory-item-name']"
	itemLink          = "a[data-test$='title-link']"
	itemImg           = "img[data-test^='inventory-item'][data-test$='img']"
	addToCartButton   = "button[data-test^='add-to-cart']"
	removeCartButton  = "button[data-test^='remove-']"
	shoppingCartBadge = "span[data-test='shopping-cart-badge']"
)

// InventoryPage lists the shop's products.
type InventoryPage struct {
	BasePage
}

// NewInventoryPage waits for the inventory URL on page.
func NewInventoryPage(page playwright.Page) (*InventoryPage, error) {
	p := &InventoryPage{BasePage: newBasePage(page)}
	if err := p.WaitForURLContains("inventory.html"); err != nil {
		return nil, err
	}
	return p, nil
}

// Products returns one locator per product card.
func (p *InventoryPage) Products() ([]playwright.Locator, error) {
	if _, err := p.WaitForVisible(inventoryItem); err != nil {
		return nil, err
	}
	items, err := p.page.Locator(inventoryItem).All()
	return items, errors.Wrap(err, "list products")
}

// ProductByName returns the card of the product named name.
func (p *InventoryPage) ProductByName(name string) (playwright.Locator, error) {
	items, err := p.Products()
	if err != nil {
		return nil, err
	}
	var available []string
	for _, item := range items {
		text, err := item.Locator(itemName).TextContent()
		if err != nil {
			return nil, errors.Wrap(err, "read product name")
		}
		text = strings.TrimSpace(text)
		if text == name {
			return item, nil
		}
		available = append(available, text)
	}
	return nil, errors.Errorf("product %q not found in inventory; products available: %v", name, available)
}

// ClickAddToCart adds the named product to the cart.
func (p *InventoryPage) ClickAddToCart(name string) error {
	product, err := p.ProductByName(name)
	if err != nil {
		return err
	}
	return p.clickChild(product, addToCartButton)
}

// ClickRemoveFromCart removes the named product from the cart.
func (p *InventoryPage) ClickRemoveFromCart(name string) error {
	product, err := p.ProductByName(name)
	if err != nil {
		return err
	}
	return p.clickChild(product, removeCartButton)
}

// ClickProductLink opens the item page through the product title.
func (p *InventoryPage) ClickProductLink(name string) (*ItemPage, error) {
	product, err := p.ProductByName(name)
	if err != nil {
		return nil, err
	}
	if err := p.clickChild(product, itemLink); err != nil {
		return nil, err
	}
	return NewItemPage(p.page)
}

// ClickProductImg opens the item page through the product image.
func (p *InventoryPage) ClickProductImg(name string) (*ItemPage, error) {
	product, err := p.ProductByName(name)
	if err != nil {
		return nil, err
	}
	if err := p.clickChild(product, itemImg); err != nil {
		return nil, err
	}
	return NewItemPage(p.page)
}

// CartCount returns the number shown on the cart badge.
func (p *InventoryPage) CartCount() (int, error) {
	badge, err := p.WaitForVisible(shoppingCartBadge)
	if err != nil {
		return 0, err
	}
	text, err := badge.TextContent()
	if err != nil {
		return 0, errors.Wrap(err, "read cart badge")
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	return n, errors.Wrapf(err, "cart badge %q", text)
}

// WaitForCartCount waits until the cart badge shows n.
func (p *InventoryPage) WaitForCartCount(n int) error {
	badge := p.page.Locator(shoppingCartBadge).Filter(playwright.LocatorFilterOptions{
		HasText: regexp.MustCompile(`^\s*` + strconv.Itoa(n) + `\s*$`),
	})
	err := badge.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: p.timeoutMS(),
	})
	if err != nil {
		got, _ := p.CartCount()
		return errors.Wrapf(err, "cart item count should be %d, but got %d", n, got)
	}
	return nil
}

// WaitForCartBadgeHidden waits until the cart badge disappears.
func (p *InventoryPage) WaitForCartBadgeHidden() error {
	return errors.Wrap(p.WaitForHidden(shoppingCartBadge), "cart count still visible after removing all items")
}
