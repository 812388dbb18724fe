//go:build e2e

package e2e

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoptest/internal/harness"
)

const (
	flakyReruns = 3
	rerunDelay  = time.Second
)

func TestImgClick(t *testing.T) {
	for _, product := range loadRows(t, "products.csv") {
		t.Run(product.ID(), func(t *testing.T) {
			name := product.Get("product_name")
			s := setupBrowser(t)
			tc, rec := testCaseLog(t, s)
			defer rec.Recover()

			tc.SetDescription(fmt.Sprintf("Testing to click on the image of '%s'. Expecting to get on the item page.", name))
			tc.SetSeverity("Medium")
			tc.SetOwner("QA")
			tc.SetGroup("Inventory")

			n := harness.Retry(rec, flakyReruns, rerunDelay, func(a *harness.Attempt) {
				tc.StartStep(1, "Login and navigate to Inventory Page")
				inventory := standardLogin(a, s)
				finishStep(a, tc, 1)

				tc.StartStep(2, "Click on product image")
				item, err := inventory.ClickProductImg(name)
				require.NoError(a, err)
				got, err := item.ProductName()
				require.NoError(a, err)
				assert.Equal(a, name, got)
				finishStep(a, tc, 2)
			})
			collector.ObserveAttempts(t.Name(), n)
		})
	}
}

func TestLinkClick(t *testing.T) {
	for _, product := range loadRows(t, "products.csv") {
		t.Run(product.ID(), func(t *testing.T) {
			name := product.Get("product_name")
			s := setupBrowser(t)
			tc, rec := testCaseLog(t, s)
			defer rec.Recover()

			tc.SetDescription(fmt.Sprintf("Testing to click on the title of '%s'. Expecting to get on the item page.", name))
			tc.SetSeverity("Medium")
			tc.SetOwner("QA")
			tc.SetGroup("Inventory")

			n := harness.Retry(rec, flakyReruns, rerunDelay, func(a *harness.Attempt) {
				tc.StartStep(1, "Login and navigate to Inventory Page")
				inventory := standardLogin(a, s)
				finishStep(a, tc, 1)

				tc.StartStep(2, "Click on product title")
				item, err := inventory.ClickProductLink(name)
				require.NoError(a, err)
				got, err := item.ProductName()
				require.NoError(a, err)
				assert.Equal(a, name, got)
				finishStep(a, tc, 2)
			})
			collector.ObserveAttempts(t.Name(), n)
		})
	}
}

func TestCartCount(t *testing.T) {
	products := loadRows(t, "products.csv")
	s := setupBrowser(t)
	tc, rec := testCaseLog(t, s)
	defer rec.Recover()

	tc.SetDescription("Testing the counter badge of the cart")
	tc.SetSeverity("Medium")
	tc.SetOwner("QA")
	tc.SetGroup("Inventory")

	tc.StartStep(1, "Login and navigate to Inventory Page")
	inventory := standardLogin(rec, s)
	finishStep(rec, tc, 1)

	count := 0
	for i, product := range products {
		name := product.Get("product_name")
		count++
		step := i + 2

		tc.StartStep(step, fmt.Sprintf("Adding %s to cart Expecting cart count to be %d", name, count))
		require.NoError(rec, inventory.ClickAddToCart(name))
		require.NoError(rec, inventory.WaitForCartCount(count), "cart count after adding should be %d", count)
		finishStep(rec, tc, step)
	}

	for i, product := range products {
		name := product.Get("product_name")
		count--
		step := i + len(products) + 2

		tc.StartStep(step, fmt.Sprintf("Removing %s from cart. Expecting cart count to be %d", name, count))
		require.NoError(rec, inventory.ClickRemoveFromCart(name))
		if count > 0 {
			require.NoError(rec, inventory.WaitForCartCount(count), "cart count after removing should be %d", count)
		} else {
			require.NoError(rec, inventory.WaitForCartBadgeHidden(), "cart count still visible after removing all items")
		}
		finishStep(rec, tc, step)
	}
}
