package main

import "context"

const bestBuyBase = "https://www.bestbuy.ca"

var bestBuyCatalog = catalog{
	site:        "bestbuy",
	allProducts: []string{"disc", "digital"},
	urls: map[string][]string{
		"disc":    {bestBuyBase + "/en-ca/product/playstation-5-console-online-only/14962185"},
		"digital": {bestBuyBase + "/en-ca/product/playstation-5-digital-edition-console-online-only/14962184"},
	},
}

var bestBuyLocators = struct {
	email, password, signIn Locator
	ageGate, addToCart      Locator
	checkout, cvv           Locator
}{
	email:     XPath(`//input[@id='username']`),
	password:  XPath(`//input[@id='password']`),
	signIn:    XPath(`//button[@type='submit' and @data-automation='sign-in-button']`),
	ageGate:   XPath(`//div[@data-automation='age-gate']//button[@data-automation='age-gate-confirm']`),
	addToCart: XPath(`//div[@data-automation='addToCartButton']//button`),
	checkout:  XPath(`//a[@data-automation='continue-to-checkout']`),
	cvv:       XPath(`//input[@id='cvv']`),
}

type BestBuy struct{}

func (BestBuy) Name() string { return "bestbuy" }

func (BestBuy) ProductURLs(product string) ([]string, error) {
	return bestBuyCatalog.lookup(product)
}

func (BestBuy) Login(ctx context.Context, s *Session) error {
	if err := s.Open(ctx, bestBuyBase+"/identity/en-ca/signin"); err != nil {
		return err
	}
	if err := s.Type(ctx, bestBuyLocators.email, s.Credentials.Email); err != nil {
		return err
	}
	if err := s.Type(ctx, bestBuyLocators.password, s.Credentials.Password); err != nil {
		return err
	}
	return s.Click(ctx, bestBuyLocators.signIn)
}

func (BestBuy) StockSignal() StockSignal {
	return StockSignal{
		Locator: bestBuyLocators.addToCart,
		Marker:  "Add to Cart",
	}
}

func (BestBuy) Checkout() []Step {
	return []Step{
		// Bundles with rated games are behind an age gate on the product page.
		{Name: "confirm age", Run: func(ctx context.Context, s *Session) error {
			return s.Dismiss(ctx, "age verification", bestBuyLocators.ageGate)
		}},
		{Name: "add to cart", Run: func(ctx context.Context, s *Session) error {
			return s.Click(ctx, bestBuyLocators.addToCart)
		}},
		{Name: "open basket", Run: func(ctx context.Context, s *Session) error {
			return s.Open(ctx, bestBuyBase+"/en-ca/basket")
		}},
		{Name: "continue to checkout", Run: func(ctx context.Context, s *Session) error {
			return s.Click(ctx, bestBuyLocators.checkout)
		}},
		{Name: "confirm shipping", Run: func(ctx context.Context, s *Session) error {
			return s.Script(ctx, "confirm shipping", `() => window.checkoutApp.submitShipping()`)
		}},
		{Name: "enter cvv", Run: func(ctx context.Context, s *Session) error {
			return s.Type(ctx, bestBuyLocators.cvv, s.Credentials.CVV)
		}},
		{Name: "place order", Final: true, Run: func(ctx context.Context, s *Session) error {
			return s.Script(ctx, "place order", `() => window.checkoutApp.submitOrder()`)
		}},
	}
}
