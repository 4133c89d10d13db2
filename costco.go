package main

import "context"

const costcoBase = "https://www.costco.ca"

var costcoCatalog = catalog{
	site:        "costco",
	allProducts: []string{"ratchet-clank-bundle", "bundle"},
	urls: map[string][]string{
		"ratchet-clank-bundle": {costcoBase + "/playstation-5-console-bundle---ratchet-%2526-clank.product.100780734.html"},
		"bundle":               {costcoBase + "/playstation-5-console-bundle.product.100696941.html"},
	},
}

var costcoLocators = struct {
	email, password, signIn Locator
	addToCart, checkout     Locator
	cvv, placeOrder         Locator
}{
	email:      XPath(`//input[@id='logonId']`),
	password:   XPath(`//input[@id='logonPassword']`),
	signIn:     XPath(`//input[@type='submit' and @value='Sign In']`),
	addToCart:  XPath(`//input[@id='add-to-cart-btn']`),
	checkout:   XPath(`//*[@id='shopCartCheckoutSubmitButton']`),
	cvv:        XPath(`//input[@id='securityCode']`),
	placeOrder: XPath(`//button[@id='order-summary-place-order']`),
}

type Costco struct{}

func (Costco) Name() string { return "costco" }

func (Costco) ProductURLs(product string) ([]string, error) {
	return costcoCatalog.lookup(product)
}

func (Costco) Login(ctx context.Context, s *Session) error {
	if err := s.Open(ctx, costcoBase+"/LogonForm"); err != nil {
		return err
	}
	if err := s.Type(ctx, costcoLocators.email, s.Credentials.Email); err != nil {
		return err
	}
	if err := s.Type(ctx, costcoLocators.password, s.Credentials.Password); err != nil {
		return err
	}
	return s.Click(ctx, costcoLocators.signIn)
}

func (Costco) StockSignal() StockSignal {
	return StockSignal{
		Locator:   costcoLocators.addToCart,
		Attribute: "value",
		Marker:    "Add to Cart",
	}
}

func (Costco) Checkout() []Step {
	return []Step{
		{Name: "add to cart", Run: func(ctx context.Context, s *Session) error {
			return s.Click(ctx, costcoLocators.addToCart)
		}},
		{Name: "open cart", Run: func(ctx context.Context, s *Session) error {
			return s.Open(ctx, costcoBase+"/CheckoutCartView")
		}},
		{Name: "start checkout", Run: func(ctx context.Context, s *Session) error {
			return s.Click(ctx, costcoLocators.checkout)
		}},
		// The shipping and payment panels only advance through the
		// checkout controller; their buttons are rendered disabled.
		{Name: "confirm shipping", Run: func(ctx context.Context, s *Session) error {
			return s.Script(ctx, "confirm shipping", `() => COSTCO.Checkout.ShippingPanel.continueToPayment()`)
		}},
		{Name: "enter cvv", Run: func(ctx context.Context, s *Session) error {
			return s.Type(ctx, costcoLocators.cvv, s.Credentials.CVV)
		}},
		{Name: "confirm payment", Run: func(ctx context.Context, s *Session) error {
			return s.Script(ctx, "confirm payment", `() => COSTCO.Checkout.PaymentPanel.continueToReview()`)
		}},
		{Name: "place order", Final: true, Run: func(ctx context.Context, s *Session) error {
			return s.Click(ctx, costcoLocators.placeOrder)
		}},
	}
}
