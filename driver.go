package main

import "time"

type LocatorKind int

const (
	ByXPath LocatorKind = iota
	ByCSS
)

// Locator points at one element on a storefront page.
type Locator struct {
	By    LocatorKind
	Value string
}

func XPath(expr string) Locator { return Locator{By: ByXPath, Value: expr} }

func CSS(selector string) Locator { return Locator{By: ByCSS, Value: selector} }

func (l Locator) String() string {
	if l.By == ByCSS {
		return "css=" + l.Value
	}
	return "xpath=" + l.Value
}

// Driver is everything the bot needs from a browser. Element operations
// wait up to timeout for the element to become visible before acting.
type Driver interface {
	Navigate(url string) error
	Reload() error
	Click(loc Locator, timeout time.Duration) error
	Type(loc Locator, text string, timeout time.Duration) error
	// Read returns the element's text, or the named attribute when attr
	// is not empty.
	Read(loc Locator, attr string, timeout time.Duration) (string, error)
	Exists(loc Locator, timeout time.Duration) bool
	// Eval runs a page-level script, written as a JS function expression.
	Eval(script string) error
	Close() error
}
