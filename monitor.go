package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StockSignal says where a product page shows availability and what it
// reads when the product can be bought. Attribute empty means element text.
type StockSignal struct {
	Locator   Locator
	Attribute string
	Marker    string
}

// Matches is an exact, case-sensitive comparison.
func (s StockSignal) Matches(value string) bool {
	return value == s.Marker
}

// StockMonitor polls a product page until its StockSignal matches. It has
// no iteration bound; only ctx stops it.
type StockMonitor struct {
	driver  Driver
	delay   time.Duration
	timeout time.Duration
	log     *zap.Logger
	sleep   sleepFunc
}

// NewStockMonitor uses only the delay of poll; the attempt count is ignored
// because the monitor waits for restock indefinitely.
func NewStockMonitor(driver Driver, poll RetryPolicy, timeout time.Duration, log *zap.Logger) *StockMonitor {
	return &StockMonitor{
		driver:  driver,
		delay:   poll.Delay,
		timeout: timeout,
		log:     log,
		sleep:   sleepCtx,
	}
}

// Watch navigates to url and returns once the product is in stock, with the
// number of reload cycles it took.
func (m *StockMonitor) Watch(ctx context.Context, url string, signal StockSignal) (int, error) {
	log := m.log.With(zap.String("url", url))

	loaded := m.navigate(log, url)
	cycles := 0

	for {
		if err := ctx.Err(); err != nil {
			return cycles, err
		}

		if loaded {
			value, err := m.driver.Read(signal.Locator, signal.Attribute, m.timeout)
			switch {
			case err != nil:
				log.Info("stock signal not readable", zap.Int("cycle", cycles), zap.Error(err))
			case signal.Matches(value):
				log.Info("in stock", zap.String("signal", value), zap.Int("cycles", cycles))
				return cycles, nil
			default:
				log.Info("out of stock", zap.String("signal", value), zap.Int("cycle", cycles))
			}
		}

		if err := m.sleep(ctx, m.delay); err != nil {
			return cycles, err
		}
		cycles++

		if !loaded {
			loaded = m.navigate(log, url)
			continue
		}
		if err := m.driver.Reload(); err != nil {
			log.Warn("reload failed", zap.Error(err))
			loaded = false
		}
	}
}

func (m *StockMonitor) navigate(log *zap.Logger, url string) bool {
	if err := m.driver.Navigate(url); err != nil {
		log.Warn("navigation failed", zap.Error(err))
		return false
	}
	return true
}
