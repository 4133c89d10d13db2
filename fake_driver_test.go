package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var errNotFound = errors.New("element not found")

// fakeDriver records every call. Element lookups fail for locators listed
// in missing; Read serves values from reads in order, repeating the last.
type fakeDriver struct {
	mu sync.Mutex

	calls    []string
	missing  map[Locator]bool
	failures map[Locator]int // fail this many times, then succeed
	present  map[Locator]bool
	reads    []string
	readErr  error
	navErr   error
	evalErr  map[string]error

	navigations int
	reloads     int
	typed       map[Locator]string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		missing:  map[Locator]bool{},
		failures: map[Locator]int{},
		present:  map[Locator]bool{},
		evalErr:  map[string]error{},
		typed:    map[Locator]string{},
	}
}

func (f *fakeDriver) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) lookup(loc Locator) error {
	if f.missing[loc] {
		return errNotFound
	}
	if f.failures[loc] > 0 {
		f.failures[loc]--
		return errNotFound
	}
	return nil
}

func (f *fakeDriver) Navigate(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("navigate %s", url)
	f.navigations++
	return f.navErr
}

func (f *fakeDriver) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("reload")
	f.reloads++
	return nil
}

func (f *fakeDriver) Click(loc Locator, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("click %s", loc)
	return f.lookup(loc)
}

func (f *fakeDriver) Type(loc Locator, text string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("type %s", loc)
	if err := f.lookup(loc); err != nil {
		return err
	}
	f.typed[loc] = text
	return nil
}

func (f *fakeDriver) Read(loc Locator, _ string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("read %s", loc)
	if f.readErr != nil {
		return "", f.readErr
	}
	if len(f.reads) == 0 {
		return "", errNotFound
	}
	value := f.reads[0]
	if len(f.reads) > 1 {
		f.reads = f.reads[1:]
	}
	return value, nil
}

func (f *fakeDriver) Exists(loc Locator, _ time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("exists %s", loc)
	return f.present[loc]
}

func (f *fakeDriver) Eval(script string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("eval %s", script)
	return f.evalErr[script]
}

func (f *fakeDriver) Close() error { return nil }

func (f *fakeDriver) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// recordedSleep counts sleeps instead of blocking.
type recordedSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordedSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	r.mu.Unlock()
	return ctx.Err()
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *fakeNotifier) Notify(_ context.Context, event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) kinds() []EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]EventKind, 0, len(n.events))
	for _, e := range n.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// newTestSession wires a session around driver with instant sleeps.
func newTestSession(driver *fakeDriver, job Job, settings *Settings) (*Session, *fakeNotifier, *recordedSleep) {
	log := zap.NewNop()
	sleeper := &recordedSleep{}

	actions := NewRetrier(driver, settings.ActionRetry.Policy(), settings.ElementTimeout(), log)
	actions.sleep = sleeper.sleep
	monitor := NewStockMonitor(driver, settings.StockPoll.Policy(), settings.ElementTimeout(), log)
	monitor.sleep = sleeper.sleep

	notifier := &fakeNotifier{}
	return &Session{
		Job: job,
		Credentials: Credentials{
			Email:    "buyer@example.com",
			Password: "hunter2",
			CVV:      "123",
		},
		Settings: settings,
		Driver:   driver,
		Actions:  actions,
		Monitor:  monitor,
		Notifier: notifier,
		Log:      log,
	}, notifier, sleeper
}
