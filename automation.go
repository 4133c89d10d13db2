package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"
)

// browserBinPath is where a bundled browser is expected, relative to the
// working directory.
const browserBinPath = "./chrome"

var ErrNoBrowser = errors.New("no browser binary found")

// ResolveBrowserBin returns the bundled browser if present, otherwise the
// system Chrome.
func ResolveBrowserBin() (string, error) {
	if info, err := os.Stat(browserBinPath); err == nil && !info.IsDir() {
		return filepath.Abs(browserBinPath)
	}
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: expected %s or a system Chrome install", ErrNoBrowser, browserBinPath)
}

// Automation is the go-rod Driver. One Automation owns one browser process.
type Automation struct {
	settings *Settings
	log      *zap.Logger
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
}

// LaunchAutomation starts a browser with its own profile directory and opens a
// stealth page. The browser is bound to ctx; cancel is called when the
// browser goes away underneath us.
func LaunchAutomation(ctx context.Context, cancel context.CancelFunc, settings *Settings, bin, profileDir string, log *zap.Logger) (*Automation, error) {
	a := &Automation{settings: settings, log: log}

	// Disable leakless mode on Windows to prevent deadlock
	// See: https://github.com/go-rod/rod/issues/853
	useLeakless := runtime.GOOS != "windows"

	a.launcher = launcher.New().
		Leakless(useLeakless).
		Headless(settings.Headless)

	// Must be set before Bin()
	if profileDir != "" {
		a.launcher = a.launcher.UserDataDir(profileDir)
		log.Debug("browser profile set", zap.String("path", profileDir))
	}
	a.launcher = a.launcher.Bin(bin)

	url, err := a.launcher.Launch()
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "ProcessSingleton") || strings.Contains(msg, "SingletonLock") {
			return nil, fmt.Errorf("browser profile %s is already in use: %w", profileDir, err)
		}
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	a.browser = rod.New().ControlURL(url).Context(ctx)
	if err := a.browser.Connect(); err != nil {
		a.launcher.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	a.page, err = stealth.Page(a.browser)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	if err := a.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: settings.UserAgent}); err != nil {
		log.Debug("failed to set user agent", zap.Error(err))
	}
	if err := a.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             settings.ViewportWidth,
		Height:            settings.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		log.Debug("failed to set viewport", zap.Error(err))
	}

	go a.watchBrowser(ctx, cancel)

	log.Info("browser launched", zap.String("bin", bin))
	return a, nil
}

func (a *Automation) isBrowserAlive() bool {
	if a.browser == nil {
		return false
	}

	if _, err := a.browser.Version(); err != nil {
		a.log.Debug("browser version check failed", zap.Error(err))
		return false
	}

	if a.page != nil {
		if _, err := a.page.Info(); err != nil {
			a.log.Debug("page info check failed", zap.Error(err))
			return false
		}
	}

	return true
}

// watchBrowser cancels the session when the user closes the window.
func (a *Automation) watchBrowser(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.isBrowserAlive() {
				a.log.Warn("browser closed, stopping session")
				cancel()
				return
			}
		}
	}
}

func (a *Automation) Navigate(url string) error {
	p := a.page.Timeout(a.settings.PageTimeout())
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page %s failed to load: %w", url, err)
	}
	return nil
}

func (a *Automation) Reload() error {
	p := a.page.Timeout(a.settings.PageTimeout())
	defer p.CancelTimeout()

	if err := p.Reload(); err != nil {
		return fmt.Errorf("failed to reload: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page failed to load after reload: %w", err)
	}
	return nil
}

// visible finds loc on p and waits for it to be shown. p must already carry
// the caller's timeout.
func visible(p *rod.Page, loc Locator) (*rod.Element, error) {
	var (
		el  *rod.Element
		err error
	)
	if loc.By == ByCSS {
		el, err = p.Element(loc.Value)
	} else {
		el, err = p.ElementX(loc.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("element %s not found: %w", loc, err)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, fmt.Errorf("element %s not visible: %w", loc, err)
	}
	return el, nil
}

func (a *Automation) Click(loc Locator, timeout time.Duration) error {
	p := a.page.Timeout(timeout)
	defer p.CancelTimeout()

	el, err := visible(p, loc)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click %s: %w", loc, err)
	}
	return nil
}

func (a *Automation) Type(loc Locator, text string, timeout time.Duration) error {
	p := a.page.Timeout(timeout)
	defer p.CancelTimeout()

	el, err := visible(p, loc)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		a.log.Debug("failed to select existing text", zap.Stringer("locator", loc), zap.Error(err))
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("failed to type into %s: %w", loc, err)
	}
	return nil
}

func (a *Automation) Read(loc Locator, attr string, timeout time.Duration) (string, error) {
	p := a.page.Timeout(timeout)
	defer p.CancelTimeout()

	el, err := visible(p, loc)
	if err != nil {
		return "", err
	}

	if attr == "" {
		text, err := el.Text()
		if err != nil {
			return "", fmt.Errorf("failed to read text of %s: %w", loc, err)
		}
		return text, nil
	}

	value, err := el.Attribute(attr)
	if err != nil {
		return "", fmt.Errorf("failed to read %s of %s: %w", attr, loc, err)
	}
	if value == nil {
		return "", fmt.Errorf("element %s has no %s attribute", loc, attr)
	}
	return *value, nil
}

func (a *Automation) Exists(loc Locator, timeout time.Duration) bool {
	p := a.page.Timeout(timeout)
	defer p.CancelTimeout()

	_, err := visible(p, loc)
	return err == nil
}

func (a *Automation) Eval(script string) error {
	if _, err := a.page.Eval(script); err != nil {
		return fmt.Errorf("page script failed: %w", err)
	}
	return nil
}

func (a *Automation) Close() error {
	var errs []error

	if a.page != nil {
		if err := a.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close page: %w", err))
		}
	}

	if a.browser != nil {
		if err := a.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	if a.launcher != nil {
		a.launcher.Cleanup()
	}

	a.log.Info("browser closed")
	return errors.Join(errs...)
}
