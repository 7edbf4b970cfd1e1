package rod

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is how many pages one Chrome process serves before it is
// replaced.
const DefaultMaxPages = 75

// launchFlags keep Chrome from throttling pages that load in the background.
var launchFlags = []flags.Flag{
	"disable-background-timer-throttling",
	"disable-backgrounding-occluded-windows",
	"disable-renderer-backgrounding",
	"disable-dev-shm-usage",
	"disable-hang-monitor",
}

// BrowserManager hands out pages from a headless Chrome. Chrome's memory
// baseline only grows, so after maxPages pages the process is swapped for a
// fresh one, but never while a page is still open.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	served   int64
	maxPages int64
	open     int
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a Chrome process serves before it is
// replaced. Defaults to DefaultMaxPages.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches Chrome. Close must be called to stop it.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l

	return bm, nil
}

// Browser returns the live browser, replacing it first if it is due.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bm.recycleIfDue()
	return bm.browser
}

// Page opens a blank page. The returned func closes it; until every page is
// closed the browser that owns them stays up.
func (bm *BrowserManager) Page() (*rod.Page, func(), error) {
	bm.mu.Lock()
	if bm.closed || bm.browser == nil {
		bm.mu.Unlock()
		return nil, nil, errors.New("browser manager is closed")
	}
	bm.recycleIfDue()
	browser := bm.browser
	bm.open++
	bm.served++
	bm.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		bm.done()
		return nil, nil, fmt.Errorf("opening page: %w", err)
	}

	var once sync.Once
	return page, func() {
		once.Do(func() {
			_ = page.Close()
			bm.done()
		})
	}, nil
}

func (bm *BrowserManager) done() {
	bm.mu.Lock()
	bm.open--
	bm.mu.Unlock()
}

// Close stops Chrome. Calling it again is a no-op.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	err := shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = nil, nil
	return err
}

// LauncherPID returns the process ID of the Chrome launcher, or 0 once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// recycleIfDue swaps in a new Chrome once the current one has served
// maxPages and has no open pages. If the new one fails to start the old one
// keeps serving. Must be called with mu held.
func (bm *BrowserManager) recycleIfDue() {
	if bm.closed || bm.open > 0 || bm.served < bm.maxPages {
		return
	}

	browser, l, err := launch()
	if err != nil {
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher, bm.served = browser, l, 0
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().Leakless(true).Headless(true)
	for _, f := range launchFlags {
		l = l.Set(f)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

func shutdown(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
