package browser

import (
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated resources.
// Workfront opens proofing viewers and document previews in new tabs, so a
// session tracks every page the context opens and keeps the newest one active.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated cookie/storage scope)
	Context playwright.BrowserContext

	// Headless indicates if the browser is running without a visible window
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// StorageStatePath is where the authenticated storage state is persisted.
	// Empty means no persistence.
	StorageStatePath string

	mu    sync.Mutex
	pages []playwright.Page
	page  playwright.Page
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// SlowMoMS slows every Playwright operation by the given milliseconds.
	// Useful when watching a headed run.
	SlowMoMS float64

	// TimeoutMS sets the default timeout for page operations (0 means default)
	TimeoutMS float64

	// StorageStatePath points to an externally captured storage state file
	// (cookies and localStorage). When the file exists its contents are
	// injected into the new context so the session starts authenticated.
	StorageStatePath string

	// DownloadsDir is where accepted downloads are saved (empty: Playwright default)
	DownloadsDir string
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	Name       string
	CurrentURL string
	Headless   bool
	PageCount  int
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// Default values for session management.
const (
	DefaultTimeoutMS      = 30000.0
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 3
	DefaultIdleTimeout    = 300 * time.Second
)

// chromiumArgs is the launch arg set that keeps Chromium quiet inside the
// Workfront UI: no popup blocking (share dialogs open popups), no automation
// banner, and no sandbox so runs work in containers.
var chromiumArgs = []string{
	"--disable-popup-blocking",
	"--disable-blink-features=AutomationControlled",
	"--disable-dev-shm-usage",
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-infobars",
	"--disable-notifications",
}
