package browser

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/guhesse/script-wf-sub001/pkg/logging"
)

// SessionManager owns the Playwright runtime and all active browser sessions.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	maxSessions int
	idleTimeout time.Duration
	initialized bool
	log         *logging.Logger
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	log, _ := logging.NewLogger("browser")
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		idleTimeout: DefaultIdleTimeout,
		log:         log,
	}
}

// Initialize installs and starts the Playwright runtime.
// This must be called before creating any sessions.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Driver output goes nowhere: it would otherwise land on stdout and
	// corrupt machine-readable run summaries.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	m.log.Infof("playwright runtime started")
	return nil
}

// StartSession creates a new browser session with the given name and options.
// When opts.StorageStatePath names an existing file, its storage state is
// injected so the session starts with the externally captured authentication.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}

	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}

	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.TimeoutMS == 0 {
		opts.TimeoutMS = DefaultTimeoutMS
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     chromiumArgs,
	}
	if opts.SlowMoMS > 0 {
		launchOpts.SlowMo = playwright.Float(opts.SlowMoMS)
	}
	if opts.DownloadsDir != "" {
		launchOpts.DownloadsPath = playwright.String(opts.DownloadsDir)
	}

	browser, err := m.playwright.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
		AcceptDownloads: playwright.Bool(true),
	}

	if state, err := loadStorageState(opts.StorageStatePath); err != nil {
		m.log.Warnf("ignoring unreadable storage state %s: %v", opts.StorageStatePath, err)
	} else if state != nil {
		contextOpts.StorageState = state
		m.log.Infof("session %q starts with storage state from %s", name, opts.StorageStatePath)
	}

	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(opts.TimeoutMS)

	now := time.Now()
	session := &Session{
		Name:             name,
		Browser:          browser,
		Context:          context,
		Headless:         opts.Headless,
		CreatedAt:        now,
		LastUsedAt:       now,
		StorageStatePath: opts.StorageStatePath,
		pages:            []playwright.Page{page},
		page:             page,
	}

	session.attachPageHandlers(page)

	// Workfront opens proof viewers and previews in fresh tabs; follow them.
	context.OnPage(func(newPage playwright.Page) {
		newPage.SetDefaultTimeout(opts.TimeoutMS)
		session.trackPage(newPage)
		session.attachPageHandlers(newPage)
		m.log.Debugf("session %q opened new page: %s", name, newPage.URL())
	})

	m.sessions[name] = session
	m.log.Infof("session %q started (headless=%v)", name, opts.Headless)
	return session, nil
}

// GetSession retrieves an active session by name.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}

	return session, nil
}

// ListSessions returns information about all active sessions.
func (m *SessionManager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, session.Info())
	}

	return infos
}

// HasSessions returns true if there are any active sessions.
func (m *SessionManager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CloseSession saves the session's storage state, closes it, and removes it.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("session %q not found", name)
	}

	session.close(m.log)
	delete(m.sessions, name)
	m.log.Infof("session %q closed", name)
	return nil
}

// CloseAll closes all active sessions.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		session.close(m.log)
		delete(m.sessions, name)
	}
}

// CleanupIdleSessions closes sessions idle for longer than the idle timeout.
func (m *SessionManager) CleanupIdleSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	closed := 0
	for name, session := range m.sessions {
		if now.Sub(session.LastUsed()) > m.idleTimeout {
			session.close(m.log)
			delete(m.sessions, name)
			m.log.Infof("session %q closed after idle timeout", name)
			closed++
		}
	}

	return closed
}

// Shutdown closes all sessions and stops the Playwright runtime.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		session.close(m.log)
		delete(m.sessions, name)
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
		m.log.Infof("playwright runtime stopped")
	}

	return nil
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

// SetIdleTimeout sets the idle timeout duration.
func (m *SessionManager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTimeout = timeout
}
