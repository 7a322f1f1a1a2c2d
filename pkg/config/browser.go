package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"
)

// Browser defaults.
const (
	DefaultViewportWidth    = 1280
	DefaultViewportHeight   = 720
	DefaultBrowserTimeoutMS = 30000
)

// BrowserSection manages browser launch and session settings.
type BrowserSection struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	SlowMoMS       float64
	TimeoutMS      float64
	DownloadsDir   string
	mu             sync.RWMutex
}

// NewBrowserSection creates a new browser section with default settings.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{
		Headless:       true,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		SlowMoMS:       0,
		TimeoutMS:      DefaultBrowserTimeoutMS,
		DownloadsDir:   "",
	}
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser Settings"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Configure browser launch behavior: headless mode, viewport size, slow-motion delay, default operation timeout, and the downloads directory."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"headless":        s.Headless,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"slow_mo_ms":      s.SlowMoMS,
		"timeout_ms":      s.TimeoutMS,
		"downloads_dir":   s.DownloadsDir,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if headless, ok := data["headless"].(bool); ok {
		s.Headless = headless
	}
	if width, ok := asInt(data["viewport_width"]); ok {
		s.ViewportWidth = width
	}
	if height, ok := asInt(data["viewport_height"]); ok {
		s.ViewportHeight = height
	}
	if slowMo, ok := asFloat(data["slow_mo_ms"]); ok {
		s.SlowMoMS = slowMo
	}
	if timeout, ok := asFloat(data["timeout_ms"]); ok {
		s.TimeoutMS = timeout
	}
	if dir, ok := data["downloads_dir"].(string); ok {
		s.DownloadsDir = dir
	}

	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", s.ViewportWidth, s.ViewportHeight)
	}
	if s.SlowMoMS < 0 {
		return fmt.Errorf("slow_mo_ms must not be negative, got %v", s.SlowMoMS)
	}
	if s.TimeoutMS <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %v", s.TimeoutMS)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Headless = true
	s.ViewportWidth = DefaultViewportWidth
	s.ViewportHeight = DefaultViewportHeight
	s.SlowMoMS = 0
	s.TimeoutMS = DefaultBrowserTimeoutMS
	s.DownloadsDir = ""
}

// Snapshot returns a copy of the current settings for use without holding locks.
func (s *BrowserSection) Snapshot() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BrowserSettings{
		Headless:       s.Headless,
		ViewportWidth:  s.ViewportWidth,
		ViewportHeight: s.ViewportHeight,
		SlowMoMS:       s.SlowMoMS,
		TimeoutMS:      s.TimeoutMS,
		DownloadsDir:   s.DownloadsDir,
	}
}

// BrowserSettings is an immutable copy of the browser section values.
type BrowserSettings struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	SlowMoMS       float64
	TimeoutMS      float64
	DownloadsDir   string
}

// asInt coerces JSON-decoded numbers (float64) and native ints to int.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// asFloat coerces JSON-decoded numbers and native ints to float64.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
