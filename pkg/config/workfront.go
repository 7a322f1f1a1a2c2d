package config

import (
	"fmt"
	"net/url"
	"sync"
)

const (
	// SectionIDWorkfront is the identifier for the Workfront settings section
	SectionIDWorkfront = "workfront"
)

// WorkfrontSection manages settings for the Workfront instance being driven.
type WorkfrontSection struct {
	BaseURL             string
	StorageStatePath    string
	ScreenshotOnFailure bool
	ScreenshotsDir      string
	mu                  sync.RWMutex
}

// NewWorkfrontSection creates a new Workfront section with default settings.
// BaseURL has no default: each tenant has its own host, so it must be set
// via config file, environment, or CLI flag before operations run.
func NewWorkfrontSection() *WorkfrontSection {
	return &WorkfrontSection{
		BaseURL:             "",
		StorageStatePath:    "",
		ScreenshotOnFailure: true,
		ScreenshotsDir:      "",
	}
}

// ID returns the section identifier.
func (s *WorkfrontSection) ID() string {
	return SectionIDWorkfront
}

// Title returns the section title.
func (s *WorkfrontSection) Title() string {
	return "Workfront Settings"
}

// Description returns the section description.
func (s *WorkfrontSection) Description() string {
	return "Configure the Workfront tenant base URL, the path to an externally captured browser storage state used for authentication, and failure screenshot behavior."
}

// Data returns the current configuration data.
func (s *WorkfrontSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"base_url":              s.BaseURL,
		"storage_state_path":    s.StorageStatePath,
		"screenshot_on_failure": s.ScreenshotOnFailure,
		"screenshots_dir":       s.ScreenshotsDir,
	}
}

// SetData updates the configuration from the provided data.
func (s *WorkfrontSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if baseURL, ok := data["base_url"].(string); ok {
		s.BaseURL = baseURL
	}
	if statePath, ok := data["storage_state_path"].(string); ok {
		s.StorageStatePath = statePath
	}
	if screenshot, ok := data["screenshot_on_failure"].(bool); ok {
		s.ScreenshotOnFailure = screenshot
	}
	if dir, ok := data["screenshots_dir"].(string); ok {
		s.ScreenshotsDir = dir
	}

	return nil
}

// Validate validates the current configuration. An empty base URL is
// allowed here (it may arrive later from flags); a malformed one is not.
func (s *WorkfrontSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.BaseURL != "" {
		u, err := url.Parse(s.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url %q: %w", s.BaseURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base_url must be http(s), got %q", s.BaseURL)
		}
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *WorkfrontSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.BaseURL = ""
	s.StorageStatePath = ""
	s.ScreenshotOnFailure = true
	s.ScreenshotsDir = ""
}

// Snapshot returns a copy of the current settings for use without holding locks.
func (s *WorkfrontSection) Snapshot() WorkfrontSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return WorkfrontSettings{
		BaseURL:             s.BaseURL,
		StorageStatePath:    s.StorageStatePath,
		ScreenshotOnFailure: s.ScreenshotOnFailure,
		ScreenshotsDir:      s.ScreenshotsDir,
	}
}

// SetBaseURL overrides the tenant base URL (CLI flags take precedence over file values).
func (s *WorkfrontSection) SetBaseURL(baseURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BaseURL = baseURL
}

// SetStorageStatePath overrides the storage state path.
func (s *WorkfrontSection) SetStorageStatePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StorageStatePath = path
}

// WorkfrontSettings is an immutable copy of the Workfront section values.
type WorkfrontSettings struct {
	BaseURL             string
	StorageStatePath    string
	ScreenshotOnFailure bool
	ScreenshotsDir      string
}
