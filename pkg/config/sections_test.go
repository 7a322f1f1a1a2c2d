package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserSection_Defaults(t *testing.T) {
	s := NewBrowserSection()

	assert.True(t, s.Headless)
	assert.Equal(t, DefaultViewportWidth, s.ViewportWidth)
	assert.Equal(t, DefaultViewportHeight, s.ViewportHeight)
	assert.Equal(t, float64(DefaultBrowserTimeoutMS), s.TimeoutMS)
	assert.NoError(t, s.Validate())
}

func TestBrowserSection_SetData(t *testing.T) {
	s := NewBrowserSection()

	// Values arrive as float64 after a JSON round-trip
	err := s.SetData(map[string]interface{}{
		"headless":        false,
		"viewport_width":  float64(1920),
		"viewport_height": float64(1080),
		"slow_mo_ms":      float64(100),
		"timeout_ms":      float64(15000),
		"downloads_dir":   "/tmp/downloads",
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.False(t, snap.Headless)
	assert.Equal(t, 1920, snap.ViewportWidth)
	assert.Equal(t, 1080, snap.ViewportHeight)
	assert.Equal(t, 100.0, snap.SlowMoMS)
	assert.Equal(t, 15000.0, snap.TimeoutMS)
	assert.Equal(t, "/tmp/downloads", snap.DownloadsDir)
}

func TestBrowserSection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BrowserSection)
		wantErr bool
	}{
		{"defaults pass", func(s *BrowserSection) {}, false},
		{"zero viewport width", func(s *BrowserSection) { s.ViewportWidth = 0 }, true},
		{"negative viewport height", func(s *BrowserSection) { s.ViewportHeight = -1 }, true},
		{"negative slow-mo", func(s *BrowserSection) { s.SlowMoMS = -5 }, true},
		{"zero timeout", func(s *BrowserSection) { s.TimeoutMS = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			tt.mutate(s)
			if tt.wantErr {
				assert.Error(t, s.Validate())
			} else {
				assert.NoError(t, s.Validate())
			}
		})
	}
}

func TestWorkfrontSection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"empty base URL allowed until use", "", false},
		{"https URL", "https://acme.my.workfront.com", false},
		{"http URL", "http://localhost:8080", false},
		{"missing scheme", "acme.my.workfront.com", true},
		{"wrong scheme", "ftp://acme.my.workfront.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewWorkfrontSection()
			s.SetBaseURL(tt.baseURL)
			if tt.wantErr {
				assert.Error(t, s.Validate())
			} else {
				assert.NoError(t, s.Validate())
			}
		})
	}
}

func TestWorkfrontSection_Overrides(t *testing.T) {
	s := NewWorkfrontSection()
	require.NoError(t, s.SetData(map[string]interface{}{
		"base_url":              "https://acme.my.workfront.com",
		"storage_state_path":    "/home/u/.scriptwf/state.json",
		"screenshot_on_failure": false,
		"screenshots_dir":       "/tmp/shots",
	}))

	// CLI overrides take precedence over file values
	s.SetBaseURL("https://other.my.workfront.com")
	s.SetStorageStatePath("/tmp/state.json")

	snap := s.Snapshot()
	assert.Equal(t, "https://other.my.workfront.com", snap.BaseURL)
	assert.Equal(t, "/tmp/state.json", snap.StorageStatePath)
	assert.False(t, snap.ScreenshotOnFailure)
	assert.Equal(t, "/tmp/shots", snap.ScreenshotsDir)
}

func TestRetrySection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RetrySection)
		wantErr bool
	}{
		{"defaults pass", func(s *RetrySection) {}, false},
		{"zero attempts", func(s *RetrySection) { s.Attempts = 0 }, true},
		{"negative delay", func(s *RetrySection) { s.DelayMS = -1 }, true},
		{"backoff below one", func(s *RetrySection) { s.Backoff = 0.5 }, true},
		{"zero per-try timeout", func(s *RetrySection) { s.PerTryTimeoutMS = 0 }, true},
		{"threshold zero", func(s *RetrySection) { s.HeuristicThreshold = 0 }, true},
		{"threshold above one", func(s *RetrySection) { s.HeuristicThreshold = 1.1 }, true},
		{"threshold of one", func(s *RetrySection) { s.HeuristicThreshold = 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRetrySection()
			tt.mutate(s)
			if tt.wantErr {
				assert.Error(t, s.Validate())
			} else {
				assert.NoError(t, s.Validate())
			}
		})
	}
}

func TestRetrySection_DataRoundTrip(t *testing.T) {
	s := NewRetrySection()
	require.NoError(t, s.SetData(map[string]interface{}{
		"attempts":            float64(5),
		"delay_ms":            float64(250),
		"backoff":             2.0,
		"per_try_timeout_ms":  float64(3000),
		"heuristic_threshold": 0.75,
	}))

	out := s.Data()
	assert.Equal(t, 5, out["attempts"])
	assert.Equal(t, 250.0, out["delay_ms"])
	assert.Equal(t, 2.0, out["backoff"])
	assert.Equal(t, 3000.0, out["per_try_timeout_ms"])
	assert.Equal(t, 0.75, out["heuristic_threshold"])
}

func TestInitialize_RegistersDomainSections(t *testing.T) {
	configPath := t.TempDir() + "/config.json"

	// Reset the global for this test
	globalMu.Lock()
	globalManager = nil
	globalMu.Unlock()

	require.NoError(t, Initialize(configPath))
	require.True(t, IsInitialized())

	assert.NotNil(t, GetBrowser())
	assert.NotNil(t, GetWorkfront())
	assert.NotNil(t, GetRetry())

	sections := Global().GetSections()
	require.Len(t, sections, 3)
	assert.Equal(t, SectionIDBrowser, sections[0].ID())
	assert.Equal(t, SectionIDWorkfront, sections[1].ID())
	assert.Equal(t, SectionIDRetry, sections[2].ID())
}
