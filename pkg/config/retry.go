package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDRetry is the identifier for the locator retry settings section
	SectionIDRetry = "retry"
)

// Retry defaults. These are deliberately conservative: the Workfront UI
// re-renders asynchronously and short retry windows cause flaky misses.
const (
	DefaultRetryAttempts      = 3
	DefaultRetryDelayMS       = 500
	DefaultRetryBackoff       = 1.5
	DefaultPerTryTimeoutMS    = 5000
	DefaultHeuristicThreshold = 0.6
)

// RetrySection manages the locator retry policy and heuristic matching settings.
type RetrySection struct {
	Attempts           int
	DelayMS            float64
	Backoff            float64
	PerTryTimeoutMS    float64
	HeuristicThreshold float64
	mu                 sync.RWMutex
}

// NewRetrySection creates a new retry section with default settings.
func NewRetrySection() *RetrySection {
	return &RetrySection{
		Attempts:           DefaultRetryAttempts,
		DelayMS:            DefaultRetryDelayMS,
		Backoff:            DefaultRetryBackoff,
		PerTryTimeoutMS:    DefaultPerTryTimeoutMS,
		HeuristicThreshold: DefaultHeuristicThreshold,
	}
}

// ID returns the section identifier.
func (s *RetrySection) ID() string {
	return SectionIDRetry
}

// Title returns the section title.
func (s *RetrySection) Title() string {
	return "Locator Retry Settings"
}

// Description returns the section description.
func (s *RetrySection) Description() string {
	return "Configure how selector fallback chains are retried: attempt count, base delay, backoff multiplier, per-try timeout, and the similarity threshold for heuristic element discovery."
}

// Data returns the current configuration data.
func (s *RetrySection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"attempts":            s.Attempts,
		"delay_ms":            s.DelayMS,
		"backoff":             s.Backoff,
		"per_try_timeout_ms":  s.PerTryTimeoutMS,
		"heuristic_threshold": s.HeuristicThreshold,
	}
}

// SetData updates the configuration from the provided data.
func (s *RetrySection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if attempts, ok := asInt(data["attempts"]); ok {
		s.Attempts = attempts
	}
	if delay, ok := asFloat(data["delay_ms"]); ok {
		s.DelayMS = delay
	}
	if backoff, ok := asFloat(data["backoff"]); ok {
		s.Backoff = backoff
	}
	if timeout, ok := asFloat(data["per_try_timeout_ms"]); ok {
		s.PerTryTimeoutMS = timeout
	}
	if threshold, ok := asFloat(data["heuristic_threshold"]); ok {
		s.HeuristicThreshold = threshold
	}

	return nil
}

// Validate validates the current configuration.
func (s *RetrySection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Attempts < 1 {
		return fmt.Errorf("attempts must be at least 1, got %d", s.Attempts)
	}
	if s.DelayMS < 0 {
		return fmt.Errorf("delay_ms must not be negative, got %v", s.DelayMS)
	}
	if s.Backoff < 1 {
		return fmt.Errorf("backoff must be at least 1, got %v", s.Backoff)
	}
	if s.PerTryTimeoutMS <= 0 {
		return fmt.Errorf("per_try_timeout_ms must be positive, got %v", s.PerTryTimeoutMS)
	}
	if s.HeuristicThreshold <= 0 || s.HeuristicThreshold > 1 {
		return fmt.Errorf("heuristic_threshold must be in (0, 1], got %v", s.HeuristicThreshold)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *RetrySection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Attempts = DefaultRetryAttempts
	s.DelayMS = DefaultRetryDelayMS
	s.Backoff = DefaultRetryBackoff
	s.PerTryTimeoutMS = DefaultPerTryTimeoutMS
	s.HeuristicThreshold = DefaultHeuristicThreshold
}

// Snapshot returns a copy of the current settings for use without holding locks.
func (s *RetrySection) Snapshot() RetrySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RetrySettings{
		Attempts:           s.Attempts,
		DelayMS:            s.DelayMS,
		Backoff:            s.Backoff,
		PerTryTimeoutMS:    s.PerTryTimeoutMS,
		HeuristicThreshold: s.HeuristicThreshold,
	}
}

// RetrySettings is an immutable copy of the retry section values.
type RetrySettings struct {
	Attempts           int
	DelayMS            float64
	Backoff            float64
	PerTryTimeoutMS    float64
	HeuristicThreshold float64
}
