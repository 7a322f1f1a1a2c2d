// Package locator implements the DOM-locator retry engine the Workfront
// operations are built on. The Workfront DOM is not a stable contract:
// every element an operation needs is described as a Strategy, an ordered
// chain of candidate selectors plus the human-visible label the element is
// expected to carry. The resolver walks the chain under a retry policy and,
// when every selector misses, falls back to heuristic discovery over the
// interactive elements actually present on the page.
package locator

import (
	"time"
)

// Strategy describes one element the automation needs to find.
type Strategy struct {
	// Name identifies the strategy in logs and errors (e.g. "share-dialog.submit")
	Name string

	// Selectors is the ordered fallback chain. Earlier entries are the
	// selectors observed most recently in the Workfront DOM.
	Selectors []string

	// Hint is the human-visible label the element is expected to carry.
	// It powers heuristic discovery when the whole chain misses; empty
	// disables heuristics for this strategy.
	Hint string

	// PickByLabel restricts chain matches to the element whose visible
	// text matches the hint at or above the resolver threshold. Option
	// lists need this: one generic selector matches every rendered
	// option, and picking the wrong one mutates live data.
	PickByLabel bool
}

// WithHint returns a copy of the strategy with the hint replaced. Used when
// the label is runtime data, such as a document name or a status label.
func (s Strategy) WithHint(hint string) Strategy {
	s.Hint = hint
	return s
}

// RetryPolicy controls how a strategy's selector chain is retried.
type RetryPolicy struct {
	// Attempts is how many times the full chain is walked
	Attempts int

	// Delay is the sleep after the first failed walk
	Delay time.Duration

	// Backoff multiplies the delay after each failed walk
	Backoff float64

	// PerTryTimeout bounds the visibility wait for a single selector
	PerTryTimeout time.Duration
}

// Policy defaults, matching the retry config section.
const (
	defaultAttempts      = 3
	defaultDelay         = 500 * time.Millisecond
	defaultBackoff       = 1.5
	defaultPerTryTimeout = 5 * time.Second
)

// withDefaults fills zero values with the package defaults.
func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = defaultAttempts
	}
	if p.Delay <= 0 {
		p.Delay = defaultDelay
	}
	if p.Backoff < 1 {
		p.Backoff = defaultBackoff
	}
	if p.PerTryTimeout <= 0 {
		p.PerTryTimeout = defaultPerTryTimeout
	}
	return p
}

// delayFor returns the sleep before the given 1-based attempt's successor.
func (p RetryPolicy) delayFor(attempt int) time.Duration {
	delay := float64(p.Delay)
	for i := 1; i < attempt; i++ {
		delay *= p.Backoff
	}
	return time.Duration(delay)
}

// Resolution reports which selector matched and how it was found.
type Resolution struct {
	// Selector is the selector that matched
	Selector string

	// Index is which of the selector's matches was picked when a label
	// gate narrowed a multi-element selector (0 otherwise)
	Index int

	// Attempt is the 1-based attempt the match happened on
	Attempt int

	// Heuristic is true when the selector came from element discovery
	// rather than the strategy's own chain
	Heuristic bool

	// Score is the similarity score for label-gated and heuristic
	// matches (0 for plain chain matches)
	Score float64
}
