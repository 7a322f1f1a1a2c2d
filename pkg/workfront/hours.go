package workfront

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// hoursDateLayout is the format Workfront's date field accepts when typed.
const hoursDateLayout = "01/02/2006"

// HourEntry is one block of time to log against a target.
type HourEntry struct {
	Date  time.Time
	Hours float64
	Note  string
}

// Validate rejects entries the UI would silently mangle.
func (e HourEntry) Validate() error {
	if e.Hours <= 0 {
		return fmt.Errorf("hours must be positive, got %v", e.Hours)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	// Calendar-day comparison: job dates parse at UTC midnight, so an
	// instant comparison against local now would shift days.
	if e.Date.Format(time.DateOnly) > time.Now().Format(time.DateOnly) {
		return fmt.Errorf("date %s is in the future", e.Date.Format(hoursDateLayout))
	}
	return nil
}

// LogHours records the entry against the target through the log-time
// dialog and waits for the confirmation toast.
func (c *Client) LogHours(ctx context.Context, target Target, entry HourEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	if err := c.open(ctx, target, "hours"); err != nil {
		c.failureShot("log-hours")
		return fmt.Errorf("log hours on %s %s: %w", target.Type, target.ID, err)
	}

	page := c.session.ActivePage()

	if _, err := c.resolver.Click(ctx, page, selLogTimeButton); err != nil {
		c.failureShot("log-hours")
		return fmt.Errorf("open log-time dialog: %w", err)
	}

	if _, err := c.resolver.Fill(ctx, page, selHoursDateInput, entry.Date.Format(hoursDateLayout)); err != nil {
		c.failureShot("log-hours")
		return fmt.Errorf("fill date: %w", err)
	}
	if _, err := c.resolver.Fill(ctx, page, selHoursInput, formatHours(entry.Hours)); err != nil {
		c.failureShot("log-hours")
		return fmt.Errorf("fill hours: %w", err)
	}
	if entry.Note != "" {
		if _, err := c.resolver.Fill(ctx, page, selHoursNoteInput, entry.Note); err != nil {
			c.failureShot("log-hours")
			return fmt.Errorf("fill note: %w", err)
		}
	}

	if _, err := c.resolver.Click(ctx, page, selHoursSubmit); err != nil {
		c.failureShot("log-hours")
		return fmt.Errorf("submit hours: %w", err)
	}
	if _, err := c.resolver.Resolve(ctx, page, selSuccessToast); err != nil {
		c.failureShot("log-hours")
		return fmt.Errorf("logged hours not confirmed: %w", err)
	}

	c.log.Infof("logged %s hours on %s %s for %s",
		formatHours(entry.Hours), target.Type, target.ID, entry.Date.Format(hoursDateLayout))
	return nil
}

// formatHours renders hours the way the input expects: no trailing zeros,
// "1.5" not "1.50".
func formatHours(hours float64) string {
	s := fmt.Sprintf("%.2f", hours)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
