package workfront

import (
	"context"
	"fmt"
	"strings"
)

// UpdateStatus sets the target's status to the option whose label matches
// status. Matching runs through the locator heuristics, so "In Prog" picks
// "In Progress" but an unknown label fails with the nearest options listed.
func (c *Client) UpdateStatus(ctx context.Context, target Target, status string) error {
	if strings.TrimSpace(status) == "" {
		return fmt.Errorf("status is required")
	}

	if err := c.open(ctx, target, "overview"); err != nil {
		c.failureShot("update-status")
		return fmt.Errorf("status on %s %s: %w", target.Type, target.ID, err)
	}

	page := c.session.ActivePage()

	if _, err := c.resolver.Click(ctx, page, selStatusControl); err != nil {
		c.failureShot("update-status")
		return fmt.Errorf("open status dropdown: %w", err)
	}
	if _, err := c.resolver.Click(ctx, page, selStatusOption.WithHint(status)); err != nil {
		c.failureShot("update-status")
		return fmt.Errorf("no status option matched %q: %w", status, err)
	}

	// The control re-renders with the new label once the change sticks.
	res, err := c.resolver.Resolve(ctx, page, selStatusControl)
	if err != nil {
		c.failureShot("update-status")
		return fmt.Errorf("status control gone after update: %w", err)
	}
	label, err := page.Locator(res.Selector).First().InnerText()
	if err == nil && !statusReflected(label, status) {
		c.failureShot("update-status")
		return fmt.Errorf("status shows %q after picking %q", strings.TrimSpace(label), status)
	}

	c.log.Infof("status of %s %s set to %q", target.Type, target.ID, status)
	return nil
}

// statusReflected checks whether the control label matches the requested
// status, in either direction since the picked option may carry the full
// label the request abbreviated.
func statusReflected(label, status string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	status = strings.ToLower(strings.TrimSpace(status))
	if label == "" {
		return true
	}
	return strings.Contains(label, status) || strings.Contains(status, label)
}
