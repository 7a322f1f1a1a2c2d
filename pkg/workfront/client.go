// Package workfront drives the Workfront web UI through a browser session.
// Workfront exposes no stable API for these flows, so every operation here
// is selector-fallback chains over the live DOM, resolved through the
// locator retry engine. The selector tables live in selectors.go; when the
// UI drifts, that file is the one to edit.
package workfront

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guhesse/script-wf-sub001/pkg/browser"
	"github.com/guhesse/script-wf-sub001/pkg/config"
	"github.com/guhesse/script-wf-sub001/pkg/locator"
	"github.com/guhesse/script-wf-sub001/pkg/logging"
)

// TargetType identifies the kind of Workfront object an operation acts on.
type TargetType string

const (
	TargetProject TargetType = "project"
	TargetTask    TargetType = "task"
	TargetIssue   TargetType = "issue"
)

// Target identifies one Workfront object.
type Target struct {
	Type TargetType
	ID   string
}

// Validate checks the target is usable.
func (t Target) Validate() error {
	switch t.Type {
	case TargetProject, TargetTask, TargetIssue:
	default:
		return fmt.Errorf("unknown target type %q", t.Type)
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("target ID is required")
	}
	return nil
}

// path returns the UI path for the target's given area ("updates", "documents", ...).
func (t Target) path(area string) string {
	return fmt.Sprintf("/%s/%s/%s", t.Type, t.ID, area)
}

// Client drives one Workfront tenant through one browser session.
type Client struct {
	session  *browser.Session
	resolver *locator.Resolver
	settings config.WorkfrontSettings
	log      *logging.Logger
}

// NewClient creates a client bound to an existing browser session. The
// settings must carry a base URL; everything else is optional.
func NewClient(session *browser.Session, resolver *locator.Resolver, settings config.WorkfrontSettings) (*Client, error) {
	if settings.BaseURL == "" {
		return nil, fmt.Errorf("workfront base URL is not configured")
	}

	log, _ := logging.NewLogger("workfront")
	return &Client{
		session:  session,
		resolver: resolver,
		settings: settings,
		log:      log,
	}, nil
}

// Session exposes the underlying browser session.
func (c *Client) Session() *browser.Session {
	return c.session
}

// url joins a UI path onto the tenant base URL.
func (c *Client) url(path string) string {
	return strings.TrimRight(c.settings.BaseURL, "/") + path
}

// open navigates to the target's area and waits for the object shell.
func (c *Client) open(ctx context.Context, target Target, area string) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if err := c.session.Navigate(c.url(target.path(area))); err != nil {
		return err
	}

	_, err := c.resolver.Resolve(ctx, c.session.ActivePage(), selObjectShell)
	if err != nil {
		return fmt.Errorf("%s %s did not render: %w", target.Type, target.ID, err)
	}
	return nil
}

// failureShot captures a screenshot after a failed operation when the
// config asks for one. Best effort: the original error always wins.
func (c *Client) failureShot(op string) {
	if !c.settings.ScreenshotOnFailure {
		return
	}

	dir := c.settings.ScreenshotsDir
	if dir == "" {
		dir = "screenshots"
	}
	name := fmt.Sprintf("%s-%s-%s.png", time.Now().Format("20060102-150405"), op, uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	if err := c.session.Screenshot(path); err != nil {
		c.log.Warnf("failure screenshot for %s skipped: %v", op, err)
		return
	}
	c.log.Infof("failure screenshot for %s written to %s", op, path)
}
