package workfront

import (
	"context"
	"fmt"
)

// OpenProject navigates to the project's overview page and waits for the
// project shell to render. Most operations call open themselves; this is
// the cheap way to verify a project ID and a session's authentication.
func (c *Client) OpenProject(ctx context.Context, projectID string) error {
	target := Target{Type: TargetProject, ID: projectID}

	if err := c.open(ctx, target, "overview"); err != nil {
		c.failureShot("open-project")
		return fmt.Errorf("open project %s: %w", projectID, err)
	}

	c.log.Infof("project %s opened at %s", projectID, c.session.CurrentURL())
	return nil
}
