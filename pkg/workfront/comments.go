package workfront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/guhesse/script-wf-sub001/pkg/locator"
)

// Comment is one entry from a target's updates stream.
type Comment struct {
	Author string `json:"author,omitempty"`
	Age    string `json:"age,omitempty"`
	Text   string `json:"text"`
}

// AddComment posts a comment on the target's updates stream. Each mention
// is typed into the editor as @name and resolved through the mention
// typeahead, so mentioned users get notified.
func (c *Client) AddComment(ctx context.Context, target Target, text string, mentions []string) error {
	if strings.TrimSpace(text) == "" && len(mentions) == 0 {
		return fmt.Errorf("comment text is required")
	}

	if err := c.open(ctx, target, "updates"); err != nil {
		c.failureShot("add-comment")
		return fmt.Errorf("comment on %s %s: %w", target.Type, target.ID, err)
	}

	page := c.session.ActivePage()

	// Focus the editor first; Workfront collapses it until clicked.
	if _, err := c.resolver.Click(ctx, page, selCommentEditor); err != nil {
		c.failureShot("add-comment")
		return fmt.Errorf("open comment editor: %w", err)
	}

	for _, mention := range mentions {
		if err := c.addMention(ctx, page, mention); err != nil {
			c.failureShot("add-comment")
			return err
		}
	}

	if text != "" {
		if _, err := c.resolver.Type(ctx, page, selCommentEditor, text, 15*time.Millisecond); err != nil {
			c.failureShot("add-comment")
			return fmt.Errorf("type comment: %w", err)
		}
	}

	if _, err := c.resolver.Click(ctx, page, selCommentSubmit); err != nil {
		c.failureShot("add-comment")
		return fmt.Errorf("submit comment: %w", err)
	}
	if _, err := c.resolver.Resolve(ctx, page, selCommentEntry); err != nil {
		c.failureShot("add-comment")
		return fmt.Errorf("comment not confirmed in stream: %w", err)
	}

	c.log.Infof("comment posted on %s %s (%d mentions)", target.Type, target.ID, len(mentions))
	return nil
}

// addMention types @name into the editor and picks the matching suggestion.
func (c *Client) addMention(ctx context.Context, page playwright.Page, mention string) error {
	if _, err := c.resolver.Type(ctx, page, selCommentEditor, "@"+mention, 40*time.Millisecond); err != nil {
		return fmt.Errorf("type mention %q: %w", mention, err)
	}
	if _, err := c.resolver.Click(ctx, page, selMentionSuggestion.WithHint(mention)); err != nil {
		return fmt.Errorf("no user matched mention %q: %w", mention, err)
	}
	// The picked suggestion replaces the typed text; a trailing space
	// keeps the next keystroke out of the mention token.
	if _, err := c.resolver.Type(ctx, page, selCommentEditor, " ", 0); err != nil {
		return fmt.Errorf("finish mention %q: %w", mention, err)
	}
	return nil
}

// ListComments reads up to limit entries from the target's updates stream,
// newest first. A limit of 0 means all rendered entries.
func (c *Client) ListComments(ctx context.Context, target Target, limit int) ([]Comment, error) {
	if err := c.open(ctx, target, "updates"); err != nil {
		c.failureShot("list-comments")
		return nil, fmt.Errorf("list comments on %s %s: %w", target.Type, target.ID, err)
	}

	page := c.session.ActivePage()
	res, err := c.resolver.Resolve(ctx, page, selCommentEntry)
	if err != nil {
		// An empty stream renders no entries at all; every other failure
		// (cancellation, teardown) is a real error, not zero comments.
		if streamEmpty(err) {
			c.log.Infof("no comments found on %s %s", target.Type, target.ID)
			return nil, nil
		}
		return nil, fmt.Errorf("read comments on %s %s: %w", target.Type, target.ID, err)
	}

	entries, err := page.Locator(res.Selector).All()
	if err != nil {
		return nil, fmt.Errorf("read comment entries: %w", err)
	}

	comments := make([]Comment, 0, len(entries))
	for _, entry := range entries {
		if limit > 0 && len(comments) >= limit {
			break
		}
		comment, err := readComment(entry)
		if err != nil {
			c.log.Warnf("skipping unreadable comment entry: %v", err)
			continue
		}
		if comment.Text == "" && comment.Author == "" {
			continue
		}
		comments = append(comments, comment)
	}

	c.log.Infof("read %d comments from %s %s", len(comments), target.Type, target.ID)
	return comments, nil
}

// streamEmpty reports whether a resolve failure means the updates stream
// simply has no entries.
func streamEmpty(err error) bool {
	var notFound *locator.NotFoundError
	return errors.As(err, &notFound)
}

// readComment extracts author, age, and plain text from one entry node.
func readComment(entry playwright.Locator) (Comment, error) {
	var comment Comment

	comment.Author = firstInnerText(entry, []string{
		"[data-testid='comment-author']",
		"[data-testid='update-author']",
		".comment-author",
	})
	comment.Age = firstInnerText(entry, []string{
		"[data-testid='comment-timestamp']",
		"time",
		".comment-age",
	})

	raw, err := entry.InnerHTML()
	if err != nil {
		return comment, fmt.Errorf("inner HTML: %w", err)
	}
	comment.Text = htmlToText(raw)
	return comment, nil
}

// firstInnerText returns the trimmed text of the first child selector that
// matches, or "".
func firstInnerText(entry playwright.Locator, selectors []string) string {
	for _, sel := range selectors {
		child := entry.Locator(sel).First()
		count, err := entry.Locator(sel).Count()
		if err != nil || count == 0 {
			continue
		}
		text, err := child.InnerText()
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}
