package workfront

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/playwright-community/playwright-go"
)

// uploadWaitPerFile bounds how long the upload progress indicator may
// stay visible for each file before the operation is declared stuck.
const uploadWaitPerFile = 30 * time.Second

// UploadResult reports the outcome for one expanded file.
type UploadResult struct {
	File     string `json:"file"`
	Uploaded bool   `json:"uploaded"`
	Error    string `json:"error,omitempty"`
}

// UploadDocuments expands the given path patterns, uploads every match to
// the target's documents area, and waits until each file shows up in the
// document list. Patterns without glob metacharacters are treated as
// literal paths and must exist.
func (c *Client) UploadDocuments(ctx context.Context, target Target, patterns []string) ([]UploadResult, error) {
	files, err := expandPatterns(patterns)
	if err != nil {
		return nil, err
	}

	if err := c.open(ctx, target, "documents"); err != nil {
		c.failureShot("upload-documents")
		return nil, fmt.Errorf("upload to %s %s: %w", target.Type, target.ID, err)
	}

	page := c.session.ActivePage()

	// The file input only exists once the add menu has been opened.
	if _, err := c.resolver.Click(ctx, page, selDocAddButton); err != nil {
		c.failureShot("upload-documents")
		return nil, fmt.Errorf("open add-document menu: %w", err)
	}
	if _, err := c.resolver.Click(ctx, page, selDocUploadMenuItem); err != nil {
		c.failureShot("upload-documents")
		return nil, fmt.Errorf("pick document upload: %w", err)
	}

	inputSel, err := findAttached(page, selDocFileInput.Selectors)
	if err != nil {
		c.failureShot("upload-documents")
		return nil, fmt.Errorf("locate upload input: %w", err)
	}
	if err := c.session.SetInputFiles(inputSel, files); err != nil {
		c.failureShot("upload-documents")
		return nil, fmt.Errorf("attach files: %w", err)
	}

	wait := uploadWaitPerFile * time.Duration(len(files))
	if err := c.resolver.WaitGone(ctx, page, selDocUploadProgress, wait); err != nil {
		c.failureShot("upload-documents")
		return nil, fmt.Errorf("upload did not finish: %w", err)
	}

	results := make([]UploadResult, 0, len(files))
	for _, file := range files {
		res := UploadResult{File: file}
		name := filepath.Base(file)
		row := page.GetByText(name).First()
		if err := row.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(10_000),
		}); err != nil {
			res.Error = fmt.Sprintf("%s not listed after upload", name)
			c.log.Warnf("upload of %s not confirmed: %v", name, err)
		} else {
			res.Uploaded = true
			c.log.Infof("uploaded %s to %s %s", name, target.Type, target.ID)
		}
		results = append(results, res)
	}
	return results, nil
}

// DownloadDocument finds the named document in the target's documents area
// and downloads it into destDir. It returns the path of the saved file.
func (c *Client) DownloadDocument(ctx context.Context, target Target, name, destDir string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("document name is required")
	}

	if err := c.open(ctx, target, "documents"); err != nil {
		c.failureShot("download-document")
		return "", fmt.Errorf("download from %s %s: %w", target.Type, target.ID, err)
	}

	page := c.session.ActivePage()
	if err := c.selectDocumentRow(ctx, page, name); err != nil {
		c.failureShot("download-document")
		return "", err
	}

	if _, err := c.resolver.Click(ctx, page, selDocRowMenu); err != nil {
		c.failureShot("download-document")
		return "", fmt.Errorf("open menu for %q: %w", name, err)
	}

	download, err := c.session.ExpectDownload(func() error {
		_, err := c.resolver.Click(ctx, page, selDocDownloadItem)
		return err
	})
	if err != nil {
		c.failureShot("download-document")
		return "", fmt.Errorf("download %q: %w", name, err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	dest := filepath.Join(destDir, download.SuggestedFilename())
	if err := download.SaveAs(dest); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("save %q: %w", name, err)
	}

	c.log.Infof("downloaded %q to %s", name, dest)
	return dest, nil
}

// ShareOptions controls how ShareDocument grants access.
type ShareOptions struct {
	// Recipients are resolved through the share dialog's typeahead; each
	// one must produce at least one suggestion.
	Recipients []string
	// AccessLevel is the label of the access option to pick ("View",
	// "Manage", ...). Empty keeps the dialog's default.
	AccessLevel string
}

// ShareDocument opens the share dialog for the named document and grants
// the requested recipients access.
func (c *Client) ShareDocument(ctx context.Context, target Target, name string, opts ShareOptions) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("document name is required")
	}
	if len(opts.Recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	if err := c.open(ctx, target, "documents"); err != nil {
		c.failureShot("share-document")
		return fmt.Errorf("share on %s %s: %w", target.Type, target.ID, err)
	}

	page := c.session.ActivePage()
	if err := c.selectDocumentRow(ctx, page, name); err != nil {
		c.failureShot("share-document")
		return err
	}

	if _, err := c.resolver.Click(ctx, page, selDocRowMenu); err != nil {
		c.failureShot("share-document")
		return fmt.Errorf("open menu for %q: %w", name, err)
	}
	if _, err := c.resolver.Click(ctx, page, selDocShareItem); err != nil {
		c.failureShot("share-document")
		return fmt.Errorf("open share dialog for %q: %w", name, err)
	}
	if _, err := c.resolver.Resolve(ctx, page, selShareDialog); err != nil {
		c.failureShot("share-document")
		return fmt.Errorf("share dialog did not render: %w", err)
	}

	for _, recipient := range opts.Recipients {
		if err := c.addRecipient(ctx, page, recipient); err != nil {
			c.failureShot("share-document")
			return err
		}
	}

	if opts.AccessLevel != "" {
		if _, err := c.resolver.Click(ctx, page, selShareAccessDropdown); err != nil {
			c.failureShot("share-document")
			return fmt.Errorf("open access dropdown: %w", err)
		}
		if _, err := c.resolver.Click(ctx, page, selShareAccessOption.WithHint(opts.AccessLevel)); err != nil {
			c.failureShot("share-document")
			return fmt.Errorf("pick access level %q: %w", opts.AccessLevel, err)
		}
	}

	if _, err := c.resolver.Click(ctx, page, selShareSubmit); err != nil {
		c.failureShot("share-document")
		return fmt.Errorf("submit share dialog: %w", err)
	}
	if _, err := c.resolver.Resolve(ctx, page, selSuccessToast); err != nil {
		c.failureShot("share-document")
		return fmt.Errorf("share of %q not confirmed: %w", name, err)
	}

	c.log.Infof("shared %q with %s", name, strings.Join(opts.Recipients, ", "))
	return nil
}

// addRecipient types one recipient into the share typeahead and picks the
// first matching suggestion.
func (c *Client) addRecipient(ctx context.Context, page playwright.Page, recipient string) error {
	// Real keystrokes so the typeahead fires its change events.
	if _, err := c.resolver.Type(ctx, page, selShareRecipientInput, recipient, 40*time.Millisecond); err != nil {
		return fmt.Errorf("type recipient %q: %w", recipient, err)
	}
	if _, err := c.resolver.Click(ctx, page, selShareSuggestion.WithHint(recipient)); err != nil {
		return fmt.Errorf("no suggestion matched %q: %w", recipient, err)
	}
	return nil
}

// selectDocumentRow clicks the row for the named document so that the row
// menu acts on it.
func (c *Client) selectDocumentRow(ctx context.Context, page playwright.Page, name string) error {
	if _, err := c.resolver.Resolve(ctx, page, selDocRow); err != nil {
		return fmt.Errorf("document list for %q did not render: %w", name, err)
	}

	row := page.GetByText(name).First()
	if err := row.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(10_000),
	}); err != nil {
		return fmt.Errorf("document %q not found in list", name)
	}
	if err := row.Click(); err != nil {
		return fmt.Errorf("select document %q: %w", name, err)
	}
	return nil
}

// findAttached returns the first selector from the chain that matches an
// element in the DOM, visible or not. Upload inputs stay hidden, so the
// usual visibility wait would never resolve them.
func findAttached(page playwright.Page, selectors []string) (string, error) {
	for _, sel := range selectors {
		count, err := page.Locator(sel).Count()
		if err == nil && count > 0 {
			return sel, nil
		}
	}
	return "", fmt.Errorf("no selector matched: %s", strings.Join(selectors, ", "))
}

// expandPatterns turns upload patterns into a sorted, de-duplicated list
// of existing files. Patterns support ** through glob matching rooted at
// the longest static path prefix.
func expandPatterns(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no upload patterns given")
	}

	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := expandPattern(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("no files matched patterns: %s", strings.Join(patterns, ", "))
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func expandPattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, fmt.Errorf("upload file %s: %w", pattern, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("upload file %s is a directory", pattern)
		}
		return []string{pattern}, nil
	}

	g, err := glob.Compile(filepath.ToSlash(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("bad upload pattern %q: %w", pattern, err)
	}

	root := staticPrefix(pattern)
	var matches []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if g.Match(filepath.ToSlash(path)) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan for %q: %w", pattern, err)
	}
	return matches, nil
}

// staticPrefix returns the deepest directory of the pattern that contains
// no glob metacharacters, the root the filesystem walk starts from.
func staticPrefix(pattern string) string {
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	var static []string
	for _, part := range parts {
		if strings.ContainsAny(part, "*?[{") {
			break
		}
		static = append(static, part)
	}
	if len(static) == 0 {
		return "."
	}
	root := strings.Join(static, "/")
	if len(static) == len(parts) {
		root = filepath.Dir(root)
	}
	if root == "" {
		return "."
	}
	return root
}
