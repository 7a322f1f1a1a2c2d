package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/guhesse/script-wf-sub001/pkg/logging"
)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastUsedAt = time.Now()
}

// LastUsed returns the timestamp of the last operation on this session.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastUsedAt
}

// ActivePage returns the page operations currently target. Workfront tab
// handling keeps this pointed at the newest open page.
func (s *Session) ActivePage() playwright.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// PageCount returns the number of open pages in this session.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// SwitchToPage makes the page at the given index the active page.
func (s *Session) SwitchToPage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.pages) {
		return fmt.Errorf("invalid page index %d (open pages: %d)", index, len(s.pages))
	}

	s.page = s.pages[index]
	return nil
}

// Navigate navigates the active page to the given URL and waits for the
// network to go idle, which is when Workfront's client-side router settles.
func (s *Session) Navigate(url string) error {
	s.UpdateLastUsed()

	_, err := s.ActivePage().Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// CurrentURL returns the URL of the active page.
func (s *Session) CurrentURL() string {
	return s.ActivePage().URL()
}

// Screenshot captures the active page into the given path, creating parent
// directories as needed.
func (s *Session) Screenshot(path string) error {
	s.UpdateLastUsed()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create screenshot directory: %w", err)
		}
	}

	_, err := s.ActivePage().Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// ExpectDownload runs trigger and waits for the download it starts.
func (s *Session) ExpectDownload(trigger func() error) (playwright.Download, error) {
	s.UpdateLastUsed()

	download, err := s.ActivePage().ExpectDownload(trigger)
	if err != nil {
		return nil, fmt.Errorf("download did not start: %w", err)
	}
	return download, nil
}

// SetInputFiles attaches the given local files to the file input matching
// selector. Files are loaded into memory so hidden inputs work regardless
// of how the file chooser is wired.
func (s *Session) SetInputFiles(selector string, paths []string) error {
	s.UpdateLastUsed()

	files := make([]playwright.InputFile, 0, len(paths))
	for _, path := range paths {
		buf, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read upload file %s: %w", path, err)
		}
		files = append(files, playwright.InputFile{
			Name:     filepath.Base(path),
			MimeType: "application/octet-stream",
			Buffer:   buf,
		})
	}

	if err := s.ActivePage().Locator(selector).SetInputFiles(files); err != nil {
		return fmt.Errorf("failed to set input files: %w", err)
	}
	return nil
}

// Info returns metadata about this session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionInfo{
		Name:       s.Name,
		CurrentURL: s.page.URL(),
		Headless:   s.Headless,
		PageCount:  len(s.pages),
		CreatedAt:  s.CreatedAt,
		LastUsedAt: s.LastUsedAt,
	}
}

// SaveState persists the context's storage state back to the session's
// state file. Errors from an already-closed browser are swallowed: teardown
// often races tab close events and there is nothing left to save.
func (s *Session) SaveState() error {
	if s.Context == nil || s.StorageStatePath == "" {
		return nil
	}

	if _, err := s.Context.StorageState(s.StorageStatePath); err != nil {
		if isClosedTargetErr(err) {
			return nil
		}
		return fmt.Errorf("failed to save storage state: %w", err)
	}
	return nil
}

// trackPage registers a newly opened page and makes it the active page.
func (s *Session) trackPage(page playwright.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages = append(s.pages, page)
	s.page = page
}

// attachPageHandlers wires the dialog auto-accept and close bookkeeping a
// tracked page needs. Workfront throws confirm() dialogs on destructive
// actions; unattended runs always accept them.
func (s *Session) attachPageHandlers(page playwright.Page) {
	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	page.OnClose(func(closed playwright.Page) {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, p := range s.pages {
			if p == closed {
				s.pages = append(s.pages[:i], s.pages[i+1:]...)
				break
			}
		}

		if s.page == closed && len(s.pages) > 0 {
			s.page = s.pages[len(s.pages)-1]
		}
	})
}

// close releases the session's browser resources, saving state first.
func (s *Session) close(log *logging.Logger) {
	if err := s.SaveState(); err != nil {
		log.Warnf("session %q: %v", s.Name, err)
	}

	if s.Context != nil {
		if err := s.Context.Close(); err != nil && !isClosedTargetErr(err) {
			log.Warnf("session %q: failed to close context: %v", s.Name, err)
		}
		s.Context = nil
	}

	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil && !isClosedTargetErr(err) {
			log.Warnf("session %q: failed to close browser: %v", s.Name, err)
		}
		s.Browser = nil
	}
}
