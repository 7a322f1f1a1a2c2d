package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// loadStorageState reads an externally captured storage state file and
// converts it into the form a new browser context accepts. A missing file
// is not an error: the session simply starts unauthenticated.
func loadStorageState(path string) (*playwright.OptionalStorageState, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read storage state: %w", err)
	}

	var state playwright.StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse storage state: %w", err)
	}

	return state.ToOptionalStorageState(), nil
}

// isClosedTargetErr reports whether err is the noise Playwright produces
// when an operation races browser or tab teardown. Only the target-closed
// phrasings count: network errors also mention "closed" and must surface.
func isClosedTargetErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "target closed") ||
		strings.Contains(msg, "has been closed") ||
		strings.Contains(msg, "target page, context or browser")
}
