package locator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage drives the resolver without a browser. visible marks selectors
// whose first match reports visible; texts holds the inner text of every
// match for a selector; harvest is what element discovery returns.
type fakePage struct {
	playwright.Page
	visible  map[string]bool
	texts    map[string][]string
	harvest  []map[string]interface{}
	harvests int
	clicks   []string
}

func (p *fakePage) Locator(selector string, _ ...playwright.PageLocatorOptions) playwright.Locator {
	return &fakeLocator{page: p, selector: selector}
}

func (p *fakePage) Evaluate(_ string, _ ...interface{}) (interface{}, error) {
	p.harvests++
	out := make([]interface{}, 0, len(p.harvest))
	for _, el := range p.harvest {
		out = append(out, el)
	}
	return out, nil
}

func (p *fakePage) WaitForLoadState(_ ...playwright.PageWaitForLoadStateOptions) error {
	return nil
}

// playwrightLocator is an alias so the embedded field's name does not shadow
// the interface's own Locator method, which would break interface satisfaction.
type playwrightLocator = playwright.Locator

type fakeLocator struct {
	playwrightLocator
	page     *fakePage
	selector string
	index    int
}

func (l *fakeLocator) First() playwright.Locator {
	return &fakeLocator{page: l.page, selector: l.selector}
}

func (l *fakeLocator) Nth(index int) playwright.Locator {
	return &fakeLocator{page: l.page, selector: l.selector, index: index}
}

func (l *fakeLocator) WaitFor(_ ...playwright.LocatorWaitForOptions) error {
	if l.page.visible[l.selector] {
		return nil
	}
	return errors.New("timeout waiting for selector to be visible")
}

func (l *fakeLocator) All() ([]playwright.Locator, error) {
	texts := l.page.texts[l.selector]
	matches := make([]playwright.Locator, len(texts))
	for i := range texts {
		matches[i] = &fakeLocator{page: l.page, selector: l.selector, index: i}
	}
	return matches, nil
}

func (l *fakeLocator) InnerText(_ ...playwright.LocatorInnerTextOptions) (string, error) {
	texts := l.page.texts[l.selector]
	if l.index >= len(texts) {
		return "", errors.New("no match at index")
	}
	return texts[l.index], nil
}

func (l *fakeLocator) Click(_ ...playwright.LocatorClickOptions) error {
	l.page.clicks = append(l.page.clicks, fmt.Sprintf("%s#%d", l.selector, l.index))
	return nil
}

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		Attempts:      attempts,
		Delay:         time.Millisecond,
		Backoff:       1,
		PerTryTimeout: time.Millisecond,
	}
}

func TestResolveLabelGatePicksRequestedOption(t *testing.T) {
	page := &fakePage{
		visible: map[string]bool{"[data-testid='status-option']": true},
		texts: map[string][]string{
			"[data-testid='status-option']": {"Planning", "In Progress", "Complete"},
		},
	}
	strategy := Strategy{
		Name:        "status.option",
		Selectors:   []string{"[data-testid='status-option']", "li[role='option']"},
		Hint:        "Complete",
		PickByLabel: true,
	}

	r := NewResolver(fastPolicy(2), 0.6)
	res, err := r.Resolve(context.Background(), page, strategy)
	require.NoError(t, err)

	assert.Equal(t, "[data-testid='status-option']", res.Selector)
	assert.Equal(t, 2, res.Index)
	assert.False(t, res.Heuristic)
	assert.InDelta(t, 1.0, res.Score, 0.001)
	assert.Zero(t, page.harvests, "chain label match must not trigger discovery")
}

func TestResolveLabelGateRejectsBelowThreshold(t *testing.T) {
	page := &fakePage{
		visible: map[string]bool{"li[role='option']": true},
		texts: map[string][]string{
			"li[role='option']": {"Planning", "On Hold"},
		},
	}
	strategy := Strategy{
		Name:        "status.option",
		Selectors:   []string{"li[role='option']"},
		Hint:        "Complete",
		PickByLabel: true,
	}

	r := NewResolver(fastPolicy(2), 0.6)
	_, err := r.Resolve(context.Background(), page, strategy)
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NotEmpty(t, notFound.Candidates)
	assert.Contains(t, err.Error(), "Planning")
	assert.Empty(t, page.clicks, "a mismatched option list must not be clicked")
}

func TestClickPicksLabelGatedMatch(t *testing.T) {
	page := &fakePage{
		visible: map[string]bool{"li[role='option']": true},
		texts: map[string][]string{
			"li[role='option']": {"View", "Manage", "Contribute"},
		},
	}
	strategy := Strategy{
		Name:        "share-dialog.access-option",
		Selectors:   []string{"li[role='option']"},
		Hint:        "Manage",
		PickByLabel: true,
	}

	r := NewResolver(fastPolicy(1), 0.6)
	_, err := r.Click(context.Background(), page, strategy)
	require.NoError(t, err)

	assert.Equal(t, []string{"li[role='option']#1"}, page.clicks)
}

func TestResolveChainMatchWithoutGate(t *testing.T) {
	page := &fakePage{
		visible: map[string]bool{"button[type='submit']": true},
	}
	strategy := Strategy{
		Name:      "share-dialog.submit",
		Selectors: []string{"[data-testid='share-save-button']", "button[type='submit']"},
	}

	r := NewResolver(fastPolicy(3), 0.6)
	res, err := r.Resolve(context.Background(), page, strategy)
	require.NoError(t, err)

	assert.Equal(t, "button[type='submit']", res.Selector)
	assert.Equal(t, 1, res.Attempt)
	assert.Zero(t, res.Index)
}

func TestResolveCancelledContext(t *testing.T) {
	page := &fakePage{}
	strategy := Strategy{Name: "toast.success", Selectors: []string{"[role='alert']"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(fastPolicy(3), 0.6)
	_, err := r.Resolve(ctx, page, strategy)
	require.ErrorIs(t, err, context.Canceled)

	var notFound *NotFoundError
	assert.False(t, errors.As(err, &notFound))
}

func TestResolveHeuristicRunsOnlyOnFinalAttempt(t *testing.T) {
	page := &fakePage{
		harvest: []map[string]interface{}{
			{
				"type":        "button",
				"selector":    "[data-testid='submit-button']",
				"text":        "Submit",
				"isVisible":   true,
				"isClickable": true,
			},
		},
	}
	strategy := Strategy{
		Name:      "updates.submit",
		Selectors: []string{"[data-testid='update-submit-button']"},
		Hint:      "Submit",
	}

	r := NewResolver(fastPolicy(3), 0.6)
	res, err := r.Resolve(context.Background(), page, strategy)
	require.NoError(t, err)

	assert.True(t, res.Heuristic)
	assert.Equal(t, 3, res.Attempt)
	assert.Equal(t, "[data-testid='submit-button']", res.Selector)
	assert.InDelta(t, 1.0, res.Score, 0.001)
	assert.Equal(t, 1, page.harvests, "discovery must wait for the final attempt")
}

func TestResolveNotFoundCarriesNearMisses(t *testing.T) {
	page := &fakePage{
		harvest: []map[string]interface{}{
			{
				"type":        "button",
				"selector":    "button.summary",
				"text":        "Summary",
				"isVisible":   true,
				"isClickable": true,
			},
		},
	}
	strategy := Strategy{
		Name:      "updates.submit",
		Selectors: []string{"[data-testid='update-submit-button']"},
		Hint:      "Submit",
	}

	r := NewResolver(fastPolicy(2), 0.9)
	_, err := r.Resolve(context.Background(), page, strategy)
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NotEmpty(t, notFound.Candidates)
	assert.Equal(t, "button.summary", notFound.Candidates[0].Element.Selector)
	assert.Greater(t, notFound.Candidates[0].Score, 0.0)
	assert.Less(t, notFound.Candidates[0].Score, 0.9)
}
