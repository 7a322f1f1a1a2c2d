package locator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/guhesse/script-wf-sub001/pkg/logging"
)

// Resolver resolves strategies against live pages under a retry policy.
type Resolver struct {
	policy    RetryPolicy
	threshold float64
	log       *logging.Logger
}

// NewResolver creates a resolver. threshold is the minimum similarity score
// a heuristic candidate must reach to be accepted; values outside (0, 1]
// fall back to the default.
func NewResolver(policy RetryPolicy, threshold float64) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}
	log, _ := logging.NewLogger("locator")
	return &Resolver{
		policy:    policy.withDefaults(),
		threshold: threshold,
		log:       log,
	}
}

// Resolve finds the element described by the strategy on the page. Every
// attempt walks the whole selector chain; heuristic discovery runs only on
// the final attempt so the fast path stays fast. Label-gated strategies
// never resolve to an element whose text misses the hint, so the wrong
// option is rejected here, before anything gets clicked.
func (r *Resolver) Resolve(ctx context.Context, page playwright.Page, strategy Strategy) (*Resolution, error) {
	labelGated := strategy.PickByLabel && strategy.Hint != ""
	var candidates []ScoredElement

	for attempt := 1; attempt <= r.policy.Attempts; attempt++ {
		for _, selector := range strategy.Selectors {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			err := page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
				State:   playwright.WaitForSelectorStateVisible,
				Timeout: playwright.Float(float64(r.policy.PerTryTimeout.Milliseconds())),
			})
			if err != nil {
				continue
			}

			if labelGated {
				res, scored := r.matchByLabel(page, selector, strategy)
				candidates = append(candidates, scored...)
				if res != nil {
					res.Attempt = attempt
					return res, nil
				}
				continue
			}

			if attempt > 1 {
				r.log.Debugf("%s: matched %q on attempt %d", strategy.Name, selector, attempt)
			}
			return &Resolution{Selector: selector, Attempt: attempt}, nil
		}

		if attempt == r.policy.Attempts && strategy.Hint != "" {
			if res, scored := r.discover(page, strategy); res != nil {
				res.Attempt = attempt
				return res, nil
			} else {
				candidates = append(candidates, scored...)
			}
		}

		if attempt < r.policy.Attempts {
			r.log.Debugf("%s: chain exhausted on attempt %d, retrying", strategy.Name, attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.policy.delayFor(attempt)):
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return nil, &NotFoundError{
		Strategy:   strategy.Name,
		Selectors:  strategy.Selectors,
		Attempts:   r.policy.Attempts,
		Candidates: topCandidates(candidates, 5),
	}
}

// matchByLabel scores every element the selector currently matches against
// the hint and returns the best one at or above the threshold. Below the
// threshold nothing is picked; the scored elements feed the NotFoundError
// so the caller sees which labels were actually on offer.
func (r *Resolver) matchByLabel(page playwright.Page, selector string, strategy Strategy) (*Resolution, []ScoredElement) {
	matches, err := page.Locator(selector).All()
	if err != nil || len(matches) == 0 {
		return nil, nil
	}

	bestIndex := -1
	var bestScore float64
	scored := make([]ScoredElement, 0, len(matches))
	for i, match := range matches {
		text, err := match.InnerText()
		if err != nil {
			continue
		}
		score := similarity(text, strategy.Hint)
		scored = append(scored, ScoredElement{
			Element: PageElement{Selector: selector, Text: strings.TrimSpace(text)},
			Score:   score,
		})
		if score > bestScore {
			bestScore, bestIndex = score, i
		}
	}

	if bestIndex >= 0 && bestScore >= r.threshold {
		r.log.Debugf("%s: label %q matched match %d of %q (score %.2f)",
			strategy.Name, strategy.Hint, bestIndex, selector, bestScore)
		return &Resolution{Selector: selector, Index: bestIndex, Score: bestScore}, scored
	}
	return nil, scored
}

// discover harvests the page's interactive elements and accepts the best
// hint match above the threshold.
func (r *Resolver) discover(page playwright.Page, strategy Strategy) (*Resolution, []ScoredElement) {
	elements, err := harvestElements(page)
	if err != nil {
		r.log.Warnf("%s: %v", strategy.Name, err)
		return nil, nil
	}

	scored := rankByHint(elements, strategy.Hint)
	if len(scored) > 0 && scored[0].Score >= r.threshold {
		best := scored[0]
		r.log.Infof("%s: heuristic match %q for hint %q (score %.2f)",
			strategy.Name, best.Element.Selector, strategy.Hint, best.Score)
		return &Resolution{
			Selector:  best.Element.Selector,
			Heuristic: true,
			Score:     best.Score,
		}, scored
	}

	return nil, scored
}

// Click resolves the strategy and clicks the matched element, then waits
// for the page to settle. The settle wait is best-effort: Workfront keeps
// background requests open, so a networkidle timeout is not a failure.
func (r *Resolver) Click(ctx context.Context, page playwright.Page, strategy Strategy) (*Resolution, error) {
	res, err := r.Resolve(ctx, page, strategy)
	if err != nil {
		return nil, err
	}

	if err := page.Locator(res.Selector).Nth(res.Index).Click(); err != nil {
		return nil, fmt.Errorf("click on %q failed: %w", strategy.Name, err)
	}

	r.settle(page)
	return res, nil
}

// Fill resolves the strategy, clears the matched input, and fills it.
func (r *Resolver) Fill(ctx context.Context, page playwright.Page, strategy Strategy, value string) (*Resolution, error) {
	res, err := r.Resolve(ctx, page, strategy)
	if err != nil {
		return nil, err
	}

	input := page.Locator(res.Selector).Nth(res.Index)
	if err := input.Clear(); err != nil {
		return nil, fmt.Errorf("clear of %q failed: %w", strategy.Name, err)
	}
	if err := input.Fill(value); err != nil {
		return nil, fmt.Errorf("fill of %q failed: %w", strategy.Name, err)
	}

	return res, nil
}

// Type resolves the strategy and types into it key by key. Workfront's
// typeahead fields ignore programmatic fills, so mentions and recipient
// pickers need real key events.
func (r *Resolver) Type(ctx context.Context, page playwright.Page, strategy Strategy, text string, delay time.Duration) (*Resolution, error) {
	res, err := r.Resolve(ctx, page, strategy)
	if err != nil {
		return nil, err
	}

	opts := playwright.LocatorPressSequentiallyOptions{}
	if delay > 0 {
		opts.Delay = playwright.Float(float64(delay.Milliseconds()))
	}
	if err := page.Locator(res.Selector).Nth(res.Index).PressSequentially(text, opts); err != nil {
		return nil, fmt.Errorf("typing into %q failed: %w", strategy.Name, err)
	}

	return res, nil
}

// WaitGone waits until no selector in the chain matches a visible element.
// Used for spinners and upload progress markers.
func (r *Resolver) WaitGone(ctx context.Context, page playwright.Page, strategy Strategy, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		visible := false
		for _, selector := range strategy.Selectors {
			count, err := page.Locator(selector).Count()
			if err == nil && count > 0 {
				if vis, err := page.Locator(selector).First().IsVisible(); err == nil && vis {
					visible = true
					break
				}
			}
		}

		if !visible {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%q still visible after %s", strategy.Name, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// settle gives the client-side router a moment to finish after a click.
func (r *Resolver) settle(page playwright.Page) {
	_ = page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(3000),
	})
}
