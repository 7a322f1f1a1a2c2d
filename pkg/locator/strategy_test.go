package locator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_WithDefaults(t *testing.T) {
	t.Run("zero value gets full defaults", func(t *testing.T) {
		p := RetryPolicy{}.withDefaults()

		assert.Equal(t, defaultAttempts, p.Attempts)
		assert.Equal(t, defaultDelay, p.Delay)
		assert.Equal(t, defaultBackoff, p.Backoff)
		assert.Equal(t, defaultPerTryTimeout, p.PerTryTimeout)
	})

	t.Run("explicit values survive", func(t *testing.T) {
		p := RetryPolicy{
			Attempts:      5,
			Delay:         time.Second,
			Backoff:       2,
			PerTryTimeout: 10 * time.Second,
		}.withDefaults()

		assert.Equal(t, 5, p.Attempts)
		assert.Equal(t, time.Second, p.Delay)
		assert.Equal(t, 2.0, p.Backoff)
		assert.Equal(t, 10*time.Second, p.PerTryTimeout)
	})

	t.Run("backoff below one is replaced", func(t *testing.T) {
		p := RetryPolicy{Backoff: 0.5}.withDefaults()
		assert.Equal(t, defaultBackoff, p.Backoff)
	})
}

func TestRetryPolicy_DelayFor(t *testing.T) {
	p := RetryPolicy{
		Attempts: 4,
		Delay:    100 * time.Millisecond,
		Backoff:  2,
	}.withDefaults()

	assert.Equal(t, 100*time.Millisecond, p.delayFor(1))
	assert.Equal(t, 200*time.Millisecond, p.delayFor(2))
	assert.Equal(t, 400*time.Millisecond, p.delayFor(3))
}

func TestStrategy_WithHint(t *testing.T) {
	base := Strategy{
		Name:      "documents.row",
		Selectors: []string{"[data-testid='doc-row']"},
		Hint:      "",
	}

	hinted := base.WithHint("Q3 Launch Brief.pdf")

	assert.Equal(t, "Q3 Launch Brief.pdf", hinted.Hint)
	assert.Empty(t, base.Hint, "WithHint must not mutate the original")
	assert.Equal(t, base.Selectors, hinted.Selectors)
}

func TestNotFoundError_Message(t *testing.T) {
	t.Run("without candidates", func(t *testing.T) {
		err := &NotFoundError{
			Strategy:  "share-dialog.submit",
			Selectors: []string{"[data-testid='share-submit']", "button.share-submit"},
			Attempts:  3,
		}

		msg := err.Error()
		assert.Contains(t, msg, `"share-dialog.submit"`)
		assert.Contains(t, msg, "3 attempts")
		assert.Contains(t, msg, "[data-testid='share-submit']")
		assert.Contains(t, msg, "page structure has changed")
	})

	t.Run("with candidates", func(t *testing.T) {
		err := &NotFoundError{
			Strategy:  "status.control",
			Selectors: []string{"[data-testid='status-dropdown']"},
			Attempts:  2,
			Candidates: []ScoredElement{
				{
					Element: PageElement{Selector: "button.status-picker", Text: "Status: Current"},
					Score:   0.55,
				},
			},
		}

		msg := err.Error()
		assert.Contains(t, msg, "nearest visible elements")
		assert.Contains(t, msg, "button.status-picker")
		assert.Contains(t, msg, "0.55")
	})
}
