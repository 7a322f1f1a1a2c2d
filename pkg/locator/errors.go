package locator

import (
	"fmt"
	"strings"
)

// NotFoundError reports a strategy whose selector chain and heuristic
// discovery both failed. It carries the near-miss candidates so the log
// line alone is usually enough to repair the selector table.
type NotFoundError struct {
	Strategy   string
	Selectors  []string
	Attempts   int
	Candidates []ScoredElement
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "element %q not found after %d attempts (tried %s)",
		e.Strategy, e.Attempts, strings.Join(e.Selectors, ", "))

	if len(e.Candidates) > 0 {
		b.WriteString("; nearest visible elements:")
		for _, c := range e.Candidates {
			label := c.Element.Text
			if label == "" {
				label = c.Element.Attributes["aria-label"]
			}
			fmt.Fprintf(&b, " %s (%q, score %.2f)", c.Element.Selector, label, c.Score)
		}
	} else {
		b.WriteString("; the element may not exist on this page or the page structure has changed")
	}

	return b.String()
}
