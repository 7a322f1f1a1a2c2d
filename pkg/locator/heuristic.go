package locator

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ScoredElement pairs a harvested element with its similarity to a hint.
type ScoredElement struct {
	Element PageElement
	Score   float64
}

// similarity returns a normalized edit-distance similarity in [0, 1]:
// 1 is an exact match after folding case and whitespace.
func similarity(a, b string) float64 {
	a = normalizeLabel(a)
	b = normalizeLabel(b)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	// A label that contains the hint whole is nearly as good as equality;
	// Workfront buttons often decorate labels ("Share", "Share document...").
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}

	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// normalizeLabel folds case and collapses runs of whitespace.
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// scoreElement rates one element against the hint over its visible text
// and labeling attributes, taking the best.
func scoreElement(el PageElement, hint string) float64 {
	best := similarity(el.Text, hint)

	for _, attr := range []string{"aria-label", "title", "placeholder", "name", "data-testid"} {
		if v, ok := el.Attributes[attr]; ok {
			if s := similarity(v, hint); s > best {
				best = s
			}
		}
	}

	return best
}

// rankByHint scores every visible, clickable element against the hint and
// returns them best-first. Elements that score zero are dropped.
func rankByHint(elements []PageElement, hint string) []ScoredElement {
	scored := make([]ScoredElement, 0, len(elements))
	for _, el := range elements {
		if !el.IsVisible || !el.IsClickable {
			continue
		}
		if score := scoreElement(el, hint); score > 0 {
			scored = append(scored, ScoredElement{Element: el, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// topCandidates returns at most n of the best-scored elements.
func topCandidates(scored []ScoredElement, n int) []ScoredElement {
	if len(scored) <= n {
		return scored
	}
	return scored[:n]
}
