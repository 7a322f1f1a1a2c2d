package locator

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// PageElement is one interactive element harvested from the live page.
type PageElement struct {
	Type        string
	Selector    string
	Text        string
	Attributes  map[string]string
	IsVisible   bool
	IsClickable bool
}

// harvestScript walks the DOM for interactive elements and synthesizes a
// usable selector for each, preferring stable hooks (data-testid, id, name)
// over class names. Elements carrying test hooks sort first; the result is
// capped so a dense page does not flood the caller.
const harvestScript = `
() => {
	const interactive = [
		'button', 'a', 'input', 'select', 'textarea',
		'[role="button"]', '[role="menuitem"]', '[role="option"]',
		'[onclick]', '[data-testid]', '[aria-label]', '[contenteditable="true"]'
	];

	const elements = [];
	const seen = new Set();

	interactive.forEach(group => {
		document.querySelectorAll(group).forEach(el => {
			const rect = el.getBoundingClientRect();
			const style = window.getComputedStyle(el);
			const visible = rect.width > 0 && rect.height > 0 &&
				style.display !== 'none' && style.visibility !== 'hidden';
			if (!visible) return;

			const tag = el.tagName.toLowerCase();
			const text = (el.textContent?.trim() || el.value || el.placeholder || '').substring(0, 200);

			let selector = tag;
			if (el.getAttribute('data-testid')) {
				selector = '[data-testid="' + el.getAttribute('data-testid') + '"]';
			} else if (el.id) {
				selector = '#' + el.id;
			} else if (el.getAttribute('name')) {
				selector = tag + '[name="' + el.getAttribute('name') + '"]';
			} else if (el.getAttribute('aria-label')) {
				selector = tag + '[aria-label="' + el.getAttribute('aria-label') + '"]';
			} else if (el.getAttribute('type')) {
				selector = tag + '[type="' + el.getAttribute('type') + '"]';
			} else if (typeof el.className === 'string' && el.className) {
				const classes = el.className.split(' ').filter(c => c).slice(0, 2).join('.');
				if (classes) selector = tag + '.' + classes;
			}

			if (seen.has(selector)) return;
			seen.add(selector);

			const attributes = {};
			Array.from(el.attributes).forEach(attr => {
				if (attr.name.startsWith('data-') || attr.name.startsWith('aria-') ||
					['id', 'name', 'type', 'role', 'title', 'placeholder'].includes(attr.name)) {
					attributes[attr.name] = attr.value;
				}
			});

			elements.push({
				type: tag,
				selector: selector,
				text: text,
				attributes: attributes,
				isVisible: visible,
				isClickable: el.disabled !== true
			});
		});
	});

	const hooked = elements.filter(e => e.selector.includes('data-testid') || e.selector.startsWith('#'));
	const rest = elements.filter(e => !hooked.includes(e));
	return hooked.concat(rest).slice(0, 100);
}
`

// harvestElements extracts the interactive elements currently on the page.
func harvestElements(page playwright.Page) ([]PageElement, error) {
	result, err := page.Evaluate(harvestScript)
	if err != nil {
		return nil, fmt.Errorf("element harvest failed: %w", err)
	}

	raw, ok := result.([]interface{})
	if !ok {
		return nil, nil
	}

	elements := make([]PageElement, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		elements = append(elements, elementFromMap(m))
	}

	return elements, nil
}

// elementFromMap converts one harvested record into a PageElement.
func elementFromMap(m map[string]interface{}) PageElement {
	element := PageElement{
		Type:        getString(m, "type"),
		Selector:    getString(m, "selector"),
		Text:        getString(m, "text"),
		Attributes:  make(map[string]string),
		IsVisible:   getBool(m, "isVisible"),
		IsClickable: getBool(m, "isClickable"),
	}

	if attrs, ok := m["attributes"].(map[string]interface{}); ok {
		for k, v := range attrs {
			if str, ok := v.(string); ok {
				element.Attributes[k] = str
			}
		}
	}

	return element
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
