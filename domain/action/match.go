package action

import (
	"slices"
	"strings"

	"github.com/product-analytics/domain/event"
)

// HasElementCriteria reports whether the step filters on the event's elements.
func (s Step) HasElementCriteria() bool {
	return s.TagName != "" || s.Text != "" || s.Href != "" || s.Selector != ""
}

// Matches reports whether e satisfies every criterion of the step. The URL
// criterion is a substring match on $current_url. Element criteria must hold
// on one element, which also anchors the innermost selector part; outer
// selector parts match the elements with the following orders.
func (s Step) Matches(e *event.Event) bool {
	if s.Event != "" && e.Event != s.Event {
		return false
	}
	if s.URL != "" && !strings.Contains(e.CurrentURL(), s.URL) {
		return false
	}
	if !s.HasElementCriteria() {
		return true
	}

	var parts []SelectorPart
	if s.Selector != "" {
		var err error
		if parts, err = ParseSelector(s.Selector); err != nil {
			return false
		}
	}

	for _, el := range e.Elements {
		if s.elementMatches(el) && chainMatches(e, el, parts) {
			return true
		}
	}
	return false
}

func (s Step) elementMatches(el event.Element) bool {
	if s.TagName != "" && el.TagName != s.TagName {
		return false
	}
	if s.Text != "" && el.Text != s.Text {
		return false
	}
	if s.Href != "" && el.Href != s.Href {
		return false
	}
	return true
}

func chainMatches(e *event.Event, anchor event.Element, parts []SelectorPart) bool {
	for i, part := range parts {
		el := anchor
		if i > 0 {
			var ok bool
			if el, ok = e.ElementAt(anchor.Order + int32(i)); !ok {
				return false
			}
		}
		if !part.Matches(el) {
			return false
		}
	}
	return true
}

func (p SelectorPart) Matches(el event.Element) bool {
	if p.TagName != "" && el.TagName != p.TagName {
		return false
	}
	if p.NthChild != 0 && el.NthChild != p.NthChild {
		return false
	}
	if p.AttrID != "" && el.AttrID != p.AttrID {
		return false
	}
	for _, c := range p.Classes {
		if !slices.Contains(el.AttrClass, c) {
			return false
		}
	}
	return true
}

// Matches is true when any step matches. An action without steps matches nothing.
func (a *Action) Matches(e *event.Event) bool {
	for _, s := range a.Steps {
		if s.Matches(e) {
			return true
		}
	}
	return false
}

// MatchingActions returns the actions that match e, in the given order.
func MatchingActions(actions []*Action, e *event.Event) []*Action {
	out := make([]*Action, 0)
	for _, a := range actions {
		if a.Matches(e) {
			out = append(out, a)
		}
	}
	return out
}
