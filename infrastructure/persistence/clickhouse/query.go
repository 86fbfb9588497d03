package clickhouse

import (
	"fmt"
	"strings"

	"github.com/product-analytics/domain/action"
	"github.com/product-analytics/domain/event"
)

const eventColumns = `event_id, team_id, event, distinct_id, properties,
	elements_text, elements_tag_name, elements_href, elements_attr_id,
	elements_attr_class, elements_nth_child, elements_nth_of_type, elements_order,
	ip, timestamp`

// whereClause accumulates AND-ed conditions with their positional arguments.
type whereClause struct {
	conditions []string
	args       []any
}

func (w *whereClause) add(condition string, args ...any) {
	w.conditions = append(w.conditions, condition)
	w.args = append(w.args, args...)
}

func (w *whereClause) String() string {
	if len(w.conditions) == 0 {
		return "1"
	}
	return strings.Join(w.conditions, " AND ")
}

func (w *whereClause) addFilters(filters []event.PropertyFilter) {
	for _, f := range filters {
		w.add("JSONExtractRaw(properties, ?) = ?", f.Key, f.JSONValue())
	}
}

func (w *whereClause) addDistinctIDs(ids []string) {
	if len(ids) > 0 {
		w.add("has(?, distinct_id)", ids)
	}
}

func listWhere(q *event.ListQuery) *whereClause {
	w := &whereClause{}
	w.add("team_id = ?", q.TeamID)
	if q.After != nil {
		w.add("timestamp > ?", *q.After)
	}
	if q.Before != nil {
		w.add("timestamp < ?", *q.Before)
	}
	w.addDistinctIDs(q.DistinctIDs)
	w.addFilters(q.Filters)
	return w
}

func matchWhere(a *action.Action, opts action.MatchOptions) *whereClause {
	w := &whereClause{}
	w.add("team_id = ?", a.TeamID)
	cond, args := compileAction(a)
	w.add(cond, args...)
	if opts.Since != nil {
		w.add("timestamp >= ?", *opts.Since)
	}
	if opts.Until != nil {
		w.add("timestamp < ?", *opts.Until)
	}
	w.addDistinctIDs(opts.DistinctIDs)
	w.addFilters(opts.Filters)
	return w
}

// compileAction renders the OR of the action's steps. An action without
// steps matches no rows.
func compileAction(a *action.Action) (string, []any) {
	if len(a.Steps) == 0 {
		return "0", nil
	}
	conditions := make([]string, 0, len(a.Steps))
	var args []any
	for _, s := range a.Steps {
		cond, stepArgs := compileStep(s)
		conditions = append(conditions, "("+cond+")")
		args = append(args, stepArgs...)
	}
	return "(" + strings.Join(conditions, " OR ") + ")", args
}

// compileStep mirrors action.Step.Matches over the parallel element arrays.
// Element i anchors the innermost selector part; part k matches the element
// whose order is elements_order[i] + k.
func compileStep(s action.Step) (string, []any) {
	w := &whereClause{}
	if s.Event != "" {
		w.add("event = ?", s.Event)
	}
	if s.URL != "" {
		w.add("position(JSONExtractString(properties, ?), ?) > 0", event.PropertyCurrentURL, s.URL)
	}
	if !s.HasElementCriteria() {
		return w.String(), w.args
	}

	var parts []action.SelectorPart
	if s.Selector != "" {
		var err error
		if parts, err = action.ParseSelector(s.Selector); err != nil {
			return "0", nil
		}
	}

	anchor := &whereClause{}
	if s.TagName != "" {
		anchor.add("elements_tag_name[i] = ?", s.TagName)
	}
	if s.Text != "" {
		anchor.add("elements_text[i] = ?", s.Text)
	}
	if s.Href != "" {
		anchor.add("elements_href[i] = ?", s.Href)
	}
	for k, part := range parts {
		if k == 0 {
			addPart(anchor, "i", part)
			continue
		}
		outer := &whereClause{}
		outer.add(fmt.Sprintf("elements_order[j] = elements_order[i] + %d", k))
		addPart(outer, "j", part)
		anchor.add(fmt.Sprintf("arrayExists(j -> %s, arrayEnumerate(elements_order))", outer.String()), outer.args...)
	}

	w.add(fmt.Sprintf("arrayExists(i -> %s, arrayEnumerate(elements_order))", anchor.String()), anchor.args...)
	return w.String(), w.args
}

func addPart(w *whereClause, idx string, part action.SelectorPart) {
	if part.TagName != "" {
		w.add(fmt.Sprintf("elements_tag_name[%s] = ?", idx), part.TagName)
	}
	if part.NthChild != 0 {
		w.add(fmt.Sprintf("elements_nth_child[%s] = ?", idx), part.NthChild)
	}
	if part.AttrID != "" {
		w.add(fmt.Sprintf("elements_attr_id[%s] = ?", idx), part.AttrID)
	}
	if len(part.Classes) > 0 {
		w.add(fmt.Sprintf("hasAll(elements_attr_class[%s], ?)", idx), part.Classes)
	}
}
