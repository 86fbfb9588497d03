package action

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/product-analytics/domain/apperror"
)

// SelectorPart describes one element of a selector chain.
type SelectorPart struct {
	TagName  string
	Classes  []string
	NthChild int32
	AttrID   string
}

var idPattern = regexp.MustCompile(`\[id='([^']*)'\]`)

// ParseSelector splits a "parent > child" selector into parts, innermost
// element first. An [id='x'] part replaces the whole chain with a single id match.
func ParseSelector(selector string) ([]SelectorPart, error) {
	tags := strings.Split(strings.TrimSpace(selector), " > ")
	parts := make([]SelectorPart, 0, len(tags))

	for i := len(tags) - 1; i >= 0; i-- {
		tag := strings.TrimSpace(tags[i])
		if tag == "" {
			return nil, fmt.Errorf("empty selector part in %q", selector)
		}

		if strings.Contains(tag, "id=") {
			m := idPattern.FindStringSubmatch(tag)
			if m == nil {
				return nil, fmt.Errorf("malformed id selector %q", tag)
			}
			return []SelectorPart{{AttrID: m[1]}}, nil
		}

		var part SelectorPart
		if before, after, ok := strings.Cut(tag, ":nth-child("); ok {
			n, err := strconv.ParseInt(strings.TrimSuffix(after, ")"), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("malformed nth-child in %q", tag)
			}
			part.NthChild = int32(n)
			tag = before
		}

		if strings.Contains(tag, ".") {
			classes := strings.Split(tag, ".")
			tag = classes[0]
			for _, c := range classes[1:] {
				if c != "" {
					part.Classes = append(part.Classes, c)
				}
			}
		}

		part.TagName = tag
		parts = append(parts, part)
	}
	return parts, nil
}

// ValidateSelectors reports every step whose selector cannot be parsed.
func ValidateSelectors(inputs []StepInput) error {
	validationErr := apperror.NewValidationError()
	for i, in := range inputs {
		if in.Selector == nil || *in.Selector == "" {
			continue
		}
		if _, err := ParseSelector(*in.Selector); err != nil {
			validationErr.Add(apperror.ErrorDetail{
				Field:   fmt.Sprintf("steps[%d].selector", i),
				Code:    apperror.ErrCodeValidationInvalid,
				Message: err.Error(),
			})
		}
	}
	return validationErr.OrNil()
}
