package action

import (
	"time"
)

const (
	MaxFieldLength = 400

	// DetailExists is the conflict detail for a duplicate live action name.
	DetailExists = "action-exists"
)

type Step struct {
	ID       int64  `json:"id"`
	ActionID int64  `json:"-"`
	Event    string `json:"event,omitempty"`
	TagName  string `json:"tag_name,omitempty"`
	Text     string `json:"text,omitempty"`
	Href     string `json:"href,omitempty"`
	Selector string `json:"selector,omitempty"`
	URL      string `json:"url,omitempty"`
	Name     string `json:"name,omitempty"`
}

type Action struct {
	ID          int64     `json:"id"`
	TeamID      int64     `json:"-"`
	Name        string    `json:"name"`
	Steps       []Step    `json:"steps"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedByID *int64    `json:"created_by_id,omitempty"`
	Deleted     bool      `json:"deleted"`
}

// StepInput is a step as sent by clients. Nil fields are left untouched on update.
type StepInput struct {
	ID       *int64  `json:"id,omitempty"`
	Event    *string `json:"event,omitempty" validate:"omitempty,max=400"`
	TagName  *string `json:"tag_name,omitempty" validate:"omitempty,max=400"`
	Text     *string `json:"text,omitempty" validate:"omitempty,max=400"`
	Href     *string `json:"href,omitempty" validate:"omitempty,max=400"`
	Selector *string `json:"selector,omitempty" validate:"omitempty,max=400"`
	URL      *string `json:"url,omitempty" validate:"omitempty,max=400"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=400"`
}

func (in StepInput) ToStep() Step {
	var s Step
	in.ApplyTo(&s)
	return s
}

// ApplyTo copies every field set on in onto s.
func (in StepInput) ApplyTo(s *Step) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Event, in.Event)
	set(&s.TagName, in.TagName)
	set(&s.Text, in.Text)
	set(&s.Href, in.Href)
	set(&s.Selector, in.Selector)
	set(&s.URL, in.URL)
	set(&s.Name, in.Name)
}

type CreateActionCommand struct {
	Name  string      `json:"name" validate:"required,max=400"`
	Steps []StepInput `json:"steps" validate:"dive"`
}

type UpdateActionCommand struct {
	Name    *string      `json:"name,omitempty" validate:"omitempty,min=1,max=400"`
	Deleted *bool        `json:"deleted,omitempty"`
	Steps   *[]StepInput `json:"steps,omitempty" validate:"omitempty,dive"`
}

// StepPlan is the set of writes needed to bring an action's steps in line
// with an update request.
type StepPlan struct {
	Create []Step
	Update []Step
	Delete []int64
}

func (p StepPlan) Empty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// PlanSteps diffs the requested steps against the existing ones. Inputs with
// the id of an existing step update it, all other inputs create a new step,
// and existing steps that are not referenced are deleted.
func PlanSteps(existing []Step, inputs []StepInput) StepPlan {
	byID := make(map[int64]Step, len(existing))
	for _, s := range existing {
		byID[s.ID] = s
	}

	var plan StepPlan
	kept := make(map[int64]bool, len(inputs))
	for _, in := range inputs {
		if in.ID != nil {
			if current, ok := byID[*in.ID]; ok && !kept[current.ID] {
				in.ApplyTo(&current)
				plan.Update = append(plan.Update, current)
				kept[current.ID] = true
				continue
			}
		}
		plan.Create = append(plan.Create, in.ToStep())
	}

	for _, s := range existing {
		if !kept[s.ID] {
			plan.Delete = append(plan.Delete, s.ID)
		}
	}
	return plan
}
