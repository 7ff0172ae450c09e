package notion

import (
	"github.com/TyReed12/ResTracker/internal/model"
)

// Remote property names are fixed by the Notion database schema.
const (
	propTitle     = "Resolution"
	propCategory  = "Category"
	propTarget    = "Target"
	propCurrent   = "Current Progress"
	propUnit      = "Unit"
	propFrequency = "Frequency"
	propStreak    = "Streak"
	propCheckin   = "Last Check-in"
)

type page struct {
	ID         string              `json:"id"`
	Archived   bool                `json:"archived"`
	Properties map[string]property `json:"properties"`
}

type property struct {
	Title  []richText `json:"title,omitempty"`
	Number *float64   `json:"number,omitempty"`
	Select *selectOpt `json:"select,omitempty"`
	Date   *dateValue `json:"date,omitempty"`
}

type richText struct {
	PlainText string       `json:"plain_text,omitempty"`
	Text      *textContent `json:"text,omitempty"`
}

type textContent struct {
	Content string `json:"content"`
}

type selectOpt struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

// FromPage maps a remote record to a goal. It never fails: every absent
// or malformed property degrades to an explicit default, so a partially
// populated page still yields a usable record.
func FromPage(p *page) *model.Goal {
	goal := &model.Goal{
		ID:        p.ID,
		RemoteID:  &p.ID,
		Category:  model.DefaultCategory,
		Frequency: model.FrequencyDaily,
	}

	if prop, ok := p.Properties[propTitle]; ok {
		goal.Title = plainText(prop.Title)
	}
	if prop, ok := p.Properties[propCategory]; ok && prop.Select != nil {
		if model.ValidCategory(prop.Select.Name) {
			goal.Category = prop.Select.Name
		}
	}
	if prop, ok := p.Properties[propTarget]; ok && prop.Number != nil {
		goal.Target = *prop.Number
	}
	if prop, ok := p.Properties[propCurrent]; ok && prop.Number != nil {
		goal.Current = *prop.Number
	}
	if goal.Current < 0 {
		goal.Current = 0
	}
	if prop, ok := p.Properties[propUnit]; ok && prop.Select != nil {
		goal.Unit = prop.Select.Name
	}
	if prop, ok := p.Properties[propFrequency]; ok && prop.Select != nil {
		if model.ValidFrequency(prop.Select.Name) {
			goal.Frequency = prop.Select.Name
		}
	}
	if prop, ok := p.Properties[propStreak]; ok && prop.Number != nil && *prop.Number > 0 {
		goal.Streak = int(*prop.Number)
	}
	if prop, ok := p.Properties[propCheckin]; ok && prop.Date != nil {
		goal.LastCheckin = prop.Date.Start
	}

	return goal
}

func plainText(parts []richText) string {
	text := ""
	for _, part := range parts {
		if part.PlainText != "" {
			text += part.PlainText
		} else if part.Text != nil {
			text += part.Text.Content
		}
	}
	return text
}

// PatchProperties maps a partial update to the remote property bag,
// emitting only the fields present in the patch.
func PatchProperties(patch model.GoalPatch) map[string]property {
	props := map[string]property{}

	if patch.Title != nil {
		props[propTitle] = titleProperty(*patch.Title)
	}
	if patch.Category != nil {
		props[propCategory] = property{Select: &selectOpt{Name: *patch.Category}}
	}
	if patch.Target != nil {
		props[propTarget] = property{Number: patch.Target}
	}
	if patch.Current != nil {
		props[propCurrent] = property{Number: patch.Current}
	}
	if patch.Unit != nil {
		props[propUnit] = property{Select: &selectOpt{Name: *patch.Unit}}
	}
	if patch.Frequency != nil {
		props[propFrequency] = property{Select: &selectOpt{Name: *patch.Frequency}}
	}
	if patch.Streak != nil {
		streak := float64(*patch.Streak)
		props[propStreak] = property{Number: &streak}
	}
	if patch.LastCheckin != nil && *patch.LastCheckin != "" {
		props[propCheckin] = property{Date: &dateValue{Start: *patch.LastCheckin}}
	}

	return props
}

// FullProperties maps a complete goal for the create path.
func FullProperties(goal *model.Goal) map[string]property {
	patch := model.GoalPatch{
		Title:     &goal.Title,
		Category:  &goal.Category,
		Target:    &goal.Target,
		Current:   &goal.Current,
		Frequency: &goal.Frequency,
		Streak:    &goal.Streak,
	}
	if goal.Unit != "" {
		patch.Unit = &goal.Unit
	}
	if goal.LastCheckin != "" {
		patch.LastCheckin = &goal.LastCheckin
	}
	return PatchProperties(patch)
}

func titleProperty(title string) property {
	return property{Title: []richText{{Text: &textContent{Content: title}}}}
}
