// Package rules holds the automation/scene rule model: raw drafts as they
// arrive from a client form, value validation for actions, and the rule
// validator that checks structural completeness before anything is stored.
package rules

import "homehub/internal/models"

// TriggerDraft is the raw trigger as submitted. It is the flat
// all-fields-optional form; which fields matter is decided by Type.
type TriggerDraft struct {
	Type      string   `json:"type"`
	TimeStart string   `json:"time_start"`
	TimeEnd   string   `json:"time_end"`
	DeviceID  string   `json:"device_id"`
	Condition string   `json:"condition"`
	Value     *float64 `json:"value"`
}

// Build converts a validated draft into the typed trigger union. Only the
// selected variant's fields are carried over; stale values entered for the
// other variant are discarded so they can never leak into the stored rule.
func (d TriggerDraft) Build() models.Trigger {
	if models.TriggerType(d.Type) == models.TriggerDeviceState {
		var value float64
		if d.Value != nil {
			value = *d.Value
		}
		return models.NewDeviceStateTrigger(d.DeviceID, models.Comparator(d.Condition), value)
	}
	return models.NewTimeTrigger(d.TimeStart, d.TimeEnd)
}

// ActionDraft is the raw action as submitted
type ActionDraft struct {
	DeviceID string `json:"device_id"`
	Type     string `json:"action_type"`
	Value    string `json:"action_value"`
}

// Build converts a validated draft into a typed action
func (d ActionDraft) Build() models.Action {
	return models.Action{
		DeviceID: d.DeviceID,
		Type:     models.ActionType(d.Type),
		Value:    d.Value,
	}
}

// AutomationDraft is an automation-in-progress: exactly one trigger and
// exactly one action
type AutomationDraft struct {
	HomeID  string
	Name    string
	Trigger TriggerDraft
	Action  ActionDraft
}

// SceneDraft is a scene-in-progress with its ordered action list
type SceneDraft struct {
	HomeID      string
	Name        string
	Description string
	Actions     []ActionDraft
}
