package rules

import (
	"fmt"
	"strings"
	"time"

	"homehub/internal/models"
)

// FieldErrors maps a field name to a human-readable message. All failing
// fields are reported together; validation never stops at the first error.
type FieldErrors map[string]string

// OK reports whether validation passed
func (e FieldErrors) OK() bool { return len(e) == 0 }

// HomeSet is the caller's set of visible home ids, used to fail fast on a
// home the backend would reject anyway
type HomeSet map[string]bool

// ValidIdentity reports whether id is usable for a mutating call. Empty
// and placeholder tokens mark a corrupt record; calls carrying them must
// be refused before any store access.
func ValidIdentity(id string) bool {
	switch id {
	case "", "null", "undefined", "Unknown":
		return false
	}
	return true
}

// ValidateAutomation checks an automation draft. Errors are advisory:
// backend-side constraints (e.g. a device that no longer exists) are
// enforced independently at evaluation time.
func ValidateAutomation(d AutomationDraft, homes HomeSet) FieldErrors {
	errs := FieldErrors{}
	if d.HomeID == "" || !homes[d.HomeID] {
		errs["home"] = "Home must be selected"
	}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Name is required"
	}
	validateTrigger(d.Trigger, errs)
	if msg := actionError(d.Action); msg != "" {
		errs["action"] = msg
	}
	return errs
}

// ValidateScene checks a scene draft. Per-action failures are keyed by
// index and do not short-circuit validation of the remaining actions.
func ValidateScene(d SceneDraft, homes HomeSet) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Name is required"
	}
	if d.HomeID == "" || !homes[d.HomeID] {
		errs["home"] = "Home must be selected"
	}
	if len(d.Actions) == 0 {
		errs["actions"] = "At least one action is required"
	}
	for i, a := range d.Actions {
		if msg := actionError(a); msg != "" {
			errs[fmt.Sprintf("actions[%d]", i)] = msg
		}
	}
	return errs
}

func validateTrigger(t TriggerDraft, errs FieldErrors) {
	switch models.TriggerType(t.Type) {
	case models.TriggerTime:
		// A window with both bounds empty is accepted even though it can
		// never fire; see DESIGN.md.
		if t.TimeStart != "" && !validClock(t.TimeStart) {
			errs["trigger_time_start"] = "Start time must be in HH:MM format"
		}
		if t.TimeEnd != "" && !validClock(t.TimeEnd) {
			errs["trigger_time_end"] = "End time must be in HH:MM format"
		}
	case models.TriggerDeviceState:
		if t.DeviceID == "" {
			errs["trigger_device"] = "Device must be selected"
		}
		if !models.Comparator(t.Condition).Valid() {
			errs["trigger_condition"] = "Condition must be one of >, <, =, >="
		}
		if t.Value == nil {
			errs["trigger_value"] = "Value must be a number"
		}
	default:
		errs["trigger"] = "Trigger type must be Time or DeviceState"
	}
}

func actionError(a ActionDraft) string {
	if a.DeviceID == "" {
		return "Device must be selected"
	}
	if err := ValidateActionValue(models.ActionType(a.Type), a.Value); err != nil {
		return err.Error()
	}
	return ""
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
