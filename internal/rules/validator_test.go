package rules

import (
	"encoding/json"
	"testing"

	"homehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func validAutomationDraft() AutomationDraft {
	return AutomationDraft{
		HomeID: "home-1",
		Name:   "Morning",
		Trigger: TriggerDraft{
			Type:      "Time",
			TimeStart: "07:00",
			TimeEnd:   "08:00",
		},
		Action: ActionDraft{DeviceID: "dev-5", Type: "TURN_ON", Value: "1"},
	}
}

func knownHomes() HomeSet {
	return HomeSet{"home-1": true, "home-2": true}
}

func TestValidateAutomationOK(t *testing.T) {
	errs := ValidateAutomation(validAutomationDraft(), knownHomes())
	assert.True(t, errs.OK(), "unexpected errors: %v", errs)
}

func TestValidateAutomationCollectsAllErrors(t *testing.T) {
	draft := AutomationDraft{
		HomeID:  "home-9",
		Name:    "   ",
		Trigger: TriggerDraft{Type: "DeviceState"},
		Action:  ActionDraft{},
	}
	errs := ValidateAutomation(draft, knownHomes())

	// All failing fields surface together, not just the first
	assert.Equal(t, "Home must be selected", errs["home"])
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "Device must be selected", errs["trigger_device"])
	assert.Equal(t, "Condition must be one of >, <, =, >=", errs["trigger_condition"])
	assert.Equal(t, "Value must be a number", errs["trigger_value"])
	assert.Equal(t, "Device must be selected", errs["action"])
}

func TestValidateAutomationDeviceStateTrigger(t *testing.T) {
	draft := validAutomationDraft()
	draft.Trigger = TriggerDraft{
		Type:      "DeviceState",
		DeviceID:  "dev-3",
		Condition: ">=",
		Value:     floatPtr(21),
	}
	errs := ValidateAutomation(draft, knownHomes())
	assert.True(t, errs.OK(), "unexpected errors: %v", errs)
}

func TestValidateAutomationRejectsUnknownTriggerType(t *testing.T) {
	draft := validAutomationDraft()
	draft.Trigger.Type = "Sunset"
	errs := ValidateAutomation(draft, knownHomes())
	assert.Equal(t, "Trigger type must be Time or DeviceState", errs["trigger"])
}

func TestValidateAutomationPermitsEmptyTimeWindow(t *testing.T) {
	// Both bounds empty is accepted even though such a trigger never
	// fires; see DESIGN.md
	draft := validAutomationDraft()
	draft.Trigger = TriggerDraft{Type: "Time"}
	errs := ValidateAutomation(draft, knownHomes())
	assert.True(t, errs.OK(), "unexpected errors: %v", errs)
}

func TestValidateAutomationRejectsBadClock(t *testing.T) {
	draft := validAutomationDraft()
	draft.Trigger.TimeStart = "25:99"
	errs := ValidateAutomation(draft, knownHomes())
	assert.Equal(t, "Start time must be in HH:MM format", errs["trigger_time_start"])
}

func TestValidateAutomationSurfacesActionError(t *testing.T) {
	draft := validAutomationDraft()
	draft.Action = ActionDraft{DeviceID: "dev-3", Type: "SET_BRIGHTNESS", Value: "150"}
	errs := ValidateAutomation(draft, knownHomes())
	assert.Equal(t, "Brightness must be between 0 and 100", errs["action"])
}

// A valid time automation serializes with only the time fields populated;
// nothing from the device variant may appear.
func TestTimeAutomationSerializedPayload(t *testing.T) {
	draft := validAutomationDraft()
	errs := ValidateAutomation(draft, knownHomes())
	require.True(t, errs.OK())

	data, err := json.Marshal(draft.Trigger.Build())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `"07:00"`, string(raw["time_start"]))
	assert.JSONEq(t, `"08:00"`, string(raw["time_end"]))
	assert.NotContains(t, raw, "device_id")
	assert.NotContains(t, raw, "condition")
	assert.NotContains(t, raw, "value")
}

func TestTriggerDraftBuildDiscardsStaleFields(t *testing.T) {
	// A form where the user first filled the device condition, then
	// switched to a time trigger: the stale device fields must not leak
	draft := TriggerDraft{
		Type:      "Time",
		TimeStart: "07:00",
		DeviceID:  "dev-3",
		Condition: ">",
		Value:     floatPtr(20),
	}
	trigger := draft.Build()

	tt, ok := trigger.Time()
	require.True(t, ok)
	assert.Equal(t, "07:00", tt.Start)

	_, isDevice := trigger.DeviceState()
	assert.False(t, isDevice)
}

func validSceneDraft() SceneDraft {
	return SceneDraft{
		HomeID: "home-2",
		Name:   "Night",
		Actions: []ActionDraft{
			{DeviceID: "dev-1", Type: "TURN_OFF", Value: "1"},
		},
	}
}

func TestValidateSceneOK(t *testing.T) {
	errs := ValidateScene(validSceneDraft(), knownHomes())
	assert.True(t, errs.OK(), "unexpected errors: %v", errs)
}

func TestValidateSceneRejectsEmptyActions(t *testing.T) {
	draft := validSceneDraft()
	draft.Actions = nil
	errs := ValidateScene(draft, knownHomes())
	assert.Equal(t, "At least one action is required", errs["actions"])
}

func TestValidateSceneSingleActionAccepted(t *testing.T) {
	errs := ValidateScene(validSceneDraft(), knownHomes())
	assert.True(t, errs.OK())
}

func TestValidateScenePerActionErrorsDoNotShortCircuit(t *testing.T) {
	draft := validSceneDraft()
	draft.Actions = []ActionDraft{
		{DeviceID: "dev-1", Type: "SET_BRIGHTNESS", Value: "150"},
		{DeviceID: "dev-2", Type: "TURN_ON", Value: "1"},
		{DeviceID: "dev-3", Type: "SET_HUMIDITY", Value: "200"},
	}
	errs := ValidateScene(draft, knownHomes())

	assert.Equal(t, "Brightness must be between 0 and 100", errs["actions[0]"])
	assert.NotContains(t, errs, "actions[1]")
	assert.Equal(t, "Humidity must be between 0 and 100", errs["actions[2]"])
}

func TestValidateSceneRejectsUnknownHome(t *testing.T) {
	draft := validSceneDraft()
	draft.HomeID = "home-99"
	errs := ValidateScene(draft, knownHomes())
	assert.Equal(t, "Home must be selected", errs["home"])
}

func TestValidIdentity(t *testing.T) {
	for _, bad := range []string{"", "null", "undefined", "Unknown"} {
		assert.False(t, ValidIdentity(bad), "%q should be invalid", bad)
	}
	assert.True(t, ValidIdentity("b9a2f3e1"))
	assert.True(t, ValidIdentity("unknown")) // only the literal placeholder token is refused
}

func TestActionDraftBuild(t *testing.T) {
	a := ActionDraft{DeviceID: "dev-7", Type: "SET_TEMPERATURE", Value: "21.5"}.Build()
	assert.Equal(t, models.Action{DeviceID: "dev-7", Type: models.ActionSetTemperature, Value: "21.5"}, a)
}
