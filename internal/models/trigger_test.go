package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeTriggerMarshalOmitsDeviceFields(t *testing.T) {
	trigger := NewTimeTrigger("07:00", "08:00")

	data, err := json.Marshal(trigger)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.JSONEq(t, `"Time"`, string(raw["type"]))
	assert.JSONEq(t, `"07:00"`, string(raw["time_start"]))
	assert.JSONEq(t, `"08:00"`, string(raw["time_end"]))

	// The other variant's fields must be absent, never null or zero
	assert.NotContains(t, raw, "device_id")
	assert.NotContains(t, raw, "condition")
	assert.NotContains(t, raw, "value")
}

func TestDeviceStateTriggerMarshalOmitsTimeFields(t *testing.T) {
	trigger := NewDeviceStateTrigger("dev-5", CmpGreaterOrEqual, 21.5)

	data, err := json.Marshal(trigger)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.JSONEq(t, `"DeviceState"`, string(raw["type"]))
	assert.JSONEq(t, `"dev-5"`, string(raw["device_id"]))
	assert.JSONEq(t, `">="`, string(raw["condition"]))
	assert.JSONEq(t, `21.5`, string(raw["value"]))

	assert.NotContains(t, raw, "time_start")
	assert.NotContains(t, raw, "time_end")
}

func TestTimeTriggerEmptyBoundsOmitted(t *testing.T) {
	data, err := json.Marshal(NewTimeTrigger("", ""))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, raw, "time_start")
	assert.NotContains(t, raw, "time_end")
}

func TestTriggerRoundTrip(t *testing.T) {
	for name, trigger := range map[string]Trigger{
		"time":         NewTimeTrigger("22:00", "06:00"),
		"time partial": NewTimeTrigger("07:30", ""),
		"device state": NewDeviceStateTrigger("dev-1", CmpLess, 18),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(trigger)
			require.NoError(t, err)

			var decoded Trigger
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, trigger, decoded)
		})
	}
}

func TestTriggerUnmarshalUnknownType(t *testing.T) {
	var trigger Trigger
	err := json.Unmarshal([]byte(`{"type":"Sunset"}`), &trigger)
	assert.Error(t, err)
}

func TestTriggerUnmarshalMissingSubfields(t *testing.T) {
	// Structural completeness is the validator's job; the model decodes
	// leniently
	var trigger Trigger
	require.NoError(t, json.Unmarshal([]byte(`{"type":"DeviceState"}`), &trigger))

	dt, ok := trigger.DeviceState()
	require.True(t, ok)
	assert.Empty(t, dt.DeviceID)

	_, isTime := trigger.Time()
	assert.False(t, isTime)
}

func TestMarshalZeroTriggerFails(t *testing.T) {
	var zero Trigger
	_, err := json.Marshal(zero)
	assert.Error(t, err)
}

func TestComparatorValid(t *testing.T) {
	for _, c := range []Comparator{CmpGreater, CmpLess, CmpEqual, CmpGreaterOrEqual} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Comparator("!=").Valid())
	assert.False(t, Comparator("").Valid())
}
