package models

import (
	"encoding/json"
	"fmt"
)

// TriggerType discriminates the two trigger variants
type TriggerType string

const (
	TriggerTime        TriggerType = "Time"
	TriggerDeviceState TriggerType = "DeviceState"
)

// Comparator is the operator of a DeviceState trigger
type Comparator string

const (
	CmpGreater        Comparator = ">"
	CmpLess           Comparator = "<"
	CmpEqual          Comparator = "="
	CmpGreaterOrEqual Comparator = ">="
)

// Valid reports whether c is one of the four supported comparators
func (c Comparator) Valid() bool {
	switch c {
	case CmpGreater, CmpLess, CmpEqual, CmpGreaterOrEqual:
		return true
	}
	return false
}

// TimeTrigger fires when the current time enters [Start, End).
// Both bounds are "HH:MM" strings and both are optional; with both empty
// the trigger never fires (permissive on purpose, see DESIGN.md).
type TimeTrigger struct {
	Start string
	End   string
}

// DeviceStateTrigger fires when a device's reported numeric state
// satisfies `state <Condition> Value`.
type DeviceStateTrigger struct {
	DeviceID  string
	Condition Comparator
	Value     float64
}

// Trigger is a tagged union over the two variants. The variant payloads
// are unexported so an automation can never carry both a time window and
// a device condition at once.
type Trigger struct {
	typ    TriggerType
	time   TimeTrigger
	device DeviceStateTrigger
}

// NewTimeTrigger builds the Time variant
func NewTimeTrigger(start, end string) Trigger {
	return Trigger{typ: TriggerTime, time: TimeTrigger{Start: start, End: end}}
}

// NewDeviceStateTrigger builds the DeviceState variant
func NewDeviceStateTrigger(deviceID string, condition Comparator, value float64) Trigger {
	return Trigger{
		typ:    TriggerDeviceState,
		device: DeviceStateTrigger{DeviceID: deviceID, Condition: condition, Value: value},
	}
}

// Type returns the variant tag; empty for the zero Trigger
func (t Trigger) Type() TriggerType { return t.typ }

// Time returns the Time payload and whether that variant is selected
func (t Trigger) Time() (TimeTrigger, bool) {
	return t.time, t.typ == TriggerTime
}

// DeviceState returns the DeviceState payload and whether that variant is selected
func (t Trigger) DeviceState() (DeviceStateTrigger, bool) {
	return t.device, t.typ == TriggerDeviceState
}

// triggerEnvelope is the flat wire form. Only the selected variant's
// fields are ever populated; the other variant's keys must be absent
// from the payload, never null or zero.
type triggerEnvelope struct {
	Type      TriggerType `json:"type"`
	TimeStart *string     `json:"time_start,omitempty"`
	TimeEnd   *string     `json:"time_end,omitempty"`
	DeviceID  *string     `json:"device_id,omitempty"`
	Condition *Comparator `json:"condition,omitempty"`
	Value     *float64    `json:"value,omitempty"`
}

func (t Trigger) MarshalJSON() ([]byte, error) {
	env := triggerEnvelope{Type: t.typ}
	switch t.typ {
	case TriggerTime:
		if t.time.Start != "" {
			env.TimeStart = &t.time.Start
		}
		if t.time.End != "" {
			env.TimeEnd = &t.time.End
		}
	case TriggerDeviceState:
		env.DeviceID = &t.device.DeviceID
		env.Condition = &t.device.Condition
		env.Value = &t.device.Value
	default:
		return nil, fmt.Errorf("cannot marshal trigger with type %q", t.typ)
	}
	return json.Marshal(env)
}

func (t *Trigger) UnmarshalJSON(data []byte) error {
	var env triggerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	// Missing sub-fields decode to zero values here; structural
	// completeness is the rule validator's job, not the model's.
	switch env.Type {
	case TriggerTime:
		tt := TimeTrigger{}
		if env.TimeStart != nil {
			tt.Start = *env.TimeStart
		}
		if env.TimeEnd != nil {
			tt.End = *env.TimeEnd
		}
		*t = Trigger{typ: TriggerTime, time: tt}
	case TriggerDeviceState:
		dt := DeviceStateTrigger{}
		if env.DeviceID != nil {
			dt.DeviceID = *env.DeviceID
		}
		if env.Condition != nil {
			dt.Condition = *env.Condition
		}
		if env.Value != nil {
			dt.Value = *env.Value
		}
		*t = Trigger{typ: TriggerDeviceState, device: dt}
	default:
		return fmt.Errorf("unknown trigger type %q", env.Type)
	}
	return nil
}
