package automation

import (
	"encoding/json"
	"time"

	"homehub/internal/models"
)

// StateValue extracts the numeric reading from a device state payload.
// Devices report either a bare number or an object with a "value" key.
func StateValue(raw []byte) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, false
	}
	if v, ok := obj["value"]; ok {
		if err := json.Unmarshal(v, &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Matches reports whether a reported state satisfies the trigger condition
func Matches(t models.DeviceStateTrigger, actual float64) bool {
	switch t.Condition {
	case models.CmpGreater:
		return actual > t.Value
	case models.CmpLess:
		return actual < t.Value
	case models.CmpEqual:
		return actual == t.Value
	case models.CmpGreaterOrEqual:
		return actual >= t.Value
	}
	return false
}

// InWindow reports whether now falls inside the trigger's [start, end)
// window. A missing start opens the window at 00:00, a missing end runs it
// to midnight. Both bounds empty means the window is empty: the trigger is
// accepted by validation but never holds.
func InWindow(t models.TimeTrigger, now time.Time) bool {
	if t.Start == "" && t.End == "" {
		return false
	}
	start := 0
	if t.Start != "" {
		m, ok := clockMinutes(t.Start)
		if !ok {
			return false
		}
		start = m
	}
	end := 24 * 60
	if t.End != "" {
		m, ok := clockMinutes(t.End)
		if !ok {
			return false
		}
		end = m
	}

	m := now.Hour()*60 + now.Minute()
	if start <= end {
		return m >= start && m < end
	}
	// Overnight window, e.g. 22:00 to 06:00
	return m >= start || m < end
}

// EntersWindow reports whether now is the minute the window opens: inside
// now, outside a minute ago. Time automations fire on entry, not for every
// minute of the window.
func EntersWindow(t models.TimeTrigger, now time.Time) bool {
	return InWindow(t, now) && !InWindow(t, now.Add(-time.Minute))
}

func clockMinutes(s string) (int, bool) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return parsed.Hour()*60 + parsed.Minute(), true
}
