package models

// ActionType is the enumerated kind of device effect
type ActionType string

const (
	ActionTurnOn         ActionType = "TURN_ON"
	ActionTurnOff        ActionType = "TURN_OFF"
	ActionSetBrightness  ActionType = "SET_BRIGHTNESS"
	ActionSetTemperature ActionType = "SET_TEMPERATURE"
	ActionSetHumidity    ActionType = "SET_HUMIDITY"
	ActionLock           ActionType = "LOCK"
	ActionUnlock         ActionType = "UNLOCK"
	ActionActivate       ActionType = "ACTIVATE"
	ActionDeactivate     ActionType = "DEACTIVATE"
)

// Valid reports whether t is a known action type
func (t ActionType) Valid() bool {
	switch t {
	case ActionTurnOn, ActionTurnOff, ActionSetBrightness, ActionSetTemperature,
		ActionSetHumidity, ActionLock, ActionUnlock, ActionActivate, ActionDeactivate:
		return true
	}
	return false
}

// Boolean reports whether t takes a boolean-style value (true/false/1/0)
func (t ActionType) Boolean() bool {
	switch t {
	case ActionTurnOn, ActionTurnOff, ActionLock, ActionUnlock, ActionActivate, ActionDeactivate:
		return true
	}
	return false
}

// Action is a single device-directed effect
type Action struct {
	DeviceID string     `json:"device_id"`
	Type     ActionType `json:"action_type"`
	Value    string     `json:"action_value"`
}
