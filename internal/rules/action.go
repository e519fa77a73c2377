package rules

import (
	"strconv"
	"strings"

	"homehub/internal/models"
)

// ValueErrorKind classifies an action value failure
type ValueErrorKind string

const (
	// OutOfRange means the value failed numeric parsing or fell outside
	// the documented range for its action type
	OutOfRange ValueErrorKind = "OUT_OF_RANGE"
	// InvalidBooleanToken means a boolean-style action got something other
	// than true/false/1/0
	InvalidBooleanToken ValueErrorKind = "INVALID_BOOLEAN_TOKEN"
	// UnknownActionType means the action type token is not recognised
	UnknownActionType ValueErrorKind = "UNKNOWN_ACTION_TYPE"
)

// ValueError is returned by ValidateActionValue. Validation is pure:
// nothing here touches a device, it only governs what is submittable.
type ValueError struct {
	Kind    ValueErrorKind
	Message string
}

func (e *ValueError) Error() string { return e.Message }

// ValidateActionValue checks a raw action value against the range rules of
// its action type. Ranges are boundary-inclusive.
func ValidateActionValue(t models.ActionType, raw string) error {
	switch t {
	case models.ActionSetBrightness:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 || n > 100 {
			return &ValueError{Kind: OutOfRange, Message: "Brightness must be between 0 and 100"}
		}
	case models.ActionSetTemperature:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || f < 0 || f > 50 {
			return &ValueError{Kind: OutOfRange, Message: "Temperature must be between 0 and 50"}
		}
	case models.ActionSetHumidity:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || f < 0 || f > 100 {
			return &ValueError{Kind: OutOfRange, Message: "Humidity must be between 0 and 100"}
		}
	default:
		if !t.Valid() {
			return &ValueError{Kind: UnknownActionType, Message: "Unknown action type"}
		}
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "false", "1", "0":
		default:
			return &ValueError{Kind: InvalidBooleanToken, Message: "Value must be true, false, 1 or 0"}
		}
	}
	return nil
}
