package models

import "homehub/internal/rules"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CreateHomeRequest struct {
	Name string `json:"name"`
}

type RegisterDeviceRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	MQTTTopic string `json:"mqtt_topic"`
}

// AutomationRequest carries a full automation body; used for both create
// and update since an update replaces name, enabled flag, trigger and
// action together
type AutomationRequest struct {
	Name    string             `json:"name"`
	Enabled bool               `json:"enabled"`
	Trigger rules.TriggerDraft `json:"trigger"`
	Action  rules.ActionDraft  `json:"action"`
}

// SceneRequest carries a scene create body; scenes have no update
// operation, their action list is fixed at creation
type SceneRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Actions     []rules.ActionDraft `json:"actions"`
}
