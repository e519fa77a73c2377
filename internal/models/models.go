package models

import "encoding/json"

// Home is the top-level tenant unit owning devices, automations and scenes
type Home struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// Device represents a device model
type Device struct {
	ID        string          `json:"id"`
	HomeID    string          `json:"home_id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	State     json.RawMessage `json:"state"`
	MQTTTopic string          `json:"mqtt_topic"`
}

// Automation is a persisted rule: one trigger bound to one action
type Automation struct {
	ID      string  `json:"id"`
	HomeID  string  `json:"home_id"`
	Name    string  `json:"name"`
	Enabled bool    `json:"enabled"`
	Trigger Trigger `json:"trigger"`
	Action  Action  `json:"action"`
}

// Scene is an ordered batch of actions executed only on explicit request.
// Action order is preserved exactly as authored; a scene may target the
// same device more than once, later actions superseding earlier ones.
type Scene struct {
	ID          string   `json:"id"`
	HomeID      string   `json:"home_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Actions     []Action `json:"actions"`
}
