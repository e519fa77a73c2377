package automation

import (
	"encoding/json"
	"fmt"
	"log"

	"homehub/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Command is the payload published to a device's command topic
type Command struct {
	Action models.ActionType `json:"action"`
	Value  string            `json:"value"`
}

// ExecuteAction publishes a single action as an MQTT device command.
// Fire and forget: publishing is the acknowledgment, no per-device
// confirmation is awaited.
func ExecuteAction(mqttClient mqtt.Client, a models.Action) {
	if a.DeviceID == "" || mqttClient == nil {
		return
	}
	payload, err := json.Marshal(Command{Action: a.Type, Value: a.Value})
	if err != nil {
		log.Printf("AUTOMATION: Failed to marshal command for device %s: %v", a.DeviceID, err)
		return
	}
	topic := fmt.Sprintf("devices/%s/commands", a.DeviceID)
	log.Printf("AUTOMATION: Publishing command to %s: %s", topic, payload)
	mqttClient.Publish(topic, 1, false, payload)
}

// ExecuteScene applies a scene's actions in their stored order. When a
// scene targets the same device more than once, the later command
// supersedes the earlier one on the device side, so order is preserved
// exactly as authored.
func ExecuteScene(mqttClient mqtt.Client, s *models.Scene) {
	log.Printf("AUTOMATION: Executing scene %s with %d actions", s.ID, len(s.Actions))
	for _, a := range s.Actions {
		ExecuteAction(mqttClient, a)
	}
	log.Printf("AUTOMATION: Scene %s execution completed", s.ID)
}
