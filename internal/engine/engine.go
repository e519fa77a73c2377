package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"homehub/internal/automation"
	"homehub/internal/db"
	"homehub/internal/taskqueue"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/redis/go-redis/v9"
)

// Engine evaluates automations against live device state. Device-state
// triggers are driven by MQTT state reports; time triggers by the minute
// tick the scheduler delivers to TickTimeTriggers.
type Engine struct {
	mqttClient  mqtt.Client
	redisClient *redis.Client
	db          *db.DB
}

// NewEngine creates a new engine instance
func NewEngine(mqttClient mqtt.Client, redisClient *redis.Client, dbConn *db.DB) *Engine {
	return &Engine{
		mqttClient:  mqttClient,
		redisClient: redisClient,
		db:          dbConn,
	}
}

// Start subscribes to device state reports and rebuilds the trigger
// association sets from the database
func (e *Engine) Start() error {
	log.Println("ENGINE: Subscribing to MQTT topic: devices/+/state")
	if token := e.mqttClient.Subscribe("devices/+/state", 1, e.onDeviceUpdate); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	if err := e.rebuildAssociations(); err != nil {
		return err
	}

	log.Println("ENGINE: Started")
	return nil
}

// Stop stops the engine
func (e *Engine) Stop() {
	e.mqttClient.Disconnect(250)
	log.Println("ENGINE: Stopped")
}

// onDeviceUpdate handles an MQTT device state report: cache it, persist
// it, then enqueue every automation watching this device
func (e *Engine) onDeviceUpdate(client mqtt.Client, msg mqtt.Message) {
	deviceID := parseDeviceID(msg.Topic())
	if deviceID == "" {
		return
	}
	ctx := context.Background()

	if err := e.redisClient.Set(ctx, deviceKey(deviceID), string(msg.Payload()), 0).Err(); err != nil {
		log.Printf("ENGINE: Failed to cache state for device %s: %v", deviceID, err)
	}
	go func() {
		if err := e.db.UpdateDeviceState(context.Background(), deviceID, msg.Payload()); err != nil {
			log.Printf("ENGINE: Failed to persist state for device %s: %v", deviceID, err)
		}
	}()

	ids, err := e.redisClient.SMembers(ctx, associationKey(deviceID)).Result()
	if err != nil {
		log.Printf("ENGINE: Failed to read associations for device %s: %v", deviceID, err)
		return
	}
	for _, automationID := range ids {
		if err := taskqueue.EnqueueAutomationFire(automationID, deviceID); err != nil {
			log.Printf("ENGINE: Failed to enqueue automation %s: %v", automationID, err)
		}
	}
}

// TickTimeTriggers fires every enabled time automation whose window opens
// at now. Called once a minute by the scheduler.
func (e *Engine) TickTimeTriggers(now time.Time) {
	automations, err := e.db.ListEnabledAutomations(context.Background())
	if err != nil {
		log.Printf("ENGINE: Failed to load automations for time tick: %v", err)
		return
	}
	for _, a := range automations {
		tt, ok := a.Trigger.Time()
		if !ok {
			continue
		}
		if automation.EntersWindow(tt, now) {
			log.Printf("ENGINE: Time window opened for automation %s (%s)", a.ID, a.Name)
			if err := taskqueue.EnqueueAutomationFire(a.ID, ""); err != nil {
				log.Printf("ENGINE: Failed to enqueue automation %s: %v", a.ID, err)
			}
		}
	}
}

// RefreshAssociations re-registers one automation's device association
// after a create or update
func (e *Engine) RefreshAssociations(automationID string) error {
	if err := e.RemoveAssociations(automationID); err != nil {
		return err
	}

	a, err := e.db.GetAutomationByID(context.Background(), automationID)
	if err != nil {
		return err
	}
	if !a.Enabled {
		return nil
	}
	dt, ok := a.Trigger.DeviceState()
	if !ok {
		return nil
	}
	return e.redisClient.SAdd(context.Background(), associationKey(dt.DeviceID), a.ID).Err()
}

// RemoveAssociations drops an automation from every device association
// set, used before updates and deletes
func (e *Engine) RemoveAssociations(automationID string) error {
	ctx := context.Background()
	keys, err := e.redisClient.Keys(ctx, "automations:device:*").Result()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := e.redisClient.SRem(ctx, key, automationID).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) rebuildAssociations() error {
	log.Println("ENGINE: Rebuilding device-trigger associations")
	automations, err := e.db.ListEnabledAutomations(context.Background())
	if err != nil {
		return err
	}
	ctx := context.Background()
	count := 0
	for _, a := range automations {
		dt, ok := a.Trigger.DeviceState()
		if !ok {
			continue
		}
		if err := e.redisClient.SAdd(ctx, associationKey(dt.DeviceID), a.ID).Err(); err != nil {
			return err
		}
		count++
	}
	log.Printf("ENGINE: Registered %d device-trigger associations", count)
	return nil
}

func deviceKey(deviceID string) string {
	return fmt.Sprintf("device:%s", deviceID)
}

func associationKey(deviceID string) string {
	return fmt.Sprintf("automations:device:%s", deviceID)
}

// parseDeviceID extracts the device id from a devices/<id>/state topic
func parseDeviceID(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}
