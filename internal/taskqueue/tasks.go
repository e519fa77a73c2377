package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"homehub/internal/automation"
	"homehub/internal/db"
	"homehub/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

const (
	TypeAutomationFire = "automation:fire"
	TypeSceneExecute   = "scene:execute"
)

// Global instances - initialized by the main application
var (
	dbConn      *db.DB
	redisClient *redis.Client
	mqttClient  mqtt.Client
)

// SetGlobalInstances sets the global database, Redis, and MQTT instances
func SetGlobalInstances(database *db.DB, redis *redis.Client, mqtt mqtt.Client) {
	dbConn = database
	redisClient = redis
	mqttClient = mqtt
}

// AutomationFirePayload carries an automation fire task
type AutomationFirePayload struct {
	AutomationID string
	DeviceID     string
}

// SceneExecutePayload carries a scene execution task
type SceneExecutePayload struct {
	SceneID string
}

// EnqueueAutomationFire enqueues evaluation and firing of one automation
func EnqueueAutomationFire(automationID, deviceID string) error {
	payload, _ := json.Marshal(AutomationFirePayload{AutomationID: automationID, DeviceID: deviceID})
	task := asynq.NewTask(TypeAutomationFire, payload)
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(10*time.Second))
	if err != nil {
		log.Printf("TASKQUEUE: Failed to enqueue fire for automation %s: %v", automationID, err)
		return err
	}
	log.Printf("TASKQUEUE: Enqueued task %s for automation %s", info.ID, automationID)
	return nil
}

// EnqueueSceneExecution enqueues a scene execution. Enqueue success is the
// acknowledgment the HTTP layer reports; nothing waits for devices.
func EnqueueSceneExecution(sceneID string) error {
	payload, _ := json.Marshal(SceneExecutePayload{SceneID: sceneID})
	task := asynq.NewTask(TypeSceneExecute, payload)
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(10*time.Second))
	if err != nil {
		log.Printf("TASKQUEUE: Failed to enqueue execution for scene %s: %v", sceneID, err)
		return err
	}
	log.Printf("TASKQUEUE: Enqueued task %s for scene %s", info.ID, sceneID)
	return nil
}

// handleAutomationFire re-checks the automation's trigger against current
// state and publishes its action when the trigger holds
func handleAutomationFire(ctx context.Context, t *asynq.Task) error {
	var payload AutomationFirePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}

	a, err := dbConn.GetAutomationByID(ctx, payload.AutomationID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Deleted between enqueue and execution; nothing to retry
			log.Printf("TASKQUEUE: Automation %s no longer exists, dropping task", payload.AutomationID)
			return nil
		}
		return err
	}

	if !a.Enabled {
		log.Printf("TASKQUEUE: Automation %s is disabled, skipping", a.ID)
		return nil
	}

	if !triggerHolds(ctx, a) {
		log.Printf("TASKQUEUE: Trigger not satisfied for automation %s, skipping", a.ID)
		return nil
	}

	log.Printf("TASKQUEUE: Firing automation %s (%s)", a.ID, a.Name)
	automation.ExecuteAction(mqttClient, a.Action)
	return nil
}

// handleSceneExecute applies a scene's actions in stored order. A scene
// deleted while the task was queued is a terminal no-op.
func handleSceneExecute(ctx context.Context, t *asynq.Task) error {
	var payload SceneExecutePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}

	s, err := dbConn.GetSceneByID(ctx, payload.SceneID)
	if err != nil {
		if err == pgx.ErrNoRows {
			log.Printf("TASKQUEUE: Scene %s deleted before execution, dropping task", payload.SceneID)
			return nil
		}
		return err
	}

	automation.ExecuteScene(mqttClient, s)
	return nil
}

func triggerHolds(ctx context.Context, a *models.Automation) bool {
	if dt, ok := a.Trigger.DeviceState(); ok {
		stateRaw, err := redisClient.Get(ctx, fmt.Sprintf("device:%s", dt.DeviceID)).Result()
		if err != nil {
			log.Printf("TASKQUEUE: No cached state for device %s: %v", dt.DeviceID, err)
			return false
		}
		actual, ok := automation.StateValue([]byte(stateRaw))
		if !ok {
			log.Printf("TASKQUEUE: Device %s state is not numeric", dt.DeviceID)
			return false
		}
		return automation.Matches(dt, actual)
	}
	if tt, ok := a.Trigger.Time(); ok {
		return automation.InWindow(tt, time.Now())
	}
	return false
}
