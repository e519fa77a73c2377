package db

import (
	"context"
	"encoding/json"

	"homehub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = pgx.ErrNoRows

// --- Homes ---

// CreateHome inserts a home and returns its id
func (d *DB) CreateHome(ctx context.Context, name, ownerID string) (string, error) {
	id := uuid.NewString()
	_, err := d.pool.Exec(ctx, "INSERT INTO homes (id, name, owner_id) VALUES ($1, $2, $3)", id, name, ownerID)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetHomeByID fetches a home regardless of owner; the caller decides
// between "not found" and "no access"
func (d *DB) GetHomeByID(ctx context.Context, id string) (*models.Home, error) {
	var h models.Home
	err := d.pool.QueryRow(ctx, "SELECT id, name, owner_id FROM homes WHERE id = $1", id).
		Scan(&h.ID, &h.Name, &h.OwnerID)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHomesByOwner fetches all homes visible to a user
func (d *DB) ListHomesByOwner(ctx context.Context, ownerID string) ([]models.Home, error) {
	rows, err := d.pool.Query(ctx, "SELECT id, name, owner_id FROM homes WHERE owner_id = $1 ORDER BY name", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	homes := []models.Home{}
	for rows.Next() {
		var h models.Home
		if err := rows.Scan(&h.ID, &h.Name, &h.OwnerID); err != nil {
			return nil, err
		}
		homes = append(homes, h)
	}
	return homes, rows.Err()
}

// --- Devices ---

// ListDevicesByHome fetches all devices registered in a home
func (d *DB) ListDevicesByHome(ctx context.Context, homeID string) ([]models.Device, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT device_id, home_id, name, type, state, mqtt_topic FROM devices WHERE home_id = $1 ORDER BY name", homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	devices := []models.Device{}
	for rows.Next() {
		var dev models.Device
		if err := rows.Scan(&dev.ID, &dev.HomeID, &dev.Name, &dev.Type, &dev.State, &dev.MQTTTopic); err != nil {
			return nil, err
		}
		devices = append(devices, dev)
	}
	return devices, rows.Err()
}

// InsertDevice registers a device in a home
func (d *DB) InsertDevice(ctx context.Context, id, homeID, name, deviceType, mqttTopic string, state json.RawMessage) error {
	_, err := d.pool.Exec(ctx,
		"INSERT INTO devices (device_id, home_id, name, type, mqtt_topic, state) VALUES ($1, $2, $3, $4, $5, $6)",
		id, homeID, name, deviceType, mqttTopic, state)
	return err
}

// UpdateDeviceState updates a device's last reported state
func (d *DB) UpdateDeviceState(ctx context.Context, id string, state json.RawMessage) error {
	_, err := d.pool.Exec(ctx, "UPDATE devices SET state = $1 WHERE device_id = $2", state, id)
	return err
}

// --- Automations ---

// ListAutomationsByHome fetches all automations of a home
func (d *DB) ListAutomationsByHome(ctx context.Context, homeID string) ([]models.Automation, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT id, home_id, name, enabled, trigger, action FROM automations WHERE home_id = $1 ORDER BY name", homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAutomations(rows)
}

// ListEnabledAutomations fetches every enabled automation across all homes,
// used to rebuild trigger associations and to drive the time tick
func (d *DB) ListEnabledAutomations(ctx context.Context) ([]models.Automation, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT id, home_id, name, enabled, trigger, action FROM automations WHERE enabled = true")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAutomations(rows)
}

func scanAutomations(rows pgx.Rows) ([]models.Automation, error) {
	automations := []models.Automation{}
	for rows.Next() {
		var a models.Automation
		if err := rows.Scan(&a.ID, &a.HomeID, &a.Name, &a.Enabled, &a.Trigger, &a.Action); err != nil {
			return nil, err
		}
		automations = append(automations, a)
	}
	return automations, rows.Err()
}

// GetAutomationByID fetches a single automation
func (d *DB) GetAutomationByID(ctx context.Context, id string) (*models.Automation, error) {
	var a models.Automation
	err := d.pool.QueryRow(ctx,
		"SELECT id, home_id, name, enabled, trigger, action FROM automations WHERE id = $1", id).
		Scan(&a.ID, &a.HomeID, &a.Name, &a.Enabled, &a.Trigger, &a.Action)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAutomation inserts an automation and returns its id. The id is
// always server-generated; clients never supply one.
func (d *DB) CreateAutomation(ctx context.Context, a *models.Automation) (string, error) {
	id := uuid.NewString()
	_, err := d.pool.Exec(ctx,
		"INSERT INTO automations (id, home_id, name, enabled, trigger, action) VALUES ($1, $2, $3, $4, $5, $6)",
		id, a.HomeID, a.Name, a.Enabled, a.Trigger, a.Action)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateAutomation replaces name, enabled flag, trigger and action.
// home_id is immutable after creation and deliberately not touched.
func (d *DB) UpdateAutomation(ctx context.Context, a *models.Automation) error {
	_, err := d.pool.Exec(ctx,
		"UPDATE automations SET name = $1, enabled = $2, trigger = $3, action = $4 WHERE id = $5",
		a.Name, a.Enabled, a.Trigger, a.Action, a.ID)
	return err
}

// DeleteAutomation removes an automation
func (d *DB) DeleteAutomation(ctx context.Context, id string) error {
	_, err := d.pool.Exec(ctx, "DELETE FROM automations WHERE id = $1", id)
	return err
}

// ToggleAutomation flips the enabled flag server-side and returns the new value
func (d *DB) ToggleAutomation(ctx context.Context, id string) (bool, error) {
	var enabled bool
	err := d.pool.QueryRow(ctx,
		"UPDATE automations SET enabled = NOT enabled WHERE id = $1 RETURNING enabled", id).Scan(&enabled)
	return enabled, err
}

// --- Scenes ---

// ListScenesByHome fetches all scenes of a home
func (d *DB) ListScenesByHome(ctx context.Context, homeID string) ([]models.Scene, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT id, home_id, name, description, actions FROM scenes WHERE home_id = $1 ORDER BY name", homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scenes := []models.Scene{}
	for rows.Next() {
		var s models.Scene
		if err := rows.Scan(&s.ID, &s.HomeID, &s.Name, &s.Description, &s.Actions); err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}
	return scenes, rows.Err()
}

// GetSceneByID fetches a single scene
func (d *DB) GetSceneByID(ctx context.Context, id string) (*models.Scene, error) {
	var s models.Scene
	err := d.pool.QueryRow(ctx,
		"SELECT id, home_id, name, description, actions FROM scenes WHERE id = $1", id).
		Scan(&s.ID, &s.HomeID, &s.Name, &s.Description, &s.Actions)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateScene inserts a scene with its action list fixed at creation
func (d *DB) CreateScene(ctx context.Context, s *models.Scene) (string, error) {
	id := uuid.NewString()
	_, err := d.pool.Exec(ctx,
		"INSERT INTO scenes (id, home_id, name, description, actions) VALUES ($1, $2, $3, $4, $5)",
		id, s.HomeID, s.Name, s.Description, s.Actions)
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteScene removes a scene. An execution already in flight completes
// or drops on not-found; there is no grace period.
func (d *DB) DeleteScene(ctx context.Context, id string) error {
	_, err := d.pool.Exec(ctx, "DELETE FROM scenes WHERE id = $1", id)
	return err
}
