package api

import (
	"context"
	"encoding/json"
	"errors"

	"homehub/internal/db"
	"homehub/internal/models"
	"homehub/internal/rules"

	"github.com/gin-gonic/gin"
)

// Store interfaces cover exactly what the handlers need; *db.DB satisfies
// all of them.

type HomeStore interface {
	CreateHome(ctx context.Context, name, ownerID string) (string, error)
	GetHomeByID(ctx context.Context, id string) (*models.Home, error)
	ListHomesByOwner(ctx context.Context, ownerID string) ([]models.Home, error)
}

type DeviceStore interface {
	ListDevicesByHome(ctx context.Context, homeID string) ([]models.Device, error)
	InsertDevice(ctx context.Context, id, homeID, name, deviceType, mqttTopic string, state json.RawMessage) error
}

type AutomationStore interface {
	ListAutomationsByHome(ctx context.Context, homeID string) ([]models.Automation, error)
	GetAutomationByID(ctx context.Context, id string) (*models.Automation, error)
	CreateAutomation(ctx context.Context, a *models.Automation) (string, error)
	UpdateAutomation(ctx context.Context, a *models.Automation) error
	DeleteAutomation(ctx context.Context, id string) error
	ToggleAutomation(ctx context.Context, id string) (bool, error)
}

type SceneStore interface {
	ListScenesByHome(ctx context.Context, homeID string) ([]models.Scene, error)
	GetSceneByID(ctx context.Context, id string) (*models.Scene, error)
	CreateScene(ctx context.Context, s *models.Scene) (string, error)
	DeleteScene(ctx context.Context, id string) error
}

// EngineNotifier lets handlers tell the engine about rule changes
type EngineNotifier interface {
	RefreshAssociations(automationID string) error
	RemoveAssociations(automationID string) error
}

// requireHome enforces the privacy wall between tenants. A home that
// exists but belongs to someone else answers 403, never 404, so "no
// access" is never mistaken for "nothing exists". Writes the response and
// returns nil on failure.
func requireHome(c *gin.Context, homes HomeStore, homeID string) *models.Home {
	home, err := homes.GetHomeByID(c, homeID)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(404, gin.H{"error": "Home not found"})
		return nil
	}
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to fetch home"})
		return nil
	}
	if home.OwnerID != c.GetString("user_id") {
		c.JSON(403, gin.H{"error": "You do not have access to this home"})
		return nil
	}
	return home
}

// visibleHomes builds the caller's home set for rule validation
func visibleHomes(c *gin.Context, homes HomeStore) (rules.HomeSet, bool) {
	list, err := homes.ListHomesByOwner(c, c.GetString("user_id"))
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to fetch homes"})
		return nil, false
	}
	set := rules.HomeSet{}
	for _, h := range list {
		set[h.ID] = true
	}
	return set, true
}
