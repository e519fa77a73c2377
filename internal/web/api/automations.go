package api

import (
	"errors"
	"log"

	"homehub/internal/db"
	"homehub/internal/models"
	"homehub/internal/rules"
	"homehub/internal/web/middleware"
	webModels "homehub/internal/web/models"

	"github.com/gin-gonic/gin"
)

func RegisterAutomationRoutes(r *gin.Engine, middleware *middleware.MiddlewareManager, store AutomationStore, homes HomeStore, engine EngineNotifier) {
	homeScoped := r.Group("/homes/:homeID/automations")
	homeScoped.Use(middleware.RequireAuth())
	{
		homeScoped.GET("", func(c *gin.Context) {
			homeID := c.Param("homeID")
			if requireHome(c, homes, homeID) == nil {
				return
			}
			automations, err := store.ListAutomationsByHome(c, homeID)
			if err != nil {
				log.Printf("API: Failed to fetch automations: %v", err)
				c.JSON(500, gin.H{"error": "Failed to fetch automations"})
				return
			}
			c.JSON(200, automations)
		})

		homeScoped.POST("", func(c *gin.Context) {
			homeID := c.Param("homeID")
			if requireHome(c, homes, homeID) == nil {
				return
			}
			var req webModels.AutomationRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}

			homeSet, ok := visibleHomes(c, homes)
			if !ok {
				return
			}
			draft := rules.AutomationDraft{
				HomeID:  homeID,
				Name:    req.Name,
				Trigger: req.Trigger,
				Action:  req.Action,
			}
			if errs := rules.ValidateAutomation(draft, homeSet); !errs.OK() {
				c.JSON(400, gin.H{"errors": errs})
				return
			}

			a := models.Automation{
				HomeID:  homeID,
				Name:    req.Name,
				Enabled: req.Enabled,
				Trigger: req.Trigger.Build(),
				Action:  req.Action.Build(),
			}
			id, err := store.CreateAutomation(c, &a)
			if err != nil {
				log.Printf("API: Failed to create automation: %v", err)
				c.JSON(500, gin.H{"error": "Failed to create automation"})
				return
			}
			a.ID = id

			if err := engine.RefreshAssociations(a.ID); err != nil {
				// Don't fail the request, the engine rebuilds on restart
				log.Printf("API: Failed to refresh associations for automation %s: %v", a.ID, err)
			}

			c.JSON(201, a)
		})
	}

	automations := r.Group("/automations")
	automations.Use(middleware.RequireAuth())
	{
		automations.PUT("/:id", func(c *gin.Context) {
			id := c.Param("id")
			if !rules.ValidIdentity(id) {
				c.JSON(400, gin.H{"error": "Invalid Automation ID. Cannot update."})
				return
			}

			existing, err := store.GetAutomationByID(c, id)
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Automation not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch automation"})
				return
			}
			if requireHome(c, homes, existing.HomeID) == nil {
				return
			}

			var req webModels.AutomationRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}

			homeSet, ok := visibleHomes(c, homes)
			if !ok {
				return
			}
			// home_id is immutable: the draft always validates against the
			// automation's existing home
			draft := rules.AutomationDraft{
				HomeID:  existing.HomeID,
				Name:    req.Name,
				Trigger: req.Trigger,
				Action:  req.Action,
			}
			if errs := rules.ValidateAutomation(draft, homeSet); !errs.OK() {
				c.JSON(400, gin.H{"errors": errs})
				return
			}

			updated := models.Automation{
				ID:      existing.ID,
				HomeID:  existing.HomeID,
				Name:    req.Name,
				Enabled: req.Enabled,
				Trigger: req.Trigger.Build(),
				Action:  req.Action.Build(),
			}
			if err := store.UpdateAutomation(c, &updated); err != nil {
				log.Printf("API: Failed to update automation %s: %v", id, err)
				c.JSON(500, gin.H{"error": "Failed to update automation"})
				return
			}

			if err := engine.RefreshAssociations(updated.ID); err != nil {
				log.Printf("API: Failed to refresh associations for automation %s: %v", updated.ID, err)
			}

			c.JSON(200, updated)
		})

		automations.DELETE("/:id", func(c *gin.Context) {
			id := c.Param("id")
			if !rules.ValidIdentity(id) {
				c.JSON(400, gin.H{"error": "Invalid Automation ID. Cannot delete."})
				return
			}

			existing, err := store.GetAutomationByID(c, id)
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Automation not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch automation"})
				return
			}
			if requireHome(c, homes, existing.HomeID) == nil {
				return
			}

			if err := engine.RemoveAssociations(id); err != nil {
				log.Printf("API: Failed to remove associations for automation %s: %v", id, err)
			}

			if err := store.DeleteAutomation(c, id); err != nil {
				log.Printf("API: Failed to delete automation %s: %v", id, err)
				c.JSON(500, gin.H{"error": "Failed to delete automation"})
				return
			}
			c.JSON(200, gin.H{"status": "Automation deleted successfully"})
		})

		automations.POST("/:id/toggle", func(c *gin.Context) {
			id := c.Param("id")
			if !rules.ValidIdentity(id) {
				c.JSON(400, gin.H{"error": "Invalid Automation ID. Cannot toggle."})
				return
			}

			existing, err := store.GetAutomationByID(c, id)
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Automation not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch automation"})
				return
			}
			if requireHome(c, homes, existing.HomeID) == nil {
				return
			}

			enabled, err := store.ToggleAutomation(c, id)
			if err != nil {
				log.Printf("API: Failed to toggle automation %s: %v", id, err)
				c.JSON(500, gin.H{"error": "Failed to toggle automation"})
				return
			}

			if err := engine.RefreshAssociations(id); err != nil {
				log.Printf("API: Failed to refresh associations for automation %s: %v", id, err)
			}

			c.JSON(200, gin.H{"id": id, "enabled": enabled})
		})
	}
}
