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

func RegisterSceneRoutes(r *gin.Engine, middleware *middleware.MiddlewareManager, store SceneStore, homes HomeStore, enqueueExecution func(sceneID string) error) {
	homeScoped := r.Group("/homes/:homeID/scenes")
	homeScoped.Use(middleware.RequireAuth())
	{
		homeScoped.GET("", func(c *gin.Context) {
			homeID := c.Param("homeID")
			if requireHome(c, homes, homeID) == nil {
				return
			}
			scenes, err := store.ListScenesByHome(c, homeID)
			if err != nil {
				log.Printf("API: Failed to fetch scenes: %v", err)
				c.JSON(500, gin.H{"error": "Failed to fetch scenes"})
				return
			}
			c.JSON(200, scenes)
		})

		homeScoped.POST("", func(c *gin.Context) {
			homeID := c.Param("homeID")
			if requireHome(c, homes, homeID) == nil {
				return
			}
			var req webModels.SceneRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}

			homeSet, ok := visibleHomes(c, homes)
			if !ok {
				return
			}
			draft := rules.SceneDraft{
				HomeID:      homeID,
				Name:        req.Name,
				Description: req.Description,
				Actions:     req.Actions,
			}
			if errs := rules.ValidateScene(draft, homeSet); !errs.OK() {
				c.JSON(400, gin.H{"errors": errs})
				return
			}

			actions := make([]models.Action, 0, len(req.Actions))
			for _, a := range req.Actions {
				actions = append(actions, a.Build())
			}
			s := models.Scene{
				HomeID:      homeID,
				Name:        req.Name,
				Description: req.Description,
				Actions:     actions,
			}
			id, err := store.CreateScene(c, &s)
			if err != nil {
				log.Printf("API: Failed to create scene: %v", err)
				c.JSON(500, gin.H{"error": "Failed to create scene"})
				return
			}
			s.ID = id
			c.JSON(201, s)
		})
	}

	scenes := r.Group("/scenes")
	scenes.Use(middleware.RequireAuth())
	{
		scenes.POST("/:id/execute", func(c *gin.Context) {
			id := c.Param("id")
			if !rules.ValidIdentity(id) {
				c.JSON(400, gin.H{"error": "Invalid Scene ID. Cannot execute."})
				return
			}

			s, err := store.GetSceneByID(c, id)
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Scene not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch scene"})
				return
			}
			if requireHome(c, homes, s.HomeID) == nil {
				return
			}

			if err := enqueueExecution(id); err != nil {
				log.Printf("API: Failed to enqueue execution for scene %s: %v", id, err)
				c.JSON(500, gin.H{"error": "Failed to start scene execution"})
				return
			}
			// Accepted means the batch was handed to the executor, not that
			// any device confirmed the change
			c.JSON(202, gin.H{"status": "Scene execution started"})
		})

		scenes.DELETE("/:id", func(c *gin.Context) {
			id := c.Param("id")
			if !rules.ValidIdentity(id) {
				c.JSON(400, gin.H{"error": "Invalid Scene ID. Cannot delete."})
				return
			}

			s, err := store.GetSceneByID(c, id)
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Scene not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch scene"})
				return
			}
			if requireHome(c, homes, s.HomeID) == nil {
				return
			}

			if err := store.DeleteScene(c, id); err != nil {
				log.Printf("API: Failed to delete scene %s: %v", id, err)
				c.JSON(500, gin.H{"error": "Failed to delete scene"})
				return
			}
			c.JSON(200, gin.H{"status": "Scene deleted successfully"})
		})
	}
}
