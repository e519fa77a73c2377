package api

import (
	"log"
	"strings"

	"homehub/internal/web/middleware"
	webModels "homehub/internal/web/models"

	"github.com/gin-gonic/gin"
)

func RegisterHomeRoutes(r *gin.Engine, middleware *middleware.MiddlewareManager, store HomeStore) {
	homes := r.Group("/homes")
	homes.Use(middleware.RequireAuth())
	{
		homes.GET("", func(c *gin.Context) {
			list, err := store.ListHomesByOwner(c, c.GetString("user_id"))
			if err != nil {
				log.Printf("API: Failed to fetch homes: %v", err)
				c.JSON(500, gin.H{"error": "Failed to fetch homes"})
				return
			}
			c.JSON(200, list)
		})

		homes.POST("", func(c *gin.Context) {
			var req webModels.CreateHomeRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			if strings.TrimSpace(req.Name) == "" {
				c.JSON(400, gin.H{"errors": gin.H{"name": "Name is required"}})
				return
			}

			id, err := store.CreateHome(c, req.Name, c.GetString("user_id"))
			if err != nil {
				log.Printf("API: Failed to create home: %v", err)
				c.JSON(500, gin.H{"error": "Failed to create home"})
				return
			}
			c.JSON(201, gin.H{"id": id, "name": req.Name})
		})
	}
}
