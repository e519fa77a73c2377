package api

import (
	"encoding/json"
	"log"

	"homehub/internal/web/middleware"
	webModels "homehub/internal/web/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// The device directory is a convenience surface for populating pickers;
// a rule referencing a device that disappears later is still structurally
// valid and gets rejected at evaluation time instead.
func RegisterDeviceRoutes(r *gin.Engine, middleware *middleware.MiddlewareManager, store DeviceStore, homes HomeStore) {
	devices := r.Group("/homes/:homeID/devices")
	devices.Use(middleware.RequireAuth())
	{
		devices.GET("", func(c *gin.Context) {
			homeID := c.Param("homeID")
			if requireHome(c, homes, homeID) == nil {
				return
			}
			list, err := store.ListDevicesByHome(c, homeID)
			if err != nil {
				log.Printf("API: Failed to fetch devices: %v", err)
				c.JSON(500, gin.H{"error": "Failed to fetch devices"})
				return
			}
			c.JSON(200, list)
		})

		devices.POST("", func(c *gin.Context) {
			homeID := c.Param("homeID")
			if requireHome(c, homes, homeID) == nil {
				return
			}
			var req webModels.RegisterDeviceRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}

			id := req.ID
			if id == "" {
				id = uuid.NewString()
			}
			topic := req.MQTTTopic
			if topic == "" {
				topic = "devices/" + id + "/state"
			}
			if err := store.InsertDevice(c, id, homeID, req.Name, req.Type, topic, json.RawMessage(`{}`)); err != nil {
				log.Printf("API: Failed to register device: %v", err)
				c.JSON(500, gin.H{"error": "Failed to register device"})
				return
			}
			c.JSON(201, gin.H{"id": id, "mqtt_topic": topic})
		})
	}
}
