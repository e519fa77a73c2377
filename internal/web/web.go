package web

import (
	"homehub/auth"
	"homehub/internal/db"
	"homehub/internal/taskqueue"
	"homehub/internal/web/api"
	"homehub/internal/web/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type WebServer struct {
	router *gin.Engine
}

func NewWebServer(dbConn *db.DB, redisClient *redis.Client, JWTSecret string, engine api.EngineNotifier) *WebServer {
	router := gin.Default()

	authModule := auth.NewAuthModule(dbConn.Pool(), redisClient, JWTSecret)
	middlewareManager := middleware.NewMiddlewareManager(dbConn.Pool(), redisClient, authModule)

	api.RegisterAuthRoutes(router, authModule, middlewareManager)
	api.RegisterUserRoutes(router, middlewareManager, dbConn.Pool())
	api.RegisterHomeRoutes(router, middlewareManager, dbConn)
	api.RegisterDeviceRoutes(router, middlewareManager, dbConn, dbConn)
	api.RegisterAutomationRoutes(router, middlewareManager, dbConn, dbConn, engine)
	api.RegisterSceneRoutes(router, middlewareManager, dbConn, dbConn, taskqueue.EnqueueSceneExecution)

	return &WebServer{router: router}
}

func (ws *WebServer) Start(addr string) {
	ws.router.Run(addr)
}
