package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homehub/internal/config"
	"homehub/internal/db"
	"homehub/internal/engine"
	"homehub/internal/mqtt"
	"homehub/internal/redis"
	"homehub/internal/scheduler"
	"homehub/internal/taskqueue"
	"homehub/internal/web"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConn, err := db.NewDB(cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbConn.Close()

	redisClient := redis.NewRedisClient(cfg.RedisAddr)

	mqttClient, err := mqtt.NewClient(cfg.MQTTBroker, cfg.MQTTClientID)
	if err != nil {
		log.Fatalf("Failed to connect to MQTT: %v", err)
	}

	taskqueue.SetGlobalInstances(dbConn, redisClient, mqttClient)
	go taskqueue.StartWorkers(cfg.RedisAddr)

	eng := engine.NewEngine(mqttClient, redisClient, dbConn)
	if err := eng.Start(); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}

	sched := scheduler.NewScheduler()
	if _, err := sched.AddJob("* * * * *", func() {
		eng.TickTimeTriggers(time.Now())
	}); err != nil {
		log.Fatalf("Failed to schedule time trigger tick: %v", err)
	}
	sched.Start()

	// Web server gets the engine so rule changes refresh trigger associations
	webServer := web.NewWebServer(dbConn, redisClient, cfg.JWTSecret, eng)
	go webServer.Start(cfg.HTTPAddr)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	eng.Stop()
	sched.Stop()
	taskqueue.StopWorkers()
	log.Println("Shutdown complete")
}
