package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minishop/ordersys/internal/cache"
	"github.com/minishop/ordersys/internal/config"
	"github.com/minishop/ordersys/internal/db"
	"github.com/minishop/ordersys/internal/discovery"
	"github.com/minishop/ordersys/internal/handlers"
	"github.com/minishop/ordersys/internal/messaging"
	"github.com/minishop/ordersys/internal/outbox"
	"github.com/minishop/ordersys/internal/publisher"
	"github.com/minishop/ordersys/internal/service"
)

const (
	serviceName = "order-service"
	serviceID   = "order-service-1"
)

func main() {
	cfg := config.Load()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.PGHost, cfg.PGPort, cfg.PGUser, cfg.PGPassword, cfg.PGDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.EnsureOrderSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	// Connect to Redis
	redisCache, err := cache.NewRedisCache(cfg.RedisHost, cfg.RedisPort, 5*time.Minute)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Create publisher
	eventPublisher, err := publisher.NewOrderEventPublisher(rabbitMQ, cfg.OrderTopic)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}

	// Create repositories and service
	orderRepo := db.NewOrderRepository(database)
	cachedRepo := db.NewCachedOrderRepository(orderRepo, redisCache)
	outboxRepo := db.NewOutboxRepository(database)
	orderService := service.NewOrderService(cachedRepo, eventPublisher, outboxRepo)
	orderHandler := handlers.NewOrderHandler(orderService, cachedRepo)

	// Start the outbox relay to backfill events that missed the broker
	relayCtx, stopRelay := context.WithCancel(context.Background())
	relay := outbox.NewRelay(outboxRepo, eventPublisher, 5*time.Second, 10)
	go relay.Run(relayCtx)

	// Register with Consul
	consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort)
	if err != nil {
		log.Fatalf("Failed to connect to Consul: %v", err)
	}
	err = consul.Register(discovery.ServiceConfig{
		Name: serviceName,
		ID:   serviceID,
		Port: cfg.OrderHTTPPort,
		Tags: []string{"api", "orders"},
	})
	if err != nil {
		log.Fatalf("Failed to register service: %v", err)
	}

	// Deregister on shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		stopRelay()
		consul.Deregister(serviceID)
		os.Exit(0)
	}()

	// Setup router
	router := gin.Default()

	router.GET("/health", orderHandler.HealthCheck)
	router.GET("/orders", orderHandler.ListOrders)
	router.GET("/orders/:id", orderHandler.GetOrder)
	router.POST("/orders", orderHandler.CreateOrder)

	// Start server
	log.Printf("🚀 Order Service starting on http://localhost:%d", cfg.OrderHTTPPort)
	log.Printf("   Publishing events to queue %q", cfg.OrderTopic)
	router.Run(fmt.Sprintf(":%d", cfg.OrderHTTPPort))
}
