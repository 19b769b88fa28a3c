package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/minishop/ordersys/internal/config"
	"github.com/minishop/ordersys/internal/consumer"
	"github.com/minishop/ordersys/internal/db"
	"github.com/minishop/ordersys/internal/discovery"
	"github.com/minishop/ordersys/internal/handlers"
	"github.com/minishop/ordersys/internal/messaging"
)

const (
	serviceName = "notification-service"
	serviceID   = "notification-service-1"
)

func main() {
	cfg := config.Load()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.PGHost, cfg.PGPort, cfg.PGUser, cfg.PGPassword, cfg.PGDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.EnsureNotificationSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	if err := rabbitMQ.DeclareQueue(cfg.OrderTopic); err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}

	messages, err := rabbitMQ.Consume(cfg.OrderTopic, cfg.ConsumerGroup)
	if err != nil {
		log.Fatalf("Failed to consume messages: %v", err)
	}

	// Start the consumer loop
	notificationRepo := db.NewNotificationRepository(database)
	notificationConsumer := consumer.NewNotificationConsumer(notificationRepo)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go notificationConsumer.Run(consumerCtx, messages)

	// Register with Consul
	consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort)
	if err != nil {
		log.Fatalf("Failed to connect to Consul: %v", err)
	}
	err = consul.Register(discovery.ServiceConfig{
		Name: serviceName,
		ID:   serviceID,
		Port: cfg.NotificationHTTPPort,
		Tags: []string{"api", "notifications"},
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
		stopConsumer()
		consul.Deregister(serviceID)
		os.Exit(0)
	}()

	// Setup router for the notification read surface
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	router := gin.Default()

	router.GET("/health", notificationHandler.HealthCheck)
	router.GET("/notifications", notificationHandler.ListNotifications)

	// Start server
	log.Printf("🚀 Notification Service starting on http://localhost:%d", cfg.NotificationHTTPPort)
	log.Printf("   Consuming queue %q as group %q", cfg.OrderTopic, cfg.ConsumerGroup)
	router.Run(fmt.Sprintf(":%d", cfg.NotificationHTTPPort))
}
