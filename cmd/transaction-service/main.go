package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/walter090/customer-transactions/internal/config"
	"github.com/walter090/customer-transactions/internal/transaction/command"
	"github.com/walter090/customer-transactions/internal/transaction/handler"
	"github.com/walter090/customer-transactions/internal/transaction/query"
	"github.com/walter090/customer-transactions/internal/transaction/reconcile"
	"github.com/walter090/customer-transactions/internal/transaction/repository"
	"github.com/walter090/customer-transactions/shared/clients"
	"github.com/walter090/customer-transactions/shared/events"
	"github.com/walter090/customer-transactions/shared/middleware"
	redisClient "github.com/walter090/customer-transactions/shared/redis"
)

func main() {
	cfg := config.MustLoad()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	redis, err := redisClient.NewClient(redisClient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	publisher := events.NewPublisher(redis.Client)
	customerClient := clients.NewCustomerClient(cfg.CustomerAPIRoot)

	writeRepo := repository.NewTransactionWriteRepository(db)
	readRepo := repository.NewTransactionReadRepository(db, redis.Client)
	customerRepo := repository.NewCustomerRepository(customerClient, redis.Client)

	commandSvc := command.NewTransactionCommandService(writeRepo, readRepo, customerClient, publisher)
	querySvc := query.NewTransactionQueryService(readRepo, customerRepo)

	sweeper := reconcile.NewSweeper(writeRepo, cfg.Sweep.Interval, cfg.Sweep.Deadline)
	go sweeper.Run(context.Background())

	transactionHandler := handler.NewTransactionHandler(commandSvc, querySvc)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "transaction-service"})
	})

	transactions := router.Group("/transactions", middleware.AuthMiddleware())
	{
		transactions.POST("/", transactionHandler.CreateTransaction)
		transactions.GET("/", transactionHandler.ListTransactions)
		transactions.POST("/info/", transactionHandler.Info)
		transactions.GET("/dataset/", transactionHandler.Dataset)

		transactions.PUT("/:id/", transactionHandler.RejectMutation)
		transactions.PATCH("/:id/", transactionHandler.RejectMutation)
		transactions.DELETE("/:id/", transactionHandler.RejectMutation)
	}

	log.Printf("Transaction service starting on port %d", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
