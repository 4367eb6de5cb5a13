package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/walter090/customer-transactions/internal/config"
	"github.com/walter090/customer-transactions/internal/customer/command"
	"github.com/walter090/customer-transactions/internal/customer/handler"
	"github.com/walter090/customer-transactions/internal/customer/query"
	"github.com/walter090/customer-transactions/internal/customer/repository"
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

	writeRepo := repository.NewCustomerWriteRepository(db)
	readRepo := repository.NewCustomerReadRepository(db, redis.Client)
	txClient := clients.NewTransactionClient(cfg.TransactionAPIRoot)

	commandSvc := command.NewCustomerCommandService(writeRepo, readRepo, publisher)
	querySvc := query.NewCustomerQueryService(writeRepo, readRepo, txClient)

	customerHandler := handler.NewCustomerHandler(commandSvc, querySvc)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "customer-service"})
	})

	customers := router.Group("/customers")
	{
		customers.POST("/", customerHandler.Signup)
		customers.POST("/login/", customerHandler.Login)

		authed := customers.Group("", middleware.AuthMiddleware())
		{
			authed.GET("/", customerHandler.List)
			authed.GET("/self/", customerHandler.Self)
			authed.GET("/verify_admin/", customerHandler.VerifyAdmin)
			authed.POST("/transfer/", customerHandler.Transfer)
			authed.POST("/id/", customerHandler.LookupID)
			authed.GET("/:id/", customerHandler.Retrieve)
			authed.GET("/:id/basic/", customerHandler.Basic)
			authed.GET("/:id/verify/", customerHandler.Verify)
		}
	}

	log.Printf("Customer service starting on port %d", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
