package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bookstore/internal/config"
	"bookstore/internal/handlers"
	"bookstore/internal/middleware"
	"bookstore/internal/models"
	"bookstore/internal/repositories"
	"bookstore/internal/services"
	"bookstore/internal/tokens"
	"bookstore/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.BookCategory{},
		&models.Book{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusChangeLog{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// --- Redis (single-use token store) ---
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	tokenStore := tokens.NewStore(redisClient)

	// --- RabbitMQ (notification email queue) ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close() // Ensure the connection is closed on exit

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	authorRepo := repositories.NewGORMAuthorRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	bookRepo := repositories.NewGORMBookRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	analyticsRepo := repositories.NewGORMAnalyticsRepository(db)
	txm := repositories.NewGormTxManager(db)

	// --- Services ---
	notifier := services.NewNotificationService(mqClient, userRepo, cfg.APIHost)
	authService := services.NewAuthService(userRepo, tokenStore, notifier,
		cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	googleService := services.NewGoogleAuthService(userRepo, authService,
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	bookService := services.NewBookService(bookRepo, categoryRepo, authorRepo)
	categoryService := services.NewCategoryService(categoryRepo, bookRepo)
	authorService := services.NewAuthorService(authorRepo)
	cartService := services.NewCartService(cartRepo, bookRepo, txm)
	orderService := services.NewOrderService(orderRepo, cartRepo, bookRepo, txm, notifier)
	analyticsService := services.NewAnalyticsService(analyticsRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, googleService)
	bookHandler := handlers.NewBookHandler(bookService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	authorHandler := handlers.NewAuthorHandler(authorService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	bookHandler.RegisterRoutes(apiV1)
	categoryHandler.RegisterRoutes(apiV1)
	authorHandler.RegisterRoutes(apiV1)

	// Routes requiring authentication
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	// Admin-only routes
	admin := apiV1.Group("/admin", middleware.AuthRequired(authService), middleware.RequireRole(models.RoleAdmin))
	bookHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	authorHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	analyticsHandler.RegisterAdminRoutes(admin)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Email Consumer ---
	var mailer services.Mailer
	if cfg.SMTPHost == "" {
		mailer = services.LogMailer{}
	} else {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailSender)
	}
	go func() {
		log.Println("Starting RabbitMQ consumer for email jobs...")
		messageHandler := func(msg amqp.Delivery) error {
			var job services.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				// A malformed job will never succeed; log it and ack via nil.
				log.Printf("Dropping malformed email job %d: %v", msg.DeliveryTag, err)
				return nil
			}
			return mailer.Send(job.To, job.Subject, job.Body)
		}
		if consumerErr := mqClient.Consume(messageHandler); consumerErr != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
		}
	}()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}
	log.Println("Server gracefully stopped")
}
