package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"consul-mailer/internal/config"
	"consul-mailer/internal/domain"
	"consul-mailer/internal/handler"
	"consul-mailer/internal/middleware"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service"
	"consul-mailer/internal/service/auth"
	"consul-mailer/internal/service/digest"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (preference cache disabled)", err)
	}
	if redis != nil {
		defer redis.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (mail archive disabled)", err)
	}

	transport, err := service.NewTransport(cfg, minioClient)
	if err != nil {
		log.Fatalf("Failed to configure mail transport: %v", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, transport, cfg)
	handlers := handler.NewHandlers(services)

	scheduler := digest.NewScheduler(services.Digest, cfg.DigestInterval)
	scheduler.Start()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down")
		scheduler.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Get("/confirm", h.Auth.Confirm)
	authGroup.Post("/forgot-password", h.Auth.ForgotPassword)
	authGroup.Post("/reset-password", h.Auth.ResetPassword)

	protected := v1.Group("", middleware.AuthRequired(authService))

	users := protected.Group("/users")
	users.Get("/me/preferences", h.Preference.Get)
	users.Put("/me/preferences", h.Preference.Update)

	for _, kind := range []domain.EntityKind{domain.KindProposal, domain.KindDebate} {
		subjects := protected.Group("/" + string(kind) + "s/:id")
		subjects.Post("/comments", h.Subject.CreateComment(kind))
		subjects.Post("/supports", h.Subject.Support(kind))
		subjects.Post("/announcements", h.Subject.CreateAnnouncement(kind))
	}

	protected.Post("/messages", h.Message.Send)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	protected.Patch("/spending-proposals/:id/valuation",
		middleware.RequireAnyRole(domain.RoleValuator, domain.RoleAdministrator),
		h.Valuation.Update)

	admin := protected.Group("/admin", middleware.RequireRole(domain.RoleAdministrator))
	admin.Post("/digest/run", h.Admin.RunDigest)
	admin.Post("/ledger/expire", h.Admin.ExpirePending)
}
