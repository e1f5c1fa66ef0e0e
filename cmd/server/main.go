package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/shashankgaur/task-manager-api/internal/auth"
	"github.com/shashankgaur/task-manager-api/internal/config"
	"github.com/shashankgaur/task-manager-api/internal/database"
	"github.com/shashankgaur/task-manager-api/internal/email"
	"github.com/shashankgaur/task-manager-api/internal/handlers"
	"github.com/shashankgaur/task-manager-api/internal/middleware"
	"github.com/shashankgaur/task-manager-api/internal/repository"
	"github.com/shashankgaur/task-manager-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewSessionTokenRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Token signing key is injected here; nothing reads it at module scope.
	tokenManager := auth.NewTokenManager(cfg.JWTSecret)

	// Email notifications are optional; without a key they become no-ops.
	var notifier email.Notifier = email.NoopNotifier{}
	if cfg.SendGridAPIKey != "" {
		notifier = email.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.EmailFrom)
	}

	// Services
	userService := services.NewUserService(userRepo, tokenRepo, tokenManager, notifier)
	avatarService := services.NewAvatarService(userRepo)
	taskService := services.NewTaskService(taskRepo)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	avatarHandler := handlers.NewAvatarHandler(avatarService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	requireAuth := middleware.RequireAuth(tokenManager, userRepo, tokenRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Manager API is running",
		})
	})

	// User routes
	users := r.Group("/users")
	{
		users.POST("", userHandler.Signup)
		users.POST("/login", userHandler.Login)
		users.POST("/logout", requireAuth, userHandler.Logout)
		users.POST("/logoutAll", requireAuth, userHandler.LogoutAll)
		users.GET("/me", requireAuth, userHandler.Me)
		users.PATCH("/me", requireAuth, userHandler.UpdateMe)
		users.DELETE("/me", requireAuth, userHandler.DeleteMe)

		users.POST("/me/avatar", requireAuth, avatarHandler.Upload)
		users.DELETE("/me/avatar", requireAuth, avatarHandler.Delete)
		users.GET("/:id/avatar", avatarHandler.Get)
	}

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/:id", taskHandler.Get)
		tasks.PATCH("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
