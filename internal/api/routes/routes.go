// Package routes handles the setup and configuration of API routes
package routes

import (
	"log/slog"
	"time"

	_ "boardsite/docs" // Import swagger docs
	"boardsite/internal/api/handlers"
	"boardsite/internal/api/middleware"
	"boardsite/internal/auth"
	"boardsite/internal/config"
	"boardsite/internal/email"
	"boardsite/internal/repository"
	"boardsite/internal/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the stores and services the routes are built from.
// Notifier and Presigner are optional.
type Dependencies struct {
	DB        handlers.Pinger
	Posts     repository.PostRepository
	Contacts  repository.ContactRepository
	Guard     *auth.Guard
	Notifier  email.Notifier
	Presigner storage.Presigner
	Logger    *slog.Logger
}

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	location, err := cfg.Listing.Location()
	if err != nil {
		location = time.UTC
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(deps.Guard, cfg.Auth.CookieName)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB)
	authHandler := handlers.NewAuthHandler(deps.Guard, handlers.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.IsProduction(),
		MaxAge: cfg.Auth.SessionTTL,
	}, cfg.Auth.RegistrationOpen, logger)
	postHandler := handlers.NewPostHandler(deps.Posts, location, logger)
	contactHandler := handlers.NewContactHandler(deps.Contacts, deps.Notifier, location, logger)
	uploadHandler := handlers.NewUploadHandler(deps.Presigner, logger)

	api := r.Group("/api")
	{
		// Health check (no authentication required)
		api.GET("/health", healthHandler.Health)

		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/verify-token", authHandler.VerifyToken)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.DELETE("/profile/:id", authMiddleware.AdminRequired(), authHandler.DeleteProfile)
		}

		// Board routes: reads are public
		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.ListPosts)
			posts.GET("/:id", postHandler.GetPost)

			adminPosts := posts.Group("")
			adminPosts.Use(authMiddleware.AdminRequired())
			{
				adminPosts.POST("", postHandler.CreatePost)
				adminPosts.PUT("/:id", postHandler.UpdatePost)
				adminPosts.DELETE("/:id", postHandler.DeletePost)
			}
		}

		// Inquiry routes: submission is public
		contacts := api.Group("/contacts")
		{
			contacts.POST("", contactHandler.CreateContact)

			adminContacts := contacts.Group("")
			adminContacts.Use(authMiddleware.AdminRequired())
			{
				adminContacts.GET("", contactHandler.ListContacts)
				adminContacts.PUT("/:id", contactHandler.UpdateContactStatus)
				adminContacts.DELETE("/:id", contactHandler.DeleteContact)
			}
		}

		api.POST("/upload", authMiddleware.AdminRequired(), uploadHandler.CreateUpload)
	}

	return r
}
