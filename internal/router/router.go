package router

import (
	"github.com/anonto42/cookbook/backend/internal/handlers"
	"github.com/anonto42/cookbook/backend/internal/middleware"
	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the backends the routes are built on.
type Deps struct {
	DB           *gorm.DB
	Search       repositories.SearchIndex
	Popups       repositories.PopupCache
	Verifier     middleware.IDTokenVerifier
	JWTSecret    string
	PostsPerPage int
	Log          *zap.Logger
}

// SetupMiddleware configures global Echo middleware. It must run before
// SetupRoutes.
func SetupMiddleware(e *echo.Echo, log *zap.Logger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.Secure())
	e.Use(middleware.CSRF())
	log.Info("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	log := deps.Log

	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewGormUserRepository(deps.DB)
	followRepo := repositories.NewGormFollowRepository(deps.DB)
	recipeRepo := repositories.NewGormRecipeRepository(deps.DB)

	popups := deps.Popups
	if popups == nil {
		popups = repositories.NopPopupCache{}
	}
	search := deps.Search
	if search == nil {
		search = repositories.NewSQLSearchIndex(deps.DB)
	}

	sessions := middleware.NewSessions(deps.JWTSecret, userRepo)
	scope := handlers.NewScoper(userRepo)
	requireLogin := middleware.RequireLogin("/auth/login")

	// Every page sees the session user, when there is one.
	site := e.Group("", sessions.LoadUser())

	authHandler := handlers.NewAuthHandler(scope, userRepo, sessions, deps.Verifier)
	authHandler.RegisterAuthRoutes(site.Group("/auth"))
	if deps.Verifier == nil {
		log.Info("Auth routes configured.", zap.Bool("firebase", false))
	} else {
		log.Info("Auth routes configured.", zap.Bool("firebase", true))
	}

	feedHandler := handlers.NewFeedHandler(scope, recipeRepo, search, deps.PostsPerPage, log)
	feedHandler.RegisterFeedRoutes(site)
	log.Info("Feed routes configured.")

	userHandler := handlers.NewUserHandler(scope, userRepo, followRepo, recipeRepo, popups, deps.PostsPerPage, log)
	userHandler.RegisterUserRoutes(site, requireLogin)
	log.Info("User routes configured.")

	followHandler := handlers.NewFollowHandler(scope, userRepo, followRepo, popups, log)
	followHandler.RegisterFollowRoutes(site, requireLogin)
	log.Info("Follow routes configured.")

	recipeHandler := handlers.NewRecipeHandler(scope, recipeRepo)
	recipeHandler.RegisterRecipeRoutes(site)
	log.Info("Recipe routes configured.")

	log.Info("All routes configured.")
}
