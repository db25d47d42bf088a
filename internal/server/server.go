package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefinder/backend/config"
	"github.com/platefinder/backend/internal/api"
	"github.com/platefinder/backend/internal/database"
	"github.com/platefinder/backend/internal/middleware"
	"github.com/platefinder/backend/internal/repository"
	"github.com/platefinder/backend/internal/service"
	"github.com/platefinder/backend/internal/spoonacular"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	db     *gorm.DB
	redis  *redis.Client
}

// NewServer wires the repositories, services and handlers and returns a
// server ready to start.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	switch {
	case config.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case config.IsTest():
		gin.SetMode(gin.TestMode)
	case config.IsDevelopment():
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	preferencesRepo := repository.NewPreferencesRepository(db)

	provider := spoonacular.NewClient(cfg.SpoonacularAPIKey, cfg.SpoonacularBaseURL, redisClient)
	authService := service.NewAuthService(cfg.JWTSecret)
	recipeService := service.NewRecipeService(recipeRepo, provider)
	favoriteService := service.NewFavoriteService(favoriteRepo, recipeService)
	preferencesService := service.NewPreferencesService(preferencesRepo)

	s := &Server{router: router, db: db, redis: redisClient}
	router.GET("/health", s.healthCheck)

	v1 := router.Group("/api/v1")
	api.NewDiscoverHandler(recipeService, preferencesService, favoriteService, authService).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, favoriteService, authService).RegisterRoutes(v1)
	api.NewFavoritesHandler(favoriteService, authService).RegisterRoutes(v1)
	api.NewPreferencesHandler(preferencesService, authService).RegisterRoutes(v1)

	return s
}

// Router exposes the gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(port string) error {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := database.HealthCheck(ctx, s.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
		return
	}

	status := gin.H{"status": "ok"}
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			status["cache"] = "unavailable"
		}
	}
	c.JSON(http.StatusOK, status)
}
