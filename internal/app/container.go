package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hurtuk18/server-announcements-be/internal/announcement"
	"github.com/Hurtuk18/server-announcements-be/internal/api"
	"github.com/Hurtuk18/server-announcements-be/internal/config"
)

// Config holds the dependencies required to assemble the application.
type Config struct {
	Cfg    *config.Config
	DBPool *pgxpool.Pool
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	AnnService announcement.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Announcement module
	annRepo := announcement.NewPgxRepository(cfg.DBPool)
	annService := announcement.NewService(annRepo, cfg.Cfg)

	// The OpenAPI document drives validation and the docs endpoints.
	doc, err := api.LoadOpenAPIDocument(cfg.Cfg.Paths.OpenapiYaml)
	if err != nil {
		return nil, err
	}

	// Optional metrics middleware.
	var stats *api.Stats
	if os.Getenv("ENABLE_SWAGGER_STATS") == "true" {
		stats = api.NewStats(cfg.Cfg.Service.Name, os.Getenv("HOST_HOSTNAME"))
	}

	router, err := api.NewRouter(api.Config{
		ServiceName:    cfg.Cfg.Service.Name,
		FrontendOrigin: frontendOrigin(),
		Debug:          cfg.Cfg.Debug,
		OpenAPIDoc:     doc,
		AnnService:     annService,
		Stats:          stats,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:     router,
		AnnService: annService,
	}, nil
}

func frontendOrigin() string {
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:5173"
}
