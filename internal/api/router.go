package api

import (
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Hurtuk18/server-announcements-be/internal/announcement"
	annHttp "github.com/Hurtuk18/server-announcements-be/internal/announcement/http"
)

// Config holds everything the router needs.
type Config struct {
	ServiceName    string
	FrontendOrigin string
	Debug          bool
	OpenAPIDoc     *openapi3.T
	AnnService     announcement.Service
	Stats          *Stats // nil disables the stats endpoints
}

// NewRouter assembles the gin engine: logging, CORS, the documentation
// endpoints, OpenAPI request/response validation and the announcement
// routes.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// One configured front-end origin, small allow-listed header set.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendOrigin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	if cfg.Stats != nil {
		r.Use(cfg.Stats.Middleware())
		r.GET("/api/"+cfg.ServiceName+"/stats", cfg.Stats.Handler())
	}

	// Raw document and interactive docs, both derived from the service name.
	docsPath := "/api-docs/" + cfg.ServiceName
	r.GET(docsPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, cfg.OpenAPIDoc)
	})
	r.GET("/docs/"+cfg.ServiceName+"/*any",
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(docsPath)))

	validator, err := NewOpenAPIValidator(cfg.OpenAPIDoc)
	if err != nil {
		return nil, err
	}

	annHandler := annHttp.NewHandler(cfg.AnnService)
	annHttp.RegisterRoutes(r, annHandler, validator.Middleware())

	return r, nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
