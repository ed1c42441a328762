// Package http assembles the catalogue's API server: the annotator-store
// protocol, browse and verdict endpoints, extraction triggers, and the
// operational probes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/prometheus"
	"github.com/regcat-io/regcat/internal/interfaces/http/handlers"
	"github.com/regcat-io/regcat/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware the route tree needs.
// Nil handlers leave their routes unregistered; nil middleware entries are
// skipped.
type RouterConfig struct {
	AnnotationHandler *handlers.AnnotationHandler
	CatalogueHandler  *handlers.CatalogueHandler
	DocumentHandler   *handlers.DocumentHandler
	HealthHandler     *handlers.HealthHandler

	CORS      *middleware.CORSConfig
	RateLimit *middleware.RateLimitConfig

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.RateLimit != nil {
		limiter := middleware.NewTokenBucketLimiter(
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize, cfg.RateLimit.CleanupInterval)
		r.Use(middleware.RateLimit(limiter, *cfg.RateLimit))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	registerAnnotatorRoutes(api, cfg.AnnotationHandler)
	registerCatalogueRoutes(api, cfg.CatalogueHandler)
	registerDocumentRoutes(api, cfg.DocumentHandler)

	return r
}

// registerAnnotatorRoutes mounts the annotator-store protocol.  The store
// root and search live under a (type, entity, document) scope so each
// review pane gets its own annotation set.
func registerAnnotatorRoutes(r *gin.RouterGroup, h *handlers.AnnotationHandler) {
	if h == nil {
		return
	}
	scope := r.Group("/annotator/:annotationType/:entityID/:documentID")
	scope.GET("", h.Root)
	scope.GET("/search", h.Search)
	scope.POST("/annotations", h.Create)

	r.DELETE("/annotator/annotations/:annotationID", h.Delete)
}

func registerCatalogueRoutes(r *gin.RouterGroup, h *handlers.CatalogueHandler) {
	if h == nil {
		return
	}
	r.GET("/concepts", h.ListConcepts)
	r.GET("/concepts/:conceptID", h.GetConcept)

	r.GET("/obligations", h.ListObligations)
	r.GET("/documents/:documentID/obligations", h.DocumentObligations)
	r.GET("/documents/:documentID/highlights/:layer", h.DocumentHighlights)

	r.GET("/acceptance/values", h.AcceptanceValues)
	r.GET("/acceptance/:entityKind/:entityID", h.EntityAcceptance)
	r.POST("/acceptance/:entityKind/:entityID", h.SetVerdict)
}

func registerDocumentRoutes(r *gin.RouterGroup, h *handlers.DocumentHandler) {
	if h == nil {
		return
	}
	r.GET("/documents", h.List)
	r.GET("/documents/:documentID", h.Get)

	r.GET("/documents/:documentID/comments", h.Comments)
	r.POST("/documents/:documentID/comments", h.AddComment)
	r.DELETE("/documents/comments/:commentID", h.DeleteComment)

	r.POST("/documents/:documentID/extract/:pipeline", h.Extract)
	r.POST("/websites/:websiteID/extract/:pipeline", h.ExtractWebsite)
}

//Personal.AI order the ending
