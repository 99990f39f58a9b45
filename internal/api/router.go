package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matchday/terrace/internal/cache"
	"github.com/matchday/terrace/internal/comments"
	"github.com/matchday/terrace/internal/db"
	"github.com/matchday/terrace/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler *JSONRPCHandler
	db      *db.DB
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, svc *comments.Service) *Router {
	router := &Router{
		handler: NewJSONRPCHandler(),
		db:      database,
		cache:   redisCache,
		logger:  logging.GetLogger().With(zap.String("component", "api-router")),
	}
	router.registerMethods(svc)
	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	engine.POST("/", IdentityMiddleware(), r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods(svc *comments.Service) {
	commentAPI := NewCommentAPI(svc)
	r.handler.RegisterMethod("comments.submit", commentAPI.Submit)
	r.handler.RegisterMethod("comments.get_threads", commentAPI.GetThreads)
	r.handler.RegisterMethod("comments.react", commentAPI.React)
	r.handler.RegisterMethod("comments.report", commentAPI.Report)
	r.handler.RegisterMethod("comments.edit", commentAPI.Edit)

	moderationAPI := NewModerationAPI(svc)
	r.handler.RegisterMethod("moderation.hide", moderationAPI.Hide)
	r.handler.RegisterMethod("moderation.unhide", moderationAPI.Unhide)
	r.handler.RegisterMethod("moderation.approve", moderationAPI.Approve)
	r.handler.RegisterMethod("moderation.set_pinned", moderationAPI.SetPinned)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":  "OK",
		"service": "terrace-comments",
	}

	if err := r.db.Health(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "DEGRADED"
		body["database"] = err.Error()
	}
	if r.cache != nil {
		if err := r.cache.Health(c.Request.Context()); err != nil {
			body["redis"] = err.Error()
		}
	}

	c.JSON(status, body)
}
