package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"groupchat/internal/middleware"
	"groupchat/internal/observability"
	"groupchat/internal/telemetry"
)

// Options are shared by all handlers.
type Options struct {
	Audit           *telemetry.AuditEmitter
	Log             logrus.FieldLogger
	MaxMessageLimit int
}

func (o Options) base() base {
	return base{audit: o.Audit, log: o.Log}
}

// RouterConfig holds the services exposed over HTTP.
type RouterConfig struct {
	Options
	Identity    identityService
	Groups      groupService
	Messages    messageService
	ServiceName string
	DebugRoutes bool
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		cfg.Log = silent
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.ServiceName),
		middleware.RequestID(),
		middleware.Logger(cfg.Log),
		observability.HTTPMetricsMiddleware(),
	)

	users := NewUserHandler(cfg.Identity, cfg.Options)
	groups := NewGroupHandler(cfg.Groups, cfg.Options)
	messages := NewMessageHandler(cfg.Messages, cfg.Options)
	auth := middleware.BearerAuth()

	router.GET("/health", Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/users", users.Register)
	router.POST("/users/authenticate", users.Authenticate)
	router.GET("/users/:id", users.GetUser)

	router.POST("/groups", auth, groups.CreateGroup)
	router.GET("/groups", groups.ListGroups)
	router.GET("/groups/:id", groups.GetGroup)
	router.POST("/groups/:id/join", auth, groups.JoinGroup)
	router.GET("/groups/:id/members", groups.ListMembers)
	router.POST("/groups/:id/messages", auth, messages.PostGroupMessage)
	router.GET("/groups/:id/messages", messages.GetGroupMessages)

	router.GET("/messages/:id", messages.GetMessage)

	RegisterDebugRoutes(router, cfg.Audit, cfg.DebugRoutes)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return router
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
