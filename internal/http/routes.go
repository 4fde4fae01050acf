package http

import (
	"io"
	"io/fs"
	"time"

	"taskflow/internal/http/handlers"
	"taskflow/internal/http/middleware"
	"taskflow/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies is everything the router wires together.
type Dependencies struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Hub     *ws.Hub
	// Limiter may be nil, which disables rate limiting.
	Limiter *middleware.RateLimiter

	LatencyMin time.Duration
	LatencyMax time.Duration

	// Static is the client bundle; nil serves no files.
	Static fs.FS
	// AccessLog receives combined-format request lines; nil disables it.
	AccessLog     io.Writer
	Development   bool
	AllowedOrigin string
}

// NewRouter builds the engine with the global middleware chain and every
// route registered.
func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	// trailing-slash task routes are registered explicitly, not redirected
	r.RedirectTrailingSlash = false
	r.Use(middleware.Recovery(d.Development))
	if d.AccessLog != nil {
		r.Use(middleware.AccessLog(d.AccessLog))
	}
	r.Use(middleware.CORS(d.AllowedOrigin))
	r.Use(middleware.Metrics())

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {
	h := d.Handler

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/docs", h.Docs)

	tasks := api.Group("/tasks")
	tasks.Use(d.Limiter.Handler(), middleware.Latency(d.LatencyMin, d.LatencyMax))
	// each route also answers with a trailing slash
	for _, p := range []string{"", "/"} {
		tasks.GET(p, h.ListTasks)
		tasks.POST(p, h.CreateTask)
	}
	for _, p := range []string{"/:id", "/:id/"} {
		tasks.GET(p, h.GetTask)
		tasks.PUT(p, h.UpdateTask)
		tasks.PATCH(p, h.PatchTask)
		tasks.DELETE(p, h.DeleteTask)
	}

	if d.Hub != nil {
		r.GET("/ws", h.WS(d.Hub))
	}

	// Frontend static files
	r.NoRoute(handlers.Static(d.Static))
}
