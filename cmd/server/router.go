package main

import (
	"net/http"
	"time"

	"github.com/benvon/homework-helper/internal/config"
	"github.com/benvon/homework-helper/internal/handlers"
	"github.com/benvon/homework-helper/internal/middleware"
	"github.com/benvon/homework-helper/internal/services/ai"
	"github.com/benvon/homework-helper/internal/telemetry"
	"github.com/benvon/homework-helper/internal/workspace"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"
)

// routerDeps is everything the HTTP layer needs from main
type routerDeps struct {
	cfg          *config.Config
	logger       *zap.Logger
	workspace    *workspace.Workspace
	conversation *ai.ConversationClient
	limiterStore limiter.Store
	redisClient  *redis.Client
	openAPIPath  string
	tracing      bool
}

// newRouter builds the full handler tree. CORS wraps the router itself so
// preflight requests are answered before route matching.
func newRouter(deps routerDeps) (http.Handler, error) {
	r := mux.NewRouter()

	// Registration order is execution order: the first Use is outermost.
	if deps.tracing {
		r.Use(telemetry.Middleware(telemetry.ServiceName))
	}
	r.Use(middleware.SecurityHeaders(deps.cfg.EnableHSTS))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(deps.logger))
	r.Use(middleware.Audit(deps.logger))
	r.Use(middleware.ErrorHandler(deps.logger))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)

	healthChecker := handlers.NewHealthChecker(deps.conversation.CredentialPresent, deps.redisClient)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", handlers.VersionHandler(version)).Methods("GET")

	handlers.NewOpenAPIHandler(deps.openAPIPath).RegisterRoutes(r)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	homeworkRouter := apiRouter.PathPrefix("/homework").Subrouter()
	homeworkRouter.Use(middleware.Timeout(deps.cfg.RequestTimeout))
	handlers.NewHomeworkHandler(deps.workspace.Homework, deps.logger).RegisterRoutes(homeworkRouter)

	rateLimit, err := middleware.RateLimit(deps.limiterStore, deps.cfg.ChatRateLimit, deps.logger)
	if err != nil {
		return nil, err
	}
	chatRouter := apiRouter.PathPrefix("/chat").Subrouter()
	chatRouter.Use(rateLimit)
	handlers.NewChatHandler(deps.conversation, deps.workspace, deps.logger).RegisterRoutes(chatRouter)

	return middleware.CORS(deps.cfg.FrontendURL)(r), nil
}

// newServer wraps the handler with connection timeouts. WriteTimeout is
// generous because a chat turn waits on the model provider.
func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}
}
