package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/benvon/homework-helper/internal/config"
	"github.com/benvon/homework-helper/internal/logger"
	"github.com/benvon/homework-helper/internal/middleware"
	"github.com/benvon/homework-helper/internal/models"
	"github.com/benvon/homework-helper/internal/services/ai"
	"github.com/benvon/homework-helper/internal/telemetry"
	"github.com/benvon/homework-helper/internal/workspace"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for model provider logging")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(cfg.LogFormat, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.String("version", version),
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	var tracerProvider *sdktrace.TracerProvider
	if cfg.OTELEnabled {
		tracerProvider, err = telemetry.InitTracer(context.Background(), telemetry.ServiceName, version, cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(shutdownCtx, tracerProvider); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	registry := ai.NewDefaultRegistry(zapLogger, debugMode)
	factory, err := registry.Factory(cfg.AIProvider)
	if err != nil {
		zapLogger.Fatal("unknown_ai_provider",
			zap.String("ai_provider", cfg.AIProvider),
			zap.Strings("available", registry.Names()),
		)
	}

	conversation := ai.NewConversationClient(factory,
		ai.WithProviderName(cfg.AIProvider),
		ai.WithModel(cfg.AIModel),
		ai.WithBaseURL(cfg.AIBaseURL),
		ai.WithKeySource(cfg.APIKeyEnv, ai.EnvKeySource(cfg.APIKeyEnv)),
		ai.WithLogger(zapLogger),
	)
	if !conversation.CredentialPresent() {
		// Not fatal: the greeting falls back and the key is re-read on every send.
		zapLogger.Warn("ai_credential_missing", zap.String("env", cfg.APIKeyEnv))
	}

	var (
		limiterStore limiter.Store
		redisClient  *redis.Client
	)
	if cfg.RedisURL != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		limiterStore, redisClient, err = middleware.NewRedisStore(connectCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_redis")
	} else {
		limiterStore = middleware.NewMemoryStore()
	}

	ws := workspace.New()

	handler, err := newRouter(routerDeps{
		cfg:          cfg,
		logger:       zapLogger,
		workspace:    ws,
		conversation: conversation,
		limiterStore: limiterStore,
		redisClient:  redisClient,
		openAPIPath:  filepath.Join("api", "openapi", "openapi.yaml"),
		tracing:      tracerProvider != nil,
	})
	if err != nil {
		zapLogger.Fatal("failed_to_build_router", zap.Error(err))
	}

	if cfg.GreetingOnStart {
		go addStartupGreeting(context.Background(), conversation, ws.Transcript, zapLogger)
	}

	srv := newServer(cfg.ServerPort, handler)

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// addStartupGreeting generates the opening message and puts it at the head
// of the transcript.
func addStartupGreeting(ctx context.Context, greeter interface {
	GetInitialMessage(ctx context.Context) string
}, transcript *workspace.Transcript, logger *zap.Logger) {
	greeting := greeter.GetInitialMessage(ctx)
	transcript.Prepend(models.ChatMessage{Role: models.MessageRoleModel, Text: greeting})
	logger.Info("startup_greeting_added")
}
