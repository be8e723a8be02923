package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/api/handlers"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/assist"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/cache/redis"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/genclient"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/metrics"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/middleware/ratelimit"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/middleware/security"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/middleware/validation"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/pipeline"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/storage/sqlite"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/version"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/config"
	appLogger "github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting NeuralCAD API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Redis is optional: without it previews and estimates are computed on
	// every request, which is still cheap.
	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}
	cacheTTL := time.Duration(cfg.Redis.TTLSec) * time.Second

	generator := genclient.NewClient(
		cfg.Generator.URL,
		time.Duration(cfg.Generator.TimeoutSec)*time.Second,
		cfg.Generator.Formats,
	)

	assistant := assist.NewAssistant(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature)

	engine := pipeline.NewEngine(generator, sqliteClient, cfg.Limits.HistorySize)
	versionStore := version.NewStore(sqliteClient, cfg.Limits.VersionsPerModel)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.Limits.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	app.Use(validation.Middleware(validation.Config{
		MaxPromptLength: cfg.Limits.MaxPromptLength,
		Logger:          appLogger.GetLogger(),
	}))

	generateHandler := handlers.NewGenerateHandler(engine, cacheClient, cacheTTL, sqliteClient)
	estimateHandler := handlers.NewEstimateHandler(cacheClient, cacheTTL)
	historyHandler := handlers.NewHistoryHandler(engine)
	versionHandler := handlers.NewVersionHandler(versionStore, engine)
	assistHandler := handlers.NewAssistHandler(assistant, engine)
	wsHandler := handlers.NewWebSocketHandler(assistant, engine)

	api := app.Group("/api/v1")

	api.Post("/generate", generateHandler.HandleGenerate)
	api.Post("/preview", generateHandler.HandlePreview)
	api.Post("/validate", generateHandler.HandleValidate)
	api.Post("/feedback", generateHandler.HandleFeedback)

	api.Post("/estimate/bom", estimateHandler.HandleBOM)
	api.Post("/estimate/cost", estimateHandler.HandleCost)
	api.Post("/estimate/tolerance", estimateHandler.HandleTolerance)
	api.Get("/estimate/tolerance", estimateHandler.HandleTolerance)
	api.Get("/estimate/options", estimateHandler.HandleMaterials)

	api.Get("/history", historyHandler.HandleList)
	api.Post("/history/undo", historyHandler.HandleUndo)
	api.Post("/history/redo", historyHandler.HandleRedo)

	api.Get("/models/:id/versions", versionHandler.HandleList)
	api.Post("/models/:id/versions", versionHandler.HandleSave)
	api.Post("/models/:id/versions/:versionId/restore", versionHandler.HandleRestore)
	api.Delete("/models/:id/versions/:versionId", versionHandler.HandleDelete)

	api.Post("/assist/ambiguities", assistHandler.HandleAmbiguities)
	api.Post("/assist/chat", assistHandler.HandleChat)
	app.Get("/api/v1/assist/ws", websocket.New(wsHandler.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		generatorStatus := "ok"
		if err := generator.Health(c.Context()); err != nil {
			generatorStatus = "unreachable"
		}
		resp := fiber.Map{
			"status":    "healthy",
			"generator": generatorStatus,
			"assistant": assistant.Enabled(),
			"time":      time.Now().Unix(),
		}
		if cacheClient != nil {
			if n, err := cacheClient.GetCounter(c.Context(), "generations:"+pipeline.StatusGenerated); err == nil {
				resp["generations"] = n
			}
		}
		return c.JSON(resp)
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
