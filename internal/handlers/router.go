package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	AppName    = "Resume Analyzer API"
	AppVersion = "1.0.0"
)

type AppConfig struct {
	Analyze *AnalyzeHandler
	Parse   *ParseHandler

	// Gatherer backs GET /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger

	BodyLimit    int
	WriteTimeout time.Duration
	AccessLog    bool
}

func NewApp(cfg AppConfig) *fiber.App {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 90 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:      AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Api-Key, X-Api-Key",
		ExposeHeaders: HeaderAnalysisID,
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	endpoints := []string{"GET /api/v1/health"}
	if cfg.Analyze != nil {
		api.Post("/analyze", cfg.Analyze.HandleAnalyze)
		endpoints = append(endpoints, "POST /api/v1/analyze")
	}
	if cfg.Parse != nil {
		api.Post("/parse", cfg.Parse.HandleParse)
		endpoints = append(endpoints, "POST /api/v1/parse")
	}
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
		endpoints = append(endpoints, "GET /metrics")
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   AppName,
			"version":   AppVersion,
			"endpoints": endpoints,
		})
	})

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})

	return app
}
