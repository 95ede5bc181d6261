package server

import (
	"log/slog"

	"github.com/Baptiste-Leterrier/gpx-anonymous/internal/anonymizer"
	"github.com/Baptiste-Leterrier/gpx-anonymous/internal/config"
	"github.com/Baptiste-Leterrier/gpx-anonymous/internal/metrics"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	Log     *slog.Logger
	Metrics *metrics.Metrics
}

func NewServer(cfg config.Config, log *slog.Logger, reg *prometheus.Registry) *Server {
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	app := fiber.New(fiber.Config{BodyLimit: cfg.MaxUploadBytes})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	s := &Server{
		App:     app,
		Cfg:     cfg,
		Log:     log,
		Metrics: metrics.NewMetrics(reg),
	}

	registerRoutes(s, reg)
	return s
}

func registerRoutes(s *Server, reg *prometheus.Registry) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	svc := anonymizer.NewService(s.Log, s.Metrics)
	anonymizer.RegisterRoutes(s.App.Group("/api/v1/anonymize"), svc, s.Log)
}
