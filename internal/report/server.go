package report

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/prompt-eval/evaluator/internal/metrics"
	"github.com/prompt-eval/evaluator/internal/middleware/security"
	"github.com/prompt-eval/evaluator/pkg/logger"
)

// Server serves a rendered results file as a live dashboard.
type Server struct {
	app     *fiber.App
	results *Results
	log     *zap.Logger
}

func NewServer(results *Results) *Server {
	s := &Server{
		results: results,
		log:     logger.GetLogger(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "prompt-evaluator dashboard",
		DisableStartupMessage: true,
	})
	app.Use(security.Headers())
	app.Get("/", s.handleDashboard)
	app.Get("/api/results", s.handleResults)
	app.Get("/metrics", metrics.Handler())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app = app
	return s
}

// Listen blocks serving HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("dashboard listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, s.results); err != nil {
		s.log.Error("dashboard render failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "render failed")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

func (s *Server) handleResults(c *fiber.Ctx) error {
	return c.JSON(s.results)
}
