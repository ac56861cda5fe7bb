package server

import (
	"log"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/gofiber/websocket/v2"

	"github.com/modernreader/orchestrator/internal/bootstrap"
	"github.com/modernreader/orchestrator/internal/config"
	"github.com/modernreader/orchestrator/internal/pkg/serverutils"
	wsTransport "github.com/modernreader/orchestrator/internal/websocket"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, room for a base64-encoded image or audio clip
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, If-None-Match, X-API-Key",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, ETag",
	}))

	app.Use(otelfiber.Middleware())
	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("server listening on :%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	c.HealthController.RegisterRoutes(app)

	authed := app.Group("", serverutils.AuthMiddleware(cfg.Keys.AllowedAPIKeys, cfg.Keys.JWTSecret))

	c.OrchestratorController.RegisterRoutes(authed)
	c.SegmentController.RegisterRoutes(authed)
	c.HapticsController.RegisterRoutes(authed)
	c.EmotionController.RegisterRoutes(authed)
	c.VoiceController.RegisterRoutes(authed)
	c.BroadcastController.RegisterRoutes(authed)
	c.SyncController.RegisterRoutes(authed)
	c.RAGController.RegisterRoutes(authed)
	c.ModelSelectController.RegisterRoutes(authed)

	authed.Use("/ws/sync", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	authed.Get("/ws/sync", websocket.New(func(conn *websocket.Conn) {
		wsTransport.ServeSync(c.WSHub, conn)
	}))
}
