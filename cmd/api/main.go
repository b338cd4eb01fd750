package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"hilanderia-pos/internal/app"
	"hilanderia-pos/internal/config"
	"hilanderia-pos/internal/handler"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	cfg, found := config.Load()

	zlog, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()
	if !found {
		zlog.Info(".env file not found, using process environment")
	}

	// 2. Store, hub and services
	a, err := app.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()
	go a.Hub.Run()

	// 3. Setup Fiber
	server := fiber.New(fiber.Config{
		AppName:   "Hilanderia POS v1.0",
		BodyLimit: 10 * 1024 * 1024, // spreadsheet uploads
	})

	// Middleware
	server.Use(logger.New())  // Logging request
	server.Use(recover.New()) // Panic recovery
	server.Use(cors.New())    // CORS

	// 4. Routes
	handler.RegisterRoutes(server, handler.NewHandlers(a.Services), a.Services.Auth)

	// WebSocket Route
	server.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	server.Get("/ws", websocket.New(a.Hub.Handler))

	// 5. Graceful Shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			zlog.Panic("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := server.Shutdown(); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited")
}
