package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/benbeisheim/duelchess/internal/config"
	"github.com/benbeisheim/duelchess/internal/controller"
	"github.com/benbeisheim/duelchess/internal/logging"
	"github.com/benbeisheim/duelchess/internal/service"
	"github.com/benbeisheim/duelchess/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Flags override the environment.
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.AllowedOrigins, "origins", cfg.AllowedOrigins, "comma-separated CORS origins, * for any")
	flag.DurationVar(&cfg.ClockBudget, "clock", cfg.ClockBudget, "thinking time per player, 0 disables clocks")
	flag.StringVar(&cfg.RecordDir, "records", cfg.RecordDir, "directory for finished game records, empty disables saving")
	flag.BoolVar(&cfg.Development, "dev", cfg.Development, "development logging")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	managerConfig := service.ManagerConfig{ClockBudget: cfg.ClockBudget, Logger: logger}
	if cfg.RecordDir != "" {
		managerConfig.Store = store.NewFileStore(cfg.RecordDir)
	}
	gameManager := service.NewGameManager(managerConfig)
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager)

	gameController := controller.NewGameController(gameService, logger)
	wsController := controller.NewWebSocketController(gameService, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: !cfg.Development})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: cfg.AllowedOrigins != "*",
	}))
	controller.SetupRoutes(app, gameController, wsController, websocketOrigins(cfg.AllowedOrigins))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.Duration("clock", cfg.ClockBudget),
		zap.String("records", cfg.RecordDir))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}

// websocketOrigins turns the CORS origin list into the websocket whitelist.
// nil lets every origin through.
func websocketOrigins(allowed string) []string {
	var origins []string
	for _, o := range strings.Split(allowed, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			return nil
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
