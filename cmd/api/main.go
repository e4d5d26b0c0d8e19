package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-artisan-pricing/internal/config"
	"go-artisan-pricing/internal/handler"
	"go-artisan-pricing/internal/metrics"
	"go-artisan-pricing/internal/middleware"
	"go-artisan-pricing/internal/repository"
	"go-artisan-pricing/internal/service"
	"go-artisan-pricing/internal/ws"
	"go-artisan-pricing/pkg/database"
	"go-artisan-pricing/pkg/jwt"
	"go-artisan-pricing/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	dbLogLevel := gormlogger.Warn
	if cfg.Database.Debug {
		dbLogLevel = gormlogger.Info
	}
	db, err := database.Connect(database.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		LogLevel:     dbLogLevel,
	})
	if err != nil {
		log.Error("connect database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	version, err := database.Migrate(ctx, db, cfg.Database.Driver)
	if err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}
	log.Info("database ready", "driver", cfg.Database.Driver, "schema_version", version)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	if cfg.JWT.Secret == "" {
		log.Warn("JWT secret not set, using the development secret")
	}

	// 4. Dependency Injection (Wiring Layers)
	materialRepo := repository.NewMaterialRepo(db)
	configRepo := repository.NewConfigurationRepo(db)
	productRepo := repository.NewProductRepo(db)
	userRepo := repository.NewUserRepo(db)

	materialService := service.NewMaterialService(materialRepo, wsHub, m, log)
	configService := service.NewConfigurationService(configRepo, wsHub, log)
	productService := service.NewProductService(productRepo, materialRepo, configRepo, wsHub, m, log)
	dashService := service.NewDashboardService(materialRepo, productRepo)
	authService := service.NewAuthService(userRepo, configRepo, tokens, log)

	materialHandler := handler.NewMaterialHandler(materialService, log)
	configHandler := handler.NewConfigurationHandler(configService, log)
	productHandler := handler.NewProductHandler(productService, log)
	dashHandler := handler.NewDashboardHandler(dashService, log)
	authHandler := handler.NewAuthHandler(authService, log)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(middleware.CountErrors(m))

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	// 6. Routes
	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(tokens, authService)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)

	protected.Get("/materials/export", materialHandler.ExportMaterials)
	protected.Get("/materials", materialHandler.GetMaterials)
	protected.Get("/materials/:id", materialHandler.GetMaterial)
	protected.Post("/materials", materialHandler.CreateMaterial)
	protected.Patch("/materials/:id", materialHandler.UpdateMaterial)
	protected.Delete("/materials/:id", materialHandler.DeleteMaterial)

	protected.Get("/configuration", configHandler.GetConfiguration)
	protected.Patch("/configuration", configHandler.UpdateConfiguration)

	protected.Post("/calculations", productHandler.Calculate)

	protected.Get("/products/export", productHandler.ExportProducts)
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}, requireAuth)
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		owner, ok := c.Locals(middleware.LocalOwnerID).(uuid.UUID)
		if !ok {
			_ = c.Close()
			return
		}
		wsHub.Register(owner, c)
		defer wsHub.Unregister(owner, c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.HTTP.Port); err != nil {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server exited")
}
