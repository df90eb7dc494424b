package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pos-lite/internal/ai"
	"go-pos-lite/internal/auth"
	"go-pos-lite/internal/cart"
	"go-pos-lite/internal/catalog"
	"go-pos-lite/internal/config"
	"go-pos-lite/internal/database"
	"go-pos-lite/internal/handlers"
	"go-pos-lite/internal/jobs"
	"go-pos-lite/internal/ledger"
	"go-pos-lite/internal/logger"
	"go-pos-lite/internal/middleware"
	"go-pos-lite/internal/seed"
	"go-pos-lite/internal/users"
	"go-pos-lite/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("c", "config.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("config: ", err)
	}

	zl, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatal("logger: ", err)
	}
	defer func() { _ = zl.Sync() }()

	loc, err := time.LoadLocation(cfg.POS.Location)
	if err != nil {
		zap.S().Fatalf("pos.location %q: %v", cfg.POS.Location, err)
	}

	db := database.MustOpen(cfg.Storage)
	defer db.Close()

	if cfg.POS.SeedDefaults {
		opt := seed.Options{SampleSales: cfg.POS.SampleSales, Seed: uint64(time.Now().UnixNano())}
		if err := seed.Defaults(db, time.Now().In(loc), opt); err != nil {
			zap.L().Fatal("seed defaults", zap.Error(err))
		}
	}

	// Invoice ids must stay unique across tills sharing a MySQL store.
	nodeID := cfg.POS.NodeID
	if nodeID < 0 {
		nodeID = utils.NodeID()
	}
	sales, err := ledger.New(db, nodeID)
	if err != nil {
		zap.L().Fatal("ledger", zap.Int64("node_id", nodeID), zap.Error(err))
	}
	products := catalog.New(db)

	secret := cfg.JWT.Secret
	if secret == "" {
		secret = uuid.NewString()
		zap.L().Warn("jwt.secret is not set, tokens will not survive a restart")
	}

	agent := ai.NewAgent(cfg.AI.APIKey, cfg.AI.Model, &ai.Toolbox{
		Catalog:           products,
		Ledger:            sales,
		LowStockThreshold: cfg.POS.LowStockThreshold,
	})
	if !agent.Enabled() {
		zap.L().Info("assistant disabled, no ai.api_key")
	}

	scheduler := jobs.New(products, cfg.POS.LowStockThreshold, loc)
	if cfg.POS.LowStockCron != "" {
		if err := scheduler.ScheduleLowStock(cfg.POS.LowStockCron); err != nil {
			zap.L().Fatal("low stock schedule", zap.String("spec", cfg.POS.LowStockCron), zap.Error(err))
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	h := &handlers.Handler{
		Catalog:           products,
		Users:             users.NewDirectory(db),
		Ledger:            sales,
		Carts:             cart.NewRegistry(),
		Issuer:            auth.NewIssuer(secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour),
		Agent:             agent,
		Location:          loc,
		LowStockThreshold: cfg.POS.LowStockThreshold,
		UploadDir:         "./uploads",
		BaseURL:           cfg.Server.BaseURL,
		StorageDriver:     cfg.Storage.Driver,
	}
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		zap.L().Fatal("uploads dir", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h.Register(r)

	// --- Serve the built frontend ---
	r.Static("/assets", "./web/assets")
	r.StaticFile("/vite.svg", "./web/vite.svg")
	// SPA catch-all so a refresh on /dashboard still loads the app
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("base_url", cfg.Server.BaseURL),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("device_id", utils.GetDeviceID()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("shutdown", zap.Error(err))
	}
}
