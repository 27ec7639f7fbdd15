package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homecare_client/internal/cache"
	"homecare_client/internal/config"
	"homecare_client/internal/events"
	"homecare_client/internal/repositories"
	"homecare_client/internal/router"
	"homecare_client/internal/services"
	"homecare_client/internal/transport"
	"homecare_client/pkg/format"
	"homecare_client/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Logger
	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.Expiration)
	format.SetLocation(cfg.Location())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := transport.New(transport.Options{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout,
		ProbeTimeout: cfg.API.ProbeTimeout,
		ProbePath:    cfg.API.ProbePath,
	})
	repos := repositories.NewRegistry(api, transport.RetryPolicy{MaxRetries: cfg.API.RetryMax, Delay: cfg.API.RetryDelay})

	store, closeStore, err := cache.Open(ctx, cfg)
	if err != nil {
		utils.LogError(err, "Failed to open snapshot cache")
		log.Fatalf("Failed to open snapshot cache: %v", err)
	}
	defer closeStore()

	offline, err := services.LoadOfflineAccounts(cfg.OfflineAccountsFile)
	if err != nil {
		utils.LogError(err, "Failed to load offline accounts")
		log.Fatalf("Failed to load offline accounts: %v", err)
	}

	rules := services.BookingRules{
		CancelWindow: cfg.Booking.CancelWindow,
		MinLeadTime:  cfg.Booking.MinLeadTime,
		Location:     cfg.Location(),
	}
	bus := events.NewBus()
	sweeper := services.NewSweeper(repos.Bookings, repos.Invoices, bus, rules, cfg.Sweeper.Interval, cfg.Sweeper.ServiceToken)
	if cfg.Sweeper.Enabled {
		go sweeper.Run(ctx)
	}

	engine := gin.New()
	engine.Use(utils.GinLogger(), gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	router.Setup(engine, router.Dependencies{
		Prober:          api,
		Repos:           repos,
		Snapshots:       cache.NewSnapshots(store, cfg.Cache.TTL),
		Sweeper:         sweeper,
		Bus:             bus,
		Rules:           rules,
		OfflineAccounts: offline,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}
	errCh := make(chan error, 1)
	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "api_base_url": cfg.API.BaseURL})
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		utils.LogInfo("Shutting down", map[string]interface{}{"signal": sig.String()})
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Server stopped")
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown failed")
	}
}
