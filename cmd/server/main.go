// Package main boots the price configurator HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/catalog"
	"github.com/mytheresa/price-configurator/app/config"
	"github.com/mytheresa/price-configurator/app/database"
	"github.com/mytheresa/price-configurator/app/formulas"
	"github.com/mytheresa/price-configurator/app/logging"
	"github.com/mytheresa/price-configurator/app/orders"
	"github.com/mytheresa/price-configurator/app/pricing"
	"github.com/mytheresa/price-configurator/app/router"
	"github.com/mytheresa/price-configurator/app/session"
	"github.com/mytheresa/price-configurator/models"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(err)
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("service_starting", zap.String("env", cfg.Env))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DSN())
	cancel()
	if err != nil {
		logger.Fatal("database_connect_failed", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("database_migrate_failed", zap.Error(err))
	}

	var source catalog.DatasetSource = models.NewCatalogRowsRepository(db)
	if cfg.DatasetFile != "" {
		source = catalog.FileDataset{Path: cfg.DatasetFile}
	}
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	index, err := catalog.Load(ctx, source)
	cancel()
	if err != nil {
		logger.Fatal("dataset_load_failed", zap.Error(err))
	}
	if index.Len() == 0 {
		logger.Fatal("dataset_load_failed", zap.Error(catalog.ErrDatasetLoad), zap.String("reason", "dataset is empty"))
	}
	logger.Info("dataset_loaded", zap.Int("rows", index.Len()))

	var service pricing.Service = pricing.NewEngine(index, cfg.CurrencyCode)
	if cfg.PricingURL != "" {
		service = pricing.NewClient(cfg.PricingURL, &http.Client{Timeout: cfg.PricingTimeout})
		logger.Info("pricing_remote", zap.String("url", cfg.PricingURL))
	}
	bridge := pricing.NewBridge(service, cfg.PricingTimeout, logger)

	orderService := orders.NewService(models.NewQuotationsRepository(db), cfg.CurrencyCode, logger)
	formulaService := formulas.NewService(models.NewPricingFormulasRepository(db), logger)

	sessions := session.NewManager(index, bridge, session.WithTTL(cfg.SessionTTL), session.WithLogger(logger))
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.SessionTTL > 0 && cfg.SessionSweepInterval > 0 {
		go sessions.Run(sweepCtx, cfg.SessionSweepInterval)
	}

	handler := router.New(router.Handlers{
		Catalog:    catalog.NewCatalogHandler(index),
		Pricing:    pricing.NewPricingHandler(service, logger),
		Formulas:   formulas.NewFormulasHandler(formulaService, logger),
		Quotations: orders.NewQuotationsHandler(orderService),
		Sessions:   session.NewSessionsHandler(sessions, orderService, cfg.CurrencySymbol, logger),
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listen", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	logger.Info("shutdown_signal", zap.String("signal", s.String()))

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		logger.Error("http_shutdown_error", zap.Error(err))
	}
	logger.Info("service_stopped")
}
