package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/cache"
	"branchdesk-backend/internal/config"
	"branchdesk-backend/internal/database"
	"branchdesk-backend/internal/db"
	h "branchdesk-backend/internal/http"
	"branchdesk-backend/internal/handlers"
	"branchdesk-backend/internal/health"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/middleware"
	"branchdesk-backend/internal/repositories"
	"branchdesk-backend/internal/services"
	"branchdesk-backend/internal/storage"
	"branchdesk-backend/migrations"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	migrateOnly := flag.Bool("migrate-only", false, "apply pending migrations and exit")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	defer log.Sync()

	if err := run(cfg, log, *migrateOnly); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, migrateOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	applied, err := database.NewMigrator(pool, migrations.FS, log).RunMigrations(ctx)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations complete", zap.Int("applied", applied))
	if migrateOnly {
		return nil
	}

	itemCache, err := cache.New(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable, item cache disabled", zap.Error(err))
	}
	defer itemCache.Close()

	archive, err := storage.NewArchive(ctx, cfg)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}

	// Repositories
	ledger := repositories.NewStockLedger(cfg.Inventory.AllowNegativeStock)
	userRepo := repositories.NewUserRepository(pool)
	itemRepo := repositories.NewItemRepository(pool, ledger)
	partyRepo := repositories.NewPartyRepository(pool)
	enquiryRepo := repositories.NewEnquiryRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool, ledger)
	returnRepo := repositories.NewReturnRepository(pool, ledger)
	paymentRepo := repositories.NewPaymentRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	authService := services.NewAuthService(userRepo, jwtManager, log)
	userService := services.NewUserService(userRepo, log)
	itemService := services.NewItemService(itemRepo, itemCache, log)
	partyService := services.NewPartyService(partyRepo)
	enquiryService := services.NewEnquiryService(enquiryRepo, log)
	orderService := services.NewOrderService(orderRepo, itemCache, log)
	returnService := services.NewReturnService(returnRepo, itemCache, log)
	paymentService := services.NewPaymentService(paymentRepo, archive, cfg.Import.Sheet, log)

	var cachePinger health.Pinger
	if itemCache.Enabled() {
		cachePinger = itemCache
	}

	router := h.NewRouter(h.Handlers{
		Auth:     handlers.NewAuthHandler(authService, log),
		Users:    handlers.NewUserHandler(userService, log),
		Items:    handlers.NewItemHandler(itemService, log),
		Parties:  handlers.NewPartyHandler(partyService, log),
		Enquiry:  handlers.NewEnquiryHandler(enquiryService, log),
		Orders:   handlers.NewOrderHandler(orderService, log),
		Returns:  handlers.NewReturnHandler(returnService, log),
		Payments: handlers.NewPaymentHandler(paymentService, cfg.Import.MaxUploadMB, log),
		Health:   handlers.NewHealthHandler(health.NewHealthChecker(pool, cachePinger)),
	}, middleware.NewAuthMiddleware(jwtManager, userRepo, log))

	handler := middleware.PanicRecovery(log)(middleware.RequestLogger(log)(middleware.NewCORS(cfg)(router)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
