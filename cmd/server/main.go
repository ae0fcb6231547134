// Loanbook - entry point for the loan bookkeeping web server
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lendwise/loanbook/internal/config"
	"github.com/lendwise/loanbook/internal/handlers"
	"github.com/lendwise/loanbook/internal/middleware"
	"github.com/lendwise/loanbook/internal/services/auth"
	"github.com/lendwise/loanbook/internal/services/importer"
	"github.com/lendwise/loanbook/internal/services/loans"
	"github.com/lendwise/loanbook/internal/storage"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		sugar.Fatalw("migration error", "error", err.Error())
	}

	userRepo := storage.NewUserRepository(db)
	loanRepo := storage.NewLoanRepository(db)

	authService := auth.NewService(cfg, userRepo)
	loanService := loans.NewService(loanRepo)
	importService := importer.NewService()

	authMiddleware := middleware.NewAuth(authService)
	h := handlers.New(cfg, logger, authService, loanService, importService, authMiddleware)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: h.SetupRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting loanbook server", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
