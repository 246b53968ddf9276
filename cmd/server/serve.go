package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/cookbook/backend/internal/handlers"
	"github.com/anonto42/cookbook/backend/internal/middleware"
	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/anonto42/cookbook/backend/internal/router"
	"github.com/anonto42/cookbook/backend/pkg/firebase"
	"github.com/anonto42/cookbook/backend/validators"
	"github.com/anonto42/cookbook/backend/web"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if err := repositories.Migrate(a.db.SQL); err != nil {
		return err
	}
	a.log.Info("Auto-migrations completed")

	search, err := a.searchIndex(ctx)
	if err != nil {
		return err
	}

	var verifier middleware.IDTokenVerifier
	if a.cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, a.cfg.FirebaseCredentialsPath, a.log)
		if err != nil {
			return err
		}
		verifier = firebaseApp.AuthClient
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(a.log)

	router.SetupMiddleware(e, a.log)
	router.SetupRoutes(e, router.Deps{
		DB:           a.db.SQL,
		Search:       search,
		Popups:       a.popupCache(),
		Verifier:     verifier,
		JWTSecret:    a.cfg.JWTSecret,
		PostsPerPage: a.cfg.PostsPerPage,
		Log:          a.log,
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", zap.String("port", a.cfg.Port))
		errCh <- e.Start(":" + a.cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
