package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"leltar/internal/core/routes"
	"leltar/internal/middleware"
	"leltar/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := validation.Register(); err != nil {
		return err
	}

	if err := a.container.Catalog.Initialize(ctx); err != nil {
		a.logger.Warn("Product catalog not loaded at startup", zap.Error(err))
	}

	if a.config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(a.logger), middleware.RequestLogger(a.logger))
	routes.RegisterUtilityRoutes(router, a.container)
	routes.RegisterRoutes(router, a.container)

	server := &http.Server{
		Addr:    a.config.AppHost,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", zap.String("addr", a.config.AppHost))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
