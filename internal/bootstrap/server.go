package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/Domenick1991/periodic-tables/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerDocument = "restaurant.swagger.json"

// Run serves router on cfg.HTTP.Address and blocks until ctx is cancelled or
// the server fails. On cancellation in-flight requests get
// cfg.HTTP.ShutdownSeconds to finish.
func Run(ctx context.Context, cfg *config.Config, router *gin.Engine, log logrus.FieldLogger) error {
	mountDocs(router, cfg.HTTP.SwaggerDir)

	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.HTTP.Address).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSeconds)*time.Second)
		defer cancel()
		log.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// mountDocs serves the OpenAPI document from dir under /swagger and the
// swagger UI under /docs. Nothing is mounted when dir is empty.
func mountDocs(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	router.Static("/swagger", dir)
	router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL(path.Join("/swagger", swaggerDocument)),
	)))
}
