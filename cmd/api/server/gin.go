package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"directory-service/cmd/api/di"
	ginrouter "directory-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(c *di.Container, addr string, l *zap.Logger) *http.Server {
	cfg := c.Config
	router := ginrouter.SetupRouter(c.Handlers, c.RateLimiter, ginrouter.Options{
		ServiceName:     cfg.Logger.ServiceName,
		Backend:         cfg.App.StoreBackend,
		UploadDir:       cfg.Upload.Dir,
		UploadURLPrefix: cfg.Upload.URLPrefix,
		SwaggerEnabled:  cfg.App.SwaggerEnabled,
		SwaggerFile:     cfg.App.SwaggerFile,
	}, l)

	l.Info("Gin REST API configured",
		zap.String("address", addr),
		zap.String("backend", cfg.App.StoreBackend))
	if cfg.App.SwaggerEnabled {
		l.Info("Swagger UI available at", zap.String("url", "http://localhost"+addr+"/swagger/index.html"))
	}

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
