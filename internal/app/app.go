package app

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/http/middleware"
	"linkbio/internal/queue"
	"linkbio/internal/session"
)

type App struct {
	cfg      *config.Config
	tracker  *session.Tracker
	limiter  *middleware.RateLimiter
	consumer queue.Consumer
	server   *http.Server
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewApp(
	cfg *config.Config,
	tracker *session.Tracker,
	limiter *middleware.RateLimiter,
	consumer queue.Consumer,
	router *gin.Engine,
	logger *zap.Logger,
) *App {
	return &App{
		cfg:      cfg,
		tracker:  tracker,
		limiter:  limiter,
		consumer: consumer,
		server: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
		},
		logger: logger,
	}
}

// Run starts the background loops and blocks serving HTTP(S) until Shutdown.
func (a *App) Run(ctx context.Context) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.tracker.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.limiter.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	var err error
	if certFile, keyFile, ok := a.cfg.TLSFiles(); ok {
		a.logger.Info("serving HTTPS", zap.String("addr", a.cfg.HTTPAddr), zap.String("cert", certFile))
		err = a.server.ListenAndServeTLS(certFile, keyFile)
	} else {
		a.logger.Warn("certificates not found, serving plain HTTP",
			zap.String("addr", a.cfg.HTTPAddr),
			zap.String("cert_dir", a.cfg.CertDir),
		)
		err = a.server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	shutdownErr := a.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("graceful shutdown completed")
		return shutdownErr
	case <-ctx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return ctx.Err()
	}
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}

func (a *App) Config() *config.Config {
	return a.cfg
}
