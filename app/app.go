package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/questforge/cubevault/config"
	"github.com/questforge/cubevault/pkg/xzap"
	"github.com/questforge/cubevault/service/svc"
)

const shutdownTimeout = 10 * time.Second

type Platform struct {
	config    *config.Config
	router    *gin.Engine
	serverCtx *svc.ServerCtx
}

func NewPlatform(config *config.Config, router *gin.Engine, serverCtx *svc.ServerCtx) (*Platform, error) {
	return &Platform{
		config:    config,
		router:    router,
		serverCtx: serverCtx,
	}, nil
}

func (p *Platform) httpServer() *http.Server {
	return &http.Server{
		Addr:    p.config.Api.Port,
		Handler: p.router,
	}
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests
// within shutdownTimeout and flushes the logger before returning.
func (p *Platform) Start() {
	srv := p.httpServer()

	go func() {
		xzap.WithContext(context.Background()).Info("CubeVault run", zap.String("port", p.config.Api.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		xzap.WithContext(ctx).Error("shutdown", zap.Error(err))
	}
	xzap.WithContext(context.Background()).Info("CubeVault stopped")
	xzap.Sync()
}
