package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/decorgen/internal/errors"
)

// ShutdownTimeout bounds a graceful stop
const ShutdownTimeout = 5 * time.Second

// NewWebServer creates the adapter for framework: echo, gin or fiber
func NewWebServer(framework string) (WebServer, error) {
	switch strings.ToLower(framework) {
	case "", "echo":
		return NewDefaultEchoAdapter(), nil
	case "gin":
		gin.SetMode(gin.ReleaseMode)
		return NewDefaultGinAdapter(), nil
	case "fiber":
		return NewFiberAdapter(), nil
	default:
		return nil, errors.ValidationError("server.framework", "echo, gin or fiber", framework)
	}
}

// Run serves on addr until ctx is cancelled, then stops the server gracefully
func Run(ctx context.Context, ws WebServer, addr string, logger *zerolog.Logger) error {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info().Str("addr", addr).Str("framework", ws.Name()).Msg("server listening")
		return ws.Start(addr)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		logger.Info().Msg("server stopping")
		return ws.Stop(stopCtx)
	})

	return group.Wait()
}
