package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// GracefulShutdown blocks until ctx ends or the process gets SIGINT or
// SIGTERM, then drains servers concurrently and closes done. Nil servers
// are skipped.
func GracefulShutdown(ctx context.Context, logger *zap.Logger, done chan<- struct{}, servers ...*http.Server) {
	defer close(done)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	<-sigCtx.Done()
	// restore default handling so a second signal kills the process
	stop()
	logger.Info("Shutting down gracefully, press Ctrl+C again to force")

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	results := make(chan error, len(servers))
	pending := 0
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		pending++
		go func(srv *http.Server) {
			if err := srv.Shutdown(drainCtx); err != nil {
				logger.Error("Server forced to shutdown", zap.String("addr", srv.Addr), zap.Error(err))
				results <- srv.Close()
				return
			}
			results <- nil
		}(srv)
	}
	for ; pending > 0; pending-- {
		<-results
	}

	logger.Info("Server exiting")
}
