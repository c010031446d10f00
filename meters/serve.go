package meters

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/reusee/rectm/logs"
	"github.com/reusee/rectm/tmconfigs"
)

// Serve exposes the meters until ctx is done. It returns at once when no address is configured.
type Serve func(ctx context.Context) error

func (Module) Serve(
	addr tmconfigs.MetricsAddr,
	meters *Meters,
	logger logs.Logger,
) Serve {
	return func(ctx context.Context) error {
		if addr == "" {
			return nil
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", meters.Handler())
		server := &http.Server{
			Addr:              string(addr),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		logger.InfoContext(ctx, "serving metrics", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return logs.WrapSpan(ctx, err)
		}
		return nil
	}
}
