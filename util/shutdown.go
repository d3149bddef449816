package util

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filswan/go-swan-lib/logs"
)

type StopFunc func(context.Context) error

type ShutdownHandler struct {
	Component string
	StopFunc  StopFunc
}

// shutdownTimeout bounds each StopFunc.
var shutdownTimeout = 30 * time.Second

// MonitorShutdown stops handlers in reverse registration order on SIGTERM, SIGINT or
// when triggerCh fires; the returned channel closes once all of them returned.
func MonitorShutdown(triggerCh <-chan struct{}, handlers ...ShutdownHandler) <-chan struct{} {
	sigCh := make(chan os.Signal, 2)
	out := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logs.GetLogger().Warn("received shutdown, signal: ", sig)
		case <-triggerCh:
			logs.GetLogger().Warn("received shutdown")
		}
		signal.Stop(sigCh)

		logs.GetLogger().Warn("Shutting down...")
		for i := len(handlers) - 1; i >= 0; i-- {
			h := handlers[i]
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			err := h.StopFunc(ctx)
			cancel()
			if err != nil {
				logs.GetLogger().Errorf("shutting down %s failed: %s", h.Component, err)
				continue
			}
			logs.GetLogger().Infof("%s shut down successfully ", h.Component)
		}
		logs.GetLogger().Warn("Graceful shutdown successful")

		close(out)
	}()

	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	return out
}

// ServeHttp binds addr before returning, so a busy port is reported to the caller.
// TLS is terminated in front of the mock orchestrator.
func ServeHttp(h http.Handler, name string, addr string) (StopFunc, net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 60 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logs.GetLogger().Errorf("service: %s, serve: %s", name, err)
		}
	}()
	logs.GetLogger().Infof("service: %s, listening on %s", name, ln.Addr())

	return srv.Shutdown, ln.Addr(), nil
}
