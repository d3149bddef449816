package util

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeHttp(t *testing.T) {
	stop, addr, err := ServeHttp(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}), "test", "127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	_, _, err = ServeHttp(http.NotFoundHandler(), "busy", addr.String())
	assert.Error(t, err)

	require.NoError(t, stop(context.Background()))
}

func TestMonitorShutdownReverseOrder(t *testing.T) {
	var order []string
	stopper := func(name string) StopFunc {
		return func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			order = append(order, name)
			return nil
		}
	}

	trigger := make(chan struct{})
	done := MonitorShutdown(trigger,
		ShutdownHandler{Component: "storage", StopFunc: stopper("storage")},
		ShutdownHandler{Component: "api", StopFunc: stopper("api")},
	)
	close(trigger)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not finish")
	}
	assert.Equal(t, []string{"api", "storage"}, order)
}
