package util

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
)

var (
	processCtx  context.Context
	processOnce sync.Once
)

// ReqContext is shared by every call of a command and is cancelled on SIGTERM,
// SIGINT or SIGHUP. The signal handler is installed on the first call only.
func ReqContext() context.Context {
	processOnce.Do(func() {
		processCtx, _ = signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	})
	return processCtx
}
