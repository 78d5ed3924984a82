package internal_test

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happydeel/mailroom/internal"
)

func TestApp_Run_HungShutdownHook(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/ping", func(c internal.Context) error { return c.String(http.StatusOK, "pong") })
	})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hung := make(chan struct{})
	t.Cleanup(func() { close(hung) })

	var flushed atomic.Bool
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- app.Run("127.0.0.1:0",
			internal.WithContext(ctx),
			internal.OnListen(func(a net.Addr) { addrCh <- a }),
			internal.ShutdownTimeout(600*time.Millisecond),
			internal.ShutdownHook(func(context.Context) error { <-hung; return nil }),
			internal.ShutdownHook(func(context.Context) error { flushed.Store(true); return nil }),
		)
	}()

	<-addrCh
	start := time.Now()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "shutdown hook 0")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, flushed.Load(), "hooks after a hung one still run")
}
