package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kobzarvs/qchat/internal/client"
	"github.com/kobzarvs/qchat/internal/config"
	"github.com/kobzarvs/qchat/internal/dispatch"
	"github.com/kobzarvs/qchat/internal/logger"
)

const tickInterval = 250 * time.Millisecond

// App is the top-level runtime for qchat.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

// disconnected is posted when the server stream ends.
type disconnected struct {
	err error
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.DebugEnabled()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	addr := cfg.Client.Address
	if len(a.args) > 0 {
		addr = a.args[0]
	}
	dialCtx, cancelDial := context.WithTimeout(context.Background(), cfg.Client.DialTimeoutDuration())
	conn, err := client.Dial(dialCtx, addr)
	cancelDial()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	d := dispatch.New(conn, dispatch.Options{
		Timeout:    cfg.Client.WriteTimeoutDuration(),
		OnComplete: func(res dispatch.Result) { post(gctx, s, res) },
	})
	ss := newSession(cfg, s, d)

	g.Go(func() error { return d.Run(gctx) })
	g.Go(func() error {
		err := conn.ReadLoop(gctx)
		post(gctx, s, disconnected{err: err})
		return nil
	})
	g.Go(func() error {
		for ev := range conn.Events() {
			post(gctx, s, ev)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	})
	defer func() {
		cancel()
		d.Close()
		_ = conn.Close()
		if err := g.Wait(); err != nil {
			logger.Warn("background task failed", "error", err)
		}
	}()

	logger.Info("qchat started", "addr", addr, "user", cfg.Client.Username)
	ss.redraw()
	for {
		if ss.handle(s.PollEvent()) {
			return nil
		}
	}
}

// post delivers data to the owner loop, retrying while the event queue is
// full. It gives up once ctx is done.
func post(ctx context.Context, s tcell.Screen, data any) {
	for {
		err := s.PostEvent(tcell.NewEventInterrupt(data))
		if err == nil || !errors.Is(err, tcell.ErrEventQFull) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}
