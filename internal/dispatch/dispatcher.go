// Package dispatch runs outbound chat commands off the UI goroutine.
//
// A Dispatcher owns a FIFO queue drained by a single worker, so at most one
// write is outstanding at any time and frames never interleave. Each write is
// bounded by a timeout; the outcome is reported through OnComplete and the
// Pending handle returned by Submit.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kobzarvs/qchat/internal/client"
	"github.com/kobzarvs/qchat/internal/logger"
)

var ErrClosed = errors.New("dispatcher closed")

const DefaultTimeout = 10 * time.Second

// CommandWriter is the transport a Dispatcher writes to. client.Conn
// implements it.
type CommandWriter interface {
	Write(ctx context.Context, cmd client.Command) error
}

// Result is the outcome of one submitted message.
type Result struct {
	ID      string
	Room    string
	Content string
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

type Options struct {
	// Timeout bounds each write. Zero means DefaultTimeout.
	Timeout time.Duration
	// OnComplete is called from the worker goroutine once per submission.
	OnComplete func(Result)
}

type Dispatcher struct {
	writer     CommandWriter
	timeout    time.Duration
	onComplete func(Result)

	base   context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	queue   []*Pending
	closed  bool
	wake    chan struct{}
	stop    chan struct{}
	running sync.WaitGroup
}

func New(w CommandWriter, opts Options) *Dispatcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		writer:     w,
		timeout:    timeout,
		onComplete: opts.OnComplete,
		base:       base,
		cancel:     cancel,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
}

// Submit queues content for room and returns immediately.
func (d *Dispatcher) Submit(room, content string) *Pending {
	cmd := client.SendMessage(room, content)
	ctx, cancel := context.WithCancel(d.base)
	p := &Pending{
		d:      d,
		cmd:    cmd,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	d.mu.Lock()
	if d.closed || d.base.Err() != nil {
		d.mu.Unlock()
		d.finish(p, ErrClosed)
		return p
	}
	d.queue = append(d.queue, p)
	d.mu.Unlock()

	logger.Debug("message queued", "id", cmd.ID, "room", room)
	select {
	case d.wake <- struct{}{}:
	default:
	}
	return p
}

// Run drains the queue until ctx is done or Close is called. Only one Run
// may be active.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.running.Add(1)
	d.mu.Unlock()
	defer d.running.Done()

	stop := context.AfterFunc(ctx, d.cancel)
	defer stop()

	for {
		if p, ok := d.next(); ok {
			d.write(p)
			continue
		}
		select {
		case <-d.wake:
		case <-d.stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Close cancels the write in flight, fails everything still queued with
// ErrClosed and waits for Run to return.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	close(d.stop)
	d.running.Wait()

	d.mu.Lock()
	queued := d.queue
	d.queue = nil
	d.mu.Unlock()
	for _, p := range queued {
		d.finish(p, ErrClosed)
	}
}

func (d *Dispatcher) next() (*Pending, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return nil, false
	}
	p := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	return p, true
}

func (d *Dispatcher) remove(p *Pending) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, q := range d.queue {
		if q == p {
			d.queue = append(d.queue[:i], d.queue[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Dispatcher) write(p *Pending) {
	if err := p.ctx.Err(); err != nil {
		if d.base.Err() != nil {
			err = ErrClosed
		}
		d.finish(p, err)
		return
	}
	ctx, cancel := context.WithTimeout(p.ctx, d.timeout)
	defer cancel()
	start := time.Now()
	err := d.writer.Write(ctx, p.cmd)
	if err != nil && d.base.Err() != nil {
		err = ErrClosed
	}
	logger.Debug("message written", "id", p.cmd.ID, "room", p.cmd.Room, "elapsed", time.Since(start), "error", err)
	d.finish(p, err)
}

func (d *Dispatcher) finish(p *Pending, err error) {
	p.once.Do(func() {
		res := Result{ID: p.cmd.ID, Room: p.cmd.Room, Content: p.cmd.Content}
		if err != nil {
			res.Err = fmt.Errorf("send to #%s: %w", p.cmd.Room, err)
			logger.Warn("message not delivered", "id", p.cmd.ID, "room", p.cmd.Room, "error", err)
		}
		p.result = res
		p.cancel()
		close(p.done)
		if d.onComplete != nil {
			d.onComplete(res)
		}
	})
}

// Pending tracks a submitted message until its write finishes.
type Pending struct {
	d      *Dispatcher
	cmd    client.Command
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	result Result
}

func (p *Pending) ID() string { return p.cmd.ID }

// Cancel abandons the write. A queued message is dropped; a write in flight
// is interrupted through its context.
func (p *Pending) Cancel() {
	p.cancel()
	if p.d.remove(p) {
		p.d.finish(p, context.Canceled)
	}
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Result blocks until the write has finished.
func (p *Pending) Result() Result {
	<-p.done
	return p.result
}
