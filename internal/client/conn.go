package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kobzarvs/qchat/internal/logger"
)

var (
	ErrMissingContentLength = errors.New("missing content-length")
	ErrFrameTooLarge        = errors.New("frame too large")
	ErrClosed               = errors.New("connection closed")
)

// maxFrameSize bounds the body of a frame read from the server.
const maxFrameSize = 1 << 20

const (
	CommandSendMessage = "send_message"

	EventRoomList     = "room_list"
	EventMessage      = "message"
	EventNotification = "notification"
	EventError        = "error"
)

// Command is a single request sent to the chat server.
type Command struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Room    string `json:"room,omitempty"`
	Content string `json:"content,omitempty"`
}

// SendMessage builds the command that posts content to room.
func SendMessage(room, content string) Command {
	return Command{
		ID:      uuid.NewString(),
		Type:    CommandSendMessage,
		Room:    room,
		Content: content,
	}
}

// RoomInfo describes a room as announced by the server.
type RoomInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Users       []string `json:"users,omitempty"`
}

// Event is a message pushed by the server.
type Event struct {
	Type     string     `json:"type"`
	Room     string     `json:"room,omitempty"`
	Username string     `json:"username,omitempty"`
	Content  string     `json:"content,omitempty"`
	Rooms    []RoomInfo `json:"rooms,omitempty"`
}

// Conn is a framed JSON connection to the chat server. Every frame is a
// Content-Length header followed by the JSON body. Writes are serialized so
// two frames never interleave on the wire.
type Conn struct {
	rw     io.ReadWriteCloser
	reader *bufio.Reader
	events chan Event

	// writeMu is held for the whole frame, header and body.
	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
}

// Dial connects to addr over TCP.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	logger.Info("connected", "addr", addr)
	return NewConn(nc), nil
}

// NewConn wraps an established stream.
func NewConn(rw io.ReadWriteCloser) *Conn {
	return &Conn{
		rw:     rw,
		reader: bufio.NewReader(rw),
		events: make(chan Event, 32),
	}
}

// Events returns the stream of server events. It is closed when ReadLoop returns.
func (c *Conn) Events() <-chan Event {
	return c.events
}

// Write sends cmd. The context deadline, if any, bounds the write, and
// cancelling ctx aborts a write that is blocked on the peer. A write that
// fails after part of the frame went out leaves the stream unframed, so the
// connection is closed and the error also matches ErrClosed.
func (c *Conn) Write(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed.Load() {
		return ErrClosed
	}
	if dl, ok := c.rw.(interface{ SetWriteDeadline(time.Time) error }); ok {
		// Only ctx expiry aborts the write, so a failed write always has ctx.Err set.
		_ = dl.SetWriteDeadline(time.Time{})
		stop := context.AfterFunc(ctx, func() {
			_ = dl.SetWriteDeadline(time.Unix(1, 0))
		})
		defer stop()
	}
	cw := &countingWriter{w: c.rw}
	if err := WriteFrame(cw, cmd); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else if c.closed.Load() {
			return ErrClosed
		}
		if cw.n > 0 {
			logger.Warn("partial frame written, closing connection", "id", cmd.ID, "bytes", cw.n)
			_ = c.Close()
			return fmt.Errorf("%w after partial frame: %w", err, ErrClosed)
		}
		return err
	}
	logger.Debug("command written", "id", cmd.ID, "type", cmd.Type, "room", cmd.Room)
	return nil
}

// ReadLoop decodes events until the stream ends or ctx is done.
func (c *Conn) ReadLoop(ctx context.Context) error {
	defer close(c.events)
	for {
		msg, err := readMessage(c.reader)
		if err != nil {
			if errors.Is(err, io.EOF) || c.closed.Load() {
				return nil
			}
			logger.Warn("read failed", "error", err)
			return err
		}
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			logger.Debug("skipping malformed event", "error", err)
			continue
		}
		select {
		case c.events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// Close shuts the underlying stream, which also ends ReadLoop and fails any
// write still blocked on it.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		err = c.rw.Close()
	})
	return err
}

type countingWriter struct {
	w io.Writer
	n int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n
	return n, err
}

// WriteFrame writes v as a single framed message to w.
func WriteFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadFrame reads a single framed message from r.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	return readMessage(r)
}

func readMessage(r *bufio.Reader) ([]byte, error) {
	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(parts[0])) == "content-length" {
			val := strings.TrimSpace(parts[1])
			if n, err := strconv.Atoi(val); err == nil {
				length = n
			}
		}
	}
	if length < 0 {
		return nil, ErrMissingContentLength
	}
	if length > maxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	buf := make([]byte, length)
	_, err := io.ReadFull(r, buf)
	return buf, err
}
