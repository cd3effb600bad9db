package ircprotocol

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventHandler is a callback invoked for every classified event, in arrival order.
type EventHandler func(event Event)

// Observer receives counters from the read loop. Implementations must be
// cheap; they run on the read goroutine.
type Observer interface {
	ChunkReceived(n int)
	EventClassified(event Event)
	CarryDiscarded(n int)
}

// Identity is the registration data sent after connecting.
type Identity struct {
	Nick     string
	User     string // defaults to Nick
	Realname string // defaults to Nick
	Password string // NickServ password, optional
}

// Client is an IRC connection running a single sequential read/dispatch loop.
//
// Thread Safety:
// Run must be called from one goroutine. Send and the helpers built on it may
// be called concurrently with Run; writes are serialized by a mutex.
type Client struct {
	mu sync.Mutex

	transport     Transport
	connectedAddr string
	isConnected   bool
	decoder       *Decoder

	logger     zerolog.Logger
	observer   Observer
	chunkSize  int
	autoPong   bool
	clockOpts  []ClassifierOption
	writeLimit time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used by the client. The default discards output.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) { c.observer = o }
}

// WithChunkSize sets the size of a single transport read.
func WithChunkSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithAutoPong controls whether server PINGs are answered automatically.
func WithAutoPong(enabled bool) ClientOption {
	return func(c *Client) { c.autoPong = enabled }
}

// WithClientClock sets the clock used to stamp events.
func WithClientClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.clockOpts = append(c.clockOpts, WithClock(now)) }
}

// NewClient creates a new, unconnected client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger:     zerolog.Nop(),
		chunkSize:  DefaultChunkSize,
		autoPong:   true,
		writeLimit: WriteTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConnected returns true if the client currently holds a transport.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// Address returns the address passed to Connect, or "" when not connected.
func (c *Client) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectedAddr
}

// Connect dials address and attaches the resulting transport.
func (c *Client) Connect(ctx context.Context, address string) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}
	t, err := Dial(ctx, address)
	if err != nil {
		return err
	}
	if err := c.attach(t, address); err != nil {
		t.Close()
		return err
	}
	c.logger.Info().Str("address", address).Msg("connected")
	return nil
}

// Attach uses an already open transport, such as one end of net.Pipe in tests.
func (c *Client) Attach(t Transport) error {
	return c.attach(t, "")
}

func (c *Client) attach(t Transport, address string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isConnected {
		return ErrAlreadyConnected
	}
	c.transport = t
	c.connectedAddr = address
	c.isConnected = true
	c.decoder = NewDecoder(c.clockOpts...)
	return nil
}

// Disconnect closes the transport. Safe to call more than once.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isConnected {
		return
	}
	c.isConnected = false
	c.connectedAddr = ""
	if c.transport != nil {
		c.transport.Close()
	}
}

// Send writes one command followed by the line delimiter.
func (c *Client) Send(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isConnected {
		return ErrNotConnected
	}

	if d, ok := c.transport.(interface{ SetWriteDeadline(time.Time) error }); ok {
		d.SetWriteDeadline(time.Now().Add(c.writeLimit))
	}
	if _, err := io.WriteString(c.transport, cmd.FormatLine()); err != nil {
		return NewConnectionError("failed to send command", err)
	}
	c.logger.Debug().Str("line", cmd.Format()).Msg("sent")
	return nil
}

// Register sends USER and NICK, then identifies with NickServ when a
// password is set.
func (c *Client) Register(id Identity) error {
	user := id.User
	if user == "" {
		user = id.Nick
	}
	realname := id.Realname
	if realname == "" {
		realname = id.Nick
	}

	if err := c.Send(NewUserCommand(user, realname)); err != nil {
		return err
	}
	if err := c.Send(NewNickCommand(id.Nick)); err != nil {
		return err
	}
	if id.Password != "" {
		return c.Send(NewIdentifyCommand(id.Password))
	}
	return nil
}

// Join joins a channel.
func (c *Client) Join(channel, key string) error {
	return c.Send(NewJoinCommand(channel, key))
}

// Part leaves a channel.
func (c *Client) Part(channel, reason string) error {
	return c.Send(NewPartCommand(channel, reason))
}

// Say sends a PRIVMSG to a channel or nick.
func (c *Client) Say(target, text string) error {
	return c.Send(NewPrivmsgCommand(target, text))
}

// Quit asks the server to close the connection.
func (c *Client) Quit(reason string) error {
	return c.Send(NewQuitCommand(reason))
}

// Run reads from the transport until it closes, dispatching every event to
// handler before reading again.
//
// It returns ErrTransportClosed when the server ends the stream or the
// transport is closed locally, ctx.Err() when ctx is cancelled, and a
// *ConnectionError for any other read failure. Any unterminated trailing
// bytes are discarded. Run never terminates the process.
func (c *Client) Run(ctx context.Context, handler EventHandler) error {
	c.mu.Lock()
	t, dec := c.transport, c.decoder
	connected := c.isConnected
	c.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}

	stop := context.AfterFunc(ctx, c.Disconnect)
	defer stop()

	buf := make([]byte, c.chunkSize)
	for {
		n, err := t.Read(buf)
		if n > 0 {
			if c.observer != nil {
				c.observer.ChunkReceived(n)
			}
			for event := range dec.Events(buf[:n]) {
				c.dispatch(dec, event, handler)
			}
		}
		if err != nil {
			return c.finish(ctx, dec, err)
		}
	}
}

func (c *Client) finish(ctx context.Context, dec *Decoder, err error) error {
	if dropped := dec.Close(); dropped > 0 {
		c.logger.Warn().Int("bytes", dropped).Msg("discarding unterminated line at end of stream")
		if c.observer != nil {
			c.observer.CarryDiscarded(dropped)
		}
	}
	c.Disconnect()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		c.logger.Info().Msg("transport closed")
		return ErrTransportClosed
	}
	return NewConnectionError("read failed", err)
}

func (c *Client) dispatch(dec *Decoder, event Event, handler EventHandler) {
	c.emit(event, handler)
	if c.autoPong && event.Type == EventServerPing {
		c.pong(dec, event, handler)
	}
}

func (c *Client) emit(event Event, handler EventHandler) {
	if c.observer != nil {
		c.observer.EventClassified(event)
	}
	c.logger.Debug().Stringer("type", event.Type).Str("raw", event.Raw).Msg("event")
	if handler != nil {
		handler(event)
	}
}

// pong answers a server PING and reports the reply as a local event.
func (c *Client) pong(dec *Decoder, ping Event, handler EventHandler) {
	cmd := NewPongCommand(ping.Sender.Name())
	if err := c.Send(cmd); err != nil {
		c.logger.Warn().Err(err).Msg("failed to answer ping")
		return
	}
	c.emit(dec.Classify(cmd.Format()), handler)
}
