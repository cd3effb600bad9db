package ircprotocol

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Transport is the byte stream of one connection. Reads return arbitrary
// chunks; closing it is the only way to unblock a pending read.
type Transport interface {
	io.ReadWriteCloser
}

// WebSocketSubprotocol is the IRCv3 text subprotocol offered on WebSocket dials.
const WebSocketSubprotocol = "text.ircv3.net"

// Dial opens a transport to address.
//
// Accepted forms:
//
//	host:port            plain TCP
//	host                 plain TCP on DefaultPort
//	irc://host[:port]    plain TCP
//	ws://host[:port]/p   IRC over WebSocket, one line per text message
func Dial(ctx context.Context, address string) (Transport, error) {
	dialCtx, cancel := context.WithTimeout(ctx, ConnectionTimeout)
	defer cancel()

	if !strings.Contains(address, "://") {
		return dialTCP(dialCtx, address)
	}

	u, err := url.Parse(address)
	if err != nil {
		return nil, NewConnectionError("invalid address", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "irc", "tcp":
		return dialTCP(dialCtx, u.Host)
	case "ws":
		return dialWebSocket(dialCtx, address)
	default:
		return nil, NewConnectionError(u.Scheme, ErrUnsupportedScheme)
	}
}

func dialTCP(ctx context.Context, hostport string) (Transport, error) {
	if _, _, err := net.SplitHostPort(hostport); err != nil {
		hostport = net.JoinHostPort(hostport, DefaultPort)
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", hostport)
	if err != nil {
		return nil, NewConnectionError("failed to connect", err)
	}
	return conn, nil
}

func dialWebSocket(ctx context.Context, address string) (Transport, error) {
	dialer := ws.Dialer{Protocols: []string{WebSocketSubprotocol}}
	conn, br, _, err := dialer.Dial(ctx, address)
	if err != nil {
		return nil, NewConnectionError("websocket handshake failed", err)
	}
	var r io.Reader = conn
	if br != nil {
		// The handshake reader may already hold the first frames.
		r = io.MultiReader(br, conn)
	}
	return newWebSocketTransport(conn, r), nil
}

// webSocketTransport adapts message-framed WebSocket traffic to the
// delimiter-framed stream the Framer expects.
type webSocketTransport struct {
	conn    io.ReadWriteCloser
	rw      io.ReadWriter
	pending []byte
}

func newWebSocketTransport(conn io.ReadWriteCloser, r io.Reader) *webSocketTransport {
	return &webSocketTransport{
		conn: conn,
		rw: struct {
			io.Reader
			io.Writer
		}{r, conn},
	}
}

// Read returns the next text message, terminated by the line delimiter.
func (t *webSocketTransport) Read(p []byte) (int, error) {
	for len(t.pending) == 0 {
		data, err := wsutil.ReadServerText(t.rw)
		if err != nil {
			var closed wsutil.ClosedError
			if errors.As(err, &closed) {
				return 0, io.EOF
			}
			return 0, err
		}
		if !bytes.HasSuffix(data, delimiter) {
			data = append(data, delimiter...)
		}
		t.pending = data
	}
	n := copy(p, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

// Write sends every delimited line in p as its own text message.
func (t *webSocketTransport) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, delimiter) {
		if len(line) == 0 {
			continue
		}
		if err := wsutil.WriteClientText(t.rw, line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (t *webSocketTransport) Close() error {
	return t.conn.Close()
}
