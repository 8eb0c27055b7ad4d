package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	socketIOPath       = "/socket.io/"
	defaultWriteWait   = 10 * time.Second
	defaultHandshake   = 10 * time.Second
	defaultReadLimit   = 1024 * 1024
	defaultPingWindow  = 45 * time.Second
	handshakeReadGrace = 5 * time.Second
)

var (
	errServerClosed     = errors.New("realtime: server closed the connection")
	errServerDisconnect = errors.New("realtime: server disconnected the namespace")
)

// Options configures a Socket.IO client.
type Options struct {
	// URL of the server, e.g. http://localhost:5000. The Socket.IO path is added
	// when the URL has none.
	URL       string
	Namespace string
	Header    http.Header
	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration
	// ReconnectDelay is the pause between connection attempts; zero disables reconnecting.
	ReconnectDelay time.Duration
	// HandshakeTimeout bounds the websocket dial.
	HandshakeTimeout time.Duration
	// PingWindow is the read deadline used when the server announces no ping settings.
	PingWindow time.Duration
}

// Client is a Socket.IO (Engine.IO v4) client over a gorilla websocket.
// Events are dispatched on the read loop goroutine in arrival order.
type Client struct {
	*Dispatcher

	endpoint string
	opts     Options
	dialer   *websocket.Dialer
	logger   *zap.Logger

	writeMu sync.Mutex
	connMu  sync.Mutex
	conn    *websocket.Conn

	closed    chan struct{}
	closeOnce sync.Once
}

// NewClient validates opts and returns an unconnected client.
func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint, err := socketEndpoint(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.Namespace == "" {
		opts.Namespace = defaultNamespace
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteWait
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = defaultHandshake
	}
	if opts.PingWindow <= 0 {
		opts.PingWindow = defaultPingWindow
	}

	return &Client{
		Dispatcher: NewDispatcher(logger),
		endpoint:   endpoint,
		opts:       opts,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.HandshakeTimeout,
		},
		logger: logger,
		closed: make(chan struct{}),
	}, nil
}

// Endpoint returns the websocket URL the client dials.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func socketEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("realtime: url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("realtime: parse url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("realtime: unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = socketIOPath
	}
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Run keeps a connection open and dispatches events until ctx is done or Close is called.
// Without a reconnect delay the first connection error is returned.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if c.stopped(ctx) {
			return nil
		}
		if c.opts.ReconnectDelay <= 0 {
			return err
		}
		c.logger.Warn("realtime connection lost, reconnecting",
			zap.Error(err),
			zap.Duration("delay", c.opts.ReconnectDelay))

		timer := time.NewTimer(c.opts.ReconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-c.closed:
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (c *Client) stopped(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, c.opts.Header)
	if err != nil {
		return fmt.Errorf("realtime: dial: %w", err)
	}
	conn.SetReadLimit(defaultReadLimit)
	c.setConn(conn)
	defer func() {
		c.setConn(nil)
		_ = conn.Close()
	}()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-c.closed:
		case <-stop:
			return
		}
		_ = conn.Close()
	}()

	window, err := c.handshake(conn)
	if err != nil {
		return err
	}

	connected := false
	defer func() {
		if connected {
			c.Dispatch(ctx, EventDisconnect, nil)
		}
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(window))
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("realtime: read: %w", err)
		}
		if msgType != websocket.TextMessage {
			c.logger.Debug("ignoring non-text frame", zap.Int("type", msgType))
			continue
		}

		pkt, err := ParsePacket(raw)
		if err != nil {
			c.logger.Warn("dropping malformed packet", zap.Error(err))
			continue
		}

		switch pkt.Engine {
		case enginePing:
			if err := c.write(EncodePong()); err != nil {
				return fmt.Errorf("realtime: pong: %w", err)
			}
		case engineClose:
			return errServerClosed
		case engineMessage:
			if pkt.Namespace != c.opts.Namespace {
				continue
			}
			switch pkt.Socket {
			case socketConnect:
				connected = true
				c.logger.Info("realtime channel connected", zap.String("endpoint", c.endpoint))
				c.Dispatch(ctx, EventConnect, pkt.Data)
			case socketConnectError:
				return fmt.Errorf("realtime: connect refused: %s", string(pkt.Data))
			case socketDisconnect:
				return errServerDisconnect
			case socketEvent:
				name, payload, err := pkt.Event()
				if err != nil {
					c.logger.Warn("dropping malformed event", zap.Error(err))
					continue
				}
				c.Dispatch(ctx, name, payload)
			}
		}
	}
}

// handshake consumes the open packet, joins the namespace and returns the
// read window derived from the server's ping settings.
func (c *Client) handshake(conn *websocket.Conn) (time.Duration, error) {
	_ = conn.SetReadDeadline(time.Now().Add(c.opts.HandshakeTimeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return 0, fmt.Errorf("realtime: read open: %w", err)
	}
	pkt, err := ParsePacket(raw)
	if err != nil {
		return 0, err
	}
	info, err := pkt.Open()
	if err != nil {
		return 0, err
	}

	window := c.opts.PingWindow
	if info.PingInterval > 0 || info.PingTimeout > 0 {
		window = time.Duration(info.PingInterval+info.PingTimeout)*time.Millisecond + handshakeReadGrace
	}

	if err := c.write(EncodeConnect(c.opts.Namespace)); err != nil {
		return 0, fmt.Errorf("realtime: join namespace: %w", err)
	}
	c.logger.Debug("engine.io handshake complete", zap.String("sid", info.SID), zap.Duration("window", window))
	return window, nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
}

func (c *Client) write(data []byte) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return errors.New("realtime: not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Emit sends an event to the server.
func (c *Client) Emit(name string, payload interface{}) error {
	frame, err := EncodeEvent(c.opts.Namespace, name, payload)
	if err != nil {
		return err
	}
	return c.write(frame)
}

// Close leaves the namespace and stops Run.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		_ = c.write(EncodeDisconnect(c.opts.Namespace))
		close(c.closed)
	})
	return nil
}
