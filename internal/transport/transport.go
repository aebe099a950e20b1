package transport

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wirechat/internal/domain"
)

const (
	// DefaultHeartbeat is the ping interval while connected.
	DefaultHeartbeat = 54 * time.Second
	// DefaultInitialBackoff is the first reconnection wait.
	DefaultInitialBackoff = 5 * time.Second
	// DefaultMaxBackoff is the reconnection wait ceiling.
	DefaultMaxBackoff = 60 * time.Second

	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// Config wires a Transport. HubURL and Token are required; zero durations
// fall back to the defaults above.
type Config struct {
	// HubURL is the hub base URL (http or https); the socket endpoint is
	// derived from it.
	HubURL string
	// Token supplies the current bearer token at dial time, so a re-login
	// between reconnect attempts is picked up automatically.
	Token func() string
	// OnFrame is invoked from the read loop for every inbound frame. It must
	// not block for long; the socket is not read while it runs.
	OnFrame func([]byte)
	// OnState, if set, observes every state transition. Invoked on its own
	// goroutine.
	OnState func(domain.ConnectionState)

	Heartbeat      time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Insecure skips TLS verification and tags the upgrade request with the
	// development-only Insecure header.
	Insecure bool

	Logger zerolog.Logger
}

// Transport owns the socket lifecycle: dialing, heartbeat, the read loop,
// and backoff-based reconnection.
//
// State machine: Disconnected -> Connecting -> Connected; Connected ->
// Reconnecting on socket error or close; Reconnecting -> Connecting after
// the backoff wait; any state -> Disconnected on Disconnect, which is
// terminal until the next Connect. At most one reconnection loop runs at a
// time; error signals from stale connections are ignored by generation
// number.
type Transport struct {
	cfg Config
	log zerolog.Logger

	mu     sync.Mutex
	state  domain.ConnectionState
	ws     *websocket.Conn
	halt   chan struct{}
	closed bool
	gen    uint64

	ready chan struct{}
}

// New returns a disconnected transport.
func New(cfg Config) *Transport {
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = DefaultHeartbeat
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = DefaultMaxBackoff
	}
	return &Transport{
		cfg:    cfg,
		log:    cfg.Logger,
		state:  domain.Disconnected,
		closed: true,
		ready:  make(chan struct{}, 1),
	}
}

// State returns the current connection state.
func (t *Transport) State() domain.ConnectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Ready yields a signal each time the transport transitions to Connected.
// Consumers use it to wake queue draining; the channel never closes.
func (t *Transport) Ready() <-chan struct{} {
	return t.ready
}

// Connect opens the socket. Calls while a connection or reconnection is
// already pending are no-ops. An initial dial failure is returned to the
// caller and also hands off to the reconnection loop.
func (t *Transport) Connect() error {
	t.mu.Lock()
	if t.state != domain.Disconnected {
		t.mu.Unlock()
		return nil
	}
	t.closed = false
	t.halt = make(chan struct{})
	halt := t.halt
	t.mu.Unlock()

	if err := t.dial(); err != nil {
		t.mu.Lock()
		if !t.closed {
			t.toStateLocked(domain.Reconnecting)
			go t.reconnectLoop(halt)
		}
		t.mu.Unlock()
		return err
	}
	return nil
}

// Disconnect halts reconnection, closes the socket with a normal closure
// code, and parks the transport in Disconnected. Idempotent.
func (t *Transport) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	close(t.halt)
	if t.ws != nil {
		deadline := time.Now().Add(time.Second)
		_ = t.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = t.ws.Close()
		t.ws = nil
	}
	t.gen++
	t.toStateLocked(domain.Disconnected)
}

// WriteFrame transmits one text frame. Fails with NetworkError when not
// connected; a write failure also feeds the reconnection path.
func (t *Transport) WriteFrame(b []byte) error {
	t.mu.Lock()
	if t.state != domain.Connected || t.ws == nil {
		t.mu.Unlock()
		return domain.NewNetworkError("write frame: not connected")
	}
	conn, gen := t.ws, t.gen
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := conn.WriteMessage(websocket.TextMessage, b)
	t.mu.Unlock()
	if err != nil {
		t.fail(gen, err)
		return domain.NewNetworkError("write frame: %w", err)
	}
	return nil
}

// dial performs a single connection attempt and, on success, starts the
// read and heartbeat loops for the new connection.
func (t *Transport) dial() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return domain.NewNetworkError("dial: transport closed")
	}
	t.toStateLocked(domain.Connecting)
	halt := t.halt
	t.mu.Unlock()

	var token string
	if t.cfg.Token != nil {
		token = t.cfg.Token()
	}
	u, err := SocketURL(t.cfg.HubURL, token)
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	hdr := http.Header{}
	if t.cfg.Insecure {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		hdr.Set("Insecure", "true")
	}
	conn, resp, err := dialer.Dial(u, hdr)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return domain.NewNetworkError("dial %s: %w", u, err)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return domain.NewNetworkError("dial: transport closed")
	}
	t.gen++
	gen := t.gen
	t.ws = conn
	t.toStateLocked(domain.Connected)
	t.mu.Unlock()

	select {
	case t.ready <- struct{}{}:
	default:
	}

	go t.readLoop(conn, gen)
	go t.heartbeat(conn, gen, halt)
	return nil
}

// fail moves a live connection into Reconnecting and starts the single
// reconnection loop. Signals from stale connections or while already
// reconnecting are no-ops.
func (t *Transport) fail(gen uint64, cause error) {
	t.mu.Lock()
	if t.closed || gen != t.gen || t.state != domain.Connected {
		t.mu.Unlock()
		return
	}
	t.log.Warn().Err(cause).Msg("socket failed, scheduling reconnect")
	if t.ws != nil {
		_ = t.ws.Close()
		t.ws = nil
	}
	t.gen++
	t.toStateLocked(domain.Reconnecting)
	halt := t.halt
	t.mu.Unlock()

	go t.reconnectLoop(halt)
}

func (t *Transport) reconnectLoop(halt chan struct{}) {
	b := NewBackoff(t.cfg.InitialBackoff, t.cfg.MaxBackoff)
	for {
		wait := b.Next()
		t.log.Info().Dur("wait", wait).Msg("reconnect backoff")
		select {
		case <-halt:
			return
		case <-time.After(wait):
		}
		if err := t.dial(); err != nil {
			t.log.Warn().Err(err).Msg("reconnect attempt failed")
			t.mu.Lock()
			if t.closed {
				t.mu.Unlock()
				return
			}
			t.toStateLocked(domain.Reconnecting)
			t.mu.Unlock()
			continue
		}
		return
	}
}

func (t *Transport) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.fail(gen, err)
			return
		}
		if t.cfg.OnFrame != nil {
			t.cfg.OnFrame(data)
		}
	}
}

func (t *Transport) heartbeat(conn *websocket.Conn, gen uint64, halt chan struct{}) {
	ticker := time.NewTicker(t.cfg.Heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-halt:
			return
		case <-ticker.C:
		}
		t.mu.Lock()
		if t.gen != gen || t.state != domain.Connected {
			t.mu.Unlock()
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err := conn.WriteMessage(websocket.PingMessage, nil)
		t.mu.Unlock()
		if err != nil {
			t.fail(gen, err)
			return
		}
	}
}

func (t *Transport) toStateLocked(s domain.ConnectionState) {
	if t.state == s {
		return
	}
	t.log.Debug().Stringer("from", t.state).Stringer("to", s).Msg("connection state")
	t.state = s
	if t.cfg.OnState != nil {
		go t.cfg.OnState(s)
	}
}
