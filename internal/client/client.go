package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wirechat/internal/crypto"
	"wirechat/internal/directory"
	"wirechat/internal/domain"
	"wirechat/internal/hub"
	"wirechat/internal/transport"
)

const (
	outboundDepth = 64
	lookupTimeout = 5 * time.Second
)

// Config assembles a Client.
type Config struct {
	Identity domain.Identity
	HubURL   string
	Insecure bool

	// Hub may be nil for pipeline-only use (tests); Register and Login then
	// fail.
	Hub *hub.Client
	// Directory defaults to a hub-backed directory seeded with the local key.
	Directory domain.KeyDirectory

	Heartbeat      time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	Logger zerolog.Logger
}

// Client is the long-lived messaging session: it authenticates against the
// hub, keeps the socket alive through the transport, and runs the message
// pipeline in both directions.
type Client struct {
	id        domain.Identity
	curvePriv domain.Curve25519Private
	hub       *hub.Client
	dir       domain.KeyDirectory
	log       zerolog.Logger

	transport *transport.Transport

	mu    sync.Mutex
	token string

	outCh chan domain.Message
	halt  chan struct{}
	once  sync.Once

	subMu sync.RWMutex
	subs  map[uuid.UUID]domain.Subscriber
}

// New builds a client around the immutable identity. The Curve25519 private
// key is derived once here; it never changes for the client's lifetime.
func New(cfg Config) *Client {
	c := &Client{
		id:        cfg.Identity,
		curvePriv: crypto.PrivateToCurve25519(cfg.Identity.Priv),
		hub:       cfg.Hub,
		dir:       cfg.Directory,
		log:       cfg.Logger,
		outCh:     make(chan domain.Message, outboundDepth),
		halt:      make(chan struct{}),
		subs:      make(map[uuid.UUID]domain.Subscriber),
	}
	if c.dir == nil && cfg.Hub != nil {
		c.dir = directory.New(cfg.Identity, cfg.Hub)
	}
	c.transport = transport.New(transport.Config{
		HubURL:         cfg.HubURL,
		Token:          c.Token,
		OnFrame:        c.handleInbound,
		Heartbeat:      cfg.Heartbeat,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Insecure:       cfg.Insecure,
		Logger:         cfg.Logger,
	})
	return c
}

// UserID returns the local user id.
func (c *Client) UserID() string { return c.id.UserID }

// Token returns the current bearer token; empty means unauthenticated.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// State returns the transport's connection state.
func (c *Client) State() domain.ConnectionState { return c.transport.State() }

// Register creates the account on the hub.
func (c *Client) Register(ctx context.Context, username string) error {
	if c.hub == nil {
		return domain.NewValidationError("no hub client configured")
	}
	return c.hub.Register(ctx, c.id, username)
}

// Login runs the challenge-response exchange and stores the bearer token.
// No retry happens here; callers decide whether and when to try again.
func (c *Client) Login(ctx context.Context) error {
	if c.hub == nil {
		return domain.NewValidationError("no hub client configured")
	}
	token, err := c.hub.Login(ctx, c.id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// Connect opens the socket using the stored bearer token and starts the
// outbound drain loop.
func (c *Client) Connect() error {
	if c.Token() == "" {
		return domain.NewAuthError("connect: not logged in")
	}
	c.once.Do(func() { go c.sendLoop() })
	return c.transport.Connect()
}

// Disconnect tears the session down: the socket closes with a normal
// closure, reconnection halts, and queued outbound messages stay queued.
func (c *Client) Disconnect() {
	c.transport.Disconnect()
}

// Close permanently stops the client, including the drain loop.
func (c *Client) Close() {
	c.transport.Disconnect()
	select {
	case <-c.halt:
	default:
		close(c.halt)
	}
}

// Send queues a message. Content is plaintext; the pipeline encrypts it for
// any destination other than broadcast. Delivery is at-most-once: a message
// lost to a transport failure is the caller's to resubmit.
func (c *Client) Send(to, content string) error {
	m := domain.Message{
		From:    c.id.UserID,
		To:      to,
		Content: content,
		Status:  domain.StatusPending,
	}
	select {
	case <-c.halt:
		return domain.NewValidationError("send: client closed")
	case c.outCh <- m:
		return nil
	default:
		return domain.NewValidationError("send: outbound queue full")
	}
}

// Subscribe registers fn for every inbound message, tagged ones included.
// The returned function removes the subscription.
func (c *Client) Subscribe(fn domain.Subscriber) func() {
	id := uuid.New()
	c.subMu.Lock()
	c.subs[id] = fn
	c.subMu.Unlock()
	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// sendLoop drains the outbound queue while the transport is connected. It is
// the only writer, preserving at-most-one-in-flight-send per socket, and it
// blocks on the queue instead of polling.
func (c *Client) sendLoop() {
	for {
		var m domain.Message
		select {
		case <-c.halt:
			return
		case m = <-c.outCh:
		}
		for c.transport.State() != domain.Connected {
			select {
			case <-c.halt:
				return
			case <-c.transport.Ready():
			}
		}
		if err := c.transmit(m); err != nil {
			// Transport failures already fed the reconnection path inside
			// WriteFrame; crypto and directory failures abort this send only.
			c.log.Error().Err(err).Str("to", m.To).Msg("outbound message dropped")
		}
	}
}
