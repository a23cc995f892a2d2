package mqtt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/playtrack/playtrack-core/internal/infrastructure/config"
)

// State is the connection manager's lifecycle state.
type State int32

// Connection states. Transitions: Disconnected -> Connecting -> Connected,
// back to Disconnected on failure, and from Disconnected to Connecting
// again after the backoff delay.
const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the lowercase state name for logging.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Message is a raw inbound event-bus message.
type Message struct {
	Topic   string
	Payload []byte
}

// Logger is the subset of logging used by the connection manager.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Client owns the connection to the MQTT event bus.
//
// Unlike a fire-and-forget paho setup, the Client runs an explicit
// connect/subscribe/deliver loop: each received payload is pushed, in
// arrival order, onto a bounded channel that the session tracker
// consumes. Connection failures (including authentication failures) are
// retried forever with exponential backoff until the run context is
// cancelled.
//
// Thread Safety:
//   - Run must be called at most once; all other methods are safe for
//     concurrent use.
type Client struct {
	cfg     config.MQTTConfig
	opts    *pahomqtt.ClientOptions
	backoff *Backoff
	logger  Logger

	messages chan Message
	state    atomic.Int32
	running  atomic.Bool

	// pc is the current paho client, replaced on each connection attempt.
	pc pahomqtt.Client
	mu sync.Mutex
}

// New creates a connection manager for the given configuration.
//
// The client does not connect until Run is called. The returned client
// owns all connection state (credentials, backoff counters, the paho
// handle); nothing is stored globally.
//
// Parameters:
//   - cfg: MQTT configuration from config.yaml
//   - logger: Logger for connection state transitions
//
// Returns:
//   - *Client: Manager ready for Run
func New(cfg config.MQTTConfig, logger Logger) *Client {
	initial := time.Duration(cfg.Reconnect.InitialDelay) * time.Second
	max := time.Duration(cfg.Reconnect.MaxDelay) * time.Second

	return &Client{
		cfg:      cfg,
		opts:     buildClientOptions(cfg),
		backoff:  NewBackoff(initial, max),
		logger:   logger,
		messages: make(chan Message, messageBufferSize),
	}
}

// Messages returns the channel of inbound event-bus messages.
//
// Messages are delivered in per-connection order. The channel is closed
// after Run returns; consumers should range over it and treat closure as
// shutdown.
func (c *Client) Messages() <-chan Message {
	return c.messages
}

// Run connects to the broker and delivers messages until ctx is cancelled.
//
// On any connection failure, initial or mid-stream, Run waits the current
// backoff delay and retries; retries are unbounded. A successful connect
// resets the backoff. Authentication failures are not distinguished from
// transient network failures - both follow the same policy, so a
// misconfigured password surfaces as repeated warning logs rather than a
// fatal error.
//
// Run blocks until ctx is cancelled, then disconnects and closes the
// message channel. Buffered messages remain readable after closure so
// in-flight processing can drain.
//
// Returns:
//   - error: ErrAlreadyRunning if called twice; otherwise nil on shutdown
func (c *Client) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(c.messages)

	for {
		c.setState(StateConnecting)

		lost, err := c.connect(ctx)
		if err != nil {
			c.setState(StateDisconnected)

			delay := c.backoff.Next()
			c.logger.Warn("mqtt connection failed",
				"broker", fmt.Sprintf("%s:%d", c.cfg.Broker.Host, c.cfg.Broker.Port),
				"error", err,
				"retry_in", delay.String(),
			)

			if !sleepCtx(ctx, delay) {
				c.logger.Info("mqtt shutdown requested, stopped retrying")
				return nil
			}
			continue
		}

		c.backoff.Reset()
		c.setState(StateConnected)
		c.logger.Info("mqtt connected",
			"broker", fmt.Sprintf("%s:%d", c.cfg.Broker.Host, c.cfg.Broker.Port),
			"topic", c.cfg.Topic,
		)

		select {
		case <-ctx.Done():
			c.disconnect()
			c.setState(StateDisconnected)
			c.logger.Info("mqtt disconnected", "reason", "shutdown")
			return nil

		case lostErr := <-lost:
			c.disconnect()
			c.setState(StateDisconnected)

			delay := c.backoff.Next()
			c.logger.Warn("mqtt connection lost",
				"error", lostErr,
				"retry_in", delay.String(),
			)

			if !sleepCtx(ctx, delay) {
				c.logger.Info("mqtt shutdown requested, stopped retrying")
				return nil
			}
		}
	}
}

// connect performs a single connection attempt: dial the broker and
// subscribe to the event topic. On success it returns a channel that
// receives the disconnect error if the connection is later lost.
func (c *Client) connect(ctx context.Context) (<-chan error, error) {
	// Buffered so the paho callback never blocks if the run loop is
	// already shutting down.
	lost := make(chan error, 1)

	opts := c.opts
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		select {
		case lost <- err:
		default:
		}
	})

	pc := pahomqtt.NewClient(opts)

	token := pc.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		pc.Disconnect(0)
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// Deliver payloads to the bounded channel in arrival order. The send
	// blocks the paho router when the consumer lags, which is the
	// intended backpressure; ctx unblocks it on shutdown.
	//nolint:gosec // QoS validated by config (0-2)
	qos := byte(c.cfg.QoS)
	sub := pc.Subscribe(c.cfg.Topic, qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		select {
		case c.messages <- Message{Topic: msg.Topic(), Payload: msg.Payload()}:
		case <-ctx.Done():
		}
	})
	if !sub.WaitTimeout(defaultSubscribeTimeout) {
		pc.Disconnect(defaultDisconnectQuiesce)
		return nil, fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultSubscribeTimeout)
	}
	if err := sub.Error(); err != nil {
		pc.Disconnect(defaultDisconnectQuiesce)
		return nil, fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	c.mu.Lock()
	c.pc = pc
	c.mu.Unlock()

	return lost, nil
}

// disconnect releases the current broker connection, if any.
func (c *Client) disconnect() {
	c.mu.Lock()
	pc := c.pc
	c.pc = nil
	c.mu.Unlock()

	if pc != nil && pc.IsConnected() {
		pc.Disconnect(defaultDisconnectQuiesce)
	}
}

// setState records a state transition and logs it at debug level.
func (c *Client) setState(s State) {
	prev := State(c.state.Swap(int32(s)))
	if prev != s && c.logger != nil {
		c.logger.Debug("mqtt state transition", "from", prev.String(), "to", s.String())
	}
}

// CurrentState returns the connection manager's current state.
func (c *Client) CurrentState() State {
	return State(c.state.Load())
}

// IsConnected reports whether the client currently holds a broker connection.
func (c *Client) IsConnected() bool {
	return c.CurrentState() == StateConnected
}

// HealthCheck verifies the MQTT connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// sleepCtx waits for the given duration. It returns false if the context
// was cancelled before the duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
