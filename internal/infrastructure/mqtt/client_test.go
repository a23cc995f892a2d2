package mqtt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/playtrack/playtrack-core/internal/infrastructure/config"
	"github.com/playtrack/playtrack-core/internal/infrastructure/logging"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "playtrack-test",
		},
		Topic: "game",
		QoS:   1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 5,
			MaxDelay:     60,
		},
	}
}

func TestNew(t *testing.T) {
	c := New(testConfig(), logging.Default())

	if c.CurrentState() != StateDisconnected {
		t.Errorf("CurrentState() = %v, want disconnected", c.CurrentState())
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true before Run")
	}
	if c.Messages() == nil {
		t.Error("Messages() returned nil channel")
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	c := New(testConfig(), logging.Default())

	err := c.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheckCancelledContext(t *testing.T) {
	c := New(testConfig(), logging.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.HealthCheck(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateDisconnected, "disconnected"},
		{StateConnecting, "connecting"},
		{StateConnected, "connected"},
		{State(99), "disconnected"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestClientID(t *testing.T) {
	t.Run("configured ID is used", func(t *testing.T) {
		cfg := testConfig()
		cfg.Broker.ClientID = "fixed-id"

		if got := clientID(cfg); got != "fixed-id" {
			t.Errorf("clientID() = %q, want %q", got, "fixed-id")
		}
	})

	t.Run("empty ID generates unique values", func(t *testing.T) {
		cfg := testConfig()
		cfg.Broker.ClientID = ""

		a := clientID(cfg)
		b := clientID(cfg)

		if !strings.HasPrefix(a, "playtrack-") {
			t.Errorf("clientID() = %q, want playtrack- prefix", a)
		}
		if a == b {
			t.Errorf("clientID() generated duplicate values: %q", a)
		}
	})
}

func TestBuildClientOptions(t *testing.T) {
	t.Run("plain tcp", func(t *testing.T) {
		opts := buildClientOptions(testConfig())

		if len(opts.Servers) != 1 {
			t.Fatalf("Servers count = %d, want 1", len(opts.Servers))
		}
		if got := opts.Servers[0].String(); got != "tcp://127.0.0.1:1883" {
			t.Errorf("broker URL = %q, want tcp://127.0.0.1:1883", got)
		}
		if opts.AutoReconnect {
			t.Error("AutoReconnect enabled; run loop owns reconnection")
		}
		if opts.ConnectRetry {
			t.Error("ConnectRetry enabled; run loop owns reconnection")
		}
		if !opts.Order {
			t.Error("Order = false, want ordered delivery")
		}
	})

	t.Run("tls broker", func(t *testing.T) {
		cfg := testConfig()
		cfg.Broker.TLS = true
		cfg.Broker.Port = 8883

		opts := buildClientOptions(cfg)

		if got := opts.Servers[0].Scheme; got != "ssl" {
			t.Errorf("scheme = %q, want ssl", got)
		}
		if opts.TLSConfig == nil {
			t.Error("TLSConfig = nil, want configured")
		}
	})

	t.Run("credentials", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.Username = "guest"
		cfg.Auth.Password = "test"

		opts := buildClientOptions(cfg)

		if opts.Username != "guest" {
			t.Errorf("Username = %q, want guest", opts.Username)
		}
		if opts.Password != "test" {
			t.Errorf("Password = %q, want test", opts.Password)
		}
	})
}

func TestRunAlreadyRunning(t *testing.T) {
	c := New(testConfig(), logging.Default())
	c.running.Store(true)

	err := c.Run(context.Background())
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestSleepCtx(t *testing.T) {
	t.Run("elapses", func(t *testing.T) {
		if !sleepCtx(context.Background(), time.Millisecond) {
			t.Error("sleepCtx() = false, want true")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if sleepCtx(ctx, time.Hour) {
			t.Error("sleepCtx() = true, want false on cancelled context")
		}
	})
}
