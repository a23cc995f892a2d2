package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeTestConfig writes YAML content to a temp file and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MQTT.Reconnect.InitialDelay != 5 {
		t.Errorf("Reconnect.InitialDelay = %d, want 5", cfg.MQTT.Reconnect.InitialDelay)
	}
	if cfg.MQTT.Reconnect.MaxDelay != 60 {
		t.Errorf("Reconnect.MaxDelay = %d, want 60", cfg.MQTT.Reconnect.MaxDelay)
	}
	if cfg.MQTT.Topic != "game" {
		t.Errorf("Topic = %q, want %q", cfg.MQTT.Topic, "game")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t, `
database:
  path: /tmp/test.db
mqtt:
  broker:
    host: broker.example.com
    port: 8883
    tls: true
  auth:
    username: tracker
    password: secret
  topic: arcade/events
  qos: 1
api:
  port: 9090
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "broker.example.com" {
		t.Errorf("Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.example.com")
	}
	if cfg.MQTT.Broker.Port != 8883 {
		t.Errorf("Broker.Port = %d, want 8883", cfg.MQTT.Broker.Port)
	}
	if !cfg.MQTT.Broker.TLS {
		t.Error("Broker.TLS = false, want true")
	}
	if cfg.MQTT.Topic != "arcade/events" {
		t.Errorf("Topic = %q, want %q", cfg.MQTT.Topic, "arcade/events")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}

	// Unspecified sections keep defaults.
	if cfg.MQTT.Reconnect.InitialDelay != 5 {
		t.Errorf("Reconnect.InitialDelay = %d, want default 5", cfg.MQTT.Reconnect.InitialDelay)
	}
	if cfg.API.Timeouts.Read != 30 {
		t.Errorf("Timeouts.Read = %d, want default 30", cfg.API.Timeouts.Read)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTestConfig(t, "mqtt: [not valid")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeTestConfig(t, `
mqtt:
  broker:
    host: from-file
`)

	t.Setenv("PLAYTRACK_MQTT_HOST", "from-env")
	t.Setenv("PLAYTRACK_MQTT_PORT", "2883")
	t.Setenv("PLAYTRACK_MQTT_PASSWORD", "env-secret")
	t.Setenv("PLAYTRACK_DATABASE_PATH", "/var/lib/playtrack/data.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "from-env" {
		t.Errorf("Broker.Host = %q, want env override %q", cfg.MQTT.Broker.Host, "from-env")
	}
	if cfg.MQTT.Broker.Port != 2883 {
		t.Errorf("Broker.Port = %d, want env override 2883", cfg.MQTT.Broker.Port)
	}
	if cfg.MQTT.Auth.Password != "env-secret" {
		t.Errorf("Auth.Password = %q, want env override", cfg.MQTT.Auth.Password)
	}
	if cfg.Database.Path != "/var/lib/playtrack/data.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "empty broker host",
			mutate:  func(c *Config) { c.MQTT.Broker.Host = "" },
			wantErr: "mqtt.broker.host",
		},
		{
			name:    "broker port out of range",
			mutate:  func(c *Config) { c.MQTT.Broker.Port = 70000 },
			wantErr: "mqtt.broker.port",
		},
		{
			name:    "empty topic",
			mutate:  func(c *Config) { c.MQTT.Topic = "" },
			wantErr: "mqtt.topic",
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "zero initial delay",
			mutate:  func(c *Config) { c.MQTT.Reconnect.InitialDelay = 0 },
			wantErr: "initial_delay",
		},
		{
			name: "max delay below initial",
			mutate: func(c *Config) {
				c.MQTT.Reconnect.InitialDelay = 10
				c.MQTT.Reconnect.MaxDelay = 5
			},
			wantErr: "max_delay",
		},
		{
			name: "influxdb enabled without url",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Bucket = "usage"
			},
			wantErr: "influxdb.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAPITimeoutHelpers(t *testing.T) {
	cfg := APIConfig{
		Timeouts: APITimeoutConfig{Read: 15, Write: 20, Idle: 120},
	}

	if got := cfg.GetReadTimeout(); got != 15*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 15s", got)
	}
	if got := cfg.GetWriteTimeout(); got != 20*time.Second {
		t.Errorf("GetWriteTimeout() = %v, want 20s", got)
	}
	if got := cfg.GetIdleTimeout(); got != 120*time.Second {
		t.Errorf("GetIdleTimeout() = %v, want 120s", got)
	}
}
