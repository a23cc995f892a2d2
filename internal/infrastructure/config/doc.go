// Package config loads and validates PlayTrack Core configuration.
//
// Configuration is read from a YAML file, merged over hardcoded defaults,
// and finally overridden by PLAYTRACK_* environment variables. The
// environment layer exists so deployments can inject credentials
// (MQTT password, InfluxDB token) without writing them to disk.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Validation is strict: an invalid broker port or a max reconnect delay
// below the initial delay fails startup rather than producing a silently
// misbehaving event consumer.
package config
