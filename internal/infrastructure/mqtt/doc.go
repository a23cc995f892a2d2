// Package mqtt provides the event-bus connection manager for PlayTrack Core.
//
// This package manages:
//   - Connection to the MQTT broker with credentials and optional TLS
//   - Subscription to the game event topic
//   - Ordered delivery of raw payloads over a bounded channel
//   - Reconnection with exponential backoff (5s doubling to a 60s cap)
//
// # Architecture
//
// Arcade devices publish game_start/game_end events to a single topic.
// The Client consumes that stream and hands raw payloads to the session
// tracker:
//
//	Devices -> MQTT Broker -> mqtt.Client -> session.Tracker -> SQLite
//
// The reconnection loop is owned by this package rather than delegated
// to paho's auto-reconnect, so the retry policy is explicit and
// testable: the delay starts at the configured initial value, doubles
// after each consecutive failure, caps at the maximum, and resets on a
// successful connect. Retries continue until shutdown; authentication
// failures follow the same policy as network failures.
//
// # Usage
//
//	client := mqtt.New(cfg.MQTT, logger)
//	go client.Run(ctx)
//
//	for msg := range client.Messages() {
//	    tracker.HandleMessage(ctx, msg.Payload)
//	}
//
// The message channel closes when Run returns, which lets the consumer
// drain in-flight messages before the process exits.
package mqtt
