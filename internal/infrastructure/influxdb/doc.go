// Package influxdb provides InfluxDB connectivity for PlayTrack.
//
// It wraps the official influxdb-client-go v2 library with PlayTrack-specific
// patterns for connection management, usage export, and health monitoring.
//
// # Purpose
//
// This package exports completed game sessions as time-series data for
// long-term usage analysis. SQLite remains the authoritative store; the
// InfluxDB export is optional and best-effort.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "playtrack",
//	    Bucket: "usage",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.RecordSessionClosed("cab-01", "Pinball", 150, time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via a
// callback. Connection and health check errors are returned directly.
package influxdb
