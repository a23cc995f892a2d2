package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordSessionClosed writes a completed session as a time-series point.
//
// The point is stamped with the session's end time so late-arriving
// closes land at the correct position in the series. The write is
// non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Device identifier (e.g., "cab-01")
//   - deviceName: Human-readable device name at close time
//   - durationSeconds: Completed session length
//   - endedAt: When the session closed
func (c *Client) RecordSessionClosed(deviceID, deviceName string, durationSeconds int64, endedAt time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"game_sessions",
		map[string]string{
			"device_id":   deviceID,
			"device_name": deviceName,
		},
		map[string]interface{}{
			"duration_seconds": durationSeconds,
		},
		endedAt,
	)

	c.writeAPI.WritePoint(point)
}
