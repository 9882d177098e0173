// Package types holds the payload structs exchanged over the bus
// between services. Keeping them in one leaf package lets every
// service import them without cycles.
package types

// ---- Wearable-side state (retained) ----

// FallAlert is published on wearable/fall when a fall is confirmed,
// and on hub/alert when the hub receives one over the radio.
type FallAlert struct {
	DeviceID int     `json:"device_id"`
	Accel    int     `json:"accel_mg"` // peak magnitude of the episode
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	TS       int64   `json:"ts_ms"`
}

// LinkState is the wearable's view of hub reachability (retained on
// wearable/link).
type LinkState struct {
	Reachable bool  `json:"reachable"`
	Missed    int   `json:"missed"`
	TS        int64 `json:"ts_ms"`
}

// BatteryState is retained on wearable/battery.
type BatteryState struct {
	Percent int   `json:"percent"`
	TS      int64 `json:"ts_ms"`
}

// ---- Hub-side events ----

// DeviceJoined fires once per device, on first contact.
type DeviceJoined struct {
	DeviceID int   `json:"device_id"`
	TS       int64 `json:"ts_ms"`
}

// DeviceStatus reports an online/offline transition.
type DeviceStatus struct {
	DeviceID int    `json:"device_id"`
	Status   string `json:"status"` // "online" | "offline"
	TS       int64  `json:"ts_ms"`
}

// AckRequest is published on hub/ack by the operator console or the
// display button. DeviceID 0 acknowledges the oldest pending alert.
type AckRequest struct {
	DeviceID int `json:"device_id,omitempty"`
}

// AlertAcked confirms an operator acknowledgement (hub/alert/acked).
type AlertAcked struct {
	DeviceID int   `json:"device_id"`
	TS       int64 `json:"ts_ms"`
}

// HubStats is the retained summary on hub/stats, consumed by the
// display.
type HubStats struct {
	Devices       int   `json:"devices"`
	PendingAlerts int   `json:"pending_alerts"`
	TS            int64 `json:"ts_ms"`
}
