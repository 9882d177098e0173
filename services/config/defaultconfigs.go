package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgWearable1 = `{
  "wearable": {
      "device_id": 1,
      "sample_ms": 50,
      "impact_threshold_mg": 2500,
      "stillness_threshold_mg": 150,
      "stillness_ms": 2000,
      "heartbeat_ms": 5000,
      "max_missed": 3,
      "battery_report_ms": 30000,
      "base_lat": 53.8008,
      "base_lon": -1.5491
  },
  "radio": {
      "group": 42,
      "power": 7
  }
}`

const cfgWearable2 = `{
  "wearable": {
      "device_id": 2,
      "sample_ms": 50,
      "impact_threshold_mg": 2500,
      "stillness_threshold_mg": 150,
      "stillness_ms": 2000,
      "heartbeat_ms": 5000,
      "max_missed": 3,
      "battery_report_ms": 30000,
      "base_lat": 53.8008,
      "base_lon": -1.5491
  },
  "radio": {
      "group": 42,
      "power": 7
  }
}`

const cfgHub = `{
  "hub": {
      "device_timeout_ms": 20000,
      "poll_ms": 1000
  },
  "radio": {
      "group": 42,
      "power": 7
  }
}`

var embeddedConfigs = map[string][]byte{
	"wearable-1": []byte(cfgWearable1),
	"wearable-2": []byte(cfgWearable2),
	"hub":        []byte(cfgHub),
}
