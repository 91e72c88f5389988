// Package mqtt provides the MQTT client for publishing compiled
// protocol output to downstream consumers.
//
// BenchFlow itself never drives hardware over MQTT; the broker is the
// boundary where compiled timelines and advisories leave the core.
// Executors subscribe to timeline topics, dashboards to advisory and
// status topics.
//
// The client wraps paho.mqtt.golang with connection management,
// automatic reconnection with exponential backoff, re-subscription on
// reconnect, and Last Will and Testament for offline detection.
//
// Topic hierarchy (see Topics for builders):
//
//	benchflow/protocol/{name}/timeline    compiled execution timelines
//	benchflow/protocol/{name}/advisories  compile advisories
//	benchflow/system/status               core online/offline status
//
// All methods are safe for concurrent use.
package mqtt
