package mqtt

import "fmt"

// Topic prefixes for the BenchFlow MQTT hierarchy.
const (
	// TopicPrefix is the base for all BenchFlow topics.
	TopicPrefix = "benchflow"

	// TopicPrefixProtocol is the base for per-protocol topics.
	TopicPrefixProtocol = "benchflow/protocol"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "benchflow/system"
)

// Topics provides builders for BenchFlow MQTT topics. Using these
// helpers keeps topic naming consistent across publishers and
// subscribers.
//
//	topics := mqtt.Topics{}
//	topic := topics.ProtocolTimeline("chlorination")
//	// Returns: "benchflow/protocol/chlorination/timeline"
type Topics struct{}

// ProtocolTimeline returns the topic carrying a protocol's compiled
// execution timeline.
//
// Example: benchflow/protocol/chlorination/timeline
func (Topics) ProtocolTimeline(name string) string {
	return fmt.Sprintf("%s/%s/timeline", TopicPrefixProtocol, name)
}

// ProtocolAdvisories returns the topic carrying a protocol's compile
// advisories.
//
// Example: benchflow/protocol/chlorination/advisories
func (Topics) ProtocolAdvisories(name string) string {
	return fmt.Sprintf("%s/%s/advisories", TopicPrefixProtocol, name)
}

// AllTimelines returns the wildcard subscription matching every
// protocol's timeline topic.
func (Topics) AllTimelines() string {
	return TopicPrefixProtocol + "/+/timeline"
}

// SystemStatus returns the topic carrying the core's online/offline
// status.
//
// Example: benchflow/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
