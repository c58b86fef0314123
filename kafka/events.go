package kafka

// Kafka topics
const (
	TopicOrderPlaced        = "order-placed"
	TopicOrderStatusChanged = "order-status-changed"
)

// Topics lists every topic the storefront publishes to
var Topics = []string{TopicOrderPlaced, TopicOrderStatusChanged}

// Record header keys
const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)
