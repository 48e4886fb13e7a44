package log

import "time"

// Event represents a diagnostic event captured by a notification hub.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// HubID uniquely identifies the hub (UUID).
	HubID string `cbor:"2,keyasint"`

	// Channel is the hub's name, e.g. "state-changed" or "property-changed".
	Channel string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Subscription *SubscriptionEvent `cbor:"10,keyasint,omitempty"`
	Publish      *PublishEvent      `cbor:"11,keyasint,omitempty"`
	Delivery     *DeliveryEvent     `cbor:"12,keyasint,omitempty"`
	Lifecycle    *LifecycleEvent    `cbor:"13,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategorySubscription indicates a subscriber was added or removed.
	CategorySubscription Category = 0
	// CategoryPublish indicates an occurrence was published.
	CategoryPublish Category = 1
	// CategoryDelivery indicates a single subscriber was dispatched to.
	CategoryDelivery Category = 2
	// CategoryLifecycle indicates a hub lifecycle change.
	CategoryLifecycle Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySubscription:
		return "SUBSCRIPTION"
	case CategoryPublish:
		return "PUBLISH"
	case CategoryDelivery:
		return "DELIVERY"
	case CategoryLifecycle:
		return "LIFECYCLE"
	default:
		return "UNKNOWN"
	}
}

// SubscriptionEvent captures a subscriber joining or leaving a hub.
type SubscriptionEvent struct {
	// SubscriptionID is the hub-local subscription identity.
	SubscriptionID uint64 `cbor:"1,keyasint"`

	// Action is what happened to the subscription.
	Action SubscriptionAction `cbor:"2,keyasint"`

	// HasContext is set when the subscriber asked for marshaled delivery.
	HasContext bool `cbor:"3,keyasint,omitempty"`

	// Subscribers is the subscriber count after the change.
	Subscribers int `cbor:"4,keyasint"`
}

// SubscriptionAction is what happened to a subscription.
type SubscriptionAction uint8

const (
	// SubscriptionAdded indicates a new subscriber.
	SubscriptionAdded SubscriptionAction = 0
	// SubscriptionRemoved indicates a disposed handle.
	SubscriptionRemoved SubscriptionAction = 1
)

// String returns the action name.
func (a SubscriptionAction) String() string {
	switch a {
	case SubscriptionAdded:
		return "ADDED"
	case SubscriptionRemoved:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// PublishEvent captures one occurrence being published.
type PublishEvent struct {
	// Occurrence is a human-readable description of what changed.
	Occurrence string `cbor:"1,keyasint"`

	// Subscribers is the size of the snapshot the occurrence was published to.
	Subscribers int `cbor:"2,keyasint"`
}

// DeliveryEvent captures how one subscriber was served.
type DeliveryEvent struct {
	// SubscriptionID is the subscriber that was dispatched to.
	SubscriptionID uint64 `cbor:"1,keyasint"`

	// Mode is the dispatch decision.
	Mode DeliveryMode `cbor:"2,keyasint"`
}

// DeliveryMode is the dispatch decision for one subscriber.
type DeliveryMode uint8

const (
	// DeliverySkipped indicates the subscriber was no longer live.
	DeliverySkipped DeliveryMode = 0
	// DeliveryInline indicates a synchronous call on the publisher's goroutine.
	DeliveryInline DeliveryMode = 1
	// DeliveryMarshaled indicates the call was posted to an execution context.
	DeliveryMarshaled DeliveryMode = 2
)

// String returns the delivery mode name.
func (m DeliveryMode) String() string {
	switch m {
	case DeliverySkipped:
		return "SKIPPED"
	case DeliveryInline:
		return "INLINE"
	case DeliveryMarshaled:
		return "MARSHALED"
	default:
		return "UNKNOWN"
	}
}

// LifecycleEvent captures hub lifecycle changes.
type LifecycleEvent struct {
	// State is the new hub state.
	State LifecycleState `cbor:"1,keyasint"`

	// Released is how many live subscriptions were dropped.
	Released int `cbor:"2,keyasint,omitempty"`
}

// LifecycleState is the state of a hub.
type LifecycleState uint8

const (
	// LifecycleCreated indicates a new hub.
	LifecycleCreated LifecycleState = 0
	// LifecycleDisposed indicates all subscriptions were released.
	LifecycleDisposed LifecycleState = 1
)

// String returns the lifecycle state name.
func (s LifecycleState) String() string {
	switch s {
	case LifecycleCreated:
		return "CREATED"
	case LifecycleDisposed:
		return "DISPOSED"
	default:
		return "UNKNOWN"
	}
}
