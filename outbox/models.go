package outbox

import "time"

// Status of an outbox row.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusDead      Status = "dead"
)

// Topics emitted by the marketplace services.
const (
	TopicListingCreated   = "listing.created"
	TopicListingModerated = "listing.moderated"
	TopicListingRetracted = "listing.retracted"
	TopicBidPlaced        = "bid.placed"
	TopicOrderSettled     = "order.settled"
)

// Message represents a transactional outbox entry.
type Message struct {
	ID        string
	Topic     string
	Payload   []byte
	Status    Status
	Attempts  int
	CreatedAt time.Time
}
