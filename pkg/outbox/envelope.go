// Package outbox implements the transactional outbox. Domain services write
// events in the same transaction as the state change; a separate publisher
// binary drains the table into Pub/Sub.
package outbox

import (
	"github.com/payvault-io/payvault-backend/pkg/enums"
)

// ActorRef identifies who caused the event. Either field may be empty for
// system-initiated work.
type ActorRef struct {
	UserID    string `json:"userId,omitempty"`
	Principal string `json:"principal,omitempty"`
}

// Envelope is the published message body. Timestamps are integer unix
// nanoseconds, amounts inside Data are integer minor units.
type Envelope struct {
	EventType  enums.OutboxEventType `json:"eventType"`
	OccurredAt int64                 `json:"occurredAt"`
	Actor      ActorRef              `json:"actor"`
	Data       any                   `json:"data"`
}
