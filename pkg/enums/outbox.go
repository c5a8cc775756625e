package enums

// OutboxEventType enumerates the domain events this service emits.
type OutboxEventType string

const (
	EventPaymentRecorded   OutboxEventType = "payment.recorded"
	EventProfileRegistered OutboxEventType = "profile.registered"
)

func (t OutboxEventType) IsValid() bool {
	switch t {
	case EventPaymentRecorded, EventProfileRegistered:
		return true
	}
	return false
}

// OutboxAggregateType names the entity an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregatePaymentRecord OutboxAggregateType = "payment_record"
	AggregateUserProfile   OutboxAggregateType = "user_profile"
)
