package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/payvault-io/payvault-backend/pkg/db/models"
	"github.com/payvault-io/payvault-backend/pkg/enums"
)

type inserter interface {
	Insert(tx *gorm.DB, event *models.OutboxEvent) error
}

// Service builds envelopes and appends them through the caller's transaction.
type Service struct {
	repo inserter
	now  func() time.Time
}

func NewService(repo inserter) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	return &Service{repo: repo, now: time.Now}, nil
}

// Emit enqueues a domain event inside tx. The event is only visible to the
// publisher once the surrounding transaction commits.
func (s *Service) Emit(tx *gorm.DB, eventType enums.OutboxEventType, aggregateType enums.OutboxAggregateType, aggregateID uuid.UUID, actor ActorRef, data any) error {
	if !eventType.IsValid() {
		return fmt.Errorf("unknown outbox event type %q", eventType)
	}

	payload, err := json.Marshal(Envelope{
		EventType:  eventType,
		OccurredAt: s.now().UnixNano(),
		Actor:      actor,
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("marshaling outbox payload: %w", err)
	}

	return s.repo.Insert(tx, &models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       payload,
	})
}
