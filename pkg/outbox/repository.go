package outbox

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/payvault-io/payvault-backend/pkg/db/models"
)

// Repository persists outbox rows. All methods take the caller's transaction
// handle so writes share the business transaction.
type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

// Insert appends a pending event.
func (r *Repository) Insert(tx *gorm.DB, event *models.OutboxEvent) error {
	return tx.Create(event).Error
}

// FetchUnpublished claims up to limit pending events oldest-first. Rows are
// locked with SKIP LOCKED so concurrent publisher replicas do not collide.
func (r *Repository) FetchUnpublished(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Where("attempt_count < ?", maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// MarkPublished stamps the given events as delivered.
func (r *Repository) MarkPublished(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return tx.Model(&models.OutboxEvent{}).
		Where("id IN ?", ids).
		Update("published_at", now).Error
}

// MarkFailed records a delivery failure and bumps the attempt counter.
func (r *Repository) MarkFailed(tx *gorm.DB, id uuid.UUID, cause string) error {
	return tx.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempt_count": gorm.Expr("attempt_count + 1"),
			"last_error":    cause,
		}).Error
}

// CountPending returns the number of undelivered events still within the
// attempt budget. Used for the publisher gauge.
func (r *Repository) CountPending(tx *gorm.DB, maxAttempts int) (int64, error) {
	var count int64
	err := tx.Model(&models.OutboxEvent{}).
		Where("published_at IS NULL").
		Where("attempt_count < ?", maxAttempts).
		Count(&count).Error
	return count, err
}
