package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/payvault-io/payvault-backend/pkg/db/models"
)

// Repository exposes ledger persistence. Inserts only; the table has no
// update or delete path.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ledger repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx appends a record inside the caller's transaction.
func (r *Repository) CreateTx(tx *gorm.DB, record *models.PaymentRecord) error {
	return tx.Create(record).Error
}

// ListByUserID returns all records owned by userID, ascending by recorded_at.
func (r *Repository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at ASC").
		Find(&records).Error
	return records, err
}
