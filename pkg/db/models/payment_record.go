package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRecord is one immutable entry in the append-only payment ledger.
// There is no update or delete path anywhere in the codebase.
type PaymentRecord struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID string    `gorm:"column:transaction_id;type:text;not null;uniqueIndex:ux_payment_records_transaction_id"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:ix_payment_records_user_id"`
	AmountCents   int64     `gorm:"column:amount_cents;not null"`
	Currency      string    `gorm:"column:currency;type:text;not null"`
	Status        string    `gorm:"column:status;type:text;not null"`
	PaymentMethod string    `gorm:"column:payment_method;type:text;not null"`
	Description   string    `gorm:"column:description;type:text"`
	RecordedAt    time.Time `gorm:"column:recorded_at;not null"`
}
