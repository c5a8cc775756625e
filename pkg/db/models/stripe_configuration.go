package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SingletonConfigurationID pins the configuration table to a single row.
const SingletonConfigurationID = 1

// StripeConfiguration is the at-most-one-instance store of payment provider
// credentials and policy. Admin writes replace the row wholesale.
type StripeConfiguration struct {
	ID                  int            `gorm:"column:id;primaryKey"`
	SecretKeyCiphertext []byte         `gorm:"column:secret_key_ciphertext;type:bytea;not null"`
	AllowedCountries    pq.StringArray `gorm:"column:allowed_countries;type:text[];not null"`
	ConfiguredBy        uuid.UUID      `gorm:"column:configured_by;type:uuid;not null"`
	ConfiguredAt        time.Time      `gorm:"column:configured_at;not null"`
}
