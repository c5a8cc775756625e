package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the canonical identity entity. One row per authenticated
// principal; created once, mutated only by its owner, never deleted.
type UserProfile struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Principal     string    `gorm:"column:principal;type:text;not null;uniqueIndex:ux_user_profiles_principal"`
	Name          string    `gorm:"column:name;type:text;not null"`
	Email         string    `gorm:"column:email;type:text;not null"`
	AadhaarMasked string    `gorm:"column:aadhaar_masked;type:text;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
