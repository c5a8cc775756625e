package identity

import (
	"context"

	"gorm.io/gorm"

	"github.com/payvault-io/payvault-backend/pkg/db/models"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByPrincipal retrieves the profile owned by the given principal.
func (r *Repository) FindByPrincipal(ctx context.Context, principal string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("principal = ?", principal).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByPrincipalTx is the transactional variant used by check-then-create.
func (r *Repository) FindByPrincipalTx(tx *gorm.DB, principal string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := tx.Where("principal = ?", principal).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateTx inserts a new profile inside the caller's transaction.
func (r *Repository) CreateTx(tx *gorm.DB, profile *models.UserProfile) error {
	return tx.Create(profile).Error
}

// UpdateTx persists owner-mutable fields inside the caller's transaction.
func (r *Repository) UpdateTx(tx *gorm.DB, profile *models.UserProfile) error {
	return tx.Model(&models.UserProfile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]any{
			"name":  profile.Name,
			"email": profile.Email,
		}).Error
}
