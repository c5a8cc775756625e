package stripeconfig

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/payvault-io/payvault-backend/pkg/db/models"
)

// Repository persists the singleton provider configuration row.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a configuration repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the singleton row. gorm.ErrRecordNotFound when never configured.
func (r *Repository) Get(ctx context.Context) (*models.StripeConfiguration, error) {
	var cfg models.StripeConfiguration
	if err := r.db.WithContext(ctx).First(&cfg, "id = ?", models.SingletonConfigurationID).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Exists reports whether a configuration has ever been stored.
func (r *Repository) Exists(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StripeConfiguration{}).
		Where("id = ?", models.SingletonConfigurationID).
		Count(&count).Error
	return count > 0, err
}

// ReplaceTx overwrites the singleton row wholesale inside the caller's
// transaction. The upsert on the fixed primary key makes concurrent writers
// serialize on the row; the last commit wins.
func (r *Repository) ReplaceTx(tx *gorm.DB, cfg *models.StripeConfiguration) error {
	cfg.ID = models.SingletonConfigurationID
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(cfg).Error
}
