package identity

import (
	"github.com/payvault-io/payvault-backend/pkg/db/models"
)

// UserProfileDTO is the wire form of a profile. Timestamps are integer
// nanoseconds since epoch.
type UserProfileDTO struct {
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	AadhaarMasked string `json:"aadhaarMasked"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
}

// RegisterInput carries the registration payload. NationalID is transient;
// only its masked derivation is stored.
type RegisterInput struct {
	NationalID string `json:"nationalId" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
}

// SaveProfileInput carries an owner-initiated profile update.
type SaveProfileInput struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

func toDTO(profile *models.UserProfile) *UserProfileDTO {
	if profile == nil {
		return nil
	}
	return &UserProfileDTO{
		UserID:        profile.ID.String(),
		Name:          profile.Name,
		Email:         profile.Email,
		AadhaarMasked: profile.AadhaarMasked,
		CreatedAt:     profile.CreatedAt.UnixNano(),
		UpdatedAt:     profile.UpdatedAt.UnixNano(),
	}
}
