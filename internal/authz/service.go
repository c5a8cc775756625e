// Package authz decides who holds the admin capability. Admin status comes
// from the identity provider (role claim) or the deployment allowlist, never
// from anything a caller can self-assign.
package authz

import (
	"strings"

	"github.com/payvault-io/payvault-backend/pkg/auth"
	"github.com/payvault-io/payvault-backend/pkg/config"
	"github.com/payvault-io/payvault-backend/pkg/enums"
)

// Service answers admin capability checks.
type Service struct {
	adminEmails map[string]struct{}
}

// NewService builds the authz service from the configured allowlist.
func NewService(cfg config.AdminConfig) *Service {
	emails := make(map[string]struct{}, len(cfg.Emails))
	for _, email := range cfg.Emails {
		normalized := strings.ToLower(strings.TrimSpace(email))
		if normalized == "" {
			continue
		}
		emails[normalized] = struct{}{}
	}
	return &Service{adminEmails: emails}
}

// IsAdmin reports whether the authenticated caller holds the admin capability.
func (s *Service) IsAdmin(claims *auth.AccessClaims) bool {
	if claims == nil {
		return false
	}
	if claims.Role == enums.RoleAdmin {
		return true
	}
	_, ok := s.adminEmails[strings.ToLower(strings.TrimSpace(claims.Email))]
	return ok
}
