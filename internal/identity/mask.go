package identity

import (
	"regexp"

	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
)

// aadhaarPattern is the fixed-length numeric shape of the national id.
var aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)

// ValidateNationalID checks the raw identifier shape. The raw value is only
// ever held in memory during registration.
func ValidateNationalID(nationalID string) error {
	if !aadhaarPattern.MatchString(nationalID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "national id must be exactly 12 digits")
	}
	return nil
}

// MaskAadhaar derives the stored form: first four and last four digits with
// the middle replaced, e.g. "123456789012" -> "1234****9012". The full
// identifier is never persisted or returned.
func MaskAadhaar(nationalID string) (string, error) {
	if err := ValidateNationalID(nationalID); err != nil {
		return "", err
	}
	return nationalID[:4] + "****" + nationalID[8:], nil
}
