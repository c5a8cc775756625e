package identity

import "testing"

func TestMaskAadhaar(t *testing.T) {
	masked, err := MaskAadhaar("123456789012")
	if err != nil {
		t.Fatalf("MaskAadhaar: %v", err)
	}
	if masked != "1234****9012" {
		t.Fatalf("unexpected mask %q", masked)
	}
}

func TestMaskAadhaarNeverKeepsMiddleDigits(t *testing.T) {
	masked, err := MaskAadhaar("999911119999")
	if err != nil {
		t.Fatalf("MaskAadhaar: %v", err)
	}
	if masked != "9999****9999" {
		t.Fatalf("unexpected mask %q", masked)
	}
	if len(masked) != 12 {
		t.Fatalf("mask length changed: %d", len(masked))
	}
}

func TestValidateNationalID(t *testing.T) {
	invalid := []string{
		"",
		"12345678901",    // 11 digits
		"1234567890123",  // 13 digits
		"12345678901a",   // non-numeric
		"1234 5678 9012", // spaces
	}
	for _, id := range invalid {
		if err := ValidateNationalID(id); err == nil {
			t.Errorf("expected %q to be rejected", id)
		}
	}
	if err := ValidateNationalID("000000000000"); err != nil {
		t.Fatalf("expected all-zero id to pass shape check: %v", err)
	}
}
