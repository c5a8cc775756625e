package security

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
}

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := NewSecretBox(testKey())
	if err != nil {
		t.Fatalf("NewSecretBox: %v", err)
	}

	sealed, err := box.Seal("sk_test_abc123")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("sk_test_abc123")) {
		t.Fatal("plaintext leaked into ciphertext")
	}

	opened, err := box.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != "sk_test_abc123" {
		t.Fatalf("round trip mismatch: %q", opened)
	}
}

func TestSealProducesFreshNonce(t *testing.T) {
	box, err := NewSecretBox(testKey())
	if err != nil {
		t.Fatalf("NewSecretBox: %v", err)
	}
	a, err := box.Seal("same")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	b, err := box.Seal("same")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("sealing twice must not reuse a nonce")
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	box, err := NewSecretBox(testKey())
	if err != nil {
		t.Fatalf("NewSecretBox: %v", err)
	}
	sealed, err := box.Seal("secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := box.Open(sealed); err == nil {
		t.Fatal("expected tampered ciphertext to fail")
	}
}

func TestNewSecretBoxValidation(t *testing.T) {
	if _, err := NewSecretBox(""); err == nil {
		t.Fatal("expected empty key to fail")
	}
	if _, err := NewSecretBox("not base64!!"); err == nil {
		t.Fatal("expected invalid base64 to fail")
	}
	short := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := NewSecretBox(short); err == nil {
		t.Fatal("expected short key to fail")
	}
}
