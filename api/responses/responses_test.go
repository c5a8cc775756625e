package responses

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/types"
)

func decodeError(t *testing.T, body []byte) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	return envelope
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != 200 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if envelope.Data == nil {
		t.Fatal("expected data field")
	}
}

func TestWriteSuccessNullData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, nil)

	if rec.Body.String() != "{\"data\":null}\n" {
		t.Fatalf("expected explicit null data, got %q", rec.Body.String())
	}
}

func TestWriteErrorDomainMessagePassthrough(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeConflict, "transaction id already recorded")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 409 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body.Bytes())
	if envelope.Error.Code != "CONFLICT" {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "transaction id already recorded" {
		t.Fatalf("domain message lost: %q", envelope.Error.Message)
	}
}

func TestWriteErrorProviderMessageSanitized(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeProvider, "Invalid API Key provided: sk_test_***")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 502 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body.Bytes())
	if envelope.Error.Message != "payment provider request failed" {
		t.Fatalf("provider diagnostic leaked: %q", envelope.Error.Message)
	}
}

func TestWriteErrorConfigurationStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeConfiguration, "payment provider has not been configured")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 412 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body.Bytes())
	if envelope.Error.Code != "CONFIGURATION_REQUIRED" {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}

func TestWriteErrorUntypedBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, context.DeadlineExceeded)

	if rec.Code != 500 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body.Bytes())
	if envelope.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", envelope.Error.Message)
	}
}
