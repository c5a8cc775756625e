package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolationPgx(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "ux_payment_records_transaction_id"}

	if !IsUniqueViolation(err, "") {
		t.Fatal("expected unique violation without constraint filter")
	}
	if !IsUniqueViolation(err, "ux_payment_records_transaction_id") {
		t.Fatal("expected unique violation with matching constraint")
	}
	if IsUniqueViolation(err, "ux_user_profiles_principal") {
		t.Fatal("constraint mismatch should not match")
	}
}

func TestIsUniqueViolationPq(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "ux_user_profiles_principal"})

	if !IsUniqueViolation(err, "ux_user_profiles_principal") {
		t.Fatal("expected wrapped pq unique violation to match")
	}
}

func TestIsUniqueViolationMessageFallback(t *testing.T) {
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: payment_records.transaction_id"), "") {
		t.Fatal("expected sqlite message to match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error must not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
}
