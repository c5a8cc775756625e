package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/payvault-io/payvault-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestPaymentRecordsMigrationConstraints(t *testing.T) {
	content := readMigration(t, "*_create_payment_records.sql")

	checks := []string{
		"CREATE UNIQUE INDEX ux_payment_records_transaction_id ON payment_records (transaction_id)",
		"CREATE INDEX ix_payment_records_user_id ON payment_records (user_id)",
		"DROP TABLE IF EXISTS payment_records",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDownStatementsAreIdempotent(t *testing.T) {
	tables := []string{
		"user_profiles",
		"stripe_configurations",
		"payment_records",
		"outbox_events",
	}
	for _, table := range tables {
		content := readMigration(t, "*_create_"+table+".sql")
		if !strings.Contains(content, "DROP TABLE IF EXISTS "+table) {
			t.Errorf("%s: down migration must use DROP TABLE IF EXISTS", table)
		}
	}
}

func TestStripeConfigurationsMigrationIsSingleton(t *testing.T) {
	content := readMigration(t, "*_create_stripe_configurations.sql")

	if !strings.Contains(content, "CHECK (id = 1)") {
		t.Error("configuration table must be constrained to a single row")
	}
}

func TestOutboxEventsMigrationHasPendingIndex(t *testing.T) {
	content := readMigration(t, "*_create_outbox_events.sql")

	if !strings.Contains(content, "ix_outbox_events_unpublished") {
		t.Error("missing partial index on unpublished events")
	}
	if !strings.Contains(content, "WHERE published_at IS NULL") {
		t.Error("pending index must filter on published_at IS NULL")
	}
}
