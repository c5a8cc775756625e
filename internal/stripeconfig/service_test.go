package stripeconfig

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/payvault-io/payvault-backend/pkg/auth"
	"github.com/payvault-io/payvault-backend/pkg/db/models"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
)

type fakeRepo struct {
	stored *models.StripeConfiguration
}

func (f *fakeRepo) Get(ctx context.Context) (*models.StripeConfiguration, error) {
	if f.stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.stored
	return &copied, nil
}

func (f *fakeRepo) Exists(ctx context.Context) (bool, error) {
	return f.stored != nil, nil
}

func (f *fakeRepo) ReplaceTx(tx *gorm.DB, cfg *models.StripeConfiguration) error {
	cfg.ID = models.SingletonConfigurationID
	copied := *cfg
	f.stored = &copied
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeAuthz struct{ admin bool }

func (f fakeAuthz) IsAdmin(claims *auth.AccessClaims) bool { return f.admin }

// fakeBox reverses the string so tests can see that what is stored is not
// the plaintext while keeping Open trivially verifiable.
type fakeBox struct{}

func (fakeBox) Seal(plaintext string) ([]byte, error) {
	runes := []byte(plaintext)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return runes, nil
}

func (fakeBox) Open(sealed []byte) (string, error) {
	plain, _ := fakeBox{}.Seal(string(sealed))
	return string(plain), nil
}

func newTestService(t *testing.T, repo *fakeRepo, admin bool) Service {
	t.Helper()
	svc, err := NewService(repo, fakeTxRunner{}, fakeAuthz{admin: admin}, fakeBox{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSetRequiresAdmin(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, false)

	err := svc.Set(context.Background(), &auth.AccessClaims{}, uuid.New(), SetConfigurationInput{
		SecretKey:        "sk_test_abc",
		AllowedCountries: []string{"US"},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestSetValidatesCountries(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, true)
	ctx := context.Background()
	admin := &auth.AccessClaims{}

	cases := [][]string{
		{},
		{"USA"},
		{"u"},
		{"U1"},
	}
	for _, countries := range cases {
		err := svc.Set(ctx, admin, uuid.New(), SetConfigurationInput{
			SecretKey:        "sk_test_abc",
			AllowedCountries: countries,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("countries %v: expected VALIDATION_ERROR, got %v", countries, err)
		}
	}
}

func TestSetRejectsNonSecretKey(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, true)

	err := svc.Set(context.Background(), &auth.AccessClaims{}, uuid.New(), SetConfigurationInput{
		SecretKey:        "pk_test_publishable",
		AllowedCountries: []string{"US"},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSetStoresSealedKeyAndNormalizedCountries(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, true)

	err := svc.Set(context.Background(), &auth.AccessClaims{}, uuid.New(), SetConfigurationInput{
		SecretKey:        "sk_test_abc",
		AllowedCountries: []string{"us", "CA", "us"},
	})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if repo.stored == nil {
		t.Fatal("expected configuration stored")
	}
	if string(repo.stored.SecretKeyCiphertext) == "sk_test_abc" {
		t.Fatal("secret key stored in plaintext")
	}
	if len(repo.stored.AllowedCountries) != 2 ||
		repo.stored.AllowedCountries[0] != "CA" ||
		repo.stored.AllowedCountries[1] != "US" {
		t.Fatalf("countries not normalized: %v", repo.stored.AllowedCountries)
	}
}

func TestSetOverwritesWholesale(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, true)
	ctx := context.Background()
	admin := &auth.AccessClaims{}

	if err := svc.Set(ctx, admin, uuid.New(), SetConfigurationInput{
		SecretKey: "sk_test_old", AllowedCountries: []string{"US", "CA"},
	}); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	if err := svc.Set(ctx, admin, uuid.New(), SetConfigurationInput{
		SecretKey: "sk_test_new", AllowedCountries: []string{"GB"},
	}); err != nil {
		t.Fatalf("second Set: %v", err)
	}

	runtime, err := svc.Configuration(ctx)
	if err != nil {
		t.Fatalf("Configuration: %v", err)
	}
	if runtime.SecretKey != "sk_test_new" {
		t.Fatalf("old key survived: %q", runtime.SecretKey)
	}
	if len(runtime.AllowedCountries) != 1 || runtime.AllowedCountries[0] != "GB" {
		t.Fatalf("old countries survived: %v", runtime.AllowedCountries)
	}
}

func TestConfigurationWhenUnset(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, true)

	_, err := svc.Configuration(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConfiguration {
		t.Fatalf("expected CONFIGURATION_REQUIRED, got %v", err)
	}

	configured, err := svc.IsConfigured(context.Background())
	if err != nil || configured {
		t.Fatalf("expected unconfigured status, got %v %v", configured, err)
	}
}
