package auth

import (
	"context"
	stderrors "errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	apperrors "github.com/kbukum/authd/errors"
	"github.com/kbukum/authd/observability"
	"github.com/kbukum/authd/password"
	"github.com/kbukum/authd/token"
	"github.com/kbukum/authd/user"
	"github.com/kbukum/authd/user/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()

	tokens, err := token.NewService(&token.Config{
		Secret:        "test-secret",
		Issuer:        "authd.test",
		Audience:      "authd.clients",
		ExpirySeconds: 3600,
	})
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	store := memory.New()
	policy := password.Policy{MinLength: 6}
	hasher := password.NewBcryptHasher(password.WithCost(4))
	return NewService(store, hasher, policy, tokens, nil), store
}

func register(t *testing.T, svc *Service) {
	t.Helper()
	err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Secr3t!",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestRegisterLoginValidate_Scenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc)

	signed, err := svc.Login(ctx, "alice", "Secr3t!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if signed == "" {
		t.Fatal("expected a non-empty token")
	}

	identity, err := svc.ValidateToken(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if identity.Username != "alice" {
		t.Errorf("expected subject alice, got %q", identity.Username)
	}
	if identity.Email != "a@x.com" {
		t.Errorf("expected email claim, got %q", identity.Email)
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); err == nil {
		t.Error("expected wrong password to fail")
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc)

	_, unknownErr := svc.Login(ctx, "nobody", "Secr3t!")
	_, wrongErr := svc.Login(ctx, "alice", "not-the-password")

	unknownApp, ok := apperrors.AsAppError(unknownErr)
	if !ok {
		t.Fatalf("expected AppError, got %v", unknownErr)
	}
	wrongApp, ok := apperrors.AsAppError(wrongErr)
	if !ok {
		t.Fatalf("expected AppError, got %v", wrongErr)
	}

	if unknownApp.Code != wrongApp.Code || unknownApp.Message != wrongApp.Message ||
		unknownApp.HTTPStatus != wrongApp.HTTPStatus {
		t.Errorf("unknown-user and wrong-password responses must be identical: %v vs %v",
			unknownApp, wrongApp)
	}
	if unknownApp.Message != MsgLoginFailed {
		t.Errorf("expected generic message %q, got %q", MsgLoginFailed, unknownApp.Message)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	register(t, svc)

	err := svc.Register(ctx, RegisterInput{
		Username: "alice", Email: "other@x.com", Password: "Secr3t!",
	})
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrCodeDuplicateUser {
		t.Errorf("expected DUPLICATE_USER, got %s", appErr.Code)
	}
	if len(appErr.Fields) != 1 || appErr.Fields[0].Code != user.CodeDuplicateUserName {
		t.Errorf("expected DuplicateUserName field error, got %v", appErr.Fields)
	}
	if store.Count() != 1 {
		t.Errorf("expected exactly one record, got %d", store.Count())
	}
}

func TestRegister_PolicyViolation(t *testing.T) {
	svc, store := newTestService(t)

	err := svc.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "b@x.com", Password: "tiny",
	})
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrCodeValidationFailed {
		t.Errorf("expected VALIDATION_FAILED, got %s", appErr.Code)
	}
	if len(appErr.Fields) == 0 {
		t.Error("expected policy violations surfaced as field errors")
	}
	if store.Count() != 0 {
		t.Error("no record should be created on a rejected password")
	}
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	register(t, svc)

	u, err := store.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.PasswordHash == "Secr3t!" || u.PasswordHash == "" {
		t.Error("stored credential must be a hash, never the plaintext")
	}
}

func TestAuthenticate_PerRequestScheme(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc)

	identity, err := svc.Authenticate(ctx, "alice", "Secr3t!")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if identity.Username != "alice" || identity.Email != "a@x.com" {
		t.Errorf("unexpected identity: %+v", identity)
	}

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Message != MsgBadCredentials {
		t.Errorf("expected %q, got %q", MsgBadCredentials, appErr.Message)
	}
}

func TestValidateToken_Invalid(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ValidateToken("not-a-token")
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrCodeTokenInvalid {
		t.Errorf("expected TOKEN_INVALID, got %s", appErr.Code)
	}
}

// failingStore simulates a store outage.
type failingStore struct{}

func (failingStore) Create(ctx context.Context, u *user.User) error {
	return stderrors.New("connection refused")
}

func (failingStore) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return nil, stderrors.New("connection refused")
}

func TestStoreOutage_SurfacedAsUpstreamUnavailable(t *testing.T) {
	tokens, err := token.NewService(&token.Config{
		Secret: "s", Issuer: "i", Audience: "a",
	})
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	svc := NewService(failingStore{}, password.NewBcryptHasher(password.WithCost(4)),
		password.Policy{MinLength: 1}, tokens, nil)

	_, loginErr := svc.Login(context.Background(), "alice", "pw")
	appErr, ok := apperrors.AsAppError(loginErr)
	if !ok {
		t.Fatalf("expected AppError, got %v", loginErr)
	}
	if appErr.Code != apperrors.ErrCodeUpstreamUnavailable {
		t.Errorf("expected UPSTREAM_UNAVAILABLE, got %s", appErr.Code)
	}

	regErr := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "pw",
	})
	appErr, ok = apperrors.AsAppError(regErr)
	if !ok {
		t.Fatalf("expected AppError, got %v", regErr)
	}
	if appErr.Code != apperrors.ErrCodeUpstreamUnavailable {
		t.Errorf("expected UPSTREAM_UNAVAILABLE, got %s", appErr.Code)
	}
}

func TestService_RecordsAuthMetrics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)

	metrics, err := observability.NewMetrics(provider.Meter("authd.test"))
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	svc.WithMetrics(metrics)

	register(t, svc)
	if _, err := svc.Login(ctx, "alice", "Secr3t!"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "wrong"); err == nil {
		t.Fatal("expected wrong password to fail")
	}
	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected bad token to fail")
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				key := m.Name
				if v, ok := dp.Attributes.Value("outcome"); ok {
					key += "/" + v.AsString()
				}
				counts[key] += dp.Value
			}
		}
	}

	expected := map[string]int64{
		"auth.registration.total/success": 1,
		"auth.login.total/success":        1,
		"auth.login.total/failure":        1,
		"auth.token.issued":               1,
		"auth.token.rejected":             1,
	}
	for key, want := range expected {
		if counts[key] != want {
			t.Errorf("%s: expected %d, got %d (all: %v)", key, want, counts[key], counts)
		}
	}
}
