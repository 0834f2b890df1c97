// Package auth orchestrates registration, credential verification and token
// issuance. Two authentication schemes share the same identity model: bearer
// tokens issued at login, and per-request credentials re-verified on every
// call. Failed credential checks are deliberately undifferentiated — the
// caller can never tell an unknown username from a wrong password.
package auth

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/authd/errors"
	"github.com/kbukum/authd/logger"
	"github.com/kbukum/authd/observability"
	"github.com/kbukum/authd/password"
	"github.com/kbukum/authd/token"
	"github.com/kbukum/authd/user"
)

// Response messages. Kept generic on purpose: they are part of the public
// API contract and must not leak which step of a flow failed.
const (
	MsgRegistrationFailed  = "User Registration Failed"
	MsgRegistrationSuccess = "User Registration Successful"
	MsgLoginFailed         = "Login failed"
	MsgLoginSuccess        = "Success"
	MsgLoggedOut           = "Logged Out"
	MsgBadCredentials      = "Username or password is incorrect"
)

// Identity is the authenticated-identity marker produced by a successful
// credential check. It is scoped to a single request and never persisted.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterInput is the data needed to create an account. Request-shape
// validation happens before this reaches the service.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Metric outcome labels.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Service wires the user store, password hasher and token issuer together.
type Service struct {
	store   user.Store
	hasher  password.Hasher
	policy  password.Policy
	tokens  *token.Service
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewService creates the authentication service.
func NewService(store user.Store, hasher password.Hasher, policy password.Policy, tokens *token.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Service{
		store:  store,
		hasher: hasher,
		policy: policy,
		tokens: tokens,
		log:    log.WithComponent("auth"),
	}
}

// WithMetrics attaches metric instruments and returns the receiver.
// Without it the service records nothing.
func (s *Service) WithMetrics(m *observability.Metrics) *Service {
	s.metrics = m
	return s
}

// Register creates a user record with a hashed password. No token is issued;
// login is a separate step. Policy violations and uniqueness conflicts are
// surfaced as (code, description) pairs, verbatim.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if violations := s.policy.Check(in.Password); len(violations) > 0 {
		s.metrics.RecordRegistration(ctx, outcomeFailure)
		return apperrors.ValidationFailed(MsgRegistrationFailed, violations)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.metrics.RecordRegistration(ctx, outcomeFailure)
		return apperrors.Internal(err)
	}

	u := &user.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, u); err != nil {
		s.metrics.RecordRegistration(ctx, outcomeFailure)
		var dup *user.DuplicateError
		if errors.As(err, &dup) {
			return apperrors.DuplicateUser(MsgRegistrationFailed, dup.Fields)
		}
		s.log.Error("user create failed", logger.ErrorFields("register", err))
		return apperrors.UpstreamUnavailable(err)
	}

	s.metrics.RecordRegistration(ctx, outcomeSuccess)
	s.log.Info("user registered", logger.Fields(
		logger.FieldUsername, u.Username,
	))
	return nil
}

// Login verifies credentials and issues a signed bearer token.
// Exactly one of (token, error) is returned; both failure modes yield the
// identical generic error.
func (s *Service) Login(ctx context.Context, username, plaintext string) (string, error) {
	u, err := s.verify(ctx, username, plaintext, MsgLoginFailed)
	if err != nil {
		s.metrics.RecordLogin(ctx, outcomeFailure)
		return "", err
	}

	signed, err := s.tokens.Issue(u.Username, u.Email)
	if err != nil {
		s.metrics.RecordLogin(ctx, outcomeFailure)
		s.log.Error("token issue failed", logger.ErrorFields("login", err))
		return "", apperrors.Internal(err)
	}

	s.metrics.RecordLogin(ctx, outcomeSuccess)
	s.metrics.RecordTokenIssued(ctx)
	s.log.Info("login succeeded", logger.Fields(
		logger.FieldUsername, u.Username,
	))
	return signed, nil
}

// Authenticate is the per-request credential scheme: the same lookup and
// verify as Login, but it yields an identity for this request only — no
// token is issued or expected, and nothing is cached across requests.
func (s *Service) Authenticate(ctx context.Context, username, plaintext string) (*Identity, error) {
	u, err := s.verify(ctx, username, plaintext, MsgBadCredentials)
	if err != nil {
		return nil, err
	}
	return &Identity{Username: u.Username, Email: u.Email}, nil
}

// ValidateToken validates a bearer token and returns the identity it asserts.
// The rejection reason is logged but not exposed to the caller.
func (s *Service) ValidateToken(tokenString string) (*Identity, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		s.metrics.RecordTokenRejected(context.Background())
		s.log.Debug("token rejected", logger.ErrorFields("validate", err))
		return nil, apperrors.TokenInvalid(err)
	}
	return &Identity{Username: claims.Subject, Email: claims.Email}, nil
}

// verify runs the lookup+verify steps shared by both schemes. The generic
// message hides whether the username exists.
func (s *Service) verify(ctx context.Context, username, plaintext, failMsg string) (*user.User, error) {
	u, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.AuthenticationFailed(failMsg)
		}
		s.log.Error("user lookup failed", logger.ErrorFields("verify", err))
		return nil, apperrors.UpstreamUnavailable(err)
	}

	if err := s.hasher.Verify(plaintext, u.PasswordHash); err != nil {
		return nil, apperrors.AuthenticationFailed(failMsg)
	}
	return u, nil
}
