package service

//go:generate mockgen -destination=../../mocks/mock_oauth_provider.go -package=mocks github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service OAuthProvider

import (
	"context"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/logging"
)

// OAuthProvider is the external identity provider used for sign-in.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*OAuthProfile, error)
}

// SignIn is the result of a completed sign-in.
type SignIn struct {
	Email     string
	Name      string
	Token     string
	ExpiresAt time.Time
	Created   bool
}

type AuthService struct {
	provider OAuthProvider
	ledger   *LedgerService
	tokens   TokenGenerator
	repo     domain.UserRepository
	log      logging.Logger
	admins   map[string]struct{}
}

func NewAuthService(provider OAuthProvider, ledger *LedgerService, tokens TokenGenerator,
	repo domain.UserRepository, adminEmails []string, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.Nop()
	}
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &AuthService{provider: provider, ledger: ledger, tokens: tokens, repo: repo, log: log, admins: admins}
}

func (s *AuthService) LoginURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// CompleteSignIn exchanges the provider code, creates the account with its
// signup bonus on first sign-in and issues a session token.
func (s *AuthService) CompleteSignIn(ctx context.Context, code string) (*SignIn, error) {
	if code == "" {
		return nil, apperr.Validation("auth.sign_in", "Missing authorization code.")
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" || !profile.EmailVerified {
		s.log.Warn(ctx, "sign-in rejected", "email", email, "verified", profile.EmailVerified)
		return nil, apperr.E("auth.sign_in", apperr.ErrUnauthorized, nil)
	}

	created, err := s.ledger.GrantSignupBonus(ctx, email, profile.Name)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Generate(email, profile.Name)
	if err != nil {
		return nil, apperr.E("auth.sign_in", apperr.ErrUnauthorized, err)
	}

	s.log.Info(ctx, "user signed in", "email", email, "created", created)
	return &SignIn{Email: email, Name: profile.Name, Token: token, ExpiresAt: expiresAt, Created: created}, nil
}

// Authenticate validates a session token.
func (s *AuthService) Authenticate(token string) (*SessionClaims, error) {
	if token == "" {
		return nil, apperr.E("auth.authenticate", apperr.ErrUnauthorized, nil)
	}
	claims, err := s.tokens.VerifySessionToken(token)
	if err != nil {
		return nil, apperr.E("auth.authenticate", apperr.ErrUnauthorized, err)
	}
	return claims, nil
}

// Session returns the signed-in user's profile and balance.
func (s *AuthService) Session(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.GetSession(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.E("auth.session", apperr.ErrUserNotFound, nil)
	}
	return user, nil
}

func (s *AuthService) IsAdmin(email string) bool {
	_, ok := s.admins[strings.ToLower(email)]
	return ok
}

func (s *AuthService) SessionExpiry() time.Duration {
	return s.tokens.GetSessionExpiry()
}
