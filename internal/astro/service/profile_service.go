package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/logging"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/ratelimit"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/zodiac"
)

const (
	DefaultProfileRateLimit = 5
	DefaultProfileWindow    = time.Minute
)

// BirthProfile is a user's birth date with the derived sign.
type BirthProfile struct {
	DOB             *time.Time
	Collected       bool
	Sign            zodiac.Sign
	Characteristics *zodiac.Characteristics
}

type DOBUpdate struct {
	Changed bool
	Profile BirthProfile
}

type ProfileService struct {
	repo    domain.UserRepository
	limiter *ratelimit.Limiter
	log     logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewProfileService(repo domain.UserRepository, limiter *ratelimit.Limiter, log logging.Logger, m *metrics.Metrics) *ProfileService {
	if log == nil {
		log = logging.Nop()
	}
	return &ProfileService{repo: repo, limiter: limiter, log: log, metrics: m, now: time.Now}
}

// GetDOB returns the birth profile of the session user. requested, when set,
// must name the same user.
func (s *ProfileService) GetDOB(ctx context.Context, sessionEmail, requested string) (*BirthProfile, error) {
	if requested != "" && !strings.EqualFold(requested, sessionEmail) {
		return nil, apperr.E("profile.get_dob", apperr.ErrUnauthorized, nil)
	}

	status, err := s.repo.GetDOBStatus(ctx, sessionEmail)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, apperr.E("profile.get_dob", apperr.ErrUserNotFound, nil)
	}
	return profileOf(status), nil
}

// AllowUpdate counts one DOB update attempt for the session user.
func (s *ProfileService) AllowUpdate(sessionEmail, ip string) error {
	if !s.limiter.Allow("profile:"+sessionEmail, DefaultProfileRateLimit, DefaultProfileWindow, ip) {
		s.metrics.RateLimited("profile")
		return &apperr.Error{
			Kind:    apperr.ErrRateLimited,
			Op:      "profile.update_dob",
			Message: "Too many update attempts. Please try again later.",
		}
	}
	return nil
}

// UpdateDOB validates and stores the session user's birth date.
func (s *ProfileService) UpdateDOB(ctx context.Context, sessionEmail, ip, email, dob string) (*DOBUpdate, error) {
	if err := s.AllowUpdate(sessionEmail, ip); err != nil {
		return nil, err
	}

	if email == "" || dob == "" {
		return nil, apperr.Validation("profile.update_dob", "Email and date of birth are required.")
	}
	if !strings.EqualFold(email, sessionEmail) {
		return nil, apperr.E("profile.update_dob", apperr.ErrUnauthorized, nil)
	}

	parsed, err := zodiac.ParseDOB(dob, s.now())
	if err != nil {
		return nil, apperr.Validation("profile.update_dob", dobMessage(err))
	}

	current, err := s.repo.GetCurrentDOB(ctx, sessionEmail)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.E("profile.update_dob", apperr.ErrUserNotFound, nil)
	}
	if current.Collected && current.DOB != nil &&
		current.DOB.Format(zodiac.DateLayout) == parsed.Format(zodiac.DateLayout) {
		return &DOBUpdate{Changed: false, Profile: *profileOf(current)}, nil
	}

	if err := s.repo.UpdateDOB(ctx, sessionEmail, parsed); err != nil {
		return nil, err
	}
	s.repo.InvalidateCache(domain.DOBKeys(sessionEmail)...)

	s.log.Info(ctx, "date of birth updated", "email", sessionEmail)
	return &DOBUpdate{
		Changed: true,
		Profile: *profileOf(&domain.DOBStatus{DOB: &parsed, Collected: true}),
	}, nil
}

func profileOf(status *domain.DOBStatus) *BirthProfile {
	p := &BirthProfile{DOB: status.DOB, Collected: status.Collected}
	if status.DOB != nil {
		p.Sign = zodiac.SignFor(*status.DOB)
		if c, ok := zodiac.CharacteristicsOf(p.Sign); ok {
			p.Characteristics = &c
		}
	}
	return p
}

func dobMessage(err error) string {
	switch {
	case errors.Is(err, zodiac.ErrFutureDate):
		return "Date of birth cannot be in the future."
	case errors.Is(err, zodiac.ErrAgeOutOfRange):
		return "You must be between 13 and 100 years old."
	default:
		return "Invalid date format. Please use YYYY-MM-DD."
	}
}
