package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

// SessionService resolves an external identity to a stored user and role.
type SessionService struct {
	users  ports.UserRepository
	issuer ports.SessionIssuer
	ttl    time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

func NewSessionService(users ports.UserRepository, issuer ports.SessionIssuer, ttl time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionService{users: users, issuer: issuer, ttl: ttl, log: log, now: time.Now}
}

// Establish creates the user on first sight (role=user) or refreshes its
// last login, then re-reads the stored record so the role always comes from
// the store.
func (s *SessionService) Establish(ctx context.Context, id domain.IdentityAssertion) (*ports.SessionResult, error) {
	uid := strings.TrimSpace(id.UID)
	if uid == "" {
		return nil, invalid("uid is required")
	}

	now := s.now().UTC()
	created, err := s.users.Touch(ctx, &domain.User{
		UID:       uid,
		Name:      id.Name,
		Email:     id.Email,
		Photo:     id.Photo,
		Role:      domain.RoleUser,
		CreatedAt: now,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("establish session: %w", unavailable(err))
	}

	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Touch just upserted it; a miss here means the store is misbehaving.
			return nil, fmt.Errorf("establish session: %w: user vanished after upsert", domain.ErrBackendUnavailable)
		}
		return nil, fmt.Errorf("establish session: %w", unavailable(err))
	}

	principal := domain.Principal{
		UID:         user.UID,
		DisplayName: firstNonEmpty(user.Name, id.Name),
		Photo:       firstNonEmpty(user.Photo, id.Photo),
		Role:        user.Role,
	}
	if principal.Role == "" {
		principal.Role = domain.RoleUser
	}

	token, err := s.issuer.Issue(principal, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("establish session: issue token: %w", err)
	}

	s.log.Info().
		Str("uid", uid).
		Str("role", principal.Role).
		Bool("created", created).
		Msg("session established")

	return &ports.SessionResult{Principal: principal, Token: token, Created: created}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
