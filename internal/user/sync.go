package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gustavoisensee/MyFinances/internal/clerk"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
)

// ErrIdentityConflict means the provider email already belongs to a user
// linked to a different external id.
var ErrIdentityConflict = fmt.Errorf("%w: email is linked to another external identity", financeErrors.ErrConflict)

// ProfileFetcher loads a user profile from the identity provider.
type ProfileFetcher interface {
	GetUser(ctx context.Context, externalID string) (*clerk.User, error)
}

// Profile is what the provider tells us about a person.
type Profile struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
}

func ProfileFromClerk(u *clerk.User) Profile {
	return Profile{
		ExternalID: u.ID,
		Email:      u.PrimaryEmail(),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
	}
}

// SyncService keeps local users in step with the identity provider. Every
// operation is idempotent per external id.
type SyncService struct {
	repo     Repository
	profiles ProfileFetcher
	adminID  int64
	logger   *applog.Logger
}

func NewSyncService(repo Repository, profiles ProfileFetcher, adminID int64, logger *applog.Logger) *SyncService {
	return &SyncService{
		repo:     repo,
		profiles: profiles,
		adminID:  adminID,
		logger:   logger.WithComponent(applog.ComponentUserSync),
	}
}

// SyncCreated links or creates the local user for p.
func (s *SyncService) SyncCreated(ctx context.Context, p Profile) (*User, error) {
	if p.ExternalID == "" {
		return nil, errors.New("external id is required")
	}
	email := normalizeEmail(p.Email)

	existing, err := s.repo.GetByClerkID(ctx, p.ExternalID)
	switch {
	case err == nil:
		return s.refresh(ctx, existing, email, p)
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	if email != "" {
		byEmail, err := s.repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			if byEmail.ClerkID != nil && *byEmail.ClerkID != p.ExternalID {
				return nil, ErrIdentityConflict
			}
			external := p.ExternalID
			byEmail.ClerkID = &external
			s.logger.InfoContext(ctx, "linking existing user", applog.FieldUserID, byEmail.ID, applog.FieldExternalID, p.ExternalID)
			return s.refresh(ctx, byEmail, email, p)
		case !errors.Is(err, ErrUserNotFound):
			return nil, err
		}
	}

	return s.create(ctx, email, p)
}

func (s *SyncService) create(ctx context.Context, email string, p Profile) (*User, error) {
	external := p.ExternalID
	user := &User{
		ClerkID:   &external,
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		GenderID:  DefaultGenderID,
	}
	if email != "" {
		user.Email = &email
	}

	err := s.repo.Create(ctx, user)
	if errors.Is(err, ErrDuplicateUser) {
		// a concurrent delivery for the same identity won the insert
		if existing, lookupErr := s.repo.GetByClerkID(ctx, p.ExternalID); lookupErr == nil {
			return existing, nil
		}
		if email != "" {
			if existing, lookupErr := s.repo.GetByEmail(ctx, email); lookupErr == nil {
				if existing.ClerkID != nil && *existing.ClerkID != p.ExternalID {
					return nil, ErrIdentityConflict
				}
				return existing, nil
			}
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user created from identity provider", applog.FieldUserID, user.ID, applog.FieldExternalID, p.ExternalID)
	return user, nil
}

func (s *SyncService) refresh(ctx context.Context, user *User, email string, p Profile) (*User, error) {
	user.FirstName = strings.TrimSpace(p.FirstName)
	user.LastName = strings.TrimSpace(p.LastName)
	if email != "" {
		user.Email = &email
	}
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, ErrIdentityConflict
		}
		return nil, err
	}
	return user, nil
}

// SyncUpdated refreshes the profile, creating the user when it is missing.
func (s *SyncService) SyncUpdated(ctx context.Context, p Profile) (*User, error) {
	existing, err := s.repo.GetByClerkID(ctx, p.ExternalID)
	if errors.Is(err, ErrUserNotFound) {
		return s.SyncCreated(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, existing, normalizeEmail(p.Email), p)
}

// SyncSession makes sure a signed-in external id has a local user, fetching
// the profile from the provider when it does not.
func (s *SyncService) SyncSession(ctx context.Context, externalID string) (*User, error) {
	existing, err := s.repo.GetByClerkID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	profile, err := s.profiles.GetUser(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", externalID, err)
	}
	return s.SyncCreated(ctx, ProfileFromClerk(profile))
}

// SyncDeleted unlinks the external id. The local user and its data are kept,
// and the admin is never touched.
func (s *SyncService) SyncDeleted(ctx context.Context, externalID string) error {
	existing, err := s.repo.GetByClerkID(ctx, externalID)
	if errors.Is(err, ErrUserNotFound) {
		s.logger.InfoContext(ctx, "delete for unknown identity ignored", applog.FieldExternalID, externalID)
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == s.adminID {
		s.logger.WarnContext(ctx, "refusing to unlink the admin user", applog.FieldExternalID, externalID)
		return nil
	}
	existing.ClerkID = nil
	if err := s.repo.Update(ctx, existing); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "identity unlinked", applog.FieldUserID, existing.ID, applog.FieldExternalID, externalID)
	return nil
}
