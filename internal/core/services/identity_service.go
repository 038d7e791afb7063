package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

const maxDisplayNameLength = 50

type identityService struct {
	planRepo  ports.PlanRepository
	guestRepo ports.GuestRepository
}

func NewIdentityService(planRepo ports.PlanRepository, guestRepo ports.GuestRepository) ports.IdentityService {
	return &identityService{
		planRepo:  planRepo,
		guestRepo: guestRepo,
	}
}

// Resolve prefers guest credentials over the platform session so a signed-in
// user can still act as a guest of the plan.
func (s *identityService) Resolve(ctx context.Context, raw ports.RawIdentity) (domain.Identity, error) {
	if raw.GuestID != "" {
		guest, err := s.planGuest(ctx, raw.PlanID, raw.GuestID)
		if err != nil {
			return domain.Identity{}, err
		}
		if err := checkGuestPassword(guest, raw.GuestPassword); err != nil {
			return domain.Identity{}, err
		}
		return guest.Identity(), nil
	}

	if raw.Session != nil {
		return raw.Session.Identity(), nil
	}

	return domain.Identity{}, domain.ErrMissingIdentity
}

func (s *identityService) Authorize(ctx context.Context, identity domain.Identity, plan *domain.Plan) (bool, error) {
	switch identity.Kind {
	case domain.IdentityPlatform:
		// The session was verified by the auth collaborator.
		return identity.ID != uuid.Nil, nil
	case domain.IdentityGuest:
		guest, err := s.guestRepo.GetByID(ctx, identity.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return guest.PlanID == plan.ID, nil
	default:
		return false, nil
	}
}

// GuestLogin signs a guest into the plan, creating the guest on first use.
// An existing guest with a password must present the same password.
func (s *identityService) GuestLogin(ctx context.Context, input ports.GuestLoginInput) (*domain.GuestUser, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.InvalidInput("name is required")
	}
	if len(name) > maxDisplayNameLength {
		return nil, domain.InvalidInput("name must be at most %d characters", maxDisplayNameLength)
	}

	if _, err := s.planRepo.GetByID(ctx, input.PlanID); err != nil {
		return nil, err
	}

	guest, err := s.guestRepo.GetByName(ctx, input.PlanID, name)
	if err == nil {
		if err := checkGuestPassword(guest, input.Password); err != nil {
			return nil, err
		}
		return guest, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	guest = &domain.GuestUser{
		ID:          uuid.New(),
		PlanID:      input.PlanID,
		DisplayName: name,
		CreatedAt:   time.Now(),
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash guest password: %w", err)
		}
		guest.PasswordHash = string(hash)
	}

	err = s.guestRepo.Create(ctx, guest)
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race with a concurrent login for the same name.
		existing, getErr := s.guestRepo.GetByName(ctx, input.PlanID, name)
		if getErr != nil {
			return nil, getErr
		}
		if err := checkGuestPassword(existing, input.Password); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}

	return guest, nil
}

func (s *identityService) planGuest(ctx context.Context, planID uuid.UUID, rawID string) (*domain.GuestUser, error) {
	guestID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}

	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if guest.PlanID != planID {
		return nil, domain.ErrIdentityNotFound
	}
	return guest, nil
}

func checkGuestPassword(guest *domain.GuestUser, password string) error {
	if !guest.HasPassword() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(guest.PasswordHash), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// authorizedIdentity resolves raw and checks it may act within plan.
func authorizedIdentity(ctx context.Context, identities ports.IdentityService, raw ports.RawIdentity, plan *domain.Plan) (domain.Identity, error) {
	raw.PlanID = plan.ID
	identity, err := identities.Resolve(ctx, raw)
	if err != nil {
		return domain.Identity{}, err
	}

	ok, err := identities.Authorize(ctx, identity, plan)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return identity, nil
}
