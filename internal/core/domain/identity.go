package domain

import (
	"time"

	"github.com/google/uuid"
)

type IdentityKind string

const (
	IdentityPlatform IdentityKind = "platform"
	IdentityGuest    IdentityKind = "guest"
)

func (k IdentityKind) Valid() bool {
	return k == IdentityPlatform || k == IdentityGuest
}

// Identity is the participant behind a timeblock or a vote. It is either an
// authenticated platform account or a plan-scoped guest, and only ever
// exposes the id and display name.
type Identity struct {
	Kind        IdentityKind `json:"kind"`
	ID          uuid.UUID    `json:"id"`
	DisplayName string       `json:"display_name"`
}

// Key namespaces the id by kind so platform and guest ids never collide.
func (i Identity) Key() string {
	return string(i.Kind) + ":" + i.ID.String()
}

func (i Identity) IsZero() bool {
	return i.Kind == "" && i.ID == uuid.Nil
}

// Same reports whether both identities refer to the same participant.
func (i Identity) Same(other Identity) bool {
	return i.Kind == other.Kind && i.ID == other.ID
}

// PlatformUser is an account backed by the external auth collaborator.
type PlatformUser struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *PlatformUser) Identity() Identity {
	return Identity{Kind: IdentityPlatform, ID: u.ID, DisplayName: u.DisplayName}
}

// GuestUser is an anonymous participant scoped to one plan. PasswordHash is
// empty when the guest opted out of password protection.
type GuestUser struct {
	ID           uuid.UUID `json:"id"`
	PlanID       uuid.UUID `json:"plan_id"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (g *GuestUser) Identity() Identity {
	return Identity{Kind: IdentityGuest, ID: g.ID, DisplayName: g.DisplayName}
}

func (g *GuestUser) HasPassword() bool {
	return g.PasswordHash != ""
}
