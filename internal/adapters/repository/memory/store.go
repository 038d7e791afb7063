// Package memory keeps every repository in process memory behind one lock.
// It backs the server's STORAGE=memory mode and the service tests.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

type Store struct {
	mu         sync.RWMutex
	plans      map[uuid.UUID]*domain.Plan
	users      map[uuid.UUID]*domain.PlatformUser
	guests     map[uuid.UUID]*domain.GuestUser
	timeblocks map[uuid.UUID]map[string][]domain.Timeblock // plan -> identity key
	polls      map[uuid.UUID]*domain.Poll
	votes      map[uuid.UUID]map[string]domain.Vote // option -> identity key
}

// NewStore initializes storage
func NewStore() *Store {
	return &Store{
		plans:      make(map[uuid.UUID]*domain.Plan),
		users:      make(map[uuid.UUID]*domain.PlatformUser),
		guests:     make(map[uuid.UUID]*domain.GuestUser),
		timeblocks: make(map[uuid.UUID]map[string][]domain.Timeblock),
		polls:      make(map[uuid.UUID]*domain.Poll),
		votes:      make(map[uuid.UUID]map[string]domain.Vote),
	}
}
