package userrepo

import (
	"context"
	"sync"

	"github.com/crobro234/wuebuddy/internal/domain/auth"
	"github.com/crobro234/wuebuddy/pkg/util"
)

// MemoryRepository is an in-memory auth.Repository used for tests/dev.
type MemoryRepository struct {
	mu             sync.RWMutex
	nextID         int64
	nextIdentityID int64
	users          map[int64]auth.User
	byUsername     map[string]int64
	byEmail        map[string]int64
	identities     map[string]auth.Identity
}

// NewMemoryRepository constructs a repository backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:         1,
		nextIdentityID: 1,
		users:          make(map[int64]auth.User),
		byUsername:     make(map[string]int64),
		byEmail:        make(map[string]int64),
		identities:     make(map[string]auth.Identity),
	}
}

// Create implements auth.Repository.
func (r *MemoryRepository) Create(_ context.Context, username, email, passwordHash string) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[username]; exists {
		return auth.User{}, auth.ErrUsernameExists
	}
	if _, exists := r.byEmail[email]; exists {
		return auth.User{}, auth.ErrEmailExists
	}
	user := auth.User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    util.NowUTC(),
	}
	r.nextID++
	r.users[user.ID] = user
	r.byUsername[username] = user.ID
	r.byEmail[email] = user.ID
	return user, nil
}

// GetByUsername implements auth.Repository.
func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return auth.User{}, false, nil
	}
	return r.users[id], true, nil
}

// GetByEmail implements auth.Repository.
func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return auth.User{}, false, nil
	}
	return r.users[id], true, nil
}

// GetByID implements auth.Repository.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	return user, ok, nil
}

// GetIdentity implements auth.Repository.
func (r *MemoryRepository) GetIdentity(_ context.Context, provider, providerSubject string) (auth.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.identities[provider+"/"+providerSubject]
	return identity, ok, nil
}

// GetIdentityByUser implements auth.Repository.
func (r *MemoryRepository) GetIdentityByUser(_ context.Context, userID int64, provider string) (auth.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, identity := range r.identities {
		if identity.UserID == userID && identity.Provider == provider {
			return identity, true, nil
		}
	}
	return auth.Identity{}, false, nil
}

// UpsertIdentity implements auth.Repository.
func (r *MemoryRepository) UpsertIdentity(_ context.Context, identity auth.Identity) (auth.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := identity.Provider + "/" + identity.ProviderSubject
	now := util.NowUTC()
	if existing, ok := r.identities[key]; ok {
		existing.ProviderEmail = identity.ProviderEmail
		existing.RefreshToken = identity.RefreshToken
		existing.UpdatedAt = now
		r.identities[key] = existing
		return existing, nil
	}
	identity.ID = r.nextIdentityID
	r.nextIdentityID++
	identity.CreatedAt = now
	identity.UpdatedAt = now
	r.identities[key] = identity
	return identity, nil
}

var _ auth.Repository = (*MemoryRepository)(nil)
