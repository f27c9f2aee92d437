package account

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Repository хранилище учетных записей и refresh токенов
type Repository interface {
	Create(ctx context.Context, acc Account) error
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	Confirm(ctx context.Context, email string) error
	SaveRefresh(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// TakeRefresh находит действующий refresh токен и сразу его удаляет
	TakeRefresh(ctx context.Context, tokenHash string, now time.Time) (string, error)
	RevokeRefresh(ctx context.Context, userID string) error
}

type refreshEntry struct {
	userID    string
	expiresAt time.Time
}

// MemoryRepository хранилище в памяти процесса
type MemoryRepository struct {
	mu       sync.RWMutex
	byID     map[string]Account
	byEmail  map[string]string
	sessions map[string]refreshEntry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:     make(map[string]Account),
		byEmail:  make(map[string]string),
		sessions: make(map[string]refreshEntry),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MemoryRepository) Create(_ context.Context, acc Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeEmail(acc.Email)
	if _, ok := r.byEmail[key]; ok {
		return ErrUserExists
	}
	r.byID[acc.ID] = acc
	r.byEmail[key] = acc.ID
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return Account{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acc, nil
}

func (r *MemoryRepository) Confirm(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	acc := r.byID[id]
	acc.Confirmed = true
	r.byID[id] = acc
	return nil
}

func (r *MemoryRepository) SaveRefresh(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[tokenHash] = refreshEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *MemoryRepository) TakeRefresh(_ context.Context, tokenHash string, now time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[tokenHash]
	if !ok {
		return "", ErrInvalidRefreshToken
	}
	delete(r.sessions, tokenHash)
	if !now.Before(entry.expiresAt) {
		return "", ErrInvalidRefreshToken
	}
	return entry.userID, nil
}

func (r *MemoryRepository) RevokeRefresh(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, entry := range r.sessions {
		if entry.userID == userID {
			delete(r.sessions, hash)
		}
	}
	return nil
}
