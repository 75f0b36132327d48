package repo

import (
	"context"
	"sync"

	dom "todoapi/internal/domain"
	"todoapi/internal/utils"
)

// MemoryUserRepo is an in-process UserRepo. Email uniqueness is enforced under the lock.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]dom.User
	byEmail map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{byID: map[string]dom.User{}, byEmail: map[string]string{}}
}

func (r *MemoryUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return dom.User{}, ErrDuplicate
	}
	u.ID = utils.NewID()
	u.Tokens = append([]dom.Token{}, u.Tokens...)
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *MemoryUserRepo) GetByToken(_ context.Context, id, purpose, token string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok || !u.HasToken(purpose, token) {
		return dom.User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) PushToken(_ context.Context, id string, t dom.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Tokens = append(u.Tokens, t)
	r.byID[id] = u
	return nil
}

func (r *MemoryUserRepo) PullToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	kept := make([]dom.Token, 0, len(u.Tokens))
	for _, t := range u.Tokens {
		if t.Value != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	r.byID[id] = u
	return nil
}

func (r *MemoryUserRepo) SetPasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	r.byID[id] = u
	return nil
}

func cloneUser(u dom.User) dom.User {
	u.Tokens = append([]dom.Token(nil), u.Tokens...)
	return u
}

// MemoryTodoRepo is an in-process TodoRepo that keeps insertion order.
type MemoryTodoRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]dom.Todo
}

func NewMemoryTodoRepo() *MemoryTodoRepo {
	return &MemoryTodoRepo{byID: map[string]dom.Todo{}}
}

func (r *MemoryTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = utils.NewID()
	r.byID[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

func (r *MemoryTodoRepo) ListByOwner(_ context.Context, ownerID string) ([]dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := []dom.Todo{}
	for _, id := range r.order {
		if t := r.byID[id]; t.OwnerID == ownerID {
			list = append(list, t)
		}
	}
	return list, nil
}

func (r *MemoryTodoRepo) GetByIDForOwner(_ context.Context, id, ownerID string) (dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok || t.OwnerID != ownerID {
		return dom.Todo{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryTodoRepo) DeleteByIDForOwner(_ context.Context, id, ownerID string) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.OwnerID != ownerID {
		return dom.Todo{}, ErrNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return t, nil
}

func (r *MemoryTodoRepo) UpdateByIDForOwner(_ context.Context, id, ownerID string, patch dom.TodoPatch) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.OwnerID != ownerID {
		return dom.Todo{}, ErrNotFound
	}
	patch.Apply(&t)
	r.byID[id] = t
	return t, nil
}
