package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	dom "todoapi/internal/domain"
	"todoapi/internal/repo"

	"golang.org/x/sync/singleflight"
)

// ListCache caches each owner's todo list. GetList returns nil, nil on a miss.
type ListCache interface {
	GetList(ctx context.Context, ownerID string) ([]dom.Todo, error)
	SetList(ctx context.Context, ownerID string, list []dom.Todo) error
	Invalidate(ctx context.Context, ownerID string) error
}

type TodoService struct {
	repo  repo.TodoRepo
	cache ListCache
	sf    singleflight.Group
	now   func() time.Time

	// gen counts committed writes per owner. A list read goes back into the cache
	// only if no write landed while it was in flight.
	mu  sync.Mutex
	gen map[string]uint64
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c ListCache) *TodoService {
	return &TodoService{repo: r, cache: c, now: time.Now, gen: map[string]uint64{}}
}

func (s *TodoService) Create(ctx context.Context, ownerID, text string) (dom.Todo, error) {
	text = strings.TrimSpace(text)
	if err := dom.Validate(dom.ValidateTodoText(text)); err != nil {
		return dom.Todo{}, err
	}
	t, err := s.repo.Create(ctx, dom.Todo{Text: text, OwnerID: ownerID})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

func (s *TodoService) List(ctx context.Context, ownerID string) ([]dom.Todo, error) {
	if s.cache == nil {
		return s.repo.ListByOwner(ctx, ownerID)
	}
	gen := s.generation(ownerID)
	// Keyed by generation so a List issued after a write never joins a read started before it.
	key := "list:" + ownerID + ":" + strconv.FormatUint(gen, 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// Shared by every caller in the flight; one of them going away must not fail the rest.
		ctx := context.WithoutCancel(ctx)
		if list, err := s.cache.GetList(ctx, ownerID); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		s.storeList(ctx, ownerID, gen, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

func (s *TodoService) GetByID(ctx context.Context, ownerID, id string) (dom.Todo, error) {
	t, err := s.repo.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return dom.Todo{}, mapNotFound(err)
	}
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id string) (dom.Todo, error) {
	t, err := s.repo.DeleteByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return dom.Todo{}, mapNotFound(err)
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

// Update applies text and/or completed. completed=true stamps completedAt with the
// current time, completed=false clears it.
func (s *TodoService) Update(ctx context.Context, ownerID, id string, text *string, completed *bool) (dom.Todo, error) {
	var patch dom.TodoPatch
	if text != nil {
		trimmed := strings.TrimSpace(*text)
		if err := dom.Validate(dom.ValidateTodoText(trimmed)); err != nil {
			return dom.Todo{}, err
		}
		patch.Text = &trimmed
	}
	if completed != nil {
		done := *completed
		patch.Completed = &done
		if done {
			at := s.now().UnixMilli()
			patch.CompletedAt = &at
		}
	}
	t, err := s.repo.UpdateByIDForOwner(ctx, id, ownerID, patch)
	if err != nil {
		return dom.Todo{}, mapNotFound(err)
	}
	if !patch.Empty() {
		s.invalidateCache(ctx, ownerID)
	}
	return t, nil
}

func (s *TodoService) generation(ownerID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen[ownerID]
}

// storeList caches list unless a write for ownerID committed after gen was read.
func (s *TodoService) storeList(ctx context.Context, ownerID string, gen uint64, list []dom.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[ownerID] != gen {
		return
	}
	_ = s.cache.SetList(ctx, ownerID, list)
}

// invalidateCache runs after a write has committed.
func (s *TodoService) invalidateCache(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	s.gen[ownerID]++
	s.mu.Unlock()
	_ = s.cache.Invalidate(ctx, ownerID)
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
