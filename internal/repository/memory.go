package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/TyReed12/ResTracker/internal/model"
)

// In-memory fallbacks used when durable storage cannot be opened. The
// session degrades to memory-only operation instead of crashing; data is
// lost on restart, which matches the StorageUnavailable contract.

type memoryGoalRepository struct {
	mu    sync.RWMutex
	goals []*model.Goal
}

func NewMemoryGoalRepository() GoalRepository {
	return &memoryGoalRepository{}
}

func (r *memoryGoalRepository) ReadAll() ([]*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := make([]*model.Goal, len(r.goals))
	for i, g := range r.goals {
		copied := *g
		goals[i] = &copied
	}

	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].Category != goals[j].Category {
			return goals[i].Category < goals[j].Category
		}
		return strings.ToLower(goals[i].Title) < strings.ToLower(goals[j].Title)
	})

	return goals, nil
}

func (r *memoryGoalRepository) WriteAll(goals []*model.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.goals = make([]*model.Goal, len(goals))
	for i, g := range goals {
		copied := *g
		r.goals[i] = &copied
	}

	return nil
}

type memoryQueueRepository struct {
	mu      sync.Mutex
	nextID  int64
	updates []*model.PendingUpdate
}

func NewMemoryQueueRepository() QueueRepository {
	return &memoryQueueRepository{nextID: 1}
}

func (r *memoryQueueRepository) Enqueue(update *model.PendingUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	update.ID = r.nextID
	r.nextID++
	if update.EnqueuedAt.IsZero() {
		update.EnqueuedAt = time.Now()
	}

	copied := *update
	r.updates = append(r.updates, &copied)
	return nil
}

func (r *memoryQueueRepository) Drain() ([]*model.PendingUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updates := make([]*model.PendingUpdate, len(r.updates))
	for i, u := range r.updates {
		copied := *u
		updates[i] = &copied
	}
	return updates, nil
}

func (r *memoryQueueRepository) Remove(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.updates {
		if u.ID == id {
			r.updates = append(r.updates[:i], r.updates[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memoryQueueRepository) Len() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates), nil
}

type memoryCacheKey struct {
	generation string
	url        string
	method     string
}

type memoryCacheRepository struct {
	mu      sync.RWMutex
	entries map[memoryCacheKey]*model.CacheEntry
}

func NewMemoryCacheRepository() CacheRepository {
	return &memoryCacheRepository{entries: make(map[memoryCacheKey]*model.CacheEntry)}
}

func (r *memoryCacheRepository) Get(generation, url, method string) (*model.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[memoryCacheKey{generation, url, method}]
	if !ok {
		return nil, ErrCacheMiss
	}
	copied := *entry
	return &copied, nil
}

func (r *memoryCacheRepository) Put(entry *model.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.StoredAt.IsZero() {
		entry.StoredAt = time.Now()
	}
	copied := *entry
	r.entries[memoryCacheKey{entry.Generation, entry.URL, entry.Method}] = &copied
	return nil
}

func (r *memoryCacheRepository) Generations() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var generations []string
	for key := range r.entries {
		if !seen[key.generation] {
			seen[key.generation] = true
			generations = append(generations, key.generation)
		}
	}
	sort.Strings(generations)
	return generations, nil
}

func (r *memoryCacheRepository) DropGeneration(generation string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.entries {
		if key.generation == generation {
			delete(r.entries, key)
		}
	}
	return nil
}
