package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/TyReed12/ResTracker/internal/notion"
	"github.com/TyReed12/ResTracker/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

// Gateway is the remote store boundary. *notion.Client implements it; a
// fake stands in for it in tests.
type Gateway interface {
	List(ctx context.Context) ([]*model.Goal, error)
	Create(ctx context.Context, goal *model.Goal) (string, error)
	Update(ctx context.Context, remoteID string, patch model.GoalPatch) error
	Archive(ctx context.Context, remoteID string) error
}

// Connectivity reports whether the remote is currently considered
// reachable. *netwatch.Watcher implements it.
type Connectivity interface {
	Online() bool
}

// Syncer owns the decision of when to talk to the remote store and
// reconciles local and remote state without losing in-flight edits.
//
// Every mutation runs in two phases: an unconditional optimistic local
// write (persisted before the mutation is considered durable), then
// connectivity-conditioned remote propagation, immediate if online,
// queued otherwise. Queued updates carry absolute values computed at
// enqueue time, so replaying them in FIFO order converges on the final
// local value without coalescing.
type Syncer struct {
	mu      sync.Mutex
	goals   []*model.Goal
	status  model.SyncStatus
	gateway Gateway
	repo    repository.GoalRepository
	queue   repository.QueueRepository
	conn    Connectivity
	now     func() time.Time
}

type Option func(*Syncer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// New creates a sync coordinator. A nil gateway means no remote store is
// configured; the session then runs entirely on local or demo data.
func New(gateway Gateway, repo repository.GoalRepository, queue repository.QueueRepository, conn Connectivity, opts ...Option) *Syncer {
	s := &Syncer{
		gateway: gateway,
		repo:    repo,
		queue:   queue,
		conn:    conn,
		status:  model.StatusInit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load performs the startup (or manual-refresh) reconciliation: fetch
// from the remote when connectivity is known-good, otherwise serve the
// local store; substitute demo data only on a true first run.
func (s *Syncer) Load(ctx context.Context) {
	s.mu.Lock()
	s.status = nextStatus(s.status, eventLoadStarted)
	s.mu.Unlock()

	local, err := s.repo.ReadAll()
	if err != nil {
		slog.Error("failed to read local goals", "error", err)
		local = nil
	}

	if s.gateway == nil || !s.conn.Online() {
		s.finishOfflineLoad(local)
		return
	}

	remote, err := s.gateway.List(ctx)
	if err != nil {
		slog.Warn("remote list failed", "error", err)
		s.finishFailedLoad(local, err)
		return
	}

	if len(remote) == 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(local) == 0 {
			// First run: synthetic placeholders, never written back
			s.goals = demoGoals()
			s.status = nextStatus(s.status, eventRemoteEmptyFirstRun)
			return
		}
		s.goals = local
		s.status = nextStatus(s.status, eventRemoteLoaded)
		return
	}

	// Non-empty remote result replaces the local collection wholesale
	err = s.repo.WriteAll(remote)
	if err != nil {
		slog.Error("failed to persist remote goals", "error", err)
	}

	s.mu.Lock()
	s.goals = remote
	s.status = nextStatus(s.status, eventRemoteLoaded)
	s.mu.Unlock()
}

func (s *Syncer) finishOfflineLoad(local []*model.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(local) == 0 && s.gateway == nil {
		s.goals = demoGoals()
		s.status = nextStatus(s.status, eventRemoteEmptyFirstRun)
		return
	}
	s.goals = local
	s.status = nextStatus(s.status, eventRemoteUnreachable)
}

func (s *Syncer) finishFailedLoad(local []*model.Goal, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(local) == 0 {
		s.goals = demoGoals()
		s.status = nextStatus(s.status, eventRemoteEmptyFirstRun)
		return
	}

	s.goals = local
	var remoteErr *notion.RemoteError
	if errors.As(err, &remoteErr) {
		s.status = nextStatus(s.status, eventRemoteRejected)
		return
	}
	s.status = nextStatus(s.status, eventRemoteUnreachable)
}

// Goals returns a snapshot of the in-memory collection.
func (s *Syncer) Goals() []*model.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := make([]*model.Goal, len(s.goals))
	for i, g := range s.goals {
		copied := *g
		goals[i] = &copied
	}
	return goals
}

// Status returns the current coarse sync status.
func (s *Syncer) Status() model.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// QueueLen returns the number of pending updates awaiting replay.
func (s *Syncer) QueueLen() int {
	n, err := s.queue.Len()
	if err != nil {
		return 0
	}
	return n
}

// CheckIn applies a progress delta to a goal. Positive deltas on a new
// calendar day bump the streak; the stored value clamps at zero. The
// local mutation and its persistence always happen; remote propagation
// is immediate when online, queued otherwise.
func (s *Syncer) CheckIn(ctx context.Context, goalID string, delta float64) (*model.Goal, error) {
	s.mu.Lock()
	goal := s.find(goalID)
	if goal == nil {
		s.mu.Unlock()
		return nil, ErrGoalNotFound
	}

	goal.CheckIn(delta, model.Day(s.now()))
	goal.UpdatedAt = s.now()
	snapshot := *goal
	s.persistLocked()
	s.mu.Unlock()

	if snapshot.RemoteID != nil {
		s.propagate(ctx, *snapshot.RemoteID, model.ProgressPatch(&snapshot))
	}

	return &snapshot, nil
}

// Create adds a locally-created goal with an ephemeral local id, then
// attempts remote creation. A failed create is NOT queued for retry: the
// record stays local-only with a nil remote id.
func (s *Syncer) Create(ctx context.Context, goal *model.Goal) (*model.Goal, error) {
	goal.ID = uuid.New().String()
	goal.RemoteID = nil
	if goal.Current < 0 {
		goal.Current = 0
	}
	if !model.ValidCategory(goal.Category) {
		goal.Category = model.DefaultCategory
	}
	if !model.ValidFrequency(goal.Frequency) {
		goal.Frequency = model.FrequencyDaily
	}
	goal.UpdatedAt = s.now()

	s.mu.Lock()
	s.goals = append(s.goals, goal)
	snapshot := *goal
	s.persistLocked()
	s.mu.Unlock()

	if s.gateway == nil || !s.conn.Online() {
		return &snapshot, nil
	}

	remoteID, err := s.gateway.Create(ctx, &snapshot)
	if err != nil {
		slog.Warn("remote create failed, record stays local-only", "error", err, "goal_id", snapshot.ID)
		s.mu.Lock()
		s.status = nextStatus(s.status, eventRemoteRejected)
		s.mu.Unlock()
		return &snapshot, nil
	}

	s.mu.Lock()
	if g := s.find(snapshot.ID); g != nil {
		g.ID = remoteID
		g.RemoteID = &remoteID
		snapshot = *g
	}
	s.status = nextStatus(s.status, eventMutationSynced)
	s.persistLocked()
	s.mu.Unlock()

	return &snapshot, nil
}

// Archive removes a goal locally and asks the remote store to soft-delete
// it. Archival is immediate-only: it is not queued for replay.
func (s *Syncer) Archive(ctx context.Context, goalID string) error {
	s.mu.Lock()
	goal := s.find(goalID)
	if goal == nil {
		s.mu.Unlock()
		return ErrGoalNotFound
	}
	remoteID := goal.RemoteID

	kept := s.goals[:0]
	for _, g := range s.goals {
		if g.ID != goalID {
			kept = append(kept, g)
		}
	}
	s.goals = kept
	s.persistLocked()
	s.mu.Unlock()

	if remoteID == nil || s.gateway == nil || !s.conn.Online() {
		return nil
	}

	err := s.gateway.Archive(ctx, *remoteID)
	if err != nil {
		slog.Warn("remote archive failed", "error", err, "remote_id", *remoteID)
		s.mu.Lock()
		s.status = nextStatus(s.status, eventRemoteRejected)
		s.mu.Unlock()
	}
	return nil
}

// propagate pushes a patch for an already-remote record: immediately when
// online, enqueued when offline or when the immediate call fails.
func (s *Syncer) propagate(ctx context.Context, remoteID string, patch model.GoalPatch) {
	if s.gateway == nil || !s.conn.Online() {
		s.enqueue(remoteID, patch)
		return
	}

	err := s.gateway.Update(ctx, remoteID, patch)
	if err == nil {
		s.mu.Lock()
		s.status = nextStatus(s.status, eventMutationSynced)
		s.mu.Unlock()
		return
	}

	slog.Warn("remote update failed, queueing for replay", "error", err, "remote_id", remoteID)
	s.enqueue(remoteID, patch)

	s.mu.Lock()
	var remoteErr *notion.RemoteError
	if errors.As(err, &remoteErr) {
		s.status = nextStatus(s.status, eventRemoteRejected)
	} else {
		s.status = nextStatus(s.status, eventRemoteUnreachable)
	}
	s.mu.Unlock()
}

func (s *Syncer) enqueue(remoteID string, patch model.GoalPatch) {
	err := s.queue.Enqueue(&model.PendingUpdate{
		RemoteID:   remoteID,
		Patch:      patch,
		EnqueuedAt: s.now(),
	})
	if err != nil {
		slog.Error("failed to enqueue pending update", "error", err, "remote_id", remoteID)
	}
}

// OnConnectivityChange reacts to the connectivity signal: lost keeps all
// in-memory data and flips to offline; restored triggers a queue drain.
// When there was nothing to replay, restoration still refetches for a
// session that never got remote data, so coming back online moves
// offline to synced without waiting for a manual refresh.
func (s *Syncer) OnConnectivityChange(ctx context.Context, online bool) {
	if !online {
		s.mu.Lock()
		s.status = nextStatus(s.status, eventConnectivityLost)
		s.mu.Unlock()
		return
	}

	replayed, failed := s.drain(ctx)
	if replayed > 0 || failed > 0 {
		return
	}

	switch s.Status() {
	case model.StatusInit, model.StatusOffline, model.StatusError:
		s.Load(ctx)
	}
}

// Drain replays queued updates in FIFO enqueue order. Draining an empty
// queue is a no-op and never changes the status, so repeated replay
// triggers are harmless. A failed update stays queued; any failure makes
// the terminal status error even when other updates succeeded (successes
// are removed either way, so nothing is double-applied). A fully
// successful drain is followed by a fresh remote fetch so server-side
// computed fields win over locally derived state.
func (s *Syncer) Drain(ctx context.Context) {
	s.drain(ctx)
}

// drain does the replay work and reports how many updates were replayed
// and how many failed, so the connectivity path can tell an empty drain
// apart from a failed one.
func (s *Syncer) drain(ctx context.Context) (replayed, failed int) {
	updates, err := s.queue.Drain()
	if err != nil {
		slog.Error("failed to read pending updates", "error", err)
		return 0, 0
	}
	if len(updates) == 0 {
		return 0, 0
	}
	if s.gateway == nil {
		return 0, 0
	}

	for _, update := range updates {
		err = s.gateway.Update(ctx, update.RemoteID, update.Patch)
		if err != nil {
			slog.Warn("replay failed, update stays queued",
				"error", err, "remote_id", update.RemoteID, "queue_id", update.ID)
			failed++
			continue
		}
		replayed++
		err = s.queue.Remove(update.ID)
		if err != nil {
			slog.Error("failed to remove replayed update", "error", err, "queue_id", update.ID)
		}
	}

	if failed > 0 {
		// Partial success is reported as failure to stay conservative
		s.mu.Lock()
		s.status = nextStatus(s.status, eventDrainFailed)
		s.mu.Unlock()
		return replayed, failed
	}

	s.mu.Lock()
	s.status = nextStatus(s.status, eventDrainSucceeded)
	s.mu.Unlock()

	s.Load(ctx)
	return replayed, failed
}

// find returns the in-memory goal with the given id. Caller holds s.mu.
func (s *Syncer) find(goalID string) *model.Goal {
	for _, g := range s.goals {
		if g.ID == goalID {
			return g
		}
	}
	return nil
}

// persistLocked mirrors the in-memory collection to the local store.
// Caller holds s.mu. Persistence failure is logged, never fatal: the
// optimistic in-memory value stays visible for the session.
func (s *Syncer) persistLocked() {
	err := s.repo.WriteAll(s.goals)
	if err != nil {
		slog.Error("failed to persist goals", "error", err)
	}
}
