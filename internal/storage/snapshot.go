package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/TyReed12/ResTracker/internal/model"
)

// SnapshotService exports the goal collection as a timestamped JSON
// object. Snapshots are a recovery aid, not part of the sync protocol:
// they are never read back by the app.
type SnapshotService struct {
	uploader Uploader
	prefix   string
	now      func() time.Time
}

func NewSnapshotService(uploader Uploader, prefix string) *SnapshotService {
	return &SnapshotService{
		uploader: uploader,
		prefix:   prefix,
		now:      time.Now,
	}
}

type snapshot struct {
	TakenAt time.Time     `json:"takenAt"`
	Goals   []*model.Goal `json:"goals"`
}

// Snapshot uploads the given goals and returns the object key.
func (s *SnapshotService) Snapshot(ctx context.Context, goals []*model.Goal) (string, error) {
	body, err := json.MarshalIndent(snapshot{TakenAt: s.now(), Goals: goals}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("%s/goals-%s.json", s.prefix, s.now().UTC().Format("20060102T150405Z"))
	err = s.uploader.Upload(ctx, key, body)
	if err != nil {
		return "", err
	}

	slog.Info("snapshot uploaded", "key", key, "goals", len(goals))
	return key, nil
}
