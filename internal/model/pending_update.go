package model

import (
	"time"
)

// PendingUpdate is a queued intent to mutate a remote record. It is only
// ever created for goals that already have a remote id; local-only goals
// go through the create path instead. Survives restarts.
type PendingUpdate struct {
	ID         int64     `db:"id" json:"id"`
	RemoteID   string    `db:"remote_id" json:"remoteId"`
	Patch      GoalPatch `db:"-" json:"patch"`
	EnqueuedAt time.Time `db:"enqueued_at" json:"enqueuedAt"`
}
