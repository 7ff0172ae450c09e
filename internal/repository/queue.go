package repository

import (
	"encoding/json"
	"time"

	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/jmoiron/sqlx"
)

// QueueRepository is the durable pending-update queue. Drain returns the
// queued updates in FIFO enqueue order without deleting them; a replayed
// update is removed only after its remote call succeeds, so a crash or a
// failed call leaves it queued for the next drain.
type QueueRepository interface {
	Enqueue(update *model.PendingUpdate) error
	Drain() ([]*model.PendingUpdate, error)
	Remove(id int64) error
	Len() (int, error)
}

type pendingUpdateRow struct {
	ID         int64     `db:"id"`
	RemoteID   string    `db:"remote_id"`
	Patch      string    `db:"patch"`
	EnqueuedAt time.Time `db:"enqueued_at"`
}

type queueRepository struct {
	db *sqlx.DB
}

func NewQueueRepository(db *sqlx.DB) QueueRepository {
	return &queueRepository{db: db}
}

func (r *queueRepository) Enqueue(update *model.PendingUpdate) error {
	patch, err := json.Marshal(update.Patch)
	if err != nil {
		return err
	}

	if update.EnqueuedAt.IsZero() {
		update.EnqueuedAt = time.Now()
	}

	query := `INSERT INTO pending_updates (remote_id, patch, enqueued_at) VALUES ($1, $2, $3)`
	result, err := r.db.Exec(query, update.RemoteID, string(patch), update.EnqueuedAt)
	if err != nil {
		return err
	}

	update.ID, err = result.LastInsertId()
	return err
}

func (r *queueRepository) Drain() ([]*model.PendingUpdate, error) {
	var rows []*pendingUpdateRow
	query := `SELECT * FROM pending_updates ORDER BY id ASC`

	err := r.db.Select(&rows, query)
	if err != nil {
		return nil, err
	}

	updates := make([]*model.PendingUpdate, 0, len(rows))
	for _, row := range rows {
		update := &model.PendingUpdate{
			ID:         row.ID,
			RemoteID:   row.RemoteID,
			EnqueuedAt: row.EnqueuedAt,
		}
		err = json.Unmarshal([]byte(row.Patch), &update.Patch)
		if err != nil {
			return nil, err
		}
		updates = append(updates, update)
	}

	return updates, nil
}

func (r *queueRepository) Remove(id int64) error {
	_, err := r.db.Exec(`DELETE FROM pending_updates WHERE id = $1`, id)
	return err
}

func (r *queueRepository) Len() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM pending_updates`).Scan(&count)
	return count, err
}
