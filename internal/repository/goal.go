package repository

import (
	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/jmoiron/sqlx"
)

// GoalRepository mirrors the goal collection to durable storage. All
// writes are whole-collection replacements keyed by id; merging happens
// in the caller, never at the storage layer.
type GoalRepository interface {
	ReadAll() ([]*model.Goal, error)
	WriteAll(goals []*model.Goal) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) ReadAll() ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals ORDER BY category ASC, LOWER(title) ASC`

	err := r.db.Select(&goals, query)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) WriteAll(goals []*model.Goal) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM goals`)
	if err != nil {
		return err
	}

	query := `INSERT INTO goals (id, title, category, target, current, unit, frequency, streak, last_checkin, remote_id, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, goal := range goals {
		_, err = tx.Exec(query,
			goal.ID,
			goal.Title,
			goal.Category,
			goal.Target,
			goal.Current,
			goal.Unit,
			goal.Frequency,
			goal.Streak,
			goal.LastCheckin,
			goal.RemoteID,
			goal.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
