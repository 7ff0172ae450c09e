package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/TyReed12/ResTracker/internal/db"
	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func testGoal(id, title, category string) *model.Goal {
	return &model.Goal{
		ID:        id,
		Title:     title,
		Category:  category,
		Target:    100,
		Current:   10,
		Unit:      "units",
		Frequency: model.FrequencyDaily,
		UpdatedAt: time.Now().UTC(),
	}
}

func TestGoalRepositoryReplacesWholesale(t *testing.T) {
	repo := NewGoalRepository(newTestDB(t))

	remoteID := "remote-1"
	first := testGoal("a", "Run 500 km", model.CategoryFitness)
	first.RemoteID = &remoteID
	require.NoError(t, repo.WriteAll([]*model.Goal{
		first,
		testGoal("b", "Read 12 books", model.CategoryLearning),
	}))

	goals, err := repo.ReadAll()
	require.NoError(t, err)
	require.Len(t, goals, 2)
	require.NotNil(t, goals[0].RemoteID)
	assert.Equal(t, "remote-1", *goals[0].RemoteID)
	assert.Nil(t, goals[1].RemoteID)

	// A smaller write replaces everything from the previous one
	require.NoError(t, repo.WriteAll([]*model.Goal{testGoal("c", "Meditate", model.CategoryHealth)}))

	goals, err = repo.ReadAll()
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "c", goals[0].ID)
}

func TestGoalRepositoryOrdering(t *testing.T) {
	repo := NewGoalRepository(newTestDB(t))

	require.NoError(t, repo.WriteAll([]*model.Goal{
		testGoal("a", "run 500 km", model.CategoryFitness),
		testGoal("b", "Read 12 books", model.CategoryLearning),
		testGoal("c", "Bike to work", model.CategoryFitness),
	}))

	goals, err := repo.ReadAll()
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.Equal(t, "Bike to work", goals[0].Title)
	assert.Equal(t, "run 500 km", goals[1].Title)
	assert.Equal(t, "Read 12 books", goals[2].Title)
}

func TestQueueRepositoryFIFO(t *testing.T) {
	for _, tt := range []struct {
		name string
		repo func(t *testing.T) QueueRepository
	}{
		{"sqlite", func(t *testing.T) QueueRepository { return NewQueueRepository(newTestDB(t)) }},
		{"memory", func(t *testing.T) QueueRepository { return NewMemoryQueueRepository() }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			repo := tt.repo(t)

			for i, current := range []float64{1, 2, 3} {
				update := &model.PendingUpdate{
					RemoteID: "remote-1",
					Patch:    model.GoalPatch{Current: model.Float(current)},
				}
				require.NoError(t, repo.Enqueue(update))
				assert.NotZero(t, update.ID, "enqueue %d must assign an id", i)
			}

			n, err := repo.Len()
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			// Drain preserves enqueue order and removes nothing
			updates, err := repo.Drain()
			require.NoError(t, err)
			require.Len(t, updates, 3)
			for i, want := range []float64{1, 2, 3} {
				require.NotNil(t, updates[i].Patch.Current)
				assert.Equal(t, want, *updates[i].Patch.Current)
			}

			n, err = repo.Len()
			require.NoError(t, err)
			assert.Equal(t, 3, n, "drain is non-destructive")

			// Removal is per-update and idempotent
			require.NoError(t, repo.Remove(updates[1].ID))
			require.NoError(t, repo.Remove(updates[1].ID))

			updates, err = repo.Drain()
			require.NoError(t, err)
			require.Len(t, updates, 2)
			assert.Equal(t, 1.0, *updates[0].Patch.Current)
			assert.Equal(t, 3.0, *updates[1].Patch.Current)
		})
	}
}

func TestCacheRepository(t *testing.T) {
	for _, tt := range []struct {
		name string
		repo func(t *testing.T) CacheRepository
	}{
		{"sqlite", func(t *testing.T) CacheRepository { return NewCacheRepository(newTestDB(t)) }},
		{"memory", func(t *testing.T) CacheRepository { return NewMemoryCacheRepository() }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			repo := tt.repo(t)

			_, err := repo.Get("static-v1", "/", "GET")
			assert.ErrorIs(t, err, ErrCacheMiss)

			require.NoError(t, repo.Put(&model.CacheEntry{
				Generation: "static-v1",
				URL:        "/",
				Method:     "GET",
				Status:     200,
				Headers:    map[string]string{"Content-Type": "text/html"},
				Body:       []byte("v1"),
			}))
			require.NoError(t, repo.Put(&model.CacheEntry{
				Generation: "dynamic-v1",
				URL:        "/api/goals",
				Method:     "GET",
				Status:     200,
				Body:       []byte(`[]`),
			}))

			entry, err := repo.Get("static-v1", "/", "GET")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), entry.Body)
			assert.Equal(t, "text/html", entry.Headers["Content-Type"])

			// Upsert: a refreshed capture replaces the previous one
			require.NoError(t, repo.Put(&model.CacheEntry{
				Generation: "static-v1",
				URL:        "/",
				Method:     "GET",
				Status:     200,
				Body:       []byte("v2"),
			}))
			entry, err = repo.Get("static-v1", "/", "GET")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), entry.Body)

			generations, err := repo.Generations()
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"static-v1", "dynamic-v1"}, generations)

			require.NoError(t, repo.DropGeneration("static-v1"))
			_, err = repo.Get("static-v1", "/", "GET")
			assert.ErrorIs(t, err, ErrCacheMiss)

			_, err = repo.Get("dynamic-v1", "/api/goals", "GET")
			assert.NoError(t, err, "dropping one generation leaves the other intact")
		})
	}
}
