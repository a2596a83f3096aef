package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/database"
	"github.com/codemauri/taskify/pkg/models"
)

// repoTestContext holds the repositories under test and helpers to build
// fixtures. It runs unchanged against SQLite and PostgreSQL.
type repoTestContext struct {
	t        *testing.T
	db       *database.DB
	users    UserRepository
	projects ProjectRepository
	tasks    TaskRepository
	statuses TaskStatusRepository
}

func newRepoTestContext(t *testing.T, db *database.DB) *repoTestContext {
	return &repoTestContext{
		t:        t,
		db:       db,
		users:    NewUserRepository(db),
		projects: NewProjectRepository(db),
		tasks:    NewTaskRepository(db),
		statuses: NewTaskStatusRepository(db),
	}
}

func (tc *repoTestContext) createUser() *models.User {
	tc.t.Helper()
	u := &models.User{
		Email:        uuid.NewString() + "@example.com",
		Name:         "Test User",
		PasswordHash: "hash",
	}
	require.NoError(tc.t, tc.users.Create(context.Background(), u))
	return u
}

func (tc *repoTestContext) createProject(userID uuid.UUID, title string) *models.Project {
	tc.t.Helper()
	p := &models.Project{Title: title, UserID: userID}
	require.NoError(tc.t, tc.projects.Create(context.Background(), p))
	return p
}

func (tc *repoTestContext) createTask(projectID uuid.UUID, title string, statusID int) *models.Task {
	tc.t.Helper()
	task := &models.Task{Title: title, StatusID: statusID, ProjectID: projectID}
	require.NoError(tc.t, tc.tasks.Create(context.Background(), task))
	return task
}

func runRepositorySuite(t *testing.T, db *database.DB) {
	t.Run("user create and lookup", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		u := tc.createUser()

		byEmail, err := tc.users.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		byID, err := tc.users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, byID.Email)
		assert.Equal(t, "hash", byID.PasswordHash)

		dup := &models.User{Email: u.Email, PasswordHash: "x"}
		assert.ErrorIs(t, tc.users.Create(ctx, dup), apperrors.ErrConflict)

		_, err = tc.users.GetByEmail(ctx, "missing-"+u.Email)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("list is scoped to owner with task counts", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		alice, bob := tc.createUser(), tc.createUser()

		first := tc.createProject(alice.ID, "First")
		second := tc.createProject(alice.ID, "Second")
		tc.createProject(bob.ID, "Bob's")
		tc.createTask(first.ID, "a", models.StatusIncomplete)
		tc.createTask(first.ID, "b", models.StatusDone)

		list, err := tc.projects.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID, "newest first")
		assert.Equal(t, first.ID, list[1].ID)
		assert.Equal(t, 2, list[1].TaskCount)
		assert.Equal(t, 0, list[0].TaskCount)
		for _, p := range list {
			assert.Equal(t, alice.ID, p.UserID)
		}

		empty, err := tc.projects.ListByUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("ties on updated_at break by insertion order", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		u := tc.createUser()
		a := tc.createProject(u.ID, "A")
		b := tc.createProject(u.ID, "B")

		same := database.Now()
		_, err := db.Exec(ctx, "UPDATE projects SET updated_at = ? WHERE user_id = ?", same, u.ID)
		require.NoError(t, err)

		list, err := tc.projects.ListByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, b.ID, list[0].ID)
		assert.Equal(t, a.ID, list[1].ID)
	})

	t.Run("search escapes wildcards and ignores case", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		u := tc.createUser()
		tc.createProject(u.ID, "Launch Plan")
		tc.createProject(u.ID, "100% Done")
		tc.createProject(u.ID, "snake_case")

		got, err := tc.projects.SearchByTitle(ctx, u.ID, "LAUNCH")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Launch Plan", got[0].Title)

		got, err = tc.projects.SearchByTitle(ctx, u.ID, "%")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "100% Done", got[0].Title)

		got, err = tc.projects.SearchByTitle(ctx, u.ID, "_")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "snake_case", got[0].Title)

		got, err = tc.projects.SearchByTitle(ctx, uuid.New(), "launch")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("search matches non-ASCII titles", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		u := tc.createUser()
		tc.createProject(u.ID, "Émile Launch")
		tc.createProject(u.ID, "Plain")

		for _, q := range []string{"Émile", "É", "mile LAUNCH", "Launch"} {
			got, err := tc.projects.SearchByTitle(ctx, u.ID, q)
			require.NoError(t, err)
			require.Len(t, got, 1, "query %q", q)
			assert.Equal(t, "Émile Launch", got[0].Title)
		}
	})

	t.Run("update is conditional on owner", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		owner, other := tc.createUser(), tc.createUser()
		desc := "keep me"
		p := &models.Project{Title: "Original", Description: &desc, UserID: owner.ID}
		require.NoError(t, tc.projects.Create(ctx, p))

		_, err := tc.projects.Update(ctx, p.ID, other.ID, models.ProjectUpdate{Title: models.Some("Hijack")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		time.Sleep(2 * time.Millisecond)
		updated, err := tc.projects.Update(ctx, p.ID, owner.ID, models.ProjectUpdate{Title: models.Some("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "keep me", *updated.Description)
		assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
		assert.Equal(t, owner.ID, updated.UserID)

		cleared, err := tc.projects.Update(ctx, p.ID, owner.ID, models.ProjectUpdate{Description: models.Null[string]()})
		require.NoError(t, err)
		assert.Nil(t, cleared.Description)
		assert.Equal(t, "Renamed", cleared.Title)
	})

	t.Run("delete is conditional on owner and cascades", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		owner, other := tc.createUser(), tc.createUser()
		p := tc.createProject(owner.ID, "Doomed")
		task := tc.createTask(p.ID, "child", models.StatusIncomplete)

		assert.ErrorIs(t, tc.projects.Delete(ctx, p.ID, other.ID), apperrors.ErrNotFound)
		require.NoError(t, tc.projects.Delete(ctx, p.ID, owner.ID))
		assert.ErrorIs(t, tc.projects.Delete(ctx, p.ID, owner.ID), apperrors.ErrNotFound)

		_, err := tc.tasks.Get(ctx, task.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("ownership and touch", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		owner, other := tc.createUser(), tc.createUser()
		p := tc.createProject(owner.ID, "Mine")

		owned, err := tc.projects.IsOwnedBy(ctx, p.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, owned)

		owned, err = tc.projects.IsOwnedBy(ctx, p.ID, other.ID)
		require.NoError(t, err)
		assert.False(t, owned)

		assert.ErrorIs(t, tc.projects.Touch(ctx, p.ID, other.ID), apperrors.ErrNotFound)

		time.Sleep(2 * time.Millisecond)
		require.NoError(t, tc.projects.Touch(ctx, p.ID, owner.ID))
		after, err := tc.projects.GetOwned(ctx, p.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, after.UpdatedAt.After(p.UpdatedAt))
	})

	t.Run("tasks ordered by status precedence then newest", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		u := tc.createUser()
		p := tc.createProject(u.ID, "Ordering")

		done := tc.createTask(p.ID, "done", models.StatusDone)
		oldProgress := tc.createTask(p.ID, "old progress", models.StatusInProgress)
		incomplete := tc.createTask(p.ID, "incomplete", models.StatusIncomplete)
		newProgress := tc.createTask(p.ID, "new progress", models.StatusInProgress)

		list, err := tc.tasks.ListByProject(ctx, p.ID, nil)
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, []uuid.UUID{newProgress.ID, oldProgress.ID, incomplete.ID, done.ID},
			[]uuid.UUID{list[0].ID, list[1].ID, list[2].ID, list[3].ID})
		assert.Equal(t, "In Progress", list[0].Status.Name)

		status := models.StatusDone
		filtered, err := tc.tasks.ListByProject(ctx, p.ID, &status)
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, done.ID, filtered[0].ID)
	})

	t.Run("tasks with equal timestamps keep insertion order after known statuses", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		u := tc.createUser()
		p := tc.createProject(u.ID, "Ties")

		const blocked = 40
		_, err := db.Exec(ctx, "INSERT INTO task_statuses (id, name, sort_order) VALUES (?, ?, ?)", blocked, "Blocked", 4)
		require.NoError(t, err)
		t.Cleanup(func() {
			_, _ = db.Exec(context.Background(), "DELETE FROM tasks WHERE status_id = ?", blocked)
			_, _ = db.Exec(context.Background(), "DELETE FROM task_statuses WHERE id = ?", blocked)
		})

		other := tc.createTask(p.ID, "other", blocked)
		a := tc.createTask(p.ID, "a", models.StatusIncomplete)
		b := tc.createTask(p.ID, "b", models.StatusIncomplete)
		c := tc.createTask(p.ID, "c", models.StatusIncomplete)

		same := database.Now()
		_, err = db.Exec(ctx, "UPDATE tasks SET created_at = ? WHERE project_id = ?", same, p.ID)
		require.NoError(t, err)

		list, err := tc.tasks.ListByProject(ctx, p.ID, nil)
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, []uuid.UUID{c.ID, b.ID, a.ID, other.ID},
			[]uuid.UUID{list[0].ID, list[1].ID, list[2].ID, list[3].ID})
		assert.Equal(t, "Blocked", list[3].Status.Name)
	})

	t.Run("task mutations are conditional on parent", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		owner, other := tc.createUser(), tc.createUser()
		p := tc.createProject(owner.ID, "Parent")
		elsewhere := tc.createProject(other.ID, "Elsewhere")
		task := tc.createTask(p.ID, "t", models.StatusIncomplete)

		pid, err := tc.tasks.OwnedProjectID(ctx, task.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, pid)

		_, err = tc.tasks.OwnedProjectID(ctx, task.ID, other.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		err = tc.tasks.Update(ctx, task.ID, elsewhere.ID, models.TaskUpdate{Title: models.Some("x")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		require.NoError(t, tc.tasks.Update(ctx, task.ID, p.ID, models.TaskUpdate{
			StatusID:    models.Some(models.StatusDone),
			Description: models.Some("<b>hi</b>"),
		}))
		got, err := tc.tasks.Get(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "t", got.Title)
		assert.Equal(t, models.StatusDone, got.StatusID)
		require.NotNil(t, got.Description)
		assert.Equal(t, "<b>hi</b>", *got.Description)
		assert.Equal(t, p.ID, got.ProjectID)

		assert.ErrorIs(t, tc.tasks.Delete(ctx, task.ID, elsewhere.ID), apperrors.ErrNotFound)
		require.NoError(t, tc.tasks.Delete(ctx, task.ID, p.ID))
		_, err = tc.tasks.Get(ctx, task.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("statuses", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()

		list, err := tc.statuses.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "In Progress", list[0].Name)
		assert.Equal(t, "Incomplete", list[1].Name)
		assert.Equal(t, "Done", list[2].Name)

		s, err := tc.statuses.Get(ctx, models.StatusDone)
		require.NoError(t, err)
		assert.Equal(t, "Done", s.Name)

		_, err = tc.statuses.Get(ctx, 99)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("storage faults surface as storage errors", func(t *testing.T) {
		tc := newRepoTestContext(t, db)
		ctx := context.Background()
		u := tc.createUser()
		p := tc.createProject(u.ID, "FK")

		err := tc.tasks.Create(ctx, &models.Task{Title: "bad status", StatusID: 99, ProjectID: p.ID})
		require.Error(t, err)
		assert.True(t, apperrors.IsStorage(err))
		assert.False(t, errors.Is(err, apperrors.ErrNotFound))
	})
}
