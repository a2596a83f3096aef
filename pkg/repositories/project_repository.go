package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/database"
	"github.com/codemauri/taskify/pkg/models"
)

// ProjectRepository defines the interface for project data access.
// Every method that reads or mutates a single project is scoped by owner:
// a project owned by someone else behaves exactly like a missing one.
type ProjectRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ProjectSummary, error)
	SearchByTitle(ctx context.Context, userID uuid.UUID, query string) ([]*models.ProjectSummary, error)
	GetOwned(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, projectID, userID uuid.UUID, update models.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, projectID, userID uuid.UUID) error
	// IsOwnedBy runs a fresh ownership query on every call.
	IsOwnedBy(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	// Touch refreshes updated_at on an owned project. It doubles as the
	// ownership check (and, on PostgreSQL, row lock) for task mutations.
	Touch(ctx context.Context, projectID, userID uuid.UUID) error
}

type projectRepository struct {
	db *database.DB
}

var _ ProjectRepository = (*projectRepository)(nil)

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectSummarySelect = `
		SELECT p.id, p.title, p.description, p.user_id, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count
		FROM projects p`

func (r *projectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ProjectSummary, error) {
	query := projectSummarySelect + `
		WHERE p.user_id = ?
		ORDER BY p.updated_at DESC, p.seq DESC`

	return r.querySummaries(ctx, "list projects", query, userID)
}

// SearchByTitle matches query as a literal, case-insensitive substring of
// the title. Both sides are folded by the database's LOWER, so an exact
// substring always matches; SQLite folds ASCII letters only.
func (r *projectRepository) SearchByTitle(ctx context.Context, userID uuid.UUID, query string) ([]*models.ProjectSummary, error) {
	q := projectSummarySelect + `
		WHERE p.user_id = ? AND LOWER(p.title) LIKE LOWER(CAST(? AS TEXT)) ESCAPE '\'
		ORDER BY p.updated_at DESC, p.seq DESC`

	return r.querySummaries(ctx, "search projects", q, userID, containsPattern(query))
}

func (r *projectRepository) querySummaries(ctx context.Context, op, query string, args ...any) ([]*models.ProjectSummary, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage(op, err)
	}
	defer rows.Close()

	summaries := make([]*models.ProjectSummary, 0)
	for rows.Next() {
		var count int
		p, err := scanProject(rows, &count)
		if err != nil {
			return nil, apperrors.Storage(op, err)
		}
		summaries = append(summaries, &models.ProjectSummary{Project: *p, TaskCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(op, err)
	}
	return summaries, nil
}

func (r *projectRepository) GetOwned(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, title, description, user_id, created_at, updated_at
		FROM projects
		WHERE id = ? AND user_id = ?`

	p, err := scanProject(r.db.QueryRow(ctx, query, projectID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Storage("get project", err)
	}
	return p, nil
}

// Create inserts a project, assigning its id and timestamps.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	now := database.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	query := `
		INSERT INTO projects (id, title, description, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(ctx, query,
		project.ID,
		project.Title,
		nullableString(project.Description),
		project.UserID,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return apperrors.Storage("create project", err)
	}
	return nil
}

// Update applies the supplied fields and refreshes updated_at in one
// conditional statement, then reloads the row. A null Title is rejected by
// the caller; a null Description clears it.
func (r *projectRepository) Update(ctx context.Context, projectID, userID uuid.UUID, update models.ProjectUpdate) (*models.Project, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if update.Title.Set {
		sets = append(sets, "title = ?")
		args = append(args, update.Title.Value)
	}
	if update.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, nullableString(update.Description.Ptr()))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, database.Now(), projectID, userID)

	query := "UPDATE projects SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"

	var project *models.Project
	err := r.db.WithTx(ctx, func(ctx context.Context) error {
		result, err := r.db.Exec(ctx, query, args...)
		if err != nil {
			return apperrors.Storage("update project", err)
		}
		if err := requireAffected(result, "update project"); err != nil {
			return err
		}
		project, err = r.GetOwned(ctx, projectID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = ? AND user_id = ?`, projectID, userID)
	if err != nil {
		return apperrors.Storage("delete project", err)
	}
	return requireAffected(result, "delete project")
}

func (r *projectRepository) IsOwnedBy(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects WHERE id = ? AND user_id = ?`,
		projectID, userID,
	).Scan(&count)
	if err != nil {
		return false, apperrors.Storage("verify project ownership", err)
	}
	return count > 0, nil
}

func (r *projectRepository) Touch(ctx context.Context, projectID, userID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE projects SET updated_at = ? WHERE id = ? AND user_id = ?`,
		database.Now(), projectID, userID,
	)
	if err != nil {
		return apperrors.Storage("touch project", err)
	}
	return requireAffected(result, "touch project")
}

// requireAffected maps zero affected rows to ErrNotFound.
func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage(op, err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
