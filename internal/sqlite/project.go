package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/specmaker/internal/domain/project"
	"github.com/rpggio/specmaker/internal/repository"
)

const projectColumns = `id, name, description, industry, target_audience, status, created_at, updated_at`

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.Description,
		nullString(proj.Industry),
		nullString(proj.TargetAudience),
		proj.Status,
		formatTime(proj.CreatedAt),
		formatTime(proj.UpdatedAt),
	)
	if err != nil {
		return wrapWriteError("create project", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// List returns all projects, most recently updated first
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY updated_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// Delete removes a project. Zero affected rows is not an error.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		proj           project.Project
		industry       sql.NullString
		targetAudience sql.NullString
		createdAt      string
		updatedAt      string
	)
	if err := row.Scan(
		&proj.ID,
		&proj.Name,
		&proj.Description,
		&industry,
		&targetAudience,
		&proj.Status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if proj.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if proj.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	proj.Industry = stringPtr(industry)
	proj.TargetAudience = stringPtr(targetAudience)

	return &proj, nil
}
