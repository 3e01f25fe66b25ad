package repository

import (
	"context"
	"database/sql"
	"errors"

	"graphauth/internal/domain"
)

var _ domain.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implements domain.ProjectRepository using SQLite. The bound
// graph set is stored as a JSON column.
type ProjectRepo struct {
	q DBTX
}

// NewProjectRepo creates a new ProjectRepo.
func NewProjectRepo(q DBTX) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id, name, description, admin_group_id, op_group_id, target_id, graphs, creator, created_at`

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	graphs, err := marshalJSON(p.Graphs)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.AdminGroupID, p.OpGroupID, p.TargetID, graphs, p.Creator, p.CreatedAt)
	return mapDBError(err)
}

func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	graphs, err := marshalJSON(p.Graphs)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx,
		`UPDATE projects SET description = ?, admin_group_id = ?, op_group_id = ?, target_id = ?, graphs = ? WHERE id = ?`,
		p.Description, p.AdminGroupID, p.OpGroupID, p.TargetID, graphs, p.ID)
	return mapDBError(err)
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) (*domain.Project, error) {
	p, err := r.Get(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return nil, mapDBError(err)
	}
	return p, nil
}

func (r *ProjectRepo) Get(ctx context.Context, id string) (*domain.Project, error) {
	var (
		p      domain.Project
		graphs string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.AdminGroupID, &p.OpGroupID, &p.TargetID, &graphs, &p.Creator, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapDBError(err)
	}
	if err := unmarshalJSON(graphs, &p.Graphs); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) ListAll(ctx context.Context, limit int64) ([]domain.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY id`+limitClause(limit))
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	var projects []domain.Project
	for rows.Next() {
		var (
			p      domain.Project
			graphs string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.AdminGroupID, &p.OpGroupID, &p.TargetID, &graphs, &p.Creator, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(graphs, &p.Graphs); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
