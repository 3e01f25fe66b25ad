package repository

import (
	"context"
	"database/sql"
	"errors"

	"graphauth/internal/domain"
)

var _ domain.TargetRepository = (*TargetRepo)(nil)

// TargetRepo implements domain.TargetRepository using SQLite. The resource
// descriptor list is stored as a JSON column.
type TargetRepo struct {
	q DBTX
}

// NewTargetRepo creates a new TargetRepo.
func NewTargetRepo(q DBTX) *TargetRepo {
	return &TargetRepo{q: q}
}

func (r *TargetRepo) Create(ctx context.Context, t *domain.Target) error {
	resources, err := marshalJSON(t.Resources)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO targets (id, name, graph_name, url, resources, creator, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.GraphName, t.URL, resources, t.Creator, t.CreatedAt)
	return mapDBError(err)
}

func (r *TargetRepo) Update(ctx context.Context, t *domain.Target) error {
	resources, err := marshalJSON(t.Resources)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx,
		`UPDATE targets SET name = ?, graph_name = ?, url = ?, resources = ? WHERE id = ?`,
		t.Name, t.GraphName, t.URL, resources, t.ID)
	return mapDBError(err)
}

func (r *TargetRepo) Delete(ctx context.Context, id string) (*domain.Target, error) {
	t, err := r.Get(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM targets WHERE id = ?`, id); err != nil {
		return nil, mapDBError(err)
	}
	return t, nil
}

func (r *TargetRepo) Get(ctx context.Context, id string) (*domain.Target, error) {
	var (
		t         domain.Target
		resources string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, graph_name, url, resources, creator, created_at FROM targets WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.GraphName, &t.URL, &resources, &t.Creator, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapDBError(err)
	}
	if err := unmarshalJSON(resources, &t.Resources); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TargetRepo) List(ctx context.Context, ids []string) ([]domain.Target, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, graph_name, url, resources, creator, created_at FROM targets WHERE id IN (`+inPlaceholders(len(ids))+`)`,
		idArgs(ids)...)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *TargetRepo) ListAll(ctx context.Context, limit int64) ([]domain.Target, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, graph_name, url, resources, creator, created_at FROM targets ORDER BY id`+limitClause(limit))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *TargetRepo) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM targets WHERE id = ?`, id).Scan(&cnt); err != nil {
		return false, mapDBError(err)
	}
	return cnt > 0, nil
}

func (r *TargetRepo) scanAll(rows *sql.Rows) ([]domain.Target, error) {
	defer rows.Close()
	var targets []domain.Target
	for rows.Next() {
		var (
			t         domain.Target
			resources string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.GraphName, &t.URL, &resources, &t.Creator, &t.CreatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(resources, &t.Resources); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}
