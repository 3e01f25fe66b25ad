package repository

import (
	"context"
	"database/sql"
	"errors"

	"graphauth/internal/domain"
)

var _ domain.GroupRepository = (*GroupRepo)(nil)

// GroupRepo implements domain.GroupRepository using SQLite.
type GroupRepo struct {
	q DBTX
}

// NewGroupRepo creates a new GroupRepo.
func NewGroupRepo(q DBTX) *GroupRepo {
	return &GroupRepo{q: q}
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO groups (id, name, creator, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.Name, g.Creator, g.CreatedAt)
	return mapDBError(err)
}

func (r *GroupRepo) Update(ctx context.Context, g *domain.Group) error {
	_, err := r.q.ExecContext(ctx, `UPDATE groups SET name = ? WHERE id = ?`, g.Name, g.ID)
	return mapDBError(err)
}

func (r *GroupRepo) Delete(ctx context.Context, id string) (*domain.Group, error) {
	g, err := r.Get(ctx, id)
	if err != nil || g == nil {
		return nil, err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id); err != nil {
		return nil, mapDBError(err)
	}
	return g, nil
}

func (r *GroupRepo) Get(ctx context.Context, id string) (*domain.Group, error) {
	var g domain.Group
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, creator, created_at FROM groups WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &g.Creator, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapDBError(err)
	}
	return &g, nil
}

func (r *GroupRepo) List(ctx context.Context, ids []string) ([]domain.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, creator, created_at FROM groups WHERE id IN (`+inPlaceholders(len(ids))+`)`,
		idArgs(ids)...)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *GroupRepo) ListAll(ctx context.Context, limit int64) ([]domain.Group, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, creator, created_at FROM groups ORDER BY id`+limitClause(limit))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *GroupRepo) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups WHERE id = ?`, id).Scan(&cnt); err != nil {
		return false, mapDBError(err)
	}
	return cnt > 0, nil
}

func (r *GroupRepo) scanAll(rows *sql.Rows) ([]domain.Group, error) {
	defer rows.Close()
	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Creator, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
