package repository

import (
	"context"
	"database/sql"
	"errors"

	"graphauth/internal/domain"
)

var _ domain.AccessRepository = (*AccessRepo)(nil)

// AccessRepo implements domain.AccessRepository using SQLite.
type AccessRepo struct {
	q DBTX
}

// NewAccessRepo creates a new AccessRepo.
func NewAccessRepo(q DBTX) *AccessRepo {
	return &AccessRepo{q: q}
}

const accessColumns = `id, group_id, target_id, permission, description, creator, created_at`

func (r *AccessRepo) Create(ctx context.Context, a *domain.Access) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accesses (`+accessColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.GroupID, a.TargetID, a.Permission, a.Description, a.Creator, a.CreatedAt)
	return mapDBError(err)
}

func (r *AccessRepo) Update(ctx context.Context, a *domain.Access) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE accesses SET permission = ?, description = ? WHERE id = ?`,
		a.Permission, a.Description, a.ID)
	return mapDBError(err)
}

func (r *AccessRepo) Delete(ctx context.Context, id string) (*domain.Access, error) {
	a, err := r.Get(ctx, id)
	if err != nil || a == nil {
		return nil, err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM accesses WHERE id = ?`, id); err != nil {
		return nil, mapDBError(err)
	}
	return a, nil
}

func (r *AccessRepo) Get(ctx context.Context, id string) (*domain.Access, error) {
	var a domain.Access
	err := r.q.QueryRowContext(ctx,
		`SELECT `+accessColumns+` FROM accesses WHERE id = ?`, id).
		Scan(&a.ID, &a.GroupID, &a.TargetID, &a.Permission, &a.Description, &a.Creator, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapDBError(err)
	}
	return &a, nil
}

func (r *AccessRepo) List(ctx context.Context, ids []string) ([]domain.Access, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+accessColumns+` FROM accesses WHERE id IN (`+inPlaceholders(len(ids))+`)`,
		idArgs(ids)...)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *AccessRepo) ListAll(ctx context.Context, limit int64) ([]domain.Access, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+accessColumns+` FROM accesses ORDER BY id`+limitClause(limit))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

// ListByGroup lists grant edges outgoing from a group.
func (r *AccessRepo) ListByGroup(ctx context.Context, groupID string, limit int64) ([]domain.Access, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+accessColumns+` FROM accesses WHERE group_id = ? ORDER BY id`+limitClause(limit), groupID)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

// ListByTarget lists grant edges incoming to a target.
func (r *AccessRepo) ListByTarget(ctx context.Context, targetID string, limit int64) ([]domain.Access, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+accessColumns+` FROM accesses WHERE target_id = ? ORDER BY id`+limitClause(limit), targetID)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *AccessRepo) scanAll(rows *sql.Rows) ([]domain.Access, error) {
	defer rows.Close()
	var accesses []domain.Access
	for rows.Next() {
		var a domain.Access
		if err := rows.Scan(&a.ID, &a.GroupID, &a.TargetID, &a.Permission, &a.Description, &a.Creator, &a.CreatedAt); err != nil {
			return nil, err
		}
		accesses = append(accesses, a)
	}
	return accesses, rows.Err()
}
