package repository

import (
	"context"
	"database/sql"
	"errors"

	"graphauth/internal/domain"
)

var _ domain.BelongRepository = (*BelongRepo)(nil)

// BelongRepo implements domain.BelongRepository using SQLite.
type BelongRepo struct {
	q DBTX
}

// NewBelongRepo creates a new BelongRepo.
func NewBelongRepo(q DBTX) *BelongRepo {
	return &BelongRepo{q: q}
}

const belongColumns = `id, user_id, group_id, description, creator, created_at`

func (r *BelongRepo) Create(ctx context.Context, b *domain.Belong) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO belongs (`+belongColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.GroupID, b.Description, b.Creator, b.CreatedAt)
	return mapDBError(err)
}

func (r *BelongRepo) Update(ctx context.Context, b *domain.Belong) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE belongs SET description = ? WHERE id = ?`, b.Description, b.ID)
	return mapDBError(err)
}

func (r *BelongRepo) Delete(ctx context.Context, id string) (*domain.Belong, error) {
	b, err := r.Get(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM belongs WHERE id = ?`, id); err != nil {
		return nil, mapDBError(err)
	}
	return b, nil
}

func (r *BelongRepo) Get(ctx context.Context, id string) (*domain.Belong, error) {
	var b domain.Belong
	err := r.q.QueryRowContext(ctx,
		`SELECT `+belongColumns+` FROM belongs WHERE id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.GroupID, &b.Description, &b.Creator, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapDBError(err)
	}
	return &b, nil
}

func (r *BelongRepo) List(ctx context.Context, ids []string) ([]domain.Belong, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+belongColumns+` FROM belongs WHERE id IN (`+inPlaceholders(len(ids))+`)`,
		idArgs(ids)...)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *BelongRepo) ListAll(ctx context.Context, limit int64) ([]domain.Belong, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+belongColumns+` FROM belongs ORDER BY id`+limitClause(limit))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

// ListByUser lists membership edges outgoing from a user.
func (r *BelongRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]domain.Belong, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+belongColumns+` FROM belongs WHERE user_id = ? ORDER BY id`+limitClause(limit), userID)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

// ListByGroup lists membership edges incoming to a group.
func (r *BelongRepo) ListByGroup(ctx context.Context, groupID string, limit int64) ([]domain.Belong, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+belongColumns+` FROM belongs WHERE group_id = ? ORDER BY id`+limitClause(limit), groupID)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *BelongRepo) scanAll(rows *sql.Rows) ([]domain.Belong, error) {
	defer rows.Close()
	var belongs []domain.Belong
	for rows.Next() {
		var b domain.Belong
		if err := rows.Scan(&b.ID, &b.UserID, &b.GroupID, &b.Description, &b.Creator, &b.CreatedAt); err != nil {
			return nil, err
		}
		belongs = append(belongs, b)
	}
	return belongs, rows.Err()
}
