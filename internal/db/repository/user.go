package repository

import (
	"context"
	"database/sql"
	"errors"

	"graphauth/internal/domain"
)

var _ domain.UserRepository = (*UserRepo)(nil)

// UserRepo implements domain.UserRepository using SQLite.
type UserRepo struct {
	q DBTX
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(q DBTX) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, name, password_hash, creator, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.PasswordHash, u.Creator, u.CreatedAt)
	return mapDBError(err)
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE users SET name = ?, password_hash = ? WHERE id = ?`,
		u.Name, u.PasswordHash, u.ID)
	return mapDBError(err)
}

func (r *UserRepo) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.Get(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return nil, mapDBError(err)
	}
	return u, nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	return r.scanOne(r.q.QueryRowContext(ctx,
		`SELECT id, name, password_hash, creator, created_at FROM users WHERE id = ?`, id))
}

func (r *UserRepo) GetByName(ctx context.Context, name string) (*domain.User, error) {
	return r.scanOne(r.q.QueryRowContext(ctx,
		`SELECT id, name, password_hash, creator, created_at FROM users WHERE name = ?`, name))
}

func (r *UserRepo) List(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, password_hash, creator, created_at FROM users WHERE id IN (`+inPlaceholders(len(ids))+`)`,
		idArgs(ids)...)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *UserRepo) ListAll(ctx context.Context, limit int64) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, password_hash, creator, created_at FROM users ORDER BY id`+limitClause(limit))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.scanAll(rows)
}

func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&cnt); err != nil {
		return false, mapDBError(err)
	}
	return cnt > 0, nil
}

func (r *UserRepo) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Creator, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapDBError(err)
	}
	return &u, nil
}

func (r *UserRepo) scanAll(rows *sql.Rows) ([]domain.User, error) {
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Creator, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
