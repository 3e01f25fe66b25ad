// Package repository implements the domain repository interfaces on SQLite.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"graphauth/internal/domain"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx. Repositories
// are constructed over it so the same code serves both the base connection
// and a transactional unit.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewStores builds the full repository set over one query surface.
func NewStores(q DBTX) *domain.Stores {
	return &domain.Stores{
		Users:    NewUserRepo(q),
		Groups:   NewGroupRepo(q),
		Targets:  NewTargetRepo(q),
		Belongs:  NewBelongRepo(q),
		Accesses: NewAccessRepo(q),
		Projects: NewProjectRepo(q),
	}
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "resource already exists"}
	}
	return err
}

// limitClause renders a LIMIT fragment; a negative limit means unbounded.
func limitClause(limit int64) string {
	if limit < 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}

// inPlaceholders renders "?, ?, ?" for len(ids) arguments.
func inPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json column: %w", err)
	}
	return string(data), nil
}

func unmarshalJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("unmarshal json column: %w", err)
	}
	return nil
}
