package domain

import "context"

// Repositories return (nil, nil) when a point lookup finds nothing; absence
// is a result, not an error. ListAll limits below zero mean unbounded.

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
	List(ctx context.Context, ids []string) ([]User, error)
	ListAll(ctx context.Context, limit int64) ([]User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// GroupRepository persists groups.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) error
	Update(ctx context.Context, g *Group) error
	Delete(ctx context.Context, id string) (*Group, error)
	Get(ctx context.Context, id string) (*Group, error)
	List(ctx context.Context, ids []string) ([]Group, error)
	ListAll(ctx context.Context, limit int64) ([]Group, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// TargetRepository persists targets.
type TargetRepository interface {
	Create(ctx context.Context, t *Target) error
	Update(ctx context.Context, t *Target) error
	Delete(ctx context.Context, id string) (*Target, error)
	Get(ctx context.Context, id string) (*Target, error)
	List(ctx context.Context, ids []string) ([]Target, error)
	ListAll(ctx context.Context, limit int64) ([]Target, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// BelongRepository persists membership edges and supports directional
// traversal from either endpoint.
type BelongRepository interface {
	Create(ctx context.Context, b *Belong) error
	Update(ctx context.Context, b *Belong) error
	Delete(ctx context.Context, id string) (*Belong, error)
	Get(ctx context.Context, id string) (*Belong, error)
	List(ctx context.Context, ids []string) ([]Belong, error)
	ListAll(ctx context.Context, limit int64) ([]Belong, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]Belong, error)
	ListByGroup(ctx context.Context, groupID string, limit int64) ([]Belong, error)
}

// AccessRepository persists grant edges and supports directional traversal
// from either endpoint.
type AccessRepository interface {
	Create(ctx context.Context, a *Access) error
	Update(ctx context.Context, a *Access) error
	Delete(ctx context.Context, id string) (*Access, error)
	Get(ctx context.Context, id string) (*Access, error)
	List(ctx context.Context, ids []string) ([]Access, error)
	ListAll(ctx context.Context, limit int64) ([]Access, error)
	ListByGroup(ctx context.Context, groupID string, limit int64) ([]Access, error)
	ListByTarget(ctx context.Context, targetID string, limit int64) ([]Access, error)
}

// ProjectRepository persists projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	ListAll(ctx context.Context, limit int64) ([]Project, error)
}

// Stores bundles every repository over one storage scope. A Stores value is
// bound either to the base connection or, inside a transactional unit, to
// the unit's transaction.
type Stores struct {
	Users    UserRepository
	Groups   GroupRepository
	Targets  TargetRepository
	Belongs  BelongRepository
	Accesses AccessRepository
	Projects ProjectRepository
}

// TxRunner executes a unit of work against transaction-bound stores. On a
// nil return the unit's mutations commit atomically; on error (or a panic
// inside the unit) they roll back and the failure surfaces wrapped in
// *TransactionError.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(s *Stores) error) error
}
