// Package auth implements the authorization core: identity, membership, and
// grant lifecycle, credential matching, project tenancy, and resolution of
// a subject's effective permissions.
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"graphauth/internal/cache"
	"graphauth/internal/db"
	"graphauth/internal/db/repository"
	"graphauth/internal/domain"
)

// CacheExpiry is how long identity, credential, and resolved-role cache
// entries live without being invalidated by a write.
const CacheExpiry = 24 * time.Hour

const defaultTargetURL = "localhost:8080"

// Manager orchestrates the auth stores. Single-entity mutations delegate to
// one repository and coarsely invalidate the lookup caches; composite
// project operations run inside one transactional unit under a per-project
// write lock.
type Manager struct {
	sqldb  *sql.DB
	stores *domain.Stores
	tx     domain.TxRunner
	log    *slog.Logger

	graphName string
	targetURL string

	users *cache.Cache[*domain.User]           // name -> user
	pwd   *cache.Cache[string]                 // user id -> verified plaintext credential
	roles *cache.Cache[*domain.RolePermission] // user id -> resolved role
	sf    singleflight.Group

	comparer PasswordComparer
	logins   *loginLimiter

	projectLocks keyedLock
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for transaction diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithGraphName sets the tenant graph namespace the manager is scoped to.
func WithGraphName(name string) Option {
	return func(m *Manager) { m.graphName = name }
}

// WithTargetURL sets the endpoint recorded on project-owned targets.
func WithTargetURL(url string) Option {
	return func(m *Manager) { m.targetURL = url }
}

// WithCacheTTL overrides the lookup cache expiry.
func WithCacheTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.users = cache.New[*domain.User](ttl)
		m.pwd = cache.New[string](ttl)
		m.roles = cache.New[*domain.RolePermission](ttl)
	}
}

// WithComparer replaces the password comparator.
func WithComparer(c PasswordComparer) Option {
	return func(m *Manager) { m.comparer = c }
}

// WithLoginRate bounds hash comparisons per user to r per second with the
// given burst. r <= 0 disables throttling.
func WithLoginRate(r float64, burst int) Option {
	return func(m *Manager) { m.logins = newLoginLimiter(r, burst) }
}

// WithStores replaces the repository set and transaction runner. Intended
// for tests that inject failures.
func WithStores(s *domain.Stores, tx domain.TxRunner) Option {
	return func(m *Manager) {
		m.stores = s
		m.tx = tx
	}
}

// New creates a Manager over the given write connection.
func New(sqldb *sql.DB, opts ...Option) *Manager {
	m := &Manager{
		sqldb:     sqldb,
		log:       slog.Default(),
		graphName: "graph",
		targetURL: defaultTargetURL,
		users:     cache.New[*domain.User](CacheExpiry),
		pwd:       cache.New[string](CacheExpiry),
		roles:     cache.New[*domain.RolePermission](CacheExpiry),
		comparer:  BcryptComparer{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.stores == nil {
		m.stores = repository.NewStores(sqldb)
	}
	if m.tx == nil {
		m.tx = repository.NewTx(sqldb, m.log)
	}
	return m
}

// EnsureSchema initializes the auth schema. It is idempotent (applied
// migrations are skipped) and invalidates the caches first, replacing the
// store-init listener of earlier designs with an explicit call.
func (m *Manager) EnsureSchema(ctx context.Context) error {
	if m.sqldb == nil {
		return fmt.Errorf("ensure schema: no database connection")
	}
	m.invalidateCache()
	return db.RunMigrations(m.sqldb)
}

// Close releases in-process state. There is no ambient listener registry to
// unregister; the caches are dropped so a reused Manager starts cold.
func (m *Manager) Close() error {
	m.invalidateCache()
	return nil
}

// invalidateCache clears all lookup caches. Every identity-affecting write
// calls it unconditionally: the design trades spurious misses for not
// tracking fine-grained dependency keys.
func (m *Manager) invalidateCache() {
	m.users.Clear()
	m.pwd.Clear()
	m.roles.Clear()
}

// prepare fills server-assigned fields on a new entity.
func prepare(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = domain.NewID()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}

// BootstrapAdmin creates the named administrator with the supplied password
// hash unless a user of that name already exists. Idempotent; meant to run
// right after EnsureSchema on a fresh store.
func (m *Manager) BootstrapAdmin(ctx context.Context, name, passwordHash string) (*domain.User, error) {
	if name == "" {
		name = "admin"
	}
	existing, err := m.stores.Users.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return m.CreateUser(ctx, &domain.User{
		Name:         name,
		PasswordHash: passwordHash,
		Creator:      "system",
	})
}

// --- Users ---

func (m *Manager) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	m.invalidateCache()
	prepare(&u.ID, &u.CreatedAt)
	if err := m.stores.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (m *Manager) UpdateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u.ID == "" {
		return nil, domain.ErrValidation("user id is required")
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	m.invalidateCache()
	existing, err := m.stores.Users.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound("user %s not found", u.ID)
	}
	if err := m.stores.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (m *Manager) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	m.invalidateCache()
	return m.stores.Users.Delete(ctx, id)
}

func (m *Manager) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return m.stores.Users.Get(ctx, id)
}

// FindUserByName resolves a user by unique name through the identity cache.
// Concurrent misses for the same name share one store lookup.
func (m *Manager) FindUserByName(ctx context.Context, name string) (*domain.User, error) {
	if u, ok := m.users.Get(name); ok {
		return u, nil
	}
	v, err, _ := m.sf.Do("user:"+name, func() (any, error) {
		u, err := m.stores.Users.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if u != nil {
			m.users.Set(name, u)
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.User), nil
}

func (m *Manager) ListUsers(ctx context.Context, ids []string) ([]domain.User, error) {
	return m.stores.Users.List(ctx, ids)
}

func (m *Manager) ListAllUsers(ctx context.Context, limit int64) ([]domain.User, error) {
	return m.stores.Users.ListAll(ctx, limit)
}

// --- Groups ---

func (m *Manager) CreateGroup(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	m.invalidateCache()
	prepare(&g.ID, &g.CreatedAt)
	if err := m.stores.Groups.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (m *Manager) UpdateGroup(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	if g.ID == "" {
		return nil, domain.ErrValidation("group id is required")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	m.invalidateCache()
	exists, err := m.stores.Groups.Exists(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound("group %s not found", g.ID)
	}
	if err := m.stores.Groups.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (m *Manager) DeleteGroup(ctx context.Context, id string) (*domain.Group, error) {
	m.invalidateCache()
	return m.stores.Groups.Delete(ctx, id)
}

func (m *Manager) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return m.stores.Groups.Get(ctx, id)
}

func (m *Manager) ListGroups(ctx context.Context, ids []string) ([]domain.Group, error) {
	return m.stores.Groups.List(ctx, ids)
}

func (m *Manager) ListAllGroups(ctx context.Context, limit int64) ([]domain.Group, error) {
	return m.stores.Groups.ListAll(ctx, limit)
}

// --- Targets ---

func (m *Manager) CreateTarget(ctx context.Context, t *domain.Target) (*domain.Target, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	m.invalidateCache()
	prepare(&t.ID, &t.CreatedAt)
	if err := m.stores.Targets.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (m *Manager) UpdateTarget(ctx context.Context, t *domain.Target) (*domain.Target, error) {
	if t.ID == "" {
		return nil, domain.ErrValidation("target id is required")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	m.invalidateCache()
	exists, err := m.stores.Targets.Exists(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound("target %s not found", t.ID)
	}
	if err := m.stores.Targets.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (m *Manager) DeleteTarget(ctx context.Context, id string) (*domain.Target, error) {
	m.invalidateCache()
	return m.stores.Targets.Delete(ctx, id)
}

func (m *Manager) GetTarget(ctx context.Context, id string) (*domain.Target, error) {
	return m.stores.Targets.Get(ctx, id)
}

func (m *Manager) ListTargets(ctx context.Context, ids []string) ([]domain.Target, error) {
	return m.stores.Targets.List(ctx, ids)
}

func (m *Manager) ListAllTargets(ctx context.Context, limit int64) ([]domain.Target, error) {
	return m.stores.Targets.ListAll(ctx, limit)
}

// --- Belongs ---

// CreateBelong persists a membership edge. Both endpoints must already
// exist; a dangling reference is rejected before any write.
func (m *Manager) CreateBelong(ctx context.Context, b *domain.Belong) (*domain.Belong, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	m.invalidateCache()
	ok, err := m.stores.Users.Exists(ctx, b.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrValidation("not exists user %q", b.UserID)
	}
	ok, err = m.stores.Groups.Exists(ctx, b.GroupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrValidation("not exists group %q", b.GroupID)
	}
	prepare(&b.ID, &b.CreatedAt)
	if err := m.stores.Belongs.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *Manager) UpdateBelong(ctx context.Context, b *domain.Belong) (*domain.Belong, error) {
	if b.ID == "" {
		return nil, domain.ErrValidation("belong id is required")
	}
	m.invalidateCache()
	existing, err := m.stores.Belongs.Get(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound("belong %s not found", b.ID)
	}
	if err := m.stores.Belongs.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *Manager) DeleteBelong(ctx context.Context, id string) (*domain.Belong, error) {
	m.invalidateCache()
	return m.stores.Belongs.Delete(ctx, id)
}

func (m *Manager) GetBelong(ctx context.Context, id string) (*domain.Belong, error) {
	return m.stores.Belongs.Get(ctx, id)
}

func (m *Manager) ListBelong(ctx context.Context, ids []string) ([]domain.Belong, error) {
	return m.stores.Belongs.List(ctx, ids)
}

func (m *Manager) ListAllBelong(ctx context.Context, limit int64) ([]domain.Belong, error) {
	return m.stores.Belongs.ListAll(ctx, limit)
}

func (m *Manager) ListBelongByUser(ctx context.Context, userID string, limit int64) ([]domain.Belong, error) {
	return m.stores.Belongs.ListByUser(ctx, userID, limit)
}

func (m *Manager) ListBelongByGroup(ctx context.Context, groupID string, limit int64) ([]domain.Belong, error) {
	return m.stores.Belongs.ListByGroup(ctx, groupID, limit)
}

// --- Accesses ---

// CreateAccess persists a grant edge. Both endpoints must already exist; a
// dangling reference is rejected before any write.
func (m *Manager) CreateAccess(ctx context.Context, a *domain.Access) (*domain.Access, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	m.invalidateCache()
	ok, err := m.stores.Groups.Exists(ctx, a.GroupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrValidation("not exists group %q", a.GroupID)
	}
	ok, err = m.stores.Targets.Exists(ctx, a.TargetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrValidation("not exists target %q", a.TargetID)
	}
	prepare(&a.ID, &a.CreatedAt)
	if err := m.stores.Accesses.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (m *Manager) UpdateAccess(ctx context.Context, a *domain.Access) (*domain.Access, error) {
	if a.ID == "" {
		return nil, domain.ErrValidation("access id is required")
	}
	if !a.Permission.Valid() {
		return nil, domain.ErrValidation("access permission %q is not valid", a.Permission)
	}
	m.invalidateCache()
	existing, err := m.stores.Accesses.Get(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound("access %s not found", a.ID)
	}
	if err := m.stores.Accesses.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (m *Manager) DeleteAccess(ctx context.Context, id string) (*domain.Access, error) {
	m.invalidateCache()
	return m.stores.Accesses.Delete(ctx, id)
}

func (m *Manager) GetAccess(ctx context.Context, id string) (*domain.Access, error) {
	return m.stores.Accesses.Get(ctx, id)
}

func (m *Manager) ListAccess(ctx context.Context, ids []string) ([]domain.Access, error) {
	return m.stores.Accesses.List(ctx, ids)
}

func (m *Manager) ListAllAccess(ctx context.Context, limit int64) ([]domain.Access, error) {
	return m.stores.Accesses.ListAll(ctx, limit)
}

func (m *Manager) ListAccessByGroup(ctx context.Context, groupID string, limit int64) ([]domain.Access, error) {
	return m.stores.Accesses.ListByGroup(ctx, groupID, limit)
}

func (m *Manager) ListAccessByTarget(ctx context.Context, targetID string, limit int64) ([]domain.Access, error) {
	return m.stores.Accesses.ListByTarget(ctx, targetID, limit)
}
