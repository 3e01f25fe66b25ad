package auth

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"graphauth/internal/domain"
)

// PasswordComparer checks a candidate credential against a stored hash.
// Hash computation lives outside this package; the manager only verifies.
type PasswordComparer interface {
	Compare(hash, candidate string) bool
}

// BcryptComparer verifies bcrypt hashes.
type BcryptComparer struct{}

func (BcryptComparer) Compare(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

// loginLimiter bounds expensive hash comparisons per user id.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newLoginLimiter(r float64, burst int) *loginLimiter {
	if r <= 0 {
		return nil
	}
	return &loginLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(r),
		burst:    burst,
	}
}

func (l *loginLimiter) allow(userID string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[userID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// MatchCredential resolves the named user and verifies the candidate
// credential. Absent user or mismatch returns (nil, nil): fail closed, not
// an error. A candidate equal to the user's cached previously-verified
// credential succeeds without re-running the hash comparison; the cache
// only ever short-circuits on a value already proven correct, so decisions
// never diverge from what comparison would yield.
func (m *Manager) MatchCredential(ctx context.Context, name, candidate string) (*domain.User, error) {
	if name == "" {
		return nil, domain.ErrValidation("user name is required")
	}
	if candidate == "" {
		return nil, domain.ErrValidation("user password is required")
	}

	user, err := m.FindUserByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if cached, ok := m.pwd.Get(user.ID); ok && cached == candidate {
		return user, nil
	}

	if m.logins != nil && !m.logins.allow(user.ID) {
		return nil, domain.ErrAccessDenied("too many credential attempts for user %q", name)
	}

	if m.comparer.Compare(user.PasswordHash, candidate) {
		m.pwd.Set(user.ID, candidate)
		return user, nil
	}
	return nil, nil
}

// Login verifies the credential and, on success, resolves the user's
// effective permissions. Absent user or mismatch returns (nil, nil).
func (m *Manager) Login(ctx context.Context, name, candidate string) (*domain.RolePermission, error) {
	user, err := m.MatchCredential(ctx, name, candidate)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return m.resolveUserRole(ctx, user)
}
