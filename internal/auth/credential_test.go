package auth

import (
	"context"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"graphauth/internal/domain"
)

// plainComparer treats the stored hash as the plaintext itself and counts
// every comparison.
type plainComparer struct {
	calls atomic.Int64
}

func (c *plainComparer) Compare(hash, candidate string) bool {
	c.calls.Add(1)
	return hash == candidate
}

func TestMatchCredential_Validation(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	var validation *domain.ValidationError
	_, err := m.MatchCredential(ctx, "", "pw")
	require.ErrorAs(t, err, &validation)
	_, err = m.MatchCredential(ctx, "alice", "")
	require.ErrorAs(t, err, &validation)
}

func TestMatchCredential_UnknownUser(t *testing.T) {
	m := newTestManager(t)

	u, err := m.MatchCredential(context.Background(), "nobody", "pw")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestMatchCredential_WrongPassword(t *testing.T) {
	cmp := &plainComparer{}
	m := newTestManager(t, WithComparer(cmp))
	ctx := context.Background()

	_, err := m.CreateUser(ctx, &domain.User{Name: "alice", PasswordHash: "secret"})
	require.NoError(t, err)

	u, err := m.MatchCredential(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, int64(1), cmp.calls.Load())
}

func TestMatchCredential_VerifiedCredentialSkipsComparison(t *testing.T) {
	cmp := &plainComparer{}
	m := newTestManager(t, WithComparer(cmp))
	ctx := context.Background()

	_, err := m.CreateUser(ctx, &domain.User{Name: "alice", PasswordHash: "secret"})
	require.NoError(t, err)

	u, err := m.MatchCredential(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, int64(1), cmp.calls.Load())

	// Same candidate again: answered from the credential cache.
	u, err = m.MatchCredential(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(1), cmp.calls.Load())

	// A different candidate never short-circuits.
	missed, err := m.MatchCredential(ctx, "alice", "other")
	require.NoError(t, err)
	assert.Nil(t, missed)
	assert.Equal(t, int64(2), cmp.calls.Load())
}

func TestMatchCredential_MutationDropsCredentialCache(t *testing.T) {
	cmp := &plainComparer{}
	m := newTestManager(t, WithComparer(cmp))
	ctx := context.Background()

	_, err := m.CreateUser(ctx, &domain.User{Name: "alice", PasswordHash: "secret"})
	require.NoError(t, err)

	_, err = m.MatchCredential(ctx, "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, int64(1), cmp.calls.Load())

	mustGroup(t, m, "ops")

	u, err := m.MatchCredential(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(2), cmp.calls.Load(), "invalidation forces a re-comparison")
}

func TestMatchCredential_ThrottlesRepeatedComparisons(t *testing.T) {
	cmp := &plainComparer{}
	m := newTestManager(t, WithComparer(cmp), WithLoginRate(0.001, 1))
	ctx := context.Background()

	_, err := m.CreateUser(ctx, &domain.User{Name: "alice", PasswordHash: "secret"})
	require.NoError(t, err)

	u, err := m.MatchCredential(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = m.MatchCredential(ctx, "alice", "wrong-again")
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, int64(1), cmp.calls.Load(), "the throttled attempt never reaches the comparator")
}

func TestLogin_ResolvesEffectiveRole(t *testing.T) {
	cmp := &plainComparer{}
	m := newTestManager(t, WithComparer(cmp))
	ctx := context.Background()

	u, err := m.CreateUser(ctx, &domain.User{Name: "alice", PasswordHash: "secret"})
	require.NoError(t, err)
	g := mustGroup(t, m, "readers")
	tgt := mustTarget(t, m, "t1", "graph", domain.Resource{Type: domain.ResourceVertex})
	mustBelong(t, m, u.ID, g.ID)
	mustAccess(t, m, g.ID, tgt.ID, domain.PermRead)

	role, err := m.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Len(t, role.Resources("graph", domain.PermRead), 1)
}

func TestLogin_BadCredentialIsNil(t *testing.T) {
	cmp := &plainComparer{}
	m := newTestManager(t, WithComparer(cmp))
	ctx := context.Background()

	_, err := m.CreateUser(ctx, &domain.User{Name: "alice", PasswordHash: "secret"})
	require.NoError(t, err)

	role, err := m.Login(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Nil(t, role)
}

func TestBcryptComparer(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	c := BcryptComparer{}
	assert.True(t, c.Compare(string(hash), "secret"))
	assert.False(t, c.Compare(string(hash), "wrong"))
	assert.False(t, c.Compare("not-a-hash", "secret"))
}
