package auth

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphauth/internal/domain"
)

func TestResolvePermission_UserAggregatesAcrossGroups(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	u := mustUser(t, m, "alice")
	readers := mustGroup(t, m, "readers")
	writers := mustGroup(t, m, "writers")
	vertices := mustTarget(t, m, "vertices", "graph", domain.Resource{Type: domain.ResourceVertex})
	edges := mustTarget(t, m, "edges", "graph", domain.Resource{Type: domain.ResourceEdge})
	mustBelong(t, m, u.ID, readers.ID)
	mustBelong(t, m, u.ID, writers.ID)
	mustAccess(t, m, readers.ID, vertices.ID, domain.PermRead)
	mustAccess(t, m, writers.ID, edges.ID, domain.PermRead)
	mustAccess(t, m, writers.ID, vertices.ID, domain.PermWrite)

	role, err := m.ResolvePermission(ctx, u)
	require.NoError(t, err)
	require.NotNil(t, role)

	assert.Len(t, role.Resources("graph", domain.PermRead), 2)
	assert.Len(t, role.Resources("graph", domain.PermWrite), 1)
	assert.Empty(t, role.Resources("graph", domain.PermDelete))
}

func TestResolvePermission_UserWithoutGroupsIsEmpty(t *testing.T) {
	m := newTestManager(t)

	u := mustUser(t, m, "alice")
	role, err := m.ResolvePermission(context.Background(), u)
	require.NoError(t, err)
	assert.True(t, role.Empty())
}

func TestResolvePermission_GrantOrderIsIrrelevant(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	t1 := mustTarget(t, m, "t1", "graph", domain.Resource{Type: domain.ResourceVertex})
	t2 := mustTarget(t, m, "t2", "graph", domain.Resource{Type: domain.ResourceEdge})

	alice := mustUser(t, m, "alice")
	ga := mustGroup(t, m, "ga")
	mustBelong(t, m, alice.ID, ga.ID)
	mustAccess(t, m, ga.ID, t1.ID, domain.PermRead)
	mustAccess(t, m, ga.ID, t2.ID, domain.PermRead)

	bob := mustUser(t, m, "bob")
	gb := mustGroup(t, m, "gb")
	mustBelong(t, m, bob.ID, gb.ID)
	mustAccess(t, m, gb.ID, t2.ID, domain.PermRead)
	mustAccess(t, m, gb.ID, t1.ID, domain.PermRead)

	roleA, err := m.ResolvePermission(ctx, alice)
	require.NoError(t, err)
	roleB, err := m.ResolvePermission(ctx, bob)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		roleA.Resources("graph", domain.PermRead),
		roleB.Resources("graph", domain.PermRead))
}

func TestResolvePermission_UserRoleIsCached(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	u := mustUser(t, m, "alice")
	g := mustGroup(t, m, "readers")
	tgt := mustTarget(t, m, "t1", "graph", domain.Resource{Type: domain.ResourceVertex})
	mustBelong(t, m, u.ID, g.ID)
	a := mustAccess(t, m, g.ID, tgt.ID, domain.PermRead)

	first, err := m.ResolvePermission(ctx, u)
	require.NoError(t, err)
	require.Len(t, first.Resources("graph", domain.PermRead), 1)

	// Revoke behind the manager's back: the cached role keeps answering.
	_, err = m.stores.Accesses.Delete(ctx, a.ID)
	require.NoError(t, err)

	cached, err := m.ResolvePermission(ctx, u)
	require.NoError(t, err)
	assert.Len(t, cached.Resources("graph", domain.PermRead), 1)

	// Any manager write invalidates, and the revocation becomes visible.
	mustGroup(t, m, "unrelated")
	fresh, err := m.ResolvePermission(ctx, u)
	require.NoError(t, err)
	assert.Empty(t, fresh.Resources("graph", domain.PermRead))
}

func TestResolvePermission_TargetSeesOwnResources(t *testing.T) {
	m := newTestManager(t)

	res := []domain.Resource{{Type: domain.ResourceVertex}, {Type: domain.ResourceEdge}}
	tgt := mustTarget(t, m, "t1", "graph", res...)

	role, err := m.ResolvePermission(context.Background(), tgt)
	require.NoError(t, err)
	assert.ElementsMatch(t, res, role.Resources("graph", domain.PermRead))
	assert.Empty(t, role.Resources("graph", domain.PermWrite), "a target's direct view is read only")
}

func TestResolvePermission_GroupAndBelongAndAccess(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	u := mustUser(t, m, "alice")
	g := mustGroup(t, m, "readers")
	tgt := mustTarget(t, m, "t1", "graph", domain.Resource{Type: domain.ResourceVertex})
	b := mustBelong(t, m, u.ID, g.ID)
	a := mustAccess(t, m, g.ID, tgt.ID, domain.PermRead)

	groupRole, err := m.ResolvePermission(ctx, g)
	require.NoError(t, err)
	assert.Len(t, groupRole.Resources("graph", domain.PermRead), 1)

	belongRole, err := m.ResolvePermission(ctx, b)
	require.NoError(t, err)
	assert.Len(t, belongRole.Resources("graph", domain.PermRead), 1)

	accessRole, err := m.ResolvePermission(ctx, a)
	require.NoError(t, err)
	assert.Len(t, accessRole.Resources("graph", domain.PermRead), 1)
}

func TestResolvePermission_DanglingGrantIsIntegrityError(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	g := mustGroup(t, m, "readers")

	// Insert the grant below the manager so endpoint validation is skipped.
	dangling := &domain.Access{
		ID:         domain.NewID(),
		GroupID:    g.ID,
		TargetID:   "missing-target",
		Permission: domain.PermRead,
	}
	require.NoError(t, m.stores.Accesses.Create(ctx, dangling))

	_, err := m.ResolvePermission(ctx, g)
	var integrity *domain.IntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Contains(t, integrity.Message, "missing target")
}
