package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Validate(t *testing.T) {
	u := &User{Name: "alice", PasswordHash: "hash"}
	require.NoError(t, u.Validate())

	assert.Error(t, (&User{PasswordHash: "hash"}).Validate())
	assert.Error(t, (&User{Name: "alice"}).Validate())
}

func TestTarget_Validate(t *testing.T) {
	tgt := &Target{Name: "t1", GraphName: "g1"}
	require.NoError(t, tgt.Validate())

	assert.Error(t, (&Target{GraphName: "g1"}).Validate())
	assert.Error(t, (&Target{Name: "t1"}).Validate())
}

func TestBelong_Validate(t *testing.T) {
	require.NoError(t, (&Belong{UserID: "u", GroupID: "g"}).Validate())
	assert.Error(t, (&Belong{GroupID: "g"}).Validate())
	assert.Error(t, (&Belong{UserID: "u"}).Validate())
}

func TestAccess_Validate(t *testing.T) {
	require.NoError(t, (&Access{GroupID: "g", TargetID: "t", Permission: PermRead}).Validate())
	assert.Error(t, (&Access{TargetID: "t", Permission: PermRead}).Validate())
	assert.Error(t, (&Access{GroupID: "g", Permission: PermRead}).Validate())
	assert.Error(t, (&Access{GroupID: "g", TargetID: "t", Permission: "OWN"}).Validate())
}

func TestPermission_Valid(t *testing.T) {
	for _, p := range []Permission{PermRead, PermWrite, PermDelete, PermExecute, PermGrant} {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, Permission("").Valid())
	assert.False(t, Permission("read").Valid(), "permission levels are case sensitive")
}

func TestProject_DerivedNames(t *testing.T) {
	p := &Project{Name: "tenant1"}
	assert.Equal(t, "admin_tenant1", p.AdminGroupName())
	assert.Equal(t, "op_tenant1", p.OpGroupName())
	assert.Equal(t, "project_res_tenant1", p.TargetName())
}

func TestProject_HasGraph(t *testing.T) {
	p := &Project{Graphs: []string{"g1", "g2"}}
	assert.True(t, p.HasGraph("g1"))
	assert.False(t, p.HasGraph("g3"))
}

func TestNewID_Unique(t *testing.T) {
	a := NewID()
	b := NewID()
	require.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
