package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePermission_AddUnionsResources(t *testing.T) {
	role := NewRolePermission()
	role.Add("g1", PermRead, []Resource{{Type: ResourceVertex}})
	role.Add("g1", PermRead, []Resource{{Type: ResourceEdge}})

	res := role.Resources("g1", PermRead)
	assert.Len(t, res, 2)
}

func TestRolePermission_AddDeduplicates(t *testing.T) {
	role := NewRolePermission()
	role.Add("g1", PermRead, []Resource{{Type: ResourceVertex, ID: "v1"}})
	role.Add("g1", PermRead, []Resource{{Type: ResourceVertex, ID: "v1"}})

	assert.Len(t, role.Resources("g1", PermRead), 1)

	// Same type, different id is a distinct resource.
	role.Add("g1", PermRead, []Resource{{Type: ResourceVertex, ID: "v2"}})
	assert.Len(t, role.Resources("g1", PermRead), 2)
}

func TestRolePermission_AddIsOrderIndependent(t *testing.T) {
	a := NewRolePermission()
	a.Add("g1", PermRead, []Resource{{Type: ResourceVertex}})
	a.Add("g1", PermRead, []Resource{{Type: ResourceEdge}})
	a.Add("g2", PermWrite, []Resource{{Type: ResourceAll}})

	b := NewRolePermission()
	b.Add("g2", PermWrite, []Resource{{Type: ResourceAll}})
	b.Add("g1", PermRead, []Resource{{Type: ResourceEdge}})
	b.Add("g1", PermRead, []Resource{{Type: ResourceVertex}})

	assert.ElementsMatch(t, a.Resources("g1", PermRead), b.Resources("g1", PermRead))
	assert.ElementsMatch(t, a.Resources("g2", PermWrite), b.Resources("g2", PermWrite))
	assert.ElementsMatch(t, a.Graphs(), b.Graphs())
}

func TestRolePermission_PermissionLevelsAreIndependent(t *testing.T) {
	role := NewRolePermission()
	role.Add("g1", PermRead, []Resource{{Type: ResourceVertex}})
	role.Add("g1", PermWrite, []Resource{{Type: ResourceSchema}})

	assert.Len(t, role.Resources("g1", PermRead), 1)
	assert.Len(t, role.Resources("g1", PermWrite), 1)
	assert.Empty(t, role.Resources("g1", PermDelete))
}

func TestRolePermission_Empty(t *testing.T) {
	role := NewRolePermission()
	assert.True(t, role.Empty())

	role.Add("g1", PermRead, nil)
	assert.False(t, role.Empty())
}

func TestRolePermission_JSONRoundTrip(t *testing.T) {
	role := NewRolePermission()
	role.Add("g1", PermRead, []Resource{{Type: ResourceVertex, ID: "v1", Filter: "label=person"}})
	role.Add("g1", PermExecute, []Resource{{Type: ResourceGremlin}})

	data, err := json.Marshal(role)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"roles"`)

	restored := NewRolePermission()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, role.Resources("g1", PermRead), restored.Resources("g1", PermRead))
	assert.Equal(t, role.Resources("g1", PermExecute), restored.Resources("g1", PermExecute))
}

func TestResource_Key(t *testing.T) {
	a := Resource{Type: ResourceVertex, ID: "v1"}
	b := Resource{Type: ResourceVertex, ID: "v1"}
	c := Resource{Type: ResourceVertex, ID: "v1", Filter: "age>18"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
