package domain

import "encoding/json"

// RolePermission is the resolved authorization result for a subject:
// a mapping of graph name -> permission level -> set of resources.
// Aggregation is purely additive; resources union with set semantics.
type RolePermission struct {
	roles map[string]map[Permission][]Resource
}

// NewRolePermission returns an empty role permission map.
func NewRolePermission() *RolePermission {
	return &RolePermission{roles: map[string]map[Permission][]Resource{}}
}

// Add unions the resources into the entry for (graph, perm). Duplicate
// resources (by type, id, and filter) are kept once.
func (r *RolePermission) Add(graph string, perm Permission, resources []Resource) {
	perms, ok := r.roles[graph]
	if !ok {
		perms = map[Permission][]Resource{}
		r.roles[graph] = perms
	}
	existing := perms[perm]
	seen := make(map[string]bool, len(existing))
	for _, res := range existing {
		seen[res.Key()] = true
	}
	for _, res := range resources {
		if !seen[res.Key()] {
			seen[res.Key()] = true
			existing = append(existing, res)
		}
	}
	perms[perm] = existing
}

// Resources returns the resource set for (graph, perm), nil when empty.
func (r *RolePermission) Resources(graph string, perm Permission) []Resource {
	return r.roles[graph][perm]
}

// Graphs returns the graph names present in the map.
func (r *RolePermission) Graphs() []string {
	names := make([]string, 0, len(r.roles))
	for g := range r.roles {
		names = append(names, g)
	}
	return names
}

// Empty reports whether no permissions are present.
func (r *RolePermission) Empty() bool {
	return len(r.roles) == 0
}

// MarshalJSON serializes the map as {"roles": {graph: {perm: [resources]}}}.
func (r *RolePermission) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Roles map[string]map[Permission][]Resource `json:"roles"`
	}{Roles: r.roles})
}

// UnmarshalJSON restores a map serialized by MarshalJSON.
func (r *RolePermission) UnmarshalJSON(data []byte) error {
	var wire struct {
		Roles map[string]map[Permission][]Resource `json:"roles"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Roles == nil {
		wire.Roles = map[string]map[Permission][]Resource{}
	}
	r.roles = wire.Roles
	return nil
}
