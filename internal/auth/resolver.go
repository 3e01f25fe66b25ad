package auth

import (
	"context"

	"graphauth/internal/domain"
)

// ResolvePermission returns the aggregated permission map for a subject.
// Dispatch is by subject kind:
//   - User: cached role if present, else Belong traversal to the user's
//     groups, Access collection per group, additive aggregation, cache fill.
//   - Target: READ over exactly the target's own resources (direct view).
//   - Group: aggregation over the group's grants.
//   - Belong: aggregation over the referenced group's grants.
//   - Access: aggregation over that single grant.
func (m *Manager) ResolvePermission(ctx context.Context, subject domain.Subject) (*domain.RolePermission, error) {
	switch s := subject.(type) {
	case *domain.User:
		return m.resolveUserRole(ctx, s)
	case *domain.Target:
		role := domain.NewRolePermission()
		role.Add(s.GraphName, domain.PermRead, s.Resources)
		return role, nil
	case *domain.Group:
		accesses, err := m.stores.Accesses.ListByGroup(ctx, s.ID, -1)
		if err != nil {
			return nil, err
		}
		return m.aggregateGrants(ctx, accesses)
	case *domain.Belong:
		accesses, err := m.stores.Accesses.ListByGroup(ctx, s.GroupID, -1)
		if err != nil {
			return nil, err
		}
		return m.aggregateGrants(ctx, accesses)
	case *domain.Access:
		return m.aggregateGrants(ctx, []domain.Access{*s})
	default:
		// The Subject interface is sealed to the five kinds above; reaching
		// here means a new kind was added without a resolution rule.
		return nil, domain.ErrValidation("invalid subject type %T for permission resolution", subject)
	}
}

// resolveUserRole aggregates a user's grants across all groups the user
// belongs to, serving and filling the resolved-role cache.
func (m *Manager) resolveUserRole(ctx context.Context, user *domain.User) (*domain.RolePermission, error) {
	if role, ok := m.roles.Get(user.ID); ok {
		return role, nil
	}

	belongs, err := m.stores.Belongs.ListByUser(ctx, user.ID, -1)
	if err != nil {
		return nil, err
	}
	var accesses []domain.Access
	for _, b := range belongs {
		groupAccesses, err := m.stores.Accesses.ListByGroup(ctx, b.GroupID, -1)
		if err != nil {
			return nil, err
		}
		accesses = append(accesses, groupAccesses...)
	}

	role, err := m.aggregateGrants(ctx, accesses)
	if err != nil {
		return nil, err
	}
	m.roles.Set(user.ID, role)
	return role, nil
}

// aggregateGrants unions each grant's target resources into the map entry
// keyed by (graph name, permission). Aggregation never removes entries.
func (m *Manager) aggregateGrants(ctx context.Context, accesses []domain.Access) (*domain.RolePermission, error) {
	role := domain.NewRolePermission()
	for _, a := range accesses {
		target, err := m.stores.Targets.Get(ctx, a.TargetID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, domain.ErrIntegrity("access %s references missing target %s", a.ID, a.TargetID)
		}
		role.Add(target.GraphName, a.Permission, target.Resources)
	}
	return role, nil
}
