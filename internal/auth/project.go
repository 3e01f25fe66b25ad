package auth

import (
	"context"

	"graphauth/internal/domain"
)

// CreateProject creates the tenancy unit and every record it owns in one
// transactional unit: the admin and op groups (unless caller-supplied ids
// are reused), the project record, a target scoped to the project with one
// resource describing the project itself, the four grants (admin:
// WRITE+READ+DELETE, op: READ), and the final target-id update on the
// project record. Either all of it commits or none of it does.
func (m *Manager) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m.invalidateCache()

	err := m.tx.RunInTx(ctx, func(s *domain.Stores) error {
		if p.AdminGroupID == "" {
			admin := &domain.Group{Name: p.AdminGroupName(), Creator: p.Creator}
			prepare(&admin.ID, &admin.CreatedAt)
			if err := s.Groups.Create(ctx, admin); err != nil {
				return err
			}
			p.AdminGroupID = admin.ID
		}
		if p.OpGroupID == "" {
			op := &domain.Group{Name: p.OpGroupName(), Creator: p.Creator}
			prepare(&op.ID, &op.CreatedAt)
			if err := s.Groups.Create(ctx, op); err != nil {
				return err
			}
			p.OpGroupID = op.ID
		}

		prepare(&p.ID, &p.CreatedAt)
		if err := s.Projects.Create(ctx, p); err != nil {
			return err
		}

		target := &domain.Target{
			Name:      p.TargetName(),
			GraphName: m.graphName,
			URL:       m.targetURL,
			Resources: []domain.Resource{{Type: domain.ResourceProject, ID: p.ID}},
			Creator:   p.Creator,
		}
		prepare(&target.ID, &target.CreatedAt)
		if err := s.Targets.Create(ctx, target); err != nil {
			return err
		}

		grants := []domain.Permission{domain.PermWrite, domain.PermRead, domain.PermDelete}
		for _, perm := range grants {
			if err := createProjectAccess(ctx, s, p.AdminGroupID, target.ID, perm, p.Creator); err != nil {
				return err
			}
		}
		if err := createProjectAccess(ctx, s, p.OpGroupID, target.ID, domain.PermRead, p.Creator); err != nil {
			return err
		}

		created, err := s.Projects.Get(ctx, p.ID)
		if err != nil {
			return err
		}
		if created == nil {
			return domain.ErrIntegrity("create project failed: %s not readable after insert", p.ID)
		}
		created.TargetID = target.ID
		if err := s.Projects.Update(ctx, created); err != nil {
			return err
		}
		p.TargetID = target.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func createProjectAccess(ctx context.Context, s *domain.Stores, groupID, targetID string, perm domain.Permission, creator string) error {
	a := &domain.Access{
		GroupID:    groupID,
		TargetID:   targetID,
		Permission: perm,
		Creator:    creator,
	}
	prepare(&a.ID, &a.CreatedAt)
	return s.Accesses.Create(ctx, a)
}

// DeleteProject removes the project and the records its lifecycle owns:
// admin group, op group, target, and the edges incident to them. It fails
// while any graph name is still bound. The whole removal is one
// transactional unit under the project's write lock.
func (m *Manager) DeleteProject(ctx context.Context, id string) (*domain.Project, error) {
	unlock := m.projectLocks.lock(id)
	defer unlock()

	m.invalidateCache()

	var deleted *domain.Project
	err := m.tx.RunInTx(ctx, func(s *domain.Stores) error {
		p, err := s.Projects.Get(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrValidation("project %q not found", id)
		}
		if len(p.Graphs) > 0 {
			return domain.ErrAccessDenied("project %q still has bound graphs, unbind them before delete", id)
		}

		deleted, err = s.Projects.Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted == nil {
			return domain.ErrIntegrity("deleting project %q failed", id)
		}
		if deleted.AdminGroupID == "" {
			return domain.ErrIntegrity("deleting project %q failed: admin group id is empty", id)
		}
		if deleted.OpGroupID == "" {
			return domain.ErrIntegrity("deleting project %q failed: op group id is empty", id)
		}
		if deleted.TargetID == "" {
			return domain.ErrIntegrity("deleting project %q failed: target id is empty", id)
		}

		for _, groupID := range []string{deleted.AdminGroupID, deleted.OpGroupID} {
			if err := deleteGroupEdges(ctx, s, groupID); err != nil {
				return err
			}
			if _, err := s.Groups.Delete(ctx, groupID); err != nil {
				return err
			}
		}
		if err := deleteTargetEdges(ctx, s, deleted.TargetID); err != nil {
			return err
		}
		_, err = s.Targets.Delete(ctx, deleted.TargetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// deleteGroupEdges drops the membership and grant edges incident to a
// group, mirroring the edge cascade a vertex delete has in a graph store.
func deleteGroupEdges(ctx context.Context, s *domain.Stores, groupID string) error {
	belongs, err := s.Belongs.ListByGroup(ctx, groupID, -1)
	if err != nil {
		return err
	}
	for _, b := range belongs {
		if _, err := s.Belongs.Delete(ctx, b.ID); err != nil {
			return err
		}
	}
	accesses, err := s.Accesses.ListByGroup(ctx, groupID, -1)
	if err != nil {
		return err
	}
	for _, a := range accesses {
		if _, err := s.Accesses.Delete(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func deleteTargetEdges(ctx context.Context, s *domain.Stores, targetID string) error {
	accesses, err := s.Accesses.ListByTarget(ctx, targetID, -1)
	if err != nil {
		return err
	}
	for _, a := range accesses {
		if _, err := s.Accesses.Delete(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProjectDescription rewrites the project description under the
// project's write lock.
func (m *Manager) UpdateProjectDescription(ctx context.Context, id, description string) (*domain.Project, error) {
	if description == "" {
		return nil, domain.ErrValidation("project description is required")
	}

	unlock := m.projectLocks.lock(id)
	defer unlock()

	p, err := m.stores.Projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrValidation("project %q not found", id)
	}
	p.Description = description
	if err := m.stores.Projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProjectAddGraph binds a graph name to the project. Binding an
// already-bound name is a precondition violation.
func (m *Manager) UpdateProjectAddGraph(ctx context.Context, id, graph string) (*domain.Project, error) {
	if graph == "" {
		return nil, domain.ErrValidation("graph name is required")
	}

	unlock := m.projectLocks.lock(id)
	defer unlock()

	p, err := m.stores.Projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrValidation("project %q not found", id)
	}
	if p.HasGraph(graph) {
		return nil, domain.ErrValidation("graph %q is already bound to project %q", graph, id)
	}
	p.Graphs = append(p.Graphs, graph)
	if err := m.stores.Projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProjectRemoveGraph unbinds a graph name. Removing a name that is
// not bound is a no-op returning the unchanged project, not an error.
func (m *Manager) UpdateProjectRemoveGraph(ctx context.Context, id, graph string) (*domain.Project, error) {
	if graph == "" {
		return nil, domain.ErrValidation("graph name is required")
	}

	unlock := m.projectLocks.lock(id)
	defer unlock()

	p, err := m.stores.Projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrValidation("project %q not found", id)
	}
	if !p.HasGraph(graph) {
		return p, nil
	}
	kept := p.Graphs[:0]
	for _, g := range p.Graphs {
		if g != graph {
			kept = append(kept, g)
		}
	}
	p.Graphs = kept
	if err := m.stores.Projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *Manager) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return m.stores.Projects.Get(ctx, id)
}

func (m *Manager) ListAllProjects(ctx context.Context, limit int64) ([]domain.Project, error) {
	return m.stores.Projects.ListAll(ctx, limit)
}
