package domain

import "time"

// Project is a tenancy unit. Its admin group, op group, and target are
// created with it and owned by its lifecycle; AdminGroupID, OpGroupID, and
// TargetID are non-empty on every successfully created project.
type Project struct {
	ID           string
	Name         string
	Description  string
	AdminGroupID string
	OpGroupID    string
	TargetID     string
	Graphs       []string
	Creator      string
	CreatedAt    time.Time
}

// Validate checks that the project is well-formed for creation.
func (p *Project) Validate() error {
	if p.Name == "" {
		return ErrValidation("project name is required")
	}
	return nil
}

// AdminGroupName returns the conventional name for the project's admin group.
func (p *Project) AdminGroupName() string {
	return "admin_" + p.Name
}

// OpGroupName returns the conventional name for the project's op group.
func (p *Project) OpGroupName() string {
	return "op_" + p.Name
}

// TargetName returns the conventional name for the project's own target.
func (p *Project) TargetName() string {
	return "project_res_" + p.Name
}

// HasGraph reports whether the graph name is bound to the project.
func (p *Project) HasGraph(graph string) bool {
	for _, g := range p.Graphs {
		if g == graph {
			return true
		}
	}
	return false
}
