package domain

import "time"

// ResourceType classifies a protectable object attached to a target.
type ResourceType string

const (
	ResourceAll     ResourceType = "ALL"
	ResourceVertex  ResourceType = "VERTEX"
	ResourceEdge    ResourceType = "EDGE"
	ResourceSchema  ResourceType = "SCHEMA"
	ResourceGremlin ResourceType = "GREMLIN"
	ResourceTask    ResourceType = "TASK"
	ResourceProject ResourceType = "PROJECT"
)

// Resource describes a protectable object: a type, an identifier, and an
// optional property filter expression.
type Resource struct {
	Type   ResourceType `json:"type"`
	ID     string       `json:"id,omitempty"`
	Filter string       `json:"filter,omitempty"`
}

// Key returns a stable identity for set (union) semantics.
func (r Resource) Key() string {
	return string(r.Type) + "\x00" + r.ID + "\x00" + r.Filter
}

// Target is a protected resource scope: a graph plus the resources on it
// that grants may reference.
type Target struct {
	ID        string
	Name      string
	GraphName string
	URL       string
	Resources []Resource
	Creator   string
	CreatedAt time.Time
}

// Validate checks that the target is well-formed for persistence.
func (t *Target) Validate() error {
	if t.Name == "" {
		return ErrValidation("target name is required")
	}
	if t.GraphName == "" {
		return ErrValidation("target graph name is required")
	}
	return nil
}
