package domain

// Subject is the closed set of entity kinds whose effective permissions can
// be resolved. Only User, Group, Target, Belong, and Access implement it;
// the unexported marker keeps the set sealed to this package.
type Subject interface {
	subjectKind() string
}

func (*User) subjectKind() string   { return "user" }
func (*Group) subjectKind() string  { return "group" }
func (*Target) subjectKind() string { return "target" }
func (*Belong) subjectKind() string { return "belong" }
func (*Access) subjectKind() string { return "access" }
