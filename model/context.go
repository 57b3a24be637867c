package model

import "github.com/geobrowser/grc-20/ids"

// ContextEdge is one hop of a Context path: a relation-type-tagged edge to
// the next entity along the path.
type ContextEdge struct {
	TypeID       ids.ID
	ToEntityID   ids.ID
}

// Context is a rooted path from a root entity, via relation-type-tagged
// edges, to the entity being changed. Mutating ops
// reference a Context by index into the edit-wide contexts table.
type Context struct {
	RootID ids.ID
	Edges  []ContextEdge
}

// Equal reports structural equality, used by dict.Builder.AddContext
// to deduplicate contexts.
func (c Context) Equal(other Context) bool {
	if c.RootID != other.RootID || len(c.Edges) != len(other.Edges) {
		return false
	}
	for i := range c.Edges {
		if c.Edges[i] != other.Edges[i] {
			return false
		}
	}

	return true
}
