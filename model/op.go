package model

import "github.com/geobrowser/grc-20/ids"

// OpType is the wire tag for an operation kind.
type OpType uint8

const (
	OpCreateEntity   OpType = 1
	OpUpdateEntity   OpType = 2
	OpDeleteEntity   OpType = 3
	OpRestoreEntity  OpType = 4
	OpCreateRelation OpType = 5
	OpUpdateRelation OpType = 6
	OpDeleteRelation OpType = 7
	OpRestoreRelation OpType = 8
	OpCreateValueRef OpType = 9
)

func (t OpType) String() string {
	switch t {
	case OpCreateEntity:
		return "CreateEntity"
	case OpUpdateEntity:
		return "UpdateEntity"
	case OpDeleteEntity:
		return "DeleteEntity"
	case OpRestoreEntity:
		return "RestoreEntity"
	case OpCreateRelation:
		return "CreateRelation"
	case OpUpdateRelation:
		return "UpdateRelation"
	case OpDeleteRelation:
		return "DeleteRelation"
	case OpRestoreRelation:
		return "RestoreRelation"
	case OpCreateValueRef:
		return "CreateValueRef"
	default:
		return "Unknown"
	}
}

// Op is the sealed interface implemented by every operation kind.
// Concrete ops are always used as values (not pointers) so a decoded op
// list is a plain []Op with no per-op heap allocation beyond the interface
// box itself.
type Op interface {
	OpType() OpType
	isOp()
}

// CreateEntity creates a new entity, or acts as an update (LWW) if the
// entity already exists.
type CreateEntity struct {
	ID     ids.ID
	Values []PropertyValue
	// Context is the optional path from a root entity to ID. Nil means the
	// op carries no context.
	Context *Context
}

func (CreateEntity) OpType() OpType { return OpCreateEntity }
func (CreateEntity) isOp()          {}

// UnsetLanguageKind selects which language slot(s) an UnsetValue clears.
type UnsetLanguageKind uint8

const (
	// UnsetAll clears every language slot for the property (wire: 0xFFFFFFFF).
	UnsetAll UnsetLanguageKind = iota
	// UnsetNonLinguistic clears only the non-linguistic slot (wire: 0).
	UnsetNonLinguistic
	// UnsetSpecific clears one specific language slot (wire: dict index).
	UnsetSpecific
)

// UnsetLanguage specifies which language slot(s) to clear for an UnsetValue.
type UnsetLanguage struct {
	Kind     UnsetLanguageKind
	Language ids.ID // meaningful only when Kind == UnsetSpecific
}

// UnsetValue clears a property's value (optionally one language slot) on an
// entity.
type UnsetValue struct {
	Property ids.ID
	Language UnsetLanguage
}

// UpdateEntity applies value-set and value-unset mutations to an existing
// entity. Application order within the op is unset_values then
// set_properties.
type UpdateEntity struct {
	ID            ids.ID
	SetProperties []PropertyValue
	UnsetValues   []UnsetValue
	Context       *Context
}

func (UpdateEntity) OpType() OpType { return OpUpdateEntity }
func (UpdateEntity) isOp()          {}

// IsEmpty reports whether this update has no actual changes.
func (u UpdateEntity) IsEmpty() bool {
	return len(u.SetProperties) == 0 && len(u.UnsetValues) == 0
}

// DeleteEntity transitions an entity to the DELETED state.
type DeleteEntity struct {
	ID      ids.ID
	Context *Context
}

func (DeleteEntity) OpType() OpType { return OpDeleteEntity }
func (DeleteEntity) isOp()          {}

// RestoreEntity transitions a DELETED entity back to ACTIVE.
type RestoreEntity struct {
	ID      ids.ID
	Context *Context
}

func (RestoreEntity) OpType() OpType { return OpRestoreEntity }
func (RestoreEntity) isOp()          {}

// CreateRelation creates a new relation between two endpoints, implicitly
// creating the reified entity if one isn't given explicitly.
type CreateRelation struct {
	ID           ids.ID
	RelationType ids.ID

	From           ids.ID
	FromIsValueRef bool
	FromSpace      *ids.ID
	FromVersion    *ids.ID

	To           ids.ID
	ToIsValueRef bool
	ToSpace      *ids.ID
	ToVersion    *ids.ID

	// Entity is the explicit reified entity id, or nil to derive one via
	// ids.RelationEntityID.
	Entity *ids.ID
	// Position is the optional fractional-indexing ordering key.
	Position *string

	Context *Context
}

func (CreateRelation) OpType() OpType { return OpCreateRelation }
func (CreateRelation) isOp()          {}

// EntityID returns the relation's reified entity id: Entity if explicit,
// otherwise the deterministic derivation from ID.
func (c CreateRelation) EntityID() ids.ID {
	if c.Entity != nil {
		return *c.Entity
	}

	return ids.RelationEntityID(c.ID)
}

// HasExplicitEntity reports whether Entity was supplied explicitly.
func (c CreateRelation) HasExplicitEntity() bool {
	return c.Entity != nil
}

// UnsetRelationField names a relation field that UpdateRelation can clear.
type UnsetRelationField uint8

const (
	UnsetFromSpace UnsetRelationField = iota
	UnsetFromVersion
	UnsetToSpace
	UnsetToVersion
	UnsetPosition
)

// UpdateRelation mutates a relation's pin/position fields. The structural
// fields (entity, type, from, to) are immutable once created.
type UpdateRelation struct {
	ID ids.ID

	FromSpace   *ids.ID
	FromVersion *ids.ID
	ToSpace     *ids.ID
	ToVersion   *ids.ID
	Position    *string

	Unset   []UnsetRelationField
	Context *Context
}

func (UpdateRelation) OpType() OpType { return OpUpdateRelation }
func (UpdateRelation) isOp()          {}

// IsEmpty reports whether this update has no actual changes.
func (u UpdateRelation) IsEmpty() bool {
	return u.FromSpace == nil && u.FromVersion == nil && u.ToSpace == nil &&
		u.ToVersion == nil && u.Position == nil && len(u.Unset) == 0
}

// DeleteRelation transitions a relation to the DELETED state. The reified
// entity is not affected.
type DeleteRelation struct {
	ID      ids.ID
	Context *Context
}

func (DeleteRelation) OpType() OpType { return OpDeleteRelation }
func (DeleteRelation) isOp()          {}

// RestoreRelation transitions a DELETED relation back to ACTIVE.
type RestoreRelation struct {
	ID      ids.ID
	Context *Context
}

func (RestoreRelation) OpType() OpType { return OpRestoreRelation }
func (RestoreRelation) isOp()          {}

// CreateValueRef creates a referenceable id for a specific value slot, so
// relations can target a value for provenance/confidence/attribution.
type CreateValueRef struct {
	ID       ids.ID
	Entity   ids.ID
	Property ids.ID
	Language *ids.ID
	Space    *ids.ID
	Context  *Context
}

func (CreateValueRef) OpType() OpType { return OpCreateValueRef }
func (CreateValueRef) isOp()          {}
