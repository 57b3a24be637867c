package grc20

import (
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
)

// EditBuilder assembles an Edit without hand-building model package structs
// directly. Methods mutate the builder and return it, so calls chain; the
// zero value is not usable, construct one with NewEdit.
//
// Unlike the Rust reference builder (grc-20's EditBuilder), Go methods take
// a pointer receiver and return the same pointer rather than consuming and
// returning a new value: Go has no move semantics to make a consuming
// builder pull its weight, and a shared pointer lets CreateEntity and
// friends hand a live sub-builder into a closure the way the Rust builder
// hands a fresh owned one.
type EditBuilder struct {
	header   model.Header
	contexts []model.Context
	ops      []model.Op
	err      error
}

// NewEdit starts a builder for a new edit with the given name and author
// list. CreatedAt defaults to zero; set it with CreatedAt before Build if
// the edit needs an advisory timestamp.
func NewEdit(name string, authors ...ids.ID) *EditBuilder {
	return &EditBuilder{
		header: model.Header{
			Name:    name,
			Authors: append([]ids.ID(nil), authors...),
		},
	}
}

// ID sets the edit's own id. Edits are usually identified by their
// canonical encoding's content hash rather than a pre-assigned id, so this
// is optional.
func (b *EditBuilder) ID(id ids.ID) *EditBuilder {
	b.header.ID = id

	return b
}

// CreatedAt sets the edit's advisory creation timestamp, in microseconds
// since the Unix epoch. Never used for conflict resolution.
func (b *EditBuilder) CreatedAt(micros int64) *EditBuilder {
	b.header.CreatedAt = micros

	return b
}

// Ctx builds a Context path from a root entity through zero or more
// relation-type-tagged edges, for use with the mutating ops' context
// parameter.
func Ctx(root ids.ID, edges ...model.ContextEdge) *model.Context {
	return &model.Context{RootID: root, Edges: append([]model.ContextEdge(nil), edges...)}
}

// Edge is a convenience constructor for a single context hop.
func Edge(typeID, toEntityID ids.ID) model.ContextEdge {
	return model.ContextEdge{TypeID: typeID, ToEntityID: toEntityID}
}

func (b *EditBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// CreateEntity appends a CreateEntity op, configured by fn. If the entity
// already exists, applying this op behaves as a last-write-wins update
// (spec-level op semantics; see model.CreateEntity).
func (b *EditBuilder) CreateEntity(id ids.ID, fn func(*EntityBuilder)) *EditBuilder {
	eb := &EntityBuilder{}
	if fn != nil {
		fn(eb)
	}
	b.ops = append(b.ops, model.CreateEntity{ID: id, Values: eb.values, Context: eb.ctx})

	return b
}

// UpdateEntity appends an UpdateEntity op, configured by fn.
func (b *EditBuilder) UpdateEntity(id ids.ID, fn func(*UpdateEntityBuilder)) *EditBuilder {
	ub := &UpdateEntityBuilder{}
	if fn != nil {
		fn(ub)
	}
	b.ops = append(b.ops, model.UpdateEntity{
		ID:            id,
		SetProperties: ub.set,
		UnsetValues:   ub.unset,
		Context:       ub.ctx,
	})

	return b
}

// DeleteEntity appends a DeleteEntity op. ctx is optional; pass nil for no
// context.
func (b *EditBuilder) DeleteEntity(id ids.ID, ctx *model.Context) *EditBuilder {
	b.ops = append(b.ops, model.DeleteEntity{ID: id, Context: ctx})

	return b
}

// RestoreEntity appends a RestoreEntity op.
func (b *EditBuilder) RestoreEntity(id ids.ID, ctx *model.Context) *EditBuilder {
	b.ops = append(b.ops, model.RestoreEntity{ID: id, Context: ctx})

	return b
}

// CreateRelation appends a CreateRelation op, configured by fn.
func (b *EditBuilder) CreateRelation(id ids.ID, fn func(*RelationBuilder)) *EditBuilder {
	rb := &RelationBuilder{id: id}
	if fn != nil {
		fn(rb)
	}
	if !rb.fromSet || !rb.toSet {
		b.fail(errMissingEndpoint(id))

		return b
	}
	b.ops = append(b.ops, model.CreateRelation{
		ID:             rb.id,
		RelationType:   rb.relationType,
		From:           rb.from,
		FromIsValueRef: rb.fromIsValueRef,
		FromSpace:      rb.fromSpace,
		FromVersion:    rb.fromVersion,
		To:             rb.to,
		ToIsValueRef:   rb.toIsValueRef,
		ToSpace:        rb.toSpace,
		ToVersion:      rb.toVersion,
		Entity:         rb.entity,
		Position:       rb.position,
		Context:        rb.ctx,
	})

	return b
}

// UpdateRelation appends an UpdateRelation op, configured by fn.
func (b *EditBuilder) UpdateRelation(id ids.ID, fn func(*UpdateRelationBuilder)) *EditBuilder {
	ub := &UpdateRelationBuilder{}
	if fn != nil {
		fn(ub)
	}
	b.ops = append(b.ops, model.UpdateRelation{
		ID:          id,
		FromSpace:   ub.fromSpace,
		FromVersion: ub.fromVersion,
		ToSpace:     ub.toSpace,
		ToVersion:   ub.toVersion,
		Position:    ub.position,
		Unset:       ub.unset,
		Context:     ub.ctx,
	})

	return b
}

// DeleteRelation appends a DeleteRelation op. The reified entity is not
// affected.
func (b *EditBuilder) DeleteRelation(id ids.ID, ctx *model.Context) *EditBuilder {
	b.ops = append(b.ops, model.DeleteRelation{ID: id, Context: ctx})

	return b
}

// RestoreRelation appends a RestoreRelation op.
func (b *EditBuilder) RestoreRelation(id ids.ID, ctx *model.Context) *EditBuilder {
	b.ops = append(b.ops, model.RestoreRelation{ID: id, Context: ctx})

	return b
}

// CreateValueRef appends a CreateValueRef op, making (entity, property,
// language) referenceable by id so a relation can target that specific
// value slot.
func (b *EditBuilder) CreateValueRef(id, entity, property ids.ID, language, space *ids.ID, ctx *model.Context) *EditBuilder {
	b.ops = append(b.ops, model.CreateValueRef{
		ID:       id,
		Entity:   entity,
		Property: property,
		Language: language,
		Space:    space,
		Context:  ctx,
	})

	return b
}

// Build returns the assembled Edit, or the first error recorded while
// configuring a relation op. Build does not itself validate per-value
// invariants (NaN rejection, coordinate ranges, and so on); Encode and
// EncodeCanonical do that via model.Value.Validate as they walk the ops.
func (b *EditBuilder) Build() (model.Edit, error) {
	if b.err != nil {
		return model.Edit{}, b.err
	}

	return model.Edit{
		Header:   b.header,
		Contexts: append([]model.Context(nil), b.contexts...),
		Ops:      append([]model.Op(nil), b.ops...),
	}, nil
}

// EntityBuilder accumulates property values for a CreateEntity op.
type EntityBuilder struct {
	values []model.PropertyValue
	ctx    *model.Context
}

// Context attaches a context path to the entity op under construction.
func (e *EntityBuilder) Context(ctx *model.Context) *EntityBuilder {
	e.ctx = ctx

	return e
}

func (e *EntityBuilder) set(property ids.ID, v model.Value) *EntityBuilder {
	e.values = append(e.values, model.PropertyValue{Property: property, Value: v})

	return e
}

// Value sets an arbitrary already-constructed Value, for data types this
// builder has no dedicated convenience method for (Decimal, Schedule, Point,
// Rect, Embedding).
func (e *EntityBuilder) Value(property ids.ID, v model.Value) *EntityBuilder {
	return e.set(property, v)
}

// Bool sets a boolean property value.
func (e *EntityBuilder) Bool(property ids.ID, v bool) *EntityBuilder {
	return e.set(property, model.Value{Kind: model.DataTypeBool, Bool: v})
}

// Int64 sets an integer property value, optionally tagged with a unit id.
func (e *EntityBuilder) Int64(property ids.ID, v int64, unit *ids.ID) *EntityBuilder {
	return e.set(property, model.Value{Kind: model.DataTypeInt64, Int64: v, Int64Unit: unit})
}

// Float64 sets a floating-point property value, optionally tagged with a
// unit id. v must not be NaN.
func (e *EntityBuilder) Float64(property ids.ID, v float64, unit *ids.ID) *EntityBuilder {
	return e.set(property, model.Value{Kind: model.DataTypeFloat64, Float64: v, Float64Unit: unit})
}

// Text sets a string property value, optionally tagged with a language id.
func (e *EntityBuilder) Text(property ids.ID, text string, language *ids.ID) *EntityBuilder {
	return e.set(property, model.Value{Kind: model.DataTypeText, Text: text, TextLanguage: language})
}

// Bytes sets a raw byte-string property value.
func (e *EntityBuilder) Bytes(property ids.ID, data []byte) *EntityBuilder {
	return e.set(property, model.Value{Kind: model.DataTypeBytes, Bytes: data})
}

// UpdateEntityBuilder accumulates set/unset mutations for an UpdateEntity
// op. Application order is unset_values then set_properties, regardless of
// call order on this builder.
type UpdateEntityBuilder struct {
	set   []model.PropertyValue
	unset []model.UnsetValue
	ctx   *model.Context
}

// Context attaches a context path to the update op under construction.
func (u *UpdateEntityBuilder) Context(ctx *model.Context) *UpdateEntityBuilder {
	u.ctx = ctx

	return u
}

// Set stages a property value to write.
func (u *UpdateEntityBuilder) Set(property ids.ID, v model.Value) *UpdateEntityBuilder {
	u.set = append(u.set, model.PropertyValue{Property: property, Value: v})

	return u
}

// Unset stages clearing every language slot of property.
func (u *UpdateEntityBuilder) Unset(property ids.ID) *UpdateEntityBuilder {
	u.unset = append(u.unset, model.UnsetValue{Property: property, Language: model.UnsetLanguage{Kind: model.UnsetAll}})

	return u
}

// UnsetLanguage stages clearing one specific language slot of property.
func (u *UpdateEntityBuilder) UnsetLanguage(property, language ids.ID) *UpdateEntityBuilder {
	u.unset = append(u.unset, model.UnsetValue{
		Property: property,
		Language: model.UnsetLanguage{Kind: model.UnsetSpecific, Language: language},
	})

	return u
}

// RelationBuilder configures a CreateRelation op.
type RelationBuilder struct {
	id              ids.ID
	relationType    ids.ID
	from, to        ids.ID
	fromSet, toSet  bool
	fromIsValueRef  bool
	toIsValueRef    bool
	fromSpace       *ids.ID
	fromVersion     *ids.ID
	toSpace         *ids.ID
	toVersion       *ids.ID
	entity          *ids.ID
	position        *string
	ctx             *model.Context
}

// Type sets the relation's type id.
func (r *RelationBuilder) Type(typeID ids.ID) *RelationBuilder {
	r.relationType = typeID

	return r
}

// From sets the relation's source entity endpoint.
func (r *RelationBuilder) From(entity ids.ID) *RelationBuilder {
	r.from, r.fromSet = entity, true

	return r
}

// FromValueRef sets the relation's source endpoint to a value reference
// (the id of a CreateValueRef op) instead of an entity.
func (r *RelationBuilder) FromValueRef(valueRef ids.ID) *RelationBuilder {
	r.from, r.fromSet, r.fromIsValueRef = valueRef, true, true

	return r
}

// To sets the relation's target entity endpoint.
func (r *RelationBuilder) To(entity ids.ID) *RelationBuilder {
	r.to, r.toSet = entity, true

	return r
}

// ToValueRef sets the relation's target endpoint to a value reference.
func (r *RelationBuilder) ToValueRef(valueRef ids.ID) *RelationBuilder {
	r.to, r.toSet, r.toIsValueRef = valueRef, true, true

	return r
}

// FromSpace pins the source endpoint to a specific space.
func (r *RelationBuilder) FromSpace(space ids.ID) *RelationBuilder {
	r.fromSpace = &space

	return r
}

// ToSpace pins the target endpoint to a specific space.
func (r *RelationBuilder) ToSpace(space ids.ID) *RelationBuilder {
	r.toSpace = &space

	return r
}

// Entity overrides the relation's reified entity id. Without this, the
// entity id is derived deterministically from the relation id (see
// ids.RelationEntityID).
func (r *RelationBuilder) Entity(entity ids.ID) *RelationBuilder {
	r.entity = &entity

	return r
}

// Position sets the relation's fractional-indexing ordering key.
func (r *RelationBuilder) Position(position string) *RelationBuilder {
	r.position = &position

	return r
}

// Context attaches a context path to the relation op under construction.
func (r *RelationBuilder) Context(ctx *model.Context) *RelationBuilder {
	r.ctx = ctx

	return r
}

// UpdateRelationBuilder configures an UpdateRelation op. Structural fields
// (entity, type, from, to) are immutable once a relation is created and
// have no setters here.
type UpdateRelationBuilder struct {
	fromSpace   *ids.ID
	fromVersion *ids.ID
	toSpace     *ids.ID
	toVersion   *ids.ID
	position    *string
	unset       []model.UnsetRelationField
	ctx         *model.Context
}

// FromSpace sets the pinned source space.
func (u *UpdateRelationBuilder) FromSpace(space ids.ID) *UpdateRelationBuilder {
	u.fromSpace = &space

	return u
}

// ToSpace sets the pinned target space.
func (u *UpdateRelationBuilder) ToSpace(space ids.ID) *UpdateRelationBuilder {
	u.toSpace = &space

	return u
}

// Position sets the ordering key.
func (u *UpdateRelationBuilder) Position(position string) *UpdateRelationBuilder {
	u.position = &position

	return u
}

// UnsetField stages clearing one pin/position field.
func (u *UpdateRelationBuilder) UnsetField(field model.UnsetRelationField) *UpdateRelationBuilder {
	u.unset = append(u.unset, field)

	return u
}

// Context attaches a context path to the update op under construction.
func (u *UpdateRelationBuilder) Context(ctx *model.Context) *UpdateRelationBuilder {
	u.ctx = ctx

	return u
}

func errMissingEndpoint(id ids.ID) error {
	return &missingEndpointError{id: id}
}

type missingEndpointError struct {
	id ids.ID
}

func (e *missingEndpointError) Error() string {
	return "grc20: relation " + ids.Format(e.id) + " is missing From or To"
}
