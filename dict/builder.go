// Package dict implements the per-edit dictionary-building tables that let
// ops reference ids by short varint indices instead of inline 16-byte ids.
//
// The id->index maps are hash-bucketed: a map keyed by a fast 64-bit hash of
// the real key, verified against the full key on lookup so a hash collision
// only costs an extra comparison, never a correctness bug.
package dict

import (
	"fmt"
	"sort"

	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/internal/xxhash16"
	"github.com/geobrowser/grc-20/model"
	"github.com/geobrowser/grc-20/primitives"
)

// idIndex interns ids.ID values into a stable, insertion-ordered index,
// using a hash-bucketed map for O(1) lookup.
type idIndex struct {
	list    []ids.ID
	buckets map[uint64][]uint32
}

func newIDIndex() *idIndex {
	return &idIndex{buckets: make(map[uint64][]uint32)}
}

func (x *idIndex) indexOf(id ids.ID) (uint32, bool) {
	h := xxhash16.Sum(id)
	for _, i := range x.buckets[h] {
		if x.list[i] == id {
			return i, true
		}
	}

	return 0, false
}

// add interns id, returning its stable index. Idempotent.
func (x *idIndex) add(id ids.ID) uint32 {
	if i, ok := x.indexOf(id); ok {
		return i
	}
	idx := uint32(len(x.list))
	x.list = append(x.list, id)
	h := xxhash16.Sum(id)
	x.buckets[h] = append(x.buckets[h], idx)

	return idx
}

func (x *idIndex) len() int { return len(x.list) }

func (x *idIndex) sortedCopy() (*idIndex, []int) {
	order := make([]int, len(x.list))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return lessID(x.list[order[a]], x.list[order[b]])
	})

	sorted := newIDIndex()
	for _, oldIdx := range order {
		sorted.add(x.list[oldIdx])
	}

	// remap[oldIndex] = newIndex
	remap := make([]int, len(order))
	for newIdx, oldIdx := range order {
		remap[oldIdx] = newIdx
	}

	return sorted, remap
}

func lessID(a, b ids.ID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return false
}

// propEntry is one row of the properties dictionary: an id plus its
// declared data type.
type propEntry struct {
	id          ids.ID
	dataType    model.DataType
	placeholder bool
}

// Builder accrues the six per-edit dictionaries and the contexts table
// during a single-pass encode.
type Builder struct {
	properties    []propEntry
	propIdx       *idIndex // keyed on propEntry.id, values index into properties
	relationTypes *idIndex
	languages     *idIndex
	units         *idIndex
	objects       *idIndex
	contextIDs    *idIndex
	contexts      []model.Context
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		propIdx:       newIDIndex(),
		relationTypes: newIDIndex(),
		languages:     newIDIndex(),
		units:         newIDIndex(),
		objects:       newIDIndex(),
		contextIDs:    newIDIndex(),
	}
}

// AddProperty interns a property id with its data type, returning its
// stable index. If the property was previously added via a placeholder
// type (CreateValueRef referencing a property with no value seen yet) and
// this call supplies a real (non-placeholder) type, the stored type is
// upgraded — the property's effective type is established by its first
// appearance in an entity value.
func (b *Builder) AddProperty(id ids.ID, dataType model.DataType, placeholder bool) uint32 {
	if i, ok := b.propIdx.indexOf(id); ok {
		if b.properties[i].placeholder && !placeholder {
			b.properties[i].dataType = dataType
			b.properties[i].placeholder = false
		}

		return i
	}

	idx := uint32(len(b.properties))
	b.properties = append(b.properties, propEntry{id: id, dataType: dataType, placeholder: placeholder})
	b.propIdx.add(id)

	return idx
}

// GetPropertyIndex looks up a previously interned property.
func (b *Builder) GetPropertyIndex(id ids.ID) (uint32, bool) {
	return b.propIdx.indexOf(id)
}

// PropertyDataType returns the data type recorded for a dictionary index.
func (b *Builder) PropertyDataType(index uint32) (model.DataType, bool) {
	if int(index) >= len(b.properties) {
		return 0, false
	}

	return b.properties[index].dataType, true
}

// AddRelationType interns a relation-type id.
func (b *Builder) AddRelationType(id ids.ID) uint32 { return b.relationTypes.add(id) }

// GetRelationTypeIndex looks up a previously interned relation-type id.
func (b *Builder) GetRelationTypeIndex(id ids.ID) (uint32, bool) { return b.relationTypes.indexOf(id) }

// AddLanguage interns an optional language id. Returns 0 for "none"
// (non-linguistic); real entries are indexed starting at 1, so the
// dictionary never needs an entry for the common case of no language.
func (b *Builder) AddLanguage(id *ids.ID) uint32 {
	if id == nil {
		return primitives.NoLanguage
	}

	return b.languages.add(*id) + 1
}

// GetLanguageIndex mirrors AddLanguage's 0-is-none, 1-based convention for
// lookups without mutation.
func (b *Builder) GetLanguageIndex(id *ids.ID) (uint32, bool) {
	if id == nil {
		return primitives.NoLanguage, true
	}
	i, ok := b.languages.indexOf(*id)
	if !ok {
		return 0, false
	}

	return i + 1, true
}

// AddUnit interns an optional unit id using the same 0-is-none convention
// as AddLanguage.
func (b *Builder) AddUnit(id *ids.ID) uint32 {
	if id == nil {
		return primitives.NoUnit
	}

	return b.units.add(*id) + 1
}

// GetUnitIndex mirrors AddUnit for lookups without mutation.
func (b *Builder) GetUnitIndex(id *ids.ID) (uint32, bool) {
	if id == nil {
		return primitives.NoUnit, true
	}
	i, ok := b.units.indexOf(*id)
	if !ok {
		return 0, false
	}

	return i + 1, true
}

// AddObject interns an ObjectRef target (an entity or relation id).
func (b *Builder) AddObject(id ids.ID) uint32 { return b.objects.add(id) }

// GetObjectIndex looks up a previously interned object id.
func (b *Builder) GetObjectIndex(id ids.ID) (uint32, bool) { return b.objects.indexOf(id) }

// AddContextID interns an id used within a Context (a root id or an edge
// target).
func (b *Builder) AddContextID(id ids.ID) uint32 { return b.contextIDs.add(id) }

// GetContextIDIndex looks up a previously interned context id.
func (b *Builder) GetContextIDIndex(id ids.ID) (uint32, bool) { return b.contextIDs.indexOf(id) }

// AddContext registers a Context's root and edge-target ids into
// context_ids, each edge's type id into relation_types, and appends a copy
// of the context to the contexts table, deduplicating by structural
// equality. Returns the context's stable index for use as a context-ref.
func (b *Builder) AddContext(ctx model.Context) uint32 {
	for i, existing := range b.contexts {
		if existing.Equal(ctx) {
			return uint32(i)
		}
	}

	b.contextIDs.add(ctx.RootID)
	for _, edge := range ctx.Edges {
		b.relationTypes.add(edge.TypeID)
		b.contextIDs.add(edge.ToEntityID)
	}

	idx := uint32(len(b.contexts))
	edges := append([]model.ContextEdge(nil), ctx.Edges...)
	b.contexts = append(b.contexts, model.Context{RootID: ctx.RootID, Edges: edges})

	return idx
}

// ValidateLimits ensures every dictionary and every context's edge count is
// within maxDictSize.
func (b *Builder) ValidateLimits(maxDictSize int) error {
	dicts := map[string]int{
		"properties":     len(b.properties),
		"relation_types": b.relationTypes.len(),
		"languages":      b.languages.len(),
		"units":          b.units.len(),
		"objects":        b.objects.len(),
		"context_ids":    b.contextIDs.len(),
		"contexts":       len(b.contexts),
	}
	for name, size := range dicts {
		if size > maxDictSize {
			return fmt.Errorf("%w: %s has %d entries (max %d)", errs.ErrTooManyDictEntries, name, size, maxDictSize)
		}
	}
	for i, ctx := range b.contexts {
		if len(ctx.Edges) > maxDictSize {
			return fmt.Errorf("%w: context %d has %d edges (max %d)", errs.ErrTooManyDictEntries, i, len(ctx.Edges), maxDictSize)
		}
	}

	return nil
}

// WriteDictionaries emits properties, relation_types, languages, units,
// objects, and context_ids, in that fixed order.
func (b *Builder) WriteDictionaries(w writer) {
	w.WriteVarint(uint64(len(b.properties)))
	for _, p := range b.properties {
		w.WriteID(p.id)
		w.WriteByte(byte(p.dataType))
	}

	writeIDList(w, b.relationTypes.list)
	writeIDList(w, b.languages.list)
	writeIDList(w, b.units.list)
	writeIDList(w, b.objects.list)
	writeIDList(w, b.contextIDs.list)
}

func writeIDList(w writer, list []ids.ID) {
	w.WriteVarint(uint64(len(list)))
	for _, id := range list {
		w.WriteID(id)
	}
}

// WriteContexts emits the contexts table: count, then each context as
// (root_ref, edge_count, edges...) where refs are indices into
// context_ids/relation_types.
func (b *Builder) WriteContexts(w writer) error {
	w.WriteVarint(uint64(len(b.contexts)))
	for _, ctx := range b.contexts {
		rootRef, ok := b.contextIDs.indexOf(ctx.RootID)
		if !ok {
			return fmt.Errorf("dict: context root %x not interned", ctx.RootID)
		}
		w.WriteVarint(uint64(rootRef))
		w.WriteVarint(uint64(len(ctx.Edges)))
		for _, edge := range ctx.Edges {
			typeRef, ok := b.relationTypes.indexOf(edge.TypeID)
			if !ok {
				return fmt.Errorf("dict: context edge type %x not interned", edge.TypeID)
			}
			toRef, ok := b.contextIDs.indexOf(edge.ToEntityID)
			if !ok {
				return fmt.Errorf("dict: context edge target %x not interned", edge.ToEntityID)
			}
			w.WriteVarint(uint64(typeRef))
			w.WriteVarint(uint64(toRef))
		}
	}

	return nil
}

// Contexts returns the accrued contexts table in insertion order.
func (b *Builder) Contexts() []model.Context { return b.contexts }
