package dict

import (
	"bytes"
	"sort"

	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
)

// Sorted is the canonical form of a Builder: every
// dictionary sorted by raw id bytes and every index remapped to match, so
// two encoders processing logically-equal edits produce byte-identical
// output.
type Sorted struct {
	properties    []propEntry
	propIdx       *idIndex
	relationTypes *idIndex
	languages     *idIndex
	units         *idIndex
	objects       *idIndex
	contextIDs    *idIndex
	contexts      []model.Context
}

// IntoSorted consumes a dry-run Builder and produces its canonical form.
// Every dictionary is stable-sorted by raw id bytes; contexts are sorted by
// (root id, edge id/type-id tuples) and re-expressed against the sorted
// context_ids/relation_types dictionaries.
func (b *Builder) IntoSorted() *Sorted {
	relationTypes, relationRemap := b.relationTypes.sortedCopy()
	languages, _ := b.languages.sortedCopy()
	units, _ := b.units.sortedCopy()
	objects, _ := b.objects.sortedCopy()
	contextIDs, contextIDRemap := b.contextIDs.sortedCopy()

	properties, propIdx := sortProperties(b.properties)

	contexts := sortContexts(b.contexts, b.contextIDs, contextIDRemap, b.relationTypes, relationRemap)

	return &Sorted{
		properties:    properties,
		propIdx:       propIdx,
		relationTypes: relationTypes,
		languages:     languages,
		units:         units,
		objects:       objects,
		contextIDs:    contextIDs,
		contexts:      contexts,
	}
}

func sortProperties(entries []propEntry) ([]propEntry, *idIndex) {
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return lessID(entries[order[a]].id, entries[order[b]].id)
	})

	sorted := make([]propEntry, len(entries))
	idx := newIDIndex()
	for newIdx, oldIdx := range order {
		sorted[newIdx] = entries[oldIdx]
		idx.add(entries[oldIdx].id)
	}

	return sorted, idx
}

// sortContexts sorts the contexts by their raw id bytes (root id, then each
// edge's type id and target id in order). The remap parameters are unused:
// contexts hold ids, not dictionary indices, so there is nothing to re-key.
func sortContexts(contexts []model.Context, oldContextIDs *idIndex, contextIDRemap []int, oldRelationTypes *idIndex, relationRemap []int) []model.Context {
	type keyed struct {
		ctx model.Context
		key []byte
	}

	out := make([]keyed, len(contexts))
	for i, ctx := range contexts {
		var buf bytes.Buffer
		buf.Write(ctx.RootID[:])
		for _, e := range ctx.Edges {
			buf.Write(e.TypeID[:])
			buf.Write(e.ToEntityID[:])
		}
		out[i] = keyed{ctx: ctx, key: buf.Bytes()}
	}

	sort.Slice(out, func(a, b int) bool {
		return bytes.Compare(out[a].key, out[b].key) < 0
	})

	result := make([]model.Context, len(out))
	for i, k := range out {
		result[i] = k.ctx
	}

	return result
}

// AddProperty looks up a property already interned during the dry-run pass.
// Pass 2 re-encodes exactly the ops pass 1 saw, so every id this is called
// with is guaranteed present; the rare case it isn't (a caller bypassing
// the two-pass protocol) falls back to appending past the sorted prefix
// rather than panicking.
func (s *Sorted) AddProperty(id ids.ID, dataType model.DataType, placeholder bool) uint32 {
	if i, ok := s.propIdx.indexOf(id); ok {
		return i
	}
	idx := uint32(len(s.properties))
	s.properties = append(s.properties, propEntry{id: id, dataType: dataType, placeholder: placeholder})
	s.propIdx.add(id)

	return idx
}

// AddRelationType mirrors AddProperty for the relation_types dictionary.
func (s *Sorted) AddRelationType(id ids.ID) uint32 { return s.relationTypes.add(id) }

// AddLanguage mirrors Builder.AddLanguage against the sorted dictionary.
func (s *Sorted) AddLanguage(id *ids.ID) uint32 {
	if id == nil {
		return 0
	}

	return s.languages.add(*id) + 1
}

// AddUnit mirrors Builder.AddUnit against the sorted dictionary.
func (s *Sorted) AddUnit(id *ids.ID) uint32 {
	if id == nil {
		return 0
	}

	return s.units.add(*id) + 1
}

// AddObject mirrors Builder.AddObject against the sorted dictionary.
func (s *Sorted) AddObject(id ids.ID) uint32 { return s.objects.add(id) }

// AddContext mirrors Builder.AddContext: looks up a structurally-equal
// context already registered during the dry run.
func (s *Sorted) AddContext(ctx model.Context) uint32 {
	if i, ok := s.ContextIndex(ctx); ok {
		return i
	}
	idx := uint32(len(s.contexts))
	edges := append([]model.ContextEdge(nil), ctx.Edges...)
	s.contexts = append(s.contexts, model.Context{RootID: ctx.RootID, Edges: edges})

	return idx
}

// PropertyDataType returns the data type recorded for a sorted dictionary
// index.
func (s *Sorted) PropertyDataType(index uint32) (model.DataType, bool) {
	if int(index) >= len(s.properties) {
		return 0, false
	}

	return s.properties[index].dataType, true
}

// GetPropertyIndex looks up a property's position in the sorted dictionary.
func (s *Sorted) GetPropertyIndex(id ids.ID) (uint32, bool) { return s.propIdx.indexOf(id) }

// GetRelationTypeIndex looks up a relation-type id's position in the sorted
// dictionary.
func (s *Sorted) GetRelationTypeIndex(id ids.ID) (uint32, bool) { return s.relationTypes.indexOf(id) }

// GetLanguageIndex mirrors Builder.GetLanguageIndex against the sorted
// dictionary.
func (s *Sorted) GetLanguageIndex(id *ids.ID) (uint32, bool) {
	if id == nil {
		return 0, true
	}
	i, ok := s.languages.indexOf(*id)
	if !ok {
		return 0, false
	}

	return i + 1, true
}

// GetUnitIndex mirrors Builder.GetUnitIndex against the sorted dictionary.
func (s *Sorted) GetUnitIndex(id *ids.ID) (uint32, bool) {
	if id == nil {
		return 0, true
	}
	i, ok := s.units.indexOf(*id)
	if !ok {
		return 0, false
	}

	return i + 1, true
}

// GetObjectIndex looks up an object id's position in the sorted dictionary.
func (s *Sorted) GetObjectIndex(id ids.ID) (uint32, bool) { return s.objects.indexOf(id) }

// GetContextIDIndex looks up a context id's position in the sorted
// dictionary.
func (s *Sorted) GetContextIDIndex(id ids.ID) (uint32, bool) { return s.contextIDs.indexOf(id) }

// ContextIndex returns the index of a structurally-equal context within the
// sorted contexts table.
func (s *Sorted) ContextIndex(ctx model.Context) (uint32, bool) {
	for i, c := range s.contexts {
		if c.Equal(ctx) {
			return uint32(i), true
		}
	}

	return 0, false
}

// Contexts returns the sorted contexts table.
func (s *Sorted) Contexts() []model.Context { return s.contexts }

// WriteDictionaries emits the sorted dictionaries in the fixed wire order
//.
func (s *Sorted) WriteDictionaries(w writer) {
	w.WriteVarint(uint64(len(s.properties)))
	for _, p := range s.properties {
		w.WriteID(p.id)
		w.WriteByte(byte(p.dataType))
	}

	writeIDList(w, s.relationTypes.list)
	writeIDList(w, s.languages.list)
	writeIDList(w, s.units.list)
	writeIDList(w, s.objects.list)
	writeIDList(w, s.contextIDs.list)
}

// WriteContexts emits the sorted contexts table, referencing the sorted
// context_ids/relation_types dictionaries.
func (s *Sorted) WriteContexts(w writer) error {
	w.WriteVarint(uint64(len(s.contexts)))
	for _, ctx := range s.contexts {
		rootRef, _ := s.contextIDs.indexOf(ctx.RootID)
		w.WriteVarint(uint64(rootRef))
		w.WriteVarint(uint64(len(ctx.Edges)))
		for _, edge := range ctx.Edges {
			typeRef, _ := s.relationTypes.indexOf(edge.TypeID)
			toRef, _ := s.contextIDs.indexOf(edge.ToEntityID)
			w.WriteVarint(uint64(typeRef))
			w.WriteVarint(uint64(toRef))
		}
	}

	return nil
}

// writer is the subset of *primitives.Writer that dict needs to emit wire
// bytes, declared locally so this file doesn't need to import primitives
// solely for a concrete type in method signatures already satisfied by
// Builder's own WriteDictionaries.
type writer interface {
	WriteVarint(uint64)
	WriteByte(byte)
	WriteID([16]byte)
}
