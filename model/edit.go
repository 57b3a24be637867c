package model

import "github.com/geobrowser/grc-20/ids"

// Header carries an edit's metadata.
type Header struct {
	ID   ids.ID
	Name string
	// Authors is the ordered list of author ids declared on the edit.
	// Canonical encoding sorts this list and rejects adjacent duplicates.
	Authors []ids.ID
	// CreatedAt is microseconds since the Unix epoch. Advisory only: never
	// used for conflict resolution.
	CreatedAt int64
}

// Edit is a batched, self-contained set of operations with metadata. It is
// the root in-memory value the codec encodes/decodes.
//
// Edit carries no generic lifetime parameter: Go has none to carry. The
// borrowed/owned distinction is instead a runtime property of how an
// Edit's string/[]byte leaves were populated — see ToOwned.
type Edit struct {
	Header   Header
	Contexts []Context
	Ops      []Op
}

// ToOwned returns a deep copy of e whose string and []byte leaves are all
// independently allocated, breaking any aliasing with a decode input
// buffer: the bridge between the borrowed and owned container forms.
//
// Decoding from a GRC2Z (compressed) frame always produces an Edit that is
// already fully owned (the decompression buffer belongs to the decode
// call, not the caller's input), so ToOwned is a no-op copy in that case.
// Decoding from an uncompressed GRC2 frame produces an Edit whose Text,
// Schedule, Bytes, and embedding payloads alias the input slice; call
// ToOwned before letting that input slice go out of scope.
func (e Edit) ToOwned() Edit {
	out := e
	out.Header.Name = cloneString(e.Header.Name)
	out.Header.Authors = append([]ids.ID(nil), e.Header.Authors...)

	out.Contexts = make([]Context, len(e.Contexts))
	for i, c := range e.Contexts {
		out.Contexts[i] = Context{
			RootID: c.RootID,
			Edges:  append([]ContextEdge(nil), c.Edges...),
		}
	}

	out.Ops = make([]Op, len(e.Ops))
	for i, op := range e.Ops {
		out.Ops[i] = cloneOp(op)
	}

	return out
}

func cloneString(s string) string {
	if s == "" {
		return s
	}

	return string(append([]byte(nil), s...))
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	return append([]byte(nil), b...)
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := cloneString(*s)

	return &v
}

func cloneValue(v Value) Value {
	out := v
	out.Text = cloneString(v.Text)
	out.Schedule = cloneString(v.Schedule)
	out.Bytes = cloneBytes(v.Bytes)
	out.EmbeddingData = cloneBytes(v.EmbeddingData)
	out.DecimalMantissa.Big = cloneBytes(v.DecimalMantissa.Big)
	if v.PointAlt != nil {
		alt := *v.PointAlt
		out.PointAlt = &alt
	}

	return out
}

func clonePropertyValues(pvs []PropertyValue) []PropertyValue {
	out := make([]PropertyValue, len(pvs))
	for i, pv := range pvs {
		out[i] = PropertyValue{Property: pv.Property, Value: cloneValue(pv.Value)}
	}

	return out
}

func cloneContext(c *Context) *Context {
	if c == nil {
		return nil
	}

	return &Context{RootID: c.RootID, Edges: append([]ContextEdge(nil), c.Edges...)}
}

func cloneOp(op Op) Op {
	switch o := op.(type) {
	case CreateEntity:
		o.Values = clonePropertyValues(o.Values)
		o.Context = cloneContext(o.Context)

		return o
	case UpdateEntity:
		o.SetProperties = clonePropertyValues(o.SetProperties)
		o.UnsetValues = append([]UnsetValue(nil), o.UnsetValues...)
		o.Context = cloneContext(o.Context)

		return o
	case DeleteEntity:
		o.Context = cloneContext(o.Context)

		return o
	case RestoreEntity:
		o.Context = cloneContext(o.Context)

		return o
	case CreateRelation:
		o.Position = cloneStringPtr(o.Position)
		o.Context = cloneContext(o.Context)

		return o
	case UpdateRelation:
		o.Position = cloneStringPtr(o.Position)
		o.Unset = append([]UnsetRelationField(nil), o.Unset...)
		o.Context = cloneContext(o.Context)

		return o
	case DeleteRelation:
		o.Context = cloneContext(o.Context)

		return o
	case RestoreRelation:
		o.Context = cloneContext(o.Context)

		return o
	case CreateValueRef:
		o.Context = cloneContext(o.Context)

		return o
	default:
		return op
	}
}
