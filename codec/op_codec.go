package codec

import (
	"fmt"

	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
	"github.com/geobrowser/grc-20/primitives"
)

// Op type tags.
const (
	opCreateEntity   = 1
	opUpdateEntity   = 2
	opDeleteEntity   = 3
	opRestoreEntity  = 4
	opCreateRelation = 5
	opUpdateRelation = 6
	opDeleteRelation = 7
	opRestoreRelation = 8
	opCreateValueRef = 9
)

// UpdateEntity flags.
const (
	flagHasSetProperties      = 0x01
	flagHasUnsetValues        = 0x02
	updateEntityReservedMask  = 0xFC
)

// CreateRelation flags (bit order matches struct field order).
const (
	flagHasFromSpace   = 0x01
	flagHasFromVersion = 0x02
	flagHasToSpace     = 0x04
	flagHasToVersion   = 0x08
	flagHasEntity      = 0x10
	flagHasPosition    = 0x20
	flagFromIsValueRef = 0x40
	flagToIsValueRef   = 0x80
)

// CreateValueRef flags.
const (
	flagHasLanguage           = 0x01
	flagHasSpace              = 0x02
	createValueRefReservedMask = 0xFC
)

// UpdateRelation set/unset flags.
const (
	updateSetFromSpace     = 0x01
	updateSetFromVersion   = 0x02
	updateSetToSpace       = 0x04
	updateSetToVersion     = 0x08
	updateSetPosition      = 0x10
	updateSetReservedMask  = 0xE0

	updateUnsetFromSpace    = 0x01
	updateUnsetFromVersion  = 0x02
	updateUnsetToSpace      = 0x04
	updateUnsetToVersion    = 0x08
	updateUnsetPosition     = 0x10
	updateUnsetReservedMask = 0xE0
)

// objectResolver is the subset of dict.Builder/dict.Sorted needed to
// resolve/intern ObjectRef, RelationTypeRef, and context refs.
type objectResolver interface {
	refResolver
	AddRelationType(id ids.ID) uint32
	AddObject(id ids.ID) uint32
	AddContext(ctx model.Context) uint32
}

// encodeContextRef writes a trailing context-ref varint for a mutating op:
// NoContext (0xFFFFFFFF) if ctx is nil, otherwise the context's index in
// the edit-wide contexts table.
func encodeContextRef(w *primitives.Writer, b objectResolver, ctx *model.Context) {
	if ctx == nil {
		w.WriteVarint(uint64(primitives.NoContext))
		return
	}
	w.WriteVarint(uint64(b.AddContext(*ctx)))
}

func decodeContextRef(r *primitives.Reader, contexts []model.Context) (*model.Context, error) {
	ref, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if ref == uint64(primitives.NoContext) {
		return nil, nil
	}
	if ref >= uint64(len(contexts)) {
		return nil, fmt.Errorf("%w: context index %d size %d", errs.ErrIndexOutOfBounds, ref, len(contexts))
	}
	ctx := contexts[ref]

	return &ctx, nil
}

// EncodeOp writes one op's tag byte and body.
func EncodeOp(w *primitives.Writer, b objectResolver, op model.Op) error {
	w.WriteByte(byte(op.OpType()))

	switch o := op.(type) {
	case model.CreateEntity:
		return encodeCreateEntity(w, b, o)
	case model.UpdateEntity:
		return encodeUpdateEntity(w, b, o)
	case model.DeleteEntity:
		w.WriteVarint(uint64(b.AddObject(o.ID)))
		encodeContextRef(w, b, o.Context)

		return nil
	case model.RestoreEntity:
		w.WriteVarint(uint64(b.AddObject(o.ID)))
		encodeContextRef(w, b, o.Context)

		return nil
	case model.CreateRelation:
		return encodeCreateRelation(w, b, o)
	case model.UpdateRelation:
		return encodeUpdateRelation(w, b, o)
	case model.DeleteRelation:
		w.WriteVarint(uint64(b.AddObject(o.ID)))
		encodeContextRef(w, b, o.Context)

		return nil
	case model.RestoreRelation:
		w.WriteVarint(uint64(b.AddObject(o.ID)))
		encodeContextRef(w, b, o.Context)

		return nil
	case model.CreateValueRef:
		return encodeCreateValueRef(w, b, o)
	default:
		return fmt.Errorf("%w: unknown op %T", errs.ErrInvalidOpType, op)
	}
}

func encodeCreateEntity(w *primitives.Writer, b objectResolver, o model.CreateEntity) error {
	w.WriteID(o.ID)
	w.WriteVarint(uint64(len(o.Values)))
	for _, pv := range o.Values {
		propIdx := b.AddProperty(pv.Property, pv.Value.Kind, false)
		w.WriteVarint(uint64(propIdx))
		if err := encodeValue(w, b, pv.Value); err != nil {
			return err
		}
	}
	encodeContextRef(w, b, o.Context)

	return nil
}

func encodeUpdateEntity(w *primitives.Writer, b objectResolver, o model.UpdateEntity) error {
	w.WriteVarint(uint64(b.AddObject(o.ID)))

	var flags byte
	if len(o.SetProperties) > 0 {
		flags |= flagHasSetProperties
	}
	if len(o.UnsetValues) > 0 {
		flags |= flagHasUnsetValues
	}
	w.WriteByte(flags)

	if flags&flagHasSetProperties != 0 {
		w.WriteVarint(uint64(len(o.SetProperties)))
		for _, pv := range o.SetProperties {
			b.AddProperty(pv.Property, pv.Value.Kind, false)
			w.WriteVarint(uint64(mustPropertyIndex(b, pv.Property)))
			if err := encodeValue(w, b, pv.Value); err != nil {
				return err
			}
		}
	}
	if flags&flagHasUnsetValues != 0 {
		w.WriteVarint(uint64(len(o.UnsetValues)))
		for _, uv := range o.UnsetValues {
			propIdx, ok := b.GetPropertyIndex(uv.Property)
			if !ok {
				propIdx = b.AddProperty(uv.Property, model.DataTypeBool, true)
			}
			w.WriteVarint(uint64(propIdx))
			w.WriteVarint(uint64(encodeUnsetLanguage(b, uv.Language)))
		}
	}
	encodeContextRef(w, b, o.Context)

	return nil
}

// mustPropertyIndex looks up a property already guaranteed to be interned
// by the caller.
func mustPropertyIndex(b refResolver, id ids.ID) uint32 {
	idx, _ := b.GetPropertyIndex(id)

	return idx
}

func encodeUnsetLanguage(b refResolver, ul model.UnsetLanguage) uint32 {
	switch ul.Kind {
	case model.UnsetAll:
		return primitives.AllLanguages
	case model.UnsetNonLinguistic:
		return 0
	default:
		return b.AddLanguage(&ul.Language)
	}
}

func decodeUnsetLanguage(ref uint64, languages []ids.ID) (model.UnsetLanguage, error) {
	switch {
	case ref == uint64(primitives.AllLanguages):
		return model.UnsetLanguage{Kind: model.UnsetAll}, nil
	case ref == 0:
		return model.UnsetLanguage{Kind: model.UnsetNonLinguistic}, nil
	default:
		idx := ref - 1
		if idx >= uint64(len(languages)) {
			return model.UnsetLanguage{}, fmt.Errorf("%w: language index %d size %d", errs.ErrIndexOutOfBounds, idx, len(languages))
		}

		return model.UnsetLanguage{Kind: model.UnsetSpecific, Language: languages[idx]}, nil
	}
}

func encodeCreateRelation(w *primitives.Writer, b objectResolver, o model.CreateRelation) error {
	w.WriteID(o.ID)
	w.WriteVarint(uint64(b.AddRelationType(o.RelationType)))

	var flags byte
	if o.FromSpace != nil {
		flags |= flagHasFromSpace
	}
	if o.FromVersion != nil {
		flags |= flagHasFromVersion
	}
	if o.ToSpace != nil {
		flags |= flagHasToSpace
	}
	if o.ToVersion != nil {
		flags |= flagHasToVersion
	}
	if o.Entity != nil {
		flags |= flagHasEntity
	}
	if o.Position != nil {
		flags |= flagHasPosition
	}
	if o.FromIsValueRef {
		flags |= flagFromIsValueRef
	}
	if o.ToIsValueRef {
		flags |= flagToIsValueRef
	}
	w.WriteByte(flags)

	if o.FromIsValueRef {
		w.WriteID(o.From)
	} else {
		w.WriteVarint(uint64(b.AddObject(o.From)))
	}
	if o.ToIsValueRef {
		w.WriteID(o.To)
	} else {
		w.WriteVarint(uint64(b.AddObject(o.To)))
	}

	if o.FromSpace != nil {
		w.WriteID(*o.FromSpace)
	}
	if o.FromVersion != nil {
		w.WriteID(*o.FromVersion)
	}
	if o.ToSpace != nil {
		w.WriteID(*o.ToSpace)
	}
	if o.ToVersion != nil {
		w.WriteID(*o.ToVersion)
	}
	if o.Entity != nil {
		w.WriteID(*o.Entity)
	}
	if o.Position != nil {
		if err := validatePosition(*o.Position); err != nil {
			return err
		}
		w.WriteStr(*o.Position)
	}
	encodeContextRef(w, b, o.Context)

	return nil
}

func encodeUpdateRelation(w *primitives.Writer, b objectResolver, o model.UpdateRelation) error {
	w.WriteVarint(uint64(b.AddObject(o.ID)))

	var setFlags byte
	if o.FromSpace != nil {
		setFlags |= updateSetFromSpace
	}
	if o.FromVersion != nil {
		setFlags |= updateSetFromVersion
	}
	if o.ToSpace != nil {
		setFlags |= updateSetToSpace
	}
	if o.ToVersion != nil {
		setFlags |= updateSetToVersion
	}
	if o.Position != nil {
		setFlags |= updateSetPosition
	}

	var unsetFlags byte
	for _, u := range o.Unset {
		switch u {
		case model.UnsetFromSpace:
			unsetFlags |= updateUnsetFromSpace
		case model.UnsetFromVersion:
			unsetFlags |= updateUnsetFromVersion
		case model.UnsetToSpace:
			unsetFlags |= updateUnsetToSpace
		case model.UnsetToVersion:
			unsetFlags |= updateUnsetToVersion
		case model.UnsetPosition:
			unsetFlags |= updateUnsetPosition
		}
	}

	w.WriteByte(setFlags)
	w.WriteByte(unsetFlags)

	if o.FromSpace != nil {
		w.WriteID(*o.FromSpace)
	}
	if o.FromVersion != nil {
		w.WriteID(*o.FromVersion)
	}
	if o.ToSpace != nil {
		w.WriteID(*o.ToSpace)
	}
	if o.ToVersion != nil {
		w.WriteID(*o.ToVersion)
	}
	if o.Position != nil {
		if err := validatePosition(*o.Position); err != nil {
			return err
		}
		w.WriteStr(*o.Position)
	}
	encodeContextRef(w, b, o.Context)

	return nil
}

func encodeCreateValueRef(w *primitives.Writer, b objectResolver, o model.CreateValueRef) error {
	w.WriteID(o.ID)
	w.WriteVarint(uint64(b.AddObject(o.Entity)))

	// The property's real data type is established by its first real
	// value-bearing use; here we only need a placeholder so the dictionary
	// has a tuple for the property.
	placeholderType := model.DataTypeBool
	if o.Language != nil {
		placeholderType = model.DataTypeText
	}
	b.AddProperty(o.Property, placeholderType, true)
	w.WriteVarint(uint64(mustPropertyIndex(b, o.Property)))

	var flags byte
	if o.Language != nil {
		flags |= flagHasLanguage
	}
	if o.Space != nil {
		flags |= flagHasSpace
	}
	w.WriteByte(flags)

	if o.Language != nil {
		w.WriteVarint(uint64(b.AddLanguage(o.Language)))
	}
	if o.Space != nil {
		w.WriteID(*o.Space)
	}
	encodeContextRef(w, b, o.Context)

	return nil
}

// decodedDicts bundles the id vectors and property data types decoded from
// an edit's dictionary section, everything op decoding needs to resolve
// refs.
type decodedDicts struct {
	propertyIDs    []ids.ID
	propertyTypes  []model.DataType
	relationTypes  []ids.ID
	languages      []ids.ID
	units          []ids.ID
	objects        []ids.ID
	contextIDs     []ids.ID
	contexts       []model.Context
	maxBytes       int
	maxEmbedDims   int
	maxEmbedBytes  int
}

func (d *decodedDicts) objectID(ref uint64) (ids.ID, error) {
	if ref >= uint64(len(d.objects)) {
		return ids.Nil, fmt.Errorf("%w: object index %d size %d", errs.ErrIndexOutOfBounds, ref, len(d.objects))
	}

	return d.objects[ref], nil
}

func (d *decodedDicts) relationTypeID(ref uint64) (ids.ID, error) {
	if ref >= uint64(len(d.relationTypes)) {
		return ids.Nil, fmt.Errorf("%w: relation type index %d size %d", errs.ErrIndexOutOfBounds, ref, len(d.relationTypes))
	}

	return d.relationTypes[ref], nil
}

func (d *decodedDicts) propertyID(ref uint64) (ids.ID, model.DataType, error) {
	if ref >= uint64(len(d.propertyIDs)) {
		return ids.Nil, 0, fmt.Errorf("%w: property index %d size %d", errs.ErrIndexOutOfBounds, ref, len(d.propertyIDs))
	}

	return d.propertyIDs[ref], d.propertyTypes[ref], nil
}

// DecodeOp reads one op's tag byte and body.
func DecodeOp(r *primitives.Reader, d *decodedDicts) (model.Op, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch tag {
	case opCreateEntity:
		return decodeCreateEntity(r, d)
	case opUpdateEntity:
		return decodeUpdateEntity(r, d)
	case opDeleteEntity:
		id, err := decodeObjectRef(r, d)
		if err != nil {
			return nil, err
		}
		ctx, err := decodeContextRef(r, d.contexts)
		if err != nil {
			return nil, err
		}

		return model.DeleteEntity{ID: id, Context: ctx}, nil
	case opRestoreEntity:
		id, err := decodeObjectRef(r, d)
		if err != nil {
			return nil, err
		}
		ctx, err := decodeContextRef(r, d.contexts)
		if err != nil {
			return nil, err
		}

		return model.RestoreEntity{ID: id, Context: ctx}, nil
	case opCreateRelation:
		return decodeCreateRelation(r, d)
	case opUpdateRelation:
		return decodeUpdateRelation(r, d)
	case opDeleteRelation:
		id, err := decodeObjectRef(r, d)
		if err != nil {
			return nil, err
		}
		ctx, err := decodeContextRef(r, d.contexts)
		if err != nil {
			return nil, err
		}

		return model.DeleteRelation{ID: id, Context: ctx}, nil
	case opRestoreRelation:
		id, err := decodeObjectRef(r, d)
		if err != nil {
			return nil, err
		}
		ctx, err := decodeContextRef(r, d.contexts)
		if err != nil {
			return nil, err
		}

		return model.RestoreRelation{ID: id, Context: ctx}, nil
	case opCreateValueRef:
		return decodeCreateValueRef(r, d)
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidOpType, tag)
	}
}

func decodeObjectRef(r *primitives.Reader, d *decodedDicts) (ids.ID, error) {
	ref, err := r.ReadVarint()
	if err != nil {
		return ids.Nil, err
	}

	return d.objectID(ref)
}

func decodeCreateEntity(r *primitives.Reader, d *decodedDicts) (model.Op, error) {
	id, err := r.ReadID()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if count > primitives.MaxValuesPerEntity {
		return nil, fmt.Errorf("%w: %d", errs.ErrTooManyValues, count)
	}

	values := make([]model.PropertyValue, 0, count)
	for range count {
		propRef, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		propID, _, err := d.propertyID(propRef)
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(r, d.languages, d.units, d.maxBytes, d.maxEmbedDims, d.maxEmbedBytes)
		if err != nil {
			return nil, err
		}
		values = append(values, model.PropertyValue{Property: propID, Value: val})
	}

	ctx, err := decodeContextRef(r, d.contexts)
	if err != nil {
		return nil, err
	}

	return model.CreateEntity{ID: id, Values: values, Context: ctx}, nil
}

func decodeUpdateEntity(r *primitives.Reader, d *decodedDicts) (model.Op, error) {
	id, err := decodeObjectRef(r, d)
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if flags&updateEntityReservedMask != 0 {
		return nil, errs.ErrReservedBitsSet
	}

	var setProps []model.PropertyValue
	if flags&flagHasSetProperties != 0 {
		count, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		if count > primitives.MaxValuesPerEntity {
			return nil, fmt.Errorf("%w: %d", errs.ErrTooManyValues, count)
		}
		setProps = make([]model.PropertyValue, 0, count)
		for range count {
			propRef, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			propID, _, err := d.propertyID(propRef)
			if err != nil {
				return nil, err
			}
			val, err := decodeValue(r, d.languages, d.units, d.maxBytes, d.maxEmbedDims, d.maxEmbedBytes)
			if err != nil {
				return nil, err
			}
			setProps = append(setProps, model.PropertyValue{Property: propID, Value: val})
		}
	}

	var unsetValues []model.UnsetValue
	if flags&flagHasUnsetValues != 0 {
		count, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		if count > primitives.MaxValuesPerEntity {
			return nil, fmt.Errorf("%w: %d", errs.ErrTooManyValues, count)
		}
		unsetValues = make([]model.UnsetValue, 0, count)
		for range count {
			propRef, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			propID, _, err := d.propertyID(propRef)
			if err != nil {
				return nil, err
			}
			langRef, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			ul, err := decodeUnsetLanguage(langRef, d.languages)
			if err != nil {
				return nil, err
			}
			unsetValues = append(unsetValues, model.UnsetValue{Property: propID, Language: ul})
		}
	}

	ctx, err := decodeContextRef(r, d.contexts)
	if err != nil {
		return nil, err
	}

	return model.UpdateEntity{ID: id, SetProperties: setProps, UnsetValues: unsetValues, Context: ctx}, nil
}

func decodeCreateRelation(r *primitives.Reader, d *decodedDicts) (model.Op, error) {
	id, err := r.ReadID()
	if err != nil {
		return nil, err
	}
	relTypeRef, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	relType, err := d.relationTypeID(relTypeRef)
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	fromIsValueRef := flags&flagFromIsValueRef != 0
	toIsValueRef := flags&flagToIsValueRef != 0

	var from, to ids.ID
	if fromIsValueRef {
		from, err = r.ReadID()
	} else {
		from, err = decodeObjectRef(r, d)
	}
	if err != nil {
		return nil, err
	}
	if toIsValueRef {
		to, err = r.ReadID()
	} else {
		to, err = decodeObjectRef(r, d)
	}
	if err != nil {
		return nil, err
	}

	out := model.CreateRelation{
		ID: id, RelationType: relType,
		From: from, FromIsValueRef: fromIsValueRef,
		To: to, ToIsValueRef: toIsValueRef,
	}

	if flags&flagHasFromSpace != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.FromSpace = &v
	}
	if flags&flagHasFromVersion != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.FromVersion = &v
	}
	if flags&flagHasToSpace != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.ToSpace = &v
	}
	if flags&flagHasToVersion != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.ToVersion = &v
	}
	if flags&flagHasEntity != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.Entity = &v
	}
	if flags&flagHasPosition != 0 {
		pos, err := r.ReadString(primitives.MaxPositionLen)
		if err != nil {
			return nil, err
		}
		if err := validatePosition(pos); err != nil {
			return nil, err
		}
		out.Position = &pos
	}

	ctx, err := decodeContextRef(r, d.contexts)
	if err != nil {
		return nil, err
	}
	out.Context = ctx

	return out, nil
}

func decodeUpdateRelation(r *primitives.Reader, d *decodedDicts) (model.Op, error) {
	id, err := decodeObjectRef(r, d)
	if err != nil {
		return nil, err
	}
	setFlags, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	unsetFlags, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if setFlags&updateSetReservedMask != 0 || unsetFlags&updateUnsetReservedMask != 0 {
		return nil, errs.ErrReservedBitsSet
	}

	out := model.UpdateRelation{ID: id}

	if setFlags&updateSetFromSpace != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.FromSpace = &v
	}
	if setFlags&updateSetFromVersion != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.FromVersion = &v
	}
	if setFlags&updateSetToSpace != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.ToSpace = &v
	}
	if setFlags&updateSetToVersion != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.ToVersion = &v
	}
	if setFlags&updateSetPosition != 0 {
		pos, err := r.ReadString(primitives.MaxPositionLen)
		if err != nil {
			return nil, err
		}
		if err := validatePosition(pos); err != nil {
			return nil, err
		}
		out.Position = &pos
	}

	if unsetFlags&updateUnsetFromSpace != 0 {
		out.Unset = append(out.Unset, model.UnsetFromSpace)
	}
	if unsetFlags&updateUnsetFromVersion != 0 {
		out.Unset = append(out.Unset, model.UnsetFromVersion)
	}
	if unsetFlags&updateUnsetToSpace != 0 {
		out.Unset = append(out.Unset, model.UnsetToSpace)
	}
	if unsetFlags&updateUnsetToVersion != 0 {
		out.Unset = append(out.Unset, model.UnsetToVersion)
	}
	if unsetFlags&updateUnsetPosition != 0 {
		out.Unset = append(out.Unset, model.UnsetPosition)
	}

	ctx, err := decodeContextRef(r, d.contexts)
	if err != nil {
		return nil, err
	}
	out.Context = ctx

	return out, nil
}

func decodeCreateValueRef(r *primitives.Reader, d *decodedDicts) (model.Op, error) {
	id, err := r.ReadID()
	if err != nil {
		return nil, err
	}
	entityRef, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	entity, err := d.objectID(entityRef)
	if err != nil {
		return nil, err
	}
	propRef, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	propID, propType, err := d.propertyID(propRef)
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if flags&createValueRefReservedMask != 0 {
		return nil, errs.ErrReservedBitsSet
	}

	out := model.CreateValueRef{ID: id, Entity: entity, Property: propID}

	if flags&flagHasLanguage != 0 {
		if propType != model.DataTypeText {
			return nil, fmt.Errorf("%w: CreateValueRef language set on non-Text property", errs.ErrInvalidDataType)
		}
		langRef, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		lang, err := resolveOptionalRef(langRef, d.languages)
		if err != nil {
			return nil, err
		}
		out.Language = lang
	}
	if flags&flagHasSpace != 0 {
		v, err := r.ReadID()
		if err != nil {
			return nil, err
		}
		out.Space = &v
	}

	ctx, err := decodeContextRef(r, d.contexts)
	if err != nil {
		return nil, err
	}
	out.Context = ctx

	return out, nil
}
