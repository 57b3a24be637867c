package codec

import (
	"sort"

	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/model"
	"github.com/geobrowser/grc-20/primitives"
)

// valueSortKey is a (property_index, language_index) pair used to order
// CreateEntity.Values/UpdateEntity.SetProperties canonically.
type valueSortKey struct {
	propIndex uint32
	langIndex uint32
}

func sortPropertyValues(b refResolver, values []model.PropertyValue) ([]model.PropertyValue, error) {
	type entry struct {
		pv  model.PropertyValue
		key valueSortKey
	}

	entries := make([]entry, len(values))
	for i, pv := range values {
		propIdx, ok := b.GetPropertyIndex(pv.Property)
		if !ok {
			propIdx = b.AddProperty(pv.Property, pv.Value.Kind, false)
		}
		langIdx := languageSortKey(b, &pv.Value)
		entries[i] = entry{pv: pv, key: valueSortKey{propIndex: propIdx, langIndex: langIdx}}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].key.propIndex != entries[j].key.propIndex {
			return entries[i].key.propIndex < entries[j].key.propIndex
		}

		return entries[i].key.langIndex < entries[j].key.langIndex
	})

	out := make([]model.PropertyValue, len(entries))
	for i, e := range entries {
		out[i] = e.pv
		if i > 0 && entries[i-1].key == e.key {
			return nil, errs.ErrDuplicateValue
		}
	}

	return out, nil
}

// languageSortKey extracts the language-dictionary sort key for a value:
// only Text carries a language, every other variant sorts as "no language"
// (index 0).
func languageSortKey(b refResolver, v *model.Value) uint32 {
	if v.Kind != model.DataTypeText {
		return 0
	}
	idx, ok := b.GetLanguageIndex(v.TextLanguage)
	if !ok {
		idx = b.AddLanguage(v.TextLanguage)
	}

	return idx
}

// unsetSortKey computes a sort key for an unset's language scope:
// All -> 0xFFFFFFFF, NonLinguistic -> 0, Specific(L) -> language_index(L).
func unsetSortKey(b refResolver, ul model.UnsetLanguage) uint32 {
	switch ul.Kind {
	case model.UnsetAll:
		return primitives.AllLanguages
	case model.UnsetNonLinguistic:
		return 0
	default:
		idx, ok := b.GetLanguageIndex(&ul.Language)
		if !ok {
			idx = b.AddLanguage(&ul.Language)
		}

		return idx
	}
}

func sortUnsetValues(b refResolver, unsets []model.UnsetValue) ([]model.UnsetValue, error) {
	type entry struct {
		uv  model.UnsetValue
		key valueSortKey
	}

	entries := make([]entry, len(unsets))
	for i, uv := range unsets {
		propIdx, ok := b.GetPropertyIndex(uv.Property)
		if !ok {
			propIdx = b.AddProperty(uv.Property, model.DataTypeBool, true)
		}
		entries[i] = entry{uv: uv, key: valueSortKey{propIndex: propIdx, langIndex: unsetSortKey(b, uv.Language)}}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].key.propIndex != entries[j].key.propIndex {
			return entries[i].key.propIndex < entries[j].key.propIndex
		}

		return entries[i].key.langIndex < entries[j].key.langIndex
	})

	out := make([]model.UnsetValue, len(entries))
	for i, e := range entries {
		out[i] = e.uv
		if i > 0 && entries[i-1].key == e.key {
			return nil, errs.ErrDuplicateUnset
		}
	}

	return out, nil
}

// EncodeOpCanonical writes one op exactly like EncodeOp, except that
// CreateEntity/UpdateEntity sort their value and unset lists by
// (property_index, language_index) against the already-sorted dictionary
// and reject adjacent duplicates.
func EncodeOpCanonical(w *primitives.Writer, b objectResolver, op model.Op) error {
	switch o := op.(type) {
	case model.CreateEntity:
		sorted, err := sortPropertyValues(b, o.Values)
		if err != nil {
			return err
		}
		o.Values = sorted

		return EncodeOp(w, b, o)
	case model.UpdateEntity:
		sortedSet, err := sortPropertyValues(b, o.SetProperties)
		if err != nil {
			return err
		}
		sortedUnset, err := sortUnsetValues(b, o.UnsetValues)
		if err != nil {
			return err
		}
		o.SetProperties = sortedSet
		o.UnsetValues = sortedUnset

		return EncodeOp(w, b, o)
	default:
		return EncodeOp(w, b, op)
	}
}

// sortAuthors sorts author ids by raw bytes and rejects adjacent
// duplicates.
func sortAuthors(authors []ids.ID) ([]ids.ID, error) {
	out := append([]ids.ID(nil), authors...)
	sort.Slice(out, func(i, j int) bool { return lessBytes(out[i][:], out[j][:]) })
	for i := 1; i < len(out); i++ {
		if out[i-1] == out[i] {
			return nil, errs.ErrDuplicateAuthor
		}
	}

	return out, nil
}

func lessBytes(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return false
}
