// Package schema implements the advisory SchemaContext validator, grounded
// on the Rust reference's validate/mod.rs.
//
// GRC-20 typing is per-edit: the wire format does not enforce that a
// property always carries the same data type across edits. SchemaContext
// lets an application opt into that enforcement locally, by registering the
// types it expects and checking a decoded edit's values against them before
// acting on it.
package schema

import (
	"fmt"

	"github.com/geobrowser/grc-20/errs"
	"github.com/geobrowser/grc-20/ids"
	"github.com/geobrowser/grc-20/internal/xxhash16"
	"github.com/geobrowser/grc-20/model"
)

type propertyEntry struct {
	id       ids.ID
	dataType model.DataType
}

// Context registers expected property data types and checks edits against
// them. The zero value is ready to use.
type Context struct {
	buckets map[uint64][]propertyEntry
}

// AddProperty registers property's expected data type, overwriting any
// previous registration for the same property.
func (c *Context) AddProperty(property ids.ID, dataType model.DataType) {
	if c.buckets == nil {
		c.buckets = make(map[uint64][]propertyEntry)
	}

	h := xxhash16.Sum(property)
	bucket := c.buckets[h]
	for i, e := range bucket {
		if e.id == property {
			bucket[i].dataType = dataType

			return
		}
	}
	c.buckets[h] = append(bucket, propertyEntry{id: property, dataType: dataType})
}

// PropertyType returns the registered data type for property, if any.
func (c *Context) PropertyType(property ids.ID) (model.DataType, bool) {
	for _, e := range c.buckets[xxhash16.Sum(property)] {
		if e.id == property {
			return e.dataType, true
		}
	}

	return 0, false
}

// ValidateEdit checks every CreateEntity and UpdateEntity op's values
// against c, returning the first type mismatch found. Properties not
// registered in c are allowed through unchecked: this is advisory
// validation, not a closed-world schema.
//
// Entity lifecycle validation (whether an op is legal given an entity's
// current ACTIVE/DELETED state) requires state the edit itself doesn't
// carry and is out of scope here.
func (c *Context) ValidateEdit(e model.Edit) error {
	for _, op := range e.Ops {
		switch o := op.(type) {
		case model.CreateEntity:
			if err := c.validateValues(o.Values); err != nil {
				return err
			}
		case model.UpdateEntity:
			if err := c.validateValues(o.SetProperties); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *Context) validateValues(values []model.PropertyValue) error {
	for _, pv := range values {
		expected, ok := c.PropertyType(pv.Property)
		if !ok {
			continue
		}
		actual := pv.Value.DataType()
		if actual != expected {
			return fmt.Errorf("%w: property %s expected %s, got %s",
				errs.ErrSchemaTypeMismatch, ids.Format(pv.Property), expected, actual)
		}
	}

	return nil
}
