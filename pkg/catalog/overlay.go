package catalog

import (
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/types"
)

// OverlayTx is the mutable view a single read-write transaction gets of the
// catalog: a copy-on-write clone of the Snapshot the transaction began
// against, plus counters for allocating fresh ids. Every mutation method
// takes effect immediately within the overlay, so later operations in the
// same transaction see earlier ones, but nothing is visible to any other
// transaction until Catalog.Publish runs after the underlying KV
// transaction commits.
type OverlayTx struct {
	working *Snapshot

	nextClassID    types.ClassId
	nextPropertyID types.PropertyId
	nextIndexID    types.IndexId
}

func newOverlay(base *Snapshot, counters counterState) *OverlayTx {
	return &OverlayTx{
		working:        base.clone(),
		nextClassID:    counters.nextClassID,
		nextPropertyID: counters.nextPropertyID,
		nextIndexID:    counters.nextIndexID,
	}
}

// Snapshot returns the overlay's current working view, for validation code
// in pkg/record and pkg/relation that needs to read the schema a
// transaction is about to commit.
func (o *OverlayTx) Snapshot() *Snapshot { return o.working }

// AddClass registers a new class. base, if non-nil, must already exist;
// classes form a single-inheritance forest (§3), so base itself may have
// its own base but a class may not be given two bases. kind must be vertex
// or edge.
func (o *OverlayTx) AddClass(name string, kind types.ClassKind, base *types.ClassId) (types.ClassId, error) {
	if name == "" {
		return 0, gderrors.Usage(gderrors.CodeInvalidClassName, "class name must not be empty")
	}
	if kind != types.ClassKindVertex && kind != types.ClassKindEdge {
		return 0, gderrors.Usage(gderrors.CodeInvalidClassType, "class kind %q is not vertex or edge", kind)
	}
	if _, exists := o.working.classesByName[name]; exists {
		return 0, duplicateClassName(name)
	}
	if base != nil {
		if _, ok := o.working.classesByID[*base]; !ok {
			return 0, classNotFound(*base)
		}
	}

	o.nextClassID++
	id := o.nextClassID
	o.working.classesByID[id] = types.ClassDescriptor{ID: id, Name: name, Kind: kind, Base: base}
	o.working.classesByName[name] = id
	o.working.propertiesByClass[id] = make(map[string]types.PropertyDescriptor)
	log.WithClassID(uint16(id)).Debug().Str("name", name).Msg("class added")
	return id, nil
}

// AddSubClassOf sets class's base to base, replacing any prior base. It
// rejects the change if it would create a cycle in the inheritance chain.
func (o *OverlayTx) AddSubClassOf(class, base types.ClassId) error {
	c, ok := o.working.classesByID[class]
	if !ok {
		return classNotFound(class)
	}
	if _, ok := o.working.classesByID[base]; !ok {
		return classNotFound(base)
	}

	original := c.Base
	c.Base = &base
	o.working.classesByID[class] = c
	if _, err := o.working.classChain(class); err != nil {
		c.Base = original
		o.working.classesByID[class] = c
		return err
	}
	return nil
}

// RenameClass changes a class's name, which must not collide with another
// class's current name.
func (o *OverlayTx) RenameClass(class types.ClassId, newName string) error {
	c, ok := o.working.classesByID[class]
	if !ok {
		return classNotFound(class)
	}
	if newName == "" {
		return gderrors.Usage(gderrors.CodeInvalidClassName, "class name must not be empty")
	}
	if existing, exists := o.working.classesByName[newName]; exists && existing != class {
		return duplicateClassName(newName)
	}
	delete(o.working.classesByName, c.Name)
	c.Name = newName
	o.working.classesByID[class] = c
	o.working.classesByName[newName] = class
	return nil
}

// DropClass removes a class descriptor and every property and index
// declared directly on it. It does not cascade to subclasses: each
// subclass's Base is rewritten to the dropped class's own base, preserving
// the inheritance forest (§4.3). Callers are responsible for enforcing the
// "class must have no live records" invariant (§4.3, §9 resolved Open
// Question) before calling this — pkg/catalog has no visibility into
// pkg/record's data.
func (o *OverlayTx) DropClass(class types.ClassId) error {
	c, ok := o.working.classesByID[class]
	if !ok {
		return classNotFound(class)
	}
	for id, c2 := range o.working.classesByID {
		if c2.Base != nil && *c2.Base == class {
			c2.Base = c.Base
			o.working.classesByID[id] = c2
		}
	}
	for name, p := range o.working.propertiesByClass[class] {
		if idxID, ok := o.working.indexByClass[indexKey{class, p.ID}]; ok {
			delete(o.working.indexesByID, idxID)
			delete(o.working.indexByClass, indexKey{class, p.ID})
		}
		delete(o.working.propertiesByID, p.ID)
		delete(o.working.propertiesByClass[class], name)
	}
	delete(o.working.propertiesByClass, class)
	delete(o.working.classesByID, class)
	delete(o.working.classesByName, c.Name)
	log.WithClassID(uint16(class)).Debug().Str("name", c.Name).Msg("class dropped")
	return nil
}

// AddProperty declares a new property directly on class.
func (o *OverlayTx) AddProperty(class types.ClassId, name string, propType types.PropertyType) (types.PropertyId, error) {
	if _, ok := o.working.classesByID[class]; !ok {
		return 0, classNotFound(class)
	}
	if name == "" {
		return 0, gderrors.Usage(gderrors.CodeInvalidPropertyName, "property name must not be empty")
	}
	if _, exists := o.working.propertiesByClass[class][name]; exists {
		return 0, duplicatePropertyName(class, name)
	}

	o.nextPropertyID++
	id := o.nextPropertyID
	desc := types.PropertyDescriptor{ID: id, ClassID: class, Name: name, Type: propType}
	o.working.propertiesByClass[class][name] = desc
	o.working.propertiesByID[id] = desc
	return id, nil
}

// RenameProperty changes a property's name within its declaring class.
func (o *OverlayTx) RenameProperty(propID types.PropertyId, newName string) error {
	p, ok := o.working.propertiesByID[propID]
	if !ok {
		return gderrors.Usage(gderrors.CodeNoExistProperty, "property %d does not exist", propID)
	}
	if newName == "" {
		return gderrors.Usage(gderrors.CodeInvalidPropertyName, "property name must not be empty")
	}
	if _, exists := o.working.propertiesByClass[p.ClassID][newName]; exists {
		return duplicatePropertyName(p.ClassID, newName)
	}
	delete(o.working.propertiesByClass[p.ClassID], p.Name)
	p.Name = newName
	o.working.propertiesByClass[p.ClassID][newName] = p
	o.working.propertiesByID[propID] = p
	return nil
}

// DropProperty removes a property descriptor and any index built on it.
// Callers must first strip the property's values from existing records if
// that matters to them; the catalog layer does not touch stored data.
func (o *OverlayTx) DropProperty(propID types.PropertyId) error {
	p, ok := o.working.propertiesByID[propID]
	if !ok {
		return gderrors.Usage(gderrors.CodeNoExistProperty, "property %d does not exist", propID)
	}
	if idxID, ok := o.working.indexByClass[indexKey{p.ClassID, propID}]; ok {
		delete(o.working.indexesByID, idxID)
		delete(o.working.indexByClass, indexKey{p.ClassID, propID})
	}
	delete(o.working.propertiesByClass[p.ClassID], p.Name)
	delete(o.working.propertiesByID, propID)
	return nil
}

// CreateIndex registers a secondary index on class/prop. prop must be
// declared directly on class and be indexable (types.PropertyType's
// Indexable() — a blob property is rejected here with CodeInvalidPropType),
// and class/prop must not already have an index.
func (o *OverlayTx) CreateIndex(class types.ClassId, prop types.PropertyId, unique bool) (types.IndexId, error) {
	if _, ok := o.working.classesByID[class]; !ok {
		return 0, classNotFound(class)
	}
	p, ok := o.working.propertiesByID[prop]
	if !ok || p.ClassID != class {
		return 0, gderrors.Usage(gderrors.CodeNoExistProperty, "property %d does not exist on class %d", prop, class)
	}
	if !p.Type.Indexable() {
		return 0, gderrors.Usage(gderrors.CodeInvalidPropType, "property %q of type %s is not indexable", p.Name, p.Type)
	}
	if _, exists := o.working.indexByClass[indexKey{class, prop}]; exists {
		return 0, duplicateIndex(class, prop)
	}

	o.nextIndexID++
	id := o.nextIndexID
	o.working.indexesByID[id] = types.IndexDescriptor{ID: id, ClassID: class, PropID: prop, Unique: unique}
	o.working.indexByClass[indexKey{class, prop}] = id
	return id, nil
}

// DropIndex removes an index registration.
func (o *OverlayTx) DropIndex(id types.IndexId) error {
	idx, ok := o.working.indexesByID[id]
	if !ok {
		return indexNotFound(id)
	}
	delete(o.working.indexesByID, id)
	delete(o.working.indexByClass, indexKey{idx.ClassID, idx.PropID})
	return nil
}
