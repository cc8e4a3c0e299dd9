// Package catalog implements the versioned schema catalog SPEC_FULL.md §4.3
// describes: class and property descriptors, single-inheritance class
// hierarchy, secondary index registrations, and the per-transaction overlay
// view that lets a transaction see its own pending schema edits before they
// are published.
package catalog

import (
	"github.com/cuemby/graphdb/pkg/types"
)

// Snapshot is an immutable view of the catalog as of some committed
// transaction. Readers hold a strong reference to one Snapshot for their
// entire transaction lifetime, which is what gives the schema catalog the
// same snapshot-isolation guarantee as the data it describes (§4.3, §5).
type Snapshot struct {
	generation uint64

	classesByID   map[types.ClassId]types.ClassDescriptor
	classesByName map[string]types.ClassId

	// propertiesByClass[classID][name] holds only properties declared
	// directly on that class, not ones inherited from a base class.
	propertiesByClass map[types.ClassId]map[string]types.PropertyDescriptor
	propertiesByID    map[types.PropertyId]types.PropertyDescriptor

	indexesByID  map[types.IndexId]types.IndexDescriptor
	indexByClass map[indexKey]types.IndexId
}

type indexKey struct {
	class types.ClassId
	prop  types.PropertyId
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		classesByID:       make(map[types.ClassId]types.ClassDescriptor),
		classesByName:     make(map[string]types.ClassId),
		propertiesByClass: make(map[types.ClassId]map[string]types.PropertyDescriptor),
		propertiesByID:    make(map[types.PropertyId]types.PropertyDescriptor),
		indexesByID:       make(map[types.IndexId]types.IndexDescriptor),
		indexByClass:      make(map[indexKey]types.IndexId),
	}
}

// Generation increases by one on every Publish, which txnmgr runs for every
// committed write transaction. Query cursors capture it at creation and
// compare on each use to fail fast rather than keep returning results after
// a newer catalog has been published (§9).
func (s *Snapshot) Generation() uint64 { return s.generation }

// Class looks up a class descriptor by id.
func (s *Snapshot) Class(id types.ClassId) (types.ClassDescriptor, bool) {
	c, ok := s.classesByID[id]
	return c, ok
}

// ClassByName looks up a class descriptor by name.
func (s *Snapshot) ClassByName(name string) (types.ClassDescriptor, bool) {
	id, ok := s.classesByName[name]
	if !ok {
		return types.ClassDescriptor{}, false
	}
	return s.classesByID[id], true
}

// Property looks up a property descriptor by its global id.
func (s *Snapshot) Property(id types.PropertyId) (types.PropertyDescriptor, bool) {
	p, ok := s.propertiesByID[id]
	return p, ok
}

// PropertyByName looks up a property declared directly on class (not
// inherited), by name.
func (s *Snapshot) PropertyByName(class types.ClassId, name string) (types.PropertyDescriptor, bool) {
	byName, ok := s.propertiesByClass[class]
	if !ok {
		return types.PropertyDescriptor{}, false
	}
	p, ok := byName[name]
	return p, ok
}

// Index looks up an index descriptor by id.
func (s *Snapshot) Index(id types.IndexId) (types.IndexDescriptor, bool) {
	idx, ok := s.indexesByID[id]
	return idx, ok
}

// IndexFor looks up the index (if any) registered on class/prop.
func (s *Snapshot) IndexFor(class types.ClassId, prop types.PropertyId) (types.IndexDescriptor, bool) {
	id, ok := s.indexByClass[indexKey{class, prop}]
	if !ok {
		return types.IndexDescriptor{}, false
	}
	return s.indexesByID[id], true
}

// EffectiveProperties resolves the full set of properties visible on class,
// walking the single-inheritance chain from the root base class down to
// class itself. A property declared on a subclass with the same name as one
// on a base class shadows it, matching ordinary single-inheritance field
// shadowing. The result is computed fresh on every call — it is never
// cached beyond the lifetime of the Snapshot it was computed from (§4.3).
func (s *Snapshot) EffectiveProperties(class types.ClassId) ([]types.PropertyDescriptor, error) {
	chain, err := s.classChain(class)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]types.PropertyDescriptor)
	var order []string
	for _, c := range chain {
		for name, p := range s.propertiesByClass[c.ID] {
			if _, seen := byName[name]; !seen {
				order = append(order, name)
			}
			byName[name] = p
		}
	}

	out := make([]types.PropertyDescriptor, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, nil
}

// classChain returns class's ancestors root-first, ending with class.
func (s *Snapshot) classChain(class types.ClassId) ([]types.ClassDescriptor, error) {
	var chain []types.ClassDescriptor
	cur, ok := s.classesByID[class]
	if !ok {
		return nil, classNotFound(class)
	}
	visited := map[types.ClassId]bool{cur.ID: true}
	for {
		chain = append([]types.ClassDescriptor{cur}, chain...)
		if cur.Base == nil {
			break
		}
		if visited[*cur.Base] {
			return nil, inheritanceCycle(class)
		}
		visited[*cur.Base] = true
		next, ok := s.classesByID[*cur.Base]
		if !ok {
			return nil, classNotFound(*cur.Base)
		}
		cur = next
	}
	return chain, nil
}

// clone produces a deep-enough copy of s for an OverlayTx to mutate without
// disturbing readers still holding the published Snapshot.
func (s *Snapshot) clone() *Snapshot {
	out := emptySnapshot()
	out.generation = s.generation
	for k, v := range s.classesByID {
		out.classesByID[k] = v
	}
	for k, v := range s.classesByName {
		out.classesByName[k] = v
	}
	for class, byName := range s.propertiesByClass {
		cp := make(map[string]types.PropertyDescriptor, len(byName))
		for n, p := range byName {
			cp[n] = p
		}
		out.propertiesByClass[class] = cp
	}
	for k, v := range s.propertiesByID {
		out.propertiesByID[k] = v
	}
	for k, v := range s.indexesByID {
		out.indexesByID[k] = v
	}
	for k, v := range s.indexByClass {
		out.indexByClass[k] = v
	}
	return out
}
