package catalog

import (
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/types"
)

func classNotFound(id types.ClassId) error {
	return gderrors.Usage(gderrors.CodeNoExistClass, "class %d does not exist", id)
}

func classNameNotFound(name string) error {
	return gderrors.Usage(gderrors.CodeNoExistClass, "class %q does not exist", name)
}

func propertyNotFound(class types.ClassId, name string) error {
	return gderrors.Usage(gderrors.CodeNoExistProperty, "class %d has no property %q", class, name)
}

func indexNotFound(id types.IndexId) error {
	return gderrors.Usage(gderrors.CodeNoExistIndex, "index %d does not exist", id)
}

func inheritanceCycle(class types.ClassId) error {
	return gderrors.Usage(gderrors.CodeInvalidClassType, "class %d's base chain forms a cycle", class)
}

func duplicateClassName(name string) error {
	return gderrors.Usage(gderrors.CodeDuplicateClass, "class %q already exists", name)
}

func duplicatePropertyName(class types.ClassId, name string) error {
	return gderrors.Usage(gderrors.CodeDuplicateProperty, "class %d already has a property %q", class, name)
}

func duplicateIndex(class types.ClassId, prop types.PropertyId) error {
	return gderrors.Usage(gderrors.CodeDuplicateIndex, "class %d property %d already has an index", class, prop)
}
