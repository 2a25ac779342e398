package sendr

import "reflect"

// Shape describes one payload or error alternative a sender may
// complete with. Go generics fix a sender's payload to a single static
// type, but composed pipelines are inspected at runtime - by tooling,
// by tests, and by anything walking a chain it did not build - so
// shapes are carried as runtime type descriptors.
//
// The payload-less completion is ShapeOf[struct{}]().
type Shape struct {
	t reflect.Type
}

// ShapeOf returns the shape of type T.
func ShapeOf[T any]() Shape {
	return Shape{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// shapeOfValue returns the shape of a value's dynamic type. Used for
// error shapes, where the static type (error) says less than the
// stored value.
func shapeOfValue(v any) Shape {
	return Shape{t: reflect.TypeOf(v)}
}

// Type returns the underlying reflect.Type, or nil for the zero Shape.
func (s Shape) Type() reflect.Type {
	return s.t
}

// String returns the type's string form, or "<none>" for the zero
// Shape.
func (s Shape) String() string {
	if s.t == nil {
		return "<none>"
	}
	return s.t.String()
}

// MergeShapes concatenates shape sets, dropping duplicates while
// preserving first-occurrence order. Composing stages use it to keep
// declared shape sets canonical: each alternative appears once no
// matter how many predecessor alternatives map onto it.
func MergeShapes(sets ...[]Shape) []Shape {
	var merged []Shape
	seen := make(map[reflect.Type]struct{})
	for _, set := range sets {
		for _, s := range set {
			if _, dup := seen[s.t]; dup {
				continue
			}
			seen[s.t] = struct{}{}
			merged = append(merged, s)
		}
	}
	return merged
}
