package wm

import "fmt"

// Member is anything a Layer can hold. Layers assign ids on insertion.
type Member interface {
	ID() string
	Kind() string
	AssignID(id string)
}

// Layer is a named, ordered, hideable group. Later members paint on top and
// are hit-tested first.
type Layer[T Member] struct {
	name    string
	hidden  bool
	members []T
	added   int
}

// NewLayer returns an empty visible layer.
func NewLayer[T Member](name string) *Layer[T] {
	return &Layer[T]{name: name}
}

// NewHiddenLayer returns an empty layer that starts hidden.
func NewHiddenLayer[T Member](name string) *Layer[T] {
	return &Layer[T]{name: name, hidden: true}
}

func (l *Layer[T]) Name() string { return l.name }

func (l *Layer[T]) Hidden() bool { return l.hidden }

// SetHidden toggles the layer. Members are kept either way.
func (l *Layer[T]) SetHidden(hidden bool) { l.hidden = hidden }

// Add appends members in order, assigning each an id of the form
// <layer>-<n>-<kind>.
func (l *Layer[T]) Add(members ...T) {
	for _, m := range members {
		l.added++
		m.AssignID(fmt.Sprintf("%s-%d-%s", l.name, l.added, m.Kind()))
		l.members = append(l.members, m)
	}
}

// Remove drops the member with the given id.
func (l *Layer[T]) Remove(id string) (T, bool) {
	for i, m := range l.members {
		if m.ID() == id {
			l.members = append(l.members[:i:i], l.members[i+1:]...)
			return m, true
		}
	}
	var zero T
	return zero, false
}

// MoveToTop re-appends the member so it paints last. Its id is unchanged.
func (l *Layer[T]) MoveToTop(id string) bool {
	m, ok := l.Remove(id)
	if !ok {
		return false
	}
	l.members = append(l.members, m)
	return true
}

// Find returns the member with the given id.
func (l *Layer[T]) Find(id string) (T, bool) {
	for _, m := range l.members {
		if m.ID() == id {
			return m, true
		}
	}
	var zero T
	return zero, false
}

// Members returns a copy of the members in paint order.
func (l *Layer[T]) Members() []T {
	out := make([]T, len(l.members))
	copy(out, l.members)
	return out
}

func (l *Layer[T]) Len() int { return len(l.members) }

// Reset removes every member. The id counter keeps counting.
func (l *Layer[T]) Reset() { l.members = nil }

// Visible flattens the members of every non-hidden layer in paint order.
func Visible[T Member](layers []*Layer[T]) []T {
	var out []T
	for _, l := range layers {
		if l.hidden {
			continue
		}
		out = append(out, l.members...)
	}
	return out
}

// All flattens the members of every layer, hidden or not.
func All[T Member](layers []*Layer[T]) []T {
	var out []T
	for _, l := range layers {
		out = append(out, l.members...)
	}
	return out
}

// FindLayer returns the layer with the given name.
func FindLayer[T Member](layers []*Layer[T], name string) (*Layer[T], bool) {
	for _, l := range layers {
		if l.name == name {
			return l, true
		}
	}
	return nil, false
}
