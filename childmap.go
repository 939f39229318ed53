package hashio

// ChildMap is an insertion-ordered map from a record's field name to the
// erased Node handle of that child, the concrete shape of the "ordered map
// from field-name to opaque child handle" childs() returns. A plain slice
// of pairs is sufficient and cheaper than a tree map since entries are
// always built fresh, in declaration order, by generated code.
type ChildMap struct {
	names  []string
	values []Node
}

// NewChildMap builds an empty ChildMap with capacity for n entries.
func NewChildMap(n int) *ChildMap {
	return &ChildMap{
		names:  make([]string, 0, n),
		values: make([]Node, 0, n),
	}
}

// Set appends a (name, node) pair. Generated code calls this once per child
// field, in declaration order; names are therefore unique in practice.
func (m *ChildMap) Set(name string, node Node) {
	m.names = append(m.names, name)
	m.values = append(m.values, node)
}

// Len reports the number of entries.
func (m *ChildMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// At returns the name/node pair at position i, in insertion order.
func (m *ChildMap) At(i int) (string, Node) {
	return m.names[i], m.values[i]
}

// Get looks up a child by name. Enumeration is O(n), appropriate given
// records have a handful of fields, not an open-ended key set.
func (m *ChildMap) Get(name string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	for i, n := range m.names {
		if n == name {
			return m.values[i], true
		}
	}
	return nil, false
}

// Range iterates entries in insertion order, stopping early if fn returns
// false.
func (m *ChildMap) Range(fn func(name string, node Node) bool) {
	if m == nil {
		return
	}
	for i, n := range m.names {
		if !fn(n, m.values[i]) {
			return
		}
	}
}
