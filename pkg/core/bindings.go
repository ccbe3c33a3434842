package core

// Binding is one name -> literal pair.
type Binding struct {
	Name  string
	Value string
}

// Bindings is an insertion-ordered mapping from names to HDL literal text.
//
// Setting an existing name replaces its value without moving it; setting a
// new name appends it. The zero value is empty and ready to use, and all read
// methods accept a nil receiver.
type Bindings struct {
	entries []Binding
	index   map[string]int
}

// NewBindings builds Bindings from pairs in order. Later pairs shadow earlier
// pairs with the same name.
func NewBindings(pairs ...Binding) *Bindings {
	b := &Bindings{}
	for _, p := range pairs {
		b.Set(p.Name, p.Value)
	}
	return b
}

// Set assigns value to name.
func (b *Bindings) Set(name, value string) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[name]; ok {
		b.entries[i].Value = value
		return
	}
	b.index[name] = len(b.entries)
	b.entries = append(b.entries, Binding{Name: name, Value: value})
}

// Get returns the value bound to name.
func (b *Bindings) Get(name string) (string, bool) {
	if b == nil {
		return "", false
	}
	i, ok := b.index[name]
	if !ok {
		return "", false
	}
	return b.entries[i].Value, true
}

// Has reports whether name is bound.
func (b *Bindings) Has(name string) bool {
	_, ok := b.Get(name)
	return ok
}

// Len returns the number of distinct names.
func (b *Bindings) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Names returns the bound names in order.
func (b *Bindings) Names() []string {
	if b == nil {
		return nil
	}
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the pairs in order.
func (b *Bindings) Entries() []Binding {
	if b == nil {
		return nil
	}
	out := make([]Binding, len(b.entries))
	copy(out, b.entries)
	return out
}

// Clone returns an independent copy. Cloning nil yields an empty Bindings.
func (b *Bindings) Clone() *Bindings {
	out := &Bindings{}
	if b == nil {
		return out
	}
	for _, e := range b.entries {
		out.Set(e.Name, e.Value)
	}
	return out
}

// Merge overlays other onto b in other's order.
func (b *Bindings) Merge(other *Bindings) {
	for _, e := range other.Entries() {
		b.Set(e.Name, e.Value)
	}
}
