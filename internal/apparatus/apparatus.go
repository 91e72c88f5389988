package apparatus

import (
	"fmt"

	"github.com/benchflow/benchflow-core/internal/component"
)

// Connection joins two components, optionally through a named tube.
type Connection struct {
	From *component.Component
	To   *component.Component
	Via  string
}

// Apparatus is the ordered set of components a procedure addresses and
// the connections between them.
//
// Thread Safety: not safe for concurrent mutation. Build the apparatus
// fully, then share it read-only.
type Apparatus struct {
	name        string
	components  []*component.Component
	connections []Connection
}

// New constructs an empty apparatus.
func New(name string) *Apparatus {
	return &Apparatus{name: name}
}

// Name returns the apparatus name.
func (a *Apparatus) Name() string {
	return a.name
}

// Add appends a component. Duplicate names are tolerated here so the
// apparatus can be assembled incrementally; compilation rejects them
// with a precise error.
func (a *Apparatus) Add(c *component.Component) error {
	if c == nil {
		return ErrNilComponent
	}
	a.components = append(a.components, c)
	return nil
}

// Connect records a connection between two previously added components.
//
// Parameters:
//   - from: Source component name
//   - to: Destination component name
//   - via: Optional tube or fitting label; empty means direct
//
// Returns:
//   - error: ErrUnknownComponent if either end was never added
func (a *Apparatus) Connect(from, to, via string) error {
	src := a.lookup(from)
	if src == nil {
		return fmt.Errorf("%w: %q", ErrUnknownComponent, from)
	}
	dst := a.lookup(to)
	if dst == nil {
		return fmt.Errorf("%w: %q", ErrUnknownComponent, to)
	}
	a.connections = append(a.connections, Connection{From: src, To: dst, Via: via})
	return nil
}

// Components returns the components in insertion order. The slice is a
// copy; the pointed-to components are shared.
func (a *Apparatus) Components() []*component.Component {
	out := make([]*component.Component, len(a.components))
	copy(out, a.components)
	return out
}

// Active returns the active components in insertion order.
func (a *Apparatus) Active() []*component.Component {
	var out []*component.Component
	for _, c := range a.components {
		if c.Active() {
			out = append(out, c)
		}
	}
	return out
}

// Connections returns a copy of the recorded connections.
func (a *Apparatus) Connections() []Connection {
	out := make([]Connection, len(a.connections))
	copy(out, a.connections)
	return out
}

// Contains reports whether the exact component (by identity, not name)
// belongs to this apparatus.
func (a *Apparatus) Contains(c *component.Component) bool {
	for _, have := range a.components {
		if have == c {
			return true
		}
	}
	return false
}

// Validate checks the apparatus is usable: it is named, holds at least
// one component, and if any connections exist the connection graph links
// every component into a single piece.
func (a *Apparatus) Validate() error {
	if a.name == "" {
		return ErrEmptyName
	}
	if len(a.components) == 0 {
		return ErrNoComponents
	}
	if len(a.connections) == 0 {
		return nil
	}
	return a.checkConnected()
}

// checkConnected walks the undirected connection graph from the first
// component and confirms every component is reachable.
func (a *Apparatus) checkConnected() error {
	adjacency := make(map[*component.Component][]*component.Component)
	for _, conn := range a.connections {
		adjacency[conn.From] = append(adjacency[conn.From], conn.To)
		adjacency[conn.To] = append(adjacency[conn.To], conn.From)
	}

	seen := make(map[*component.Component]bool)
	stack := []*component.Component{a.components[0]}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, adjacency[cur]...)
	}

	for _, c := range a.components {
		if !seen[c] {
			return fmt.Errorf("%w: %q", ErrDisconnected, c.Name)
		}
	}
	return nil
}

// lookup returns the first component with the given name, or nil.
func (a *Apparatus) lookup(name string) *component.Component {
	for _, c := range a.components {
		if c.Name == name {
			return c
		}
	}
	return nil
}
