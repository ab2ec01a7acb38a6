package dnd

import "sort"

// Element is a rendered handle the engine can read geometry from.
type Element struct {
	ID     string
	Bounds Rect
}

// Container is one registered drop container (a list column).
type Container struct {
	ID    string
	Order int
	// Bounds is the hit box for item drags.
	Bounds Rect
	// Header is the part of the column a list drag scans against.
	Header Rect
	// DropZone is where the host draws the insertion hint; empty means Bounds.
	DropZone Rect
}

// Layout answers the geometric questions the resolver asks. Registry is the
// production implementation; tests can supply fixed rectangles.
type Layout interface {
	// Scope is the board area; list drags outside it keep their target.
	Scope() Rect
	// Containers returns registered containers sorted by order.
	Containers() []Container
	// Children returns the child elements of containerID in order.
	Children(containerID string) []Element
}

type registryEntry struct {
	container Container
	children  []Element
}

// Registry maps container ids to their live element geometry. The host rebuilds
// it on every layout pass and must unregister containers that unmount.
type Registry struct {
	scope   Rect
	entries map[string]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]*registryEntry{}}
}

func (r *Registry) SetScope(b Rect) { r.scope = b }

func (r *Registry) Scope() Rect { return r.scope }

// Register adds or replaces the entry for c.ID.
func (r *Registry) Register(c Container, children []Element) {
	r.entries[c.ID] = &registryEntry{container: c, children: append([]Element(nil), children...)}
}

func (r *Registry) Unregister(id string) {
	delete(r.entries, id)
}

// Retain unregisters every container whose id is not in ids.
func (r *Registry) Retain(ids []string) {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	for id := range r.entries {
		if !keep[id] {
			delete(r.entries, id)
		}
	}
}

func (r *Registry) Len() int { return len(r.entries) }

func (r *Registry) Container(id string) (Container, bool) {
	e, ok := r.entries[id]
	if !ok {
		return Container{}, false
	}
	return e.container, true
}

func (r *Registry) Containers() []Container {
	out := make([]Container, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.container)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) Children(containerID string) []Element {
	e, ok := r.entries[containerID]
	if !ok {
		return nil
	}
	return e.children
}

// Find returns the element registered under id, whether it is a container header
// or a child of one.
func (r *Registry) Find(id string) (Element, bool) {
	if e, ok := r.entries[id]; ok {
		return Element{ID: id, Bounds: e.container.Header}, true
	}
	for _, e := range r.entries {
		for _, ch := range e.children {
			if ch.ID == id {
				return ch, true
			}
		}
	}
	return Element{}, false
}
