package engine

import "fmt"

// Registry is the single owner of all components in a session.
// Board and Dispatcher refer to components by id only.
type Registry struct {
	components map[string]*Component
	order      []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]*Component),
	}
}

// Add registers a component, rejecting duplicate ids
func (r *Registry) Add(c *Component) error {
	if c == nil {
		return fmt.Errorf("component cannot be nil")
	}
	if r.Has(c.id) {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, c.id)
	}
	r.components[c.id] = c
	r.order = append(r.order, c.id)
	return nil
}

// Get returns the component with the given id
func (r *Registry) Get(id string) (*Component, error) {
	if c, ok := r.components[id]; ok {
		return c, nil
	}
	return nil, &UnknownComponentError{ID: id, Suggestion: suggestID(id, r.order)}
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	_, ok := r.components[id]
	return ok
}

// All returns every component in creation order
func (r *Registry) All() []*Component {
	out := make([]*Component, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.components[id])
	}
	return out
}

// IDs returns every component id in creation order
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Palette returns the components not placed on the board, in creation order
func (r *Registry) Palette() []*Component {
	var out []*Component
	for _, id := range r.order {
		c := r.components[id]
		if c.position == nil {
			out = append(out, c)
		}
	}
	return out
}

// Observe registers observerID as an observer of subjectID.
// It reports whether the observer list changed.
func (r *Registry) Observe(subjectID, observerID string) (bool, error) {
	subject, err := r.Get(subjectID)
	if err != nil {
		return false, err
	}
	if _, err := r.Get(observerID); err != nil {
		return false, err
	}
	return subject.RegisterObserver(observerID), nil
}

// Len returns the number of registered components
func (r *Registry) Len() int {
	return len(r.order)
}
