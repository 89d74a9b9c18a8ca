package engine

// Dispatcher routes actions and toggles to components and propagates the
// resulting notifications to observers. It never touches the Board.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over registry
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch applies action to the component and delivers any emitted events
// to its observers before returning.
func (d *Dispatcher) Dispatch(componentID, action string) (*DispatchResult, error) {
	c, err := d.registry.Get(componentID)
	if err != nil {
		return nil, &DispatchError{ComponentID: componentID, Action: normalizeAction(action), Err: err}
	}

	transition := c.ApplyAction(action)
	notifications := d.propagate(c, transition.Emitted, 1)
	if notifications == nil {
		notifications = []Notification{}
	}

	return &DispatchResult{
		Transition:    transition,
		Notifications: notifications,
		Component:     c.Render(),
	}, nil
}

// NotifyObservers delivers event to every observer of componentID,
// in registration order, synchronously.
func (d *Dispatcher) NotifyObservers(componentID, event string) ([]Notification, error) {
	c, err := d.registry.Get(componentID)
	if err != nil {
		return nil, &DispatchError{ComponentID: componentID, Action: normalizeAction(event), Err: err}
	}
	return d.notify(c, normalizeAction(event), 1), nil
}

// Toggle applies the direct-click transition. No observers are notified.
func (d *Dispatcher) Toggle(componentID string) (TransitionResult, RenderState, error) {
	c, err := d.registry.Get(componentID)
	if err != nil {
		return TransitionResult{}, RenderState{}, &DispatchError{ComponentID: componentID, Action: "toggle", Err: err}
	}
	transition := c.ToggleState()
	return transition, c.Render(), nil
}

func (d *Dispatcher) propagate(source *Component, events []string, depth int) []Notification {
	var out []Notification
	for _, event := range events {
		out = append(out, d.notify(source, event, depth)...)
	}
	return out
}

// notify recurses depth-first. There is no cycle detection.
func (d *Dispatcher) notify(source *Component, event string, depth int) []Notification {
	var out []Notification
	for _, observerID := range source.observers {
		observer, err := d.registry.Get(observerID)
		if err != nil {
			continue
		}
		transition := observer.ApplyAction(event)
		out = append(out, Notification{
			From:       source.id,
			To:         observerID,
			Event:      event,
			Depth:      depth,
			Transition: transition,
		})
		out = append(out, d.propagate(observer, transition.Emitted, depth+1)...)
	}
	return out
}
