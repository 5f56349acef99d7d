package gesture

// EventType identifies a pointer event.
type EventType int

const (
	EventDown EventType = iota
	EventMove
	EventUp
	EventCancel
)

// Event is a pointer or touch event from the host.
type Event struct {
	Type  EventType
	Point Point
}

// PointerSource delivers pointer events to subscribers. Subscribe returns a
// function that removes the subscription.
type PointerSource interface {
	Subscribe(handler func(Event)) (unsubscribe func())
}

// Attach subscribes the resolver to src, replacing any earlier subscription.
func (r *Resolver) Attach(src PointerSource) {
	r.Detach()
	r.unsubscribe = src.Subscribe(r.Handle)
}

// Detach removes the resolver's subscription and drops any gesture in
// progress.
func (r *Resolver) Detach() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.reset()
}

// Handle dispatches one event to the matching handler. Submission errors are
// logged.
func (r *Resolver) Handle(e Event) {
	switch e.Type {
	case EventDown:
		r.PointerDown(e.Point)
	case EventMove:
		r.PointerMove(e.Point)
	case EventUp:
		if err := r.PointerUp(e.Point); err != nil {
			r.logger.Error("failed to submit turn", "error", err)
		}
	case EventCancel:
		r.Cancel()
	}
}
