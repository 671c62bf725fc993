package relationship

// CreatedEvent is published after a new edge is committed.
type CreatedEvent struct {
	Result Edge
}

// ReactivatedEvent is published when a previously removed edge comes back.
type ReactivatedEvent struct {
	Result Edge
}

func NewCreatedEvent(result Edge) *CreatedEvent {
	return &CreatedEvent{Result: result}
}

func NewReactivatedEvent(result Edge) *ReactivatedEvent {
	return &ReactivatedEvent{Result: result}
}
