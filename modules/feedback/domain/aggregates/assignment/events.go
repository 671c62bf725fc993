package assignment

// AssignedEvent is published after a survey is attached to an edge.
type AssignedEvent struct {
	Result Assignment
}

// UnassignedEvent is published after an assignment is deactivated.
type UnassignedEvent struct {
	Result Assignment
}

func NewAssignedEvent(result Assignment) *AssignedEvent {
	return &AssignedEvent{Result: result}
}

func NewUnassignedEvent(result Assignment) *UnassignedEvent {
	return &UnassignedEvent{Result: result}
}
