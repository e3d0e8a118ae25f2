package toast

// EventKind identifies the mutation that produced an Event.
type EventKind uint8

const (
	EventEnqueued EventKind = iota + 1
	EventProgress
	EventPaused
	EventResumed
	EventDismissed
	EventClosed
)

// String returns the lower-case name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventEnqueued:
		return "enqueued"
	case EventProgress:
		return "progress"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventDismissed:
		return "dismissed"
	case EventClosed:
		return "closed"
	}
	return "unknown"
}

// DismissReason explains why a notification left the queue.
type DismissReason string

const (
	ReasonManual  DismissReason = "manual"
	ReasonExpired DismissReason = "expired"
	ReasonClosed  DismissReason = "closed"
)

// Snapshot is the read projection handed to presentation surfaces.
//
// Version increases by one with every state change, so a surface that
// receives snapshots out of order can drop the stale ones.
type Snapshot struct {
	Version    uint64         `json:"version"`
	Position   Position       `json:"position"`
	MaxVisible int            `json:"maxVisible"`
	Total      int            `json:"total"`
	Paused     int            `json:"paused"`
	Items      []Notification `json:"toasts"`
}

// Event describes one state change of a Manager.
type Event struct {
	Kind EventKind

	// Notification is the affected toast as of this event. Zero for
	// EventClosed.
	Notification Notification

	// Reason is set for EventDismissed.
	Reason DismissReason

	// Snapshot is the visible state after the change.
	Snapshot Snapshot
}
