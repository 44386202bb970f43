package todo

// EventKind identifies what changed in the store.
type EventKind int

const (
	EventCreated EventKind = iota + 1
	EventToggled
	EventEdited
	EventDeleted
	EventThemeChanged
	EventEditStarted
	EventEditCancelled
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventToggled:
		return "toggled"
	case EventEdited:
		return "edited"
	case EventDeleted:
		return "deleted"
	case EventThemeChanged:
		return "theme_changed"
	case EventEditStarted:
		return "edit_started"
	case EventEditCancelled:
		return "edit_cancelled"
	default:
		return "unknown"
	}
}

// Event describes a single state change.
type Event struct {
	Kind   EventKind
	TaskID string // empty for theme changes
}

// Observer receives store events. It is called synchronously, after the
// change has been applied and persisted.
type Observer func(Event)
