package organizer

import (
	"context"

	"github.com/mdpreview/mdpreview/internal/model"
)

// Mover performs the server-side group reassignment. groupID nil moves the
// file to the ungrouped bucket.
type Mover interface {
	UpdateFileGroup(ctx context.Context, fileID string, groupID *string) (*model.File, error)
}

// Notifier surfaces transient user feedback. Implementations render toasts;
// tests record calls.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// State is the drag session lifecycle.
type State int

const (
	Idle State = iota
	Dragging
)

// Session coordinates a single drag gesture: capture the file on drag start,
// hit-test on drop, run the reassignment, and broadcast the move on success.
// At most one drag is active at a time; the pointer model guarantees that,
// so Start while Dragging simply replaces the stale session.
type Session struct {
	registry *Registry
	bus      *Bus
	mover    Mover
	notifier Notifier

	state  State
	active *Source
	hover  *Zone
}

func NewSession(registry *Registry, bus *Bus, mover Mover, notifier Notifier) *Session {
	return &Session{
		registry: registry,
		bus:      bus,
		mover:    mover,
		notifier: notifier,
	}
}

func (s *Session) State() State {
	return s.state
}

// Active returns the dragged file snapshot for overlay rendering, or nil
// when idle.
func (s *Session) Active() *model.File {
	if s.active == nil {
		return nil
	}
	file := s.active.File
	return &file
}

// Start begins a drag for a registered file. Unknown file ids are ignored.
func (s *Session) Start(fileID string) {
	src, ok := s.registry.Source(fileID)
	if !ok {
		return
	}

	s.state = Dragging
	s.active = &src
	s.hover = nil
}

// Move updates the hovered drop zone for hover feedback.
func (s *Session) Move(p Point) {
	if s.state != Dragging {
		return
	}

	zone, ok := s.registry.ZoneAt(p)
	if !ok {
		s.hover = nil
		return
	}
	s.hover = &zone
}

// Hovering reports the zone under the pointer, or nil. Targets use it to
// render their highlight.
func (s *Session) Hovering() *Zone {
	return s.hover
}

// Cancel aborts the gesture without side effects.
func (s *Session) Cancel() {
	s.reset()
}

// Drop ends the gesture at the given pointer position. Outside every zone it
// aborts silently. A drop onto the file's current group is a no-op with no
// network call. Otherwise it reassigns the file and, only on confirmed
// success, publishes the move so local lists patch themselves. On failure
// nothing is published, so lists never diverge from server state.
func (s *Session) Drop(ctx context.Context, p Point) {
	if s.state != Dragging || s.active == nil {
		s.reset()
		return
	}

	src := *s.active
	defer s.reset()

	zone, ok := s.registry.ZoneAt(p)
	if !ok {
		return
	}

	if src.File.InGroup(zone.GroupID) {
		return
	}

	updated, err := s.mover.UpdateFileGroup(ctx, src.FileID, zone.GroupID)
	if err != nil {
		s.notifier.Error("Failed to move file")
		return
	}

	s.bus.Publish(FileMovedEvent{
		FileID:        src.FileID,
		TargetGroupID: zone.GroupID,
		File:          *updated,
	})

	if zone.GroupID == nil {
		s.notifier.Success("File removed from group")
	} else {
		s.notifier.Success("File moved to group")
	}
}

func (s *Session) reset() {
	s.state = Idle
	s.active = nil
	s.hover = nil
}
