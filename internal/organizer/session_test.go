package organizer

import (
	"context"
	"errors"
	"testing"

	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMover struct {
	calls  int
	lastID string
	lastGP *string
	err    error
}

func (m *fakeMover) UpdateFileGroup(_ context.Context, fileID string, groupID *string) (*model.File, error) {
	m.calls++
	m.lastID = fileID
	m.lastGP = groupID
	if m.err != nil {
		return nil, m.err
	}
	return &model.File{ID: fileID, Title: "t", Content: "c", GroupID: groupID}, nil
}

type fakeNotifier struct {
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *fakeNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

func str(s string) *string { return &s }

func newTestSession(mover *fakeMover, notifier *fakeNotifier) (*Session, *Registry, *Bus) {
	registry := NewRegistry()
	bus := NewBus()
	return NewSession(registry, bus, mover, notifier), registry, bus
}

func TestDropOutsideAnyZoneIsSilent(t *testing.T) {
	mover := &fakeMover{}
	notifier := &fakeNotifier{}
	session, registry, _ := newTestSession(mover, notifier)

	registry.RegisterSource(Source{FileID: "f1", File: model.File{ID: "f1"}})
	registry.RegisterZone(Zone{GroupID: str("g1"), Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})

	session.Start("f1")
	require.Equal(t, Dragging, session.State())

	session.Drop(context.Background(), Point{X: 500, Y: 500})

	assert.Equal(t, 0, mover.calls)
	assert.Empty(t, notifier.successes)
	assert.Empty(t, notifier.errors)
	assert.Equal(t, Idle, session.State())
}

func TestDropOntoCurrentGroupIsNoOp(t *testing.T) {
	mover := &fakeMover{}
	notifier := &fakeNotifier{}
	session, registry, bus := newTestSession(mover, notifier)

	published := 0
	bus.Subscribe(func(FileMovedEvent) { published++ })

	registry.RegisterSource(Source{FileID: "f1", File: model.File{ID: "f1", GroupID: str("g1")}})
	registry.RegisterZone(Zone{GroupID: str("g1"), Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})

	session.Start("f1")
	session.Drop(context.Background(), Point{X: 50, Y: 50})

	assert.Equal(t, 0, mover.calls)
	assert.Equal(t, 0, published)
	assert.Equal(t, Idle, session.State())
}

func TestDropMovesUngroupedFileIntoGroup(t *testing.T) {
	mover := &fakeMover{}
	notifier := &fakeNotifier{}
	session, registry, bus := newTestSession(mover, notifier)

	ungrouped := NewFileList(bus, nil, []model.File{{ID: "f1", Title: "t", Content: "c"}})
	defer ungrouped.Close()
	groupList := NewFileList(bus, str("g1"), nil)
	defer groupList.Close()

	registry.RegisterSource(Source{FileID: "f1", File: model.File{ID: "f1", Title: "t", Content: "c"}})
	registry.RegisterZone(Zone{GroupID: str("g1"), Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})

	session.Start("f1")
	session.Drop(context.Background(), Point{X: 10, Y: 10})

	require.Equal(t, 1, mover.calls)
	assert.Equal(t, "f1", mover.lastID)
	require.NotNil(t, mover.lastGP)
	assert.Equal(t, "g1", *mover.lastGP)

	assert.False(t, ungrouped.Contains("f1"))
	assert.True(t, groupList.Contains("f1"))
	assert.Equal(t, 1, groupList.Count())

	require.Len(t, notifier.successes, 1)
	assert.Equal(t, "File moved to group", notifier.successes[0])
}

func TestDropOntoUngroupedZoneRemovesFromGroup(t *testing.T) {
	mover := &fakeMover{}
	notifier := &fakeNotifier{}
	session, registry, bus := newTestSession(mover, notifier)

	groupList := NewFileList(bus, str("g1"), []model.File{{ID: "f2", GroupID: str("g1")}})
	defer groupList.Close()
	ungrouped := NewFileList(bus, nil, nil)
	defer ungrouped.Close()

	registry.RegisterSource(Source{FileID: "f2", File: model.File{ID: "f2", GroupID: str("g1")}})
	registry.RegisterZone(Zone{GroupID: nil, Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})

	session.Start("f2")
	session.Drop(context.Background(), Point{X: 10, Y: 10})

	require.Equal(t, 1, mover.calls)
	assert.Nil(t, mover.lastGP)

	assert.False(t, groupList.Contains("f2"))
	assert.True(t, ungrouped.Contains("f2"))

	require.Len(t, notifier.successes, 1)
	assert.Equal(t, "File removed from group", notifier.successes[0])
}

func TestFailedReassignmentLeavesListsUntouched(t *testing.T) {
	mover := &fakeMover{err: errors.New("not found")}
	notifier := &fakeNotifier{}
	session, registry, bus := newTestSession(mover, notifier)

	ungrouped := NewFileList(bus, nil, []model.File{{ID: "f1"}})
	defer ungrouped.Close()
	groupList := NewFileList(bus, str("g1"), nil)
	defer groupList.Close()

	registry.RegisterSource(Source{FileID: "f1", File: model.File{ID: "f1"}})
	registry.RegisterZone(Zone{GroupID: str("g1"), Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})

	session.Start("f1")
	session.Drop(context.Background(), Point{X: 10, Y: 10})

	require.Equal(t, 1, mover.calls)
	assert.True(t, ungrouped.Contains("f1"))
	assert.False(t, groupList.Contains("f1"))
	require.Len(t, notifier.errors, 1)
	assert.Empty(t, notifier.successes)
}

func TestCancelResetsWithoutSideEffects(t *testing.T) {
	mover := &fakeMover{}
	notifier := &fakeNotifier{}
	session, registry, _ := newTestSession(mover, notifier)

	registry.RegisterSource(Source{FileID: "f1", File: model.File{ID: "f1"}})

	session.Start("f1")
	require.NotNil(t, session.Active())

	session.Cancel()

	assert.Equal(t, Idle, session.State())
	assert.Nil(t, session.Active())
	assert.Equal(t, 0, mover.calls)
}

func TestStartUnknownFileStaysIdle(t *testing.T) {
	mover := &fakeMover{}
	session, _, _ := newTestSession(mover, &fakeNotifier{})

	session.Start("missing")

	assert.Equal(t, Idle, session.State())
	assert.Nil(t, session.Active())
}

func TestMoveTracksHoveredZone(t *testing.T) {
	mover := &fakeMover{}
	session, registry, _ := newTestSession(mover, &fakeNotifier{})

	registry.RegisterSource(Source{FileID: "f1", File: model.File{ID: "f1"}})
	registry.RegisterZone(Zone{GroupID: str("g1"), Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})

	session.Start("f1")

	session.Move(Point{X: 10, Y: 10})
	hover := session.Hovering()
	require.NotNil(t, hover)
	require.NotNil(t, hover.GroupID)
	assert.Equal(t, "g1", *hover.GroupID)

	session.Move(Point{X: 500, Y: 500})
	assert.Nil(t, session.Hovering())
}
