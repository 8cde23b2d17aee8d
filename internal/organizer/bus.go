// Package organizer implements drag-and-drop file-to-group reassignment:
// drag source and drop zone registries with pointer hit-testing, a session
// controller that turns a completed drop into a server-side move, and a
// pub/sub bus that lets independent file lists patch themselves on success
// without re-fetching.
package organizer

import (
	"sync"

	"github.com/mdpreview/mdpreview/internal/model"
)

// FileMovedEvent announces a confirmed group reassignment. TargetGroupID is
// nil when the file was moved to the ungrouped bucket. File carries the
// post-move snapshot so subscribers can patch lists without a fetch.
type FileMovedEvent struct {
	FileID        string
	TargetGroupID *string
	File          model.File
}

// Bus is a synchronous publish/subscribe channel for move events. It is
// injected into whoever needs it rather than living as a package global, so
// tests can construct isolated instances.
type Bus struct {
	mu     sync.Mutex
	nextID int
	order  []int
	subs   map[int]func(FileMovedEvent)
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]func(FileMovedEvent)),
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
// Unsubscribing twice is harmless.
func (b *Bus) Subscribe(fn func(FileMovedEvent)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers the event to every listener registered at the time of the
// call, synchronously, in registration order. The listener set is snapshotted
// first: a listener that unsubscribes mid-dispatch still receives this event,
// and one that subscribes mid-dispatch does not.
func (b *Bus) Publish(event FileMovedEvent) {
	b.mu.Lock()
	snapshot := make([]func(FileMovedEvent), 0, len(b.subs))
	live := b.order[:0]
	for _, id := range b.order {
		fn, ok := b.subs[id]
		if !ok {
			continue
		}
		live = append(live, id)
		snapshot = append(snapshot, fn)
	}
	b.order = live
	b.mu.Unlock()

	for _, fn := range snapshot {
		fn(event)
	}
}

// Len reports the number of active subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
