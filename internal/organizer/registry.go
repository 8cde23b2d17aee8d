package organizer

import (
	"sync"

	"github.com/mdpreview/mdpreview/internal/model"
)

// Point is a pointer position in the host UI's coordinate space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned drop zone boundary.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p falls inside the rectangle. Edges on the left
// and top are inclusive, right and bottom exclusive, so adjacent zones never
// both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Source is a draggable file element: the file's identity plus a full
// snapshot carried as drag metadata.
type Source struct {
	FileID string
	File   model.File
}

// Zone is a drop target: a specific group, or the ungrouped bucket when
// GroupID is nil. Several zones for the same group may be registered at once
// (a sidebar entry and a dashboard card).
type Zone struct {
	GroupID *string
	Bounds  Rect
}

// Registry tracks the drag sources and drop zones currently on screen.
// Elements register on mount and deregister on unmount via the returned
// functions.
type Registry struct {
	mu        sync.Mutex
	nextID    int
	sources   map[string]Source
	zones     map[int]Zone
	zoneOrder []int
}

func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
		zones:   make(map[int]Zone),
	}
}

// RegisterSource makes a file draggable. Re-registering the same file
// replaces its snapshot.
func (r *Registry) RegisterSource(src Source) (deregister func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[src.FileID] = src

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.sources, src.FileID)
	}
}

// Source returns the registered snapshot for a file id.
func (r *Registry) Source(fileID string) (Source, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.sources[fileID]
	return src, ok
}

// RegisterZone adds a drop target and returns its deregister function.
func (r *Registry) RegisterZone(zone Zone) (deregister func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.zones[id] = zone
	r.zoneOrder = append(r.zoneOrder, id)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.zones, id)
	}
}

// ZoneAt hit-tests the pointer against registered zones. When zones overlap
// the most recently registered one wins, matching how later-mounted elements
// stack on top. The second return is false when the point is outside every
// zone.
func (r *Registry) ZoneAt(p Point) (Zone, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := r.zoneOrder[:0]
	var hit Zone
	found := false
	for _, id := range r.zoneOrder {
		zone, ok := r.zones[id]
		if !ok {
			continue
		}
		live = append(live, id)
		if zone.Bounds.Contains(p) {
			hit = zone
			found = true
		}
	}
	r.zoneOrder = live

	return hit, found
}
