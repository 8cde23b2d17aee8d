package organizer

import (
	"testing"

	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 100, H: 50}

	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 50, Y: 30}))
	assert.False(t, r.Contains(Point{X: 110, Y: 30}))
	assert.False(t, r.Contains(Point{X: 50, Y: 60}))
	assert.False(t, r.Contains(Point{X: 9, Y: 30}))
}

func TestZoneAtHitTest(t *testing.T) {
	registry := NewRegistry()

	registry.RegisterZone(Zone{GroupID: str("g1"), Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})
	registry.RegisterZone(Zone{GroupID: nil, Bounds: Rect{X: 200, Y: 0, W: 100, H: 100}})

	zone, ok := registry.ZoneAt(Point{X: 50, Y: 50})
	require.True(t, ok)
	require.NotNil(t, zone.GroupID)
	assert.Equal(t, "g1", *zone.GroupID)

	zone, ok = registry.ZoneAt(Point{X: 250, Y: 50})
	require.True(t, ok)
	assert.Nil(t, zone.GroupID)

	_, ok = registry.ZoneAt(Point{X: 150, Y: 50})
	assert.False(t, ok)
}

func TestZoneAtOverlapLastRegisteredWins(t *testing.T) {
	registry := NewRegistry()

	registry.RegisterZone(Zone{GroupID: str("below"), Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})
	registry.RegisterZone(Zone{GroupID: str("above"), Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})

	zone, ok := registry.ZoneAt(Point{X: 50, Y: 50})
	require.True(t, ok)
	assert.Equal(t, "above", *zone.GroupID)
}

func TestDeregisteredZoneNoLongerHit(t *testing.T) {
	registry := NewRegistry()

	deregister := registry.RegisterZone(Zone{GroupID: str("g1"), Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}})
	deregister()

	_, ok := registry.ZoneAt(Point{X: 50, Y: 50})
	assert.False(t, ok)
}

func TestSourceRegistration(t *testing.T) {
	registry := NewRegistry()

	deregister := registry.RegisterSource(Source{FileID: "f1", File: model.File{ID: "f1", Title: "t"}})

	src, ok := registry.Source("f1")
	require.True(t, ok)
	assert.Equal(t, "t", src.File.Title)

	deregister()
	_, ok = registry.Source("f1")
	assert.False(t, ok)
}
