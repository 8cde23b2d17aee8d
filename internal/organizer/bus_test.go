package organizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(func(FileMovedEvent) { got = append(got, "a") })
	bus.Subscribe(func(FileMovedEvent) { got = append(got, "b") })
	bus.Subscribe(func(FileMovedEvent) { got = append(got, "c") })

	bus.Publish(FileMovedEvent{FileID: "f1"})

	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestBusEachSubscriberCalledOncePerPublish(t *testing.T) {
	bus := NewBus()

	counts := make([]int, 3)
	for i := range counts {
		i := i
		bus.Subscribe(func(FileMovedEvent) { counts[i]++ })
	}

	bus.Publish(FileMovedEvent{FileID: "f1"})
	bus.Publish(FileMovedEvent{FileID: "f2"})

	assert.Equal(t, []int{2, 2, 2}, counts)
}

func TestBusUnsubscribeMidDispatchDoesNotAffectSnapshot(t *testing.T) {
	bus := NewBus()

	var got []string
	var unsubB func()
	bus.Subscribe(func(FileMovedEvent) {
		got = append(got, "a")
		unsubB()
	})
	unsubB = bus.Subscribe(func(FileMovedEvent) { got = append(got, "b") })
	bus.Subscribe(func(FileMovedEvent) { got = append(got, "c") })

	bus.Publish(FileMovedEvent{FileID: "f1"})

	// b was captured in the dispatch snapshot before a unsubscribed it.
	require.Equal(t, []string{"a", "b", "c"}, got)

	got = got[:0]
	bus.Publish(FileMovedEvent{FileID: "f2"})
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestBusSubscribeMidDispatchDoesNotReceiveInFlightEvent(t *testing.T) {
	bus := NewBus()

	lateCalls := 0
	bus.Subscribe(func(FileMovedEvent) {
		bus.Subscribe(func(FileMovedEvent) { lateCalls++ })
	})

	bus.Publish(FileMovedEvent{FileID: "f1"})
	assert.Equal(t, 0, lateCalls)

	bus.Publish(FileMovedEvent{FileID: "f2"})
	assert.Equal(t, 1, lateCalls)
}

func TestBusUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsub := bus.Subscribe(func(FileMovedEvent) { calls++ })
	unsub()
	unsub()

	bus.Publish(FileMovedEvent{FileID: "f1"})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, bus.Len())
}
