package event_bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []int
	for i := 0; i < 5; i++ {
		bus.Subscribe(NowTickedType, func(Event) error {
			calls = append(calls, i)
			return nil
		})
	}

	err := bus.Publish(NewEvent(context.Background(), NowTickedType, NowTicked{Offset: 10}))

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, calls)
}

func TestEventBus_OnlyMatchingTypeIsCalled(t *testing.T) {
	bus := NewEventBus()
	called := false
	bus.Subscribe(EventTappedType, func(Event) error {
		called = true
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), NowTickedType, NowTicked{})))

	assert.False(t, called)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	count := 0
	unsubscribe := bus.Subscribe(NowTickedType, func(Event) error {
		count++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), NowTickedType, NowTicked{})))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), NowTickedType, NowTicked{})))

	assert.Equal(t, 1, count)
	assert.Empty(t, bus.subscribers)
}

func TestEventBus_CollectsHandlerErrorsAndPanics(t *testing.T) {
	bus := NewEventBus()
	errBoom := errors.New("boom")
	lastCalled := false
	bus.Subscribe(FreeTimeTappedType, func(Event) error { return errBoom })
	bus.Subscribe(FreeTimeTappedType, func(Event) error { panic("handler exploded") })
	bus.Subscribe(FreeTimeTappedType, func(Event) error {
		lastCalled = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), FreeTimeTappedType, FreeTimeTapped{At: time.Now()}))

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "2 handler(s) failed")
	assert.Contains(t, err.Error(), "handler exploded")
	assert.True(t, lastCalled)
}

func TestEventBus_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	called := false
	bus.Subscribe(NowTickedType, func(Event) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, NowTickedType, NowTicked{}))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestSubscribeTyped(t *testing.T) {
	bus := NewEventBus()
	var received []FreeTimeTapped
	SubscribeTyped(bus, FreeTimeTappedType, func(e EventT[FreeTimeTapped]) error {
		received = append(received, e.Data)
		assert.NotNil(t, e.Context())
		return nil
	})
	at := time.Date(2026, time.January, 12, 15, 0, 0, 0, time.UTC)

	require.NoError(t, bus.Publish(NewEvent(context.Background(), FreeTimeTappedType, FreeTimeTapped{At: at})))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), FreeTimeTappedType, "not a tap")))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), FreeTimeTappedType, nil)))

	assert.Equal(t, []FreeTimeTapped{{At: at}}, received)
}

func TestEvent_ContextDefaultsToBackground(t *testing.T) {
	var e Event
	assert.Equal(t, context.Background(), e.Context())
	var typed EventT[NowTicked]
	assert.Equal(t, context.Background(), typed.Context())
}
