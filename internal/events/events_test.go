package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e := New(EntityOrder, ActionUpdated, 7)

	assert.Equal(t, "order.updated", e.Kind)
	assert.Equal(t, EntityOrder, e.Entity)
	assert.Equal(t, int64(7), e.EntityID)
	assert.NotEmpty(t, e.ID)
	assert.WithinDuration(t, time.Now(), e.At, time.Minute)

	other := New(EntityOrder, ActionUpdated, 7)
	assert.NotEqual(t, e.ID, other.ID)
}

func TestWithData(t *testing.T) {
	e, err := New(EntityStats, ActionDigest, 0).WithData(map[string]int{"totalOrders": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalOrders":3}`, string(e.Data))
}

func TestDecode(t *testing.T) {
	e, err := decode([]byte(`{"id":"abc","kind":"client.created","entity":"client","entity_id":4,"at":"2024-05-01T10:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "client.created", e.Kind)
	assert.Equal(t, int64(4), e.EntityID)

	_, err = decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = decode([]byte(`{"id":"abc"}`))
	assert.Error(t, err)
}

func TestLocalBus_FanOut(t *testing.T) {
	ctx := context.Background()
	bus := NewLocalBus()

	first, cancelFirst, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelFirst()

	second, cancelSecond, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelSecond()

	sent := New(EntityClient, ActionCreated, 1)
	require.NoError(t, bus.Publish(ctx, sent))

	for _, ch := range []<-chan Event{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, sent.ID, got.ID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestLocalBus_CancelClosesChannel(t *testing.T) {
	bus := NewLocalBus()

	ch, cancel, err := bus.Subscribe(context.Background())
	require.NoError(t, err)

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after a subscriber left must not panic
	assert.NoError(t, bus.Publish(context.Background(), New(EntityOrder, ActionDeleted, 1)))
}

func TestLocalBus_ContextCancel(t *testing.T) {
	bus := NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch, _, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

func TestLocalBus_Close(t *testing.T) {
	bus := NewLocalBus()

	ch, _, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	_, open := <-ch
	assert.False(t, open)

	late, _, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	_, open = <-late
	assert.False(t, open)
}

func TestNopBus(t *testing.T) {
	var bus Bus = NopBus{}
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, bus.Publish(ctx, New(EntityOrder, ActionCreated, 1)))

	ch, _, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	select {
	case <-ch:
		t.Fatal("nop bus delivered an event")
	default:
	}

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

var (
	_ Bus = (*RedisBus)(nil)
	_ Bus = (*LocalBus)(nil)
	_ Bus = NopBus{}
)
