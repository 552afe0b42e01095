package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_FanOut(t *testing.T) {
	b := New()
	a, unsubA := b.Subscribe(1)
	c, unsubC := b.Subscribe(1)
	defer unsubA()
	defer unsubC()

	b.Publish(Event{Type: TopicNotificationsRefresh})

	ea := <-a
	ec := <-c
	assert.Equal(t, TopicNotificationsRefresh, ea.Type)
	assert.Equal(t, TopicNotificationsRefresh, ec.Type)
	assert.False(t, ea.Time.IsZero())
}

func TestBus_FullSubscriberDropsWithoutBlocking(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(1)
	defer unsub()

	b.Publish(Event{Type: "first"})
	b.Publish(Event{Type: "second"})

	e := <-ch
	assert.Equal(t, "first", e.Type)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event %q", extra.Type)
	default:
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(0)

	unsub()
	unsub()

	_, ok := <-ch
	require.False(t, ok)
	assert.NotPanics(t, func() { b.Publish(Event{Type: "after"}) })
}
