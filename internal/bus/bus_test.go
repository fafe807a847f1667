package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishInOrder(t *testing.T) {
	b := New()
	var got []string
	b.Subscribe(TopicThemeUpdated, func(p any) { got = append(got, "first:"+p.(string)) })
	b.Subscribe(TopicThemeUpdated, func(p any) { got = append(got, "second:"+p.(string)) })
	b.Subscribe(TopicOpacityUpdated, func(p any) { got = append(got, "opacity") })

	b.Publish(TopicThemeUpdated, "light")

	assert.Equal(t, []string{"first:light", "second:light"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New()
	calls := 0
	stop := b.Subscribe(TopicOpacityUpdated, func(any) { calls++ })
	b.Subscribe(TopicOpacityUpdated, func(any) { calls += 10 })

	b.Publish(TopicOpacityUpdated, 50)
	stop()
	stop()
	b.Publish(TopicOpacityUpdated, 60)

	assert.Equal(t, 21, calls)
}

func TestBus_RemoveAll(t *testing.T) {
	b := New()
	calls := 0
	b.Subscribe(TopicThemeUpdated, func(any) { calls++ })

	b.RemoveAll(TopicThemeUpdated)
	b.Publish(TopicThemeUpdated, "dark")

	assert.Zero(t, calls)
}

func TestBus_HandlerMaySubscribe(t *testing.T) {
	b := New()
	calls := 0
	b.Subscribe(TopicThemeUpdated, func(any) {
		b.Subscribe(TopicThemeUpdated, func(any) { calls++ })
	})

	b.Publish(TopicThemeUpdated, "dark")
	assert.Zero(t, calls)

	b.Publish(TopicThemeUpdated, "light")
	assert.Equal(t, 1, calls)
}
