package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedRegistrationOrder(t *testing.T) {
	var f Feed[int]
	var got []string
	f.Subscribe(func(v int) { got = append(got, "a") })
	f.Subscribe(func(v int) { got = append(got, "b") })
	f.Subscribe(func(v int) { got = append(got, "c") })
	f.Publish(1)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestFeedUnsubscribe(t *testing.T) {
	var f Feed[int]
	var a, b int
	cancelA := f.Subscribe(func(v int) { a += v })
	f.Subscribe(func(v int) { b += v })
	f.Publish(1)
	cancelA()
	cancelA()
	f.Publish(2)
	assert.Equal(t, 1, a)
	assert.Equal(t, 3, b)
	assert.Equal(t, 1, f.Len())

	f.Close()
	f.Publish(4)
	assert.Equal(t, 3, b)
	assert.Equal(t, 0, f.Len())
}

func TestFeedChanDropsWhenFull(t *testing.T) {
	var f Feed[int]
	ch, cancel := f.SubscribeChan(1)
	defer cancel()
	f.Publish(1)
	f.Publish(2)
	assert.Equal(t, 1, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected value %d", v)
	default:
	}
}

func TestFeedConcurrentPublish(t *testing.T) {
	var f Feed[int]
	var mu sync.Mutex
	total := 0
	f.Subscribe(func(v int) {
		mu.Lock()
		total += v
		mu.Unlock()
	})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Publish(1)
			cancel := f.Subscribe(func(int) {})
			cancel()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, total)
}
