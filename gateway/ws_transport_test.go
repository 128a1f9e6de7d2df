package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu      sync.Mutex
	msgs    [][]byte
	signals []Signal
}

func (h *recordingHandler) OnRawMessage(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, append([]byte(nil), msg...))
}

func (h *recordingHandler) OnSignal(s Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.signals = append(h.signals, s)
}

func (h *recordingHandler) snapshot() ([][]byte, []Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([][]byte(nil), h.msgs...), append([]Signal(nil), h.signals...)
}

func TestWSTransportChannels(t *testing.T) {
	upgrader := websocket.Upgrader{}
	authSeen := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(DefaultDataPath, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte("book"))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	mux.HandleFunc(DefaultControlPath, func(w http.ResponseWriter, r *http.Request) {
		authSeen <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			_ = conn.WriteMessage(mt, append([]byte("echo:"), msg...))
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tr := NewWSTransport(WSConfig{
		Host:         strings.TrimPrefix(srv.URL, "http://"),
		Token:        "secret",
		Insecure:     true,
		RetryBackoff: 50 * time.Millisecond,
	}, nil, nil)
	assert.False(t, tr.Send([]byte("early")), "send before connect must fail")

	h := &recordingHandler{}
	require.NoError(t, tr.Connect(context.Background(), h))
	defer tr.Close()
	assert.ErrorIs(t, tr.Connect(context.Background(), h), ErrAlreadyConnected)

	require.Eventually(t, func() bool {
		return tr.IsDataConnected() && tr.IsControlConnected()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Token secret", <-authSeen)

	require.True(t, tr.Send([]byte("ping")))
	require.Eventually(t, func() bool {
		msgs, _ := h.snapshot()
		var book, echo bool
		for _, m := range msgs {
			book = book || string(m) == "book"
			echo = echo || string(m) == "echo:ping"
		}
		return book && echo
	}, 2*time.Second, 10*time.Millisecond)

	_, signals := h.snapshot()
	assert.Contains(t, signals, DataConnected)
	assert.Contains(t, signals, ControlConnected)

	require.NoError(t, tr.Close())
	assert.False(t, tr.Send([]byte("late")))
}

func TestTokenBucketLimiter(t *testing.T) {
	l := NewTokenBucketLimiter(1, 2)
	now := time.Now()
	l.now = func() time.Time { return now }
	l.last = now
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
	now = now.Add(time.Second)
	assert.True(t, l.Allow())
}
