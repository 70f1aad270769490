package server_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahar-caura/aura/internal/intent"
	"github.com/shahar-caura/aura/internal/router"
	"github.com/shahar-caura/aura/internal/server"
)

func TestSSEHubBroadcast(t *testing.T) {
	hub := server.NewSSEHub(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect two SSE clients.
	bodies := make([]string, 2)
	done := make(chan int, 2)

	for i := range 2 {
		req := httptest.NewRequest("GET", "/api/events", nil)
		rec := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}

		go func() {
			// Blocks until ctx is cancelled.
			hub.ServeHTTP(rec, req.WithContext(ctx))
			bodies[i] = rec.Body.String()
			done <- i
		}()
	}

	require.Eventually(t, func() bool { return hub.Clients() == 2 },
		2*time.Second, 10*time.Millisecond, "clients should register")

	hub.Observe(ctx, router.Step{
		RequestID: "req-sse-001",
		Index:     0,
		Fragment:  "open notepad",
		Kind:      intent.KindOpenApp,
		Result:    "Opening notepad...",
	})

	// Let the clients drain their channels before disconnecting.
	time.Sleep(200 * time.Millisecond)
	cancel()

	for range 2 {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for SSE clients to finish")
		}
	}

	for i, body := range bodies {
		assert.True(t, strings.Contains(body, "event: step\n"), "client %d: %s", i, body)
		assert.True(t, strings.Contains(body, `"request_id":"req-sse-001"`), "client %d: %s", i, body)
		assert.True(t, strings.Contains(body, `"kind":"open_app"`), "client %d: %s", i, body)
	}
	assert.Equal(t, 0, hub.Clients(), "clients should unregister on disconnect")
}

func TestSSEHubNoClients(t *testing.T) {
	hub := server.NewSSEHub(testLogger())
	// Must not block with nobody listening.
	hub.Observe(context.Background(), router.Step{Kind: intent.KindQueryTime})
	assert.Equal(t, 0, hub.Clients())
}

func TestSSEHubHeaders(t *testing.T) {
	hub := server.NewSSEHub(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	rec := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
	req := httptest.NewRequest("GET", "/api/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.Clients() == 1 },
		2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

// flushRecorder wraps httptest.ResponseRecorder to implement http.Flusher.
type flushRecorder struct {
	*httptest.ResponseRecorder
}

func (f *flushRecorder) Flush() {
	// no-op for testing; data is already in the buffer.
}
