package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, "s1")
	c2 := mockClient(hub, "s1")

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount("s1"); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)
	if got := hub.ClientCount("s1"); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)
	if got := hub.ClientCount("s1"); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, "s1")
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount("s1"); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcastScopedToSession(t *testing.T) {
	hub := NewHub(slog.Default())

	watching := mockClient(hub, "s1")
	other := mockClient(hub, "s2")
	hub.Register(watching)
	hub.Register(other)

	hub.Broadcast(Message{Type: "rsvp", SessionID: "s1", Player: "Alice", Status: "in", Created: true})

	select {
	case data := <-watching.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.Player != "Alice" || msg.SessionID != "s1" {
			t.Errorf("got %+v, want Alice on s1", msg)
		}
	default:
		t.Fatal("watching client received nothing")
	}

	select {
	case <-other.send:
		t.Fatal("client on another session should not receive the broadcast")
	default:
	}
}

func TestBroadcastFullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, "s1")
	hub.Register(c)

	// Fill the buffer and then broadcast once more; the extra message is
	// dropped rather than deadlocking the hub.
	for i := 0; i < sendBufferSize+5; i++ {
		hub.Broadcast(Message{Type: "rsvp", SessionID: "s1"})
	}

	if got := len(c.send); got != sendBufferSize {
		t.Errorf("send buffer holds %d, want %d", got, sendBufferSize)
	}
}
