package stream

import (
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func expectMessage(t *testing.T, ch <-chan []byte, want string) {
	t.Helper()
	select {
	case msg := <-ch:
		if string(msg) != want {
			t.Fatalf("got %q, want %q", msg, want)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func expectSilence(t *testing.T, ch <-chan []byte) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register(TopicItinerary)
	defer hub.Unregister(client)
	other := hub.Register(ChatTopic("s1"))
	defer hub.Unregister(other)

	hub.Broadcast(TopicItinerary, []byte("hello"))
	expectMessage(t, client.Send, "hello")
	expectSilence(t, other.Send)
}

func TestHubReplaysLatestOnRegister(t *testing.T) {
	hub := NewHub(nil)
	hub.BroadcastJSON(ChatTopic("s1"), map[string]bool{"loading": true})
	hub.BroadcastJSON(ChatTopic("s1"), map[string]bool{"loading": false})

	client := hub.Register(ChatTopic("s1"))
	defer hub.Unregister(client)
	expectMessage(t, client.Send, `{"loading":false}`)
	expectSilence(t, client.Send)
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("chat:abc")
	if ch != "honeymoon:chat:abc:snapshots" {
		t.Fatalf("unexpected channel %q", ch)
	}
	if topicFromChannel(ch) != "chat:abc" {
		t.Fatalf("unexpected topic")
	}
	for _, bad := range []string{"bad", "honeymoon::snapshots", "tracking:x:broadcast"} {
		if topicFromChannel(bad) != "" {
			t.Fatalf("expected empty topic for %q", bad)
		}
	}
}

func TestUnregisterClosesOnce(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("t")
	hub.Unregister(client)
	hub.Unregister(client)
	if _, ok := <-client.Send; ok {
		t.Fatalf("expected channel closed")
	}
}

func TestHubRedisRelay(t *testing.T) {
	s := miniredis.RunT(t)
	newClient := func() *redis.Client {
		c := redis.NewClient(&redis.Options{Addr: s.Addr()})
		t.Cleanup(func() { _ = c.Close() })
		return c
	}

	a := NewHub(newClient())
	defer a.Close()
	b := NewHub(newClient())
	defer b.Close()
	for _, h := range []*Hub{a, b} {
		select {
		case <-h.Ready():
		case <-time.After(time.Second):
			t.Fatalf("subscription not ready")
		}
	}

	local := a.Register(TopicItinerary)
	defer a.Unregister(local)
	remote := b.Register(TopicItinerary)
	defer b.Unregister(remote)

	a.Broadcast(TopicItinerary, []byte("ping"))
	expectMessage(t, local.Send, "ping")
	expectMessage(t, remote.Send, "ping")
	// the origin instance ignores its own relay
	expectSilence(t, local.Send)
}

func TestHubRedisPublishError(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	defer hub.Close()
	node := hub.Register("bad")
	defer hub.Unregister(node)

	hub.Broadcast("bad", []byte("ping"))
	expectMessage(t, node.Send, "ping")
}

func TestBroadcastDoesNotWaitForRedis(t *testing.T) {
	// accepts connections but never answers
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	client := redis.NewClient(&redis.Options{Addr: ln.Addr().String()})
	defer client.Close()
	hub := NewHub(client)
	defer hub.Close()
	node := hub.Register(ChatTopic("s1"))
	defer hub.Unregister(node)

	start := time.Now()
	for i := 0; i < relayBuffer+10; i++ {
		hub.Broadcast(ChatTopic("s1"), []byte("delta"))
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("broadcasts blocked on redis for %v", elapsed)
	}
	expectMessage(t, node.Send, "delta")
}
