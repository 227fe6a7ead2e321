package stream

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TopicItinerary = "itinerary"
	// TopicUploads carries receipt pipeline state changes.
	TopicUploads   = "uploads"

	channelPrefix = "honeymoon:"
	channelSuffix = ":snapshots"

	relayBuffer  = 256
	relayTimeout = 2 * time.Second
)

// ChatTopic is the topic carrying snapshots of one chat session.
func ChatTopic(sessionID string) string {
	return "chat:" + sessionID
}

// Hub fans snapshots out to websocket clients by topic. With Redis it also
// relays to other instances; each instance skips its own messages.
type Hub struct {
	redis   *redis.Client
	origin  string
	clients map[string]map[*Client]struct{}
	last    map[string][]byte
	mu      sync.RWMutex

	relay  chan relayMessage
	ready  chan struct{}
	cancel context.CancelFunc
}

type relayMessage struct {
	channel string
	body    []byte
}

type Client struct {
	Topic string
	Send  chan []byte
}

type envelope struct {
	Origin  string `json:"origin"`
	Payload []byte `json:"payload"`
}

func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		redis:   redisClient,
		origin:  uuid.NewString(),
		clients: map[string]map[*Client]struct{}{},
		last:    map[string][]byte{},
		ready:   make(chan struct{}),
		cancel:  cancel,
	}

	if redisClient != nil {
		h.relay = make(chan relayMessage, relayBuffer)
		go h.publishRedis(ctx)
		go h.subscribeRedis(ctx)
	} else {
		close(h.ready)
	}
	return h
}

// Ready is closed once the Redis subscription is live.
func (h *Hub) Ready() <-chan struct{} {
	return h.ready
}

func (h *Hub) Close() {
	h.cancel()
}

// Register adds a client and queues the latest snapshot of its topic.
func (h *Hub) Register(topic string) *Client {
	client := &Client{
		Topic: topic,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = map[*Client]struct{}{}
	}
	h.clients[topic][client] = struct{}{}
	if last, ok := h.last[topic]; ok {
		client.Send <- last
	}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topicClients := h.clients[client.Topic]
	if _, registered := topicClients[client]; !registered {
		return
	}
	delete(topicClients, client)
	if len(topicClients) == 0 {
		delete(h.clients, client.Topic)
	}
	close(client.Send)
}

func (h *Hub) Broadcast(topic string, payload []byte) {
	h.deliver(topic, payload)

	if h.relay == nil {
		return
	}
	msg, err := json.Marshal(envelope{Origin: h.origin, Payload: payload})
	if err != nil {
		log.Printf("stream: encode relay message: %v", err)
		return
	}
	select {
	case h.relay <- relayMessage{channel: redisChannel(topic), body: msg}:
	default:
		log.Printf("stream: relay queue full, dropping %s snapshot", topic)
	}
}

// publishRedis drains the relay queue so a slow Redis never blocks a
// broadcaster.
func (h *Hub) publishRedis(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-h.relay:
			pctx, cancel := context.WithTimeout(ctx, relayTimeout)
			if err := h.redis.Publish(pctx, m.channel, m.body).Err(); err != nil {
				log.Printf("redis publish error: %v", err)
			}
			cancel()
		}
	}
}

// BroadcastJSON encodes v and broadcasts it on topic.
func (h *Hub) BroadcastJSON(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("stream: encode %s snapshot: %v", topic, err)
		return
	}
	h.Broadcast(topic, payload)
}

// deliver sends to local clients, dropping the message for clients whose
// buffer is full.
func (h *Hub) deliver(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last[topic] = payload
	for client := range h.clients[topic] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.redis.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("redis subscribe error: %v", err)
		return
	}
	close(h.ready)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("stream: bad relay message on %s: %v", msg.Channel, err)
				continue
			}
			if env.Origin == h.origin {
				continue
			}
			if topic := topicFromChannel(msg.Channel); topic != "" {
				h.deliver(topic, env.Payload)
			}
		}
	}
}

func redisChannel(topic string) string {
	return channelPrefix + topic + channelSuffix
}

func topicFromChannel(ch string) string {
	// honeymoon:{topic}:snapshots
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
