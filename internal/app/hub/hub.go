// Package hub keeps the live client connections, the topics they joined, and
// fans published events out to topic members.
package hub

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/app/protocol"
	"github.com/google/uuid"
)

// DefaultQueueSize bounds the outbound frames buffered per connection
const DefaultQueueSize = 64

// ErrRelayRejected is returned by a RelayVerifier for spoofed status relays
var ErrRelayRejected = errors.New("relay rejected")

// RelayVerifier checks a client relayed status update before it is routed
type RelayVerifier interface {
	VerifyStatusRelay(ctx context.Context, orderID, queueNumber string) error
}

type Options struct {
	QueueSize int
	Logger    logger.Logger
	Verifier  RelayVerifier
	Now       func() time.Time
}

// Client is one live connection, independent of its transport
type Client struct {
	id        string
	transport string
	out       chan protocol.Frame
	done      chan struct{}

	// guarded by Hub.mu
	state protocol.ConnState
}

func (c *Client) ID() string        { return c.id }
func (c *Client) Transport() string { return c.transport }

// Outbound yields frames addressed to this client. It is closed on disconnect.
func (c *Client) Outbound() <-chan protocol.Frame { return c.out }

// Done is closed once the client has been disconnected
func (c *Client) Done() <-chan struct{} { return c.done }

type Stats struct {
	Connections int `json:"connections"`
	Topics      int `json:"topics"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	topics  map[string]map[string]*Client

	queueSize int
	logger    logger.Logger
	verifier  RelayVerifier
	now       func() time.Time
}

func New(opts Options) *Hub {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Hub{
		clients:   make(map[string]*Client),
		topics:    make(map[string]map[string]*Client),
		queueSize: opts.QueueSize,
		logger:    opts.Logger,
		verifier:  opts.Verifier,
		now:       opts.Now,
	}
}

// Accept registers a new connection and queues its welcome event
func (h *Hub) Accept(transport string) *Client {
	c := &Client{
		id:        uuid.NewString(),
		transport: transport,
		out:       make(chan protocol.Frame, h.queueSize),
		done:      make(chan struct{}),
	}
	c.state = protocol.ConnState{ID: c.id}

	welcome, err := protocol.Encode(protocol.NewConnected(h.now()))
	if err != nil {
		h.logger.Error("event_encode_failed", "Failed to encode welcome", c.id, nil, err)
	}

	h.mu.Lock()
	h.clients[c.id] = c
	if err == nil {
		c.out <- welcome
	}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client_connected", "Client connected", c.id, map[string]interface{}{
		"transport":   transport,
		"connections": total,
	})

	return c
}

// Disconnect removes the connection from every topic and discards it.
// Unknown or already disconnected ids are ignored.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if !ok {
		h.mu.Unlock()
		return
	}

	for _, topic := range c.state.Topics {
		h.removeMemberLocked(topic, id)
	}
	c.state.Topics = nil
	c.state.Closed = true
	delete(h.clients, id)
	close(c.out)
	close(c.done)
	h.mu.Unlock()

	h.logger.Info("client_disconnected", "Client disconnected", id, map[string]interface{}{
		"transport": c.transport,
	})
}

// DisconnectAll drops every connection. Called on shutdown so transports
// release hijacked sockets.
func (h *Hub) DisconnectAll() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.Disconnect(id)
	}
}

// Join adds the connection to topic, creating the topic on first use
func (h *Hub) Join(id, topic string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if !ok || c.state.Member(topic) {
		h.mu.Unlock()
		return
	}
	c.state.Topics = append(slices.Clone(c.state.Topics), topic)
	h.addMemberLocked(topic, c)
	h.mu.Unlock()

	h.logTopicJoined(id, topic)
}

// Publish delivers ev to every current member of topic. A member whose
// outbound queue is full misses the event; other members are unaffected.
// Publishing to a topic without members does nothing.
func (h *Hub) Publish(topic string, ev protocol.Event) {
	frame, err := protocol.Encode(ev)
	if err != nil {
		h.logger.Error("event_encode_failed", "Failed to encode event", "", map[string]interface{}{
			"topic": topic,
			"event": ev.Name(),
		}, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.topics[topic]
	delivered := 0
	for _, c := range members {
		select {
		case c.out <- frame:
			delivered++
		default:
			h.logger.Warn("delivery_dropped", "Outbound queue full, event dropped", c.id, map[string]interface{}{
				"topic": topic,
				"event": frame.Event,
			})
		}
	}

	h.logger.Debug("event_published", fmt.Sprintf("Published %s to %s", frame.Event, topic), "", map[string]interface{}{
		"topic":     topic,
		"event":     frame.Event,
		"members":   len(members),
		"delivered": delivered,
	})
}

// Dispatch handles one message received from a client
func (h *Hub) Dispatch(ctx context.Context, id string, in protocol.Inbound) {
	if relay, ok := in.(protocol.OrderStatusUpdate); ok && h.verifier != nil {
		if err := h.verifier.VerifyStatusRelay(ctx, relay.OrderID, relay.QueueNumber); err != nil {
			h.logger.Warn("relay_rejected", "Status update relay rejected", id, map[string]interface{}{
				"order_id":     relay.OrderID,
				"queue_number": relay.QueueNumber,
				"reason":       err.Error(),
			})
			return
		}
	}

	h.mu.Lock()
	c, ok := h.clients[id]
	if !ok {
		h.mu.Unlock()
		return
	}

	next, effects := protocol.Handle(c.state, in)

	var (
		publishes []protocol.Effect
		joined    []string
		closing   bool
	)
	for _, eff := range effects {
		switch e := eff.(type) {
		case protocol.JoinEffect:
			h.addMemberLocked(e.Topic, c)
			joined = append(joined, e.Topic)
		case protocol.PublishEffect:
			publishes = append(publishes, e)
		case protocol.CloseEffect:
			closing = true
		}
	}
	if !closing {
		c.state = next
	}
	h.mu.Unlock()

	for _, topic := range joined {
		h.logTopicJoined(id, topic)
	}

	if len(publishes) > 0 {
		h.logger.Debug("relay_received", fmt.Sprintf("Relaying %s", in.Name()), id, nil)
	}
	h.apply(publishes)

	if closing {
		h.Disconnect(id)
	}
}

// apply performs publish effects in order
func (h *Hub) apply(effects []protocol.Effect) {
	for _, eff := range effects {
		if pub, ok := eff.(protocol.PublishEffect); ok {
			h.Publish(pub.Topic, pub.Event)
		}
	}
}

// Members returns the number of connections joined to topic
func (h *Hub) Members(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{Connections: len(h.clients), Topics: len(h.topics)}
}

func (h *Hub) addMemberLocked(topic string, c *Client) {
	members, ok := h.topics[topic]
	if !ok {
		members = make(map[string]*Client)
		h.topics[topic] = members
	}
	members[c.id] = c
}

// removeMemberLocked drops the topic entry once its last member leaves
func (h *Hub) removeMemberLocked(topic, id string) {
	members, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.topics, topic)
	}
}

func (h *Hub) logTopicJoined(id, topic string) {
	h.logger.Info("topic_joined", fmt.Sprintf("Client joined %s", topic), id, map[string]interface{}{
		"topic": topic,
	})
}
