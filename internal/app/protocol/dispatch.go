package protocol

import (
	"encoding/json"
	"slices"
	"strings"
)

// TopicKitchen groups every kitchen display
const TopicKitchen = "kitchen"

// CustomerTopic returns the topic a customer tracking queueNumber joins.
// Joins and publishes must agree on it, so surrounding spaces are dropped.
func CustomerTopic(queueNumber string) string {
	return "customer-" + strings.TrimSpace(queueNumber)
}

// ConnState is what the protocol knows about one connection
type ConnState struct {
	ID     string
	Topics []string
	Closed bool
}

// Member reports whether the connection has joined topic
func (s ConnState) Member(topic string) bool {
	return slices.Contains(s.Topics, topic)
}

// Effect is an action the hub performs on behalf of a dispatched message
type Effect interface {
	isEffect()
}

type JoinEffect struct {
	Topic string
}

type PublishEffect struct {
	Topic string
	Event Event
}

type CloseEffect struct{}

func (JoinEffect) isEffect()    {}
func (PublishEffect) isEffect() {}
func (CloseEffect) isEffect()   {}

// Handle applies one inbound message to a connection. It has no side
// effects; the returned effects are carried out by the caller.
func Handle(state ConnState, in Inbound) (ConnState, []Effect) {
	if state.Closed {
		return state, nil
	}

	switch msg := in.(type) {
	case JoinKitchen:
		return join(state, TopicKitchen)

	case JoinCustomer:
		return join(state, CustomerTopic(msg.QueueNumber))

	case NewOrder:
		return state, NewOrderEffects(msg.Order)

	case OrderStatusUpdate:
		return state, StatusChangeEffects(msg.OrderID, msg.Status, msg.QueueNumber)

	case Disconnect:
		state.Closed = true
		state.Topics = nil
		return state, []Effect{CloseEffect{}}
	}

	return state, nil
}

func join(state ConnState, topic string) (ConnState, []Effect) {
	if state.Member(topic) {
		return state, nil
	}
	state.Topics = append(slices.Clone(state.Topics), topic)
	return state, []Effect{JoinEffect{Topic: topic}}
}

// NewOrderEffects routes a newly created order to the kitchen only
func NewOrderEffects(order json.RawMessage) []Effect {
	return []Effect{
		PublishEffect{Topic: TopicKitchen, Event: OrderReceived{Order: order}},
	}
}

// StatusChangeEffects routes a status change to the customer who owns the
// queue number and to the kitchen. Both publishes happen for every change.
func StatusChangeEffects(orderID, status, queueNumber string) []Effect {
	return []Effect{
		PublishEffect{
			Topic: CustomerTopic(queueNumber),
			Event: StatusUpdated{OrderID: orderID, Status: status},
		},
		PublishEffect{
			Topic: TopicKitchen,
			Event: OrderUpdated{OrderID: orderID, Status: status, QueueNumber: queueNumber},
		},
	}
}
