package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownEvent     = errors.New("unknown event")
	ErrMalformedFrame   = errors.New("malformed frame")
	ErrMalformedPayload = errors.New("malformed payload")
)

// Frame is the JSON envelope used on every transport
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode wraps an outbound event in a frame
func Encode(ev Event) (Frame, error) {
	var payload any = ev
	if received, ok := ev.(OrderReceived); ok {
		payload = received.Order
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to marshal %s payload: %w", ev.Name(), err)
	}

	return Frame{Event: ev.Name(), Data: data}, nil
}

// Decode parses a client frame into its typed inbound message
func Decode(raw []byte) (Inbound, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return DecodeFrame(frame)
}

// DecodeFrame converts an already split frame into its typed inbound message
func DecodeFrame(frame Frame) (Inbound, error) {
	switch frame.Event {
	case EventJoinKitchen:
		return JoinKitchen{}, nil

	case EventDisconnect:
		return Disconnect{}, nil

	case EventJoinCustomer:
		var msg JoinCustomer
		if err := unmarshalObject(frame.Data, &msg); err != nil {
			return nil, err
		}
		msg.QueueNumber = strings.TrimSpace(msg.QueueNumber)
		if msg.QueueNumber == "" {
			return nil, fmt.Errorf("%w: queueNumber is required", ErrMalformedPayload)
		}
		return msg, nil

	case EventNewOrder:
		if !isObject(frame.Data) {
			return nil, fmt.Errorf("%w: order must be a JSON object", ErrMalformedPayload)
		}
		return NewOrder{Order: frame.Data}, nil

	case EventOrderStatusUpdate:
		var msg OrderStatusUpdate
		if err := unmarshalObject(frame.Data, &msg); err != nil {
			return nil, err
		}
		msg.OrderID = strings.TrimSpace(msg.OrderID)
		msg.Status = strings.TrimSpace(msg.Status)
		msg.QueueNumber = strings.TrimSpace(msg.QueueNumber)
		if msg.OrderID == "" || msg.Status == "" || msg.QueueNumber == "" {
			return nil, fmt.Errorf("%w: orderId, status and queueNumber are required", ErrMalformedPayload)
		}
		return msg, nil

	case "":
		return nil, fmt.Errorf("%w: missing event name", ErrMalformedFrame)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, frame.Event)
	}
}

func unmarshalObject(data json.RawMessage, v any) error {
	if !isObject(data) {
		return fmt.Errorf("%w: expected JSON object", ErrMalformedPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

func isObject(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}
