package ws

import (
	"context"
	"encoding/json"

	"expertise-marketplace/internal/domain/expert"
)

// Sink broadcasts directory events to every connected client.
type Sink struct {
	hub *Hub
}

func NewSink(hub *Hub) *Sink {
	return &Sink{hub: hub}
}

func (s *Sink) Name() string { return "ws" }

func (s *Sink) Publish(_ context.Context, evt expert.Event) error {
	if s == nil || s.hub == nil {
		return nil
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	s.hub.Broadcast(b)
	return nil
}
