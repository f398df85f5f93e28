package events

import (
	"context"
	"log"
	"time"

	"expertise-marketplace/internal/domain/expert"
	"expertise-marketplace/internal/metrics"
)

const publishTimeout = 5 * time.Second

type Sink interface {
	Name() string
	Publish(ctx context.Context, evt expert.Event) error
}

// Fanout hands each event to every sink. Delivery is best-effort: sink
// failures are logged and counted, never returned.
type Fanout struct {
	sinks   []Sink
	logger  *log.Logger
	metrics *metrics.Manager
}

func NewFanout(logger *log.Logger, m *metrics.Manager, sinks ...Sink) *Fanout {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Fanout{sinks: out, logger: logger, metrics: m}
}

func (f *Fanout) Notify(ctx context.Context, evt expert.Event) {
	if f == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	for _, s := range f.sinks {
		err := s.Publish(ctx, evt)
		f.metrics.EventPublished(s.Name(), err)
		if err != nil && f.logger != nil {
			f.logger.Printf("[Events] publish failed | sink=%s type=%s error=%v", s.Name(), evt.Type, err)
		}
	}
}
