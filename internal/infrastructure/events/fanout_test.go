package events

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"expertise-marketplace/internal/config"
	"expertise-marketplace/internal/domain/expert"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	err  error
	got  []expert.Event
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(ctx context.Context, evt expert.Event) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	s.got = append(s.got, evt)
	return s.err
}

func TestFanout_DeliversToEverySinkDespiteFailures(t *testing.T) {
	var buf bytes.Buffer
	failing := &recordingSink{name: "amqp", err: errors.New("channel closed")}
	ok := &recordingSink{name: "ws"}
	f := NewFanout(log.New(&buf, "", 0), nil, failing, nil, ok)

	evt := expert.ExpertCreated(expert.Expert{ID: "expert-1", Name: "Alice"}, time.Now())
	f.Notify(context.Background(), evt)

	require.Len(t, failing.got, 1)
	require.Len(t, ok.got, 1)
	assert.Equal(t, expert.EventExpertCreated, ok.got[0].Type)
	assert.Equal(t, "expert-1", ok.got[0].Expert.ID)
	assert.Contains(t, buf.String(), "sink=amqp")
	assert.Contains(t, buf.String(), "channel closed")
}

func TestFanout_CancelledRequestStillPublishes(t *testing.T) {
	sink := &recordingSink{name: "ws"}
	f := NewFanout(nil, nil, sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.Notify(ctx, expert.NominationSubmitted(expert.Nomination{ID: "nom-1"}, time.Now()))

	require.Len(t, sink.got, 1)
	assert.Equal(t, "nom-1", sink.got[0].Nomination.ID)
}

func TestAMQPPublisher_DisabledWithoutURI(t *testing.T) {
	p, err := NewAMQPPublisher(config.EventsConfig{Exchange: "expertise.events"}, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, p.Publish(context.Background(), expert.Event{Type: expert.EventExpertCreated}))
	assert.NoError(t, p.Close())
}
