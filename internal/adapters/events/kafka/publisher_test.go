package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/events"
)

type writerStub struct {
	msgs   []skafka.Message
	err    error
	closed bool
	block  bool
}

func (w *writerStub) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if w.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *writerStub) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &writerStub{}
	p := &Publisher{writer: w}
	uid := uuid.New()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), events.Event{Type: events.UserRegistered, UserID: uid, OccurredAt: at})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	require.Equal(t, uid.String(), string(msg.Key))
	require.Equal(t, "user.registered", string(msg.Headers[0].Value))

	var got events.Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.Equal(t, uid, got.UserID)
	require.True(t, at.Equal(got.OccurredAt))

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestPublisher_WriteError(t *testing.T) {
	p := &Publisher{writer: &writerStub{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), events.Event{Type: events.SessionRevoked})
	require.Error(t, err)
	require.Contains(t, err.Error(), "session.revoked")
}

func TestPublisher_AnonymousEventHasNoKey(t *testing.T) {
	w := &writerStub{}
	p := &Publisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), events.Event{Type: events.SessionRevoked}))
	require.Len(t, w.msgs, 1)
	require.Nil(t, w.msgs[0].Key)
}

func TestPublisher_HonoursDeadline(t *testing.T) {
	p := &Publisher{writer: &writerStub{block: true}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Publish(ctx, events.Event{Type: events.UserLoggedIn, UserID: uuid.New()})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}

func TestNewPublisher_Configured(t *testing.T) {
	p := NewPublisher([]string{"k1:9092"}, "auth.events")
	w, ok := p.writer.(*skafka.Writer)
	require.True(t, ok)
	require.Equal(t, "auth.events", w.Topic)
	require.Equal(t, 3, w.MaxAttempts)
}
