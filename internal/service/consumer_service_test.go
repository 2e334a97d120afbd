package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"doctech-be/internal/pkg/logger"
	"doctech-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditEntry struct {
	message string
	details map[string]interface{}
}

// recordingLogger keeps Info entries so the audit trail can be asserted on.
type recordingLogger struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (l *recordingLogger) Debug(string, string, map[string]interface{}) {}
func (l *recordingLogger) Warn(string, string, map[string]interface{})  {}
func (l *recordingLogger) Error(string, string, map[string]interface{}) {}
func (l *recordingLogger) Sync() error                                  { return nil }

func (l *recordingLogger) Info(_ string, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, auditEntry{message: message, details: details})
}

func (l *recordingLogger) snapshot() []auditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]auditEntry(nil), l.entries...)
}

func TestConsumer_AuditsAndForwards(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	audit := &recordingLogger{}
	forward := &fakePublisher{}
	consumer := NewConsumerService(pubSub, "doctech.queries", audit, forward, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("doctech.queries", pubSub)
	evt := events.New(events.QueryResolved, map[string]interface{}{"intent": "FIND_FIG"})
	require.NoError(t, publisher.Publish(ctx, evt))

	require.Eventually(t, func() bool {
		return len(audit.snapshot()) == 1 && len(forward.types()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	entry := audit.snapshot()[0]
	assert.Equal(t, events.QueryResolved, entry.message)
	assert.Equal(t, evt.ID, entry.details["event_id"])
	assert.Equal(t, "FIND_FIG", entry.details["intent"])
	assert.Equal(t, evt.ID, forward.events[0].EventID())
}

func TestConsumer_AcksPoisonMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	audit := &recordingLogger{}
	consumer := NewConsumerService(pubSub, "doctech.queries", audit, nil, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, pubSub.Publish("doctech.queries", newRawMessage("not json")))

	publisher := NewPublisherService("doctech.queries", pubSub)
	require.NoError(t, publisher.Publish(ctx, events.New(events.QueryFailed, nil)))

	require.Eventually(t, func() bool {
		entries := audit.snapshot()
		return len(entries) == 1 && entries[0].message == events.QueryFailed
	}, 2*time.Second, 10*time.Millisecond)
}

func newRawMessage(payload string) *message.Message {
	return message.NewMessage(watermill.NewUUID(), []byte(payload))
}
