package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerassist/backend/internal/outbox"
	"github.com/peerassist/backend/internal/services"
)

type flakySender struct {
	fail bool
	sent []outbox.Message
}

func (s *flakySender) Send(msg outbox.Message) error {
	if s.fail {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newDispatcherFixture(t *testing.T, sender *flakySender, maxRetries int) (*services.MailDispatcher, *outbox.Store) {
	t.Helper()
	store, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	dispatcher := services.NewMailDispatcher(store, sender, nil, services.DispatcherConfig{
		Interval:   time.Minute,
		BatchSize:  10,
		MaxRetries: maxRetries,
	})
	return dispatcher, store
}

func TestDrainDelivers(t *testing.T) {
	sender := &flakySender{}
	dispatcher, store := newDispatcherFixture(t, sender, 3)

	require.NoError(t, store.Enqueue(outbox.Message{Kind: outbox.KindAcceptance, To: "a@x.com"}))
	require.NoError(t, dispatcher.Drain())

	assert.Len(t, sender.sent, 1)
	assert.Zero(t, dispatcher.Size())
}

func TestDrainFailureKeepsMessageWithBumpedRetry(t *testing.T) {
	sender := &flakySender{fail: true}
	dispatcher, store := newDispatcherFixture(t, sender, 3)

	require.NoError(t, store.Enqueue(outbox.Message{ID: "m1", Kind: outbox.KindAcceptance, To: "a@x.com"}))
	require.NoError(t, dispatcher.Drain())

	// The message stays queued, retry count persisted.
	batch, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "m1", batch[0].ID)
	assert.Equal(t, 1, batch[0].Retries)
}

func TestDrainDropsAfterMaxRetries(t *testing.T) {
	sender := &flakySender{fail: true}
	dispatcher, store := newDispatcherFixture(t, sender, 2)

	require.NoError(t, store.Enqueue(outbox.Message{Kind: outbox.KindAcceptance, To: "a@x.com"}))

	require.NoError(t, dispatcher.Drain())
	assert.Equal(t, 1, dispatcher.Size())

	require.NoError(t, dispatcher.Drain())
	assert.Zero(t, dispatcher.Size())
}

func TestDispatchFallsBackToQueue(t *testing.T) {
	sender := &flakySender{fail: true}
	dispatcher, _ := newDispatcherFixture(t, sender, 3)

	require.NoError(t, dispatcher.Dispatch(context.Background(), outbox.Message{Kind: outbox.KindAcceptance, To: "a@x.com"}))
	assert.Equal(t, 1, dispatcher.Size())

	sender.fail = false
	require.NoError(t, dispatcher.Drain())
	assert.Zero(t, dispatcher.Size())
	assert.Len(t, sender.sent, 1)
}
