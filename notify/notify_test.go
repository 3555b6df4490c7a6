package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/employee-directory/directory"
)

var deleted = directory.Notification{
	Kind:        directory.NotifySuccess,
	Action:      directory.ActionBulkDeleted,
	Message:     "2 employees have been deleted.",
	EmployeeIDs: []int{4, 9},
	At:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
}

func asyncConfig() *sarama.Config {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	return cfg
}

func TestKafka_PublishesJSON(t *testing.T) {
	// GIVEN: A mock producer expecting one message
	ap := mocks.NewAsyncProducer(t, asyncConfig())
	ap.ExpectInputWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev Event
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Action != directory.ActionBulkDeleted || ev.Message != deleted.Message || len(ev.EmployeeIDs) != 2 {
			return errors.New("unexpected event body")
		}
		if ev.ID != "00000000-0000-0000-0000-000000000001" {
			return errors.New("unexpected id " + ev.ID)
		}
		return nil
	})
	k := NewKafka(ap, "directory.notifications", zerolog.Nop())
	k.newID = func() uuid.UUID { return uuid.MustParse("00000000-0000-0000-0000-000000000001") }

	// WHEN: Publishing
	err := k.Publish(deleted)

	// THEN: The message was queued and the checker accepted the body on flush
	require.NoError(t, err)
	require.NoError(t, k.Close())
}

func TestKafka_NotifyLogsDeliveryFailure(t *testing.T) {
	ap := mocks.NewAsyncProducer(t, asyncConfig())
	ap.ExpectInputAndFail(sarama.ErrOutOfBrokers)
	var buf syncBuffer
	k := NewKafka(ap, "directory.notifications", zerolog.New(&buf))

	k.Notify(deleted)
	require.NoError(t, k.Close())

	assert.Contains(t, buf.String(), "failed to publish notification")
	assert.Contains(t, buf.String(), directory.ActionBulkDeleted)
}

func TestKafka_NotifyDoesNotWaitForBroker(t *testing.T) {
	// GIVEN: A producer whose input is never read, like a stalled broker
	ap := newStalledProducer()
	var buf syncBuffer
	k := NewKafka(ap, "directory.notifications", zerolog.New(&buf))

	// WHEN: Notifying
	returned := make(chan struct{})
	go func() {
		k.Notify(deleted)
		close(returned)
	}()

	// THEN: Notify returns at once and logs the dropped message
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on the producer")
	}
	assert.Contains(t, buf.String(), ErrQueueFull.Error())

	require.NoError(t, k.Close())
	assert.ErrorIs(t, k.Publish(deleted), ErrClosed)
}

// stalledProducer never accepts input; Input is unbuffered and unread.
type stalledProducer struct {
	sarama.AsyncProducer
	input     chan *sarama.ProducerMessage
	successes chan *sarama.ProducerMessage
	errs      chan *sarama.ProducerError
}

func newStalledProducer() *stalledProducer {
	return &stalledProducer{
		input:     make(chan *sarama.ProducerMessage),
		successes: make(chan *sarama.ProducerMessage),
		errs:      make(chan *sarama.ProducerError),
	}
}

func (p *stalledProducer) Input() chan<- *sarama.ProducerMessage     { return p.input }
func (p *stalledProducer) Successes() <-chan *sarama.ProducerMessage { return p.successes }
func (p *stalledProducer) Errors() <-chan *sarama.ProducerError      { return p.errs }

func (p *stalledProducer) AsyncClose() {
	close(p.successes)
	close(p.errs)
}

// syncBuffer lets the drain goroutine and the test share a log buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(zerolog.New(&buf))

	l.Notify(deleted)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "2 employees have been deleted.", entry["message"])
	assert.Equal(t, "notify", entry["component"])
	assert.Equal(t, "success", entry["kind"])
}

func TestMulti(t *testing.T) {
	a, b := NewFeed(5), NewFeed(5)

	Multi{a, b}.Notify(deleted)

	assert.Len(t, a.Recent(), 1)
	assert.Len(t, b.Recent(), 1)
}

func TestFeed_KeepsNewest(t *testing.T) {
	// GIVEN: A feed of size 2
	f := NewFeed(2)

	// WHEN: Three notifications arrive
	for _, msg := range []string{"one", "two", "three"} {
		f.Notify(directory.Notification{Message: msg})
	}

	// THEN: The oldest is dropped, drain empties the feed
	recent := f.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].Message)
	assert.Equal(t, "three", recent[1].Message)

	assert.Len(t, f.Drain(), 2)
	assert.Empty(t, f.Recent())
}
