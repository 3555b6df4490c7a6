package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/warp/employee-directory/directory"
)

// Source is sent in the source header of every message.
const Source = "employee-directory"

// Event is the JSON body published for a notification.
type Event struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Action      string    `json:"action"`
	Message     string    `json:"message"`
	EmployeeIDs []int     `json:"employee_ids,omitempty"`
	At          time.Time `json:"at"`
}

// ErrQueueFull is returned by Publish when the producer's input buffer has
// no room. The notification is dropped.
var ErrQueueFull = errors.New("kafka producer queue full")

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("kafka notifier closed")

// Kafka publishes notifications to one topic through an AsyncProducer.
// Publish only enqueues; delivery results are read by a background
// goroutine and logged. The directory operation that emitted the
// notification never waits on a broker.
type Kafka struct {
	ap    sarama.AsyncProducer
	topic string
	log   zerolog.Logger
	newID func() uuid.UUID

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// delivery rides along in ProducerMessage.Metadata for the drain loop.
type delivery struct {
	id     string
	action string
}

// NewKafka takes ownership of ap and starts draining its result channels.
func NewKafka(ap sarama.AsyncProducer, topic string, log zerolog.Logger) *Kafka {
	k := &Kafka{
		ap:    ap,
		topic: topic,
		log:   log.With().Str("component", "KafkaNotifier").Logger(),
		newID: uuid.New,
		done:  make(chan struct{}),
	}
	go k.drain()
	return k
}

// NewAsyncProducer dials brokers with acks from all replicas and idempotent
// retries. Successes are returned so the drain loop can log offsets.
func NewAsyncProducer(brokers []string, clientID string) (sarama.AsyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V3_3_2_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 200 * time.Millisecond

	ap, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("sarama.NewAsyncProducer: %w", err)
	}
	return ap, nil
}

// Close stops accepting notifications, flushes what is in flight and waits
// for the drain loop to log the results.
func (k *Kafka) Close() error {
	if k == nil || k.ap == nil {
		return nil
	}
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	k.ap.AsyncClose()
	k.mu.Unlock()

	<-k.done
	return nil
}

func (k *Kafka) Notify(n directory.Notification) {
	if err := k.Publish(n); err != nil {
		k.log.Error().Err(err).Str("action", n.Action).Msg("failed to publish notification")
	}
}

// Publish enqueues n without blocking. Broker-side failures surface later
// in the log, not here.
func (k *Kafka) Publish(n directory.Notification) error {
	id := k.newID().String()
	body, err := json.Marshal(Event{
		ID:          id,
		Kind:        string(n.Kind),
		Action:      n.Action,
		Message:     n.Message,
		EmployeeIDs: n.EmployeeIDs,
		At:          n.At,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(id),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-kind"), Value: []byte(n.Action)},
			{Key: []byte("source"), Value: []byte(Source)},
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
		Metadata: delivery{id: id, action: n.Action},
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return ErrClosed
	}
	select {
	case k.ap.Input() <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (k *Kafka) drain() {
	defer close(k.done)
	successes, errs := k.ap.Successes(), k.ap.Errors()
	for successes != nil || errs != nil {
		select {
		case msg, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			d, _ := msg.Metadata.(delivery)
			k.log.Debug().
				Str("topic", msg.Topic).
				Str("key", d.id).
				Int32("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("notification published")
		case perr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			ev := k.log.Error().Err(perr.Err)
			if perr.Msg != nil {
				d, _ := perr.Msg.Metadata.(delivery)
				ev = ev.Str("key", d.id).Str("action", d.action)
			}
			ev.Msg("failed to publish notification")
		}
	}
}
