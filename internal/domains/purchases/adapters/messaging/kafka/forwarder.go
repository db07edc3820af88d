// Package kafka forwards purchase events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
)

// DefaultTopic receives completed purchases.
const DefaultTopic = "bookstore.purchases.completed"

// MessageWriter is the subset of *kafkago.Writer the forwarder needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Forwarder publishes PurchaseCompleted events as JSON keyed by purchase id.
type Forwarder struct {
	writer MessageWriter
}

// NewWriter creates a Kafka writer for a specific topic.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
}

func NewForwarder(writer MessageWriter) *Forwarder {
	return &Forwarder{writer: writer}
}

// PurchaseMessage is the wire payload. The invoice number is assigned after the
// event is published, so it is not part of the message.
type PurchaseMessage struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurredAt"`
	PurchaseID int64     `json:"purchaseId"`
	CustomerID int64     `json:"customerId"`
	BookIDs    []int64   `json:"bookIds"`
	Price      string    `json:"price"`
}

func (f *Forwarder) Handle(ctx context.Context, event events.Event) error {
	completed, ok := event.(domain.PurchaseCompleted)
	if !ok || completed.Purchase == nil {
		return fmt.Errorf("kafka forwarder: unexpected event %T", event)
	}
	p := completed.Purchase
	payload, err := json.Marshal(PurchaseMessage{
		Event:      completed.EventName(),
		OccurredAt: completed.OccurredAt(),
		PurchaseID: p.ID,
		CustomerID: p.CustomerID,
		BookIDs:    p.BookIDs,
		Price:      bookdomain.FormatPrice(p.Price),
	})
	if err != nil {
		return fmt.Errorf("kafka forwarder: marshal: %w", err)
	}
	return f.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(strconv.FormatInt(p.ID, 10)),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event", Value: []byte(completed.EventName())},
		},
	})
}

// Close flushes and closes the underlying writer.
func (f *Forwarder) Close() error {
	return f.writer.Close()
}

var _ events.Subscriber = (*Forwarder)(nil)
