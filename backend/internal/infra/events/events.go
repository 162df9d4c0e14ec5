package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	k "github.com/segmentio/kafka-go"
)

var ErrNoBrokers = errors.New("kafka brokers are not configured")

type Message struct {
	Key   string
	Value []byte
	Time  time.Time
}

type Publisher interface {
	Publish(ctx context.Context, msgs ...Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	Async        bool
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...k.Message) error
	Close() error
}

type KafkaPublisher struct {
	w     messageWriter
	topic string
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}

	w := &k.Writer{
		Addr:         k.TCP(brokers...),
		Topic:        topic,
		Balancer:     &k.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: k.RequireOne,
		Async:        cfg.Async,
	}
	return &KafkaPublisher{w: w, topic: topic}, nil
}

func (p *KafkaPublisher) Topic() string {
	return p.topic
}

// Publish keys messages so every event of one user lands on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	out := make([]k.Message, 0, len(msgs))
	for _, msg := range msgs {
		at := msg.Time
		if at.IsZero() {
			at = time.Now()
		}
		out = append(out, k.Message{
			Key:   []byte(msg.Key),
			Value: msg.Value,
			Time:  at.UTC(),
		})
	}

	if err := p.w.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("write kafka messages to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NoopPublisher drops every message. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...Message) error { return nil }

func (NoopPublisher) Close() error { return nil }
