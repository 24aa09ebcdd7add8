// Package producer mirrors check-in events onto a Kafka topic with franz-go.
// Publishing is asynchronous: callers never wait on the broker.
package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"welcome/pkg/platform/sentinel"
)

// ErrClosed is returned by every call after Close.
var ErrClosed = fmt.Errorf("kafka producer: %w", sentinel.ErrClosed)

type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type Config struct {
	// Brokers is a comma separated seed list.
	Brokers string
	// Acks is "0", "1" or "all".
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
	Linger          time.Duration
	// MaxBuffered caps records waiting for the broker; past it new records
	// are dropped instead of blocking the caller.
	MaxBuffered int
}

func DefaultConfig(brokers string) Config {
	return Config{
		Brokers:         brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 30 * time.Second,
		Linger:          5 * time.Millisecond,
		MaxBuffered:     10000,
	}
}

type Producer struct {
	client *kgo.Client
	logger *slog.Logger
	closed atomic.Bool
}

func New(cfg Config, logger *slog.Logger) (*Producer, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{client: client, logger: logger}, nil
}

func clientOptions(cfg Config) ([]kgo.Opt, error) {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.RecordRetries(cfg.Retries),
	}
	switch cfg.Acks {
	case "0", "1":
		acks := kgo.LeaderAck()
		if cfg.Acks == "0" {
			acks = kgo.NoAck()
		}
		// idempotent writes need all-ISR acks
		opts = append(opts, kgo.RequiredAcks(acks), kgo.DisableIdempotentWrite())
	case "", "all":
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	default:
		return nil, fmt.Errorf("kafka acks %q: want 0, 1 or all", cfg.Acks)
	}
	if cfg.Linger > 0 {
		opts = append(opts, kgo.ProducerLinger(cfg.Linger))
	}
	if cfg.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}
	if cfg.MaxBuffered > 0 {
		opts = append(opts, kgo.MaxBufferedRecords(cfg.MaxBuffered))
	}
	return opts, nil
}

// EnsureTopic creates topic unless it already exists.
func (p *Producer) EnsureTopic(ctx context.Context, topic string, partitions int32, replicationFactor int16) error {
	resp, err := kadm.NewClient(p.client).CreateTopics(ctx, partitions, replicationFactor, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// ProduceAsync buffers msg and returns immediately, even when the broker is
// unreachable and the buffer is full. Delivery failures and dropped records
// are only logged.
func (p *Producer) ProduceAsync(msg *Message) error {
	if p.closed.Load() {
		return ErrClosed
	}
	p.client.TryProduce(context.Background(), toRecord(msg), func(r *kgo.Record, err error) {
		switch {
		case err == nil:
		case errors.Is(err, kgo.ErrMaxBuffered):
			p.logger.Warn("kafka mirror buffer full, record dropped",
				"topic", r.Topic,
				"key", string(r.Key),
			)
		default:
			p.logger.Error("kafka mirror delivery failed",
				"topic", r.Topic,
				"key", string(r.Key),
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes buffered records until ctx is done and then shuts the
// client down. Later calls are no-ops.
func (p *Producer) Close(ctx context.Context) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	defer p.client.Close()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka producer closed with unflushed records", "error", err)
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	return nil
}

// Health pings the seed brokers.
func (p *Producer) Health(ctx context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.client.Ping(ctx)
}

func toRecord(msg *Message) *kgo.Record {
	rec := &kgo.Record{Topic: msg.Topic, Key: msg.Key, Value: msg.Value}
	for k, v := range msg.Headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return rec
}

func splitBrokers(raw string) []string {
	var brokers []string
	for b := range strings.SplitSeq(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
