//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"welcome/internal/platform/kafka/producer"
	"welcome/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	broker   *containers.RedpandaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T())

	cfg := producer.DefaultConfig(s.broker.Brokers)
	cfg.DeliveryTimeout = 10 * time.Second
	prod, err := producer.New(cfg, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.producer.Close(ctx)
	}
}

func (s *ProducerIntegrationSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.producer.EnsureTopic(ctx, "welcome.events.ensure", 1, 1))
	s.Require().NoError(s.producer.EnsureTopic(ctx, "welcome.events.ensure", 1, 1))
}

func (s *ProducerIntegrationSuite) TestAsyncMessageIsDelivered() {
	ctx := context.Background()
	topic := "welcome.events.async"
	s.Require().NoError(s.producer.EnsureTopic(ctx, topic, 1, 1))

	s.Require().NoError(s.producer.ProduceAsync(&producer.Message{
		Topic:   topic,
		Key:     []byte("evt-1"),
		Value:   []byte(`{"event_type":"org.superhappydevhouse.event.Attendance"}`),
		Headers: map[string]string{"event_type": "org.superhappydevhouse.event.Attendance"},
	}))

	record := s.broker.ReadRecord(ctx, s.T(), topic, "evt-1", 10*time.Second)
	s.Require().NotNil(record)
	s.Contains(string(record.Value), "Attendance")
}

func (s *ProducerIntegrationSuite) TestHealth() {
	s.NoError(s.producer.Health(context.Background()))
}
