//go:build integration

package hooks_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"welcome/internal/hooks"
	"welcome/internal/platform/kafka/producer"
	"welcome/pkg/testutil/containers"
)

func TestDispatchMirrorsToKafka(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	broker := containers.GetManager().GetRedpanda(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	prod, err := producer.New(producer.DefaultConfig(broker.Brokers), logger)
	require.NoError(t, err)
	defer func() { _ = prod.Close(ctx) }()

	topic := "welcome.events.mirror"
	require.NoError(t, prod.EnsureTopic(ctx, topic, 1, 1))

	d := hooks.New(logger, hooks.WithMirror(prod, topic))
	dispatch := d.DispatchEvent(ctx, "org.superhappydevhouse.event.Attendance",
		map[string]string{"name": "Bob"}, map[string]string{"event_key": "shdh_42"})

	record := broker.ReadRecord(ctx, t, topic, dispatch.Event.ID, 15*time.Second)
	require.NotNil(t, record)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(record.Value, &msg))
	require.Equal(t, "shdh_42", msg["event_key"])
	require.Equal(t, "Bob", msg["name"])
}
