//go:build integration

package runlog_test

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/sdko-org/vertical-padding/internal/runlog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testRunsTopic = "test-padding-runs"

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("padstop-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func TestKafkaLog_Append(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testRunsTopic)

	l := runlog.NewKafkaLog(observability.NewDiscardLogger(), []string{broker}, testRunsTopic)
	defer l.Close()

	run := padding.Run{
		ID:            uuid.NewString(),
		Address:       "1 Market St",
		HorizontalSec: 100,
		FloorCount:    5,
		VerticalPad:   110,
		TotalSec:      210,
		Timestamp:     time.Now().UTC(),
	}
	require.NoError(t, l.Append(ctx, run))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testRunsTopic,
		Partition: 0,
	})
	defer reader.Close()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)

	assert.Equal(t, run.ID, string(msg.Key))
	var got padding.Run
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, run.TotalSec, got.TotalSec)
	assert.Equal(t, run.Address, got.Address)
}
