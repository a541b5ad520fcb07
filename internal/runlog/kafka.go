package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sdko-org/vertical-padding/internal/padding"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaLog publishes one message per run. The write returns only after all
// in-sync replicas acknowledged it. Each Append is its own batch so a request
// never waits on the writer's batch timer.
type KafkaLog struct {
	writer messageWriter
	log    *logrus.Entry
}

func NewKafkaLog(logger *logrus.Logger, brokers []string, topic string) *KafkaLog {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafkaLog(logger, w)
}

func newKafkaLog(logger *logrus.Logger, w messageWriter) *KafkaLog {
	return &KafkaLog{
		writer: w,
		log:    logger.WithField("component", "run_log_kafka"),
	}
}

func (l *KafkaLog) Append(ctx context.Context, run padding.Run) error {
	msg, err := serializeToMessage(run)
	if err != nil {
		return fmt.Errorf("%w: %v", padding.ErrStorage, err)
	}
	if err := l.writer.WriteMessages(ctx, msg); err != nil {
		l.log.WithError(err).WithField("run_id", run.ID).Error("Failed to publish run")
		return fmt.Errorf("%w: publish run: %v", padding.ErrStorage, err)
	}
	return nil
}

func (l *KafkaLog) Close() error {
	return l.writer.Close()
}

func serializeToMessage(run padding.Run) (kafkago.Message, error) {
	data, err := json.Marshal(run)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize run: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(run.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "is_office", Value: []byte(strconv.FormatBool(run.IsOffice))},
			{Key: "ts", Value: []byte(run.Timestamp.UTC().Format(time.RFC3339))},
		},
	}, nil
}
