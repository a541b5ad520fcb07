package runlog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/sdko-org/vertical-padding/internal/padding"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() padding.Run {
	return padding.Run{
		ID:            "0b8f2a34-6f57-4a7e-9d4c-2f3b1c9e8a11",
		Address:       "1 Market St, San Francisco",
		HorizontalSec: 100,
		FloorCount:    5,
		IsOffice:      false,
		VerticalPad:   110,
		TotalSec:      210,
		Timestamp:     time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("PST", -8*3600)),
	}
}

func TestMemoryLog(t *testing.T) {
	l := NewMemoryLog()
	ctx := context.Background()

	require.NoError(t, l.Append(ctx, sampleRun()))
	require.NoError(t, l.Append(ctx, sampleRun()))
	assert.Len(t, l.Runs(), 2)

	boom := errors.New("disk full")
	l.FailWith(boom)
	assert.ErrorIs(t, l.Append(ctx, sampleRun()), boom)
	assert.Len(t, l.Runs(), 2)
}

type fakeStorage struct {
	keys        []string
	bodies      [][]byte
	contentType string
	err         error
}

func (f *fakeStorage) Put(_ context.Context, key string, content []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.bodies = append(f.bodies, content)
	f.contentType = contentType
	return nil
}

func TestS3Log_Append(t *testing.T) {
	store := &fakeStorage{}
	l := NewS3Log(observability.NewDiscardLogger(), store, "runs")

	run := sampleRun()
	require.NoError(t, l.Append(context.Background(), run))

	require.Len(t, store.keys, 1)
	// 23:30 PST is the next day in UTC.
	assert.Equal(t, "runs/2024/03/10/"+run.ID+".json", store.keys[0])
	assert.Equal(t, "application/json", store.contentType)

	var got padding.Run
	require.NoError(t, json.Unmarshal(store.bodies[0], &got))
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, 210, got.TotalSec)
}

func TestS3Log_EmptyPrefix(t *testing.T) {
	assert.Equal(t, "2024/03/10/abc.json", objectKey("", padding.Run{
		ID:        "abc",
		Timestamp: time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC),
	}))
}

func TestS3Log_AppendError(t *testing.T) {
	store := &fakeStorage{err: errors.New("s3 upload failed")}
	l := NewS3Log(observability.NewDiscardLogger(), store, "runs")

	err := l.Append(context.Background(), sampleRun())
	require.Error(t, err)
	assert.ErrorIs(t, err, padding.ErrStorage)
}

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestSerializeToMessage(t *testing.T) {
	run := sampleRun()
	msg, err := serializeToMessage(run)
	require.NoError(t, err)

	assert.Equal(t, run.ID, string(msg.Key))

	var got padding.Run
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, run.Address, got.Address)
	assert.Equal(t, run.VerticalPad, got.VerticalPad)

	headers := make(map[string]string)
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "false", headers["is_office"])
	assert.Equal(t, "2024-03-10T07:30:00Z", headers["ts"])
}

func TestKafkaLog_Append(t *testing.T) {
	w := &fakeWriter{}
	l := newKafkaLog(observability.NewDiscardLogger(), w)

	require.NoError(t, l.Append(context.Background(), sampleRun()))
	require.Len(t, w.msgs, 1)

	require.NoError(t, l.Close())
	assert.True(t, w.closed)
}

func TestKafkaLog_AppendError(t *testing.T) {
	w := &fakeWriter{err: errors.New("not enough replicas")}
	l := newKafkaLog(observability.NewDiscardLogger(), w)

	err := l.Append(context.Background(), sampleRun())
	assert.ErrorIs(t, err, padding.ErrStorage)
}

func TestNewKafkaLog_RequiresAllAcks(t *testing.T) {
	l := NewKafkaLog(observability.NewDiscardLogger(), []string{"localhost:9092"}, "padding-runs")
	w, ok := l.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, kafkago.RequireAll, w.RequiredAcks)
	assert.Equal(t, "padding-runs", w.Topic)
	assert.False(t, w.Async)
	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
}
