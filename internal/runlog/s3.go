package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/sdko-org/vertical-padding/internal/storage"
	"github.com/sirupsen/logrus"
)

// S3Log writes each run as its own JSON object. Objects are never rewritten, so
// the bucket prefix is an append-only log partitioned by day.
type S3Log struct {
	store  storage.Storage
	prefix string
	log    *logrus.Entry
}

func NewS3Log(logger *logrus.Logger, store storage.Storage, prefix string) *S3Log {
	return &S3Log{
		store:  store,
		prefix: prefix,
		log:    logger.WithField("component", "run_log_s3"),
	}
}

func (l *S3Log) Append(ctx context.Context, run padding.Run) error {
	body, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("%w: encode run: %v", padding.ErrStorage, err)
	}

	key := objectKey(l.prefix, run)
	if err := l.store.Put(ctx, key, body, "application/json"); err != nil {
		l.log.WithError(err).WithField("key", key).Error("Failed to append run")
		return fmt.Errorf("%w: append run: %v", padding.ErrStorage, err)
	}
	return nil
}

func objectKey(prefix string, run padding.Run) string {
	day := run.Timestamp.UTC().Format("2006/01/02")
	return path.Join(prefix, day, run.ID+".json")
}
