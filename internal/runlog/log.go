// Package runlog appends padding runs to an append-only record. Every backend
// reports failures wrapped in padding.ErrStorage.
package runlog

import (
	"context"
	"sync"

	"github.com/sdko-org/vertical-padding/internal/padding"
)

// Backend names accepted by RUN_LOG_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendKafka    = "kafka"
	BackendMemory   = "memory"
)

type Log interface {
	Append(ctx context.Context, run padding.Run) error
}

// MemoryLog keeps runs in process memory.
type MemoryLog struct {
	mu   sync.Mutex
	runs []padding.Run
	err  error
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(_ context.Context, run padding.Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.runs = append(l.runs, run)
	return nil
}

// FailWith makes every later Append return err. Pass nil to recover.
func (l *MemoryLog) FailWith(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

// Runs returns a copy of the appended runs in append order.
func (l *MemoryLog) Runs() []padding.Run {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]padding.Run, len(l.runs))
	copy(out, l.runs)
	return out
}
