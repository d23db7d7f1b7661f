// Package recorder provides the async single-writer that feeds the
// evidence storage backend.
//
// Engines emit records concurrently; the recorder serializes all writes
// through one background worker so that storage sees a single writer.
// Append never blocks on storage.
package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"subagentic-hq/saturn/pkg/evidence"
)

// Config contains configuration for the evidence recorder.
type Config struct {
	// Enabled enables evidence recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes governance evidence records to storage asynchronously.
// It is the serialization point for concurrent emitters: every record
// flows through one buffered channel drained by a single worker.
type Recorder struct {
	storage    evidence.Storage
	config     *Config
	recordChan chan *evidence.Record
	wg         sync.WaitGroup
	done       chan struct{}
	closed     atomic.Bool
	dropped    atomic.Int64
	logger     *slog.Logger
}

// NewRecorder creates a new evidence recorder backed by the given storage.
func NewRecorder(storage evidence.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *evidence.Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "evidence.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("evidence recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Append enqueues a record for async writing. A missing ID or RecordedTime
// is filled in. When the buffer is full the record is dropped and counted
// rather than blocking the emitting engine.
func (r *Recorder) Append(ctx context.Context, record *evidence.Record) error {
	if !r.config.Enabled {
		return nil
	}
	if r.closed.Load() {
		return evidence.NewRecorderError(record.ID, errors.New("recorder is shut down"))
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.RecordedTime.IsZero() {
		record.RecordedTime = time.Now().UTC()
	}

	// The record channel is never closed, so a send can never panic even
	// when Append races Shutdown. Shutdown is signalled through the done
	// channel instead; a racing record lands in the buffer and is drained
	// by the worker before it exits.
	select {
	case <-r.done:
		return evidence.NewRecorderError(record.ID, errors.New("recorder is shut down"))
	case r.recordChan <- record:
		return nil
	default:
		dropped := r.dropped.Add(1)
		r.logger.Warn("evidence buffer full, record dropped",
			"record_id", record.ID,
			"kind", record.Kind,
			"total_dropped", dropped,
		)
		return evidence.NewRecorderError(record.ID, errors.New("evidence buffer full"))
	}
}

// Dropped returns the number of records dropped due to a full buffer.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Shutdown stops the recorder and flushes buffered records to storage.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.closed.Swap(true) {
		return nil
	}

	close(r.done)

	flushDone := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(flushDone)
	}()

	select {
	case <-flushDone:
		r.logger.Info("evidence recorder shut down", "dropped", r.dropped.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// worker drains the record channel and writes each record to storage.
// On shutdown it drains the remaining buffer before exiting so flushed
// records are not lost.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)
		case <-r.done:
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage under the write timeout.
func (r *Recorder) writeRecord(record *evidence.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store evidence record",
			"record_id", record.ID,
			"kind", record.Kind,
			"error", err,
		)
	}
}
