package recorder

import (
	"context"
	"testing"
	"time"

	"subagentic-hq/saturn/pkg/evidence"
	"subagentic-hq/saturn/pkg/evidence/storage"
)

func TestRecorder_AppendAndFlush(t *testing.T) {
	mem := storage.NewMemoryStorage()
	r := NewRecorder(mem, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		record := &evidence.Record{
			Kind:         evidence.KindDecision,
			WorkloadID:   "w1",
			ObservedTime: time.Now().UTC(),
			Admitted:     true,
			Reason:       "admitted",
		}
		if err := r.Append(ctx, record); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if record.ID == "" {
			t.Error("Expected record ID to be assigned")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if mem.Size() != 10 {
		t.Errorf("Expected 10 records flushed, got %d", mem.Size())
	}
}

func TestRecorder_Disabled(t *testing.T) {
	mem := storage.NewMemoryStorage()
	r := NewRecorder(mem, &Config{Enabled: false})
	ctx := context.Background()

	if err := r.Append(ctx, &evidence.Record{Kind: evidence.KindDecision}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	r.Shutdown(shutdownCtx)

	if mem.Size() != 0 {
		t.Errorf("Expected no records when disabled, got %d", mem.Size())
	}
}

func TestRecorder_AppendAfterShutdown(t *testing.T) {
	mem := storage.NewMemoryStorage()
	r := NewRecorder(mem, nil)
	ctx := context.Background()

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	r.Shutdown(shutdownCtx)

	err := r.Append(ctx, &evidence.Record{Kind: evidence.KindDecision})
	if err == nil {
		t.Error("Expected error appending after shutdown")
	}
}

// Appends racing Shutdown must never panic: the record channel is never
// closed, and each racing Append either lands in the buffer (flushed by
// the worker's drain) or fails with a shutdown error.
func TestRecorder_AppendDuringShutdown(t *testing.T) {
	for iter := 0; iter < 20; iter++ {
		mem := storage.NewMemoryStorage()
		r := NewRecorder(mem, &Config{Enabled: true, AsyncBuffer: 64})
		ctx := context.Background()

		stop := make(chan struct{})
		done := make(chan struct{}, 12)
		for g := 0; g < 12; g++ {
			go func() {
				defer func() { done <- struct{}{} }()
				for {
					select {
					case <-stop:
						return
					default:
					}
					r.Append(ctx, &evidence.Record{
						Kind:         evidence.KindDecision,
						WorkloadID:   "w1",
						ObservedTime: time.Now().UTC(),
					})
				}
			}()
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := r.Shutdown(shutdownCtx); err != nil {
			t.Fatalf("Shutdown failed: %v", err)
		}
		cancel()

		close(stop)
		for g := 0; g < 12; g++ {
			<-done
		}

		if err := r.Append(ctx, &evidence.Record{Kind: evidence.KindDecision}); err == nil {
			t.Error("Expected error appending after shutdown")
		}
	}
}

func TestRecorder_ConcurrentAppend(t *testing.T) {
	mem := storage.NewMemoryStorage()
	r := NewRecorder(mem, &Config{Enabled: true, AsyncBuffer: 1000})
	ctx := context.Background()

	done := make(chan struct{}, 8)
	for g := 0; g < 8; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 50; i++ {
				r.Append(ctx, &evidence.Record{
					Kind:         evidence.KindEnforcement,
					WorkloadID:   "w1",
					ObservedTime: time.Now().UTC(),
					Category:     "compute",
					Tier:         "soft",
				})
			}
		}()
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if mem.Size() != 400 {
		t.Errorf("Expected 400 records, got %d (dropped %d)", mem.Size(), r.Dropped())
	}
}
