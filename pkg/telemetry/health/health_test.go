package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_ReadinessNoChecks(t *testing.T) {
	c := New(0)

	status := c.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("status = %q, want ready", status.Status)
	}
}

func TestChecker_ReadinessAggregation(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("evidence", func(ctx context.Context) error { return nil })
	c.RegisterCheck("store", func(ctx context.Context) error {
		return errors.New("database locked")
	})

	status := c.CheckReadiness(context.Background())

	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded", status.Status)
	}
	if got := status.Checks["evidence"].Status; got != "ok" {
		t.Errorf("evidence status = %q, want ok", got)
	}
	if got := status.Checks["store"]; got.Status != "unhealthy" || got.Message != "database locked" {
		t.Errorf("store result = %+v", got)
	}
}

func TestChecker_CheckTimeout(t *testing.T) {
	c := New(50 * time.Millisecond)
	c.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	status := c.CheckReadiness(context.Background())

	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded", status.Status)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("readiness took %v, timeout not applied", elapsed)
	}
}

func TestChecker_UnregisterCheck(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("flaky", func(ctx context.Context) error { return errors.New("down") })
	c.UnregisterCheck("flaky")

	if status := c.CheckReadiness(context.Background()); status.Status != "ready" {
		t.Errorf("status = %q, want ready after unregister", status.Status)
	}
}

func TestLivenessHandler(t *testing.T) {
	c := New(0)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("body status = %q, want ok", status.Status)
	}
}

func TestReadinessHandler_Unavailable(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("store", func(ctx context.Context) error { return errors.New("down") })

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	c.ReadinessHandler()(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandlers_RejectNonGet(t *testing.T) {
	c := New(0)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
