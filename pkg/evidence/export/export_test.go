package export

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"subagentic-hq/saturn/pkg/evidence"
)

func sampleRecords() []*evidence.Record {
	sender := 0.75
	content := 0.65
	observed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*evidence.Record{
		{
			ID:           "r1",
			Kind:         evidence.KindDecision,
			WorkloadID:   "w1",
			EvaluationID: "eval-1",
			ObservedTime: observed,
			RecordedTime: observed,
			SenderID:     "sender-1",
			Admitted:     true,
			Reason:       "admitted",
			SenderTrust:  &sender,
			ContentTrust: &content,
			BrokerVerdicts: []evidence.BrokerVerdictRecord{
				{BrokerID: "b1", SenderTrust: 0.7, ContentTrust: 0.6},
				{BrokerID: "b2", SenderTrust: 0.8, ContentTrust: 0.7},
			},
		},
		{
			ID:            "r2",
			Kind:          evidence.KindEnforcement,
			WorkloadID:    "w1",
			ObservedTime:  observed.Add(time.Minute),
			RecordedTime:  observed.Add(time.Minute),
			Category:      "memory",
			Tier:          "soft",
			ObservedRatio: 0.93,
		},
	}
}

func TestJSONExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewJSONExporter(false)

	if err := exporter.Export(context.Background(), sampleRecords(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded []*evidence.Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Exported JSON is not valid: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(decoded))
	}
	if decoded[0].ID != "r1" || len(decoded[0].BrokerVerdicts) != 2 {
		t.Errorf("Decision record lost fidelity: %+v", decoded[0])
	}
}

func TestJSONExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewJSONExporter(true)

	if err := exporter.Export(context.Background(), nil, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("Expected empty array, got %q", buf.String())
	}
}

func TestCSVExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewCSVExporter(true)

	if err := exporter.Export(context.Background(), sampleRecords(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,kind,workload_id") {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "admitted") || !strings.Contains(lines[1], "0.7500") {
		t.Errorf("Decision row missing fields: %s", lines[1])
	}
	if !strings.Contains(lines[2], "memory") || !strings.Contains(lines[2], "soft") {
		t.Errorf("Enforcement row missing fields: %s", lines[2])
	}
}

func TestCSVExporter_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewCSVExporter(false)

	if err := exporter.Export(context.Background(), sampleRecords(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 rows without header, got %d", len(lines))
	}
}
