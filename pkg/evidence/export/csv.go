package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"subagentic-hq/saturn/pkg/evidence"
)

// CSVExporter exports evidence records to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes evidence records to the provided writer in CSV format.
// Broker verdicts are flattened to a count; use the JSON exporter when
// full verdict detail is required.
func (e *CSVExporter) Export(ctx context.Context, records []*evidence.Record, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return evidence.NewExportError("csv", len(records), err)
		}
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(recordToRow(record)); err != nil {
			return evidence.NewExportError("csv", len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return evidence.NewExportError("csv", len(records), err)
	}

	return nil
}

func headerRow() []string {
	return []string{
		"id", "kind", "workload_id", "evaluation_id",
		"observed_time", "recorded_time",
		"sender_id", "admitted", "reason",
		"sender_trust", "content_trust",
		"sender_agreement", "content_agreement", "broker_count",
		"category", "tier", "observed_ratio", "terminated",
		"detail",
	}
}

func recordToRow(record *evidence.Record) []string {
	senderTrust := ""
	if record.SenderTrust != nil {
		senderTrust = fmt.Sprintf("%.4f", *record.SenderTrust)
	}
	contentTrust := ""
	if record.ContentTrust != nil {
		contentTrust = fmt.Sprintf("%.4f", *record.ContentTrust)
	}

	return []string{
		record.ID,
		string(record.Kind),
		record.WorkloadID,
		record.EvaluationID,
		record.ObservedTime.Format(time.RFC3339Nano),
		record.RecordedTime.Format(time.RFC3339Nano),
		record.SenderID,
		strconv.FormatBool(record.Admitted),
		record.Reason,
		senderTrust,
		contentTrust,
		strconv.FormatBool(record.SenderAgreement),
		strconv.FormatBool(record.ContentAgreement),
		strconv.Itoa(len(record.BrokerVerdicts)),
		record.Category,
		record.Tier,
		fmt.Sprintf("%.4f", record.ObservedRatio),
		strconv.FormatBool(record.Terminated),
		record.Detail,
	}
}
