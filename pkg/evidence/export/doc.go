// Package export provides exporters for evidence records.
//
// Two formats are supported: JSON (full fidelity, suitable for ingestion
// by other systems) and CSV (flattened, suitable for spreadsheets and
// quick operator review).
package export
