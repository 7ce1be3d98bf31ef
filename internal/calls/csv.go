package calls

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

var csvHeader = []string{
	"ID", "Caller Number", "Contact Name", "Agent", "Duration (s)",
	"Call Type", "Priority", "Status", "Notes", "Resolution Notes", "Timestamp",
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ExportCSV renders the filtered ledger as CSV: one header row plus one row
// per matching call, and a timestamped attachment filename.
func (s *Service) ExportCSV(ctx context.Context, f Filter) ([]byte, string, error) {
	f.Limit = exportCap
	rows, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, "", fmt.Errorf("calls csv header: %w", err)
	}
	for _, call := range rows {
		record := []string{
			call.ID,
			call.CallerNumber,
			deref(call.ContactName),
			call.AgentName,
			strconv.Itoa(call.Duration),
			call.CallType,
			call.Priority,
			call.Status,
			deref(call.Notes),
			deref(call.ResolutionNotes),
			call.Timestamp,
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("calls csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("calls csv flush: %w", err)
	}

	filename := "calls_export_" + s.now().UTC().Format("20060102_150405") + ".csv"
	return buf.Bytes(), filename, nil
}
