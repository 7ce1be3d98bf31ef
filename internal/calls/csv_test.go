package calls

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"
)

func TestExportCSV(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	seed := []Call{
		{
			ID: "call-1", ContactID: "c1", AgentID: "a1", AgentName: "Agent One",
			CallerNumber: "5550100", ContactName: str("Alice"), Duration: 120,
			Notes: str("billing question"), CallType: "inquiry", Priority: "normal",
			Status: "completed", Timestamp: "2023-11-14T10:00:00Z",
		},
		{
			ID: "call-2", ContactID: "c2", AgentID: "a1", AgentName: "Agent One",
			CallerNumber: "5550199", Duration: 30, CallType: "complaint",
			Priority: "high", Status: "follow_up", Timestamp: "2023-11-13T09:00:00Z",
		},
	}
	for i := range seed {
		if err := repo.Insert(ctx, &seed[i]); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	data, filename, err := svc.ExportCSV(ctx, Filter{})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if filename != "calls_export_20231114_221320.csv" {
		t.Fatalf("filename = %q", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	if records[0][4] != "Duration (s)" {
		t.Fatalf("header = %v", records[0])
	}
	// Newest first.
	if records[1][0] != "call-1" || records[1][2] != "Alice" || records[1][4] != "120" {
		t.Fatalf("row 1 = %v", records[1])
	}
	// Absent optionals render as empty cells.
	if records[2][0] != "call-2" || records[2][2] != "" || records[2][8] != "" {
		t.Fatalf("row 2 = %v", records[2])
	}
}

func TestExportCSVHonorsFilter(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	seed := []Call{
		{ID: "c1", CallerNumber: "1", CallType: "inquiry", Priority: "normal", Status: "completed", Timestamp: "2023-11-14T10:00:00Z"},
		{ID: "c2", CallerNumber: "2", CallType: "complaint", Priority: "high", Status: "completed", Timestamp: "2023-11-13T09:00:00Z"},
	}
	for i := range seed {
		if err := repo.Insert(ctx, &seed[i]); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	data, _, err := svc.ExportCSV(ctx, Filter{CallType: "complaint"})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 || records[1][0] != "c2" {
		t.Fatalf("filtered export: %v", records)
	}
}

func TestExportCSVEmpty(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	svc.Now = func() time.Time { return time.Unix(1700000000, 0).UTC() }

	data, _, err := svc.ExportCSV(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("rows = %d, want header only", len(records))
	}
}
