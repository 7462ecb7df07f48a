package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/i474232898/weather-records/internal/weather"
)

func sampleRecords(t *testing.T) []weather.Record {
	t.Helper()
	start, _ := weather.ParseDate("2024-01-01")
	end, _ := weather.ParseDate("2024-01-03")
	temp := "5.2"
	return []weather.Record{
		{
			ID: 2, Location: "São Paulo", StartDate: start, EndDate: start,
			Description: "few clouds, light breeze",
			CreatedAt:   time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			ID: 1, Location: "Paris", StartDate: start, EndDate: end, Temperature: &temp,
			Description: "clear sky",
			CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords(t)); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	firstLine := strings.SplitN(buf.String(), "\n", 2)[0]
	if firstLine != "ID,Location,Start Date,End Date,Temperature,Description,Timestamp" {
		t.Fatalf("unexpected header line %q", firstLine)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	want := []string{"1", "Paris", "2024-01-01", "2024-01-03", "5.2", "clear sky", "2024-01-01T12:00:00Z"}
	for i := range want {
		if rows[2][i] != want[i] {
			t.Fatalf("column %d: expected %q, got %q", i, want[i], rows[2][i])
		}
	}
	if rows[1][4] != "" {
		t.Fatalf("expected empty temperature cell, got %q", rows[1][4])
	}
	if rows[1][5] != "few clouds, light breeze" {
		t.Fatalf("expected quoted description to round-trip, got %q", rows[1][5])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Fatalf("expected only the header line, got %d lines", got)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleRecords(t)); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("records")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], "|") != strings.Join(Header, "|") {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[2][1] != "Paris" || rows[2][0] != "1" {
		t.Fatalf("unexpected data row %v", rows[2])
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleRecords(t)); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected a PDF document, got %q", buf.Bytes()[:8])
	}
}
