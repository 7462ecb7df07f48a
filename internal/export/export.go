// Package export renders weather records as downloadable tables.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/i474232898/weather-records/internal/weather"
)

// Header is the column row shared by every export format.
var Header = []string{"ID", "Location", "Start Date", "End Date", "Temperature", "Description", "Timestamp"}

func row(r weather.Record) []string {
	temp := ""
	if r.Temperature != nil {
		temp = *r.Temperature
	}
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Location,
		r.StartDate.String(),
		r.EndDate.String(),
		temp,
		r.Description,
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteCSV writes the header followed by one row per record.
func WriteCSV(w io.Writer, records []weather.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the records to a single "records" sheet.
func WriteXLSX(w io.Writer, records []weather.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "records"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &Header); err != nil {
		return err
	}
	for i, r := range records {
		cells := row(r)
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		// Keep ids numeric so spreadsheets sort them correctly.
		values[0] = r.ID
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

var pdfColumnWidths = []float64{12, 45, 26, 26, 26, 62, 50}

// WritePDF renders a landscape A4 table of the records.
func WritePDF(w io.Writer, records []weather.Record) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Weather Records")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Records: %d", len(records)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	for i, h := range Header {
		pdf.CellFormat(pdfColumnWidths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	// Core fonts are cp1252; translate so accented city names survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 9)
	for _, r := range records {
		for i, c := range row(r) {
			align := "L"
			if i == 0 || i == 4 {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[i], 6, tr(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
