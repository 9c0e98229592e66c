// Package exports renders the water test history as downloadable files.
package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	logbook "boilerlog/internal/logbook/domain"
	settings "boilerlog/internal/settings/domain"
)

// exportColumns returns the parameter keys to render, sorted so every format
// lays the table out identically: configured keys first, then any keys that
// appear only on entries written under a different settings revision.
func exportColumns(entries []logbook.WaterTestEntry, params *settings.TestParameters) []string {
	seen := map[string]bool{}
	var keys []string
	if params != nil {
		for key := range params.Ranges {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var extra []string
	for i := range entries {
		for key := range entries[i].Readings {
			if !seen[key] {
				seen[key] = true
				extra = append(extra, key)
			}
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// BuildHistoryCSV renders entries as CSV with one row per test.
func BuildHistoryCSV(entries []logbook.WaterTestEntry, params *settings.TestParameters) ([]byte, error) {
	columns := exportColumns(entries, params)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := append([]string{"date", "time", "testedBy", "boiler"}, columns...)
	header = append(header, "blowdownComplete", "comment")
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for i := range entries {
		entry := &entries[i]
		row := []string{entry.Date, entry.Time, entry.TestedByUserID, entry.BoilerName}
		for _, key := range columns {
			if value := entry.Reading(key); value != nil {
				row = append(row, strconv.FormatFloat(*value, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, strconv.FormatBool(entry.BlowdownComplete()), entry.CommentText)
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildHistoryXLSX renders entries as a workbook with one history sheet and
// one sheet listing the ranges the export was evaluated against.
func BuildHistoryXLSX(entries []logbook.WaterTestEntry, params *settings.TestParameters) ([]byte, error) {
	columns := exportColumns(entries, params)

	f := excelize.NewFile()
	historySheet := "history"
	rangesSheet := "ranges"
	f.SetSheetName("Sheet1", historySheet)
	f.NewSheet(rangesSheet)

	header := append([]string{"Date", "Time", "Tested By", "Boiler"}, columns...)
	header = append(header, "Blowdown Complete", "Comment")
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(historySheet, cell, title)
	}

	for i := range entries {
		entry := &entries[i]
		row := i + 2
		values := []any{entry.Date, entry.Time, entry.TestedByUserID, entry.BoilerName}
		for _, key := range columns {
			if value := entry.Reading(key); value != nil {
				values = append(values, *value)
			} else {
				values = append(values, "")
			}
		}
		values = append(values, entry.BlowdownComplete(), entry.CommentText)
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(historySheet, cell, value)
		}
	}

	_ = f.SetCellValue(rangesSheet, "A1", "Parameter")
	_ = f.SetCellValue(rangesSheet, "B1", "Min")
	_ = f.SetCellValue(rangesSheet, "C1", "Max")
	if params != nil {
		row := 2
		for _, key := range exportColumns(nil, params) {
			rng := params.RangeFor(key)
			if rng == nil {
				continue
			}
			_ = f.SetCellValue(rangesSheet, fmt.Sprintf("A%d", row), key)
			_ = f.SetCellValue(rangesSheet, fmt.Sprintf("B%d", row), rng.Min)
			_ = f.SetCellValue(rangesSheet, fmt.Sprintf("C%d", row), rng.Max)
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildHistoryPDF renders entries as a landscape table, one page series per
// export. Wide parameter sets compress the columns rather than overflow.
func BuildHistoryPDF(entries []logbook.WaterTestEntry, params *settings.TestParameters, generatedAt time.Time) ([]byte, error) {
	columns := exportColumns(entries, params)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Water Test History")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Entries: %d", len(entries)))
	pdf.Ln(8)

	fixed := []string{"Date", "Time", "By"}
	fixedWidth := []float64{22, 14, 14}
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	available := pageWidth - left - right - 50
	columnWidth := available
	if len(columns) > 0 {
		columnWidth = available / float64(len(columns))
	}

	pdf.SetFont("Arial", "B", 8)
	for i, title := range fixed {
		pdf.CellFormat(fixedWidth[i], 6, title, "1", 0, "C", false, 0, "")
	}
	for _, key := range columns {
		pdf.CellFormat(columnWidth, 6, key, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i := range entries {
		entry := &entries[i]
		pdf.CellFormat(fixedWidth[0], 6, entry.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(fixedWidth[1], 6, entry.Time, "1", 0, "C", false, 0, "")
		pdf.CellFormat(fixedWidth[2], 6, entry.TestedByUserID, "1", 0, "C", false, 0, "")
		for _, key := range columns {
			text := ""
			if value := entry.Reading(key); value != nil {
				text = strconv.FormatFloat(*value, 'f', -1, 64)
			}
			pdf.CellFormat(columnWidth, 6, text, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
