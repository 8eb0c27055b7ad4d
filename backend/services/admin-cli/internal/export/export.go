// Package export renders swap activity reports as CSV, XLSX or PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"batteryswap/backend/services/admin-cli/internal/catalog"
)

// Format is a report file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts csv, xlsx or pdf.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("export: unknown format %q", raw)
}

// SwapReport is a filtered swap list with its header information.
type SwapReport struct {
	Title       string
	Filters     string
	GeneratedAt time.Time
	Rows        []catalog.SwapRow
}

var swapColumns = []string{
	"ID", "User", "Email", "Pickup Station", "Deposit Station",
	"Issued Battery", "Returned Battery", "Start", "End", "Duration", "Status", "Ah Used",
}

// Write renders r in format f to w.
func Write(w io.Writer, f Format, r SwapReport) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatCSV:
		return WriteSwapsCSV(w, r)
	case FormatXLSX:
		data, err = BuildSwapsXLSX(r)
	case FormatPDF:
		data, err = BuildSwapsPDF(r)
	default:
		return fmt.Errorf("export: unknown format %q", f)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteSwapsCSV writes a header line followed by one record per swap.
func WriteSwapsCSV(w io.Writer, r SwapReport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(swapColumns); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := writer.Write(swapRecord(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// BuildSwapsXLSX renders a summary sheet and a swaps sheet.
func BuildSwapsXLSX(r SwapReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	swapsSheet := "swaps"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(swapsSheet); err != nil {
		return nil, err
	}

	active, completed := countStatuses(r.Rows)
	_ = f.SetCellValue(summarySheet, "A1", reportTitle(r))
	_ = f.SetCellValue(summarySheet, "A3", "Generated")
	_ = f.SetCellValue(summarySheet, "B3", r.GeneratedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A4", "Filters")
	_ = f.SetCellValue(summarySheet, "B4", filtersLabel(r))
	_ = f.SetCellValue(summarySheet, "A5", "Swaps")
	_ = f.SetCellValue(summarySheet, "B5", len(r.Rows))
	_ = f.SetCellValue(summarySheet, "A6", "Active")
	_ = f.SetCellValue(summarySheet, "B6", active)
	_ = f.SetCellValue(summarySheet, "A7", "Completed")
	_ = f.SetCellValue(summarySheet, "B7", completed)

	for i, title := range swapColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(swapsSheet, cell, title)
	}
	for i, row := range r.Rows {
		for j, value := range swapRecord(row) {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(swapsSheet, cell, value)
		}
		// id and Ah used as numbers
		_ = f.SetCellValue(swapsSheet, fmt.Sprintf("A%d", i+2), row.ID)
		if row.AhUsed != nil {
			_ = f.SetCellValue(swapsSheet, fmt.Sprintf("L%d", i+2), *row.AhUsed)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pdfColumns = []struct {
	title string
	width float64
}{
	{"ID", 12},
	{"User", 40},
	{"Pickup", 40},
	{"Deposit", 40},
	{"Start", 38},
	{"End", 38},
	{"Duration", 24},
	{"Status", 24},
}

// BuildSwapsPDF renders a landscape table of the swaps.
func BuildSwapsPDF(r SwapReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	active, completed := countStatuses(r.Rows)
	pdf.Cell(0, 8, reportTitle(r))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", r.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Filters: %s", filtersLabel(r)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Swaps: %d (active %d, completed %d)", len(r.Rows), active, completed))
	pdf.Ln(8)

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, col.title, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	header()
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, row := range r.Rows {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		values := []string{
			strconv.FormatInt(row.ID, 10),
			row.UserName,
			row.PickupStationName,
			row.DepositStationName,
			formatTime(row.StartTime),
			formatTime(row.EndTime),
			row.Duration,
			row.Status,
		}
		for i, col := range pdfColumns {
			align := "L"
			if i == 0 {
				align = "R"
			}
			pdf.CellFormat(col.width, 6, tr(values[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func swapRecord(row catalog.SwapRow) []string {
	return []string{
		strconv.FormatInt(row.ID, 10),
		row.UserName,
		row.UserEmail,
		row.PickupStationName,
		row.DepositStationName,
		formatID(row.IssuedBatteryID),
		formatID(row.ReturnedBatteryID),
		formatTime(row.StartTime),
		formatTime(row.EndTime),
		row.Duration,
		row.Status,
		formatFloat(row.AhUsed),
	}
}

func countStatuses(rows []catalog.SwapRow) (active, completed int) {
	for _, row := range rows {
		if row.Status == catalog.SwapCompleted {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

func reportTitle(r SwapReport) string {
	if r.Title != "" {
		return r.Title
	}
	return "Swap Activity"
}

func filtersLabel(r SwapReport) string {
	if r.Filters != "" {
		return r.Filters
	}
	return "none"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
