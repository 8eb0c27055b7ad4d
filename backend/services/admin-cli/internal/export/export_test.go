package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/models"
)

func sampleReport() SwapReport {
	issued := int64(99)
	ah := 12.5
	swaps := []models.Swap{
		{ID: 1, UserID: 1, IssuedBatteryID: &issued, AhUsed: &ah, StartTime: "2026-03-10T10:00:00Z", EndTime: "2026-03-10T10:45:00Z"},
		{ID: 2, UserID: 2, StartTime: "2026-03-10T11:00:00Z"},
	}
	users := []models.User{{ID: 1, Name: "Ana, Jr.", Email: "ana@example.com"}}
	return SwapReport{
		Title:       "March swaps",
		Filters:     "status=all",
		GeneratedAt: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		Rows:        catalog.SwapRows(swaps, users, nil, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"csv": FormatCSV, " XLSX ": FormatXLSX, "pdf": FormatPDF} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWriteSwapsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleReport()); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d", len(records))
	}
	first := records[1]
	if first[1] != "Ana, Jr." || first[5] != "99" || first[9] != "45 min" || first[10] != "completed" || first[11] != "12.50" {
		t.Fatalf("first record = %q", first)
	}
	if second := records[2]; second[1] != "Unknown User" || second[9] != "Active" || second[8] != "" {
		t.Fatalf("second record = %q", second)
	}
}

func TestBuildSwapsXLSX(t *testing.T) {
	data, err := BuildSwapsXLSX(sampleReport())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if title, _ := f.GetCellValue("summary", "A1"); title != "March swaps" {
		t.Fatalf("title = %q", title)
	}
	if total, _ := f.GetCellValue("summary", "B5"); total != "2" {
		t.Fatalf("total = %q", total)
	}
	if user, _ := f.GetCellValue("swaps", "B2"); user != "Ana, Jr." {
		t.Fatalf("user = %q", user)
	}
	if status, _ := f.GetCellValue("swaps", "K3"); status != "active" {
		t.Fatalf("status = %q", status)
	}
}

func TestBuildSwapsPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatPDF, sampleReport()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a pdf: %q", buf.Bytes()[:8])
	}
}

func TestBuildSwapsPDFPaginates(t *testing.T) {
	var swaps []models.Swap
	for i := int64(1); i <= 80; i++ {
		swaps = append(swaps, models.Swap{ID: i})
	}
	r := SwapReport{Rows: catalog.SwapRows(swaps, nil, nil, time.UTC)}
	data, err := BuildSwapsPDF(r)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if bytes.Count(data, []byte("/Type /Page\n")) < 2 {
		t.Fatal("expected more than one page")
	}
}
