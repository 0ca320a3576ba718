package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/anidata/anilist-compiler/pkg/flatten"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []flatten.Record {
	title := "Cowboy Bebop"
	episodes := 26
	adult := false
	return []flatten.Record{
		{
			ID:          1,
			TitleRomaji: &title,
			Episodes:    &episodes,
			IsAdult:     &adult,
			Genres:      `["Action","Sci-Fi"]`,
			Synonyms:    "[]",
		},
		{
			ID:     2,
			Genres: "[]",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(rows))
	}
	if rows[0][0] != "id" || len(rows[0]) != len(flatten.Columns()) {
		t.Errorf("header = %v, want the full column schema", rows[0][:3])
	}

	col := indexOf(t, rows[0], "title_romaji")
	if rows[1][0] != "1" || rows[1][col] != "Cowboy Bebop" {
		t.Errorf("row 1 = id %q title %q", rows[1][0], rows[1][col])
	}
	if rows[2][col] != "" {
		t.Errorf("absent title rendered %q, want empty cell", rows[2][col])
	}

	genresCol := indexOf(t, rows[0], "genres")
	if rows[1][genresCol] != `["Action","Sci-Fi"]` {
		t.Errorf("genres cell = %q, want the JSON column verbatim", rows[1][genresCol])
	}

	adultCol := indexOf(t, rows[0], "isAdult")
	if rows[1][adultCol] != "false" {
		t.Errorf("isAdult cell = %q, want false", rows[1][adultCol])
	}
}

func TestWriteCSV_DedupesOnID(t *testing.T) {
	// Re-invoking the exporter with overlapping batches must not leak
	// duplicate ids into the file; the later record wins.
	old := "Old Title"
	updated := "Updated Title"
	records := []flatten.Record{
		{ID: 1, TitleRomaji: &old, Genres: "[]"},
		{ID: 2, Genres: "[]"},
		{ID: 1, TitleRomaji: &updated, Genres: "[]"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 distinct ids", len(rows))
	}
	if rows[1][0] != "1" || rows[2][0] != "2" {
		t.Errorf("id order = %q, %q, want first-appearance positions kept", rows[1][0], rows[2][0])
	}

	col := indexOf(t, rows[0], "title_romaji")
	if rows[1][col] != "Updated Title" {
		t.Errorf("id 1 title = %q, want the later record to win", rows[1][col])
	}
}

func TestWriteXLSXFile_DedupesOnID(t *testing.T) {
	records := []flatten.Record{
		{ID: 1, Genres: "[]"},
		{ID: 1, Genres: "[]"},
	}

	path := filepath.Join(t.TempDir(), "anime.xlsx")
	if err := WriteXLSXFile(path, records); err != nil {
		t.Fatalf("WriteXLSXFile failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want header + 1 distinct id", len(rows))
	}
}

func TestWriteCSV_EmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "anime.csv")
	if err := WriteCSVFile(path, sampleRecords()); err != nil {
		t.Fatalf("WriteCSVFile failed: %v", err)
	}
}

func TestWriteXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anime.xlsx")
	if err := WriteXLSXFile(path, sampleRecords()); err != nil {
		t.Fatalf("WriteXLSXFile failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	if err != nil || header != "id" {
		t.Errorf("A1 = %q (%v), want id", header, err)
	}

	id, err := f.GetCellValue(sheetName, "A2")
	if err != nil || id != "1" {
		t.Errorf("A2 = %q (%v), want 1", id, err)
	}

	// title_romaji is the third column.
	title, err := f.GetCellValue(sheetName, "C2")
	if err != nil || title != "Cowboy Bebop" {
		t.Errorf("C2 = %q (%v), want Cowboy Bebop", title, err)
	}

	// Absent scalar stays an empty cell.
	title2, err := f.GetCellValue(sheetName, "C3")
	if err != nil || title2 != "" {
		t.Errorf("C3 = %q (%v), want empty", title2, err)
	}
}

func indexOf(t *testing.T, header []string, name string) int {
	t.Helper()
	for i, h := range header {
		if h == name {
			return i
		}
	}
	t.Fatalf("column %s not in header", name)
	return -1
}
