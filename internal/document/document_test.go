package document

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"codeberg.org/snonux/themegrid/internal/selection"
	"codeberg.org/snonux/themegrid/internal/testutil"
)

func testSelection(t *testing.T, n, columns int) (*selection.Selection, string) {
	t.Helper()

	photos := filepath.Join(t.TempDir(), "photos")
	sel := &selection.Selection{
		Theme:    "meteo",
		Title:    "Времето",
		Titles:   map[string]string{"en": "Weather"},
		Language: "fr",
		Columns:  columns,
	}

	labels := []string{"soleil", "nuage", "pluie", "neige", "vent", "orage", "éclair"}
	targets := []string{"сонце", "облак", "дожд", "снег", "ветер", "бура", "молња"}
	for i := 0; i < n; i++ {
		name := labels[i] + "_unsplash_1.jpg"
		testutil.CreateTestFile(t, filepath.Join(photos, name), testutil.JPEGBytes(t, 40, 20+i))
		sel.Elements = append(sel.Elements, selection.Entry{
			Label:  labels[i],
			Target: targets[i],
			Labels: map[string]string{"en": "en-" + labels[i]},
			Image:  name,
		})
	}
	return sel, photos
}

func readPart(t *testing.T, path, name string) string {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open docx: %v", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("Part %s not found in %s", name, path)
	return ""
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		columns  int
		wantRows int
		wantNils int
	}{
		{"exact fit", 6, 3, 2, 0},
		{"padded last row", 7, 3, 3, 2},
		{"single column", 2, 1, 2, 0},
		{"more columns than elements", 2, 4, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, _ := testSelection(t, tt.n, tt.columns)
			rows := Layout(sel, "")

			if len(rows) != tt.wantRows {
				t.Fatalf("Expected %d rows, got %d", tt.wantRows, len(rows))
			}
			filled, nils := 0, 0
			for _, row := range rows {
				if len(row) != tt.columns {
					t.Errorf("Expected %d cells per row, got %d", tt.columns, len(row))
				}
				for _, c := range row {
					if c == nil {
						nils++
					} else {
						filled++
					}
				}
			}
			if filled != tt.n || nils != tt.wantNils {
				t.Errorf("Expected %d filled and %d empty cells, got %d and %d", tt.n, tt.wantNils, filled, nils)
			}
			if rows[0][0].Label != "soleil" {
				t.Errorf("Expected row-major order starting with soleil, got %s", rows[0][0].Label)
			}
		})
	}
}

func TestRender(t *testing.T) {
	sel, photos := testSelection(t, 7, 3)
	out := filepath.Join(t.TempDir(), "Vremeto.docx")

	res, err := Render(sel, photos, out, DefaultOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Rows != 3 || res.Columns != 3 || res.Images != 7 {
		t.Errorf("Unexpected result: %+v", res)
	}
	testutil.AssertFileNotExists(t, out+".tmp")

	doc := readPart(t, out, "word/document.xml")
	if got := strings.Count(doc, "<w:drawing>"); got != 7 {
		t.Errorf("Expected 7 images, got %d", got)
	}
	if got := strings.Count(doc, "<w:tr>"); got != 3 {
		t.Errorf("Expected 3 rows, got %d", got)
	}
	if got := strings.Count(doc, "<w:tc>"); got != 9 {
		t.Errorf("Expected 9 cells, got %d", got)
	}
	if got := strings.Count(doc, `<w:gridCol `); got != 3 {
		t.Errorf("Expected 3 grid columns, got %d", got)
	}
	for _, want := range []string{"Времето", "сонце", "(éclair)", "<w:tblBorders>", `<w:sz w:val="28"/>`} {
		if !strings.Contains(doc, want) {
			t.Errorf("Expected document to contain %q", want)
		}
	}

	// 2 inch wide images
	if !strings.Contains(doc, `<wp:extent cx="1828800" cy="914400"/>`) {
		t.Errorf("Expected first image at 2x1 inch")
	}

	rels := readPart(t, out, "word/_rels/document.xml.rels")
	if got := strings.Count(rels, "relationships/image"); got != 7 {
		t.Errorf("Expected 7 image relationships, got %d", got)
	}
	readPart(t, out, "word/media/image7.jpeg")
	readPart(t, out, "[Content_Types].xml")
	readPart(t, out, "word/styles.xml")
}

func TestRenderLanguageAndOptions(t *testing.T) {
	sel, photos := testSelection(t, 2, 2)
	out := filepath.Join(t.TempDir(), "Weather.docx")

	opts := Options{Lang: "en", ShowTitle: false, Borders: false}
	res, err := Render(sel, photos, out, opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Title != "Weather" {
		t.Errorf("Expected title 'Weather', got %q", res.Title)
	}

	doc := readPart(t, out, "word/document.xml")
	if strings.Contains(doc, "Weather") || strings.Contains(doc, "<w:tblBorders>") {
		t.Error("Expected neither title nor borders")
	}
	if !strings.Contains(doc, "(en-soleil)") {
		t.Error("Expected English labels")
	}
}

func TestRenderCapsImageWidthToColumn(t *testing.T) {
	sel, photos := testSelection(t, 7, 7)
	out := filepath.Join(t.TempDir(), "wide.docx")

	if _, err := Render(sel, photos, out, DefaultOptions()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	m := regexp.MustCompile(`<wp:extent cx="(\d+)"`).FindStringSubmatch(doc)
	if m == nil {
		t.Fatal("No image extent found")
	}
	if m[1] == "1828800" {
		t.Error("Expected images narrower than 2 inch in a 7 column grid")
	}
}

func TestRenderMissingImage(t *testing.T) {
	sel, photos := testSelection(t, 3, 3)
	os.Remove(filepath.Join(photos, "nuage_unsplash_1.jpg"))
	out := filepath.Join(t.TempDir(), "x.docx")

	_, err := Render(sel, photos, out, DefaultOptions())
	if !errors.Is(err, selection.ErrMissingImage) {
		t.Errorf("Expected ErrMissingImage, got %v", err)
	}
	testutil.AssertFileNotExists(t, out)
}

func TestRenderEmpty(t *testing.T) {
	sel := &selection.Selection{Theme: "empty", Columns: 3}
	if _, err := Render(sel, t.TempDir(), filepath.Join(t.TempDir(), "x.docx"), DefaultOptions()); err == nil {
		t.Error("Expected error for an empty selection")
	}
}

func TestExportCSV(t *testing.T) {
	sel, photos := testSelection(t, 2, 3)
	out := filepath.Join(t.TempDir(), "cards.csv")

	err := ExportCSV(sel, photos, CSVOptions{OutputPath: out, Lang: "en", IncludeHeaders: true})
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d", len(records))
	}
	want := []string{"сонце", "en-soleil", `<img src="soleil_unsplash_1.jpg">`}
	for i := range want {
		if records[1][i] != want[i] {
			t.Errorf("Column %d: expected %q, got %q", i, want[i], records[1][i])
		}
	}
}
