package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/selection"
)

const (
	targetHalfPoints = 28 // 14pt
	cellPaddingInch  = 0.15
)

// Options configures a rendered document
type Options struct {
	Lang             string // labels and title language; empty uses the defaults
	ShowTitle        bool
	ImageWidthInches float64
	Borders          bool
}

// DefaultOptions returns a titled, bordered grid with 2 inch images
func DefaultOptions() Options {
	return Options{
		ShowTitle:        true,
		ImageWidthInches: 2.0,
		Borders:          true,
	}
}

// Result describes a written document
type Result struct {
	Path    string
	Title   string
	Rows    int
	Columns int
	Images  int
}

// Render writes sel as a .docx grid to outPath. Every selected image must
// exist under photosDir.
func Render(sel *selection.Selection, photosDir, outPath string, opts Options) (*Result, error) {
	if len(sel.Elements) == 0 {
		return nil, fmt.Errorf("selection for %s is empty", sel.Theme)
	}
	if err := sel.Validate(photosDir); err != nil {
		return nil, err
	}
	if opts.ImageWidthInches <= 0 {
		opts.ImageWidthInches = DefaultOptions().ImageWidthInches
	}

	rows := Layout(sel, opts.Lang)
	columns := len(rows[0])
	title := sel.TitleFor(opts.Lang)

	colInches := float64(textWidthTwips)/float64(columns)/1440 - cellPaddingInch
	widthInches := min(opts.ImageWidthInches, colInches)
	widthEMU := int64(widthInches * emuPerInch)

	var body bytes.Buffer
	body.WriteString(documentHeader)
	if opts.ShowTitle && title != "" {
		paragraph(&body, "Title", textRun(title, true, false, 0))
	}

	var media []mediaFile
	tableStart(&body, columns, opts.Borders)
	for _, row := range rows {
		body.WriteString(`<w:tr><w:trPr><w:cantSplit/></w:trPr>`)
		for _, cell := range row {
			fmt.Fprintf(&body, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/><w:vAlign w:val="center"/></w:tcPr>`, textWidthTwips/columns)
			if cell == nil {
				body.WriteString(`<w:p/></w:tc>`)
				continue
			}

			m, err := newMediaFile(filepath.Join(photosDir, cell.Image), len(media)+1)
			if err != nil {
				return nil, err
			}
			media = append(media, m)

			heightEMU := widthEMU * int64(m.height) / int64(m.width)
			paragraph(&body, "", fmt.Sprintf(drawingXML, widthEMU, heightEMU, m.number, escape(m.name), m.relID))
			paragraph(&body, "", textRun(cell.Target, true, false, targetHalfPoints))
			paragraph(&body, "", textRun("("+cell.Label+")", false, true, 0))
			body.WriteString(`</w:tc>`)
		}
		body.WriteString(`</w:tr>`)
	}
	body.WriteString(`</w:tbl>`)
	body.WriteString(documentFooter)

	if err := writePackage(outPath, body.Bytes(), media, opts.Lang); err != nil {
		return nil, err
	}

	return &Result{
		Path:    outPath,
		Title:   title,
		Rows:    len(rows),
		Columns: columns,
		Images:  len(media),
	}, nil
}

type mediaFile struct {
	source string
	name   string
	relID  string
	number int
	width  int
	height int
}

func newMediaFile(path string, number int) (mediaFile, error) {
	width, height, err := image.Dimensions(path)
	if err != nil {
		return mediaFile{}, err
	}
	if width == 0 || height == 0 {
		return mediaFile{}, fmt.Errorf("image %s has no size", path)
	}

	ext := "jpeg"
	if strings.EqualFold(filepath.Ext(path), ".png") {
		ext = "png"
	}
	return mediaFile{
		source: path,
		name:   fmt.Sprintf("image%d.%s", number, ext),
		relID:  fmt.Sprintf("rIdImage%d", number),
		number: number,
		width:  width,
		height: height,
	}, nil
}

// writePackage zips the document parts into outPath through a temp file
func writePackage(outPath string, document []byte, media []mediaFile, lang string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	defer os.Remove(tmpPath)

	archive := zip.NewWriter(file)

	rels := make([]relationship, 0, len(media))
	for _, m := range media {
		rels = append(rels, relationship{id: m.relID, target: "media/" + m.name})
	}

	if lang == "" {
		lang = "mk-MK"
	}
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/document.xml", document},
		{"word/styles.xml", []byte(fmt.Sprintf(stylesXML, escape(lang)))},
		{"word/_rels/document.xml.rels", documentRelsXML(rels)},
	}
	for _, p := range parts {
		w, err := archive.Create(p.name)
		if err != nil {
			file.Close()
			return fmt.Errorf("failed to add %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			file.Close()
			return fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}

	for _, m := range media {
		if err := addFile(archive, "word/media/"+m.name, m.source); err != nil {
			file.Close()
			return err
		}
	}

	if err := archive.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finish document: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	return os.Rename(tmpPath, outPath)
}

func addFile(archive *zip.Writer, name, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	w, err := archive.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	_, err = io.Copy(w, src)
	return err
}
