package document

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/snonux/themegrid/internal/selection"
)

// Card is one flashcard row of the CSV export
type Card struct {
	Target    string // word in the target script
	Label     string // display label
	ImageFile string // path to image file
}

// CSVOptions configures the flashcard export
type CSVOptions struct {
	OutputPath     string
	Lang           string
	IncludeHeaders bool
}

// Cards turns the selection into flashcards, one per element
func Cards(sel *selection.Selection, photosDir, lang string) []Card {
	cards := make([]Card, 0, len(sel.Elements))
	for _, e := range sel.Elements {
		card := Card{Target: e.Target, Label: e.LabelFor(lang)}
		if e.Image != "" {
			card.ImageFile = filepath.Join(photosDir, e.Image)
		}
		cards = append(cards, card)
	}
	return cards
}

// ExportCSV writes a flashcard CSV importable into Anki, with the image
// field as an <img> tag referencing the file name
func ExportCSV(sel *selection.Selection, photosDir string, opts CSVOptions) error {
	file, err := os.Create(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if opts.IncludeHeaders {
		if err := writer.Write([]string{"Target", "Label", "Image"}); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range Cards(sel, photosDir, opts.Lang) {
		record := []string{card.Target, card.Label, formatImageField(card.ImageFile)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func formatImageField(imageFile string) string {
	if imageFile == "" {
		return ""
	}
	return fmt.Sprintf(`<img src="%s">`, filepath.Base(imageFile))
}
