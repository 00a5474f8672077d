package processor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/themegrid/internal"
	"codeberg.org/snonux/themegrid/internal/document"
	"codeberg.org/snonux/themegrid/internal/selection"
	"codeberg.org/snonux/themegrid/internal/theme"
	"codeberg.org/snonux/themegrid/internal/translation"
)

// Render writes the .docx grid of a theme, one document per language with --all-langs
func (p *Processor) Render(name string) error {
	t, paths, err := p.loadTheme(name)
	if err != nil {
		return err
	}
	return p.render(t, paths)
}

func (p *Processor) render(t *theme.Theme, paths theme.Paths) error {
	sel, err := selection.Read(paths.Selection)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no selection at %s; run themegrid fetch or select first", paths.Selection)
	}
	if err != nil {
		return err
	}
	// Every element gets a cell; a skipped or failed one must be picked first
	if err := sel.Complete(t); err != nil {
		return fmt.Errorf("%w; choose an image with themegrid select --pick label=file", err)
	}

	langs := []string{t.Language}
	switch {
	case p.flags.AllLangs:
		langs = sel.Languages()
	case p.flags.Lang != "":
		langs = []string{p.flags.Lang}
	}
	if p.flags.Output != "" && len(langs) > 1 {
		return fmt.Errorf("--output names a single file but %d languages are rendered", len(langs))
	}

	if p.flags.DryRun {
		for _, lang := range langs {
			printLayout(sel, lang)
		}
		return nil
	}

	opts := document.DefaultOptions()
	opts.ShowTitle = !p.flags.NoTitle
	opts.Borders = !p.flags.NoBorders
	if p.flags.ImageWidth > 0 {
		opts.ImageWidthInches = p.flags.ImageWidth
	}

	used := make(map[string]bool)
	summary := Summary{Stage: "Render", Total: len(langs)}
	for _, lang := range langs {
		opts.Lang = lang
		out := p.flags.Output
		if out == "" {
			out = paths.Document(sel.TitleFor(lang), ".docx")
			if used[out] {
				out = paths.Document(sel.TitleFor(lang)+"_"+lang, ".docx")
			}
		}
		used[out] = true

		res, err := document.Render(sel, paths.Photos, out, opts)
		if err != nil {
			return err
		}
		summary.Processed++
		fmt.Printf("Document created (%s): %s (%d images, %d rows of %d)\n",
			translation.LanguageName(lang), res.Path, res.Images, res.Rows, res.Columns)

		if p.flags.CSV {
			csvPath := strings.TrimSuffix(out, ".docx") + ".csv"
			err := document.ExportCSV(sel, paths.Photos, document.CSVOptions{
				OutputPath:     csvPath,
				Lang:           lang,
				IncludeHeaders: true,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Flashcard CSV created: %s\n", csvPath)
		}
	}

	if len(langs) > 1 {
		summary.Print()
	}
	return nil
}

// printLayout shows the grid that render would write
func printLayout(sel *selection.Selection, lang string) {
	rows := document.Layout(sel, lang)
	if len(rows) == 0 {
		fmt.Printf("Selection of %s is empty\n", sel.Theme)
		return
	}

	columns := len(rows[0])
	headers := make([]string, columns)
	for i := range headers {
		headers[i] = fmt.Sprintf("Column %d", i+1)
	}

	var cells [][]string
	for _, row := range rows {
		r := make([]string, columns)
		for i, c := range row {
			if c != nil {
				r[i] = fmt.Sprintf("%s (%s)\n%s", c.Target, c.Label, c.Image)
			}
		}
		cells = append(cells, r)
	}

	fmt.Printf("%s [%s]\n", sel.TitleFor(lang), lang)
	fmt.Println(internal.RenderTable(headers, cells, nil))
}
