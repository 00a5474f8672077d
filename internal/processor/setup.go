package processor

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"codeberg.org/snonux/themegrid/internal"
	"codeberg.org/snonux/themegrid/internal/archive"
	"codeberg.org/snonux/themegrid/internal/cli"
	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/models"
	"codeberg.org/snonux/themegrid/internal/score"
	"codeberg.org/snonux/themegrid/internal/theme"
	"codeberg.org/snonux/themegrid/internal/translation"
)

// Init scaffolds a theme from a preset or a word list and optionally
// translates missing target labels and extra label languages
func (p *Processor) Init(ctx context.Context, name string) error {
	t, err := theme.Create(p.flags.ThemesRoot, name, theme.Options{
		Preset:           p.flags.Preset,
		WordList:         p.flags.WordList,
		Title:            p.flags.Title,
		Columns:          p.flags.Columns,
		ImagesPerElement: p.flags.ImagesPerElement,
		QueryPrefix:      p.flags.QueryPrefix,
	})
	if err != nil {
		return err
	}
	paths := theme.NewPaths(p.flags.ThemesRoot, name)
	fmt.Printf("Created theme %s with %d elements: %s\n", t.Name, len(t.Elements), paths.Config)

	if p.flags.Translate || len(p.flags.LabelLangs) > 0 {
		if err := p.translateTheme(ctx, t); err != nil {
			return err
		}
		if err := theme.Save(p.flags.ThemesRoot, t); err != nil {
			return err
		}
	}

	if missing := t.MissingTargets(); len(missing) > 0 {
		labels := make([]string, 0, len(missing))
		for _, e := range missing {
			labels = append(labels, e.Label)
		}
		fmt.Printf("Warning: %d elements have no target label (%s); edit %s or use --translate\n",
			len(missing), strings.Join(labels, ", "), paths.Config)
	}
	return nil
}

func (p *Processor) translateTheme(ctx context.Context, t *theme.Theme) error {
	keys, err := cli.LoadKeys()
	if err != nil {
		return err
	}
	if keys.OpenAI == "" {
		return fmt.Errorf("translation needs an OpenAI API key; set OPENAI_API_KEY or keys.openai")
	}
	tr := &translation.Cached{
		Service: p.newTranslator(keys.OpenAI, p.flags.TranslationModel),
		Cache:   p.translationCache,
	}

	var errs []error
	if p.flags.Translate {
		fmt.Printf("Translating missing target labels to %s...\n", translation.LanguageName(p.flags.TargetLang))
		n, e := translation.FillTargets(ctx, tr, t, p.flags.TargetLang)
		fmt.Printf("Translated %d target labels\n", n)
		errs = append(errs, e...)
	}
	for _, lang := range p.flags.LabelLangs {
		fmt.Printf("Translating labels to %s...\n", translation.LanguageName(lang))
		n, e := translation.FillLabels(ctx, tr, t, lang)
		fmt.Printf("Translated %d labels to %s\n", n, lang)
		errs = append(errs, e...)
	}

	for _, err := range errs {
		slog.Warn("Translation failed", "error", err)
	}
	if len(errs) > 0 {
		fmt.Printf("Warning: %d translations failed\n", len(errs))
	}
	return ctx.Err()
}

// Themes lists the built-in presets and the themes found under the themes root
func (p *Processor) Themes() error {
	onDisk, err := theme.List(p.flags.ThemesRoot)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, name := range onDisk {
		t, err := theme.Load(p.flags.ThemesRoot, name)
		if err != nil {
			rows = append(rows, []string{name, "theme", "-", err.Error()})
			continue
		}
		rows = append(rows, []string{name, "theme", strconv.Itoa(len(t.Elements)), t.Title})
	}
	for _, name := range theme.PresetNames() {
		t, _ := theme.Preset(name)
		rows = append(rows, []string{name, "preset", strconv.Itoa(len(t.Elements)), t.Title})
	}

	fmt.Println(internal.RenderTable(
		[]string{"Name", "Kind", "Elements", "Title"},
		rows,
		[]internal.Align{internal.AlignLeft, internal.AlignLeft, internal.AlignRight, internal.AlignLeft},
	))
	fmt.Printf("Themes root: %s\n", p.flags.ThemesRoot)
	return nil
}

// Providers shows which image sources and scorers the configured keys allow
func (p *Processor) Providers() error {
	keys, err := cli.LoadKeys()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, st := range image.Availability(keys.Images) {
		rows = append(rows, []string{st.Name, "image source", yesNo(st.Available), yesNo(st.KeyNeeded), st.Note})
	}
	rows = append(rows,
		[]string{score.Heuristic, "scorer", "yes", "no", ""},
		[]string{score.OpenAI, "scorer", yesNo(keys.OpenAI != ""), "yes", missingKey(keys.OpenAI, "OPENAI_API_KEY")},
		[]string{score.Gemini, "scorer", yesNo(keys.Gemini != ""), "yes", missingKey(keys.Gemini, "GEMINI_API_KEY")},
	)

	fmt.Println(internal.RenderTable(
		[]string{"Name", "Kind", "Available", "Key needed", "Note"},
		rows,
		nil,
	))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func missingKey(key, env string) string {
	if key != "" {
		return ""
	}
	return "set " + env
}

// Models lists the OpenAI models usable for scoring and translation
func (p *Processor) Models(ctx context.Context) error {
	keys, err := cli.LoadKeys()
	if err != nil {
		return err
	}
	return models.NewLister(keys.OpenAI).ListAvailableModels(ctx)
}

// Archive moves the photos and artifacts of a theme into its archive directory
func (p *Processor) Archive(name string) error {
	_, paths, err := p.loadTheme(name)
	if err != nil {
		return err
	}
	unlock, err := p.lock(paths)
	if err != nil {
		return err
	}
	defer unlock()

	_, err = archive.ArchiveTheme(paths.Dir)
	return err
}
