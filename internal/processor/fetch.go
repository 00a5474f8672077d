package processor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/snonux/themegrid/internal"
	"codeberg.org/snonux/themegrid/internal/archive"
	"codeberg.org/snonux/themegrid/internal/cli"
	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/ledger"
	"codeberg.org/snonux/themegrid/internal/selection"
	"codeberg.org/snonux/themegrid/internal/theme"
)

// Fetch downloads candidate images for every element of a theme, writes the
// manifest and an automatic selection
func (p *Processor) Fetch(ctx context.Context, name string) error {
	t, paths, err := p.loadTheme(name)
	if err != nil {
		return err
	}

	searchers, err := p.searchers()
	if err != nil {
		return err
	}

	if p.flags.DryRun {
		p.printPlan(t, searchers)
		return nil
	}

	unlock, err := p.lock(paths)
	if err != nil {
		return err
	}
	defer unlock()

	if err := p.archiveIfFresh(paths); err != nil {
		return err
	}
	_, err = p.fetch(ctx, t, paths, searchers)
	return err
}

// searchers builds the configured sources, each behind a circuit breaker
// and a shared response cache
func (p *Processor) searchers() ([]image.ImageSearcher, error) {
	keys, err := cli.LoadKeys()
	if err != nil {
		return nil, err
	}

	raw, skipped, err := p.newSearchers(p.flags.Sources, keys.Images)
	if err != nil {
		return nil, err
	}
	for _, name := range skipped {
		fmt.Printf("Warning: skipping %s, no API key configured\n", name)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no usable image source among %s; run themegrid providers", strings.Join(p.flags.Sources, ", "))
	}

	c := image.NewSearchCache()
	guarded := make([]image.ImageSearcher, 0, len(raw))
	for _, s := range raw {
		guarded = append(guarded, image.NewGuardedSearcher(s, c))
	}
	return guarded, nil
}

func (p *Processor) archiveIfFresh(paths theme.Paths) error {
	if !p.flags.Fresh {
		return nil
	}
	if _, err := archive.ArchiveTheme(paths.Dir); err != nil && !errors.Is(err, archive.ErrNothingToArchive) {
		return err
	}
	return nil
}

func requests(t *theme.Theme) []image.Request {
	reqs := make([]image.Request, 0, len(t.Elements))
	for _, e := range t.Elements {
		reqs = append(reqs, image.Request{Label: e.Label, Query: e.Query, Count: t.ImagesFor(e)})
	}
	return reqs
}

func (p *Processor) printPlan(t *theme.Theme, searchers []image.ImageSearcher) {
	f := image.NewFetcher(searchers, nil, image.FetcherOptions{Workers: p.workers(t)})
	plan := f.Plan(requests(t))

	rows := make([][]string, 0, len(plan))
	total := 0
	for _, s := range plan {
		rows = append(rows, []string{s.Label, s.Query, s.Source, strconv.Itoa(s.Count)})
		total += s.Count
	}
	fmt.Println(internal.RenderTable(
		[]string{"Element", "Query", "Source", "Images"},
		rows,
		[]internal.Align{internal.AlignLeft, internal.AlignLeft, internal.AlignLeft, internal.AlignRight},
	))
	fmt.Printf("Dry run: %d searches for up to %d images, nothing downloaded\n", len(plan), total)
}

// fetch runs the fetcher and writes candidates.json and selection.json.
// An element without candidates fails the stage after the files are written.
func (p *Processor) fetch(ctx context.Context, t *theme.Theme, paths theme.Paths, searchers []image.ImageSearcher) (*image.Manifest, error) {
	l, err := ledger.Open(paths.Ledger)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	names := make([]string, 0, len(searchers))
	for _, s := range searchers {
		names = append(names, s.Name())
	}
	fmt.Printf("Fetching images for %d elements of %s from %s...\n", len(t.Elements), t.Name, strings.Join(names, ", "))

	f := image.NewFetcher(searchers, l, image.FetcherOptions{
		PhotosDir: paths.Photos,
		Workers:   p.workers(t),
		MaxBytes:  p.flags.MaxBytes,
		Prefix:    t.QueryPrefix,
	})
	m, fetchErr := f.Fetch(ctx, t.Name, requests(t))
	if m == nil {
		return nil, fetchErr
	}

	if err := m.Write(paths.Candidates); err != nil {
		return nil, err
	}
	fmt.Printf("Candidate manifest written: %s\n", paths.Candidates)

	sel, missing := selection.FromManifest(t, m)
	if len(sel.Elements) > 0 {
		if err := sel.Write(paths.Selection, paths.Photos); err != nil {
			return nil, err
		}
		fmt.Printf("Selection written: %s\n", paths.Selection)
	}

	printFetchTable(m, names)
	Summary{
		Stage:     "Fetch",
		Total:     len(t.Elements),
		Processed: len(t.Elements) - len(missing),
		Skipped:   m.Skipped,
		Failed:    len(missing),
	}.Print()

	return m, fetchErr
}

func printFetchTable(m *image.Manifest, sources []string) {
	headers := append([]string{"Element", "Candidates"}, sources...)
	headers = append(headers, "Failures")

	aligns := []internal.Align{internal.AlignLeft}
	for range len(sources) + 2 {
		aligns = append(aligns, internal.AlignRight)
	}

	rows := make([][]string, 0, len(m.Elements))
	for _, e := range m.Elements {
		counts := e.CountBySource()
		row := []string{e.Label, strconv.Itoa(len(e.Candidates))}
		for _, s := range sources {
			row = append(row, strconv.Itoa(counts[s]))
		}
		row = append(row, strconv.Itoa(len(e.Failures)))
		rows = append(rows, row)
	}
	fmt.Println(internal.RenderTable(headers, rows, aligns))
}
