package processor

import (
	"context"
	"fmt"
	"strconv"

	"codeberg.org/snonux/themegrid/internal"
	"codeberg.org/snonux/themegrid/internal/cli"
	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/score"
	"codeberg.org/snonux/themegrid/internal/selection"
	"codeberg.org/snonux/themegrid/internal/theme"
)

// Score rates every candidate of a theme, writes the scoring report and
// selects the best candidate per element
func (p *Processor) Score(ctx context.Context, name string) error {
	t, paths, err := p.loadTheme(name)
	if err != nil {
		return err
	}
	unlock, err := p.lock(paths)
	if err != nil {
		return err
	}
	defer unlock()

	m, err := p.readManifest(paths)
	if err != nil {
		return err
	}
	return p.score(ctx, t, paths, m)
}

func (p *Processor) scorer(ctx context.Context) (score.Scorer, error) {
	keys, err := cli.LoadKeys()
	if err != nil {
		return nil, err
	}
	return p.newScorer(ctx, score.Config{
		Name:        p.flags.Scorer,
		OpenAIKey:   keys.OpenAI,
		OpenAIModel: p.flags.OpenAIModel,
		GeminiKey:   keys.Gemini,
		GeminiModel: p.flags.GeminiModel,
	})
}

func (p *Processor) score(ctx context.Context, t *theme.Theme, paths theme.Paths, m *image.Manifest) error {
	s, err := p.scorer(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Scoring %d candidates with %s...\n", m.CandidateCount(), s.Name())
	stats, err := score.Rank(ctx, s, m, paths.Photos, p.workers(t))
	if err != nil {
		return fmt.Errorf("scoring interrupted: %w", err)
	}

	if err := m.Write(paths.Candidates); err != nil {
		return err
	}
	report := score.BuildReport(t, m, s.Name())
	if err := report.Write(paths.Report); err != nil {
		return err
	}
	fmt.Printf("Scoring report written: %s\n", paths.Report)

	sel, _ := selection.FromManifest(t, m)
	if err := sel.Write(paths.Selection, paths.Photos); err != nil {
		return err
	}
	fmt.Printf("Selection written: %s\n", paths.Selection)

	printReportTable(report)
	Summary{
		Stage:     "Score",
		Total:     stats.Scored + stats.Failed,
		Processed: stats.Scored,
		Failed:    stats.Failed,
	}.Print()
	return nil
}

func printReportTable(r *score.Report) {
	rows := make([][]string, 0, len(r.Elements))
	for _, e := range r.Elements {
		best := "-"
		if len(e.Scores) > 0 {
			best = fmt.Sprintf("%.3f", e.Scores[0].Score)
		}
		rows = append(rows, []string{e.Label, e.Target, e.Selected, best, strconv.Itoa(e.Total)})
	}
	fmt.Println(internal.RenderTable(
		[]string{"Element", "Target", "Selected", "Score", "Candidates"},
		rows,
		[]internal.Align{internal.AlignLeft, internal.AlignLeft, internal.AlignLeft, internal.AlignRight, internal.AlignRight},
	))
}
