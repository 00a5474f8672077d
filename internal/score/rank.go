package score

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/themegrid/internal/image"
)

// RankStats counts the outcome of a Rank call
type RankStats struct {
	Scored int
	Failed int
}

// Rank scores every candidate of m in place on a bounded pool. A candidate
// whose scoring fails gets score 0 and is counted as failed.
func Rank(ctx context.Context, s Scorer, m *image.Manifest, photosDir string, workers int) (RankStats, error) {
	if workers <= 0 {
		workers = 4
	}

	var failed atomic.Int64
	total := 0

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := range m.Elements {
		elem := &m.Elements[i]
		for j := range elem.Candidates {
			c := &elem.Candidates[j]
			query := elem.Query
			total++

			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}

				v, err := s.Score(egCtx, filepath.Join(photosDir, c.Path), query)
				if err != nil {
					if egCtx.Err() != nil {
						return egCtx.Err()
					}
					slog.Warn("Failed to score candidate", "scorer", s.Name(), "path", c.Path, "error", err)
					failed.Add(1)
					v = 0
				}
				v = Clamp(v)
				c.Score = &v
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return RankStats{}, err
	}

	n := int(failed.Load())
	return RankStats{Scored: total - n, Failed: n}, nil
}
