package processor

import "context"

// Run fetches, scores and renders a theme under a single lock
func (p *Processor) Run(ctx context.Context, name string) error {
	t, paths, err := p.loadTheme(name)
	if err != nil {
		return err
	}

	searchers, err := p.searchers()
	if err != nil {
		return err
	}

	unlock, err := p.lock(paths)
	if err != nil {
		return err
	}
	defer unlock()

	if err := p.archiveIfFresh(paths); err != nil {
		return err
	}

	m, err := p.fetch(ctx, t, paths, searchers)
	if err != nil {
		return err
	}
	if err := p.score(ctx, t, paths, m); err != nil {
		return err
	}
	return p.render(t, paths)
}
