package picker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"codeberg.org/snonux/themegrid/internal"
	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/selection"
)

// ErrNotInteractive is returned when stdin is not a terminal
var ErrNotInteractive = errors.New("interactive picking needs a terminal; use --pick label=file or --gui")

// Result counts what the user did
type Result struct {
	Changed int
	Kept    int
	Skipped int
}

// Picker asks the user to choose one candidate per element on a terminal
type Picker struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a picker reading choices from in and printing to out
func New(in io.Reader, out io.Writer) *Picker {
	return &Picker{in: bufio.NewReader(in), out: out}
}

// NewTerminal creates a picker on stdin and stdout, refusing when stdin is not a terminal
func NewTerminal() (*Picker, error) {
	if !internal.IsTerminal(os.Stdin) {
		return nil, ErrNotInteractive
	}
	return New(os.Stdin, os.Stdout), nil
}

// Pick walks every element of sel. Enter keeps the current image, a number
// picks that candidate, s skips the element and q stops early.
func (p *Picker) Pick(m *image.Manifest, sel *selection.Selection) (Result, error) {
	var res Result

	labels := make([]string, 0, len(sel.Elements))
	for _, e := range sel.Elements {
		labels = append(labels, e.Label)
	}

	for i, label := range labels {
		entry := sel.Entry(label)
		elem := m.Element(label)
		if elem == nil || len(elem.Candidates) == 0 {
			res.Kept++
			continue
		}
		ranked := elem.Ranked()

		fmt.Fprintf(p.out, "\nElement %d/%d: %s (%s)\n", i+1, len(labels), entry.Target, entry.Label)
		fmt.Fprintln(p.out, CandidateTable(ranked, entry.Image))

		choice, err := p.ask(len(ranked))
		if err != nil {
			return res, err
		}

		switch choice {
		case choiceKeep:
			res.Kept++
		case choiceSkip:
			sel.Remove(label)
			res.Skipped++
		case choiceQuit:
			res.Kept += len(labels) - i
			return res, nil
		default:
			c := ranked[choice-1]
			if c.Path == entry.Image {
				res.Kept++
				continue
			}
			if err := sel.SetCandidate(label, c); err != nil {
				return res, err
			}
			res.Changed++
		}
	}
	return res, nil
}

const (
	choiceKeep = 0
	choiceSkip = -1
	choiceQuit = -2
)

func (p *Picker) ask(n int) (int, error) {
	for {
		fmt.Fprintf(p.out, "Choose 1-%d, Enter keeps current, s skips, q finishes: ", n)

		line, err := p.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("failed to read choice: %w", err)
		}
		eof := err == io.EOF
		answer := strings.ToLower(strings.TrimSpace(line))

		switch {
		case answer == "" && eof:
			return choiceQuit, nil
		case answer == "":
			return choiceKeep, nil
		case answer == "s":
			return choiceSkip, nil
		case answer == "q":
			return choiceQuit, nil
		}

		if v, err := strconv.Atoi(answer); err == nil && v >= 1 && v <= n {
			return v, nil
		}
		fmt.Fprintf(p.out, "Invalid choice %q\n", answer)
		if eof {
			return choiceQuit, nil
		}
	}
}

// CandidateTable renders ranked candidates; the current image is marked with *
func CandidateTable(ranked []image.Candidate, current string) string {
	rows := make([][]string, 0, len(ranked))
	for i, c := range ranked {
		mark := ""
		if c.Path == current {
			mark = "*"
		}
		score := "-"
		if c.Score != nil {
			score = fmt.Sprintf("%.3f", *c.Score)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			mark,
			c.Path,
			c.Source,
			fmt.Sprintf("%dx%d", c.Width, c.Height),
			formatBytes(c.Bytes),
			score,
		})
	}
	return internal.RenderTable(
		[]string{"#", "", "File", "Source", "Size", "Bytes", "Score"},
		rows,
		[]internal.Align{internal.AlignRight, internal.AlignLeft, internal.AlignLeft, internal.AlignLeft,
			internal.AlignRight, internal.AlignRight, internal.AlignRight},
	)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%d KB", n/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
