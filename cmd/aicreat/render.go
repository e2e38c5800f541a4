package main

import (
	"fmt"
	"io"
	"strings"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/poller"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const barWidth = 40

// progressLine redraws one terminal line per poll.
type progressLine struct {
	out  io.Writer
	bar  progress.Model
	last string
}

func newProgressLine(out io.Writer) *progressLine {
	return &progressLine{
		out: out,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(barWidth),
		),
	}
}

func (p *progressLine) Update(snap poller.Snapshot) {
	label := snap.Status
	if snap.Err != nil {
		label = "retrying"
	}
	if snap.State == poller.StateFetchingResults {
		label = "fetching results"
	}
	line := fmt.Sprintf("%s %3d%% %s", p.bar.ViewAs(float64(snap.Progress)/100), snap.Progress, label)
	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprintf(p.out, "\r%s\033[K", line)
}

func (p *progressLine) Done(res poller.Result) {
	if p.last != "" {
		fmt.Fprintln(p.out)
	}
	switch res.State {
	case poller.StateCompleted:
		fmt.Fprintf(p.out, "completed: %d asset(s) after %d poll(s)\n", res.Results.Count(), res.Polls)
	case poller.StateFailed:
		fmt.Fprintf(p.out, "failed after %d poll(s)\n", res.Polls)
	}
}

// platformName prefers the backend's label and title-cases the id otherwise.
func platformName(f creative.FormatSpec) string {
	if f.PlatformName != "" {
		return f.PlatformName
	}
	return titleCase(f.PlatformID)
}

func titleCase(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return cases.Title(language.English).String(s)
}
