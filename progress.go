package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"nftgen/core"
)

const progressRedrawInterval = 100 * time.Millisecond

var (
	phaseStyle  = lipgloss.NewStyle().Bold(true).Width(9)
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// progressBar draws one line per phase on a terminal. It implements
// core.ProgressReporter and is safe for the concurrent Advance calls of the
// image workers.
type progressBar struct {
	mu       sync.Mutex
	out      io.Writer
	bar      progress.Model
	tracker  *core.ProgressTracker
	lastDraw time.Time
	now      func() time.Time
}

func newProgressBar(out io.Writer) *progressBar {
	return &progressBar{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		now: time.Now,
	}
}

func (p *progressBar) Begin(phase string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tracker != nil {
		p.finishLocked()
	}
	p.tracker = core.NewProgressTracker(phase, total)
	p.drawLocked()
}

func (p *progressBar) Advance(n int, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tracker == nil {
		return
	}
	p.tracker.Advance(n, failed)
	if p.tracker.IsComplete() || p.now().Sub(p.lastDraw) >= progressRedrawInterval {
		p.drawLocked()
	}
}

func (p *progressBar) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tracker != nil {
		p.finishLocked()
	}
}

func (p *progressBar) finishLocked() {
	p.drawLocked()
	fmt.Fprintln(p.out)
	p.tracker = nil
}

func (p *progressBar) drawLocked() {
	info := p.tracker.Progress()
	p.lastDraw = p.now()
	fmt.Fprintf(p.out, "\r%s %s %s", phaseStyle.Render(info.Phase), p.bar.ViewAs(info.Fraction), formatCounts(info))
}

func formatCounts(info core.ProgressInfo) string {
	s := countStyle.Render(fmt.Sprintf("%s/%s", humanize.Comma(int64(info.Done)), humanize.Comma(int64(info.Total))))
	if info.Failed > 0 {
		s += " " + failedStyle.Render(fmt.Sprintf("%d failed", info.Failed))
	}
	if info.ETA > 0 {
		s += countStyle.Render(fmt.Sprintf(" eta %s", info.ETA.Round(time.Second)))
	}
	return s
}
