package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gamelist/internal/game"
	"gamelist/internal/gamelist"
	"gamelist/internal/tui"

	bar "github.com/charmbracelet/bubbles/progress"
)

// Prompter asks its questions on a terminal. Answers are read line by line
// from In; a closed input answers every question with its default.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	ctx context.Context
	// AssumeYes answers every confirmation with yes and every retry with abort
	AssumeYes bool
}

var _ gamelist.Prompter = (*Prompter)(nil)

// NewPrompter reads answers from in and writes questions to out. Progress
// reports cancellation once ctx ends.
func NewPrompter(ctx context.Context, in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, ctx: ctx}
}

func (p *Prompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (p *Prompter) ask(pr gamelist.Prompt) bool {
	confirm, dismiss := pr.Confirm, pr.Dismiss
	if confirm == "" {
		confirm = "yes"
	}
	if dismiss == "" {
		dismiss = "no"
	}

	color := CurrentTheme.Info
	if pr.Warning {
		color = CurrentTheme.Warning
	}
	fmt.Fprintln(p.out, DrawBox(styled(color).Bold(true).Render(pr.Title)+"\n"+pr.Message, color))
	fmt.Fprintf(p.out, "%s [y = %s / N = %s]: ", pr.Title, confirm, dismiss)

	answer, ok := p.readLine()
	if !ok {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes", strings.ToLower(confirm):
		return true
	}
	return false
}

func (p *Prompter) Confirm(pr gamelist.Prompt) bool {
	if p.AssumeYes {
		return true
	}
	return p.ask(pr)
}

// RetryAbort never retries unattended: with AssumeYes it reports the failure
// and aborts.
func (p *Prompter) RetryAbort(pr gamelist.Prompt) bool {
	if p.AssumeYes {
		fmt.Fprintln(p.out, styled(CurrentTheme.Warning).Render("! "+pr.Title+": "+pr.Message))
		return false
	}
	return p.ask(pr)
}

func (p *Prompter) Info(title, message string) {
	fmt.Fprintln(p.out, styled(CurrentTheme.Info).Render("ℹ "+title+": "+message))
}

func (p *Prompter) Error(title, message string) {
	fmt.Fprintln(p.out, styled(CurrentTheme.Error).Render("✗ "+title+": "+message))
}

// SaveFile offers the suggested destination; an empty answer accepts it
func (p *Prompter) SaveFile(req gamelist.SaveRequest) (string, bool) {
	def := filepath.Join(req.Directory, req.FileName)
	if p.AssumeYes {
		return def, true
	}
	fmt.Fprintf(p.out, "%s [%s]: ", req.Title, def)
	answer, ok := p.readLine()
	if !ok {
		fmt.Fprintln(p.out)
		return "", false
	}
	if answer == "" {
		return def, true
	}
	if req.Extension != "" && filepath.Ext(answer) == "" {
		answer += req.Extension
	}
	return answer, true
}

const barWidth = 30

type progress struct {
	out   io.Writer
	ctx   context.Context
	title string
	bar   bar.Model
	last  int
}

func (p *Prompter) Progress(title, message string) gamelist.Progress {
	fmt.Fprintln(p.out, message)
	return &progress{
		out:   p.out,
		ctx:   p.ctx,
		title: title,
		bar:   bar.New(bar.WithWidth(barWidth), bar.WithoutPercentage(), bar.WithSolidFill(string(CurrentTheme.Info))),
		last:  -1,
	}
}

// SetValue redraws the bar in place
func (p *progress) SetValue(percent int) {
	percent = max(0, min(100, percent))
	if percent == p.last {
		return
	}
	p.last = percent
	fmt.Fprintf(p.out, "\r%s %s %3d%%", p.title, p.bar.ViewAs(float64(percent)/100), percent)
}

func (p *progress) Cancelled() bool {
	return p.ctx.Err() != nil
}

func (p *progress) Done() {
	fmt.Fprintln(p.out)
}

func (p *Prompter) Properties(f *game.File) {
	fmt.Fprintln(p.out, DrawBoxWithTheme(styled(CurrentTheme.Header).Bold(true).Render(f.Title())+"\n\n"+tui.Properties(f)))
}
