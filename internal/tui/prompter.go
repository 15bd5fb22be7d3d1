package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"gamelist/internal/game"
	"gamelist/internal/gamelist"
	"gamelist/internal/tui/messages"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Prompter turns the dispatcher's dialogs into messages for the model and
// waits for the model's answer. It must not be called from Update.
type Prompter struct {
	program Sender
}

var _ gamelist.Prompter = (*Prompter)(nil)

// NewPrompter creates a prompter talking to program
func NewPrompter(program Sender) *Prompter {
	return &Prompter{program: program}
}

func (p *Prompter) ask(msg messages.PromptMsg) messages.Answer {
	reply := make(chan messages.Answer, 1)
	msg.Reply = reply
	p.program.Send(msg)
	return <-reply
}

func (p *Prompter) question(pr gamelist.Prompt) bool {
	return p.ask(messages.PromptMsg{
		Kind:    messages.PromptConfirm,
		Title:   pr.Title,
		Message: pr.Message,
		Warning: pr.Warning,
		Confirm: pr.Confirm,
		Dismiss: pr.Dismiss,
	}).OK
}

func (p *Prompter) Confirm(pr gamelist.Prompt) bool {
	return p.question(pr)
}

func (p *Prompter) RetryAbort(pr gamelist.Prompt) bool {
	return p.question(pr)
}

func (p *Prompter) Info(title, message string) {
	p.ask(messages.PromptMsg{Kind: messages.PromptInfo, Title: title, Message: message})
}

func (p *Prompter) Error(title, message string) {
	p.ask(messages.PromptMsg{Kind: messages.PromptError, Title: title, Message: message, Warning: true})
}

// SaveFile asks for a destination path, pre-filled from req
func (p *Prompter) SaveFile(req gamelist.SaveRequest) (string, bool) {
	a := p.ask(messages.PromptMsg{
		Kind:    messages.PromptSave,
		Title:   req.Title,
		Default: filepath.Join(req.Directory, req.FileName),
	})
	path := strings.TrimSpace(a.Text)
	if !a.OK || path == "" {
		return "", false
	}
	if req.Extension != "" && filepath.Ext(path) == "" {
		path += req.Extension
	}
	return path, true
}

type termProgress struct {
	program   Sender
	cancelled *atomic.Bool
}

func (p *Prompter) Progress(title, message string) gamelist.Progress {
	pr := &termProgress{program: p.program, cancelled: &atomic.Bool{}}
	p.program.Send(messages.ProgressStartMsg{Title: title, Message: message, Cancelled: pr.cancelled})
	return pr
}

func (p *termProgress) SetValue(percent int) {
	p.program.Send(messages.ProgressMsg{Percent: percent})
}

func (p *termProgress) Cancelled() bool {
	return p.cancelled.Load()
}

func (p *termProgress) Done() {
	p.program.Send(messages.ProgressDoneMsg{})
}

func (p *Prompter) Properties(f *game.File) {
	p.ask(messages.PromptMsg{Kind: messages.PromptProperties, Title: f.Title(), Message: Properties(f)})
}

// Properties formats the metadata of f, one field per line
func Properties(f *game.File) string {
	var s strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&s, "%-10s %s\n", label+":", value)
	}
	field("File", f.FileName())
	field("Location", f.Path)
	field("Platform", f.Platform.String())
	field("Format", f.Blob.String())
	field("Size", f.HumanSize())
	if f.GameID != "" {
		field("Game ID", f.GameID)
		field("Maker", f.MakerID)
		field("Country", f.Country())
	}
	if f.Platform.IsDisc() {
		field("Disc", fmt.Sprint(f.DiscNumber+1))
		field("Revision", fmt.Sprint(f.Revision))
	}
	if f.Platform.HasWiiSave() {
		field("Title ID", fmt.Sprintf("%016x", f.TitleID))
	}
	return strings.TrimSuffix(s.String(), "\n")
}
