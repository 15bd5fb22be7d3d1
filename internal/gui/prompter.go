//go:build !nogui

package gui

import (
	"fmt"
	"sync"
	"sync/atomic"

	"gamelist/internal/game"
	"gamelist/internal/gamelist"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Prompter shows the dispatcher's dialogs on a window. Its methods block
// until the user answers and must not be called on the UI goroutine.
type Prompter struct {
	window fyne.Window
}

var _ gamelist.Prompter = (*Prompter)(nil)

// NewPrompter creates a prompter whose dialogs are children of w
func NewPrompter(w fyne.Window) *Prompter {
	return &Prompter{window: w}
}

// wait runs show on the UI goroutine and blocks until the dialog it opens
// calls closed.
func wait(show func(closed func())) {
	done := make(chan struct{})
	var once sync.Once
	fyne.Do(func() {
		show(func() { once.Do(func() { close(done) }) })
	})
	<-done
}

func (p *Prompter) ask(pr gamelist.Prompt) bool {
	var answer bool
	wait(func(closed func()) {
		d := dialog.NewConfirm(pr.Title, pr.Message, func(ok bool) {
			answer = ok
			closed()
		}, p.window)
		if pr.Confirm != "" {
			d.SetConfirmText(pr.Confirm)
		}
		if pr.Dismiss != "" {
			d.SetDismissText(pr.Dismiss)
		}
		if pr.Warning {
			d.SetConfirmImportance(widget.DangerImportance)
		}
		d.Show()
	})
	return answer
}

// Confirm asks a yes/no question
func (p *Prompter) Confirm(pr gamelist.Prompt) bool {
	return p.ask(pr)
}

// RetryAbort asks whether to retry a failed operation
func (p *Prompter) RetryAbort(pr gamelist.Prompt) bool {
	return p.ask(pr)
}

// Info shows a message
func (p *Prompter) Info(title, message string) {
	wait(func(closed func()) {
		d := dialog.NewInformation(title, message, p.window)
		d.SetOnClosed(closed)
		d.Show()
	})
}

// Error shows a failure
func (p *Prompter) Error(title, message string) {
	wait(func(closed func()) {
		label := widget.NewLabel(message)
		label.Wrapping = fyne.TextWrapWord
		content := container.NewBorder(nil, nil, widget.NewIcon(theme.ErrorIcon()), nil, label)
		d := dialog.NewCustom(title, "OK", content, p.window)
		d.SetOnClosed(closed)
		d.Show()
	})
}

// SaveFile asks for a destination file
func (p *Prompter) SaveFile(req gamelist.SaveRequest) (string, bool) {
	var path string
	wait(func(closed func()) {
		d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			if err == nil && w != nil {
				path = w.URI().Path()
				_ = w.Close()
			}
			closed()
		}, p.window)
		d.SetFileName(req.FileName)
		if req.Extension != "" {
			d.SetFilter(storage.NewExtensionFileFilter([]string{req.Extension}))
		}
		if req.Directory != "" {
			if dir, err := storage.ListerForURI(storage.NewFileURI(req.Directory)); err == nil {
				d.SetLocation(dir)
			}
		}
		d.Show()
	})
	return path, path != ""
}

// progressDialog is a modal progress bar with an Abort button
type progressDialog struct {
	dialog    *dialog.CustomDialog
	bar       *widget.ProgressBar
	cancelled atomic.Bool
}

// Progress opens a progress dialog and returns once it is shown
func (p *Prompter) Progress(title, message string) gamelist.Progress {
	pd := &progressDialog{}
	wait(func(shown func()) {
		pd.bar = widget.NewProgressBar()
		abort := widget.NewButton("Abort", nil)
		abort.OnTapped = func() {
			pd.cancelled.Store(true)
			abort.Disable()
		}
		pd.dialog = dialog.NewCustomWithoutButtons(title,
			container.NewVBox(widget.NewLabel(message), pd.bar), p.window)
		pd.dialog.SetButtons([]fyne.CanvasObject{abort})
		pd.dialog.Show()
		shown()
	})
	return pd
}

func (pd *progressDialog) SetValue(percent int) {
	fyne.Do(func() { pd.bar.SetValue(float64(percent) / 100) })
}

func (pd *progressDialog) Cancelled() bool {
	return pd.cancelled.Load()
}

func (pd *progressDialog) Done() {
	fyne.Do(pd.dialog.Hide)
}

// Properties shows the metadata of f
func (p *Prompter) Properties(f *game.File) {
	wait(func(closed func()) {
		form := widget.NewForm()
		for _, row := range properties(f) {
			form.Append(row[0], widget.NewLabel(row[1]))
		}
		d := dialog.NewCustom(f.Title(), "Close", form, p.window)
		d.SetOnClosed(closed)
		d.Show()
	})
}

// properties lists the label and value of every known metadata field
func properties(f *game.File) [][2]string {
	rows := [][2]string{
		{"File", f.FileName()},
		{"Location", f.Path},
		{"Platform", f.Platform.String()},
		{"Format", f.Blob.String()},
		{"Size", f.HumanSize()},
	}
	if f.GameID != "" {
		rows = append(rows,
			[2]string{"Name", f.Title()},
			[2]string{"Game ID", f.GameID},
			[2]string{"Maker", f.MakerID},
			[2]string{"Country", f.Country()},
		)
	}
	if f.Platform.IsDisc() {
		rows = append(rows,
			[2]string{"Disc", fmt.Sprint(f.DiscNumber + 1)},
			[2]string{"Revision", fmt.Sprint(f.Revision)},
		)
	}
	if f.Platform.HasWiiSave() {
		rows = append(rows, [2]string{"Title ID", fmt.Sprintf("%016x", f.TitleID)})
	}
	return rows
}
