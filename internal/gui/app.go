package gui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/selection"
)

// Application is a window for choosing one candidate image per element
type Application struct {
	app    fyne.App
	window fyne.Window

	positionLabel *widget.Label
	statusLabel   *widget.Label
	imageDisplay  *ImageDisplay
	candidateGrid *fyne.Container

	prevBtn *ttwidget.Button
	nextBtn *ttwidget.Button
	saveBtn *ttwidget.Button

	state  *pickState
	config *Config
	saved  bool
}

// Config holds what the picker window works on
type Config struct {
	Manifest      *image.Manifest
	Selection     *selection.Selection
	PhotosDir     string
	SelectionPath string
}

// New creates the picker window
func New(config *Config) *Application {
	a := &Application{
		app:    app.NewWithID("org.codeberg.snonux.themegrid"),
		config: config,
		state:  newPickState(config.Manifest, config.Selection),
	}
	a.app.SetIcon(theme.FileImageIcon())

	title := "themegrid"
	if config.Selection.Title != "" {
		title = fmt.Sprintf("themegrid - %s", config.Selection.Title)
	}
	a.window = a.app.NewWindow(title)
	a.window.Resize(fyne.NewSize(1100, 760))

	a.setupUI()
	a.setupShortcuts()
	a.window.SetCloseIntercept(a.onClose)
	a.showCurrent()

	return a
}

// Run shows the window and blocks until it is closed. It reports whether
// the selection was saved at least once.
func (a *Application) Run() bool {
	a.window.ShowAndRun()
	return a.saved
}

func (a *Application) setupUI() {
	a.positionLabel = widget.NewLabel("")
	a.positionLabel.TextStyle = fyne.TextStyle{Bold: true}
	a.statusLabel = widget.NewLabel("Left/Right navigate, 1-9 choose, S saves, Q quits")

	a.prevBtn = ttwidget.NewButtonWithIcon("", theme.NavigateBackIcon(), a.onPrev)
	a.prevBtn.SetToolTip("Previous element (Left)")
	a.nextBtn = ttwidget.NewButtonWithIcon("", theme.NavigateNextIcon(), a.onNext)
	a.nextBtn.SetToolTip("Next element (Right)")
	a.saveBtn = ttwidget.NewButtonWithIcon("", theme.DocumentSaveIcon(), a.onSave)
	a.saveBtn.SetToolTip("Save selection (S)")

	toolbar := container.NewHBox(a.prevBtn, a.nextBtn, a.saveBtn, a.positionLabel)

	a.imageDisplay = NewImageDisplay()
	a.candidateGrid = container.NewGridWrap(fyne.NewSize(170, 160))

	split := container.NewHSplit(a.imageDisplay, container.NewVScroll(a.candidateGrid))
	split.Offset = 0.4

	content := container.NewBorder(toolbar, a.statusLabel, nil, nil, split)
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
}

func (a *Application) setupShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyLeft:
			a.onPrev()
		case fyne.KeyRight:
			a.onNext()
		case fyne.KeyS:
			a.onSave()
		case fyne.KeyQ, fyne.KeyEscape:
			a.onClose()
		default:
			if n := digitKey(ev.Name); n > 0 {
				a.onPick(n)
			}
		}
	})
}

func digitKey(name fyne.KeyName) int {
	keys := []fyne.KeyName{fyne.Key1, fyne.Key2, fyne.Key3, fyne.Key4, fyne.Key5,
		fyne.Key6, fyne.Key7, fyne.Key8, fyne.Key9}
	for i, k := range keys {
		if k == name {
			return i + 1
		}
	}
	return 0
}

// showCurrent refreshes preview and candidate grid for the shown element
func (a *Application) showCurrent() {
	entry, ranked := a.state.current()
	a.positionLabel.SetText(a.state.position())
	a.updateNavigation()

	a.candidateGrid.RemoveAll()
	if entry == nil {
		a.imageDisplay.Clear()
		return
	}
	a.imageDisplay.SetImage(filepath.Join(a.config.PhotosDir, entry.Image))

	for i, c := range ranked {
		a.candidateGrid.Add(newCandidateCard(a.config.PhotosDir, i+1, c, c.Path == entry.Image, a.onPick))
	}
	a.candidateGrid.Refresh()
}

func (a *Application) onPick(n int) {
	if err := a.state.choose(n); err != nil {
		a.statusLabel.SetText(err.Error())
		return
	}
	a.statusLabel.SetText(fmt.Sprintf("Chose candidate %d", n))
	a.showCurrent()
}

func (a *Application) onSave() {
	if err := a.state.save(a.config.SelectionPath, a.config.PhotosDir); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save selection: %w", err), a.window)
		return
	}
	a.saved = true
	a.statusLabel.SetText(fmt.Sprintf("Saved %s", a.config.SelectionPath))
}

func (a *Application) onClose() {
	if !a.state.dirty {
		a.window.Close()
		return
	}
	dialog.ShowConfirm("Unsaved changes", "Save the selection before closing?", func(save bool) {
		if save {
			a.onSave()
			if a.state.dirty {
				return
			}
		}
		a.window.Close()
	}, a.window)
}
