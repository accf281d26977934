// internal/app/app.go
package app

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/afero"

	"github.com/bethropolis/vedit/internal/ai"
	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/clipboard"
	"github.com/bethropolis/vedit/internal/command"
	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/core"
	"github.com/bethropolis/vedit/internal/event"
	"github.com/bethropolis/vedit/internal/highlighter"
	"github.com/bethropolis/vedit/internal/input"
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/modehandler"
	"github.com/bethropolis/vedit/internal/statusbar"
	"github.com/bethropolis/vedit/internal/storage"
	"github.com/bethropolis/vedit/internal/theme"
	"github.com/bethropolis/vedit/internal/tui"
)

// SpinnerInterval is how often the AI spinner advances.
const SpinnerInterval = 150 * time.Millisecond

// wakeRetry is the pause before re-posting a result to a full event queue.
const wakeRetry = 10 * time.Millisecond

// Options configure a new App. Fs and Screen default to the OS
// filesystem and the real terminal.
type Options struct {
	Config   config.Config
	FilePath string
	Fs       afero.Fs
	Screen   tcell.Screen
	ThemeDir string
}

// App encapsulates the core components and main loop of the editor.
type App struct {
	cfg                 config.Config
	tuiManager          *tui.TUI
	editor              *core.Editor
	dispatcher          *command.Dispatcher
	statusBar           *statusbar.StatusBar
	eventManager        *event.Manager
	modeHandler         *modehandler.ModeHandler
	coordinator         *ai.Coordinator
	prompts             *ai.FilePromptStore
	themeManager        *theme.Manager
	highlighter         *highlighter.Highlighter
	highlightingManager *highlighter.Manager
	store               *storage.FileStore

	events        chan tcell.Event
	done          chan struct{}
	redrawRequest chan struct{}
}

// NewApp creates and initializes a new application instance.
func NewApp(opts Options) (*App, error) {
	cfg := opts.Config
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	themeDir := opts.ThemeDir
	if themeDir == "" {
		themeDir = theme.DefaultDir()
	}

	// --- Create Core Components ---
	store := storage.NewFileStore(fs)
	themeManager := theme.NewManager(fs, themeDir, cfg.Theme)
	defStyle := themeManager.Current().GetStyle(theme.StyleDefault)

	var tuiManager *tui.TUI
	var err error
	if opts.Screen != nil {
		tuiManager, err = tui.NewWithScreen(opts.Screen, defStyle)
	} else {
		tuiManager, err = tui.New(defStyle)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	eventManager := event.NewManager()
	editor := core.NewEditor(buffer.NewSliceBuffer(), core.OptionsFrom(cfg))
	editor.SetEventManager(eventManager)

	prompts := ai.NewFilePromptStore(store, cfg.AI.PromptDir)
	if _, isOS := fs.(*afero.OsFs); isOS {
		if err := prompts.Watch(); err != nil {
			logger.Debugf("Prompt files will not be reloaded on change: %v", err)
		}
	}
	coordinator := ai.NewCoordinator(cfg.AI, prompts, ai.WithEventManager(eventManager))

	dispatcher := command.NewDispatcher(command.Deps{
		Config:    cfg,
		Editor:    editor,
		AI:        coordinator,
		Store:     store,
		Clipboard: clipboard.New(cfg.SystemClipboard),
		Themes:    themeManager,
	})
	statusBar := statusbar.New(config.MessageTimeout)
	modeHandler := modehandler.New(modehandler.Config{
		Dispatcher:     dispatcher,
		InputProcessor: input.NewInputProcessor(),
		StatusBar:      statusBar,
	})

	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		editor:        editor,
		dispatcher:    dispatcher,
		statusBar:     statusBar,
		eventManager:  eventManager,
		modeHandler:   modeHandler,
		coordinator:   coordinator,
		prompts:       prompts,
		themeManager:  themeManager,
		highlighter:   highlighter.NewHighlighter(),
		store:         store,
		events:        make(chan tcell.Event, 64),
		done:          make(chan struct{}),
		redrawRequest: make(chan struct{}, 1),
	}
	a.highlightingManager = highlighter.NewManager(editor, a.highlighter, highlighter.NewDetector(cfg.SyntaxMap), a.requestRedraw)
	if m, ok := cfg.AI.FindModel(cfg.AI.DefaultModel); ok {
		statusBar.SetModel(m.Name())
	}

	a.subscribe()

	if err := a.load(opts.FilePath); err != nil {
		a.shutdown()
		return nil, err
	}
	return a, nil
}

// load reads path into the editor. A missing file starts an empty
// document that will be created on save.
func (a *App) load(path string) error {
	if path == "" {
		a.editor.LoadContent("", nil)
		return nil
	}
	data, exists, err := a.store.Read(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	a.editor.LoadContent(path, data)
	if !exists {
		a.statusBar.SetTemporaryMessage("New file: %s", path)
	} else {
		logger.Infof("Loaded %s (%d lines)", path, a.editor.GetBuffer().LineCount())
	}
	return nil
}

// Run starts the application's main loop and returns when the user quits.
// It is the only goroutine that touches the document.
func (a *App) Run() error {
	defer a.shutdown()

	go a.pollEvents()
	go a.forwardResults()
	ticker := time.NewTicker(SpinnerInterval)
	defer ticker.Stop()

	a.eventManager.Dispatch(event.TypeAppReady, nil)
	if _, _, ok := a.statusBar.Message(); !ok {
		a.statusBar.SetTemporaryMessage("%s - Esc: command line | Ctrl+S: save | Ctrl+Q: quit | help", config.AppName)
	}
	a.drawEditor()

	for {
		select {
		case ev, ok := <-a.events:
			if !ok {
				return nil
			}
			a.handleEvent(ev)

		case <-ticker.C:
			a.statusBar.Tick()

		case <-a.redrawRequest:
		}

		if a.modeHandler.QuitRequested() {
			a.eventManager.Dispatch(event.TypeAppQuit, nil)
			if a.editor.IsModified() {
				logger.Warnf("Exited with unsaved changes.")
			}
			logger.Infof("Exiting application.")
			return nil
		}
		a.drawEditor()
	}
}

// pollEvents forwards terminal events to the owner loop until the screen
// is finalized.
func (a *App) pollEvents() {
	defer close(a.events)
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.events <- ev:
		case <-a.done:
			return
		}
	}
}

// forwardResults posts finished AI requests into the terminal event queue,
// so each one is handled after the input that arrived before it.
func (a *App) forwardResults() {
	for {
		select {
		case res := <-a.coordinator.Results():
			for a.tuiManager.Wake(res) != nil {
				select {
				case <-time.After(wakeRetry):
				case <-a.done:
					return
				}
			}
		case <-a.done:
			return
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
	case *tcell.EventKey:
		a.modeHandler.HandleKeyEvent(e)
	case *tcell.EventInterrupt:
		if res, ok := e.Data().(ai.Result); ok {
			a.modeHandler.Report(a.dispatcher.Dispatch(command.AIResult{Result: res}))
		}
	}
}

// requestRedraw sends a redraw signal non-blockingly. Safe from any goroutine.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}

func (a *App) shutdown() {
	close(a.done)
	a.highlightingManager.Shutdown()
	a.coordinator.Close()
	if err := a.prompts.Close(); err != nil {
		logger.Warnf("Closing prompt watcher: %v", err)
	}
	a.highlighter.Close()
	a.tuiManager.Close()
}
