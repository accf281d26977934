package command

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/bethropolis/vedit/internal/ai"
	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/core"
	"github.com/bethropolis/vedit/internal/core/edit"
	"github.com/bethropolis/vedit/internal/core/find"
	"github.com/bethropolis/vedit/internal/core/history"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/storage"
	"github.com/bethropolis/vedit/internal/types"
)

//go:embed help.txt
var helpText string

// Display is view state toggled by commands and read by the renderer.
type Display struct {
	LineNumbers    bool
	LineNumberSide string
}

// Themes switches color themes.
type Themes interface {
	SetTheme(name string) error
	ThemeNames() []string
	CurrentName() string
}

// Clipboard receives yanked text.
type Clipboard interface {
	Copy(text string) error
}

// Deps are the collaborators a Dispatcher works with. Themes and
// Clipboard may be nil.
type Deps struct {
	Config    config.Config
	Editor    *core.Editor
	AI        *ai.Coordinator
	Store     *storage.FileStore
	Clipboard Clipboard
	Themes    Themes
}

// Dispatcher runs commands. It must only be used from the goroutine that
// owns the document.
type Dispatcher struct {
	cfg    config.Config
	doc    *core.Editor
	view   *core.Editor // read-only help or answer view shown over doc
	ai     *ai.Coordinator
	store  *storage.FileStore
	clip   Clipboard
	themes Themes

	display Display
	recall  *History
	reviews []*Review // AI edits awaiting review, the first is shown
}

// NewDispatcher creates a dispatcher for one document.
func NewDispatcher(d Deps) *Dispatcher {
	return &Dispatcher{
		cfg:    d.Config,
		doc:    d.Editor,
		ai:     d.AI,
		store:  d.Store,
		clip:   d.Clipboard,
		themes: d.Themes,
		display: Display{
			LineNumbers:    d.Config.LineNumbers,
			LineNumberSide: d.Config.LineNumberSide,
		},
		recall: NewHistory(d.Config.CommandHistoryLimit),
	}
}

// Editor returns the editor currently shown: the hunk under review, a
// read-only view if one is open, otherwise the document.
func (d *Dispatcher) Editor() *core.Editor {
	if r := d.Review(); r != nil {
		return r.view(d.doc.GetBuffer(), d.cfg)
	}
	if d.view != nil {
		return d.view
	}
	return d.doc
}

// Document returns the document editor, even while a view is open.
func (d *Dispatcher) Document() *core.Editor { return d.doc }

// InView reports whether a read-only view is shown.
func (d *Dispatcher) InView() bool { return d.view != nil }

// Review returns the AI edit under review, or nil.
func (d *Dispatcher) Review() *Review {
	if len(d.reviews) == 0 {
		return nil
	}
	return d.reviews[0]
}

// Display returns the shared display state.
func (d *Dispatcher) Display() *Display { return &d.display }

// Recall returns the command recall list.
func (d *Dispatcher) Recall() *History { return d.recall }

// Execute records line in the recall list, parses it and dispatches it.
func (d *Dispatcher) Execute(line string) (Result, error) {
	d.recall.Add(line)
	cmd, err := Parse(line)
	if err != nil {
		logger.DebugTagf("command", "parse %q: %v", line, err)
		return Result{}, err
	}
	return d.Dispatch(cmd)
}

// Dispatch runs cmd.
func (d *Dispatcher) Dispatch(cmd Command) (Result, error) {
	logger.DebugTagf("command", "dispatching %s", cmd.Name())
	cur := d.Editor()

	switch c := cmd.(type) {
	case Quit:
		return d.quit(c.Force)

	case Save:
		return d.save(c.Path)

	case ToggleLineNumbers:
		d.display.LineNumbers = !d.display.LineNumbers
		return Result{Message: "Line numbers toggled."}, nil

	case Goto:
		n := cur.GetBuffer().LineCount()
		if c.Line < 1 || c.Line > n {
			return Result{}, fmt.Errorf("line %d of %d: %w", c.Line, n, errs.ErrOutOfRange)
		}
		cur.GotoLine(c.Line - 1)
		return Result{Message: fmt.Sprintf("Jumped to line %d", c.Line), FocusText: true}, nil

	case Find:
		count, err := cur.Find(findQuery(c.Pattern, c.CaseInsensitive))
		if err != nil {
			return Result{}, err
		}
		mode := "case-sensitive"
		if c.CaseInsensitive {
			mode = "case-insensitive"
		}
		return Result{Message: fmt.Sprintf("Found %d matches for '%s' (%s)", count, c.Pattern, mode), FocusText: true}, nil

	case FindNext:
		if err := cur.FindNext(); err != nil {
			return Result{}, err
		}
		return Result{Message: "Moved to next match.", FocusText: true}, nil

	case Replace:
		n, err := cur.ReplaceAll(findQuery(c.Find, c.CaseInsensitive), c.With)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: fmt.Sprintf("Replaced %d occurrence(s) of '%s'", n, c.Find)}, nil

	case Prompt:
		return d.submit(ai.KindEdit, c.Source)

	case Ask:
		return d.submit(ai.KindAsk, c.Source)

	case Cancel:
		return d.cancel(c.ID)

	case Undo:
		if err := cur.Undo(); err != nil {
			return Result{}, err
		}
		return Result{Message: "Undid last change."}, nil

	case Redo:
		if err := cur.Redo(); err != nil {
			return Result{}, err
		}
		return Result{Message: "Redid last change."}, nil

	case Help:
		d.openView(d.helpText())
		return Result{Message: "Help mode - use 'q' to return to document", ShowHelp: true}, nil

	case SelectLine:
		cur.TriggerLineSelection()
		return Result{Message: selectionMessage(cur.Selection().State())}, nil

	case SelectBlock:
		cur.TriggerBlockSelection()
		return Result{Message: selectionMessage(cur.Selection().State())}, nil

	case ClearSelection:
		cur.ClearSelection()
		return Result{Message: selectionMessage(cur.Selection().State())}, nil

	case Fill:
		if err := cur.Fill(c.Char); err != nil {
			return Result{}, err
		}
		return Result{Message: fmt.Sprintf("Filled selection with '%c'", c.Char)}, nil

	case MoveBlock:
		if err := cur.MoveBlock(c.Dir); err != nil {
			return Result{}, err
		}
		return Result{}, nil

	case Yank:
		return d.yank(cur)

	case Theme:
		return d.theme(c.Theme)

	case AIResult:
		return d.deliver(c.Result)

	case ReviewHunk:
		return d.reviewHunk(c.Action)
	}
	return Result{}, errs.Invalid("unhandled command %s", cmd.Name())
}

func (d *Dispatcher) quit(force bool) (Result, error) {
	if d.view != nil {
		d.view = nil
		return Result{Message: "Returned to document.", FocusText: true}, nil
	}
	if !force && d.doc.IsModified() {
		return Result{}, errs.ErrUnsavedChanges
	}
	return Result{Quit: true}, nil
}

func (d *Dispatcher) save(path string) (Result, error) {
	if d.view != nil {
		return Result{}, errs.Invalid("view is read-only")
	}
	if path == "" {
		path = d.doc.FilePath()
	}
	if path == "" {
		return Result{}, errs.Invalid("no file name, use save <path>")
	}
	if err := d.store.Write(path, d.doc.GetBuffer().Bytes()); err != nil {
		return Result{}, fmt.Errorf("save failed: %w", err)
	}
	d.doc.SetFilePath(path)
	d.doc.MarkSaved()
	logger.Infof("Saved %s (%d lines)", path, d.doc.GetBuffer().LineCount())
	return Result{Message: fmt.Sprintf("File saved: %s", path)}, nil
}

// helpText is the help page followed by the recently run commands.
func (d *Dispatcher) helpText() string {
	recent := d.recall.Entries()
	if len(recent) == 0 {
		return helpText
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}
	return strings.TrimRight(helpText, "\n") + "\n\nRecent commands:\n  " + strings.Join(recent, "\n  ")
}

func (d *Dispatcher) openView(text string) {
	v := core.NewEditor(buffer.NewSliceBufferFromString(text), core.OptionsFrom(d.cfg))
	v.SetReadOnly(true)
	d.view = v
}

func (d *Dispatcher) submit(kind ai.Kind, src ai.Prompt) (Result, error) {
	cur := d.Editor()
	if kind == ai.KindEdit && cur.IsReadOnly() {
		return Result{}, errs.Invalid("view is read-only")
	}
	first, last := cur.TargetRows()
	req, err := d.ai.Submit(ai.Spec{
		Kind:   kind,
		Prompt: src,
		Target: ai.NewTarget(cur.GetBuffer(), first, last),
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("AI request %s sent to %s (lines %d-%d)",
		shortID(req.ID), req.Model.Name(), first+1, last+1)}, nil
}

func (d *Dispatcher) cancel(id string) (Result, error) {
	if id == "" {
		n := d.ai.CancelAll()
		if n == 0 {
			return Result{Message: "No AI request in progress"}, nil
		}
		return Result{Message: fmt.Sprintf("Cancelled %d AI request(s)", n)}, nil
	}
	if req, ok := d.ai.Get(id); ok {
		if err := d.ai.Cancel(req.ID); err != nil {
			return Result{}, err
		}
		return Result{Message: fmt.Sprintf("Cancelled AI request %s", shortID(req.ID))}, nil
	}
	for _, req := range d.ai.Active() {
		if strings.HasPrefix(req.ID, id) {
			if err := d.ai.Cancel(req.ID); err != nil {
				return Result{}, err
			}
			return Result{Message: fmt.Sprintf("Cancelled AI request %s", shortID(req.ID))}, nil
		}
	}
	return Result{}, fmt.Errorf("AI request %s: %w", id, errs.ErrNotFound)
}

// deliver settles an AI result. Edit responses are applied to the document
// as one change, or queued for review, unless the target rows changed since
// the request was made.
func (d *Dispatcher) deliver(res ai.Result) (Result, error) {
	req, ok := d.ai.Deliver(res)
	if !ok {
		return Result{}, nil
	}
	if res.Err != nil {
		return Result{}, res.Err
	}
	if req.Kind == ai.KindAsk {
		answer := ai.StripFences(res.Response)
		if strings.Contains(answer, "\n") {
			d.openView(answer)
			return Result{Message: "AI answer - use 'q' to return to document", ShowHelp: true}, nil
		}
		return Result{Message: "AI: " + answer}, nil
	}

	buf := d.doc.GetBuffer()
	if !res.Target.Matches(buf) {
		logger.InfoTagf("ai", "request %s is stale, lines %d-%d changed", req.ID, res.Target.FirstLine+1, res.Target.LastLine+1)
		return Result{}, fmt.Errorf("request %s: %w", shortID(req.ID), errs.ErrAIStaleResponse)
	}
	hunks := ai.ReplyHunks(res.Target, res.Response)
	if len(hunks) == 0 {
		return Result{Message: "AI suggested no changes"}, nil
	}
	elapsed := res.Elapsed.Round(100 * time.Millisecond)
	if d.cfg.AI.ReviewEdits {
		d.reviews = append(d.reviews, newReview(req.ID, res.Target, hunks, elapsed))
		if len(d.reviews) > 1 {
			return Result{Message: fmt.Sprintf("AI request %s queued for review", shortID(req.ID))}, nil
		}
		return Result{Message: fmt.Sprintf("AI suggested %d change(s) in %s", len(hunks), elapsed)}, nil
	}
	if err := d.applyHunks(res.Target, hunks); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("AI applied %d change(s) in %s", len(hunks), elapsed)}, nil
}

// applyHunks rewrites the target rows with hunks as one change.
func (d *Dispatcher) applyHunks(target ai.Target, hunks []ai.Hunk) error {
	return d.doc.ApplyEdit(edit.Edit{
		Label:       "ai",
		Ops:         ai.HunkOps(d.doc.GetBuffer(), target, hunks),
		Effect:      history.ClearSelection,
		CursorAfter: types.Position{Line: target.FirstLine + hunks[0].OldStart},
	})
}

func (d *Dispatcher) reviewHunk(action ReviewAction) (Result, error) {
	r := d.Review()
	if r == nil {
		return Result{}, errs.Invalid("no AI edit to review")
	}
	switch action {
	case ReviewAccept, ReviewReject:
		r.Mark(action == ReviewAccept)
		r.Next()
	case ReviewAcceptAll, ReviewRejectAll:
		r.MarkAll(action == ReviewAcceptAll)
	case ReviewNext:
		if !r.Next() {
			return Result{Message: "No more hunks. Press 'q' to apply or Esc to discard."}, nil
		}
	case ReviewPrev:
		if !r.Prev() {
			return Result{Message: "Already at the first hunk."}, nil
		}
	case ReviewApply:
		return d.finishReview(true)
	case ReviewDiscard:
		return d.finishReview(false)
	default:
		return Result{}, errs.Invalid("unknown review action %s", action)
	}
	return Result{}, nil
}

// finishReview closes the current review, applying its accepted hunks
// when apply is set.
func (d *Dispatcher) finishReview(apply bool) (Result, error) {
	r := d.reviews[0]
	d.reviews = d.reviews[1:]
	next := ""
	if n := len(d.reviews); n > 0 {
		next = fmt.Sprintf(" (%d more to review)", n)
	}
	if !apply {
		return Result{Message: "AI changes discarded." + next, FocusText: true}, nil
	}
	hunks := r.AcceptedHunks()
	if len(hunks) == 0 {
		return Result{Message: "No changes accepted." + next, FocusText: true}, nil
	}
	if !r.Target.Matches(d.doc.GetBuffer()) {
		logger.InfoTagf("ai", "review of %s is stale, lines %d-%d changed", r.RequestID, r.Target.FirstLine+1, r.Target.LastLine+1)
		return Result{}, fmt.Errorf("request %s: %w", shortID(r.RequestID), errs.ErrAIStaleResponse)
	}
	if err := d.applyHunks(r.Target, hunks); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("AI applied %d of %d change(s)%s", len(hunks), len(r.Hunks), next), FocusText: true}, nil
}

func (d *Dispatcher) yank(cur *core.Editor) (Result, error) {
	text, err := cur.SelectedText()
	if err != nil {
		return Result{}, err
	}
	if d.clip == nil {
		return Result{}, errs.Invalid("no clipboard available")
	}
	if err := d.clip.Copy(string(text)); err != nil {
		return Result{}, err
	}
	r, _ := cur.Selection().Region()
	cur.ClearSelection()
	return Result{Message: fmt.Sprintf("Yanked %d line(s)", r.Rows())}, nil
}

func (d *Dispatcher) theme(name string) (Result, error) {
	if d.themes == nil {
		return Result{}, errs.Invalid("themes are not available")
	}
	names := strings.Join(d.themes.ThemeNames(), ", ")
	if name == "" {
		return Result{Message: fmt.Sprintf("Current theme: %s. Available: %s", d.themes.CurrentName(), names)}, nil
	}
	if err := d.themes.SetTheme(name); err != nil {
		return Result{}, errs.Invalid("theme '%s' not found. Available: %s", name, names)
	}
	return Result{Message: fmt.Sprintf("Theme set to: %s", name)}, nil
}

func selectionMessage(s selection.State) string {
	r, ok := s.Region()
	switch {
	case !ok:
		return "Selection cleared"
	case r.Mode == selection.Line:
		return fmt.Sprintf("Lines %d-%d selected", r.StartLine+1, r.EndLine+1)
	case r.Mode == selection.BlockPending:
		return "Block corner set, move and press select block again"
	}
	return fmt.Sprintf("Block %dx%d selected", r.Rows(), r.Cols())
}

func findQuery(pattern string, ci bool) find.Query {
	return find.Query{Pattern: pattern, CaseInsensitive: ci}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
