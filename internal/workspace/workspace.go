// Package workspace runs one reader session: it owns the session value, the
// live render surface of the active document, the current selection and the
// action menu, and carries out the commands session transitions emit.
//
// Every operation holds the workspace lock for its whole duration, so events
// are handled one at a time in arrival order. Ingestion reads finish on their
// own goroutines and enter through the same lock.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgallion1/docreader/internal/export"
	"github.com/dgallion1/docreader/internal/highlight"
	"github.com/dgallion1/docreader/internal/ingest"
	"github.com/dgallion1/docreader/internal/render"
	"github.com/dgallion1/docreader/internal/selection"
	"github.com/dgallion1/docreader/internal/session"
)

// Publisher receives the commands a workspace carries out.
type Publisher interface {
	Publish(cmd session.Command)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(cmd session.Command)

func (f PublisherFunc) Publish(cmd session.Command) { f(cmd) }

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(w *Workspace) { w.log = log }
}

// WithTracker sets the menu placement parameters.
func WithTracker(t selection.Tracker) Option {
	return func(w *Workspace) { w.tracker = t }
}

// WithPublisher sets where executed commands are reported.
func WithPublisher(p Publisher) Option {
	return func(w *Workspace) { w.pub = p }
}

// WithSession starts the workspace from s instead of the seed session.
func WithSession(s session.Session) Option {
	return func(w *Workspace) { w.sess = s }
}

// Workspace is one reader session.
type Workspace struct {
	mu sync.Mutex

	sess    session.Session
	surface *render.Surface
	sel     selection.Selection
	menu    selection.MenuState

	tracker selection.Tracker
	pub     Publisher
	log     *slog.Logger
}

// View is a read-only copy of the workspace state.
type View struct {
	Tabs    []session.TabDescriptor `json:"tabs"`
	Active  int                     `json:"active"`
	Name    string                  `json:"name"`
	Content string                  `json:"content"`
	Menu    selection.MenuState     `json:"menu"`
}

// New creates a workspace with the seed session and loads its active document.
func New(opts ...Option) (*Workspace, error) {
	w := &Workspace{
		sess: session.Seed(),
		pub:  PublisherFunc(func(session.Command) {}),
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.sess.Validate(); err != nil {
		return nil, err
	}
	if err := w.load(w.sess.Active); err != nil {
		return nil, err
	}
	return w, nil
}

// View returns the current state. The content is the live surface markup.
func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		Tabs:    w.sess.Tabs(),
		Active:  w.sess.Active,
		Name:    w.sess.ActiveDocument().Name,
		Content: w.surface.HTML(),
		Menu:    w.menu,
	}
}

// Session returns the session value after committing the live surface.
func (w *Workspace) Session() session.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.commit()
	return w.sess
}

// Tabs returns the tab descriptors.
func (w *Workspace) Tabs() []session.TabDescriptor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sess.Tabs()
}

// Select records a selection change and recomputes the action menu.
func (w *Workspace) Select(sel selection.Selection) selection.MenuState {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sel = sel
	w.setMenu(w.tracker.Observe(sel, w.surface.TextLen()))
	return w.menu
}

// ApplyHighlight colors the current selection. Without a selection inside the
// surface it does nothing.
func (w *Workspace) ApplyHighlight(c highlight.Color) (highlight.Strategy, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.sel.InSurface || w.sel.Collapsed() {
		if !c.Valid() {
			return highlight.StrategyNone, fmt.Errorf("unknown highlight color %q", c)
		}
		return highlight.StrategyNone, nil
	}

	strategy, err := highlight.Apply(w.surface, w.sel, c)
	if err != nil {
		return highlight.StrategyNone, err
	}
	w.log.Debug("highlight applied", "color", string(c), "strategy", string(strategy))
	w.afterAnnotation()
	return strategy, nil
}

// RemoveHighlight strips annotations intersecting the current selection and
// returns how many were removed.
func (w *Workspace) RemoveHighlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	removed := 0
	if w.sel.InSurface {
		removed = highlight.Remove(w.surface, w.sel)
	}
	w.afterAnnotation()
	return removed
}

// SwitchTo commits the active document, then activates index.
func (w *Workspace) SwitchTo(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.switchTo(index)
}

// Close commits the active document, then closes the one at index.
func (w *Workspace) Close(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, cmds, err := w.sess.CloseDocument(w.surface.HTML(), index)
	if errors.Is(err, session.ErrCannotCloseLastDocument) {
		w.exec(cmds)
		return err
	}
	if err != nil {
		return err
	}
	w.sess = next
	if err := w.exec(cmds); err != nil {
		return err
	}
	w.pub.Publish(session.TabsChanged{Tabs: w.sess.Tabs()})
	return nil
}

// Export commits the active document, then renders the document at index.
func (w *Workspace) Export(index int) (export.Export, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.export(index)
}

// ExportActive exports the active document.
func (w *Workspace) ExportActive() (export.Export, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.export(w.sess.Active)
}

func (w *Workspace) export(index int) (export.Export, error) {
	w.commit()
	doc, err := w.sess.Document(index)
	if err != nil {
		return export.Export{}, err
	}
	out, err := export.Snapshot(doc)
	if err != nil {
		return export.Export{}, fmt.Errorf("export %s: %w", doc.Name, err)
	}
	w.pub.Publish(session.Download{Filename: out.Filename, ContentType: out.ContentType, Size: len(out.Body)})
	return out, nil
}

// Ingest starts reading sources. Each completed read is appended as a new
// document; once every read has completed the first slot of the batch is
// activated. The returned batch's Done channel closes after that activation.
func (w *Workspace) Ingest(ctx context.Context, sources []ingest.Source) *ingest.Batch {
	batch := ingest.NewBatch(len(sources))
	if len(sources) == 0 {
		batch.Finish()
		return batch
	}
	ctx = context.WithoutCancel(ctx)
	ingest.Run(ctx, w.log, sources, func(c ingest.Completion) {
		w.mu.Lock()
		defer w.mu.Unlock()

		next, index := w.sess.AddDocument(c.Name, c.Markup)
		w.sess = next
		w.log.Info("document added", "name", c.Name, "index", index)
		w.pub.Publish(session.TabsChanged{Tabs: w.sess.Tabs()})

		if !batch.Complete() {
			return
		}
		target := ingest.ActivationIndex(w.sess.Len(), batch.Size())
		if err := w.switchTo(target); err != nil {
			w.log.Error("batch activation failed", "index", target, "error", err)
			return
		}
		batch.Finish()
	})
	return batch
}

func (w *Workspace) switchTo(index int) error {
	next, cmds, err := w.sess.SwitchTo(w.surface.HTML(), index)
	if err != nil {
		return err
	}
	w.sess = next
	if err := w.exec(cmds); err != nil {
		return err
	}
	w.pub.Publish(session.TabsChanged{Tabs: w.sess.Tabs()})
	return nil
}

// afterAnnotation clears the selection, hides the menu and commits.
func (w *Workspace) afterAnnotation() {
	w.sel = selection.Selection{}
	w.setMenu(selection.Hidden)
	w.commit()
}

func (w *Workspace) commit() {
	w.sess = w.sess.Commit(w.surface.HTML())
}

func (w *Workspace) setMenu(m selection.MenuState) {
	if m == w.menu {
		return
	}
	w.menu = m
	if m.Visible {
		w.pub.Publish(session.ShowMenu{Top: m.Top, Left: m.Left})
	} else {
		w.pub.Publish(session.HideMenu{})
	}
}

// exec carries out commands from a session transition.
func (w *Workspace) exec(cmds []session.Command) error {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case session.ReloadSurface:
			if err := w.load(c.Index); err != nil {
				return err
			}
		case session.Notice:
			w.log.Info("notice", "message", c.Message)
		}
		w.pub.Publish(cmd)
	}
	return nil
}

// load replaces the surface with the stored content of the document at index.
// The previous selection belonged to the old surface and is dropped.
func (w *Workspace) load(index int) error {
	doc, err := w.sess.Document(index)
	if err != nil {
		return err
	}
	s, err := render.Parse(doc.Content)
	if err != nil {
		return fmt.Errorf("load %s: %w", doc.Name, err)
	}
	w.surface = s
	w.sel = selection.Selection{}
	w.setMenu(selection.Hidden)
	return nil
}
