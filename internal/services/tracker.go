package services

import (
	"context"
	"fmt"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/platform/obs"
	"guide-tracking-service/internal/ports"
	"guide-tracking-service/internal/render"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tracker is the application controller. It owns the guide store and the
// renderer and runs every operation to completion under one lock, so
// concurrent requests behave like events on a single UI loop.
type Tracker struct {
	mu       sync.Mutex
	store    ports.GuideStore
	renderer *render.Renderer
	loc      *time.Location
	log      *zap.Logger
	// stale is set when a committed mutation could not be rendered.
	stale bool
}

// RenderError reports a mutation that was committed to the store but not
// drawn. The store change stands; the next read of the screen redraws.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render after commit: " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

// Snapshot is a consistent view of the store and the screen drawn from it.
type Snapshot struct {
	Guides []domain.Guide
	Screen render.Screen
}

func NewTracker(store ports.GuideStore, renderer *render.Renderer, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		store:    store,
		renderer: renderer,
		loc:      renderer.Formatter().Location(),
		log:      log,
	}
}

// Start inserts the seed guides and draws the first screen.
func (t *Tracker) Start(ctx context.Context, seeds []domain.Guide) (err error) {
	defer obs.Time(ctx, t.log, "tracker.Start")(&err)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := SeedStore(ctx, t.store, seeds); err != nil {
		return fmt.Errorf("tracker start: %w", err)
	}
	if err := t.renderer.RenderAll(ctx, t.store); err != nil {
		return fmt.Errorf("tracker start: %w", err)
	}

	t.log.Info("tracker ready", zap.Int("guides", len(seeds)))
	return nil
}

// Submit registers a guide from the form and redraws on success.
// A rejected submission leaves both the store and the screen untouched.
// If only the redraw fails, the guide is returned with a *RenderError.
func (t *Tracker) Submit(ctx context.Context, form GuideForm) (_ domain.Guide, err error) {
	defer obs.Time(ctx, t.log, "tracker.Submit")(&err)

	t.mu.Lock()
	defer t.mu.Unlock()

	g, err := RegisterGuide(ctx, t.store, t.loc, form)
	if err != nil {
		return domain.Guide{}, err
	}

	if err := t.render(ctx); err != nil {
		return g, err
	}

	t.log.Info("guide registered", zap.String("guide_id", g.ID), zap.Stringer("status", g.Status))
	return g, nil
}

// Dispatch handles an action payload; mutations trigger a redraw.
// If only the redraw fails, the outcome is returned with a *RenderError.
func (t *Tracker) Dispatch(ctx context.Context, a render.Action) (_ Outcome, err error) {
	defer obs.Time(ctx, t.log, "tracker.Dispatch")(&err)

	t.mu.Lock()
	defer t.mu.Unlock()

	out, err := Dispatch(ctx, t.store, t.renderer.Formatter(), t.log, a)
	if err != nil {
		return Outcome{}, err
	}

	if out.Mutated {
		if err := t.render(ctx); err != nil {
			return out, err
		}
		t.log.Info("guide advanced", zap.String("guide_id", a.GuideID), zap.Stringer("status", a.NextStatus))
	}

	return out, nil
}

// render redraws after a committed mutation. A failure leaves the tracker
// stale so the next Screen call retries.
func (t *Tracker) render(ctx context.Context) error {
	if err := t.renderer.RenderAll(ctx, t.store); err != nil {
		t.stale = true
		t.log.Error("redraw after commit failed", zap.Error(err))
		return &RenderError{Err: err}
	}
	t.stale = false
	return nil
}

func (t *Tracker) catchUp() {
	if !t.stale {
		return
	}
	if err := t.renderer.RenderAll(context.Background(), t.store); err != nil {
		t.log.Warn("redraw still failing", zap.Error(err))
		return
	}
	t.stale = false
}

// Screen returns the last rendered frame, redrawing first if a previous
// redraw failed.
func (t *Tracker) Screen() render.Screen {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.catchUp()
	return t.renderer.Screen()
}

// History opens the history modal for id, as the history control would.
func (t *Tracker) History(ctx context.Context, id string) (render.HistoryModal, bool, error) {
	out, err := t.Dispatch(ctx, render.Action{Kind: render.ActionHistory, GuideID: id})
	if err != nil {
		return render.HistoryModal{}, false, err
	}
	if out.History == nil {
		return render.HistoryModal{}, false, nil
	}
	return *out.History, true, nil
}

// Snapshot returns the guides and the screen under one lock, so the list
// and the overview always agree.
func (t *Tracker) Snapshot(ctx context.Context) (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.catchUp()
	guides, err := t.store.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("tracker snapshot: %w", err)
	}
	return Snapshot{Guides: guides, Screen: t.renderer.Screen()}, nil
}
