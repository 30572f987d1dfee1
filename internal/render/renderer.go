package render

import (
	"context"
	"fmt"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/ports"
)

// Placeholder shown in the table body when there are no guides.
const EmptyMessage = "No hay guías registradas."

type ActionKind string

const (
	ActionAdvance ActionKind = "advance"
	ActionHistory ActionKind = "history"
)

// Action is the payload a rendered control carries back to the dispatcher.
// NextStatus is only meaningful for ActionAdvance.
type Action struct {
	Kind       ActionKind
	GuideID    string
	NextStatus domain.Status
}

// Control is one action button in a row. A disabled control has no Action.
type Control struct {
	Label    string
	Disabled bool
	Action   *Action
}

type Row struct {
	ID          string
	Badge       domain.Badge
	Origin      string
	Destination string
	LastUpdated string
	Advance     Control
	History     Control
}

type Overview struct {
	Total     int
	InTransit int
	Delivered int
}

// Screen is the last rendered state of the table and the overview panel.
type Screen struct {
	Rows       []Row
	Empty      bool
	Overview   Overview
	Generation uint64
}

// Renderer derives the Screen from the store. It never mutates the store.
type Renderer struct {
	f      Formatter
	screen Screen
}

func NewRenderer(f Formatter) *Renderer {
	return &Renderer{f: f, screen: Screen{Empty: true}}
}

func (r *Renderer) Formatter() Formatter { return r.f }

// Screen returns the current frame. Rows are never modified after a render,
// so the slice can be shared.
func (r *Renderer) Screen() Screen { return r.screen }

// RenderAll rebuilds every row and the overview from a store snapshot.
// The new rows are built completely before the screen is replaced; on error
// the previous screen stays in place.
func (r *Renderer) RenderAll(ctx context.Context, store ports.GuideStore) error {
	guides, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("render all: list guides: %w", err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("render all: count guides: %w", err)
	}
	counts, err := store.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("render all: count by status: %w", err)
	}

	rows := make([]Row, 0, len(guides))
	for _, g := range guides {
		rows = append(rows, r.row(g))
	}

	r.screen = Screen{
		Rows:  rows,
		Empty: len(rows) == 0,
		Overview: Overview{
			Total:     total,
			InTransit: counts[domain.StatusInTransit],
			Delivered: counts[domain.StatusDelivered],
		},
		Generation: r.screen.Generation + 1,
	}

	return nil
}

func (r *Renderer) row(g domain.Guide) Row {
	var updated string
	if last, ok := g.LastEntry(); ok {
		updated = r.f.Timestamp(last.At)
	}

	return Row{
		ID:          g.ID,
		Badge:       domain.Describe(g.Status),
		Origin:      g.Origin,
		Destination: g.Destination,
		LastUpdated: updated,
		Advance:     advanceControl(g),
		History: Control{
			Label:  "Historial",
			Action: &Action{Kind: ActionHistory, GuideID: g.ID},
		},
	}
}

func advanceControl(g domain.Guide) Control {
	t, ok := domain.NextTransition(g.Status)
	if !ok {
		return Control{Label: domain.DisabledActionLabel, Disabled: true}
	}
	return Control{
		Label:  t.ActionLabel,
		Action: &Action{Kind: ActionAdvance, GuideID: g.ID, NextStatus: t.Next},
	}
}
