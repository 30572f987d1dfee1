package services

import (
	"context"
	"fmt"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/ports"
	"guide-tracking-service/internal/render"
	"strings"

	"go.uber.org/zap"
)

// Outcome reports what a dispatched action did.
type Outcome struct {
	// Mutated is true when the store changed and the screen must be redrawn.
	Mutated bool
	// History is set when a history action found its guide.
	History *render.HistoryModal
}

// ParseAction rebuilds a control payload from raw request values.
// ok is false when the values do not describe any control, as for a click
// that landed on table chrome.
func ParseAction(kind, guideID, nextStatus string) (render.Action, bool) {
	id := strings.TrimSpace(guideID)
	if id == "" {
		return render.Action{}, false
	}

	switch render.ActionKind(strings.TrimSpace(kind)) {
	case render.ActionAdvance:
		next, err := domain.ParseStatus(nextStatus)
		if err != nil {
			return render.Action{}, false
		}
		return render.Action{Kind: render.ActionAdvance, GuideID: id, NextStatus: next}, true
	case render.ActionHistory:
		return render.Action{Kind: render.ActionHistory, GuideID: id}, true
	}

	return render.Action{}, false
}

// Dispatch routes a control payload to the store or to the history modal.
//
// Advance payloads are checked against domain.NextTransition for the guide's
// current status, so a stale or forged payload cannot skip or repeat a stage.
// Unknown guides are ignored in both cases.
func Dispatch(
	ctx context.Context,
	store ports.GuideStore,
	f render.Formatter,
	log *zap.Logger,
	a render.Action,
) (Outcome, error) {
	if log == nil {
		log = zap.NewNop()
	}

	switch a.Kind {
	case render.ActionAdvance:
		g, found, err := store.FindByID(ctx, a.GuideID)
		if err != nil {
			return Outcome{}, fmt.Errorf("dispatch advance: find %q: %w", a.GuideID, err)
		}
		if !found {
			log.Debug("advance ignored: unknown guide", zap.String("guide_id", a.GuideID))
			return Outcome{}, nil
		}

		t, ok := domain.NextTransition(g.Status)
		if !ok || t.Next != a.NextStatus {
			log.Debug("advance ignored: transition not allowed",
				zap.String("guide_id", a.GuideID),
				zap.Stringer("current", g.Status),
				zap.Stringer("requested", a.NextStatus),
			)
			return Outcome{}, nil
		}

		if err := store.AdvanceStatus(ctx, a.GuideID, a.NextStatus); err != nil {
			return Outcome{}, fmt.Errorf("dispatch advance: %q to %s: %w", a.GuideID, a.NextStatus, err)
		}
		return Outcome{Mutated: true}, nil

	case render.ActionHistory:
		g, found, err := store.FindByID(ctx, a.GuideID)
		if err != nil {
			return Outcome{}, fmt.Errorf("dispatch history: find %q: %w", a.GuideID, err)
		}
		if !found {
			log.Debug("history ignored: unknown guide", zap.String("guide_id", a.GuideID))
			return Outcome{}, nil
		}

		var m render.HistoryModal
		m.Show(g, f)
		return Outcome{History: &m}, nil
	}

	return Outcome{}, nil
}
