package handlers

import (
	"guide-tracking-service/internal/api/dto"
	"guide-tracking-service/internal/services"
	"net/http"

	"go.uber.org/zap"
)

// GuideHandler exposes a read-only JSON snapshot of the tracker.
type GuideHandler struct {
	Tracker *services.Tracker
	Log     *zap.Logger
}

func (h *GuideHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.Log, http.MethodGet)
		return
	}

	snap, err := h.Tracker.Snapshot(r.Context())
	if err != nil {
		h.Log.Error("list guides failed", zap.Error(err))
		writeError(w, r, h.Log, http.StatusInternalServerError, "internal server error")
		return
	}
	ov := snap.Screen.Overview

	res := dto.ListGuidesResponse{
		Guides: make([]dto.GuideResponse, 0, len(snap.Guides)),
		Overview: dto.OverviewResponse{
			Total:     ov.Total,
			InTransit: ov.InTransit,
			Delivered: ov.Delivered,
		},
	}
	for _, g := range snap.Guides {
		res.Guides = append(res.Guides, dto.NewGuideResponse(g))
	}

	writeJSON(w, r, h.Log, http.StatusOK, res)
}
