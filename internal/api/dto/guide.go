package dto

import (
	"guide-tracking-service/internal/domain"
	"time"
)

type HistoryEntryResponse struct {
	Status domain.Status `json:"status"`
	At     time.Time     `json:"at"`
}

type GuideResponse struct {
	ID           string                 `json:"id"`
	Origin       string                 `json:"origin"`
	Destination  string                 `json:"destination"`
	Recipient    string                 `json:"recipient"`
	CreationDate time.Time              `json:"creation_date"`
	Status       domain.Status          `json:"status"`
	History      []HistoryEntryResponse `json:"history"`
}

type OverviewResponse struct {
	Total     int `json:"total"`
	InTransit int `json:"in_transit"`
	Delivered int `json:"delivered"`
}

type ListGuidesResponse struct {
	Guides   []GuideResponse  `json:"guides"`
	Overview OverviewResponse `json:"overview"`
}

func NewGuideResponse(g domain.Guide) GuideResponse {
	history := make([]HistoryEntryResponse, 0, len(g.History))
	for _, h := range g.History {
		history = append(history, HistoryEntryResponse{Status: h.Status, At: h.At})
	}

	return GuideResponse{
		ID:           g.ID,
		Origin:       g.Origin,
		Destination:  g.Destination,
		Recipient:    g.Recipient,
		CreationDate: g.CreationDate,
		Status:       g.Status,
		History:      history,
	}
}
