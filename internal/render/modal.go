package render

import "guide-tracking-service/internal/domain"

// Where a pointer activation landed relative to the modal.
type ClickTarget int

const (
	TargetContent ClickTarget = iota
	TargetScrim
	TargetClose
)

type HistoryItem struct {
	Label     string
	Timestamp string
}

// HistoryModal is the chronological status list for one guide.
type HistoryModal struct {
	Visible bool
	GuideID string
	Title   string
	Items   []HistoryItem
}

func (m *HistoryModal) Show(g domain.Guide, f Formatter) {
	items := make([]HistoryItem, 0, len(g.History))
	for _, h := range g.History {
		items = append(items, HistoryItem{
			Label:     f.Capitalize(h.Status.String()),
			Timestamp: f.Timestamp(h.At),
		})
	}

	m.GuideID = g.ID
	m.Title = "Historial de la Guía: " + g.ID
	m.Items = items
	m.Visible = true
}

func (m *HistoryModal) Hide() {
	m.Visible = false
}

// Click dismisses the modal for the scrim and the close control only.
// Activations inside the content box keep it open.
func (m *HistoryModal) Click(target ClickTarget) {
	switch target {
	case TargetScrim, TargetClose:
		m.Hide()
	case TargetContent:
	}
}
