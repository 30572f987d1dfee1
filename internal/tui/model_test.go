package tui

import (
	"context"
	"guide-tracking-service/internal/adapters/repositories"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/render"
	"guide-tracking-service/internal/services"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var cot = time.FixedZone("COT", -5*60*60)

func newTestModel(t *testing.T) (Model, *repositories.MemoryGuideStore) {
	t.Helper()

	log := zaptest.NewLogger(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, cot)
	store := repositories.NewMemoryGuideStore(func() time.Time {
		now = now.Add(time.Minute)
		return now
	})
	tr := services.NewTracker(store, render.NewRenderer(render.NewFormatter(cot)), log)

	seeds, err := repositories.LoadSeeds("", cot)
	require.NoError(t, err)
	require.NoError(t, tr.Start(context.Background(), seeds))

	m := New(context.Background(), tr, log)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestTableShowsSeeds(t *testing.T) {
	m, _ := newTestModel(t)

	rows := m.table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "HE-987654321", rows[0][0])
	assert.Equal(t, "En Tránsito", rows[0][1])
	assert.Equal(t, "Marcar A Entregado", rows[0][5])
	assert.Equal(t, "Actualizar", rows[1][5])

	view := m.View()
	assert.Contains(t, view, "Total: 2")
	assert.Contains(t, view, "En tránsito: 1")
}

func TestAdvanceSelectedGuide(t *testing.T) {
	m, store := newTestModel(t)

	m = update(t, m, key("a"))

	g, _, err := store.FindByID(context.Background(), "HE-987654321")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, g.Status)
	assert.Len(t, g.History, 3)
	assert.Equal(t, render.Overview{Total: 2, InTransit: 0, Delivered: 2}, m.screen.Overview)
	assert.Equal(t, "Entregado", m.table.Rows()[0][1])

	// The delivered row has no payload; pressing again changes nothing.
	gen := m.screen.Generation
	m = update(t, m, key("a"))
	assert.Equal(t, gen, m.screen.Generation)
}

func TestHistoryModalDismissal(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, key("down"))
	m = update(t, m, key("h"))
	require.Equal(t, modeHistory, m.mode)
	assert.Equal(t, "HE-123456789", m.modal.GuideID)
	assert.Len(t, m.modal.Items, 3)
	assert.Contains(t, m.View(), "Historial de la Guía: HE-123456789")

	x, y, w, h := m.modalRect()
	m = update(t, m, click(x+w/2, y+h/2))
	assert.Equal(t, modeHistory, m.mode, "a click inside the box keeps the modal open")
	assert.True(t, m.modal.Visible)

	m = update(t, m, click(0, 0))
	assert.Equal(t, modeTable, m.mode, "a click on the backdrop closes the modal")
	assert.False(t, m.modal.Visible)

	m = update(t, m, key("h"))
	require.Equal(t, modeHistory, m.mode)
	cx, cy, _ := m.closeRect()
	assert.Equal(t, render.TargetClose, m.hitTest(cx, cy))
	m = update(t, m, click(cx, cy))
	assert.Equal(t, modeTable, m.mode)

	m = update(t, m, key("h"))
	m = update(t, m, key("esc"))
	assert.Equal(t, modeTable, m.mode)
}

func TestFormRegistersGuide(t *testing.T) {
	m, store := newTestModel(t)

	m = update(t, m, key("n"))
	require.Equal(t, modeForm, m.mode)

	for _, r := range "HE-111" {
		m = update(t, m, key(string(r)))
	}
	m.inputs[1].SetValue("Quito")
	m.inputs[2].SetValue("Lima")
	m.inputs[3].SetValue("J. Perez")
	m.inputs[4].SetValue("2024-01-01")

	m = update(t, m, key("enter"))
	assert.Equal(t, modeTable, m.mode)
	assert.Empty(t, m.formErr)
	assert.Equal(t, 3, m.screen.Overview.Total)
	assert.Empty(t, m.inputs[0].Value(), "inputs are cleared after a successful submit")

	g, found, err := store.FindByID(context.Background(), "HE-111")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.StatusPending, g.Status)
}

func TestFormRejectsDuplicateAndMissing(t *testing.T) {
	m, _ := newTestModel(t)
	gen := m.screen.Generation

	m = update(t, m, key("n"))
	m = update(t, m, key("enter"))
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, domain.MsgMissingFields, m.formErr)

	m.inputs[0].SetValue("HE-123456789")
	m.inputs[1].SetValue("Quito")
	m.inputs[2].SetValue("Lima")
	m.inputs[3].SetValue("J. Perez")
	m.inputs[4].SetValue("2024-01-01")
	m = update(t, m, key("enter"))
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, domain.MsgDuplicateID, m.formErr)
	assert.Equal(t, "HE-123456789", m.inputs[0].Value(), "values are kept after a rejection")
	assert.Contains(t, m.View(), domain.MsgDuplicateID)

	m = update(t, m, key("esc"))
	assert.Equal(t, modeTable, m.mode)
	assert.Equal(t, gen, m.screen.Generation)
}

func TestFormKeysDoNotTriggerTableActions(t *testing.T) {
	m, store := newTestModel(t)

	m = update(t, m, key("n"))
	m = update(t, m, key("a"))
	m = update(t, m, key("h"))

	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "ah", m.inputs[0].Value())

	g, _, err := store.FindByID(context.Background(), "HE-987654321")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, g.Status)
}
