package tui

import (
	"context"
	"errors"
	"guide-tracking-service/internal/render"
	"guide-tracking-service/internal/services"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type mode int

const (
	modeTable mode = iota
	modeForm
	modeHistory
)

// Input order of the registration form.
var formFields = []struct {
	name        string
	label       string
	placeholder string
}{
	{services.FieldID, "Número de guía", "HE-000000000"},
	{services.FieldOrigin, "Origen", "Bogotá"},
	{services.FieldDestination, "Destino", "Medellín"},
	{services.FieldRecipient, "Destinatario", "Nombre completo"},
	{services.FieldCreationDate, "Fecha de creación", "AAAA-MM-DD"},
	{services.FieldInitialStatus, "Estado inicial", "pendiente | en-transito | entregado"},
}

// Model is the terminal client. It reads frames from the tracker and sends
// the same action payloads the HTML controls post.
type Model struct {
	ctx     context.Context
	tracker *services.Tracker
	log     *zap.Logger

	width  int
	height int

	mode   mode
	screen render.Screen
	table  table.Model

	inputs  []textinput.Model
	focus   int
	formErr string

	modal  render.HistoryModal
	notice string

	styles styles
}

func New(ctx context.Context, tracker *services.Tracker, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Número", Width: 14},
			{Title: "Estado", Width: 12},
			{Title: "Origen", Width: 14},
			{Title: "Destino", Width: 14},
			{Title: "Actualizado", Width: 26},
			{Title: "Acción", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	m := Model{
		ctx:     ctx,
		tracker: tracker,
		log:     log,
		table:   t,
		inputs:  newInputs(),
		styles:  defaultStyles(),
	}
	m.refresh()
	return m
}

func newInputs() []textinput.Model {
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.CharLimit = 64
		ti.Width = 36
		inputs[i] = ti
	}
	inputs[len(inputs)-1].SetValue("pendiente")
	return inputs
}

// Run starts the client on the alternate screen with mouse support.
func Run(ctx context.Context, tracker *services.Tracker, log *zap.Logger) error {
	p := tea.NewProgram(
		New(ctx, tracker, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(max(3, msg.Height-10))
		return m, nil

	case tea.MouseMsg:
		if m.mode == modeHistory && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.modal.Click(m.hitTest(msg.X, msg.Y))
			if !m.modal.Visible {
				m.mode = modeTable
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeHistory:
			switch msg.String() {
			case "esc", "q", "enter":
				m.modal.Click(render.TargetClose)
				m.mode = modeTable
			}
			return m, nil
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "a":
			m.advanceSelected()
			return m, nil
		case "h", "enter":
			m.openHistory()
			return m, nil
		case "n":
			m.mode = modeForm
			m.formErr = ""
			return m, m.focusInput(0)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputs[m.focus].Blur()
		m.mode = modeTable
		m.formErr = ""
		return m, nil
	case "tab", "down":
		return m, m.focusInput((m.focus + 1) % len(m.inputs))
	case "shift+tab", "up":
		return m, m.focusInput((m.focus + len(m.inputs) - 1) % len(m.inputs))
	case "enter":
		m.submit()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) form() services.GuideForm {
	return services.GuideForm{
		ID:            m.inputs[0].Value(),
		Origin:        m.inputs[1].Value(),
		Destination:   m.inputs[2].Value(),
		Recipient:     m.inputs[3].Value(),
		CreationDate:  m.inputs[4].Value(),
		InitialStatus: m.inputs[5].Value(),
	}
}

func (m *Model) submit() {
	g, err := m.tracker.Submit(m.ctx, m.form())
	var rerr *services.RenderError
	if err != nil && !errors.As(err, &rerr) {
		msg, ok := services.UserMessage(err)
		if !ok {
			m.log.Error("register guide failed", zap.Error(err))
			msg = "No se pudo registrar la guía."
		}
		m.formErr = msg
		return
	}

	m.inputs[m.focus].Blur()
	m.inputs = newInputs()
	m.focus = 0
	m.formErr = ""
	m.mode = modeTable
	m.notice = "Guía " + g.ID + " registrada."
	m.refresh()
}

func (m *Model) selected() (render.Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.screen.Rows) {
		return render.Row{}, false
	}
	return m.screen.Rows[i], true
}

func (m *Model) advanceSelected() {
	row, ok := m.selected()
	if !ok || row.Advance.Action == nil {
		return
	}

	out, err := m.tracker.Dispatch(m.ctx, *row.Advance.Action)
	var rerr *services.RenderError
	if err != nil && !errors.As(err, &rerr) {
		m.log.Error("advance failed", zap.String("guide_id", row.ID), zap.Error(err))
		m.notice = "No se pudo actualizar la guía."
		return
	}
	if out.Mutated {
		m.notice = "Guía " + row.ID + " actualizada."
	}
	m.refresh()
}

func (m *Model) openHistory() {
	row, ok := m.selected()
	if !ok || row.History.Action == nil {
		return
	}

	out, err := m.tracker.Dispatch(m.ctx, *row.History.Action)
	if err != nil {
		m.log.Error("open history failed", zap.String("guide_id", row.ID), zap.Error(err))
		return
	}
	if out.History != nil {
		m.modal = *out.History
		m.mode = modeHistory
	}
}

// refresh pulls the latest frame and rebuilds the table rows from it.
func (m *Model) refresh() {
	m.screen = m.tracker.Screen()

	rows := make([]table.Row, 0, len(m.screen.Rows))
	for _, r := range m.screen.Rows {
		rows = append(rows, table.Row{r.ID, r.Badge.Label, r.Origin, r.Destination, r.LastUpdated, r.Advance.Label})
	}

	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	m.table.SetCursor(max(cursor, 0))
}
