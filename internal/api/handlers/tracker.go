package handlers

import (
	"embed"
	"errors"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/render"
	"guide-tracking-service/internal/services"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Query parameter that opens the history modal for a guide.
const historyParam = "historial"

// Form fields posted by the row controls.
const (
	fieldAction     = "action"
	fieldGuideID    = "guide_id"
	fieldNextStatus = "next_status"
)

type statusOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Screen    render.Screen
	Modal     *render.HistoryModal
	Form      services.GuideForm
	FormError string
	Statuses  []statusOption
	CSRFField template.HTML
	Empty     string
}

// TrackerHandler serves the tracker page and its two form endpoints.
type TrackerHandler struct {
	Tracker *services.Tracker
	Log     *zap.Logger
}

func (h *TrackerHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, r, h.Log, http.MethodGet)
		return
	}

	data := h.page(r, services.GuideForm{}, "")

	if id := r.URL.Query().Get(historyParam); id != "" {
		m, ok, err := h.Tracker.History(r.Context(), id)
		if err != nil {
			h.Log.Error("open history failed", zap.String("guide_id", id), zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if ok {
			data.Modal = &m
		}
	}

	writeHTML(w, r, h.Log, pageTmpl, http.StatusOK, data)
}

// Submit registers a guide. Success redirects back to a clean form; a
// rejected submission re-renders the page with the message and the values.
func (h *TrackerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.Log, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	form := services.GuideForm{
		ID:            r.PostFormValue(services.FieldID),
		Origin:        r.PostFormValue(services.FieldOrigin),
		Destination:   r.PostFormValue(services.FieldDestination),
		Recipient:     r.PostFormValue(services.FieldRecipient),
		CreationDate:  r.PostFormValue(services.FieldCreationDate),
		InitialStatus: r.PostFormValue(services.FieldInitialStatus),
	}

	_, err := h.Tracker.Submit(r.Context(), form)
	var rerr *services.RenderError
	if err == nil || errors.As(err, &rerr) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	msg, ok := services.UserMessage(err)
	if !ok {
		h.Log.Error("register guide failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.Log.Debug("guide rejected", zap.String("reason", msg), zap.Error(err))
	writeHTML(w, r, h.Log, pageTmpl, http.StatusUnprocessableEntity, h.page(r, form, msg))
}

// Action is the delegated endpoint for every row control.
func (h *TrackerHandler) Action(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.Log, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	a, ok := services.ParseAction(
		r.PostFormValue(fieldAction),
		r.PostFormValue(fieldGuideID),
		r.PostFormValue(fieldNextStatus),
	)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	out, err := h.Tracker.Dispatch(r.Context(), a)
	var rerr *services.RenderError
	if err != nil && !errors.As(err, &rerr) {
		h.Log.Error("dispatch action failed", zap.String("guide_id", a.GuideID), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if out.History != nil {
		http.Redirect(w, r, "/?"+url.Values{historyParam: {a.GuideID}}.Encode(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *TrackerHandler) page(r *http.Request, form services.GuideForm, formError string) pageData {
	selected := form.InitialStatus
	if _, err := domain.ParseStatus(selected); err != nil {
		selected = domain.StatusPending.String()
	}

	opts := make([]statusOption, 0, len(domain.Statuses()))
	for _, s := range domain.Statuses() {
		opts = append(opts, statusOption{
			Value:    s.String(),
			Label:    domain.Describe(s).Label,
			Selected: s.String() == selected,
		})
	}

	return pageData{
		Screen:    h.Tracker.Screen(),
		Form:      form,
		FormError: formError,
		Statuses:  opts,
		CSRFField: csrf.TemplateField(r),
		Empty:     render.EmptyMessage,
	}
}
