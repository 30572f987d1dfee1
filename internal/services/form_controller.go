package services

import (
	"context"
	"errors"
	"fmt"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/ports"
	"strings"
	"time"
)

// Form field names, shared by the HTML form and the terminal form.
const (
	FieldID            = "numero-guia"
	FieldOrigin        = "origen"
	FieldDestination   = "destino"
	FieldRecipient     = "destinatario"
	FieldCreationDate  = "fecha-creacion"
	FieldInitialStatus = "estado-inicial"
)

const formDateLayout = "2006-01-02"

// GuideForm is the raw, untrimmed submission.
type GuideForm struct {
	ID            string
	Origin        string
	Destination   string
	Recipient     string
	CreationDate  string
	InitialStatus string
}

func (f GuideForm) trimmed() GuideForm {
	return GuideForm{
		ID:            strings.TrimSpace(f.ID),
		Origin:        strings.TrimSpace(f.Origin),
		Destination:   strings.TrimSpace(f.Destination),
		Recipient:     strings.TrimSpace(f.Recipient),
		CreationDate:  strings.TrimSpace(f.CreationDate),
		InitialStatus: strings.TrimSpace(f.InitialStatus),
	}
}

// RegisterGuide validates a submission and inserts the resulting guide.
//
// Presence is checked before uniqueness. Either the whole guide is stored or
// the store is left untouched and a *domain.MissingFieldError or
// *domain.DuplicateIDError is returned.
func RegisterGuide(ctx context.Context, store ports.GuideStore, loc *time.Location, form GuideForm) (domain.Guide, error) {
	f := form.trimmed()

	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{FieldID, f.ID},
		{FieldOrigin, f.Origin},
		{FieldDestination, f.Destination},
		{FieldRecipient, f.Recipient},
		{FieldCreationDate, f.CreationDate},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	var created time.Time
	if f.CreationDate != "" {
		d, err := time.ParseInLocation(formDateLayout, f.CreationDate, loc)
		if err != nil {
			missing = append(missing, FieldCreationDate)
		}
		created = d
	}

	initial, err := domain.ParseStatus(f.InitialStatus)
	if err != nil {
		missing = append(missing, FieldInitialStatus)
	}

	if len(missing) > 0 {
		return domain.Guide{}, &domain.MissingFieldError{Fields: missing}
	}

	_, exists, err := store.FindByID(ctx, f.ID)
	if err != nil {
		return domain.Guide{}, fmt.Errorf("register guide: lookup %q: %w", f.ID, err)
	}
	if exists {
		return domain.Guide{}, &domain.DuplicateIDError{ID: f.ID}
	}

	g := domain.NewGuide(f.ID, f.Origin, f.Destination, f.Recipient, created, initial)
	if err := store.Insert(ctx, g); err != nil {
		var de *domain.DuplicateIDError
		if errors.As(err, &de) {
			return domain.Guide{}, err
		}
		return domain.Guide{}, fmt.Errorf("register guide: insert %q: %w", f.ID, err)
	}

	return g, nil
}

// UserMessage maps a RegisterGuide error to the text for the error region.
// ok is false for errors that are not validation failures.
func UserMessage(err error) (msg string, ok bool) {
	var mf *domain.MissingFieldError
	if errors.As(err, &mf) {
		return mf.UserMessage(), true
	}
	var de *domain.DuplicateIDError
	if errors.As(err, &de) {
		return de.UserMessage(), true
	}
	return "", false
}
