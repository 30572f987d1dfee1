package ports

import (
	"context"
	"guide-tracking-service/internal/domain"
)

// Port: the session-wide collection of guides.
//
// Implementations keep insertion order, return copies, and never validate
// transitions; callers consult domain.NextTransition first.
type GuideStore interface {
	// Append a guide. Returns *domain.DuplicateIDError if the ID is taken.
	Insert(ctx context.Context, g domain.Guide) error
	// Look up a guide by ID; found is false when there is no such guide.
	FindByID(ctx context.Context, id string) (g domain.Guide, found bool, err error)
	// Set the status and append a history entry stamped with the store clock.
	// An unknown ID is a silent no-op.
	AdvanceStatus(ctx context.Context, id string, next domain.Status) error
	// All guides in insertion order.
	List(ctx context.Context) ([]domain.Guide, error)
	Count(ctx context.Context) (int, error)
	// Occurrences per status; statuses with no guides are absent.
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
}
