package domain

import "time"

// A single status the guide has held, stamped when it was reached.
type HistoryEntry struct {
	Status Status
	At     time.Time
}

// Represents a tracked shipment.
// ID, route and recipient are fixed at creation; Status only moves forward
// and every change appends one HistoryEntry.
type Guide struct {
	ID           string
	Origin       string
	Destination  string
	Recipient    string
	CreationDate time.Time
	Status       Status
	History      []HistoryEntry
}

// Midnight of the given calendar date in loc.
func DateAtMidnight(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// Build a freshly submitted guide whose history holds only the initial status,
// stamped at midnight of the creation date.
func NewGuide(id, origin, destination, recipient string, creationDate time.Time, initial Status) Guide {
	y, m, d := creationDate.Date()
	day := DateAtMidnight(y, m, d, creationDate.Location())

	return Guide{
		ID:           id,
		Origin:       origin,
		Destination:  destination,
		Recipient:    recipient,
		CreationDate: day,
		Status:       initial,
		History:      []HistoryEntry{{Status: initial, At: day}},
	}
}

// Most recent history entry. ok is false only for a guide that was never stored.
func (g Guide) LastEntry() (HistoryEntry, bool) {
	if len(g.History) == 0 {
		return HistoryEntry{}, false
	}
	return g.History[len(g.History)-1], true
}

// Advance records a move to next at the given time.
// It does not check the transition against the policy.
func (g *Guide) Advance(next Status, at time.Time) {
	g.Status = next
	g.History = append(g.History, HistoryEntry{Status: next, At: at})
}

// Clone returns a copy that shares no history backing array with g.
func (g Guide) Clone() Guide {
	c := g
	c.History = append([]HistoryEntry(nil), g.History...)
	return c
}

// CheckInvariants validates a guide that is about to enter a store
// from somewhere other than the form (seed files).
func (g Guide) CheckInvariants() error {
	var missing []string
	if g.ID == "" {
		missing = append(missing, "id")
	}
	if g.Origin == "" {
		missing = append(missing, "origin")
	}
	if g.Destination == "" {
		missing = append(missing, "destination")
	}
	if g.Recipient == "" {
		missing = append(missing, "recipient")
	}
	if g.CreationDate.IsZero() {
		missing = append(missing, "creation_date")
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}

	if !g.Status.Valid() {
		return &InvariantError{ID: g.ID, Reason: "status is not a known value"}
	}

	last, ok := g.LastEntry()
	if !ok {
		return &InvariantError{ID: g.ID, Reason: "history is empty"}
	}
	if last.Status != g.Status {
		return &InvariantError{ID: g.ID, Reason: "last history status differs from current status"}
	}

	for i := 1; i < len(g.History); i++ {
		if g.History[i].At.Before(g.History[i-1].At) {
			return &InvariantError{ID: g.ID, Reason: "history is not chronological"}
		}
		t, ok := NextTransition(g.History[i-1].Status)
		if !ok || t.Next != g.History[i].Status {
			return &InvariantError{ID: g.ID, Reason: "history skips or repeats a stage"}
		}
	}

	return nil
}
