package domain

// Display label and style hook for a status badge.
type Badge struct {
	Label    string
	StyleTag string
}

// The single forward move available from a status.
type Transition struct {
	Next        Status
	ActionLabel string
}

// Label shown on the advance control of a delivered guide, which is disabled.
const DisabledActionLabel = "Actualizar"

var unknownBadge = Badge{Label: "Desconocido"}

// Describe maps a status to its badge. Unknown values get a neutral badge
// instead of failing.
func Describe(s Status) Badge {
	switch s {
	case StatusPending:
		return Badge{Label: "Pendiente", StyleTag: "status--pending"}
	case StatusInTransit:
		return Badge{Label: "En Tránsito", StyleTag: "status--in-transit"}
	case StatusDelivered:
		return Badge{Label: "Entregado", StyleTag: "status--delivered"}
	}
	return unknownBadge
}

// NextTransition is the only authority on which advancement is legal.
// Delivered is terminal and unknown values have nowhere to go.
func NextTransition(s Status) (Transition, bool) {
	switch s {
	case StatusPending:
		return Transition{Next: StatusInTransit, ActionLabel: "Marcar A Tránsito"}, true
	case StatusInTransit:
		return Transition{Next: StatusDelivered, ActionLabel: "Marcar A Entregado"}, true
	case StatusDelivered:
		return Transition{}, false
	}
	return Transition{}, false
}

func (s Status) Terminal() bool {
	_, ok := NextTransition(s)
	return s.Valid() && !ok
}
