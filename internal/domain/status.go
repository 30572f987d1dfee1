package domain

import (
	"fmt"
	"strings"
)

// Lifecycle stage of a guide. The zero value is not a valid status.
type Status int

const (
	StatusPending Status = iota + 1
	StatusInTransit
	StatusDelivered
)

// Wire values used by the form selector, seed files and the JSON API.
const (
	wirePending   = "pendiente"
	wireInTransit = "en-transito"
	wireDelivered = "entregado"
)

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInTransit, StatusDelivered}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return wirePending
	case StatusInTransit:
		return wireInTransit
	case StatusDelivered:
		return wireDelivered
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

// Parse a wire value into a Status.
func ParseStatus(v string) (Status, error) {
	switch strings.TrimSpace(v) {
	case wirePending:
		return StatusPending, nil
	case wireInTransit:
		return StatusInTransit, nil
	case wireDelivered:
		return StatusDelivered, nil
	}
	return 0, fmt.Errorf("parse status: unknown value %q", v)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal status: invalid value %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
