// Package floorplan holds the table status lifecycle and the floor-plan editing engine.
package floorplan

import (
	"errors"
	"strings"

	"github.com/AliAmzai/Tablr/models"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrGuestNameRequired = errors.New("guest name is required")
	ErrUnknownAction     = errors.New("unknown table action")
)

const (
	DefaultGuests          = 2
	DefaultReservationTime = "19:00"
)

type Action string

const (
	ActionReserve Action = "reserve"
	ActionSeat    Action = "seat"
	ActionClear   Action = "clear"
)

// Reserve moves an available table to reserved and attaches the booking.
func Reserve(t *models.Table, r models.TableReservation) error {
	if t.Status != models.StatusAvailable {
		return ErrInvalidTransition
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrGuestNameRequired
	}
	if strings.TrimSpace(r.Time) == "" {
		r.Time = DefaultReservationTime
	}
	if r.Guests <= 0 {
		r.Guests = DefaultGuests
	}
	t.Status = models.StatusReserved
	t.SetReservation(&r)
	return nil
}

// Seat moves a reserved table to occupied, keeping the booking.
func Seat(t *models.Table) error {
	if t.Status != models.StatusReserved {
		return ErrInvalidTransition
	}
	t.Status = models.StatusOccupied
	return nil
}

// Clear frees a table and drops its booking.
func Clear(t *models.Table) error {
	if t.Status == models.StatusAvailable {
		return ErrInvalidTransition
	}
	t.Status = models.StatusAvailable
	t.SetReservation(nil)
	return nil
}

func Apply(t *models.Table, action Action, r *models.TableReservation) error {
	switch action {
	case ActionReserve:
		if r == nil {
			return ErrGuestNameRequired
		}
		return Reserve(t, *r)
	case ActionSeat:
		return Seat(t)
	case ActionClear:
		return Clear(t)
	}
	return ErrUnknownAction
}

// SetStatus is the direct status write used by partial updates. Returning to
// available always drops the booking.
func SetStatus(t *models.Table, status string) {
	t.Status = status
	if status == models.StatusAvailable {
		t.SetReservation(nil)
	}
}
