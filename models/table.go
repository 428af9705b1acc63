package models

import (
	"encoding/json"
	"time"
)

const (
	ShapeRound       = "round"
	ShapeSquare      = "square"
	ShapeRectangular = "rectangular"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusReserved    = "reserved"
	StatusMaintenance = "maintenance"
)

func ValidShape(shape string) bool {
	switch shape {
	case ShapeRound, ShapeSquare, ShapeRectangular:
		return true
	}
	return false
}

func ValidTableStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusMaintenance:
		return true
	}
	return false
}

// TableReservation is the guest booking attached to a reserved (or seated) table.
type TableReservation struct {
	Name   string `json:"name"`
	Time   string `json:"time"`
	Guests int    `json:"guests"`
}

// WorkerSummary is the assigned employee as rendered on a table.
type WorkerSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// TableSummary is a table as rendered on an employee.
type TableSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type Table struct {
	ID          uint    `gorm:"primaryKey"`
	FloorID     uint    `gorm:"not null;index"`
	Name        string  `gorm:"type:varchar(100);not null"`
	TableNumber int     `gorm:"not null;default:0"`
	Shape       string  `gorm:"type:varchar(20);not null;default:'round'"`
	Capacity    int     `gorm:"not null"`
	Status      string  `gorm:"type:varchar(20);not null;default:'available'"`
	X           float64 `gorm:"not null"`
	Y           float64 `gorm:"not null"`
	Width       float64 `gorm:"not null"`
	Height      float64 `gorm:"not null"`
	WorkerID    *uint   `gorm:"index"`
	Version     int     `gorm:"not null;default:1"`

	ReservationName   *string `gorm:"type:varchar(255)"`
	ReservationTime   *string `gorm:"type:varchar(20)"`
	ReservationGuests *int

	// Worker is filled by the service layer, never persisted.
	Worker *WorkerSummary `gorm:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation returns the attached booking, or nil.
func (t *Table) Reservation() *TableReservation {
	if t.ReservationName == nil {
		return nil
	}
	r := &TableReservation{Name: *t.ReservationName}
	if t.ReservationTime != nil {
		r.Time = *t.ReservationTime
	}
	if t.ReservationGuests != nil {
		r.Guests = *t.ReservationGuests
	}
	return r
}

func (t *Table) SetReservation(r *TableReservation) {
	if r == nil {
		t.ReservationName = nil
		t.ReservationTime = nil
		t.ReservationGuests = nil
		return
	}
	name, at, guests := r.Name, r.Time, r.Guests
	t.ReservationName = &name
	t.ReservationTime = &at
	t.ReservationGuests = &guests
}

type tableJSON struct {
	ID          uint              `json:"id"`
	FloorID     uint              `json:"floorId"`
	Name        string            `json:"name"`
	TableNumber int               `json:"tableNumber"`
	Shape       string            `json:"shape"`
	Capacity    int               `json:"capacity"`
	Status      string            `json:"status"`
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	WorkerID    *uint             `json:"workerId"`
	Worker      *WorkerSummary    `json:"worker"`
	Reservation *TableReservation `json:"reservation"`
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (t Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{
		ID:          t.ID,
		FloorID:     t.FloorID,
		Name:        t.Name,
		TableNumber: t.TableNumber,
		Shape:       t.Shape,
		Capacity:    t.Capacity,
		Status:      t.Status,
		X:           t.X,
		Y:           t.Y,
		Width:       t.Width,
		Height:      t.Height,
		WorkerID:    t.WorkerID,
		Worker:      t.Worker,
		Reservation: t.Reservation(),
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var v tableJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Table{
		ID:          v.ID,
		FloorID:     v.FloorID,
		Name:        v.Name,
		TableNumber: v.TableNumber,
		Shape:       v.Shape,
		Capacity:    v.Capacity,
		Status:      v.Status,
		X:           v.X,
		Y:           v.Y,
		Width:       v.Width,
		Height:      v.Height,
		WorkerID:    v.WorkerID,
		Worker:      v.Worker,
		Version:     v.Version,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	t.SetReservation(v.Reservation)
	return nil
}
