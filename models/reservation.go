package models

import "time"

const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

func ValidReservationStatus(status string) bool {
	switch status {
	case ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

// Reservation is a user-level booking, not tied to a restaurant table.
type Reservation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	StartTime   time.Time `gorm:"not null" json:"startTime"`
	EndTime     time.Time `gorm:"not null" json:"endTime"`
	Status      string    `gorm:"type:varchar(50);not null;default:'confirmed'" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
