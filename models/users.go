package models

import "time"

type User struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Email        string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string        `gorm:"type:varchar(255);not null" json:"-"`
	Name         string        `gorm:"type:varchar(255);not null" json:"name"`
	Phone        *string       `gorm:"type:varchar(20)" json:"phone"`
	Restaurants  []Restaurant  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Reservations []Reservation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
