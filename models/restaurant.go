package models

import "time"

type Restaurant struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"userId"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description *string    `gorm:"type:text" json:"description"`
	Phone       *string    `gorm:"type:varchar(50)" json:"phone"`
	Email       *string    `gorm:"type:varchar(255)" json:"email"`
	Address     *string    `gorm:"type:varchar(255)" json:"address"`
	ShareToken  string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"shareToken"`
	Floors      []Floor    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"floors"`
	Employees   []Employee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"employees"`
	Locations   []Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"locations"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Location struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurantId"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Address      *string   `gorm:"type:varchar(255)" json:"address"`
	City         *string   `gorm:"type:varchar(100)" json:"city"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
