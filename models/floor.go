package models

import "time"

type Floor struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	RestaurantID uint   `gorm:"not null;index" json:"restaurantId"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	FloorNumber  int    `gorm:"not null" json:"floorNumber"`
	// TableSeq is the last table number handed out on this floor.
	TableSeq  int       `gorm:"not null;default:0" json:"-"`
	Tables    []Table   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tables"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
