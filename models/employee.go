package models

import "time"

const (
	RoleWaiter    = "waiter"
	RoleChef      = "chef"
	RoleManager   = "manager"
	RoleHost      = "host"
	RoleBartender = "bartender"
)

func ValidRole(role string) bool {
	switch role {
	case RoleWaiter, RoleChef, RoleManager, RoleHost, RoleBartender:
		return true
	}
	return false
}

type Employee struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	RestaurantID uint    `gorm:"not null;index" json:"restaurantId"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Email        *string `gorm:"type:varchar(255)" json:"email"`
	Phone        *string `gorm:"type:varchar(50)" json:"phone"`
	Role         string  `gorm:"type:varchar(20);not null;default:'waiter'" json:"role"`
	// Assigned tables; unassigned (not deleted) when the employee goes.
	Tables    []Table        `gorm:"foreignKey:WorkerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	TableRefs []TableSummary `gorm:"-" json:"tables"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
