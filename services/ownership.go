package services

import (
	"context"
	"errors"

	"github.com/AliAmzai/Tablr/models"
	"gorm.io/gorm"
)

// Ownership resolves a resource through its restaurant to the authenticated user.
type Ownership struct {
	db *gorm.DB
}

func NewOwnership(db *gorm.DB) *Ownership {
	return &Ownership{db: db}
}

func (o *Ownership) Restaurant(ctx context.Context, userID, restaurantID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := o.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", restaurantID, userID).
		First(&restaurant).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &restaurant, nil
}

// FirstRestaurant is the user's oldest restaurant, used when a request names none.
func (o *Ownership) FirstRestaurant(ctx context.Context, userID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := o.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		First(&restaurant).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &restaurant, nil
}

func (o *Ownership) Floor(ctx context.Context, userID, floorID uint) (*models.Floor, error) {
	var floor models.Floor
	err := o.db.WithContext(ctx).
		Joins("JOIN restaurants ON restaurants.id = floors.restaurant_id").
		Where("floors.id = ? AND restaurants.user_id = ?", floorID, userID).
		First(&floor).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &floor, nil
}

// Table returns the table along with the id of the restaurant it lives in.
func (o *Ownership) Table(ctx context.Context, userID, tableID uint) (*models.Table, uint, error) {
	var table models.Table
	err := o.db.WithContext(ctx).
		Joins("JOIN floors ON floors.id = tables.floor_id").
		Joins("JOIN restaurants ON restaurants.id = floors.restaurant_id").
		Where("tables.id = ? AND restaurants.user_id = ?", tableID, userID).
		First(&table).Error
	if err != nil {
		return nil, 0, notFound(err)
	}
	var restaurantIDs []uint
	err = o.db.WithContext(ctx).Model(&models.Floor{}).
		Where("id = ?", table.FloorID).
		Pluck("restaurant_id", &restaurantIDs).Error
	if err != nil {
		return nil, 0, err
	}
	if len(restaurantIDs) == 0 {
		return nil, 0, ErrNotFound
	}
	return &table, restaurantIDs[0], nil
}

// Employee tells apart a missing employee (ErrNotFound) from someone else's (ErrForbidden).
func (o *Ownership) Employee(ctx context.Context, userID, employeeID uint) (*models.Employee, error) {
	var employee models.Employee
	if err := o.db.WithContext(ctx).First(&employee, employeeID).Error; err != nil {
		return nil, notFound(err)
	}
	var count int64
	err := o.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("id = ? AND user_id = ?", employee.RestaurantID, userID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrForbidden
	}
	return &employee, nil
}

func (o *Ownership) Location(ctx context.Context, userID, restaurantID, locationID uint) (*models.Location, error) {
	if _, err := o.Restaurant(ctx, userID, restaurantID); err != nil {
		return nil, err
	}
	var location models.Location
	err := o.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", locationID, restaurantID).
		First(&location).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &location, nil
}

func (o *Ownership) Reservation(ctx context.Context, userID, reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := o.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reservationID, userID).
		First(&reservation).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &reservation, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
