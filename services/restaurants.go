package services

import (
	"context"

	"github.com/AliAmzai/Tablr/models"
	"gorm.io/gorm"
)

const firstFloorName = "Floor 1"

type RestaurantService struct {
	db     *gorm.DB
	floors *FloorService
	tables *TableService
}

func NewRestaurantService(db *gorm.DB, floors *FloorService, tables *TableService) *RestaurantService {
	return &RestaurantService{db: db, floors: floors, tables: tables}
}

// Create stores the restaurant with a fresh share token and its first floor in one transaction.
func (s *RestaurantService) Create(ctx context.Context, restaurant *models.Restaurant) error {
	restaurant.ShareToken = NewShareToken()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Floors", "Employees", "Locations").Create(restaurant).Error; err != nil {
			return err
		}
		floor := models.Floor{RestaurantID: restaurant.ID, Name: firstFloorName, FloorNumber: 1}
		if err := tx.Create(&floor).Error; err != nil {
			return err
		}
		floor.Tables = []models.Table{}
		restaurant.Floors = []models.Floor{floor}
		return nil
	})
	if err != nil {
		return err
	}
	restaurant.Employees = []models.Employee{}
	restaurant.Locations = []models.Location{}
	return nil
}

// List returns every restaurant of the user with floors, tables, employees and locations.
func (s *RestaurantService) List(ctx context.Context, userID uint) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	if err := s.withDetails(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&restaurants).Error; err != nil {
		return nil, err
	}
	for i := range restaurants {
		if err := s.prepare(ctx, &restaurants[i]); err != nil {
			return nil, err
		}
	}
	return restaurants, nil
}

func (s *RestaurantService) Get(ctx context.Context, userID, restaurantID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.withDetails(ctx).Where("id = ? AND user_id = ?", restaurantID, userID).First(&restaurant).Error
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.prepare(ctx, &restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// ByShareToken loads the public view of a restaurant.
func (s *RestaurantService) ByShareToken(ctx context.Context, token string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).
		Preload("Floors", func(db *gorm.DB) *gorm.DB { return db.Order("floor_number ASC") }).
		Preload("Floors.Tables", orderByID).
		Where("share_token = ?", token).
		First(&restaurant).Error
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.floors.prepare(ctx, restaurant.Floors); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// Delete removes the restaurant with its floors, tables, employees and locations.
// Children are deleted explicitly so the result does not depend on the driver enforcing foreign keys.
func (s *RestaurantService) Delete(ctx context.Context, restaurant *models.Restaurant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		floorIDs := tx.Model(&models.Floor{}).Select("id").Where("restaurant_id = ?", restaurant.ID)
		if err := tx.Where("floor_id IN (?)", floorIDs).Delete(&models.Table{}).Error; err != nil {
			return err
		}
		for _, child := range []interface{}{&models.Floor{}, &models.Employee{}, &models.Location{}} {
			if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Restaurant{}, restaurant.ID).Error
	})
}

func (s *RestaurantService) withDetails(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Floors", func(db *gorm.DB) *gorm.DB { return db.Order("floor_number ASC") }).
		Preload("Floors.Tables", orderByID).
		Preload("Employees", orderByID).
		Preload("Locations", orderByID)
}

func (s *RestaurantService) prepare(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant.Floors == nil {
		restaurant.Floors = []models.Floor{}
	}
	if restaurant.Employees == nil {
		restaurant.Employees = []models.Employee{}
	}
	if restaurant.Locations == nil {
		restaurant.Locations = []models.Location{}
	}
	if err := s.floors.prepare(ctx, restaurant.Floors); err != nil {
		return err
	}
	return s.tables.AttachTableRefs(ctx, restaurant.Employees)
}
