package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/AliAmzai/Tablr/models"
	"gorm.io/gorm"
)

type FloorService struct {
	db     *gorm.DB
	tables *TableService
}

func NewFloorService(db *gorm.DB, tables *TableService) *FloorService {
	return &FloorService{db: db, tables: tables}
}

// List returns a restaurant's floors ordered by number, each with its tables.
func (s *FloorService) List(ctx context.Context, restaurantID uint) ([]models.Floor, error) {
	floors := []models.Floor{}
	err := s.db.WithContext(ctx).
		Preload("Tables", orderByID).
		Where("restaurant_id = ?", restaurantID).
		Order("floor_number ASC").
		Find(&floors).Error
	if err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, floors); err != nil {
		return nil, err
	}
	return floors, nil
}

func (s *FloorService) Get(ctx context.Context, floorID uint) (*models.Floor, error) {
	var floor models.Floor
	if err := s.db.WithContext(ctx).Preload("Tables", orderByID).First(&floor, floorID).Error; err != nil {
		return nil, notFound(err)
	}
	floors := []models.Floor{floor}
	if err := s.prepare(ctx, floors); err != nil {
		return nil, err
	}
	return &floors[0], nil
}

// Create numbers the floor after the ones already there. An empty name becomes "Floor N".
func (s *FloorService) Create(ctx context.Context, restaurantID uint, name string) (*models.Floor, error) {
	floor := &models.Floor{RestaurantID: restaurantID, Name: strings.TrimSpace(name)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Floor{}).Where("restaurant_id = ?", restaurantID).Count(&count).Error; err != nil {
			return err
		}
		floor.FloorNumber = int(count) + 1
		if floor.Name == "" {
			floor.Name = fmt.Sprintf("Floor %d", floor.FloorNumber)
		}
		return tx.Create(floor).Error
	})
	if err != nil {
		return nil, err
	}
	floor.Tables = []models.Table{}
	return floor, nil
}

func (s *FloorService) Rename(ctx context.Context, floor *models.Floor, name string) error {
	floor.Name = name
	return s.db.WithContext(ctx).Model(floor).Update("name", name).Error
}

// Delete removes the floor and its tables. The last floor of a restaurant cannot go.
func (s *FloorService) Delete(ctx context.Context, floor *models.Floor) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Floor{}).Where("restaurant_id = ?", floor.RestaurantID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastFloor
		}
		if err := tx.Where("floor_id = ?", floor.ID).Delete(&models.Table{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Floor{}, floor.ID).Error
	})
}

func (s *FloorService) prepare(ctx context.Context, floors []models.Floor) error {
	for i := range floors {
		if floors[i].Tables == nil {
			floors[i].Tables = []models.Table{}
		}
		if err := s.tables.AttachWorkers(ctx, floors[i].Tables); err != nil {
			return err
		}
	}
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
