package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AliAmzai/Tablr/middlewares"
	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/services"
	"github.com/AliAmzai/Tablr/utils"
)

var ErrLocationName = errors.New("Location name is required")

type LocationController struct {
	DB    *gorm.DB
	Owner *services.Ownership
}

func NewLocationController(db *gorm.DB, owner *services.Ownership) *LocationController {
	return &LocationController{DB: db, Owner: owner}
}

func (lc *LocationController) GetLocations(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := lc.Owner.Restaurant(ctx, middlewares.UserID(c), restaurantID); err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return
	}

	locations := []models.Location{}
	if err := lc.DB.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("id ASC").Find(&locations).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, locations)
}

func (lc *LocationController) CreateLocation(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
		City    *string `json:"city"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, ErrLocationName)
		return
	}

	ctx := c.Request.Context()
	if _, err := lc.Owner.Restaurant(ctx, middlewares.UserID(c), restaurantID); err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return
	}

	location := models.Location{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(*req.Name),
		Address:      utils.NullIfEmpty(req.Address),
		City:         utils.NullIfEmpty(req.City),
	}
	if err := lc.DB.WithContext(ctx).Create(&location).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, location)
}

func (lc *LocationController) DeleteLocation(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	locationID, ok := paramID(c, "locationId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	location, err := lc.Owner.Location(ctx, middlewares.UserID(c), restaurantID, locationID)
	if err != nil {
		notFound := "Location not found"
		if _, ownErr := lc.Owner.Restaurant(ctx, middlewares.UserID(c), restaurantID); ownErr != nil {
			notFound = restaurantNotFound
		}
		respondServiceError(c, err, notFound)
		return
	}
	if err := lc.DB.WithContext(ctx).Delete(&models.Location{}, location.ID).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Location deleted successfully")
}
