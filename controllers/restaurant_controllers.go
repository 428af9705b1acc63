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

const restaurantNotFound = "Restaurant not found"

var ErrRestaurantName = errors.New("Restaurant name is required")

type RestaurantController struct {
	DB          *gorm.DB
	Owner       *services.Ownership
	Restaurants *services.RestaurantService
}

func NewRestaurantController(db *gorm.DB, owner *services.Ownership, restaurants *services.RestaurantService) *RestaurantController {
	return &RestaurantController{DB: db, Owner: owner, Restaurants: restaurants}
}

type restaurantRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
}

// GetRestaurants returns one restaurant when ?id= is given, otherwise all of the user's restaurants.
func (rc *RestaurantController) GetRestaurants(c *gin.Context) {
	userID := middlewares.UserID(c)
	ctx := c.Request.Context()

	if c.Query("id") != "" {
		id, ok := queryID(c, "id")
		if !ok {
			return
		}
		restaurant, err := rc.Restaurants.Get(ctx, userID, id)
		if err != nil {
			respondServiceError(c, err, restaurantNotFound)
			return
		}
		utils.RespondJSON(c, http.StatusOK, restaurant)
		return
	}

	restaurants, err := rc.Restaurants.List(ctx, userID)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, restaurants)
}

// CreateRestaurant stores a restaurant together with its first floor.
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req restaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, ErrRestaurantName)
		return
	}

	restaurant := models.Restaurant{
		UserID:      middlewares.UserID(c),
		Name:        strings.TrimSpace(*req.Name),
		Description: utils.NullIfEmpty(req.Description),
		Phone:       utils.NullIfEmpty(req.Phone),
		Email:       utils.NullIfEmpty(req.Email),
		Address:     utils.NullIfEmpty(req.Address),
	}
	if err := rc.Restaurants.Create(c.Request.Context(), &restaurant); err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant %d created for user %d", restaurant.ID, restaurant.UserID)
	utils.RespondJSON(c, http.StatusCreated, restaurant)
}

// UpdateRestaurant overwrites only the supplied fields. Empty optional fields become null.
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req restaurantRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := middlewares.UserID(c)
	ctx := c.Request.Context()
	restaurant, err := rc.Owner.Restaurant(ctx, userID, id)
	if err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.RespondError(c, http.StatusBadRequest, ErrRestaurantName)
			return
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = utils.NullIfEmpty(req.Description)
	}
	if req.Phone != nil {
		updates["phone"] = utils.NullIfEmpty(req.Phone)
	}
	if req.Email != nil {
		updates["email"] = utils.NullIfEmpty(req.Email)
	}
	if req.Address != nil {
		updates["address"] = utils.NullIfEmpty(req.Address)
	}
	if len(updates) > 0 {
		if err := rc.DB.WithContext(ctx).Model(restaurant).Updates(updates).Error; err != nil {
			utils.RespondInternal(c, err)
			return
		}
	}

	updated, err := rc.Restaurants.Get(ctx, userID, restaurant.ID)
	if err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, updated)
}

// DeleteRestaurant removes the restaurant; floors, tables, employees and locations cascade.
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	restaurant, err := rc.Owner.Restaurant(ctx, middlewares.UserID(c), id)
	if err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return
	}
	if err := rc.Restaurants.Delete(ctx, restaurant); err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant %d deleted", restaurant.ID)
	utils.RespondMessage(c, http.StatusOK, "Restaurant deleted successfully")
}
