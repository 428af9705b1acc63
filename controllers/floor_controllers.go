package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AliAmzai/Tablr/hub"
	"github.com/AliAmzai/Tablr/middlewares"
	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/services"
	"github.com/AliAmzai/Tablr/utils"
)

const floorNotFound = "Floor not found"

var ErrFloorName = errors.New("Floor name is required")

type FloorController struct {
	Owner  *services.Ownership
	Floors *services.FloorService
	Hub    *hub.Hub
}

func NewFloorController(owner *services.Ownership, floors *services.FloorService, h *hub.Hub) *FloorController {
	return &FloorController{Owner: owner, Floors: floors, Hub: h}
}

// resolveRestaurant picks the restaurant named by id, or the user's first one when id is nil.
func (fc *FloorController) resolveRestaurant(c *gin.Context, id *uint) (*models.Restaurant, bool) {
	userID := middlewares.UserID(c)
	ctx := c.Request.Context()

	var (
		restaurant *models.Restaurant
		err        error
	)
	if id != nil {
		restaurant, err = fc.Owner.Restaurant(ctx, userID, *id)
	} else {
		restaurant, err = fc.Owner.FirstRestaurant(ctx, userID)
	}
	if err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return nil, false
	}
	return restaurant, true
}

// GetFloors lists the floors of ?restaurantId=, or of the user's first restaurant.
func (fc *FloorController) GetFloors(c *gin.Context) {
	var restaurantID *uint
	if c.Query("restaurantId") != "" {
		id, ok := queryID(c, "restaurantId")
		if !ok {
			return
		}
		restaurantID = &id
	}
	restaurant, ok := fc.resolveRestaurant(c, restaurantID)
	if !ok {
		return
	}

	floors, err := fc.Floors.List(c.Request.Context(), restaurant.ID)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, floors)
}

func (fc *FloorController) GetFloor(c *gin.Context) {
	floorID, ok := paramID(c, "floorId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := fc.Owner.Floor(ctx, middlewares.UserID(c), floorID); err != nil {
		respondServiceError(c, err, floorNotFound)
		return
	}
	floor, err := fc.Floors.Get(ctx, floorID)
	if err != nil {
		respondServiceError(c, err, floorNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, floor)
}

// CreateFloor appends a floor numbered after the existing ones.
func (fc *FloorController) CreateFloor(c *gin.Context) {
	var req struct {
		RestaurantID utils.OptionalID `json:"restaurantId"`
		Name         *string          `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	restaurant, ok := fc.resolveRestaurant(c, req.RestaurantID.Ptr())
	if !ok {
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	floor, err := fc.Floors.Create(c.Request.Context(), restaurant.ID, name)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	fc.Hub.Broadcast(restaurant.ID, hub.Message{Event: hub.EventFloorCreate, Data: floor})
	utils.InfoLogger.Printf("Floor %d (%s) created in restaurant %d", floor.ID, floor.Name, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, floor)
}

func (fc *FloorController) UpdateFloor(c *gin.Context) {
	floorID, ok := paramID(c, "floorId")
	if !ok {
		return
	}
	var req struct {
		Name *string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	floor, err := fc.Owner.Floor(ctx, middlewares.UserID(c), floorID)
	if err != nil {
		respondServiceError(c, err, floorNotFound)
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.RespondError(c, http.StatusBadRequest, ErrFloorName)
			return
		}
		if err := fc.Floors.Rename(ctx, floor, name); err != nil {
			utils.RespondInternal(c, err)
			return
		}
	}

	updated, err := fc.Floors.Get(ctx, floor.ID)
	if err != nil {
		respondServiceError(c, err, floorNotFound)
		return
	}
	fc.Hub.Broadcast(floor.RestaurantID, hub.Message{Event: hub.EventFloorUpdate, Data: updated})
	utils.RespondJSON(c, http.StatusOK, updated)
}

// DeleteFloor removes the floor and its tables, refusing to delete the last one.
func (fc *FloorController) DeleteFloor(c *gin.Context) {
	floorID, ok := paramID(c, "floorId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	floor, err := fc.Owner.Floor(ctx, middlewares.UserID(c), floorID)
	if err != nil {
		respondServiceError(c, err, floorNotFound)
		return
	}
	if err := fc.Floors.Delete(ctx, floor); err != nil {
		respondServiceError(c, err, floorNotFound)
		return
	}

	fc.Hub.Broadcast(floor.RestaurantID, hub.Message{Event: hub.EventFloorDelete, Data: gin.H{"id": floor.ID}})
	utils.InfoLogger.Printf("Floor %d deleted", floor.ID)
	utils.RespondMessage(c, http.StatusOK, "Floor deleted successfully")
}
