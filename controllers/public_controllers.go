package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/services"
	"github.com/AliAmzai/Tablr/utils"
)

type PublicController struct {
	Restaurants *services.RestaurantService
}

func NewPublicController(restaurants *services.RestaurantService) *PublicController {
	return &PublicController{Restaurants: restaurants}
}

// publicRestaurant is the read-only shared view; owner, staff and guest data stay private.
type publicRestaurant struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Phone       *string        `json:"phone"`
	Email       *string        `json:"email"`
	Address     *string        `json:"address"`
	Floors      []models.Floor `json:"floors"`
}

func (pc *PublicController) GetSharedRestaurant(c *gin.Context) {
	restaurant, err := pc.Restaurants.ByShareToken(c.Request.Context(), c.Param("shareToken"))
	if err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return
	}

	for i := range restaurant.Floors {
		for j := range restaurant.Floors[i].Tables {
			restaurant.Floors[i].Tables[j].Worker = nil
			restaurant.Floors[i].Tables[j].WorkerID = nil
			restaurant.Floors[i].Tables[j].SetReservation(nil)
		}
	}
	utils.RespondJSON(c, http.StatusOK, publicRestaurant{
		ID:          restaurant.ID,
		Name:        restaurant.Name,
		Description: restaurant.Description,
		Phone:       restaurant.Phone,
		Email:       restaurant.Email,
		Address:     restaurant.Address,
		Floors:      restaurant.Floors,
	})
}

func HealthCheck(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, gin.H{"status": "Server is running!"})
}
