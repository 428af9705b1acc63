package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AliAmzai/Tablr/middlewares"
	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/services"
	"github.com/AliAmzai/Tablr/utils"
)

const reservationNotFound = "Reservation not found"

var (
	ErrReservationFields = errors.New("Title, startTime, and endTime are required")
	ErrReservationStatus = errors.New("Invalid reservation status")
)

var reservationTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseReservationTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range reservationTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("Invalid date %q", s)
}

type ReservationController struct {
	DB    *gorm.DB
	Owner *services.Ownership
}

func NewReservationController(db *gorm.DB, owner *services.Ownership) *ReservationController {
	return &ReservationController{DB: db, Owner: owner}
}

type reservationRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
}

type reservationResponse struct {
	Message     string              `json:"message"`
	Reservation *models.Reservation `json:"reservation"`
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.StartTime == "" || req.EndTime == "" {
		utils.RespondError(c, http.StatusBadRequest, ErrReservationFields)
		return
	}
	start, err := parseReservationTime(req.StartTime)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := parseReservationTime(req.EndTime)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	status := models.ReservationConfirmed
	if req.Status != "" {
		if !models.ValidReservationStatus(req.Status) {
			utils.RespondError(c, http.StatusBadRequest, ErrReservationStatus)
			return
		}
		status = req.Status
	}

	reservation := models.Reservation{
		UserID:      middlewares.UserID(c),
		Title:       strings.TrimSpace(req.Title),
		Description: utils.NullIfEmpty(req.Description),
		StartTime:   start,
		EndTime:     end,
		Status:      status,
	}
	if err := rc.DB.WithContext(c.Request.Context()).Create(&reservation).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, reservationResponse{Message: "Reservation created successfully", Reservation: &reservation})
}

// GetReservations lists the user's reservations by start time.
func (rc *ReservationController) GetReservations(c *gin.Context) {
	reservations := []models.Reservation{}
	err := rc.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", middlewares.UserID(c)).
		Order("start_time ASC").
		Find(&reservations).Error
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	reservation, ok := rc.ownedReservation(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// UpdateReservation keeps the stored value of every field sent empty or left out.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	var req reservationRequest
	if !bindJSON(c, &req) {
		return
	}
	reservation, ok := rc.ownedReservation(c)
	if !ok {
		return
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		reservation.Title = title
	}
	if d := utils.NullIfEmpty(req.Description); d != nil {
		reservation.Description = d
	}
	if req.StartTime != "" {
		start, err := parseReservationTime(req.StartTime)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		reservation.StartTime = start
	}
	if req.EndTime != "" {
		end, err := parseReservationTime(req.EndTime)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		reservation.EndTime = end
	}
	if req.Status != "" {
		if !models.ValidReservationStatus(req.Status) {
			utils.RespondError(c, http.StatusBadRequest, ErrReservationStatus)
			return
		}
		reservation.Status = req.Status
	}

	if err := rc.DB.WithContext(c.Request.Context()).Save(reservation).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservationResponse{Message: "Reservation updated successfully", Reservation: reservation})
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	reservation, ok := rc.ownedReservation(c)
	if !ok {
		return
	}
	if err := rc.DB.WithContext(c.Request.Context()).Delete(&models.Reservation{}, reservation.ID).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Reservation deleted successfully")
}

func (rc *ReservationController) ownedReservation(c *gin.Context) (*models.Reservation, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	reservation, err := rc.Owner.Reservation(c.Request.Context(), middlewares.UserID(c), id)
	if err != nil {
		respondServiceError(c, err, reservationNotFound)
		return nil, false
	}
	return reservation, true
}
