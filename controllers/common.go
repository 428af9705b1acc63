package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AliAmzai/Tablr/floorplan"
	"github.com/AliAmzai/Tablr/services"
	"github.com/AliAmzai/Tablr/utils"
)

var (
	ErrUnauthorized    = errors.New("Unauthorized")
	ErrMissingFields   = errors.New("Missing required fields")
	ErrInvalidShape    = errors.New("Invalid table shape")
	ErrInvalidStatus   = errors.New("Invalid table status")
	ErrInvalidRole     = errors.New("Invalid employee role")
	errNotFoundDefault = errors.New("Not found")
)

// paramID parses a positive numeric path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	return parseID(c, c.Param(name), name)
}

func queryID(c *gin.Context, name string) (uint, bool) {
	return parseID(c, c.Query(name), name)
}

func parseID(c *gin.Context, raw, name string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("Invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds the request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return false
	}
	return true
}

// respondServiceError maps domain errors to status codes. notFound names the missing resource.
func respondServiceError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		if notFound == "" {
			utils.RespondError(c, http.StatusNotFound, errNotFoundDefault)
			return
		}
		utils.RespondError(c, http.StatusNotFound, errors.New(notFound))
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, ErrUnauthorized)
	case errors.Is(err, services.ErrLastFloor),
		errors.Is(err, services.ErrWorkerNotInRestaurant),
		errors.Is(err, floorplan.ErrGuestNameRequired),
		errors.Is(err, floorplan.ErrUnknownAction):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrVersionConflict),
		errors.Is(err, floorplan.ErrInvalidTransition):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondInternal(c, err)
	}
}
