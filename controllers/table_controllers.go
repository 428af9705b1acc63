package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AliAmzai/Tablr/floorplan"
	"github.com/AliAmzai/Tablr/hub"
	"github.com/AliAmzai/Tablr/middlewares"
	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/services"
	"github.com/AliAmzai/Tablr/utils"
)

const tableNotFound = "Table not found"

type TableController struct {
	Owner  *services.Ownership
	Tables *services.TableService
	Hub    *hub.Hub
}

func NewTableController(owner *services.Ownership, tables *services.TableService, h *hub.Hub) *TableController {
	return &TableController{Owner: owner, Tables: tables, Hub: h}
}

// tableRequest accepts numbers either as JSON numbers or numeric strings.
type tableRequest struct {
	FloorID  *utils.FlexInt   `json:"floorId"`
	Name     *string          `json:"name"`
	Shape    *string          `json:"shape"`
	Capacity *utils.FlexInt   `json:"capacity"`
	Status   *string          `json:"status"`
	X        *utils.FlexFloat `json:"x"`
	Y        *utils.FlexFloat `json:"y"`
	Width    *utils.FlexFloat `json:"width"`
	Height   *utils.FlexFloat `json:"height"`
	WorkerID utils.OptionalID `json:"workerId"`
	Version  *utils.FlexInt   `json:"version"`
}

func (r *tableRequest) validateEnums() error {
	if r.Shape != nil && *r.Shape != "" && !models.ValidShape(*r.Shape) {
		return ErrInvalidShape
	}
	if r.Status != nil && *r.Status != "" && !models.ValidTableStatus(*r.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// patch keeps the partial-update rule: absent fields, and empty name, shape or status, stay untouched.
func (r *tableRequest) patch() floorplan.TablePatch {
	var p floorplan.TablePatch
	if r.Name != nil && strings.TrimSpace(*r.Name) != "" {
		name := strings.TrimSpace(*r.Name)
		p.Name = &name
	}
	if r.Shape != nil && *r.Shape != "" {
		p.Shape = r.Shape
	}
	if r.Status != nil && *r.Status != "" {
		p.Status = r.Status
	}
	if r.Capacity != nil {
		v := r.Capacity.Int()
		p.Capacity = &v
	}
	p.X = flexFloatPtr(r.X)
	p.Y = flexFloatPtr(r.Y)
	p.Width = flexFloatPtr(r.Width)
	p.Height = flexFloatPtr(r.Height)
	if r.WorkerID.Set {
		if r.WorkerID.Valid {
			p.WorkerID = r.WorkerID.Ptr()
		} else {
			p.ClearWorker = true
		}
	}
	if r.Version != nil {
		v := r.Version.Int()
		p.Version = &v
	}
	return p
}

func flexFloatPtr(f *utils.FlexFloat) *float64 {
	if f == nil {
		return nil
	}
	v := f.Float64()
	return &v
}

// GetFloorTables lists the tables of one floor.
func (tc *TableController) GetFloorTables(c *gin.Context) {
	floorID, ok := paramID(c, "floorId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := tc.Owner.Floor(ctx, middlewares.UserID(c), floorID); err != nil {
		respondServiceError(c, err, floorNotFound)
		return
	}
	tables, err := tc.Tables.List(ctx, floorID)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, tables)
}

// CreateTable requires floorId, name, shape, capacity, x, y, width and height.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req tableRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.FloorID == nil || req.Name == nil || strings.TrimSpace(*req.Name) == "" ||
		req.Shape == nil || *req.Shape == "" || req.Capacity == nil ||
		req.X == nil || req.Y == nil || req.Width == nil || req.Height == nil {
		utils.RespondError(c, http.StatusBadRequest, ErrMissingFields)
		return
	}
	if err := req.validateEnums(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	floor, err := tc.Owner.Floor(ctx, middlewares.UserID(c), uint(req.FloorID.Int()))
	if err != nil {
		respondServiceError(c, err, floorNotFound)
		return
	}

	in := floorplan.NewTable{
		FloorID:  floor.ID,
		Name:     strings.TrimSpace(*req.Name),
		Shape:    *req.Shape,
		Capacity: req.Capacity.Int(),
		X:        req.X.Float64(),
		Y:        req.Y.Float64(),
		Width:    req.Width.Float64(),
		Height:   req.Height.Float64(),
		WorkerID: req.WorkerID.Ptr(),
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	table, err := tc.Tables.Create(ctx, floor.RestaurantID, in)
	if err != nil {
		respondServiceError(c, err, floorNotFound)
		return
	}

	tc.Hub.Broadcast(floor.RestaurantID, hub.Message{Event: hub.EventTableCreate, Data: table})
	utils.InfoLogger.Printf("New table created: %s (#%d) on floor %d", table.Name, table.TableNumber, table.FloorID)
	utils.RespondJSON(c, http.StatusCreated, table)
}

// UpdateTable applies a partial patch. A stale version answers 409.
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID, ok := paramID(c, "tableId")
	if !ok {
		return
	}
	var req tableRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validateEnums(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	table, restaurantID, err := tc.Owner.Table(ctx, middlewares.UserID(c), tableID)
	if err != nil {
		respondServiceError(c, err, tableNotFound)
		return
	}
	if err := tc.Tables.Update(ctx, restaurantID, table, req.patch()); err != nil {
		respondServiceError(c, err, tableNotFound)
		return
	}

	tc.Hub.Broadcast(restaurantID, hub.Message{Event: hub.EventTableUpdate, Data: table})
	utils.RespondJSON(c, http.StatusOK, table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID, ok := paramID(c, "tableId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	table, restaurantID, err := tc.Owner.Table(ctx, middlewares.UserID(c), tableID)
	if err != nil {
		respondServiceError(c, err, tableNotFound)
		return
	}
	if err := tc.Tables.Delete(ctx, table); err != nil {
		utils.RespondInternal(c, err)
		return
	}

	tc.Hub.Broadcast(restaurantID, hub.Message{Event: hub.EventTableDelete, Data: gin.H{"id": table.ID, "floorId": table.FloorID}})
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondMessage(c, http.StatusOK, "Table deleted successfully")
}

// ReserveTable books an available table for a named guest.
func (tc *TableController) ReserveTable(c *gin.Context) {
	var req struct {
		Name   string         `json:"name"`
		Time   string         `json:"time"`
		Guests *utils.FlexInt `json:"guests"`
	}
	if !bindJSON(c, &req) {
		return
	}
	r := &models.TableReservation{Name: req.Name, Time: req.Time}
	if req.Guests != nil {
		r.Guests = req.Guests.Int()
	}
	tc.transition(c, floorplan.ActionReserve, r)
}

func (tc *TableController) SeatTable(c *gin.Context) {
	tc.transition(c, floorplan.ActionSeat, nil)
}

func (tc *TableController) ClearTable(c *gin.Context) {
	tc.transition(c, floorplan.ActionClear, nil)
}

func (tc *TableController) transition(c *gin.Context, action floorplan.Action, r *models.TableReservation) {
	tableID, ok := paramID(c, "tableId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	table, restaurantID, err := tc.Owner.Table(ctx, middlewares.UserID(c), tableID)
	if err != nil {
		respondServiceError(c, err, tableNotFound)
		return
	}
	if err := tc.Tables.Transition(ctx, restaurantID, table, action, r); err != nil {
		respondServiceError(c, err, tableNotFound)
		return
	}

	tc.Hub.Broadcast(restaurantID, hub.Message{Event: hub.EventTableUpdate, Data: table})
	utils.RespondJSON(c, http.StatusOK, table)
}
