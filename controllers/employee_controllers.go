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

const employeeNotFound = "Employee not found"

var (
	ErrRestaurantIDRequired = errors.New("Restaurant ID is required")
	ErrEmployeeFields       = errors.New("Restaurant ID and name are required")
)

type EmployeeController struct {
	DB     *gorm.DB
	Owner  *services.Ownership
	Tables *services.TableService
}

func NewEmployeeController(db *gorm.DB, owner *services.Ownership, tables *services.TableService) *EmployeeController {
	return &EmployeeController{DB: db, Owner: owner, Tables: tables}
}

// GetEmployees lists the staff of ?restaurantId=, newest first.
func (ec *EmployeeController) GetEmployees(c *gin.Context) {
	if c.Query("restaurantId") == "" {
		utils.RespondError(c, http.StatusBadRequest, ErrRestaurantIDRequired)
		return
	}
	restaurantID, ok := queryID(c, "restaurantId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := ec.Owner.Restaurant(ctx, middlewares.UserID(c), restaurantID); err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return
	}

	employees := []models.Employee{}
	err := ec.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").Order("id DESC").
		Find(&employees).Error
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	if err := ec.Tables.AttachTableRefs(ctx, employees); err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, employees)
}

// GetEmployee answers 404 for an unknown id and 403 for another user's employee.
func (ec *EmployeeController) GetEmployee(c *gin.Context) {
	employee, ok := ec.ownedEmployee(c)
	if !ok {
		return
	}
	ec.respondEmployee(c, http.StatusOK, employee)
}

func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var req struct {
		RestaurantID *utils.FlexInt `json:"restaurantId"`
		Name         *string        `json:"name"`
		Email        *string        `json:"email"`
		Phone        *string        `json:"phone"`
		Role         *string        `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.RestaurantID == nil || req.RestaurantID.Int() <= 0 || req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, ErrEmployeeFields)
		return
	}
	role := models.RoleWaiter
	if req.Role != nil && *req.Role != "" {
		if !models.ValidRole(*req.Role) {
			utils.RespondError(c, http.StatusBadRequest, ErrInvalidRole)
			return
		}
		role = *req.Role
	}

	ctx := c.Request.Context()
	restaurant, err := ec.Owner.Restaurant(ctx, middlewares.UserID(c), uint(req.RestaurantID.Int()))
	if err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return
	}

	employee := models.Employee{
		RestaurantID: restaurant.ID,
		Name:         strings.TrimSpace(*req.Name),
		Email:        utils.NullIfEmpty(req.Email),
		Phone:        utils.NullIfEmpty(req.Phone),
		Role:         role,
	}
	if err := ec.DB.WithContext(ctx).Create(&employee).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	employee.TableRefs = []models.TableSummary{}

	utils.InfoLogger.Printf("Employee %d (%s) added to restaurant %d", employee.ID, employee.Role, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, employee)
}

// UpdateEmployee overwrites supplied fields; an empty name or role is ignored, empty contact fields become null.
func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
		Role  *string `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Role != nil && *req.Role != "" && !models.ValidRole(*req.Role) {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidRole)
		return
	}

	employee, ok := ec.ownedEmployee(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = utils.NullIfEmpty(req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = utils.NullIfEmpty(req.Phone)
	}
	if req.Role != nil && *req.Role != "" {
		updates["role"] = *req.Role
	}

	ctx := c.Request.Context()
	if len(updates) > 0 {
		if err := ec.DB.WithContext(ctx).Model(employee).Updates(updates).Error; err != nil {
			utils.RespondInternal(c, err)
			return
		}
	}
	if err := ec.DB.WithContext(ctx).First(employee, employee.ID).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	ec.respondEmployee(c, http.StatusOK, employee)
}

// DeleteEmployee removes the employee; assigned tables keep existing without a worker.
func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	employee, ok := ec.ownedEmployee(c)
	if !ok {
		return
	}
	err := ec.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Table{}).Where("worker_id = ?", employee.ID).Update("worker_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Employee{}, employee.ID).Error
	})
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.InfoLogger.Printf("Employee %d deleted", employee.ID)
	utils.RespondMessage(c, http.StatusOK, "Employee deleted successfully")
}

func (ec *EmployeeController) ownedEmployee(c *gin.Context) (*models.Employee, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	employee, err := ec.Owner.Employee(c.Request.Context(), middlewares.UserID(c), id)
	if err != nil {
		respondServiceError(c, err, employeeNotFound)
		return nil, false
	}
	return employee, true
}

func (ec *EmployeeController) respondEmployee(c *gin.Context, code int, employee *models.Employee) {
	one := []models.Employee{*employee}
	if err := ec.Tables.AttachTableRefs(c.Request.Context(), one); err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, code, one[0])
}
