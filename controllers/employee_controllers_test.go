package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliAmzai/Tablr/models"
)

func TestGetEmployeesRequiresRestaurant(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")

	w := app.request(http.MethodGet, "/api/employees", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Restaurant ID is required", errorOf(t, w))

	w = app.request(http.MethodGet, "/api/employees?restaurantId=x", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAndListEmployees(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")

	w := app.request(http.MethodPost, "/api/employees", token, gin.H{"restaurantId": restaurant.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.request(http.MethodPost, "/api/employees", token, gin.H{"restaurantId": restaurant.ID, "name": "Sam", "role": "juggler"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid employee role", errorOf(t, w))

	sam := app.createEmployee(token, restaurant.ID, "Sam")
	assert.Equal(t, models.RoleWaiter, sam.Role)
	assert.NotNil(t, sam.TableRefs)

	w = app.request(http.MethodPost, "/api/employees", token, gin.H{
		"restaurantId": fmt.Sprint(restaurant.ID), "name": "Kim", "role": "chef", "email": "kim@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.request(http.MethodGet, fmt.Sprintf("/api/employees?restaurantId=%d", restaurant.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var employees []models.Employee
	decode(t, w, &employees)
	require.Len(t, employees, 2)
	assert.Equal(t, "Kim", employees[0].Name)
	assert.Equal(t, "Sam", employees[1].Name)
}

func TestEmployeeOwnership(t *testing.T) {
	app := newTestApp(t)
	owner := app.signup("owner@example.com")
	stranger := app.signup("stranger@example.com")
	restaurant := app.createRestaurant(owner, "Bistro")
	sam := app.createEmployee(owner, restaurant.ID, "Sam")
	path := fmt.Sprintf("/api/employees/%d", sam.ID)

	w := app.request(http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", errorOf(t, w))
	assert.Equal(t, http.StatusForbidden, app.request(http.MethodPut, path, stranger, gin.H{"name": "X"}).Code)
	assert.Equal(t, http.StatusForbidden, app.request(http.MethodDelete, path, stranger, nil).Code)

	w = app.request(http.MethodGet, "/api/employees/9999", owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Employee not found", errorOf(t, w))

	w = app.request(http.MethodGet, fmt.Sprintf("/api/employees?restaurantId=%d", restaurant.ID), stranger, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateEmployee(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")
	sam := app.createEmployee(token, restaurant.ID, "Sam")
	path := fmt.Sprintf("/api/employees/%d", sam.ID)

	w := app.request(http.MethodPut, path, token, gin.H{"name": "", "role": "manager", "phone": "555-0101"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Employee
	decode(t, w, &updated)
	assert.Equal(t, "Sam", updated.Name)
	assert.Equal(t, models.RoleManager, updated.Role)
	require.NotNil(t, updated.Phone)

	w = app.request(http.MethodPut, path, token, gin.H{"phone": ""})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.Nil(t, updated.Phone)
}

func TestDeleteEmployeeUnassignsTables(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")
	table := app.createTable(token, restaurant.Floors[0].ID, "T1")
	sam := app.createEmployee(token, restaurant.ID, "Sam")

	w := app.request(http.MethodPut, fmt.Sprintf("/api/tables/%d", table.ID), token, gin.H{"workerId": sam.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(http.MethodDelete, fmt.Sprintf("/api/employees/%d", sam.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Table
	require.NoError(t, app.db.First(&stored, table.ID).Error)
	assert.Nil(t, stored.WorkerID)
}
