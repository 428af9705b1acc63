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

func TestCreateTableAcceptsNumericStrings(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")
	floorID := restaurant.Floors[0].ID

	w := app.request(http.MethodPost, "/api/tables", token, fmt.Sprintf(`{
		"floorId": "%d", "name": "T1", "shape": "round", "capacity": "4",
		"x": "50", "y": "25.5", "width": "8", "height": 8
	}`, floorID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var table models.Table
	decode(t, w, &table)
	assert.Equal(t, 4, table.Capacity)
	assert.Equal(t, 50.0, table.X)
	assert.Equal(t, 25.5, table.Y)
	assert.Equal(t, models.StatusAvailable, table.Status)
	assert.Equal(t, 1, table.TableNumber)
	assert.Equal(t, 1, table.Version)
	assert.Nil(t, table.WorkerID)

	second := app.createTable(token, floorID, "T2")
	assert.Equal(t, 2, second.TableNumber)
}

func TestCreateTableValidation(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")
	floorID := restaurant.Floors[0].ID

	w := app.request(http.MethodPost, "/api/tables", token, gin.H{"floorId": floorID, "name": "T1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", errorOf(t, w))

	w = app.request(http.MethodPost, "/api/tables", token, gin.H{
		"floorId": floorID, "name": "T1", "shape": "hexagon", "capacity": 4,
		"x": 10, "y": 10, "width": 8, "height": 8,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid table shape", errorOf(t, w))

	w = app.request(http.MethodPost, "/api/tables", token, gin.H{
		"floorId": 9999, "name": "T1", "shape": "round", "capacity": 4,
		"x": 10, "y": 10, "width": 8, "height": 8,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Floor not found", errorOf(t, w))

	w = app.request(http.MethodPost, "/api/tables", token, `{"floorId": "abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusOnlyUpdateKeepsLayout(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")
	table := app.createTable(token, restaurant.Floors[0].ID, "T1")

	w := app.request(http.MethodPut, fmt.Sprintf("/api/tables/%d", table.ID), token, gin.H{"status": "maintenance"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Table
	decode(t, w, &updated)
	assert.Equal(t, models.StatusMaintenance, updated.Status)
	assert.Equal(t, table.X, updated.X)
	assert.Equal(t, table.Y, updated.Y)
	assert.Equal(t, table.Width, updated.Width)
	assert.Equal(t, table.Capacity, updated.Capacity)
	assert.Equal(t, "T1", updated.Name)
	assert.Equal(t, table.Version+1, updated.Version)

	var stored models.Table
	require.NoError(t, app.db.First(&stored, table.ID).Error)
	assert.Equal(t, 30.0, stored.X)
	assert.Equal(t, models.StatusMaintenance, stored.Status)
}

func TestUpdateTableIgnoresEmptyNameAndRejectsBadStatus(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")
	table := app.createTable(token, restaurant.Floors[0].ID, "T1")
	path := fmt.Sprintf("/api/tables/%d", table.ID)

	w := app.request(http.MethodPut, path, token, gin.H{"name": "", "x": "12"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Table
	decode(t, w, &updated)
	assert.Equal(t, "T1", updated.Name)
	assert.Equal(t, 12.0, updated.X)

	w = app.request(http.MethodPut, path, token, gin.H{"status": "broken"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid table status", errorOf(t, w))
}

func TestStaleVersionConflicts(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")
	table := app.createTable(token, restaurant.Floors[0].ID, "T1")
	path := fmt.Sprintf("/api/tables/%d", table.ID)

	w := app.request(http.MethodPut, path, token, gin.H{"x": 10, "version": table.Version})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.request(http.MethodPut, path, token, gin.H{"x": 20, "version": table.Version})
	assert.Equal(t, http.StatusConflict, w.Code)

	var stored models.Table
	require.NoError(t, app.db.First(&stored, table.ID).Error)
	assert.Equal(t, 10.0, stored.X)

	// Without a version the last write wins.
	w = app.request(http.MethodPut, path, token, gin.H{"x": 20})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTableWorkerAssignment(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")
	other := app.createRestaurant(token, "Cafe")
	table := app.createTable(token, restaurant.Floors[0].ID, "T1")
	path := fmt.Sprintf("/api/tables/%d", table.ID)

	waiter := app.createEmployee(token, restaurant.ID, "Sam")
	outsider := app.createEmployee(token, other.ID, "Kim")

	w := app.request(http.MethodPut, path, token, gin.H{"workerId": outsider.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.request(http.MethodPut, path, token, gin.H{"workerId": fmt.Sprint(waiter.ID)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Table
	decode(t, w, &updated)
	require.NotNil(t, updated.WorkerID)
	assert.Equal(t, waiter.ID, *updated.WorkerID)
	require.NotNil(t, updated.Worker)
	assert.Equal(t, "Sam", updated.Worker.Name)

	w = app.request(http.MethodGet, fmt.Sprintf("/api/employees/%d", waiter.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var employee models.Employee
	decode(t, w, &employee)
	require.Len(t, employee.TableRefs, 1)
	assert.Equal(t, table.ID, employee.TableRefs[0].ID)

	w = app.request(http.MethodPut, path, token, `{"workerId": null}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.Nil(t, updated.WorkerID)
	assert.Nil(t, updated.Worker)
}

func TestTableStatusTransitions(t *testing.T) {
	app := newTestApp(t)
	token := app.signup("owner@example.com")
	restaurant := app.createRestaurant(token, "Bistro")
	table := app.createTable(token, restaurant.Floors[0].ID, "T1")
	base := fmt.Sprintf("/api/tables/%d", table.ID)

	w := app.request(http.MethodPost, base+"/seat", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.request(http.MethodPost, base+"/reserve", token, gin.H{"name": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.request(http.MethodPost, base+"/reserve", token, gin.H{"name": "Ada", "guests": "5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reserved models.Table
	decode(t, w, &reserved)
	assert.Equal(t, models.StatusReserved, reserved.Status)
	require.NotNil(t, reserved.Reservation())
	assert.Equal(t, models.TableReservation{Name: "Ada", Time: "19:00", Guests: 5}, *reserved.Reservation())

	w = app.request(http.MethodPost, base+"/reserve", token, gin.H{"name": "Bob"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.request(http.MethodPost, base+"/seat", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var seated models.Table
	decode(t, w, &seated)
	assert.Equal(t, models.StatusOccupied, seated.Status)
	assert.NotNil(t, seated.Reservation())

	w = app.request(http.MethodPost, base+"/clear", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cleared models.Table
	decode(t, w, &cleared)
	assert.Equal(t, models.StatusAvailable, cleared.Status)
	assert.Nil(t, cleared.Reservation())

	w = app.request(http.MethodPost, base+"/clear", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var stored models.Table
	require.NoError(t, app.db.First(&stored, table.ID).Error)
	assert.Equal(t, models.StatusAvailable, stored.Status)
	assert.Nil(t, stored.ReservationName)
}

func TestTablesOfAnotherUserAreNotFound(t *testing.T) {
	app := newTestApp(t)
	owner := app.signup("owner@example.com")
	stranger := app.signup("stranger@example.com")
	restaurant := app.createRestaurant(owner, "Bistro")
	table := app.createTable(owner, restaurant.Floors[0].ID, "T1")

	w := app.request(http.MethodGet, fmt.Sprintf("/api/tables/floor/%d", restaurant.Floors[0].ID), stranger, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.request(http.MethodPut, fmt.Sprintf("/api/tables/%d", table.ID), stranger, gin.H{"x": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Table not found", errorOf(t, w))

	w = app.request(http.MethodDelete, fmt.Sprintf("/api/tables/%d", table.ID), stranger, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.request(http.MethodDelete, fmt.Sprintf("/api/tables/%d", table.ID), owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.request(http.MethodGet, fmt.Sprintf("/api/tables/floor/%d", restaurant.Floors[0].ID), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = app.request(http.MethodPut, "/api/tables/abc", owner, gin.H{"x": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
