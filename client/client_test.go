package client_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AliAmzai/Tablr/client"
	"github.com/AliAmzai/Tablr/database"
	"github.com/AliAmzai/Tablr/floorplan"
	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/router"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	srv := httptest.NewServer(router.SetupRouter(router.Options{DB: db, BcryptCost: bcrypt.MinCost}))
	t.Cleanup(func() {
		srv.Close()
		sqlDB.Close()
	})
	return srv
}

func signedIn(t *testing.T, srv *httptest.Server) (*client.Client, models.Restaurant) {
	t.Helper()
	ctx := context.Background()
	c := client.New(srv.URL, srv.Client())

	res, err := c.Signup(ctx, "owner@example.com", "secret123", "Owner")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, res.Token, c.Token())

	restaurant, err := c.CreateRestaurant(ctx, "Bistro")
	require.NoError(t, err)
	require.Len(t, restaurant.Floors, 1)
	return c, restaurant
}

func TestEditorAgainstServer(t *testing.T) {
	srv := newServer(t)
	c, restaurant := signedIn(t, srv)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	floorID := restaurant.Floors[0].ID
	editor := floorplan.NewEditor(c, floorID)
	require.NoError(t, editor.Refresh(ctx))
	assert.Empty(t, editor.Tables())

	created, err := editor.AddTable(ctx, models.ShapeRound, 4)
	require.NoError(t, err)
	assert.Equal(t, "T1", created.Name)
	assert.Equal(t, 1, created.TableNumber)
	assert.Equal(t, models.StatusAvailable, created.Status)
	assert.Equal(t, floorplan.NewTableSize, created.Width)

	editor.SetEditMode(true)
	require.NoError(t, editor.BeginDrag(created.ID))
	x, y, err := editor.DragTo(floorplan.Point{X: 250, Y: 990}, floorplan.Rect{Width: 1000, Height: 1000})
	require.NoError(t, err)
	assert.Equal(t, 25.0, x)
	assert.Equal(t, floorplan.MaxPercent, y)
	require.NoError(t, editor.EndDrag(ctx))

	tables, err := c.ListTables(ctx, floorID)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, 25.0, tables[0].X)
	assert.Equal(t, 95.0, tables[0].Y)
	assert.Equal(t, 2, tables[0].Version)

	editor.SetEditMode(false)
	reserved, err := editor.Reserve(ctx, created.ID, models.TableReservation{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusReserved, reserved.Status)
	require.NotNil(t, reserved.Reservation())
	assert.Equal(t, floorplan.DefaultGuests, reserved.Reservation().Guests)

	seated, err := editor.Seat(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOccupied, seated.Status)

	cleared, err := editor.Clear(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, cleared.Status)
	assert.Nil(t, cleared.Reservation())

	require.NoError(t, editor.DeleteTable(ctx, created.ID))
	tables, err = c.ListTables(ctx, floorID)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestTransitionRejectedByServerRollsBack(t *testing.T) {
	srv := newServer(t)
	c, restaurant := signedIn(t, srv)
	ctx := context.Background()

	floorID := restaurant.Floors[0].ID
	table, err := c.CreateTable(ctx, floorplan.NewTable{
		FloorID: floorID, Name: "Patio", Shape: models.ShapeSquare, Capacity: 2,
		X: 40, Y: 40, Width: 8, Height: 8,
	})
	require.NoError(t, err)

	_, err = c.TransitionTable(ctx, table.ID, floorplan.ActionSeat, nil)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	_, err = c.TransitionTable(ctx, table.ID, floorplan.Action("dance"), nil)
	assert.ErrorIs(t, err, floorplan.ErrUnknownAction)

	_, err = c.TransitionTable(ctx, table.ID, floorplan.ActionReserve, &models.TableReservation{Name: "  "})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestFloorsAndLastFloor(t *testing.T) {
	srv := newServer(t)
	c, restaurant := signedIn(t, srv)
	ctx := context.Background()

	second, err := c.CreateFloor(ctx, restaurant.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, second.FloorNumber)
	assert.Equal(t, "Floor 2", second.Name)

	floors, err := c.Floors(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Len(t, floors, 2)

	require.NoError(t, c.DeleteFloor(ctx, second.ID))

	err = c.DeleteFloor(ctx, restaurant.Floors[0].ID)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "You must have at least one floor", apiErr.Message)
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newServer(t)
	c, _ := signedIn(t, srv)
	ctx := context.Background()

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", me.Email)

	token := c.Token()
	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Token())

	c.SetToken(token)
	_, err = c.Restaurants(ctx)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = c.Login(ctx, "owner@example.com", "secret123")
	require.NoError(t, err)
	restaurants, err := c.Restaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, restaurants, 1)
}
