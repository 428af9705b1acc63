package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AliAmzai/Tablr/database"
	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/router"
)

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

// newTestApp serves the full API over a private in-memory SQLite database.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { sqlDB.Close() })

	return &testApp{
		t:      t,
		db:     db,
		router: router.SetupRouter(router.Options{DB: db, BcryptCost: bcrypt.MinCost}),
	}
}

// request sends body as JSON. A string body is sent verbatim.
func (a *testApp) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(a.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) signup(email string) string {
	a.t.Helper()
	w := a.request(http.MethodPost, "/api/auth/signup", "", gin.H{
		"email": email, "password": "secret123", "name": "Test User",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	decode(a.t, w, &res)
	return res.Token
}

func (a *testApp) createRestaurant(token, name string) models.Restaurant {
	a.t.Helper()
	w := a.request(http.MethodPost, "/api/restaurants", token, gin.H{"name": name})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var restaurant models.Restaurant
	decode(a.t, w, &restaurant)
	return restaurant
}

func (a *testApp) createTable(token string, floorID uint, name string) models.Table {
	a.t.Helper()
	w := a.request(http.MethodPost, "/api/tables", token, gin.H{
		"floorId": floorID, "name": name, "shape": "round", "capacity": 4,
		"x": 30, "y": 40, "width": 8, "height": 8,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var table models.Table
	decode(a.t, w, &table)
	return table
}

func (a *testApp) createEmployee(token string, restaurantID uint, name string) models.Employee {
	a.t.Helper()
	w := a.request(http.MethodPost, "/api/employees", token, gin.H{"restaurantId": restaurantID, "name": name})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var employee models.Employee
	decode(a.t, w, &employee)
	return employee
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var res struct {
		Error string `json:"error"`
	}
	decode(t, w, &res)
	return res.Error
}
