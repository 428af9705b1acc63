// Package client talks to the Tablr REST API. It is the persistence side of floorplan.Editor.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/AliAmzai/Tablr/floorplan"
	"github.com/AliAmzai/Tablr/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tablr: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

var _ floorplan.Store = (*Client)(nil)

// New builds a client for baseURL, e.g. "http://localhost:5000". A nil httpClient gets a 15s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type AuthResult struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// Signup registers and keeps the returned token for later calls.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Logout revokes the token on the server and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	err := c.do(ctx, http.MethodGet, "/api/restaurants", nil, &out)
	return out, err
}

func (c *Client) CreateRestaurant(ctx context.Context, name string) (models.Restaurant, error) {
	var out models.Restaurant
	err := c.do(ctx, http.MethodPost, "/api/restaurants", map[string]string{"name": name}, &out)
	return out, err
}

func (c *Client) Floors(ctx context.Context, restaurantID uint) ([]models.Floor, error) {
	var out []models.Floor
	path := "/api/floors?restaurantId=" + url.QueryEscape(fmt.Sprint(restaurantID))
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CreateFloor(ctx context.Context, restaurantID uint, name string) (models.Floor, error) {
	body := map[string]interface{}{"restaurantId": restaurantID}
	if name != "" {
		body["name"] = name
	}
	var out models.Floor
	err := c.do(ctx, http.MethodPost, "/api/floors", body, &out)
	return out, err
}

func (c *Client) DeleteFloor(ctx context.Context, floorID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/floors/%d", floorID), nil, nil)
}

func (c *Client) ListTables(ctx context.Context, floorID uint) ([]models.Table, error) {
	var out []models.Table
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tables/floor/%d", floorID), nil, &out)
	return out, err
}

func (c *Client) CreateTable(ctx context.Context, in floorplan.NewTable) (models.Table, error) {
	var out models.Table
	err := c.do(ctx, http.MethodPost, "/api/tables", in, &out)
	return out, err
}

func (c *Client) UpdateTable(ctx context.Context, tableID uint, patch floorplan.TablePatch) (models.Table, error) {
	var out models.Table
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tables/%d", tableID), patch, &out)
	return out, err
}

func (c *Client) DeleteTable(ctx context.Context, tableID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tables/%d", tableID), nil, nil)
}

// TransitionTable posts to the reserve, seat or clear endpoint of a table.
func (c *Client) TransitionTable(ctx context.Context, tableID uint, action floorplan.Action, r *models.TableReservation) (models.Table, error) {
	switch action {
	case floorplan.ActionReserve, floorplan.ActionSeat, floorplan.ActionClear:
	default:
		return models.Table{}, floorplan.ErrUnknownAction
	}
	var body interface{} = struct{}{}
	if r != nil {
		body = r
	}
	var out models.Table
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tables/%d/%s", tableID, action), body, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &e)
		msg := e.Error
		if msg == "" {
			msg = e.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
