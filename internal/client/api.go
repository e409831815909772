package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/todolists/internal/models"
)

// API wraps the HTTP surface of the todo list service. Every call is a
// single fire-and-await request; the caller patches its own state from the
// returned payload.
type API struct {
	http    *resty.Client
	session *Session
}

// NewAPI builds an API client against baseURL, authenticating with the
// session's token when one is present.
func NewAPI(baseURL string, session *Session) *API {
	return &API{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second),
		session: session,
	}
}

func (a *API) request() *resty.Request {
	req := a.http.R()
	if a.session.LoggedIn() {
		req.SetHeader("Authorization", "Bearer "+a.session.Token)
	}
	return req
}

func apiError(resp *resty.Response) error {
	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		return fmt.Errorf("%s (%s)", body.Message, body.Kind)
	}
	return fmt.Errorf("unexpected status %s", resp.Status())
}

// Login exchanges credentials for a token and saves the session.
func (a *API) Login(username, password string) error {
	var result models.LoginResponse
	resp, err := a.http.R().
		SetBody(models.LoginRequest{Username: username, Password: password}).
		SetResult(&result).
		Post("/api/auth/login")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}

	a.session.Token = result.Token
	a.session.Username = username
	a.session.CreatedAt = time.Now()

	return a.session.Save()
}

// Logout clears the session locally; tokens are not revocable server-side.
func (a *API) Logout() error {
	return a.session.Clear()
}

// CurrentUser fetches the authenticated user's profile.
func (a *API) CurrentUser() (*models.UserProfile, error) {
	var result models.UserProfile
	resp, err := a.request().SetResult(&result).Get("/api/auth/current")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &result, nil
}

// Lists fetches every list of the user, items included.
func (a *API) Lists() ([]models.List, error) {
	var result []models.List
	resp, err := a.request().SetResult(&result).Get("/api/todos")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result, nil
}

// CreateList creates a named list and returns it.
func (a *API) CreateList(name string) (*models.List, error) {
	var result models.List
	resp, err := a.request().
		SetBody(models.CreateListRequest{Name: name}).
		SetResult(&result).
		Post("/api/todos")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &result, nil
}

// RenameList changes a list's name and returns the updated list.
func (a *API) RenameList(listID, name string) (*models.List, error) {
	var result models.List
	resp, err := a.request().
		SetBody(models.RenameListRequest{Name: name}).
		SetResult(&result).
		Put("/api/todos/" + listID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &result, nil
}

// DeleteList removes a list and all of its items.
func (a *API) DeleteList(listID string) error {
	resp, err := a.request().Delete("/api/todos/" + listID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// AddItem creates an item under a list and returns it.
func (a *API) AddItem(listID, title, detail string) (*models.Item, error) {
	var result models.Item
	resp, err := a.request().
		SetBody(models.AddItemRequest{Title: title, Detail: detail}).
		SetResult(&result).
		Post("/api/todos/" + listID + "/items")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &result, nil
}

// UpdateItem edits an item's title and/or detail; nil fields stay unchanged.
func (a *API) UpdateItem(listID, itemID string, title, detail *string) (*models.Item, error) {
	var result models.Item
	resp, err := a.request().
		SetBody(models.UpdateItemRequest{Title: title, Detail: detail}).
		SetResult(&result).
		Put("/api/todos/" + listID + "/items/" + itemID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &result, nil
}

// DeleteItem removes an item from a list.
func (a *API) DeleteItem(listID, itemID string) error {
	resp, err := a.request().Delete("/api/todos/" + listID + "/items/" + itemID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}
