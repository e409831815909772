package models

import (
	"errors"
	"time"
)

// List is a named, user-owned collection of items. The owner is fixed at
// creation and ItemIDs is a back-reference set kept in insertion order; it
// must serialize so the file-backed store keeps it across restarts.
type List struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	UserID  string   `json:"user_id"`
	ItemIDs []string `json:"item_ids,omitempty"`

	// Items mirrors ItemIDs on read paths so clients get the whole list in
	// one response.
	Items []Item `json:"items"`
}

// Item belongs to exactly one list. ListID and DateAdded never change after
// creation.
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail,omitempty"`
	DateAdded time.Time `json:"date_added"`
	ListID    string    `json:"list_id"`
}

// Todo is the flat single-entity resource owned directly by a user. It does
// not interoperate with the List/Item hierarchy.
type Todo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// UserProfile is the public projection of a user; the password hash stays
// server-side.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type CreateListRequest struct {
	Name string `json:"name" validate:"required"`
}

type RenameListRequest struct {
	Name string `json:"name" validate:"required"`
}

type AddItemRequest struct {
	Title  string `json:"title" validate:"required"`
	Detail string `json:"detail"`
}

// UpdateItemRequest uses pointer fields so an absent field and an explicitly
// empty one can be told apart: nil leaves the stored value unchanged.
type UpdateItemRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=1"`
	Detail *string `json:"detail"`
}

type CreateTodoRequest struct {
	Title  string `json:"title" validate:"required"`
	Detail string `json:"detail"`
}

type UpdateTodoRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=1"`
	Detail *string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the normalized error body: a human message plus a stable
// machine-readable kind.
type ErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

const (
	ErrorKindInvalidCredentials = "invalid_credentials"
	ErrorKindUnauthenticated    = "unauthenticated"
	ErrorKindForbidden          = "forbidden"
	ErrorKindNotFound           = "not_found"
	ErrorKindValidation         = "validation"
	ErrorKindInternal           = "internal"
)

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

// ErrNotFound is returned when the addressed list, item or todo does not
// exist, including an item addressed through the wrong parent list.
var ErrNotFound = errors.New("entity not found")

// ErrForbidden is returned when the addressed entity exists but belongs to a
// different user. Handlers must never return the entity's data alongside it.
var ErrForbidden = errors.New("not authorized")

// ErrInvalidCredentials covers both an unknown username and a wrong password
// so login responses cannot be used for username enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")
