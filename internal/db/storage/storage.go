// Package storage declares the full persistence contract of the service.
// Concrete backends live in the sibling jsondb, memorystorage and postgresdb
// packages; consumers should depend on the narrowest subset they need.
package storage

import (
	"context"
	"database/sql"

	"github.com/patric-chuzhbe/todolists/internal/models"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

// Storage is the union of everything the application can ask of a backend.
type Storage interface {
	CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error)

	GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error)

	// GetUserByUsername returns (nil, false, nil) when no such user exists;
	// an error only signals a storage failure.
	GetUserByUsername(ctx context.Context, username string, transaction *sql.Tx) (*user.User, bool, error)

	GetListsByUser(ctx context.Context, userID string) ([]models.List, error)

	GetListByID(ctx context.Context, listID string, transaction *sql.Tx) (*models.List, bool, error)

	InsertList(ctx context.Context, list *models.List, transaction *sql.Tx) error

	UpdateList(ctx context.Context, list *models.List, transaction *sql.Tx) error

	// DeleteListWithItems removes the list and every item referencing it as
	// one atomic operation.
	DeleteListWithItems(ctx context.Context, listID string) error

	GetItemByID(ctx context.Context, itemID string, transaction *sql.Tx) (*models.Item, bool, error)

	GetItemsByList(ctx context.Context, listID string) ([]models.Item, error)

	InsertItem(ctx context.Context, item *models.Item, transaction *sql.Tx) error

	UpdateItem(ctx context.Context, item *models.Item, transaction *sql.Tx) error

	DeleteItem(ctx context.Context, itemID string, transaction *sql.Tx) error

	GetTodosByUser(ctx context.Context, userID string) ([]models.Todo, error)

	GetTodoByID(ctx context.Context, todoID string, transaction *sql.Tx) (*models.Todo, bool, error)

	InsertTodo(ctx context.Context, todo *models.Todo, transaction *sql.Tx) error

	UpdateTodo(ctx context.Context, todo *models.Todo, transaction *sql.Tx) error

	DeleteTodo(ctx context.Context, todoID string, transaction *sql.Tx) error

	BeginTransaction() (*sql.Tx, error)

	RollbackTransaction(transaction *sql.Tx) error

	CommitTransaction(transaction *sql.Tx) error

	Ping(ctx context.Context) error

	Close() error
}
