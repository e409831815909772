// Package mockstorage provides a testify-based mock implementation
// of the storage interfaces used by the service and router packages.
// It is used for unit testing HTTP handlers by simulating storage behavior.
package mockstorage

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/todolists/internal/models"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

// StorageMock is a testify mock that implements the full storage contract.
//
// Use it in router and service tests to simulate database behavior.
type StorageMock struct {
	mock.Mock
}

// Ping mocks a storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// BeginTransaction mocks the beginning of a transaction.
func (m *StorageMock) BeginTransaction() (*sql.Tx, error) {
	args := m.Called()
	tx, _ := args.Get(0).(*sql.Tx)
	return tx, args.Error(1)
}

// CommitTransaction mocks committing a transaction.
func (m *StorageMock) CommitTransaction(tx *sql.Tx) error {
	args := m.Called(tx)
	return args.Error(0)
}

// RollbackTransaction mocks rolling back a transaction.
func (m *StorageMock) RollbackTransaction(tx *sql.Tx) error {
	args := m.Called(tx)
	return args.Error(0)
}

// CreateUser mocks user creation and returns a generated ID.
func (m *StorageMock) CreateUser(ctx context.Context, usr *user.User, tx *sql.Tx) (string, error) {
	args := m.Called(ctx, usr, tx)
	return args.String(0), args.Error(1)
}

// GetUserByID mocks fetching a user by their ID.
func (m *StorageMock) GetUserByID(ctx context.Context, userID string, tx *sql.Tx) (*user.User, error) {
	args := m.Called(ctx, userID, tx)
	return args.Get(0).(*user.User), args.Error(1)
}

// GetUserByUsername mocks the exact-match username lookup.
func (m *StorageMock) GetUserByUsername(ctx context.Context, username string, tx *sql.Tx) (*user.User, bool, error) {
	args := m.Called(ctx, username, tx)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// GetListsByUser mocks fetching a user's lists.
func (m *StorageMock) GetListsByUser(ctx context.Context, userID string) ([]models.List, error) {
	args := m.Called(ctx, userID)
	lists, _ := args.Get(0).([]models.List)
	return lists, args.Error(1)
}

// GetListByID mocks fetching a single list.
func (m *StorageMock) GetListByID(ctx context.Context, listID string, tx *sql.Tx) (*models.List, bool, error) {
	args := m.Called(ctx, listID, tx)
	list, _ := args.Get(0).(*models.List)
	return list, args.Bool(1), args.Error(2)
}

// InsertList mocks list creation.
func (m *StorageMock) InsertList(ctx context.Context, list *models.List, tx *sql.Tx) error {
	args := m.Called(ctx, list, tx)
	return args.Error(0)
}

// UpdateList mocks list mutation.
func (m *StorageMock) UpdateList(ctx context.Context, list *models.List, tx *sql.Tx) error {
	args := m.Called(ctx, list, tx)
	return args.Error(0)
}

// DeleteListWithItems mocks the atomic cascading delete.
func (m *StorageMock) DeleteListWithItems(ctx context.Context, listID string) error {
	args := m.Called(ctx, listID)
	return args.Error(0)
}

// GetItemByID mocks fetching a single item.
func (m *StorageMock) GetItemByID(ctx context.Context, itemID string, tx *sql.Tx) (*models.Item, bool, error) {
	args := m.Called(ctx, itemID, tx)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Bool(1), args.Error(2)
}

// GetItemsByList mocks fetching a list's items.
func (m *StorageMock) GetItemsByList(ctx context.Context, listID string) ([]models.Item, error) {
	args := m.Called(ctx, listID)
	items, _ := args.Get(0).([]models.Item)
	return items, args.Error(1)
}

// InsertItem mocks item creation.
func (m *StorageMock) InsertItem(ctx context.Context, item *models.Item, tx *sql.Tx) error {
	args := m.Called(ctx, item, tx)
	return args.Error(0)
}

// UpdateItem mocks item mutation.
func (m *StorageMock) UpdateItem(ctx context.Context, item *models.Item, tx *sql.Tx) error {
	args := m.Called(ctx, item, tx)
	return args.Error(0)
}

// DeleteItem mocks single-item deletion.
func (m *StorageMock) DeleteItem(ctx context.Context, itemID string, tx *sql.Tx) error {
	args := m.Called(ctx, itemID, tx)
	return args.Error(0)
}

// GetTodosByUser mocks fetching the flat todo collection.
func (m *StorageMock) GetTodosByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	args := m.Called(ctx, userID)
	todos, _ := args.Get(0).([]models.Todo)
	return todos, args.Error(1)
}

// GetTodoByID mocks fetching a single flat todo.
func (m *StorageMock) GetTodoByID(ctx context.Context, todoID string, tx *sql.Tx) (*models.Todo, bool, error) {
	args := m.Called(ctx, todoID, tx)
	todo, _ := args.Get(0).(*models.Todo)
	return todo, args.Bool(1), args.Error(2)
}

// InsertTodo mocks flat todo creation.
func (m *StorageMock) InsertTodo(ctx context.Context, todo *models.Todo, tx *sql.Tx) error {
	args := m.Called(ctx, todo, tx)
	return args.Error(0)
}

// UpdateTodo mocks flat todo mutation.
func (m *StorageMock) UpdateTodo(ctx context.Context, todo *models.Todo, tx *sql.Tx) error {
	args := m.Called(ctx, todo, tx)
	return args.Error(0)
}

// DeleteTodo mocks flat todo deletion.
func (m *StorageMock) DeleteTodo(ctx context.Context, todoID string, tx *sql.Tx) error {
	args := m.Called(ctx, todoID, tx)
	return args.Error(0)
}

// Close mocks closing the storage and releasing resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
