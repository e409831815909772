// Package service implements the application operations over the storage
// layer. Every operation takes the acting user ID and enforces the ownership
// contract: lists and their items are reachable by their owner only, and
// items are always re-derived through their owning list.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/todolists/internal/models"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

type userKeeper interface {
	GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error)
}

type listKeeper interface {
	GetListsByUser(ctx context.Context, userID string) ([]models.List, error)
	GetListByID(ctx context.Context, listID string, transaction *sql.Tx) (*models.List, bool, error)
	InsertList(ctx context.Context, list *models.List, transaction *sql.Tx) error
	UpdateList(ctx context.Context, list *models.List, transaction *sql.Tx) error
	DeleteListWithItems(ctx context.Context, listID string) error
}

type itemKeeper interface {
	GetItemByID(ctx context.Context, itemID string, transaction *sql.Tx) (*models.Item, bool, error)
	GetItemsByList(ctx context.Context, listID string) ([]models.Item, error)
	InsertItem(ctx context.Context, item *models.Item, transaction *sql.Tx) error
	UpdateItem(ctx context.Context, item *models.Item, transaction *sql.Tx) error
	DeleteItem(ctx context.Context, itemID string, transaction *sql.Tx) error
}

type todoKeeper interface {
	GetTodosByUser(ctx context.Context, userID string) ([]models.Todo, error)
	GetTodoByID(ctx context.Context, todoID string, transaction *sql.Tx) (*models.Todo, bool, error)
	InsertTodo(ctx context.Context, todo *models.Todo, transaction *sql.Tx) error
	UpdateTodo(ctx context.Context, todo *models.Todo, transaction *sql.Tx) error
	DeleteTodo(ctx context.Context, todoID string, transaction *sql.Tx) error
}

type transactioner interface {
	BeginTransaction() (*sql.Tx, error)
	RollbackTransaction(transaction *sql.Tx) error
	CommitTransaction(transaction *sql.Tx) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	userKeeper
	listKeeper
	itemKeeper
	todoKeeper
	transactioner
	pinger
}

// Service carries the application operations over a storage backend.
type Service struct {
	db storage
}

// New returns a Service over the given storage backend.
func New(db storage) *Service {
	return &Service{db: db}
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// CurrentUser returns the public profile of the user, without the password
// hash.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	usr, err := s.db.GetUserByID(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if usr.ID == "" {
		return nil, models.ErrNotFound
	}

	return &models.UserProfile{ID: usr.ID, Username: usr.Username}, nil
}

// getOwnedList resolves a list and enforces the ownership contract: a
// missing list is ErrNotFound, a list owned by someone else is ErrForbidden
// and its data never leaves this function.
func (s *Service) getOwnedList(ctx context.Context, userID, listID string, transaction *sql.Tx) (*models.List, error) {
	list, found, err := s.db.GetListByID(ctx, listID, transaction)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.ErrNotFound
	}
	if list.UserID != userID {
		return nil, models.ErrForbidden
	}

	return list, nil
}

// ListAll returns every list owned by the user in creation order, with
// items populated.
func (s *Service) ListAll(ctx context.Context, userID string) ([]models.List, error) {
	lists, err := s.db.GetListsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range lists {
		items, err := s.db.GetItemsByList(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}

	return lists, nil
}

// CreateList creates a list owned by the user with an empty item set.
func (s *Service) CreateList(ctx context.Context, userID, name string) (*models.List, error) {
	list := &models.List{
		ID:      uuid.New().String(),
		Name:    name,
		UserID:  userID,
		ItemIDs: []string{},
		Items:   []models.Item{},
	}

	if err := s.db.InsertList(ctx, list, nil); err != nil {
		return nil, err
	}

	return list, nil
}

// RenameList changes the list's name. Only the name is mutable.
func (s *Service) RenameList(ctx context.Context, userID, listID, name string) (*models.List, error) {
	list, err := s.getOwnedList(ctx, userID, listID, nil)
	if err != nil {
		return nil, err
	}

	list.Name = name
	if err := s.db.UpdateList(ctx, list, nil); err != nil {
		return nil, err
	}

	items, err := s.db.GetItemsByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	list.Items = items

	return list, nil
}

// DeleteList removes the list and cascades over every contained item. The
// storage backend performs the cascade atomically.
func (s *Service) DeleteList(ctx context.Context, userID, listID string) error {
	if _, err := s.getOwnedList(ctx, userID, listID, nil); err != nil {
		return err
	}

	return s.db.DeleteListWithItems(ctx, listID)
}

// AddItem creates an item under the list and appends it to the list's item
// reference set. Insert and back-reference update share a transaction.
func (s *Service) AddItem(ctx context.Context, userID, listID, title, detail string) (*models.Item, error) {
	tx, err := s.db.BeginTransaction()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = s.db.RollbackTransaction(tx)
	}()

	list, err := s.getOwnedList(ctx, userID, listID, tx)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:        uuid.New().String(),
		Title:     title,
		Detail:    detail,
		DateAdded: time.Now().UTC(),
		ListID:    list.ID,
	}

	if err := s.db.InsertItem(ctx, item, tx); err != nil {
		return nil, err
	}

	list.ItemIDs = append(list.ItemIDs, item.ID)
	if err := s.db.UpdateList(ctx, list, tx); err != nil {
		return nil, err
	}

	if err := s.db.CommitTransaction(tx); err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateItem applies the provided fields to the item. Nil fields stay
// unchanged; a present empty detail clears it. The item is re-derived
// through the addressed list, so a mismatched list/item pair is not found.
func (s *Service) UpdateItem(ctx context.Context, userID, listID, itemID string, title, detail *string) (*models.Item, error) {
	list, err := s.getOwnedList(ctx, userID, listID, nil)
	if err != nil {
		return nil, err
	}

	item, err := s.getListItem(ctx, list, itemID, nil)
	if err != nil {
		return nil, err
	}

	if title != nil {
		item.Title = *title
	}
	if detail != nil {
		item.Detail = *detail
	}

	if err := s.db.UpdateItem(ctx, item, nil); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem removes the item and drops its id from the list's reference
// set within one transaction.
func (s *Service) DeleteItem(ctx context.Context, userID, listID, itemID string) error {
	tx, err := s.db.BeginTransaction()
	if err != nil {
		return err
	}
	defer func() {
		_ = s.db.RollbackTransaction(tx)
	}()

	list, err := s.getOwnedList(ctx, userID, listID, tx)
	if err != nil {
		return err
	}

	item, err := s.getListItem(ctx, list, itemID, tx)
	if err != nil {
		return err
	}

	if err := s.db.DeleteItem(ctx, item.ID, tx); err != nil {
		return err
	}

	list.ItemIDs = funk.FilterString(list.ItemIDs, func(id string) bool {
		return id != item.ID
	})
	if err := s.db.UpdateList(ctx, list, tx); err != nil {
		return err
	}

	return s.db.CommitTransaction(tx)
}

// getListItem resolves an item strictly through its owning list.
func (s *Service) getListItem(ctx context.Context, list *models.List, itemID string, transaction *sql.Tx) (*models.Item, error) {
	item, found, err := s.db.GetItemByID(ctx, itemID, transaction)
	if err != nil {
		return nil, err
	}
	if !found || item.ListID != list.ID {
		return nil, models.ErrNotFound
	}

	return item, nil
}

// Todos returns the user's flat todos in creation order.
func (s *Service) Todos(ctx context.Context, userID string) ([]models.Todo, error) {
	return s.db.GetTodosByUser(ctx, userID)
}

// CreateTodo creates a flat todo owned by the user.
func (s *Service) CreateTodo(ctx context.Context, userID, title, detail string) (*models.Todo, error) {
	todo := &models.Todo{
		ID:     uuid.New().String(),
		Title:  title,
		Detail: detail,
		UserID: userID,
	}

	if err := s.db.InsertTodo(ctx, todo, nil); err != nil {
		return nil, err
	}

	return todo, nil
}

// UpdateTodo applies the provided fields with the same semantics as
// UpdateItem. The flat collection collapses not-found and not-owned into
// ErrNotFound, matching the source behavior of owner-scoped lookups.
func (s *Service) UpdateTodo(ctx context.Context, userID, todoID string, title, detail *string) (*models.Todo, error) {
	todo, err := s.getOwnedTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		todo.Title = *title
	}
	if detail != nil {
		todo.Detail = *detail
	}

	if err := s.db.UpdateTodo(ctx, todo, nil); err != nil {
		return nil, err
	}

	return todo, nil
}

// DeleteTodo removes a flat todo owned by the user.
func (s *Service) DeleteTodo(ctx context.Context, userID, todoID string) error {
	todo, err := s.getOwnedTodo(ctx, userID, todoID)
	if err != nil {
		return err
	}

	return s.db.DeleteTodo(ctx, todo.ID, nil)
}

func (s *Service) getOwnedTodo(ctx context.Context, userID, todoID string) (*models.Todo, error) {
	todo, found, err := s.db.GetTodoByID(ctx, todoID, nil)
	if err != nil {
		return nil, err
	}
	if !found || todo.UserID != userID {
		return nil, models.ErrNotFound
	}

	return todo, nil
}
