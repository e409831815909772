// Package jsondb implements the storage contract on top of a single JSON
// file. The whole document set is cached in memory and flushed on Close.
// Transaction arguments are accepted for interface compatibility and
// ignored: every mutation happens under one lock, so multi-document
// operations such as the cascading list delete are atomic here.
package jsondb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/todolists/internal/models"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

// JSONDB is the file-backed document store.
type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

// CacheStruct is the serialized shape of the whole database.
type CacheStruct struct {
	Users        map[string]*user.User
	UsernameToID map[string]string
	Lists        map[string]*models.List
	ListOrder    []string
	Items        map[string]*models.Item
	Todos        map[string]*models.Todo
	TodoOrder    []string
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": {},
	"UsernameToID": {},
	"Lists": {},
	"ListOrder": [],
	"Items": {},
	"Todos": {},
	"TodoOrder": []
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(cacheMap)
	if err != nil {
		return err
	}

	return nil
}

// New opens (or creates) the database file and loads it into memory.
func New(fileName string) (*JSONDB, error) {
	db := JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		// a zero-byte file decodes to io.EOF; treat it like a missing one
		if !os.IsNotExist(err) && !errors.Is(err, io.EOF) {
			return nil, err
		}
		err := initDBFile(fileName)
		if err != nil {
			return nil, err
		}
		err = parseJSONFile(db.fileName, &db.Cache)
		if err != nil {
			return nil, err
		}
	}

	return &db, nil
}

// Close flushes the in-memory document set back to the file.
func (db *JSONDB) Close() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return writeToJSONFile(db.fileName, &db.Cache)
}

// Ping reports the store as healthy; there is no connection to check.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// BeginTransaction is a no-op: the lock makes mutations atomic already.
func (db *JSONDB) BeginTransaction() (*sql.Tx, error) {
	return nil, nil
}

// CommitTransaction is a no-op counterpart of BeginTransaction.
func (db *JSONDB) CommitTransaction(transaction *sql.Tx) error {
	return nil
}

// RollbackTransaction is a no-op counterpart of BeginTransaction.
func (db *JSONDB) RollbackTransaction(transaction *sql.Tx) error {
	return nil
}

// CreateUser stores usr, generating an ID when absent, and returns the ID.
func (db *JSONDB) CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}

	stored := *usr
	db.Cache.Users[usr.ID] = &stored
	if usr.Username != "" {
		db.Cache.UsernameToID[usr.Username] = usr.ID
	}

	return usr.ID, nil
}

// GetUserByID fetches a user by ID. A missing user yields a user with an
// empty ID field.
func (db *JSONDB) GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	usr, found := db.Cache.Users[userID]
	if !found {
		return &user.User{ID: ""}, nil
	}

	result := *usr

	return &result, nil
}

// GetUserByUsername fetches a user by exact username match.
func (db *JSONDB) GetUserByUsername(ctx context.Context, username string, transaction *sql.Tx) (*user.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	userID, found := db.Cache.UsernameToID[username]
	if !found {
		return nil, false, nil
	}
	usr, found := db.Cache.Users[userID]
	if !found {
		return nil, false, nil
	}

	result := *usr

	return &result, true, nil
}

// GetListsByUser returns the user's lists in creation order.
func (db *JSONDB) GetListsByUser(ctx context.Context, userID string) ([]models.List, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := []models.List{}
	for _, listID := range db.Cache.ListOrder {
		list, found := db.Cache.Lists[listID]
		if !found || list.UserID != userID {
			continue
		}
		result = append(result, copyList(list))
	}

	return result, nil
}

// GetListByID fetches a single list regardless of owner.
func (db *JSONDB) GetListByID(ctx context.Context, listID string, transaction *sql.Tx) (*models.List, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	list, found := db.Cache.Lists[listID]
	if !found {
		return nil, false, nil
	}

	result := copyList(list)

	return &result, true, nil
}

// InsertList stores a new list and appends it to the creation order.
func (db *JSONDB) InsertList(ctx context.Context, list *models.List, transaction *sql.Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := copyList(list)
	db.Cache.Lists[list.ID] = &stored
	db.Cache.ListOrder = append(db.Cache.ListOrder, list.ID)

	return nil
}

// UpdateList replaces the stored list with the given one.
func (db *JSONDB) UpdateList(ctx context.Context, list *models.List, transaction *sql.Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := copyList(list)
	db.Cache.Lists[list.ID] = &stored

	return nil
}

// DeleteListWithItems removes the list, its order entry and every item that
// references it, all under one lock.
func (db *JSONDB) DeleteListWithItems(ctx context.Context, listID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for itemID, item := range db.Cache.Items {
		if item.ListID == listID {
			delete(db.Cache.Items, itemID)
		}
	}
	delete(db.Cache.Lists, listID)

	order := db.Cache.ListOrder[:0]
	for _, id := range db.Cache.ListOrder {
		if id != listID {
			order = append(order, id)
		}
	}
	db.Cache.ListOrder = order

	return nil
}

// GetItemByID fetches a single item regardless of its list.
func (db *JSONDB) GetItemByID(ctx context.Context, itemID string, transaction *sql.Tx) (*models.Item, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	item, found := db.Cache.Items[itemID]
	if !found {
		return nil, false, nil
	}

	result := *item

	return &result, true, nil
}

// GetItemsByList returns the list's items in the order of its reference set.
func (db *JSONDB) GetItemsByList(ctx context.Context, listID string) ([]models.Item, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	list, found := db.Cache.Lists[listID]
	if !found {
		return []models.Item{}, nil
	}

	result := []models.Item{}
	for _, itemID := range list.ItemIDs {
		item, found := db.Cache.Items[itemID]
		if !found {
			continue
		}
		result = append(result, *item)
	}

	return result, nil
}

// InsertItem stores a new item.
func (db *JSONDB) InsertItem(ctx context.Context, item *models.Item, transaction *sql.Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *item
	db.Cache.Items[item.ID] = &stored

	return nil
}

// UpdateItem replaces the stored item with the given one.
func (db *JSONDB) UpdateItem(ctx context.Context, item *models.Item, transaction *sql.Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *item
	db.Cache.Items[item.ID] = &stored

	return nil
}

// DeleteItem removes a single item.
func (db *JSONDB) DeleteItem(ctx context.Context, itemID string, transaction *sql.Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.Cache.Items, itemID)

	return nil
}

// GetTodosByUser returns the user's flat todos in creation order.
func (db *JSONDB) GetTodosByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := []models.Todo{}
	for _, todoID := range db.Cache.TodoOrder {
		todo, found := db.Cache.Todos[todoID]
		if !found || todo.UserID != userID {
			continue
		}
		result = append(result, *todo)
	}

	return result, nil
}

// GetTodoByID fetches a single flat todo regardless of owner.
func (db *JSONDB) GetTodoByID(ctx context.Context, todoID string, transaction *sql.Tx) (*models.Todo, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	todo, found := db.Cache.Todos[todoID]
	if !found {
		return nil, false, nil
	}

	result := *todo

	return &result, true, nil
}

// InsertTodo stores a new flat todo.
func (db *JSONDB) InsertTodo(ctx context.Context, todo *models.Todo, transaction *sql.Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *todo
	db.Cache.Todos[todo.ID] = &stored
	db.Cache.TodoOrder = append(db.Cache.TodoOrder, todo.ID)

	return nil
}

// UpdateTodo replaces the stored todo with the given one.
func (db *JSONDB) UpdateTodo(ctx context.Context, todo *models.Todo, transaction *sql.Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *todo
	db.Cache.Todos[todo.ID] = &stored

	return nil
}

// DeleteTodo removes a single flat todo and its order entry.
func (db *JSONDB) DeleteTodo(ctx context.Context, todoID string, transaction *sql.Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.Cache.Todos, todoID)

	order := db.Cache.TodoOrder[:0]
	for _, id := range db.Cache.TodoOrder {
		if id != todoID {
			order = append(order, id)
		}
	}
	db.Cache.TodoOrder = order

	return nil
}

func copyList(list *models.List) models.List {
	result := *list
	result.ItemIDs = append([]string{}, list.ItemIDs...)
	result.Items = nil

	return result
}
