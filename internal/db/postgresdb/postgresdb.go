// Package postgresdb provides a PostgreSQL-based implementation of the
// storage contract for users, todo lists, items and flat todos.
// Schema management runs through goose migrations at startup.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/patric-chuzhbe/todolists/internal/models"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

// PostgresDB is a PostgreSQL-backed implementation of the storage contract.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset drops all public tables before running migrations.
// Intended for test setups.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil, fmt.Errorf("error while `result.resetDB()` calling: %w", err)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("error while `goose.SetDialect()` calling: %w", err)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil, fmt.Errorf("error while `goose.Up()` calling: %w", err)
	}

	return result, nil
}

func (db *PostgresDB) queryerFor(transaction *sql.Tx) queryer {
	if transaction == nil {
		return db.database
	}
	return transaction
}

func (db *PostgresDB) executorFor(transaction *sql.Tx) executor {
	if transaction == nil {
		return db.database
	}
	return transaction
}

// CreateUser inserts a new user record and returns its ID.
func (db *PostgresDB) CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error) {
	row := db.queryerFor(transaction).QueryRowContext(
		ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`,
		usr.Username,
		usr.PasswordHash,
	)
	var userIDFromDB string
	err := row.Scan(&userIDFromDB)
	if err != nil {
		return "", err
	}
	usr.ID = userIDFromDB

	return userIDFromDB, nil
}

// GetUserByID fetches a user by their UUID.
// If the user does not exist, it returns a user with an empty ID field.
func (db *PostgresDB) GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error) {
	if userID == "" {
		return &user.User{ID: ""}, nil
	}

	row := db.queryerFor(transaction).QueryRowContext(
		ctx,
		`SELECT id, username, password_hash FROM users WHERE id = $1`,
		userID,
	)
	result := &user.User{}
	err := row.Scan(&result.ID, &result.Username, &result.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &user.User{ID: ""}, nil
		}
		return &user.User{ID: ""}, err
	}

	return result, nil
}

// GetUserByUsername fetches a user by exact username match.
func (db *PostgresDB) GetUserByUsername(ctx context.Context, username string, transaction *sql.Tx) (*user.User, bool, error) {
	row := db.queryerFor(transaction).QueryRowContext(
		ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`,
		username,
	)
	result := &user.User{}
	err := row.Scan(&result.ID, &result.Username, &result.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return result, true, nil
}

// GetListsByUser returns the user's lists in creation order, with the item
// reference sets populated.
func (db *PostgresDB) GetListsByUser(ctx context.Context, userID string) ([]models.List, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, name, user_id FROM todo_lists WHERE user_id = $1 ORDER BY seq`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.List{}
	for rows.Next() {
		var list models.List
		if err := rows.Scan(&list.ID, &list.Name, &list.UserID); err != nil {
			return nil, err
		}
		result = append(result, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := db.GetItemsByList(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			result[i].ItemIDs = append(result[i].ItemIDs, item.ID)
		}
	}

	return result, nil
}

// GetListByID fetches a single list with its item reference set.
func (db *PostgresDB) GetListByID(ctx context.Context, listID string, transaction *sql.Tx) (*models.List, bool, error) {
	row := db.queryerFor(transaction).QueryRowContext(
		ctx,
		`SELECT id, name, user_id FROM todo_lists WHERE id = $1`,
		listID,
	)
	result := &models.List{}
	err := row.Scan(&result.ID, &result.Name, &result.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	rows, err := db.queryerFor(transaction).QueryContext(
		ctx,
		`SELECT id FROM todo_list_items WHERE list_id = $1 ORDER BY seq`,
		listID,
	)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		if err := rows.Scan(&itemID); err != nil {
			return nil, false, err
		}
		result.ItemIDs = append(result.ItemIDs, itemID)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	return result, true, nil
}

// InsertList stores a new list.
func (db *PostgresDB) InsertList(ctx context.Context, list *models.List, transaction *sql.Tx) error {
	_, err := db.executorFor(transaction).ExecContext(
		ctx,
		`INSERT INTO todo_lists (id, name, user_id) VALUES ($1, $2, $3)`,
		list.ID,
		list.Name,
		list.UserID,
	)

	return err
}

// UpdateList updates the mutable fields of a list. Owner and ID are fixed.
func (db *PostgresDB) UpdateList(ctx context.Context, list *models.List, transaction *sql.Tx) error {
	_, err := db.executorFor(transaction).ExecContext(
		ctx,
		`UPDATE todo_lists SET name = $2 WHERE id = $1`,
		list.ID,
		list.Name,
	)

	return err
}

// DeleteListWithItems removes the list and all of its items inside one
// transaction, so a crash cannot orphan items.
func (db *PostgresDB) DeleteListWithItems(ctx context.Context, listID string) error {
	transaction, err := db.database.Begin()
	if err != nil {
		return err
	}

	_, err = transaction.ExecContext(
		ctx,
		`DELETE FROM todo_list_items WHERE list_id = $1`,
		listID,
	)
	if err != nil {
		if err2 := transaction.Rollback(); err2 != nil {
			return err2
		}
		return err
	}

	_, err = transaction.ExecContext(
		ctx,
		`DELETE FROM todo_lists WHERE id = $1`,
		listID,
	)
	if err != nil {
		if err2 := transaction.Rollback(); err2 != nil {
			return err2
		}
		return err
	}

	return transaction.Commit()
}

// GetItemByID fetches a single item.
func (db *PostgresDB) GetItemByID(ctx context.Context, itemID string, transaction *sql.Tx) (*models.Item, bool, error) {
	row := db.queryerFor(transaction).QueryRowContext(
		ctx,
		`SELECT id, title, detail, date_added, list_id FROM todo_list_items WHERE id = $1`,
		itemID,
	)
	result := &models.Item{}
	err := row.Scan(&result.ID, &result.Title, &result.Detail, &result.DateAdded, &result.ListID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return result, true, nil
}

// GetItemsByList returns the list's items in insertion order.
func (db *PostgresDB) GetItemsByList(ctx context.Context, listID string) ([]models.Item, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, title, detail, date_added, list_id FROM todo_list_items WHERE list_id = $1 ORDER BY seq`,
		listID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Detail, &item.DateAdded, &item.ListID); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// InsertItem stores a new item.
func (db *PostgresDB) InsertItem(ctx context.Context, item *models.Item, transaction *sql.Tx) error {
	_, err := db.executorFor(transaction).ExecContext(
		ctx,
		`INSERT INTO todo_list_items (id, title, detail, date_added, list_id) VALUES ($1, $2, $3, $4, $5)`,
		item.ID,
		item.Title,
		item.Detail,
		item.DateAdded,
		item.ListID,
	)

	return err
}

// UpdateItem updates the mutable fields of an item. ListID and DateAdded
// are fixed at creation.
func (db *PostgresDB) UpdateItem(ctx context.Context, item *models.Item, transaction *sql.Tx) error {
	_, err := db.executorFor(transaction).ExecContext(
		ctx,
		`UPDATE todo_list_items SET title = $2, detail = $3 WHERE id = $1`,
		item.ID,
		item.Title,
		item.Detail,
	)

	return err
}

// DeleteItem removes a single item.
func (db *PostgresDB) DeleteItem(ctx context.Context, itemID string, transaction *sql.Tx) error {
	_, err := db.executorFor(transaction).ExecContext(
		ctx,
		`DELETE FROM todo_list_items WHERE id = $1`,
		itemID,
	)

	return err
}

// GetTodosByUser returns the user's flat todos in creation order.
func (db *PostgresDB) GetTodosByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, title, detail, user_id FROM todos WHERE user_id = $1 ORDER BY seq`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Todo{}
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Detail, &todo.UserID); err != nil {
			return nil, err
		}
		result = append(result, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// GetTodoByID fetches a single flat todo.
func (db *PostgresDB) GetTodoByID(ctx context.Context, todoID string, transaction *sql.Tx) (*models.Todo, bool, error) {
	row := db.queryerFor(transaction).QueryRowContext(
		ctx,
		`SELECT id, title, detail, user_id FROM todos WHERE id = $1`,
		todoID,
	)
	result := &models.Todo{}
	err := row.Scan(&result.ID, &result.Title, &result.Detail, &result.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return result, true, nil
}

// InsertTodo stores a new flat todo.
func (db *PostgresDB) InsertTodo(ctx context.Context, todo *models.Todo, transaction *sql.Tx) error {
	_, err := db.executorFor(transaction).ExecContext(
		ctx,
		`INSERT INTO todos (id, title, detail, user_id) VALUES ($1, $2, $3, $4)`,
		todo.ID,
		todo.Title,
		todo.Detail,
		todo.UserID,
	)

	return err
}

// UpdateTodo updates the mutable fields of a flat todo.
func (db *PostgresDB) UpdateTodo(ctx context.Context, todo *models.Todo, transaction *sql.Tx) error {
	_, err := db.executorFor(transaction).ExecContext(
		ctx,
		`UPDATE todos SET title = $2, detail = $3 WHERE id = $1`,
		todo.ID,
		todo.Title,
		todo.Detail,
	)

	return err
}

// DeleteTodo removes a single flat todo.
func (db *PostgresDB) DeleteTodo(ctx context.Context, todoID string, transaction *sql.Tx) error {
	_, err := db.executorFor(transaction).ExecContext(
		ctx,
		`DELETE FROM todos WHERE id = $1`,
		todoID,
	)

	return err
}

// CommitTransaction commits the given SQL transaction.
func (db *PostgresDB) CommitTransaction(transaction *sql.Tx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred while committing transaction: %v", r)
		}
	}()

	return transaction.Commit()
}

// RollbackTransaction rolls back the given SQL transaction.
func (db *PostgresDB) RollbackTransaction(transaction *sql.Tx) error {
	return transaction.Rollback()
}

// BeginTransaction starts a new SQL transaction and returns it.
// The caller is responsible for committing or rolling it back.
func (db *PostgresDB) BeginTransaction() (*sql.Tx, error) {
	return db.database.Begin()
}

// Ping verifies connectivity with the database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf("error while `db.database.ExecContext()` calling: %w", err)
	}
	return nil
}
