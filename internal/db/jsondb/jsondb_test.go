package jsondb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/todolists/internal/models"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

const (
	testDBFileName = "db_test.json"
)

func Test(t *testing.T) {
	t.Run("The base jsondb package test", func(t *testing.T) {
		theStorage, err := New(testDBFileName)
		require.NoError(t, err)
		require.NotNil(t, theStorage)
		defer func() {
			err := theStorage.Close()
			require.NoError(t, err)
			err = os.Remove(testDBFileName)
			require.NoError(t, err)
		}()

		userID, err := theStorage.CreateUser(
			context.Background(),
			&user.User{Username: "alice"},
			nil,
		)
		assert.NoError(t, err)
		assert.NotEmpty(t, userID)

		usr, err := theStorage.GetUserByID(context.Background(), userID, nil)
		assert.NoError(t, err)
		assert.Equal(t, "alice", usr.Username)

		usr, err = theStorage.GetUserByID(context.Background(), "nonexistent", nil)
		assert.NoError(t, err)
		assert.Equal(t, "", usr.ID, "A missing user should yield an empty ID")

		usr, found, err := theStorage.GetUserByUsername(context.Background(), "alice", nil)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, userID, usr.ID)

		_, found, err = theStorage.GetUserByUsername(context.Background(), "bob", nil)
		assert.NoError(t, err)
		assert.False(t, found)

		err = theStorage.InsertList(
			context.Background(),
			&models.List{ID: "list-1", Name: "groceries", UserID: userID, ItemIDs: []string{}},
			nil,
		)
		assert.NoError(t, err)
		err = theStorage.InsertList(
			context.Background(),
			&models.List{ID: "list-2", Name: "chores", UserID: userID, ItemIDs: []string{}},
			nil,
		)
		assert.NoError(t, err)

		lists, err := theStorage.GetListsByUser(context.Background(), userID)
		assert.NoError(t, err)
		require.Len(t, lists, 2)
		assert.Equal(
			t,
			[]string{"groceries", "chores"},
			[]string{lists[0].Name, lists[1].Name},
			"Lists should come back in creation order",
		)

		list, found, err := theStorage.GetListByID(context.Background(), "list-1", nil)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "groceries", list.Name)

		_, found, err = theStorage.GetListByID(context.Background(), "nonexistent", nil)
		assert.NoError(t, err)
		assert.False(t, found)

		err = theStorage.InsertItem(
			context.Background(),
			&models.Item{ID: "item-1", Title: "milk", ListID: "list-1"},
			nil,
		)
		assert.NoError(t, err)
		err = theStorage.InsertItem(
			context.Background(),
			&models.Item{ID: "item-2", Title: "bread", ListID: "list-1"},
			nil,
		)
		assert.NoError(t, err)

		list.ItemIDs = []string{"item-1", "item-2"}
		err = theStorage.UpdateList(context.Background(), list, nil)
		assert.NoError(t, err)

		items, err := theStorage.GetItemsByList(context.Background(), "list-1")
		assert.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "milk", items[0].Title)
		assert.Equal(t, "bread", items[1].Title)

		// cascade: list, order entry and items all go at once
		err = theStorage.DeleteListWithItems(context.Background(), "list-1")
		assert.NoError(t, err)

		_, found, err = theStorage.GetListByID(context.Background(), "list-1", nil)
		assert.NoError(t, err)
		assert.False(t, found)
		_, found, err = theStorage.GetItemByID(context.Background(), "item-1", nil)
		assert.NoError(t, err)
		assert.False(t, found)
		_, found, err = theStorage.GetItemByID(context.Background(), "item-2", nil)
		assert.NoError(t, err)
		assert.False(t, found)

		lists, err = theStorage.GetListsByUser(context.Background(), userID)
		assert.NoError(t, err)
		require.Len(t, lists, 1)
		assert.Equal(t, "chores", lists[0].Name)

		err = theStorage.InsertTodo(
			context.Background(),
			&models.Todo{ID: "todo-1", Title: "call dentist", UserID: userID},
			nil,
		)
		assert.NoError(t, err)
		err = theStorage.InsertTodo(
			context.Background(),
			&models.Todo{ID: "todo-2", Title: "water plants", UserID: userID},
			nil,
		)
		assert.NoError(t, err)

		todos, err := theStorage.GetTodosByUser(context.Background(), userID)
		assert.NoError(t, err)
		require.Len(t, todos, 2)
		assert.Equal(t, "call dentist", todos[0].Title)

		todo, found, err := theStorage.GetTodoByID(context.Background(), "todo-1", nil)
		assert.NoError(t, err)
		assert.True(t, found)
		todo.Title = "cancel dentist"
		err = theStorage.UpdateTodo(context.Background(), todo, nil)
		assert.NoError(t, err)

		err = theStorage.DeleteTodo(context.Background(), "todo-2", nil)
		assert.NoError(t, err)

		todos, err = theStorage.GetTodosByUser(context.Background(), userID)
		assert.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, "cancel dentist", todos[0].Title)

		err = theStorage.Ping(context.Background())
		assert.NoError(t, err, "The jsondb.Ping() should not return error")

		err = theStorage.Close()
		assert.NoError(t, err, "The jsondb.Close() should not return error")
	})
}

func TestEmptyFileTreatedAsNew(t *testing.T) {
	const fileName = "db_empty_test.json"
	require.NoError(t, os.WriteFile(fileName, nil, 0644))
	defer func() {
		require.NoError(t, os.Remove(fileName))
	}()

	theStorage, err := New(fileName)
	require.NoError(t, err, "A pre-existing zero-byte file should be initialized, not rejected")

	userID, err := theStorage.CreateUser(
		context.Background(),
		&user.User{Username: "alice"},
		nil,
	)
	require.NoError(t, err)
	assert.NotEmpty(t, userID)
	require.NoError(t, theStorage.Close())
}

func TestReopenKeepsData(t *testing.T) {
	const fileName = "db_reopen_test.json"
	defer func() {
		err := os.Remove(fileName)
		require.NoError(t, err)
	}()

	theStorage, err := New(fileName)
	require.NoError(t, err)

	userID, err := theStorage.CreateUser(
		context.Background(),
		&user.User{Username: "alice", PasswordHash: "$2a$10$stub"},
		nil,
	)
	require.NoError(t, err)
	err = theStorage.InsertList(
		context.Background(),
		&models.List{ID: "list-1", Name: "groceries", UserID: userID, ItemIDs: []string{"item-1"}},
		nil,
	)
	require.NoError(t, err)
	err = theStorage.InsertItem(
		context.Background(),
		&models.Item{ID: "item-1", Title: "milk", ListID: "list-1"},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, theStorage.Close())

	reopened, err := New(fileName)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	usr, found, err := reopened.GetUserByUsername(context.Background(), "alice", nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "$2a$10$stub", usr.PasswordHash, "The password hash must survive the save/load cycle")

	lists, err := reopened.GetListsByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "groceries", lists[0].Name)

	items, err := reopened.GetItemsByList(context.Background(), "list-1")
	require.NoError(t, err)
	require.Len(t, items, 1, "The item reference set must survive the save/load cycle")
	assert.Equal(t, "milk", items[0].Title)
}
