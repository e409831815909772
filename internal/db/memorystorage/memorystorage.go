// Package memorystorage provides a purely in-memory storage backend,
// reusing the jsondb cache without the file. Used by default when neither a
// database DSN nor a storage file is configured, and by tests.
package memorystorage

import (
	"context"

	"github.com/patric-chuzhbe/todolists/internal/db/jsondb"
	"github.com/patric-chuzhbe/todolists/internal/models"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.CacheStruct{
				Users:        map[string]*user.User{},
				UsernameToID: map[string]string{},
				Lists:        map[string]*models.List{},
				ListOrder:    []string{},
				Items:        map[string]*models.Item{},
				Todos:        map[string]*models.Todo{},
				TodoOrder:    []string{},
			},
		},
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
