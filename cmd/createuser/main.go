// Command createuser provisions a user account out of band. The running API
// has no registration endpoint, so this is the only way accounts appear.
//
// Usage:
//
//	createuser -u alice -p 'password123' [-f db.json | -d <dsn>]
package main

import (
	"context"
	"flag"
	"log"

	"github.com/patric-chuzhbe/todolists/internal/db/jsondb"
	"github.com/patric-chuzhbe/todolists/internal/db/postgresdb"
	"github.com/patric-chuzhbe/todolists/internal/db/storage"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

func main() {
	username := flag.String("u", "", "username of the account to create")
	password := flag.String("p", "", "plain text password (will be hashed)")
	dbFileName := flag.String("f", "db.json", "JSON file name with database")
	databaseDSN := flag.String("d", "", "a string with the database connection details")
	migrationsDir := flag.String("m", "../todolists/migrations", "directory with goose migrations")
	connectionTimeout := flag.Duration("t", 0, "database connection timeout")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -u and -p are required")
	}

	ctx := context.Background()

	var db storage.Storage
	var err error
	if *databaseDSN != "" {
		db, err = postgresdb.New(ctx, *databaseDSN, *connectionTimeout, *migrationsDir)
	} else {
		db, err = jsondb.New(*dbFileName)
	}
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("storage close error: %v", err)
		}
	}()

	if _, found, err := db.GetUserByUsername(ctx, *username, nil); err != nil {
		log.Fatalf("username lookup error: %v", err)
	} else if found {
		log.Fatalf("user %q already exists", *username)
	}

	usr := &user.User{Username: *username}
	if err := usr.SetPassword(*password); err != nil {
		log.Fatalf("password hashing error: %v", err)
	}

	userID, err := db.CreateUser(ctx, usr, nil)
	if err != nil {
		log.Fatalf("user creation error: %v", err)
	}

	log.Printf("user %q created with id %s", *username, userID)
}
