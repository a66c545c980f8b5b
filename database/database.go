package database

import (
	"database/sql"
	"fmt"
	"log"

	"pelangganpro-server/models"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

var Database *DB

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Database = &DB{db}
	return Database, nil
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	// Enable pgcrypto extension for gen_random_uuid
	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`); err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	// Table creation order respects foreign key dependencies
	tables := []interface {
		TableName() string
		CreateTableSQL() string
	}{
		models.Organization{},
		models.User{},
		models.Profile{},
		models.Company{},
		models.Contact{},
		models.Pipeline{},
		models.Deal{},
		models.Task{},
		models.Ticket{},
		models.Product{},
		models.Note{},
		models.Activity{},
		models.Tag{},
		models.BroadcastTemplate{},
		models.WASession{},
		models.ContactRFM{},
		models.OrgSetting{},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.CreateTableSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.TableName(), err)
		}
		log.Printf("Table %s ready", table.TableName())
	}

	return nil
}
