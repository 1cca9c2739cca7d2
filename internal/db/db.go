package db

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var conn *sqlx.DB

func InitDB() *sqlx.DB {
	dsn := os.Getenv("ARENA_DB")
	if dsn == "" {
		dsn = "rocket_arena.db?_journal_mode=WAL"
	}

	database, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		log.Fatalln("Failed to connect to DB:", err)
	}

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database connected.")
	conn = database
	return database
}

func GetDB() *sqlx.DB {
	return conn
}
