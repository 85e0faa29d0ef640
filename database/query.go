/*
 * Copyright (c) Joseph Prichard 2024
 */

package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"sketchparty/game"
)

// Open connects to the word bank using the sqlite3 or postgres driver
func Open(driver string, dsn string) (*sqlx.DB, error) {
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported db driver %s", driver)
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// create the word bank schema if it does not exist yet
func CreateSchema(db *sqlx.DB) {
	query := `
		CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			word TEXT NOT NULL,
			category TEXT NOT NULL,
			points INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_words_category ON words (category);`

	_ = db.MustExec(query)
}

// inserts a word, generating an id for it if it has none
func InsertWord(db *sqlx.DB, word game.Word) (game.Word, error) {
	if word.ID == "" {
		word.ID = uuid.NewString()
	}
	if word.Points == 0 {
		word.Points = word.Category.Points()
	}

	query := `
		INSERT INTO words (id, word, category, points)
		VALUES ($1, $2, $3, $4)`

	_, err := db.Exec(query, word.ID, word.Text, word.Category, word.Points)
	if err != nil {
		log.Error().Err(err).Str("word", word.Text).Msg("Failed to insert word")
		return game.Word{}, errors.New("Failed to insert word")
	}
	return word, nil
}

// SeedWords inserts the words in a single transaction when the bank is empty, returning how many were inserted
func SeedWords(db *sqlx.DB, words []game.Word) (int, error) {
	count, err := CountWords(db)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO words (id, word, category, points)
		VALUES ($1, $2, $3, $4)`
	for _, word := range words {
		if _, err := tx.Exec(query, word.ID, word.Text, word.Category, word.Points); err != nil {
			log.Error().Err(err).Str("id", word.ID).Msg("Failed to seed word")
			return 0, fmt.Errorf("seed word %s: %w", word.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(words), nil
}

func CountWords(db *sqlx.DB) (int, error) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM words")
	if err != nil {
		log.Error().Err(err).Msg("Failed to count words")
		return 0, errors.New("Failed to count words")
	}
	return count, nil
}

// GetRandomWord picks a uniformly random word from the category, an empty category picks from the whole bank
func GetRandomWord(db *sqlx.DB, category game.Category) (game.Word, error) {
	var word game.Word
	var err error
	if category == "" {
		err = db.Get(&word, "SELECT id, word, category, points FROM words ORDER BY RANDOM() LIMIT 1")
	} else {
		err = db.Get(&word, "SELECT id, word, category, points FROM words WHERE category = $1 ORDER BY RANDOM() LIMIT 1", category)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return game.Word{}, game.ErrNoWords
	}
	if err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("Failed to get random word")
		return game.Word{}, errors.New("Failed to get random word")
	}
	return word, nil
}

func GetWordsByCategory(db *sqlx.DB, category game.Category) ([]game.Word, error) {
	query := "SELECT id, word, category, points FROM words WHERE category = $1 ORDER BY id"
	args := []interface{}{category}
	if category == "" {
		query = "SELECT id, word, category, points FROM words ORDER BY category, id"
		args = nil
	}

	words := make([]game.Word, 0)
	err := db.Select(&words, query, args...)
	if err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("Failed to get words")
		return nil, errors.New("Failed to get words")
	}
	return words, nil
}
