/*
 * Copyright (c) Joseph Prichard 2024
 */

package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"sketchparty/game"
)

// WordBank draws words for tables from the words table
type WordBank struct {
	db *sqlx.DB
}

func NewWordBank(db *sqlx.DB) *WordBank {
	return &WordBank{db: db}
}

func (bank *WordBank) RandomWord(ctx context.Context, category game.Category) (game.Word, error) {
	if err := ctx.Err(); err != nil {
		return game.Word{}, err
	}
	return GetRandomWord(bank.db, category)
}

func (bank *WordBank) Words(category game.Category) ([]game.Word, error) {
	return GetWordsByCategory(bank.db, category)
}
