/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import (
	"context"
	"errors"
)

type Category string

const (
	Easy   Category = "easy"
	Medium Category = "medium"
	Hard   Category = "hard"
)

var ErrUnknownCategory = errors.New("Unknown category, must be easy, medium, or hard")
var ErrNoWords = errors.New("No words exist for the category")

// Points is the value of a correctly guessed word of the category
func (c Category) Points() int {
	switch c {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 3
	}
	return 1
}

func (c Category) Valid() bool {
	return c == Easy || c == Medium || c == Hard
}

// ParseCategory accepts an empty string as "any category"
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if s != "" && !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

type Word struct {
	ID       string   `json:"id" db:"id"`
	Text     string   `json:"word" db:"word"`
	Category Category `json:"category" db:"category"`
	Points   int      `json:"points" db:"points"`
}

func NewWord(id string, text string, category Category) Word {
	return Word{ID: id, Text: text, Category: category, Points: category.Points()}
}

// source of words for the reveal step, an empty category draws from the whole bank
type WordSource interface {
	RandomWord(ctx context.Context, category Category) (Word, error)
}
