/*
 * Copyright (c) Joseph Prichard 2024
 */

package database

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"sketchparty/game"
)

//go:embed words.txt
var seedWords string

// SeedList is the built-in word bank, fifteen words per category
func SeedList() ([]game.Word, error) {
	return ParseWords(strings.NewReader(seedWords))
}

// ParseWords reads one "category,id,word" entry per line. Blank lines and lines starting with # are skipped.
func ParseWords(r io.Reader) ([]game.Word, error) {
	var words []game.Word
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.SplitN(text, ",", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected category,id,word", line)
		}
		category, err := game.ParseCategory(strings.TrimSpace(fields[0]))
		if err != nil || category == "" {
			return nil, fmt.Errorf("line %d: %w", line, game.ErrUnknownCategory)
		}
		word := strings.TrimSpace(fields[2])
		if word == "" {
			return nil, fmt.Errorf("line %d: empty word", line)
		}
		words = append(words, game.NewWord(strings.TrimSpace(fields[1]), word, category))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
