/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Brokerage interface {
	Get(code string) Broker
	Set(code string, b Broker)
	Codes(offset int, limit int) []string
}

// TableStore maps codes to running tables and stops the ones left idle
type TableStore struct {
	m     map[string]Broker // maps codes to tables
	codes []string          // stores the codes of the older tables first
	mu    sync.Mutex        // used to synchronize both structures
	done  chan struct{}
}

func NewTableStore(period time.Duration) *TableStore {
	store := &TableStore{
		m:     make(map[string]Broker),
		codes: make([]string, 0),
		done:  make(chan struct{}),
	}
	go store.startCleanup(period)
	return store
}

func (store *TableStore) Get(code string) Broker {
	store.mu.Lock()
	defer store.mu.Unlock()

	table, ok := store.m[code]
	if !ok || table.IsExpired(time.Now()) {
		return nil
	}
	return table
}

func (store *TableStore) Set(code string, b Broker) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, exists := store.m[code]; !exists {
		store.codes = append(store.codes, code)
	}
	store.m[code] = b
}

func (store *TableStore) Codes(offset int, limit int) []string {
	store.mu.Lock()
	defer store.mu.Unlock()

	codes := make([]string, 0)
	if offset < 0 || offset >= len(store.codes) {
		return codes
	}

	upperLimit := min(offset+limit, len(store.codes))
	for i := offset; i < upperLimit; i++ {
		codes = append(codes, store.codes[i])
	}
	return codes
}

func (store *TableStore) purgeExpired(now time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()

	expiredCodes := make(map[string]bool)
	for code, table := range store.m {
		if table.IsExpired(now) {
			log.Info().Str("code", code).Msg("Deleting expired table")
			// terminate the table due to expiration with a timeout code
			table.Stop(TimeoutCode)
			delete(store.m, code)
			expiredCodes[code] = true
		}
	}

	// remove all expired codes from the slice, keeping the order of the rest
	codes := store.codes[:0]
	for _, code := range store.codes {
		if !expiredCodes[code] {
			codes = append(codes, code)
		}
	}
	store.codes = codes
}

func (store *TableStore) startCleanup(period time.Duration) {
	// periodically cleanup expired tables from the map
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			store.purgeExpired(now)
		case <-store.done:
			return
		}
	}
}

// Close stops the cleanup loop and every table still in the store
func (store *TableStore) Close() {
	close(store.done)

	store.mu.Lock()
	defer store.mu.Unlock()
	for code, table := range store.m {
		table.Stop(TimeoutCode)
		delete(store.m, code)
	}
	store.codes = store.codes[:0]
}
