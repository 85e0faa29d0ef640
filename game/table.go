/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// a broker interface that provides flow control for a client to subscribe to and send messages to
type Broker interface {
	Start()
	Join(m SubscriberMsg)
	Leave(s chan []byte)
	SendMessage(m SentMsg)
	Snapshot() []byte
	Stop(c int)
	IsExpired(now time.Time) bool
}

type TableOptions struct {
	TickPeriod time.Duration // time between clock ticks, one second of game time each
	Expiry     time.Duration // idle time before the table can be purged
}

func DefaultTableOptions() TableOptions {
	return TableOptions{TickPeriod: time.Second, Expiry: 15 * time.Minute}
}

// Table runs the session engine and the canvas of one game on a single goroutine.
// Commands from subscribers and ticks from the round clock are serialized through its channels.
type Table struct {
	code        string
	join        chan SubscriberMsg
	leave       chan chan []byte
	sendMessage chan SentMsg
	snapshot    chan chan []byte
	ticks       chan Tick
	stop        chan int
	session     *Session
	canvas      *Canvas
	clock       *RoundClock
	words       WordSource
	subscribers map[chan []byte]struct{}
	expireTime  atomic.Int64
	expiry      time.Duration
}

type SentMsg struct {
	Message []byte
	Sender  chan []byte
}

type SubscriberMsg struct {
	Subscriber chan []byte
}

func NewTable(code string, settings Settings, words WordSource, opts TableOptions) *Table {
	ticks := make(chan Tick)
	table := &Table{
		code:        code,
		join:        make(chan SubscriberMsg),
		leave:       make(chan chan []byte),
		sendMessage: make(chan SentMsg),
		snapshot:    make(chan chan []byte),
		ticks:       ticks,
		stop:        make(chan int),
		session:     NewSession(settings),
		canvas:      NewCanvas(),
		clock:       NewRoundClock(opts.TickPeriod, ticks),
		words:       words,
		subscribers: make(map[chan []byte]struct{}),
		expiry:      opts.Expiry,
	}
	table.postponeExpiration()
	return table
}

func (table *Table) Code() string {
	return table.code
}

func (table *Table) Start() {
	defer func() {
		if panicInfo := recover(); panicInfo != nil {
			log.Error().Str("code", table.code).Interface("panic", panicInfo).Msg("Fatal error in table")
		}
	}()
	for {
		select {
		case subMsg := <-table.join:
			table.onSubscribe(subMsg)
		case subscriber := <-table.leave:
			table.onUnsubscribe(subscriber)
		case sentMsg := <-table.sendMessage:
			table.onMessage(sentMsg)
		case tick := <-table.ticks:
			table.onTick(tick)
		case reply := <-table.snapshot:
			reply <- table.HandleState()
		case termCode := <-table.stop:
			table.onTerminate(termCode)
			return
		}
	}
}

func (table *Table) Join(m SubscriberMsg) {
	table.join <- m
}

func (table *Table) Leave(s chan []byte) {
	table.leave <- s
}

func (table *Table) SendMessage(m SentMsg) {
	table.sendMessage <- m
}

// Snapshot returns the serialized state, read on the table goroutine
func (table *Table) Snapshot() []byte {
	reply := make(chan []byte, 1)
	table.snapshot <- reply
	return <-reply
}

func (table *Table) Stop(c int) {
	table.stop <- c
}

func (table *Table) IsExpired(now time.Time) bool {
	return now.Unix() >= table.expireTime.Load()
}

func (table *Table) postponeExpiration() {
	table.expireTime.Store(time.Now().Add(table.expiry).Unix())
}

func (table *Table) broadcast(resp []byte) {
	for s := range table.subscribers {
		s <- resp
	}
}

type ErrorMsg struct {
	ErrorDesc string `json:"errorDesc"`
}

func sendErrorMsg(ch chan []byte, errorDesc string) {
	b, err := createResponse(ErrorCode, ErrorMsg{ErrorDesc: errorDesc})
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize error for ws message")
		return
	}
	ch <- b
}

func (table *Table) onSubscribe(subMsg SubscriberMsg) {
	table.subscribers[subMsg.Subscriber] = struct{}{}
	log.Info().Str("code", table.code).Int("subscribers", len(table.subscribers)).Msg("Subscribed to the table")

	// the initial state goes only to the new subscriber
	subMsg.Subscriber <- table.HandleState()
}

func (table *Table) onUnsubscribe(subscriber chan []byte) {
	if _, ok := table.subscribers[subscriber]; !ok {
		return
	}
	delete(table.subscribers, subscriber)
	close(subscriber)
	log.Info().Str("code", table.code).Int("subscribers", len(table.subscribers)).Msg("Unsubscribed from the table")
}

func (table *Table) onMessage(sentMsg SentMsg) {
	table.postponeExpiration()

	resp, err := table.HandleMessage(context.Background(), sentMsg.Message)
	if err != nil {
		// only the sender should receive the error response
		sendErrorMsg(sentMsg.Sender, err.Error())
		return
	}
	if resp != nil {
		table.broadcast(resp)
	}
}

func (table *Table) onTick(tick Tick) {
	resp, err := table.HandleTick(tick)
	if err != nil {
		log.Error().Err(err).Str("code", table.code).Msg("Failed to handle clock tick")
		return
	}
	if resp != nil {
		table.broadcast(resp)
	}
}

func (table *Table) onTerminate(code int) {
	table.clock.Stop()

	payload := OutputPayload[struct{}]{Code: code}
	resp, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize termination for ws message")
		return
	}
	table.broadcast(resp)
	// delete each subscriber from table and close channel
	for s := range table.subscribers {
		delete(table.subscribers, s)
		close(s)
	}
}
