/*
 * Copyright (c) Joseph Prichard 2024
 */

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"sketchparty/game"
	"sketchparty/logger"
	"sketchparty/servers"
)

func createTable(host string) servers.TableResp {
	u := fmt.Sprintf("http://%s/api/tables", host)

	settings := game.Settings{RoundTime: 120, MaxScore: 30}
	jsonBody, err := json.Marshal(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal json")
	}
	resp, err := http.Post(u, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create table")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read resp body")
	}
	if resp.StatusCode != http.StatusCreated {
		log.Fatal().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Unexpected create table response")
	}

	var tableResp servers.TableResp
	err = json.Unmarshal(body, &tableResp)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to unmarshal json")
	}
	return tableResp
}

func joinTable(host string, table servers.TableResp) *websocket.Conn {
	query := url.Values{"code": {table.Code}, "token": {table.Token}}
	u := fmt.Sprintf("ws://%s/api/tables/join?%s", host, query.Encode())
	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		log.Fatal().Err(err).Str("code", table.Code).Msg("Failed to join table")
	}
	return ws
}

// plays rounds on one table, streaming a stroke point per frame until the duration ends
func runTableClient(host string, rounds int, fps int, tablesWg *sync.WaitGroup) {
	defer tablesWg.Done()

	table := createTable(host)
	ws := joinTable(host, table)
	defer ws.Close()

	// listen to messages from connection, the count is reported when the client finishes
	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, _, err := ws.ReadMessage()
			if err != nil {
				return
			}
			received++
		}
	}()

	frame := time.NewTicker(time.Second / time.Duration(fps))
	defer frame.Stop()
	for round := 0; round < rounds; round++ {
		send(ws, game.DrawWordCode, game.DrawWordMsg{})
		send(ws, game.StartCode, struct{}{})

		send(ws, game.StrokeBeginCode, randomPoint())
		for i := 0; i < fps*2; i++ {
			<-frame.C
			send(ws, game.StrokeMoveCode, randomPoint())
		}
		send(ws, game.StrokeEndCode, game.StrokeEndMsg{})

		send(ws, game.EndRoundCode, game.EndRoundMsg{Scored: rand.Intn(2) == 0})
		send(ws, game.NextTurnCode, struct{}{})
	}

	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	<-done
	log.Info().Str("code", table.Code).Int("received", received).Msg("Table client finished")
}

func randomPoint() game.Point {
	return game.Point{X: float64(rand.Intn(game.MaxX)), Y: float64(rand.Intn(game.MaxY))}
}

func send[T any](ws *websocket.Conn, code int, msg T) {
	b, err := json.Marshal(game.InputPayload[T]{Code: code, Msg: msg})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal json")
	}
	err = ws.WriteMessage(websocket.TextMessage, b)
	if err != nil {
		log.Error().Err(err).Int("msgCode", code).Msg("Failed to send message")
	}
}

func main() {
	host := flag.String("host", "localhost:8080", "address of the server")
	tableCount := flag.Int("tables", 10, "number of tables to play on concurrently")
	rounds := flag.Int("rounds", 3, "rounds to play on each table")
	fps := flag.Int("fps", 24, "stroke points sent per second")
	flag.Parse()

	if err := logger.Init("info", true); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	start := time.Now()
	var tablesWg sync.WaitGroup
	for i := 0; i < *tableCount; i++ {
		tablesWg.Add(1)
		go runTableClient(*host, *rounds, *fps, &tablesWg)
	}
	tablesWg.Wait()

	log.Info().Int("tables", *tableCount).Dur("elapsed", time.Since(start)).Msg("Benchmark complete")
}
