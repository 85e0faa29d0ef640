/*
 * Copyright (c) Joseph Prichard 2024
 */

package servers

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"sketchparty/game"
)

// SocketLimits throttles the messages read from each table socket
type SocketLimits struct {
	Rate  rate.Limit
	Burst int
}

type TablesServer struct {
	upgrade       websocket.Upgrader
	brokerage     game.Brokerage
	authenticator Authenticator
	words         game.WordSource
	opts          game.TableOptions
	limits        SocketLimits
}

func NewTablesServer(
	brokerage game.Brokerage, authenticator Authenticator,
	words game.WordSource, opts game.TableOptions, limits SocketLimits) *TablesServer {

	return &TablesServer{
		upgrade:       CreateUpgrade(),
		brokerage:     brokerage,
		authenticator: authenticator,
		words:         words,
		opts:          opts,
		limits:        limits,
	}
}

func HexCode(len int) (string, error) {
	b := make([]byte, len/2)
	_, err := crand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (server *TablesServer) GetTables(w http.ResponseWriter, r *http.Request) {
	EnableCors(&w)

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		parsedOffset, err := strconv.ParseInt(offsetStr, 10, 32)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Offset parameters must be a 32-bit integer")
			return
		}
		offset = int(parsedOffset)
	}

	WriteJson(w, http.StatusOK, server.brokerage.Codes(offset, 20))
}

type TableResp struct {
	Code     string        `json:"code"`
	Token    string        `json:"token"`
	Settings game.Settings `json:"settings"`
}

func (server *TablesServer) CreateTable(w http.ResponseWriter, r *http.Request) {
	EnableCors(&w)

	var settings game.Settings
	err := ReadJson(r, &settings)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	game.SettingsWithDefaults(&settings)
	err = game.ValidateSettings(settings)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// generate a code, create a table, start it, then store it in the map
	code, err := HexCode(8)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to generate a valid table code")
		return
	}
	token, err := server.authenticator.GenerateToken(code)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create table token")
		WriteError(w, http.StatusInternalServerError, "Failed to generate a token for the table")
		return
	}

	table := game.NewTable(code, settings, server.words, server.opts)
	go table.Start()
	server.brokerage.Set(code, table)

	log.Info().Str("code", code).Int("teams", len(settings.Teams)).Msg("Started table")

	WriteJson(w, http.StatusCreated, TableResp{Code: code, Token: token, Settings: settings})
}

// finds the table for the code after checking the token was issued for it
func (server *TablesServer) authorizedTable(w http.ResponseWriter, code string, token string) game.Broker {
	err := server.authenticator.Authorize(token, code)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, ErrWrongTable) {
			status = http.StatusForbidden
		}
		WriteError(w, status, err.Error())
		return nil
	}

	table := server.brokerage.Get(code)
	if table == nil {
		WriteError(w, http.StatusNotFound, "Cannot find table for provided code")
		return nil
	}
	return table
}

func (server *TablesServer) GetTable(w http.ResponseWriter, r *http.Request) {
	EnableCors(&w)

	code := mux.Vars(r)["code"]
	table := server.authorizedTable(w, code, r.URL.Query().Get("token"))
	if table == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(table.Snapshot())
	if err != nil {
		log.Error().Err(err).Msg("Failed to write table snapshot")
	}
}

func (server *TablesServer) JoinTable(w http.ResponseWriter, r *http.Request) {
	EnableCors(&w)

	query := r.URL.Query()
	code := query.Get("code")
	table := server.authorizedTable(w, code, query.Get("token"))
	if table == nil {
		return
	}

	ws, err := server.upgrade.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an error response
		log.Error().Err(err).Str("code", code).Msg("Failed to upgrade to websocket")
		return
	}

	// create a new subscription channel and join the table with it
	subscriber := make(chan []byte, 16)
	table.Join(game.SubscriberMsg{Subscriber: subscriber})

	log.Info().Str("code", code).Str("remote", r.RemoteAddr).Msg("Joined table")

	go server.subscriberListener(ws, subscriber)
	go server.socketListener(ws, table, subscriber)
}

// reads messages from socket and sends them to the table
func (server *TablesServer) socketListener(ws *websocket.Conn, table game.Broker, subscriber chan []byte) {
	defer func() {
		// unsubscribes from the table when the websocket is closed
		table.Leave(subscriber)
		_ = ws.Close()
		if panicInfo := recover(); panicInfo != nil {
			log.Error().Interface("panic", panicInfo).Msg("Fatal error in socket listener")
		}
	}()

	limiter := rate.NewLimiter(server.limits.Rate, server.limits.Burst)
	for {
		_, buf, err := ws.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("Client closed connection")
			return
		}
		// pointer samples arrive in bursts, hold the reader back instead of dropping strokes
		if err := limiter.Wait(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Socket rate limit wait failed")
			return
		}
		table.SendMessage(game.SentMsg{Message: buf, Sender: subscriber})
	}
}

// reads messages from a subscribed channel and sends them to socket
func (server *TablesServer) subscriberListener(ws *websocket.Conn, subscriber chan []byte) {
	defer func() {
		// closes the websocket connection when the subscriber is informed no more messages will be sent
		_ = ws.Close()
		if panicInfo := recover(); panicInfo != nil {
			log.Error().Interface("panic", panicInfo).Msg("Fatal error in subscriber listener")
		}
		// keep receiving until the table closes the channel so its broadcasts never block on this socket
		for range subscriber {
		}
	}()
	for resp := range subscriber {
		err := ws.WriteMessage(websocket.TextMessage, resp)
		if err != nil {
			log.Debug().Err(err).Msg("Failed writing message to socket")
			return
		}
	}
}
