/*
 * Copyright (c) Joseph Prichard 2024
 */

package servers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type ErrorResp struct {
	Status    int    `json:"status"`
	ErrorDesc string `json:"errorDesc"`
}

func WriteError(w http.ResponseWriter, status int, errorDesc string) {
	resp := ErrorResp{Status: status, ErrorDesc: errorDesc}
	b, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize error for http response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, err = w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("Failed to write body to response")
		return
	}
}

// ReadJson decodes the request body, an empty body leaves result untouched
func ReadJson[T any](r *http.Request, result *T) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.New("Failed to read data from request body")
	}
	if len(body) == 0 {
		return nil
	}

	err = json.Unmarshal(body, result)
	if err != nil {
		return errors.New("Invalid format for request body")
	}
	return nil
}

func WriteJson(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal json response")
		WriteError(w, http.StatusInternalServerError, "Failed to marshal json response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("Failed to write body as response")
		return
	}
}

func EnableCors(w *http.ResponseWriter) {
	header := (*w).Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Headers", "*")
}

func CreateUpgrade() websocket.Upgrader {
	upgrade := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	upgrade.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	return upgrade
}
