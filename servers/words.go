/*
 * Copyright (c) Joseph Prichard 2024
 */

package servers

import (
	"errors"
	"net/http"

	"sketchparty/game"
)

type WordLister interface {
	game.WordSource
	Words(category game.Category) ([]game.Word, error)
}

type WordsServer struct {
	bank WordLister
}

func NewWordsServer(bank WordLister) *WordsServer {
	return &WordsServer{bank: bank}
}

func (server *WordsServer) GetWords(w http.ResponseWriter, r *http.Request) {
	EnableCors(&w)

	category, err := game.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	words, err := server.bank.Words(category)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Cache-Control", "max-age=1800")
	WriteJson(w, http.StatusOK, words)
}

func (server *WordsServer) RandomWord(w http.ResponseWriter, r *http.Request) {
	EnableCors(&w)

	category, err := game.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	word, err := server.bank.RandomWord(r.Context(), category)
	if errors.Is(err, game.ErrNoWords) {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJson(w, http.StatusOK, word)
}
