/*
 * Copyright (c) Joseph Prichard 2024
 */

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"sketchparty/config"
	"sketchparty/database"
	"sketchparty/game"
	"sketchparty/logger"
	"sketchparty/servers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogPretty); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	db, err := database.Open(cfg.DbDriver, cfg.DbDsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open the word bank")
	}
	defer db.Close()

	database.CreateSchema(db)
	seed, err := database.SeedList()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse the seed words")
	}
	seeded, err := database.SeedWords(db, seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed the word bank")
	}
	log.Info().Int("seeded", seeded).Str("driver", cfg.DbDriver).Msg("Word bank ready")

	wordBank := database.NewWordBank(db)
	tableStore := game.NewTableStore(time.Minute)
	defer tableStore.Close()

	authServer := servers.NewAuthServer(cfg.JwtSecretKey, cfg.TokenTTL)
	opts := game.TableOptions{TickPeriod: cfg.TickPeriod, Expiry: cfg.TableExpiry}
	limits := servers.SocketLimits{Rate: rate.Limit(cfg.SocketRate), Burst: cfg.SocketBurst}
	tablesServer := servers.NewTablesServer(tableStore, authServer, wordBank, opts, limits)
	wordsServer := servers.NewWordsServer(wordBank)

	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/tables", tablesServer.CreateTable).Methods(http.MethodPost)
	apiRouter.HandleFunc("/tables", tablesServer.GetTables).Methods(http.MethodGet)
	apiRouter.HandleFunc("/tables/join", tablesServer.JoinTable).Methods(http.MethodGet)
	apiRouter.HandleFunc("/tables/{code}", tablesServer.GetTable).Methods(http.MethodGet)
	apiRouter.HandleFunc("/words", wordsServer.GetWords).Methods(http.MethodGet)
	apiRouter.HandleFunc("/words/random", wordsServer.RandomWord).Methods(http.MethodGet)

	server := &http.Server{Addr: cfg.Addr(), Handler: router}
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting the server...")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down the server")
	}
	log.Info().Msg("Server shut down")
}
