/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import (
	"fmt"
	"sort"
)

// per round data, transient for the lifetime of the session
type GameState struct {
	IsPlaying     bool          `json:"isPlaying"`
	IsPaused      bool          `json:"isPaused"`
	CurrentWord   *Word         `json:"currentWord"` // nil before the word is revealed
	TimeLeft      int           `json:"timeLeft"`
	CurrentTeamID string        `json:"currentTeamId"`
	History       []RoundResult `json:"history"` // append only
}

type RoundResult struct {
	TeamID   string `json:"teamId"`
	Word     string `json:"word"`
	Scored   bool   `json:"scored"`
	TimeUsed int    `json:"timeUsed"`
	Drawer   string `json:"drawer"`
}

type Stats struct {
	RoundsPlayed int `json:"roundsPlayed"`
	RoundsScored int `json:"roundsScored"`
}

// Session is the state machine that governs rotation, rounds and scoring.
// It is not safe for concurrent use: a Table owns it and runs every command on one goroutine.
type Session struct {
	settings Settings
	state    GameState
}

func NewSession(settings Settings) *Session {
	session := &Session{settings: settings.clone()}
	session.state = session.initialState()
	return session
}

func (session *Session) initialState() GameState {
	state := GameState{
		TimeLeft: session.settings.RoundTime,
		History:  make([]RoundResult, 0),
	}
	if len(session.settings.Teams) > 0 {
		state.CurrentTeamID = session.settings.Teams[0].ID
	}
	return state
}

func (session *Session) Settings() Settings {
	return session.settings.clone()
}

func (session *Session) State() GameState {
	state := session.state
	if state.CurrentWord != nil {
		word := *state.CurrentWord
		state.CurrentWord = &word
	}
	state.History = session.History()
	return state
}

func (session *Session) History() []RoundResult {
	return append(make([]RoundResult, 0, len(session.state.History)), session.state.History...)
}

// CurrentTeam resolves the team the rotation cursor points at
func (session *Session) CurrentTeam() (Team, bool) {
	team, ok := session.settings.currentTeam()
	if !ok {
		return Team{}, false
	}
	return team.clone(), true
}

// Drawer is the label of the player at the player cursor of the current team
func (session *Session) Drawer() string {
	i := session.settings.CurrentPlayerIndex
	team, ok := session.settings.currentTeam()
	if ok && i >= 0 && i < len(team.Players) {
		return team.Players[i]
	}
	return fmt.Sprintf("Player %d", i+1)
}

// merges the patch into the settings without validation, the caller is trusted
func (session *Session) UpdateSettings(patch SettingsPatch) {
	session.settings.merge(patch)
	if team, ok := session.settings.currentTeam(); ok {
		session.state.CurrentTeamID = team.ID
	}
}

func (session *Session) StartGame() {
	state := &session.state
	state.IsPlaying = true
	state.IsPaused = false
	state.TimeLeft = session.settings.RoundTime
	if team, ok := session.settings.currentTeam(); ok {
		state.CurrentTeamID = team.ID
	}
}

func (session *Session) PauseGame() {
	session.state.IsPaused = true
}

func (session *Session) ResumeGame() {
	session.state.IsPaused = false
}

func (session *Session) SetCurrentWord(word Word) {
	session.state.CurrentWord = &word
}

// overwrites the remaining time, the caller decrements and clamps
func (session *Session) UpdateTimeLeft(seconds int) {
	session.state.TimeLeft = seconds
}

// EndRound scores the current team and records the round in the history. It does not rotate the turn.
func (session *Session) EndRound(scored bool) RoundResult {
	state := &session.state
	team, ok := session.settings.currentTeam()
	if !ok {
		state.IsPlaying = false
		return RoundResult{}
	}

	word := ""
	points := 1
	if state.CurrentWord != nil {
		word = state.CurrentWord.Text
		points = state.CurrentWord.Points
	}
	if scored {
		team.Score += points
	}

	result := RoundResult{
		TeamID:   team.ID,
		Word:     word,
		Scored:   scored,
		TimeUsed: session.settings.RoundTime - state.TimeLeft,
		Drawer:   session.Drawer(),
	}
	state.History = append(state.History, result)
	state.IsPlaying = false
	return result
}

// NextTurn advances the player cursor within the team, and the team cursor each time the players wrap
func (session *Session) NextTurn() {
	settings := &session.settings
	if len(settings.Teams) > 0 {
		team, ok := settings.currentTeam()
		if !ok || settings.CurrentPlayerIndex < 0 {
			// a settings merge left the cursors dangling, restart the rotation
			settings.CurrentTeamIndex = 0
			settings.CurrentPlayerIndex = 0
			team = &settings.Teams[0]
		}
		nextPlayer := (settings.CurrentPlayerIndex + 1) % team.turnSlots()
		nextTeam := settings.CurrentTeamIndex
		if nextPlayer == 0 {
			nextTeam = (nextTeam + 1) % len(settings.Teams)
		}
		settings.CurrentPlayerIndex = nextPlayer
		settings.CurrentTeamIndex = nextTeam
		session.state.CurrentTeamID = settings.Teams[nextTeam].ID
	}

	session.state.TimeLeft = settings.RoundTime
	session.state.CurrentWord = nil
}

// UpdateScore adjusts a team's score, never below zero. Returns false if no team has the id.
func (session *Session) UpdateScore(teamID string, delta int) bool {
	i := session.settings.teamIndex(teamID)
	if i < 0 {
		return false
	}
	team := &session.settings.Teams[i]
	team.Score = max(0, team.Score+delta)
	return true
}

// ResetGame zeroes the scores and cursors and restores the initial state, keeping the configured round time
func (session *Session) ResetGame() {
	settings := &session.settings
	for i := range settings.Teams {
		settings.Teams[i].Score = 0
	}
	settings.CurrentTeamIndex = 0
	settings.CurrentPlayerIndex = 0
	session.state = session.initialState()
}

// Standings are the teams by score descending, ties keep team order
func (session *Session) Standings() []Team {
	teams := session.Settings().Teams
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Score > teams[j].Score
	})
	return teams
}

// Winner is the top team of the standings, the bool is true once it has reached the target score
func (session *Session) Winner() (Team, bool) {
	standings := session.Standings()
	if len(standings) == 0 {
		return Team{}, false
	}
	top := standings[0]
	return top, top.Score >= session.settings.MaxScore
}

func (session *Session) IsComplete() bool {
	_, complete := session.Winner()
	return complete
}

func (session *Session) LastRound() (RoundResult, bool) {
	history := session.state.History
	if len(history) == 0 {
		return RoundResult{}, false
	}
	return history[len(history)-1], true
}

func (session *Session) Stats() Stats {
	stats := Stats{RoundsPlayed: len(session.state.History)}
	for _, r := range session.state.History {
		if r.Scored {
			stats.RoundsScored++
		}
	}
	return stats
}

func (session *Session) IsPlaying() bool {
	return session.state.IsPlaying
}

func (session *Session) IsPaused() bool {
	return session.state.IsPaused
}

func (session *Session) TimeLeft() int {
	return session.state.TimeLeft
}

func (session *Session) HasWord() bool {
	return session.state.CurrentWord != nil
}
