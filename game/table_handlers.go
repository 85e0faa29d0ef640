/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	SettingsCode    = 1
	DrawWordCode    = 2
	StartCode       = 3
	PauseCode       = 4
	ResumeCode      = 5
	EndRoundCode    = 6
	NextTurnCode    = 7
	ScoreCode       = 8
	ResetCode       = 9
	StrokeBeginCode = 10
	StrokeMoveCode  = 11
	StrokeEndCode   = 12
	ClearCode       = 13
	EraseCode       = 14
	StateCode       = 15
	TickCode        = 16
	TimeUpCode      = 17
	FinishCode      = 18
	TimeoutCode     = 19
	ErrorCode       = 20

	MaxX = 4096
	MaxY = 4096
)

var ErrUnMarshal = errors.New("Failed to unmarshal input data")
var ErrMarshal = errors.New("Failed to marshal output data")
var ErrRoundInProgress = errors.New("Cannot do that while a round is being played")
var ErrNoRound = errors.New("No round is being played")
var ErrNoWord = errors.New("Draw a word before starting the round")
var ErrCanvasDisabled = errors.New("Cannot draw while the round is paused")

type InputPayload[T any] struct {
	Code int `json:"code"`
	Msg  T   `json:"msg"`
}

type OutputPayload[T any] struct {
	Code int `json:"code"`
	Msg  T   `json:"msg"`
}

func decodeMsg[T any](raw json.RawMessage) (T, error) {
	var msg T
	if len(raw) == 0 {
		return msg, nil
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, ErrUnMarshal
	}
	return msg, nil
}

func (table *Table) HandleMessage(ctx context.Context, message []byte) ([]byte, error) {
	// deserialize payload message from json
	var payload InputPayload[json.RawMessage]
	err := json.Unmarshal(message, &payload)
	if err != nil {
		return nil, ErrUnMarshal
	}
	log.Debug().Str("code", table.code).Int("msgCode", payload.Code).Msg("Handling message")

	switch payload.Code {
	case SettingsCode:
		msg, err := decodeMsg[SettingsMsg](payload.Msg)
		if err != nil {
			return nil, err
		}
		return table.handleSettingsMessage(msg)
	case DrawWordCode:
		msg, err := decodeMsg[DrawWordMsg](payload.Msg)
		if err != nil {
			return nil, err
		}
		return table.handleDrawWordMessage(ctx, msg)
	case StartCode:
		return table.handleStartMessage()
	case PauseCode:
		return table.handlePauseMessage(true)
	case ResumeCode:
		return table.handlePauseMessage(false)
	case EndRoundCode:
		msg, err := decodeMsg[EndRoundMsg](payload.Msg)
		if err != nil {
			return nil, err
		}
		return table.handleEndRoundMessage(msg)
	case NextTurnCode:
		return table.handleNextTurnMessage()
	case ScoreCode:
		msg, err := decodeMsg[ScoreMsg](payload.Msg)
		if err != nil {
			return nil, err
		}
		return table.handleScoreMessage(msg)
	case ResetCode:
		return table.handleResetMessage()
	case StrokeBeginCode, StrokeMoveCode:
		msg, err := decodeMsg[Point](payload.Msg)
		if err != nil {
			return nil, err
		}
		return table.handlePointMessage(payload.Code, msg)
	case StrokeEndCode:
		msg, err := decodeMsg[StrokeEndMsg](payload.Msg)
		if err != nil {
			return nil, err
		}
		return table.handleStrokeEndMessage(msg)
	case ClearCode:
		if table.canvas.Disabled() {
			return nil, ErrCanvasDisabled
		}
		table.canvas.ClearCanvas()
		return createResponse(ClearCode, struct{}{})
	case EraseCode:
		msg, err := decodeMsg[EraseMsg](payload.Msg)
		if err != nil {
			return nil, err
		}
		table.canvas.SetErasing(msg.Erasing)
		return createResponse(EraseCode, msg)
	default:
		log.Warn().Int("msgCode", payload.Code).Msg("Cannot handle unknown message type")
		return nil, errors.New("No matching message types for message")
	}
}

const (
	AddTeamAction      = "addTeam"
	RemoveTeamAction   = "removeTeam"
	RenameTeamAction   = "renameTeam"
	AddPlayerAction    = "addPlayer"
	RemovePlayerAction = "removePlayer"
	RoundTimeAction    = "roundTime"
	MaxScoreAction     = "maxScore"
)

type SettingsMsg struct {
	Action      string `json:"action"`
	TeamID      string `json:"teamId"`
	Name        string `json:"name"`
	PlayerIndex int    `json:"playerIndex"`
	Value       int    `json:"value"`
}

func (table *Table) handleSettingsMessage(msg SettingsMsg) ([]byte, error) {
	if table.session.IsPlaying() {
		return nil, ErrRoundInProgress
	}

	setup := NewSetup(table.session)
	var err error
	switch msg.Action {
	case AddTeamAction:
		_, err = setup.AddTeam(msg.Name)
	case RemoveTeamAction:
		err = setup.RemoveTeam(msg.TeamID)
	case RenameTeamAction:
		err = setup.RenameTeam(msg.TeamID, msg.Name)
	case AddPlayerAction:
		err = setup.AddPlayer(msg.TeamID, msg.Name)
	case RemovePlayerAction:
		err = setup.RemovePlayer(msg.TeamID, msg.PlayerIndex)
	case RoundTimeAction:
		err = setup.SetRoundTime(msg.Value)
	case MaxScoreAction:
		err = setup.SetMaxScore(msg.Value)
	default:
		err = fmt.Errorf("Unknown settings action %s", msg.Action)
	}
	if err != nil {
		return nil, err
	}

	return table.stateResponse()
}

type DrawWordMsg struct {
	Category Category `json:"category"`
}

type WordMsg struct {
	Word   Word   `json:"word"`
	Team   Team   `json:"team"`
	Drawer string `json:"drawer"`
}

// draws a word for the current turn, sending it again rerolls the word
func (table *Table) handleDrawWordMessage(ctx context.Context, msg DrawWordMsg) ([]byte, error) {
	if table.session.IsPlaying() {
		return nil, ErrRoundInProgress
	}
	if msg.Category != "" && !msg.Category.Valid() {
		return nil, ErrUnknownCategory
	}

	word, err := table.words.RandomWord(ctx, msg.Category)
	if err != nil {
		return nil, fmt.Errorf("Failed to draw a word: %w", err)
	}
	table.session.SetCurrentWord(word)

	team, _ := table.session.CurrentTeam()
	return createResponse(DrawWordCode, WordMsg{Word: word, Team: team, Drawer: table.session.Drawer()})
}

func (table *Table) handleStartMessage() ([]byte, error) {
	if table.session.IsPlaying() {
		return nil, ErrRoundInProgress
	}
	if !table.session.HasWord() {
		return nil, ErrNoWord
	}

	table.session.StartGame()
	table.canvas.ClearCanvas()
	table.canvas.SetDisabled(false)
	table.clock.Start()

	log.Info().Str("code", table.code).Str("drawer", table.session.Drawer()).Msg("Started round")
	return table.stateResponse()
}

func (table *Table) handlePauseMessage(pause bool) ([]byte, error) {
	if !table.session.IsPlaying() {
		return nil, ErrNoRound
	}

	if pause {
		table.session.PauseGame()
		table.clock.Stop()
	} else {
		table.session.ResumeGame()
		if !table.clock.Running() && table.session.TimeLeft() > 0 {
			table.clock.Start()
		}
	}
	table.canvas.SetDisabled(pause)
	return table.stateResponse()
}

type EndRoundMsg struct {
	Scored bool `json:"scored"`
}

type RoundMsg struct {
	Result    RoundResult `json:"result"`
	Standings []Team      `json:"standings"`
	Winner    *Team       `json:"winner"` // set once the game is complete
}

// the referee's verdict closes the round
func (table *Table) handleEndRoundMessage(msg EndRoundMsg) ([]byte, error) {
	if !table.session.IsPlaying() {
		return nil, ErrNoRound
	}

	table.clock.Stop()
	result := table.session.EndRound(msg.Scored)
	table.canvas.ClearCanvas()
	table.canvas.SetDisabled(false)

	resp := RoundMsg{Result: result, Standings: table.session.Standings()}
	winner, complete := table.session.Winner()
	if complete {
		log.Info().Str("code", table.code).Str("team", winner.Name).Int("score", winner.Score).Msg("Game complete")
		resp.Winner = &winner
		return createResponse(FinishCode, resp)
	}
	return createResponse(EndRoundCode, resp)
}

func (table *Table) handleNextTurnMessage() ([]byte, error) {
	if table.session.IsPlaying() {
		return nil, ErrRoundInProgress
	}
	table.session.NextTurn()
	return table.stateResponse()
}

type ScoreMsg struct {
	TeamID string `json:"teamId"`
	Delta  int    `json:"delta"`
}

func (table *Table) handleScoreMessage(msg ScoreMsg) ([]byte, error) {
	if !table.session.UpdateScore(msg.TeamID, msg.Delta) {
		return nil, ErrUnknownTeam
	}
	return table.stateResponse()
}

func (table *Table) handleResetMessage() ([]byte, error) {
	table.clock.Stop()
	table.session.ResetGame()
	table.canvas.ClearCanvas()
	table.canvas.SetDisabled(false)
	table.canvas.SetErasing(false)
	return table.stateResponse()
}

func (table *Table) handlePointMessage(code int, p Point) ([]byte, error) {
	if p.X < 0 || p.X > MaxX || p.Y < 0 || p.Y > MaxY {
		return nil, errors.New("Cannot draw outside canvas")
	}
	if code == StrokeBeginCode {
		table.canvas.BeginStroke(p)
	} else {
		table.canvas.ExtendStroke(p)
	}
	// the rendering collaborator on the same device tracks its own pointer, so there is nothing to echo
	return nil, nil
}

type StrokeEndMsg struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

func (table *Table) handleStrokeEndMessage(msg StrokeEndMsg) ([]byte, error) {
	if msg.Color == "" {
		msg.Color = DefaultStrokeColor
	}
	if msg.Width == 0 {
		msg.Width = DefaultStrokeWidth
	}
	if !containsInt(StrokeWidths, msg.Width) {
		return nil, fmt.Errorf("Unknown stroke width %d", msg.Width)
	}
	if !ValidStrokeColor(msg.Color) {
		return nil, fmt.Errorf("Unknown stroke color %s", msg.Color)
	}

	path, ok := table.canvas.CommitStroke(msg.Color, msg.Width)
	if !ok {
		return nil, nil
	}
	return createResponse(StrokeEndCode, path)
}

type EraseMsg struct {
	Erasing bool `json:"erasing"`
}

type TickMsg struct {
	TimeLeft int `json:"timeLeft"`
}

// HandleTick decrements the round time, at zero the clock stops and the referee is asked for a verdict
func (table *Table) HandleTick(tick Tick) ([]byte, error) {
	if !table.clock.IsCurrent(tick) {
		return nil, nil
	}
	if !table.session.IsPlaying() || table.session.IsPaused() {
		table.clock.Stop()
		return nil, nil
	}

	timeLeft := max(0, table.session.TimeLeft()-1)
	table.session.UpdateTimeLeft(timeLeft)
	if timeLeft == 0 {
		table.clock.Stop()
		log.Info().Str("code", table.code).Msg("Round time is up")
		return createResponse(TimeUpCode, TickMsg{TimeLeft: timeLeft})
	}
	return createResponse(TickCode, TickMsg{TimeLeft: timeLeft})
}

type StateMsg struct {
	Settings  Settings  `json:"settings"`
	State     GameState `json:"state"`
	Drawer    string    `json:"drawer"`
	Standings []Team    `json:"standings"`
	Stats     Stats     `json:"stats"`
	Complete  bool      `json:"complete"`
	Canvas    string    `json:"canvas"`
	Erasing   bool      `json:"erasing"`
}

func (table *Table) stateMsg() StateMsg {
	session := table.session
	return StateMsg{
		Settings:  session.Settings(),
		State:     session.State(),
		Drawer:    session.Drawer(),
		Standings: session.Standings(),
		Stats:     session.Stats(),
		Complete:  session.IsComplete(),
		Canvas:    table.canvas.EncodePaths(),
		Erasing:   table.canvas.Erasing(),
	}
}

func (table *Table) stateResponse() ([]byte, error) {
	return createResponse(StateCode, table.stateMsg())
}

func (table *Table) HandleState() []byte {
	b, err := table.stateResponse()
	if err != nil {
		log.Error().Err(err).Str("code", table.code).Msg("Failed to serialize table state")
		return []byte{}
	}
	return b
}

func createResponse[T any](code int, msg T) ([]byte, error) {
	payload := OutputPayload[T]{Code: code, Msg: msg}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrMarshal
	}
	return b, nil
}
