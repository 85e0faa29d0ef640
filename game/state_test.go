/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func MockSettings() Settings {
	return Settings{
		RoundTime: 60,
		MaxScore:  20,
		Teams: []Team{
			{ID: "a", Name: "A", Color: TeamColors[0], Players: []string{}},
			{ID: "b", Name: "B", Color: TeamColors[1], Players: []string{}},
		},
	}
}

func hardWord() Word {
	return NewWord("h1", "democracy", Hard)
}

func TestSession_NewSession(t *testing.T) {
	session := NewSession(MockSettings())

	state := session.State()
	if state.IsPlaying || state.IsPaused || state.CurrentWord != nil {
		t.Fatalf("A new session should be idle, got %+v", state)
	}
	if state.TimeLeft != 60 {
		t.Fatalf("Expected time left to be the round time, got %d", state.TimeLeft)
	}
	if state.CurrentTeamID != "a" {
		t.Fatalf("Expected the first team to be current, got %s", state.CurrentTeamID)
	}
}

func TestSession_UpdateSettings(t *testing.T) {
	session := NewSession(MockSettings())

	roundTime := 90
	session.UpdateSettings(SettingsPatch{RoundTime: &roundTime})

	settings := session.Settings()
	if settings.RoundTime != 90 {
		t.Fatalf("Expected round time 90, got %d", settings.RoundTime)
	}
	if settings.MaxScore != 20 || len(settings.Teams) != 2 {
		t.Fatalf("Fields missing from the patch should be unchanged, got %+v", settings)
	}

	// the merge is not validated, even an out of range value is accepted
	maxScore := -5
	session.UpdateSettings(SettingsPatch{MaxScore: &maxScore})
	if session.Settings().MaxScore != -5 {
		t.Fatalf("Expected the merge to accept any value")
	}
}

func TestSession_SettingsAreCopies(t *testing.T) {
	session := NewSession(MockSettings())

	settings := session.Settings()
	settings.Teams[0].Score = 100
	settings.Teams[0].Players = append(settings.Teams[0].Players, "Mallory")

	team, _ := session.CurrentTeam()
	if team.Score != 0 || len(team.Players) != 0 {
		t.Fatalf("Mutating returned settings should not change the session")
	}
}

func TestSession_StartGame(t *testing.T) {
	session := NewSession(MockSettings())
	session.SetCurrentWord(hardWord())
	session.UpdateTimeLeft(3)
	session.PauseGame()

	session.StartGame()

	state := session.State()
	if !state.IsPlaying || state.IsPaused {
		t.Fatalf("Expected playing and not paused, got %+v", state)
	}
	if state.TimeLeft != 60 {
		t.Fatalf("Expected time left to reset to the round time, got %d", state.TimeLeft)
	}
	if state.CurrentWord == nil || state.CurrentWord.Text != "democracy" {
		t.Fatalf("Expected the assigned word to be kept")
	}
}

func TestSession_PauseResume(t *testing.T) {
	session := NewSession(MockSettings())
	session.StartGame()

	session.PauseGame()
	session.PauseGame()
	if !session.IsPaused() || !session.IsPlaying() {
		t.Fatalf("Pausing twice should leave the session paused and playing")
	}

	session.ResumeGame()
	if session.IsPaused() {
		t.Fatalf("Expected resume to clear the paused flag")
	}
}

func TestSession_EndRound_Scored(t *testing.T) {
	session := NewSession(MockSettings())
	session.SetCurrentWord(hardWord())
	session.StartGame()
	session.UpdateTimeLeft(45)

	result := session.EndRound(true)

	expected := RoundResult{TeamID: "a", Word: "democracy", Scored: true, TimeUsed: 15, Drawer: "Player 1"}
	if !reflect.DeepEqual(result, expected) {
		t.Fatalf("Expected result %+v, got %+v", expected, result)
	}
	if session.Settings().Teams[0].Score != 3 {
		t.Fatalf("Expected team A to score the word's 3 points")
	}
	if session.IsPlaying() {
		t.Fatalf("Ending the round should stop play")
	}
	if session.Settings().CurrentTeamIndex != 0 {
		t.Fatalf("Ending the round must not rotate the turn")
	}
}

func TestSession_EndRound_NoWordScoresOne(t *testing.T) {
	session := NewSession(MockSettings())
	session.StartGame()

	result := session.EndRound(true)

	if result.Word != "" {
		t.Fatalf("Expected an empty word in the result, got %s", result.Word)
	}
	if session.Settings().Teams[0].Score != 1 {
		t.Fatalf("Expected a round without a word to score 1 point")
	}
}

func TestSession_EndRound_Failed(t *testing.T) {
	session := NewSession(MockSettings())
	session.SetCurrentWord(hardWord())
	session.StartGame()

	before := session.Settings().Teams
	session.EndRound(false)
	after := session.Settings().Teams

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("A failed round should leave every score unchanged")
	}
	if len(session.History()) != 1 || session.History()[0].Scored {
		t.Fatalf("Expected the failed round in the history")
	}
}

func TestSession_EndRound_DrawerName(t *testing.T) {
	settings := MockSettings()
	settings.Teams[0].Players = []string{"Ana", "Luis"}
	settings.CurrentPlayerIndex = 1
	session := NewSession(settings)

	result := session.EndRound(false)
	if result.Drawer != "Luis" {
		t.Fatalf("Expected the drawer to be the player at the cursor, got %s", result.Drawer)
	}
}

func TestSession_EndRound_NoTeams(t *testing.T) {
	session := NewSession(Settings{RoundTime: 60, MaxScore: 20})
	session.StartGame()

	session.EndRound(true)

	if session.IsPlaying() {
		t.Fatalf("Expected play to stop")
	}
	if len(session.History()) != 0 {
		t.Fatalf("Expected no history without a team")
	}
}

func TestSession_History_AppendOnly(t *testing.T) {
	session := NewSession(MockSettings())
	session.SetCurrentWord(hardWord())
	session.EndRound(true)
	session.NextTurn()
	session.EndRound(false)

	before := session.History()

	n := 5
	for i := 0; i < n; i++ {
		session.SetCurrentWord(NewWord("e1", "house", Easy))
		session.StartGame()
		session.EndRound(i%2 == 0)
		session.NextTurn()
	}

	after := session.History()
	if len(after) != len(before)+n {
		t.Fatalf("Expected %d history entries, got %d", len(before)+n, len(after))
	}
	if diff := cmp.Diff(before, after[:len(before)]); diff != "" {
		t.Fatalf("Prior history entries changed (-before +after):\n%s", diff)
	}
}

func TestSession_NextTurn(t *testing.T) {
	settings := MockSettings()
	settings.Teams[0].Players = []string{"Ana", "Luis"}
	settings.Teams[1].Players = []string{"Bea"}
	session := NewSession(settings)
	session.SetCurrentWord(hardWord())
	session.UpdateTimeLeft(12)

	type Cursor struct {
		team   int
		player int
	}
	expected := []Cursor{{0, 1}, {1, 0}, {0, 0}, {0, 1}, {1, 0}}

	for i, exp := range expected {
		session.NextTurn()
		settings := session.Settings()
		actual := Cursor{settings.CurrentTeamIndex, settings.CurrentPlayerIndex}
		if actual != exp {
			t.Fatalf("Turn %d: expected cursor %+v, got %+v", i, exp, actual)
		}
	}

	state := session.State()
	if state.CurrentWord != nil {
		t.Fatalf("Expected the word to be cleared on the next turn")
	}
	if state.TimeLeft != 60 {
		t.Fatalf("Expected the time to reset on the next turn, got %d", state.TimeLeft)
	}
	if state.CurrentTeamID != "b" {
		t.Fatalf("Expected the current team id to follow the cursor, got %s", state.CurrentTeamID)
	}
}

func TestSession_NextTurn_RoundRobin(t *testing.T) {
	settings := MockSettings()
	settings.Teams[0].Players = []string{"Ana", "Luis", "Eva"}
	settings.Teams[1].Players = []string{}
	settings.Teams = append(settings.Teams, Team{ID: "c", Name: "C", Players: []string{"Tom", "Kim"}})
	session := NewSession(settings)

	// every team is visited in any window of sum(player counts) turns
	window := 3 + 1 + 2
	var visits []int
	for i := 0; i < window*4; i++ {
		session.NextTurn()
		visits = append(visits, session.Settings().CurrentTeamIndex)
	}

	for start := 0; start+window <= len(visits); start++ {
		seen := make(map[int]bool)
		for _, team := range visits[start : start+window] {
			seen[team] = true
		}
		if len(seen) != 3 {
			t.Fatalf("Window starting at %d skipped a team: %v", start, visits[start:start+window])
		}
	}
}

func TestSession_NextTurn_DanglingCursor(t *testing.T) {
	session := NewSession(MockSettings())

	index := 7
	session.UpdateSettings(SettingsPatch{CurrentTeamIndex: &index})
	session.NextTurn()

	settings := session.Settings()
	if settings.CurrentTeamIndex != 1 || settings.CurrentPlayerIndex != 0 {
		t.Fatalf("Expected rotation to restart from the first team, got %d/%d",
			settings.CurrentTeamIndex, settings.CurrentPlayerIndex)
	}
}

func TestSession_NextTurn_NoTeams(t *testing.T) {
	session := NewSession(Settings{RoundTime: 30})
	session.SetCurrentWord(hardWord())

	session.NextTurn()

	if session.HasWord() || session.TimeLeft() != 30 {
		t.Fatalf("Expected the word and time to reset even without teams")
	}
}

func TestSession_UpdateScore(t *testing.T) {
	session := NewSession(MockSettings())

	if !session.UpdateScore("b", 4) {
		t.Fatalf("Expected team b to be found")
	}
	if session.Settings().Teams[1].Score != 4 {
		t.Fatalf("Expected team b to have 4 points")
	}

	session.UpdateScore("b", -100)
	if session.Settings().Teams[1].Score != 0 {
		t.Fatalf("Score should be clamped at zero")
	}
	if len(session.History()) != 0 {
		t.Fatalf("Manual adjustments should not append history")
	}
}

func TestSession_UpdateScore_UnknownTeam(t *testing.T) {
	session := NewSession(MockSettings())
	before := session.Settings()

	if session.UpdateScore("missing", 10) {
		t.Fatalf("Expected an unknown team to not match")
	}
	if !reflect.DeepEqual(before, session.Settings()) {
		t.Fatalf("An unknown team id should not change any state")
	}
}

func TestSession_ResetGame(t *testing.T) {
	session := NewSession(MockSettings())
	session.SetCurrentWord(hardWord())
	session.StartGame()
	session.EndRound(true)
	session.NextTurn()
	session.UpdateScore("b", 5)

	roundTime := 45
	session.UpdateSettings(SettingsPatch{RoundTime: &roundTime})

	session.ResetGame()
	onceSettings, onceState := session.Settings(), session.State()
	session.ResetGame()

	if !reflect.DeepEqual(onceSettings, session.Settings()) || !reflect.DeepEqual(onceState, session.State()) {
		t.Fatalf("Reset should be idempotent")
	}
	for _, team := range onceSettings.Teams {
		if team.Score != 0 {
			t.Fatalf("Expected all scores to be zero after reset, %s has %d", team.ID, team.Score)
		}
	}
	if onceSettings.CurrentTeamIndex != 0 || onceSettings.CurrentPlayerIndex != 0 {
		t.Fatalf("Expected the cursors to reset")
	}
	if onceState.TimeLeft != 45 {
		t.Fatalf("Expected the configured round time to carry over, got %d", onceState.TimeLeft)
	}
	if len(onceState.History) != 0 || onceState.IsPlaying || onceState.CurrentWord != nil {
		t.Fatalf("Expected the initial game state, got %+v", onceState)
	}
}

func TestSession_Standings(t *testing.T) {
	settings := MockSettings()
	settings.Teams = append(settings.Teams, Team{ID: "c", Name: "C"})
	session := NewSession(settings)
	session.UpdateScore("b", 5)
	session.UpdateScore("c", 5)
	session.UpdateScore("a", 2)

	var ids []string
	for _, team := range session.Standings() {
		ids = append(ids, team.ID)
	}
	if !reflect.DeepEqual(ids, []string{"b", "c", "a"}) {
		t.Fatalf("Expected stable order by score, got %v", ids)
	}
}

// two teams, a 3 point word for A, a miss for B, then A keeps scoring until the target
func TestSession_Scenario(t *testing.T) {
	session := NewSession(MockSettings())

	session.SetCurrentWord(hardWord())
	session.StartGame()
	session.EndRound(true)
	if session.Settings().Teams[0].Score != 3 {
		t.Fatalf("Expected A to have 3 points")
	}

	session.NextTurn()
	if team, _ := session.CurrentTeam(); team.ID != "b" {
		t.Fatalf("Expected B to be next, got %s", team.ID)
	}
	session.SetCurrentWord(hardWord())
	session.StartGame()
	session.EndRound(false)
	if session.Settings().Teams[1].Score != 0 {
		t.Fatalf("Expected B to have 0 points")
	}

	for i := 0; i < 7; i++ {
		session.NextTurn()
		session.SetCurrentWord(hardWord())
		session.StartGame()
		session.EndRound(true) // A scores

		score := session.Settings().Teams[0].Score
		if session.IsComplete() != (score >= 20) {
			t.Fatalf("Expected the game to be complete only once A reaches 20, A has %d", score)
		}

		session.NextTurn()
		session.SetCurrentWord(hardWord())
		session.StartGame()
		session.EndRound(false) // B misses
	}

	winner, complete := session.Winner()
	if !complete {
		t.Fatalf("Expected the game to be complete at %d points", winner.Score)
	}
	if winner.ID != "a" || winner.Score != 24 {
		t.Fatalf("Expected A to win with 24 points, got %s with %d", winner.ID, winner.Score)
	}

	stats := session.Stats()
	if stats.RoundsPlayed != 16 || stats.RoundsScored != 8 {
		t.Fatalf("Unexpected stats %+v", stats)
	}
	last, _ := session.LastRound()
	if last.TeamID != "b" || last.Scored {
		t.Fatalf("Expected B's miss to be the last round, got %+v", last)
	}
}
