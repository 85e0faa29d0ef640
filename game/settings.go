/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import "github.com/google/uuid"

const (
	MinTeams = 2
	MaxTeams = 6

	DefaultRoundTime = 60
	DefaultMaxScore  = 20
)

var RoundTimeOptions = []int{30, 45, 60, 90, 120}
var MaxScoreOptions = []int{10, 15, 20, 25, 30}

var TeamColors = []string{"#3B82F6", "#10B981", "#F97316", "#EF4444", "#8B5CF6", "#F59E0B"}

type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Score   int      `json:"score"`
	Players []string `json:"players"` // insertion order is turn order
}

func NewTeam(name string, color string) Team {
	return Team{ID: uuid.NewString(), Name: name, Color: color, Players: make([]string, 0)}
}

// a team with no players still gets one turn slot
func (team Team) turnSlots() int {
	if len(team.Players) == 0 {
		return 1
	}
	return len(team.Players)
}

func (team Team) clone() Team {
	team.Players = append(make([]string, 0, len(team.Players)), team.Players...)
	return team
}

type Settings struct {
	RoundTime          int    `json:"roundTime"` // seconds per round
	MaxScore           int    `json:"maxScore"`  // target score that ends the game
	Teams              []Team `json:"teams"`
	CurrentTeamIndex   int    `json:"currentTeamIndex"`
	CurrentPlayerIndex int    `json:"currentPlayerIndex"`
}

// SettingsPatch holds the fields to merge into the settings, nil fields are left unchanged
type SettingsPatch struct {
	RoundTime          *int   `json:"roundTime,omitempty"`
	MaxScore           *int   `json:"maxScore,omitempty"`
	Teams              []Team `json:"teams,omitempty"`
	CurrentTeamIndex   *int   `json:"currentTeamIndex,omitempty"`
	CurrentPlayerIndex *int   `json:"currentPlayerIndex,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		RoundTime: DefaultRoundTime,
		MaxScore:  DefaultMaxScore,
		Teams: []Team{
			NewTeam("Team 1", TeamColors[0]),
			NewTeam("Team 2", TeamColors[1]),
		},
	}
}

func (settings Settings) clone() Settings {
	teams := make([]Team, len(settings.Teams))
	for i, team := range settings.Teams {
		teams[i] = team.clone()
	}
	settings.Teams = teams
	return settings
}

func (settings *Settings) merge(patch SettingsPatch) {
	if patch.RoundTime != nil {
		settings.RoundTime = *patch.RoundTime
	}
	if patch.MaxScore != nil {
		settings.MaxScore = *patch.MaxScore
	}
	if patch.Teams != nil {
		teams := make([]Team, len(patch.Teams))
		for i, team := range patch.Teams {
			teams[i] = team.clone()
		}
		settings.Teams = teams
	}
	if patch.CurrentTeamIndex != nil {
		settings.CurrentTeamIndex = *patch.CurrentTeamIndex
	}
	if patch.CurrentPlayerIndex != nil {
		settings.CurrentPlayerIndex = *patch.CurrentPlayerIndex
	}
}

func (settings *Settings) teamIndex(id string) int {
	return indexOfTeam(settings.Teams, id)
}

func (settings *Settings) currentTeam() (*Team, bool) {
	i := settings.CurrentTeamIndex
	if i < 0 || i >= len(settings.Teams) {
		return nil, false
	}
	return &settings.Teams[i], true
}

func containsInt(options []int, v int) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
