/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTooManyTeams     = fmt.Errorf("A game can have at most %d teams", MaxTeams)
	ErrTooFewTeams      = fmt.Errorf("A game needs at least %d teams", MinTeams)
	ErrUnknownTeam      = errors.New("No team exists for the id")
	ErrEmptyName        = errors.New("Name must not be empty")
	ErrInvalidPlayer    = errors.New("No player exists at the index")
	ErrInvalidRoundTime = fmt.Errorf("Round time must be one of %v seconds", RoundTimeOptions)
	ErrInvalidMaxScore  = fmt.Errorf("Max score must be one of %v", MaxScoreOptions)
)

// validates setup changes and merges them into the session, the session itself trusts these bounds
type Setup struct {
	session *Session
}

func NewSetup(session *Session) Setup {
	return Setup{session: session}
}

func (setup Setup) teams() []Team {
	return setup.session.Settings().Teams
}

// AddTeam appends a team with the first palette color not already used
func (setup Setup) AddTeam(name string) (Team, error) {
	teams := setup.teams()
	if len(teams) >= MaxTeams {
		return Team{}, ErrTooManyTeams
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Team %d", len(teams)+1)
	}

	team := NewTeam(name, availableColor(teams))
	teams = append(teams, team)
	setup.session.UpdateSettings(SettingsPatch{Teams: teams})
	return team, nil
}

func availableColor(teams []Team) string {
	used := make(map[string]bool)
	for _, team := range teams {
		used[team.Color] = true
	}
	for _, color := range TeamColors {
		if !used[color] {
			return color
		}
	}
	return TeamColors[0]
}

func (setup Setup) RemoveTeam(id string) error {
	teams := setup.teams()
	if len(teams) <= MinTeams {
		return ErrTooFewTeams
	}
	index := indexOfTeam(teams, id)
	if index < 0 {
		return ErrUnknownTeam
	}

	settings := setup.session.Settings()
	teamCursor, playerCursor := settings.CurrentTeamIndex, settings.CurrentPlayerIndex
	teams = append(teams[:index], teams[index+1:]...)
	switch {
	case index < teamCursor:
		teamCursor--
	case index == teamCursor:
		teamCursor %= len(teams)
		playerCursor = 0
	}
	setup.session.UpdateSettings(SettingsPatch{
		Teams:              teams,
		CurrentTeamIndex:   &teamCursor,
		CurrentPlayerIndex: &playerCursor,
	})
	return nil
}

func (setup Setup) RenameTeam(id string, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	teams := setup.teams()
	index := indexOfTeam(teams, id)
	if index < 0 {
		return ErrUnknownTeam
	}

	teams[index].Name = name
	setup.session.UpdateSettings(SettingsPatch{Teams: teams})
	return nil
}

func (setup Setup) AddPlayer(id string, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	teams := setup.teams()
	index := indexOfTeam(teams, id)
	if index < 0 {
		return ErrUnknownTeam
	}

	teams[index].Players = append(teams[index].Players, name)
	setup.session.UpdateSettings(SettingsPatch{Teams: teams})
	return nil
}

func (setup Setup) RemovePlayer(id string, playerIndex int) error {
	teams := setup.teams()
	index := indexOfTeam(teams, id)
	if index < 0 {
		return ErrUnknownTeam
	}
	players := teams[index].Players
	if playerIndex < 0 || playerIndex >= len(players) {
		return ErrInvalidPlayer
	}

	teams[index].Players = append(players[:playerIndex], players[playerIndex+1:]...)
	patch := SettingsPatch{Teams: teams}

	// keep the drawer cursor on the same player when it belongs to this team
	settings := setup.session.Settings()
	if settings.CurrentTeamIndex == index {
		playerCursor := settings.CurrentPlayerIndex
		if playerIndex < playerCursor {
			playerCursor--
		}
		playerCursor %= teams[index].turnSlots()
		patch.CurrentPlayerIndex = &playerCursor
	}
	setup.session.UpdateSettings(patch)
	return nil
}

func (setup Setup) SetRoundTime(seconds int) error {
	if !containsInt(RoundTimeOptions, seconds) {
		return ErrInvalidRoundTime
	}
	setup.session.UpdateSettings(SettingsPatch{RoundTime: &seconds})
	return nil
}

func (setup Setup) SetMaxScore(score int) error {
	if !containsInt(MaxScoreOptions, score) {
		return ErrInvalidMaxScore
	}
	setup.session.UpdateSettings(SettingsPatch{MaxScore: &score})
	return nil
}

// ValidateSettings checks settings supplied from outside before a session is created with them
func ValidateSettings(settings Settings) error {
	if !containsInt(RoundTimeOptions, settings.RoundTime) {
		return ErrInvalidRoundTime
	}
	if !containsInt(MaxScoreOptions, settings.MaxScore) {
		return ErrInvalidMaxScore
	}
	if len(settings.Teams) < MinTeams {
		return ErrTooFewTeams
	}
	if len(settings.Teams) > MaxTeams {
		return ErrTooManyTeams
	}
	for _, team := range settings.Teams {
		if strings.TrimSpace(team.Name) == "" {
			return ErrEmptyName
		}
	}
	return nil
}

// SettingsWithDefaults fills in the zero fields of settings supplied from outside
func SettingsWithDefaults(settings *Settings) {
	if settings.RoundTime == 0 {
		settings.RoundTime = DefaultRoundTime
	}
	if settings.MaxScore == 0 {
		settings.MaxScore = DefaultMaxScore
	}
	if len(settings.Teams) == 0 {
		settings.Teams = DefaultSettings().Teams
	}
	for i := range settings.Teams {
		team := &settings.Teams[i]
		if team.ID == "" {
			team.ID = NewTeam("", "").ID
		}
		if team.Color == "" {
			team.Color = availableColor(settings.Teams)
		}
		if team.Players == nil {
			team.Players = make([]string, 0)
		}
		team.Score = 0
	}
	settings.CurrentTeamIndex = 0
	settings.CurrentPlayerIndex = 0
}

func indexOfTeam(teams []Team, id string) int {
	for i, team := range teams {
		if team.ID == id {
			return i
		}
	}
	return -1
}
