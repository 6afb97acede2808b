package app

import "team-quiz-service/internal/domain"

// Teams returns a copy of the current teams.
func (e *QuizEngine) Teams() []domain.Team {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneTeams(e.teams)
}

// ReplaceTeams swaps the whole team container. Shape is not validated; later
// operations enforce what they need.
func (e *QuizEngine) ReplaceTeams(teams []domain.Team) []domain.Team {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teams = cloneTeams(teams)
	e.changedLocked()
	return cloneTeams(e.teams)
}

// AddPlayer appends a new zero-score player to a team.
func (e *QuizEngine) AddPlayer(teamID int, name string) (domain.Player, error) {
	if name == "" {
		return domain.Player{}, domain.ErrPlayerNameRequired
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ti := e.teamIndexLocked(teamID)
	if ti < 0 {
		return domain.Player{}, domain.ErrTeamNotFound
	}
	team := &e.teams[ti]

	id := e.nextPlayerID()
	for playerIndex(*team, id) >= 0 {
		id = e.nextPlayerID()
	}
	player := domain.Player{ID: id, Name: name, Score: 0}
	team.Players = append(team.Players, player)
	e.changedLocked()
	return player, nil
}

// RemovePlayer drops a player from a team. Removing a player that is not on
// the team is a no-op and still reports true.
func (e *QuizEngine) RemovePlayer(teamID, playerID int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ti := e.teamIndexLocked(teamID)
	if ti < 0 {
		return false, domain.ErrTeamNotFound
	}
	team := &e.teams[ti]
	kept := team.Players[:0]
	for _, p := range team.Players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	team.Players = kept
	e.changedLocked()
	return true, nil
}

// UpdateTeamName renames a team.
func (e *QuizEngine) UpdateTeamName(teamID int, name string) (domain.Team, error) {
	if name == "" {
		return domain.Team{}, domain.ErrTeamNameRequired
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ti := e.teamIndexLocked(teamID)
	if ti < 0 {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	e.teams[ti].Name = name
	e.changedLocked()
	return e.teams[ti].Clone(), nil
}
