package app

import "team-quiz-service/internal/domain"

// Stats aggregates the answer history per team and player. It is recomputed
// from scratch on every call and never reads the running score fields for counts.
func (e *QuizEngine) Stats() []domain.TeamStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return computeStats(e.teams, e.history)
}

func computeStats(teams []domain.Team, history []domain.AnswerRecord) []domain.TeamStats {
	out := make([]domain.TeamStats, 0, len(teams))
	for _, team := range teams {
		var teamAnswers []domain.AnswerRecord
		for _, a := range history {
			if a.TeamID == team.ID {
				teamAnswers = append(teamAnswers, a)
			}
		}

		players := make([]domain.PlayerStats, 0, len(team.Players))
		for _, player := range team.Players {
			var playerAnswers []domain.AnswerRecord
			for _, a := range teamAnswers {
				if a.PlayerID == player.ID {
					playerAnswers = append(playerAnswers, a)
				}
			}
			players = append(players, domain.PlayerStats{
				ID:    player.ID,
				Name:  player.Name,
				Score: player.Score,
				Stats: totals(playerAnswers),
			})
		}

		teamTotals := domain.TeamTotals{AnswerTotals: totals(teamAnswers)}
		for _, a := range teamAnswers {
			switch a.RoundType {
			case domain.QuestionNormal:
				teamTotals.NormalPoints += a.Points
			case domain.QuestionBonus:
				teamTotals.BonusPoints += a.Points
			case domain.QuestionLightning:
				teamTotals.LightningPoints += a.Points
			}
		}

		out = append(out, domain.TeamStats{
			ID:      team.ID,
			Name:    team.Name,
			Score:   team.Score,
			Players: players,
			Stats:   teamTotals,
		})
	}
	return out
}

func totals(answers []domain.AnswerRecord) domain.AnswerTotals {
	t := domain.AnswerTotals{TotalAnswered: len(answers)}
	for _, a := range answers {
		if a.IsCorrect {
			t.CorrectAnswers++
		}
	}
	if t.TotalAnswered > 0 {
		t.Accuracy = float64(t.CorrectAnswers) / float64(t.TotalAnswered) * 100
	}
	return t
}
