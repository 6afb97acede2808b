package domain

// QuestionType tags a question with the kind of round it belongs to.
type QuestionType string

const (
	QuestionNormal         QuestionType = "normal"
	QuestionBonus          QuestionType = "bonus"
	QuestionBonusTheme     QuestionType = "bonus_theme"
	QuestionLightning      QuestionType = "lightning"
	QuestionLightningTheme QuestionType = "lightning_theme"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionNormal, QuestionBonus, QuestionBonusTheme, QuestionLightning, QuestionLightningTheme:
		return true
	}
	return false
}

// Round is the position-derived round classification.
type Round string

const (
	RoundNormal    Round = "normal"
	RoundBonus     Round = "bonus"
	RoundLightning Round = "lightning"
)

// Question is immutable once loaded.
type Question struct {
	ID     int          `json:"id"`
	Text   string       `json:"text"`
	Answer *string      `json:"answer,omitempty"`
	Type   QuestionType `json:"type"`
}

// Player belongs to exactly one team; Score only changes through recorded answers.
type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Team groups players and carries the team running score.
type Team struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Players []Player `json:"players"`
	Score   int      `json:"score"`
}

// Clone returns a copy that shares no memory with t.
func (t Team) Clone() Team {
	out := t
	out.Players = make([]Player, len(t.Players))
	copy(out.Players, t.Players)
	return out
}

// AnswerRecord is one entry of the append-only answer history.
type AnswerRecord struct {
	QuestionIndex int          `json:"question_index"`
	TeamID        int          `json:"team_id"`
	PlayerID      int          `json:"player_id"`
	IsCorrect     bool         `json:"is_correct"`
	Points        int          `json:"points"`
	Timestamp     int64        `json:"timestamp"`
	RoundType     QuestionType `json:"round_type"`
}

// AnswerResult is returned after recording an answer.
type AnswerResult struct {
	RecordedAnswer AnswerRecord `json:"recorded_answer"`
	UpdatedTeam    Team         `json:"updated_team"`
}

// State is a point-in-time snapshot of the quiz.
type State struct {
	CurrentQuestionIndex int        `json:"current_question_index"`
	CurrentRound         Round      `json:"current_round"`
	CurrentQuestion      *Question  `json:"current_question"`
	BonusTeamID          *int       `json:"bonus_team_id"`
	Teams                []Team     `json:"teams"`
	TotalQuestions       int        `json:"total_questions"`
	Questions            []Question `json:"questions"`
}

// AnswerTotals aggregates a slice of answer history.
type AnswerTotals struct {
	TotalAnswered  int     `json:"total_answered"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
}

// TeamTotals extends AnswerTotals with points summed per round type.
type TeamTotals struct {
	AnswerTotals
	NormalPoints    int `json:"normal_points"`
	BonusPoints     int `json:"bonus_points"`
	LightningPoints int `json:"lightning_points"`
}

type PlayerStats struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Score int          `json:"score"`
	Stats AnswerTotals `json:"stats"`
}

type TeamStats struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Score   int           `json:"score"`
	Players []PlayerStats `json:"players"`
	Stats   TeamTotals    `json:"stats"`
}
