package app

import (
	"context"
	"log"
	"sync"
	"time"

	"team-quiz-service/internal/domain"
)

// QuestionSource resolves a source id ("sample", a file path, ...) into an ordered question list.
type QuestionSource interface {
	LoadQuestions(ctx context.Context, source string) ([]domain.Question, error)
}

// StateSink receives a snapshot after every state change (e.g. an external scoreboard).
type StateSink interface {
	Publish(ctx context.Context, state domain.State) error
}

const (
	pointsCorrect          = 5
	pointsLightningPenalty = -5

	sinkTimeout = 2 * time.Second
)

// QuizEngine owns all mutable quiz state. Every exported method holds a single
// lock for its whole duration so score updates and history appends are never torn.
type QuizEngine struct {
	source       QuestionSource
	sink         StateSink
	now          func() time.Time
	nextPlayerID func() int

	mu           sync.Mutex
	questions    []domain.Question
	teams        []domain.Team
	currentIndex int
	currentRound domain.Round
	history      []domain.AnswerRecord
	bonusTeamID  *int
	subscribers  map[chan domain.State]struct{}

	// sinkQueue holds the latest unpublished snapshot; publishLoop drains it outside mu.
	sinkQueue chan domain.State
	sinkDone  chan struct{}
	closed    bool
}

// Option configures a QuizEngine.
type Option func(*QuizEngine)

// WithClock overrides the clock used for answer timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *QuizEngine) { e.now = now }
}

// WithPlayerIDs overrides the player id generator. It is called with the engine lock held.
func WithPlayerIDs(next func() int) Option {
	return func(e *QuizEngine) { e.nextPlayerID = next }
}

// WithTeams replaces the default two teams.
func WithTeams(teams []domain.Team) Option {
	return func(e *QuizEngine) { e.teams = cloneTeams(teams) }
}

// WithStateSink registers a sink that is fed snapshots from a background goroutine.
// A slow sink sees only the latest snapshot; it never delays engine callers.
func WithStateSink(sink StateSink) Option {
	return func(e *QuizEngine) { e.sink = sink }
}

// DefaultTeams returns the two teams every quiz starts with.
func DefaultTeams() []domain.Team {
	return []domain.Team{
		{ID: 1, Name: "Team A", Players: []domain.Player{}},
		{ID: 2, Name: "Team B", Players: []domain.Player{}},
	}
}

func NewQuizEngine(source QuestionSource, opts ...Option) *QuizEngine {
	e := &QuizEngine{
		source:       source,
		now:          time.Now,
		nextPlayerID: newCounter(),
		questions:    []domain.Question{},
		teams:        DefaultTeams(),
		currentRound: domain.RoundNormal,
		history:      []domain.AnswerRecord{},
		subscribers:  make(map[chan domain.State]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sink != nil {
		e.sinkQueue = make(chan domain.State, 1)
		e.sinkDone = make(chan struct{})
		go e.publishLoop()
	}
	return e
}

// Close stops the sink publisher once the pending snapshot has been delivered.
// The engine keeps serving calls afterwards; they are no longer published.
func (e *QuizEngine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	if e.sinkQueue != nil {
		close(e.sinkQueue)
	}
	e.mu.Unlock()

	if e.sinkDone != nil {
		<-e.sinkDone
	}
}

func (e *QuizEngine) publishLoop() {
	defer close(e.sinkDone)
	for state := range e.sinkQueue {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		if err := e.sink.Publish(ctx, state); err != nil {
			log.Printf("state sink publish failed: %v", err)
		}
		cancel()
	}
}

func newCounter() func() int {
	next := 0
	return func() int {
		next++
		return next
	}
}

// ClassifyRound maps a zero-based question index to its round.
// Callers pass the index being left, not the one being entered.
func ClassifyRound(index int) domain.Round {
	n := index + 1
	switch {
	case n%8 == 0:
		return domain.RoundLightning
	case n%4 == 0:
		return domain.RoundBonus
	default:
		return domain.RoundNormal
	}
}

// LoadQuestions replaces the question list with the set resolved from source.
// Teams, history and the current index are left untouched.
func (e *QuizEngine) LoadQuestions(ctx context.Context, source string) ([]domain.Question, error) {
	questions, err := e.source.LoadQuestions(ctx, source)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.questions = cloneQuestions(questions)
	e.changedLocked()
	return cloneQuestions(questions), nil
}

// Reset zeroes scores, position, round, history and bonus eligibility.
// Questions and team/player identities survive.
func (e *QuizEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.currentIndex = 0
	e.currentRound = domain.RoundNormal
	e.history = []domain.AnswerRecord{}
	e.bonusTeamID = nil
	for i := range e.teams {
		e.teams[i].Score = 0
		for j := range e.teams[i].Players {
			e.teams[i].Players[j].Score = 0
		}
	}
	e.changedLocked()
}

// State returns a snapshot of the quiz.
func (e *QuizEngine) State() domain.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// History returns a copy of the answer history in insertion order.
func (e *QuizEngine) History() []domain.AnswerRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.AnswerRecord, len(e.history))
	copy(out, e.history)
	return out
}

// Advance moves to the next question. It returns false, changing nothing,
// when already on the last question or when no questions are loaded.
func (e *QuizEngine) Advance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.currentIndex >= len(e.questions)-1 {
		return false
	}
	previous := e.currentIndex
	e.currentIndex = previous + 1
	e.currentRound = ClassifyRound(previous)
	e.changedLocked()
	return true
}

// RecordAnswer scores an answer to the current question for a team's player.
func (e *QuizEngine) RecordAnswer(teamID, playerID int, isCorrect bool) (domain.AnswerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.currentIndex >= len(e.questions) {
		return domain.AnswerResult{}, domain.ErrNoCurrentQuestion
	}
	question := e.questions[e.currentIndex]

	ti := e.teamIndexLocked(teamID)
	if ti < 0 {
		return domain.AnswerResult{}, domain.ErrTeamOrPlayerNotFound
	}
	team := &e.teams[ti]
	pi := playerIndex(*team, playerID)
	if pi < 0 {
		return domain.AnswerResult{}, domain.ErrTeamOrPlayerNotFound
	}

	points := scoreAnswer(question.Type, isCorrect)
	team.Score += points
	team.Players[pi].Score += points

	record := domain.AnswerRecord{
		QuestionIndex: e.currentIndex,
		TeamID:        teamID,
		PlayerID:      playerID,
		IsCorrect:     isCorrect,
		Points:        points,
		Timestamp:     e.now().Unix(),
		RoundType:     question.Type,
	}
	e.history = append(e.history, record)

	// A correct answer just before a bonus round earns that team the bonus question.
	if isCorrect && ClassifyRound(e.currentIndex) == domain.RoundBonus {
		id := teamID
		e.bonusTeamID = &id
	}

	e.changedLocked()
	return domain.AnswerResult{RecordedAnswer: record, UpdatedTeam: team.Clone()}, nil
}

// Subscribe returns a channel that receives a snapshot after every change.
// The first value is the current snapshot. The caller must invoke cancel.
func (e *QuizEngine) Subscribe() (<-chan domain.State, func()) {
	ch := make(chan domain.State, 8)

	e.mu.Lock()
	e.subscribers[ch] = struct{}{}
	ch <- e.stateLocked()
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

func scoreAnswer(questionType domain.QuestionType, isCorrect bool) int {
	switch {
	case isCorrect:
		return pointsCorrect
	case questionType == domain.QuestionLightning:
		return pointsLightningPenalty
	default:
		return 0
	}
}

// changedLocked fans the new snapshot out to subscribers and queues it for the sink.
func (e *QuizEngine) changedLocked() {
	if len(e.subscribers) == 0 && e.sink == nil {
		return
	}
	state := e.stateLocked()
	for ch := range e.subscribers {
		select {
		case ch <- state:
		default:
			// slow reader: drop the stale snapshot in favour of the new one
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
	if e.sinkQueue != nil && !e.closed {
		// only this method sends, and always under mu, so one drain frees the slot
		select {
		case e.sinkQueue <- state:
		default:
			select {
			case <-e.sinkQueue:
			default:
			}
			e.sinkQueue <- state
		}
	}
}

func (e *QuizEngine) stateLocked() domain.State {
	state := domain.State{
		CurrentQuestionIndex: e.currentIndex,
		CurrentRound:         e.currentRound,
		Teams:                cloneTeams(e.teams),
		TotalQuestions:       len(e.questions),
		Questions:            cloneQuestions(e.questions),
	}
	if e.currentIndex < len(e.questions) {
		q := e.questions[e.currentIndex]
		state.CurrentQuestion = &q
	}
	if e.bonusTeamID != nil {
		id := *e.bonusTeamID
		state.BonusTeamID = &id
	}
	return state
}

func (e *QuizEngine) teamIndexLocked(teamID int) int {
	for i := range e.teams {
		if e.teams[i].ID == teamID {
			return i
		}
	}
	return -1
}

func playerIndex(team domain.Team, playerID int) int {
	for i := range team.Players {
		if team.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

func cloneTeams(teams []domain.Team) []domain.Team {
	out := make([]domain.Team, len(teams))
	for i := range teams {
		out[i] = teams[i].Clone()
	}
	return out
}

func cloneQuestions(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out
}
