package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine or a question source wraps
// exactly one of these so the transport layer can map it with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrFormat       = errors.New("invalid format")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state")
)

var (
	// ErrQuestionSetNotFound is returned when a question source id does not resolve.
	ErrQuestionSetNotFound = fmt.Errorf("question set %w", ErrNotFound)
	// ErrInvalidQuestionJSON indicates the question document is not valid JSON.
	ErrInvalidQuestionJSON = fmt.Errorf("%w: invalid JSON in question set", ErrFormat)
	// ErrMissingQuestions indicates the document has no "questions" key.
	ErrMissingQuestions = fmt.Errorf("%w: invalid quiz format: missing 'questions' key", ErrValidation)
	// ErrUnknownQuestionType indicates a question carries a type outside the known set.
	ErrUnknownQuestionType = fmt.Errorf("%w: unknown question type", ErrValidation)

	// ErrNoCurrentQuestion is returned when answering past the end of the question list.
	ErrNoCurrentQuestion = fmt.Errorf("%w: no current question", ErrInvalidState)

	// ErrTeamNotFound is returned when a team id does not match any team.
	ErrTeamNotFound = fmt.Errorf("team %w", ErrNotFound)
	// ErrTeamOrPlayerNotFound is returned when an answer names an unknown team or player.
	ErrTeamOrPlayerNotFound = fmt.Errorf("team or player %w", ErrNotFound)
	// ErrPlayerNameRequired is returned when adding a player without a name.
	ErrPlayerNameRequired = fmt.Errorf("%w: player name is required", ErrValidation)
	// ErrTeamNameRequired is returned when renaming a team to an empty name.
	ErrTeamNameRequired = fmt.Errorf("%w: team name is required", ErrValidation)
)
