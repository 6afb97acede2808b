package domain

import (
	"encoding/json"
	"fmt"
)

// QuestionSet is the on-disk/in-DB document shape: {"questions": [...]}.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// DecodeQuestionSet parses a question set document.
// Invalid JSON yields ErrFormat; a document without a "questions" key, or with
// malformed question records, yields ErrValidation.
func DecodeQuestionSet(data []byte) ([]Question, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidQuestionJSON
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrMissingQuestions
	}
	raw, ok := doc["questions"]
	if !ok {
		return nil, ErrMissingQuestions
	}

	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("%w: malformed questions: %v", ErrValidation, err)
	}
	if err := NormalizeQuestions(questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []Question{}
	}
	return questions, nil
}

// NormalizeQuestions defaults empty types to normal and rejects unknown ones.
func NormalizeQuestions(questions []Question) error {
	for i := range questions {
		if questions[i].Type == "" {
			questions[i].Type = QuestionNormal
		}
		if !questions[i].Type.Valid() {
			return fmt.Errorf("%w %q at position %d", ErrUnknownQuestionType, questions[i].Type, i)
		}
	}
	return nil
}
