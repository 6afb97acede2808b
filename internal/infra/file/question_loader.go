package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"team-quiz-service/internal/domain"
)

// QuestionLoader reads {"questions": [...]} documents from the local filesystem.
// The source id is the file path.
type QuestionLoader struct{}

func NewQuestionLoader() *QuestionLoader {
	return &QuestionLoader{}
}

func (l *QuestionLoader) LoadQuestions(_ context.Context, path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s: %w", path, domain.ErrQuestionSetNotFound)
		}
		return nil, fmt.Errorf("read question file: %w", err)
	}
	return domain.DecodeQuestionSet(data)
}
