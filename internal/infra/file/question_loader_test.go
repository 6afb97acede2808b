package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"team-quiz-service/internal/domain"
)

func TestLoadQuestionsFromFile(t *testing.T) {
	path := writeFile(t, `{"questions": [
		{"id": 1, "text": "Capital of Peru?", "answer": "Lima", "type": "normal"},
		{"id": 2, "text": "LIGHTNING ROUND: Rivers", "type": "lightning_theme"},
		{"id": 3, "text": "Longest river?", "answer": "Nile", "type": "lightning"}
	]}`)

	questions, err := NewQuestionLoader().LoadQuestions(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	if questions[2].Type != domain.QuestionLightning || questions[2].ID != 3 {
		t.Fatalf("unexpected question %+v", questions[2])
	}
}

func TestLoadQuestionsFileErrors(t *testing.T) {
	loader := NewQuestionLoader()
	ctx := context.Background()

	missing := filepath.Join(t.TempDir(), "missing.json")
	if _, err := loader.LoadQuestions(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := loader.LoadQuestions(ctx, writeFile(t, `{"questions": [`)); !errors.Is(err, domain.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}

	if _, err := loader.LoadQuestions(ctx, writeFile(t, `{"rounds": []}`)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiz.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
