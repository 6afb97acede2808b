package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"team-quiz-service/internal/domain"
	"team-quiz-service/internal/infra/file"
	"team-quiz-service/internal/infra/memory"
)

func TestRouterDispatch(t *testing.T) {
	files := &stubLoader{}
	pg := &stubLoader{}
	lite := &stubLoader{}
	router := &Router{
		Static:   memory.NewSampleLoader(),
		Files:    files,
		Postgres: pg,
		SQLite:   lite,
	}
	ctx := context.Background()

	questions, err := router.LoadQuestions(ctx, "sample")
	if err != nil || len(questions) != 22 {
		t.Fatalf("expected sample set, got %d questions err=%v", len(questions), err)
	}

	_, _ = router.LoadQuestions(ctx, "pg:friday-night")
	_, _ = router.LoadQuestions(ctx, "sqlite:/tmp/quiz.db")
	_, _ = router.LoadQuestions(ctx, "/srv/quizzes/round1.json")

	if len(pg.ids) != 1 || pg.ids[0] != "friday-night" {
		t.Fatalf("expected postgres lookup of friday-night, got %v", pg.ids)
	}
	if len(lite.ids) != 1 || lite.ids[0] != "/tmp/quiz.db" {
		t.Fatalf("expected sqlite lookup of /tmp/quiz.db, got %v", lite.ids)
	}
	if len(files.ids) != 1 || files.ids[0] != "/srv/quizzes/round1.json" {
		t.Fatalf("expected file lookup, got %v", files.ids)
	}
}

func TestRouterUnconfiguredBackends(t *testing.T) {
	router := &Router{Static: memory.NewSampleLoader()}
	ctx := context.Background()

	for _, id := range []string{"pg:x", "sqlite:x.db", "x.json"} {
		if _, err := router.LoadQuestions(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("%s: expected not found, got %v", id, err)
		}
	}
	if _, err := router.LoadQuestions(ctx, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty id, got %v", err)
	}
}

func TestRouterCacheable(t *testing.T) {
	router := &Router{Static: memory.NewSampleLoader()}
	cases := []struct {
		id   string
		want bool
	}{
		{"sample", true},
		{"pg:friday-night", true},
		{"sqlite:/tmp/quiz.db", false},
		{"/srv/quizzes/round1.json", false},
		{"questions.json", false},
	}
	for _, tc := range cases {
		if got := router.Cacheable(tc.id); got != tc.want {
			t.Fatalf("%s: expected cacheable=%v, got %v", tc.id, tc.want, got)
		}
	}
}

func TestCachedRouterRereadsFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	writeFile := func(body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write questions: %v", err)
		}
	}
	router := &Router{Static: memory.NewSampleLoader(), Files: file.NewQuestionLoader()}
	repo := memory.NewQuestionRepository(router, time.Minute)
	ctx := context.Background()

	writeFile(`{"questions":[{"id":1,"text":"Capital of France?","answer":"Paris","type":"normal"}]}`)
	questions, err := repo.LoadQuestions(ctx, path)
	if err != nil || len(questions) != 1 {
		t.Fatalf("first load: %d questions err=%v", len(questions), err)
	}

	writeFile(`{"questions":[{"id":1,"text":"Capital of Italy?","type":"normal"},{"id":2,"text":"Capital of Spain?","type":"lightning"}]}`)
	questions, err = repo.LoadQuestions(ctx, path)
	if err != nil {
		t.Fatalf("reload edited file: %v", err)
	}
	if len(questions) != 2 || questions[0].Text != "Capital of Italy?" {
		t.Fatalf("expected edited content, got %+v", questions)
	}

	writeFile(`{"questions":[`)
	if _, err := repo.LoadQuestions(ctx, path); !errors.Is(err, domain.ErrFormat) {
		t.Fatalf("expected format error for corrupted file, got %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := repo.LoadQuestions(ctx, path); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for deleted file, got %v", err)
	}

	if _, err := repo.LoadQuestions(ctx, "sample"); err != nil {
		t.Fatalf("sample still loads: %v", err)
	}
}

type stubLoader struct {
	ids []string
}

func (s *stubLoader) LoadQuestions(_ context.Context, id string) ([]domain.Question, error) {
	s.ids = append(s.ids, id)
	return []domain.Question{{ID: 1, Text: id, Type: domain.QuestionNormal}}, nil
}
