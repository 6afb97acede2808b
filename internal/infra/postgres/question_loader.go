package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"team-quiz-service/internal/domain"
)

// QuestionLoader loads question set JSONB documents from Postgres by name.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, name string) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE name=$1`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("question set %q: %w", name, domain.ErrQuestionSetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}
	return domain.DecodeQuestionSet(raw)
}
