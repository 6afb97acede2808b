package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"team-quiz-service/internal/domain"
)

type questionSetRow struct {
	bun.BaseModel `bun:"table:question_sets"`

	Name string             `bun:"name,pk"`
	Data domain.QuestionSet `bun:"data,type:jsonb"`
}

// SaveQuestionSet upserts a named question set so it can be loaded as "pg:<name>".
func SaveQuestionSet(ctx context.Context, db *bun.DB, name string, questions []domain.Question) error {
	if name == "" {
		return fmt.Errorf("%w: question set name is required", domain.ErrValidation)
	}
	row := &questionSetRow{Name: name, Data: domain.QuestionSet{Questions: questions}}
	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (name) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = now()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save question set: %w", err)
	}
	return nil
}
