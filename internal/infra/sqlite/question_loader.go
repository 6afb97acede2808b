package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"team-quiz-service/internal/domain"
)

// Schema is the table layout the loader expects in a question database.
const Schema = `
CREATE TABLE IF NOT EXISTS questions (
    position INTEGER PRIMARY KEY,
    id       INTEGER NOT NULL,
    text     TEXT NOT NULL,
    answer   TEXT,
    type     TEXT NOT NULL DEFAULT 'normal'
);`

// QuestionLoader reads a question set from a SQLite database file.
// The source id is the database path.
type QuestionLoader struct{}

func NewQuestionLoader() *QuestionLoader {
	return &QuestionLoader{}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, path string) ([]domain.Question, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("database not found: %s: %w", path, domain.ErrQuestionSetNotFound)
		}
		return nil, fmt.Errorf("stat question database: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open question database: %w", err)
	}
	defer db.Close()

	var tables int
	err = db.QueryRowContext(ctx, `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'questions'`).Scan(&tables)
	if err != nil {
		return nil, fmt.Errorf("inspect question database: %w", err)
	}
	if tables == 0 {
		return nil, fmt.Errorf("%w: missing questions table", domain.ErrValidation)
	}

	rows, err := db.QueryContext(ctx, `SELECT id, text, answer, type FROM questions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var (
			q      domain.Question
			answer sql.NullString
			typ    string
		)
		if err := rows.Scan(&q.ID, &q.Text, &answer, &typ); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if answer.Valid {
			a := answer.String
			q.Answer = &a
		}
		q.Type = domain.QuestionType(typ)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	if err := domain.NormalizeQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}
