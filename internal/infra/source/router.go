// Package source resolves question source ids to the loader that serves them.
//
// Recognised ids:
//
//	sample            built-in set (any name registered on the static loader)
//	pg:<name>         question_sets row in Postgres
//	sqlite:<path>     questions table in a SQLite file
//	anything else     path to a JSON document on disk
package source

import (
	"context"
	"fmt"
	"strings"

	"team-quiz-service/internal/domain"
)

const (
	PostgresPrefix = "pg:"
	SQLitePrefix   = "sqlite:"
)

type Loader interface {
	LoadQuestions(ctx context.Context, id string) ([]domain.Question, error)
}

// NamedLoader is a Loader that can tell whether it owns a name.
type NamedLoader interface {
	Loader
	Has(name string) bool
}

// Router dispatches on the source id. Nil backends resolve to not found.
type Router struct {
	Static   NamedLoader
	Files    Loader
	Postgres Loader
	SQLite   Loader
}

func (r *Router) LoadQuestions(ctx context.Context, id string) ([]domain.Question, error) {
	switch {
	case id == "":
		return nil, fmt.Errorf("%w: question source is required", domain.ErrValidation)
	case r.Static != nil && r.Static.Has(id):
		return r.Static.LoadQuestions(ctx, id)
	case strings.HasPrefix(id, PostgresPrefix):
		return dispatch(ctx, r.Postgres, "postgres", strings.TrimPrefix(id, PostgresPrefix))
	case strings.HasPrefix(id, SQLitePrefix):
		return dispatch(ctx, r.SQLite, "sqlite", strings.TrimPrefix(id, SQLitePrefix))
	default:
		return dispatch(ctx, r.Files, "file", id)
	}
}

// Cacheable reports whether the content behind id is stable enough to cache.
// Files and SQLite databases are edited in place between loads, so they are always re-read.
func (r *Router) Cacheable(id string) bool {
	if r.Static != nil && r.Static.Has(id) {
		return true
	}
	return strings.HasPrefix(id, PostgresPrefix)
}

func dispatch(ctx context.Context, loader Loader, kind, id string) ([]domain.Question, error) {
	if loader == nil {
		return nil, fmt.Errorf("%s question sources not configured: %w", kind, domain.ErrQuestionSetNotFound)
	}
	return loader.LoadQuestions(ctx, id)
}
