package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"team-quiz-service/internal/domain"
)

// QuestionLoader fetches a question set from a backing source (file, DB, built-in).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, source string) ([]domain.Question, error)
}

// CachePolicy is implemented by loaders that serve some sources which must not be cached.
type CachePolicy interface {
	Cacheable(source string) bool
}

// QuestionRepository caches question sets per source id with a TTL.
// A TTL of zero or less disables caching, as does a loader whose CachePolicy rejects the source.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (r *QuestionRepository) LoadQuestions(ctx context.Context, source string) ([]domain.Question, error) {
	if policy, ok := r.loader.(CachePolicy); ok && !policy.Cacheable(source) {
		return r.loader.LoadQuestions(ctx, source)
	}
	if questions, ok := r.lookup(source, r.clock()); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		now := r.clock()
		if questions, ok := r.lookup(source, now); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, source)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if ttl := r.ttlWithJitter(); ttl > 0 {
			r.cache[source] = cachedSet{
				questions: questions,
				expiresAt: now.Add(ttl),
			}
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

func (r *QuestionRepository) lookup(source string, now time.Time) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[source]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return copyQuestions(entry.questions), true
}

// ttlWithJitter must be called with mu held; rnd is not safe for concurrent use.
func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func copyQuestions(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out
}
