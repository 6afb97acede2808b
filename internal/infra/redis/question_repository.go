package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"team-quiz-service/internal/domain"
)

// QuestionLoader fetches a question set from a backing source (file, DB, built-in).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, source string) ([]domain.Question, error)
}

// CachePolicy lets a loader keep volatile sources (files edited in place) out of Redis.
type CachePolicy interface {
	Cacheable(source string) bool
}

// QuestionRepository caches question sets in Redis and falls back to a loader on miss.
// Sets are stored as: HSET quiz:questions:{source} {position} {question JSON}
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) LoadQuestions(ctx context.Context, source string) ([]domain.Question, error) {
	if policy, ok := r.loader.(CachePolicy); ok && !policy.Cacheable(source) {
		return r.loader.LoadQuestions(ctx, source)
	}
	if questions, ok := r.cached(ctx, source); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.cached(ctx, source); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, source)
		if err != nil {
			return nil, err
		}

		ttl := r.ttlWithJitter()
		if ttl <= 0 || len(questions) == 0 {
			return questions, nil
		}
		key := r.key(source)
		pipe := r.client.TxPipeline()
		pipe.Del(ctx, key)
		for i, q := range questions {
			data, err := json.Marshal(q)
			if err != nil {
				return nil, err
			}
			pipe.HSet(ctx, key, strconv.Itoa(i), data)
		}
		pipe.Expire(ctx, key, ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("cache question set %q: %v", source, err)
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(ctx context.Context, source string) ([]domain.Question, bool) {
	if r.ttl <= 0 {
		return nil, false
	}
	entries, err := r.client.HGetAll(ctx, r.key(source)).Result()
	if err != nil || len(entries) == 0 {
		return nil, false
	}
	questions, err := buildSetFromCache(entries)
	if err != nil {
		return nil, false
	}
	return questions, true
}

func (r *QuestionRepository) key(source string) string {
	return "quiz:questions:" + source
}

func buildSetFromCache(entries map[string]string) ([]domain.Question, error) {
	type positioned struct {
		pos int
		q   domain.Question
	}
	items := make([]positioned, 0, len(entries))
	for field, raw := range entries {
		pos, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, err
		}
		items = append(items, positioned{pos: pos, q: q})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].pos < items[j].pos })

	questions := make([]domain.Question, len(items))
	for i, it := range items {
		questions[i] = it.q
	}
	return questions, nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
