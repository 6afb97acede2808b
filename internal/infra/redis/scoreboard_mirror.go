package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"team-quiz-service/internal/domain"
)

const (
	StateKey  = "quiz:state"
	ScoresKey = "quiz:scores"
)

// ScoreboardMirror publishes quiz snapshots to Redis for external displays.
// Notes:
//   - It is write-only; the engine never reads state back, so a restart still
//     starts from a fresh quiz.
//   - Keys expire after ttl so an abandoned quiz does not linger.
type ScoreboardMirror struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreboardMirror(client *redis.Client, ttl time.Duration) *ScoreboardMirror {
	return &ScoreboardMirror{client: client, ttl: ttl}
}

// Publish writes the full snapshot to quiz:state and team scores to the quiz:scores hash.
func (m *ScoreboardMirror) Publish(ctx context.Context, state domain.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, StateKey, data, m.ttl)
	pipe.Del(ctx, ScoresKey)
	if len(state.Teams) > 0 {
		scores := make(map[string]interface{}, len(state.Teams))
		for _, team := range state.Teams {
			scores[strconv.Itoa(team.ID)] = team.Score
		}
		pipe.HSet(ctx, ScoresKey, scores)
		if m.ttl > 0 {
			pipe.Expire(ctx, ScoresKey, m.ttl)
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}
