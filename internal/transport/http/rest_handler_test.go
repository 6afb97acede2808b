package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"team-quiz-service/internal/app"
	"team-quiz-service/internal/domain"
	"team-quiz-service/internal/infra/file"
	"team-quiz-service/internal/infra/memory"
	"team-quiz-service/internal/infra/source"
)

func TestLoadQuestionsEndpoint(t *testing.T) {
	handler := newTestRouter()

	rec := do(t, handler, http.MethodPost, "/api/load-questions", `{"filePath": "sample"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Questions []domain.Question `json:"questions"`
	}
	decode(t, rec, &body)
	if len(body.Questions) != 22 {
		t.Fatalf("expected 22 questions, got %d", len(body.Questions))
	}

	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	noKey := filepath.Join(dir, "nokey.json")
	_ = os.WriteFile(broken, []byte(`{"questions": [`), 0o600)
	_ = os.WriteFile(noKey, []byte(`{"other": 1}`), 0o600)

	cases := []struct {
		path   string
		status int
	}{
		{filepath.Join(dir, "missing.json"), http.StatusNotFound},
		{broken, http.StatusBadRequest},
		{noKey, http.StatusBadRequest},
	}
	for _, tc := range cases {
		payload, _ := json.Marshal(map[string]string{"filePath": tc.path})
		rec := do(t, handler, http.MethodPost, "/api/load-questions", string(payload))
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d: %s", tc.path, tc.status, rec.Code, rec.Body)
		}
		var e errorPayload
		decode(t, rec, &e)
		if e.Error == "" {
			t.Fatalf("%s: expected error message", tc.path)
		}
	}
}

func TestQuizFlowEndpoints(t *testing.T) {
	handler := newTestRouter()
	do(t, handler, http.MethodPost, "/api/load-questions", `{"filePath": "sample"}`)

	rec := do(t, handler, http.MethodPost, "/api/teams/1/players", `{"name": "Alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add player: %d %s", rec.Code, rec.Body)
	}
	var added struct {
		Player domain.Player `json:"player"`
	}
	decode(t, rec, &added)

	for i := 0; i < 3; i++ {
		do(t, handler, http.MethodPost, "/api/quiz/next", "")
	}
	answer, _ := json.Marshal(map[string]any{"team_id": 1, "player_id": added.Player.ID, "is_correct": true})
	rec = do(t, handler, http.MethodPost, "/api/quiz/answer", string(answer))
	if rec.Code != http.StatusOK {
		t.Fatalf("answer: %d %s", rec.Code, rec.Body)
	}
	var result domain.AnswerResult
	decode(t, rec, &result)
	if result.RecordedAnswer.Points != 5 || result.UpdatedTeam.Score != 5 {
		t.Fatalf("unexpected answer result %+v", result)
	}

	rec = do(t, handler, http.MethodGet, "/api/quiz/current", "")
	var state domain.State
	decode(t, rec, &state)
	if state.CurrentQuestionIndex != 3 || state.BonusTeamID == nil || *state.BonusTeamID != 1 {
		t.Fatalf("unexpected state %+v", state)
	}
	if len(state.Questions) != 22 {
		t.Fatalf("expected questions in current state, got %d", len(state.Questions))
	}

	rec = do(t, handler, http.MethodGet, "/api/quiz/stats", "")
	var stats struct {
		Stats []domain.TeamStats `json:"stats"`
	}
	decode(t, rec, &stats)
	if stats.Stats[0].Stats.Accuracy != 100 || stats.Stats[0].Stats.BonusPoints != 0 || stats.Stats[0].Stats.TotalAnswered != 1 {
		t.Fatalf("unexpected stats %+v", stats.Stats[0].Stats)
	}

	rec = do(t, handler, http.MethodPost, "/api/quiz/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: %d", rec.Code)
	}
	rec = do(t, handler, http.MethodGet, "/api/quiz/current", "")
	decode(t, rec, &state)
	if state.CurrentQuestionIndex != 0 || state.Teams[0].Score != 0 {
		t.Fatalf("expected reset state, got %+v", state)
	}
}

func TestNextAtLastQuestion(t *testing.T) {
	handler := newTestRouter()

	rec := do(t, handler, http.MethodPost, "/api/quiz/next", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with no questions, got %d", rec.Code)
	}

	do(t, handler, http.MethodPost, "/api/load-questions", `{"filePath": "sample"}`)
	rec = do(t, handler, http.MethodPost, "/api/quiz/next", "")
	var body struct {
		Success bool         `json:"success"`
		Index   int          `json:"current_question_index"`
		Round   domain.Round `json:"current_round"`
	}
	decode(t, rec, &body)
	if !body.Success || body.Index != 1 || body.Round != domain.RoundNormal {
		t.Fatalf("unexpected next body %+v", body)
	}
}

func TestAnswerValidation(t *testing.T) {
	handler := newTestRouter()

	rec := do(t, handler, http.MethodPost, "/api/quiz/answer", `{"team_id": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rec.Code)
	}
	rec = do(t, handler, http.MethodPost, "/api/quiz/answer", `{"team_id": 1, "player_id": 1, "is_correct": true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with no current question, got %d", rec.Code)
	}

	do(t, handler, http.MethodPost, "/api/load-questions", `{"filePath": "sample"}`)
	rec = do(t, handler, http.MethodPost, "/api/quiz/answer", `{"team_id": 1, "player_id": 999, "is_correct": false}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown player, got %d", rec.Code)
	}
}

func TestTeamEndpoints(t *testing.T) {
	handler := newTestRouter()

	rec := do(t, handler, http.MethodPatch, "/api/teams/2", `{"name": "Owls"}`)
	var renamed struct {
		Team domain.Team `json:"team"`
	}
	decode(t, rec, &renamed)
	if rec.Code != http.StatusOK || renamed.Team.Name != "Owls" {
		t.Fatalf("rename: %d %+v", rec.Code, renamed.Team)
	}

	if rec := do(t, handler, http.MethodPatch, "/api/teams/2", `{"name": ""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", rec.Code)
	}
	if rec := do(t, handler, http.MethodPatch, "/api/teams/7", `{"name": "Ghosts"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown team, got %d", rec.Code)
	}
	if rec := do(t, handler, http.MethodPost, "/api/teams/1/players", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing player name, got %d", rec.Code)
	}

	rec = do(t, handler, http.MethodPost, "/api/teams/1/players", `{"name": "Alice"}`)
	var added struct {
		Player domain.Player `json:"player"`
	}
	decode(t, rec, &added)

	path := "/api/teams/1/players/" + strconv.Itoa(added.Player.ID)
	for i := 0; i < 2; i++ {
		rec = do(t, handler, http.MethodDelete, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("delete %d: expected 200, got %d", i, rec.Code)
		}
	}
	if rec := do(t, handler, http.MethodDelete, "/api/teams/9/players/1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting from unknown team, got %d", rec.Code)
	}

	rec = do(t, handler, http.MethodPut, "/api/teams", `{"teams": [{"id": 5, "name": "Solo", "players": [], "score": 0}]}`)
	var replaced struct {
		Teams []domain.Team `json:"teams"`
	}
	decode(t, rec, &replaced)
	if len(replaced.Teams) != 1 || replaced.Teams[0].ID != 5 {
		t.Fatalf("unexpected replaced teams %+v", replaced.Teams)
	}
	if rec := do(t, handler, http.MethodPut, "/api/teams", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without teams key, got %d", rec.Code)
	}

	rec = do(t, handler, http.MethodGet, "/api/teams", "")
	decode(t, rec, &replaced)
	if len(replaced.Teams) != 1 || replaced.Teams[0].Name != "Solo" {
		t.Fatalf("unexpected teams %+v", replaced.Teams)
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodOptions, "/api/quiz/answer", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}

func newTestRouter() http.Handler {
	router := &source.Router{Static: memory.NewSampleLoader(), Files: file.NewQuestionLoader()}
	return NewRouter(app.NewQuizEngine(router))
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body)
	}
}
