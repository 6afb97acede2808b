package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"team-quiz-service/internal/app"
	"team-quiz-service/internal/domain"
)

// RESTHandler exposes the quiz engine as JSON endpoints under /api.
type RESTHandler struct {
	engine *app.QuizEngine
}

func NewRESTHandler(engine *app.QuizEngine) *RESTHandler {
	return &RESTHandler{engine: engine}
}

// Register mounts the API routes on r.
func (h *RESTHandler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/load-questions", h.loadQuestions).Methods(http.MethodPost)

	api.HandleFunc("/quiz/current", h.currentState).Methods(http.MethodGet)
	api.HandleFunc("/quiz/answer", h.recordAnswer).Methods(http.MethodPost)
	api.HandleFunc("/quiz/next", h.next).Methods(http.MethodPost)
	api.HandleFunc("/quiz/stats", h.stats).Methods(http.MethodGet)
	api.HandleFunc("/quiz/reset", h.reset).Methods(http.MethodPost)

	api.HandleFunc("/teams", h.getTeams).Methods(http.MethodGet)
	api.HandleFunc("/teams", h.replaceTeams).Methods(http.MethodPut)
	api.HandleFunc("/teams/{team_id:[0-9]+}", h.updateTeamName).Methods(http.MethodPatch)
	api.HandleFunc("/teams/{team_id:[0-9]+}/players", h.addPlayer).Methods(http.MethodPost)
	api.HandleFunc("/teams/{team_id:[0-9]+}/players/{player_id:[0-9]+}", h.removePlayer).Methods(http.MethodDelete)
}

type errorPayload struct {
	Error string `json:"error"`
}

type loadQuestionsRequest struct {
	FilePath string `json:"filePath"`
}

type answerRequest struct {
	TeamID    *int  `json:"team_id"`
	PlayerID  *int  `json:"player_id"`
	IsCorrect *bool `json:"is_correct"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type teamsRequest struct {
	Teams *[]domain.Team `json:"teams"`
}

func (h *RESTHandler) loadQuestions(w http.ResponseWriter, r *http.Request) {
	var req loadQuestionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	h.engine.Reset()
	questions, err := h.engine.LoadQuestions(r.Context(), req.FilePath)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("loaded %d questions from %q", len(questions), req.FilePath)
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (h *RESTHandler) currentState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.State())
}

func (h *RESTHandler) recordAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TeamID == nil || req.PlayerID == nil || req.IsCorrect == nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "team_id, player_id, and is_correct are required"})
		return
	}

	result, err := h.engine.RecordAnswer(*req.TeamID, *req.PlayerID, *req.IsCorrect)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *RESTHandler) next(w http.ResponseWriter, _ *http.Request) {
	if !h.engine.Advance() {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "Already at the last question"})
		return
	}
	state := h.engine.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":                true,
		"current_question_index": state.CurrentQuestionIndex,
		"current_round":          state.CurrentRound,
	})
}

func (h *RESTHandler) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stats": h.engine.Stats()})
}

func (h *RESTHandler) reset(w http.ResponseWriter, _ *http.Request) {
	h.engine.Reset()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Quiz reset successfully"})
}

func (h *RESTHandler) getTeams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"teams": h.engine.Teams()})
}

func (h *RESTHandler) replaceTeams(w http.ResponseWriter, r *http.Request) {
	var req teamsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Teams == nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "Teams data is required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"teams": h.engine.ReplaceTeams(*req.Teams)})
}

func (h *RESTHandler) addPlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathInt(w, r, "team_id")
	if !ok {
		return
	}
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	player, err := h.engine.AddPlayer(teamID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"player": player})
}

func (h *RESTHandler) removePlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathInt(w, r, "team_id")
	if !ok {
		return
	}
	playerID, ok := pathInt(w, r, "player_id")
	if !ok {
		return
	}

	removed, err := h.engine.RemovePlayer(teamID, playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": removed})
}

func (h *RESTHandler) updateTeamName(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathInt(w, r, "team_id")
	if !ok {
		return
	}
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	team, err := h.engine.UpdateTeamName(teamID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"team": team})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid JSON body"})
		return false
	}
	return true
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid " + name})
		return 0, false
	}
	return v, true
}

// statusFor maps domain error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFormat),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorPayload{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
