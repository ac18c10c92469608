package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"studyforge-backend/internal/middleware"
	"studyforge-backend/internal/services"
)

func newCompetitionRouter() http.Handler {
	auth := middleware.NewJWTAuth("test-secret")
	h := NewCompetitionHandler(services.NewCompetitionService(nil, services.NewMemoryScoreboard(), nil, auth))

	r := chi.NewRouter()
	r.Post("/", h.Board)
	r.Post("/challenges", h.Challenge)
	r.Post("/{id}/join", h.Join)
	r.Get("/{id}/leaderboard", h.Leaderboard)
	r.With(auth.Middleware).Post("/{id}/answers", h.SubmitAnswer)
	return r
}

func TestCompetitionHandler_Board(t *testing.T) {
	r := newCompetitionRouter()

	code, resp := do(t, r, http.MethodPost, "/", `{"includeLeaderboard":true}`)
	if code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	board := resp["data"].(map[string]interface{})
	if active := board["activeCompetitions"].([]interface{}); len(active) != 2 {
		t.Fatalf("Expected 2 active competitions, got %d", len(active))
	}
	if leaders := board["leaderboard"].([]interface{}); len(leaders) != 5 {
		t.Fatalf("Expected 5 leaderboard entries, got %d", len(leaders))
	}
}

func TestCompetitionHandler_JoinAndAnswer(t *testing.T) {
	r := newCompetitionRouter()

	if code, _ := do(t, r, http.MethodPost, "/weekly-science-2024/join", `{"username":""}`); code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for empty username, got %d", code)
	}

	code, resp := do(t, r, http.MethodPost, "/weekly-science-2024/join", `{"username":"ada"}`)
	if code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", code)
	}
	token := resp["data"].(map[string]interface{})["token"].(string)

	for _, name := range []string{"ADA", "scienceexplorer"} {
		if code, _ := do(t, r, http.MethodPost, "/weekly-science-2024/join", `{"username":"`+name+`"}`); code != http.StatusConflict {
			t.Fatalf("Expected status 409 for taken username %q, got %d", name, code)
		}
	}

	if code, _ := do(t, r, http.MethodPost, "/weekly-science-2024/answers", `{"difficulty":"hard","correct":true}`); code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401 without token, got %d", code)
	}

	answer := func(competitionID string) (int, map[string]interface{}) {
		req := httptest.NewRequest(http.MethodPost, "/"+competitionID+"/answers", strings.NewReader(`{"difficulty":"hard","correct":true}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code, decodeResponse(t, rr)
	}

	code, resp = answer("weekly-science-2024")
	if code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %v", code, resp)
	}
	if awarded := resp["data"].(map[string]interface{})["awarded"]; awarded != float64(30) {
		t.Fatalf("Expected 30 points, got %v", awarded)
	}

	if code, _ := answer("daily-tech-2024"); code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401 for another competition, got %d", code)
	}

	code, resp = do(t, r, http.MethodGet, "/weekly-science-2024/leaderboard?limit=10", "")
	if code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if standings := resp["data"].([]interface{}); len(standings) != 6 {
		t.Fatalf("Expected 6 standings, got %d", len(standings))
	}
}

func TestCompetitionHandler_ChallengeNeedsProvider(t *testing.T) {
	r := newCompetitionRouter()

	if code, _ := do(t, r, http.MethodPost, "/challenges", `{"competitionType":"pub-quiz"}`); code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for unknown type, got %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/challenges", `{"competitionType":"trending-quiz"}`); code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500 without a provider, got %d", code)
	}
}
