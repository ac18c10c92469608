package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"studyforge-backend/internal/cache"
	"studyforge-backend/internal/repository"
	"studyforge-backend/internal/services"
	"studyforge-backend/internal/study"
)

func newStudyRouter() http.Handler {
	h := NewStudyHandler(services.NewStudyService(study.NewStore(cache.NewMemory()), repository.NoopHistory{}))

	r := chi.NewRouter()
	r.Post("/decks", h.CreateDeck)
	r.Get("/decks/{id}", h.GetDeck)
	r.Post("/decks/{id}/{action}", h.DeckAction)
	r.Post("/quizzes", h.CreateQuizSession)
	r.Get("/quizzes/{id}/results", h.QuizResults)
	r.Post("/quizzes/{id}/{action}", h.QuizAction)
	r.Get("/workspaces/{id}", h.GetWorkspace)
	r.Put("/workspaces/{id}/preferences", h.UpdatePreferences)
	r.Post("/workspaces/{id}/topics", h.AddTrendingTopic)
	r.Delete("/workspaces/{id}", h.ClearWorkspace)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response from %s %s: %v", method, path, err)
	}
	return rr.Code, resp
}

func TestStudyHandler_Deck(t *testing.T) {
	r := newStudyRouter()

	code, resp := do(t, r, http.MethodPost, "/decks", `{"title":"Cells","flashcards":[
		{"id":"a","question":"Q1","answer":"A1","difficulty":"easy"},
		{"id":"b","question":"Q2","answer":"A2","difficulty":"hard"}]}`)
	if code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %v", code, resp)
	}
	deck := resp["data"].(map[string]interface{})
	id := deck["id"].(string)

	code, resp = do(t, r, http.MethodPost, "/decks/"+id+"/next", "")
	if code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	deck = resp["data"].(map[string]interface{})
	if deck["currentIndex"] != float64(1) {
		t.Fatalf("Expected currentIndex 1, got %v", deck["currentIndex"])
	}
	progress := deck["progress"].(map[string]interface{})
	if progress["percentage"] != float64(100) {
		t.Fatalf("Expected 100%% progress, got %v", progress)
	}

	if code, _ := do(t, r, http.MethodPost, "/decks/"+id+"/spin", ""); code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for unknown action, got %d", code)
	}
	if code, _ := do(t, r, http.MethodGet, "/decks/missing", ""); code != http.StatusNotFound {
		t.Fatalf("Expected status 404 for missing deck, got %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/decks", `{"title":"Empty"}`); code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for empty deck, got %d", code)
	}
}

func TestStudyHandler_QuizLifecycle(t *testing.T) {
	r := newStudyRouter()

	code, resp := do(t, r, http.MethodPost, "/quizzes", `{"quiz":{"id":"quiz-1","title":"Cells","timeLimit":5,"questions":[
		{"id":"q1","question":"Q1","options":["a","b"],"correctAnswer":1},
		{"id":"q2","question":"Q2","options":["a","b"],"correctAnswer":0}]}}`)
	if code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %v", code, resp)
	}
	id := resp["data"].(map[string]interface{})["id"].(string)

	// answering before start conflicts with the session state
	if code, _ := do(t, r, http.MethodPost, "/quizzes/"+id+"/answer", `{"questionIndex":0,"selectedAnswer":1}`); code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", code)
	}

	if code, _ := do(t, r, http.MethodGet, "/quizzes/"+id+"/results", ""); code != http.StatusNotFound {
		t.Fatalf("Expected status 404 before any answers, got %d", code)
	}

	code, resp = do(t, r, http.MethodPost, "/quizzes/"+id+"/start", "")
	if code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if got := resp["data"].(map[string]interface{})["timeDisplay"]; got != "5:00" {
		t.Fatalf("Expected time display 5:00, got %v", got)
	}

	do(t, r, http.MethodPost, "/quizzes/"+id+"/answer", `{"questionIndex":0,"selectedAnswer":1}`)
	do(t, r, http.MethodPost, "/quizzes/"+id+"/next", "")
	do(t, r, http.MethodPost, "/quizzes/"+id+"/answer", `{"questionIndex":1,"selectedAnswer":1}`)
	code, resp = do(t, r, http.MethodPost, "/quizzes/"+id+"/next", "")
	if state := resp["data"].(map[string]interface{})["state"]; code != http.StatusOK || state != "completed" {
		t.Fatalf("Expected completed session, got %d %v", code, state)
	}

	code, resp = do(t, r, http.MethodGet, "/quizzes/"+id+"/results", "")
	if code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	result := resp["data"].(map[string]interface{})
	if result["score"] != float64(50) || result["correctAnswers"] != float64(1) {
		t.Fatalf("Unexpected results: %v", result)
	}
}

func TestStudyHandler_Workspace(t *testing.T) {
	r := newStudyRouter()

	code, resp := do(t, r, http.MethodGet, "/workspaces/ws-1", "")
	if code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	prefs := resp["data"].(map[string]interface{})["preferences"].(map[string]interface{})
	if prefs["trendingnessThreshold"] != float64(70) {
		t.Fatalf("Expected default threshold 70, got %v", prefs["trendingnessThreshold"])
	}

	do(t, r, http.MethodPut, "/workspaces/ws-1/preferences", `{"trendingnessThreshold":90}`)
	do(t, r, http.MethodPost, "/workspaces/ws-1/topics", `{"topic":"Fusion","score":95,"category":"science"}`)
	_, resp = do(t, r, http.MethodPost, "/workspaces/ws-1/topics", `{"topic":"Rust","score":80,"category":"technology"}`)

	ws := resp["data"].(map[string]interface{})
	if topics := ws["trendingTopics"].([]interface{}); len(topics) != 2 {
		t.Fatalf("Expected 2 topics, got %d", len(topics))
	}
	if filtered := ws["filteredTrendingTopics"].([]interface{}); len(filtered) != 1 {
		t.Fatalf("Expected 1 topic over threshold, got %d", len(filtered))
	}

	if code, _ := do(t, r, http.MethodPost, "/workspaces/ws-1/topics", `{"score":50}`); code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for missing topic, got %d", code)
	}

	_, resp = do(t, r, http.MethodDelete, "/workspaces/ws-1", "")
	ws = resp["data"].(map[string]interface{})
	if topics, _ := ws["trendingTopics"].([]interface{}); len(topics) != 0 {
		t.Fatalf("Expected topics cleared, got %v", ws["trendingTopics"])
	}
	if ws["preferences"].(map[string]interface{})["trendingnessThreshold"] != float64(90) {
		t.Fatalf("Expected preferences to survive a clear")
	}
}
