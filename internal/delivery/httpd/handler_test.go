package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/database/dbtest"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/service"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/service/integration"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func newTestRouter(t *testing.T) (http.Handler, *sqlx.DB) {
	t.Helper()

	db := dbtest.New(t)
	log := zerolog.Nop()

	base := repository.NewSQLRepository(db, log)
	wordRepo := repository.NewWordRepository(db, log)
	groupRepo := repository.NewGroupRepository(db, log)
	sessionRepo := repository.NewStudySessionRepository(db, log)
	activityRepo := repository.NewStudyActivityRepository(db, log)
	reviewRepo := repository.NewReviewRepository(db, log)
	dashboardRepo := repository.NewDashboardRepository(db, log)

	h := NewHandler(
		service.NewWordService(wordRepo, log),
		service.NewGroupService(groupRepo, wordRepo, sessionRepo, base, log),
		service.NewStudySessionService(sessionRepo, reviewRepo, wordRepo, groupRepo, activityRepo, base, integration.NopPublisher{}, log),
		service.NewStudyActivityService(activityRepo, sessionRepo, log),
		service.NewDashboardService(dashboardRepo, sessionRepo, log),
		base,
		log,
	)

	router := chi.NewRouter()
	router.Use(Metrics)
	h.RegisterRoutes(router)
	return router, db
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestCreateAndGetWord(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/words", `{"word": "book", "meaning": "كتاب"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]interface{}
	decode(t, rec, &created)
	id := int(created["id"].(float64))

	rec = do(t, router, http.MethodGet, "/words/"+strconv.Itoa(id), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var word map[string]json.RawMessage
	decode(t, rec, &word)
	if string(word["english"]) != `"book"` || string(word["arabic"]) != `"كتاب"` {
		t.Fatalf("unexpected word %s", rec.Body.String())
	}
	if string(word["correct_count"]) != "0" || string(word["wrong_count"]) != "0" {
		t.Fatalf("expected zero counts, got %s", rec.Body.String())
	}
	if string(word["parts"]) != "{}" {
		t.Fatalf("expected parts {}, got %s", word["parts"])
	}
	if string(word["groups"]) != "[]" {
		t.Fatalf("expected empty groups, got %s", word["groups"])
	}
}

func TestCreateWordErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	if rec := do(t, router, http.MethodPost, "/words", `{"word": "book", "meaning": "كتاب"}`); rec.Code != http.StatusCreated {
		t.Fatalf("seed word: %d", rec.Code)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing meaning", `{"word": "pen"}`, http.StatusBadRequest},
		{"missing word", `{"meaning": "قلم"}`, http.StatusBadRequest},
		{"blank word and meaning", `{"word": "   ", "meaning": "   "}`, http.StatusBadRequest},
		{"blank meaning", `{"word": "pen", "meaning": "\t "}`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"malformed", `{"word":`, http.StatusBadRequest},
		{"duplicate", `{"word": "book", "meaning": "كتاب"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/words", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			var body map[string]string
			decode(t, rec, &body)
			if body["error"] != http.StatusText(tt.want) || body["message"] == "" {
				t.Fatalf("unexpected error body %v", body)
			}
		})
	}
}

func TestWordNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/words/999", "/words/abc", "/api/words/999"} {
		rec := do(t, router, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
			t.Fatalf("%s: expected JSON error, got %q", path, rec.Header().Get("Content-Type"))
		}
	}
}

func TestListWordsFallsBackOnUnknownSort(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, body := range []string{`{"word": "cat", "meaning": "قطة"}`, `{"word": "apple", "meaning": "تفاحة"}`} {
		if rec := do(t, router, http.MethodPost, "/words", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed: %d", rec.Code)
		}
	}

	rec := do(t, router, http.MethodGet, "/api/words?page=0&sort_by=nonsense&order=sideways", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var page models.WordsPage
	decode(t, rec, &page)
	if page.CurrentPage != 1 || page.TotalWords != 2 || page.TotalPages != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Words[0].English != "apple" || page.Words[1].English != "cat" {
		t.Fatalf("expected english asc, got %s, %s", page.Words[0].English, page.Words[1].English)
	}
}

func TestListWordsBeyondLastPageIsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	if rec := do(t, router, http.MethodPost, "/words", `{"word": "cat", "meaning": "قطة"}`); rec.Code != http.StatusCreated {
		t.Fatalf("seed: %d", rec.Code)
	}

	for _, path := range []string{"/words?page=200000000000000000", "/study-sessions?page=200000000000000000"} {
		rec := do(t, router, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if strings.Contains(rec.Body.String(), `"cat"`) {
			t.Fatalf("%s: expected no rows, got %s", path, rec.Body.String())
		}
	}

	var page models.WordsPage
	decode(t, do(t, router, http.MethodGet, "/words?page=200000000000000000", ""), &page)
	if page.CurrentPage != 200000000000000000 || page.TotalPages != 1 || len(page.Words) != 0 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Words == nil {
		t.Fatal("expected an empty words array, got null")
	}
}

func TestUpdateWord(t *testing.T) {
	router, _ := newTestRouter(t)

	do(t, router, http.MethodPost, "/words", `{"word": "cat", "meaning": "قطة"}`)
	do(t, router, http.MethodPost, "/words", `{"word": "dog", "meaning": "كلب"}`)

	rec := do(t, router, http.MethodPut, "/words/1", `{"english": "cat", "arabic": "قطة", "parts": ["ق","ط","ة"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"parts":["ق","ط","ة"]`) {
		t.Fatalf("expected parts in body, got %s", rec.Body.String())
	}

	if rec := do(t, router, http.MethodPut, "/words/1", `{"english": "dog", "arabic": "x"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPut, "/words/42", `{"english": "x", "arabic": "x"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPut, "/words/1", `{"english": ""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPut, "/words/1", `{"english": "  ", "arabic": "قطة"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank english, got %d", rec.Code)
	}

	var word models.WordDetail
	decode(t, do(t, router, http.MethodGet, "/words/1", ""), &word)
	if word.English != "cat" {
		t.Fatalf("expected word to be unchanged, got %q", word.English)
	}
}

func TestGroupsAndStudySessionsFlow(t *testing.T) {
	router, db := newTestRouter(t)

	do(t, router, http.MethodPost, "/words", `{"word": "sun", "meaning": "شمس"}`)
	if _, err := db.Exec(`INSERT INTO study_activities (name, url, preview_url) VALUES ('Flashcards', 'http://localhost:8081', '')`); err != nil {
		t.Fatalf("seed activity: %v", err)
	}

	rec := do(t, router, http.MethodPost, "/groups", `{"name": "Sky"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPost, "/groups", `{"name": "Sky"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/groups", `{"name": "   "}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/groups/1/words", `{"word_ids": [1]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add words: %d %s", rec.Code, rec.Body.String())
	}
	var group models.Group
	decode(t, rec, &group)
	if group.WordsCount != 1 {
		t.Fatalf("expected words_count 1, got %d", group.WordsCount)
	}
	if rec := do(t, router, http.MethodPost, "/groups/1/words", `{"word_ids": []}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty word_ids, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/groups/1/words", `{"word_ids": [77]}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown word, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/dashboard/recent-session", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "No study sessions found") {
		t.Fatalf("expected 404 with message, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodPost, "/study-sessions", `{"word_id": 1, "group_id": 1, "activity_id": 1, "correct": true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record session: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPost, "/study-sessions", `{"word_id": 1, "group_id": 1, "activity_id": 1}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without correct, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/study-sessions", `{"word_id": 1, "group_id": 1, "activity_id": 9, "correct": false}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown activity, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/study-sessions?page=1&per_page=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list sessions: %d", rec.Code)
	}
	var sessions models.StudySessionsPage
	decode(t, rec, &sessions)
	if sessions.Total != 1 || sessions.PerPage != 5 || sessions.TotalPages != 1 || sessions.Sessions[0].GroupName != "Sky" {
		t.Fatalf("unexpected sessions page %+v", sessions)
	}

	for _, path := range []string{"/study-sessions/1", "/groups/1/study-sessions", "/study-activities/1/study-sessions", "/groups/1/words", "/groups?sort_by=words_count&order=desc"} {
		if rec := do(t, router, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
	for _, path := range []string{"/study-sessions/9", "/groups/9", "/groups/9/words", "/study-activities/9", "/study-activities/9/study-sessions"} {
		if rec := do(t, router, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}

	rec = do(t, router, http.MethodGet, "/dashboard/recent-session", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("recent session: %d", rec.Code)
	}
	var recent models.RecentSessionResponse
	decode(t, rec, &recent)
	if recent.Session == nil {
		t.Fatalf("expected session envelope, got %s", rec.Body.String())
	}
	if recent.Session.Word.English != "sun" || recent.Session.Word.CorrectCount != 1 || recent.Session.Activity.Name != "Flashcards" {
		t.Fatalf("unexpected recent session %+v", recent.Session)
	}

	rec = do(t, router, http.MethodGet, "/study-activities", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"title":"Flashcards"`) || !strings.Contains(rec.Body.String(), `"launch_url":"http://localhost:8081"`) {
		t.Fatalf("unexpected activities %d %s", rec.Code, rec.Body.String())
	}
}

func TestDashboardStatsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/dashboard/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var stats map[string]json.Number
	decode(t, rec, &stats)
	for _, key := range []string{"total_vocabulary", "total_words_studied", "mastered_words", "success_rate", "total_sessions", "active_groups", "current_streak"} {
		v, ok := stats[key]
		if !ok {
			t.Fatalf("missing %s in %s", key, rec.Body.String())
		}
		if f, _ := v.Float64(); f != 0 {
			t.Fatalf("expected %s = 0, got %s", key, v)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	if rec := do(t, router, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	h := &Handler{pinger: failingPinger{}, logger: zerolog.Nop()}
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMethodNotAllowedIsJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodDelete, "/words/1", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["error"] != http.StatusText(http.StatusMethodNotAllowed) {
		t.Fatalf("unexpected body %v", body)
	}
}
