package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/config"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/database/dbtest"
)

type stubOrigins struct {
	origins []string
	err     error
}

func (s stubOrigins) ActivityURLs(context.Context) ([]string, error) {
	return s.origins, s.err
}

func TestResolveAllowedOrigins(t *testing.T) {
	tests := []struct {
		name       string
		configured []string
		source     stubOrigins
		want       []string
	}{
		{"configured wins", []string{"https://app.example.com"}, stubOrigins{origins: []string{"http://other"}}, []string{"https://app.example.com"}},
		{"derived", nil, stubOrigins{origins: []string{"http://localhost:8080"}}, []string{"http://localhost:8080"}},
		{"none found", nil, stubOrigins{}, []string{"*"}},
		{"lookup fails", nil, stubOrigins{err: errors.New("db down")}, []string{"*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveAllowedOrigins(context.Background(), tt.configured, tt.source, zerolog.Nop())
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Address: ":0"},
		Database: config.DatabaseConfig{Driver: "sqlite3", Path: ":memory:"},
		CORS: config.CORSConfig{
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestAppServesAPIWithDerivedCORS(t *testing.T) {
	db := dbtest.New(t)
	if _, err := db.Exec(`INSERT INTO study_activities (name, url, preview_url) VALUES ('Typing Tutor', 'http://localhost:8080/typing', '')`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	application, err := New(context.Background(), testConfig(), zerolog.Nop(), db)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	h := application.Handler()

	req := httptest.NewRequest(http.MethodGet, "/study-activities", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8080" {
		t.Fatalf("expected derived origin, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), "Typing Tutor") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/words", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "lang_portal_http_requests_total") {
		t.Fatalf("expected metrics exposition, got %d", rec.Code)
	}
}

func TestAppShutdownWithoutRun(t *testing.T) {
	db := dbtest.New(t)
	cfg := testConfig()
	cfg.Scheduler = config.SchedulerConfig{Enabled: true}

	application, err := New(context.Background(), cfg, zerolog.Nop(), db)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if application.Importer() == nil || application.Maintenance() == nil {
		t.Fatal("expected importer and maintenance to be wired")
	}
	if err := application.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
