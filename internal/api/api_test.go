package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openfairway/rangelog/internal/api"
	"github.com/openfairway/rangelog/internal/auth"
	"github.com/openfairway/rangelog/internal/cache"
	"github.com/openfairway/rangelog/internal/chart"
	"github.com/openfairway/rangelog/internal/config"
	"github.com/openfairway/rangelog/internal/db"
	"github.com/openfairway/rangelog/internal/stats"
	"github.com/openfairway/rangelog/internal/store"
)

func newTestServer(t *testing.T, name string) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	sqldb, err := db.Open(ctx, db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { sqldb.Close() })

	cfg := &config.Config{
		DBDriver:         "sqlite",
		APIHost:          "127.0.0.1",
		APIPort:          0,
		Environment:      "test",
		JWTSecret:        "test-secret",
		TokenTTL:         time.Hour,
		CORSAllowOrigins: []string{"http://localhost:3000"},
		RateLimitEnabled: false,
		CacheEnabled:     false,
		StatsCacheTTL:    time.Minute,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := api.NewRouter(store.New(sqldb), auth.NewService(cfg.JWTSecret, cfg.TokenTTL), cache.New(false), cfg, logger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func register(t *testing.T, srv *httptest.Server, username string) string {
	t.Helper()
	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "",
		map[string]string{"username": username, "password": "swordfish"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d: %s", resp.StatusCode, data)
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &out); err != nil || out.AccessToken == "" {
		t.Fatalf("bad register response: %s", data)
	}
	return out.AccessToken
}

func createClub(t *testing.T, srv *httptest.Server, token, name, notes string) store.Club {
	t.Helper()
	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/v1/clubs", token,
		map[string]any{"name": name, "notes": notes})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create club status = %d: %s", resp.StatusCode, data)
	}
	var c store.Club
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("decode club: %v", err)
	}
	return c
}

func logShot(t *testing.T, srv *httptest.Server, token string, clubID int64, date string, distance float64, result string) {
	t.Helper()
	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/v1/shots", token,
		map[string]any{"club_id": clubID, "date": date, "distance": distance, "result": result})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("log shot status = %d: %s", resp.StatusCode, data)
	}
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t, "api_authreq")
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/clubs", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without token", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, "api_login")
	register(t, srv, "alice")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "",
		map[string]string{"username": "alice", "password": "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", resp.StatusCode)
	}

	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "",
		map[string]string{"username": "alice", "password": "swordfish"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d: %s", resp.StatusCode, data)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "",
		map[string]string{"username": "alice", "password": "again"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", resp.StatusCode)
	}
}

func TestClubValidation(t *testing.T) {
	srv := newTestServer(t, "api_clubval")
	token := register(t, srv, "alice")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/clubs", token,
		map[string]any{"name": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank name status = %d, want 400", resp.StatusCode)
	}

	// Non-numeric loft is rejected at the request boundary.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/clubs", token,
		map[string]any{"name": "wedge", "loft": "fifty six"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad loft status = %d, want 400", resp.StatusCode)
	}

	club := createClub(t, srv, token, "Driver", "")
	if club.BagOrder != 10 {
		t.Fatalf("driver bag_order = %d, want 10", club.BagOrder)
	}
}

func TestStatsFlow(t *testing.T) {
	srv := newTestServer(t, "api_stats")
	token := register(t, srv, "alice")

	driver := createClub(t, srv, token, "driver", "")
	iron := createClub(t, srv, token, "7 iron", "new shafts")

	logShot(t, srv, token, driver.ID, "2026-08-10", 237, "pull")
	logShot(t, srv, token, driver.ID, "2026-08-11", 243, "")
	logShot(t, srv, token, iron.ID, "2026-08-10", 150, "fade")

	// --- Per-club stats ---
	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/v1/stats/clubs", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d: %s", resp.StatusCode, data)
	}
	var clubStats []stats.ClubStat
	if err := json.Unmarshal(data, &clubStats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if len(clubStats) != 2 {
		t.Fatalf("stats rows = %d, want 2", len(clubStats))
	}
	d := clubStats[0]
	if d.ClubID != driver.ID || d.ShotCount != 2 || d.AvgDistance != 240.0 || d.LeftPct != 50.0 {
		t.Fatalf("unexpected driver stats: %+v", d)
	}
	i := clubStats[1]
	if i.ClubID != iron.ID || i.ShotCount != 1 || i.CenterRightPct != 100.0 {
		t.Fatalf("unexpected iron stats: %+v", i)
	}

	// --- Dispersion chart ---
	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/v1/stats/dispersion", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chart status = %d: %s", resp.StatusCode, data)
	}
	var c chart.Chart
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if c.Max != 250 || len(c.Ticks) != 5 || len(c.Shots) != 3 || len(c.Legend) != 2 {
		t.Fatalf("unexpected chart shape: max=%d ticks=%d shots=%d legend=%d",
			c.Max, len(c.Ticks), len(c.Shots), len(c.Legend))
	}
	if c.Legend[1].Label != "7 iron – new shafts" {
		t.Fatalf("legend label = %q", c.Legend[1].Label)
	}

	// --- Date with no shots is empty, not an error ---
	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/v1/stats/clubs?date=1999-01-01", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("empty date stats status = %d", resp.StatusCode)
	}
	clubStats = nil
	if err := json.Unmarshal(data, &clubStats); err != nil {
		t.Fatalf("decode empty stats: %v", err)
	}
	if len(clubStats) != 0 {
		t.Fatalf("expected no stats rows for empty date, got %d", len(clubStats))
	}

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/v1/stats/dispersion?date=1999-01-01", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("empty date chart status = %d", resp.StatusCode)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("decode empty chart: %v", err)
	}
	if c.Max != 50 || len(c.Ticks) != 1 || c.Ticks[0].Y != 95.0 || len(c.Shots) != 0 || len(c.Legend) != 0 {
		t.Fatalf("unexpected empty chart: %+v", c)
	}

	// --- Malformed date ---
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/stats/clubs?date=yesterday", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", resp.StatusCode)
	}

	// --- Deleting a club removes it (and its shots) from the stats ---
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/clubs/%d", srv.URL, driver.ID), token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete club status = %d, want 204", resp.StatusCode)
	}
	_, data = doJSON(t, http.MethodGet, srv.URL+"/api/v1/stats/clubs", token, nil)
	clubStats = nil
	if err := json.Unmarshal(data, &clubStats); err != nil {
		t.Fatalf("decode stats after delete: %v", err)
	}
	if len(clubStats) != 1 || clubStats[0].ClubID != iron.ID {
		t.Fatalf("stats after cascade: %+v", clubStats)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	srv := newTestServer(t, "api_isolation")
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")

	club := createClub(t, srv, alice, "driver", "")
	logShot(t, srv, alice, club.ID, "2026-08-10", 250, "")

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/v1/stats/clubs", bob, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bob stats status = %d", resp.StatusCode)
	}
	var clubStats []stats.ClubStat
	if err := json.Unmarshal(data, &clubStats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(clubStats) != 0 {
		t.Fatalf("bob sees %d stats rows, want 0", len(clubStats))
	}

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/clubs/%d", srv.URL, club.ID), bob, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("bob deleting alice's club: status = %d, want 404", resp.StatusCode)
	}
}
