package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"

	"github.com/rudrasish2003/Xenon-Backend/handlers"
	"github.com/rudrasish2003/Xenon-Backend/live"
	"github.com/rudrasish2003/Xenon-Backend/repositories"
	"github.com/rudrasish2003/Xenon-Backend/services"
)

const testSecret = "routes-test-secret"

type testApp struct {
	router *chi.Mux
	hub    *live.Hub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repositories.NewMemoryStore()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := live.NewHub(logger)
	go hub.Run(ctx)

	matchService := services.NewMatchService(store.Tournaments(), store.Teams(), store.Matches(), store.Aggregates(), hub, logger)
	playerService := services.NewPlayerService(store.Players(), nil, logger)
	tournamentService := services.NewTournamentService(store.Tournaments(), store.Teams())
	teamService := services.NewTeamService(store.Tournaments(), store.Teams(), store.Players())
	auditService := services.NewAuditService(store.Players(), store.Teams(), store.Matches(), logger)

	router := chi.NewRouter()
	SetupRoutes(router,
		Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}},
		handlers.NewMatchHandler(matchService),
		handlers.NewPlayerHandler(playerService),
		handlers.NewTournamentHandler(tournamentService),
		handlers.NewTeamHandler(teamService),
		handlers.NewAuditHandler(auditService),
		handlers.NewWebSocketHandler(hub, tournamentService, logger),
	)
	return &testApp{router: router, hub: hub}
}

func token(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "user-1", "role": role, "exp": time.Now().Add(time.Hour).Unix()}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func (a *testApp) do(t *testing.T, method, path, bearer string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(js)
	}
	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	out := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func (a *testApp) mustCreate(t *testing.T, path, bearer string, body interface{}, key string) map[string]interface{} {
	t.Helper()
	code, out := a.do(t, http.MethodPost, path, bearer, body)
	if code != http.StatusCreated {
		t.Fatalf("POST %s = %d %v, want 201", path, code, out)
	}
	obj, ok := out[key].(map[string]interface{})
	if !ok {
		t.Fatalf("POST %s response has no %q: %v", path, key, out)
	}
	return obj
}

type league struct {
	tournamentID string
	teamID       string
	players      []string
}

func (a *testApp) seed(t *testing.T, bearer string) league {
	t.Helper()
	tr := a.mustCreate(t, "/tournaments", bearer, map[string]interface{}{"name": "Cup", "total_teams": 2}, "tournament")
	var players []string
	for _, name := range []string{"Ann", "Bob", "Cid"} {
		p := a.mustCreate(t, "/players", bearer, map[string]string{"name": name, "dob": "2001-02-03"}, "player")
		players = append(players, p["id"].(string))
	}
	team := a.mustCreate(t, "/tournaments/"+tr["id"].(string)+"/teams", bearer,
		map[string]interface{}{"name": "Blue", "player_ids": players}, "team")
	return league{tournamentID: tr["id"].(string), teamID: team["id"].(string), players: players}
}

func matchBody(l league, results ...string) map[string]interface{} {
	pr := make([]map[string]string, len(results))
	for i, r := range results {
		pr[i] = map[string]string{"player_id": l.players[i], "result": r}
	}
	return map[string]interface{}{
		"tournament_id":  l.tournamentID,
		"team_id":        l.teamID,
		"opponent_name":  "Red",
		"player_results": pr,
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	code, out := app.do(t, http.MethodGet, "/", "", nil)
	if code != http.StatusOK || out["message"] == nil {
		t.Fatalf("GET / = %d %v", code, out)
	}
}

func TestMatchLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := token(t, "organizer")
	l := app.seed(t, admin)

	code, out := app.do(t, http.MethodPost, "/matches", admin, matchBody(l, "win", "loss", "sub"))
	if code != http.StatusCreated {
		t.Fatalf("POST /matches = %d %v", code, out)
	}
	if out["team_result"] != "draw" || out["points_awarded"] != float64(1) {
		t.Fatalf("record response = %v, want draw/1", out)
	}
	matchID := out["match_id"].(string)

	code, out = app.do(t, http.MethodGet, "/players/"+l.players[0], "", nil)
	if code != http.StatusOK {
		t.Fatalf("GET player = %d %v", code, out)
	}
	player := out["player"].(map[string]interface{})
	if player["wins"] != float64(1) || player["unbeaten_percentage"] != float64(100) {
		t.Fatalf("player view = %v", player)
	}

	code, out = app.do(t, http.MethodPut, "/matches/"+matchID, admin, matchBody(l, "win", "win", "loss"))
	if code != http.StatusOK {
		t.Fatalf("PUT /matches = %d %v", code, out)
	}
	replaced := out["match"].(map[string]interface{})
	if replaced["match_id"] != matchID || replaced["team_result"] != "win" {
		t.Fatalf("replace response = %v", out)
	}

	code, out = app.do(t, http.MethodGet, "/tournaments/"+l.tournamentID+"/standings", "", nil)
	if code != http.StatusOK {
		t.Fatalf("GET standings = %d %v", code, out)
	}
	standings := out["standings"].([]interface{})
	blue := standings[0].(map[string]interface{})
	if blue["points"] != float64(3) || blue["matches_played"] != float64(1) {
		t.Fatalf("standings = %v, want one win worth 3 points", standings)
	}

	code, out = app.do(t, http.MethodGet, "/tournaments/"+l.tournamentID+"/matches?team_id="+l.teamID, "", nil)
	if code != http.StatusOK || len(out["matches"].([]interface{})) != 1 {
		t.Fatalf("GET matches = %d %v", code, out)
	}

	if code, out = app.do(t, http.MethodDelete, "/matches/"+matchID, admin, nil); code != http.StatusOK {
		t.Fatalf("DELETE /matches = %d %v", code, out)
	}
	if code, out = app.do(t, http.MethodDelete, "/matches/"+matchID, admin, nil); code != http.StatusNotFound {
		t.Fatalf("second DELETE /matches = %d %v, want 404", code, out)
	}

	code, out = app.do(t, http.MethodGet, "/teams/"+l.teamID, "", nil)
	if code != http.StatusOK {
		t.Fatalf("GET team = %d %v", code, out)
	}
	team := out["team"].(map[string]interface{})
	if team["points"] != float64(0) || team["matches_played"] != float64(0) {
		t.Fatalf("team after removal = %v, want zero counters", team)
	}
}

func TestRecordMatchErrors(t *testing.T) {
	app := newTestApp(t)
	admin := token(t, "admin")
	l := app.seed(t, admin)

	if code, _ := app.do(t, http.MethodPost, "/matches", "", matchBody(l, "win")); code != http.StatusUnauthorized {
		t.Fatalf("POST /matches without token = %d, want 401", code)
	}

	code, out := app.do(t, http.MethodPost, "/matches", admin, matchBody(l, "tie"))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("POST /matches with bad result = %d %v, want 422", code, out)
	}
	fields, ok := out["error"].(map[string]interface{})
	if !ok || fields["player_results[0].result"] == nil {
		t.Fatalf("validation body = %v", out)
	}

	body := matchBody(l, "win")
	body["team_id"] = "7f6d6d2e-0000-4000-8000-000000000000"
	if code, out = app.do(t, http.MethodPost, "/matches", admin, body); code != http.StatusNotFound {
		t.Fatalf("POST /matches with unknown team = %d %v, want 404", code, out)
	}

	if code, out = app.do(t, http.MethodPut, "/matches/not-a-uuid", admin, matchBody(l, "win")); code != http.StatusBadRequest {
		t.Fatalf("PUT /matches/not-a-uuid = %d %v, want 400", code, out)
	}

	if code, out = app.do(t, http.MethodPut, "/players/"+l.players[0], admin, map[string]string{}); code != http.StatusBadRequest {
		t.Fatalf("empty player update = %d %v, want 400", code, out)
	}
}

func TestAuditRoute(t *testing.T) {
	app := newTestApp(t)
	organizer := token(t, "organizer")
	l := app.seed(t, organizer)
	if code, out := app.do(t, http.MethodPost, "/matches", organizer, matchBody(l, "win", "win")); code != http.StatusCreated {
		t.Fatalf("POST /matches = %d %v", code, out)
	}

	if code, _ := app.do(t, http.MethodGet, "/admin/audit", organizer, nil); code != http.StatusForbidden {
		t.Fatalf("GET /admin/audit as organizer = %d, want 403", code)
	}

	code, out := app.do(t, http.MethodGet, "/admin/audit", token(t, "admin"), nil)
	if code != http.StatusOK {
		t.Fatalf("GET /admin/audit = %d %v", code, out)
	}
	report := out["audit"].(map[string]interface{})
	if issues := report["issues"].([]interface{}); len(issues) != 0 {
		t.Fatalf("audit issues = %v", issues)
	}
}

func TestLiveFeedReceivesMatchEvents(t *testing.T) {
	app := newTestApp(t)
	admin := token(t, "admin")
	l := app.seed(t, admin)

	srv := httptest.NewServer(app.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tournaments/" + l.tournamentID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	room := live.TournamentRoom(l.tournamentID)
	deadline := time.Now().Add(2 * time.Second)
	for app.hub.ClientCount(room) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("websocket client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if code, out := app.do(t, http.MethodPost, "/matches", admin, matchBody(l, "loss")); code != http.StatusCreated {
		t.Fatalf("POST /matches = %d %v", code, out)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg live.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read live message: %v", err)
	}
	if msg.Type != live.MatchRecorded || msg.RoomID != room {
		t.Fatalf("live message = %+v", msg)
	}

	if code, _ := app.do(t, http.MethodGet, "/ws/tournaments/not-a-uuid", "", nil); code != http.StatusBadRequest {
		t.Fatalf("GET /ws with bad id = %d, want 400", code)
	}
}
