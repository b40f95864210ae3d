package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"yahtzee-server/internal/yahtzee"
)

// newRoutedServer builds a memory-backed server with a deterministic
// randomizer: join order survives the shuffle and every die is a 1.
func newRoutedServer() (*Server, *httptest.Server) {
	logger := zap.NewNop()
	hub := NewHub(logger)
	s := &Server{
		coordinator: NewCoordinator(NewMemoryStore(), hub, func(int) int { return 0 }, logger),
		hub:         hub,
		storeKind:   StoreMemory,
		logger:      logger,
	}
	return s, httptest.NewServer(s.RegisterRoutes())
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func decodeError(t *testing.T, resp *http.Response) ErrorMessage {
	t.Helper()
	var msg ErrorMessage
	decodeInto(t, resp, &msg)
	return msg
}

// startGameOverHTTP drives the pending flow through the API and
// returns the started game's id. Alice is in turn.
func startGameOverHTTP(t *testing.T, baseURL string) string {
	t.Helper()

	resp := postJSON(t, baseURL+"/pending-games", CreatePendingRequest{Creator: "Alice", NumberOfPlayers: 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create pending: status %d", resp.StatusCode)
	}
	var pending PendingGame
	decodeInto(t, resp, &pending)

	resp = postJSON(t, fmt.Sprintf("%s/pending-games/%s/players", baseURL, pending.ID), JoinRequest{Player: "Bob"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join: status %d", resp.StatusCode)
	}
	var game StoredGame
	decodeInto(t, resp, &game)
	return game.ID
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newRoutedServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var health HealthResponse
	decodeInto(t, resp, &health)
	if health.Status != "up" || health.Store != StoreMemory {
		t.Errorf("health = %+v", health)
	}
}

func TestCreatePendingEndpoint(t *testing.T) {
	_, ts := newRoutedServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/pending-games", CreatePendingRequest{Creator: "Alice", NumberOfPlayers: 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var pending PendingGame
	decodeInto(t, resp, &pending)
	if pending.Creator != "Alice" || !pending.Pending || len(pending.Players) != 1 {
		t.Errorf("pending = %+v", pending)
	}

	resp, err := http.Get(ts.URL + "/pending-games")
	if err != nil {
		t.Fatalf("GET /pending-games: %v", err)
	}
	var listed []PendingGame
	decodeInto(t, resp, &listed)
	if len(listed) != 1 || listed[0].ID != pending.ID {
		t.Errorf("listing = %+v", listed)
	}
}

func TestCreatePendingValidation(t *testing.T) {
	_, ts := newRoutedServer()
	defer ts.Close()

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed json", "{", "INVALID_PAYLOAD"},
		{"missing creator", `{"number_of_players":2}`, "INVALID_PAYLOAD"},
		{"zero players", `{"creator":"Alice","number_of_players":0}`, "WRONG_PLAYER_COUNT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/pending-games", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if msg := decodeError(t, resp); msg.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", msg.Code, tt.wantCode)
			}
		})
	}
}

func TestGameLifecycleOverHTTP(t *testing.T) {
	_, ts := newRoutedServer()
	defer ts.Close()

	id := startGameOverHTTP(t, ts.URL)

	resp, err := http.Get(ts.URL + "/games/" + id)
	if err != nil {
		t.Fatalf("GET game: %v", err)
	}
	var game StoredGame
	decodeInto(t, resp, &game)
	if game.Players[0] != "Alice" || game.Players[1] != "Bob" {
		t.Errorf("players = %v", game.Players)
	}
	if game.RollsLeft != 2 {
		t.Errorf("RollsLeft = %d, want 2", game.RollsLeft)
	}

	// Started games no longer show up as pending.
	resp, err = http.Get(ts.URL + "/pending-games/" + id)
	if err != nil {
		t.Fatalf("GET pending: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("pending status = %d, want 404", resp.StatusCode)
	}
	if msg := decodeError(t, resp); msg.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", msg.Code)
	}
}

func TestActionEndpoint(t *testing.T) {
	_, ts := newRoutedServer()
	defer ts.Close()

	id := startGameOverHTTP(t, ts.URL)
	actions := ts.URL + "/games/" + id + "/actions"

	resp := postJSON(t, actions, ActionRequest{Type: "reroll", Held: []int{0, 1, 2}, Player: "Alice"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reroll status = %d, want 200", resp.StatusCode)
	}
	var game StoredGame
	decodeInto(t, resp, &game)
	if game.RollsLeft != 1 {
		t.Errorf("RollsLeft after reroll = %d, want 1", game.RollsLeft)
	}

	resp = postJSON(t, actions, ActionRequest{Type: "register", Slot: yahtzee.Chance, Player: "Alice"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d, want 200", resp.StatusCode)
	}
	decodeInto(t, resp, &game)
	if game.Scores[0][yahtzee.Chance] != 5 {
		t.Errorf("chance = %d, want 5", game.Scores[0][yahtzee.Chance])
	}
	if game.InTurn != 1 {
		t.Errorf("InTurn = %d, want 1", game.InTurn)
	}
}

func TestActionEndpointErrors(t *testing.T) {
	_, ts := newRoutedServer()
	defer ts.Close()

	id := startGameOverHTTP(t, ts.URL)
	actions := ts.URL + "/games/" + id + "/actions"

	tests := []struct {
		name       string
		req        ActionRequest
		wantStatus int
		wantCode   string
	}{
		{"out of turn", ActionRequest{Type: "reroll", Player: "Bob"}, http.StatusForbidden, "FORBIDDEN"},
		{"unknown category", ActionRequest{Type: "register", Slot: "bogus", Player: "Alice"}, http.StatusBadRequest, "UNKNOWN_CATEGORY"},
		{"unknown action", ActionRequest{Type: "discard", Player: "Alice"}, http.StatusBadRequest, "INVALID_PAYLOAD"},
		{"missing player", ActionRequest{Type: "reroll"}, http.StatusBadRequest, "INVALID_PAYLOAD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, actions, tt.req)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if msg := decodeError(t, resp); msg.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", msg.Code, tt.wantCode)
			}
		})
	}
}

func TestRerollBudgetOverHTTP(t *testing.T) {
	_, ts := newRoutedServer()
	defer ts.Close()

	id := startGameOverHTTP(t, ts.URL)
	actions := ts.URL + "/games/" + id + "/actions"
	reroll := ActionRequest{Type: "reroll", Held: []int{0, 1, 2, 3, 4}, Player: "Alice"}

	for i := 0; i < 2; i++ {
		resp := postJSON(t, actions, reroll)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("reroll %d status = %d", i+1, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp := postJSON(t, actions, reroll)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("third reroll status = %d, want 409", resp.StatusCode)
	}
	if msg := decodeError(t, resp); msg.Code != "NO_REROLLS_LEFT" {
		t.Errorf("code = %q, want NO_REROLLS_LEFT", msg.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	_, ts := newRoutedServer()
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/games", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
}
