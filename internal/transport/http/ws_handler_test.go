package http

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"animation-quiz/internal/app"
	"animation-quiz/internal/domain"
	"animation-quiz/internal/infra/memory"
	"animation-quiz/internal/storage"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func TestWebSocketAttemptFlow(t *testing.T) {
	service := newTestService()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(service, nil, zerolog.Nop()).ServeWS)
	mux.Handle("/history", NewHistoryHandler(service))
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?playerId=p1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	state, _ := readUntil(t, conn, "state")
	if state["phase"] != "not_started" {
		t.Fatalf("expected not_started on join, got %v", state["phase"])
	}

	send(t, conn, "start", nil)
	state, _ = readUntil(t, conn, "state")
	if state["phase"] != "in_progress" {
		t.Fatalf("expected in_progress, got %v", state["phase"])
	}
	questions := state["questions"].([]any)
	if len(questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(questions))
	}
	if _, leaked := questions[0].(map[string]any)["correctIndex"]; leaked {
		t.Fatalf("correct index must be hidden while in progress")
	}

	var cues []string
	for i := 0; i < 5; i++ {
		send(t, conn, "select", map[string]any{"option": 1})
		_, seen := readUntil(t, conn, "state")
		cues = append(cues, seen...)
		send(t, conn, "next", nil)
		_, seen = readUntil(t, conn, "state")
		cues = append(cues, seen...)
	}

	send(t, conn, "submit", nil)
	state, seen := readUntil(t, conn, "state")
	cues = append(cues, seen...)
	if state["phase"] != "completed" {
		t.Fatalf("expected completed, got %v", state["phase"])
	}
	result := state["result"].(map[string]any)
	if result["score"].(float64) != 5 || result["percentage"].(float64) != 100 {
		t.Fatalf("expected perfect score, got %+v", result)
	}

	send(t, conn, "history", nil)
	history, seen := readUntil(t, conn, "history")
	cues = append(cues, seen...)
	if records := history["records"].([]any); len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}

	// cues race with state replies, so drain any still in flight
	for i := 0; i < 16 && !contains(cues, "result-success"); i++ {
		cue, _ := readUntil(t, conn, "cue")
		cues = append(cues, cue["cue"].(string))
	}
	if !contains(cues, "result-success") {
		t.Fatalf("expected result-success cue, got %v", cues)
	}

	resp, err := http.Get(server.URL + "/history?playerId=p1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	defer resp.Body.Close()
	var body historyPayload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(body.Records) != 1 || body.Records[0].Score != 5 || body.Records[0].TotalQuestions != 5 {
		t.Fatalf("unexpected history over http: %+v", body.Records)
	}
}

func TestWebSocketRejectsUnknownMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(newTestService(), nil, zerolog.Nop()).ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?playerId=p2", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readUntil(t, conn, "state")
	send(t, conn, "dance", nil)
	payload, _ := readUntil(t, conn, "error")
	if payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error payload: %+v", payload)
	}
}

func TestWebSocketClosingOneTabKeepsSessionForAnother(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(newTestService(), nil, zerolog.Nop()).ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?playerId=p3"
	first, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial first: %v", err)
	}
	readUntil(t, first, "state")
	second, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial second: %v", err)
	}
	defer second.Close()
	readUntil(t, second, "state")

	send(t, second, "start", nil)
	readUntil(t, second, "state")
	first.Close()

	// the server notices the closed tab asynchronously
	for i := 0; i < 10; i++ {
		time.Sleep(20 * time.Millisecond)
		send(t, second, "state", nil)
		state, _ := readUntil(t, second, "state")
		if state["phase"] != "in_progress" {
			t.Fatalf("expected attempt to survive the other tab closing, got %v", state["phase"])
		}
	}
}

func TestHandleUsesGivenContext(t *testing.T) {
	service := newTestService()
	h := NewWSHandler(service, nil, zerolog.Nop())
	ctx := context.Background()

	if msg := h.handle(ctx, "nobody", inboundMessage{Type: "state"}); msg.Type != "error" {
		t.Fatalf("expected error for unknown player, got %s", msg.Type)
	}

	service.Join(ctx, "p4", nil)
	msg := h.handle(ctx, "p4", inboundMessage{Type: "start"})
	if msg.Type != "state" {
		t.Fatalf("expected state reply, got %s (%+v)", msg.Type, msg.Payload)
	}
	if view := msg.Payload.(stateView); view.Phase != domain.PhaseInProgress {
		t.Fatalf("expected in_progress, got %v", view.Phase)
	}
}

func TestWebSocketRequiresPlayerID(t *testing.T) {
	rec := httptest.NewRecorder()
	NewWSHandler(newTestService(), nil, zerolog.Nop()).ServeWS(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// readUntil reads messages until one of type expect arrives, returning its
// payload and the cue kinds seen on the way.
func readUntil(t *testing.T, conn *websocket.Conn, expect string) (map[string]any, []string) {
	t.Helper()
	var cues []string
	for i := 0; i < 32; i++ {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == expect {
			return msg.Payload, cues
		}
		if msg.Type == "cue" {
			cues = append(cues, msg.Payload["cue"].(string))
			continue
		}
		t.Fatalf("expected type %s, got %s (%+v)", expect, msg.Type, msg.Payload)
	}
	t.Fatalf("no %s message received", expect)
	return nil, nil
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func newTestService() *app.QuizService {
	questions := make([]domain.Question, 6)
	for i := range questions {
		questions[i] = domain.Question{
			ID:           i + 1,
			Prompt:       "Pick B",
			Options:      []string{"A", "B", "C"},
			CorrectIndex: 1,
		}
	}
	bank := app.NewQuestionBank(questions, app.NewShuffler(rand.New(rand.NewSource(1))))
	provider := storage.NewProvider(memory.NewKV(), storage.Keys{}, 20, zerolog.Nop())
	return app.NewQuizService(memory.NewSessionStore(), bank, provider, app.SessionConfig{}, zerolog.Nop())
}
