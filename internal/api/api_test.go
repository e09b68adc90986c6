package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/watchdiff/internal/event"
)

func testEvent(path string) event.FileEvent {
	fe := event.New(path, event.Modified)
	fe.Diff = "--- a/" + path + "\n+++ b/" + path + "\n@@ -1,1 +1,1 @@\n-old\n+new\n"
	return fe
}

func TestHealth(t *testing.T) {
	s := New("127.0.0.1:0", t.TempDir())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestStatsEmpty(t *testing.T) {
	s := New("127.0.0.1:0", t.TempDir())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET /api/stats: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Completion float64 `json:"completion"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if body.Completion != 100.0 {
		t.Errorf("empty session completion = %v, want 100", body.Completion)
	}
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForClient blocks until the server has registered a connection, so a
// broadcast sent right after dialing is not lost.
func waitForClient(t *testing.T, s *Server) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		n := len(s.clients)
		s.mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("client never registered")
}

func readWS(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading ws message: %v", err)
	}
	return msg
}

func sendWS(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		t.Fatalf("writing ws message: %v", err)
	}
}

func TestWebSocketEventStreamAndDecisions(t *testing.T) {
	s := New("127.0.0.1:0", t.TempDir())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	events := make(chan event.FileEvent)
	go s.Attach(events)

	conn := dialWS(t, ts)
	waitForClient(t, s)

	events <- testEvent("main.go")

	msg := readWS(t, conn)
	if msg.Type != wsMsgFileEvent {
		t.Fatalf("message type = %s, want %s", msg.Type, wsMsgFileEvent)
	}
	var fe event.FileEvent
	if err := json.Unmarshal(msg.Data, &fe); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if fe.Path != "main.go" || fe.Kind != event.Modified {
		t.Errorf("unexpected event: %+v", fe)
	}

	// Accept the single hunk of the change.
	sendWS(t, conn, wsMsgAccept, wsDecisionMsg{ChangeIndex: 0, HunkID: "hunk_0"})

	msg = readWS(t, conn)
	if msg.Type != wsMsgDecision {
		t.Fatalf("message type = %s, want %s", msg.Type, wsMsgDecision)
	}
	var dec wsDecisionResponse
	if err := json.Unmarshal(msg.Data, &dec); err != nil {
		t.Fatalf("decoding decision: %v", err)
	}
	if dec.OverallAction != "accept" {
		t.Errorf("overall action = %s, want accept after single-hunk accept", dec.OverallAction)
	}

	close(events)
}

func TestWebSocketRejectAllAndStats(t *testing.T) {
	s := New("127.0.0.1:0", t.TempDir())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	events := make(chan event.FileEvent)
	go s.Attach(events)
	defer close(events)

	conn := dialWS(t, ts)
	waitForClient(t, s)
	events <- testEvent("util.go")
	readWS(t, conn) // file_event

	sendWS(t, conn, wsMsgRejectAll, wsDecisionMsg{ChangeIndex: 0})
	msg := readWS(t, conn)
	if msg.Type != wsMsgDecision {
		t.Fatalf("message type = %s, want %s", msg.Type, wsMsgDecision)
	}

	sendWS(t, conn, wsMsgGetStats, map[string]string{})
	msg = readWS(t, conn)
	if msg.Type != wsMsgStats {
		t.Fatalf("message type = %s, want %s", msg.Type, wsMsgStats)
	}
	var stats struct {
		Total    int `json:"total"`
		Rejected int `json:"rejected"`
	}
	if err := json.Unmarshal(msg.Data, &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Total != 1 || stats.Rejected != 1 {
		t.Errorf("stats = %+v, want 1 total / 1 rejected", stats)
	}
}

func TestWebSocketBadIndex(t *testing.T) {
	s := New("127.0.0.1:0", t.TempDir())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialWS(t, ts)
	sendWS(t, conn, wsMsgAccept, wsDecisionMsg{ChangeIndex: 5, HunkID: "hunk_0"})

	msg := readWS(t, conn)
	if msg.Type != wsMsgError {
		t.Errorf("message type = %s, want %s", msg.Type, wsMsgError)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	s := New("127.0.0.1:0", t.TempDir())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialWS(t, ts)
	sendWS(t, conn, "bogus", map[string]string{})

	msg := readWS(t, conn)
	if msg.Type != wsMsgError {
		t.Errorf("message type = %s, want %s", msg.Type, wsMsgError)
	}
}
