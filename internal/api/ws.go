package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgAccept    = "accept"
	wsMsgReject    = "reject"
	wsMsgSkip      = "skip"
	wsMsgAcceptAll = "accept_all"
	wsMsgRejectAll = "reject_all"
	wsMsgGetStats  = "stats"
	wsMsgSave      = "save"
)

// WebSocket message types to client.
const (
	wsMsgFileEvent = "file_event"
	wsMsgDecision  = "decision"
	wsMsgStats     = "stats"
	wsMsgSaved     = "saved"
	wsMsgError     = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsDecisionMsg addresses one hunk of one change. HunkID is ignored for the
// accept_all/reject_all variants.
type wsDecisionMsg struct {
	ChangeIndex int    `json:"change_index"`
	HunkID      string `json:"hunk_id,omitempty"`
}

// wsDecisionResponse confirms a decision and reports the change's resulting
// overall action.
type wsDecisionResponse struct {
	ChangeIndex   int    `json:"change_index"`
	HunkID        string `json:"hunk_id,omitempty"`
	Decision      string `json:"decision"`
	OverallAction string `json:"overall_action"`
}

// client is one connected WebSocket consumer. Writes go through a buffered
// queue so a slow client cannot stall the broadcaster.
type client struct {
	conn *websocket.Conn
	send chan wsMessage
}

func (c *client) enqueue(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	select {
	case c.send <- wsMessage{Type: msgType, Data: raw}:
	default: // queue full, drop for this client
	}
}

func (c *client) writeLoop() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan wsMessage, 256)}
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()
	go c.writeLoop()

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		close(c.send)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("websocket read", "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.enqueue(wsMsgError, map[string]string{"message": "invalid message format"})
			continue
		}

		switch msg.Type {
		case wsMsgAccept, wsMsgReject, wsMsgSkip:
			s.handleWSHunkDecision(c, msg.Type, msg.Data)
		case wsMsgAcceptAll, wsMsgRejectAll:
			s.handleWSChangeDecision(c, msg.Type, msg.Data)
		case wsMsgGetStats:
			s.mu.Lock()
			stats := s.session.ReviewStats()
			s.mu.Unlock()
			c.enqueue(wsMsgStats, stats)
		case wsMsgSave:
			s.handleWSSave(c)
		default:
			c.enqueue(wsMsgError, map[string]string{"message": "unknown message type: " + msg.Type})
		}
	}
}

func (s *Server) handleWSHunkDecision(c *client, msgType string, data json.RawMessage) {
	var req wsDecisionMsg
	if err := json.Unmarshal(data, &req); err != nil {
		c.enqueue(wsMsgError, map[string]string{"message": "invalid decision data"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ChangeIndex < 0 || req.ChangeIndex >= len(s.session.Changes) {
		c.enqueue(wsMsgError, map[string]string{"message": "change_index out of range"})
		return
	}
	change := s.session.Changes[req.ChangeIndex]

	switch msgType {
	case wsMsgAccept:
		change.AcceptHunk(req.HunkID)
	case wsMsgReject:
		change.RejectHunk(req.HunkID)
	case wsMsgSkip:
		change.SkipHunk(req.HunkID)
	}

	c.enqueue(wsMsgDecision, wsDecisionResponse{
		ChangeIndex:   req.ChangeIndex,
		HunkID:        req.HunkID,
		Decision:      msgType,
		OverallAction: string(change.OverallAction),
	})
}

func (s *Server) handleWSChangeDecision(c *client, msgType string, data json.RawMessage) {
	var req wsDecisionMsg
	if err := json.Unmarshal(data, &req); err != nil {
		c.enqueue(wsMsgError, map[string]string{"message": "invalid decision data"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ChangeIndex < 0 || req.ChangeIndex >= len(s.session.Changes) {
		c.enqueue(wsMsgError, map[string]string{"message": "change_index out of range"})
		return
	}
	change := s.session.Changes[req.ChangeIndex]

	if msgType == wsMsgAcceptAll {
		change.AcceptAll()
	} else {
		change.RejectAll()
	}

	c.enqueue(wsMsgDecision, wsDecisionResponse{
		ChangeIndex:   req.ChangeIndex,
		Decision:      msgType,
		OverallAction: string(change.OverallAction),
	})
}

func (s *Server) handleWSSave(c *client) {
	s.mu.Lock()
	path, err := s.session.Save(s.root)
	s.mu.Unlock()

	if err != nil {
		c.enqueue(wsMsgError, map[string]string{"message": "saving session: " + err.Error()})
		return
	}
	c.enqueue(wsMsgSaved, map[string]string{"path": path, "session_id": s.session.ID})
}
