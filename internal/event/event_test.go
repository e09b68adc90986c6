package event

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  ConfidenceLevel
	}{
		{1.0, LevelSafe},
		{0.7, LevelSafe},
		{0.699, LevelReview},
		{0.4, LevelReview},
		{0.399, LevelRisky},
		{0.0, LevelRisky},
	}

	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestOriginSameType(t *testing.T) {
	claude := ChangeOrigin{Type: OriginAIAgent, ToolName: "Claude Code", PID: 123}
	cursor := ChangeOrigin{Type: OriginAIAgent, ToolName: "Cursor", PID: 456}
	human := ChangeOrigin{Type: OriginHuman}

	if !claude.SameType(cursor) {
		t.Error("two AI agents should share an origin tag regardless of payload")
	}
	if claude.SameType(human) {
		t.Error("AI agent and human must not share an origin tag")
	}
}

func TestFileEventJSONRoundTrip(t *testing.T) {
	orig := FileEvent{
		Path:           "src/main.go",
		Kind:           Modified,
		Timestamp:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Diff:           "@@ -1 +1 @@\n-hello\n+hello world\n",
		ContentPreview: "",
		Origin:         ChangeOrigin{Type: OriginAIAgent, ToolName: "Claude Code", PID: 42},
		Confidence: &ChangeConfidence{
			Level:   LevelReview,
			Score:   0.6,
			Reasons: []string{"Debug output detected"},
		},
		BatchID: "batch_1717243200000",
	}

	raw, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}

	var got FileEvent
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}

	if got.Path != orig.Path || got.Kind != orig.Kind {
		t.Errorf("path/kind mismatch after round trip: %+v", got)
	}
	if got.Origin != orig.Origin {
		t.Errorf("origin mismatch: got %+v, want %+v", got.Origin, orig.Origin)
	}
	if got.Confidence == nil || got.Confidence.Level != LevelReview || got.Confidence.Score != 0.6 {
		t.Errorf("confidence mismatch: %+v", got.Confidence)
	}
	if got.BatchID != orig.BatchID {
		t.Errorf("batch id mismatch: %q", got.BatchID)
	}
	if !got.Timestamp.Equal(orig.Timestamp) {
		t.Errorf("timestamp mismatch: %v", got.Timestamp)
	}
}

func TestKindJSONStable(t *testing.T) {
	for _, k := range []Kind{Created, Modified, Deleted, Moved} {
		raw, err := json.Marshal(k)
		if err != nil {
			t.Fatal(err)
		}
		var back Kind
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatal(err)
		}
		if back != k {
			t.Errorf("kind %s did not survive a round trip", k)
		}
	}

	var bad Kind
	if err := json.Unmarshal([]byte(`"exploded"`), &bad); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestMovedEventCarriesBothPaths(t *testing.T) {
	e := New("new/name.go", Moved)
	e.MovedFrom = "old/name.go"

	raw, _ := json.Marshal(e)
	var back FileEvent
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.MovedFrom != "old/name.go" || back.Path != "new/name.go" {
		t.Errorf("moved paths lost in serialization: %+v", back)
	}
}
