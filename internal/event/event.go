// Package event defines the core data types shared across watchdiff.
package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind categorizes a filesystem change.
type Kind int

const (
	Created Kind = iota
	Modified
	Deleted
	Moved
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Moved:
		return "moved"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "created":
		*k = Created
	case "modified":
		*k = Modified
	case "deleted":
		*k = Deleted
	case "moved":
		*k = Moved
	default:
		return fmt.Errorf("unknown event kind %q", s)
	}
	return nil
}

// OriginType tags who or what produced a change.
type OriginType int

const (
	OriginUnknown OriginType = iota
	OriginHuman
	OriginAIAgent
	OriginTool
)

func (o OriginType) String() string {
	switch o {
	case OriginHuman:
		return "human"
	case OriginAIAgent:
		return "ai_agent"
	case OriginTool:
		return "tool"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (o OriginType) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OriginType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "human":
		*o = OriginHuman
	case "ai_agent":
		*o = OriginAIAgent
	case "tool":
		*o = OriginTool
	case "unknown":
		*o = OriginUnknown
	default:
		return fmt.Errorf("unknown origin type %q", s)
	}
	return nil
}

// ChangeOrigin is the best-effort attribution of a change. Only the fields
// relevant to the active Type are populated: ToolName and PID for AI agents,
// ToolName alone for non-AI tools.
type ChangeOrigin struct {
	Type     OriginType `json:"type"`
	ToolName string     `json:"tool_name,omitempty"`
	PID      int32      `json:"pid,omitempty"`
}

// SameType reports whether two origins carry the same tag. Batching compares
// tags only, never tool names or PIDs.
func (o ChangeOrigin) SameType(other ChangeOrigin) bool {
	return o.Type == other.Type
}

func (o ChangeOrigin) String() string {
	switch o.Type {
	case OriginAIAgent:
		return fmt.Sprintf("ai:%s", o.ToolName)
	case OriginTool:
		return fmt.Sprintf("tool:%s", o.ToolName)
	default:
		return o.Type.String()
	}
}

// ConfidenceLevel buckets a confidence score.
type ConfidenceLevel int

const (
	LevelSafe ConfidenceLevel = iota
	LevelReview
	LevelRisky
)

func (l ConfidenceLevel) String() string {
	switch l {
	case LevelSafe:
		return "safe"
	case LevelReview:
		return "review"
	case LevelRisky:
		return "risky"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (l ConfidenceLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *ConfidenceLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "safe":
		*l = LevelSafe
	case "review":
		*l = LevelReview
	case "risky":
		*l = LevelRisky
	default:
		return fmt.Errorf("unknown confidence level %q", s)
	}
	return nil
}

// LevelForScore derives the level bucket from a score. The thresholds are
// fixed: score >= 0.7 is safe, >= 0.4 needs review, anything lower is risky.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= 0.7:
		return LevelSafe
	case score >= 0.4:
		return LevelReview
	default:
		return LevelRisky
	}
}

// ChangeConfidence is a heuristic risk estimate for a diff: a score in
// [0, 1], the level bucket derived from it, and the human-readable reasons
// that moved the score.
type ChangeConfidence struct {
	Level   ConfidenceLevel `json:"level"`
	Score   float64         `json:"score"`
	Reasons []string        `json:"reasons"`
}

// FileEvent is one semantically enriched filesystem change. Immutable once
// emitted by the pipeline; the receiving consumer owns it exclusively.
type FileEvent struct {
	Path           string            `json:"path"`
	Kind           Kind              `json:"kind"`
	MovedFrom      string            `json:"moved_from,omitempty"` // set only for Moved
	Timestamp      time.Time         `json:"timestamp"`
	Diff           string            `json:"diff,omitempty"`
	ContentPreview string            `json:"content_preview,omitempty"`
	Origin         ChangeOrigin      `json:"origin"`
	Confidence     *ChangeConfidence `json:"confidence,omitempty"`
	BatchID        string            `json:"batch_id,omitempty"`
}

// New creates a FileEvent with the timestamp set to now and an unknown origin.
func New(path string, kind Kind) FileEvent {
	return FileEvent{
		Path:      path,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// IsAIGenerated reports whether the event is attributed to an AI agent.
func (e FileEvent) IsAIGenerated() bool {
	return e.Origin.Type == OriginAIAgent
}

// IsHighRisk reports whether the event carries a risky confidence rating.
func (e FileEvent) IsHighRisk() bool {
	return e.Confidence != nil && e.Confidence.Level == LevelRisky
}
