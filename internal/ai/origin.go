// Package ai implements best-effort change attribution, heuristic confidence
// scoring, and batch grouping for file change events.
package ai

import (
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/sprite-ai/watchdiff/internal/event"
)

// ProcessInfo is one running process as seen by a ProcessLister.
type ProcessInfo struct {
	PID  int32
	Name string
}

// ProcessLister reports currently running processes. The production
// implementation wraps gopsutil; tests substitute a fixed list.
type ProcessLister interface {
	ListProcesses() ([]ProcessInfo, error)
}

// SystemProcessLister lists processes via gopsutil.
type SystemProcessLister struct{}

// ListProcesses implements ProcessLister. Processes whose name cannot be
// resolved (already exited, permission denied) are skipped.
func (SystemProcessLister) ListProcesses() ([]ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		infos = append(infos, ProcessInfo{PID: p.Pid, Name: name})
	}
	return infos, nil
}

// knownAITools maps a lowercase process-name fragment to the tool's display
// name.
var knownAITools = map[string]string{
	"claude":  "Claude Code",
	"gemini":  "Gemini CLI",
	"cursor":  "Cursor",
	"copilot": "GitHub Copilot",
	"codeium": "Codeium",
	"tabnine": "TabNine",
	"aider":   "Aider",
}

// OriginDetector attributes changes to whatever known AI tool is currently
// running. This is a coarse "what is active right now" signal, not a per-file
// attribution: any change observed while an agent process runs is credited
// to it.
type OriginDetector struct {
	lister ProcessLister
}

// NewOriginDetector builds a detector backed by the system process table.
func NewOriginDetector() *OriginDetector {
	return NewOriginDetectorWith(SystemProcessLister{})
}

// NewOriginDetectorWith builds a detector with a custom process lister.
func NewOriginDetectorWith(lister ProcessLister) *OriginDetector {
	return &OriginDetector{lister: lister}
}

// DetectChangeOrigin scans the process table and returns the active AI
// agent, or an unknown origin when none is found. When several known tools
// run at once the match with the lexicographically smallest display name
// wins, so repeated calls under the same process set agree.
func (d *OriginDetector) DetectChangeOrigin() event.ChangeOrigin {
	procs, err := d.lister.ListProcesses()
	if err != nil {
		return event.ChangeOrigin{Type: event.OriginUnknown}
	}

	type match struct {
		tool string
		pid  int32
	}
	var matches []match
	for _, p := range procs {
		name := strings.ToLower(p.Name)
		for fragment, tool := range knownAITools {
			if strings.Contains(name, fragment) {
				matches = append(matches, match{tool: tool, pid: p.PID})
			}
		}
	}
	if len(matches) == 0 {
		return event.ChangeOrigin{Type: event.OriginUnknown}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].tool != matches[j].tool {
			return matches[i].tool < matches[j].tool
		}
		return matches[i].pid < matches[j].pid
	})

	return event.ChangeOrigin{
		Type:     event.OriginAIAgent,
		ToolName: matches[0].tool,
		PID:      matches[0].pid,
	}
}
