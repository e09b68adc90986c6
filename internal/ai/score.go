package ai

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sprite-ai/watchdiff/internal/event"
)

// patternRule is one scoring rule: a pattern over the diff text, its signed
// score impact, and the reason recorded when it fires.
type patternRule struct {
	pattern *regexp.Regexp
	impact  float64
	reason  string
}

// The rule table is data, not code: compiled once, applied in order. Order
// affects which reasons appear first but never the score, since impacts are
// additive.
var patternRules = []patternRule{
	{regexp.MustCompile(`import.*unused`), -0.3, "Unused import detected"},
	{regexp.MustCompile(`TODO|FIXME|XXX`), -0.2, "TODO/FIXME comment found"},
	{regexp.MustCompile(`console\.log|print\(|println!`), -0.1, "Debug output detected"},
	{regexp.MustCompile(`\.unwrap\(\)`), -0.2, "Unsafe unwrap() usage"},
	{regexp.MustCompile(`unsafe\s*\{`), -0.4, "Unsafe code block"},
	{regexp.MustCompile(`#\[allow\(.*\)\]`), -0.1, "Lint warning suppression"},
}

// highLevelExts are languages AI tools handle well; lowLevelExts are
// extensions where generated code is riskier.
var (
	highLevelExts = map[string]bool{".rs": true, ".py": true, ".js": true, ".ts": true, ".go": true}
	lowLevelExts  = map[string]bool{".c": true, ".cpp": true, ".asm": true, ".s": true}
)

// ConfidenceScorer rates how safe a diff looks to auto-accept. It is a pure
// function of its inputs: the only state is the immutable rule table, so
// identical (diff, path) pairs always produce identical results.
type ConfidenceScorer struct {
	rules []patternRule
}

// NewConfidenceScorer returns a scorer with the built-in rule table.
func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{rules: patternRules}
}

// ScoreChange scores a diff for the given path. The score starts at 0.8,
// each matching rule adds its impact, the file extension and diff size
// adjust further, and the result is clamped to [0, 1].
func (s *ConfidenceScorer) ScoreChange(diff, path string) event.ChangeConfidence {
	score := 0.8
	reasons := []string{}

	for _, rule := range s.rules {
		if rule.pattern.MatchString(diff) {
			score += rule.impact
			reasons = append(reasons, rule.reason)
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case highLevelExts[ext]:
		score += 0.1
	case lowLevelExts[ext]:
		score -= 0.2
		reasons = append(reasons, "Low-level language detected")
	}

	lineCount := len(strings.Split(diff, "\n"))
	if lineCount > 100 {
		score -= 0.2
		reasons = append(reasons, "Large change detected")
	} else if lineCount > 50 {
		score -= 0.1
		reasons = append(reasons, "Medium-sized change")
	}

	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	return event.ChangeConfidence{
		Level:   event.LevelForScore(score),
		Score:   score,
		Reasons: reasons,
	}
}
