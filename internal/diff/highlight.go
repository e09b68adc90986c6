package diff

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // ANSI color string, empty for default
}

// HighlightedLine is one source line as styled tokens.
type HighlightedLine struct {
	Tokens []Token
}

// Plain returns the concatenated plain text of all tokens.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, t := range hl.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// LanguageForPath guesses the lexer language name for a path, or "" when no
// lexer matches. Callers use this as the language component of syntax cache
// keys.
func LanguageForPath(path string) string {
	lexer := lexerFor(path, "")
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// Highlight tokenizes the whole document and returns one entry per input
// line. Highlighting the full document, never a viewport slice, keeps
// multi-line constructs colored correctly; the syntax cache makes the cost
// acceptable.
func Highlight(content, language, path string) []HighlightedLine {
	lines := strings.Split(content, "\n")

	lexer := lexerFor(path, language)
	if lexer == nil {
		return plainLines(lines)
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return plainLines(lines)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	result := make([]HighlightedLine, 0, len(lines))
	current := HighlightedLine{}

	for _, token := range iterator.Tokens() {
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = HighlightedLine{}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(style, token.Type),
				})
			}
		}
	}
	result = append(result, current)

	for len(result) < len(lines) {
		result = append(result, HighlightedLine{Tokens: []Token{{Text: ""}}})
	}
	return result[:len(lines)]
}

func plainLines(lines []string) []HighlightedLine {
	result := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		result[i] = HighlightedLine{Tokens: []Token{{Text: line}}}
	}
	return result
}

func lexerFor(path, language string) chroma.Lexer {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil && path != "" {
		lexer = lexers.Match(filepath.Base(path))
		if lexer == nil {
			if ext := filepath.Ext(path); ext != "" {
				lexer = lexers.Match("file" + ext)
			}
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
