// Package chroma provides syntax highlighting of blamed source lines using
// the chroma library.
package chroma

import (
	"errors"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/hunkstage"
)

// Compile-time interface verification.
var _ hunkstage.Tokenizer = (*Tokenizer)(nil)

// StyleFunc maps a chroma token type to a style.
type StyleFunc func(chroma.TokenType) hunkstage.Style

// Tokenizer extracts syntax tokens using chroma.
type Tokenizer struct {
	style StyleFunc
}

// NewTokenizer creates a new chroma-based tokenizer.
func NewTokenizer(style StyleFunc) (*Tokenizer, error) {
	if style == nil {
		return nil, errors.New("chroma: style function is required")
	}
	return &Tokenizer{style: style}, nil
}

// Language returns the chroma language name for a file path, or "" when no
// lexer matches.
func Language(path string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// Tokenize splits source code into syntax-highlighted tokens for the given language.
// Returns nil if the language is not supported or an error occurs.
// Returns an empty slice for empty source (valid input, no tokens).
func (t *Tokenizer) Tokenize(language, source string) []hunkstage.Token {
	if source == "" {
		return []hunkstage.Token{}
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return nil
	}

	// Coalesce for better performance with consecutive tokens of the same type
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil
	}

	var tokens []hunkstage.Token
	for token := iterator(); token != chroma.EOF; token = iterator() {
		tokens = append(tokens, hunkstage.Token{
			Text:  token.Value,
			Style: t.style(token.Type),
		})
	}
	return tokens
}

// TokenizeLines tokenizes source as a whole, so constructs spanning lines
// such as block comments keep their style, then splits the tokens at line
// breaks. The result has one entry per line of source; a trailing newline
// does not start another line.
func (t *Tokenizer) TokenizeLines(language, source string) [][]hunkstage.Token {
	if source == "" {
		return [][]hunkstage.Token{}
	}
	tokens := t.Tokenize(language, source)
	if tokens == nil {
		return nil
	}

	lines := [][]hunkstage.Token{nil}
	for _, tok := range tokens {
		parts := strings.Split(tok.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], hunkstage.Token{Text: part, Style: tok.Style})
			}
		}
	}
	// Lexers may terminate the final line with a newline of their own.
	if len(lines) > 1 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// StyleFromPalette returns a StyleFunc drawing token types in palette colors.
func StyleFromPalette(p hunkstage.Palette) StyleFunc {
	return func(tt chroma.TokenType) hunkstage.Style {
		switch {
		case tt.InCategory(chroma.Keyword):
			return hunkstage.Style{Foreground: string(p.Keyword), Bold: true}
		case tt.InCategory(chroma.Comment):
			return hunkstage.Style{Foreground: string(p.Comment)}
		case tt.InSubCategory(chroma.LiteralString):
			return hunkstage.Style{Foreground: string(p.String)}
		case tt.InSubCategory(chroma.LiteralNumber):
			return hunkstage.Style{Foreground: string(p.Number)}
		case tt.InCategory(chroma.Operator):
			return hunkstage.Style{Foreground: string(p.Operator)}
		case tt == chroma.NameFunction || tt == chroma.NameFunctionMagic:
			return hunkstage.Style{Foreground: string(p.Function)}
		case tt == chroma.NameBuiltin || tt == chroma.NameBuiltinPseudo:
			return hunkstage.Style{Foreground: string(p.Function)}
		case tt.InCategory(chroma.Name) && tt != chroma.Name:
			return hunkstage.Style{Foreground: string(p.Name)}
		default:
			return hunkstage.Style{}
		}
	}
}
