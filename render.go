package hunkstage

// Color is a hex color string such as "#98c379".
type Color string

// Style describes how a token is drawn.
type Style struct {
	Foreground string
	Bold       bool
}

// Token is a highlighted span of source text.
type Token struct {
	Text  string
	Style Style
}

// Tokenizer highlights source code.
type Tokenizer interface {
	// TokenizeLines splits source into lines of tokens. It returns nil when
	// language is not supported.
	TokenizeLines(language, source string) [][]Token
}

// Palette holds the colors used by the terminal reporter.
type Palette struct {
	Added   Color
	Deleted Color
	Muted   Color
	Hash    Color
	Author  Color
	Error   Color

	Keyword  Color
	String   Color
	Comment  Color
	Number   Color
	Operator Color
	Function Color
	Name     Color
}
