// Package normalize turns raw source text into a flat token stream with
// comments removed, literal contents erased and whitespace collapsed.
//
// Tokenize never fails: unterminated comments and literals are closed at
// the end of the line (single-line strings) or at the end of input.
package normalize

import (
	"strings"
	"unicode"

	"github.com/panbanda/gauge/pkg/lang"
)

// Kind classifies a token.
type Kind uint8

const (
	Word Kind = iota
	Number
	String
	Symbol
	// BlockOpen and BlockClose delimit blocks: braces in C-like languages,
	// indentation changes after a trailing colon in indentation languages.
	BlockOpen
	BlockClose
	// EndOfLine ends a logical line. Only emitted for indentation languages.
	EndOfLine
)

var kindNames = [...]string{"word", "number", "string", "symbol", "block_open", "block_close", "eol"}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// StringPlaceholder replaces the contents of every string or char literal.
const StringPlaceholder = `""`

// Token is one normalized token with its 1-based source line.
type Token struct {
	Text string
	Kind Kind
	Line int
}

// TokenStream is the ordered token sequence of one snippet.
type TokenStream struct {
	Tokens   []Token
	Lines    int
	Language lang.Language
}

// Len returns the number of tokens.
func (s *TokenStream) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tokens)
}

// Texts returns the token texts used for shingling. Logical line breaks
// carry no content and are omitted.
func (s *TokenStream) Texts() []string {
	if s == nil {
		return nil
	}
	texts := make([]string, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		if t.Kind == EndOfLine {
			continue
		}
		texts = append(texts, t.Text)
	}
	return texts
}

// String joins the token texts with single spaces.
func (s *TokenStream) String() string {
	return strings.Join(s.Texts(), " ")
}

// Tokenize normalizes text using the lexical rules of p. A nil profile
// uses the generic fallback. Runs in time linear in len(text).
func Tokenize(text string, p *lang.Profile) *TokenStream {
	if p == nil {
		p = lang.MustLookup(string(lang.Generic))
	}
	l := &lexer{
		src:         []rune(text),
		line:        1,
		p:           p,
		indents:     []int{0},
		atLineStart: true,
	}
	l.run()

	lines := 0
	if len(text) > 0 {
		lines = strings.Count(text, "\n") + 1
	}
	return &TokenStream{Tokens: l.out, Lines: lines, Language: p.Language}
}

// operators are matched longest first.
var (
	operators3 = map[string]bool{
		"===": true, "!==": true, ">>>": true, "<<=": true, ">>=": true,
		"**=": true, "//=": true, "...": true, "..=": true, "&&=": true,
		"||=": true, "??=": true,
	}
	operators2 = map[string]bool{
		"==": true, "!=": true, "<=": true, ">=": true, "&&": true, "||": true,
		"<<": true, ">>": true, "+=": true, "-=": true, "*=": true, "/=": true,
		"%=": true, "&=": true, "|=": true, "^=": true, "++": true, "--": true,
		"->": true, "=>": true, "::": true, "..": true, ":=": true, "**": true,
		"??": true, "?.": true, "<-": true, "//": true,
	}
)

// stringPrefixes may directly precede a quote in Python and Rust.
var stringPrefixes = map[string]bool{
	"r": true, "b": true, "f": true, "u": true,
	"rb": true, "br": true, "fr": true, "rf": true,
}

type lexer struct {
	src  []rune
	pos  int
	line int
	p    *lang.Profile
	out  []Token

	// indentation tracking, used only when p.IndentBlocks is set
	indents      []int
	atLineStart  bool
	bracketDepth int
	seenCode     bool
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		if l.p.IndentBlocks && l.atLineStart && l.bracketDepth == 0 {
			l.lineStart()
			if l.pos >= len(l.src) {
				break
			}
		}

		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.newline()
		case c == '\\' && l.peek(1) == '\n':
			// explicit line continuation
			l.pos += 2
			l.line++
		case unicode.IsSpace(c):
			l.pos++
		case l.hasPrefixAny(l.p.LineComments):
			l.skipLine()
		case l.p.BlockComment[0] != "" && l.hasPrefix(l.p.BlockComment[0]):
			l.skipBlockComment()
		case l.p.TripleQuotes && (l.hasPrefix(`"""`) || l.hasPrefix(`'''`)):
			l.tripleString()
		case l.p.CharLiterals && c == '\'':
			l.charLiteral()
		case strings.ContainsRune(l.p.StringDelims, c):
			l.stringLiteral(c)
		case unicode.IsDigit(c):
			l.number()
		case isIdentStart(c):
			l.word()
		default:
			l.symbol()
		}
	}
	l.finish()
}

func (l *lexer) peek(n int) rune {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

func (l *lexer) hasPrefix(s string) bool {
	if s == "" {
		return false
	}
	i := l.pos
	for _, r := range s {
		if i >= len(l.src) || l.src[i] != r {
			return false
		}
		i++
	}
	return true
}

func (l *lexer) hasPrefixAny(prefixes []string) bool {
	for _, p := range prefixes {
		if l.hasPrefix(p) {
			return true
		}
	}
	return false
}

func (l *lexer) emit(text string, kind Kind, line int) {
	l.out = append(l.out, Token{Text: text, Kind: kind, Line: line})
	if kind != EndOfLine && kind != BlockClose {
		l.seenCode = true
	}
}

func (l *lexer) last() *Token {
	if len(l.out) == 0 {
		return nil
	}
	return &l.out[len(l.out)-1]
}

func (l *lexer) newline() {
	l.pos++
	l.line++
	if l.p.IndentBlocks && l.bracketDepth == 0 {
		l.atLineStart = true
	}
}

// lineStart measures indentation at the start of a physical line and emits
// block and end-of-line tokens for indentation languages.
func (l *lexer) lineStart() {
	width := 0
scan:
	for ; l.pos < len(l.src); l.pos++ {
		switch l.src[l.pos] {
		case ' ':
			width++
		case '\t':
			width += 8 - width%8
		case '\r', '\f':
		default:
			break scan
		}
	}
	if l.pos >= len(l.src) {
		return
	}
	c := l.src[l.pos]
	if c == '\n' || l.hasPrefixAny(l.p.LineComments) {
		// blank and comment-only lines do not affect blocks
		return
	}
	l.atLineStart = false

	if !l.seenCode {
		l.indents[0] = width
		return
	}

	top := l.indents[len(l.indents)-1]
	if last := l.last(); last != nil && last.Kind == Symbol && last.Text == ":" && width > top {
		l.indents = append(l.indents, width)
		l.emit("{", BlockOpen, l.line)
		return
	}

	l.endLine()
	for len(l.indents) > 1 && width < l.indents[len(l.indents)-1] {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit("}", BlockClose, l.line)
	}
}

func (l *lexer) endLine() {
	last := l.last()
	if last == nil || last.Kind == EndOfLine || last.Kind == BlockOpen || last.Kind == BlockClose {
		return
	}
	l.emit("", EndOfLine, last.Line)
}

func (l *lexer) finish() {
	if !l.p.IndentBlocks {
		return
	}
	l.endLine()
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit("}", BlockClose, l.line)
	}
}

func (l *lexer) skipLine() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *lexer) skipBlockComment() {
	l.pos += len([]rune(l.p.BlockComment[0]))
	for l.pos < len(l.src) {
		if l.hasPrefix(l.p.BlockComment[1]) {
			l.pos += len([]rune(l.p.BlockComment[1]))
			return
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}

func (l *lexer) tripleString() {
	start := l.line
	quote := string(l.src[l.pos : l.pos+3])
	l.pos += 3
	for l.pos < len(l.src) {
		if l.src[l.pos] == '\\' {
			l.pos += 2
			continue
		}
		if l.hasPrefix(quote) {
			l.pos += 3
			break
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
	l.emit(StringPlaceholder, String, start)
}

// stringLiteral consumes a quoted literal. Backtick literals may span lines;
// other literals end at an unescaped delimiter, the end of the line or EOF.
func (l *lexer) stringLiteral(delim rune) {
	start := l.line
	multiline := delim == '`'
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) && l.src[l.pos+1] != '\n' {
			l.pos += 2
			continue
		}
		if c == delim {
			l.pos++
			break
		}
		if c == '\n' {
			if !multiline {
				break
			}
			l.line++
		}
		l.pos++
	}
	l.emit(StringPlaceholder, String, start)
}

// rawString consumes a Rust raw string r#"..."# after its prefix.
func (l *lexer) rawString() {
	start := l.line
	hashes := 0
	for l.pos < len(l.src) && l.src[l.pos] == '#' {
		hashes++
		l.pos++
	}
	if l.pos >= len(l.src) || l.src[l.pos] != '"' {
		l.emit(StringPlaceholder, String, start)
		return
	}
	closing := `"` + strings.Repeat("#", hashes)
	l.pos++
	for l.pos < len(l.src) {
		if l.hasPrefix(closing) {
			l.pos += len(closing)
			break
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
	l.emit(StringPlaceholder, String, start)
}

// charLiteral handles ' in languages where it delimits a single character.
// A lone quote (a Rust lifetime, for instance) is emitted as a symbol.
func (l *lexer) charLiteral() {
	if l.peek(1) == '\\' {
		end := l.pos + 2
		for end < len(l.src) && end-l.pos < 12 && l.src[end] != '\'' && l.src[end] != '\n' {
			end++
		}
		if end < len(l.src) && l.src[end] == '\'' {
			l.pos = end + 1
			l.emit(StringPlaceholder, String, l.line)
			return
		}
	}
	if l.peek(1) != 0 && l.peek(1) != '\n' && l.peek(2) == '\'' {
		l.pos += 3
		l.emit(StringPlaceholder, String, l.line)
		return
	}
	l.pos++
	l.emit("'", Symbol, l.line)
}

func (l *lexer) number() {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '.' {
			if !unicode.IsDigit(l.peek(1)) {
				break
			}
		} else if !isIdentPart(c) {
			break
		}
		l.pos++
	}
	l.emit(string(l.src[start:l.pos]), Number, l.line)
}

func (l *lexer) word() {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := string(l.src[start:l.pos])

	if l.pos < len(l.src) && stringPrefixes[strings.ToLower(text)] {
		next := l.src[l.pos]
		switch {
		case l.p.Language == lang.Python && (next == '"' || next == '\''):
			if l.hasPrefix(`"""`) || l.hasPrefix(`'''`) {
				l.tripleString()
			} else {
				l.stringLiteral(next)
			}
			return
		case l.p.Language == lang.Rust && (next == '"' || next == '#') && strings.ContainsRune(text, 'r'):
			l.rawString()
			return
		case l.p.Language == lang.Rust && next == '"':
			l.stringLiteral(next)
			return
		}
	}

	l.emit(text, Word, l.line)
}

func (l *lexer) symbol() {
	c := l.src[l.pos]

	switch c {
	case '{', '}':
		l.pos++
		if l.p.IndentBlocks {
			l.bracket(c)
			l.emit(string(c), Symbol, l.line)
			return
		}
		if c == '{' {
			l.emit("{", BlockOpen, l.line)
		} else {
			l.emit("}", BlockClose, l.line)
		}
		return
	case '(', '[', ')', ']':
		l.pos++
		l.bracket(c)
		l.emit(string(c), Symbol, l.line)
		return
	}

	if l.pos+3 <= len(l.src) {
		if op := string(l.src[l.pos : l.pos+3]); operators3[op] {
			l.pos += 3
			l.emit(op, Symbol, l.line)
			return
		}
	}
	if l.pos+2 <= len(l.src) {
		if op := string(l.src[l.pos : l.pos+2]); operators2[op] {
			l.pos += 2
			l.emit(op, Symbol, l.line)
			return
		}
	}
	l.pos++
	l.emit(string(c), Symbol, l.line)
}

func (l *lexer) bracket(c rune) {
	switch c {
	case '(', '[', '{':
		l.bracketDepth++
	default:
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
	}
}

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c)
}
