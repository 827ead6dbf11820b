// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"unicode/utf8"
)

// Lexer tokenizes GLSL source code.
type Lexer struct {
	source    string
	pos       int
	line      int
	column    int
	start     int
	startLine int
	startCol  int
	lineStart bool // only whitespace seen since the last newline
	tokens    []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	// Estimate ~1 token per 5 characters of source.
	estTokens := len(source) / 5
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source:    source,
		line:      1,
		column:    1,
		lineStart: true,
		tokens:    make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.pos
		l.startLine = l.line
		l.startCol = l.column
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens, nil
}

func (l *Lexer) scanToken() *SourceError {
	r := l.advance()

	switch r {
	case '#':
		if !l.lineStart {
			return l.errorf("unexpected '#' in the middle of a line")
		}
		l.directive()
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case '[':
		l.addToken(TokenLeftBracket)
	case ']':
		l.addToken(TokenRightBracket)
	case ',':
		l.addToken(TokenComma)
	case ':':
		l.addToken(TokenColon)
	case ';':
		l.addToken(TokenSemicolon)
	case '?':
		l.addToken(TokenQuestion)
	case '~':
		l.addToken(TokenTilde)
	case '.':
		if isDigit(l.peek()) {
			l.fraction()
		} else {
			l.addToken(TokenDot)
		}
	case '%':
		l.addOrAssign(TokenPercent, TokenPercentEqual)
	case '*':
		l.addOrAssign(TokenStar, TokenStarEqual)
	case '!':
		l.addOrAssign(TokenBang, TokenBangEqual)
	case '=':
		l.addOrAssign(TokenEqual, TokenEqualEqual)
	case '^':
		if l.match('^') {
			l.addToken(TokenCaretCaret)
		} else {
			l.addOrAssign(TokenCaret, TokenCaretEqual)
		}
	case '+':
		if l.match('+') {
			l.addToken(TokenPlusPlus)
		} else {
			l.addOrAssign(TokenPlus, TokenPlusEqual)
		}
	case '-':
		if l.match('-') {
			l.addToken(TokenMinusMinus)
		} else {
			l.addOrAssign(TokenMinus, TokenMinusEqual)
		}
	case '&':
		if l.match('&') {
			l.addToken(TokenAmpAmp)
		} else {
			l.addOrAssign(TokenAmpersand, TokenAmpEqual)
		}
	case '|':
		if l.match('|') {
			l.addToken(TokenPipePipe)
		} else {
			l.addOrAssign(TokenPipe, TokenPipeEqual)
		}
	case '<':
		if l.match('<') {
			l.addOrAssign(TokenLessLess, TokenLessLessEqual)
		} else {
			l.addOrAssign(TokenLess, TokenLessEqual)
		}
	case '>':
		if l.match('>') {
			l.addOrAssign(TokenGreaterGreater, TokenGreaterGreaterEqual)
		} else {
			l.addOrAssign(TokenGreater, TokenGreaterEqual)
		}
	case '/':
		switch {
		case l.match('/'):
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		case l.match('*'):
			return l.blockComment()
		default:
			l.addOrAssign(TokenSlash, TokenSlashEqual)
		}

	case ' ', '\r', '\t', '\f', '\v':
	case '\n':
		l.newline()
	case '\\':
		// Line continuation outside a directive.
		if l.match('\r') && l.peek() != '\n' {
			return l.errorf("unexpected '\\'")
		}
		if !l.match('\n') {
			return l.errorf("unexpected '\\'")
		}
		l.line++
		l.column = 1

	default:
		switch {
		case isDigit(r):
			l.number()
		case isAlpha(r) || r == '_':
			return l.identifier()
		case r == utf8.RuneError && l.pos-l.start == 1:
			return l.errorf("invalid UTF-8 byte %#x", l.source[l.start])
		default:
			return l.errorf("unexpected character %q", r)
		}
	}

	return nil
}

// directive consumes a preprocessor line, following backslash-newline
// continuations, into a single TokenDirective.
func (l *Lexer) directive() {
	for !l.isAtEnd() {
		c := l.peek()
		if c == '\\' && (l.peekNext() == '\n' || (l.peekNext() == '\r' && l.peekAt(2) == '\n')) {
			l.advance()
			if l.peek() == '\r' {
				l.advance()
			}
			l.advance()
			l.line++
			l.column = 1
			continue
		}
		if c == '\n' {
			break
		}
		l.advance()
	}
	l.addToken(TokenDirective)
}

func (l *Lexer) blockComment() *SourceError {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		if l.advance() == '\n' {
			l.line++
			l.column = 1
		}
	}
	return l.errorf("unterminated block comment")
}

func (l *Lexer) number() {
	if l.source[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		l.intSuffix()
		return
	}

	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' {
		l.advance()
		l.fraction()
		return
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.fraction()
		return
	}
	if l.peek() == 'f' || l.peek() == 'F' || l.isDoubleSuffix() {
		l.fraction()
		return
	}

	l.intSuffix()
}

func (l *Lexer) intSuffix() {
	if l.peek() == 'u' || l.peek() == 'U' {
		l.advance()
		l.addToken(TokenUintLiteral)
		return
	}
	l.addToken(TokenIntLiteral)
}

// fraction scans the remainder of a floating-point literal after the
// integer part and optional dot have been consumed.
func (l *Lexer) fraction() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	switch {
	case l.peek() == 'f' || l.peek() == 'F':
		l.advance()
	case l.isDoubleSuffix():
		l.advance()
		l.advance()
	}
	l.addToken(TokenFloatLiteral)
}

func (l *Lexer) isDoubleSuffix() bool {
	next := l.peekNext()
	return (l.peek() == 'l' && next == 'f') || (l.peek() == 'L' && next == 'F')
}

func (l *Lexer) identifier() *SourceError {
	for isAlphaNumeric(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	text := l.source[l.start:l.pos]
	if isReserved(text) {
		return l.errorf("%q is a reserved word", text)
	}
	l.addToken(l.lookupKeyword(text))
	return nil
}

func (l *Lexer) lookupKeyword(text string) TokenKind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	if text == "true" || text == "false" {
		return TokenBoolLiteral
	}
	if IsBuiltinType(text) {
		return TokenTypeName
	}
	return TokenIdent
}

func (l *Lexer) addOrAssign(plain, assign TokenKind) {
	if l.match('=') {
		l.addToken(assign)
	} else {
		l.addToken(plain)
	}
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Line:   l.startLine,
		Column: l.startCol,
	})
	l.lineStart = false
}

func (l *Lexer) errorf(format string, args ...interface{}) *SourceError {
	span := Span{Start: Position{Line: l.startLine, Column: l.startCol, Offset: l.start}}
	return &SourceError{
		Stage:   StageLex,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
		Source:  l.source,
	}
}

func (l *Lexer) newline() {
	l.line++
	l.column = 1
	l.lineStart = true
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	l.column++
	return r
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekNext() rune {
	return l.peekAt(1)
}

// peekAt returns the rune n runes ahead without consuming anything.
func (l *Lexer) peekAt(n int) rune {
	pos := l.pos
	for ; n > 0 && pos < len(l.source); n-- {
		_, size := utf8.DecodeRuneInString(l.source[pos:])
		pos += size
	}
	if pos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[pos:])
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if r != expected {
		return false
	}
	l.pos += size
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// GLSL identifiers are ASCII only.
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
