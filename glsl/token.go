// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenError

	// Preprocessor line (#version, #define, ...), lexeme holds the whole
	// logical line including the leading '#'.
	TokenDirective

	// Literals
	TokenIdent
	TokenTypeName // built-in type keyword (float, vec4, sampler2D, ...)
	TokenIntLiteral
	TokenUintLiteral
	TokenFloatLiteral
	TokenBoolLiteral

	// Operators
	TokenPlus                // +
	TokenMinus               // -
	TokenStar                // *
	TokenSlash               // /
	TokenPercent             // %
	TokenAmpersand           // &
	TokenPipe                // |
	TokenCaret               // ^
	TokenTilde               // ~
	TokenBang                // !
	TokenEqual               // =
	TokenLess                // <
	TokenGreater             // >
	TokenDot                 // .
	TokenComma               // ,
	TokenColon               // :
	TokenSemicolon           // ;
	TokenQuestion            // ?
	TokenPlusPlus            // ++
	TokenMinusMinus          // --
	TokenEqualEqual          // ==
	TokenBangEqual           // !=
	TokenLessEqual           // <=
	TokenGreaterEqual        // >=
	TokenAmpAmp              // &&
	TokenPipePipe            // ||
	TokenCaretCaret          // ^^
	TokenLessLess            // <<
	TokenGreaterGreater      // >>
	TokenPlusEqual           // +=
	TokenMinusEqual          // -=
	TokenStarEqual           // *=
	TokenSlashEqual          // /=
	TokenPercentEqual        // %=
	TokenAmpEqual            // &=
	TokenPipeEqual           // |=
	TokenCaretEqual          // ^=
	TokenLessLessEqual       // <<=
	TokenGreaterGreaterEqual // >>=

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]

	// Statement keywords
	TokenBreak
	TokenCase
	TokenContinue
	TokenDefault
	TokenDiscard
	TokenDo
	TokenElse
	TokenFor
	TokenIf
	TokenReturn
	TokenStruct
	TokenSwitch
	TokenWhile

	// Storage qualifiers
	TokenConst
	TokenIn
	TokenOut
	TokenInOut
	TokenAttribute
	TokenVarying
	TokenUniform
	TokenBuffer
	TokenShared
	TokenSubroutine

	// Auxiliary storage qualifiers
	TokenCentroid
	TokenSample
	TokenPatch

	// Interpolation qualifiers
	TokenFlat
	TokenSmooth
	TokenNoPerspective

	// Memory qualifiers
	TokenCoherent
	TokenVolatile
	TokenRestrict
	TokenReadOnly
	TokenWriteOnly

	// Precision
	TokenHighp
	TokenMediump
	TokenLowp
	TokenPrecision

	// Other qualifiers
	TokenLayout
	TokenInvariant
	TokenPrecise
)

var tokenNames = map[TokenKind]string{
	TokenEOF:                 "EOF",
	TokenError:               "Error",
	TokenDirective:           "Directive",
	TokenIdent:               "Ident",
	TokenTypeName:            "TypeName",
	TokenIntLiteral:          "IntLiteral",
	TokenUintLiteral:         "UintLiteral",
	TokenFloatLiteral:        "FloatLiteral",
	TokenBoolLiteral:         "BoolLiteral",
	TokenPlus:                "+",
	TokenMinus:               "-",
	TokenStar:                "*",
	TokenSlash:               "/",
	TokenPercent:             "%",
	TokenAmpersand:           "&",
	TokenPipe:                "|",
	TokenCaret:               "^",
	TokenTilde:               "~",
	TokenBang:                "!",
	TokenEqual:               "=",
	TokenLess:                "<",
	TokenGreater:             ">",
	TokenDot:                 ".",
	TokenComma:               ",",
	TokenColon:               ":",
	TokenSemicolon:           ";",
	TokenQuestion:            "?",
	TokenPlusPlus:            "++",
	TokenMinusMinus:          "--",
	TokenEqualEqual:          "==",
	TokenBangEqual:           "!=",
	TokenLessEqual:           "<=",
	TokenGreaterEqual:        ">=",
	TokenAmpAmp:              "&&",
	TokenPipePipe:            "||",
	TokenCaretCaret:          "^^",
	TokenLessLess:            "<<",
	TokenGreaterGreater:      ">>",
	TokenPlusEqual:           "+=",
	TokenMinusEqual:          "-=",
	TokenStarEqual:           "*=",
	TokenSlashEqual:          "/=",
	TokenPercentEqual:        "%=",
	TokenAmpEqual:            "&=",
	TokenPipeEqual:           "|=",
	TokenCaretEqual:          "^=",
	TokenLessLessEqual:       "<<=",
	TokenGreaterGreaterEqual: ">>=",
	TokenLeftParen:           "(",
	TokenRightParen:          ")",
	TokenLeftBrace:           "{",
	TokenRightBrace:          "}",
	TokenLeftBracket:         "[",
	TokenRightBracket:        "]",
}

// String returns the string representation of the token kind.
// Keyword kinds render as their source spelling.
func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	if kw, ok := keywordSpelling[k]; ok {
		return kw
	}
	return "Unknown"
}

// Token represents a lexical token.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
}

// Span represents a source code location span.
type Span struct {
	Start  Position
	End    Position
	Source string // Source file name or identifier
}

// Position represents a position in source code.
type Position struct {
	Line   int
	Column int
	Offset int
}

// spanOf returns a span starting at the token's position.
func spanOf(tok Token) Span {
	return Span{Start: Position{Line: tok.Line, Column: tok.Column}}
}
