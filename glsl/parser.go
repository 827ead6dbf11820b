// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parser parses GLSL tokens into an AST.
type Parser struct {
	tokens  []Token
	current int
	errors  SourceErrors

	// depth counts the nested expressions, statements, initializers and
	// struct specifiers being parsed.
	depth int
}

// maxNesting bounds depth so hostile input fails with an error instead of
// exhausting the goroutine stack.
const maxNesting = 1024

// NewParser creates a new parser for the given tokens.
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:  tokens,
		current: 0,
	}
}

// Parse tokenizes and parses source into a translation unit. Any failure is
// returned as SourceErrors carrying the source text for context display.
func Parse(source string) (*TranslationUnit, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		var se *SourceError
		if errors.As(err, &se) {
			return nil, SourceErrors{se}
		}
		return nil, err
	}

	unit, err := NewParser(tokens).Parse()
	if err != nil {
		var errs SourceErrors
		if errors.As(err, &errs) {
			return nil, errs.withSource(source)
		}
		return nil, err
	}
	return unit, nil
}

// Parse parses the tokens and returns the translation unit. The parser
// recovers after each failed external declaration, so the returned error
// (of type SourceErrors) lists every problem found.
func (p *Parser) Parse() (*TranslationUnit, error) {
	unit := &TranslationUnit{}
	if len(p.tokens) > 0 {
		unit.Span = spanOf(p.tokens[0])
	}

	for !p.isAtEnd() {
		start := p.current
		decl, err := p.externalDecl()
		if err != nil {
			p.errors.Add(err)
			p.synchronize(start)
			continue
		}
		if decl != nil {
			unit.Decls = append(unit.Decls, decl)
		}
	}

	if p.errors.HasErrors() {
		return unit, p.errors
	}
	return unit, nil
}

// externalDecl parses one top-level declaration or directive.
func (p *Parser) externalDecl() (Decl, *SourceError) {
	switch p.peek().Kind {
	case TokenDirective:
		return p.directive()
	case TokenSemicolon:
		p.advance()
		return nil, nil
	default:
		return p.declaration(true)
	}
}

// directive parses a preprocessor line. Only #version and #extension are
// interpreted; everything else is kept verbatim.
func (p *Parser) directive() (Decl, *SourceError) {
	tok := p.advance()
	text := directiveText(tok.Lexeme)
	span := spanOf(tok)

	name, rest, _ := strings.Cut(text, " ")
	rest = strings.TrimSpace(rest)
	switch name {
	case "version":
		fields := strings.Fields(rest)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, p.errorf(tok, "malformed #version directive")
		}
		version, err := strconv.Atoi(fields[0])
		if err != nil || version <= 0 {
			return nil, p.errorf(tok, "invalid #version number %q", fields[0])
		}
		d := &VersionDirective{Version: version, Span: span}
		if len(fields) == 2 {
			switch profile := Profile(strings.ToLower(fields[1])); profile {
			case ProfileCore, ProfileCompatibility, ProfileES:
				d.Profile = profile
			default:
				return nil, p.errorf(tok, "unknown #version profile %q", fields[1])
			}
		}
		return d, nil

	case "extension":
		ext, behavior, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, p.errorf(tok, "malformed #extension directive")
		}
		return &ExtensionDirective{
			Name:     strings.TrimSpace(ext),
			Behavior: strings.TrimSpace(behavior),
			Span:     span,
		}, nil

	default:
		return &PreprocessorDirective{Name: name, Text: rest, Span: span}, nil
	}
}

// directiveText strips the leading '#', comments and line continuations
// from a directive lexeme and collapses whitespace.
func directiveText(lexeme string) string {
	text := strings.TrimPrefix(lexeme, "#")
	text = strings.ReplaceAll(text, "\\\r\n", " ")
	text = strings.ReplaceAll(text, "\\\n", " ")
	for {
		open := strings.Index(text, "/*")
		if open < 0 {
			break
		}
		end := strings.Index(text[open+2:], "*/")
		if end < 0 {
			text = text[:open]
			break
		}
		text = text[:open] + " " + text[open+2+end+2:]
	}
	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}
	return strings.Join(strings.Fields(text), " ")
}

// declaration parses any declaration: variables, blocks, functions,
// precision statements and qualifier-only declarations. Function
// definitions are accepted only at global scope.
func (p *Parser) declaration(global bool) (Decl, *SourceError) {
	start := p.peek()
	if p.check(TokenPrecision) {
		return p.precisionDecl()
	}

	qual, err := p.typeQualifier()
	if err != nil {
		return nil, err
	}

	if qual != nil {
		switch next := p.peekAt(1).Kind; {
		case p.match(TokenSemicolon):
			return &QualifierDecl{Qualifier: qual, Span: spanOf(start)}, nil
		case p.check(TokenIdent) && next == TokenLeftBrace:
			return p.blockDecl(qual, start)
		case p.check(TokenIdent) && (next == TokenComma || next == TokenSemicolon):
			return p.qualifierNames(qual, start)
		}
	}

	ty, err := p.typeSpecifier()
	if err != nil {
		return nil, err
	}
	fst := &FullySpecifiedType{Qualifier: qual, Type: ty, Span: spanOf(start)}

	// Bare type declaration, e.g. "struct Light { vec3 pos; };".
	if p.match(TokenSemicolon) {
		return &InitDeclaratorList{
			Head: &SingleDeclaration{Type: fst, Span: spanOf(start)},
			Span: spanOf(start),
		}, nil
	}

	if !p.check(TokenIdent) {
		return nil, p.errorf(p.peek(), "expected identifier after type %s, got %s", ty, describe(p.peek()))
	}
	name := p.advance()

	if p.check(TokenLeftParen) {
		return p.function(fst, name, global)
	}

	head := &SingleDeclaration{Type: fst, Name: name.Lexeme, Span: spanOf(name)}
	if head.Array, err = p.optionalArraySpecifier(); err != nil {
		return nil, err
	}
	if head.Init, err = p.optionalInitializer(); err != nil {
		return nil, err
	}

	list := &InitDeclaratorList{Head: head, Span: spanOf(start)}
	for p.match(TokenComma) {
		tok := p.peek()
		if !p.check(TokenIdent) {
			return nil, p.errorf(tok, "expected identifier after ',', got %s", describe(tok))
		}
		p.advance()

		d := &SingleDeclarationNoType{Name: tok.Lexeme, Span: spanOf(tok)}
		if d.Array, err = p.optionalArraySpecifier(); err != nil {
			return nil, err
		}
		if d.Init, err = p.optionalInitializer(); err != nil {
			return nil, err
		}
		list.Tail = append(list.Tail, d)
	}

	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return list, nil
}

// function parses the remainder of a function prototype or definition
// once the return type and name have been consumed.
func (p *Parser) function(ret *FullySpecifiedType, name Token, global bool) (Decl, *SourceError) {
	p.advance() // consume (

	// "(void)" declares no parameters.
	if p.check(TokenTypeName) && p.peek().Lexeme == "void" && p.peekAt(1).Kind == TokenRightParen {
		p.advance()
	}

	params := make([]*Parameter, 0, 4)
	for !p.check(TokenRightParen) && !p.isAtEnd() {
		param, err := p.parameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return nil, err
	}

	proto := &FunctionPrototype{
		ReturnType: ret,
		Name:       name.Lexeme,
		Params:     params,
		Span:       ret.Span,
	}
	if p.match(TokenSemicolon) {
		return proto, nil
	}
	if !global {
		return nil, p.errorf(p.peek(), "function %q cannot be defined inside another function", name.Lexeme)
	}

	body, err := p.compoundStmt()
	if err != nil {
		return nil, err
	}
	return &FunctionDefinition{Prototype: proto, Body: body, Span: ret.Span}, nil
}

// parameter parses a function parameter.
func (p *Parser) parameter() (*Parameter, *SourceError) {
	start := p.peek()
	qual, err := p.typeQualifier()
	if err != nil {
		return nil, err
	}
	ty, err := p.typeSpecifier()
	if err != nil {
		return nil, err
	}

	param := &Parameter{Qualifier: qual, Type: ty, Span: spanOf(start)}
	if p.check(TokenIdent) {
		param.Name = p.advance().Lexeme
		if param.Array, err = p.optionalArraySpecifier(); err != nil {
			return nil, err
		}
	}
	return param, nil
}

// precisionDecl parses "precision highp float;".
func (p *Parser) precisionDecl() (*PrecisionDecl, *SourceError) {
	start := p.advance()

	tok := p.peek()
	switch tok.Kind {
	case TokenHighp, TokenMediump, TokenLowp:
		p.advance()
	default:
		return nil, p.errorf(tok, "expected precision qualifier, got %s", describe(tok))
	}

	ty, err := p.typeSpecifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return &PrecisionDecl{Precision: Precision(tok.Lexeme), Type: ty, Span: spanOf(start)}, nil
}

// blockDecl parses an interface block after its qualifiers.
func (p *Parser) blockDecl(qual *TypeQualifier, start Token) (*BlockDecl, *SourceError) {
	name := p.advance()
	p.advance() // consume {

	fields, err := p.structFields()
	if err != nil {
		return nil, err
	}

	block := &BlockDecl{
		Qualifier: qual,
		Name:      name.Lexeme,
		Fields:    fields,
		Span:      spanOf(start),
	}

	if p.check(TokenIdent) {
		tok := p.advance()
		array, err := p.optionalArraySpecifier()
		if err != nil {
			return nil, err
		}
		block.Instance = &ArrayedIdentifier{Name: tok.Lexeme, Array: array, Span: spanOf(tok)}
	}

	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return block, nil
}

// qualifierNames parses "invariant a, b;" after the qualifiers.
func (p *Parser) qualifierNames(qual *TypeQualifier, start Token) (*QualifierDecl, *SourceError) {
	decl := &QualifierDecl{Qualifier: qual, Span: spanOf(start)}
	for {
		if !p.check(TokenIdent) {
			return nil, p.errorf(p.peek(), "expected identifier, got %s", describe(p.peek()))
		}
		decl.Identifiers = append(decl.Identifiers, p.advance().Lexeme)
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return decl, nil
}

// Qualifiers

var storageByToken = map[TokenKind]Storage{
	TokenConst:     StorageConst,
	TokenIn:        StorageIn,
	TokenOut:       StorageOut,
	TokenInOut:     StorageInOut,
	TokenAttribute: StorageAttribute,
	TokenVarying:   StorageVarying,
	TokenUniform:   StorageUniform,
	TokenBuffer:    StorageBuffer,
	TokenShared:    StorageShared,
}

// typeQualifier parses a possibly empty qualifier list. It returns nil when
// no qualifier is present.
func (p *Parser) typeQualifier() (*TypeQualifier, *SourceError) {
	start := p.peek()
	var quals []Qualifier
	for isQualifierKeyword(p.peek().Kind) {
		q, err := p.qualifier()
		if err != nil {
			return nil, err
		}
		quals = append(quals, q)
	}
	if len(quals) == 0 {
		return nil, nil
	}
	return &TypeQualifier{Qualifiers: quals, Span: spanOf(start)}, nil
}

func (p *Parser) qualifier() (Qualifier, *SourceError) {
	tok := p.advance()
	span := spanOf(tok)

	if storage, ok := storageByToken[tok.Kind]; ok {
		return &StorageQualifier{Storage: storage, Span: span}, nil
	}

	switch tok.Kind {
	case TokenSubroutine:
		q := &StorageQualifier{Storage: StorageSubroutine, Span: span}
		if p.match(TokenLeftParen) {
			for {
				if !p.check(TokenIdent) {
					return nil, p.errorf(p.peek(), "expected subroutine type name, got %s", describe(p.peek()))
				}
				q.TypeNames = append(q.TypeNames, p.advance().Lexeme)
				if !p.match(TokenComma) {
					break
				}
			}
			if err := p.expectErr(TokenRightParen); err != nil {
				return nil, err
			}
		}
		return q, nil
	case TokenCentroid, TokenSample, TokenPatch:
		return &AuxiliaryQualifier{Keyword: tok.Lexeme, Span: span}, nil
	case TokenFlat, TokenSmooth, TokenNoPerspective:
		return &InterpolationQualifier{Interpolation: Interpolation(tok.Lexeme), Span: span}, nil
	case TokenCoherent, TokenVolatile, TokenRestrict, TokenReadOnly, TokenWriteOnly:
		return &MemoryQualifier{Keyword: tok.Lexeme, Span: span}, nil
	case TokenHighp, TokenMediump, TokenLowp:
		return &PrecisionQualifier{Precision: Precision(tok.Lexeme), Span: span}, nil
	case TokenInvariant:
		return &InvariantQualifier{Span: span}, nil
	case TokenPrecise:
		return &PreciseQualifier{Span: span}, nil
	case TokenLayout:
		return p.layoutQualifier(tok)
	}
	return nil, p.errorf(tok, "unexpected qualifier %s", describe(tok))
}

// layoutQualifier parses the parenthesized parameter list of layout(...).
func (p *Parser) layoutQualifier(start Token) (*LayoutQualifier, *SourceError) {
	if err := p.expectErr(TokenLeftParen); err != nil {
		return nil, err
	}

	q := &LayoutQualifier{Span: spanOf(start)}
	for {
		tok := p.peek()
		// Keywords such as "shared" are valid layout identifiers.
		if tok.Kind != TokenIdent && keywordSpelling[tok.Kind] == "" {
			return nil, p.errorf(tok, "expected layout identifier, got %s", describe(tok))
		}
		p.advance()

		param := &LayoutParam{Name: tok.Lexeme, Span: spanOf(tok)}
		if p.match(TokenEqual) {
			value, err := p.conditional()
			if err != nil {
				return nil, err
			}
			param.Value = value
		}
		q.Params = append(q.Params, param)

		if !p.match(TokenComma) {
			break
		}
	}

	if err := p.expectErr(TokenRightParen); err != nil {
		return nil, err
	}
	return q, nil
}

// Types

// typeSpecifier parses a type name or struct specifier with an optional
// array specifier.
func (p *Parser) typeSpecifier() (*TypeSpecifier, *SourceError) {
	tok := p.peek()
	ts := &TypeSpecifier{Span: spanOf(tok)}

	switch tok.Kind {
	case TokenTypeName, TokenIdent:
		p.advance()
		ts.Name = tok.Lexeme
	case TokenStruct:
		s, err := p.structSpecifier()
		if err != nil {
			return nil, err
		}
		ts.Struct = s
	default:
		return nil, p.errorf(tok, "expected type, got %s", describe(tok))
	}

	array, err := p.optionalArraySpecifier()
	if err != nil {
		return nil, err
	}
	ts.Array = array
	return ts, nil
}

// structSpecifier parses struct [Name] { members }.
func (p *Parser) structSpecifier() (*StructSpecifier, *SourceError) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	start := p.advance() // consume struct

	s := &StructSpecifier{Span: spanOf(start)}
	if p.check(TokenIdent) {
		s.Name = p.advance().Lexeme
	}
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return nil, err
	}

	fields, err := p.structFields()
	if err != nil {
		return nil, err
	}
	s.Fields = fields
	return s, nil
}

// structFields parses member declarations up to and including the closing
// brace.
func (p *Parser) structFields() ([]*StructField, *SourceError) {
	fields := make([]*StructField, 0, 4)
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		// Directives between members are dropped.
		if p.match(TokenDirective) {
			continue
		}
		field, err := p.structField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *Parser) structField() (*StructField, *SourceError) {
	start := p.peek()
	qual, err := p.typeQualifier()
	if err != nil {
		return nil, err
	}
	ty, err := p.typeSpecifier()
	if err != nil {
		return nil, err
	}

	field := &StructField{Qualifier: qual, Type: ty, Span: spanOf(start)}
	for {
		tok := p.peek()
		if !p.check(TokenIdent) {
			return nil, p.errorf(tok, "expected member name, got %s", describe(tok))
		}
		p.advance()

		array, err := p.optionalArraySpecifier()
		if err != nil {
			return nil, err
		}
		field.Identifiers = append(field.Identifiers, &ArrayedIdentifier{
			Name:  tok.Lexeme,
			Array: array,
			Span:  spanOf(tok),
		})

		if !p.match(TokenComma) {
			break
		}
	}

	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return field, nil
}

// optionalArraySpecifier parses zero or more [size] dimensions. It returns
// nil when no bracket follows.
func (p *Parser) optionalArraySpecifier() (*ArraySpecifier, *SourceError) {
	if !p.check(TokenLeftBracket) {
		return nil, nil
	}

	spec := &ArraySpecifier{Span: spanOf(p.peek())}
	for p.check(TokenLeftBracket) {
		dim := &Dimension{Span: spanOf(p.advance())}
		if !p.check(TokenRightBracket) {
			size, err := p.conditional()
			if err != nil {
				return nil, err
			}
			dim.Size = size
		}
		if err := p.expectErr(TokenRightBracket); err != nil {
			return nil, err
		}
		spec.Dimensions = append(spec.Dimensions, dim)
	}
	return spec, nil
}

func (p *Parser) optionalInitializer() (Expr, *SourceError) {
	if !p.match(TokenEqual) {
		return nil, nil
	}
	return p.initializer()
}

func (p *Parser) initializer() (Expr, *SourceError) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if !p.check(TokenLeftBrace) {
		return p.assignment()
	}

	list := &InitializerList{Span: spanOf(p.advance())}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		item, err := p.initializer()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	return list, nil
}

// Statements

func (p *Parser) compoundStmt() (*CompoundStmt, *SourceError) {
	start := p.peek()
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return nil, err
	}

	block := &CompoundStmt{Span: spanOf(start)}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}

	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) statement() (Stmt, *SourceError) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	tok := p.peek()
	span := spanOf(tok)

	switch tok.Kind {
	case TokenLeftBrace:
		return p.compoundStmt()
	case TokenDirective:
		d, err := p.directive()
		if err != nil {
			return nil, err
		}
		return &DeclStmt{Decl: d, Span: span}, nil
	case TokenIf:
		return p.ifStmt()
	case TokenSwitch:
		return p.switchStmt()
	case TokenCase:
		p.advance()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expectErr(TokenColon); err != nil {
			return nil, err
		}
		return &CaseLabel{Value: value, Span: span}, nil
	case TokenDefault:
		p.advance()
		if err := p.expectErr(TokenColon); err != nil {
			return nil, err
		}
		return &CaseLabel{Span: span}, nil
	case TokenWhile:
		return p.whileStmt()
	case TokenDo:
		return p.doStmt()
	case TokenFor:
		return p.forStmt()
	case TokenReturn:
		p.advance()
		ret := &ReturnStmt{Span: span}
		if !p.check(TokenSemicolon) {
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			ret.Value = value
		}
		if err := p.expectErr(TokenSemicolon); err != nil {
			return nil, err
		}
		return ret, nil
	case TokenBreak, TokenContinue, TokenDiscard:
		p.advance()
		if err := p.expectErr(TokenSemicolon); err != nil {
			return nil, err
		}
		switch tok.Kind {
		case TokenBreak:
			return &BreakStmt{Span: span}, nil
		case TokenContinue:
			return &ContinueStmt{Span: span}, nil
		default:
			return &DiscardStmt{Span: span}, nil
		}
	case TokenSemicolon:
		p.advance()
		return &ExprStmt{Span: span}, nil
	}

	if p.isDeclarationStart() {
		d, err := p.declaration(false)
		if err != nil {
			return nil, err
		}
		return &DeclStmt{Decl: d, Span: span}, nil
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr, Span: span}, nil
}

// isDeclarationStart decides whether the statement at the cursor is a
// declaration rather than an expression.
func (p *Parser) isDeclarationStart() bool {
	tok := p.peek()
	switch {
	case isQualifierKeyword(tok.Kind), tok.Kind == TokenStruct, tok.Kind == TokenPrecision:
		return true
	case tok.Kind == TokenTypeName:
		switch p.peekAt(1).Kind {
		case TokenLeftParen:
			return false // constructor call
		case TokenLeftBracket:
			return p.identAfterBrackets(1)
		}
		return true
	case tok.Kind == TokenIdent:
		switch p.peekAt(1).Kind {
		case TokenIdent:
			return true
		case TokenLeftBracket:
			return p.identAfterBrackets(1)
		}
	}
	return false
}

// identAfterBrackets reports whether the bracket groups starting offset
// tokens ahead are followed by an identifier, as in "Light[2] lights;".
func (p *Parser) identAfterBrackets(offset int) bool {
	i := p.current + offset
	for i < len(p.tokens) && p.tokens[i].Kind == TokenLeftBracket {
		depth := 0
		for ; i < len(p.tokens); i++ {
			switch p.tokens[i].Kind {
			case TokenLeftBracket:
				depth++
			case TokenRightBracket:
				depth--
			case TokenEOF:
				return false
			}
			if depth == 0 {
				break
			}
		}
		i++
	}
	return i < len(p.tokens) && p.tokens[i].Kind == TokenIdent
}

func (p *Parser) ifStmt() (*IfStmt, *SourceError) {
	start := p.advance()
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Condition: cond, Then: then, Span: spanOf(start)}
	if p.match(TokenElse) {
		els, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	return stmt, nil
}

func (p *Parser) switchStmt() (*SwitchStmt, *SourceError) {
	start := p.advance()
	selector, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return nil, err
	}

	stmt := &SwitchStmt{Selector: selector, Span: spanOf(start)}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmt.Body = append(stmt.Body, s)
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) whileStmt() (*WhileStmt, *SourceError) {
	start := p.advance()
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body, Span: spanOf(start)}, nil
}

func (p *Parser) doStmt() (*DoStmt, *SourceError) {
	start := p.advance()
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenWhile); err != nil {
		return nil, err
	}
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return &DoStmt{Body: body, Condition: cond, Span: spanOf(start)}, nil
}

func (p *Parser) forStmt() (*ForStmt, *SourceError) {
	start := p.advance()
	if err := p.expectErr(TokenLeftParen); err != nil {
		return nil, err
	}

	stmt := &ForStmt{Span: spanOf(start)}
	initTok := p.peek()
	switch {
	case p.match(TokenSemicolon):
		stmt.Init = &ExprStmt{Span: spanOf(initTok)}
	case p.isDeclarationStart():
		d, err := p.declaration(false)
		if err != nil {
			return nil, err
		}
		stmt.Init = &DeclStmt{Decl: d, Span: spanOf(initTok)}
	default:
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expectErr(TokenSemicolon); err != nil {
			return nil, err
		}
		stmt.Init = &ExprStmt{Expr: e, Span: spanOf(initTok)}
	}

	if !p.check(TokenSemicolon) {
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Condition = cond
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}

	if !p.check(TokenRightParen) {
		update, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Update = update
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parenExpr() (Expr, *SourceError) {
	if err := p.expectErr(TokenLeftParen); err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return nil, err
	}
	return expr, nil
}

// Expressions

// expression parses a comma expression.
func (p *Parser) expression() (Expr, *SourceError) {
	left, err := p.assignment()
	if err != nil {
		return nil, err
	}
	for p.match(TokenComma) {
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: TokenComma, Right: right, Span: left.Pos()}
	}
	return left, nil
}

// assignment parses right-associative assignment expressions.
func (p *Parser) assignment() (Expr, *SourceError) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	left, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if p.isAssignOp(p.peek().Kind) {
		op := p.advance()
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Left: left, Op: op.Kind, Right: right, Span: left.Pos()}, nil
	}
	return left, nil
}

// conditional parses cond ? a : b.
func (p *Parser) conditional() (Expr, *SourceError) {
	cond, err := p.binary(0)
	if err != nil {
		return nil, err
	}
	if !p.match(TokenQuestion) {
		return cond, nil
	}

	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenColon); err != nil {
		return nil, err
	}
	els, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &TernaryExpr{Condition: cond, Then: then, Else: els, Span: cond.Pos()}, nil
}

// binaryLevels lists binary operators from lowest to highest precedence.
var binaryLevels = [][]TokenKind{
	{TokenPipePipe},
	{TokenCaretCaret},
	{TokenAmpAmp},
	{TokenPipe},
	{TokenCaret},
	{TokenAmpersand},
	{TokenEqualEqual, TokenBangEqual},
	{TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual},
	{TokenLessLess, TokenGreaterGreater},
	{TokenPlus, TokenMinus},
	{TokenStar, TokenSlash, TokenPercent},
}

// binary parses left-associative binary expressions at the given level.
func (p *Parser) binary(level int) (Expr, *SourceError) {
	if level == len(binaryLevels) {
		return p.unary()
	}

	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.checkAny(binaryLevels[level]...) {
		op := p.advance()
		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op.Kind, Right: right, Span: left.Pos()}
	}
	return left, nil
}

// unary parses prefix unary expressions.
func (p *Parser) unary() (Expr, *SourceError) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if p.checkAny(TokenPlus, TokenMinus, TokenBang, TokenTilde, TokenPlusPlus, TokenMinusMinus) {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op.Kind, Operand: operand, Span: spanOf(op)}, nil
	}
	return p.postfix()
}

// postfix parses calls, indexing, member access and postfix ++/--.
func (p *Parser) postfix() (Expr, *SourceError) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(TokenLeftParen):
			call := &CallExpr{Func: expr, Span: expr.Pos()}
			if p.check(TokenTypeName) && p.peek().Lexeme == "void" && p.peekAt(1).Kind == TokenRightParen {
				p.advance()
			}
			for !p.check(TokenRightParen) && !p.isAtEnd() {
				arg, err := p.assignment()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if !p.match(TokenComma) {
					break
				}
			}
			if err := p.expectErr(TokenRightParen); err != nil {
				return nil, err
			}
			expr = call

		case p.match(TokenLeftBracket):
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expectErr(TokenRightBracket); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Expr: expr, Index: index, Span: expr.Pos()}

		case p.match(TokenDot):
			if !p.check(TokenIdent) {
				return nil, p.errorf(p.peek(), "expected member name, got %s", describe(p.peek()))
			}
			member := p.advance()
			expr = &MemberExpr{Expr: expr, Member: member.Lexeme, Span: expr.Pos()}

		case p.checkAny(TokenPlusPlus, TokenMinusMinus):
			op := p.advance()
			expr = &UnaryExpr{Op: op.Kind, Operand: expr, Postfix: true, Span: expr.Pos()}

		default:
			return expr, nil
		}
	}
}

// primary parses literals, identifiers, parenthesized expressions and
// constructor type names.
func (p *Parser) primary() (Expr, *SourceError) {
	tok := p.peek()

	switch tok.Kind {
	case TokenIntLiteral, TokenUintLiteral, TokenFloatLiteral, TokenBoolLiteral:
		p.advance()
		return &Literal{Kind: tok.Kind, Value: tok.Lexeme, Span: spanOf(tok)}, nil

	case TokenIdent:
		p.advance()
		return &Ident{Name: tok.Lexeme, Span: spanOf(tok)}, nil

	case TokenLeftParen:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expectErr(TokenRightParen); err != nil {
			return nil, err
		}
		return expr, nil

	case TokenTypeName:
		ts, err := p.typeSpecifier()
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Type: ts, Span: spanOf(tok)}, nil
	}

	return nil, p.errorf(tok, "unexpected %s in expression", describe(tok))
}

// Helper methods

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

// peekAt returns the token offset positions ahead, clamped to EOF.
func (p *Parser) peekAt(offset int) Token {
	i := p.current + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *Parser) check(kind TokenKind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) checkAny(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectErr(kind TokenKind) *SourceError {
	if p.check(kind) {
		p.advance()
		return nil
	}
	return p.errorf(p.peek(), "expected '%s', got %s", kind, describe(p.peek()))
}

// enter records one more level of nesting. A successful enter must be
// paired with a deferred leave.
func (p *Parser) enter() *SourceError {
	if p.depth >= maxNesting {
		return p.errorf(p.peek(), "nesting too deep (more than %d levels)", maxNesting)
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) *SourceError {
	return &SourceError{
		Stage:   StageParse,
		Message: fmt.Sprintf(format, args...),
		Span:    spanOf(tok),
	}
}

// synchronize skips the failed declaration that began at token index
// start: it resumes after the first ';' at brace depth zero or after the
// '}' that closes the outermost brace.
func (p *Parser) synchronize(start int) {
	failedAt := p.current
	p.current = start
	depth := 0
	for !p.isAtEnd() {
		tok := p.advance()
		switch tok.Kind {
		case TokenLeftBrace:
			depth++
		case TokenRightBrace:
			depth--
			if depth <= 0 && p.current > failedAt {
				return
			}
		case TokenSemicolon:
			if depth <= 0 && p.current > failedAt {
				return
			}
		case TokenDirective:
			if depth <= 0 && p.current > failedAt {
				p.current--
				return
			}
		}
	}
}

func (p *Parser) isAssignOp(kind TokenKind) bool {
	switch kind {
	case TokenEqual, TokenPlusEqual, TokenMinusEqual, TokenStarEqual,
		TokenSlashEqual, TokenPercentEqual, TokenAmpEqual, TokenPipeEqual,
		TokenCaretEqual, TokenLessLessEqual, TokenGreaterGreaterEqual:
		return true
	}
	return false
}

// describe renders a token for diagnostics.
func describe(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}
