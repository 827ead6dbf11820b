// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "strings"

// TranslationUnit represents one parsed GLSL program.
type TranslationUnit struct {
	Decls []Decl
	Span  Span
}

func (t *TranslationUnit) Pos() Span { return t.Span }

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Span
}

// Decl is the interface for external (top-level) declarations and for
// declarations appearing as statements.
type Decl interface {
	Node
	declNode()
}

// Stmt is the interface for statements.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the interface for expressions.
type Expr interface {
	Node
	exprNode()
}

// Qualifier is the interface for the entries of a type qualifier list.
type Qualifier interface {
	Node
	qualifierNode()
}

// Directives

// Profile is the profile named by a #version directive.
type Profile string

const (
	ProfileNone          Profile = ""
	ProfileCore          Profile = "core"
	ProfileCompatibility Profile = "compatibility"
	ProfileES            Profile = "es"
)

// VersionDirective represents #version N [profile].
type VersionDirective struct {
	Version int
	Profile Profile
	Span    Span
}

func (v *VersionDirective) Pos() Span { return v.Span }
func (v *VersionDirective) declNode() {}

// ExtensionDirective represents #extension name : behavior.
type ExtensionDirective struct {
	Name     string
	Behavior string
	Span     Span
}

func (e *ExtensionDirective) Pos() Span { return e.Span }
func (e *ExtensionDirective) declNode() {}

// PreprocessorDirective is any other preprocessor line. Directives are
// recorded, never evaluated.
type PreprocessorDirective struct {
	Name string // define, ifdef, pragma, ...
	Text string // everything after the name, continuations joined
	Span Span
}

func (p *PreprocessorDirective) Pos() Span { return p.Span }
func (p *PreprocessorDirective) declNode() {}

// Declarations

// FunctionDefinition is a function prototype with a body.
type FunctionDefinition struct {
	Prototype *FunctionPrototype
	Body      *CompoundStmt
	Span      Span
}

func (f *FunctionDefinition) Pos() Span { return f.Span }
func (f *FunctionDefinition) declNode() {}

// FunctionPrototype is a function declaration without a body.
type FunctionPrototype struct {
	ReturnType *FullySpecifiedType
	Name       string
	Params     []*Parameter
	Span       Span
}

func (f *FunctionPrototype) Pos() Span { return f.Span }
func (f *FunctionPrototype) declNode() {}

// Parameter is a function parameter. Name is empty for unnamed parameters.
type Parameter struct {
	Qualifier *TypeQualifier
	Type      *TypeSpecifier
	Name      string
	Array     *ArraySpecifier
	Span      Span
}

func (p *Parameter) Pos() Span { return p.Span }

// InitDeclaratorList is a declaration of zero or more variables sharing one
// fully specified type:
//
//	uniform vec4 a, b[2] = ...;
//	^^^^^^^^^^^^^^ ^^^^^^^^^^^
//	     Head          Tail
type InitDeclaratorList struct {
	Head *SingleDeclaration
	Tail []*SingleDeclarationNoType
	Span Span
}

func (d *InitDeclaratorList) Pos() Span { return d.Span }
func (d *InitDeclaratorList) declNode() {}

// SingleDeclaration is the first declarator of a declaration. Name is empty
// for bare type declarations such as "struct S { ... };".
type SingleDeclaration struct {
	Type  *FullySpecifiedType
	Name  string
	Array *ArraySpecifier
	Init  Expr
	Span  Span
}

func (d *SingleDeclaration) Pos() Span { return d.Span }

// SingleDeclarationNoType is a subsequent declarator in a declaration list.
type SingleDeclarationNoType struct {
	Name  string
	Array *ArraySpecifier
	Init  Expr
	Span  Span
}

func (d *SingleDeclarationNoType) Pos() Span { return d.Span }

// PrecisionDecl represents "precision highp float;".
type PrecisionDecl struct {
	Precision Precision
	Type      *TypeSpecifier
	Span      Span
}

func (p *PrecisionDecl) Pos() Span { return p.Span }
func (p *PrecisionDecl) declNode() {}

// BlockDecl represents an interface block:
//
//	layout(std140) uniform Name { vec4 a; } instance[2];
//
// Instance is nil when the block declares no instance name.
type BlockDecl struct {
	Qualifier *TypeQualifier
	Name      string
	Fields    []*StructField
	Instance  *ArrayedIdentifier
	Span      Span
}

func (b *BlockDecl) Pos() Span { return b.Span }
func (b *BlockDecl) declNode() {}

// QualifierDecl is a declaration consisting of qualifiers only, optionally
// applied to existing names:
//
//	layout(local_size_x = 64) in;
//	invariant gl_Position;
type QualifierDecl struct {
	Qualifier   *TypeQualifier
	Identifiers []string
	Span        Span
}

func (q *QualifierDecl) Pos() Span { return q.Span }
func (q *QualifierDecl) declNode() {}

// Types

// FullySpecifiedType is a type specifier with its optional qualifiers.
type FullySpecifiedType struct {
	Qualifier *TypeQualifier
	Type      *TypeSpecifier
	Span      Span
}

func (f *FullySpecifiedType) Pos() Span { return f.Span }

// TypeSpecifier names a type. Exactly one of Name or Struct is set.
type TypeSpecifier struct {
	Name   string
	Struct *StructSpecifier
	Array  *ArraySpecifier
	Span   Span
}

func (t *TypeSpecifier) Pos() Span { return t.Span }

// TypeName returns the textual form of the type without any array suffix.
func (t *TypeSpecifier) TypeName() string {
	if t.Struct == nil {
		return t.Name
	}
	if t.Struct.Name == "" {
		return "struct"
	}
	return "struct " + t.Struct.Name
}

// String returns the type in source form, including its array suffix.
func (t *TypeSpecifier) String() string {
	return t.TypeName() + t.Array.String()
}

// StructSpecifier is an inline struct type. Name is empty for anonymous
// structs.
type StructSpecifier struct {
	Name   string
	Fields []*StructField
	Span   Span
}

func (s *StructSpecifier) Pos() Span { return s.Span }

// StructField is one member declaration of a struct or interface block.
type StructField struct {
	Qualifier   *TypeQualifier
	Type        *TypeSpecifier
	Identifiers []*ArrayedIdentifier
	Span        Span
}

func (f *StructField) Pos() Span { return f.Span }

// ArrayedIdentifier is a name with an optional array specifier.
type ArrayedIdentifier struct {
	Name  string
	Array *ArraySpecifier
	Span  Span
}

func (a *ArrayedIdentifier) Pos() Span { return a.Span }

// ArraySpecifier holds one or more bracketed dimensions.
type ArraySpecifier struct {
	Dimensions []*Dimension
	Span       Span
}

func (a *ArraySpecifier) Pos() Span { return a.Span }

// String renders the specifier in source form, e.g. "[4][]".
func (a *ArraySpecifier) String() string {
	if a == nil {
		return ""
	}
	var sb strings.Builder
	for _, d := range a.Dimensions {
		sb.WriteByte('[')
		if lit, ok := d.Size.(*Literal); ok {
			sb.WriteString(lit.Value)
		} else if ident, ok := d.Size.(*Ident); ok {
			sb.WriteString(ident.Name)
		} else if d.Size != nil {
			sb.WriteString("...")
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

// Dimension is one bracketed array dimension. Size is nil when unsized.
type Dimension struct {
	Size Expr
	Span Span
}

func (d *Dimension) Pos() Span { return d.Span }

// Qualifiers

// TypeQualifier is the ordered list of qualifiers on a declaration.
type TypeQualifier struct {
	Qualifiers []Qualifier
	Span       Span
}

func (t *TypeQualifier) Pos() Span { return t.Span }

// Storage identifies a storage qualifier keyword.
type Storage uint8

const (
	StorageNone Storage = iota
	StorageConst
	StorageIn
	StorageOut
	StorageInOut
	StorageAttribute
	StorageVarying
	StorageUniform
	StorageBuffer
	StorageShared
	StorageSubroutine
)

var storageNames = [...]string{
	StorageNone:       "",
	StorageConst:      "const",
	StorageIn:         "in",
	StorageOut:        "out",
	StorageInOut:      "inout",
	StorageAttribute:  "attribute",
	StorageVarying:    "varying",
	StorageUniform:    "uniform",
	StorageBuffer:     "buffer",
	StorageShared:     "shared",
	StorageSubroutine: "subroutine",
}

// String returns the qualifier keyword, or "" for StorageNone.
func (s Storage) String() string {
	if int(s) < len(storageNames) {
		return storageNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Storage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StorageQualifier is a storage qualifier such as in, out or uniform.
// TypeNames holds the type list of "subroutine(A, B)".
type StorageQualifier struct {
	Storage   Storage
	TypeNames []string
	Span      Span
}

func (s *StorageQualifier) Pos() Span      { return s.Span }
func (s *StorageQualifier) qualifierNode() {}

// AuxiliaryQualifier is centroid, sample or patch.
type AuxiliaryQualifier struct {
	Keyword string
	Span    Span
}

func (a *AuxiliaryQualifier) Pos() Span      { return a.Span }
func (a *AuxiliaryQualifier) qualifierNode() {}

// MemoryQualifier is coherent, volatile, restrict, readonly or writeonly.
type MemoryQualifier struct {
	Keyword string
	Span    Span
}

func (m *MemoryQualifier) Pos() Span      { return m.Span }
func (m *MemoryQualifier) qualifierNode() {}

// Interpolation identifies an interpolation qualifier.
type Interpolation string

const (
	InterpolationNone          Interpolation = ""
	InterpolationSmooth        Interpolation = "smooth"
	InterpolationFlat          Interpolation = "flat"
	InterpolationNoPerspective Interpolation = "noperspective"
)

// InterpolationQualifier is smooth, flat or noperspective.
type InterpolationQualifier struct {
	Interpolation Interpolation
	Span          Span
}

func (i *InterpolationQualifier) Pos() Span      { return i.Span }
func (i *InterpolationQualifier) qualifierNode() {}

// Precision identifies a precision qualifier.
type Precision string

const (
	PrecisionHigh   Precision = "highp"
	PrecisionMedium Precision = "mediump"
	PrecisionLow    Precision = "lowp"
)

// PrecisionQualifier is highp, mediump or lowp.
type PrecisionQualifier struct {
	Precision Precision
	Span      Span
}

func (p *PrecisionQualifier) Pos() Span      { return p.Span }
func (p *PrecisionQualifier) qualifierNode() {}

// LayoutQualifier is layout(id [= value], ...).
type LayoutQualifier struct {
	Params []*LayoutParam
	Span   Span
}

func (l *LayoutQualifier) Pos() Span      { return l.Span }
func (l *LayoutQualifier) qualifierNode() {}

// LayoutParam is one layout entry. Value is nil for bare identifiers such
// as std140.
type LayoutParam struct {
	Name  string
	Value Expr
	Span  Span
}

func (l *LayoutParam) Pos() Span { return l.Span }

// InvariantQualifier is the invariant keyword.
type InvariantQualifier struct {
	Span Span
}

func (i *InvariantQualifier) Pos() Span      { return i.Span }
func (i *InvariantQualifier) qualifierNode() {}

// PreciseQualifier is the precise keyword.
type PreciseQualifier struct {
	Span Span
}

func (p *PreciseQualifier) Pos() Span      { return p.Span }
func (p *PreciseQualifier) qualifierNode() {}

// Statements

// CompoundStmt is a braced statement list.
type CompoundStmt struct {
	Stmts []Stmt
	Span  Span
}

func (c *CompoundStmt) Pos() Span { return c.Span }
func (c *CompoundStmt) stmtNode() {}

// DeclStmt is a declaration used as a statement.
type DeclStmt struct {
	Decl Decl
	Span Span
}

func (d *DeclStmt) Pos() Span { return d.Span }
func (d *DeclStmt) stmtNode() {}

// ExprStmt is an expression statement. Expr is nil for ";".
type ExprStmt struct {
	Expr Expr
	Span Span
}

func (e *ExprStmt) Pos() Span { return e.Span }
func (e *ExprStmt) stmtNode() {}

// IfStmt represents if/else. Else is nil without an else clause.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
	Span      Span
}

func (i *IfStmt) Pos() Span { return i.Span }
func (i *IfStmt) stmtNode() {}

// SwitchStmt represents a switch statement; case labels appear in Body.
type SwitchStmt struct {
	Selector Expr
	Body     []Stmt
	Span     Span
}

func (s *SwitchStmt) Pos() Span { return s.Span }
func (s *SwitchStmt) stmtNode() {}

// CaseLabel is "case expr:" or, with a nil Value, "default:".
type CaseLabel struct {
	Value Expr
	Span  Span
}

func (c *CaseLabel) Pos() Span { return c.Span }
func (c *CaseLabel) stmtNode() {}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
	Span      Span
}

func (w *WhileStmt) Pos() Span { return w.Span }
func (w *WhileStmt) stmtNode() {}

// DoStmt represents do { } while (cond);.
type DoStmt struct {
	Body      Stmt
	Condition Expr
	Span      Span
}

func (d *DoStmt) Pos() Span { return d.Span }
func (d *DoStmt) stmtNode() {}

// ForStmt represents a for loop. Init is a DeclStmt or ExprStmt.
type ForStmt struct {
	Init      Stmt
	Condition Expr
	Update    Expr
	Body      Stmt
	Span      Span
}

func (f *ForStmt) Pos() Span { return f.Span }
func (f *ForStmt) stmtNode() {}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	Value Expr
	Span  Span
}

func (r *ReturnStmt) Pos() Span { return r.Span }
func (r *ReturnStmt) stmtNode() {}

// BreakStmt represents a break statement.
type BreakStmt struct {
	Span Span
}

func (b *BreakStmt) Pos() Span { return b.Span }
func (b *BreakStmt) stmtNode() {}

// ContinueStmt represents a continue statement.
type ContinueStmt struct {
	Span Span
}

func (c *ContinueStmt) Pos() Span { return c.Span }
func (c *ContinueStmt) stmtNode() {}

// DiscardStmt represents a discard statement.
type DiscardStmt struct {
	Span Span
}

func (d *DiscardStmt) Pos() Span { return d.Span }
func (d *DiscardStmt) stmtNode() {}

// Expressions

// Ident represents an identifier.
type Ident struct {
	Name string
	Span Span
}

func (i *Ident) Pos() Span { return i.Span }
func (i *Ident) exprNode() {}

// Literal represents a literal value.
type Literal struct {
	Kind  TokenKind // IntLiteral, UintLiteral, FloatLiteral, BoolLiteral
	Value string
	Span  Span
}

func (l *Literal) Pos() Span { return l.Span }
func (l *Literal) exprNode() {}

// BinaryExpr represents a binary expression, including the comma operator.
type BinaryExpr struct {
	Left  Expr
	Op    TokenKind
	Right Expr
	Span  Span
}

func (b *BinaryExpr) Pos() Span { return b.Span }
func (b *BinaryExpr) exprNode() {}

// UnaryExpr represents a prefix or postfix unary expression.
type UnaryExpr struct {
	Op      TokenKind
	Operand Expr
	Postfix bool
	Span    Span
}

func (u *UnaryExpr) Pos() Span { return u.Span }
func (u *UnaryExpr) exprNode() {}

// AssignExpr represents an assignment.
type AssignExpr struct {
	Left  Expr
	Op    TokenKind // =, +=, -=, etc.
	Right Expr
	Span  Span
}

func (a *AssignExpr) Pos() Span { return a.Span }
func (a *AssignExpr) exprNode() {}

// TernaryExpr represents cond ? a : b.
type TernaryExpr struct {
	Condition Expr
	Then      Expr
	Else      Expr
	Span      Span
}

func (t *TernaryExpr) Pos() Span { return t.Span }
func (t *TernaryExpr) exprNode() {}

// CallExpr represents a function call or constructor. Func is an *Ident or
// a *TypeExpr.
type CallExpr struct {
	Func Expr
	Args []Expr
	Span Span
}

func (c *CallExpr) Pos() Span { return c.Span }
func (c *CallExpr) exprNode() {}

// TypeExpr is a built-in type used as a constructor callee.
type TypeExpr struct {
	Type *TypeSpecifier
	Span Span
}

func (t *TypeExpr) Pos() Span { return t.Span }
func (t *TypeExpr) exprNode() {}

// IndexExpr represents an index expression.
type IndexExpr struct {
	Expr  Expr
	Index Expr
	Span  Span
}

func (i *IndexExpr) Pos() Span { return i.Span }
func (i *IndexExpr) exprNode() {}

// MemberExpr represents member access or swizzle.
type MemberExpr struct {
	Expr   Expr
	Member string
	Span   Span
}

func (m *MemberExpr) Pos() Span { return m.Span }
func (m *MemberExpr) exprNode() {}

// InitializerList represents a braced initializer { a, b, ... }.
type InitializerList struct {
	Items []Expr
	Span  Span
}

func (i *InitializerList) Pos() Span { return i.Span }
func (i *InitializerList) exprNode() {}
