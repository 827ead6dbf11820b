// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "reflect"

// Inspect traverses an AST in depth-first order. It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a call
// of f(nil).
func Inspect(node Node, f func(Node) bool) {
	if !f(node) {
		return
	}
	walkChildren(node, f)
	f(nil)
}

// inspect visits an optional child. Typed nil pointers stored in an
// interface are skipped.
func inspect[N interface {
	Node
	comparable
}](node N, f func(Node) bool) {
	var zero N
	if node == zero {
		return
	}
	Inspect(node, f)
}

func inspectList[N interface {
	Node
	comparable
}](nodes []N, f func(Node) bool) {
	for _, n := range nodes {
		inspect(n, f)
	}
}

// inspectExpr and inspectStmt visit interface-typed children, which may be
// nil or hold a nil pointer.
func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil && !isNilNode(e) {
		Inspect(e, f)
	}
}

func inspectStmt(s Stmt, f func(Node) bool) {
	if s != nil && !isNilNode(s) {
		Inspect(s, f)
	}
}

func walkChildren(node Node, f func(Node) bool) {
	switch n := node.(type) {
	case *TranslationUnit:
		for _, d := range n.Decls {
			if d != nil && !isNilNode(d) {
				Inspect(d, f)
			}
		}

	// Declarations
	case *FunctionDefinition:
		inspect(n.Prototype, f)
		inspect(n.Body, f)
	case *FunctionPrototype:
		inspect(n.ReturnType, f)
		inspectList(n.Params, f)
	case *Parameter:
		inspect(n.Qualifier, f)
		inspect(n.Type, f)
		inspect(n.Array, f)
	case *InitDeclaratorList:
		inspect(n.Head, f)
		inspectList(n.Tail, f)
	case *SingleDeclaration:
		inspect(n.Type, f)
		inspect(n.Array, f)
		inspectExpr(n.Init, f)
	case *SingleDeclarationNoType:
		inspect(n.Array, f)
		inspectExpr(n.Init, f)
	case *PrecisionDecl:
		inspect(n.Type, f)
	case *BlockDecl:
		inspect(n.Qualifier, f)
		inspectList(n.Fields, f)
		inspect(n.Instance, f)
	case *QualifierDecl:
		inspect(n.Qualifier, f)
	case *VersionDirective, *ExtensionDirective, *PreprocessorDirective:
		// leaves

	// Types
	case *FullySpecifiedType:
		inspect(n.Qualifier, f)
		inspect(n.Type, f)
	case *TypeSpecifier:
		inspect(n.Struct, f)
		inspect(n.Array, f)
	case *StructSpecifier:
		inspectList(n.Fields, f)
	case *StructField:
		inspect(n.Qualifier, f)
		inspect(n.Type, f)
		inspectList(n.Identifiers, f)
	case *ArrayedIdentifier:
		inspect(n.Array, f)
	case *ArraySpecifier:
		inspectList(n.Dimensions, f)
	case *Dimension:
		inspectExpr(n.Size, f)

	// Qualifiers
	case *TypeQualifier:
		for _, q := range n.Qualifiers {
			if q != nil && !isNilNode(q) {
				Inspect(q, f)
			}
		}
	case *LayoutQualifier:
		inspectList(n.Params, f)
	case *LayoutParam:
		inspectExpr(n.Value, f)
	case *StorageQualifier, *AuxiliaryQualifier, *MemoryQualifier,
		*InterpolationQualifier, *PrecisionQualifier,
		*InvariantQualifier, *PreciseQualifier:
		// leaves

	// Statements
	case *CompoundStmt:
		for _, s := range n.Stmts {
			inspectStmt(s, f)
		}
	case *DeclStmt:
		if n.Decl != nil && !isNilNode(n.Decl) {
			Inspect(n.Decl, f)
		}
	case *ExprStmt:
		inspectExpr(n.Expr, f)
	case *IfStmt:
		inspectExpr(n.Condition, f)
		inspectStmt(n.Then, f)
		inspectStmt(n.Else, f)
	case *SwitchStmt:
		inspectExpr(n.Selector, f)
		for _, s := range n.Body {
			inspectStmt(s, f)
		}
	case *CaseLabel:
		inspectExpr(n.Value, f)
	case *WhileStmt:
		inspectExpr(n.Condition, f)
		inspectStmt(n.Body, f)
	case *DoStmt:
		inspectStmt(n.Body, f)
		inspectExpr(n.Condition, f)
	case *ForStmt:
		inspectStmt(n.Init, f)
		inspectExpr(n.Condition, f)
		inspectExpr(n.Update, f)
		inspectStmt(n.Body, f)
	case *ReturnStmt:
		inspectExpr(n.Value, f)
	case *BreakStmt, *ContinueStmt, *DiscardStmt:
		// leaves

	// Expressions
	case *BinaryExpr:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	case *UnaryExpr:
		inspectExpr(n.Operand, f)
	case *AssignExpr:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	case *TernaryExpr:
		inspectExpr(n.Condition, f)
		inspectExpr(n.Then, f)
		inspectExpr(n.Else, f)
	case *CallExpr:
		inspectExpr(n.Func, f)
		for _, a := range n.Args {
			inspectExpr(a, f)
		}
	case *TypeExpr:
		inspect(n.Type, f)
	case *IndexExpr:
		inspectExpr(n.Expr, f)
		inspectExpr(n.Index, f)
	case *MemberExpr:
		inspectExpr(n.Expr, f)
	case *InitializerList:
		for _, item := range n.Items {
			inspectExpr(item, f)
		}
	case *Ident, *Literal:
		// leaves
	}
}

// isNilNode reports whether n holds a nil pointer.
func isNilNode(n Node) bool {
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
