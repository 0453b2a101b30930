// Package lexer tokenizes gulc source text: ASCII fast-path
// character-classification tables with a Unicode slow-path fallback, one
// token of lookahead, plus an arbitrary-depth checkpoint stack for the
// parser's speculative template-argument lookahead and a toggleable
// right-shift-splitting mode for closing nested template argument lists.
package lexer

import "codeberg.org/saruga/gulc/internal/sourcemap"

// Kind is the token's lexical category.
type Kind uint16

const (
	EOF Kind = iota
	Ident
	IntLiteral
	FloatLiteral
	CharLiteral
	StringLiteral

	// Keywords
	KwNamespace
	KwImport
	KwAs
	KwIs
	KwHas
	KwStruct
	KwClass
	KwUnion
	KwTrait
	KwEnum
	KwExtension
	KwFunc
	KwInit
	KwDeinit
	KwCall
	KwOperator
	KwPrefix
	KwInfix
	KwPostfix
	KwSubscript
	KwProperty
	KwGet
	KwSet
	KwRef
	KwTypealias
	KwTypesuffix
	KwVar
	KwLet
	KwConst
	KwPublic
	KwPrivate
	KwProtected
	KwInternal
	KwStatic
	KwExtern
	KwMut
	KwImmut
	KwVolatile
	KwAbstract
	KwVirtual
	KwOverride
	KwVal
	KwIn
	KwOut
	KwInout
	KwWhere
	KwRequires
	KwEnsures
	KwThrows
	KwIf
	KwElse
	KwWhile
	KwDo
	KwFor
	KwSwitch
	KwCase
	KwDefault
	KwFallthrough
	KwBreak
	KwContinue
	KwGoto
	KwReturn
	KwCatch
	KwFinally
	KwCopy
	KwMove
	KwSelf
	KwTrue
	KwFalse
	KwCopyKw

	// Punctuation / operators
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	Arrow // ->
	FatArrow
	Colon
	Semi
	At
	Question
	Amp

	Plus
	Minus
	Star
	Slash
	Percent
	Pipe
	Caret
	Tilde
	Bang
	Shl
	// Shr is only produced when right-shift-splitting is disabled; when
	// enabled, two adjacent '>' are lexed as two TemplateEnd tokens (below).
	Shr

	AmpAmp
	PipePipe

	Eq
	EqEq
	BangEq
	Less
	LessEq
	Greater
	GreaterEq

	PlusPlus
	MinusMinus

	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq

	// TemplateEnd is a physical '>' consumed while right-shift-splitting is
	// enabled (spec.md §4.1): "a physical > always yields TEMPLATEEND [when
	// disabled]... two adjacent > yield two TEMPLATEENDs rather than one >>".
	TemplateEnd

	Underscore
)

var keywords = map[string]Kind{
	"namespace": KwNamespace, "import": KwImport, "as": KwAs, "is": KwIs, "has": KwHas,
	"struct": KwStruct, "class": KwClass, "union": KwUnion, "trait": KwTrait, "enum": KwEnum,
	"extension": KwExtension, "func": KwFunc, "init": KwInit, "deinit": KwDeinit, "call": KwCall,
	"operator": KwOperator, "prefix": KwPrefix, "infix": KwInfix, "postfix": KwPostfix,
	"subscript": KwSubscript, "property": KwProperty, "get": KwGet, "set": KwSet, "ref": KwRef,
	"typealias": KwTypealias, "typesuffix": KwTypesuffix, "var": KwVar, "let": KwLet, "const": KwConst,
	"public": KwPublic, "private": KwPrivate, "protected": KwProtected, "internal": KwInternal,
	"static": KwStatic, "extern": KwExtern, "mut": KwMut, "immut": KwImmut, "volatile": KwVolatile,
	"abstract": KwAbstract, "virtual": KwVirtual, "override": KwOverride,
	"val": KwVal, "in": KwIn, "out": KwOut, "inout": KwInout,
	"where": KwWhere, "requires": KwRequires, "ensures": KwEnsures, "throws": KwThrows,
	"if": KwIf, "else": KwElse, "while": KwWhile, "do": KwDo, "for": KwFor,
	"switch": KwSwitch, "case": KwCase, "default": KwDefault, "fallthrough": KwFallthrough,
	"break": KwBreak, "continue": KwContinue, "goto": KwGoto, "return": KwReturn,
	"catch": KwCatch, "finally": KwFinally, "copy": KwCopy, "move": KwMove,
	"self": KwSelf, "true": KwTrue, "false": KwFalse, "_": Underscore,
}

// Token is one lexed unit.
type Token struct {
	Kind  Kind
	Text  string
	Start sourcemap.Position
	End   sourcemap.Position
	// StartOffset/EndOffset are byte offsets into the source, used by the
	// checkpoint/rewind mechanism.
	StartOffset, EndOffset int
}
