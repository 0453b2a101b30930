// Package session holds the single mutable pass-object instance that is
// threaded through one compilation (spec.md §5): the file currently being
// processed, the stack of enclosing template-parameter lists, and the stack
// of containing declarations. The template-instantiation memo is not kept
// here; each generic declaration holds its own TemplateInstantiations map.
//
// Session keeps exactly this kind of "current context" field set, but
// spans every pass of one compilation rather than a single-pass tree walk.
package session

import (
	"github.com/google/uuid"

	"codeberg.org/saruga/gulc/internal/diagnostic"
)

// Arena is the single allocation point for AST nodes belonging to one
// compilation. spec.md §9 flags the cyclic Decl<->Decl graph as requiring
// re-architecture away from manual new/delete; Go's GC already collects
// cycles, so Arena exists only to centralize node construction (useful for
// template-instantiation deep-copy and any future serialization), not for
// manual memory management.
type Arena struct {
	nodeCount int
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// NextID returns a monotonically increasing id. No package in gulc calls
// it; nodes and memoization keys carry no id from it.
func (a *Arena) NextID() int {
	a.nodeCount++
	return a.nodeCount
}

// Session is the per-compilation pass-object state described in spec.md §5.
type Session struct {
	// RunID correlates every diagnostic produced by one compilation run.
	RunID string

	Arena *Arena
	Diags *diagnostic.List

	// CurrentFile is the path of the source file the active pass is
	// currently walking.
	CurrentFile string

	containerStack []any
	templateStack  []any

	aborted bool
}

// New creates a Session with a fresh RunID and an empty Arena.
func New() *Session {
	return &Session{
		RunID: uuid.NewString(),
		Arena: NewArena(),
		Diags: diagnostic.NewList(),
	}
}

// PushContainer saves the active containing-declaration stack entry. Callers
// must invoke the returned restore function (typically via defer) on every
// exit path (save-and-restore discipline).
func (s *Session) PushContainer(decl any) (restore func()) {
	s.containerStack = append(s.containerStack, decl)
	return func() {
		s.containerStack = s.containerStack[:len(s.containerStack)-1]
	}
}

// CurrentContainer returns the innermost containing declaration, or nil at
// file scope.
func (s *Session) CurrentContainer() any {
	if len(s.containerStack) == 0 {
		return nil
	}
	return s.containerStack[len(s.containerStack)-1]
}

// ContainerStack returns the stack, innermost last, for callers that need to
// search it (e.g. internal/resolve's enclosing-decls search, spec.md §4.4
// step 3).
func (s *Session) ContainerStack() []any {
	return s.containerStack
}

// PushTemplateParams saves the active template-parameter-list stack entry.
// Grounded on the same discipline as PushContainer; kept separate because
// spec.md §5 describes them as two distinct stacks (nested templates need
// both the containing decl and the containing template-parameter list).
func (s *Session) PushTemplateParams(params any) (restore func()) {
	s.templateStack = append(s.templateStack, params)
	return func() {
		s.templateStack = s.templateStack[:len(s.templateStack)-1]
	}
}

// TemplateParamStack returns the stack, innermost last, used by
// internal/resolve step 2 (spec.md §4.4).
func (s *Session) TemplateParamStack() []any {
	return s.templateStack
}

// Abort marks the session as having hit a fatal condition. Passes should
// check HasAborted after each unit of work and stop early, matching spec.md
// §7's "no recovery; no continued compilation after the first error."
func (s *Session) Abort() {
	s.aborted = true
}

// HasAborted reports whether a fatal diagnostic has already been reported.
func (s *Session) HasAborted() bool {
	return s.aborted || s.Diags.HasErrors()
}

// Result carries a pass's output value alongside any diagnostics it
// produced, replacing the source language's exceptions-for-control-flow
// (spec.md §9's redesign flag): passes report failure by returning a zero
// value with an Error-severity diagnostic in Diags rather than panicking.
// panic/recover is reserved for CodeInternal invariant violations only (the
// failure model of spec.md §4.8).
type Result[T any] struct {
	Value T
	Ok    bool
}

// Ok wraps a successful pass result.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Ok: true}
}

// Fail wraps a failed pass result; the caller is expected to have already
// added a diagnostic to the session's Diags list describing why.
func Fail[T any]() Result[T] {
	var zero T
	return Result[T]{Value: zero, Ok: false}
}
