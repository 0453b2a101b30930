package codegen

import (
	"fmt"
	"strings"

	"codeberg.org/saruga/gulc/internal/ast"
)

// TextEmitter is a reference Emitter that renders a readable pseudo-IR
// rather than machine code: enough structure (blocks, named values,
// declared functions/globals) to drive development and assert against in
// tests, without committing the driver to any one real backend.
//
// Built on a strings.Builder-plus-indent-counter accumulation style, the
// same shape a pretty-printer uses, here producing an IR dump instead of
// source text.
type TextEmitter struct {
	buf       strings.Builder
	indent    int
	nextValue int
	nextBlock int
}

// NewTextEmitter creates an empty TextEmitter.
func NewTextEmitter() *TextEmitter {
	return &TextEmitter{}
}

// String returns everything emitted so far.
func (e *TextEmitter) String() string {
	return e.buf.String()
}

func (e *TextEmitter) line(format string, args ...any) {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("  ")
	}
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *TextEmitter) newValue() ValueID {
	id := ValueID(e.nextValue)
	e.nextValue++
	return id
}

// DeclareFunction implements Emitter.
func (e *TextEmitter) DeclareFunction(name string, paramTypes []ast.Type, retType ast.Type) {
	parts := make([]string, len(paramTypes))
	for i, p := range paramTypes {
		parts[i] = typeName(p)
	}
	e.line("func %s(%s) -> %s {", name, strings.Join(parts, ", "), typeName(retType))
	e.indent++
}

// DeclareGlobal implements Emitter.
func (e *TextEmitter) DeclareGlobal(name string, typ ast.Type, initial string) {
	e.line("global %s : %s = %s", name, typeName(typ), initial)
}

// CreateBlock implements Emitter.
func (e *TextEmitter) CreateBlock(label string) BlockID {
	id := BlockID(e.nextBlock)
	e.nextBlock++
	e.line("%s_%d:", label, id)
	return id
}

// SetInsertBlock implements Emitter; the text backend has no notion of
// "current" block beyond sequential emission, so this is a no-op marker.
func (e *TextEmitter) SetInsertBlock(BlockID) {}

// CreateAlloca implements Emitter.
func (e *TextEmitter) CreateAlloca(typ ast.Type, name string) ValueID {
	v := e.newValue()
	e.line("%%%d = alloca %s ; %s", v, typeName(typ), name)
	return v
}

// CreateLoad implements Emitter.
func (e *TextEmitter) CreateLoad(addr ValueID, typ ast.Type) ValueID {
	v := e.newValue()
	e.line("%%%d = load %s, %%%d", v, typeName(typ), addr)
	return v
}

// CreateStore implements Emitter.
func (e *TextEmitter) CreateStore(addr, val ValueID) {
	e.line("store %%%d, %%%d", val, addr)
}

// CreateGEP implements Emitter.
func (e *TextEmitter) CreateGEP(base ValueID, byteOffset int, name string) ValueID {
	v := e.newValue()
	e.line("%%%d = gep %%%d, %d ; %s", v, base, byteOffset, name)
	return v
}

// CreateBitCast implements Emitter.
func (e *TextEmitter) CreateBitCast(val ValueID, to ast.Type) ValueID {
	v := e.newValue()
	e.line("%%%d = bitcast %%%d to %s", v, val, typeName(to))
	return v
}

// CreateCall implements Emitter.
func (e *TextEmitter) CreateCall(callee string, args []ValueID) ValueID {
	v := e.newValue()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%%%d", a)
	}
	e.line("%%%d = call %s(%s)", v, callee, strings.Join(parts, ", "))
	return v
}

// CreateBr implements Emitter.
func (e *TextEmitter) CreateBr(target BlockID) {
	e.line("br block_%d", target)
}

// CreateCondBr implements Emitter.
func (e *TextEmitter) CreateCondBr(cond ValueID, thenBlock, elseBlock BlockID) {
	e.line("condbr %%%d, block_%d, block_%d", cond, thenBlock, elseBlock)
}

// CreateRet implements Emitter.
func (e *TextEmitter) CreateRet(val ValueID) {
	e.line("ret %%%d", val)
}

// CreateRetVoid implements Emitter.
func (e *TextEmitter) CreateRetVoid() {
	e.line("ret void")
}

// CreateArith implements Emitter.
func (e *TextEmitter) CreateArith(op ArithOp, lhs, rhs ValueID) ValueID {
	v := e.newValue()
	e.line("%%%d = %s %%%d, %%%d", v, arithOpName(op), lhs, rhs)
	return v
}

// CreateCmp implements Emitter.
func (e *TextEmitter) CreateCmp(op CmpOp, lhs, rhs ValueID) ValueID {
	v := e.newValue()
	e.line("%%%d = cmp.%s %%%d, %%%d", v, cmpOpName(op), lhs, rhs)
	return v
}

// ConstInt implements Emitter.
func (e *TextEmitter) ConstInt(typ ast.Type, text string) ValueID {
	v := e.newValue()
	e.line("%%%d = const.%s %s", v, typeName(typ), text)
	return v
}

// ConstFloat implements Emitter.
func (e *TextEmitter) ConstFloat(typ ast.Type, text string) ValueID {
	v := e.newValue()
	e.line("%%%d = const.%s %s", v, typeName(typ), text)
	return v
}

// Param implements Emitter; the text backend names parameters by negative
// indices so they never collide with a real CreateX-produced ValueID.
func (e *TextEmitter) Param(index int) ValueID {
	return ValueID(-(index + 1))
}

func typeName(t ast.Type) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case *ast.BuiltInType:
		if v.IsVoid {
			return "void"
		}
		return v.Name
	case *ast.BoolType:
		return "bool"
	case *ast.PointerType:
		return typeName(v.Inner) + "*"
	case *ast.ReferenceType:
		return typeName(v.Inner) + "&"
	case *ast.StructType:
		if v.Decl != nil {
			return v.Decl.Name.Name
		}
		return "struct"
	case *ast.EnumType:
		if v.Decl != nil {
			return v.Decl.Name.Name
		}
		return "enum"
	case *ast.TraitType:
		if v.Decl != nil {
			return v.Decl.Name.Name
		}
		return "trait"
	default:
		return "?"
	}
}

func arithOpName(op ArithOp) string {
	names := [...]string{"add", "sub", "mul", "div", "mod", "and", "or", "xor", "shl", "shr"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

func cmpOpName(op CmpOp) string {
	names := [...]string{"eq", "neq", "lt", "lte", "gt", "gte"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}
