package codegen

import "codeberg.org/saruga/gulc/internal/ast"

// BlockID identifies one basic block within a function body being emitted.
type BlockID int

// ValueID identifies one value produced by an Emitter call (an SSA value, a
// register, a temporary name — whatever the concrete Emitter represents
// values as).
type ValueID int

// ArithOp enumerates the arithmetic/bitwise binary operations the driver
// lowers BinaryExpr into.
type ArithOp uint8

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithMod
	ArithAnd
	ArithOr
	ArithXor
	ArithShl
	ArithShr
)

// CmpOp enumerates the relational comparisons the driver lowers BinaryExpr
// into.
type CmpOp uint8

const (
	CmpEq CmpOp = iota
	CmpNeq
	CmpLt
	CmpLte
	CmpGt
	CmpGte
)

// Emitter is the abstract code-generation sink the driver (driver.go)
// drives. The driver never assumes a concrete SSA representation, LLVM
// binding, or object format — it only calls these methods, the same way a
// pretty-printer is the sole thing that knows how to render a tree to
// text. codegen generalizes "render to a string" into "render to whatever
// this Emitter happens to back onto" (a textual pseudo-IR here, potentially
// a real SSA builder or object-file writer elsewhere).
type Emitter interface {
	DeclareFunction(name string, paramTypes []ast.Type, retType ast.Type)
	DeclareGlobal(name string, typ ast.Type, initial string)

	CreateBlock(label string) BlockID
	SetInsertBlock(b BlockID)

	CreateAlloca(typ ast.Type, name string) ValueID
	CreateLoad(addr ValueID, typ ast.Type) ValueID
	CreateStore(addr, val ValueID)
	CreateGEP(base ValueID, byteOffset int, name string) ValueID
	CreateBitCast(val ValueID, to ast.Type) ValueID

	CreateCall(callee string, args []ValueID) ValueID

	CreateBr(target BlockID)
	CreateCondBr(cond ValueID, thenBlock, elseBlock BlockID)
	CreateRet(val ValueID)
	CreateRetVoid()

	CreateArith(op ArithOp, lhs, rhs ValueID) ValueID
	CreateCmp(op CmpOp, lhs, rhs ValueID) ValueID

	ConstInt(typ ast.Type, text string) ValueID
	ConstFloat(typ ast.Type, text string) ValueID

	// Param returns the value bound to parameter index (0 is sret when
	// present, then self for member functions, then the declared
	// parameters in order — see SretPlan).
	Param(index int) ValueID
}
