package wasm

import "github.com/wippyai/wasm-toolcheck/wasm/internal/binary"

// Expr builds an instruction sequence for a function body or constant expression.
type Expr struct {
	w binary.Writer
}

// NewExpr returns an empty expression.
func NewExpr() *Expr {
	return &Expr{}
}

// Op appends an opcode with no immediates.
func (e *Expr) Op(op byte) *Expr {
	e.w.Byte(op)
	return e
}

// I32Const appends i32.const v.
func (e *Expr) I32Const(v int32) *Expr {
	e.w.Byte(OpI32Const)
	e.w.WriteS32(v)
	return e
}

// LocalGet appends local.get idx.
func (e *Expr) LocalGet(idx uint32) *Expr {
	e.w.Byte(OpLocalGet)
	e.w.WriteU32(idx)
	return e
}

// Call appends call funcIdx.
func (e *Expr) Call(funcIdx uint32) *Expr {
	e.w.Byte(OpCall)
	e.w.WriteU32(funcIdx)
	return e
}

// I32Store appends i32.store with alignment exponent align and static offset.
func (e *Expr) I32Store(align, offset uint32) *Expr {
	e.w.Byte(OpI32Store)
	e.w.WriteU32(align)
	e.w.WriteU32(offset)
	return e
}

// Drop appends drop.
func (e *Expr) Drop() *Expr {
	return e.Op(OpDrop)
}

// End terminates the expression and returns its bytes.
func (e *Expr) End() []byte {
	e.w.Byte(OpEnd)
	return e.w.Bytes()
}
