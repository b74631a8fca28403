package sema

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
)

// Op is an operator handed to Unary and Binary.
type Op uint8

const (
	OpInvalid Op = iota
	OpAssign
	OpAssignInitial
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpOr
	OpAnd
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNot
	OpNeg
	OpPos
)

var opNames = [...]string{
	OpInvalid:       "<invalid>",
	OpAssign:        "=",
	OpAssignInitial: "=",
	OpAddAssign:     "+=",
	OpSubAssign:     "-=",
	OpMulAssign:     "*=",
	OpDivAssign:     "/=",
	OpOr:            "||",
	OpAnd:           "&&",
	OpEq:            "==",
	OpNe:            "!=",
	OpLt:            "<",
	OpGt:            ">",
	OpLe:            "<=",
	OpGe:            ">=",
	OpAdd:           "+",
	OpSub:           "-",
	OpMul:           "*",
	OpDiv:           "/",
	OpNot:           "!",
	OpNeg:           "-",
	OpPos:           "+",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpInvalid]
}

// IsAssign reports whether o stores into its left operand.
func (o Op) IsAssign() bool { return o >= OpAssign && o <= OpDivAssign }

// Binary types "lhs op rhs". Assignments take the left type after casting
// the right side, comparisons and logic give bool, arithmetic gives the left
// operand's type.
func (c *Context) Binary(lhs, rhs Value, op Op, sp source.Span) Value {
	switch {
	case op.IsAssign():
		if !lhs.HasType() {
			return Value{}
		}
		// var справа проходит каст без изменения типа
		if r := c.ImplicitCast(rhs, lhs.Type, sp); r.HasType() {
			return Typed(lhs.Type).At(sp)
		}
		return Value{}
	case op >= OpOr && op <= OpGe:
		return Typed(c.s.builtins.Bool).At(sp)
	case op >= OpAdd && op <= OpDiv:
		if lhs.HasType() {
			return Typed(lhs.Type).At(sp)
		}
		return Value{}
	default:
		return Value{}
	}
}

// Unary types "op v".
func (c *Context) Unary(v Value, op Op, sp source.Span) Value {
	if op == OpNot {
		return Typed(c.s.builtins.Bool).At(sp)
	}
	return v.At(sp)
}

// Condition checks the controlling expression of if/while/for. Any value
// except void can be tested.
func (c *Context) Condition(v Value, sp source.Span) Value {
	if v.HasType() && v.Type == c.s.builtins.Void {
		c.semErr(diag.SemaTypeMismatch, sp, "Expected type %s, not %s", c.typeName(c.s.builtins.Bool), c.typeName(v.Type))
		return Value{}
	}
	return Typed(c.s.builtins.Bool).At(sp)
}
