package ast

import "fmt"

// Op is a unary or binary operator.
type Op uint8

const (
	OpInvalid Op = iota

	// binary
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLogAnd
	OpLogOr

	// unary
	OpNeg
	OpNot
	OpBitNot
	OpAddr
	OpDeref
)

var opInfo = [...]struct {
	token string
	name  string
}{
	OpInvalid: {"<invalid>", "invalid"},
	OpAdd:     {"+", "add"},
	OpSub:     {"-", "sub"},
	OpMul:     {"*", "mul"},
	OpDiv:     {"/", "div"},
	OpRem:     {"%", "rem"},
	OpBitAnd:  {"&", "and"},
	OpBitOr:   {"|", "or"},
	OpBitXor:  {"^", "xor"},
	OpShl:     {"<<", "shl"},
	OpShr:     {">>", "shr"},
	OpEq:      {"==", "eq"},
	OpNe:      {"!=", "ne"},
	OpLt:      {"<", "lt"},
	OpLe:      {"<=", "le"},
	OpGt:      {">", "gt"},
	OpGe:      {">=", "ge"},
	OpLogAnd:  {"&&", "land"},
	OpLogOr:   {"||", "lor"},
	OpNeg:     {"-", "neg"},
	OpNot:     {"!", "not"},
	OpBitNot:  {"~", "bitnot"},
	OpAddr:    {"&", "addr"},
	OpDeref:   {"*", "deref"},
}

// String returns the operator as written in source.
func (op Op) String() string {
	if int(op) < len(opInfo) {
		return opInfo[op].token
	}
	return fmt.Sprintf("Op(%d)", op)
}

// Name is an identifier-safe spelling used for symbol names.
func (op Op) Name() string {
	if int(op) < len(opInfo) {
		return opInfo[op].name
	}
	return fmt.Sprintf("op%d", op)
}

func (op Op) IsUnary() bool {
	return op >= OpNeg && op <= OpDeref
}

func (op Op) IsBinary() bool {
	return op >= OpAdd && op <= OpLogOr
}

func (op Op) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

func (op Op) IsLogical() bool {
	return op == OpLogAnd || op == OpLogOr
}

// Overloadable reports whether user code may declare operator<op>.
func (op Op) Overloadable() bool {
	switch op {
	case OpInvalid, OpLogAnd, OpLogOr, OpAddr, OpDeref:
		return false
	}
	return int(op) < len(opInfo)
}

// OperatorSetName is the overload set name under which operator<op>
// declarations are grouped.
func (op Op) OperatorSetName() string {
	return "operator" + op.String()
}
