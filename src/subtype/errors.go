package subtype

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/tanema/subty/src/types"
)

// ContractError is the panic value raised when a malformed type expression
// reaches the checker. It is never returned as an error, a wrong answer here
// would be worse than a crash.
type ContractError struct {
	Op       string
	Operands []any
}

func (err *ContractError) Error() string {
	return fmt.Sprintf("subtype: %s reached an undefined case\n%s", err.Op, spew.Sdump(err.Operands...))
}

func contractViolation(op string, operands ...any) *ContractError {
	return &ContractError{Op: op, Operands: operands}
}

func mustBeType(op string, a, b types.Type) {
	if a == nil || b == nil {
		panic(contractViolation(op, a, b))
	}
}
