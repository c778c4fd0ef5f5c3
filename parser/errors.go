package parser

import "fmt"

// ContractError reports a violated invariant of the parser core: a defect in
// the core or in a grammar, never in the input text. It is raised with panic.
type ContractError struct {
	Op      string
	Message string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("parser: %s: %s", e.Op, e.Message)
}

func contractf(op, format string, args ...any) *ContractError {
	return &ContractError{Op: op, Message: fmt.Sprintf(format, args...)}
}
