package tools

import (
	"errors"
	"fmt"
)

var ErrDuplicateTool = errors.New("tool registered twice")

// UnknownToolError reports a tool name the model asked for that the
// registry does not serve.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ArgumentError reports an argument object that failed to parse or
// validate for a known tool.
type ArgumentError struct {
	Tool ToolID
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// IncompleteRegistryError lists tools that have no handler.
type IncompleteRegistryError struct {
	Missing []ToolID
}

func (e *IncompleteRegistryError) Error() string {
	return fmt.Sprintf("registry is missing handlers for %v", e.Missing)
}
