package flow

import (
	"errors"
	"fmt"
)

// ErrorCode classifies recoverable core errors.
type ErrorCode string

const (
	CodeNodeNotFound  ErrorCode = "NODE_NOT_FOUND"
	CodeEdgeNotFound  ErrorCode = "EDGE_NOT_FOUND"
	CodeExtentInvalid ErrorCode = "NODE_EXTENT_INVALID"
)

// Sentinels for errors.Is.
var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrEdgeNotFound  = errors.New("edge not found")
	ErrExtentInvalid = errors.New("node extent invalid")
)

// Error is a recoverable condition surfaced through an error callback.
// The operation that raised it has already continued with a safe default.
type Error struct {
	Code ErrorCode
	ID   string
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeNodeNotFound:
		return fmt.Sprintf("%s: node %q not found", e.Code, e.ID)
	case CodeEdgeNotFound:
		return fmt.Sprintf("%s: edge %q not found", e.Code, e.ID)
	case CodeExtentInvalid:
		return fmt.Sprintf("%s: parent extent for node %q needs a parent and known dimensions", e.Code, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.ID)
}

// Unwrap maps the code to its sentinel.
func (e *Error) Unwrap() error {
	switch e.Code {
	case CodeNodeNotFound:
		return ErrNodeNotFound
	case CodeEdgeNotFound:
		return ErrEdgeNotFound
	case CodeExtentInvalid:
		return ErrExtentInvalid
	}
	return nil
}

// NewError creates an Error for the given code and element ID.
func NewError(code ErrorCode, id string) error {
	return &Error{Code: code, ID: id}
}

// ErrorHandler receives recoverable errors.
type ErrorHandler func(error)

// Report calls h with err when both are non-nil.
func (h ErrorHandler) Report(err error) {
	if h != nil && err != nil {
		h(err)
	}
}
