package pdf

import (
	"fmt"
)

// ErrorCode categorises failures of page selection and composition
type ErrorCode string

const (
	CodeMalformedRangeToken ErrorCode = "MALFORMED_RANGE_TOKEN"
	CodeEmptySelection      ErrorCode = "EMPTY_SELECTION"
	CodeInsufficientInput   ErrorCode = "INSUFFICIENT_INPUT"
	CodeDocumentLoad        ErrorCode = "DOCUMENT_LOAD_FAILURE"
	CodePageCountMismatch   ErrorCode = "PAGE_COUNT_MISMATCH"
	CodeSerialize           ErrorCode = "SERIALIZE_FAILURE"
)

// Sentinels for errors.Is. Matching is done by code only.
var (
	ErrMalformedRangeToken = &Error{Code: CodeMalformedRangeToken}
	ErrEmptySelection      = &Error{Code: CodeEmptySelection}
	ErrInsufficientInput   = &Error{Code: CodeInsufficientInput}
	ErrDocumentLoad        = &Error{Code: CodeDocumentLoad}
	ErrPageCountMismatch   = &Error{Code: CodePageCountMismatch}
	ErrSerialize           = &Error{Code: CodeSerialize}
)

// Error is the structured error returned by the parser and the composer
type Error struct {
	Code    ErrorCode
	Message string
	Token   string // offending range token, if any
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func malformedToken(token string) *Error {
	return &Error{
		Code:    CodeMalformedRangeToken,
		Message: fmt.Sprintf("invalid page range: %s", token),
		Token:   token,
	}
}

func emptySelection() *Error {
	return &Error{Code: CodeEmptySelection, Message: "no valid pages selected"}
}

func insufficientInput(got int) *Error {
	return &Error{
		Code:    CodeInsufficientInput,
		Message: fmt.Sprintf("at least %d documents are required to merge, got %d", MinMergeInputs, got),
	}
}

func loadFailure(position int, cause error) *Error {
	msg := "failed to open document"
	if position > 0 {
		msg = fmt.Sprintf("failed to open document %d", position)
	}
	return &Error{Code: CodeDocumentLoad, Message: msg, Cause: cause}
}

func pageCountMismatch(page, totalPages int) *Error {
	return &Error{
		Code:    CodePageCountMismatch,
		Message: fmt.Sprintf("page %d exceeds total pages (%d)", page, totalPages),
	}
}

func serializeFailure(cause error) *Error {
	return &Error{Code: CodeSerialize, Message: "failed to write document", Cause: cause}
}
