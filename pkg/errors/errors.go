package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes for the ingestion and query pipelines. The user-facing
// Message stays generic; wrapped detail goes to logs only.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeExtraction  = "EXTRACTION_ERROR"
	CodeChunking    = "CHUNKING_ERROR"
	CodeEmbedding   = "EMBEDDING_ERROR"
	CodeStore       = "STORE_ERROR"
	CodeGeneration  = "GENERATION_ERROR"
	CodePersistence = "PERSISTENCE_ERROR"
)

// Predefined errors
var (
	ErrNotFound = &AppError{
		Code:    "NOT_FOUND",
		Message: "Resource not found",
		Status:  http.StatusNotFound,
	}

	ErrBadRequest = &AppError{
		Code:    "BAD_REQUEST",
		Message: "Invalid request",
		Status:  http.StatusBadRequest,
	}

	ErrInternalServer = &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}

	ErrValidation = &AppError{
		Code:    CodeValidation,
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
	}
)

func NewError(code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

func WrapError(err error, code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Extraction wraps an extraction-stage failure. kind is one of
// "network", "timeout", "empty-content", "parse".
func Extraction(kind string, err error) *AppError {
	return &AppError{
		Code:    CodeExtraction,
		Message: fmt.Sprintf("content extraction failed (%s)", kind),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

func Embedding(message string, err error) *AppError {
	return &AppError{
		Code:    CodeEmbedding,
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

func Store(message string, err error) *AppError {
	return &AppError{
		Code:    CodeStore,
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

func Generation(err error) *AppError {
	return &AppError{
		Code:    CodeGeneration,
		Message: "answer generation failed",
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// CodeOf returns the AppError code for err, or INTERNAL_ERROR when err
// carries no code.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternalServer.Code
}

// ErrorResponse is a common error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
