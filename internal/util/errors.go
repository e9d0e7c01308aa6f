package util

import "errors"

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidState
	KindValidation
	KindDependency
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindValidation:
		return "validation"
	case KindDependency:
		return "dependency"
	default:
		return "internal"
	}
}

// AppError carries a kind that the HTTP layer maps to a status code.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap attaches kind and message to an underlying error.
func Wrap(kind ErrorKind, message string, err error) error {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the outermost AppError in err's chain.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

var (
	ErrSessionNotFound       = NewError(KindNotFound, "diagnostic session not found")
	ErrSessionNotActive      = NewError(KindInvalidState, "diagnostic session is not in progress")
	ErrSessionNotCompleted   = NewError(KindInvalidState, "diagnostic session is not completed")
	ErrTemplateNotFound      = NewError(KindNotFound, "diagnostic template not found")
	ErrTemplateInactive      = NewError(KindInvalidState, "diagnostic template is not active")
	ErrQuestionNotInTemplate = NewError(KindValidation, "question does not belong to the session template")
	ErrInvalidResponseValue  = NewError(KindValidation, "response value out of range")
	ErrRecommendationsFailed = NewError(KindDependency, "recommendations could not be generated")
)
