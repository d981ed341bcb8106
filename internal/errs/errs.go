package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

// ValidationError — некорректное или отсутствующее обязательное поле
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateSequenceError — коллизия sequence_order внутри BOM или маршрута
type DuplicateSequenceError struct {
	Scope         string
	SequenceOrder int
}

func (e *DuplicateSequenceError) Error() string {
	return fmt.Sprintf("duplicate sequence_order %d in %s", e.SequenceOrder, e.Scope)
}

func (e *DuplicateSequenceError) Is(target error) bool {
	return target == ErrValidation
}

type UnknownComponentTypeError struct {
	ComponentID   int64
	ComponentType string
}

func (e *UnknownComponentTypeError) Error() string {
	return fmt.Sprintf("component %d: unknown component_type %q", e.ComponentID, e.ComponentType)
}

type InvalidStatusTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("%s: invalid status transition %s -> %s", e.Entity, e.From, e.To)
}

// HTTPStatus сопоставляет доменную ошибку с кодом ответа
func HTTPStatus(err error) int {
	var (
		dup        *DuplicateSequenceError
		unknown    *UnknownComponentTypeError
		transition *InvalidStatusTransitionError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &dup):
		return http.StatusConflict
	case errors.As(err, &unknown):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transition):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает текст, который можно показать пользователю
func Message(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}

	var (
		validation *ValidationError
		dup        *DuplicateSequenceError
		unknown    *UnknownComponentTypeError
		transition *InvalidStatusTransitionError
	)

	switch {
	case errors.As(err, &dup):
		return dup.Error()
	case errors.As(err, &unknown):
		return unknown.Error()
	case errors.As(err, &transition):
		return transition.Error()
	case errors.As(err, &validation):
		return validation.Error()
	case errors.Is(err, ErrNotFound):
		return "Not found"
	default:
		return err.Error()
	}
}
