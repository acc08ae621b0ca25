package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorage           = errors.New("falla de almacenamiento")
	ErrProtocol          = errors.New("solicitud mal formada")
)

// Error error de dominio con mensaje para el cliente; errors.Is(err, Kind) es verdadero.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Invalid error de validación (ErrInvalidInput).
func Invalid(msg string) error { return &Error{Kind: ErrInvalidInput, Msg: msg} }

// NotFound entidad referenciada inexistente (ErrNotFound).
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }

// Conflict operación bloqueada por el estado actual (ErrConflict).
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Msg: msg} }

// Protocol solicitud mal formada (ErrProtocol).
func Protocol(msg string) error { return &Error{Kind: ErrProtocol, Msg: msg} }

// InsufficientStock salida rechazada por dejar el stock negativo.
func InsufficientStock(msg string) error { return &Error{Kind: ErrInsufficientStock, Msg: msg} }

// StorageError describe el paso de persistencia que falló.
// errors.Is(err, ErrStorage) es verdadero para cualquier StorageError.
type StorageError struct {
	Step string
	Err  error
}

// Storage construye un StorageError; nil si err es nil.
func Storage(step string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Step: step, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// IsValidation es verdadero para errores que el cliente puede corregir.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInsufficientStock)
}
