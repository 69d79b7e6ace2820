package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("saldo insuficiente en la ubicación de origen")
	ErrConcurrentUpdate   = errors.New("conflicto de concurrencia sobre el saldo")
	ErrIntegrityViolation = errors.New("violación de integridad del kardex")
)
