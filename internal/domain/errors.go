package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrPlanLimitExceeded  = errors.New("límite de certificados del plan superado")
	ErrPlanExpired        = errors.New("el plan de la empresa está vencido")
	ErrCompanyInactive    = errors.New("la empresa no está activa")
	ErrRevoked            = errors.New("el certificado está revocado")
	ErrInvalidFile        = errors.New("archivo inválido")
	ErrTooLarge           = errors.New("el archivo supera el tamaño permitido")
	ErrMailerDisabled     = errors.New("el envío de correo no está configurado")
)
