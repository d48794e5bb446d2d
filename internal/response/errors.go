package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrMissingField     ErrCode = "MISSING_FIELD"
	ErrInvalidSignature ErrCode = "INVALID_SIGNATURE"
	ErrInvalidID        ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Correo o contraseña incorrectos."
	case ErrTokenRequired:
		return "No autorizado."
	case ErrTokenInvalid:
		return "Token inválido."
	case ErrForbidden:
		return "No autorizado para realizar esta acción."
	case ErrMissingField:
		return "Faltan campos obligatorios o son inválidos."
	case ErrInvalidSignature:
		return "Formato de firma inválido."
	case ErrInvalidID:
		return "Formato de ID inválido."
	case ErrNotFound:
		return "Registro no encontrado."
	case ErrConflict:
		return "El docente ya existe."
	case ErrRateLimitExceeded:
		return "Demasiadas solicitudes. Intente de nuevo más tarde."
	case ErrInternal:
		return "Error interno del servidor."
	default:
		return "Ocurrió un error inesperado."
	}
}
