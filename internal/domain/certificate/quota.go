package certificate

import (
	"fmt"

	"github.com/jhoicas/vaxa-api/internal/domain"
)

// Unlimited es lo que devuelve Remaining cuando el plan no tiene tope.
const Unlimited = -1

// Remaining devuelve cuántos certificados le quedan a la empresa.
// limit 0 significa plan ilimitado. Nunca devuelve negativos salvo Unlimited.
func Remaining(limit, issued int) int {
	if limit <= 0 {
		return Unlimited
	}
	if issued >= limit {
		return 0
	}
	return limit - issued
}

// CheckQuota valida que se puedan emitir requested certificados más.
func CheckQuota(limit, issued, requested int) error {
	if requested < 0 {
		return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	left := Remaining(limit, issued)
	if left == Unlimited || requested <= left {
		return nil
	}
	return fmt.Errorf("%w: se solicitaron %d y quedan %d de %d", domain.ErrPlanLimitExceeded, requested, left, limit)
}
