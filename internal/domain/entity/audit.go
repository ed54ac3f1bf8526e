package entity

import "time"

// Audit campos de auditoría compartidos por las entidades del catálogo y el libro de movimientos.
// CreatedBy/UpdatedBy guardan el user_id del token (vacío si la petición no vino autenticada).
type Audit struct {
	CreatedBy string
	CreatedAt time.Time
	UpdatedBy string
	UpdatedAt time.Time
}

// Touch marca la modificación con el usuario y la hora indicados.
func (a *Audit) Touch(userID string, now time.Time) {
	a.UpdatedBy = userID
	a.UpdatedAt = now
}

// NewAudit inicializa creación y modificación con los mismos valores.
func NewAudit(userID string, now time.Time) Audit {
	return Audit{CreatedBy: userID, CreatedAt: now, UpdatedBy: userID, UpdatedAt: now}
}
