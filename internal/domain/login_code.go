package domain

import "time"

// LoginCodeTTL es la ventana de validez de un código de acceso.
const LoginCodeTTL = 10 * time.Minute

// LoginCode es un código de un solo uso enviado por email.
// El código en claro nunca se persiste, solo su hash.
type LoginCode struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

func (c LoginCode) ValidAt(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}
