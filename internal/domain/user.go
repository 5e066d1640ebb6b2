package domain

import (
	"strings"
	"time"
)

// Role es el rol cerrado de un usuario en la plataforma.
type Role string

const (
	RoleStandard Role = "user"
	RoleCreator  Role = "creator"
	RoleAdmin    Role = "admin"
)

// ParseRole convierte el valor persistido en un Role válido.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStandard, RoleCreator, RoleAdmin:
		return r, nil
	default:
		return "", ErrInvalidInput
	}
}

// RoleFromHint interpreta el header de rol del modo de confianza.
// Solo acepta standard y admin; cualquier otro valor cae en standard.
func RoleFromHint(hint string) Role {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "admin":
		return RoleAdmin
	default:
		return RoleStandard
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Handle            *string   `json:"username"`
	DisplayName       string    `json:"display_name,omitempty"`
	Bio               string    `json:"bio_description,omitempty"`
	ProfileImageURL   string    `json:"profile_image_url,omitempty"`
	Role              Role      `json:"role"`
	IsCreator         bool      `json:"is_creator"`
	IsCreatorVerified bool      `json:"is_creator_verified"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// ProfileCompleted indica si el usuario ya eligió un handle público.
func (u User) ProfileCompleted() bool {
	return u.Handle != nil && *u.Handle != ""
}

// PromoteToCreator aplica el upgrade de creator. verified=false deja al
// usuario como creator pendiente de revisión manual.
func (u *User) PromoteToCreator(verified bool) {
	u.IsCreator = true
	u.IsCreatorVerified = verified
	if u.Role != RoleAdmin {
		u.Role = RoleCreator
	}
}

// NormalizeEmail deja el email en minúsculas y sin espacios.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
